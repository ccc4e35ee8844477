package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/eugenenazirov/parcel-planner/internal/knapsack"
)

func TestWrite(t *testing.T) {
	res := knapsack.Result{
		Algorithm: knapsack.DynamicProgramming,
		Selected: []knapsack.Item{
			{ID: "B", Weight: 20, Priority: 100},
			{ID: "C", Weight: 30, Priority: 120},
		},
		TotalWeight:   50,
		TotalPriority: 220,
	}

	var buf bytes.Buffer
	if err := Write(&buf, res); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"--- Dynamic Programming ---",
		"Selected Packages: [Package(id='B', weight=20, volume=0, priority=100, customer_demand=0, delivery_deadline=0), Package(id='C',",
		"Total Weight: 50.00\n",
		"Total Priority: 220.00\n",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestWriteAllEmptySelection(t *testing.T) {
	var buf bytes.Buffer
	results := []knapsack.Result{
		{Algorithm: knapsack.Greedy, Selected: []knapsack.Item{}},
		{Algorithm: knapsack.BranchAndBound, Selected: []knapsack.Item{}},
	}
	if err := WriteAll(&buf, results); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := strings.Count(buf.String(), "Selected Packages: []"); got != 2 {
		t.Fatalf("expected two empty selections, got %d in:\n%s", got, buf.String())
	}
	if !strings.Contains(buf.String(), "--- Branch and Bound ---") {
		t.Fatalf("missing branch and bound title:\n%s", buf.String())
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestWriteAllPropagatesErrors(t *testing.T) {
	err := WriteAll(failingWriter{}, []knapsack.Result{{Algorithm: knapsack.Greedy}})
	if err == nil {
		t.Fatalf("expected write error")
	}
}

func TestFormatAmount(t *testing.T) {
	cases := map[float64]string{
		17.169999999999998: "17.17",
		25.36:              "25.36",
		0:                  "0.00",
		3.005:              "3.00",
	}
	for in, want := range cases {
		if got := FormatAmount(in); got != want {
			t.Fatalf("FormatAmount(%v) = %s, want %s", in, got, want)
		}
	}
}
