// Package report renders solver results as plain text. Weights and priorities
// are always printed with two decimals.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/eugenenazirov/parcel-planner/internal/knapsack"
)

// Write prints one result block:
//
//	--- Greedy Algorithm ---
//	Selected Packages: [Package(id='PKG-2', ...), ...]
//	Total Weight: 17.17
//	Total Priority: 25.36
func Write(w io.Writer, res knapsack.Result) error {
	selected := make([]string, 0, len(res.Selected))
	for _, it := range res.Selected {
		selected = append(selected, it.String())
	}

	_, err := fmt.Fprintf(w, "\n--- %s ---\nSelected Packages: [%s]\nTotal Weight: %s\nTotal Priority: %s\n",
		res.Algorithm.Title(),
		strings.Join(selected, ", "),
		FormatAmount(res.TotalWeight),
		FormatAmount(res.TotalPriority),
	)
	return err
}

// WriteAll prints every result in order, stopping at the first write error.
func WriteAll(w io.Writer, results []knapsack.Result) error {
	for _, res := range results {
		if err := Write(w, res); err != nil {
			return err
		}
	}
	return nil
}

// FormatAmount formats a weight or priority with two decimals.
func FormatAmount(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
