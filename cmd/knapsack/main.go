package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/parcel-planner/internal/knapsack"
	"github.com/eugenenazirov/parcel-planner/internal/logging"
	"github.com/eugenenazirov/parcel-planner/internal/report"
	"github.com/eugenenazirov/parcel-planner/internal/storage"
)

// catalogFile is the YAML layout accepted by --file.
type catalogFile struct {
	Capacity *float64        `yaml:"capacity"`
	Packages []knapsack.Item `yaml:"packages"`
}

type runOptions struct {
	file       string
	capacity   float64
	algorithm  string
	resolution float64
	strategy   string
	maxQueue   int
}

func main() {
	app := kingpin.New("knapsack", "Select the highest priority parcels that fit a weight budget and print the result of each solver")
	opts := runOptions{}
	app.Flag("file", "YAML catalog file (capacity + packages); built-in sample when omitted").Short('f').StringVar(&opts.file)
	app.Flag("capacity", "Weight budget, overrides the catalog capacity (-1 keeps it)").Short('c').Default("-1").Float64Var(&opts.capacity)
	app.Flag("algorithm", "Solver to run").Short('a').Default("all").EnumVar(&opts.algorithm,
		"all", "greedy", "dp", "branch_and_bound")
	app.Flag("resolution", "Discrete DP units per unit of weight").Default("100").Float64Var(&opts.resolution)
	app.Flag("strategy", "Branch-and-bound expansion order").Default("fifo").EnumVar(&opts.strategy, "fifo", "best_first")
	app.Flag("max-queue", "Cap on live branch-and-bound nodes (0 = unlimited)").Default("1000000").IntVar(&opts.maxQueue)
	logLevel := app.Flag("log-level", "Log level for diagnostics on stderr").Default("warn").String()

	kingpin.MustParse(app.Parse(os.Args[1:]))

	logger, err := logging.New(*logLevel)
	if err != nil {
		app.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	if err := run(os.Stdout, opts, logger); err != nil {
		logger.Error("solve failed", zap.Error(err))
		app.Fatalf("%v", err)
	}
}

func run(w io.Writer, opts runOptions, logger *zap.Logger) error {
	catalog, err := loadCatalog(opts.file)
	if err != nil {
		return err
	}
	if opts.capacity >= 0 {
		catalog.Capacity = opts.capacity
	}

	algorithms := knapsack.Algorithms()
	if opts.algorithm != "" && opts.algorithm != "all" {
		alg, err := knapsack.ParseAlgorithm(opts.algorithm)
		if err != nil {
			return err
		}
		algorithms = []knapsack.Algorithm{alg}
	}

	strategy, err := knapsack.ParseStrategy(opts.strategy)
	if err != nil {
		return err
	}
	solverOpts := []knapsack.Option{
		knapsack.WithResolution(opts.resolution),
		knapsack.WithStrategy(strategy),
		knapsack.WithMaxQueue(opts.maxQueue),
	}

	results := make([]knapsack.Result, 0, len(algorithms))
	for _, alg := range algorithms {
		solver, err := knapsack.New(alg, solverOpts...)
		if err != nil {
			return err
		}
		res, err := solver.Solve(catalog.Packages, catalog.Capacity)
		if err != nil {
			return fmt.Errorf("%s: %w", alg, err)
		}
		logger.Debug("solve completed",
			zap.String("algorithm", string(alg)),
			zap.Int("explored", res.Explored),
			zap.Int("selected", len(res.Selected)),
		)
		results = append(results, res)
	}

	return report.WriteAll(w, results)
}

// loadCatalog reads a YAML catalog, or returns the built-in sample when path is empty.
func loadCatalog(path string) (storage.Catalog, error) {
	if path == "" {
		return storage.DefaultCatalog(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return storage.Catalog{}, fmt.Errorf("read catalog: %w", err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return storage.Catalog{}, fmt.Errorf("parse catalog: %w", err)
	}

	catalog := storage.Catalog{Packages: file.Packages, Capacity: storage.DefaultCapacity()}
	if file.Capacity != nil {
		catalog.Capacity = *file.Capacity
	}
	if catalog.Packages == nil {
		catalog.Packages = []knapsack.Item{}
	}
	return catalog, nil
}
