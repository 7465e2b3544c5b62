package genetics

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/grexie/patterns/pkg/dataset"
	"github.com/jedib0t/go-pretty/v6/progress"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// DefaultReportEvery is the reporting interval used when Config.ReportEvery is 0.
const DefaultReportEvery = 10

// Config is built once at startup and never modified during a run.
type Config struct {
	PopulationSize int
	Generations    int
	MutationRate   float64
	Crossover      Crossover
	Selection      Selection

	// ReportEvery is the generation interval between reports; generation 0
	// is always reported.
	ReportEvery int
	// Workers > 1 evaluates fitness in parallel.
	Workers int
	// Seed 0 picks a time based seed. Seeds are limited to the int64 range
	// so a recorded run can be replayed.
	Seed uint64
}

func (c Config) Validate() error {
	if c.PopulationSize <= 0 {
		return fmt.Errorf("%w: population size must be positive, got %d", ErrInvalidConfig, c.PopulationSize)
	} else if c.Generations < 0 {
		return fmt.Errorf("%w: generations must not be negative, got %d", ErrInvalidConfig, c.Generations)
	} else if math.IsNaN(c.MutationRate) || c.MutationRate < 0 || c.MutationRate > 1 {
		return fmt.Errorf("%w: mutation rate must be within [0, 1], got %v", ErrInvalidConfig, c.MutationRate)
	} else if c.Crossover == nil {
		return fmt.Errorf("%w: no crossover type", ErrInvalidConfig)
	} else if c.Selection == nil {
		return fmt.Errorf("%w: no selection type", ErrInvalidConfig)
	} else if c.ReportEvery < 0 {
		return fmt.Errorf("%w: report interval must not be negative, got %d", ErrInvalidConfig, c.ReportEvery)
	} else if c.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalidConfig, c.Workers)
	} else if c.Seed > math.MaxInt64 {
		return fmt.Errorf("%w: seed must not exceed %d, got %d", ErrInvalidConfig, int64(math.MaxInt64), c.Seed)
	} else if c.Generations > 0 && NumSelect(c.PopulationSize) < 2 {
		return fmt.Errorf("%w: population size %d leaves fewer than 2 parents to breed from", ErrInvalidConfig, c.PopulationSize)
	}
	return nil
}

func (c Config) reportEvery() int {
	if c.ReportEvery == 0 {
		return DefaultReportEvery
	}
	return c.ReportEvery
}

// Result is the outcome of a run.
type Result struct {
	Best        Chromosome
	Seed        uint64
	Generations int
	Evaluations int
	Duration    time.Duration
}

// NaturalSelection evolves a random population against data for
// cfg.Generations generations and returns the fittest chromosome of the final
// population. pw and reporter may be nil.
func NaturalSelection(ctx context.Context, pw progress.Writer, cfg Config, data dataset.Dataset, reporter Reporter) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}
	if reporter == nil {
		reporter = Reporters{}
	}

	started := time.Now()
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(started.UnixNano())
	}
	r := NewRand(seed)
	numSelect := NumSelect(cfg.PopulationSize)

	var tracker *progress.Tracker
	if pw != nil {
		tracker = &progress.Tracker{
			Message: "Evolving generations",
			Total:   int64(cfg.Generations + 1),
			Units:   progress.UnitsDefault,
		}
		pw.AppendTracker(tracker)
		tracker.Start()
	}
	fail := func(err error) (Result, error) {
		if tracker != nil {
			tracker.MarkAsErrored()
		}
		return Result{}, err
	}

	population, err := newPopulation(r, cfg.PopulationSize)
	if err != nil {
		return fail(err)
	}

	evaluations := 0
	for gen := range cfg.Generations {
		if len(population) != cfg.PopulationSize {
			return fail(fmt.Errorf("generation %d: population size %d, expected %d", gen, len(population), cfg.PopulationSize))
		}

		if err := Evaluate(ctx, population, data, cfg.Workers); err != nil {
			return fail(fmt.Errorf("evaluating generation %d: %w", gen, err))
		}
		evaluations += len(population)

		if gen%cfg.reportEvery() == 0 {
			if err := reporter.Generation(ctx, NewGenerationStats(gen, population)); err != nil {
				return fail(fmt.Errorf("reporting generation %d: %w", gen, err))
			}
		}

		pool := cfg.Selection.Select(r, population, numSelect)
		population = breed(r, cfg, pool)

		if tracker != nil {
			tracker.Increment(1)
		}
	}

	if err := Evaluate(ctx, population, data, cfg.Workers); err != nil {
		return fail(fmt.Errorf("evaluating final population: %w", err))
	}
	evaluations += len(population)

	result := Result{
		Best:        Best(population),
		Seed:        seed,
		Generations: cfg.Generations,
		Evaluations: evaluations,
		Duration:    time.Since(started),
	}

	if err := reporter.Best(ctx, result); err != nil {
		return fail(fmt.Errorf("reporting best chromosome: %w", err))
	}
	if tracker != nil {
		tracker.MarkAsDone()
	}
	return result, nil
}

// breed carries the whole pool over unchanged and fills the rest of the
// population with mutated children of two distinct pool members.
func breed(r *Rand, cfg Config, pool []Chromosome) []Chromosome {
	next := make([]Chromosome, 0, cfg.PopulationSize)
	next = append(next, pool...)

	for len(next) < cfg.PopulationSize {
		i, j := r.pair(len(pool))
		child := cfg.Crossover.Cross(r, pool[i], pool[j])
		Mutate(r, &child, cfg.MutationRate)
		next = append(next, child)
	}
	return next
}

// Best returns the fittest chromosome, the first one on ties.
func Best(population []Chromosome) Chromosome {
	best := population[0]
	for _, c := range population[1:] {
		if c.Fitness > best.Fitness {
			best = c
		}
	}
	return best
}
