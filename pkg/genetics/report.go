package genetics

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/jedib0t/go-pretty/v6/table"
	"gonum.org/v1/gonum/stat"
)

// GenerationStats summarizes the fitness of one evaluated population.
type GenerationStats struct {
	Generation int
	Max        float64
	Min        float64
	Mean       float64
	StdDev     float64
	P25        float64
	Median     float64
	P75        float64
	Best       Chromosome
}

func NewGenerationStats(generation int, population []Chromosome) GenerationStats {
	f := fitnesses(population)
	return GenerationStats{
		Generation: generation,
		Max:        maxFloats(f),
		Min:        minFloats(f),
		Mean:       stat.Mean(f, nil),
		StdDev:     stat.StdDev(f, nil),
		P25:        CalculatePercentile(f, 25),
		Median:     CalculatePercentile(f, 50),
		P75:        CalculatePercentile(f, 75),
		Best:       Best(population),
	}
}

// A Reporter observes a run. Reporting never influences the search.
type Reporter interface {
	Generation(ctx context.Context, stats GenerationStats) error
	Best(ctx context.Context, result Result) error
}

// Reporters fans out to every reporter in order. Generation stops at the
// first error; Best runs every reporter and joins their errors.
type Reporters []Reporter

func (rs Reporters) Generation(ctx context.Context, stats GenerationStats) error {
	for _, r := range rs {
		if err := r.Generation(ctx, stats); err != nil {
			return err
		}
	}
	return nil
}

func (rs Reporters) Best(ctx context.Context, result Result) error {
	errs := []error{}
	for _, r := range rs {
		if err := r.Best(ctx, result); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LogReporter writes one log line per report.
type LogReporter struct{}

func (LogReporter) Generation(ctx context.Context, s GenerationStats) error {
	log.Printf("Generation %d: Max Fit: %v, Min Fit: %v, Avg Fit: %v", s.Generation, s.Max, s.Min, s.Mean)
	return nil
}

func (LogReporter) Best(ctx context.Context, result Result) error {
	log.Printf("Best Chromosome: %s Fitness: %v", result.Best, result.Best.Fitness)
	return nil
}

// TableReporter renders generation summaries and the best chromosome as tables.
type TableReporter struct {
	W io.Writer
}

func (t TableReporter) Generation(ctx context.Context, s GenerationStats) error {
	w := table.NewWriter()
	w.SetOutputMirror(t.W)
	w.SetTitle(fmt.Sprintf("Generation %d - Summary", s.Generation))
	w.AppendHeader(table.Row{"", "MEAN", "MIN", "25TH", "MEDIAN", "75TH", "MAX", "STDDEV"})
	w.AppendRows([]table.Row{
		{"Fitness", fmt.Sprintf("%0.4f", s.Mean), fmt.Sprintf("%0.4f", s.Min), fmt.Sprintf("%0.4f", s.P25), fmt.Sprintf("%0.4f", s.Median), fmt.Sprintf("%0.4f", s.P75), fmt.Sprintf("%0.4f", s.Max), fmt.Sprintf("%0.4f", s.StdDev)},
	})
	w.AppendSeparator()
	w.AppendRows([]table.Row{
		{"Best", s.Best.String()},
	})
	w.Render()
	return nil
}

func (t TableReporter) Best(ctx context.Context, result Result) error {
	c := result.Best
	w := table.NewWriter()
	w.SetOutputMirror(t.W)
	w.SetTitle("Best Chromosome")
	w.AppendRows([]table.Row{
		{"Feature A", fmt.Sprintf("[%0.6f, %0.6f)", c.Genes[GeneLowA], c.Genes[GeneHighA])},
		{"Feature B", fmt.Sprintf("[%0.6f, %0.6f)", c.Genes[GeneLowB], c.Genes[GeneHighB])},
		{"Direction", c.Direction().String()},
		{"Fitness", fmt.Sprintf("%0.6f", c.Fitness)},
	})
	w.AppendSeparator()
	w.AppendRows([]table.Row{
		{"Generations", fmt.Sprintf("%d", result.Generations)},
		{"Evaluations", fmt.Sprintf("%d", result.Evaluations)},
		{"Seed", fmt.Sprintf("%d", result.Seed)},
		{"Duration", result.Duration.String()},
	})
	w.Render()
	return nil
}
