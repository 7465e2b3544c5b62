package genetics

import (
	"context"

	"github.com/grexie/patterns/pkg/dataset"
	"golang.org/x/sync/errgroup"
)

// NoMatchPenalty is the fitness of a rule that matches no record.
const NoMatchPenalty = -5000.0

// Matches reports whether record falls inside both half-open ranges of c.
func (c Chromosome) Matches(record dataset.Record) bool {
	return c.Genes[GeneLowA] <= record[0] && record[0] < c.Genes[GeneHighA] &&
		c.Genes[GeneLowB] <= record[1] && record[1] < c.Genes[GeneHighB]
}

// CalculateFitness sums the signed outcome of every matching record. The
// total is not normalized by the number of matches.
func CalculateFitness(c Chromosome, data dataset.Dataset) float64 {
	total := 0.0
	matches := 0

	for _, record := range data {
		if c.Matches(record) {
			matches++
			if c.Direction() == DirectionBuy {
				total += record.Outcome()
			} else {
				total -= record.Outcome()
			}
		}
	}

	if matches == 0 {
		return NoMatchPenalty
	}
	return total
}

// Evaluate assigns fitness to every chromosome. With more than one worker the
// population is split into contiguous chunks; Evaluate returns only after every
// chunk is done.
func Evaluate(ctx context.Context, population []Chromosome, data dataset.Dataset, workers int) error {
	if workers <= 1 || len(population) < 2 {
		for i := range population {
			if err := ctx.Err(); err != nil {
				return err
			}
			population[i].Fitness = CalculateFitness(population[i], data)
		}
		return nil
	}

	if workers > len(population) {
		workers = len(population)
	}
	chunkSize := len(population) / workers

	g, ctx := errgroup.WithContext(ctx)
	for i := range workers {
		start := i * chunkSize
		end := start + chunkSize
		if i == workers-1 {
			end = len(population)
		}
		chunk := population[start:end]
		g.Go(func() error {
			for j := range chunk {
				if err := ctx.Err(); err != nil {
					return err
				}
				chunk[j].Fitness = CalculateFitness(chunk[j], data)
			}
			return nil
		})
	}
	return g.Wait()
}
