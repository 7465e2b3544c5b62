package genetics

import (
	"errors"
	"fmt"
)

var ErrRandomizeExhausted = errors.New("randomize: no ordered bounds drawn")

// MaxRandomizeAttempts caps the rejection sampling in Randomize. Each pair is
// ordered with probability 1/2, so the expected number of draws is 4.
const MaxRandomizeAttempts = 1000

type Direction int

const (
	DirectionShort Direction = 0
	DirectionBuy   Direction = 1
)

func (d Direction) String() string {
	switch d {
	case DirectionShort:
		return "SHORT"
	case DirectionBuy:
		return "BUY"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

const (
	GeneLowA = iota
	GeneHighA
	GeneLowB
	GeneHighB
	GeneDirection
	NumGenes
)

// Genes encode a trading rule: trade in Direction whenever featureA lies in
// [LowA, HighA) and featureB lies in [LowB, HighB).
type Genes [NumGenes]float64

// A Chromosome is a candidate rule. Fitness is only meaningful after the
// current generation has been evaluated.
type Chromosome struct {
	Genes   Genes
	Fitness float64
}

func (c Chromosome) Direction() Direction {
	return Direction(c.Genes[GeneDirection])
}

// Valid reports whether both bound pairs are ordered and the direction is 0 or 1.
func (c Chromosome) Valid() bool {
	d := c.Genes[GeneDirection]
	return c.Genes[GeneLowA] < c.Genes[GeneHighA] &&
		c.Genes[GeneLowB] < c.Genes[GeneHighB] &&
		(d == float64(DirectionShort) || d == float64(DirectionBuy))
}

func (c Chromosome) String() string {
	return fmt.Sprintf("[%0.6f, %0.6f, %0.6f, %0.6f, %d]", c.Genes[0], c.Genes[1], c.Genes[2], c.Genes[3], int(c.Genes[4]))
}

// Repair swaps any inverted bound pair back into order.
func (c *Chromosome) Repair() {
	if c.Genes[GeneLowA] > c.Genes[GeneHighA] {
		c.Genes[GeneLowA], c.Genes[GeneHighA] = c.Genes[GeneHighA], c.Genes[GeneLowA]
	}
	if c.Genes[GeneLowB] > c.Genes[GeneHighB] {
		c.Genes[GeneLowB], c.Genes[GeneHighB] = c.Genes[GeneHighB], c.Genes[GeneLowB]
	}
}

// Randomize draws both bound pairs until each is strictly ordered, then a
// random direction.
func (c *Chromosome) Randomize(r *Rand) error {
	for range MaxRandomizeAttempts {
		c.Genes[GeneLowA], c.Genes[GeneHighA] = r.Gene(), r.Gene()
		c.Genes[GeneLowB], c.Genes[GeneHighB] = r.Gene(), r.Gene()
		if c.Genes[GeneLowA] < c.Genes[GeneHighA] && c.Genes[GeneLowB] < c.Genes[GeneHighB] {
			c.Genes[GeneDirection] = float64(r.Direction())
			return nil
		}
	}
	return ErrRandomizeExhausted
}

func newPopulation(r *Rand, size int) ([]Chromosome, error) {
	population := make([]Chromosome, size)
	for i := range population {
		if err := population[i].Randomize(r); err != nil {
			return nil, fmt.Errorf("initializing chromosome %d: %w", i, err)
		}
	}
	return population, nil
}
