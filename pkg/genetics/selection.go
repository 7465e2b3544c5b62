package genetics

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var ErrUnknownSelection = errors.New("unknown selection type")

// SelectRate is the share of the population kept as the breeding pool.
const SelectRate = 0.4

// NumSelect is the breeding pool size for a population of popSize.
func NumSelect(popSize int) int {
	return int(SelectRate * float64(popSize))
}

// Selection reduces an evaluated population to a breeding pool of exactly n
// chromosomes.
type Selection interface {
	Name() string
	Select(r *Rand, population []Chromosome, n int) []Chromosome
}

// ParseSelection resolves a configured selection name.
func ParseSelection(name string) (Selection, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "elitist":
		return Elitist{}, nil
	case "tournament":
		return Tournament{}, nil
	default:
		return nil, fmt.Errorf("%w: %q (want elitist or tournament)", ErrUnknownSelection, name)
	}
}

// Elitist keeps the n fittest chromosomes, fittest first.
type Elitist struct{}

func (Elitist) Name() string { return "elitist" }

func (Elitist) Select(r *Rand, population []Chromosome, n int) []Chromosome {
	sorted := slices.Clone(population)
	slices.SortStableFunc(sorted, func(a, b Chromosome) int {
		if a.Fitness > b.Fitness {
			return -1
		} else if a.Fitness < b.Fitness {
			return 1
		}
		return 0
	})
	return sorted[:n]
}

// Tournament runs n two-way tournaments between distinct chromosomes drawn
// uniformly from the population. A chromosome may win more than once.
type Tournament struct{}

func (Tournament) Name() string { return "tournament" }

func (Tournament) Select(r *Rand, population []Chromosome, n int) []Chromosome {
	out := make([]Chromosome, 0, n)
	for range n {
		i, j := r.pair(len(population))
		winner := population[i]
		if population[j].Fitness > winner.Fitness {
			winner = population[j]
		}
		out = append(out, winner)
	}
	return out
}
