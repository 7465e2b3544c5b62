package genetics

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownCrossover = errors.New("unknown crossover type")

// Crossover breeds one child from two parents. The child's fitness is unset.
type Crossover interface {
	Name() string
	Cross(r *Rand, parent1, parent2 Chromosome) Chromosome
}

// ParseCrossover resolves a configured crossover name. repairOnePoint controls
// whether one-point children get their bounds reordered.
func ParseCrossover(name string, repairOnePoint bool) (Crossover, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "uniform":
		return Uniform{}, nil
	case "1-point", "one-point", "onepoint":
		return OnePoint{Repair: repairOnePoint}, nil
	default:
		return nil, fmt.Errorf("%w: %q (want uniform or 1-point)", ErrUnknownCrossover, name)
	}
}

// Uniform takes every gene from either parent with equal probability.
type Uniform struct{}

func (Uniform) Name() string { return "uniform" }

func (Uniform) Cross(r *Rand, parent1, parent2 Chromosome) Chromosome {
	child := Chromosome{}
	for i := range NumGenes {
		if r.Float64() < 0.5 {
			child.Genes[i] = parent1.Genes[i]
		} else {
			child.Genes[i] = parent2.Genes[i]
		}
	}
	child.Repair()
	return child
}

// OnePoint takes range A from parent1 and range B plus direction from parent2.
// Without Repair an inverted pair can only come from a parent that was itself
// unrepaired, and it persists until mutation reorders it.
type OnePoint struct {
	Repair bool
}

func (OnePoint) Name() string { return "1-point" }

func (o OnePoint) Cross(r *Rand, parent1, parent2 Chromosome) Chromosome {
	child := Chromosome{}
	copy(child.Genes[:GeneLowB], parent1.Genes[:GeneLowB])
	copy(child.Genes[GeneLowB:], parent2.Genes[GeneLowB:])
	if o.Repair {
		child.Repair()
	}
	return child
}
