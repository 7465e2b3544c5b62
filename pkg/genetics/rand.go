package genetics

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

const (
	GeneMean   = 0.0
	GeneStdDev = 1.15
)

// Rand is the single source of randomness for a run. Sharing one PCG stream
// between uniform and normal draws keeps a seeded run reproducible.
type Rand struct {
	*rand.Rand
	normal distuv.Normal
}

func NewRand(seed uint64) *Rand {
	src := rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
	return &Rand{
		Rand:   rand.New(src),
		normal: distuv.Normal{Mu: GeneMean, Sigma: GeneStdDev, Src: src},
	}
}

// Gene draws a fresh bound value from N(GeneMean, GeneStdDev).
func (r *Rand) Gene() float64 {
	return r.normal.Rand()
}

// Direction draws BUY or SHORT with equal probability.
func (r *Rand) Direction() Direction {
	return Direction(r.IntN(2))
}

// pair draws two distinct indices in [0, n).
func (r *Rand) pair(n int) (int, int) {
	i := r.IntN(n)
	j := r.IntN(n - 1)
	if j >= i {
		j++
	}
	return i, j
}
