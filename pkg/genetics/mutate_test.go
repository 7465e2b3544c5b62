package genetics_test

import (
	"testing"

	"github.com/grexie/patterns/pkg/genetics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMutateZeroRateKeepsBounds(t *testing.T) {
	r := genetics.NewRand(21)
	directions := map[genetics.Direction]bool{}
	for range 200 {
		c := randomChromosome(t, r)
		bounds := c.Genes

		genetics.Mutate(r, &c, 0)
		assert.Equal(t, bounds[:4], c.Genes[:4])
		require.True(t, c.Valid())
		directions[c.Direction()] = true
	}
	assert.Len(t, directions, 2, "direction is redrawn regardless of the mutation rate")
}

func TestMutateFullRateReplacesBounds(t *testing.T) {
	r := genetics.NewRand(22)
	for range 1000 {
		c := randomChromosome(t, r)
		before := c.Genes

		genetics.Mutate(r, &c, 1)
		require.True(t, c.Valid(), "invalid mutant %s", c)
		for i := range 4 {
			assert.NotContains(t, before[:4], c.Genes[i])
		}
	}
}

func TestMutateRepairsBounds(t *testing.T) {
	r := genetics.NewRand(23)
	for range 1000 {
		c := genetics.Chromosome{Genes: genetics.Genes{1, -1, 1, -1, 0}}
		genetics.Mutate(r, &c, 0.5)
		require.True(t, c.Valid(), "invalid mutant %s", c)
	}
}
