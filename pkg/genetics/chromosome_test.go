package genetics_test

import (
	"testing"

	"github.com/grexie/patterns/pkg/genetics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomChromosome(t *testing.T, r *genetics.Rand) genetics.Chromosome {
	t.Helper()
	var c genetics.Chromosome
	require.NoError(t, c.Randomize(r))
	return c
}

func TestRandomizeOrdersBounds(t *testing.T) {
	r := genetics.NewRand(1)
	directions := map[genetics.Direction]int{}
	for range 10000 {
		c := randomChromosome(t, r)
		require.True(t, c.Valid(), "invalid chromosome %s", c)
		directions[c.Direction()]++
	}
	assert.Len(t, directions, 2)
	assert.InDelta(t, 5000, directions[genetics.DirectionBuy], 300)
}

func TestRandomizeIsReproducible(t *testing.T) {
	a := randomChromosome(t, genetics.NewRand(42))
	b := randomChromosome(t, genetics.NewRand(42))
	assert.Equal(t, a, b)
}

func TestRepair(t *testing.T) {
	c := genetics.Chromosome{Genes: genetics.Genes{1, -1, 2, -2, 1}}
	c.Repair()
	assert.Equal(t, genetics.Genes{-1, 1, -2, 2, 1}, c.Genes)

	c.Repair()
	assert.Equal(t, genetics.Genes{-1, 1, -2, 2, 1}, c.Genes)
}

func TestValid(t *testing.T) {
	assert.True(t, genetics.Chromosome{Genes: genetics.Genes{-1, 1, -1, 1, 0}}.Valid())
	assert.False(t, genetics.Chromosome{Genes: genetics.Genes{1, -1, -1, 1, 0}}.Valid())
	assert.False(t, genetics.Chromosome{Genes: genetics.Genes{-1, 1, 1, 1, 0}}.Valid())
	assert.False(t, genetics.Chromosome{Genes: genetics.Genes{-1, 1, -1, 1, 2}}.Valid())
}

func TestDirectionString(t *testing.T) {
	assert.Equal(t, "BUY", genetics.DirectionBuy.String())
	assert.Equal(t, "SHORT", genetics.DirectionShort.String())
	assert.Equal(t, "Direction(7)", genetics.Direction(7).String())
}
