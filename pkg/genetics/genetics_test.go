package genetics

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/grexie/patterns/pkg/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	stats []GenerationStats
	best  []Result
	err   error
}

func (r *recorder) Generation(ctx context.Context, s GenerationStats) error {
	r.stats = append(r.stats, s)
	return r.err
}

func (r *recorder) Best(ctx context.Context, result Result) error {
	r.best = append(r.best, result)
	return nil
}

// ordered allows equal bounds, which uniform crossover produces when two
// parents share a gene value.
func ordered(c Chromosome) bool {
	d := c.Genes[GeneDirection]
	return c.Genes[GeneLowA] <= c.Genes[GeneHighA] &&
		c.Genes[GeneLowB] <= c.Genes[GeneHighB] &&
		(d == float64(DirectionShort) || d == float64(DirectionBuy))
}

func testData(seed uint64) dataset.Dataset {
	r := NewRand(seed)
	out := make(dataset.Dataset, 300)
	for i := range out {
		out[i] = dataset.Record{r.NormFloat64(), r.NormFloat64(), r.NormFloat64()*2 + 0.1}
	}
	return out
}

func testConfig() Config {
	return Config{
		PopulationSize: 30,
		Generations:    25,
		MutationRate:   0.05,
		Crossover:      Uniform{},
		Selection:      Elitist{},
		Seed:           99,
	}
}

func TestPairIsDistinct(t *testing.T) {
	r := NewRand(1)
	seen := map[[2]int]bool{}
	for range 2000 {
		i, j := r.pair(4)
		require.NotEqual(t, i, j)
		require.True(t, i >= 0 && i < 4 && j >= 0 && j < 4)
		seen[[2]int{i, j}] = true
	}
	assert.Len(t, seen, 12)
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, testConfig().Validate())

	tests := map[string]func(c *Config){
		"zero population":      func(c *Config) { c.PopulationSize = 0 },
		"negative generations": func(c *Config) { c.Generations = -1 },
		"mutation above one":   func(c *Config) { c.MutationRate = 1.5 },
		"negative mutation":    func(c *Config) { c.MutationRate = -0.1 },
		"missing crossover":    func(c *Config) { c.Crossover = nil },
		"missing selection":    func(c *Config) { c.Selection = nil },
		"negative workers":     func(c *Config) { c.Workers = -2 },
		"negative interval":    func(c *Config) { c.ReportEvery = -1 },
		"too few parents":      func(c *Config) { c.PopulationSize = 4 },
		"seed out of range":    func(c *Config) { c.Seed = math.MaxInt64 + 1 },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			c := testConfig()
			mutate(&c)
			assert.ErrorIs(t, c.Validate(), ErrInvalidConfig)
		})
	}

	c := testConfig()
	c.Seed = math.MaxInt64
	assert.NoError(t, c.Validate())

	c = testConfig()
	c.PopulationSize, c.Generations = 1, 0
	assert.NoError(t, c.Validate(), "a single chromosome is fine when nothing is bred")
}

func TestBreedRestoresPopulationSize(t *testing.T) {
	r := NewRand(5)
	cfg := testConfig()
	data := testData(1)

	population, err := newPopulation(r, cfg.PopulationSize)
	require.NoError(t, err)

	for _, selection := range []Selection{Elitist{}, Tournament{}} {
		for _, crossover := range []Crossover{Uniform{}, OnePoint{Repair: true}, OnePoint{}} {
			cfg.Selection, cfg.Crossover = selection, crossover
			require.NoError(t, Evaluate(context.Background(), population, data, 1))

			pool := cfg.Selection.Select(r, population, NumSelect(cfg.PopulationSize))
			next := breed(r, cfg, pool)
			require.Len(t, next, cfg.PopulationSize)
			assert.Equal(t, pool, next[:len(pool)], "the breeding pool survives unchanged")
			for _, c := range next[len(pool):] {
				assert.True(t, ordered(c), "inverted child %s", c)
			}
			population = next
		}
	}
}

func TestNaturalSelectionZeroGenerations(t *testing.T) {
	cfg := testConfig()
	cfg.PopulationSize, cfg.Generations = 10, 0
	data := testData(2)

	rec := &recorder{}
	result, err := NaturalSelection(context.Background(), nil, cfg, data, rec)
	require.NoError(t, err)

	initial, err := newPopulation(NewRand(cfg.Seed), cfg.PopulationSize)
	require.NoError(t, err)
	require.NoError(t, Evaluate(context.Background(), initial, data, 1))

	assert.Empty(t, rec.stats)
	require.Len(t, rec.best, 1)
	assert.Contains(t, initial, result.Best)
	assert.Equal(t, Best(initial), result.Best)
	assert.Equal(t, 10, result.Evaluations)
	assert.Equal(t, 0, result.Generations)
}

func TestNaturalSelectionReports(t *testing.T) {
	rec := &recorder{}
	result, err := NaturalSelection(context.Background(), nil, testConfig(), testData(3), rec)
	require.NoError(t, err)

	require.Len(t, rec.stats, 3)
	for i, s := range rec.stats {
		assert.Equal(t, i*10, s.Generation)
		assert.GreaterOrEqual(t, s.Max, s.Mean)
		assert.GreaterOrEqual(t, s.Mean, s.Min)
		assert.Equal(t, s.Max, s.Best.Fitness)
	}
	assert.Equal(t, 26*30, result.Evaluations)
	assert.Equal(t, uint64(99), result.Seed)
	require.Len(t, rec.best, 1)
	assert.Equal(t, result.Best, rec.best[0].Best)
	assert.True(t, ordered(result.Best))
}

func TestNaturalSelectionElitismNeverLosesTheBest(t *testing.T) {
	cfg := testConfig()
	cfg.ReportEvery = 1
	rec := &recorder{}
	result, err := NaturalSelection(context.Background(), nil, cfg, testData(4), rec)
	require.NoError(t, err)

	require.Len(t, rec.stats, cfg.Generations)
	for i := 1; i < len(rec.stats); i++ {
		assert.GreaterOrEqual(t, rec.stats[i].Max, rec.stats[i-1].Max)
	}
	assert.GreaterOrEqual(t, result.Best.Fitness, rec.stats[len(rec.stats)-1].Max)
}

func TestNaturalSelectionIsReproducible(t *testing.T) {
	data := testData(5)
	for _, selection := range []Selection{Elitist{}, Tournament{}} {
		cfg := testConfig()
		cfg.Selection = selection
		cfg.Crossover = OnePoint{Repair: true}

		a, err := NaturalSelection(context.Background(), nil, cfg, data, nil)
		require.NoError(t, err)

		cfg.Workers = 4
		b, err := NaturalSelection(context.Background(), nil, cfg, data, nil)
		require.NoError(t, err)

		assert.Equal(t, a.Best, b.Best, selection.Name())
	}
}

func TestNaturalSelectionScenario(t *testing.T) {
	data := dataset.Dataset{{0, 0, 10}, {0, 0, -5}, {5, 5, 3}}
	cfg := testConfig()
	cfg.PopulationSize, cfg.Generations = 20, 30

	result, err := NaturalSelection(context.Background(), nil, cfg, data, nil)
	require.NoError(t, err)
	assert.Equal(t, CalculateFitness(result.Best, data), result.Best.Fitness)
	assert.GreaterOrEqual(t, result.Best.Fitness, NoMatchPenalty)
}

func TestNaturalSelectionErrors(t *testing.T) {
	cfg := testConfig()
	cfg.Selection = nil
	_, err := NaturalSelection(context.Background(), nil, cfg, testData(6), nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	boom := errors.New("boom")
	_, err = NaturalSelection(context.Background(), nil, testConfig(), testData(6), &recorder{err: boom})
	assert.ErrorIs(t, err, boom)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NaturalSelection(ctx, nil, testConfig(), testData(6), nil)
	assert.ErrorIs(t, err, context.Canceled)
}
