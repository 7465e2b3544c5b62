package config

import "github.com/spf13/pflag"

// Flags holds command line values. Only flags set explicitly override the
// file and environment layers.
type Flags struct {
	fs     *pflag.FlagSet
	values Settings
}

func RegisterFlags(fs *pflag.FlagSet) *Flags {
	f := &Flags{fs: fs}
	d := Defaults()

	fs.IntVar(&f.values.Population, "population", d.Population, "Initial population size")
	fs.IntVar(&f.values.Generations, "generations", d.Generations, "Number of generations to run")
	fs.Float64Var(&f.values.MutationRate, "mutation", d.MutationRate, "Mutation rate")
	fs.StringVar(&f.values.Crossover, "crossover", d.Crossover, "Crossover type (uniform or 1-point)")
	fs.StringVar(&f.values.Selection, "selection", d.Selection, "Selection type (elitist or tournament)")
	fs.BoolVar(&f.values.RepairOnePoint, "repair-one-point", d.RepairOnePoint, "Reorder bounds after 1-point crossover")
	fs.StringVar(&f.values.Data, "data", d.Data, "Data file or http(s) URL to use")
	fs.IntVar(&f.values.ReportEvery, "report-every", d.ReportEvery, "Generations between fitness reports")
	fs.IntVar(&f.values.Workers, "workers", d.Workers, "Parallel fitness evaluation workers")
	fs.Uint64Var(&f.values.Seed, "seed", d.Seed, "Random seed up to 2^63-1 (0 picks one)")
	fs.StringVar(&f.values.CSV, "csv", d.CSV, "Append per-generation statistics to this CSV file")
	fs.StringVar(&f.values.Cache, "cache", d.Cache, "LevelDB directory caching remote datasets")

	return f
}

// Apply copies every explicitly set flag into s.
func (f *Flags) Apply(s *Settings) {
	f.fs.Visit(func(flag *pflag.Flag) {
		switch flag.Name {
		case "population":
			s.Population = f.values.Population
		case "generations":
			s.Generations = f.values.Generations
		case "mutation":
			s.MutationRate = f.values.MutationRate
		case "crossover":
			s.Crossover = f.values.Crossover
		case "selection":
			s.Selection = f.values.Selection
		case "repair-one-point":
			s.RepairOnePoint = f.values.RepairOnePoint
		case "data":
			s.Data = f.values.Data
		case "report-every":
			s.ReportEvery = f.values.ReportEvery
		case "workers":
			s.Workers = f.values.Workers
		case "seed":
			s.Seed = f.values.Seed
		case "csv":
			s.CSV = f.values.CSV
		case "cache":
			s.Cache = f.values.Cache
		}
	})
}
