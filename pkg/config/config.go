package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/grexie/patterns/pkg/genetics"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/joho/godotenv"
	"gopkg.in/ini.v1"
)

var ErrInvalidValue = errors.New("invalid configuration value")

// Section is the INI section read by LoadFile.
const Section = "patterns"

// Settings holds every user facing option before it is resolved into a
// genetics.Config.
type Settings struct {
	Population     int     `ini:"population"`
	Generations    int     `ini:"generations"`
	MutationRate   float64 `ini:"mutation"`
	Crossover      string  `ini:"crossover"`
	Selection      string  `ini:"selection"`
	RepairOnePoint bool    `ini:"repair_one_point"`
	Data           string  `ini:"data"`
	ReportEvery    int     `ini:"report_every"`
	Workers        int     `ini:"workers"`
	Seed           uint64  `ini:"seed"`
	CSV            string  `ini:"csv"`
	Cache          string  `ini:"cache"`
}

func Defaults() Settings {
	return Settings{
		Population:     100,
		Generations:    50,
		MutationRate:   0.01,
		Crossover:      "uniform",
		Selection:      "elitist",
		RepairOnePoint: true,
		Data:           "genAlgData1.txt",
		ReportEvery:    genetics.DefaultReportEvery,
		Workers:        1,
	}
}

// LoadEnv loads the first existing of each dotenv file without overriding
// variables that are already set.
func LoadEnv(filenames ...string) {
	for _, filename := range filenames {
		if s, err := os.Stat(filename); err == nil && !s.IsDir() {
			godotenv.Load(filename)
		}
	}
}

// DotEnvFiles lists the dotenv files for environment env, most specific first.
func DotEnvFiles(env string) []string {
	return []string{".env." + env + ".local", ".env." + env, ".env.local", ".env"}
}

// LoadFile overrides s with the keys present in the [patterns] section of an
// INI file.
func LoadFile(path string, s *Settings) error {
	cfg, err := ini.LoadSources(ini.LoadOptions{
		IgnoreInlineComment:         true,
		UnescapeValueCommentSymbols: true,
	}, path)
	if err != nil {
		return fmt.Errorf("failed to load config file '%s': %w", path, err)
	}
	if err := cfg.Section(Section).MapTo(s); err != nil {
		return fmt.Errorf("failed to map config file '%s': %w", path, err)
	}
	return nil
}

func envInt(name string, value *int) error {
	if v, ok := os.LookupEnv(name); ok {
		if v, err := strconv.ParseInt(v, 10, 32); err != nil {
			return fmt.Errorf("%w: failed to parse env.%s: %v", ErrInvalidValue, name, err)
		} else {
			*value = int(v)
		}
	}
	return nil
}

func envUint64(name string, value *uint64) error {
	if v, ok := os.LookupEnv(name); ok {
		if v, err := strconv.ParseUint(v, 10, 64); err != nil {
			return fmt.Errorf("%w: failed to parse env.%s: %v", ErrInvalidValue, name, err)
		} else {
			*value = v
		}
	}
	return nil
}

func envFloat64(name string, value *float64) error {
	if v, ok := os.LookupEnv(name); ok {
		if v, err := strconv.ParseFloat(v, 64); err != nil {
			return fmt.Errorf("%w: failed to parse env.%s: %v", ErrInvalidValue, name, err)
		} else {
			*value = v
		}
	}
	return nil
}

func envBool(name string, value *bool) error {
	if v, ok := os.LookupEnv(name); ok {
		if v, err := strconv.ParseBool(v); err != nil {
			return fmt.Errorf("%w: failed to parse env.%s: %v", ErrInvalidValue, name, err)
		} else {
			*value = v
		}
	}
	return nil
}

func envString(name string, value *string) error {
	if v, ok := os.LookupEnv(name); ok {
		*value = v
	}
	return nil
}

// ApplyEnv overrides s with any PATTERNS_* environment variables.
func ApplyEnv(s *Settings) error {
	return errors.Join(
		envInt("PATTERNS_POPULATION", &s.Population),
		envInt("PATTERNS_GENERATIONS", &s.Generations),
		envFloat64("PATTERNS_MUTATION_RATE", &s.MutationRate),
		envString("PATTERNS_CROSSOVER", &s.Crossover),
		envString("PATTERNS_SELECTION", &s.Selection),
		envBool("PATTERNS_REPAIR_ONE_POINT", &s.RepairOnePoint),
		envString("PATTERNS_DATA", &s.Data),
		envInt("PATTERNS_REPORT_EVERY", &s.ReportEvery),
		envInt("PATTERNS_WORKERS", &s.Workers),
		envUint64("PATTERNS_SEED", &s.Seed),
		envString("PATTERNS_CSV", &s.CSV),
		envString("PATTERNS_CACHE", &s.Cache),
	)
}

// Load resolves defaults, the optional INI file at path and the environment,
// in that order.
func Load(path string) (Settings, error) {
	s := Defaults()
	if path != "" {
		if err := LoadFile(path, &s); err != nil {
			return Settings{}, err
		}
	}
	if err := ApplyEnv(&s); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Genetics resolves the strategy names and validates the result.
func (s Settings) Genetics() (genetics.Config, error) {
	crossover, err := genetics.ParseCrossover(s.Crossover, s.RepairOnePoint)
	if err != nil {
		return genetics.Config{}, err
	}
	selection, err := genetics.ParseSelection(s.Selection)
	if err != nil {
		return genetics.Config{}, err
	}
	if s.Data == "" {
		return genetics.Config{}, fmt.Errorf("%w: no data file", ErrInvalidValue)
	}

	cfg := genetics.Config{
		PopulationSize: s.Population,
		Generations:    s.Generations,
		MutationRate:   s.MutationRate,
		Crossover:      crossover,
		Selection:      selection,
		ReportEvery:    s.ReportEvery,
		Workers:        s.Workers,
		Seed:           s.Seed,
	}
	if err := cfg.Validate(); err != nil {
		return genetics.Config{}, err
	}
	return cfg, nil
}

func (s Settings) Write(w io.Writer) {
	seed := "random"
	if s.Seed != 0 {
		seed = fmt.Sprintf("%d", s.Seed)
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("Configuration")
	t.AppendRows([]table.Row{
		{"PATTERNS_POPULATION", fmt.Sprintf("%d", s.Population)},
		{"PATTERNS_GENERATIONS", fmt.Sprintf("%d", s.Generations)},
		{"PATTERNS_MUTATION_RATE", fmt.Sprintf("%0.04f", s.MutationRate)},
		{"PATTERNS_CROSSOVER", s.Crossover},
		{"PATTERNS_SELECTION", s.Selection},
		{"PATTERNS_REPAIR_ONE_POINT", fmt.Sprintf("%t", s.RepairOnePoint)},
	})
	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{"PATTERNS_DATA", s.Data},
		{"PATTERNS_REPORT_EVERY", fmt.Sprintf("%d", s.ReportEvery)},
		{"PATTERNS_WORKERS", fmt.Sprintf("%d", s.Workers)},
		{"PATTERNS_SEED", seed},
	})
	t.Render()
}
