package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/grexie/patterns/pkg/config"
	"github.com/grexie/patterns/pkg/dataset"
	"github.com/grexie/patterns/pkg/db"
	"github.com/grexie/patterns/pkg/genetics"
	"github.com/jedib0t/go-pretty/v6/progress"
	"github.com/spf13/cobra"
	"github.com/syndtr/goleveldb/leveldb"
)

func newProgressWriter() progress.Writer {
	pw := progress.NewWriter()
	pw.SetMessageLength(40)
	pw.SetNumTrackersExpected(2)
	pw.SetSortBy(progress.SortByPercentDsc)
	pw.SetStyle(progress.StyleDefault)
	pw.SetTrackerLength(15)
	pw.SetTrackerPosition(progress.PositionRight)
	pw.SetUpdateFrequency(time.Millisecond * 100)
	pw.Style().Colors = progress.StyleColorsExample
	pw.Style().Options.PercentFormat = "%2.0f%%"
	return pw
}

func stopProgress(pw progress.Writer) {
	pw.Stop()
	for pw.IsRenderInProgress() {
		time.Sleep(100 * time.Millisecond)
	}
}

func run(ctx context.Context, settings config.Settings, showProgress bool, record bool) error {
	cfg, err := settings.Genetics()
	if err != nil {
		return err
	}
	settings.Write(os.Stdout)

	var pw progress.Writer
	if showProgress {
		pw = newProgressWriter()
		go pw.Render()
		defer func() {
			if pw != nil {
				stopProgress(pw)
			}
		}()
	}

	var cache *leveldb.DB
	if settings.Cache != "" {
		if cache, err = leveldb.OpenFile(settings.Cache, nil); err != nil {
			return fmt.Errorf("failed to open cache %s: %w", settings.Cache, err)
		}
		defer cache.Close()
	}

	data, err := dataset.Load(ctx, pw, cache, settings.Data)
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}
	log.Printf("loaded %d records from %s", len(data), settings.Data)

	reporters := genetics.Reporters{genetics.LogReporter{}}

	if settings.CSV != "" {
		file, err := os.OpenFile(settings.CSV, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open csv: %w", err)
		}
		defer file.Close()

		stat, err := file.Stat()
		if err != nil {
			return fmt.Errorf("failed to open csv: %w", err)
		}
		reporters = append(reporters, genetics.NewCSVReporter(file, stat.Size() > 0))
	}

	if record {
		mongoDB, err := db.ConnectMongo()
		if err != nil {
			return fmt.Errorf("failed to connect to MongoDB: %w", err)
		}
		defer mongoDB.Client().Disconnect(context.Background())

		if err := db.EnsureIndexes(ctx, mongoDB); err != nil {
			return fmt.Errorf("failed to ensure indexes: %w", err)
		}
		reporters = append(reporters, db.NewRunRecorder(mongoDB, cfg, settings.Data))
	}

	result, err := genetics.NaturalSelection(ctx, pw, cfg, data, reporters)
	if err != nil {
		return err
	}

	if pw != nil {
		stopProgress(pw)
		pw = nil
	}
	return genetics.TableReporter{W: os.Stdout}.Best(ctx, result)
}

func main() {
	if _, ok := os.LookupEnv("ENV"); !ok {
		env := "development"
		os.Setenv("ENV", env)
	}
	config.LoadEnv(config.DotEnvFiles(os.Getenv("ENV"))...)

	var (
		configPath   string
		showProgress bool
		record       bool
	)

	cmd := &cobra.Command{
		Use:           "patterns",
		Short:         "Genetic Algorithm for Financial Pattern Detection",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags := config.RegisterFlags(cmd.Flags())
	cmd.Flags().StringVar(&configPath, "config", os.Getenv("PATTERNS_CONFIG"), "INI configuration file")
	cmd.Flags().BoolVar(&showProgress, "progress", false, "Render progress bars")
	cmd.Flags().BoolVar(&record, "record", false, "Store the run summary in MongoDB (MONGO_URL)")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		settings, err := config.Load(configPath)
		if err != nil {
			return err
		}
		flags.Apply(&settings)
		return run(cmd.Context(), settings, showProgress, record)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cmd.ExecuteContext(ctx); err != nil {
		log.Fatalf("error: %v", err)
	}
}
