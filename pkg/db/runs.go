package db

import (
	"context"
	"fmt"
	"time"

	"github.com/grexie/patterns/pkg/genetics"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	RunsCollection        = "runs"
	GenerationsCollection = "generations"
)

type ChromosomeDocument struct {
	LowA      float64 `bson:"lowA"`
	HighA     float64 `bson:"highA"`
	LowB      float64 `bson:"lowB"`
	HighB     float64 `bson:"highB"`
	Direction string  `bson:"direction"`
	Fitness   float64 `bson:"fitness"`
}

func newChromosomeDocument(c genetics.Chromosome) ChromosomeDocument {
	return ChromosomeDocument{
		LowA:      c.Genes[genetics.GeneLowA],
		HighA:     c.Genes[genetics.GeneHighA],
		LowB:      c.Genes[genetics.GeneLowB],
		HighB:     c.Genes[genetics.GeneHighB],
		Direction: c.Direction().String(),
		Fitness:   c.Fitness,
	}
}

type RunDocument struct {
	ID             primitive.ObjectID `bson:"_id"`
	Started        time.Time          `bson:"started"`
	Finished       time.Time          `bson:"finished"`
	Data           string             `bson:"data"`
	PopulationSize int                `bson:"populationSize"`
	Generations    int                `bson:"generations"`
	MutationRate   float64            `bson:"mutationRate"`
	Crossover      string             `bson:"crossover"`
	Selection      string             `bson:"selection"`
	Seed           int64              `bson:"seed"`
	Evaluations    int                `bson:"evaluations"`
	Best           ChromosomeDocument `bson:"best"`
}

type GenerationDocument struct {
	Run        primitive.ObjectID `bson:"run"`
	Generation int                `bson:"generation"`
	Max        float64            `bson:"max"`
	Min        float64            `bson:"min"`
	Mean       float64            `bson:"mean"`
	StdDev     float64            `bson:"stddev"`
	Median     float64            `bson:"median"`
	Best       ChromosomeDocument `bson:"best"`
}

// RunRecorder stores the summary of a run and its reported generations. It
// records results only and never the population itself.
type RunRecorder struct {
	db          *mongo.Database
	run         RunDocument
	generations []GenerationDocument
}

func NewRunRecorder(db *mongo.Database, cfg genetics.Config, data string) *RunRecorder {
	return &RunRecorder{
		db:  db,
		run: RunDocument{
			ID:             primitive.NewObjectID(),
			Started:        time.Now(),
			Data:           data,
			PopulationSize: cfg.PopulationSize,
			Generations:    cfg.Generations,
			MutationRate:   cfg.MutationRate,
			Crossover:      cfg.Crossover.Name(),
			Selection:      cfg.Selection.Name(),
		},
	}
}

func (r *RunRecorder) Generation(ctx context.Context, s genetics.GenerationStats) error {
	r.generations = append(r.generations, GenerationDocument{
		Run:        r.run.ID,
		Generation: s.Generation,
		Max:        s.Max,
		Min:        s.Min,
		Mean:       s.Mean,
		StdDev:     s.StdDev,
		Median:     s.Median,
		Best:       newChromosomeDocument(s.Best),
	})
	return nil
}

func (r *RunRecorder) documents(result genetics.Result) (RunDocument, []any) {
	run := r.run
	run.Finished = run.Started.Add(result.Duration)
	run.Seed = int64(result.Seed)
	run.Evaluations = result.Evaluations
	run.Best = newChromosomeDocument(result.Best)

	generations := make([]any, len(r.generations))
	for i, g := range r.generations {
		generations[i] = g
	}
	return run, generations
}

func (r *RunRecorder) Best(ctx context.Context, result genetics.Result) error {
	run, generations := r.documents(result)

	_, err := WithTransaction(r.db, ctx, func(ctx context.Context) (any, error) {
		if _, err := r.db.Collection(RunsCollection).InsertOne(ctx, run); err != nil {
			return nil, fmt.Errorf("failed to insert run: %w", err)
		}
		if len(generations) > 0 {
			if _, err := r.db.Collection(GenerationsCollection).InsertMany(ctx, generations); err != nil {
				return nil, fmt.Errorf("failed to insert generations: %w", err)
			}
		}
		return nil, nil
	})
	return err
}
