package db

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"reflect"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func EnsureIndex(db *mongo.Database, ctx context.Context, collectionName string, model mongo.IndexModel) error {
	c := db.Collection(collectionName)

	idxs := c.Indexes()

	if model.Options == nil || model.Options.Name == nil {
		return fmt.Errorf("must provide a name for index")
	}
	expectedName := *model.Options.Name

	cur, err := idxs.List(ctx)
	if err != nil {
		return fmt.Errorf("unable to list indexes: %s", err)
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var d bson.M

		if err := cur.Decode(&d); err != nil {
			return fmt.Errorf("unable to decode bson index document: %s", err)
		}

		if name, ok := d["name"].(string); ok && name == expectedName {
			return nil
		}
	}

	_, err = idxs.CreateOne(ctx, model)
	return err
}

// EnsureIndexes creates the indexes used to look up a run's generations.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	return EnsureIndex(db, ctx, GenerationsCollection, mongo.IndexModel{
		Keys:    bson.D{{Key: "run", Value: 1}, {Key: "generation", Value: 1}},
		Options: options.Index().SetName("run_generation").SetUnique(true),
	})
}

// ConnectMongo connects to MONGO_URL. The database name is taken from the URL
// path and defaults to "patterns".
func ConnectMongo() (*mongo.Database, error) {
	registry := bson.NewRegistry()
	registry.RegisterTypeMapEntry(0x03, reflect.TypeOf(bson.M{}))

	mongoUrl := os.Getenv("MONGO_URL")
	if mongoUrl == "" {
		mongoUrl = "mongodb://localhost:27017/patterns"
	}

	uri, err := url.Parse(mongoUrl)
	if err != nil {
		return nil, err
	}

	if client, err := mongo.Connect(context.Background(), options.Client().ApplyURI(mongoUrl).SetRegistry(registry)); err != nil {
		return nil, err
	} else {
		dbName := strings.Trim(uri.Path, "/")
		if dbName == "" {
			dbName = "patterns"
		}
		return client.Database(dbName), nil
	}
}
