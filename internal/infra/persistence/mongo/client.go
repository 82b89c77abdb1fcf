package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const usersCollection = "users"

// Connect opens a client with the stable server API and pings the primary.
func Connect(ctx context.Context, uri, database string) (*mongo.Database, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	client, err := mongo.Connect(options.Client().ApplyURI(uri).SetServerAPIOptions(serverAPI))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client.Database(database), nil
}

func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(usersCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_email"),
		},
		{
			Keys:    bson.D{{Key: "role", Value: 1}},
			Options: options.Index().SetName("idx_role"),
		},
	})
	if err != nil {
		return err
	}

	byProduct := mongo.IndexModel{
		Keys:    bson.D{{Key: "productId", Value: 1}, {Key: "createdAt", Value: -1}},
		Options: options.Index().SetName("idx_product_created"),
	}
	for _, name := range []string{commentsCollection, questionsCollection} {
		if _, err := db.Collection(name).Indexes().CreateOne(ctx, byProduct); err != nil {
			return fmt.Errorf("%s indexes: %w", name, err)
		}
	}
	return nil
}
