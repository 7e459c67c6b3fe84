package repositories

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Collection names.
const (
	colCoupons  = "coupons"
	colPincodes = "pincodes"
	colOrders   = "orders"
	colUsers    = "users"
)

// ConnectMongo opens a client, verifies connectivity and creates indexes.
func ConnectMongo(ctx context.Context, uri, database string) (*mongo.Client, *mongo.Database, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	db := client.Database(database)
	if err := MigrateMongo(ctx, db); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, err
	}
	return client, db, nil
}

// MigrateMongo creates the unique and lookup indexes for every collection.
func MigrateMongo(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		colCoupons: {
			{Keys: bson.D{{Key: "code", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "isActive", Value: 1}, {Key: "expiryDate", Value: 1}}},
		},
		colPincodes: {
			{Keys: bson.D{{Key: "pincode", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		colOrders: {
			{Keys: bson.D{{Key: "customerDetails.email", Value: 1}}},
			{Keys: bson.D{{Key: "orderDate", Value: -1}}},
		},
		colUsers: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "resetTokenHash", Value: 1}}},
		},
	}

	for col, models := range indexes {
		if _, err := db.Collection(col).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create %s indexes: %w", col, err)
		}
	}
	return nil
}

// translateMongoError maps driver errors onto the package sentinels.
func translateMongoError(err error) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return ErrDuplicateKey
	default:
		return err
	}
}

// replaceByID replaces the document with the given _id, reporting ErrNotFound
// when nothing matched.
func replaceByID(ctx context.Context, col *mongo.Collection, id string, doc interface{}) error {
	res, err := col.ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		return translateMongoError(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func deleteByID(ctx context.Context, col *mongo.Collection, id string) error {
	res, err := col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
