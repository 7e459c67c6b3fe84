package repositories

import (
	"context"
	"fmt"
	"time"

	"bookmyflower/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// MongoOrderRepository stores each order, items included, as one document.
// A single InsertOne is atomic, so no transaction is needed.
type MongoOrderRepository struct {
	col *mongo.Collection
}

func NewMongoOrderRepository(db *mongo.Database) *MongoOrderRepository {
	return &MongoOrderRepository{col: db.Collection(colOrders)}
}

func (r *MongoOrderRepository) Create(ctx context.Context, order *models.Order) error {
	now := time.Now().UTC()
	order.CreatedAt = now
	order.UpdatedAt = now
	if _, err := r.col.InsertOne(ctx, order); err != nil {
		return fmt.Errorf("failed to create order %s: %w", order.OrderID, translateMongoError(err))
	}
	return nil
}

func (r *MongoOrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&order); err != nil {
		return nil, fmt.Errorf("failed to get order %s: %w", id, translateMongoError(err))
	}
	return &order, nil
}

func (r *MongoOrderRepository) GetAll(ctx context.Context) ([]models.Order, error) {
	return r.find(ctx, bson.M{}, 0)
}

func (r *MongoOrderRepository) ListByEmail(ctx context.Context, email string) ([]models.Order, error) {
	return r.find(ctx, bson.M{"customerDetails.email": email}, 0)
}

func (r *MongoOrderRepository) ListRecent(ctx context.Context, limit int) ([]models.Order, error) {
	return r.find(ctx, bson.M{}, limit)
}

func (r *MongoOrderRepository) find(ctx context.Context, filter bson.M, limit int) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "orderDate", Value: -1}})
	if limit > 0 {
		opts = opts.SetLimit(int64(limit))
	}
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	orders := make([]models.Order, 0)
	if err := cur.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}
	return orders, nil
}

func (r *MongoOrderRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.col.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return n, nil
}

func (r *MongoOrderRepository) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) error {
	return r.set(ctx, id, bson.M{"orderStatus": status})
}

func (r *MongoOrderRepository) UpdatePaymentStatus(ctx context.Context, id string, status models.PaymentStatus) error {
	return r.set(ctx, id, bson.M{"paymentStatus": status})
}

func (r *MongoOrderRepository) set(ctx context.Context, id string, fields bson.M) error {
	fields["updatedAt"] = time.Now().UTC()
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("failed to update order %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("order with ID %s not found for update: %w", id, ErrNotFound)
	}
	return nil
}

func (r *MongoOrderRepository) AggregateByStatus(ctx context.Context) ([]models.StatusAggregate, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$orderStatus"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "revenue", Value: bson.D{{Key: "$sum", Value: "$orderTotal"}}},
		}}},
	}
	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate orders: %w", err)
	}
	var rows []models.StatusAggregate
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode order aggregates: %w", err)
	}
	return rows, nil
}
