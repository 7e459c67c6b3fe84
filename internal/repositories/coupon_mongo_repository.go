package repositories

import (
	"context"
	"fmt"
	"time"

	"bookmyflower/internal/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// MongoCouponRepository stores coupons in the "coupons" collection.
type MongoCouponRepository struct {
	col *mongo.Collection
}

func NewMongoCouponRepository(db *mongo.Database) *MongoCouponRepository {
	return &MongoCouponRepository{col: db.Collection(colCoupons)}
}

func (r *MongoCouponRepository) Create(ctx context.Context, coupon *models.Coupon) error {
	if coupon.ID == "" {
		coupon.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	coupon.CreatedAt = now
	coupon.UpdatedAt = now
	if _, err := r.col.InsertOne(ctx, coupon); err != nil {
		return fmt.Errorf("failed to create coupon %s: %w", coupon.Code, translateMongoError(err))
	}
	return nil
}

func (r *MongoCouponRepository) GetByID(ctx context.Context, id string) (*models.Coupon, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoCouponRepository) GetByCode(ctx context.Context, code string) (*models.Coupon, error) {
	return r.findOne(ctx, bson.M{"code": code})
}

func (r *MongoCouponRepository) findOne(ctx context.Context, filter bson.M) (*models.Coupon, error) {
	var coupon models.Coupon
	if err := r.col.FindOne(ctx, filter).Decode(&coupon); err != nil {
		return nil, fmt.Errorf("failed to get coupon %v: %w", filter, translateMongoError(err))
	}
	return &coupon, nil
}

func (r *MongoCouponRepository) GetAll(ctx context.Context) ([]models.Coupon, error) {
	return r.find(ctx, bson.M{}, bson.D{{Key: "createdAt", Value: -1}})
}

func (r *MongoCouponRepository) ListActive(ctx context.Context, now time.Time) ([]models.Coupon, error) {
	filter := bson.M{"isActive": true, "expiryDate": bson.M{"$gt": now}}
	return r.find(ctx, filter, bson.D{{Key: "expiryDate", Value: 1}})
}

func (r *MongoCouponRepository) find(ctx context.Context, filter bson.M, sort bson.D) ([]models.Coupon, error) {
	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(sort))
	if err != nil {
		return nil, fmt.Errorf("failed to list coupons: %w", err)
	}
	coupons := make([]models.Coupon, 0)
	if err := cur.All(ctx, &coupons); err != nil {
		return nil, fmt.Errorf("failed to decode coupons: %w", err)
	}
	return coupons, nil
}

func (r *MongoCouponRepository) Update(ctx context.Context, coupon *models.Coupon) error {
	coupon.UpdatedAt = time.Now().UTC()
	if err := replaceByID(ctx, r.col, coupon.ID, coupon); err != nil {
		return fmt.Errorf("failed to update coupon %s: %w", coupon.ID, err)
	}
	return nil
}

func (r *MongoCouponRepository) Delete(ctx context.Context, id string) error {
	if err := deleteByID(ctx, r.col, id); err != nil {
		return fmt.Errorf("failed to delete coupon %s: %w", id, err)
	}
	return nil
}
