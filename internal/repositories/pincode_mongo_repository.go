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

// MongoPincodeRepository stores the allow-list in the "pincodes" collection.
type MongoPincodeRepository struct {
	col *mongo.Collection
}

func NewMongoPincodeRepository(db *mongo.Database) *MongoPincodeRepository {
	return &MongoPincodeRepository{col: db.Collection(colPincodes)}
}

func (r *MongoPincodeRepository) Create(ctx context.Context, p *models.ServiceablePincode) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	if _, err := r.col.InsertOne(ctx, p); err != nil {
		return fmt.Errorf("failed to create pincode %d: %w", p.Pincode, translateMongoError(err))
	}
	return nil
}

func (r *MongoPincodeRepository) GetByID(ctx context.Context, id string) (*models.ServiceablePincode, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoPincodeRepository) GetByPincode(ctx context.Context, pincode int) (*models.ServiceablePincode, error) {
	return r.findOne(ctx, bson.M{"pincode": pincode})
}

func (r *MongoPincodeRepository) findOne(ctx context.Context, filter bson.M) (*models.ServiceablePincode, error) {
	var p models.ServiceablePincode
	if err := r.col.FindOne(ctx, filter).Decode(&p); err != nil {
		return nil, fmt.Errorf("failed to get pincode %v: %w", filter, translateMongoError(err))
	}
	return &p, nil
}

func (r *MongoPincodeRepository) GetAll(ctx context.Context) ([]models.ServiceablePincode, error) {
	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "pincode", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list pincodes: %w", err)
	}
	pincodes := make([]models.ServiceablePincode, 0)
	if err := cur.All(ctx, &pincodes); err != nil {
		return nil, fmt.Errorf("failed to decode pincodes: %w", err)
	}
	return pincodes, nil
}

func (r *MongoPincodeRepository) Update(ctx context.Context, p *models.ServiceablePincode) error {
	p.UpdatedAt = time.Now().UTC()
	if err := replaceByID(ctx, r.col, p.ID, p); err != nil {
		return fmt.Errorf("failed to update pincode %s: %w", p.ID, err)
	}
	return nil
}

func (r *MongoPincodeRepository) Delete(ctx context.Context, id string) error {
	if err := deleteByID(ctx, r.col, id); err != nil {
		return fmt.Errorf("failed to delete pincode %s: %w", id, err)
	}
	return nil
}
