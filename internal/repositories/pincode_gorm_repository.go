package repositories

import (
	"context"
	"fmt"

	"bookmyflower/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMPincodeRepository is a GORM implementation of PincodeRepository.
type GORMPincodeRepository struct {
	db *gorm.DB
}

func NewGORMPincodeRepository(db *gorm.DB) *GORMPincodeRepository {
	return &GORMPincodeRepository{db: db}
}

func (r *GORMPincodeRepository) Create(ctx context.Context, p *models.ServiceablePincode) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("failed to create pincode %d: %w", p.Pincode, translateGORMError(err))
	}
	return nil
}

func (r *GORMPincodeRepository) GetByID(ctx context.Context, id string) (*models.ServiceablePincode, error) {
	var p models.ServiceablePincode
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to get pincode by ID %s: %w", id, translateGORMError(err))
	}
	return &p, nil
}

func (r *GORMPincodeRepository) GetByPincode(ctx context.Context, pincode int) (*models.ServiceablePincode, error) {
	var p models.ServiceablePincode
	if err := r.db.WithContext(ctx).First(&p, "pincode = ?", pincode).Error; err != nil {
		return nil, fmt.Errorf("failed to get pincode %d: %w", pincode, translateGORMError(err))
	}
	return &p, nil
}

func (r *GORMPincodeRepository) GetAll(ctx context.Context) ([]models.ServiceablePincode, error) {
	var pincodes []models.ServiceablePincode
	if err := r.db.WithContext(ctx).Order("pincode asc").Find(&pincodes).Error; err != nil {
		return nil, fmt.Errorf("failed to get all pincodes: %w", err)
	}
	return pincodes, nil
}

func (r *GORMPincodeRepository) Update(ctx context.Context, p *models.ServiceablePincode) error {
	res := r.db.WithContext(ctx).Model(p).Select("*").Omit("created_at").Updates(p)
	if res.Error != nil {
		return fmt.Errorf("failed to update pincode %s: %w", p.ID, translateGORMError(res.Error))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("pincode with ID %s not found for update: %w", p.ID, ErrNotFound)
	}
	return nil
}

func (r *GORMPincodeRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.ServiceablePincode{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete pincode: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("pincode with ID %s not found for deletion: %w", id, ErrNotFound)
	}
	return nil
}
