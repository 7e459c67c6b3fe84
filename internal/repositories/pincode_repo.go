package repositories

import (
	"context"

	"bookmyflower/internal/models"
)

// PincodeRepository defines the interface for the serviceable pincode allow-list.
type PincodeRepository interface {
	Create(ctx context.Context, p *models.ServiceablePincode) error
	GetByID(ctx context.Context, id string) (*models.ServiceablePincode, error)
	GetByPincode(ctx context.Context, pincode int) (*models.ServiceablePincode, error)
	GetAll(ctx context.Context) ([]models.ServiceablePincode, error)
	Update(ctx context.Context, p *models.ServiceablePincode) error
	Delete(ctx context.Context, id string) error
}
