package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"bookmyflower/internal/models"

	"github.com/google/uuid"
)

// InMemoryPincodeRepository is an in-memory implementation of PincodeRepository.
type InMemoryPincodeRepository struct {
	pincodes map[string]models.ServiceablePincode
	mu       sync.RWMutex
}

func NewInMemoryPincodeRepository() *InMemoryPincodeRepository {
	return &InMemoryPincodeRepository{
		pincodes: make(map[string]models.ServiceablePincode),
	}
}

func (r *InMemoryPincodeRepository) Create(_ context.Context, p *models.ServiceablePincode) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.pincodes {
		if existing.Pincode == p.Pincode {
			return fmt.Errorf("pincode %d already exists: %w", p.Pincode, ErrDuplicateKey)
		}
	}
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	r.pincodes[p.ID] = *p
	return nil
}

func (r *InMemoryPincodeRepository) GetByID(_ context.Context, id string) (*models.ServiceablePincode, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.pincodes[id]
	if !ok {
		return nil, fmt.Errorf("pincode with ID %s: %w", id, ErrNotFound)
	}
	return &p, nil
}

func (r *InMemoryPincodeRepository) GetByPincode(_ context.Context, pincode int) (*models.ServiceablePincode, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.pincodes {
		if p.Pincode == pincode {
			return &p, nil
		}
	}
	return nil, fmt.Errorf("pincode %d: %w", pincode, ErrNotFound)
}

func (r *InMemoryPincodeRepository) GetAll(_ context.Context) ([]models.ServiceablePincode, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]models.ServiceablePincode, 0, len(r.pincodes))
	for _, p := range r.pincodes {
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Pincode < list[j].Pincode })
	return list, nil
}

func (r *InMemoryPincodeRepository) Update(_ context.Context, p *models.ServiceablePincode) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.pincodes[p.ID]
	if !ok {
		return fmt.Errorf("pincode with ID %s not found for update: %w", p.ID, ErrNotFound)
	}
	for id, other := range r.pincodes {
		if id != p.ID && other.Pincode == p.Pincode {
			return fmt.Errorf("pincode %d already exists: %w", p.Pincode, ErrDuplicateKey)
		}
	}
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = time.Now()
	r.pincodes[p.ID] = *p
	return nil
}

func (r *InMemoryPincodeRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.pincodes[id]; !ok {
		return fmt.Errorf("pincode with ID %s not found for deletion: %w", id, ErrNotFound)
	}
	delete(r.pincodes, id)
	return nil
}
