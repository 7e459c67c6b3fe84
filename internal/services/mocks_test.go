package services_test

import (
	"context"
	"io"
	"os"
	"sync"
	"testing"

	"bookmyflower/internal/models"
	"bookmyflower/internal/notify"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/mock"
)

func TestMain(m *testing.M) {
	log.Logger = zerolog.New(io.Discard)
	os.Exit(m.Run())
}

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByResetTokenHash(ctx context.Context, hash string) (*models.User, error) {
	args := m.Called(ctx, hash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// MockPincodeRepository is a mock implementation of repositories.PincodeRepository
type MockPincodeRepository struct {
	mock.Mock
}

func (m *MockPincodeRepository) Create(ctx context.Context, p *models.ServiceablePincode) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPincodeRepository) GetByID(ctx context.Context, id string) (*models.ServiceablePincode, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ServiceablePincode), args.Error(1)
}

func (m *MockPincodeRepository) GetByPincode(ctx context.Context, pincode int) (*models.ServiceablePincode, error) {
	args := m.Called(ctx, pincode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ServiceablePincode), args.Error(1)
}

func (m *MockPincodeRepository) GetAll(ctx context.Context) ([]models.ServiceablePincode, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.ServiceablePincode), args.Error(1)
}

func (m *MockPincodeRepository) Update(ctx context.Context, p *models.ServiceablePincode) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPincodeRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// recordingSender captures sent emails and fails when err is set.
type recordingSender struct {
	mu   sync.Mutex
	sent []notify.Email
	err  error
}

func (s *recordingSender) Send(_ context.Context, email notify.Email) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, email)
	return s.err
}

func (s *recordingSender) kinds() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	kinds := make([]string, 0, len(s.sent))
	for _, e := range s.sent {
		kinds = append(kinds, e.Kind)
	}
	return kinds
}

func (s *recordingSender) find(kind string) (notify.Email, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.sent {
		if e.Kind == kind {
			return e, true
		}
	}
	return notify.Email{}, false
}
