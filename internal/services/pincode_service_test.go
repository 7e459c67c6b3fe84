package services_test

import (
	"context"
	"testing"

	"bookmyflower/internal/models"
	"bookmyflower/internal/repositories"
	"bookmyflower/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPincodeService_CheckPincode_RejectsBadFormat(t *testing.T) {
	repo := new(MockPincodeRepository)
	svc := services.NewPincodeService(repo)

	for _, input := range []string{"12a456", "123", "1234567", "", " 201301", "２０１３０１"} {
		_, err := svc.CheckPincode(context.Background(), input)
		assert.ErrorIs(t, err, services.ErrInvalidPincodeFormat, "input %q", input)
	}
	repo.AssertNotCalled(t, "GetByPincode")
}

func TestPincodeService_CheckPincode(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewInMemoryPincodeRepository()
	require.NoError(t, repo.Create(ctx, &models.ServiceablePincode{Pincode: 201301, IsActive: true}))
	require.NoError(t, repo.Create(ctx, &models.ServiceablePincode{Pincode: 110001, IsActive: false}))
	svc := services.NewPincodeService(repo)

	tests := []struct {
		input       string
		serviceable bool
		reason      models.PincodeStatus
	}{
		{"201301", true, models.PincodeActive},
		{"110001", false, models.PincodeInactive},
		{"999999", false, models.PincodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			check, err := svc.CheckPincode(ctx, tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.serviceable, check.Serviceable)
			assert.Equal(t, tt.reason, check.Reason)
		})
	}
}

func TestPincodeService_Admin(t *testing.T) {
	ctx := context.Background()
	svc := services.NewPincodeService(repositories.NewInMemoryPincodeRepository())

	p, err := svc.CreatePincode(ctx, services.PincodeRequest{Pincode: "560001"})
	require.NoError(t, err)
	assert.True(t, p.IsActive)
	assert.Equal(t, 560001, p.Pincode)

	_, err = svc.CreatePincode(ctx, services.PincodeRequest{Pincode: "560001"})
	assert.ErrorIs(t, err, services.ErrDuplicateKey)

	_, err = svc.CreatePincode(ctx, services.PincodeRequest{Pincode: "5600"})
	assert.ErrorIs(t, err, services.ErrValidation)

	inactive := false
	p, err = svc.UpdatePincode(ctx, p.ID, services.PincodeRequest{IsActive: &inactive})
	require.NoError(t, err)
	assert.False(t, p.IsActive)
	assert.Equal(t, 560001, p.Pincode)

	check, err := svc.CheckPincode(ctx, "560001")
	require.NoError(t, err)
	assert.False(t, check.Serviceable)

	list, err := svc.ListPincodes(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, svc.DeletePincode(ctx, p.ID))
	assert.ErrorIs(t, svc.DeletePincode(ctx, p.ID), services.ErrNotFound)
	_, err = svc.UpdatePincode(ctx, p.ID, services.PincodeRequest{IsActive: &inactive})
	assert.ErrorIs(t, err, services.ErrNotFound)
}
