package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"testing"

	"bookmyflower/internal/config"
	"bookmyflower/internal/repositories"
	"bookmyflower/internal/services"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	log.Logger = zerolog.New(io.Discard)
	os.Exit(m.Run())
}

func TestOpenStores_Memory(t *testing.T) {
	st, client, err := openStores(context.Background(), config.DatabaseConfig{Driver: "memory"})
	require.NoError(t, err)
	assert.Nil(t, client)
	assert.IsType(t, &repositories.InMemoryOrderRepository{}, st.orders)
	assert.IsType(t, &repositories.InMemoryUserRepository{}, st.users)
}

func TestOpenStores_SQLite(t *testing.T) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	st, client, err := openStores(context.Background(), config.DatabaseConfig{Driver: "sqlite", DSN: dsn})
	require.NoError(t, err)
	assert.Nil(t, client)
	assert.IsType(t, &repositories.GORMCouponRepository{}, st.coupons)

	n, err := st.orders.Count(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)
}

func TestSeedDemoData_Idempotent(t *testing.T) {
	ctx := context.Background()
	coupons := services.NewCouponService(repositories.NewInMemoryCouponRepository())
	pincodes := services.NewPincodeService(repositories.NewInMemoryPincodeRepository())

	seedDemoData(ctx, coupons, pincodes)
	seedDemoData(ctx, coupons, pincodes)

	all, err := coupons.ListAllCoupons(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	check, err := pincodes.CheckPincode(ctx, "201301")
	require.NoError(t, err)
	assert.True(t, check.Serviceable)

	list, err := pincodes.ListPincodes(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
