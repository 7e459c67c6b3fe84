package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"bookmyflower/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// missingMarker is cached for pincodes absent from the store.
const missingMarker = "-"

// RedisCmd is the subset of redis.Cmdable the pincode cache uses.
type RedisCmd interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// CachedPincodeRepository is a read-through Redis cache in front of a
// PincodeRepository. Only GetByPincode is cached; writes invalidate.
// Cache failures are logged and the call falls through to the store.
type CachedPincodeRepository struct {
	PincodeRepository
	rdb RedisCmd
	ttl time.Duration
}

func NewCachedPincodeRepository(next PincodeRepository, rdb RedisCmd, ttl time.Duration) *CachedPincodeRepository {
	return &CachedPincodeRepository{PincodeRepository: next, rdb: rdb, ttl: ttl}
}

func pincodeKey(pincode int) string {
	return fmt.Sprintf("pincode:%d", pincode)
}

func (r *CachedPincodeRepository) GetByPincode(ctx context.Context, pincode int) (*models.ServiceablePincode, error) {
	key := pincodeKey(pincode)

	raw, err := r.rdb.Get(ctx, key).Result()
	switch {
	case err == nil && raw == missingMarker:
		return nil, fmt.Errorf("pincode %d not found (cached): %w", pincode, ErrNotFound)
	case err == nil:
		var p models.ServiceablePincode
		if jsonErr := json.Unmarshal([]byte(raw), &p); jsonErr == nil {
			return &p, nil
		}
		log.Warn().Str("key", key).Msg("discarding undecodable pincode cache entry")
	case !errors.Is(err, redis.Nil):
		log.Warn().Err(err).Str("key", key).Msg("pincode cache read failed")
	}

	p, err := r.PincodeRepository.GetByPincode(ctx, pincode)
	if errors.Is(err, ErrNotFound) {
		r.store(ctx, key, missingMarker)
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	if body, jsonErr := json.Marshal(p); jsonErr == nil {
		r.store(ctx, key, string(body))
	}
	return p, nil
}

func (r *CachedPincodeRepository) store(ctx context.Context, key, value string) {
	if err := r.rdb.Set(ctx, key, value, r.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("pincode cache write failed")
	}
}

func (r *CachedPincodeRepository) invalidate(ctx context.Context, pincodes ...int) {
	keys := make([]string, 0, len(pincodes))
	for _, p := range pincodes {
		keys = append(keys, pincodeKey(p))
	}
	if err := r.rdb.Del(ctx, keys...).Err(); err != nil {
		log.Warn().Err(err).Strs("keys", keys).Msg("pincode cache invalidation failed")
	}
}

func (r *CachedPincodeRepository) Create(ctx context.Context, p *models.ServiceablePincode) error {
	if err := r.PincodeRepository.Create(ctx, p); err != nil {
		return err
	}
	r.invalidate(ctx, p.Pincode)
	return nil
}

func (r *CachedPincodeRepository) Update(ctx context.Context, p *models.ServiceablePincode) error {
	pincodes := []int{p.Pincode}
	if prev, err := r.PincodeRepository.GetByID(ctx, p.ID); err == nil && prev.Pincode != p.Pincode {
		pincodes = append(pincodes, prev.Pincode)
	}
	if err := r.PincodeRepository.Update(ctx, p); err != nil {
		return err
	}
	r.invalidate(ctx, pincodes...)
	return nil
}

func (r *CachedPincodeRepository) Delete(ctx context.Context, id string) error {
	prev, err := r.PincodeRepository.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := r.PincodeRepository.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx, prev.Pincode)
	return nil
}
