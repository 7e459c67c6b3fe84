package services

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"bookmyflower/internal/metrics"
	"bookmyflower/internal/models"
	"bookmyflower/internal/repositories"
)

var pincodePattern = regexp.MustCompile(`^\d{6}$`)

// PincodeService answers delivery serviceability and manages the allow-list.
type PincodeService struct {
	repo repositories.PincodeRepository
}

func NewPincodeService(repo repositories.PincodeRepository) *PincodeService {
	return &PincodeService{repo: repo}
}

// ParsePincode validates the 6-digit format and returns the numeric value.
func ParsePincode(input string) (int, error) {
	if !pincodePattern.MatchString(input) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPincodeFormat, input)
	}
	n, err := strconv.Atoi(input)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPincodeFormat, input)
	}
	return n, nil
}

// CheckPincode reports whether orders can be delivered to input. A malformed
// pincode never reaches the store.
func (s *PincodeService) CheckPincode(ctx context.Context, input string) (*models.PincodeCheck, error) {
	pincode, err := ParsePincode(input)
	if err != nil {
		metrics.PincodeChecks.WithLabelValues("invalid_format").Inc()
		return nil, err
	}

	check := &models.PincodeCheck{Pincode: pincode}
	record, err := s.repo.GetByPincode(ctx, pincode)
	switch {
	case isNotFound(translateRepoError(err)):
		check.Reason = models.PincodeNotFound
	case err != nil:
		return nil, fmt.Errorf("failed to look up pincode %d: %w", pincode, err)
	case !record.IsActive:
		check.Reason = models.PincodeInactive
	default:
		check.Reason = models.PincodeActive
		check.Serviceable = true
	}
	metrics.PincodeChecks.WithLabelValues(string(check.Reason)).Inc()
	return check, nil
}

// PincodeRequest is the admin payload for an allow-list entry. Pincode
// accepts a JSON number or string; both are normalized to the digit string.
type PincodeRequest struct {
	Pincode  string `json:"pincode"`
	IsActive *bool  `json:"isActive,omitempty"`
}

func (s *PincodeService) CreatePincode(ctx context.Context, req PincodeRequest) (*models.ServiceablePincode, error) {
	pincode, err := ParsePincode(strings.TrimSpace(req.Pincode))
	if err != nil {
		return nil, newValidationError("pincode", err.Error())
	}
	p := &models.ServiceablePincode{Pincode: pincode, IsActive: true}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, translateRepoError(err)
	}
	return p, nil
}

func (s *PincodeService) UpdatePincode(ctx context.Context, id string, req PincodeRequest) (*models.ServiceablePincode, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, translateRepoError(err)
	}
	if req.Pincode != "" {
		pincode, err := ParsePincode(strings.TrimSpace(req.Pincode))
		if err != nil {
			return nil, newValidationError("pincode", err.Error())
		}
		p.Pincode = pincode
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, translateRepoError(err)
	}
	return p, nil
}

func (s *PincodeService) DeletePincode(ctx context.Context, id string) error {
	return translateRepoError(s.repo.Delete(ctx, id))
}

func (s *PincodeService) ListPincodes(ctx context.Context) ([]models.ServiceablePincode, error) {
	return s.repo.GetAll(ctx)
}
