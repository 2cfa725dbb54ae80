package enterprise

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/gosuda/actionfeed/internal/actions"
	"github.com/gosuda/actionfeed/internal/domain"
)

//nolint:gochecknoglobals // sentinel error
var ErrLicenseExpired = errors.New("enterprise: license expired")

//nolint:gochecknoglobals // sentinel error
var ErrNoLicense = errors.New("enterprise: no license configured")

// License caps the member seats of every company on this deployment.
type License struct {
	ID        string
	Org       string
	MaxUsers  int // 0 = unlimited
	ExpiresAt time.Time
	IssuedAt  time.Time
}

// UserCounter counts the members occupying a seat.
type UserCounter interface {
	CountByStatus(ctx context.Context, companyID uuid.UUID, statuses ...domain.ItemStatus) (int, error)
}

// Validator checks enterprise licenses and seat usage.
type Validator struct {
	license *License
	now     func() time.Time
}

// NewValidator creates a Validator. A nil license leaves seats bounded only by each
// company's own seat count.
func NewValidator(license *License) *Validator {
	return &Validator{license: license, now: time.Now}
}

// Validate checks if the license is valid and not expired.
func (v *Validator) Validate() error {
	if v.license == nil {
		return ErrNoLicense
	}

	if v.now().After(v.license.ExpiresAt) {
		return ErrLicenseExpired
	}

	return nil
}

// SeatLimit returns the number of seats available to company. The company's own seat
// count wins over the license. 0 means unlimited.
func (v *Validator) SeatLimit(company *domain.Company) int {
	if company != nil && company.Seats > 0 {
		return company.Seats
	}
	if v.license == nil {
		return 0
	}
	return v.license.MaxUsers
}

// occupying lists the statuses that hold a seat.
var occupying = []domain.ItemStatus{domain.ItemStatusActive, domain.ItemStatusPending} //nolint:gochecknoglobals // lookup table

// SeatsLeft returns the free seats of company, or actions.UnlimitedSeats.
func (v *Validator) SeatsLeft(ctx context.Context, company *domain.Company, users UserCounter) (int, error) {
	limit := v.SeatLimit(company)
	if limit <= 0 {
		return actions.UnlimitedSeats, nil
	}

	used, err := users.CountByStatus(ctx, company.ID, occupying...)
	if err != nil {
		return 0, fmt.Errorf("enterprise.Validator.SeatsLeft: %w", err)
	}

	return max(0, limit-used), nil
}

// CheckSeats fails with domain.ErrSeatsExhausted when fewer than n seats are free.
func (v *Validator) CheckSeats(ctx context.Context, company *domain.Company, users UserCounter, n int) error {
	left, err := v.SeatsLeft(ctx, company, users)
	if err != nil {
		return err
	}
	if left != actions.UnlimitedSeats && left < n {
		return fmt.Errorf("enterprise.Validator.CheckSeats: %d needed, %d left: %w", n, left, domain.ErrSeatsExhausted)
	}
	return nil
}
