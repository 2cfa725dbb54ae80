package enterprise

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gosuda/actionfeed/internal/actions"
	"github.com/gosuda/actionfeed/internal/domain"
)

type countFunc func(statuses ...domain.ItemStatus) (int, error)

func (f countFunc) CountByStatus(_ context.Context, _ uuid.UUID, statuses ...domain.ItemStatus) (int, error) {
	return f(statuses...)
}

func TestValidator_NoLicense(t *testing.T) {
	t.Parallel()

	v := NewValidator(nil)
	err := v.Validate()
	assert.ErrorIs(t, err, ErrNoLicense)
}

func TestValidator_ValidLicense(t *testing.T) {
	t.Parallel()

	v := NewValidator(&License{
		ID:        "lic-001",
		Org:       "acme-corp",
		MaxUsers:  50,
		ExpiresAt: time.Now().Add(24 * time.Hour),
		IssuedAt:  time.Now().Add(-24 * time.Hour),
	})
	require.NoError(t, v.Validate())
}

func TestValidator_ExpiredLicense(t *testing.T) {
	t.Parallel()

	v := NewValidator(&License{ID: "lic-expired", ExpiresAt: time.Now().Add(-1 * time.Hour)})
	assert.ErrorIs(t, v.Validate(), ErrLicenseExpired)
}

func TestSeatLimit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		license *License
		company *domain.Company
		want    int
	}{
		{name: "no license no company seats", company: &domain.Company{}, want: 0},
		{name: "license applies", license: &License{MaxUsers: 10}, company: &domain.Company{}, want: 10},
		{name: "company seats win", license: &License{MaxUsers: 10}, company: &domain.Company{Seats: 3}, want: 3},
		{name: "nil company", license: &License{MaxUsers: 7}, want: 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, NewValidator(tt.license).SeatLimit(tt.company))
		})
	}
}

func TestSeatsLeft(t *testing.T) {
	t.Parallel()

	company := &domain.Company{ID: uuid.New(), Seats: 5}

	t.Run("counts active and pending members", func(t *testing.T) {
		t.Parallel()

		users := countFunc(func(statuses ...domain.ItemStatus) (int, error) {
			assert.Equal(t, []domain.ItemStatus{domain.ItemStatusActive, domain.ItemStatusPending}, statuses)
			return 3, nil
		})
		left, err := NewValidator(nil).SeatsLeft(context.Background(), company, users)
		require.NoError(t, err)
		assert.Equal(t, 2, left)
	})

	t.Run("never negative", func(t *testing.T) {
		t.Parallel()

		users := countFunc(func(...domain.ItemStatus) (int, error) { return 9, nil })
		left, err := NewValidator(nil).SeatsLeft(context.Background(), company, users)
		require.NoError(t, err)
		assert.Equal(t, 0, left)
	})

	t.Run("unlimited skips the count", func(t *testing.T) {
		t.Parallel()

		users := countFunc(func(...domain.ItemStatus) (int, error) {
			t.Fatal("count must not be called")
			return 0, nil
		})
		left, err := NewValidator(nil).SeatsLeft(context.Background(), &domain.Company{ID: uuid.New()}, users)
		require.NoError(t, err)
		assert.Equal(t, actions.UnlimitedSeats, left)
	})

	t.Run("count error", func(t *testing.T) {
		t.Parallel()

		users := countFunc(func(...domain.ItemStatus) (int, error) { return 0, errors.New("db down") })
		_, err := NewValidator(nil).SeatsLeft(context.Background(), company, users)
		assert.Error(t, err)
	})
}

func TestCheckSeats(t *testing.T) {
	t.Parallel()

	company := &domain.Company{ID: uuid.New(), Seats: 4}
	users := countFunc(func(...domain.ItemStatus) (int, error) { return 3, nil })
	v := NewValidator(nil)

	require.NoError(t, v.CheckSeats(context.Background(), company, users, 1))
	assert.ErrorIs(t, v.CheckSeats(context.Background(), company, users, 2), domain.ErrSeatsExhausted)
}
