package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Company struct {
	ID        uuid.UUID
	Name      string
	Seats     int // licensed member seats, 0 = unlimited
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Ref returns the payload reference for the company.
func (c *Company) Ref() *Ref {
	return &Ref{ID: c.ID.String(), Name: c.Name}
}

type CompanyRepository interface {
	Create(ctx context.Context, c *Company) error
	GetByID(ctx context.Context, id uuid.UUID) (*Company, error)
	List(ctx context.Context) ([]*Company, error)
}
