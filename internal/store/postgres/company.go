package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/gosuda/actionfeed/internal/domain"
)

type CompanyRepo struct {
	db DB
}

func NewCompanyRepo(db DB) *CompanyRepo {
	return &CompanyRepo{db: db}
}

func (r *CompanyRepo) Create(ctx context.Context, c *domain.Company) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO companies (id, name, seats, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		c.ID, c.Name, c.Seats, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("companyRepo.Create: %w", err)
	}

	return nil
}

func (r *CompanyRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Company, error) {
	var c domain.Company

	err := r.db.QueryRow(ctx,
		`SELECT id, name, seats, created_at, updated_at
		 FROM companies WHERE id = $1`,
		id,
	).Scan(&c.ID, &c.Name, &c.Seats, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("companyRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("companyRepo.GetByID: %w", err)
	}

	return &c, nil
}

func (r *CompanyRepo) List(ctx context.Context) ([]*domain.Company, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, seats, created_at, updated_at
		 FROM companies ORDER BY created_at, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("companyRepo.List: %w", err)
	}
	defer rows.Close()

	var companies []*domain.Company
	for rows.Next() {
		var c domain.Company
		err = rows.Scan(&c.ID, &c.Name, &c.Seats, &c.CreatedAt, &c.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("companyRepo.List: scan: %w", err)
		}
		companies = append(companies, &c)
	}
	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("companyRepo.List: rows: %w", err)
	}

	return companies, nil
}
