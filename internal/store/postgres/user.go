package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/gosuda/actionfeed/internal/domain"
)

const userColumns = `id, company_id, email, password_hash, name, status, permissions, activation_sent_at, created_at, updated_at`

type UserRepo struct {
	db DB
}

func NewUserRepo(db DB) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO users (`+userColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		u.ID, u.CompanyID, u.Email, nilIfEmpty(u.PasswordHash), u.Name, string(u.Status),
		permissionStrings(u.Permissions), u.ActivationSentAt, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("userRepo.Create: %w", err)
	}

	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, companyID, id uuid.UUID) (*domain.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE company_id = $1 AND id = $2`,
		companyID, id,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("userRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("userRepo.GetByID: %w", err)
	}

	return u, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, companyID uuid.UUID, email string) (*domain.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE company_id = $1 AND email = $2`,
		companyID, email,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("userRepo.GetByEmail: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("userRepo.GetByEmail: %w", err)
	}

	return u, nil
}

func (r *UserRepo) List(ctx context.Context, companyID uuid.UUID) ([]*domain.User, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+userColumns+` FROM users WHERE company_id = $1 ORDER BY created_at, id
		 LIMIT 500`,
		companyID,
	)
	if err != nil {
		return nil, fmt.Errorf("userRepo.List: %w", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("userRepo.List: scan: %w", err)
		}
		users = append(users, u)
	}
	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("userRepo.List: rows: %w", err)
	}

	return users, nil
}

func (r *UserRepo) UpdateStatus(ctx context.Context, companyID, id uuid.UUID, status domain.ItemStatus) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET status = $1, updated_at = now() WHERE company_id = $2 AND id = $3`,
		string(status), companyID, id,
	)
	if err != nil {
		return fmt.Errorf("userRepo.UpdateStatus: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("userRepo.UpdateStatus: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *UserRepo) MarkActivationSent(ctx context.Context, companyID, id uuid.UUID, at time.Time) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET activation_sent_at = $1, updated_at = now() WHERE company_id = $2 AND id = $3`,
		at, companyID, id,
	)
	if err != nil {
		return fmt.Errorf("userRepo.MarkActivationSent: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("userRepo.MarkActivationSent: %w", domain.ErrNotFound)
	}

	return nil
}

// CountByStatus counts the company's users in any of the given statuses.
func (r *UserRepo) CountByStatus(ctx context.Context, companyID uuid.UUID, statuses ...domain.ItemStatus) (int, error) {
	names := make([]string, len(statuses))
	for i, s := range statuses {
		names[i] = string(s)
	}

	query, args, err := psql.Select("count(*)").From("users").
		Where(sq.Eq{"company_id": companyID, "status": names}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("userRepo.CountByStatus: build: %w", err)
	}

	var n int
	err = r.db.QueryRow(ctx, query, args...).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("userRepo.CountByStatus: %w", err)
	}

	return n, nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	var passwordHash *string
	var status string
	var perms []string

	err := row.Scan(&u.ID, &u.CompanyID, &u.Email, &passwordHash, &u.Name, &status, &perms,
		&u.ActivationSentAt, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err //nolint:wrapcheck // wrapped by the caller
	}

	u.PasswordHash = derefStr(passwordHash)
	u.Status = domain.ItemStatus(status)
	u.Permissions = make([]domain.Permission, len(perms))
	for i, p := range perms {
		u.Permissions[i] = domain.Permission(p)
	}

	return &u, nil
}

func permissionStrings(perms []domain.Permission) []string {
	out := make([]string, len(perms))
	for i, p := range perms {
		out[i] = string(p)
	}
	return out
}
