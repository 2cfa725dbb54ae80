package domain

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID               uuid.UUID
	CompanyID        uuid.UUID
	Email            string
	PasswordHash     string // argon2id, empty until the invite is accepted
	Name             string
	Status           ItemStatus
	Permissions      []Permission
	ActivationSentAt *time.Time // nullable, last invite e-mail
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Ref returns the payload reference for the user.
func (u *User) Ref() *Ref {
	return &Ref{ID: u.ID.String(), Name: u.Name, Email: u.Email, Status: u.Status}
}

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, companyID, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, companyID uuid.UUID, email string) (*User, error)
	List(ctx context.Context, companyID uuid.UUID) ([]*User, error)
	UpdateStatus(ctx context.Context, companyID, id uuid.UUID, status ItemStatus) error
	MarkActivationSent(ctx context.Context, companyID, id uuid.UUID, at time.Time) error
	CountByStatus(ctx context.Context, companyID uuid.UUID, statuses ...ItemStatus) (int, error)
}

// CurrentUser is the viewing user. Every permission gate reads it explicitly.
// A nil Permissions slice means the permissions are not loaded yet.
type CurrentUser struct {
	ID          uuid.UUID
	CompanyID   uuid.UUID
	Name        string
	Permissions []Permission
}

// PermissionsLoaded reports whether the permission set is known.
func (u CurrentUser) PermissionsLoaded() bool {
	return u.Permissions != nil
}

// Can reports whether the user holds permission p.
func (u CurrentUser) Can(p Permission) bool {
	return slices.Contains(u.Permissions, p)
}

// Is reports whether the payload id refers to this user.
func (u CurrentUser) Is(id string) bool {
	return id != "" && u.ID != uuid.Nil && id == u.ID.String()
}
