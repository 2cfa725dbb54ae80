package v1

import (
	"context"

	"github.com/google/uuid"

	"github.com/gosuda/actionfeed/internal/auth"
	"github.com/gosuda/actionfeed/internal/domain"
	"github.com/gosuda/actionfeed/internal/members"
)

// DataStore abstracts the repository accessor pattern for handler testing.
// *postgres.Store satisfies this interface.
type DataStore interface {
	ActionItems() domain.ActionItemRepository
	Logs() domain.LogRepository
	Users() domain.UserRepository
}

// AuthService abstracts authentication operations for handler testing.
// *auth.Service satisfies this interface.
type AuthService interface {
	Login(ctx context.Context, companyID uuid.UUID, email, password string) (*auth.Tokens, error)
	Logout(ctx context.Context, viewer domain.CurrentUser) error
	RefreshToken(ctx context.Context, refreshToken string) (string, error)
}

// ItemService abstracts action item mutations for handler testing.
// *items.Service satisfies this interface.
type ItemService interface {
	Create(ctx context.Context, item *domain.ActionItem) error
	Dismiss(ctx context.Context, companyID, id uuid.UUID) error
}

// MemberService abstracts the member lifecycle for handler testing.
// *members.Service satisfies this interface.
type MemberService interface {
	RemoveUser(ctx context.Context, viewer domain.CurrentUser, userID uuid.UUID, removeIntegrationAccounts bool) error
	RestoreUsers(ctx context.Context, viewer domain.CurrentUser, userIDs []uuid.UUID) error
	ResendActivation(ctx context.Context, viewer domain.CurrentUser, userID uuid.UUID) error
	Summary(ctx context.Context, companyID uuid.UUID) (*members.Summary, error)
	Users(ctx context.Context, companyID uuid.UUID) ([]*domain.User, error)
}
