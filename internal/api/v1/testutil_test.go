package v1_test

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/gosuda/actionfeed/internal/auth"
	"github.com/gosuda/actionfeed/internal/domain"
	"github.com/gosuda/actionfeed/internal/members"
	"github.com/gosuda/actionfeed/internal/server/middleware"
)

// ---------------------------------------------------------------------------
// Context helpers: inject the signed-in viewer for DoCtx
// ---------------------------------------------------------------------------

func viewerCtx(companyID uuid.UUID, perms ...domain.Permission) (context.Context, domain.CurrentUser) {
	if perms == nil {
		perms = []domain.Permission{}
	}
	viewer := domain.CurrentUser{ID: uuid.New(), CompanyID: companyID, Name: "Vera", Permissions: perms}
	return middleware.WithViewer(context.Background(), viewer), viewer
}

// ---------------------------------------------------------------------------
// Mock DataStore
// ---------------------------------------------------------------------------

type mockDataStore struct {
	items domain.ActionItemRepository
	logs  domain.LogRepository
	users domain.UserRepository
}

func (m *mockDataStore) ActionItems() domain.ActionItemRepository { return m.items }
func (m *mockDataStore) Logs() domain.LogRepository               { return m.logs }
func (m *mockDataStore) Users() domain.UserRepository             { return m.users }

// ---------------------------------------------------------------------------
// Mock ActionItemRepository
// ---------------------------------------------------------------------------

type mockItemRepo struct {
	createFunc  func(ctx context.Context, item *domain.ActionItem) error
	getByIDFunc func(ctx context.Context, companyID, id uuid.UUID) (*domain.ActionItem, error)
	listFunc    func(ctx context.Context, q domain.ActionItemQuery) (*domain.ActionItemPage, error)
	deleteFunc  func(ctx context.Context, companyID, id uuid.UUID) error
}

func (m *mockItemRepo) Create(ctx context.Context, item *domain.ActionItem) error {
	return m.createFunc(ctx, item)
}

func (m *mockItemRepo) GetByID(ctx context.Context, companyID, id uuid.UUID) (*domain.ActionItem, error) {
	return m.getByIDFunc(ctx, companyID, id)
}

func (m *mockItemRepo) List(ctx context.Context, q domain.ActionItemQuery) (*domain.ActionItemPage, error) {
	return m.listFunc(ctx, q)
}

func (m *mockItemRepo) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	return m.deleteFunc(ctx, companyID, id)
}

// ---------------------------------------------------------------------------
// Mock LogRepository
// ---------------------------------------------------------------------------

type mockLogRepo struct {
	recordFunc func(ctx context.Context, rec *domain.LogRecord) error
	listFunc   func(ctx context.Context, q domain.LogQuery) (*domain.LogPage, error)
}

func (m *mockLogRepo) Record(ctx context.Context, rec *domain.LogRecord) error {
	return m.recordFunc(ctx, rec)
}

func (m *mockLogRepo) List(ctx context.Context, q domain.LogQuery) (*domain.LogPage, error) {
	return m.listFunc(ctx, q)
}

// ---------------------------------------------------------------------------
// Mock UserRepository
// ---------------------------------------------------------------------------

type mockUserRepo struct {
	getByIDFunc func(ctx context.Context, companyID, id uuid.UUID) (*domain.User, error)
}

func (m *mockUserRepo) Create(context.Context, *domain.User) error { return nil }

func (m *mockUserRepo) GetByID(ctx context.Context, companyID, id uuid.UUID) (*domain.User, error) {
	return m.getByIDFunc(ctx, companyID, id)
}

func (m *mockUserRepo) GetByEmail(context.Context, uuid.UUID, string) (*domain.User, error) {
	return nil, domain.ErrNotFound
}

func (m *mockUserRepo) List(context.Context, uuid.UUID) ([]*domain.User, error) { return nil, nil }

func (m *mockUserRepo) UpdateStatus(context.Context, uuid.UUID, uuid.UUID, domain.ItemStatus) error {
	return nil
}

func (m *mockUserRepo) MarkActivationSent(context.Context, uuid.UUID, uuid.UUID, time.Time) error {
	return nil
}

func (m *mockUserRepo) CountByStatus(context.Context, uuid.UUID, ...domain.ItemStatus) (int, error) {
	return 0, nil
}

// ---------------------------------------------------------------------------
// Mock AuthService
// ---------------------------------------------------------------------------

type mockAuthService struct {
	loginFunc   func(ctx context.Context, companyID uuid.UUID, email, password string) (*auth.Tokens, error)
	logoutFunc  func(ctx context.Context, viewer domain.CurrentUser) error
	refreshFunc func(ctx context.Context, refreshToken string) (string, error)
}

func (m *mockAuthService) Login(ctx context.Context, companyID uuid.UUID, email, password string) (*auth.Tokens, error) {
	return m.loginFunc(ctx, companyID, email, password)
}

func (m *mockAuthService) Logout(ctx context.Context, viewer domain.CurrentUser) error {
	return m.logoutFunc(ctx, viewer)
}

func (m *mockAuthService) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	return m.refreshFunc(ctx, refreshToken)
}

// ---------------------------------------------------------------------------
// Mock ItemService
// ---------------------------------------------------------------------------

type mockItemService struct {
	createFunc  func(ctx context.Context, item *domain.ActionItem) error
	dismissFunc func(ctx context.Context, companyID, id uuid.UUID) error
}

func (m *mockItemService) Create(ctx context.Context, item *domain.ActionItem) error {
	return m.createFunc(ctx, item)
}

func (m *mockItemService) Dismiss(ctx context.Context, companyID, id uuid.UUID) error {
	return m.dismissFunc(ctx, companyID, id)
}

// ---------------------------------------------------------------------------
// Mock MemberService
// ---------------------------------------------------------------------------

type mockMemberService struct {
	removeFunc  func(ctx context.Context, viewer domain.CurrentUser, userID uuid.UUID, removeAccounts bool) error
	restoreFunc func(ctx context.Context, viewer domain.CurrentUser, userIDs []uuid.UUID) error
	resendFunc  func(ctx context.Context, viewer domain.CurrentUser, userID uuid.UUID) error
	summaryFunc func(ctx context.Context, companyID uuid.UUID) (*members.Summary, error)
	usersFunc   func(ctx context.Context, companyID uuid.UUID) ([]*domain.User, error)
}

func (m *mockMemberService) RemoveUser(ctx context.Context, viewer domain.CurrentUser, userID uuid.UUID, removeAccounts bool) error {
	return m.removeFunc(ctx, viewer, userID, removeAccounts)
}

func (m *mockMemberService) RestoreUsers(ctx context.Context, viewer domain.CurrentUser, userIDs []uuid.UUID) error {
	return m.restoreFunc(ctx, viewer, userIDs)
}

func (m *mockMemberService) ResendActivation(ctx context.Context, viewer domain.CurrentUser, userID uuid.UUID) error {
	return m.resendFunc(ctx, viewer, userID)
}

func (m *mockMemberService) Summary(ctx context.Context, companyID uuid.UUID) (*members.Summary, error) {
	return m.summaryFunc(ctx, companyID)
}

func (m *mockMemberService) Users(ctx context.Context, companyID uuid.UUID) ([]*domain.User, error) {
	return m.usersFunc(ctx, companyID)
}
