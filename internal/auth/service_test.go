package auth_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gosuda/actionfeed/internal/auth"
	"github.com/gosuda/actionfeed/internal/domain"
)

// --- mocks ---

type mockUserRepo struct {
	getByEmailFn func(email string) (*domain.User, error)
	getByIDFn    func(id uuid.UUID) (*domain.User, error)
	createFn     func(u *domain.User) error
}

func (m *mockUserRepo) Create(_ context.Context, u *domain.User) error {
	if m.createFn != nil {
		return m.createFn(u)
	}
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, _, id uuid.UUID) (*domain.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, _ uuid.UUID, email string) (*domain.User, error) {
	if m.getByEmailFn != nil {
		return m.getByEmailFn(email)
	}
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

type mockLogRepo struct {
	mu        sync.Mutex
	recorded  []*domain.LogRecord
	recordErr error
}

func (m *mockLogRepo) Record(_ context.Context, rec *domain.LogRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recorded = append(m.recorded, rec)
	return m.recordErr
}

func (m *mockLogRepo) List(context.Context, domain.LogQuery) (*domain.LogPage, error) {
	return &domain.LogPage{}, nil
}

type mockCompanyRepo struct {
	company *domain.Company
	created *domain.Company
}

func (m *mockCompanyRepo) Create(_ context.Context, c *domain.Company) error {
	m.created = c
	return nil
}

func (m *mockCompanyRepo) GetByID(context.Context, uuid.UUID) (*domain.Company, error) {
	if m.company == nil {
		return nil, domain.ErrNotFound
	}
	return m.company, nil
}

func (m *mockCompanyRepo) List(context.Context) ([]*domain.Company, error) { return nil, nil }

// --- helpers ---

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testEmail     = "alice@example.com"
	testPassword  = "correct-horse-battery-staple"
)

func activeUser(t *testing.T) *domain.User {
	t.Helper()

	hash, err := auth.HashPassword(testPassword)
	require.NoError(t, err)
	return &domain.User{
		ID:           uuid.New(),
		CompanyID:    uuid.New(),
		Email:        testEmail,
		PasswordHash: hash,
		Name:         "Alice",
		Status:       domain.ItemStatusActive,
		Permissions:  []domain.Permission{domain.PermissionEditCompany},
	}
}

func newTestService(users *mockUserRepo, logs *mockLogRepo) *auth.Service {
	return auth.NewService(&mockCompanyRepo{}, users, logs, testJWTSecret, 15*time.Minute, 7*24*time.Hour)
}

// --- tests ---

func TestLogin(t *testing.T) {
	t.Parallel()

	t.Run("happy path issues tokens and records SIGN_IN", func(t *testing.T) {
		t.Parallel()

		user := activeUser(t)
		logs := &mockLogRepo{}
		svc := newTestService(&mockUserRepo{
			getByEmailFn: func(email string) (*domain.User, error) {
				assert.Equal(t, testEmail, email)
				return user, nil
			},
		}, logs)

		tokens, err := svc.Login(t.Context(), user.CompanyID, "  Alice@Example.com ", testPassword)
		require.NoError(t, err)
		assert.NotEqual(t, tokens.AccessToken, tokens.RefreshToken)

		claims, err := auth.ValidateAccessToken(testJWTSecret, tokens.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, []string{"EDIT_COMPANY"}, claims.Permissions)

		require.Len(t, logs.recorded, 1)
		rec := logs.recorded[0]
		assert.Equal(t, domain.EntityTypeAuth, rec.EntityType)
		assert.Equal(t, domain.LogActionSignIn, rec.Action)
		assert.Equal(t, user.ID.String(), rec.Info.Author.ID)
	})

	t.Run("log failure does not block sign-in", func(t *testing.T) {
		t.Parallel()

		user := activeUser(t)
		svc := newTestService(&mockUserRepo{
			getByEmailFn: func(string) (*domain.User, error) { return user, nil },
		}, &mockLogRepo{recordErr: errors.New("db down")})

		_, err := svc.Login(t.Context(), user.CompanyID, testEmail, testPassword)
		assert.NoError(t, err)
	})

	tests := []struct {
		name     string
		password string
		mutate   func(u *domain.User)
		lookup   error
	}{
		{name: "wrong password", password: "wrong-password"},
		{name: "pending member", password: testPassword, mutate: func(u *domain.User) { u.Status = domain.ItemStatusPending }},
		{name: "removed member", password: testPassword, mutate: func(u *domain.User) { u.Status = domain.ItemStatusDeleted }},
		{name: "unknown email", password: testPassword, lookup: domain.ErrNotFound},
		{name: "malformed hash", password: testPassword, mutate: func(u *domain.User) { u.PasswordHash = "zz$zz" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			user := activeUser(t)
			if tt.mutate != nil {
				tt.mutate(user)
			}
			logs := &mockLogRepo{}
			svc := newTestService(&mockUserRepo{
				getByEmailFn: func(string) (*domain.User, error) {
					if tt.lookup != nil {
						return nil, tt.lookup
					}
					return user, nil
				},
			}, logs)

			tokens, err := svc.Login(t.Context(), user.CompanyID, testEmail, tt.password)
			require.Error(t, err)
			assert.Nil(t, tokens)
			assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
			assert.Empty(t, logs.recorded)
		})
	}
}

func TestLogout(t *testing.T) {
	t.Parallel()

	user := activeUser(t)
	logs := &mockLogRepo{}
	svc := newTestService(&mockUserRepo{
		getByIDFn: func(uuid.UUID) (*domain.User, error) { return user, nil },
	}, logs)

	err := svc.Logout(t.Context(), domain.CurrentUser{ID: user.ID, CompanyID: user.CompanyID})
	require.NoError(t, err)
	require.Len(t, logs.recorded, 1)
	assert.Equal(t, domain.LogActionSignOut, logs.recorded[0].Action)
}

func TestRefreshToken(t *testing.T) {
	t.Parallel()

	t.Run("refresh issues an access token with current permissions", func(t *testing.T) {
		t.Parallel()

		user := activeUser(t)
		refresh, err := auth.IssueRefreshToken(testJWTSecret, user, time.Hour)
		require.NoError(t, err)

		current := *user
		current.Permissions = []domain.Permission{domain.PermissionAddCompanyMember}
		svc := newTestService(&mockUserRepo{
			getByIDFn: func(uuid.UUID) (*domain.User, error) { return &current, nil },
		}, &mockLogRepo{})

		access, err := svc.RefreshToken(t.Context(), refresh)
		require.NoError(t, err)
		claims, err := auth.ValidateAccessToken(testJWTSecret, access)
		require.NoError(t, err)
		assert.Equal(t, []string{"ADD_COMPANY_MEMBER"}, claims.Permissions)
	})

	t.Run("access token is not a refresh token", func(t *testing.T) {
		t.Parallel()

		access, err := auth.IssueAccessToken(testJWTSecret, activeUser(t), time.Hour)
		require.NoError(t, err)

		_, err = newTestService(&mockUserRepo{}, &mockLogRepo{}).RefreshToken(t.Context(), access)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("removed user cannot refresh", func(t *testing.T) {
		t.Parallel()

		user := activeUser(t)
		refresh, err := auth.IssueRefreshToken(testJWTSecret, user, time.Hour)
		require.NoError(t, err)
		user.Status = domain.ItemStatusDeleted

		svc := newTestService(&mockUserRepo{
			getByIDFn: func(uuid.UUID) (*domain.User, error) { return user, nil },
		}, &mockLogRepo{})

		_, err = svc.RefreshToken(t.Context(), refresh)
		assert.ErrorIs(t, err, auth.ErrUserNotFound)
	})
}

func TestEnsureAdmin(t *testing.T) {
	t.Parallel()

	company := &domain.Company{ID: uuid.New(), Name: "Acme"}

	t.Run("creates company and admin", func(t *testing.T) {
		t.Parallel()

		companies := &mockCompanyRepo{}
		var created *domain.User
		users := &mockUserRepo{createFn: func(u *domain.User) error { created = u; return nil }}
		svc := auth.NewService(companies, users, &mockLogRepo{}, testJWTSecret, time.Minute, time.Hour)

		u, err := svc.EnsureAdmin(t.Context(), company, " Admin@Acme.io ", "pw", "Admin")
		require.NoError(t, err)
		assert.Same(t, company, companies.created)
		assert.Same(t, created, u)
		assert.Equal(t, "admin@acme.io", u.Email)
		assert.Equal(t, domain.ItemStatusActive, u.Status)
		assert.ElementsMatch(t, domain.AllPermissions(), u.Permissions)
		assert.NotEmpty(t, u.PasswordHash)
	})

	t.Run("existing admin is returned untouched", func(t *testing.T) {
		t.Parallel()

		existing := activeUser(t)
		users := &mockUserRepo{
			getByEmailFn: func(string) (*domain.User, error) { return existing, nil },
			createFn: func(*domain.User) error {
				t.Fatal("create must not be called")
				return nil
			},
		}
		svc := auth.NewService(&mockCompanyRepo{company: company}, users, &mockLogRepo{},
			testJWTSecret, time.Minute, time.Hour)

		u, err := svc.EnsureAdmin(t.Context(), company, testEmail, "pw", "Alice")
		require.NoError(t, err)
		assert.Same(t, existing, u)
	})
}
