package v1_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/gosuda/actionfeed/internal/api/v1"
	"github.com/gosuda/actionfeed/internal/auth"
	"github.com/gosuda/actionfeed/internal/domain"
)

// ---------------------------------------------------------------------------
// POST /auth/login
// ---------------------------------------------------------------------------

func TestLogin(t *testing.T) {
	t.Parallel()

	companyID := uuid.New()
	fixtureUser := &domain.User{
		ID:           uuid.New(),
		CompanyID:    companyID,
		Email:        "alice@acme.io",
		Name:         "Alice",
		PasswordHash: "salt$hash",
		Status:       domain.ItemStatusActive,
		Permissions:  []domain.Permission{domain.PermissionEditCompany},
	}

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		authSvc := &mockAuthService{
			loginFunc: func(_ context.Context, cid uuid.UUID, email, password string) (*auth.Tokens, error) {
				assert.Equal(t, companyID, cid)
				assert.Equal(t, "alice@acme.io", email)
				assert.Equal(t, "secretpw1", password)
				return &auth.Tokens{AccessToken: "access-tok", RefreshToken: "refresh-tok", User: fixtureUser}, nil
			},
		}
		v1.RegisterAuthRoutes(api, authSvc)

		resp := api.Post("/auth/login", map[string]any{
			"company_id": companyID.String(),
			"email":      "alice@acme.io",
			"password":   "secretpw1",
		})

		require.Equal(t, http.StatusOK, resp.Code)
		assert.NotContains(t, resp.Body.String(), "salt$hash", "password hash must never leave the server")

		var body struct {
			AccessToken  string      `json:"access_token"`
			RefreshToken string      `json:"refresh_token"`
			User         v1.UserView `json:"user"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "access-tok", body.AccessToken)
		assert.Equal(t, "refresh-tok", body.RefreshToken)
		assert.Equal(t, fixtureUser.ID, body.User.ID)
		assert.Equal(t, []domain.Permission{domain.PermissionEditCompany}, body.User.Permissions)
	})

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "invalid_credentials", err: fmt.Errorf("auth.Login: %w", auth.ErrInvalidCredentials), wantStatus: http.StatusUnauthorized},
		{name: "internal_error", err: errors.New("db down"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, api := humatest.New(t)
			v1.RegisterAuthRoutes(api, &mockAuthService{
				loginFunc: func(context.Context, uuid.UUID, string, string) (*auth.Tokens, error) {
					return nil, tt.err
				},
			})

			resp := api.Post("/auth/login", map[string]any{
				"company_id": companyID.String(),
				"email":      "alice@acme.io",
				"password":   "wrong",
			})

			assert.Equal(t, tt.wantStatus, resp.Code)

			var errBody map[string]any
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&errBody))
			assert.EqualValues(t, tt.wantStatus, errBody["status"])
		})
	}

	t.Run("missing_password", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		v1.RegisterAuthRoutes(api, &mockAuthService{})

		resp := api.Post("/auth/login", map[string]any{
			"company_id": companyID.String(),
			"email":      "alice@acme.io",
		})

		assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	})
}

// ---------------------------------------------------------------------------
// POST /auth/refresh
// ---------------------------------------------------------------------------

func TestRefreshToken(t *testing.T) {
	t.Parallel()

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		v1.RegisterAuthRoutes(api, &mockAuthService{
			refreshFunc: func(_ context.Context, tok string) (string, error) {
				assert.Equal(t, "refresh-tok", tok)
				return "new-access", nil
			},
		})

		resp := api.Post("/auth/refresh", map[string]any{"refresh_token": "refresh-tok"})

		require.Equal(t, http.StatusOK, resp.Code)
		var body struct {
			AccessToken string `json:"access_token"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "new-access", body.AccessToken)
	})

	t.Run("invalid_token", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		v1.RegisterAuthRoutes(api, &mockAuthService{
			refreshFunc: func(context.Context, string) (string, error) {
				return "", fmt.Errorf("auth.RefreshToken: %w", auth.ErrInvalidToken)
			},
		})

		resp := api.Post("/auth/refresh", map[string]any{"refresh_token": "stale"})

		assert.Equal(t, http.StatusUnauthorized, resp.Code)
	})
}

// ---------------------------------------------------------------------------
// POST /auth/logout
// ---------------------------------------------------------------------------

func TestLogout(t *testing.T) {
	t.Parallel()

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		var called bool
		ctx, viewer := viewerCtx(uuid.New())
		_, api := humatest.New(t)
		v1.RegisterSessionRoutes(api, &mockAuthService{
			logoutFunc: func(_ context.Context, got domain.CurrentUser) error {
				called = true
				assert.Equal(t, viewer.ID, got.ID)
				return nil
			},
		})

		resp := api.PostCtx(ctx, "/auth/logout")

		assert.Equal(t, http.StatusNoContent, resp.Code)
		assert.True(t, called)
	})

	t.Run("no_viewer", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		v1.RegisterSessionRoutes(api, &mockAuthService{})

		resp := api.Post("/auth/logout")

		assert.Equal(t, http.StatusForbidden, resp.Code)
	})

	t.Run("user_gone", func(t *testing.T) {
		t.Parallel()

		ctx, _ := viewerCtx(uuid.New())
		_, api := humatest.New(t)
		v1.RegisterSessionRoutes(api, &mockAuthService{
			logoutFunc: func(context.Context, domain.CurrentUser) error {
				return fmt.Errorf("auth.Logout: %w", auth.ErrUserNotFound)
			},
		})

		resp := api.PostCtx(ctx, "/auth/logout")

		assert.Equal(t, http.StatusNotFound, resp.Code)
	})
}
