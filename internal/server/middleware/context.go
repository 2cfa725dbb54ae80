package middleware

import (
	"context"

	"github.com/google/uuid"

	"github.com/gosuda/actionfeed/internal/domain"
)

type contextKey string

const (
	ContextKeyCompanyID contextKey = "company_id"
	ContextKeyUserID    contextKey = "user_id"
	ContextKeyViewer    contextKey = "viewer"
)

// WithViewer stores the authenticated user and its company and user ids in ctx.
func WithViewer(ctx context.Context, viewer domain.CurrentUser) context.Context {
	ctx = context.WithValue(ctx, ContextKeyCompanyID, viewer.CompanyID)
	ctx = context.WithValue(ctx, ContextKeyUserID, viewer.ID)
	return context.WithValue(ctx, ContextKeyViewer, viewer)
}

func CompanyIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	v, ok := ctx.Value(ContextKeyCompanyID).(uuid.UUID)
	return v, ok
}

func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	v, ok := ctx.Value(ContextKeyUserID).(uuid.UUID)
	return v, ok
}

// ViewerFromContext returns the authenticated user with its permission snapshot.
func ViewerFromContext(ctx context.Context) (domain.CurrentUser, bool) {
	v, ok := ctx.Value(ContextKeyViewer).(domain.CurrentUser)
	return v, ok
}
