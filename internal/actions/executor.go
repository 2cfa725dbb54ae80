package actions

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/gosuda/actionfeed/internal/domain"
)

// MsgFailure is the alert shown when a mutation fails for any reason other than a
// stale item.
const MsgFailure = domain.MsgTryAgainLater

var (
	// ErrDisabled is returned when a disabled button is clicked. No call is made.
	ErrDisabled = errors.New("actions: button is disabled") //nolint:gochecknoglobals // sentinel error
	// ErrNoTarget is returned when the item names no user to act on.
	ErrNoTarget = errors.New("actions: item has no target user") //nolint:gochecknoglobals // sentinel error
	// ErrUnsupported is returned for a button kind the item type does not route.
	ErrUnsupported = errors.New("actions: unsupported action") //nolint:gochecknoglobals // sentinel error
)

// Backend is the set of mutations the executor issues.
type Backend interface {
	DismissActionItem(ctx context.Context, companyID, itemID uuid.UUID) error
	RemoveUser(ctx context.Context, companyID, userID uuid.UUID, removeIntegrationAccounts bool) error
	RestoreUsers(ctx context.Context, companyID uuid.UUID, userIDs []uuid.UUID) error
	ResendActivation(ctx context.Context, userID uuid.UUID) error
}

// Feed is the page an executed item is removed from.
type Feed interface {
	Remove(id uuid.UUID) bool
}

// Alerter shows global success and failure notices.
type Alerter interface {
	Success(msg string)
	Failure(msg string)
}

// Result tells the caller what happened after a click.
type Result struct {
	Navigate string // set for navigation buttons
	Removed  bool   // the item was taken off the feed
}

// Executor routes enabled button clicks to the backend and reconciles the feed.
type Executor struct {
	backend Backend
	feed    Feed
	alert   Alerter

	mu        sync.Mutex
	restoring map[uuid.UUID]struct{}
}

// NewExecutor creates an executor. feed may be nil when nothing is displayed.
func NewExecutor(backend Backend, feed Feed, alert Alerter) *Executor {
	return &Executor{
		backend:   backend,
		feed:      feed,
		alert:     alert,
		restoring: make(map[uuid.UUID]struct{}),
	}
}

// Restoring reports whether a restore call for the item is in flight.
func (e *Executor) Restoring(itemID uuid.UUID) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.restoring[itemID]
	return ok
}

// Execute performs the click on b for item. Disabled buttons return ErrDisabled
// without any call. A removal that targets a user who already left the company
// returns an error matching domain.ErrCompanyUserNotFound and raises no alert, so the
// caller can offer to dismiss the stale item instead.
func (e *Executor) Execute(ctx context.Context, item *domain.ActionItem, b Button) (Result, error) {
	if !b.Enabled || b.Loading {
		return Result{}, ErrDisabled
	}
	if b.Kind.Navigates() {
		return Result{Navigate: b.Target}, nil
	}

	var err error
	var success string
	switch b.Kind {
	case KindDismiss:
		err = e.backend.DismissActionItem(ctx, item.CompanyID, item.ID)
	case KindRemoveUser:
		success, err = e.removeUser(ctx, item)
	case KindRestoreUser:
		success, err = e.restoreUsers(ctx, item)
	case KindResendInvite:
		return e.resend(ctx, item)
	default:
		return Result{}, fmt.Errorf("actions.Executor.Execute: %s: %w", b.Kind, ErrUnsupported)
	}

	if err != nil {
		if !errors.Is(err, domain.ErrCompanyUserNotFound) {
			e.failure()
		}
		return Result{}, fmt.Errorf("actions.Executor.Execute: %s: %w", b.Kind, err)
	}

	if success != "" && e.alert != nil {
		e.alert.Success(success)
	}
	return Result{Removed: e.remove(item.ID)}, nil
}

func (e *Executor) removeUser(ctx context.Context, item *domain.ActionItem) (string, error) {
	target := firstTarget(item)
	if target == nil {
		return "", ErrNoTarget
	}
	id, err := uuid.Parse(target.ID)
	if err != nil {
		return "", fmt.Errorf("target id: %w", ErrNoTarget)
	}

	if err := e.backend.RemoveUser(ctx, item.CompanyID, id, true); err != nil {
		return "", err
	}
	if err := e.backend.DismissActionItem(ctx, item.CompanyID, item.ID); err != nil {
		return "", err
	}
	return target.DisplayName() + " has been successfully removed from the company.", nil
}

func (e *Executor) restoreUsers(ctx context.Context, item *domain.ActionItem) (string, error) {
	refs := restoreTargets(item)
	ids := make([]uuid.UUID, 0, len(refs))
	for _, r := range refs {
		id, err := uuid.Parse(r.ID)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return "", ErrNoTarget
	}

	e.mu.Lock()
	e.restoring[item.ID] = struct{}{}
	e.mu.Unlock()
	defer func() {
		e.mu.Lock()
		delete(e.restoring, item.ID)
		e.mu.Unlock()
	}()

	if err := e.backend.RestoreUsers(ctx, item.CompanyID, ids); err != nil {
		return "", err
	}

	name := refs[0].DisplayName()
	if len(ids) > 1 {
		name = "Users"
	}
	return name + " has been successfully restored.", nil
}

// resend leaves the item in place: the invite is still unanswered.
func (e *Executor) resend(ctx context.Context, item *domain.ActionItem) (Result, error) {
	target := item.Log.Info.User
	if target == nil {
		return Result{}, ErrNoTarget
	}
	id, err := uuid.Parse(target.ID)
	if err != nil {
		return Result{}, fmt.Errorf("actions.Executor.resend: target id: %w", ErrNoTarget)
	}

	if err := e.backend.ResendActivation(ctx, id); err != nil {
		e.failure()
		return Result{}, fmt.Errorf("actions.Executor.resend: %w", err)
	}
	if e.alert != nil {
		e.alert.Success("An invitation has been resent to " + target.DisplayName() + ".")
	}
	return Result{}, nil
}

func (e *Executor) remove(id uuid.UUID) bool {
	if e.feed == nil {
		return false
	}
	return e.feed.Remove(id)
}

func (e *Executor) failure() {
	if e.alert != nil {
		e.alert.Failure(MsgFailure)
	}
}

// firstTarget is the user a removal applies to.
func firstTarget(item *domain.ActionItem) *domain.Ref {
	info := item.Log.Info
	if item.Type == domain.ActionItemTypeInviteRemoveCompanyMember && info.User != nil {
		return info.User
	}
	if len(info.Users) > 0 {
		return &info.Users[0]
	}
	return info.User
}

func restoreTargets(item *domain.ActionItem) []domain.Ref {
	info := item.Log.Info
	if item.Type == domain.ActionItemTypeInviteRemoveCompanyMember && info.User != nil {
		return []domain.Ref{*info.User}
	}
	if len(info.Users) > 0 {
		return info.Users
	}
	if info.User != nil {
		return []domain.Ref{*info.User}
	}
	return nil
}
