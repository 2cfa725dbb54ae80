// Package members applies the company-member lifecycle mutations offered on action
// items: remove, restore and resend invite.
package members

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/gosuda/actionfeed/internal/domain"
	"github.com/gosuda/actionfeed/internal/enterprise"
	redisstore "github.com/gosuda/actionfeed/internal/store/redis"
)

// ResendCooldown is the minimum time between two invite e-mails to one user.
const ResendCooldown = 60 * time.Second

var (
	// ErrNotPending is returned when an invite is resent to a user who already answered.
	ErrNotPending = fmt.Errorf("members: user is not pending: %w", domain.ErrConflict) //nolint:gochecknoglobals // sentinel error
	// ErrResendTooSoon is returned inside the resend cooldown.
	ErrResendTooSoon = fmt.Errorf("members: invite was just sent: %w", domain.ErrConflict) //nolint:gochecknoglobals // sentinel error
)

// Feed is the write side of the action-item feed.
type Feed interface {
	Create(ctx context.Context, item *domain.ActionItem) error
	Dismiss(ctx context.Context, companyID, id uuid.UUID) error
	Record(ctx context.Context, rec *domain.LogRecord) error
}

// Seats enforces the licensed seat count.
// *enterprise.Validator satisfies this interface.
type Seats interface {
	SeatsLeft(ctx context.Context, company *domain.Company, users enterprise.UserCounter) (int, error)
	CheckSeats(ctx context.Context, company *domain.Company, users enterprise.UserCounter, n int) error
}

// Cooldown grants a key at most once per ttl.
type Cooldown interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// Inviter delivers the activation e-mail or message.
type Inviter interface {
	SendInvite(ctx context.Context, u *domain.User) error
}

// Recorder counts mutations.
type Recorder interface {
	ObserveMutation(operation, outcome string)
}

// Summary is what the feed needs to know about the company besides its items.
type Summary struct {
	SeatsLeft int `json:"seats_left"` // -1 when unlimited
	Users     int `json:"users"`
}

// Service applies member mutations and records them in the activity log.
type Service struct {
	companies domain.CompanyRepository
	users     domain.UserRepository
	items     domain.ActionItemRepository
	feed      Feed
	seats     Seats
	cooldown  Cooldown
	inviter   Inviter
	recorder  Recorder
	now       func() time.Time
}

// Deps groups the collaborators of a Service. Cooldown, Inviter and Recorder are
// optional.
type Deps struct {
	Companies domain.CompanyRepository
	Users     domain.UserRepository
	Items     domain.ActionItemRepository
	Feed      Feed
	Seats     Seats
	Cooldown  Cooldown
	Inviter   Inviter
	Recorder  Recorder
	Now       func() time.Time
}

func NewService(d Deps) *Service {
	now := d.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		companies: d.Companies,
		users:     d.Users,
		items:     d.Items,
		feed:      d.Feed,
		seats:     d.Seats,
		cooldown:  d.Cooldown,
		inviter:   d.Inviter,
		recorder:  d.Recorder,
		now:       now,
	}
}

// RemoveUser marks a company member as deleted, records REMOVE_COMPANY_MEMBERS and
// raises a REMOVE_USER_TO_COMPANY item so the removal can be undone from the feed.
// A user who is not (or no longer) a member gives domain.ErrCompanyUserNotFound.
func (s *Service) RemoveUser(ctx context.Context, viewer domain.CurrentUser, userID uuid.UUID, removeIntegrationAccounts bool) error {
	err := s.removeUser(ctx, viewer, userID, removeIntegrationAccounts)
	s.observe("remove_user", err)
	if err != nil {
		return fmt.Errorf("members.Service.RemoveUser: %w", err)
	}
	return nil
}

func (s *Service) removeUser(ctx context.Context, viewer domain.CurrentUser, userID uuid.UUID, removeIntegrationAccounts bool) error {
	if viewer.ID == userID {
		return domain.ErrSelfAction
	}

	user, err := s.member(ctx, viewer.CompanyID, userID)
	if err != nil {
		return err
	}
	if !user.Status.Addressable() {
		return domain.ErrCompanyUserNotFound
	}

	company := s.companyRef(ctx, viewer.CompanyID)
	author := s.authorRef(ctx, viewer)
	removed := *user.Ref()
	removed.Temp = &domain.Ref{ID: removed.ID, Name: removed.Name, Email: removed.Email, Status: domain.ItemStatusDeleted}

	rec := domain.LogRecord{
		CompanyID:  viewer.CompanyID,
		UserID:     viewer.ID,
		EntityType: domain.EntityTypeCompanyMember,
		Action:     domain.LogActionRemoveCompanyMembers,
		Info:       domain.LogInfo{Author: author, Company: company, Users: []domain.Ref{removed}},
	}
	rec.SearchKey = rec.Info.SearchKey()

	// The restore item goes in first so a removed user always has one.
	item := &domain.ActionItem{
		CompanyID: viewer.CompanyID,
		Type:      domain.ActionItemTypeRemoveUserToCompany,
		Priority:  domain.PriorityMedium,
		Source:    domain.SourceSystem,
		Log:       rec,
	}
	if err := s.feed.Create(ctx, item); err != nil {
		return fmt.Errorf("create action item: %w", err)
	}

	if err := s.users.UpdateStatus(ctx, viewer.CompanyID, userID, domain.ItemStatusDeleted); err != nil {
		if derr := s.feed.Dismiss(ctx, viewer.CompanyID, item.ID); derr != nil {
			log.Error().Err(derr).Str("item_id", item.ID.String()).Msg("members: withdraw restore item")
		}
		return fmt.Errorf("update status: %w", mapMissing(err))
	}

	logged := item.Log
	if err := s.feed.Record(ctx, &logged); err != nil {
		log.Warn().Err(err).Str("user_id", userID.String()).Msg("members: record member removal")
	}

	if removeIntegrationAccounts {
		access := &domain.LogRecord{
			CompanyID:  viewer.CompanyID,
			UserID:     viewer.ID,
			EntityType: domain.EntityTypeCompanyMember,
			Action:     domain.LogActionRemoveCompanyMembersIntegrationAccess,
			Info:       domain.LogInfo{Author: author, Company: company, Users: []domain.Ref{*user.Ref()}},
		}
		access.SearchKey = access.Info.SearchKey()
		if err := s.feed.Record(ctx, access); err != nil {
			log.Warn().Err(err).Str("user_id", userID.String()).Msg("members: record integration access removal")
		}
	}

	log.Info().Str("company_id", viewer.CompanyID.String()).Str("user_id", userID.String()).
		Bool("remove_integration_accounts", removeIntegrationAccounts).Msg("member removed")
	return nil
}

// RestoreUsers brings removed members back as ACTIVE when enough seats are left,
// records RESTORE_COMPANY_MEMBERS and dismisses the restore items that pointed at them.
func (s *Service) RestoreUsers(ctx context.Context, viewer domain.CurrentUser, userIDs []uuid.UUID) error {
	err := s.restoreUsers(ctx, viewer, userIDs)
	s.observe("restore_users", err)
	if err != nil {
		return fmt.Errorf("members.Service.RestoreUsers: %w", err)
	}
	return nil
}

func (s *Service) restoreUsers(ctx context.Context, viewer domain.CurrentUser, userIDs []uuid.UUID) error {
	userIDs = slices.Compact(slices.SortedFunc(slices.Values(userIDs), func(a, b uuid.UUID) int {
		return slices.Compare(a[:], b[:])
	}))

	targets := make([]*domain.User, 0, len(userIDs))
	for _, id := range userIDs {
		u, err := s.member(ctx, viewer.CompanyID, id)
		if err != nil {
			return err
		}
		if u.Status.Restored() {
			continue
		}
		targets = append(targets, u)
	}
	if len(targets) == 0 {
		return nil
	}

	company, err := s.companies.GetByID(ctx, viewer.CompanyID)
	if err != nil {
		return fmt.Errorf("company: %w", err)
	}
	if err := s.seats.CheckSeats(ctx, company, s.users, len(targets)); err != nil {
		return err
	}

	refs := make([]domain.Ref, 0, len(targets))
	restored := make(map[string]struct{}, len(targets))
	for _, u := range targets {
		if err := s.users.UpdateStatus(ctx, viewer.CompanyID, u.ID, domain.ItemStatusActive); err != nil {
			return fmt.Errorf("update status: %w", mapMissing(err))
		}
		ref := *u.Ref()
		ref.Status = domain.ItemStatusActive
		refs = append(refs, ref)
		restored[ref.ID] = struct{}{}
	}

	rec := &domain.LogRecord{
		CompanyID:  viewer.CompanyID,
		UserID:     viewer.ID,
		EntityType: domain.EntityTypeCompanyMember,
		Action:     domain.LogActionRestoreCompanyMembers,
		Info:       domain.LogInfo{Author: s.authorRef(ctx, viewer), Company: company.Ref(), Users: refs},
	}
	rec.SearchKey = rec.Info.SearchKey()
	if err := s.feed.Record(ctx, rec); err != nil {
		return fmt.Errorf("record: %w", err)
	}

	s.dismissRestoreItems(ctx, viewer.CompanyID, restored)

	log.Info().Str("company_id", viewer.CompanyID.String()).Int("count", len(refs)).Msg("members restored")
	return nil
}

// dismissRestoreItems walks the company's REMOVE_USER_TO_COMPANY items and dismisses
// the ones about a restored user. Failures are logged; the restore already happened.
func (s *Service) dismissRestoreItems(ctx context.Context, companyID uuid.UUID, restored map[string]struct{}) {
	q := domain.ActionItemQuery{
		CompanyID:   companyID,
		ModuleTypes: []string{string(domain.ActionItemTypeRemoveUserToCompany)},
		Limit:       100,
	}
	for {
		page, err := s.items.List(ctx, q)
		if err != nil {
			log.Warn().Err(err).Str("company_id", companyID.String()).Msg("members: list restore items")
			return
		}
		for _, it := range page.Items {
			if it.Type != domain.ActionItemTypeRemoveUserToCompany || !mentions(it, restored) {
				continue
			}
			if err := s.feed.Dismiss(ctx, companyID, it.ID); err != nil && !errors.Is(err, domain.ErrNotFound) {
				log.Warn().Err(err).Str("item_id", it.ID.String()).Msg("members: dismiss restore item")
			}
		}
		if page.LastEvaluatedKey.IsZero() {
			return
		}
		q.After = page.LastEvaluatedKey
	}
}

func mentions(item *domain.ActionItem, ids map[string]struct{}) bool {
	for _, u := range item.Log.Info.Users {
		if _, ok := ids[u.ID]; ok {
			return true
		}
	}
	return false
}

// ResendActivation sends the invite again to a PENDING member. A second resend to
// the same user inside ResendCooldown gives ErrResendTooSoon.
func (s *Service) ResendActivation(ctx context.Context, viewer domain.CurrentUser, userID uuid.UUID) error {
	err := s.resendActivation(ctx, viewer, userID)
	s.observe("resend_activation", err)
	if err != nil {
		return fmt.Errorf("members.Service.ResendActivation: %w", err)
	}
	return nil
}

func (s *Service) resendActivation(ctx context.Context, viewer domain.CurrentUser, userID uuid.UUID) error {
	user, err := s.member(ctx, viewer.CompanyID, userID)
	if err != nil {
		return err
	}
	if user.Status != domain.ItemStatusPending {
		return ErrNotPending
	}

	if s.cooldown != nil {
		ok, err := s.cooldown.Acquire(ctx, redisstore.ResendCooldownKey(userID), ResendCooldown)
		if err != nil {
			return fmt.Errorf("cooldown: %w", err)
		}
		if !ok {
			return ErrResendTooSoon
		}
	}

	if s.inviter != nil {
		if err := s.inviter.SendInvite(ctx, user); err != nil {
			return fmt.Errorf("send invite: %w", err)
		}
	}

	if err := s.users.MarkActivationSent(ctx, viewer.CompanyID, userID, s.now()); err != nil {
		return fmt.Errorf("mark sent: %w", mapMissing(err))
	}

	log.Info().Str("company_id", viewer.CompanyID.String()).Str("user_id", userID.String()).Msg("activation resent")
	return nil
}

// Summary reports the seats left and the number of members holding a seat.
func (s *Service) Summary(ctx context.Context, companyID uuid.UUID) (*Summary, error) {
	company, err := s.companies.GetByID(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("members.Service.Summary: %w", err)
	}

	left, err := s.seats.SeatsLeft(ctx, company, s.users)
	if err != nil {
		return nil, fmt.Errorf("members.Service.Summary: %w", err)
	}

	n, err := s.users.CountByStatus(ctx, companyID, domain.ItemStatusActive, domain.ItemStatusPending)
	if err != nil {
		return nil, fmt.Errorf("members.Service.Summary: %w", err)
	}

	return &Summary{SeatsLeft: left, Users: n}, nil
}

// Users lists every company member.
func (s *Service) Users(ctx context.Context, companyID uuid.UUID) ([]*domain.User, error) {
	users, err := s.users.List(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("members.Service.Users: %w", err)
	}
	return users, nil
}

func (s *Service) member(ctx context.Context, companyID, userID uuid.UUID) (*domain.User, error) {
	u, err := s.users.GetByID(ctx, companyID, userID)
	if err != nil {
		return nil, mapMissing(err)
	}
	return u, nil
}

func (s *Service) companyRef(ctx context.Context, companyID uuid.UUID) *domain.Ref {
	c, err := s.companies.GetByID(ctx, companyID)
	if err != nil {
		return &domain.Ref{ID: companyID.String()}
	}
	return c.Ref()
}

func (s *Service) authorRef(ctx context.Context, viewer domain.CurrentUser) *domain.Ref {
	u, err := s.users.GetByID(ctx, viewer.CompanyID, viewer.ID)
	if err != nil {
		return &domain.Ref{ID: viewer.ID.String(), Name: viewer.Name}
	}
	return u.Ref()
}

func (s *Service) observe(operation string, err error) {
	if s.recorder == nil {
		return
	}
	outcome := "ok"
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrSelfAction), errors.Is(err, domain.ErrSeatsExhausted):
		outcome = "denied"
	default:
		outcome = "error"
	}
	s.recorder.ObserveMutation(operation, outcome)
}

func mapMissing(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ErrCompanyUserNotFound
	}
	return err
}
