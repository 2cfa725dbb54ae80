// Package items creates and dismisses action items and records the activity log,
// fanning every change out to live feed subscribers.
package items

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/gosuda/actionfeed/internal/domain"
)

// ErrInvalidItem is returned when an action item carries an unknown type or priority.
var ErrInvalidItem = errors.New("items: invalid action item") //nolint:gochecknoglobals // sentinel error

// Publisher pushes feed events to live subscribers.
type Publisher interface {
	PublishEvent(ctx context.Context, ev domain.FeedEvent) error
}

// Notifier announces a new action item outside the console.
type Notifier interface {
	NotifyActionItem(ctx context.Context, item *domain.ActionItem) error
}

// Recorder counts mutations and published events.
type Recorder interface {
	ObserveMutation(operation, outcome string)
	ObserveEvent(t domain.FeedEventType)
}

// Outcome labels passed to Recorder.ObserveMutation.
const (
	outcomeOK    = "ok"
	outcomeError = "error"
)

// Option configures optional Service parameters.
type Option func(*Service)

// WithNotifier sends HIGH priority items through n.
func WithNotifier(n Notifier) Option {
	return func(s *Service) {
		s.notifier = n
	}
}

// WithRecorder counts mutations and events in r.
func WithRecorder(r Recorder) Option {
	return func(s *Service) {
		s.recorder = r
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// Service owns the write side of the feed.
type Service struct {
	items    domain.ActionItemRepository
	logs     domain.LogRepository
	events   Publisher
	notifier Notifier
	recorder Recorder
	now      func() time.Time
}

// NewService creates a Service. events may be nil when no live feed is served.
func NewService(items domain.ActionItemRepository, logs domain.LogRepository, events Publisher, opts ...Option) *Service {
	s := &Service{
		items:  items,
		logs:   logs,
		events: events,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create stores a new action item for the company, fills in its id, timestamps and
// search key, then announces it. Delivery failures never fail the create.
func (s *Service) Create(ctx context.Context, item *domain.ActionItem) error {
	if !item.Type.Valid() {
		s.observe("create_action_item", outcomeError)
		return fmt.Errorf("items.Service.Create: type %q: %w", item.Type, ErrInvalidItem)
	}
	item.Priority = domain.Priority(strings.ToUpper(string(item.Priority)))
	if item.Priority == "" {
		item.Priority = domain.PriorityMedium
	}
	if !item.Priority.Valid() {
		s.observe("create_action_item", outcomeError)
		return fmt.Errorf("items.Service.Create: priority %q: %w", item.Priority, ErrInvalidItem)
	}

	now := s.now().Unix()
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	if item.CreatedAt == 0 {
		item.CreatedAt = now
	}
	if item.Source == "" {
		item.Source = domain.SourceSystem
	}
	item.Source = item.Source.Normalize()
	item.Log.CompanyID = item.CompanyID
	if item.Log.ID == uuid.Nil {
		item.Log.ID = uuid.New()
	}
	if item.Log.CreatedAt == 0 {
		item.Log.CreatedAt = item.CreatedAt
	}
	if item.Log.SearchKey == "" {
		item.Log.SearchKey = item.Log.Info.SearchKey()
	}

	if err := s.items.Create(ctx, item); err != nil {
		s.observe("create_action_item", outcomeError)
		return fmt.Errorf("items.Service.Create: %w", err)
	}
	s.observe("create_action_item", outcomeOK)

	s.publish(ctx, domain.FeedEventItemCreated, item.CompanyID, item.ID)

	if s.notifier != nil && item.Priority == domain.PriorityHigh {
		if err := s.notifier.NotifyActionItem(ctx, item); err != nil {
			log.Warn().Err(err).Str("item_id", item.ID.String()).Msg("items: notify failed")
		}
	}
	return nil
}

// Dismiss deletes an action item and announces the removal.
func (s *Service) Dismiss(ctx context.Context, companyID, id uuid.UUID) error {
	if err := s.items.Delete(ctx, companyID, id); err != nil {
		s.observe("dismiss_action_item", outcomeError)
		return fmt.Errorf("items.Service.Dismiss: %w", err)
	}
	s.observe("dismiss_action_item", outcomeOK)

	s.publish(ctx, domain.FeedEventItemDeleted, companyID, id)
	return nil
}

// Record appends a log record and announces it.
func (s *Service) Record(ctx context.Context, rec *domain.LogRecord) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.CreatedAt == 0 {
		rec.CreatedAt = s.now().Unix()
	}

	if err := s.logs.Record(ctx, rec); err != nil {
		return fmt.Errorf("items.Service.Record: %w", err)
	}

	s.publish(ctx, domain.FeedEventLogRecorded, rec.CompanyID, rec.ID)
	return nil
}

// Now returns the service clock.
func (s *Service) Now() time.Time {
	return s.now()
}

func (s *Service) publish(ctx context.Context, t domain.FeedEventType, companyID, id uuid.UUID) {
	if s.events == nil {
		return
	}
	ev := domain.FeedEvent{Type: t, CompanyID: companyID, ItemID: id, At: s.now().Unix()}
	if err := s.events.PublishEvent(ctx, ev); err != nil {
		log.Warn().Err(err).Str("company_id", companyID.String()).Str("type", string(t)).
			Msg("items: publish feed event failed")
		return
	}
	if s.recorder != nil {
		s.recorder.ObserveEvent(t)
	}
}

func (s *Service) observe(operation, outcome string) {
	if s.recorder != nil {
		s.recorder.ObserveMutation(operation, outcome)
	}
}
