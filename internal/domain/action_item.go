package domain

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ActionItemExtras holds the invite clock of an action item: the creation time of the
// invite the item follows up on.
type ActionItemExtras struct {
	CreatedAt int64 `json:"created_at"` // Unix seconds
}

// ActionItem is a recommendation card wrapping a log record that needs attention.
type ActionItem struct {
	ID        uuid.UUID         `json:"id"`
	CompanyID uuid.UUID         `json:"company_id"`
	Type      ActionItemType    `json:"action_item_type"`
	Priority  Priority          `json:"priority"`
	Source    Source            `json:"source"`
	Log       LogRecord         `json:"log"`
	Extras    *ActionItemExtras `json:"extras,omitempty"`
	CreatedAt int64             `json:"created_at"` // Unix seconds
}

// Cursor returns the pagination key pointing at this item.
func (a *ActionItem) Cursor() *Cursor {
	return NewCursor(PrefixActionItem, a.CompanyID, a.ID, a.CreatedAt)
}

// InviteClock returns the time the followed-up invite was sent. Without extras the
// item's own creation time is used.
func (a *ActionItem) InviteClock() time.Time {
	if a.Extras != nil && a.Extras.CreatedAt > 0 {
		return time.Unix(a.Extras.CreatedAt, 0)
	}
	return time.Unix(a.CreatedAt, 0)
}

// ActionItemQuery selects a page of action items. Zero values mean "no filter".
type ActionItemQuery struct {
	CompanyID     uuid.UUID
	Start         int64 // Unix seconds, inclusive
	End           int64 // Unix seconds, inclusive
	Priority      Priority
	SearchKey     string
	Sort          SortOrder
	Source        Source
	IntegrationID string
	ModuleTypes   []string
	Limit         int
	After         *Cursor
}

// Matches reports whether item passes every filter of the query except pagination.
func (q ActionItemQuery) Matches(item *ActionItem) bool {
	if q.Start > 0 && item.CreatedAt < q.Start {
		return false
	}
	if q.End > 0 && item.CreatedAt > q.End {
		return false
	}
	if q.Priority != "" && !strings.EqualFold(string(q.Priority), string(item.Priority)) {
		return false
	}
	if q.Source != "" && q.Source.Normalize() != item.Source.Normalize() {
		return false
	}
	if q.IntegrationID != "" {
		integ := item.Log.Info.Integration
		if integ == nil || integ.ID != q.IntegrationID {
			return false
		}
	}
	if len(q.ModuleTypes) > 0 && !matchesModule(item.Type, q.ModuleTypes) {
		return false
	}
	if key := strings.ToLower(strings.TrimSpace(q.SearchKey)); key != "" {
		if !strings.Contains(strings.ToLower(item.Log.SearchKey), key) {
			return false
		}
	}
	return true
}

func matchesModule(t ActionItemType, modules []string) bool {
	for _, m := range modules {
		if m != "" && strings.Contains(string(t), strings.ToUpper(m)) {
			return true
		}
	}
	return false
}

// ActionItemPage is one page of action items.
type ActionItemPage struct {
	Items            []*ActionItem
	LastEvaluatedKey *Cursor
}

type ActionItemRepository interface {
	Create(ctx context.Context, item *ActionItem) error
	GetByID(ctx context.Context, companyID, id uuid.UUID) (*ActionItem, error)
	List(ctx context.Context, q ActionItemQuery) (*ActionItemPage, error)
	Delete(ctx context.Context, companyID, id uuid.UUID) error
}

// FeedEventType names a change pushed to live feed subscribers.
type FeedEventType string

const (
	FeedEventItemCreated FeedEventType = "action_item.created"
	FeedEventItemDeleted FeedEventType = "action_item.deleted"
	FeedEventLogRecorded FeedEventType = "log.recorded"
)

// FeedEvent is the message published on a company's feed channel.
type FeedEvent struct {
	Type      FeedEventType `json:"type"`
	CompanyID uuid.UUID     `json:"company_id"`
	ItemID    uuid.UUID     `json:"item_id"`
	At        int64         `json:"at"`
}
