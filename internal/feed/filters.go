package feed

import (
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/gosuda/actionfeed/internal/domain"
)

// Filters is the filter state of the feed. Zero values mean "no filter".
type Filters struct {
	Start         time.Time
	End           time.Time
	Priority      domain.Priority
	SearchKey     string
	Sort          domain.SortOrder
	Source        domain.Source
	IntegrationID string
	ModuleTypes   []string
}

// DefaultFilters returns the unfiltered state, newest first.
func DefaultFilters() Filters {
	return Filters{Sort: domain.SortDesc}
}

// Active reports whether anything narrows the list beyond the sort order.
func (f Filters) Active() bool {
	return !f.Start.IsZero() || !f.End.IsZero() || f.Priority != "" || f.SearchKey != "" ||
		f.Source != "" || f.IntegrationID != "" || len(f.ModuleTypes) > 0
}

// Patch is a partial filter change. Nil fields are left untouched.
type Patch struct {
	Start         *time.Time
	End           *time.Time
	Priority      *domain.Priority
	SearchKey     *string
	Sort          *domain.SortOrder
	Source        *domain.Source
	IntegrationID *string
	ModuleTypes   *[]string
}

// Apply merges p into f.
func (p Patch) Apply(f Filters) Filters {
	if p.Start != nil {
		f.Start = *p.Start
	}
	if p.End != nil {
		f.End = *p.End
	}
	if p.Priority != nil {
		f.Priority = *p.Priority
	}
	if p.SearchKey != nil {
		f.SearchKey = *p.SearchKey
	}
	if p.Sort != nil {
		f.Sort = p.Sort.Normalize()
	}
	if p.Source != nil {
		f.Source = *p.Source
	}
	if p.IntegrationID != nil {
		f.IntegrationID = *p.IntegrationID
	}
	if p.ModuleTypes != nil {
		f.ModuleTypes = slices.Clone(*p.ModuleTypes)
	}
	return f
}

// EndOfDay moves t to 23:59:59 of its calendar day.
func EndOfDay(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 0, t.Location())
}

// Query builds the backend query for the filters.
func (f Filters) Query(companyID uuid.UUID, limit int, after *domain.Cursor) domain.ActionItemQuery {
	q := domain.ActionItemQuery{
		CompanyID:     companyID,
		Priority:      f.Priority,
		SearchKey:     f.SearchKey,
		Sort:          f.Sort.Normalize(),
		Source:        f.Source,
		IntegrationID: f.IntegrationID,
		ModuleTypes:   slices.Clone(f.ModuleTypes),
		Limit:         limit,
		After:         after,
	}
	if !f.Start.IsZero() {
		q.Start = f.Start.Unix()
	}
	if !f.End.IsZero() {
		q.End = EndOfDay(f.End).Unix()
	}
	return q
}
