package domain

import (
	"context"
	"slices"
	"strings"

	"github.com/google/uuid"
)

// Ref is a reference to an entity named inside a log payload.
type Ref struct {
	ID         string     `json:"id,omitempty"`
	Name       string     `json:"name,omitempty"`
	Email      string     `json:"email,omitempty"`
	Status     ItemStatus `json:"status,omitempty"`
	Categories []string   `json:"categories,omitempty"`
	CreatedAt  int64      `json:"created_at,omitempty"`
	Temp       *Ref       `json:"temp,omitempty"` // snapshot of a removed user at event time
}

// DisplayName prefers the name and falls back to the email.
func (r *Ref) DisplayName() string {
	if r == nil {
		return ""
	}
	if r.Name != "" {
		return r.Name
	}
	return r.Email
}

// LogInfo is the payload of a log record, keyed by the role each entity played.
// Every field is optional.
type LogInfo struct {
	Author               *Ref  `json:"author,omitempty"`
	User                 *Ref  `json:"user,omitempty"`
	Users                []Ref `json:"users,omitempty"`
	Group                *Ref  `json:"group,omitempty"`
	Groups               []Ref `json:"groups,omitempty"`
	Members              []Ref `json:"members,omitempty"`
	SourceGroup          *Ref  `json:"source_group,omitempty"`
	DestinationGroup     *Ref  `json:"destination_group,omitempty"`
	Origin               *Ref  `json:"origin,omitempty"`
	RemovedGroup         *Ref  `json:"removed_group,omitempty"`
	RetainedGroup        *Ref  `json:"retained_group,omitempty"`
	Department           *Ref  `json:"department,omitempty"`
	Company              *Ref  `json:"company,omitempty"`
	Integration          *Ref  `json:"integration,omitempty"`
	SuggestedIntegration *Ref  `json:"suggested_integration,omitempty"`
	Role                 *Ref  `json:"role,omitempty"`
}

// SearchKey builds the lowercase denormalized search text for the payload.
func (i LogInfo) SearchKey() string {
	var parts []string
	var add func(r *Ref)
	add = func(r *Ref) {
		if r == nil {
			return
		}
		for _, s := range []string{r.Name, r.Email} {
			if s != "" {
				parts = append(parts, strings.ToLower(s))
			}
		}
		if r.Temp != nil {
			add(r.Temp)
		}
	}

	for _, r := range []*Ref{
		i.Author, i.User, i.Group, i.SourceGroup, i.DestinationGroup, i.Origin,
		i.RemovedGroup, i.RetainedGroup, i.Department, i.Company, i.Integration,
		i.SuggestedIntegration, i.Role,
	} {
		add(r)
	}
	for _, list := range [][]Ref{i.Users, i.Groups, i.Members} {
		for k := range list {
			add(&list[k])
		}
	}

	return strings.Join(slices.Compact(parts), " ")
}

// LogRecord is an immutable audit entry for one domain event.
type LogRecord struct {
	ID         uuid.UUID  `json:"log_id"`
	CompanyID  uuid.UUID  `json:"company_id"`
	UserID     uuid.UUID  `json:"user_id"`
	EntityType EntityType `json:"log_type"`
	Action     LogAction  `json:"log_action"`
	Info       LogInfo    `json:"log_info"`
	CreatedAt  int64      `json:"created_at"` // Unix seconds
	SearchKey  string     `json:"search_key"`
}

// LogQuery selects a page of the activity log.
type LogQuery struct {
	CompanyID  uuid.UUID
	EntityType EntityType
	SearchKey  string
	Limit      int
	After      *Cursor
}

// LogPage is one page of log records.
type LogPage struct {
	Logs             []*LogRecord
	LastEvaluatedKey *Cursor
}

type LogRepository interface {
	Record(ctx context.Context, rec *LogRecord) error
	List(ctx context.Context, q LogQuery) (*LogPage, error)
}
