package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gosuda/actionfeed/internal/actions"
	"github.com/gosuda/actionfeed/internal/domain"
)

const shortIDLen = 8

var (
	errItemNotFound  = errors.New("no loaded action item matches that id")       //nolint:gochecknoglobals // sentinel error
	errItemAmbiguous = errors.New("more than one action item matches that id") //nolint:gochecknoglobals // sentinel error
)

func shortID(id uuid.UUID) string {
	return id.String()[:shortIDLen]
}

// matchItem finds the single item whose id starts with prefix.
func matchItem(items []*domain.ActionItem, prefix string) (*domain.ActionItem, error) {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" {
		return nil, errItemNotFound
	}
	var found *domain.ActionItem
	for _, it := range items {
		if !strings.HasPrefix(it.ID.String(), prefix) {
			continue
		}
		if found != nil {
			return nil, fmt.Errorf("%q: %w", prefix, errItemAmbiguous)
		}
		found = it
	}
	if found == nil {
		return nil, fmt.Errorf("%q: %w", prefix, errItemNotFound)
	}
	return found, nil
}

// userGone reports whether the user an invite reminder is about is missing from
// the member list. An unknown member list never counts as gone.
func userGone(item *domain.ActionItem, members map[uuid.UUID]domain.ItemStatus) bool {
	invited := item.Log.Info.User
	if members == nil || item.Type != domain.ActionItemTypeInviteRemoveCompanyMember || invited == nil {
		return false
	}
	id, err := uuid.Parse(invited.ID)
	if err != nil {
		return true
	}
	status, ok := members[id]
	return !ok || !status.Addressable()
}

// formatPanel lists the buttons of p on one line. Disabled buttons carry their
// tooltip in brackets.
func formatPanel(p actions.Panel) string {
	parts := make([]string, 0, len(p.Buttons)+1)
	if p.Badge != "" {
		parts = append(parts, "("+p.Badge+")")
	}
	for _, b := range p.Buttons {
		switch {
		case b.Loading:
			parts = append(parts, string(b.Kind)+" [in progress]")
		case !b.Enabled && b.Tooltip != "":
			parts = append(parts, string(b.Kind)+" ["+b.Tooltip+"]")
		case !b.Enabled:
			parts = append(parts, string(b.Kind)+" [disabled]")
		default:
			parts = append(parts, string(b.Kind))
		}
	}
	return strings.Join(parts, ", ")
}

// parseDay reads a YYYY-MM-DD flag value in UTC.
func parseDay(v string) (*time.Time, error) {
	if v == "" {
		return nil, nil //nolint:nilnil // unset flag
	}
	t, err := time.ParseInLocation(time.DateOnly, v, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("date %q: want YYYY-MM-DD", v)
	}
	return &t, nil
}
