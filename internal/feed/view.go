package feed

import (
	"sort"
	"time"

	"github.com/gosuda/actionfeed/internal/domain"
)

// Empty-state messages.
const (
	MsgNoItems   = "You don't have an action item at the moment."
	MsgNoResults = "Sorry, no results found"

	HintNoResults = "Try adjusting your search to find what you're looking for."
	HintNoUsers   = `You don't have a user added. Click the "Add People" button to add your first user.`
	HintNoDepts   = `You don't have any departments yet. Click the "Create" button to add your first department.`
)

const dayKeyLayout = "2006-01-02"

// Bucket holds the items created on one calendar day (UTC), in server order.
type Bucket struct {
	Day   string               `json:"day"`
	Items []*domain.ActionItem `json:"items"`
}

// CountUnknown marks a collection whose size the backend does not report.
const CountUnknown = -1

// Collections counts the company's onboarding collections. The empty feed points the
// user at whichever of them is still empty.
type Collections struct {
	Users       int
	Departments int
	Groups      int
}

// View is a consistent snapshot of the controller.
type View struct {
	State   State    `json:"state"`
	Filters Filters  `json:"filters"`
	Buckets []Bucket `json:"buckets"`
	Count   int      `json:"count"`
	HasMore bool     `json:"has_more"`
	Message string   `json:"message,omitempty"`
	Hint    string   `json:"hint,omitempty"`
}

// Items flattens the buckets in display order.
func (v View) Items() []*domain.ActionItem {
	out := make([]*domain.ActionItem, 0, v.Count)
	for _, b := range v.Buckets {
		out = append(out, b.Items...)
	}
	return out
}

// DayKey returns the bucket key for a Unix timestamp.
func DayKey(unix int64) string {
	return time.Unix(unix, 0).UTC().Format(dayKeyLayout)
}

// GroupByDay buckets items by creation day. Items keep their relative order inside a
// bucket. Buckets are ordered by date in the given direction.
func GroupByDay(items []*domain.ActionItem, order domain.SortOrder) []Bucket {
	index := make(map[string]int)
	var buckets []Bucket
	for _, it := range items {
		day := DayKey(it.CreatedAt)
		i, ok := index[day]
		if !ok {
			i = len(buckets)
			index[day] = i
			buckets = append(buckets, Bucket{Day: day})
		}
		buckets[i].Items = append(buckets[i].Items, it)
	}

	asc := order.Normalize() == domain.SortAsc
	sort.SliceStable(buckets, func(i, j int) bool {
		if asc {
			return buckets[i].Day < buckets[j].Day
		}
		return buckets[i].Day > buckets[j].Day
	})
	return buckets
}

// visible applies the client-side filters to the loaded page.
func visible(items []*domain.ActionItem, q domain.ActionItemQuery) []*domain.ActionItem {
	out := make([]*domain.ActionItem, 0, len(items))
	for _, it := range items {
		if q.Matches(it) {
			out = append(out, it)
		}
	}
	return out
}

// emptyState picks the message shown when nothing is visible. c is nil while the
// collections are unknown.
func emptyState(f Filters, c *Collections) (string, string) {
	if f.Active() {
		return MsgNoResults, HintNoResults
	}
	switch {
	case c == nil:
		return MsgNoItems, ""
	case c.Users == 0:
		return MsgNoItems, HintNoUsers
	case c.Departments == 0:
		return MsgNoItems, HintNoDepts
	default:
		return MsgNoItems, ""
	}
}
