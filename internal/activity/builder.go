package activity

import (
	"strings"
	"unicode"

	"github.com/gosuda/actionfeed/internal/domain"
)

type kind int

const (
	kindUser kind = iota
	kindCompany
	kindGroup
	kindDepartment
	kindIntegration
	kindRole
)

type kindInfo struct {
	path     string
	suffix   string
	fallback string
}

var kinds = map[kind]kindInfo{ //nolint:gochecknoglobals // lookup table
	kindUser:        {path: "/users/", fallback: "Someone"},
	kindCompany:     {path: "/companies/", suffix: " (Company)", fallback: "The company"},
	kindGroup:       {path: "/groups/", suffix: " (Group)", fallback: "A group"},
	kindDepartment:  {path: "/departments/", suffix: " (Department)", fallback: "A department"},
	kindIntegration: {path: "/integrations/", fallback: "An integration"},
	kindRole:        {fallback: "a"},
}

// builder accumulates segments for one description.
type builder struct {
	viewer domain.CurrentUser
	segs   []Segment
	prompt string
}

func (b *builder) text(s string) {
	if s == "" {
		return
	}
	if n := len(b.segs); n > 0 && b.segs[n-1].Href == "" {
		b.segs[n-1].Text += s
		return
	}
	b.segs = append(b.segs, Segment{Text: s})
}

func (b *builder) link(s, href string) {
	if href == "" {
		b.text(s)
		return
	}
	b.segs = append(b.segs, Segment{Text: s, Href: href})
}

func (b *builder) ask(prompt string) {
	b.prompt = prompt
}

func (b *builder) description() Description {
	return Description{Segments: b.segs, Prompt: b.prompt}
}

// entity writes a named reference followed by its type suffix. Missing references
// fall back to a generic noun. Entities without a detail page render as plain text.
func (b *builder) entity(r *domain.Ref, k kind, start bool) {
	info := kinds[k]
	if r == nil || r.DisplayName() == "" {
		b.text(caseFirst(info.fallback, start))
		return
	}

	if r.ID != "" && info.path != "" && r.Status.Addressable() {
		b.link(r.DisplayName(), info.path+r.ID)
	} else {
		b.text(r.DisplayName())
	}
	b.text(info.suffix)
}

// plain writes a reference without a link, as for entities that were just removed.
func (b *builder) plain(r *domain.Ref, k kind, start bool) {
	info := kinds[k]
	if r == nil || r.DisplayName() == "" {
		b.text(caseFirst(info.fallback, start))
		return
	}
	b.text(r.DisplayName())
	b.text(info.suffix)
}

// person writes a user reference, substituting "You" for the viewer.
func (b *builder) person(r *domain.Ref, start bool) {
	if r != nil && b.viewer.Is(r.ID) {
		b.text(caseFirst("you", start))
		return
	}
	b.entity(r, kindUser, start)
}

// people writes "A", "A and B" or "A, B and C".
func (b *builder) people(refs []domain.Ref, start bool) {
	if len(refs) == 0 {
		b.person(nil, start)
		return
	}
	for i := range refs {
		switch {
		case i == 0:
		case i == len(refs)-1:
			b.text(" and ")
		default:
			b.text(", ")
		}
		b.person(&refs[i], start && i == 0)
	}
}

// groups writes a list of group references with their suffixes.
func (b *builder) groups(refs []domain.Ref, start bool) {
	if len(refs) == 0 {
		b.entity(nil, kindGroup, start)
		return
	}
	for i := range refs {
		switch {
		case i == 0:
		case i == len(refs)-1:
			b.text(" and ")
		default:
			b.text(", ")
		}
		b.entity(&refs[i], kindGroup, start && i == 0)
	}
}

// verb picks the singular form when exactly one party other than the viewer is the
// subject, and the plural form otherwise ("you have", "they have").
func verb(viewer domain.CurrentUser, refs []domain.Ref, singular, plural string) string {
	if len(refs) == 1 && !viewer.Is(refs[0].ID) {
		return singular
	}
	if len(refs) == 0 {
		return singular
	}
	return plural
}

// verbFor is verb for a single optional subject.
func verbFor(viewer domain.CurrentUser, r *domain.Ref, singular, plural string) string {
	if r == nil {
		return singular
	}
	return verb(viewer, []domain.Ref{*r}, singular, plural)
}

// possessive returns "your" when the subject is the viewer and "their" otherwise.
func possessive(viewer domain.CurrentUser, r *domain.Ref) string {
	if r != nil && viewer.Is(r.ID) {
		return "your"
	}
	return "their"
}

// demonstrative returns "this user" or "these users".
func demonstrative(n int, singular, plural string) string {
	if n > 1 {
		return plural
	}
	return singular
}

// subject returns the first non-nil reference.
func subject(refs ...*domain.Ref) *domain.Ref {
	for _, r := range refs {
		if r != nil {
			return r
		}
	}
	return nil
}

// single wraps an optional reference as a list.
func single(r *domain.Ref) []domain.Ref {
	if r == nil {
		return nil
	}
	return []domain.Ref{*r}
}

// removed maps removed users to their snapshot taken at event time.
func removed(refs []domain.Ref) []domain.Ref {
	out := make([]domain.Ref, 0, len(refs))
	for _, r := range refs {
		if r.Temp == nil {
			out = append(out, r)
			continue
		}
		t := *r.Temp
		if t.ID == "" {
			t.ID = r.ID
		}
		out = append(out, t)
	}
	return out
}

// categoryApps turns "Messaging App" into "messaging apps".
func categoryApps(category string) string {
	c := strings.ToLower(strings.TrimSpace(category))
	c = strings.TrimSpace(strings.TrimSuffix(strings.TrimSuffix(c, "apps"), "app"))
	if c == "" {
		return "apps"
	}
	return c + " apps"
}

func caseFirst(s string, upper bool) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	if upper {
		r[0] = unicode.ToUpper(r[0])
	} else {
		r[0] = unicode.ToLower(r[0])
	}
	return string(r)
}
