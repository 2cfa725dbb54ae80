// Package activity turns log records into human-readable feed lines.
//
// Every function here is pure: the viewing user, the optional action item and the
// evaluation time are passed in explicitly, and missing payload fields degrade to a
// generic noun instead of failing.
package activity

import (
	"strings"
	"time"

	"github.com/gosuda/actionfeed/internal/domain"
)

// Segment is a run of description text. Href is set when the text names an entity
// that has a detail page.
type Segment struct {
	Text string `json:"text"`
	Href string `json:"href,omitempty"`
}

// Description is the rendered sentence for one record plus an optional suggestion
// prompt shown when the record is an open action item.
type Description struct {
	Segments []Segment `json:"segments"`
	Prompt   string    `json:"prompt,omitempty"`
}

// Empty reports whether nothing was rendered.
func (d Description) Empty() bool {
	return len(d.Segments) == 0 && d.Prompt == ""
}

// Text joins the segments without the prompt.
func (d Description) Text() string {
	var sb strings.Builder
	for _, s := range d.Segments {
		sb.WriteString(s.Text)
	}
	return sb.String()
}

// Plain is the non-interactive variant: text followed by the prompt.
func (d Description) Plain() string {
	return joinPrompt(d.Text(), d.Prompt)
}

// Rich renders linked segments as markdown links.
func (d Description) Rich() string {
	return joinPrompt(richText(d.Segments), d.Prompt)
}

func richText(segs []Segment) string {
	var sb strings.Builder
	for _, s := range segs {
		if s.Href == "" {
			sb.WriteString(s.Text)
			continue
		}
		sb.WriteString("[")
		sb.WriteString(s.Text)
		sb.WriteString("](")
		sb.WriteString(s.Href)
		sb.WriteString(")")
	}
	return sb.String()
}

func joinPrompt(text, prompt string) string {
	switch {
	case prompt == "":
		return text
	case text == "":
		return prompt
	default:
		return text + " " + prompt
	}
}

// Input is everything a feed line depends on.
type Input struct {
	Record *domain.LogRecord
	Viewer domain.CurrentUser
	Item   *domain.ActionItem // nil for plain activity log entries
	Now    time.Time
}

// Entry is a complete feed line: description, relative time and attribution.
type Entry struct {
	Description Description `json:"description"`
	When        string      `json:"when"`
	By          []Segment   `json:"by,omitempty"`
}

// Plain renders the entry on one line without links.
func (e Entry) Plain() string {
	var sb strings.Builder
	sb.WriteString(e.Description.Plain())
	if e.When != "" {
		if sb.Len() > 0 {
			sb.WriteString(" · ")
		}
		sb.WriteString(e.When)
	}
	for _, s := range e.By {
		sb.WriteString(s.Text)
	}
	return sb.String()
}

// Rich renders the entry on one line with markdown links.
func (e Entry) Rich() string {
	var sb strings.Builder
	sb.WriteString(e.Description.Rich())
	if e.When != "" {
		if sb.Len() > 0 {
			sb.WriteString(" · ")
		}
		sb.WriteString(e.When)
	}
	sb.WriteString(richText(e.By))
	return sb.String()
}
