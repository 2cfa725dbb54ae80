package activity

import (
	"time"

	"github.com/gosuda/actionfeed/internal/domain"
)

type key struct {
	entity domain.EntityType
	action domain.LogAction
}

// context handed to every template.
type tctx struct {
	info   *domain.LogInfo
	rec    *domain.LogRecord
	viewer domain.CurrentUser
	item   *domain.ActionItem
	now    time.Time
}

type template func(b *builder, c tctx)

// templates holds exactly one template per (entity type, action) pair.
var templates = map[key]template{} //nolint:gochecknoglobals // dispatch table filled by init

// itemTemplates render action items that do not wrap a meaningful log record.
var itemTemplates = map[domain.ActionItemType]template{ //nolint:gochecknoglobals // dispatch table
	domain.ActionItemTypeCreateDepartment: func(b *builder, _ tctx) {
		b.text("There are no departments yet.")
		b.ask("Would you like to create your first?")
	},
	domain.ActionItemTypeCreateUser: func(b *builder, _ tctx) {
		b.text("There are no users yet.")
		b.ask("Would you like to create your first?")
	},
}

func register(entity domain.EntityType, action domain.LogAction, t template) {
	k := key{entity: entity, action: action}
	if _, dup := templates[k]; dup {
		panic("activity: duplicate template for " + string(entity) + "/" + string(action))
	}
	templates[k] = t
}

// Known reports whether a template exists for the pair.
func Known(entity domain.EntityType, action domain.LogAction) bool {
	_, ok := templates[key{entity: entity, action: action}]
	return ok
}

// Classify renders the description of a record. Unknown (entity type, action) pairs
// give an empty Description.
func Classify(in Input) Description {
	if in.Item != nil {
		if t, ok := itemTemplates[in.Item.Type]; ok {
			b := &builder{viewer: in.Viewer}
			t(b, tctx{viewer: in.Viewer, item: in.Item, now: in.Now, rec: in.Record, info: &domain.LogInfo{}})
			return b.description()
		}
	}

	rec := in.Record
	if rec == nil && in.Item != nil {
		rec = &in.Item.Log
	}
	if rec == nil {
		return Description{}
	}

	t, ok := templates[key{entity: rec.EntityType, action: rec.Action}]
	if !ok {
		return Description{}
	}

	b := &builder{viewer: in.Viewer}
	t(b, tctx{info: &rec.Info, rec: rec, viewer: in.Viewer, item: in.Item, now: in.Now})
	return b.description()
}

// Describe renders the full feed line: description, relative time and attribution.
func Describe(in Input) Entry {
	d := Classify(in)
	if d.Empty() {
		return Entry{}
	}

	rec := in.Record
	if rec == nil && in.Item != nil {
		rec = &in.Item.Log
	}

	var created int64
	switch {
	case in.Item != nil:
		created = in.Item.CreatedAt
	case rec != nil:
		created = rec.CreatedAt
	}

	return Entry{
		Description: d,
		When:        Relative(time.Unix(created, 0), in.Now),
		By:          attribution(rec, in.Viewer, in.Item),
	}
}

// selfActions are identity and session events that read oddly with a "by" clause
// when the viewer performed them on themselves.
var selfActions = map[domain.LogAction]bool{ //nolint:gochecknoglobals // lookup table
	domain.LogActionSignIn:               true,
	domain.LogActionSignOut:              true,
	domain.LogActionRequestPasswordReset: true,
	domain.LogActionPasswordChanged:      true,
	domain.LogActionSignUp:               true,
	domain.LogActionEstablishCompany:     true,
	domain.LogActionAddCompany:           true,
	domain.LogActionActivateAccount:      true,
	domain.LogActionUpdateUser:           true,
	domain.LogActionRequestIntegration:   true,
}

func attribution(rec *domain.LogRecord, viewer domain.CurrentUser, item *domain.ActionItem) []Segment {
	if item != nil || rec == nil {
		return nil
	}
	author := rec.Info.Author
	if author == nil || author.Name == "" {
		return nil
	}
	if selfActions[rec.Action] && rec.Info.User != nil &&
		author.ID == rec.Info.User.ID && viewer.Is(author.ID) {
		return nil
	}

	if !author.Status.Addressable() || author.ID == "" {
		suffix := ""
		if author.Status == domain.ItemStatusPermanentlyDeleted {
			suffix = " (Removed)"
		}
		return []Segment{{Text: ", by " + author.Name + suffix}}
	}

	return []Segment{
		{Text: ", by "},
		{Text: author.Name, Href: kinds[kindUser].path + author.ID},
	}
}
