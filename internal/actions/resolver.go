// Package actions decides which buttons an action item offers the viewing user and
// routes clicks on them to the backend.
package actions

import (
	"encoding/json"
	"net/url"
	"time"

	"github.com/gosuda/actionfeed/internal/domain"
)

// Tooltips shown on disabled buttons.
const (
	TooltipPermission  = "You do not have permission to do this action."
	TooltipSeats       = "You have reached the maximum number of users for your license."
	TooltipSelf        = "You cannot perform this action on yourself."
	TooltipUserDeleted = "User is deleted. Restore the user"
)

// BadgeRestored replaces the restore button once the user is back.
const BadgeRestored = "Restored"

// InviteGrace is how long an invite stays unanswered before removal is offered.
const InviteGrace = 72 * time.Hour

// UnlimitedSeats marks a license without a seat cap.
const UnlimitedSeats = -1

// Kind identifies what a button does when clicked.
type Kind string

const (
	KindAddToGroup         Kind = "add_to_group"
	KindRemoveUser         Kind = "remove_user"
	KindRestoreUser        Kind = "restore_user"
	KindResendInvite       Kind = "resend_invite"
	KindImportContacts     Kind = "import_contacts"
	KindConnectIntegration Kind = "connect_integration"
	KindCreate             Kind = "create"
	KindDismiss            Kind = "dismiss"
)

// Navigates reports whether the button only leads somewhere instead of mutating.
func (k Kind) Navigates() bool {
	switch k {
	case KindAddToGroup, KindImportContacts, KindConnectIntegration, KindCreate:
		return true
	default:
		return false
	}
}

// Button is one action offered on an item. A disabled button is still rendered and
// carries the reason in Tooltip; clicking it does nothing.
type Button struct {
	Kind    Kind   `json:"kind"`
	Label   string `json:"label"`
	Enabled bool   `json:"enabled"`
	Tooltip string `json:"tooltip,omitempty"`
	Loading bool   `json:"loading,omitempty"`
	Target  string `json:"target,omitempty"`
}

// Panel is the set of buttons for one item.
type Panel struct {
	Buttons []Button `json:"buttons"`
	Badge   string   `json:"badge,omitempty"`
}

// Empty reports whether nothing is to be rendered.
func (p Panel) Empty() bool {
	return len(p.Buttons) == 0 && p.Badge == ""
}

// Button looks up the first button of the given kind.
func (p Panel) Button(k Kind) (Button, bool) {
	for _, b := range p.Buttons {
		if b.Kind == k {
			return b, true
		}
	}
	return Button{}, false
}

// Env carries the facts the panel depends on besides the item and the viewer.
type Env struct {
	Now       time.Time
	SeatsLeft int  // UnlimitedSeats when the license has no cap
	Restoring bool // a restore call for this item is in flight
	UserGone  bool // the invited user no longer exists
}

func (e Env) seatsExhausted() bool {
	return e.SeatsLeft == 0
}

type rule func(item *domain.ActionItem, viewer domain.CurrentUser, env Env) Panel

// rules holds exactly one entry per action item type.
var rules = map[domain.ActionItemType]rule{ //nolint:gochecknoglobals // dispatch table
	domain.ActionItemTypeAddUsersToGroup:            addUsersToGroup,
	domain.ActionItemTypeAddRemoveUser:              addRemoveUser,
	domain.ActionItemTypeSuggestIntegrationCategory: suggestIntegration,
	domain.ActionItemTypeSuggestHotIntegration:      suggestIntegration,
	domain.ActionItemTypeImportIntegrationContacts:  importContacts,
	domain.ActionItemTypeCreateDepartment:           create(domain.PermissionAddDepartment, "/departments?create=true"),
	domain.ActionItemTypeCreateUser:                 create(domain.PermissionAddCompanyMember, "/users?create=true"),
	domain.ActionItemTypeNewIntegration:             dismissOnly,
	domain.ActionItemTypeRemoveUserToCompany:        restoreUser,
	domain.ActionItemTypeInviteRemoveCompanyMember:  inviteReminder,
}

// Resolve returns the panel for item as seen by viewer. Unknown item types and
// viewers whose permissions are not loaded yet get an empty panel.
func Resolve(item *domain.ActionItem, viewer domain.CurrentUser, env Env) Panel {
	if item == nil || !viewer.PermissionsLoaded() {
		return Panel{}
	}
	r, ok := rules[item.Type]
	if !ok {
		return Panel{}
	}
	return r(item, viewer, env)
}

// gated returns an enabled button when the viewer holds p, and a disabled one with the
// permission tooltip otherwise.
func gated(viewer domain.CurrentUser, p domain.Permission, b Button) Button {
	if !viewer.Can(p) {
		b.Enabled = false
		b.Tooltip = TooltipPermission
		b.Target = ""
		return b
	}
	b.Enabled = true
	return b
}

func dismiss() Button {
	return Button{Kind: KindDismiss, Label: "Dismiss", Enabled: true}
}

func addUsersToGroup(item *domain.ActionItem, viewer domain.CurrentUser, _ Env) Panel {
	if g := item.Log.Info.Group; g != nil &&
		(g.Status == domain.ItemStatusInactive || g.Status == domain.ItemStatusDeleted) {
		return Panel{}
	}

	p := Panel{Buttons: []Button{
		gated(viewer, domain.PermissionAddGroupMember, Button{Kind: KindAddToGroup, Label: "Add Now", Target: addToGroupTarget(item)}),
	}}
	if viewer.Can(domain.PermissionAddGroupMember) {
		p.Buttons = append(p.Buttons, dismiss())
	}
	return p
}

func addRemoveUser(item *domain.ActionItem, viewer domain.CurrentUser, _ Env) Panel {
	remove := gated(viewer, domain.PermissionRemoveGroupMember, Button{Kind: KindRemoveUser, Label: "Remove User"})
	if remove.Enabled && targetsViewer(viewer, item.Log.Info.Users...) {
		remove.Enabled = false
		remove.Tooltip = TooltipSelf
	}

	p := Panel{Buttons: []Button{
		gated(viewer, domain.PermissionAddGroupMember, Button{Kind: KindAddToGroup, Label: "Add Now", Target: addToGroupTarget(item)}),
		remove,
	}}
	if viewer.Can(domain.PermissionAddGroupMember) || viewer.Can(domain.PermissionRemoveGroupMember) {
		p.Buttons = append(p.Buttons, dismiss())
	}
	return p
}

func suggestIntegration(item *domain.ActionItem, viewer domain.CurrentUser, _ Env) Panel {
	p := Panel{Buttons: []Button{
		gated(viewer, domain.PermissionConnectIntegration, Button{Kind: KindConnectIntegration, Label: "Add Now", Target: integrationsTarget(item)}),
	}}
	if viewer.Can(domain.PermissionConnectIntegration) {
		p.Buttons = append(p.Buttons, dismiss())
	}
	return p
}

func importContacts(item *domain.ActionItem, viewer domain.CurrentUser, _ Env) Panel {
	target := "/users?action=import"
	if integ := item.Log.Info.Integration; integ != nil && integ.DisplayName() != "" {
		target += "&integration=" + url.QueryEscape(integ.DisplayName())
	}
	return Panel{Buttons: []Button{
		gated(viewer, domain.PermissionConnectIntegration, Button{Kind: KindImportContacts, Label: "Import", Target: target}),
		dismiss(),
	}}
}

func create(p domain.Permission, target string) rule {
	return func(_ *domain.ActionItem, viewer domain.CurrentUser, _ Env) Panel {
		return Panel{Buttons: []Button{
			gated(viewer, p, Button{Kind: KindCreate, Label: "Create", Target: target}),
			dismiss(),
		}}
	}
}

func dismissOnly(_ *domain.ActionItem, _ domain.CurrentUser, _ Env) Panel {
	return Panel{Buttons: []Button{dismiss()}}
}

func restoreUser(item *domain.ActionItem, viewer domain.CurrentUser, env Env) Panel {
	if restoredStatus(item).Restored() {
		p := Panel{Badge: BadgeRestored}
		if viewer.Can(domain.PermissionAddCompanyMember) {
			p.Buttons = []Button{dismiss()}
		}
		return p
	}

	restore := gated(viewer, domain.PermissionAddCompanyMember, Button{Kind: KindRestoreUser, Label: "Restore"})
	switch {
	case !restore.Enabled:
	case env.seatsExhausted():
		restore.Enabled = false
		restore.Tooltip = TooltipSeats
	case env.Restoring:
		restore.Enabled = false
		restore.Loading = true
	}

	p := Panel{Buttons: []Button{restore}}
	if viewer.Can(domain.PermissionAddCompanyMember) {
		p.Buttons = append(p.Buttons, dismiss())
	}
	return p
}

// restoredStatus is the current status of the first removed user, as snapshotted
// in the payload.
func restoredStatus(item *domain.ActionItem) domain.ItemStatus {
	users := item.Log.Info.Users
	if len(users) == 0 || users[0].Temp == nil {
		return ""
	}
	return users[0].Temp.Status
}

func inviteReminder(item *domain.ActionItem, viewer domain.CurrentUser, env Env) Panel {
	var p Panel
	invited := item.Log.Info.User

	if invited != nil && invited.Status == domain.ItemStatusPending {
		resend := gated(viewer, domain.PermissionAddCompanyMember, Button{Kind: KindResendInvite, Label: "Resend Invite"})
		if resend.Enabled && env.UserGone {
			resend.Enabled = false
			resend.Tooltip = TooltipUserDeleted
		}
		p.Buttons = append(p.Buttons, resend)

		if InviteOverdue(item, env.Now) {
			b := Button{Kind: KindRemoveUser, Label: "Remove User"}
			if env.UserGone {
				b = Button{Kind: KindRestoreUser, Label: "Restore User"}
			}
			b = gated(viewer, domain.PermissionRemoveCompanyMember, b)
			if b.Enabled && targetsViewer(viewer, *invited) {
				b.Enabled = false
				b.Tooltip = TooltipSelf
			}
			p.Buttons = append(p.Buttons, b)
		}
	}

	if viewer.Can(domain.PermissionAddCompanyMember) && viewer.Can(domain.PermissionRemoveCompanyMember) {
		p.Buttons = append(p.Buttons, dismiss())
	}
	return p
}

// InviteOverdue reports whether more than InviteGrace has passed since the invite
// clock of item.
func InviteOverdue(item *domain.ActionItem, now time.Time) bool {
	return now.Sub(item.InviteClock()) > InviteGrace
}

func targetsViewer(viewer domain.CurrentUser, refs ...domain.Ref) bool {
	for _, r := range refs {
		if viewer.Is(r.ID) {
			return true
		}
	}
	return false
}

// addToGroupTarget links to the user list with the add-to-group dialog preselected.
func addToGroupTarget(item *domain.ActionItem) string {
	info := item.Log.Info
	people := make([]string, 0, len(info.Users))
	for _, u := range info.Users {
		people = append(people, u.ID)
	}
	group := ""
	if info.Group != nil {
		group = info.Group.ID
	}

	rawPeople, _ := json.Marshal(people)
	rawGroup, _ := json.Marshal(group)
	return "/users?add-to-group=true&people=" + url.QueryEscape(string(rawPeople)) +
		"&group=" + url.QueryEscape(string(rawGroup))
}

// integrationsTarget filters the integration catalogue when the suggestion names
// exactly one category.
func integrationsTarget(item *domain.ActionItem) string {
	info := item.Log.Info
	for _, r := range []*domain.Ref{info.SuggestedIntegration, info.Integration} {
		if r != nil && len(r.Categories) == 1 {
			return "/integrations?filter=" + url.QueryEscape(r.Categories[0])
		}
	}
	return "/integrations"
}

// CanDismiss reports whether viewer may take item off the feed: the panel offers
// Dismiss, or an enabled removal or restore that completes the item.
func CanDismiss(item *domain.ActionItem, viewer domain.CurrentUser, env Env) bool {
	for _, b := range Resolve(item, viewer, env).Buttons {
		switch b.Kind {
		case KindDismiss:
			return true
		case KindRemoveUser, KindRestoreUser:
			if b.Enabled {
				return true
			}
		}
	}
	return false
}
