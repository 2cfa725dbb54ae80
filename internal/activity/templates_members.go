package activity

import (
	"github.com/gosuda/actionfeed/internal/domain"
)

const (
	promptAddToGroup = "Would you like to add this user to a group?"
	promptRestore    = "Would you like to restore this user?"
)

func init() {
	// COMPANYMEMBER
	register(domain.EntityTypeCompanyMember, domain.LogActionAddCompanyMembers, func(b *builder, c tctx) {
		membersOf(b, c, c.info.Users, "added to")
		if c.item != nil {
			b.ask(promptAddToGroup)
		}
	})
	register(domain.EntityTypeCompanyMember, domain.LogActionRemoveCompanyMembers, removedMembers("removed from"))
	register(domain.EntityTypeCompanyMember, domain.LogActionPermanentlyRemoveCompanyMembers, removedMembers("permanently removed from"))
	register(domain.EntityTypeCompanyMember, domain.LogActionRestoreCompanyMembers, func(b *builder, c tctx) {
		membersOf(b, c, removed(c.info.Users), "restored to")
	})
	register(domain.EntityTypeCompanyMember, domain.LogActionInviteRemoveCompanyMember, func(b *builder, c tctx) {
		u := c.info.User
		b.person(u, true)
		b.text(" " + verbFor(c.viewer, u, "hasn't", "haven't") + " responded to your invite")
		if c.item != nil && !c.now.IsZero() {
			b.text(" sent " + Relative(c.item.InviteClock(), c.now))
		}
		b.text(".")
	})
	register(domain.EntityTypeCompanyMember, domain.LogActionRemoveCompanyMembersIntegrationAccess, func(b *builder, c tctx) {
		b.entity(c.info.Integration, kindIntegration, true)
		b.text(" access for ")
		b.people(c.info.Users, false)
		b.text(" has been removed.")
	})

	// GROUPMEMBER
	register(domain.EntityTypeGroupMember, domain.LogActionAddGroupMembers, addedGroupMembers)
	register(domain.EntityTypeGroupMember, domain.LogActionRemoveIndividualMembers, func(b *builder, c tctx) {
		if c.item != nil {
			b.people(c.info.Users, true)
			b.text(" " + verb(c.viewer, c.info.Users, "doesn't", "don't") + " belong to any group.")
			b.ask(promptAddToGroup)
			return
		}
		movedMembers(b, c, c.info.Users, "removed from", c.info.Group)
	})
	register(domain.EntityTypeGroupMember, domain.LogActionRemoveGroupMembers, func(b *builder, c tctx) {
		movedMembers(b, c, c.info.Members, "removed from", c.info.Group)
	})
	register(domain.EntityTypeGroupMember, domain.LogActionDeleteGroupMembers, func(b *builder, c tctx) {
		movedMembers(b, c, c.info.Members, "deleted from", c.info.Group)
	})
	register(domain.EntityTypeGroupMember, domain.LogActionMoveGroupMembers, func(b *builder, c tctx) {
		b.people(c.info.Members, true)
		b.text(" " + verb(c.viewer, c.info.Members, "has", "have") + " been moved from ")
		b.entity(c.info.SourceGroup, kindGroup, false)
		b.text(" to ")
		b.entity(c.info.DestinationGroup, kindGroup, false)
		b.text(".")
	})
	register(domain.EntityTypeGroupMember, domain.LogActionBranchGroup, func(b *builder, c tctx) {
		b.entity(c.info.Group, kindGroup, true)
		b.text(" has been branched from ")
		b.entity(c.info.Origin, kindGroup, false)
		b.text(".")
	})
}

// membersOf renders "<users> has/have been <what> <Company> (Company)."
func membersOf(b *builder, c tctx, users []domain.Ref, what string) {
	b.people(users, true)
	b.text(" " + verb(c.viewer, users, "has", "have") + " been " + what + " ")
	b.entity(c.info.Company, kindCompany, false)
	b.text(".")
}

func removedMembers(what string) template {
	return func(b *builder, c tctx) {
		membersOf(b, c, removed(c.info.Users), what)
		if c.item == nil {
			return
		}
		var status domain.ItemStatus
		if len(c.info.Users) > 0 && c.info.Users[0].Temp != nil {
			status = c.info.Users[0].Temp.Status
		}
		// A missing snapshot still asks; only a known live status suppresses it.
		if status == "" || !status.Restored() {
			b.ask(promptRestore)
		}
	}
}

// movedMembers renders "<users> has/have been <what> <Group> (Group)."
func movedMembers(b *builder, c tctx, users []domain.Ref, what string, group *domain.Ref) {
	b.people(users, true)
	b.text(" " + verb(c.viewer, users, "has", "have") + " been " + what + " ")
	b.entity(group, kindGroup, false)
	b.text(".")
}

func addedGroupMembers(b *builder, c tctx) {
	group := c.info.Group
	active := group != nil && group.Status.Addressable()

	if len(c.info.Users) > 0 {
		movedMembers(b, c, c.info.Users, "added to", group)
		if c.item != nil && active {
			b.ask("Would you like to add " + demonstrative(len(c.info.Users), "this user", "these users") + " to other groups?")
		}
		return
	}

	if n := len(c.info.Groups); n > 0 {
		b.groups(c.info.Groups, true)
		b.text(" " + demonstrative(n, "has", "have") + " been added to ")
		b.entity(group, kindGroup, false)
		b.text(".")
		if c.item != nil && active {
			b.ask("Would you like to add " + demonstrative(n, "this group", "these groups") + " to other groups?")
		}
		return
	}

	u := c.info.User
	b.person(u, true)
	b.text(" " + verbFor(c.viewer, u, "has", "have") + " been added to ")
	b.entity(group, kindGroup, false)
	b.text(".")
	if c.item != nil && active {
		b.ask("Would you like to add this user to other groups?")
	}
}
