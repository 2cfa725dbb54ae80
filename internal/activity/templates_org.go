package activity

import (
	"github.com/gosuda/actionfeed/internal/domain"
)

func init() {
	// GROUP
	register(domain.EntityTypeGroup, domain.LogActionAddGroup, func(b *builder, c tctx) {
		b.entity(c.info.Group, kindGroup, true)
		b.text(" has been added")
		if c.info.Department != nil {
			b.text(" to ")
			b.entity(c.info.Department, kindDepartment, false)
		}
		b.text(".")
	})
	register(domain.EntityTypeGroup, domain.LogActionUpdateGroup, func(b *builder, c tctx) {
		b.entity(c.info.Group, kindGroup, true)
		b.text(" information has been updated.")
	})
	register(domain.EntityTypeGroup, domain.LogActionDeleteGroup, removedGroup)
	register(domain.EntityTypeGroup, domain.LogActionRemoveGroup, removedGroup)
	register(domain.EntityTypeGroup, domain.LogActionCloneGroup, func(b *builder, c tctx) {
		b.entity(c.info.Group, kindGroup, true)
		b.text(" has been cloned from ")
		b.entity(c.info.Origin, kindGroup, false)
		b.text(".")
	})
	register(domain.EntityTypeGroup, domain.LogActionMergeGroup, func(b *builder, c tctx) {
		b.plain(c.info.RemovedGroup, kindGroup, true)
		b.text(" has been merged into ")
		b.entity(c.info.RetainedGroup, kindGroup, false)
		b.text(".")
	})
	register(domain.EntityTypeGroup, domain.LogActionAddGroupIntegration, func(b *builder, c tctx) {
		b.entity(c.info.Integration, kindIntegration, true)
		b.text(" has been connected to ")
		b.entity(c.info.Group, kindGroup, false)
		b.text(".")
	})
	register(domain.EntityTypeGroup, domain.LogActionRemoveGroupIntegration, func(b *builder, c tctx) {
		b.entity(c.info.Integration, kindIntegration, true)
		b.text(" has been disconnected from ")
		b.entity(c.info.Group, kindGroup, false)
		b.text(".")
	})

	// DEPARTMENT
	register(domain.EntityTypeDepartment, domain.LogActionAddDepartment, func(b *builder, c tctx) {
		b.entity(c.info.Department, kindDepartment, true)
		b.text(" has been added to ")
		b.entity(c.info.Company, kindCompany, false)
		b.text(".")
	})
	register(domain.EntityTypeDepartment, domain.LogActionUpdateDepartment, func(b *builder, c tctx) {
		b.entity(c.info.Department, kindDepartment, true)
		b.text(" information has been updated.")
	})
	register(domain.EntityTypeDepartment, domain.LogActionDeleteDepartment, removedDepartment)
	register(domain.EntityTypeDepartment, domain.LogActionRemoveDepartment, removedDepartment)

	// ROLE
	register(domain.EntityTypeRole, domain.LogActionAddRole, roleEvent("created"))
	register(domain.EntityTypeRole, domain.LogActionDeleteRole, roleEvent("deleted"))
	register(domain.EntityTypeRole, domain.LogActionRemoveRole, roleEvent("removed"))
	register(domain.EntityTypeRole, domain.LogActionUpdateRole, roleEvent("updated"))

	// INTEGRATION
	register(domain.EntityTypeIntegration, domain.LogActionConnectIntegration, connectedIntegration)
	register(domain.EntityTypeIntegration, domain.LogActionDisconnectIntegration, func(b *builder, c tctx) {
		b.entity(c.info.Integration, kindIntegration, true)
		b.text(" has been disconnected from ")
		b.entity(c.info.Company, kindCompany, false)
		b.text(".")
	})
	register(domain.EntityTypeIntegration, domain.LogActionRequestIntegration, func(b *builder, c tctx) {
		u := actor(c)
		b.person(u, true)
		b.text(" " + verbFor(c.viewer, u, "has", "have") + " requested to support a new integration.")
	})
}

func removedGroup(b *builder, c tctx) {
	b.plain(c.info.Group, kindGroup, true)
	b.text(" has been removed")
	if c.info.Department != nil {
		b.text(" from ")
		b.entity(c.info.Department, kindDepartment, false)
	}
	b.text(".")
}

func removedDepartment(b *builder, c tctx) {
	b.plain(c.info.Department, kindDepartment, true)
	b.text(" has been removed from ")
	b.entity(c.info.Company, kindCompany, false)
	b.text(".")
}

func roleEvent(what string) template {
	return func(b *builder, c tctx) {
		u := subject(c.info.Author, c.info.User)
		b.person(u, true)
		b.text(" " + verbFor(c.viewer, u, "has", "have") + " " + what + " ")
		b.entity(c.info.Role, kindRole, false)
		b.text(" role.")
	}
}

func connectedIntegration(b *builder, c tctx) {
	author := c.info.Author
	if author == nil || c.viewer.Is(author.ID) {
		b.text("You've added ")
		b.entity(c.info.Integration, kindIntegration, false)
		b.text(" to your list of integrations.")
	} else {
		b.person(author, true)
		b.text(" has added ")
		b.entity(c.info.Integration, kindIntegration, false)
		b.text(" to the list of integrations.")
	}

	if c.item == nil {
		return
	}
	switch c.item.Type {
	case domain.ActionItemTypeSuggestIntegrationCategory:
		b.ask("Would you like to also add " + categoryApps(firstCategory(c.info)) + "?")
	case domain.ActionItemTypeSuggestHotIntegration:
		name := "another integration"
		if s := c.info.SuggestedIntegration; s != nil && s.DisplayName() != "" {
			name = s.DisplayName()
		}
		b.ask("Would you like to also add " + name + "?")
	case domain.ActionItemTypeImportIntegrationContacts:
		b.ask("Would you like to import your contacts?")
	}
}

// firstCategory prefers the suggestion's category over the connected integration's.
func firstCategory(info *domain.LogInfo) string {
	for _, r := range []*domain.Ref{info.SuggestedIntegration, info.Integration} {
		if r != nil && len(r.Categories) > 0 {
			return r.Categories[0]
		}
	}
	return ""
}
