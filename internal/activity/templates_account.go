package activity

import (
	"github.com/gosuda/actionfeed/internal/domain"
)

func init() {
	// AUTH
	register(domain.EntityTypeAuth, domain.LogActionSignUp, sessionEvent("registered on the application."))
	register(domain.EntityTypeAuth, domain.LogActionSignOut, sessionEvent("logged out from the application."))
	register(domain.EntityTypeAuth, domain.LogActionSignIn, sessionEvent("logged in to the application."))
	register(domain.EntityTypeAuth, domain.LogActionEstablishCompany, createdCompany)
	register(domain.EntityTypeAuth, domain.LogActionRequestPasswordReset, ownEvent("requested to change", "password."))
	register(domain.EntityTypeAuth, domain.LogActionPasswordChanged, ownEvent("changed", "password."))
	register(domain.EntityTypeAuth, domain.LogActionActivateAccount, ownEvent("activated", "account."))

	// COMPANY
	register(domain.EntityTypeCompany, domain.LogActionAddCompany, createdCompany)
	register(domain.EntityTypeCompany, domain.LogActionUpdateCompany, func(b *builder, c tctx) {
		b.entity(c.info.Company, kindCompany, true)
		b.text(" information has been updated.")
	})

	// USER
	register(domain.EntityTypeUser, domain.LogActionUpdateUser, updatedUser)
	register(domain.EntityTypeUser, domain.LogActionCloneUserGroups, func(b *builder, c tctx) {
		u := subject(c.info.User)
		b.person(u, true)
		b.text(" " + verbFor(c.viewer, u, "has", "have") + " been added to ")
		b.groups(c.info.Groups, false)
		b.text(".")
	})
}

// actor is the user an account event is about, falling back to its author.
func actor(c tctx) *domain.Ref {
	return subject(c.info.User, c.info.Author)
}

func sessionEvent(rest string) template {
	return func(b *builder, c tctx) {
		u := actor(c)
		b.person(u, true)
		b.text(" " + verbFor(c.viewer, u, "has", "have") + " " + rest)
	}
}

// ownEvent renders "X has <verb> their <noun>" with "your" for the viewer.
func ownEvent(action, noun string) template {
	return func(b *builder, c tctx) {
		u := actor(c)
		b.person(u, true)
		b.text(" " + verbFor(c.viewer, u, "has", "have") + " " + action + " " + possessive(c.viewer, u) + " " + noun)
	}
}

func createdCompany(b *builder, c tctx) {
	u := subject(c.info.Author, c.info.User)
	b.person(u, true)
	b.text(" " + verbFor(c.viewer, u, "has", "have") + " created the ")
	b.entity(c.info.Company, kindCompany, false)
	b.text(".")
}

// updatedUser distinguishes who edited whose profile.
func updatedUser(b *builder, c tctx) {
	author, user := c.info.Author, c.info.User
	if user == nil {
		user = author
	}
	selfEdit := author != nil && user != nil && author.ID == user.ID

	switch {
	case selfEdit && c.viewer.Is(user.ID):
		b.text("You updated your information.")
	case selfEdit:
		b.entity(user, kindUser, true)
		b.text(" updated their information.")
	case user != nil && c.viewer.Is(user.ID):
		b.text("Your information was updated.")
	case user != nil && user.DisplayName() != "":
		b.entity(user, kindUser, true)
		b.text("'s information was updated.")
	default:
		b.text("A user's information was updated.")
	}
}
