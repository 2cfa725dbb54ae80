package activity_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gosuda/actionfeed/internal/activity"
	"github.com/gosuda/actionfeed/internal/domain"
)

var (
	viewerID = uuid.MustParse("aaaaaaaa-0000-0000-0000-000000000001")
	aliceID  = "bbbbbbbb-0000-0000-0000-000000000002"
	bobID    = "cccccccc-0000-0000-0000-000000000003"
	carolID  = "dddddddd-0000-0000-0000-000000000004"
	now      = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
)

func viewer() domain.CurrentUser {
	return domain.CurrentUser{
		ID:          viewerID,
		CompanyID:   uuid.New(),
		Name:        "Vera",
		Permissions: []domain.Permission{},
	}
}

func me() domain.Ref    { return domain.Ref{ID: viewerID.String(), Name: "Vera"} }
func alice() domain.Ref { return domain.Ref{ID: aliceID, Name: "Alice", Status: domain.ItemStatusActive} }
func bob() domain.Ref   { return domain.Ref{ID: bobID, Name: "Bob", Status: domain.ItemStatusActive} }
func carol() domain.Ref { return domain.Ref{ID: carolID, Name: "Carol", Status: domain.ItemStatusActive} }

func ref(r domain.Ref) *domain.Ref { return &r }

var acme = &domain.Ref{ID: "company-1", Name: "Acme"}

func record(entity domain.EntityType, action domain.LogAction, info domain.LogInfo) *domain.LogRecord {
	return &domain.LogRecord{
		ID:         uuid.New(),
		EntityType: entity,
		Action:     action,
		Info:       info,
		CreatedAt:  now.Add(-3 * time.Hour).Unix(),
	}
}

func item(t domain.ActionItemType, rec *domain.LogRecord) *domain.ActionItem {
	return &domain.ActionItem{
		ID:        uuid.New(),
		Type:      t,
		Priority:  domain.PriorityHigh,
		Source:    domain.SourceSystem,
		Log:       *rec,
		CreatedAt: now.Add(-2 * time.Hour).Unix(),
	}
}

func plain(rec *domain.LogRecord, it *domain.ActionItem) string {
	return activity.Classify(activity.Input{Record: rec, Viewer: viewer(), Item: it, Now: now}).Plain()
}

// ---------------------------------------------------------------------------
// Pronouns and verb agreement
// ---------------------------------------------------------------------------

func TestClassify_AddCompanyMembers_Agreement(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		users []domain.Ref
		want  string
	}{
		{name: "one other user", users: []domain.Ref{alice()}, want: "Alice has been added to Acme (Company)."},
		{name: "viewer alone", users: []domain.Ref{me()}, want: "You have been added to Acme (Company)."},
		{name: "two users", users: []domain.Ref{alice(), bob()}, want: "Alice and Bob have been added to Acme (Company)."},
		{name: "three users", users: []domain.Ref{alice(), bob(), carol()}, want: "Alice, Bob and Carol have been added to Acme (Company)."},
		{name: "viewer listed second", users: []domain.Ref{alice(), me()}, want: "Alice and you have been added to Acme (Company)."},
		{name: "no users", users: nil, want: "Someone has been added to Acme (Company)."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := record(domain.EntityTypeCompanyMember, domain.LogActionAddCompanyMembers, domain.LogInfo{
				Users:   tt.users,
				Company: acme,
			})
			assert.Equal(t, tt.want, plain(rec, nil))
		})
	}
}

func TestClassify_SessionEvents(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		action domain.LogAction
		user   domain.Ref
		want   string
	}{
		{name: "sign in self", action: domain.LogActionSignIn, user: me(), want: "You have logged in to the application."},
		{name: "sign in other", action: domain.LogActionSignIn, user: alice(), want: "Alice has logged in to the application."},
		{name: "sign out", action: domain.LogActionSignOut, user: alice(), want: "Alice has logged out from the application."},
		{name: "sign up", action: domain.LogActionSignUp, user: bob(), want: "Bob has registered on the application."},
		{name: "password reset self", action: domain.LogActionRequestPasswordReset, user: me(), want: "You have requested to change your password."},
		{name: "password reset other", action: domain.LogActionRequestPasswordReset, user: alice(), want: "Alice has requested to change their password."},
		{name: "password changed", action: domain.LogActionPasswordChanged, user: alice(), want: "Alice has changed their password."},
		{name: "activate account", action: domain.LogActionActivateAccount, user: me(), want: "You have activated your account."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := record(domain.EntityTypeAuth, tt.action, domain.LogInfo{User: ref(tt.user)})
			assert.Equal(t, tt.want, plain(rec, nil))
		})
	}
}

func TestClassify_UpdateUser(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		author *domain.Ref
		user   *domain.Ref
		want   string
	}{
		{name: "viewer edits self", author: ref(me()), user: ref(me()), want: "You updated your information."},
		{name: "other edits self", author: ref(alice()), user: ref(alice()), want: "Alice updated their information."},
		{name: "other edits viewer", author: ref(alice()), user: ref(me()), want: "Your information was updated."},
		{name: "viewer edits other", author: ref(me()), user: ref(bob()), want: "Bob's information was updated."},
		{name: "nothing known", want: "A user's information was updated."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := record(domain.EntityTypeUser, domain.LogActionUpdateUser, domain.LogInfo{Author: tt.author, User: tt.user})
			assert.Equal(t, tt.want, plain(rec, nil))
		})
	}
}

// ---------------------------------------------------------------------------
// Links and status sensitivity
// ---------------------------------------------------------------------------

func TestClassify_RichLinks(t *testing.T) {
	t.Parallel()

	dept := &domain.Ref{ID: "dept-1", Name: "Engineering", Status: domain.ItemStatusActive}

	tests := []struct {
		name  string
		group *domain.Ref
		want  string
	}{
		{
			name:  "active group links",
			group: &domain.Ref{ID: "group-1", Name: "Platform", Status: domain.ItemStatusActive},
			want:  "[Platform](/groups/group-1) (Group) has been added to [Engineering](/departments/dept-1) (Department).",
		},
		{
			name:  "inactive group is plain",
			group: &domain.Ref{ID: "group-1", Name: "Platform", Status: domain.ItemStatusInactive},
			want:  "Platform (Group) has been added to [Engineering](/departments/dept-1) (Department).",
		},
		{
			name:  "deleted group is plain",
			group: &domain.Ref{ID: "group-1", Name: "Platform", Status: domain.ItemStatusDeleted},
			want:  "Platform (Group) has been added to [Engineering](/departments/dept-1) (Department).",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := record(domain.EntityTypeGroup, domain.LogActionAddGroup, domain.LogInfo{Group: tt.group, Department: dept})
			d := activity.Classify(activity.Input{Record: rec, Viewer: viewer(), Now: now})
			assert.Equal(t, tt.want, d.Rich())
		})
	}
}

func TestClassify_RemovedGroupNeverLinks(t *testing.T) {
	t.Parallel()

	rec := record(domain.EntityTypeGroup, domain.LogActionDeleteGroup, domain.LogInfo{
		Group:      &domain.Ref{ID: "group-1", Name: "Platform", Status: domain.ItemStatusActive},
		Department: &domain.Ref{ID: "dept-1", Name: "Engineering"},
	})
	d := activity.Classify(activity.Input{Record: rec, Viewer: viewer(), Now: now})

	assert.Equal(t, "Platform (Group) has been removed from [Engineering](/departments/dept-1) (Department).", d.Rich())
}

func TestClassify_ViewerIsNeverLinked(t *testing.T) {
	t.Parallel()

	rec := record(domain.EntityTypeCompanyMember, domain.LogActionAddCompanyMembers, domain.LogInfo{
		Users:   []domain.Ref{me(), alice()},
		Company: acme,
	})
	d := activity.Classify(activity.Input{Record: rec, Viewer: viewer(), Now: now})

	assert.Equal(t, "You and [Alice](/users/"+aliceID+") have been added to [Acme](/companies/company-1) (Company).", d.Rich())
}

// ---------------------------------------------------------------------------
// Action item prompts
// ---------------------------------------------------------------------------

func TestClassify_Prompts(t *testing.T) {
	t.Parallel()

	t.Run("add company member asks to group", func(t *testing.T) {
		t.Parallel()

		rec := record(domain.EntityTypeCompanyMember, domain.LogActionAddCompanyMembers, domain.LogInfo{Users: []domain.Ref{alice()}, Company: acme})
		d := activity.Classify(activity.Input{Record: rec, Viewer: viewer(), Item: item(domain.ActionItemTypeAddRemoveUser, rec), Now: now})

		assert.Equal(t, "Would you like to add this user to a group?", d.Prompt)
		assert.Equal(t, "Alice has been added to Acme (Company). Would you like to add this user to a group?", d.Plain())
	})

	t.Run("plain log has no prompt", func(t *testing.T) {
		t.Parallel()

		rec := record(domain.EntityTypeCompanyMember, domain.LogActionAddCompanyMembers, domain.LogInfo{Users: []domain.Ref{alice()}, Company: acme})
		d := activity.Classify(activity.Input{Record: rec, Viewer: viewer(), Now: now})

		assert.Empty(t, d.Prompt)
	})

	t.Run("removed member asks to restore", func(t *testing.T) {
		t.Parallel()

		u := bob()
		u.Temp = &domain.Ref{Name: "Robert", Status: domain.ItemStatusDeleted}
		rec := record(domain.EntityTypeCompanyMember, domain.LogActionRemoveCompanyMembers, domain.LogInfo{Users: []domain.Ref{u}, Company: acme})

		got := plain(rec, item(domain.ActionItemTypeRemoveUserToCompany, rec))
		assert.Equal(t, "Robert has been removed from Acme (Company). Would you like to restore this user?", got)
	})

	t.Run("removed member without snapshot asks to restore", func(t *testing.T) {
		t.Parallel()

		rec := record(domain.EntityTypeCompanyMember, domain.LogActionPermanentlyRemoveCompanyMembers, domain.LogInfo{Users: []domain.Ref{bob()}, Company: acme})

		d := activity.Classify(activity.Input{Record: rec, Viewer: viewer(), Item: item(domain.ActionItemTypeRemoveUserToCompany, rec), Now: now})
		assert.Equal(t, "Would you like to restore this user?", d.Prompt)
	})

	t.Run("restored member has no prompt", func(t *testing.T) {
		t.Parallel()

		u := bob()
		u.Temp = &domain.Ref{Name: "Robert", Status: domain.ItemStatusActive}
		rec := record(domain.EntityTypeCompanyMember, domain.LogActionRemoveCompanyMembers, domain.LogInfo{Users: []domain.Ref{u}, Company: acme})

		got := plain(rec, item(domain.ActionItemTypeRemoveUserToCompany, rec))
		assert.Equal(t, "Robert has been removed from Acme (Company).", got)
	})

	t.Run("users without a group", func(t *testing.T) {
		t.Parallel()

		rec := record(domain.EntityTypeGroupMember, domain.LogActionRemoveIndividualMembers, domain.LogInfo{Users: []domain.Ref{alice(), bob()}})

		got := plain(rec, item(domain.ActionItemTypeAddUsersToGroup, rec))
		assert.Equal(t, "Alice and Bob don't belong to any group. Would you like to add this user to a group?", got)
	})

	t.Run("group members to other groups", func(t *testing.T) {
		t.Parallel()

		group := &domain.Ref{ID: "group-1", Name: "Platform", Status: domain.ItemStatusActive}
		rec := record(domain.EntityTypeGroupMember, domain.LogActionAddGroupMembers, domain.LogInfo{Users: []domain.Ref{alice(), bob()}, Group: group})

		got := plain(rec, item(domain.ActionItemTypeAddUsersToGroup, rec))
		assert.Equal(t, "Alice and Bob have been added to Platform (Group). Would you like to add these users to other groups?", got)
	})

	t.Run("groups added to a group", func(t *testing.T) {
		t.Parallel()

		group := &domain.Ref{ID: "group-1", Name: "Platform", Status: domain.ItemStatusActive}
		infra := domain.Ref{ID: "group-2", Name: "Infra", Status: domain.ItemStatusActive}
		web := domain.Ref{ID: "group-3", Name: "Web", Status: domain.ItemStatusActive}

		one := record(domain.EntityTypeGroupMember, domain.LogActionAddGroupMembers, domain.LogInfo{Groups: []domain.Ref{infra}, Group: group})
		assert.Equal(t, "Infra (Group) has been added to Platform (Group). Would you like to add this group to other groups?",
			plain(one, item(domain.ActionItemTypeAddUsersToGroup, one)))

		two := record(domain.EntityTypeGroupMember, domain.LogActionAddGroupMembers, domain.LogInfo{Groups: []domain.Ref{infra, web}, Group: group})
		assert.Equal(t, "Infra (Group) and Web (Group) have been added to Platform (Group). Would you like to add these groups to other groups?",
			plain(two, item(domain.ActionItemTypeAddUsersToGroup, two)))
	})

	t.Run("inactive group gets no prompt", func(t *testing.T) {
		t.Parallel()

		group := &domain.Ref{ID: "group-1", Name: "Platform", Status: domain.ItemStatusInactive}
		rec := record(domain.EntityTypeGroupMember, domain.LogActionAddGroupMembers, domain.LogInfo{Users: []domain.Ref{alice()}, Group: group})

		d := activity.Classify(activity.Input{Record: rec, Viewer: viewer(), Item: item(domain.ActionItemTypeAddUsersToGroup, rec), Now: now})
		assert.Empty(t, d.Prompt)
	})

	t.Run("integration category suggestion", func(t *testing.T) {
		t.Parallel()

		integ := &domain.Ref{ID: "slack", Name: "Slack", Categories: []string{"Messaging App"}}
		rec := record(domain.EntityTypeIntegration, domain.LogActionConnectIntegration, domain.LogInfo{Integration: integ})

		got := plain(rec, item(domain.ActionItemTypeSuggestIntegrationCategory, rec))
		assert.Equal(t, "You've added Slack to your list of integrations. Would you like to also add messaging apps?", got)
	})

	t.Run("hot integration suggestion", func(t *testing.T) {
		t.Parallel()

		rec := record(domain.EntityTypeIntegration, domain.LogActionConnectIntegration, domain.LogInfo{
			Integration:          &domain.Ref{ID: "slack", Name: "Slack"},
			SuggestedIntegration: &domain.Ref{ID: "zoom", Name: "Zoom"},
		})

		got := plain(rec, item(domain.ActionItemTypeSuggestHotIntegration, rec))
		assert.Equal(t, "You've added Slack to your list of integrations. Would you like to also add Zoom?", got)
	})

	t.Run("import contacts", func(t *testing.T) {
		t.Parallel()

		rec := record(domain.EntityTypeIntegration, domain.LogActionConnectIntegration, domain.LogInfo{Integration: &domain.Ref{ID: "g", Name: "Google"}})

		d := activity.Classify(activity.Input{Record: rec, Viewer: viewer(), Item: item(domain.ActionItemTypeImportIntegrationContacts, rec), Now: now})
		assert.Equal(t, "Would you like to import your contacts?", d.Prompt)
	})

	t.Run("onboarding items", func(t *testing.T) {
		t.Parallel()

		rec := record(domain.EntityTypeLog, "", domain.LogInfo{})

		assert.Equal(t, "There are no departments yet. Would you like to create your first?",
			plain(rec, item(domain.ActionItemTypeCreateDepartment, rec)))
		assert.Equal(t, "There are no users yet. Would you like to create your first?",
			plain(rec, item(domain.ActionItemTypeCreateUser, rec)))
	})

	t.Run("invite reminder", func(t *testing.T) {
		t.Parallel()

		rec := record(domain.EntityTypeCompanyMember, domain.LogActionInviteRemoveCompanyMember, domain.LogInfo{User: ref(alice())})
		it := item(domain.ActionItemTypeInviteRemoveCompanyMember, rec)
		it.Extras = &domain.ActionItemExtras{CreatedAt: now.Add(-4 * 24 * time.Hour).Unix()}

		assert.Equal(t, "Alice hasn't responded to your invite sent 4 days ago.", plain(rec, it))
	})
}

// ---------------------------------------------------------------------------
// Other templates
// ---------------------------------------------------------------------------

func TestClassify_Templates(t *testing.T) {
	t.Parallel()

	platform := &domain.Ref{ID: "g1", Name: "Platform", Status: domain.ItemStatusActive}
	infra := &domain.Ref{ID: "g2", Name: "Infra", Status: domain.ItemStatusActive}
	eng := &domain.Ref{ID: "d1", Name: "Engineering", Status: domain.ItemStatusActive}
	slack := &domain.Ref{ID: "i1", Name: "Slack"}

	tests := []struct {
		name   string
		entity domain.EntityType
		action domain.LogAction
		info   domain.LogInfo
		want   string
	}{
		{"establish company", domain.EntityTypeAuth, domain.LogActionEstablishCompany, domain.LogInfo{Author: ref(alice()), Company: acme}, "Alice has created the Acme (Company)."},
		{"update company", domain.EntityTypeCompany, domain.LogActionUpdateCompany, domain.LogInfo{Company: acme}, "Acme (Company) information has been updated."},
		{"merge group", domain.EntityTypeGroup, domain.LogActionMergeGroup, domain.LogInfo{RemovedGroup: infra, RetainedGroup: platform}, "Infra (Group) has been merged into Platform (Group)."},
		{"clone group", domain.EntityTypeGroup, domain.LogActionCloneGroup, domain.LogInfo{Group: infra, Origin: platform}, "Infra (Group) has been cloned from Platform (Group)."},
		{"branch group", domain.EntityTypeGroupMember, domain.LogActionBranchGroup, domain.LogInfo{Group: infra, Origin: platform}, "Infra (Group) has been branched from Platform (Group)."},
		{"move members", domain.EntityTypeGroupMember, domain.LogActionMoveGroupMembers, domain.LogInfo{Members: []domain.Ref{alice()}, SourceGroup: infra, DestinationGroup: platform}, "Alice has been moved from Infra (Group) to Platform (Group)."},
		{"delete members", domain.EntityTypeGroupMember, domain.LogActionDeleteGroupMembers, domain.LogInfo{Members: []domain.Ref{alice(), bob()}, Group: platform}, "Alice and Bob have been deleted from Platform (Group)."},
		{"group integration", domain.EntityTypeGroup, domain.LogActionAddGroupIntegration, domain.LogInfo{Integration: slack, Group: platform}, "Slack has been connected to Platform (Group)."},
		{"disconnect integration", domain.EntityTypeIntegration, domain.LogActionDisconnectIntegration, domain.LogInfo{Integration: slack, Company: acme}, "Slack has been disconnected from Acme (Company)."},
		{"request integration", domain.EntityTypeIntegration, domain.LogActionRequestIntegration, domain.LogInfo{User: ref(me())}, "You have requested to support a new integration."},
		{"integration access", domain.EntityTypeCompanyMember, domain.LogActionRemoveCompanyMembersIntegrationAccess, domain.LogInfo{Integration: slack, Users: []domain.Ref{alice()}}, "Slack access for Alice has been removed."},
		{"add role", domain.EntityTypeRole, domain.LogActionAddRole, domain.LogInfo{Author: ref(alice()), Role: &domain.Ref{Name: "Auditor"}}, "Alice has created Auditor role."},
		{"remove role unnamed", domain.EntityTypeRole, domain.LogActionRemoveRole, domain.LogInfo{Author: ref(me())}, "You have removed a role."},
		{"add department", domain.EntityTypeDepartment, domain.LogActionAddDepartment, domain.LogInfo{Department: eng, Company: acme}, "Engineering (Department) has been added to Acme (Company)."},
		{"remove department", domain.EntityTypeDepartment, domain.LogActionRemoveDepartment, domain.LogInfo{Department: eng, Company: acme}, "Engineering (Department) has been removed from Acme (Company)."},
		{"clone user groups", domain.EntityTypeUser, domain.LogActionCloneUserGroups, domain.LogInfo{User: ref(alice()), Groups: []domain.Ref{*platform, *infra}}, "Alice has been added to Platform (Group) and Infra (Group)."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, plain(record(tt.entity, tt.action, tt.info), nil))
		})
	}
}

func TestClassify_UnknownPairIsEmpty(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		entity domain.EntityType
		action domain.LogAction
	}{
		{name: "unknown action", entity: domain.EntityTypeGroup, action: "EXPLODE_GROUP"},
		{name: "mismatched entity", entity: domain.EntityTypeRole, action: domain.LogActionSignIn},
		{name: "empty", entity: "", action: ""},
		{name: "entity without templates", entity: domain.EntityTypeSubscription, action: domain.LogActionAddCompany},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := record(tt.entity, tt.action, domain.LogInfo{Users: []domain.Ref{alice()}})
			require.NotPanics(t, func() {
				d := activity.Classify(activity.Input{Record: rec, Viewer: viewer(), Now: now})
				assert.True(t, d.Empty())
				assert.Empty(t, d.Plain())
				assert.Equal(t, activity.Entry{}, activity.Describe(activity.Input{Record: rec, Viewer: viewer(), Now: now}))
			})
		})
	}
}

func TestClassify_NilRecord(t *testing.T) {
	t.Parallel()

	d := activity.Classify(activity.Input{Viewer: viewer(), Now: now})
	assert.True(t, d.Empty())
}

func TestClassify_Idempotent(t *testing.T) {
	t.Parallel()

	rec := record(domain.EntityTypeGroupMember, domain.LogActionAddGroupMembers, domain.LogInfo{
		Users: []domain.Ref{alice(), me()},
		Group: &domain.Ref{ID: "g", Name: "Platform", Status: domain.ItemStatusActive},
	})
	in := activity.Input{Record: rec, Viewer: viewer(), Item: item(domain.ActionItemTypeAddUsersToGroup, rec), Now: now}

	first := activity.Describe(in)
	second := activity.Describe(in)
	assert.Equal(t, first, second)
}

// ---------------------------------------------------------------------------
// Describe: relative time and attribution
// ---------------------------------------------------------------------------

func TestDescribe_Attribution(t *testing.T) {
	t.Parallel()

	t.Run("author linked", func(t *testing.T) {
		t.Parallel()

		rec := record(domain.EntityTypeCompany, domain.LogActionUpdateCompany, domain.LogInfo{Company: acme, Author: ref(bob())})
		e := activity.Describe(activity.Input{Record: rec, Viewer: viewer(), Now: now})

		assert.Equal(t, "3 hours ago", e.When)
		assert.Equal(t, []activity.Segment{{Text: ", by "}, {Text: "Bob", Href: "/users/" + bobID}}, e.By)
		assert.Equal(t, "Acme (Company) information has been updated. · 3 hours ago, by Bob", e.Plain())
	})

	t.Run("removed author", func(t *testing.T) {
		t.Parallel()

		author := bob()
		author.Status = domain.ItemStatusPermanentlyDeleted
		rec := record(domain.EntityTypeCompany, domain.LogActionUpdateCompany, domain.LogInfo{Company: acme, Author: &author})
		e := activity.Describe(activity.Input{Record: rec, Viewer: viewer(), Now: now})

		assert.Equal(t, []activity.Segment{{Text: ", by Bob (Removed)"}}, e.By)
	})

	for _, status := range []domain.ItemStatus{domain.ItemStatusInactive, domain.ItemStatusDeleted} {
		t.Run(string(status)+" author unlinked", func(t *testing.T) {
			t.Parallel()

			author := bob()
			author.Status = status
			rec := record(domain.EntityTypeGroup, domain.LogActionUpdateGroup, domain.LogInfo{Group: &domain.Ref{ID: "group-1", Name: "Platform"}, Author: &author})
			e := activity.Describe(activity.Input{Record: rec, Viewer: viewer(), Now: now})

			require.Len(t, e.By, 1)
			assert.Equal(t, ", by Bob", e.By[0].Text)
			assert.Empty(t, e.By[0].Href)
		})
	}

	t.Run("self session event", func(t *testing.T) {
		t.Parallel()

		rec := record(domain.EntityTypeAuth, domain.LogActionSignIn, domain.LogInfo{Author: ref(me()), User: ref(me())})
		e := activity.Describe(activity.Input{Record: rec, Viewer: viewer(), Now: now})

		assert.Empty(t, e.By)
	})

	t.Run("session event of another user", func(t *testing.T) {
		t.Parallel()

		rec := record(domain.EntityTypeAuth, domain.LogActionSignIn, domain.LogInfo{Author: ref(alice()), User: ref(alice())})
		e := activity.Describe(activity.Input{Record: rec, Viewer: viewer(), Now: now})

		assert.NotEmpty(t, e.By)
	})

	t.Run("action items carry no author", func(t *testing.T) {
		t.Parallel()

		rec := record(domain.EntityTypeCompanyMember, domain.LogActionAddCompanyMembers, domain.LogInfo{Users: []domain.Ref{alice()}, Company: acme, Author: ref(bob())})
		e := activity.Describe(activity.Input{Record: rec, Viewer: viewer(), Item: item(domain.ActionItemTypeAddRemoveUser, rec), Now: now})

		assert.Empty(t, e.By)
		assert.Equal(t, "2 hours ago", e.When, "items are timed by their own creation")
	})

	t.Run("author without name", func(t *testing.T) {
		t.Parallel()

		rec := record(domain.EntityTypeCompany, domain.LogActionUpdateCompany, domain.LogInfo{Company: acme, Author: &domain.Ref{ID: bobID}})
		e := activity.Describe(activity.Input{Record: rec, Viewer: viewer(), Now: now})

		assert.Empty(t, e.By)
	})
}

func TestRelative(t *testing.T) {
	t.Parallel()

	tests := []struct {
		ago  time.Duration
		want string
	}{
		{0, "a few seconds ago"},
		{-time.Hour, "a few seconds ago"},
		{44 * time.Second, "a few seconds ago"},
		{60 * time.Second, "a minute ago"},
		{5 * time.Minute, "5 minutes ago"},
		{60 * time.Minute, "an hour ago"},
		{3 * time.Hour, "3 hours ago"},
		{30 * time.Hour, "a day ago"},
		{5 * 24 * time.Hour, "5 days ago"},
		{30 * 24 * time.Hour, "a month ago"},
		{92 * 24 * time.Hour, "3 months ago"},
		{400 * 24 * time.Hour, "a year ago"},
		{3 * 365 * 24 * time.Hour, "3 years ago"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, activity.Relative(now.Add(-tt.ago), now))
		})
	}
}
