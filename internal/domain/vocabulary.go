package domain

import "strings"

// EntityType is the first-level classification of a log record.
type EntityType string

const (
	EntityTypeAuth             EntityType = "AUTH"
	EntityTypeUser             EntityType = "USER"
	EntityTypeCompany          EntityType = "COMPANY"
	EntityTypeCompanyMember    EntityType = "COMPANYMEMBER"
	EntityTypeDepartment       EntityType = "DEPARTMENT"
	EntityTypeDepartmentMember EntityType = "DEPARTMENTMEMBER"
	EntityTypeGroup            EntityType = "GROUP"
	EntityTypeGroupMember      EntityType = "GROUPMEMBER"
	EntityTypeSubscription     EntityType = "SUBSCRIPTION"
	EntityTypeLog              EntityType = "LOG"
	EntityTypeIntegration      EntityType = "INTEGRATION"
	EntityTypeRole             EntityType = "ROLE"
)

// LogAction is the second-level classification of a log record.
type LogAction string

const (
	// auth
	LogActionSignUp               LogAction = "SIGN_UP"
	LogActionEstablishCompany     LogAction = "ESTABLISH_COMPANY"
	LogActionSignOut              LogAction = "SIGN_OUT"
	LogActionSignIn               LogAction = "SIGN_IN"
	LogActionRequestPasswordReset LogAction = "REQUEST_PASSWORD_RESET"
	LogActionPasswordChanged      LogAction = "PASSWORD_CHANGED"
	LogActionActivateAccount      LogAction = "ACTIVATE_ACCOUNT"

	// company
	LogActionAddCompany    LogAction = "ADD_COMPANY"
	LogActionUpdateCompany LogAction = "UPDATE_COMPANY"

	// company members
	LogActionAddCompanyMembers                     LogAction = "ADD_COMPANY_MEMBERS"
	LogActionRemoveCompanyMembers                  LogAction = "REMOVE_COMPANY_MEMBERS"
	LogActionRestoreCompanyMembers                 LogAction = "RESTORE_COMPANY_MEMBERS"
	LogActionPermanentlyRemoveCompanyMembers       LogAction = "PERMANENTLY_REMOVE_COMPANY_MEMBERS"
	LogActionInviteRemoveCompanyMember             LogAction = "INVITE_REMOVE_COMPANY_MEMBER"
	LogActionRemoveCompanyMembersIntegrationAccess LogAction = "REMOVE_COMPANY_MEMBERS_INTEGRATION_ACCESS"

	// groups
	LogActionAddGroup               LogAction = "ADD_GROUP"
	LogActionUpdateGroup            LogAction = "UPDATE_GROUP"
	LogActionDeleteGroup            LogAction = "DELETE_GROUP"
	LogActionRemoveGroup            LogAction = "REMOVE_GROUP"
	LogActionCloneGroup             LogAction = "CLONE_GROUP"
	LogActionMergeGroup             LogAction = "MERGE_GROUP"
	LogActionBranchGroup            LogAction = "BRANCH_GROUP"
	LogActionAddGroupIntegration    LogAction = "ADD_GROUP_INTEGRATION"
	LogActionRemoveGroupIntegration LogAction = "REMOVE_GROUP_INTEGRATION"

	// group members
	LogActionAddGroupMembers         LogAction = "ADD_GROUP_MEMBERS"
	LogActionRemoveGroupMembers      LogAction = "REMOVE_GROUP_MEMBERS"
	LogActionDeleteGroupMembers      LogAction = "DELETE_GROUP_MEMBERS"
	LogActionRemoveIndividualMembers LogAction = "REMOVE_INDIVIDUAL_MEMBERS"
	LogActionMoveGroupMembers        LogAction = "MOVE_GROUP_MEMBERS"

	// users
	LogActionUpdateUser      LogAction = "UPDATE_USER"
	LogActionCloneUserGroups LogAction = "CLONE_USER_GROUPS"

	// integrations
	LogActionConnectIntegration    LogAction = "CONNECT_INTEGRATION"
	LogActionDisconnectIntegration LogAction = "DISCONNECT_INTEGRATION"
	LogActionRequestIntegration    LogAction = "REQUEST_INTEGRATION"

	// roles
	LogActionAddRole    LogAction = "ADD_ROLE"
	LogActionDeleteRole LogAction = "DELETE_ROLE"
	LogActionRemoveRole LogAction = "REMOVE_ROLE"
	LogActionUpdateRole LogAction = "UPDATE_ROLE"

	// departments
	LogActionAddDepartment    LogAction = "ADD_DEPARTMENT"
	LogActionUpdateDepartment LogAction = "UPDATE_DEPARTMENT"
	LogActionDeleteDepartment LogAction = "DELETE_DEPARTMENT"
	LogActionRemoveDepartment LogAction = "REMOVE_DEPARTMENT"
)

// ItemStatus is the lifecycle status shared by users, groups, departments and items.
type ItemStatus string

const (
	ItemStatusActive             ItemStatus = "ACTIVE"
	ItemStatusDeleted            ItemStatus = "DELETED"
	ItemStatusInactive           ItemStatus = "INACTIVE"
	ItemStatusRevoked            ItemStatus = "REVOKED"
	ItemStatusPending            ItemStatus = "PENDING"
	ItemStatusExpired            ItemStatus = "EXPIRED"
	ItemStatusCancel             ItemStatus = "CANCEL"
	ItemStatusPermanentlyDeleted ItemStatus = "PERMANENTLY_DELETED"
	ItemStatusDefault            ItemStatus = "DEFAULT"
	ItemStatusCanceled           ItemStatus = "CANCELED"
	ItemStatusNotInvited         ItemStatus = "NOT_INVITED"
	ItemStatusDone               ItemStatus = "DONE"
	ItemStatusScheduled          ItemStatus = "SCHEDULED"
)

// Addressable reports whether an entity with this status still has a detail page.
func (s ItemStatus) Addressable() bool {
	switch s {
	case ItemStatusInactive, ItemStatusDeleted, ItemStatusPermanentlyDeleted:
		return false
	default:
		return true
	}
}

// Restored reports whether a removed user has already been brought back (or never left).
// An empty status counts as restored.
func (s ItemStatus) Restored() bool {
	switch s {
	case "", ItemStatusPending, ItemStatusActive, ItemStatusDefault:
		return true
	default:
		return false
	}
}

// Permission is a flat permission code carried by the current user.
type Permission string

const (
	PermissionAddCompanyMember      Permission = "ADD_COMPANY_MEMBER"
	PermissionEditCompanyMember     Permission = "EDIT_COMPANY_MEMBER"
	PermissionRemoveCompanyMember   Permission = "REMOVE_COMPANY_MEMBER"
	PermissionAddGroupMember        Permission = "ADD_GROUP_MEMBER"
	PermissionRemoveGroupMember     Permission = "REMOVE_GROUP_MEMBER"
	PermissionConnectIntegration    Permission = "CONNECT_INTEGRATION"
	PermissionDisconnectIntegration Permission = "DISCONNECT_INTEGRATION"
	PermissionAddGroup              Permission = "ADD_GROUP"
	PermissionEditGroup             Permission = "EDIT_GROUP"
	PermissionRemoveGroup           Permission = "REMOVE_GROUP"
	PermissionCloneGroup            Permission = "CLONE_GROUP"
	PermissionMergeGroup            Permission = "MERGE_GROUP"
	PermissionBranchGroup           Permission = "BRANCH_GROUP"
	PermissionAddRole               Permission = "ADD_ROLE"
	PermissionEditRole              Permission = "EDIT_ROLE"
	PermissionRemoveRole            Permission = "REMOVE_ROLE"
	PermissionAssignRole            Permission = "ASSIGN_ROLE"
	PermissionUnassignRole          Permission = "UNASSIGN_ROLE"
	PermissionAddDepartment         Permission = "ADD_DEPARTMENT"
	PermissionEditDepartment        Permission = "EDIT_DEPARTMENT"
	PermissionRemoveDepartment      Permission = "REMOVE_DEPARTMENT"
	PermissionManageBilling         Permission = "MANAGE_BILLING"
	PermissionEditCompany           Permission = "EDIT_COMPANY"
)

// AllPermissions lists every permission code, in a stable order.
func AllPermissions() []Permission {
	return []Permission{
		PermissionAddCompanyMember, PermissionEditCompanyMember, PermissionRemoveCompanyMember,
		PermissionAddGroupMember, PermissionRemoveGroupMember,
		PermissionConnectIntegration, PermissionDisconnectIntegration,
		PermissionAddGroup, PermissionEditGroup, PermissionRemoveGroup,
		PermissionCloneGroup, PermissionMergeGroup, PermissionBranchGroup,
		PermissionAddRole, PermissionEditRole, PermissionRemoveRole,
		PermissionAssignRole, PermissionUnassignRole,
		PermissionAddDepartment, PermissionEditDepartment, PermissionRemoveDepartment,
		PermissionManageBilling, PermissionEditCompany,
	}
}

// ActionItemType is the classification tag of an action item.
type ActionItemType string

const (
	ActionItemTypeCreateDepartment           ActionItemType = "CREATE_DEPARTMENT"
	ActionItemTypeCreateUser                 ActionItemType = "CREATE_USER"
	ActionItemTypeAddUsersToGroup            ActionItemType = "ADD_USERS_TO_GROUP"
	ActionItemTypeAddRemoveUser              ActionItemType = "ADD_REMOVE_USER"
	ActionItemTypeSuggestIntegrationCategory ActionItemType = "SUGGEST_INTEGRATION_CATEGORY"
	ActionItemTypeSuggestHotIntegration      ActionItemType = "SUGGEST_HOT_INTEGRATION"
	ActionItemTypeImportIntegrationContacts  ActionItemType = "IMPORT_INTEGRATION_CONTACTS"
	ActionItemTypeNewIntegration             ActionItemType = "NEW_INTEGRATION"
	ActionItemTypeRemoveUserToCompany        ActionItemType = "REMOVE_USER_TO_COMPANY"
	ActionItemTypeInviteRemoveCompanyMember  ActionItemType = "INVITE_REMOVE_COMPANY_MEMBER"
)

// Valid reports whether t is part of the fixed vocabulary.
func (t ActionItemType) Valid() bool {
	switch t {
	case ActionItemTypeCreateDepartment, ActionItemTypeCreateUser, ActionItemTypeAddUsersToGroup,
		ActionItemTypeAddRemoveUser, ActionItemTypeSuggestIntegrationCategory,
		ActionItemTypeSuggestHotIntegration, ActionItemTypeImportIntegrationContacts,
		ActionItemTypeNewIntegration, ActionItemTypeRemoveUserToCompany,
		ActionItemTypeInviteRemoveCompanyMember:
		return true
	default:
		return false
	}
}

// Priority ranks an action item.
type Priority string

const (
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityLow    Priority = "LOW"
)

// Valid reports whether p is one of HIGH, MEDIUM or LOW.
func (p Priority) Valid() bool {
	return p == PriorityHigh || p == PriorityMedium || p == PriorityLow
}

// Source tells who raised an action item.
type Source string

const (
	SourceSystem      Source = "SYSTEM"
	SourceIntegration Source = "INTEGRATION"
)

// Label returns the human-readable source name.
func (s Source) Label() string {
	switch s.Normalize() {
	case SourceSystem:
		return "System"
	case SourceIntegration:
		return "Integration"
	default:
		return string(s)
	}
}

// Normalize upper-cases the source so "system" and "SYSTEM" compare equal.
func (s Source) Normalize() Source {
	return Source(strings.ToUpper(strings.TrimSpace(string(s))))
}

// SortOrder is the direction action items are listed in, by creation time.
type SortOrder string

const (
	SortDesc SortOrder = "desc"
	SortAsc  SortOrder = "asc"
)

// Normalize maps anything other than "asc" to descending order.
func (o SortOrder) Normalize() SortOrder {
	if strings.EqualFold(string(o), string(SortAsc)) {
		return SortAsc
	}
	return SortDesc
}
