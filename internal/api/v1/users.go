package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/gosuda/actionfeed/internal/actions"
	"github.com/gosuda/actionfeed/internal/domain"
)

// UserView is the public shape of a company member.
type UserView struct {
	ID          uuid.UUID           `json:"id"`
	Name        string              `json:"name"`
	Email       string              `json:"email"`
	Status      domain.ItemStatus   `json:"status"`
	Permissions []domain.Permission `json:"permissions"`
}

func newUserView(u *domain.User) UserView {
	perms := u.Permissions
	if perms == nil {
		perms = []domain.Permission{}
	}
	return UserView{ID: u.ID, Name: u.Name, Email: u.Email, Status: u.Status, Permissions: perms}
}

type RemoveUserInput struct {
	ID                        uuid.UUID `path:"id" doc:"User ID"`
	CompanyID                 string    `query:"company_id" doc:"Company ID; must match the caller's company"`
	RemoveIntegrationAccounts bool      `query:"remove_integration_accounts" doc:"Also revoke the user's integration accounts"`
}

type RestoreUsersInput struct {
	Body struct {
		CompanyID string      `json:"company_id,omitempty" doc:"Company ID; must match the caller's company"`
		UserIDs   []uuid.UUID `json:"user_ids" minItems:"1" doc:"Users to restore"`
	}
}

type ResendActivationInput struct {
	UserID uuid.UUID `query:"userId" required:"true" doc:"Pending user ID"`
}

type SummaryOutput struct {
	Body struct {
		Status    Status `json:"status"`
		SeatsLeft int    `json:"seats_left" doc:"-1 when unlimited"`
		Users     int    `json:"users"`
	}
}

type ListUsersOutput struct {
	Body struct {
		Status Status     `json:"status"`
		Users  []UserView `json:"users"`
	}
}

type emptyInput struct{}

func RegisterUserRoutes(api huma.API, memberSvc MemberService) {
	huma.Register(api, huma.Operation{
		OperationID: "list-users",
		Method:      http.MethodGet,
		Path:        "/users",
		Summary:     "List company members",
		Tags:        []string{"Users"},
	}, func(ctx context.Context, _ *emptyInput) (*ListUsersOutput, error) {
		viewer, err := viewerFrom(ctx)
		if err != nil {
			return nil, err
		}

		users, err := memberSvc.Users(ctx, viewer.CompanyID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list users", err)
		}

		out := &ListUsersOutput{}
		out.Body.Status = statusOK()
		out.Body.Users = make([]UserView, 0, len(users))
		for _, u := range users {
			out.Body.Users = append(out.Body.Users, newUserView(u))
		}
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "users-summary",
		Method:      http.MethodGet,
		Path:        "/users/summary",
		Summary:     "Seats left and member count",
		Tags:        []string{"Users"},
	}, func(ctx context.Context, _ *emptyInput) (*SummaryOutput, error) {
		viewer, err := viewerFrom(ctx)
		if err != nil {
			return nil, err
		}

		summary, err := memberSvc.Summary(ctx, viewer.CompanyID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to summarize users", err)
		}

		out := &SummaryOutput{}
		out.Body.Status = statusOK()
		out.Body.SeatsLeft = summary.SeatsLeft
		out.Body.Users = summary.Users
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "remove-user",
		Method:      http.MethodDelete,
		Path:        "/users/{id}",
		Summary:     "Remove a company member",
		Tags:        []string{"Users"},
	}, func(ctx context.Context, input *RemoveUserInput) (*MutationOutput, error) {
		viewer, err := viewerFrom(ctx)
		if err != nil {
			return nil, err
		}
		if err := requirePermission(viewer, domain.PermissionRemoveCompanyMember); err != nil {
			return nil, err
		}

		return memberResult(memberSvc.RemoveUser(ctx, viewer, input.ID, input.RemoveIntegrationAccounts))
	})

	huma.Register(api, huma.Operation{
		OperationID: "restore-users",
		Method:      http.MethodPost,
		Path:        "/users/restore",
		Summary:     "Restore removed company members",
		Tags:        []string{"Users"},
	}, func(ctx context.Context, input *RestoreUsersInput) (*MutationOutput, error) {
		viewer, err := viewerFrom(ctx)
		if err != nil {
			return nil, err
		}
		if input.Body.CompanyID != "" && input.Body.CompanyID != viewer.CompanyID.String() {
			return nil, huma.Error403Forbidden("company mismatch")
		}
		if err := requirePermission(viewer, domain.PermissionAddCompanyMember); err != nil {
			return nil, err
		}

		return memberResult(memberSvc.RestoreUsers(ctx, viewer, input.Body.UserIDs))
	})

	huma.Register(api, huma.Operation{
		OperationID: "resend-activation",
		Method:      http.MethodPut,
		Path:        "/resend_activation",
		Summary:     "Resend the invite to a pending member",
		Tags:        []string{"Users"},
	}, func(ctx context.Context, input *ResendActivationInput) (*MutationOutput, error) {
		viewer, err := viewerFrom(ctx)
		if err != nil {
			return nil, err
		}
		if err := requirePermission(viewer, domain.PermissionAddCompanyMember); err != nil {
			return nil, err
		}

		return memberResult(memberSvc.ResendActivation(ctx, viewer, input.UserID))
	})
}

// memberResult maps a member mutation error to its response. A stale member is a
// 200 envelope carrying the error text so the client can offer to dismiss the item.
func memberResult(err error) (*MutationOutput, error) {
	switch {
	case err == nil:
		return mutationOK(), nil
	case errors.Is(err, domain.ErrCompanyUserNotFound):
		return mutationFailed(http.StatusNotFound, domain.MsgCompanyUserNotFound), nil
	case errors.Is(err, domain.ErrSelfAction):
		return nil, huma.Error422UnprocessableEntity(actions.TooltipSelf)
	case errors.Is(err, domain.ErrSeatsExhausted):
		return nil, huma.Error409Conflict(actions.TooltipSeats)
	case errors.Is(err, domain.ErrConflict):
		return nil, huma.Error409Conflict(err.Error())
	default:
		return nil, huma.Error500InternalServerError(domain.MsgTryAgainLater, err)
	}
}
