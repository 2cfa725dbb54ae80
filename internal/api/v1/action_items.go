package v1

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/gosuda/actionfeed/internal/actions"
	"github.com/gosuda/actionfeed/internal/activity"
	"github.com/gosuda/actionfeed/internal/domain"
	"github.com/gosuda/actionfeed/internal/items"
)

type ListActionItemsInput struct {
	CompanyID        string `query:"company_id" doc:"Company ID; must match the caller's company"`
	Limit            int    `query:"limit" minimum:"1" maximum:"500" default:"50" doc:"Page size"`
	Start            int64  `query:"start" doc:"Created at or after (Unix seconds)"`
	End              int64  `query:"end" doc:"Created at or before (Unix seconds)"`
	Priority         string `query:"priority" doc:"HIGH, MEDIUM or LOW"`
	SearchKey        string `query:"search_key" doc:"Case-insensitive substring of the search key"`
	Sort             string `query:"sort" doc:"asc or desc by creation time"`
	Source           string `query:"source" doc:"SYSTEM or INTEGRATION"`
	Integration      string `query:"integration" doc:"Integration ID"`
	ModuleType       string `query:"module_type" doc:"JSON array of module names"`
	LastEvaluatedKey string `query:"last_evaluated_key" doc:"JSON pagination cursor from the previous page"`
}

type ActionItemsBody struct {
	Status           Status               `json:"status"`
	ActionItems      []*domain.ActionItem `json:"action_items"`
	LastEvaluatedKey *domain.Cursor       `json:"last_evaluated_key,omitempty"`
}

type ListActionItemsOutput struct {
	Body ActionItemsBody
}

// LogPayload is the log record an action item is created for.
type LogPayload struct {
	UserID     uuid.UUID         `json:"user_id,omitempty" doc:"Acting user; defaults to the caller"`
	EntityType domain.EntityType `json:"log_type" minLength:"1" doc:"Entity type"`
	Action     domain.LogAction  `json:"log_action" minLength:"1" doc:"Log action"`
	Info       domain.LogInfo    `json:"log_info" doc:"Payload keyed by role"`
}

type CreateActionItemInput struct {
	Body struct {
		Type     domain.ActionItemType    `json:"action_item_type" minLength:"1" doc:"Action item type"`
		Priority domain.Priority          `json:"priority,omitempty" doc:"HIGH, MEDIUM or LOW (default MEDIUM)"`
		Source   domain.Source            `json:"source,omitempty" doc:"SYSTEM or INTEGRATION (default SYSTEM)"`
		Log      LogPayload               `json:"log" doc:"The log record the item follows up on"`
		Extras   *domain.ActionItemExtras `json:"extras,omitempty" doc:"Invite clock"`
	}
}

type CreateActionItemOutput struct {
	Body *domain.ActionItem
}

type ActionItemPathInput struct {
	ID uuid.UUID `path:"id" doc:"Action item ID"`
}

type DescribeActionItemOutput struct {
	Body struct {
		Entry activity.Entry `json:"entry"`
		Text  string         `json:"text"`
		Panel actions.Panel  `json:"panel"`
	}
}

func RegisterActionItemRoutes(api huma.API, store DataStore, itemSvc ItemService, memberSvc MemberService) {
	huma.Register(api, huma.Operation{
		OperationID: "list-action-items",
		Method:      http.MethodGet,
		Path:        "/action_items",
		Summary:     "List action items for the caller's company",
		Tags:        []string{"Action Items"},
	}, func(ctx context.Context, input *ListActionItemsInput) (*ListActionItemsOutput, error) {
		viewer, err := viewerFrom(ctx)
		if err != nil {
			return nil, err
		}

		after, err := parseCursor(input.LastEvaluatedKey)
		if err != nil {
			return nil, err
		}
		modules, err := parseModules(input.ModuleType)
		if err != nil {
			return nil, err
		}

		page, err := store.ActionItems().List(ctx, domain.ActionItemQuery{
			CompanyID:     viewer.CompanyID,
			Start:         input.Start,
			End:           input.End,
			Priority:      domain.Priority(input.Priority),
			SearchKey:     input.SearchKey,
			Sort:          domain.SortOrder(input.Sort).Normalize(),
			Source:        domain.Source(input.Source),
			IntegrationID: input.Integration,
			ModuleTypes:   modules,
			Limit:         input.Limit,
			After:         after,
		})
		if err != nil {
			if errors.Is(err, domain.ErrInvalidCursor) {
				return nil, huma.Error400BadRequest("invalid last_evaluated_key", err)
			}
			return nil, huma.Error500InternalServerError("failed to list action items", err)
		}

		out := &ListActionItemsOutput{}
		out.Body.Status = statusOK()
		out.Body.ActionItems = page.Items
		if out.Body.ActionItems == nil {
			out.Body.ActionItems = []*domain.ActionItem{}
		}
		out.Body.LastEvaluatedKey = page.LastEvaluatedKey
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "create-action-item",
		Method:        http.MethodPost,
		Path:          "/action_items",
		Summary:       "Create an action item",
		Tags:          []string{"Action Items"},
		DefaultStatus: http.StatusCreated,
	}, func(ctx context.Context, input *CreateActionItemInput) (*CreateActionItemOutput, error) {
		viewer, err := viewerFrom(ctx)
		if err != nil {
			return nil, err
		}
		if err := requirePermission(viewer, domain.PermissionEditCompany); err != nil {
			return nil, err
		}

		userID := input.Body.Log.UserID
		if userID == uuid.Nil {
			userID = viewer.ID
		}
		item := &domain.ActionItem{
			CompanyID: viewer.CompanyID,
			Type:      input.Body.Type,
			Priority:  input.Body.Priority,
			Source:    input.Body.Source,
			Log: domain.LogRecord{
				UserID:     userID,
				EntityType: input.Body.Log.EntityType,
				Action:     input.Body.Log.Action,
				Info:       input.Body.Log.Info,
			},
			Extras: input.Body.Extras,
		}
		if err := itemSvc.Create(ctx, item); err != nil {
			if errors.Is(err, items.ErrInvalidItem) {
				return nil, huma.Error422UnprocessableEntity(err.Error())
			}
			return nil, huma.Error500InternalServerError("failed to create action item", err)
		}

		return &CreateActionItemOutput{Body: item}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "dismiss-action-item",
		Method:      http.MethodDelete,
		Path:        "/action_items/{id}",
		Summary:     "Dismiss an action item",
		Tags:        []string{"Action Items"},
	}, func(ctx context.Context, input *ActionItemPathInput) (*MutationOutput, error) {
		viewer, err := viewerFrom(ctx)
		if err != nil {
			return nil, err
		}

		item, err := store.ActionItems().GetByID(ctx, viewer.CompanyID, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("action item not found")
			}
			return nil, huma.Error500InternalServerError("failed to load action item", err)
		}

		env := actions.Env{Now: time.Now(), SeatsLeft: actions.UnlimitedSeats}
		if !actions.CanDismiss(item, viewer, env) {
			return nil, huma.Error403Forbidden(actions.TooltipPermission)
		}

		if err := itemSvc.Dismiss(ctx, viewer.CompanyID, input.ID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("action item not found")
			}
			return nil, huma.Error500InternalServerError("failed to dismiss action item", err)
		}

		return mutationOK(), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "describe-action-item",
		Method:      http.MethodGet,
		Path:        "/action_items/{id}/description",
		Summary:     "Render an action item for the caller",
		Tags:        []string{"Action Items"},
	}, func(ctx context.Context, input *ActionItemPathInput) (*DescribeActionItemOutput, error) {
		viewer, err := viewerFrom(ctx)
		if err != nil {
			return nil, err
		}

		item, err := store.ActionItems().GetByID(ctx, viewer.CompanyID, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("action item not found")
			}
			return nil, huma.Error500InternalServerError("failed to load action item", err)
		}

		now := time.Now()
		env := actions.Env{Now: now, SeatsLeft: actions.UnlimitedSeats}
		if summary, sumErr := memberSvc.Summary(ctx, viewer.CompanyID); sumErr == nil {
			env.SeatsLeft = summary.SeatsLeft
		} else {
			log.Warn().Err(sumErr).Str("company_id", viewer.CompanyID.String()).Msg("describe: seat summary unavailable")
		}
		env.UserGone = invitedUserGone(ctx, store, item)

		entry := activity.Describe(activity.Input{Item: item, Viewer: viewer, Now: now})

		out := &DescribeActionItemOutput{}
		out.Body.Entry = entry
		out.Body.Text = entry.Plain()
		out.Body.Panel = actions.Resolve(item, viewer, env)
		return out, nil
	})
}

// invitedUserGone reports whether the user an invite reminder follows up on is no
// longer an addressable company member.
func invitedUserGone(ctx context.Context, store DataStore, item *domain.ActionItem) bool {
	invited := item.Log.Info.User
	if item.Type != domain.ActionItemTypeInviteRemoveCompanyMember || invited == nil {
		return false
	}
	id, err := uuid.Parse(invited.ID)
	if err != nil {
		return true
	}
	u, err := store.Users().GetByID(ctx, item.CompanyID, id)
	if err != nil {
		return errors.Is(err, domain.ErrNotFound)
	}
	return !u.Status.Addressable()
}
