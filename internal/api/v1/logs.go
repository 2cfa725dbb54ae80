package v1

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/gosuda/actionfeed/internal/activity"
	"github.com/gosuda/actionfeed/internal/domain"
)

type ListLogsInput struct {
	CompanyID        string `query:"company_id" doc:"Company ID; must match the caller's company"`
	Limit            int    `query:"limit" minimum:"1" maximum:"500" default:"50" doc:"Page size"`
	SearchKey        string `query:"search_key" doc:"Case-insensitive substring of the search key"`
	EntityType       string `query:"entity_type" doc:"Only records of this entity type"`
	LastEvaluatedKey string `query:"last_evaluated_key" doc:"JSON pagination cursor from the previous page"`
}

// LogEntry is a log record with its feed line rendered for the caller.
type LogEntry struct {
	domain.LogRecord
	Text string `json:"text"`
	Rich string `json:"rich"`
}

type LogsBody struct {
	Status           Status         `json:"status"`
	Logs             []LogEntry     `json:"logs"`
	LastEvaluatedKey *domain.Cursor `json:"last_evaluated_key,omitempty"`
}

type ListLogsOutput struct {
	Body LogsBody
}

func RegisterLogRoutes(api huma.API, store DataStore) {
	huma.Register(api, huma.Operation{
		OperationID: "list-logs",
		Method:      http.MethodGet,
		Path:        "/logs",
		Summary:     "List the company activity log",
		Tags:        []string{"Logs"},
	}, func(ctx context.Context, input *ListLogsInput) (*ListLogsOutput, error) {
		viewer, err := viewerFrom(ctx)
		if err != nil {
			return nil, err
		}

		after, err := parseCursor(input.LastEvaluatedKey)
		if err != nil {
			return nil, err
		}

		page, err := store.Logs().List(ctx, domain.LogQuery{
			CompanyID:  viewer.CompanyID,
			EntityType: domain.EntityType(input.EntityType),
			SearchKey:  input.SearchKey,
			Limit:      input.Limit,
			After:      after,
		})
		if err != nil {
			if errors.Is(err, domain.ErrInvalidCursor) {
				return nil, huma.Error400BadRequest("invalid last_evaluated_key", err)
			}
			return nil, huma.Error500InternalServerError("failed to list logs", err)
		}

		now := time.Now()
		out := &ListLogsOutput{}
		out.Body.Status = statusOK()
		out.Body.Logs = make([]LogEntry, 0, len(page.Logs))
		for _, rec := range page.Logs {
			entry := activity.Describe(activity.Input{Record: rec, Viewer: viewer, Now: now})
			out.Body.Logs = append(out.Body.Logs, LogEntry{LogRecord: *rec, Text: entry.Plain(), Rich: entry.Rich()})
		}
		out.Body.LastEvaluatedKey = page.LastEvaluatedKey
		return out, nil
	})
}
