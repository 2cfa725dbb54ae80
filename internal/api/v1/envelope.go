package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/gosuda/actionfeed/internal/domain"
	"github.com/gosuda/actionfeed/internal/server/middleware"
)

// Status is the envelope header every list and mutation response carries.
type Status struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func statusOK() Status {
	return Status{Code: http.StatusOK, Message: "OK"}
}

// MutationBody is the response of a mutation. Domain failures the client handles
// itself, such as a stale member, come back as a 200 with Errors set.
type MutationBody struct {
	Status Status   `json:"status"`
	Errors []string `json:"errors,omitempty"`
}

type MutationOutput struct {
	Body MutationBody
}

func mutationOK() *MutationOutput {
	return &MutationOutput{Body: MutationBody{Status: statusOK()}}
}

func mutationFailed(code int, msg string) *MutationOutput {
	return &MutationOutput{Body: MutationBody{
		Status: Status{Code: code, Message: msg},
		Errors: []string{msg},
	}}
}

// viewerFrom returns the authenticated caller. The auth middleware guarantees one
// on every protected route.
func viewerFrom(ctx context.Context) (domain.CurrentUser, error) {
	viewer, ok := middleware.ViewerFromContext(ctx)
	if !ok || viewer.CompanyID == uuid.Nil {
		return domain.CurrentUser{}, huma.Error403Forbidden("missing company context")
	}
	return viewer, nil
}

func requirePermission(viewer domain.CurrentUser, p domain.Permission) error {
	if !viewer.Can(p) {
		return huma.Error403Forbidden("missing permission " + string(p))
	}
	return nil
}

// parseCursor decodes the JSON last_evaluated_key query value. Empty means the
// first page.
func parseCursor(raw string) (*domain.Cursor, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil //nolint:nilnil // no cursor
	}
	var c domain.Cursor
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return nil, huma.Error400BadRequest("last_evaluated_key must be a JSON object", err)
	}
	if c.IsZero() {
		return nil, nil //nolint:nilnil // no cursor
	}
	return &c, nil
}

// parseModules decodes the JSON module_type query value, e.g. ["USER","GROUP"].
func parseModules(raw string) ([]string, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var modules []string
	if err := json.Unmarshal([]byte(raw), &modules); err != nil {
		return nil, huma.Error400BadRequest("module_type must be a JSON array of strings", err)
	}
	return modules, nil
}
