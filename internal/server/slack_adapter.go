package server

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	v1 "github.com/gosuda/actionfeed/internal/api/v1"
)

// slackDismissAdapter bridges the Slack handler's Dismisser interface to the
// action item service.
type slackDismissAdapter struct {
	items v1.ItemService
}

// DismissFromSlack implements slack.Dismisser.
func (a *slackDismissAdapter) DismissFromSlack(ctx context.Context, companyID, itemID uuid.UUID, slackUserID string) error {
	if err := a.items.Dismiss(ctx, companyID, itemID); err != nil {
		return fmt.Errorf("slackDismissAdapter.DismissFromSlack: %w", err)
	}

	log.Info().Str("company_id", companyID.String()).Str("item_id", itemID.String()).
		Str("slack_user", slackUserID).Msg("action item dismissed from slack")
	return nil
}
