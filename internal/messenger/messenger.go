package messenger

import (
	"context"

	"github.com/google/uuid"

	"github.com/gosuda/actionfeed/internal/domain"
)

// MessageID uniquely identifies a message within a messenger platform.
type MessageID string

// CardAction is a button on a posted action item. Value is returned verbatim when
// the button is pressed.
type CardAction struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// Card is an action item rendered for a chat platform.
type Card struct {
	ItemID    uuid.UUID       `json:"item_id"`
	CompanyID uuid.UUID       `json:"company_id"`
	Priority  domain.Priority `json:"priority"`
	Source    string          `json:"source"`
	Text      string          `json:"text"`
	Link      string          `json:"link,omitempty"`
	Actions   []CardAction    `json:"actions,omitempty"`
}

// Messenger abstracts communication with a chat platform.
// Implementations handle platform-specific API calls; the interface is platform-agnostic.
type Messenger interface {
	// SendMessage posts a text message to a channel and returns its platform message ID.
	SendMessage(ctx context.Context, channelID, text string) (MessageID, error)

	// PostCard posts an action item with its buttons to a channel.
	PostCard(ctx context.Context, channelID string, card Card) (MessageID, error)

	// UpdateMessage edits an existing message in a channel.
	UpdateMessage(ctx context.Context, channelID string, messageID MessageID, text string) error

	// SendNotification sends a direct message to a user by their external
	// platform ID (e.g. Slack user ID).
	SendNotification(ctx context.Context, userExternalID, text string) error

	// Platform returns the messenger platform identifier (e.g. "slack").
	Platform() string
}
