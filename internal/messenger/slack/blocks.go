package slack

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	slacklib "github.com/slack-go/slack"

	"github.com/gosuda/actionfeed/internal/domain"
	"github.com/gosuda/actionfeed/internal/messenger"
)

// ActionDismiss is the action id of the dismiss button on a posted action item.
const ActionDismiss = "dismiss_action_item"

const actionsBlockID = "action_item_actions"

//nolint:gochecknoglobals // lookup table
var priorityEmoji = map[domain.Priority]string{
	domain.PriorityHigh:   ":red_circle:",
	domain.PriorityMedium: ":large_orange_circle:",
	domain.PriorityLow:    ":white_circle:",
}

// BuildActionItemBlocks builds Slack Block Kit blocks for an action item card.
// If the card has actions, an action block with buttons is appended below the context.
func BuildActionItemBlocks(card messenger.Card) []slacklib.Block {
	head := card.Text
	if emoji, ok := priorityEmoji[card.Priority]; ok {
		head = fmt.Sprintf("%s *%s*  %s", emoji, card.Priority, card.Text)
	}
	blocks := []slacklib.Block{
		slacklib.NewSectionBlock(
			slacklib.NewTextBlockObject(slacklib.MarkdownType, head, false, false),
			nil,
			nil,
		),
	}

	var meta []string
	if card.Source != "" {
		meta = append(meta, card.Source)
	}
	if card.Link != "" {
		meta = append(meta, fmt.Sprintf("<%s|Open in console>", card.Link))
	}
	if len(meta) > 0 {
		blocks = append(blocks, slacklib.NewContextBlock("",
			slacklib.NewTextBlockObject(slacklib.MarkdownType, strings.Join(meta, " · "), false, false),
		))
	}

	if len(card.Actions) == 0 {
		return blocks
	}

	buttons := make([]slacklib.BlockElement, 0, len(card.Actions))
	for _, a := range card.Actions {
		buttons = append(buttons, slacklib.NewButtonBlockElement(
			a.ID,
			a.Value,
			slacklib.NewTextBlockObject(slacklib.PlainTextType, a.Label, false, false),
		))
	}

	return append(blocks, slacklib.NewActionBlock(actionsBlockID, buttons...))
}

// DismissAction returns the dismiss button for an item.
func DismissAction(companyID, itemID uuid.UUID) messenger.CardAction {
	return messenger.CardAction{ID: ActionDismiss, Label: "Dismiss", Value: companyID.String() + ":" + itemID.String()}
}

// ParseDismissValue decodes the value of a dismiss button.
func ParseDismissValue(value string) (companyID, itemID uuid.UUID, err error) {
	rawCompany, rawItem, ok := strings.Cut(value, ":")
	if !ok {
		return uuid.Nil, uuid.Nil, fmt.Errorf("slack.ParseDismissValue: malformed value %q", value)
	}
	if companyID, err = uuid.Parse(rawCompany); err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("slack.ParseDismissValue: company id: %w", err)
	}
	if itemID, err = uuid.Parse(rawItem); err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("slack.ParseDismissValue: item id: %w", err)
	}
	return companyID, itemID, nil
}
