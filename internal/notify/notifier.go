package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/gosuda/actionfeed/internal/activity"
	"github.com/gosuda/actionfeed/internal/domain"
	"github.com/gosuda/actionfeed/internal/messenger"
	"github.com/gosuda/actionfeed/internal/messenger/slack"
)

// ErrPlatformNotFound is returned when a messenger platform is not registered.
var ErrPlatformNotFound = errors.New("notify: platform not found") //nolint:gochecknoglobals // sentinel error

// MessengerRegistry maps platform names to Messenger implementations.
type MessengerRegistry interface {
	Get(platform string) (messenger.Messenger, bool)
}

// Route is a chat channel that receives action item cards.
type Route struct {
	Platform string
	Channel  string
}

// Notifier posts action items to chat channels.
type Notifier struct {
	messengers MessengerRegistry
	routes     []Route
	consoleURL string
	now        func() time.Time
}

// New creates a Notifier posting to routes. consoleURL is the base of the
// "open in console" link and may be empty.
func New(messengers MessengerRegistry, routes []Route, consoleURL string) *Notifier {
	return &Notifier{
		messengers: messengers,
		routes:     routes,
		consoleURL: consoleURL,
		now:        time.Now,
	}
}

// NotifyActionItem posts item to every route. Every route is attempted; the
// failures are joined.
func (n *Notifier) NotifyActionItem(ctx context.Context, item *domain.ActionItem) error {
	if len(n.routes) == 0 {
		return nil
	}

	card := n.Card(item)

	var errs []error
	for _, route := range n.routes {
		id, err := n.post(ctx, route, card)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		log.Debug().Str("platform", route.Platform).Str("channel", route.Channel).
			Str("item_id", item.ID.String()).Str("message_id", string(id)).Msg("notify: action item posted")
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("notify.Notifier.NotifyActionItem: %w", err)
	}
	return nil
}

// Card renders item for a chat channel. Chat cards are read by the whole team, so
// the text is written for no particular viewer.
func (n *Notifier) Card(item *domain.ActionItem) messenger.Card {
	text := activity.Describe(activity.Input{Item: item, Now: n.now()}).Plain()
	if text == "" {
		text = string(item.Type)
	}

	card := messenger.Card{
		ItemID:    item.ID,
		CompanyID: item.CompanyID,
		Priority:  item.Priority,
		Source:    item.Source.Label(),
		Text:      text,
		Actions:   []messenger.CardAction{slack.DismissAction(item.CompanyID, item.ID)},
	}
	if n.consoleURL != "" {
		card.Link = n.consoleURL + "/action-items"
	}
	return card
}

func (n *Notifier) post(ctx context.Context, route Route, card messenger.Card) (messenger.MessageID, error) {
	msg, ok := n.messengers.Get(route.Platform)
	if !ok {
		return "", fmt.Errorf("platform %q: %w", route.Platform, ErrPlatformNotFound)
	}

	id, err := msg.PostCard(ctx, route.Channel, card)
	if err == nil {
		return id, nil
	}

	// Plain text survives block validation errors and missing interactivity.
	log.Warn().Err(err).Str("platform", route.Platform).Str("channel", route.Channel).
		Msg("notify: card rejected, sending text")
	id, textErr := msg.SendMessage(ctx, route.Channel, fallbackText(card))
	if textErr != nil {
		return "", fmt.Errorf("%s %s: %w", route.Platform, route.Channel, errors.Join(err, textErr))
	}
	return id, nil
}

func fallbackText(card messenger.Card) string {
	text := "[" + string(card.Priority) + "] " + card.Text
	if card.Link != "" {
		text += " " + card.Link
	}
	return text
}
