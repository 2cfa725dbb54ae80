package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	slacklib "github.com/slack-go/slack"

	"github.com/gosuda/actionfeed/internal/messenger"
)

// Dismisser dismisses an action item on behalf of a Slack user.
type Dismisser interface {
	DismissFromSlack(ctx context.Context, companyID, itemID uuid.UUID, slackUserID string) error
}

// MessageUpdater rewrites a posted card once it was acted on.
type MessageUpdater interface {
	UpdateMessage(ctx context.Context, channelID string, messageID messenger.MessageID, text string) error
}

// Handler processes Slack webhook events (Events API + Interactive Components).
type Handler struct {
	signingSecret string
	dismisser     Dismisser
	updater       MessageUpdater
}

// NewHandler creates a new Slack webhook handler. updater may be nil.
func NewHandler(signingSecret string, dismisser Dismisser, updater MessageUpdater) *Handler {
	return &Handler{
		signingSecret: signingSecret,
		dismisser:     dismisser,
		updater:       updater,
	}
}

// slackEvent represents the outer envelope of Slack Events API payloads.
type slackEvent struct {
	Type      string `json:"type"`
	Challenge string `json:"challenge,omitempty"`
}

// HandleEvents is an http.HandlerFunc for POST /slack/events. Only the URL
// verification handshake is answered; every other event is acknowledged.
func (h *Handler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}

	if verifyErr := h.verifySignature(r.Header, body); verifyErr != nil {
		http.Error(w, "invalid signature", http.StatusUnauthorized)
		return
	}

	var envelope slackEvent
	if unmarshalErr := json.Unmarshal(body, &envelope); unmarshalErr != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	if envelope.Type == "url_verification" {
		w.Header().Set("Content-Type", "application/json")
		if encodeErr := json.NewEncoder(w).Encode(map[string]string{"challenge": envelope.Challenge}); encodeErr != nil {
			log.Error().Err(encodeErr).Msg("slack: encode url verification response")
		}
		return
	}

	w.WriteHeader(http.StatusOK)
}

// HandleInteractions is an http.HandlerFunc for POST /slack/interactions.
// It handles the dismiss button of posted action items.
func (h *Handler) HandleInteractions(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}

	if verifyErr := h.verifySignature(r.Header, body); verifyErr != nil {
		http.Error(w, "invalid signature", http.StatusUnauthorized)
		return
	}

	// Interactions use a form-encoded body with the JSON in the "payload" field.
	// The body was consumed for signature verification, so re-create it.
	r.Body = io.NopCloser(bytes.NewReader(body))
	if parseErr := r.ParseForm(); parseErr != nil {
		http.Error(w, "failed to parse form", http.StatusBadRequest)
		return
	}

	payloadStr := r.FormValue("payload")
	if payloadStr == "" {
		http.Error(w, "missing payload", http.StatusBadRequest)
		return
	}

	var callback slacklib.InteractionCallback
	if unmarshalErr := json.Unmarshal([]byte(payloadStr), &callback); unmarshalErr != nil {
		http.Error(w, "invalid payload JSON", http.StatusBadRequest)
		return
	}

	for _, action := range callback.ActionCallback.BlockActions {
		if action == nil || action.ActionID != ActionDismiss {
			continue
		}
		h.dismiss(r.Context(), &callback, action.Value)
	}

	w.WriteHeader(http.StatusOK)
}

// dismiss runs one dismiss click. Slack only needs the acknowledgement, so every
// failure is logged and swallowed.
func (h *Handler) dismiss(ctx context.Context, callback *slacklib.InteractionCallback, value string) {
	companyID, itemID, err := ParseDismissValue(value)
	if err != nil {
		log.Warn().Err(err).Msg("slack: bad dismiss value")
		return
	}

	if dismissErr := h.dismisser.DismissFromSlack(ctx, companyID, itemID, callback.User.ID); dismissErr != nil {
		log.Error().Err(dismissErr).Str("item_id", itemID.String()).Msg("slack: dismiss action item")
		return
	}

	channelID, ts := callback.Container.ChannelID, callback.Container.MessageTs
	if h.updater == nil || channelID == "" || ts == "" {
		return
	}
	text := fmt.Sprintf("Dismissed by <@%s>.", callback.User.ID)
	if updateErr := h.updater.UpdateMessage(ctx, channelID, messenger.MessageID(ts), text); updateErr != nil {
		log.Warn().Err(updateErr).Str("item_id", itemID.String()).Msg("slack: update dismissed card")
	}
}

// verifySignature validates the Slack request signature using the signing secret.
func (h *Handler) verifySignature(header http.Header, body []byte) error {
	sv, err := slacklib.NewSecretsVerifier(header, h.signingSecret)
	if err != nil {
		return fmt.Errorf("slack.Handler.verifySignature: create verifier: %w", err)
	}

	if _, writeErr := sv.Write(body); writeErr != nil {
		return fmt.Errorf("slack.Handler.verifySignature: write body: %w", writeErr)
	}

	if ensureErr := sv.Ensure(); ensureErr != nil {
		return fmt.Errorf("slack.Handler.verifySignature: ensure: %w", ensureErr)
	}

	return nil
}
