package slack

import (
	"context"
	"errors"
	"fmt"

	"github.com/gosuda/actionfeed/internal/domain"
)

// ErrNoSlackUser is returned when an invitee has no Slack account under their e-mail.
var ErrNoSlackUser = errors.New("slack: no slack user for email") //nolint:gochecknoglobals // sentinel error

// DirectMessenger delivers a message to one platform user.
// *SlackMessenger satisfies this interface.
type DirectMessenger interface {
	SendNotification(ctx context.Context, userExternalID, text string) error
}

// Inviter delivers activation reminders as Slack direct messages, matching the
// invitee by e-mail.
type Inviter struct {
	api           SlackAPI
	dm            DirectMessenger
	activationURL string
}

func NewInviter(api SlackAPI, dm DirectMessenger, activationURL string) *Inviter {
	return &Inviter{api: api, dm: dm, activationURL: activationURL}
}

// SendInvite posts the activation reminder to the invitee.
func (i *Inviter) SendInvite(ctx context.Context, u *domain.User) error {
	if u.Email == "" {
		return fmt.Errorf("slack.Inviter.SendInvite: %w", ErrNoSlackUser)
	}

	su, err := i.api.GetUserByEmail(u.Email)
	if err != nil || su == nil {
		return fmt.Errorf("slack.Inviter.SendInvite: %s: %w", u.Email, errors.Join(ErrNoSlackUser, err))
	}

	text := "You have a pending invitation. Activate your account to join your team."
	if i.activationURL != "" {
		text = fmt.Sprintf("You have a pending invitation. <%s|Activate your account> to join your team.", i.activationURL)
	}

	if err := i.dm.SendNotification(ctx, su.ID, text); err != nil {
		return fmt.Errorf("slack.Inviter.SendInvite: %w", err)
	}

	return nil
}
