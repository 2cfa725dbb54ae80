package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/coder/websocket"

	"github.com/gosuda/actionfeed/internal/domain"
)

// Watch streams the feed events of the signed-in company until ctx is done or the
// server closes the connection. fn is called once per event, in order.
func (c *Client) Watch(ctx context.Context, fn func(domain.FeedEvent)) error {
	endpoint, err := c.feedURL()
	if err != nil {
		return fmt.Errorf("client.Watch: %w", err)
	}

	// The connection is long-lived; the request timeout must not apply to it.
	hc := *c.http
	hc.Timeout = 0

	conn, _, err := websocket.Dial(ctx, endpoint, &websocket.DialOptions{HTTPClient: &hc})
	if err != nil {
		return fmt.Errorf("client.Watch: dial: %w", err)
	}
	defer conn.CloseNow()

	for {
		_, msg, err := conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure || errors.Is(err, context.Canceled) {
				return nil
			}
			return fmt.Errorf("client.Watch: read: %w", err)
		}
		var ev domain.FeedEvent
		if json.Unmarshal(msg, &ev) != nil {
			continue
		}
		fn(ev)
	}
}

// feedURL is the websocket endpoint. Browsers cannot set headers on an upgrade, so
// the server also accepts the token as a query parameter.
func (c *Client) feedURL() (string, error) {
	u, err := url.Parse(c.root + "/ws/feed")
	if err != nil {
		return "", err
	}
	switch strings.ToLower(u.Scheme) {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	if c.token != "" {
		u.RawQuery = url.Values{"access_token": {c.token}}.Encode()
	}
	return u.String(), nil
}
