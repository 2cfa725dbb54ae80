package ws

import (
	"context"
	"net/http"

	"github.com/coder/websocket"
	"github.com/rs/zerolog/log"

	"github.com/gosuda/actionfeed/internal/server/middleware"
	redisstore "github.com/gosuda/actionfeed/internal/store/redis"
)

// Subscriber opens a message stream on a pub/sub channel. The returned cleanup
// releases the subscription.
type Subscriber interface {
	Subscribe(ctx context.Context, channel string) (<-chan []byte, func(), error)
}

// Hub manages WebSocket connections backed by Redis pub/sub.
type Hub struct {
	subscriber Subscriber
	origins    []string
}

// NewHub creates a new WebSocket hub. origins lists the host patterns allowed to
// open a cross-origin connection.
func NewHub(subscriber Subscriber, origins []string) *Hub {
	return &Hub{subscriber: subscriber, origins: origins}
}

// ServeFeed streams the feed events of the caller's company.
// Subscribes to Redis channel "feed:<companyID>". Malformed payloads are dropped.
func (h *Hub) ServeFeed(w http.ResponseWriter, r *http.Request) {
	companyID, ok := middleware.CompanyIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing company", http.StatusBadRequest)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: h.origins})
	if err != nil {
		log.Error().Err(err).Msg("websocket accept")
		return
	}
	defer conn.CloseNow()

	// The client never sends; CloseRead handles control frames and cancels ctx
	// once the peer goes away.
	ctx := conn.CloseRead(r.Context())

	messages, cleanup, err := h.subscriber.Subscribe(ctx, redisstore.CompanyFeedChannel(companyID))
	if err != nil {
		log.Error().Err(err).Str("company_id", companyID.String()).Msg("websocket subscribe")
		_ = conn.Close(websocket.StatusInternalError, "subscribe failed")
		return
	}
	defer cleanup()

	for {
		select {
		case <-ctx.Done():
			_ = conn.Close(websocket.StatusNormalClosure, "connection closed")
			return
		case msg, msgOK := <-messages:
			if !msgOK {
				_ = conn.Close(websocket.StatusNormalClosure, "channel closed")
				return
			}
			ev, decodeErr := redisstore.DecodeEvent(msg)
			if decodeErr != nil || ev.CompanyID != companyID {
				log.Debug().Err(decodeErr).Str("company_id", companyID.String()).Msg("websocket drop event")
				continue
			}
			if writeErr := conn.Write(ctx, websocket.MessageText, msg); writeErr != nil {
				log.Debug().Err(writeErr).Msg("websocket write")
				return
			}
		}
	}
}
