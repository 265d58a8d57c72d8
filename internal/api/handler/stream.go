package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/edvin/onboarding/internal/onboarding"
)

const streamWriteTimeout = 5 * time.Second

type Stream struct {
	hub *onboarding.Hub
}

func NewStream(hub *onboarding.Hub) *Stream {
	return &Stream{hub: hub}
}

// Progress upgrades to a websocket and streams every progress event
// published while the connection is open. Messages from the client are
// ignored.
func (h *Stream) Progress(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	// Lift the server's read and write timeouts for this long-lived connection.
	rc := http.NewResponseController(w)
	_ = rc.SetReadDeadline(time.Time{})
	_ = rc.SetWriteDeadline(time.Time{})

	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // dashboards are served from another origin
	})
	if err != nil {
		logger.Error().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer ws.CloseNow()

	events, cancel := h.hub.Subscribe()
	defer cancel()

	ctx := ws.CloseRead(r.Context())
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			wctx, done := context.WithTimeout(ctx, streamWriteTimeout)
			err := wsjson.Write(wctx, ws, ev)
			done()
			if err != nil {
				logger.Debug().Err(err).Msg("progress stream closed")
				return
			}
		}
	}
}
