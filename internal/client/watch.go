package client

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/edvin/onboarding/internal/model"
)

// Watch streams progress events from the API until ctx is done or the
// connection closes. fn is called for every event in order.
func (c *Client) Watch(ctx context.Context, fn func(model.ProgressEvent)) error {
	wsURL := "ws" + strings.TrimPrefix(c.BaseURL, "http") + "/api/v1/runs/stream"

	opts := &websocket.DialOptions{HTTPClient: &http.Client{}}
	if c.APIKey != "" {
		opts.HTTPHeader = http.Header{"Authorization": []string{"Bearer " + c.APIKey}}
	}

	conn, _, err := websocket.Dial(ctx, wsURL, opts)
	if err != nil {
		return fmt.Errorf("dial %s: %w", wsURL, err)
	}
	defer conn.CloseNow()

	for {
		var ev model.ProgressEvent
		if err := wsjson.Read(ctx, conn, &ev); err != nil {
			if ctx.Err() != nil || websocket.CloseStatus(err) == websocket.StatusNormalClosure {
				return nil
			}
			return fmt.Errorf("read progress event: %w", err)
		}
		fn(ev)
	}
}
