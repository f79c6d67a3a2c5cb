package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"sync"

	"github.com/Cloud-Net-Park/Gravel/models"

	"github.com/gorilla/websocket"
)

type subscription struct {
	conn *websocket.Conn
	done chan struct{}
	once sync.Once
}

// Close ends the subscription and waits for the reader to stop.
func (s *subscription) Close() error {
	var err error
	s.once.Do(func() {
		_ = s.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		err = s.conn.Close()
	})
	<-s.done
	if errors.Is(err, net.ErrClosed) {
		return nil
	}
	return err
}

// Subscribe opens the change feed for table and calls fn for every event
// until the returned Closer is closed or the connection drops. fn runs on
// the subscription's reader goroutine.
func (c *Client) Subscribe(ctx context.Context, table string, fn func(models.ChangeEvent)) (io.Closer, error) {
	u, err := url.Parse(c.baseURL + "/realtime/" + url.PathEscape(table))
	if err != nil {
		return nil, fmt.Errorf("realtime url: %w", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.RawQuery = url.Values{"apikey": {c.apiKey}}.Encode()

	header := http.Header{"apikey": {c.apiKey}}
	conn, resp, err := c.dialer.DialContext(ctx, u.String(), header)
	if err != nil {
		if resp != nil {
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusSwitchingProtocols {
				return nil, newAPIError(resp)
			}
		}
		return nil, fmt.Errorf("subscribe %s: %w", table, err)
	}

	sub := &subscription{conn: conn, done: make(chan struct{})}
	go func() {
		defer close(sub.done)
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) &&
					!errors.Is(err, net.ErrClosed) {
					c.logger.Warn("realtime subscription ended", "table", table, "error", err)
				}
				return
			}
			var event models.ChangeEvent
			if err := json.Unmarshal(data, &event); err != nil {
				c.logger.Warn("realtime event decode failed", "table", table, "error", err)
				continue
			}
			fn(event)
		}
	}()
	return sub, nil
}
