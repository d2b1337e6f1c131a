package relay

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
)

// WSHandler returns an http.HandlerFunc that upgrades the connection and
// streams relay events as JSON text frames. Clients may filter event kinds
// via ?kinds=request.captured,session.started.
func WSHandler(broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var kindFilter map[string]bool
		if q := r.URL.Query().Get("kinds"); q != "" {
			kindFilter = make(map[string]bool)
			for _, k := range strings.Split(q, ",") {
				if k = strings.TrimSpace(k); k != "" {
					kindFilter[k] = true
				}
			}
		}

		conn, _, _, err := ws.UpgradeHTTP(r, w)
		if err != nil {
			slog.Debug("websocket upgrade failed", "error", err)
			return
		}

		id, ch := broker.Subscribe()
		slog.Debug("event stream client connected", "subscriber_id", id)

		go func() {
			defer func() {
				broker.Unsubscribe(id)
				conn.Close()
				slog.Debug("event stream client disconnected", "subscriber_id", id)
			}()

			// Drain reads so client-initiated close frames are noticed.
			closed := make(chan struct{})
			go func() {
				defer close(closed)
				for {
					if _, _, err := wsutil.ReadClientData(conn); err != nil {
						return
					}
				}
			}()

			for {
				select {
				case <-closed:
					return
				case evt, ok := <-ch:
					if !ok {
						return
					}
					if kindFilter != nil && !kindFilter[evt.Kind] {
						continue
					}
					payload, err := json.Marshal(evt)
					if err != nil {
						slog.Debug("event marshal failed", "kind", evt.Kind, "error", err)
						continue
					}
					if err := wsutil.WriteServerText(conn, payload); err != nil {
						return
					}
				}
			}
		}()
	}
}
