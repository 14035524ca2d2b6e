package events

import (
	"context"
	"net/http"
	"time"

	"github.com/coder/websocket"
)

const shutdownTimeout = 5 * time.Second

// Handler upgrades the request to a WebSocket and streams events until the
// client disconnects. Clients are listen-only; inbound frames are drained
// and discarded.
func (h *Hub) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true, // editor origins are deployment-specific
		})
		if err != nil {
			h.logger.Warn(r.Context(), err, "WebSocket upgrade failed")
			return
		}

		h.Register(conn)
		h.logger.Debug(r.Context(), "Event client connected", "clients", h.ClientCount())

		defer func() {
			h.remove(conn)
			_ = conn.Close(websocket.StatusNormalClosure, "")
		}()

		ctx := r.Context()
		for {
			if _, _, err := conn.Read(ctx); err != nil {
				return
			}
		}
	})
}

// ServeMux returns the HTTP mux for the event server with the event stream
// and a health endpoint.
func (h *Hub) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/events", h.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return mux
}

// Serve runs an HTTP server for the hub on addr until ctx is cancelled.
func (h *Hub) Serve(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:    addr,
		Handler: h.ServeMux(),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		h.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
