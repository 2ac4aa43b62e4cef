// Package httpapi serves snapshots and chart windows over HTTP and pushes
// every published update to WebSocket clients.
package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/gorilla/websocket"
)

type WSHandler struct {
	hub      *Hub
	upgrader websocket.Upgrader
	log      *slog.Logger
}

// NewWSHandler accepts any origin listed in allowedOrigins. With an empty
// list only same-origin requests are upgraded.
func NewWSHandler(hub *Hub, allowedOrigins []string, log *slog.Logger) *WSHandler {
	upgrader := websocket.Upgrader{}
	if len(allowedOrigins) > 0 {
		upgrader.CheckOrigin = func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" || slices.Contains(allowedOrigins, origin) {
				return true
			}
			log.Warn("websocket origin rejected", "origin", origin)
			return false
		}
	}
	return &WSHandler{hub: hub, upgrader: upgrader, log: log}
}

func (h *WSHandler) Serve(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("upgrade failed", "error", err)
		return
	}

	client := NewClient(h.hub, conn, h.log)
	if !h.hub.add(client) {
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"))
		conn.Close()
		return
	}
	go client.writePump()
	go client.readPump()

	h.log.Info("client connected", "id", client.ID, "remote_addr", conn.RemoteAddr())
}

type RouterDeps struct {
	API *Handler
	WS  *WSHandler
}

func NewRouter(deps *RouterDeps) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", deps.API.Health)
	mux.HandleFunc("GET /api/system-info", deps.API.SystemInfo)
	mux.HandleFunc("GET /api/windows", deps.API.Windows)
	if deps.WS != nil {
		mux.HandleFunc("GET /ws", deps.WS.Serve)
	}

	return mux
}

func NewServer(handler http.Handler, addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// Serve runs srv until ctx is done, then shuts it down gracefully.
func Serve(ctx context.Context, srv *http.Server, log *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info("starting http server", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("http server shutdown error", "error", err)
			return err
		}
		log.Info("http server stopped")
		return nil

	case err, ok := <-errCh:
		if !ok {
			return nil
		}
		log.Error("http server error", "error", err)
		return err
	}
}
