package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"sysdash/internal/collector"
	"sysdash/internal/format"
	"sysdash/internal/sampler"
	"sysdash/internal/snapshot"
	"sysdash/internal/window"
)

const systemInfoError = "Failed to fetch system information"

// Source is the read side of a sampling loop.
type Source interface {
	Latest() *sampler.Update
	LastError() error
	Running() bool
}

type Handler struct {
	provider collector.Provider
	source   Source
	hub      *Hub
	timeout  time.Duration
	log      *slog.Logger
}

// NewHandler serves the REST endpoints. hub may be nil when WebSocket push is off.
func NewHandler(provider collector.Provider, source Source, hub *Hub, timeout time.Duration, log *slog.Logger) *Handler {
	return &Handler{provider: provider, source: source, hub: hub, timeout: timeout, log: log}
}

// SystemInfo acquires and normalizes a fresh snapshot for every request.
func (h *Handler) SystemInfo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	raw, err := h.provider.Acquire(ctx)
	if err == nil {
		var snap snapshot.SystemSnapshot
		snap, err = snapshot.Normalize(raw)
		if err == nil {
			writeJSON(w, http.StatusOK, snap)
			return
		}
	}

	h.log.Error("system info request failed", "error", err)
	writeError(w, http.StatusInternalServerError, systemInfoError)
}

type windowsResponse struct {
	Tick     uint64               `json:"tick"`
	At       time.Time            `json:"at"`
	Capacity int                  `json:"capacity"`
	Windows  map[string][]float64 `json:"windows"`
	Series   []window.Series      `json:"series"`
}

// Windows returns the chart data of the latest published update. With
// ?pad=1 every series is left-padded with zeros to the window capacity.
func (h *Handler) Windows(w http.ResponseWriter, r *http.Request) {
	u := h.source.Latest()
	if u == nil {
		writeError(w, http.StatusServiceUnavailable, "no samples yet")
		return
	}

	resp := windowsResponse{
		Tick:     u.Tick,
		At:       u.At,
		Capacity: u.Capacity,
		Windows:  u.Windows,
		Series:   u.Series,
	}

	if pad := r.URL.Query().Get("pad"); pad == "1" || pad == "true" {
		resp.Windows = make(map[string][]float64, len(u.Windows))
		for key, values := range u.Windows {
			resp.Windows[key] = format.PadSeries(values, resp.Capacity)
		}
		resp.Series = make([]window.Series, len(u.Series))
		for i, s := range u.Series {
			s.Values = format.PadSeries(s.Values, resp.Capacity)
			resp.Series[i] = s
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

type healthResponse struct {
	Status    string    `json:"status"`
	Running   bool      `json:"running"`
	Tick      uint64    `json:"tick"`
	At        time.Time `json:"at,omitzero"`
	Clients   int       `json:"clients"`
	LastError string    `json:"lastError,omitempty"`
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok", Running: h.source.Running()}
	if h.hub != nil {
		resp.Clients = h.hub.Clients()
	}
	if u := h.source.Latest(); u != nil {
		resp.Tick = u.Tick
		resp.At = u.At
	}
	if err := h.source.LastError(); err != nil {
		resp.Status = "degraded"
		resp.LastError = err.Error()
	}

	status := http.StatusOK
	if !resp.Running {
		resp.Status = "stopped"
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}
