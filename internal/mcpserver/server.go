package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"sysdash/internal/collector"
	"sysdash/internal/format"
	"sysdash/internal/sampler"
	"sysdash/internal/snapshot"
	"sysdash/internal/window"
)

// ErrNoSamples is returned by get_metric_windows before the first successful tick.
var ErrNoSamples = errors.New("no samples published yet")

// Source is the read side of a sampling loop.
type Source interface {
	Latest() *sampler.Update
}

// Server wraps the MCP server with SysDash tools.
type Server struct {
	mcpServer *mcp.Server
	provider  collector.Provider
	source    Source
	timeout   time.Duration
	log       *slog.Logger
}

// Config holds configuration for the MCP server.
type Config struct {
	ServerName     string
	ServerVersion  string
	AcquireTimeout time.Duration // bound on live acquisitions, 0 means none
}

// NewServer creates a new MCP server instance. provider serves live tools and
// source serves the sliding windows.
func NewServer(cfg Config, provider collector.Provider, source Source, log *slog.Logger) *Server {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	impl := &mcp.Implementation{
		Name:    cfg.ServerName,
		Version: cfg.ServerVersion,
	}

	s := &Server{
		mcpServer: mcp.NewServer(impl, nil),
		provider:  provider,
		source:    source,
		timeout:   cfg.AcquireTimeout,
		log:       log,
	}
	s.registerTools()
	return s
}

// SnapshotArgs defines the input for get_system_snapshot tool.
type SnapshotArgs struct{}

// WindowsArgs defines the input for get_metric_windows tool.
type WindowsArgs struct {
	Pad bool `json:"pad,omitempty" jsonschema:"left-pad every series with zeros to the window capacity"`
}

// WindowsResult wraps the latest published windows.
type WindowsResult struct {
	Tick     uint64          `json:"tick" jsonschema:"sampling tick that produced the windows"`
	At       string          `json:"at" jsonschema:"RFC 3339 time of the tick"`
	Capacity int             `json:"capacity" jsonschema:"maximum samples per stream"`
	Series   []window.Series `json:"series" jsonschema:"streams in registration order, oldest sample first"`
}

// UptimeArgs defines the input for get_uptime tool.
type UptimeArgs struct{}

// UptimeResult is the host uptime split into display components.
type UptimeResult struct {
	Seconds float64 `json:"seconds" jsonschema:"raw uptime in seconds"`
	Days    int     `json:"days"`
	Hours   int     `json:"hours"`
	Minutes int     `json:"minutes"`
	Secs    int     `json:"secs"`
	Text    string  `json:"text" jsonschema:"formatted as 1d 2h 3m 4s"`
}

// registerTools registers all available MCP tools.
func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_system_snapshot",
		Description: "Acquire and normalize a fresh system snapshot: processor usage, model, cores, speed and temperature; memory usage and modules; storage devices; GPU when present; uptime.",
	}, s.handleGetSystemSnapshot)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_metric_windows",
		Description: "Get the sliding windows of recent samples (processor, memory, storage and GPU usage plus temperatures) from the latest sampling tick. Use this for short-term trends.",
	}, s.handleGetMetricWindows)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_uptime",
		Description: "Get the host uptime as days, hours, minutes and seconds.",
	}, s.handleGetUptime)
}

// liveSnapshot acquires and normalizes under the configured timeout.
func (s *Server) liveSnapshot(ctx context.Context) (snapshot.SystemSnapshot, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	raw, err := s.provider.Acquire(ctx)
	if err != nil {
		return snapshot.SystemSnapshot{}, fmt.Errorf("acquire: %w", err)
	}
	return snapshot.Normalize(raw)
}

// handleGetSystemSnapshot fetches live data from sensors.
func (s *Server) handleGetSystemSnapshot(ctx context.Context, _ *mcp.CallToolRequest, _ SnapshotArgs) (*mcp.CallToolResult, snapshot.SystemSnapshot, error) {
	snap, err := s.liveSnapshot(ctx)
	if err != nil {
		s.log.Warn("get_system_snapshot failed", "error", err)
		return nil, snapshot.SystemSnapshot{}, fmt.Errorf("failed to fetch system information: %w", err)
	}
	return nil, snap, nil
}

// handleGetMetricWindows serves the latest published windows.
func (s *Server) handleGetMetricWindows(_ context.Context, _ *mcp.CallToolRequest, args WindowsArgs) (*mcp.CallToolResult, WindowsResult, error) {
	u := s.latest()
	if u == nil {
		return nil, WindowsResult{}, ErrNoSamples
	}

	series := u.Series
	if args.Pad {
		series = make([]window.Series, len(u.Series))
		for i, sr := range u.Series {
			sr.Values = format.PadSeries(sr.Values, u.Capacity)
			series[i] = sr
		}
	}
	return nil, WindowsResult{
		Tick:     u.Tick,
		At:       u.At.Format(time.RFC3339),
		Capacity: u.Capacity,
		Series:   series,
	}, nil
}

// handleGetUptime prefers the latest tick and falls back to a live reading.
func (s *Server) handleGetUptime(ctx context.Context, _ *mcp.CallToolRequest, _ UptimeArgs) (*mcp.CallToolResult, UptimeResult, error) {
	var seconds float64
	if u := s.latest(); u != nil {
		seconds = u.Snapshot.UptimeSeconds
	} else {
		snap, err := s.liveSnapshot(ctx)
		if err != nil {
			return nil, UptimeResult{}, fmt.Errorf("failed to read uptime: %w", err)
		}
		seconds = snap.UptimeSeconds
	}

	up := format.FormatUptime(seconds)
	return nil, UptimeResult{
		Seconds: seconds,
		Days:    up.Days,
		Hours:   up.Hours,
		Minutes: up.Minutes,
		Secs:    up.Seconds,
		Text:    up.String(),
	}, nil
}

func (s *Server) latest() *sampler.Update {
	if s.source == nil {
		return nil
	}
	return s.source.Latest()
}

// Start starts the MCP server using stdio transport.
func (s *Server) Start(ctx context.Context) error {
	s.log.Info("starting MCP server on stdio")
	return s.Run(ctx, &mcp.StdioTransport{})
}

// Run serves a single session over the given transport until it ends.
func (s *Server) Run(ctx context.Context, t mcp.Transport) error {
	return s.mcpServer.Run(ctx, t)
}

// Connect starts a session without blocking. Used by in-process clients.
func (s *Server) Connect(ctx context.Context, t mcp.Transport) (*mcp.ServerSession, error) {
	return s.mcpServer.Connect(ctx, t, nil)
}
