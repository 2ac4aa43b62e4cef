// Package app wires the collector, sampling loop and front ends into the
// sysdash and sysdash-mcp binaries.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"golang.org/x/sync/errgroup"

	"sysdash/internal/collector"
	"sysdash/internal/config"
	"sysdash/internal/httpapi"
	"sysdash/internal/logging"
	"sysdash/internal/mcpserver"
	"sysdash/internal/output"
	"sysdash/internal/sampler"
	"sysdash/internal/snapshot"
	"sysdash/ui/console"
	"sysdash/ui/tui"
	"sysdash/ui/tui/state"
)

// Version is reported by the MCP server.
var Version = "dev"

// errQuit ends the run group when the user leaves the TUI.
var errQuit = errors.New("user quit")

// OpenLogger builds the logger described by cfg. Without a log file, records
// go to stderr, except in TUI mode where they would corrupt the screen and
// are discarded.
func OpenLogger(cfg config.LogConfig, stderr io.Writer, tuiMode bool) (*slog.Logger, io.Closer, error) {
	var w io.Writer = stderr
	var closer io.Closer = io.NopCloser(nil)

	switch {
	case cfg.File != "":
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w, closer = f, f
	case tuiMode:
		w = io.Discard
	}

	log, err := logging.New(cfg.Level, cfg.Format, w)
	if err != nil {
		closer.Close()
		return nil, nil, err
	}
	return log, closer, nil
}

// NewCollector connects a SystemCollector configured from cfg.
func NewCollector(ctx context.Context, cfg *config.Config, log *slog.Logger) (*collector.SystemCollector, error) {
	cc := cfg.CollectorConfig()
	if err := cc.Validate(); err != nil {
		return nil, err
	}
	c := collector.NewSystemCollector(cc, log)
	if err := c.Connect(ctx); err != nil {
		return nil, fmt.Errorf("connect collector: %w", err)
	}
	return c, nil
}

// RunOnce acquires a single snapshot and prints the console report.
func RunOnce(ctx context.Context, cfg *config.Config, provider collector.Provider, w io.Writer) error {
	if t := cfg.Sampler.AcquireTimeout; t > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t)
		defer cancel()
	}
	raw, err := provider.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire: %w", err)
	}
	snap, err := snapshot.Normalize(raw)
	if err != nil {
		return err
	}
	console.Print(w, output.BuildDashboard(snap))
	return nil
}

// Run samples continuously and serves every enabled front end until ctx is
// cancelled, the user quits the TUI, or a component fails.
func Run(ctx context.Context, cfg *config.Config, provider collector.Provider, log *slog.Logger) error {
	if log == nil {
		log = logging.Discard()
	}
	var consumers []sampler.Consumer

	var hub *httpapi.Hub
	if cfg.HTTP.Enabled {
		hub = httpapi.NewHub(log)
		consumers = append(consumers, hub)
	}

	var program *tui.Program
	if cfg.UI.Mode == config.ModeTUI {
		chart := state.ChartUtilization
		if cfg.UI.Chart == config.ChartTemperature {
			chart = state.ChartTemperature
		}
		program = tui.NewProgram(tui.Options{Capacity: cfg.Sampler.Window, Chart: chart})
		consumers = append(consumers, program)
	}

	loop := sampler.NewFromProvider(cfg.SamplerConfig(), provider,
		sampler.WithLogger(log),
		sampler.WithConsumers(consumers...),
	)

	g, gctx := errgroup.WithContext(ctx)
	if err := loop.Start(gctx); err != nil {
		return err
	}
	defer loop.Stop()

	if hub != nil {
		g.Go(func() error {
			hub.Run(gctx)
			return nil
		})

		api := httpapi.NewHandler(provider, loop, hub, cfg.Sampler.AcquireTimeout, log)
		router := httpapi.NewRouter(&httpapi.RouterDeps{
			API: api,
			WS:  httpapi.NewWSHandler(hub, cfg.HTTP.AllowedOrigins, log),
		})
		srv := httpapi.NewServer(router, cfg.HTTP.Addr)
		g.Go(func() error {
			return httpapi.Serve(gctx, srv, log)
		})
	}

	if program != nil {
		g.Go(func() error {
			if err := program.Run(gctx); err != nil {
				return fmt.Errorf("tui: %w", err)
			}
			return errQuit
		})
	} else {
		g.Go(func() error {
			<-gctx.Done()
			return nil
		})
	}

	log.Info("sysdash running",
		"mode", cfg.UI.Mode,
		"interval", cfg.Sampler.Interval,
		"window", cfg.Sampler.Window,
		"http", cfg.HTTP.Enabled,
	)

	if err := g.Wait(); err != nil && !errors.Is(err, errQuit) {
		return err
	}
	return nil
}

// RunMCP samples in the background and serves MCP tools over stdio until the
// client disconnects or ctx is cancelled.
func RunMCP(ctx context.Context, cfg *config.Config, provider collector.Provider, log *slog.Logger) error {
	if log == nil {
		log = logging.Discard()
	}
	loop := sampler.NewFromProvider(cfg.SamplerConfig(), provider, sampler.WithLogger(log))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if err := loop.Start(ctx); err != nil {
		return err
	}
	defer loop.Stop()

	srv := mcpserver.NewServer(mcpserver.Config{
		ServerName:     "sysdash",
		ServerVersion:  Version,
		AcquireTimeout: cfg.Sampler.AcquireTimeout,
	}, provider, loop, log)
	return srv.Start(ctx)
}
