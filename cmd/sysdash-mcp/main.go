// Command sysdash-mcp serves sysdash metrics as MCP tools over stdio.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"sysdash/internal/app"
	"sysdash/internal/config"
)

func main() {
	flags := config.RegisterFlags(flag.CommandLine)
	flag.Parse()

	if err := run(flags); err != nil {
		fmt.Fprintf(os.Stderr, "sysdash-mcp: %v\n", err)
		os.Exit(1)
	}
}

func run(flags *config.Flags) error {
	cfg, err := config.Load(flags.ConfigPath, flags.EnvFile)
	if err != nil {
		return err
	}
	flags.Apply(cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	// stdout carries the MCP protocol, so logs always go to stderr or a file.
	log, closer, err := app.OpenLogger(cfg.Log, os.Stderr, false)
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sc, err := app.NewCollector(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer sc.Disconnect(context.Background())

	return app.RunMCP(ctx, cfg, sc, log)
}
