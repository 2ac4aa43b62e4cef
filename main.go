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
		fmt.Fprintf(os.Stderr, "sysdash: %v\n", err)
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

	log, closer, err := app.OpenLogger(cfg.Log, os.Stderr, cfg.UI.Mode == config.ModeTUI)
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

	if cfg.UI.Mode == config.ModeOnce {
		return app.RunOnce(ctx, cfg, sc, os.Stdout)
	}
	return app.Run(ctx, cfg, sc, log)
}
