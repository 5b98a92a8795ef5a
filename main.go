// Command chronorogue plays the embedded stages in this terminal against an
// in-process world. Finished runs are appended to the local run log.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"chronorogue/assets"
	"chronorogue/internal/game"
	"chronorogue/internal/mud"

	"github.com/gdamore/tcell/v2"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	templates, err := assets.Stages("")
	if err != nil {
		return err
	}
	// The screen owns the terminal; keep logs off it.
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	opts := []mud.Option{}
	if path, err := mud.DefaultRunLogPath(); err == nil {
		opts = append(opts, mud.WithRecorder(&mud.JSONLRecorder{Path: path}))
	}
	world, err := mud.NewServer(templates, logger, opts...)
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	stopped := make(chan struct{})
	go func() {
		_ = world.Run(ctx)
		close(stopped)
	}()

	name := os.Getenv("USER")
	if name == "" {
		name = "wanderer"
	}
	c := game.NewClient(world, screen, game.Config{Name: name, Logger: logger})
	err = c.Run(ctx)
	cancel()
	<-stopped
	return err
}
