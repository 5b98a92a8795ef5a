// chronorogue-server runs the shared world and serves it over WebSocket
// (browsers and bots) and SSH (terminals). Build:
//
//	go build -o chronorogue-server ./cmd/server
//
// Usage:
//
//	./chronorogue-server [--config chronorogue.yaml] [--http :8080] [--port 2222] [--key server_host_key]
//
// Connect a terminal:
//
//	ssh -p 2222 yourname@localhost
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chronorogue/assets"
	"chronorogue/internal/config"
	"chronorogue/internal/leaderboard"
	"chronorogue/internal/mud"
	internalssh "chronorogue/internal/ssh"
	"chronorogue/internal/stage"
	"chronorogue/internal/transport/ws"

	gossh "github.com/gliderlabs/ssh"
)

func main() {
	f, err := parseFlags(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}
	cfg, err := config.Load(f.configPath)
	if err == nil {
		err = f.apply(&cfg)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}
	level, _ := cfg.Level()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

// flags are the command-line overrides, applied over the config file and
// environment.
type flags struct {
	fs         *flag.FlagSet
	configPath string
	httpAddr   string
	port       int
	keyFile    string
	stageDir   string
	db         string
}

func parseFlags(args []string) (*flags, error) {
	f := &flags{fs: flag.NewFlagSet("chronorogue-server", flag.ContinueOnError)}
	f.fs.StringVar(&f.configPath, "config", "", "Path to a YAML config file")
	f.fs.StringVar(&f.httpAddr, "http", "", "HTTP/WebSocket listen address")
	f.fs.IntVar(&f.port, "port", 0, "SSH server port (0 disables SSH)")
	f.fs.StringVar(&f.keyFile, "key", "", "Path to the PEM-encoded host key (auto-generated if absent)")
	f.fs.StringVar(&f.stageDir, "stages", "", "Directory of stage YAML files (default: embedded)")
	f.fs.StringVar(&f.db, "db", "", "SQLite leaderboard path (default: JSONL run log)")
	if err := f.fs.Parse(args); err != nil {
		return nil, err
	}
	return f, nil
}

// apply copies the flags that were given onto cfg and validates the result.
func (f *flags) apply(cfg *config.Config) error {
	f.fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "http":
			cfg.HTTPAddr = f.httpAddr
		case "port":
			cfg.SSHPort = f.port
		case "key":
			cfg.HostKeyPath = f.keyFile
		case "stages":
			cfg.StageDir = f.stageDir
		case "db":
			cfg.LeaderboardDB = f.db
		}
	})
	return cfg.Validate()
}

// loadStages reads the stage files and appends the generated stages.
func loadStages(cfg config.Config) ([]*stage.Template, error) {
	templates, err := assets.Stages(cfg.StageDir)
	if err != nil {
		return nil, err
	}
	generated, err := assets.Generated(cfg.GeneratedStages, cfg.StageSeed)
	if err != nil {
		return nil, err
	}
	return append(templates, generated...), nil
}

// runStore picks where finished runs go. With a leaderboard database the
// store also answers top-N queries; board is nil otherwise.
func runStore(cfg config.Config) (rec mud.Recorder, board ws.Board, closeFn func() error, err error) {
	if cfg.LeaderboardDB != "" {
		store, err := leaderboard.Open(cfg.LeaderboardDB)
		if err != nil {
			return nil, nil, nil, err
		}
		return store, store, store.Close, nil
	}
	path := cfg.RunLog
	if path == "" {
		if path, err = mud.DefaultRunLogPath(); err != nil {
			return nil, nil, nil, err
		}
	}
	return &mud.JSONLRecorder{Path: path}, nil, func() error { return nil }, nil
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	templates, err := loadStages(cfg)
	if err != nil {
		return fmt.Errorf("stages: %w", err)
	}
	rec, board, closeStore, err := runStore(cfg)
	if err != nil {
		return fmt.Errorf("run store: %w", err)
	}
	defer closeStore()

	world, err := mud.NewServer(templates, logger,
		mud.WithPollInterval(cfg.PollInterval),
		mud.WithRecorder(rec),
	)
	if err != nil {
		return err
	}
	transport, err := ws.NewServer(world, board, logger, cfg.ActRate)
	if err != nil {
		return err
	}
	var (
		sshSrv     *gossh.Server
		sshHandler *internalssh.Handler
	)
	if cfg.SSHPort != 0 {
		signer, err := internalssh.LoadOrCreateHostKey(cfg.HostKeyPath, logger)
		if err != nil {
			return err
		}
		sshHandler = internalssh.NewHandler(world, board, logger, cfg.ActRate)
		sshSrv = internalssh.NewServer(fmt.Sprintf(":%d", cfg.SSHPort), signer, sshHandler)
	}

	// The world outlives the signal context so departures queued while the
	// transports close are still processed and recorded.
	worldCtx, stopWorld := context.WithCancel(context.Background())
	defer stopWorld()
	errc := make(chan error, 3)
	stopped := make(chan struct{})
	go func() {
		errc <- world.Run(worldCtx)
		close(stopped)
	}()

	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           transport.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() { errc <- httpSrv.ListenAndServe() }()
	logger.Info("http listening", "addr", cfg.HTTPAddr, "stages", len(templates))

	if sshSrv != nil {
		go func() { errc <- sshSrv.ListenAndServe() }()
		logger.Info("ssh listening", "port", cfg.SSHPort,
			"hint", fmt.Sprintf("ssh -p %d -o StrictHostKeyChecking=no yourname@localhost", cfg.SSHPort))
	}

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errc:
	}

	if sshSrv != nil {
		_ = sshSrv.Close()
		sshHandler.Wait()
	}
	shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
	defer done()
	_ = httpSrv.Shutdown(shutdownCtx)
	transport.Close()

	stopWorld()
	<-stopped
	if runErr == nil || errors.Is(runErr, context.Canceled) || errors.Is(runErr, http.ErrServerClosed) {
		return nil
	}
	return runErr
}
