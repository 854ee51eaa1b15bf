package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/pflag"

	"moodlamp-go/services/lamp/sim"
)

var (
	config  = ""
	logFile = ""
	verbose = false
	wiper   = -1
)

func init() {
	pflag.StringVarP(&config, "config", "c", config, "TOML configuration file (optional)")
	pflag.StringVarP(&logFile, "log", "l", logFile, "log file; logs are discarded when empty")
	pflag.BoolVarP(&verbose, "verbose", "v", verbose, "verbose output")
	pflag.IntVarP(&wiper, "wiper", "w", wiper, "initial potentiometer position 0..1023")
}

func main() {
	pflag.Parse()

	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	logger, closeLog, err := newLogger()
	if err != nil {
		return err
	}
	defer closeLog()
	slog.SetDefault(logger)

	cfg, err := readConfig()
	if err != nil {
		return err
	}
	if pflag.CommandLine.Changed("wiper") {
		if wiper < 0 || wiper > 1023 {
			return fmt.Errorf("--wiper %d out of range 0..1023", wiper)
		}
		cfg.Wiper = uint16(wiper)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to init screen: %w", err)
	}
	defer screen.Fini()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	s, err := sim.New(cfg, screen, logger)
	if err != nil {
		return fmt.Errorf("failed to create simulator: %w", err)
	}
	if err := s.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("simulator failed: %w", err)
	}
	return nil
}

// newLogger writes to --log; the terminal belongs to the UI.
func newLogger() (*slog.Logger, func(), error) {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}

	var w io.Writer = io.Discard
	closeFn := func() {}
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		w = f
		closeFn = func() { f.Close() }
	}

	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: logLevel,
	}))
	return logger, closeFn, nil
}

func readConfig() (*sim.Config, error) {
	if config == "" {
		cfg := sim.DefaultConfig()
		return &cfg, nil
	}
	f, err := os.Open(config)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	return sim.ParseConfig(f)
}
