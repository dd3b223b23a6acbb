package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"heron/internal/config"
	"heron/internal/session"
)

func newLogger(debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

func resolveWorkRoot(repoFlag string) (string, error) {
	root := repoFlag
	if root == "" {
		var err error
		root, err = os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get current directory: %w", err)
		}
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("failed to resolve working root: %w", err)
	}
	if info, err := os.Stat(abs); err != nil || !info.IsDir() {
		return "", fmt.Errorf("working root is not a valid directory: %s", abs)
	}
	return abs, nil
}

func openStore(ctx context.Context, mgr *config.Manager, cfg *config.Config) (*session.Store, error) {
	dbPath := cfg.SessionDBPath
	if dbPath == "" {
		if err := os.MkdirAll(mgr.DataDir(), 0755); err != nil {
			return nil, fmt.Errorf("failed to create data dir: %w", err)
		}
		dbPath = filepath.Join(mgr.DataDir(), "sessions.db")
	}
	return session.NewStore(ctx, dbPath)
}
