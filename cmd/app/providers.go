package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/run-reporter/internal/domain/activity"
	"github.com/yanqian/run-reporter/internal/domain/session"
	"github.com/yanqian/run-reporter/internal/infra/config"
	"github.com/yanqian/run-reporter/internal/infra/garmin"
	"github.com/yanqian/run-reporter/internal/infra/sessionstore"
	"github.com/yanqian/run-reporter/internal/infra/transport"
)

func provideUpstreamClient(cfg *config.Config, logger *slog.Logger) *garmin.Client {
	client := transport.NewClient(cfg.Upstream.BaseURL, cfg.Upstream.Timeout, logger)
	logger.Info("upstream client configured", "base_url", client.BaseURL(), "timeout", cfg.Upstream.Timeout)
	return garmin.NewClient(client)
}

func provideSessionConfig(cfg *config.Config, logger *slog.Logger) (session.Config, error) {
	secret := strings.TrimSpace(cfg.Session.Secret)
	if secret == "" {
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			return session.Config{}, fmt.Errorf("generate session secret: %w", err)
		}
		secret = hex.EncodeToString(buf)
		logger.Warn("session secret not set, using a random one; tokens will not survive a restart")
	}
	return session.Config{
		Secret:        secret,
		TTL:           cfg.Session.TTL,
		EncryptionKey: cfg.Session.EncryptionKey,
	}, nil
}

func provideSessionStore(cfg *config.Config, logger *slog.Logger) sessionstore.Store {
	if cfg.Session.Valkey.Enabled {
		opt, err := buildValkeyOptions(cfg)
		if err != nil {
			logger.Error("invalid valkey configuration, falling back to memory store", "error", err)
			return sessionstore.NewMemoryStore()
		}
		client, err := valkey.NewClient(opt)
		if err != nil {
			logger.Error("failed to create valkey client, falling back to memory store", "error", err)
			return sessionstore.NewMemoryStore()
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
			logger.Error("valkey ping failed, falling back to memory store", "error", err)
			client.Close()
		} else {
			logger.Info("session valkey store enabled", "addr", cfg.Session.Valkey.Addr)
			return sessionstore.NewValkeyStore(client, cfg.Session.Valkey.Prefix)
		}
	}
	return sessionstore.NewMemoryStore()
}

func provideSessionStorage(store sessionstore.Store) session.Store {
	return store
}

func provideStateStore(store sessionstore.Store) activity.StateStore {
	return store
}

func provideActivityService(cfg *config.Config, upstream activity.Upstream, sessions session.Service, states activity.StateStore, logger *slog.Logger) activity.Service {
	return activity.NewService(upstream, sessions, states, cfg.Upstream.ListSize, logger)
}

func buildValkeyOptions(cfg *config.Config) (valkey.ClientOption, error) {
	var (
		opt valkey.ClientOption
		err error
	)
	if strings.Contains(cfg.Session.Valkey.Addr, "://") {
		opt, err = valkey.ParseURL(cfg.Session.Valkey.Addr)
	} else {
		opt = valkey.ClientOption{InitAddress: []string{cfg.Session.Valkey.Addr}}
	}
	if err != nil {
		return valkey.ClientOption{}, err
	}
	return opt, nil
}
