package cli

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"

	"github.com/atotto/clipboard"

	"github.com/yanqian/run-reporter/internal/domain/activity"
	"github.com/yanqian/run-reporter/internal/domain/report"
	"github.com/yanqian/run-reporter/internal/domain/session"
	"github.com/yanqian/run-reporter/internal/infra/config"
	"github.com/yanqian/run-reporter/internal/infra/garmin"
	"github.com/yanqian/run-reporter/internal/infra/sessionstore"
	"github.com/yanqian/run-reporter/internal/infra/transport"
)

// App holds the services one terminal invocation works with.
type App struct {
	Sessions   session.Service
	Activities activity.Service
	Reports    report.Service
	Out        io.Writer
	Logger     *slog.Logger

	copyText func(string) error
}

// NewApp wires the domain services against the configured upstream.
// Sessions live in process memory and end with the invocation.
func NewApp(cfg config.UpstreamConfig, out io.Writer, logger *slog.Logger) (*App, error) {
	upstream := transport.NewClient(cfg.BaseURL, cfg.Timeout, logger)
	logger.Debug("upstream client configured", "base_url", upstream.BaseURL())
	client := garmin.NewClient(upstream)
	store := sessionstore.NewMemoryStore()

	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("generate session secret: %w", err)
	}
	sessions, err := session.NewService(session.Config{
		Secret: hex.EncodeToString(secret),
		TTL:    config.DefaultSessionTTL,
	}, store, client, logger)
	if err != nil {
		return nil, err
	}

	return &App{
		Sessions:   sessions,
		Activities: activity.NewService(client, sessions, store, cfg.ListSize, logger),
		Reports:    report.NewService(logger),
		Out:        out,
		Logger:     logger.With("component", "cli"),
		copyText:   clipboard.WriteAll,
	}, nil
}
