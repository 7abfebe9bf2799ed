package session

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/yanqian/run-reporter/internal/infra/transport"
	apperrors "github.com/yanqian/run-reporter/pkg/errors"
)

const tokenTypeSession = "session"

// Service owns the upstream bearer token on behalf of a client.
type Service interface {
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)
	Resolve(ctx context.Context, token string) (Session, error)
	Token(ctx context.Context, sessionID string) (string, error)
	Logout(ctx context.Context, sessionID string) error
}

type service struct {
	cfg      Config
	store    Store
	upstream Upstream
	sealer   *tokenSealer
	logger   *slog.Logger
	now      func() time.Time
}

// NewService constructs a Service instance.
func NewService(cfg Config, store Store, upstream Upstream, logger *slog.Logger) (Service, error) {
	if strings.TrimSpace(cfg.Secret) == "" {
		return nil, fmt.Errorf("session secret cannot be empty")
	}
	sealer, err := newTokenSealer(cfg.EncryptionKey)
	if err != nil {
		return nil, err
	}
	return &service{
		cfg:      cfg,
		store:    store,
		upstream: upstream,
		sealer:   sealer,
		logger:   logger.With("component", "session.service"),
		now:      time.Now,
	}, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (LoginResponse, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		return LoginResponse{}, apperrors.Wrap(apperrors.CodeInvalidInput, "Email and password are required", nil)
	}

	res := s.upstream.Authenticate(ctx, Credentials{Email: email, Password: req.Password})
	if res.Status == transport.StatusNetworkError {
		return LoginResponse{}, apperrors.Wrap(apperrors.CodeUpstreamUnavailable, res.ErrorOr(transport.MessageNetworkError), nil)
	}
	if res.Failed() || strings.TrimSpace(res.Data.Token) == "" {
		s.logger.Warn("upstream login rejected", "status", res.Status)
		return LoginResponse{}, apperrors.Wrap(apperrors.CodeInvalidCredentials, res.ErrorOr("Authentication failed"), nil)
	}

	sealed, err := s.sealer.seal(res.Data.Token)
	if err != nil {
		return LoginResponse{}, apperrors.Wrap(apperrors.CodeSessionError, "failed to protect upstream token", err)
	}
	now := s.now()
	sess := Session{
		ID:            uuid.NewString(),
		UpstreamToken: sealed,
		CreatedAt:     now.UTC(),
		ExpiresAt:     now.Add(s.cfg.TTL).UTC(),
	}
	if err := s.store.Save(ctx, sess, s.cfg.TTL); err != nil {
		return LoginResponse{}, apperrors.Wrap(apperrors.CodeSessionError, "failed to store session", err)
	}

	signed, err := s.sign(sess)
	if err != nil {
		return LoginResponse{}, err
	}
	s.logger.Info("session created", "session_id", sess.ID)
	return LoginResponse{Token: signed, ExpiresAt: sess.ExpiresAt}, nil
}

func (s *service) Resolve(ctx context.Context, token string) (Session, error) {
	if strings.TrimSpace(token) == "" {
		return Session{}, apperrors.Wrap(apperrors.CodeInvalidToken, "token missing", nil)
	}
	sessionID, err := s.parse(token)
	if err != nil {
		return Session{}, err
	}
	sess, found, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return Session{}, apperrors.Wrap(apperrors.CodeSessionError, "failed to load session", err)
	}
	if !found {
		return Session{}, apperrors.Wrap(apperrors.CodeInvalidToken, "session not found", nil)
	}
	return sess, nil
}

func (s *service) Token(ctx context.Context, sessionID string) (string, error) {
	sess, found, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return "", apperrors.Wrap(apperrors.CodeSessionError, "failed to load session", err)
	}
	if !found {
		return "", apperrors.Wrap(apperrors.CodeInvalidToken, "session not found", nil)
	}
	token, err := s.sealer.open(sess.UpstreamToken)
	if err != nil {
		return "", apperrors.Wrap(apperrors.CodeSessionError, "failed to read upstream token", err)
	}
	return token, nil
}

func (s *service) Logout(ctx context.Context, sessionID string) error {
	if err := s.store.Delete(ctx, sessionID); err != nil {
		return apperrors.Wrap(apperrors.CodeSessionError, "failed to delete session", err)
	}
	s.logger.Info("session closed", "session_id", sessionID)
	return nil
}

type tokenClaims struct {
	jwt.RegisteredClaims
	TokenType string `json:"type"`
}

func (s *service) sign(sess Session) (string, error) {
	claims := tokenClaims{
		TokenType: tokenTypeSession,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sess.ID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(sess.CreatedAt),
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", apperrors.Wrap(apperrors.CodeSessionError, "failed to sign token", err)
	}
	return signed, nil
}

func (s *service) parse(token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &tokenClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %s", t.Method.Alg())
		}
		return []byte(s.cfg.Secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return "", apperrors.Wrap(apperrors.CodeInvalidToken, "token validation failed", err)
	}
	claims, ok := parsed.Claims.(*tokenClaims)
	if !ok || !parsed.Valid {
		return "", apperrors.Wrap(apperrors.CodeInvalidToken, "token invalid", nil)
	}
	if claims.TokenType != tokenTypeSession {
		return "", apperrors.Wrap(apperrors.CodeInvalidToken, "token type mismatch", nil)
	}
	if claims.ExpiresAt == nil {
		return "", apperrors.Wrap(apperrors.CodeInvalidToken, "token missing expiry", nil)
	}
	if claims.Subject == "" {
		return "", apperrors.Wrap(apperrors.CodeInvalidToken, "token missing subject", nil)
	}
	return claims.Subject, nil
}
