package transport

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

type payload struct {
	Name string `json:"name"`
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL+"/", 0, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestNewClientNormalizesBaseURL(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	require.Equal(t, "http://upstream.local/api", NewClient(" http://upstream.local/api// ", 0, logger).BaseURL())
	require.Equal(t, "", NewClient("  ", 0, logger).BaseURL())
}

func TestDoSuccessAddsBearerToken(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/activities/latest", r.URL.Path)
		require.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		_, _ = w.Write([]byte(`{"name":"run"}`))
	})

	res := Do[payload](context.Background(), client, http.MethodGet, "/activities/latest", "secret", nil)
	require.False(t, res.Failed())
	require.Equal(t, http.StatusOK, res.Status)
	require.Equal(t, "run", res.Data.Name)
}

func TestDoOmitsAuthorizationWithoutToken(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Empty(t, r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		require.JSONEq(t, `{"name":"login"}`, string(body))
		_, _ = w.Write([]byte(`{"name":"ok"}`))
	})

	res := Do[payload](context.Background(), client, http.MethodPost, "/auth", "", payload{Name: "login"})
	require.False(t, res.Failed())
}

func TestDoErrorStatusUsesBodyMessage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"Token expired"}`))
	})

	res := Do[payload](context.Background(), client, http.MethodGet, "/activities", "t", nil)
	require.True(t, res.Failed())
	require.True(t, res.Unauthorized())
	require.Equal(t, http.StatusUnauthorized, res.Status)
	require.Equal(t, "Token expired", res.Error)
}

func TestDoErrorStatusWithoutJSON(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	})

	res := Do[payload](context.Background(), client, http.MethodGet, "/activities", "t", nil)
	require.Equal(t, http.StatusBadGateway, res.Status)
	require.Equal(t, MessageUnexpected, res.Error)
}

func TestDoMalformedSuccessBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>`))
	})

	res := Do[payload](context.Background(), client, http.MethodGet, "/activities", "t", nil)
	require.True(t, res.Failed())
	require.Equal(t, http.StatusOK, res.Status)
	require.Equal(t, MessageMalformed, res.Error)
}

func TestDoNoContent(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	res := Do[payload](context.Background(), client, http.MethodGet, "/activities/latest", "t", nil)
	require.Equal(t, http.StatusNoContent, res.Status)
	require.Nil(t, res.Data)
	require.Empty(t, res.Error)
	require.True(t, res.Failed())
	require.Equal(t, "fallback", res.ErrorOr("fallback"))
}

func TestDoNullBodyCarriesNoData(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(" null\n"))
	})

	single := Do[payload](context.Background(), client, http.MethodGet, "/activities/latest", "t", nil)
	require.Equal(t, http.StatusOK, single.Status)
	require.Nil(t, single.Data)
	require.True(t, single.Failed())
	require.Equal(t, "fallback", single.ErrorOr("fallback"))

	list := Do[[]payload](context.Background(), client, http.MethodGet, "/activities", "t", nil)
	require.Nil(t, list.Data)
	require.True(t, list.Failed())
}

func TestDoNetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := NewClient(url, 0, slog.New(slog.NewTextHandler(io.Discard, nil)))
	res := Do[payload](context.Background(), client, http.MethodGet, "/activities", "", nil)
	require.Equal(t, StatusNetworkError, res.Status)
	require.Equal(t, MessageNetworkError, res.Error)
}
