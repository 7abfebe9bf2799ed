package garmin

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/yanqian/run-reporter/internal/domain/activity"
	"github.com/yanqian/run-reporter/internal/domain/session"
	"github.com/yanqian/run-reporter/internal/infra/transport"
)

const (
	authPath     = "/auth"
	latestPath   = "/activities/latest"
	activityPath = "/activities"
)

// Client talks to the activity backend that proxies the user's Garmin account.
type Client struct {
	transport *transport.Client
}

// NewClient builds an API client on top of the shared transport.
func NewClient(t *transport.Client) *Client {
	return &Client{transport: t}
}

// Authenticate exchanges credentials for a bearer token.
func (c *Client) Authenticate(ctx context.Context, creds session.Credentials) transport.Result[session.AuthToken] {
	return transport.Do[session.AuthToken](ctx, c.transport, http.MethodPost, authPath, "", creds)
}

// Latest fetches the most recent activity.
func (c *Client) Latest(ctx context.Context, token string) transport.Result[activity.Activity] {
	return transport.Do[activity.Activity](ctx, c.transport, http.MethodGet, latestPath, token, nil)
}

// List fetches the num most recent activities, newest first.
func (c *Client) List(ctx context.Context, token string, num int) transport.Result[[]activity.Activity] {
	query := url.Values{}
	query.Set("num", strconv.Itoa(num))
	return transport.Do[[]activity.Activity](ctx, c.transport, http.MethodGet, activityPath+"?"+query.Encode(), token, nil)
}

var (
	_ session.Upstream  = (*Client)(nil)
	_ activity.Upstream = (*Client)(nil)
)
