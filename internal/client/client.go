// Package client provides the mining-control API client.
//
// # Operations
//
// - FetchStatus: aggregate miner status
// - FetchDevices: per-device state
// - FetchPools: upstream pool state
//
// The three fetches are independent so that one resource failing does not
// prevent evaluating the other two. Failures come back as *FetchError with a
// transport-level kind; an API payload reporting success=false is data, not
// an error.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/minerops/rigwatch/pkg/types"
)

// DefaultTimeout bounds every request against the mining API.
const DefaultTimeout = 10 * time.Second

// FailureKind classifies a transport-level fetch failure.
type FailureKind string

const (
	// FailureUnreachable means the API host could not be reached at all.
	FailureUnreachable FailureKind = "unreachable"
	// FailureTimeout means the request exceeded its deadline.
	FailureTimeout FailureKind = "timeout"
	// FailureBadResponse means the API answered with a non-OK status or a
	// body that did not parse.
	FailureBadResponse FailureKind = "bad_response"
	// FailureCanceled means the caller's context was cancelled mid-request,
	// typically during shutdown. It says nothing about the API.
	FailureCanceled FailureKind = "canceled"
)

// FetchError is a transport failure for a single resource.
type FetchError struct {
	Resource string // "status", "devices", "pools"
	Kind     FailureKind
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching %s: %s: %v", e.Resource, e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Client communicates with the mining-control API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	authToken  string
	limiter    *rate.Limiter
}

// Config for the client.
type Config struct {
	BaseURL    string        // e.g. http://localhost:8080
	AuthToken  string        // Optional bearer token
	Timeout    time.Duration // Per-request timeout (default: 10s)
	RateLimit  int           // Requests per minute (0 = unlimited)
	HTTPClient *http.Client  // Optional, mainly for tests
}

// New creates a new mining API client.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: timeout}
	}

	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(cfg.RateLimit)/60.0), 1)
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: cfg.HTTPClient,
		authToken:  cfg.AuthToken,
		limiter:    limiter,
	}
}

// FetchStatus retrieves the aggregate miner status.
func (c *Client) FetchStatus(ctx context.Context) (*types.Status, error) {
	var status types.Status
	if err := c.get(ctx, "status", "/api/v1/status", &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// FetchDevices retrieves per-device state.
func (c *Client) FetchDevices(ctx context.Context) ([]types.DeviceInfo, error) {
	var envelope struct {
		Data []types.DeviceInfo `json:"data"`
	}
	if err := c.get(ctx, "devices", "/api/v1/devices", &envelope); err != nil {
		return nil, err
	}
	return envelope.Data, nil
}

// FetchPools retrieves upstream pool state.
func (c *Client) FetchPools(ctx context.Context) ([]types.PoolInfo, error) {
	var envelope struct {
		Data []types.PoolInfo `json:"data"`
	}
	if err := c.get(ctx, "pools", "/api/v1/pools", &envelope); err != nil {
		return nil, err
	}
	return envelope.Data, nil
}

// get performs a GET request and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, resource, path string, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return &FetchError{Resource: resource, Kind: FailureTimeout, Err: err}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return &FetchError{Resource: resource, Kind: FailureBadResponse, Err: err}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "rigwatch/1.0")
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &FetchError{Resource: resource, Kind: classify(err), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &FetchError{
			Resource: resource,
			Kind:     FailureBadResponse,
			Err:      fmt.Errorf("status %d: %s", resp.StatusCode, string(body)),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &FetchError{
			Resource: resource,
			Kind:     FailureBadResponse,
			Err:      fmt.Errorf("decoding response: %w", err),
		}
	}

	return nil
}

// classify maps a request error onto the transport failure taxonomy.
func classify(err error) FailureKind {
	if errors.Is(err, context.Canceled) {
		return FailureCanceled
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return FailureTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return FailureTimeout
	}
	return FailureUnreachable
}
