// Package secrets resolves op:// references in configuration through
// 1Password Connect.
//
// Configuration is via environment variables:
//   - OP_CONNECT_HOST: URL of the 1Password Connect server
//   - OP_CONNECT_TOKEN: Access token for the Connect server
//
// A reference has the form op://<vault>/<item>/<field>. Plain values pass
// through untouched, so configs without any references never need a Connect
// server.
package secrets

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/1Password/connect-sdk-go/connect"
)

const refPrefix = "op://"

// IsRef reports whether value is a 1Password reference.
func IsRef(value string) bool {
	return strings.HasPrefix(value, refPrefix)
}

// Resolver resolves op:// references, caching lookups for the process
// lifetime.
type Resolver struct {
	client connect.Client
	logger *slog.Logger

	mu    sync.Mutex
	cache map[string]string
}

// NewResolverFromEnv creates a resolver from OP_CONNECT_* environment
// variables. It returns an error when they are missing, so callers should
// only construct a resolver once a reference has actually been seen.
func NewResolverFromEnv(logger *slog.Logger) (*Resolver, error) {
	host := os.Getenv("OP_CONNECT_HOST")
	token := os.Getenv("OP_CONNECT_TOKEN")
	if host == "" || token == "" {
		return nil, fmt.Errorf("1Password configuration incomplete: OP_CONNECT_HOST and OP_CONNECT_TOKEN are required")
	}

	return &Resolver{
		client: connect.NewClientWithUserAgent(host, token, "rigwatch"),
		logger: logger,
		cache:  make(map[string]string),
	}, nil
}

// Resolve returns the secret value behind ref. Non-reference values are
// returned unchanged.
func (r *Resolver) Resolve(ref string) (string, error) {
	if !IsRef(ref) {
		return ref, nil
	}

	r.mu.Lock()
	if cached, ok := r.cache[ref]; ok {
		r.mu.Unlock()
		return cached, nil
	}
	r.mu.Unlock()

	vaultTitle, itemTitle, field, err := parseRef(ref)
	if err != nil {
		return "", err
	}

	vaults, err := r.client.GetVaultsByTitle(vaultTitle)
	if err != nil {
		return "", fmt.Errorf("looking up vault %q: %w", vaultTitle, err)
	}
	if len(vaults) == 0 {
		return "", fmt.Errorf("vault %q not found", vaultTitle)
	}

	item, err := r.client.GetItemByTitle(itemTitle, vaults[0].ID)
	if err != nil {
		return "", fmt.Errorf("looking up item %q: %w", itemTitle, err)
	}

	for _, f := range item.Fields {
		if f.Label == field {
			r.mu.Lock()
			r.cache[ref] = f.Value
			r.mu.Unlock()
			r.logger.Debug("resolved secret reference", "vault", vaultTitle, "item", itemTitle, "field", field)
			return f.Value, nil
		}
	}

	return "", fmt.Errorf("field %q not found on item %q", field, itemTitle)
}

// parseRef splits op://vault/item/field.
func parseRef(ref string) (vault, item, field string, err error) {
	parts := strings.Split(strings.TrimPrefix(ref, refPrefix), "/")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return "", "", "", fmt.Errorf("invalid secret reference %q: want op://vault/item/field", ref)
	}
	return parts[0], parts[1], parts[2], nil
}
