// Package auth resolves the caller's identity from a bearer token. Identity
// management itself lives outside this service; we only verify tokens and
// carry the resulting identity through the request context.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ErrNotAuthenticated marks operations that require a signed-in user.
var ErrNotAuthenticated = errors.New("not authenticated")

// Identity is the verified caller.
type Identity struct {
	UserID string
	Email  string
}

// Verifier turns a bearer token into an identity. ok is false for unknown
// or expired tokens; err is reserved for verifier failures.
type Verifier interface {
	Verify(ctx context.Context, token string) (Identity, bool, error)
}

// StaticVerifier resolves tokens from a fixed map. Used in development and
// tests, configured as "token:userID:email" triples.
type StaticVerifier struct {
	users map[string]Identity
}

func NewStaticVerifier(entries []string) (*StaticVerifier, error) {
	users := make(map[string]Identity, len(entries))
	for _, e := range entries {
		parts := strings.SplitN(e, ":", 3)
		if len(parts) != 3 {
			return nil, fmt.Errorf("invalid static user entry: %q (want token:userID:email)", e)
		}
		users[parts[0]] = Identity{UserID: parts[1], Email: parts[2]}
	}
	return &StaticVerifier{users: users}, nil
}

func (v *StaticVerifier) Verify(_ context.Context, token string) (Identity, bool, error) {
	id, ok := v.users[token]
	return id, ok, nil
}

// HTTPVerifier asks an external userinfo endpoint to introspect the token.
type HTTPVerifier struct {
	url    string
	client *http.Client
}

func NewHTTPVerifier(userInfoURL string) *HTTPVerifier {
	return &HTTPVerifier{
		url:    userInfoURL,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (v *HTTPVerifier) Verify(ctx context.Context, token string) (Identity, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.url, nil)
	if err != nil {
		return Identity{}, false, fmt.Errorf("build userinfo request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := v.client.Do(req)
	if err != nil {
		return Identity{}, false, fmt.Errorf("userinfo request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return Identity{}, false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return Identity{}, false, fmt.Errorf("userinfo returned status %d", resp.StatusCode)
	}

	var body struct {
		Subject string `json:"sub"`
		Email   string `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Identity{}, false, fmt.Errorf("decode userinfo response: %w", err)
	}
	if body.Subject == "" {
		return Identity{}, false, nil
	}
	return Identity{UserID: body.Subject, Email: body.Email}, true, nil
}
