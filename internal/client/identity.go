package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrUnauthenticated means the identity collaborator refused us; the
// session cannot start and the caller should route to the external login
// flow. Nothing in this package retries it.
var ErrUnauthenticated = errors.New("client: not authenticated")

// Identity is the stable player identity the simulation requires before
// any connection is attempted.
type Identity struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// ResolveIdentity asks the external identity service who we are.
func ResolveIdentity(ctx context.Context, httpClient *http.Client, baseURL string) (Identity, error) {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/api/current-user", nil)
	if err != nil {
		return Identity{}, err
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return Identity{}, fmt.Errorf("resolve identity: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Identity{}, fmt.Errorf("%w: status %d", ErrUnauthenticated, resp.StatusCode)
	}
	var id Identity
	if err := json.NewDecoder(resp.Body).Decode(&id); err != nil {
		return Identity{}, fmt.Errorf("decode identity: %w", err)
	}
	if id.ID == "" {
		return Identity{}, fmt.Errorf("%w: empty id", ErrUnauthenticated)
	}
	return id, nil
}
