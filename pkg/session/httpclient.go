package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// RefreshResponse is the renewal endpoint's success payload.
type RefreshResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// RenewalClient performs the renewal exchange with the server-owned auth
// endpoint. Implementations must honor the context deadline; any failure is
// treated as soft by the negotiator.
type RenewalClient interface {
	Refresh(ctx context.Context, token string) (RefreshResponse, error)
}

// HTTPRenewalClient calls POST <baseURL>/auth/refresh with a bearer
// credential header.
type HTTPRenewalClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPRenewalClient creates a client for the given domain base URL.
// Passing a nil httpClient uses http.DefaultClient; the per-attempt timeout
// comes from the caller's context either way.
func NewHTTPRenewalClient(baseURL string, httpClient *http.Client) *HTTPRenewalClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HTTPRenewalClient{baseURL: baseURL, httpClient: httpClient}
}

// Refresh exchanges the current credential for a fresh one.
func (c *HTTPRenewalClient) Refresh(ctx context.Context, token string) (RefreshResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/refresh", bytes.NewReader([]byte("{}")))
	if err != nil {
		return RefreshResponse{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return RefreshResponse{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return RefreshResponse{}, fmt.Errorf("%w: unexpected status %d", ErrRenewalFailed, resp.StatusCode)
	}

	var out RefreshResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return RefreshResponse{}, fmt.Errorf("%w: %w", ErrRenewalFailed, err)
	}
	if out.Token == "" {
		return RefreshResponse{}, fmt.Errorf("%w: empty token in response", ErrRenewalFailed)
	}

	return out, nil
}
