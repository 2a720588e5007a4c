package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// Client talks to the external identity service that owns OAuth flows and
// session issuance. The API itself never creates or stores credentials; it
// exchanges OAuth codes for session tokens here and verifies those tokens
// locally with the shared signing secret.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClientFromEnv builds a Client from IDENTITY_API_URL and
// IDENTITY_API_KEY. Both are required.
func NewClientFromEnv() (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(os.Getenv("IDENTITY_API_URL")), "/")
	if baseURL == "" {
		return nil, errors.New("IDENTITY_API_URL is not set")
	}
	apiKey := strings.TrimSpace(os.Getenv("IDENTITY_API_KEY"))
	if apiKey == "" {
		return nil, errors.New("IDENTITY_API_KEY is not set")
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}, nil
}

// GetOAuthRedirectURL asks the identity service for the provider's consent
// screen URL.
func (c *Client) GetOAuthRedirectURL(ctx context.Context, provider string) (string, error) {
	var out struct {
		RedirectURL string `json:"redirectUrl"`
	}
	path := "/oauth/" + url.PathEscape(provider) + "/redirect_url"
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return "", err
	}
	if out.RedirectURL == "" {
		return "", errors.New("identity service returned an empty redirect URL")
	}
	return out.RedirectURL, nil
}

// ExchangeCode trades an OAuth authorization code for a session token.
func (c *Client) ExchangeCode(ctx context.Context, code string) (string, error) {
	body := map[string]string{"code": code}
	var out struct {
		SessionToken string `json:"sessionToken"`
	}
	if err := c.do(ctx, http.MethodPost, "/sessions", body, &out); err != nil {
		return "", err
	}
	if out.SessionToken == "" {
		return "", errors.New("identity service returned an empty session token")
	}
	return out.SessionToken, nil
}

// DeleteSession revokes a session token upstream. A failed revocation is the
// caller's problem to log; the cookie is cleared regardless.
func (c *Client) DeleteSession(ctx context.Context, token string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/sessions", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("x-api-key", c.apiKey)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("identity service session delete failed with status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("x-api-key", c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("identity service %s %s failed with status %d", method, path, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
