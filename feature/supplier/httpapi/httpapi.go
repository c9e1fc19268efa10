package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"stocksync/feature/supplier"
)

const (
	defaultAuthPath      = "/auth/token"
	defaultInventoryPath = "/inventory"
	defaultTimeout       = 60 * time.Second
)

// Connector talks to suppliers exposing a token-authenticated REST API.
// Authenticate exchanges the configured credentials for a bearer token;
// FetchInventory pulls the full inventory document in one request.
type Connector struct {
	name          string
	baseURL       string
	authPath      string
	inventoryPath string
	username      string
	password      string

	client *http.Client
	token  string
}

// New builds an API connector from a supplier definition. Required config
// keys: base_url, username, password. Optional: auth_path, inventory_path.
func New(def supplier.Definition) (*Connector, error) {
	baseURL := def.Config["base_url"]
	if baseURL == "" {
		return nil, fmt.Errorf("supplier %s: missing base_url", def.Name)
	}
	if def.Config["username"] == "" || def.Config["password"] == "" {
		return nil, fmt.Errorf("supplier %s: missing credentials", def.Name)
	}

	c := &Connector{
		name:          def.Name,
		baseURL:       baseURL,
		authPath:      defaultAuthPath,
		inventoryPath: defaultInventoryPath,
		username:      def.Config["username"],
		password:      def.Config["password"],
		client:        &http.Client{Timeout: defaultTimeout},
	}
	if p := def.Config["auth_path"]; p != "" {
		c.authPath = p
	}
	if p := def.Config["inventory_path"]; p != "" {
		c.inventoryPath = p
	}
	return c, nil
}

// Name implements supplier.Connector.
func (c *Connector) Name() string {
	return c.name
}

// Authenticate requests a bearer token from the supplier's auth endpoint.
func (c *Connector) Authenticate(ctx context.Context) error {
	payload, err := json.Marshal(map[string]string{
		"username": c.username,
		"password": c.password,
	})
	if err != nil {
		return fmt.Errorf("failed to encode credentials: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+c.authPath, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build auth request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("auth request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("auth request failed: HTTP %d", resp.StatusCode)
	}

	var body struct {
		Token       string `json:"token"`
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("failed to decode auth response: %w", err)
	}

	token := body.Token
	if token == "" {
		token = body.AccessToken
	}
	if token == "" {
		return fmt.Errorf("auth response contained no token")
	}

	c.token = token
	return nil
}

// FetchInventory retrieves the supplier's inventory rows.
func (c *Connector) FetchInventory(ctx context.Context) ([]supplier.RawRecord, error) {
	if c.token == "" {
		return nil, fmt.Errorf("not authenticated")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+c.inventoryPath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build inventory request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("inventory request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("inventory request failed: HTTP %d: %s", resp.StatusCode, body)
	}

	var doc struct {
		Products []supplier.RawRecord `json:"products"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode inventory response: %w", err)
	}

	return doc.Products, nil
}

// Close implements supplier.Connector. The API session is stateless beyond
// the token, so there is nothing to tear down.
func (c *Connector) Close() error {
	c.token = ""
	return nil
}
