package portal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"stocksync/feature/supplier"
)

const defaultTimeout = 60 * time.Second

// Connector integrates suppliers that only expose inventory behind a dealer
// portal. It logs in with a form POST, keeps the session cookies, and reads
// the portal's JSON inventory export with that session.
type Connector struct {
	name         string
	portalURL    string
	loginURL     string
	inventoryURL string
	username     string
	password     string

	client        *http.Client
	authenticated bool
}

// New builds a portal connector from a supplier definition. Required config
// keys: portal_url, inventory_url, username, password. Optional: login_url
// (defaults to portal_url).
func New(def supplier.Definition) (*Connector, error) {
	portalURL := def.Config["portal_url"]
	inventoryURL := def.Config["inventory_url"]
	if portalURL == "" || inventoryURL == "" {
		return nil, fmt.Errorf("supplier %s: missing portal_url or inventory_url", def.Name)
	}
	if def.Config["username"] == "" || def.Config["password"] == "" {
		return nil, fmt.Errorf("supplier %s: missing credentials", def.Name)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	loginURL := def.Config["login_url"]
	if loginURL == "" {
		loginURL = portalURL
	}

	return &Connector{
		name:         def.Name,
		portalURL:    portalURL,
		loginURL:     loginURL,
		inventoryURL: inventoryURL,
		username:     def.Config["username"],
		password:     def.Config["password"],
		client:       &http.Client{Timeout: defaultTimeout, Jar: jar},
	}, nil
}

// Name implements supplier.Connector.
func (c *Connector) Name() string {
	return c.name
}

// Authenticate establishes a portal session. The portal page is fetched
// first so the server hands out its session cookies, then the login form is
// posted against the same session. Success is verified by actually reading
// the inventory export once; portals tend to answer login failures with a
// 200 page, so the export is the only reliable signal.
func (c *Connector) Authenticate(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.portalURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build portal request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to access portal: %w", err)
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to access portal: HTTP %d", resp.StatusCode)
	}

	form := url.Values{
		"username": {c.username},
		"password": {c.password},
	}
	req, err = http.NewRequestWithContext(ctx, http.MethodPost, c.loginURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err = c.client.Do(req)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("login failed: HTTP %d", resp.StatusCode)
	}

	if _, err := c.fetchExport(ctx); err != nil {
		return fmt.Errorf("could not access inventory export after login, check credentials: %w", err)
	}

	c.authenticated = true
	return nil
}

// FetchInventory reads the portal's JSON inventory export.
func (c *Connector) FetchInventory(ctx context.Context) ([]supplier.RawRecord, error) {
	if !c.authenticated {
		return nil, fmt.Errorf("not authenticated")
	}
	return c.fetchExport(ctx)
}

func (c *Connector) fetchExport(ctx context.Context) ([]supplier.RawRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.inventoryURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build export request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("export request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("export request failed: HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read export response: %w", err)
	}

	return parseExport(body)
}

// parseExport accepts the two shapes portals hand out: a bare array of rows,
// or an object wrapping the rows under a products/items key.
func parseExport(body []byte) ([]supplier.RawRecord, error) {
	var records []supplier.RawRecord
	if err := json.Unmarshal(body, &records); err == nil {
		return records, nil
	}

	var doc struct {
		Products []supplier.RawRecord `json:"products"`
		Items    []supplier.RawRecord `json:"items"`
	}
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode inventory export: %w", err)
	}
	if doc.Products != nil {
		return doc.Products, nil
	}
	return doc.Items, nil
}

// Close implements supplier.Connector.
func (c *Connector) Close() error {
	c.authenticated = false
	c.client.CloseIdleConnections()
	return nil
}
