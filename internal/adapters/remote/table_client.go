package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/Fernandol1z6/site-do-estudio/internal/domain/entities"
	"github.com/Fernandol1z6/site-do-estudio/internal/infrastructure/config"
	"github.com/Fernandol1z6/site-do-estudio/internal/ports"
)

// Table names on the hosted table service.
const (
	TablePhotos    = "photos"
	TableWorkCards = "work_cards"
	TableServices  = "services"
	TableAbout     = "about"
	TableSettings  = "settings"
)

// noRowsCode is the distinguished error code the table service returns when
// a singleton fetch matches zero rows. It maps to entities.ErrNoRows and is
// never treated as a failure.
const noRowsCode = "PGRST116"

const (
	acceptJSON   = "application/json"
	acceptSingle = "application/vnd.pgrst.object+json"
)

// Client talks the generic select/insert/update/delete protocol of the
// hosted table service over its REST surface.
type Client struct {
	cfg  config.RemoteConfig
	http *http.Client
}

// New creates a table service client from configuration.
func New(cfg config.RemoteConfig) *Client {
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

var _ ports.TableClient = (*Client)(nil)

// Available reports whether remote access is enabled by configuration.
func (c *Client) Available() bool {
	return c.cfg.Enabled && c.cfg.URL != ""
}

// apiError is the error envelope the table service returns.
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func (e *apiError) Error() string {
	return fmt.Sprintf("table service: %s (code %s)", e.Message, e.Code)
}

func (c *Client) endpoint(table, query string) string {
	url := strings.TrimSuffix(c.cfg.URL, "/") + "/rest/v1/" + table
	if query != "" {
		url += "?" + query
	}
	return url
}

func (c *Client) do(ctx context.Context, method, table, query, accept string, payload, dest interface{}) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode %s payload: %w", table, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(table, query), body)
	if err != nil {
		return fmt.Errorf("build %s request: %w", table, err)
	}

	req.Header.Set("apikey", c.cfg.AnonKey)
	req.Header.Set("Authorization", "Bearer "+c.cfg.AnonKey)
	req.Header.Set("Accept", accept)
	if payload != nil {
		req.Header.Set("Content-Type", acceptJSON)
	}
	if dest != nil && method != http.MethodGet {
		req.Header.Set("Prefer", "return=representation")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, table, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s response: %w", table, err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var apiErr apiError
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Code == noRowsCode {
			return entities.ErrNoRows
		}
		if apiErr.Message != "" {
			return &apiErr
		}
		return fmt.Errorf("%s %s: unexpected status %d", method, table, resp.StatusCode)
	}

	if dest != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, dest); err != nil {
			return fmt.Errorf("decode %s response: %w", table, err)
		}
	}
	return nil
}

// Select fetches all rows of a table, ordered by the given column spec.
func (c *Client) Select(ctx context.Context, table, order string, dest interface{}) error {
	query := "select=*"
	if order != "" {
		query += "&order=" + order
	}
	return c.do(ctx, http.MethodGet, table, query, acceptJSON, nil, dest)
}

// SelectSingle fetches the single row of a singleton table. Returns
// entities.ErrNoRows when the table is empty.
func (c *Client) SelectSingle(ctx context.Context, table string, dest interface{}) error {
	return c.do(ctx, http.MethodGet, table, "select=*", acceptSingle, nil, dest)
}

// Insert inserts rows, letting the backend assign ids. The returned
// representation is decoded into dest when dest is non-nil.
func (c *Client) Insert(ctx context.Context, table string, rows, dest interface{}) error {
	return c.do(ctx, http.MethodPost, table, "", acceptJSON, rows, dest)
}

// Update patches the row with the given id.
func (c *Client) Update(ctx context.Context, table string, id int64, row, dest interface{}) error {
	query := fmt.Sprintf("id=eq.%d", id)
	accept := acceptJSON
	if dest != nil {
		accept = acceptSingle
	}
	return c.do(ctx, http.MethodPatch, table, query, accept, row, dest)
}

// Delete removes the row with the given id.
func (c *Client) Delete(ctx context.Context, table string, id int64) error {
	return c.do(ctx, http.MethodDelete, table, fmt.Sprintf("id=eq.%d", id), acceptJSON, nil, nil)
}

// DeleteAll removes every row of a table.
func (c *Client) DeleteAll(ctx context.Context, table string) error {
	return c.do(ctx, http.MethodDelete, table, "id=neq.0", acceptJSON, nil, nil)
}
