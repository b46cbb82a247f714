// Package pinstore is the board's client for the pin API.  It speaks the
// /v1/pins endpoints served by cmd/server and satisfies board.Store.
package pinstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/iliyamo/skate-pins/internal/model"
)

// APIKeyHeader carries the access key on every request.
const APIKeyHeader = "apikey"

// ErrStatus is wrapped by errors for non-2xx responses.
var ErrStatus = errors.New("unexpected status")

// Client talks to one pin API.
type Client struct {
	base *url.URL
	key  string
	http *http.Client
}

// New returns a client for baseURL (scheme and host, optionally a path
// prefix) authenticated with key.
func New(baseURL, key string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse store url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("store url %q: scheme must be http or https", baseURL)
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{base: u, key: key, http: &http.Client{Timeout: timeout}}, nil
}

type listResp struct {
	Items []*model.Pin `json:"items"`
}

type createReq struct {
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	Type        string  `json:"type"`
	Title       string  `json:"title,omitempty"`
	Description string  `json:"description,omitempty"`
}

// ListAll fetches every stored pin.
func (c *Client) ListAll(ctx context.Context) ([]*model.Pin, error) {
	var out listResp
	if err := c.do(ctx, http.MethodGet, "/v1/pins", nil, http.StatusOK, &out); err != nil {
		return nil, err
	}
	if out.Items == nil {
		out.Items = []*model.Pin{}
	}
	return out.Items, nil
}

// Create inserts p and overwrites it with the stored row.
func (c *Client) Create(ctx context.Context, p *model.Pin) error {
	body := createReq{Lat: p.Lat, Lng: p.Lng, Type: string(p.Type), Title: p.Title, Description: p.Description}
	var row model.Pin
	if err := c.do(ctx, http.MethodPost, "/v1/pins", body, http.StatusCreated, &row); err != nil {
		return err
	}
	if row.ID == "" {
		return errors.New("store returned a row without id")
	}
	*p = row
	return nil
}

// DeleteByID deletes the row with the store-assigned id.
func (c *Client) DeleteByID(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/v1/pins/"+url.PathEscape(id), nil, http.StatusNoContent, nil)
}

func (c *Client) do(ctx context.Context, method, path string, in any, want int, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base.String()+path, body)
	if err != nil {
		return err
	}
	req.Header.Set(APIKeyHeader, c.key)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&e)
		if e.Error != "" {
			return fmt.Errorf("%s %s: %w %d: %s", method, path, ErrStatus, resp.StatusCode, e.Error)
		}
		return fmt.Errorf("%s %s: %w %d", method, path, ErrStatus, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}
