package project

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/credify/editor/internal/editor"
	"github.com/credify/editor/internal/layout"
)

// Client is an editor.Store backed by the project HTTP API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

var _ editor.Store = (*Client)(nil)

func NewClient(baseURL, token string, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), token: token, http: hc}
}

// APIError is a non-2xx response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("project api: %d %s", e.Status, e.Message)
}

// Unwrap maps well-known statuses onto the service sentinels.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusConflict:
		return ErrConflict
	}
	return nil
}

func (c *Client) Load(ctx context.Context, projectID string) (editor.Project, error) {
	var p Project
	if err := c.do(ctx, http.MethodGet, "/api/projects/"+url.PathEscape(projectID), nil, &p); err != nil {
		return editor.Project{}, err
	}
	var doc layout.Document
	if err := c.do(ctx, http.MethodGet, "/api/projects/"+url.PathEscape(projectID)+"/layout", nil, &doc); err != nil {
		return editor.Project{}, err
	}
	return editor.Project{
		ID: p.ID,
		Template: editor.Template{
			URL:    p.Template.URL,
			Width:  float64(p.Template.Width),
			Height: float64(p.Template.Height),
		},
		Layout: doc.Normalize(),
	}, nil
}

func (c *Client) Save(ctx context.Context, projectID string, doc layout.Document) error {
	if doc == nil {
		doc = layout.Empty()
	}
	var res saveResponse
	return c.do(ctx, http.MethodPut, "/api/projects/"+url.PathEscape(projectID)+"/layout", doc, &res)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		rd = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		return &APIError{Status: resp.StatusCode, Message: e.Error}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
