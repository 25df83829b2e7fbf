package asset

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/credify/editor/internal/editor"
)

// Client uploads through the asset HTTP endpoint.
type Client struct {
	endpoint string
	http     *http.Client
}

var _ editor.Uploader = (*Client)(nil)

// NewClient posts to baseURL + "/assets/upload".
func NewClient(baseURL string, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: 60 * time.Second}
	}
	return &Client{endpoint: strings.TrimRight(baseURL, "/") + "/assets/upload", http: hc}
}

func (c *Client) Upload(ctx context.Context, filename string, r io.Reader) (editor.Asset, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		part, err := mw.CreateFormFile("file", filename)
		if err == nil {
			_, err = io.Copy(part, r)
		}
		if err == nil {
			err = mw.Close()
		}
		pw.CloseWithError(err)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, pr)
	if err != nil {
		pr.Close()
		return editor.Asset{}, fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return editor.Asset{}, fmt.Errorf("upload %s: %w", filename, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		return editor.Asset{}, fmt.Errorf("upload %s: %d %s", filename, resp.StatusCode, e.Error)
	}

	var a editor.Asset
	if err := json.NewDecoder(resp.Body).Decode(&a); err != nil {
		return editor.Asset{}, fmt.Errorf("decode upload response: %w", err)
	}
	return a, nil
}
