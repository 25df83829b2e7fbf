package asset

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.NRGBA{R: 255, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newTestStore(t *testing.T, maxDim int) *Store {
	t.Helper()
	s, err := NewStore(t.TempDir(), "/assets/", maxDim)
	require.NoError(t, err)
	return s
}

func TestUploadStoresPNG(t *testing.T) {
	s := newTestStore(t, 4096)
	a, err := s.Upload(context.Background(), "dir/logo.png", bytes.NewReader(pngBytes(t, 40, 20)))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(a.ID, "asset_"))
	assert.Equal(t, "/assets/"+a.ID+".png", a.URL)
	assert.Equal(t, 40.0, a.Width)
	assert.Equal(t, 20.0, a.Height)
	assert.Equal(t, "logo.png", a.Name)

	_, err = os.Stat(filepath.Join(s.Dir(), a.ID+".png"))
	assert.NoError(t, err)

	require.NoError(t, s.Delete(a.ID))
	assert.ErrorIs(t, s.Delete(a.ID), ErrNotFound)
}

func TestUploadSaveFailureLeavesNoFile(t *testing.T) {
	s := newTestStore(t, 4096)
	require.NoError(t, os.RemoveAll(s.Dir()))

	_, err := s.Upload(context.Background(), "logo.png", bytes.NewReader(pngBytes(t, 10, 10)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "save asset")
	_, err = os.Stat(s.Dir())
	assert.True(t, os.IsNotExist(err))
}

func TestUploadFitsLargeImages(t *testing.T) {
	s := newTestStore(t, 100)
	a, err := s.Upload(context.Background(), "wide.png", bytes.NewReader(pngBytes(t, 400, 200)))
	require.NoError(t, err)
	assert.Equal(t, 100.0, a.Width)
	assert.Equal(t, 50.0, a.Height)
}

func TestUploadRejectsNonImages(t *testing.T) {
	s := newTestStore(t, 4096)
	_, err := s.Upload(context.Background(), "notes.txt", strings.NewReader("hello, world"))
	assert.ErrorIs(t, err, ErrUnsupportedType)

	// PNG signature followed by garbage.
	bad := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 64)...)
	_, err = s.Upload(context.Background(), "broken.png", bytes.NewReader(bad))
	assert.ErrorIs(t, err, ErrInvalidImage)
}

func TestHandlerAndClient(t *testing.T) {
	s := newTestStore(t, 4096)
	h := NewHandler(s)
	mux := http.NewServeMux()
	mux.HandleFunc("/assets/upload", h.Upload)
	mux.Handle("/assets/", h.Serve("/assets/"))
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client())
	a, err := c.Upload(context.Background(), "seal.png", bytes.NewReader(pngBytes(t, 64, 64)))
	require.NoError(t, err)
	assert.Equal(t, 64.0, a.Width)

	resp, err := http.Get(srv.URL + a.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Cache-Control"), "immutable")

	_, err = c.Upload(context.Background(), "notes.txt", strings.NewReader("plain text"))
	assert.Error(t, err)
}
