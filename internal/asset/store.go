package asset

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/credify/editor/internal/editor"
	"github.com/credify/editor/internal/typeid"
)

var (
	ErrUnsupportedType = errors.New("only PNG, JPEG and GIF images are supported")
	ErrInvalidImage    = errors.New("invalid image")
	ErrNotFound        = errors.New("asset not found")
)

var supportedTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/gif":  true,
}

// Store normalizes uploaded images and keeps them on disk as PNG. Images
// are rotated upright from their EXIF orientation and fitted within
// maxDim on both sides.
type Store struct {
	dir     string
	baseURL string
	maxDim  int
}

var _ editor.Uploader = (*Store)(nil)

func NewStore(dir, baseURL string, maxDim int) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create asset dir: %w", err)
	}
	return &Store{dir: dir, baseURL: strings.TrimRight(baseURL, "/"), maxDim: maxDim}, nil
}

// Upload implements editor.Uploader.
func (s *Store) Upload(ctx context.Context, filename string, r io.Reader) (editor.Asset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return editor.Asset{}, fmt.Errorf("read upload: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return editor.Asset{}, err
	}

	if ct := http.DetectContentType(data); !supportedTypes[ct] {
		return editor.Asset{}, fmt.Errorf("%w: got %s", ErrUnsupportedType, ct)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return editor.Asset{}, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	img = s.fit(img)

	id := typeid.NewAssetID()
	name := id + ".png"
	dst := filepath.Join(s.dir, name)
	if err := imaging.Save(img, dst); err != nil {
		s.discard(id)
		return editor.Asset{}, fmt.Errorf("save asset: %w", err)
	}
	// The caller gave up while the image was encoding.
	if err := ctx.Err(); err != nil {
		s.discard(id)
		return editor.Asset{}, err
	}

	b := img.Bounds()
	slog.Debug("asset stored", "id", id, "source", filename, "width", b.Dx(), "height", b.Dy())
	return editor.Asset{
		ID:     id,
		URL:    s.baseURL + "/" + name,
		Width:  float64(b.Dx()),
		Height: float64(b.Dy()),
		Name:   path.Base(filepath.ToSlash(filename)),
	}, nil
}

func (s *Store) fit(img image.Image) image.Image {
	b := img.Bounds()
	if s.maxDim <= 0 || (b.Dx() <= s.maxDim && b.Dy() <= s.maxDim) {
		return img
	}
	return imaging.Fit(img, s.maxDim, s.maxDim, imaging.Lanczos)
}

// Delete removes a stored asset.
func (s *Store) Delete(assetID string) error {
	if err := typeid.Validate(assetID, typeid.PrefixAsset); err != nil {
		return fmt.Errorf("%w: %s", ErrNotFound, assetID)
	}
	if err := os.Remove(filepath.Join(s.dir, assetID+".png")); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotFound, assetID)
		}
		return err
	}
	return nil
}

// discard removes a partially written or abandoned asset.
func (s *Store) discard(id string) {
	if err := s.Delete(id); err != nil && !errors.Is(err, ErrNotFound) {
		slog.Warn("asset cleanup failed", "id", id, "error", err)
	}
}

// Dir is where stored files live.
func (s *Store) Dir() string { return s.dir }
