package editor

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/credify/editor/internal/layout"
)

// Asset is an uploaded image as returned by the asset host.
type Asset struct {
	ID     string  `json:"id"`
	URL    string  `json:"url"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Name   string  `json:"name,omitempty"`
}

// Uploader hosts image bytes and returns where they can be fetched.
type Uploader interface {
	Upload(ctx context.Context, filename string, r io.Reader) (Asset, error)
}

// UploaderFunc adapts a function to Uploader.
type UploaderFunc func(ctx context.Context, filename string, r io.Reader) (Asset, error)

func (f UploaderFunc) Upload(ctx context.Context, filename string, r io.Reader) (Asset, error) {
	return f(ctx, filename, r)
}

// UploadImage reads the image and hands it to the uploader in the
// background. It returns once the bytes are buffered. On success an image
// placeholder is inserted with a single commit; on failure the document is
// left untouched and the error is surfaced in State.Error.
func (s *Session) UploadImage(ctx context.Context, filename string, r io.Reader) error {
	if s.uploader == nil {
		return ErrNoUploader
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("reading %s: %w", filename, err)
	}

	s.mu.Lock()
	s.pending++
	s.lastErr = ""
	s.mu.Unlock()

	s.uploads.Add(1)
	go func() {
		defer s.uploads.Done()
		asset, err := s.uploader.Upload(context.WithoutCancel(ctx), filename, bytes.NewReader(data))
		s.finishUpload(filename, asset, err)
	}()
	return nil
}

func (s *Session) finishUpload(filename string, asset Asset, err error) {
	s.mu.Lock()
	s.pending--
	if err != nil {
		s.lastErr = fmt.Sprintf("upload %s: %v", filename, err)
		s.logger.Warn("image upload failed", "file", filename, "error", err)
	} else {
		cur := s.history.Current()
		ph := layout.NewImage(s.newID(), layout.DefaultName(layout.TypeImage, len(cur)+1),
			asset.URL, s.insertionPoint(), asset.Width, asset.Height)
		s.commit(cur.Append(ph), "upload")
		if !s.gesture.active() {
			s.mode = ModeSelect
			s.selectedID = ph.ID
		}
		s.logger.Info("image uploaded", "file", filename, "url", asset.URL)
	}
	s.sync()
	st := s.stateLocked()
	hook := s.onChange
	s.mu.Unlock()

	if hook != nil {
		hook(st)
	}
}

// WaitUploads blocks until every in-flight upload has completed.
func (s *Session) WaitUploads() {
	s.uploads.Wait()
}
