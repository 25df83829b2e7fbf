package editor

import (
	"context"
	"fmt"

	"github.com/credify/editor/internal/geometry"
	"github.com/credify/editor/internal/layout"
)

// Project is what a Store loads: the template and the saved layout.
type Project struct {
	ID       string
	Template Template
	Layout   layout.Document
}

// Store persists layouts per project.
type Store interface {
	Load(ctx context.Context, projectID string) (Project, error)
	Save(ctx context.Context, projectID string, doc layout.Document) error
}

// Open loads a project and makes its layout the floor of a fresh history.
// On failure the session is left as it was.
func (s *Session) Open(ctx context.Context, projectID string) error {
	if s.store == nil {
		return ErrNoProject
	}
	p, err := s.store.Load(ctx, projectID)
	if err != nil {
		return fmt.Errorf("loading project %s: %w", projectID, err)
	}
	if err := p.Layout.Validate(); err != nil {
		return fmt.Errorf("loading project %s: %w", projectID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.projectID = projectID
	s.template = p.Template
	s.baseScale = fitScale(s.containerWidth, s.template.Width)
	s.zoom = 1
	s.viewport = geometry.Viewport{Scale: s.baseScale}
	s.resetLocked(p.Layout.Normalize())
	s.logger.Info("project opened", "project", projectID, "placeholders", len(p.Layout))
	return nil
}

// Save writes the committed document of the open project. The session
// stays usable while the store is working; edits made meanwhile keep the
// session dirty. History is not affected either way.
func (s *Session) Save(ctx context.Context) error {
	s.mu.Lock()
	if s.store == nil || s.projectID == "" {
		s.mu.Unlock()
		return ErrNoProject
	}
	id := s.projectID
	doc := s.history.Current()
	gen := s.history.Generation()
	s.saveSeq++
	seq := s.saveSeq
	s.mu.Unlock()

	err := s.store.Save(ctx, id, doc)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.lastErr = fmt.Sprintf("save failed: %v", err)
		s.logger.Error("save failed", "project", id, "error", err)
		return fmt.Errorf("saving project %s: %w", id, err)
	}
	// An older save finishing late must not mark a newer document clean.
	if s.projectID == id && seq > s.savedSeq {
		s.savedSeq = seq
		s.savedGen = gen
	}
	s.lastErr = ""
	s.logger.Info("project saved", "project", id, "placeholders", len(doc))
	return nil
}
