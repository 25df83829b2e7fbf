package project

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/credify/editor/internal/cache"
	"github.com/credify/editor/internal/db/dbgen"
	"github.com/credify/editor/internal/editor"
	"github.com/credify/editor/internal/layout"
	"github.com/credify/editor/internal/typeid"
)

var (
	ErrNotFound        = errors.New("project not found")
	ErrForbidden       = errors.New("forbidden")
	ErrInvalidLayout   = errors.New("invalid layout")
	ErrInvalidTemplate = errors.New("invalid template")
	ErrConflict        = errors.New("concurrent save conflict")
)

// PlaygroundID is the anonymous demo project. It lives in memory only and
// starts from the sample layout.
const PlaygroundID = "proj_playground"

const saveAttempts = 3

type Service struct {
	queries    dbgen.Querier
	layouts    *cache.LayoutCache
	locker     *cache.Locker
	playground *MemoryStore
	logger     *slog.Logger
}

var _ editor.Store = (*Service)(nil)

// NewService wires the project store. layouts and locker may be nil.
func NewService(queries dbgen.Querier, layouts *cache.LayoutCache, locker *cache.Locker) *Service {
	return &Service{
		queries:    queries,
		layouts:    layouts,
		locker:     locker,
		playground: NewMemoryStore(editor.Project{ID: PlaygroundID, Layout: layout.Sample()}),
		logger:     slog.Default().With("component", "project"),
	}
}

type Template struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

func (t Template) validate() error {
	if t.Width < 0 || t.Height < 0 {
		return fmt.Errorf("%w: negative size %dx%d", ErrInvalidTemplate, t.Width, t.Height)
	}
	if t.URL == "" && (t.Width > 0 || t.Height > 0) {
		return fmt.Errorf("%w: size without url", ErrInvalidTemplate)
	}
	return nil
}

type Project struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	OwnerID   string   `json:"ownerId"`
	Template  Template `json:"template"`
	CreatedAt string   `json:"createdAt"`
	UpdatedAt string   `json:"updatedAt"`
}

func (s *Service) Create(ctx context.Context, name, ownerID string, tmpl Template) (*Project, error) {
	if err := tmpl.validate(); err != nil {
		return nil, err
	}
	projectID := typeid.NewProjectID()

	dbProj, err := s.queries.CreateProject(ctx, dbgen.CreateProjectParams{
		ID:             projectID,
		Name:           strings.TrimSpace(name),
		OwnerID:        ownerID,
		TemplateUrl:    tmpl.URL,
		TemplateWidth:  int32(tmpl.Width),
		TemplateHeight: int32(tmpl.Height),
	})
	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}

	// Seed an empty layout so version numbering starts at 1.
	_, err = s.queries.CreateSnapshot(ctx, dbgen.CreateSnapshotParams{
		ID:        typeid.NewSnapshotID(),
		ProjectID: projectID,
		Version:   1,
		Layout:    []byte("[]"),
	})
	if err != nil {
		return nil, fmt.Errorf("create initial snapshot: %w", err)
	}

	return dbProjectToProject(dbProj), nil
}

func (s *Service) Get(ctx context.Context, projectID, userID string) (*Project, error) {
	dbProj, err := s.owned(ctx, projectID, userID)
	if err != nil {
		return nil, err
	}
	return dbProjectToProject(dbProj), nil
}

func (s *Service) List(ctx context.Context, userID string) ([]Project, error) {
	dbProjects, err := s.queries.ListProjectsForOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}

	projects := make([]Project, len(dbProjects))
	for i, p := range dbProjects {
		projects[i] = *dbProjectToProject(p)
	}
	return projects, nil
}

// SetTemplate replaces the background image of a project.
func (s *Service) SetTemplate(ctx context.Context, projectID, userID string, tmpl Template) (*Project, error) {
	if err := tmpl.validate(); err != nil {
		return nil, err
	}
	if _, err := s.owned(ctx, projectID, userID); err != nil {
		return nil, err
	}
	dbProj, err := s.queries.UpdateProjectTemplate(ctx, dbgen.UpdateProjectTemplateParams{
		ID:             projectID,
		TemplateUrl:    tmpl.URL,
		TemplateWidth:  int32(tmpl.Width),
		TemplateHeight: int32(tmpl.Height),
	})
	if err != nil {
		return nil, fmt.Errorf("update template: %w", err)
	}
	return dbProjectToProject(dbProj), nil
}

// Delete removes a project and its layout history. Only the owner may
// delete it.
func (s *Service) Delete(ctx context.Context, projectID, userID string) error {
	if _, err := s.owned(ctx, projectID, userID); err != nil {
		return err
	}
	if err := s.queries.DeleteProject(ctx, projectID); err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if err := s.layouts.Invalidate(ctx, projectID); err != nil {
		s.logger.Warn("invalidate cached layout", "project", projectID, "error", err)
	}
	return nil
}

// Authorize checks userID may edit projectID. The playground is open to
// everyone.
func (s *Service) Authorize(ctx context.Context, projectID, userID string) error {
	if projectID == PlaygroundID {
		return nil
	}
	_, err := s.owned(ctx, projectID, userID)
	return err
}

// LoadLayout returns the latest saved layout, from cache when possible.
func (s *Service) LoadLayout(ctx context.Context, projectID string) (layout.Document, error) {
	if projectID == PlaygroundID {
		p, err := s.playground.Load(ctx, projectID)
		return p.Layout, err
	}

	if doc, ok, err := s.layouts.Get(ctx, projectID); err != nil {
		s.logger.Warn("layout cache read failed", "project", projectID, "error", err)
	} else if ok {
		return doc, nil
	}

	snap, err := s.queries.GetLatestSnapshot(ctx, projectID)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("get snapshot: %w", err)
		}
		if _, err := s.project(ctx, projectID); err != nil {
			return nil, err
		}
		return layout.Empty(), nil
	}

	var doc layout.Document
	if err := json.Unmarshal(snap.Layout, &doc); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", snap.ID, err)
	}
	doc = doc.Normalize()
	if err := s.layouts.Set(ctx, projectID, doc); err != nil {
		s.logger.Warn("layout cache write failed", "project", projectID, "error", err)
	}
	return doc, nil
}

// SaveLayout stores doc as the next snapshot version and returns it.
func (s *Service) SaveLayout(ctx context.Context, projectID string, doc layout.Document) (int, error) {
	if doc == nil {
		doc = layout.Empty()
	}
	if err := doc.Validate(); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidLayout, err)
	}
	if projectID == PlaygroundID {
		return 0, s.playground.Save(ctx, projectID, doc)
	}
	if _, err := s.project(ctx, projectID); err != nil {
		return 0, err
	}

	unlock, err := s.locker.Lock(ctx, projectID)
	if err != nil {
		return 0, fmt.Errorf("lock project %s: %w", projectID, err)
	}
	defer unlock()

	data, err := json.Marshal(doc)
	if err != nil {
		return 0, fmt.Errorf("marshal layout: %w", err)
	}

	var version int32
	for attempt := 1; ; attempt++ {
		version, err = s.insertNextVersion(ctx, projectID, data)
		if err == nil {
			break
		}
		if !isUniqueViolation(err) {
			return 0, err
		}
		if attempt == saveAttempts {
			return 0, ErrConflict
		}
	}

	if err := s.queries.TouchProject(ctx, projectID); err != nil {
		s.logger.Warn("touch project failed", "project", projectID, "error", err)
	}
	if err := s.layouts.Set(ctx, projectID, doc); err != nil {
		s.logger.Warn("layout cache write failed", "project", projectID, "error", err)
		_ = s.layouts.Invalidate(ctx, projectID)
	}
	s.logger.Info("layout saved", "project", projectID, "version", version, "placeholders", len(doc))
	return int(version), nil
}

func (s *Service) insertNextVersion(ctx context.Context, projectID string, data []byte) (int32, error) {
	next := int32(1)
	latest, err := s.queries.GetLatestSnapshot(ctx, projectID)
	switch {
	case err == nil:
		next = latest.Version + 1
	case !errors.Is(err, pgx.ErrNoRows):
		return 0, fmt.Errorf("get snapshot: %w", err)
	}

	_, err = s.queries.CreateSnapshot(ctx, dbgen.CreateSnapshotParams{
		ID:        typeid.NewSnapshotID(),
		ProjectID: projectID,
		Version:   next,
		Layout:    data,
	})
	if err != nil {
		return 0, fmt.Errorf("create snapshot: %w", err)
	}
	return next, nil
}

// Load implements editor.Store.
func (s *Service) Load(ctx context.Context, projectID string) (editor.Project, error) {
	if projectID == PlaygroundID {
		return s.playground.Load(ctx, projectID)
	}
	dbProj, err := s.project(ctx, projectID)
	if err != nil {
		return editor.Project{}, err
	}
	doc, err := s.LoadLayout(ctx, projectID)
	if err != nil {
		return editor.Project{}, err
	}
	return editor.Project{
		ID: projectID,
		Template: editor.Template{
			URL:    dbProj.TemplateUrl,
			Width:  float64(dbProj.TemplateWidth),
			Height: float64(dbProj.TemplateHeight),
		},
		Layout: doc,
	}, nil
}

// Save implements editor.Store.
func (s *Service) Save(ctx context.Context, projectID string, doc layout.Document) error {
	_, err := s.SaveLayout(ctx, projectID, doc)
	return err
}

func (s *Service) project(ctx context.Context, projectID string) (dbgen.Project, error) {
	dbProj, err := s.queries.GetProject(ctx, projectID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dbgen.Project{}, ErrNotFound
		}
		return dbgen.Project{}, fmt.Errorf("get project: %w", err)
	}
	return dbProj, nil
}

func (s *Service) owned(ctx context.Context, projectID, userID string) (dbgen.Project, error) {
	dbProj, err := s.project(ctx, projectID)
	if err != nil {
		return dbgen.Project{}, err
	}
	if dbProj.OwnerID != userID {
		return dbgen.Project{}, ErrForbidden
	}
	return dbProj, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func dbProjectToProject(p dbgen.Project) *Project {
	return &Project{
		ID:      p.ID,
		Name:    p.Name,
		OwnerID: p.OwnerID,
		Template: Template{
			URL:    p.TemplateUrl,
			Width:  int(p.TemplateWidth),
			Height: int(p.TemplateHeight),
		},
		CreatedAt: p.CreatedAt.Time.Format("2006-01-02T15:04:05Z"),
		UpdatedAt: p.UpdatedAt.Time.Format("2006-01-02T15:04:05Z"),
	}
}
