package project

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/credify/editor/internal/db/dbgen"
)

// fakeQueries is an in-memory dbgen.Querier.
type fakeQueries struct {
	mu        sync.Mutex
	users     map[string]dbgen.User
	projects  map[string]dbgen.Project
	snapshots map[string][]dbgen.LayoutSnapshot
	// raceOnce makes the next CreateSnapshot fail as if another writer
	// took the version first.
	raceOnce bool
}

var _ dbgen.Querier = (*fakeQueries)(nil)

func newFakeQueries() *fakeQueries {
	return &fakeQueries{
		users:     map[string]dbgen.User{},
		projects:  map[string]dbgen.Project{},
		snapshots: map[string][]dbgen.LayoutSnapshot{},
	}
}

func now() pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: time.Now().UTC(), Valid: true}
}

func (f *fakeQueries) CreateProject(_ context.Context, arg dbgen.CreateProjectParams) (dbgen.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := dbgen.Project{
		ID:             arg.ID,
		Name:           arg.Name,
		OwnerID:        arg.OwnerID,
		TemplateUrl:    arg.TemplateUrl,
		TemplateWidth:  arg.TemplateWidth,
		TemplateHeight: arg.TemplateHeight,
		CreatedAt:      now(),
		UpdatedAt:      now(),
	}
	f.projects[p.ID] = p
	return p, nil
}

func (f *fakeQueries) CreateSnapshot(_ context.Context, arg dbgen.CreateSnapshotParams) (dbgen.LayoutSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.raceOnce {
		f.raceOnce = false
		return dbgen.LayoutSnapshot{}, &pgconn.PgError{Code: "23505"}
	}
	for _, s := range f.snapshots[arg.ProjectID] {
		if s.Version == arg.Version {
			return dbgen.LayoutSnapshot{}, &pgconn.PgError{Code: "23505"}
		}
	}
	s := dbgen.LayoutSnapshot{
		ID:        arg.ID,
		ProjectID: arg.ProjectID,
		Version:   arg.Version,
		Layout:    append([]byte(nil), arg.Layout...),
		CreatedAt: now(),
	}
	f.snapshots[arg.ProjectID] = append(f.snapshots[arg.ProjectID], s)
	return s, nil
}

func (f *fakeQueries) CreateUser(_ context.Context, arg dbgen.CreateUserParams) (dbgen.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := dbgen.User{ID: arg.ID, Email: arg.Email, Password: arg.Password, DisplayName: arg.DisplayName}
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeQueries) GetLatestSnapshot(_ context.Context, projectID string) (dbgen.LayoutSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	snaps := f.snapshots[projectID]
	if len(snaps) == 0 {
		return dbgen.LayoutSnapshot{}, pgx.ErrNoRows
	}
	latest := snaps[0]
	for _, s := range snaps[1:] {
		if s.Version > latest.Version {
			latest = s
		}
	}
	return latest, nil
}

func (f *fakeQueries) DeleteProject(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.projects, id)
	delete(f.snapshots, id)
	return nil
}

func (f *fakeQueries) GetProject(_ context.Context, id string) (dbgen.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.projects[id]
	if !ok {
		return dbgen.Project{}, pgx.ErrNoRows
	}
	return p, nil
}

func (f *fakeQueries) GetUserByEmail(_ context.Context, email string) (dbgen.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return dbgen.User{}, pgx.ErrNoRows
}

func (f *fakeQueries) GetUserByID(_ context.Context, id string) (dbgen.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return dbgen.User{}, pgx.ErrNoRows
	}
	return u, nil
}

func (f *fakeQueries) ListProjectsForOwner(_ context.Context, ownerID string) ([]dbgen.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []dbgen.Project
	for _, p := range f.projects {
		if p.OwnerID == ownerID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeQueries) TouchProject(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.projects[id]
	if ok {
		p.UpdatedAt = now()
		f.projects[id] = p
	}
	return nil
}

func (f *fakeQueries) UpdateProjectTemplate(_ context.Context, arg dbgen.UpdateProjectTemplateParams) (dbgen.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.projects[arg.ID]
	if !ok {
		return dbgen.Project{}, pgx.ErrNoRows
	}
	p.TemplateUrl = arg.TemplateUrl
	p.TemplateWidth = arg.TemplateWidth
	p.TemplateHeight = arg.TemplateHeight
	p.UpdatedAt = now()
	f.projects[arg.ID] = p
	return p, nil
}
