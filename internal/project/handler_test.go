package project

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/credify/editor/internal/auth"
	"github.com/credify/editor/internal/layout"
)

// asUser stands in for the bearer middleware.
func asUser(userID string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(auth.WithUserID(r.Context(), userID)))
		})
	}
}

func newTestServer(t *testing.T, svc *Service, userID string) *httptest.Server {
	t.Helper()
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	api.Use(asUser(userID))
	NewHandler(svc).Register(api)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestHandlerLayoutRoundTrip(t *testing.T) {
	svc, _ := newTestService(t)
	srv := newTestServer(t, svc, "user_1")

	resp, err := http.Post(srv.URL+"/api/projects", "application/json",
		strings.NewReader(`{"name":"Award","template":{"url":"/assets/t.png","width":1200,"height":800}}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var p Project
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&p))

	body := `[{"id":"ph_1","name":"Recipient","x":600,"y":400,"w":300,"h":60,"rotation":0}]`
	req, err := http.NewRequest(http.MethodPut, srv.URL+"/api/projects/"+p.ID+"/layout", strings.NewReader(body))
	require.NoError(t, err)
	put, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer put.Body.Close()
	require.Equal(t, http.StatusOK, put.StatusCode)
	var saved saveResponse
	require.NoError(t, json.NewDecoder(put.Body).Decode(&saved))
	assert.Equal(t, 2, saved.Version)

	get, err := http.Get(srv.URL + "/api/projects/" + p.ID + "/layout")
	require.NoError(t, err)
	defer get.Body.Close()
	var doc layout.Document
	require.NoError(t, json.NewDecoder(get.Body).Decode(&doc))
	require.Len(t, doc, 1)
	assert.Equal(t, layout.TypeText, doc[0].Type, "legacy records default to text")
	assert.Equal(t, layout.AlignCenter, doc[0].Align)
}

func TestHandlerErrors(t *testing.T) {
	svc, _ := newTestService(t)
	p, err := svc.Create(context.Background(), "Cert", "owner", Template{})
	require.NoError(t, err)
	srv := newTestServer(t, svc, "intruder")

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"missing project", http.MethodGet, "/api/projects/proj_nope", "", http.StatusNotFound},
		{"not owner", http.MethodGet, "/api/projects/" + p.ID, "", http.StatusForbidden},
		{"layout not owner", http.MethodPut, "/api/projects/" + p.ID + "/layout", "[]", http.StatusForbidden},
		{"delete not owner", http.MethodDelete, "/api/projects/" + p.ID, "", http.StatusForbidden},
		{"delete unknown", http.MethodDelete, "/api/projects/proj_missing", "", http.StatusNotFound},
		{"no name", http.MethodPost, "/api/projects", `{"name":""}`, http.StatusBadRequest},
		{"bad json", http.MethodPost, "/api/projects", `{`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, srv.URL+tt.path, strings.NewReader(tt.body))
			require.NoError(t, err)
			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			resp.Body.Close()
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestHandlerRejectsDuplicateIDs(t *testing.T) {
	svc, _ := newTestService(t)
	p, err := svc.Create(context.Background(), "Cert", "user_1", Template{})
	require.NoError(t, err)
	srv := newTestServer(t, svc, "user_1")

	body := `[{"id":"a","name":"A","x":1,"y":1,"w":60,"h":30},{"id":"a","name":"B","x":1,"y":1,"w":60,"h":30}]`
	req, err := http.NewRequest(http.MethodPut, srv.URL+"/api/projects/"+p.ID+"/layout", strings.NewReader(body))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandlerDeleteProject(t *testing.T) {
	svc, q := newTestService(t)
	p, err := svc.Create(context.Background(), "Cert", "user_1", Template{})
	require.NoError(t, err)
	srv := newTestServer(t, svc, "user_1")

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/api/projects/"+p.ID, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Empty(t, q.snapshots[p.ID])

	resp, err = http.Get(srv.URL + "/api/projects/" + p.ID)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	_, err = svc.LoadLayout(context.Background(), p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClientImplementsStore(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	p, err := svc.Create(ctx, "Cert", "user_1", Template{URL: "/assets/t.png", Width: 1000, Height: 700})
	require.NoError(t, err)
	srv := newTestServer(t, svc, "user_1")

	c := NewClient(srv.URL+"/", "token", srv.Client())
	require.NoError(t, c.Save(ctx, p.ID, layout.Document{field("a")}))

	loaded, err := c.Load(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, loaded.ID)
	assert.Equal(t, 1000.0, loaded.Template.Width)
	require.Len(t, loaded.Layout, 1)
	assert.Equal(t, "a", loaded.Layout[0].ID)

	_, err = c.Load(ctx, "proj_missing")
	assert.ErrorIs(t, err, ErrNotFound)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
}
