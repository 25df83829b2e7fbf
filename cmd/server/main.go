package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"

	"github.com/credify/editor/internal/asset"
	"github.com/credify/editor/internal/auth"
	"github.com/credify/editor/internal/cache"
	"github.com/credify/editor/internal/config"
	"github.com/credify/editor/internal/db"
	"github.com/credify/editor/internal/db/dbgen"
	"github.com/credify/editor/internal/editor"
	mw "github.com/credify/editor/internal/middleware"
	"github.com/credify/editor/internal/project"
	"github.com/credify/editor/internal/remote"
	"github.com/credify/editor/internal/typeid"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool); err != nil {
		slog.Error("migrate database", "error", err)
		os.Exit(1)
	}

	queries := dbgen.New(pool)

	// Redis is optional; without it layouts are read from Postgres and
	// saves are serialized only by the version constraint.
	var rdb *redis.Client
	if cfg.RedisURL != "" {
		rdb, err = cache.Connect(ctx, cfg.RedisURL)
		if err != nil {
			slog.Error("connect to redis", "error", err)
			os.Exit(1)
		}
		defer rdb.Close()
	}

	authService := auth.NewService(queries, cfg.JWTSecret)
	authHandler := auth.NewHandler(authService)

	projectService := project.NewService(queries, cache.NewLayoutCache(rdb, cfg.LayoutCacheTTL), cache.NewLocker(rdb))
	projectHandler := project.NewHandler(projectService)

	assetStore, err := asset.NewStore(cfg.AssetDir, cfg.AssetBaseURL, cfg.MaxAssetDimension)
	if err != nil {
		slog.Error("open asset store", "error", err)
		os.Exit(1)
	}
	assetHandler := asset.NewHandler(assetStore)

	hub := remote.NewHub()
	go hub.Run()

	r := mux.NewRouter()

	// Global middleware
	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS(cfg.Origins()))

	// Auth routes (public)
	r.HandleFunc("/auth/register", authHandler.Register).Methods("POST", "OPTIONS")
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"ok","sessions":%d}`, hub.Count())
	}).Methods("GET")

	// Asset endpoints (public, the playground uploads too)
	r.HandleFunc("/assets/upload", assetHandler.Upload).Methods("POST", "OPTIONS")
	r.PathPrefix(cfg.AssetBaseURL + "/").Handler(assetHandler.Serve(cfg.AssetBaseURL + "/")).Methods("GET")

	// Protected API routes
	api := r.PathPrefix("/api").Subrouter()
	api.Use(authService.AuthMiddleware)
	api.HandleFunc("/me", authHandler.Me).Methods("GET")
	projectHandler.Register(api)

	// WebSocket endpoint
	r.HandleFunc("/ws/project/{projectId}", func(w http.ResponseWriter, r *http.Request) {
		handleWebSocket(w, r, hub, authService, projectService, assetStore, cfg)
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer shutdownCancel()

		// Stop the hub first so open sessions are saved
		slog.Info("saving open sessions...")
		hub.Stop(shutdownCtx)

		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func handleWebSocket(w http.ResponseWriter, r *http.Request, hub *remote.Hub, authSvc *auth.Service,
	projects *project.Service, uploader editor.Uploader, cfg *config.Config) {
	projectID := mux.Vars(r)["projectId"]

	var userID string

	// The playground project allows anonymous access
	if projectID == project.PlaygroundID {
		userID = "anon-" + uuid.New().String()[:8]
	} else {
		// Auth via query param for real projects
		token := r.URL.Query().Get("token")
		if token == "" {
			http.Error(w, "missing token", http.StatusUnauthorized)
			return
		}

		var err error
		userID, err = authSvc.ValidateToken(token)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		if err := projects.Authorize(r.Context(), projectID, userID); err != nil {
			switch {
			case errors.Is(err, project.ErrNotFound):
				http.Error(w, "project not found", http.StatusNotFound)
			case errors.Is(err, project.ErrForbidden):
				http.Error(w, "not the project owner", http.StatusForbidden)
			default:
				http.Error(w, "authorize project", http.StatusInternalServerError)
			}
			return
		}
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: cfg.OriginHosts(),
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		return
	}

	clientID := typeid.NewConnID()
	client := remote.NewClient(hub, conn, userID, projectID, clientID,
		editor.WithStore(projects),
		editor.WithUploader(uploader),
		editor.WithLogger(slog.Default().With("client", clientID, "project", projectID)),
	)

	ctx := r.Context()
	if err := client.Open(ctx); err != nil {
		slog.Error("open project", "error", err, "project", projectID)
		conn.Close(websocket.StatusInternalError, "could not open project")
		return
	}

	hub.Register(client)
	go client.WritePump(ctx)
	client.ReadPump(ctx)
}
