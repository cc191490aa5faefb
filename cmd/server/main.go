package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/vectorpad/vectorpad/internal/auth"
	"github.com/vectorpad/vectorpad/internal/config"
	"github.com/vectorpad/vectorpad/internal/db"
	"github.com/vectorpad/vectorpad/internal/drawing"
	"github.com/vectorpad/vectorpad/internal/export"
	mw "github.com/vectorpad/vectorpad/internal/middleware"
	"github.com/vectorpad/vectorpad/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

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

	queries := db.New(pool)

	authService := auth.NewService(queries, cfg.JWTSecret)
	authHandler := auth.NewHandler(authService)

	drawingService := drawing.NewService(drawing.NewStore(queries), cfg.CanvasWidth, cfg.CanvasHeight)
	drawingHandler := drawing.NewHandler(drawingService)

	exportHandler := export.NewHandler(cfg.CanvasWidth, cfg.CanvasHeight)

	hub := session.NewHub(drawingService.Records, drawingService.SaveRecords, cfg.AutosaveInterval)
	go hub.Run()

	r := mux.NewRouter()

	// Global middleware
	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS(cfg.Origins()))

	// Auth routes (public)
	r.HandleFunc("/auth/register", authHandler.Register).Methods("POST", "OPTIONS")
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Export endpoint (public, used by the playground)
	r.HandleFunc("/export", exportHandler.Export).Methods("POST", "OPTIONS")

	// Protected API routes
	api := r.PathPrefix("/api").Subrouter()
	api.Use(authService.AuthMiddleware)

	api.HandleFunc("/me", authHandler.Me).Methods("GET")
	drawingHandler.Register(api)

	// WebSocket endpoint
	originPatterns := hostPatterns(cfg.Origins())
	r.HandleFunc("/ws/drawing/{drawingId}", func(w http.ResponseWriter, r *http.Request) {
		handleWebSocket(w, r, hub, authService, drawingService, originPatterns)
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

		// Stop the hub first so every open drawing is saved
		slog.Info("saving open drawings...")
		hub.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func handleWebSocket(w http.ResponseWriter, r *http.Request, hub *session.Hub, authSvc *auth.Service, drawings *drawing.Service, originPatterns []string) {
	drawingID := mux.Vars(r)["drawingId"]

	var userID string
	if drawingID == session.PlaygroundDrawingID {
		userID = "anon-" + uuid.New().String()[:8]
	} else {
		var err error
		userID, err = authSvc.Authenticate(r)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		if _, err := drawings.Get(r.Context(), drawingID, userID); err != nil {
			switch {
			case errors.Is(err, drawing.ErrNotFound):
				http.Error(w, "drawing not found", http.StatusNotFound)
			case errors.Is(err, drawing.ErrForbidden):
				http.Error(w, "not the drawing owner", http.StatusForbidden)
			default:
				slog.Error("websocket drawing lookup", "error", err)
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
			return
		}
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: originPatterns,
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		return
	}

	ctx := r.Context()
	client, err := hub.Join(ctx, conn, drawingID, userID)
	if err != nil {
		slog.Error("join session", "drawing", drawingID, "error", err)
		conn.Close(websocket.StatusInternalError, "could not open drawing")
		return
	}

	go client.WritePump(ctx)
	client.ReadPump(ctx)
}

// hostPatterns turns allowed origins into the host patterns the WebSocket
// handshake matches against.
func hostPatterns(origins []string) []string {
	patterns := make([]string, 0, len(origins))
	for _, o := range origins {
		if u, err := url.Parse(o); err == nil && u.Host != "" {
			patterns = append(patterns, u.Host)
			continue
		}
		patterns = append(patterns, o)
	}
	return patterns
}
