// Package api is the main api web server
package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aouyang1/signage/assets"
	"github.com/aouyang1/signage/auth"
	"github.com/aouyang1/signage/ratelimit"
	"github.com/aouyang1/signage/store"
)

const (
	shutdownTimeout = 10 * time.Second

	limiterPruneInterval = 10 * time.Minute
	limiterIdle          = 30 * time.Minute

	licenseFallback = "signage: license unavailable\n"
)

// AssetStore keeps the media files attached to slides.
type AssetStore interface {
	Upload(ctx context.Context, slideID, name, contentType string, size int64, body io.Reader) (assets.Asset, error)
	List(ctx context.Context, slideID string) ([]assets.Asset, error)
	DeleteSlide(ctx context.Context, slideID string) (int, error)
}

type Options struct {
	Verifier *auth.Verifier
	Limiter  *ratelimit.Limiter
	// Assets is optional; asset endpoints answer 404 without it.
	Assets        AssetStore
	LicensePath   string
	AuditInterval time.Duration
}

type WebServer struct {
	router *gin.Engine
	db     *store.Database

	verifier    *auth.Verifier
	limiter     *ratelimit.Limiter
	assets      AssetStore
	licensePath string

	auditManager *AuditManager
}

func NewWebServer(db *store.Database, opts Options) (*WebServer, error) {
	if db == nil {
		return nil, errors.New("no database provided for web server")
	}
	if opts.Verifier == nil {
		return nil, errors.New("no token verifier provided for web server")
	}

	auditManager, err := NewAuditManager(db, opts.AuditInterval)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize audit manager: %w", err)
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	ws := &WebServer{
		router:       router,
		db:           db,
		verifier:     opts.Verifier,
		limiter:      opts.Limiter,
		assets:       opts.Assets,
		licensePath:  opts.LicensePath,
		auditManager: auditManager,
	}

	// Setup routes
	ws.setupRoutes()

	return ws, nil
}

func (ws *WebServer) setupRoutes() {
	ws.router.GET("/api/endpoint/license", ws.handleLicense)

	endpoints := ws.router.Group("/api/endpoint", ws.authenticate, ws.rateLimit)
	editors := requireGroups(auth.GroupAdmin, auth.GroupEditor)

	queue := endpoints.Group("/queue")
	queue.POST("/queue_remove_slide", editors, ws.handleQueueRemoveSlide)
	queue.POST("/queue_add_slide", editors, ws.handleQueueAddSlide)
	queue.POST("/queue_move_slide", editors, ws.handleQueueMoveSlide)
	queue.POST("/queue_create", editors, ws.handleQueueCreate)
	queue.POST("/queue_remove", editors, ws.handleQueueRemove)
	queue.GET("/queue_get", ws.handleQueueGet)
	queue.GET("/queue_list", ws.handleQueueList)

	slide := endpoints.Group("/slide")
	slide.POST("/slide_create", editors, ws.handleSlideCreate)
	slide.POST("/slide_update", editors, ws.handleSlideUpdate)
	slide.POST("/slide_remove", editors, ws.handleSlideRemove)
	slide.GET("/slide_get", ws.handleSlideGet)
	slide.GET("/slide_list", ws.handleSlideList)
	slide.POST("/asset_upload", editors, ws.handleAssetUpload)
	slide.GET("/asset_list", ws.handleAssetList)
}

// Handler exposes the router, mainly for tests.
func (ws *WebServer) Handler() http.Handler {
	return ws.router
}

func (ws *WebServer) AuditManager() *AuditManager {
	return ws.auditManager
}

// Start serves on addr until ctx is cancelled, then shuts down gracefully.
func (ws *WebServer) Start(ctx context.Context, addr string) error {
	go ws.auditManager.Run(ctx)
	go ws.pruneLimiter(ctx)

	srv := &http.Server{
		Addr:              addr,
		Handler:           ws.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting web server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start web server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down web server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down web server: %w", err)
	}
	return nil
}

func (ws *WebServer) pruneLimiter(ctx context.Context) {
	if !ws.limiter.Enabled() {
		return
	}
	ticker := time.NewTicker(limiterPruneInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := ws.limiter.Prune(limiterIdle); n > 0 {
				slog.Debug("pruned idle rate limit buckets", "count", n)
			}
		}
	}
}

func (ws *WebServer) handleLicense(c *gin.Context) {
	data, err := os.ReadFile(ws.licensePath)
	if err != nil {
		slog.Error("failed to read license", "path", ws.licensePath, "error", err)
		data = []byte(licenseFallback)
	}
	c.Data(http.StatusOK, "text/plain; charset=utf-8", data)
}
