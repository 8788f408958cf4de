package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/aouyang1/signage/api/models"
	"github.com/aouyang1/signage/assets"
	"github.com/aouyang1/signage/membership"
	"github.com/aouyang1/signage/store"
)

const (
	defaultSlideDurationMs = 5000
	maxSlideDurationMs     = 24 * 60 * 60 * 1000
)

func validDuration(ms int) (int, error) {
	if ms == 0 {
		return defaultSlideDurationMs, nil
	}
	if ms < 0 || ms > maxSlideDurationMs {
		return 0, fmt.Errorf("duration_ms must be between 1 and %d", maxSlideDurationMs)
	}
	return ms, nil
}

// handleSlideCreate creates a slide directly inside a queue, so it is never orphaned.
func (ws *WebServer) handleSlideCreate(c *gin.Context) {
	var req models.CreateSlideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	duration, err := validDuration(req.DurationMs)
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	position := membership.AppendPosition
	if req.Position != nil {
		position = *req.Position
	}

	ctx := c.Request.Context()
	draft := &store.Slide{
		ID:         uuid.NewString(),
		Name:       req.Name,
		Owner:      GetRequestContext(c).User.Name,
		Markup:     req.Markup,
		DurationMs: duration,
	}

	var created *store.Slide
	err = withRetry(ctx, "slide_create", func() error {
		queue, err := ws.db.GetQueue(ctx, req.QueueName)
		if err != nil {
			return err
		}
		queue, slide, err := membership.AddSlide(queue, draft, position)
		if err != nil {
			return err
		}
		if err := ws.db.CreateSlide(ctx, slide, queue); err != nil {
			return err
		}
		created = slide
		return nil
	})
	if err != nil {
		respondError(c, err)
		return
	}

	slog.Info("slide created", "id", created.ID, "queue", req.QueueName, "owner", created.Owner)
	c.JSON(http.StatusOK, models.NewSlideResponse(created))
}

func (ws *WebServer) handleSlideUpdate(c *gin.Context) {
	var req models.UpdateSlideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	duration, err := validDuration(req.DurationMs)
	if err != nil {
		respondBadRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	var updated *store.Slide
	err = withRetry(ctx, "slide_update", func() error {
		slide, err := ws.db.GetSlide(ctx, req.ID)
		if err != nil {
			return err
		}
		slide.Name = req.Name
		slide.Markup = req.Markup
		slide.DurationMs = duration
		if err := ws.db.UpdateSlide(ctx, slide); err != nil {
			return err
		}
		updated = slide
		return nil
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.NewSlideResponse(updated))
}

func (ws *WebServer) handleSlideGet(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		respondBadRequest(c, errors.New("id is required"))
		return
	}

	slide, err := ws.db.GetSlide(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.NewSlideResponse(slide))
}

func (ws *WebServer) handleSlideList(c *gin.Context) {
	slides, err := ws.db.ListSlides(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	resp := models.SlideListResponse{Slides: make([]models.SlideResponse, 0, len(slides))}
	for i := range slides {
		resp.Slides = append(resp.Slides, models.NewSlideResponse(&slides[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// handleSlideRemove removes a slide from every queue and deletes it. This is the
// only way to take a slide out of its last queue.
func (ws *WebServer) handleSlideRemove(c *gin.Context) {
	var req models.SlideIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	err := withRetry(ctx, "slide_remove", func() error {
		slide, err := ws.db.GetSlide(ctx, req.ID)
		if err != nil {
			return err
		}

		queues := make([]*store.Queue, 0, slide.Queues.Cardinality())
		for _, name := range slide.QueueNames() {
			queue, err := ws.db.GetQueue(ctx, name)
			if errors.Is(err, store.ErrQueueNotFound) {
				// deleted since the slide was loaded
				return fmt.Errorf("%w: %v", store.ErrConflict, err)
			}
			if err != nil {
				return err
			}
			queues = append(queues, queue)
		}

		detached, slide, err := membership.DetachSlide(slide, queues)
		if errors.Is(err, membership.ErrNotAMember) || errors.Is(err, membership.ErrIncompleteDetach) {
			return fmt.Errorf("%w: %v", store.ErrConflict, err)
		}
		if err != nil {
			return err
		}
		return ws.db.DeleteSlide(ctx, slide, detached)
	})
	if err != nil {
		respondError(c, err)
		return
	}

	ws.deleteSlideAssets(ctx, req.ID)
	c.JSON(http.StatusOK, models.EmptyResponse{})
}

// deleteSlideAssets is best effort; a failure leaves unreferenced objects behind.
func (ws *WebServer) deleteSlideAssets(ctx context.Context, slideID string) {
	if ws.assets == nil {
		return
	}
	if _, err := ws.assets.DeleteSlide(ctx, slideID); err != nil {
		slog.Error("failed to delete slide assets", "slide_id", slideID, "error", err)
	}
}

func (ws *WebServer) handleAssetUpload(c *gin.Context) {
	if ws.assets == nil {
		respondError(c, errAssetsDisabled)
		return
	}

	slideID := c.PostForm("slide_id")
	if slideID == "" {
		respondBadRequest(c, errors.New("slide_id is required"))
		return
	}
	file, err := c.FormFile("file")
	if err != nil {
		respondBadRequest(c, errors.New("no file provided"))
		return
	}
	name := filepath.Base(file.Filename)
	if _, err := assets.Key(slideID, name); err != nil {
		respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	if _, err := ws.db.GetSlide(ctx, slideID); err != nil {
		respondError(c, err)
		return
	}

	f, err := file.Open()
	if err != nil {
		respondError(c, fmt.Errorf("failed to open uploaded file: %w", err))
		return
	}
	defer f.Close()

	asset, err := ws.assets.Upload(ctx, slideID, name, file.Header.Get("Content-Type"), file.Size, f)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, asset)
}

func (ws *WebServer) handleAssetList(c *gin.Context) {
	if ws.assets == nil {
		respondError(c, errAssetsDisabled)
		return
	}

	id := c.Query("id")
	if id == "" {
		respondBadRequest(c, errors.New("id is required"))
		return
	}

	ctx := c.Request.Context()
	if _, err := ws.db.GetSlide(ctx, id); err != nil {
		respondError(c, err)
		return
	}

	list, err := ws.assets.List(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	if list == nil {
		list = []assets.Asset{}
	}

	c.JSON(http.StatusOK, models.AssetListResponse{SlideID: id, Assets: list})
}
