package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"

	"github.com/aouyang1/signage/api/models"
	"github.com/aouyang1/signage/membership"
	"github.com/aouyang1/signage/store"
)

// Writes that lose an optimistic concurrency race are reloaded and retried
// this many times before the caller gets a 409.
const maxWriteAttempts = 3

var queueNameRe = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

func withRetry(ctx context.Context, op string, fn func() error) error {
	var err error
	for attempt := 1; attempt <= maxWriteAttempts; attempt++ {
		err = fn()
		if !errors.Is(err, store.ErrConflict) {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		slog.Debug("write conflict, retrying", "op", op, "attempt", attempt, "error", err)
	}
	return err
}

// loadedTogether turns a queue and slide that disagree on membership into a
// conflict, so the pair is reloaded instead of acted on.
func loadedTogether(queue *store.Queue, slide *store.Slide) error {
	if !membership.Consistent(queue, slide) {
		return fmt.Errorf("%w: queue %s and slide %s read across a write", store.ErrConflict, queue.Name, slide.ID)
	}
	return nil
}

func (ws *WebServer) handleQueueRemoveSlide(c *gin.Context) {
	var req models.QueueSlideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	err := withRetry(ctx, "queue_remove_slide", func() error {
		queue, err := ws.db.GetQueue(ctx, req.QueueName)
		if err != nil {
			return err
		}
		slide, err := ws.db.GetSlide(ctx, req.SlideID)
		if err != nil {
			return err
		}
		if err := loadedTogether(queue, slide); err != nil {
			return err
		}

		queue, slide, err = membership.RemoveSlide(queue, slide)
		if err != nil {
			return err
		}
		return ws.db.WriteMembership(ctx, queue, slide)
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.EmptyResponse{})
}

func (ws *WebServer) handleQueueAddSlide(c *gin.Context) {
	var req models.AddSlideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	position := membership.AppendPosition
	if req.Position != nil {
		position = *req.Position
	}

	ctx := c.Request.Context()
	var result *store.Queue
	err := withRetry(ctx, "queue_add_slide", func() error {
		queue, err := ws.db.GetQueue(ctx, req.QueueName)
		if err != nil {
			return err
		}
		slide, err := ws.db.GetSlide(ctx, req.SlideID)
		if err != nil {
			return err
		}
		if err := loadedTogether(queue, slide); err != nil {
			return err
		}

		queue, slide, err = membership.AddSlide(queue, slide, position)
		if err != nil {
			return err
		}
		if err := ws.db.WriteMembership(ctx, queue, slide); err != nil {
			return err
		}
		result = queue
		return nil
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (ws *WebServer) handleQueueMoveSlide(c *gin.Context) {
	var req models.MoveSlideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	var result *store.Queue
	err := withRetry(ctx, "queue_move_slide", func() error {
		queue, err := ws.db.GetQueue(ctx, req.QueueName)
		if err != nil {
			return err
		}
		queue, err = membership.MoveSlide(queue, req.SlideID, *req.Position)
		if err != nil {
			return err
		}
		if err := ws.db.WriteQueueOrder(ctx, queue); err != nil {
			return err
		}
		result = queue
		return nil
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (ws *WebServer) handleQueueCreate(c *gin.Context) {
	var req models.QueueNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	if !queueNameRe.MatchString(req.Name) {
		respondBadRequest(c, fmt.Errorf("queue name %q must be 1-64 letters, digits, '-' or '_'", req.Name))
		return
	}

	queue := &store.Queue{
		Name:     req.Name,
		Owner:    GetRequestContext(c).User.Name,
		SlideIDs: []string{},
	}
	if err := ws.db.CreateQueue(c.Request.Context(), queue); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, queue)
}

func (ws *WebServer) handleQueueGet(c *gin.Context) {
	name := c.Query("name")
	if name == "" {
		respondBadRequest(c, errors.New("name is required"))
		return
	}

	queue, err := ws.db.GetQueue(c.Request.Context(), name)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, queue)
}

func (ws *WebServer) handleQueueList(c *gin.Context) {
	queues, err := ws.db.ListQueues(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if queues == nil {
		queues = []store.Queue{}
	}

	c.JSON(http.StatusOK, models.QueueListResponse{Queues: queues})
}

// handleQueueRemove deletes a queue along with the slides that were only in it.
func (ws *WebServer) handleQueueRemove(c *gin.Context) {
	var req models.QueueNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	var deleted []string
	err := withRetry(ctx, "queue_remove", func() error {
		queue, err := ws.db.GetQueue(ctx, req.Name)
		if err != nil {
			return err
		}
		deleted, err = ws.db.DeleteQueue(ctx, queue)
		return err
	})
	if err != nil {
		respondError(c, err)
		return
	}

	for _, id := range deleted {
		ws.deleteSlideAssets(ctx, id)
	}
	if deleted == nil {
		deleted = []string{}
	}

	c.JSON(http.StatusOK, models.RemoveQueueResponse{DeletedSlides: deleted})
}
