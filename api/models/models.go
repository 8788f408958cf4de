// Package models tracks all api models for request and responses
package models

import (
	"github.com/aouyang1/signage/assets"
	"github.com/aouyang1/signage/store"
)

type QueueSlideRequest struct {
	QueueName string `json:"queue_name" binding:"required"`
	SlideID   string `json:"slide_id" binding:"required"`
}

type AddSlideRequest struct {
	QueueName string `json:"queue_name" binding:"required"`
	SlideID   string `json:"slide_id" binding:"required"`
	// Position defaults to the end of the queue
	Position *int `json:"position"`
}

type MoveSlideRequest struct {
	QueueName string `json:"queue_name" binding:"required"`
	SlideID   string `json:"slide_id" binding:"required"`
	Position  *int   `json:"position" binding:"required"`
}

type QueueNameRequest struct {
	Name string `json:"name" binding:"required"`
}

type QueueListResponse struct {
	Queues []store.Queue `json:"queues"`
}

type RemoveQueueResponse struct {
	DeletedSlides []string `json:"deleted_slides"`
}

type CreateSlideRequest struct {
	QueueName  string `json:"queue_name" binding:"required"`
	Name       string `json:"name" binding:"required"`
	Markup     string `json:"markup"`
	DurationMs int    `json:"duration_ms"`
	Position   *int   `json:"position"`
}

type UpdateSlideRequest struct {
	ID         string `json:"id" binding:"required"`
	Name       string `json:"name" binding:"required"`
	Markup     string `json:"markup"`
	DurationMs int    `json:"duration_ms"`
}

type SlideIDRequest struct {
	ID string `json:"id" binding:"required"`
}

type SlideResponse struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Owner      string   `json:"owner"`
	Markup     string   `json:"markup"`
	DurationMs int      `json:"duration_ms"`
	Queues     []string `json:"queues"`
	Version    int64    `json:"version"`
}

func NewSlideResponse(s *store.Slide) SlideResponse {
	return SlideResponse{
		ID:         s.ID,
		Name:       s.Name,
		Owner:      s.Owner,
		Markup:     s.Markup,
		DurationMs: s.DurationMs,
		Queues:     s.QueueNames(),
		Version:    s.Version,
	}
}

type SlideListResponse struct {
	Slides []SlideResponse `json:"slides"`
}

type AssetListResponse struct {
	SlideID string         `json:"slide_id"`
	Assets  []assets.Asset `json:"assets"`
}

type EmptyResponse struct{}

type ErrorResponse struct {
	Error string `json:"error"`
}
