package store

import "errors"

var (
	ErrQueueNotFound = errors.New("queue not found")
	ErrSlideNotFound = errors.New("slide not found")
	ErrQueueExists   = errors.New("queue already exists")

	// ErrConflict is returned when a record changed after it was loaded.
	// Callers should reload and retry.
	ErrConflict = errors.New("record was modified concurrently")

	// ErrInconsistent is returned when a queue and slide disagree on membership.
	ErrInconsistent = errors.New("queue and slide membership disagree")
)
