// Package membership enforces referential integrity between queues and slides.
//
// Every operation works on already loaded records and returns modified copies.
// Inputs are never mutated, and nothing here touches a store.
package membership

import (
	"fmt"
	"slices"

	"github.com/aouyang1/signage/store"
)

// AppendPosition inserts a slide at the end of a queue.
const AppendPosition = -1

// RemoveSlide removes s from q. It fails with ErrNotAMember if s is not in q and
// with ErrWouldOrphanSlide if q is the last queue holding s.
func RemoveSlide(q *store.Queue, s *store.Slide) (*store.Queue, *store.Slide, error) {
	idx := slices.Index(q.SlideIDs, s.ID)
	if idx == -1 {
		return nil, nil, fmt.Errorf("%w: slide %s, queue %s", ErrNotAMember, s.ID, q.Name)
	}

	remaining := 0
	if s.Queues != nil {
		remaining = s.Queues.Cardinality()
		if s.Queues.Contains(q.Name) {
			remaining--
		}
	}
	if remaining < 1 {
		return nil, nil, fmt.Errorf("%w: slide %s, queue %s", ErrWouldOrphanSlide, s.ID, q.Name)
	}

	newQueue := q.Clone()
	newQueue.SlideIDs = slices.Delete(newQueue.SlideIDs, idx, idx+1)

	newSlide := s.Clone()
	newSlide.Queues.Remove(q.Name)

	return newQueue, newSlide, nil
}

// AddSlide inserts s into q at position. AppendPosition, or any position past
// the end, appends.
func AddSlide(q *store.Queue, s *store.Slide, position int) (*store.Queue, *store.Slide, error) {
	if q.Contains(s.ID) {
		return nil, nil, fmt.Errorf("%w: slide %s, queue %s", ErrAlreadyAMember, s.ID, q.Name)
	}
	if position < AppendPosition {
		return nil, nil, fmt.Errorf("%w: %d", ErrInvalidPosition, position)
	}

	newQueue := q.Clone()
	if position == AppendPosition || position >= len(newQueue.SlideIDs) {
		newQueue.SlideIDs = append(newQueue.SlideIDs, s.ID)
	} else {
		newQueue.SlideIDs = slices.Insert(newQueue.SlideIDs, position, s.ID)
	}

	newSlide := s.Clone()
	newSlide.Queues.Add(q.Name)

	return newQueue, newSlide, nil
}

// MoveSlide moves slideID to position within q.
func MoveSlide(q *store.Queue, slideID string, position int) (*store.Queue, error) {
	idx := slices.Index(q.SlideIDs, slideID)
	if idx == -1 {
		return nil, fmt.Errorf("%w: slide %s, queue %s", ErrNotAMember, slideID, q.Name)
	}
	if position < 0 || position >= len(q.SlideIDs) {
		return nil, fmt.Errorf("%w: %d not in [0, %d)", ErrInvalidPosition, position, len(q.SlideIDs))
	}

	newQueue := q.Clone()
	if idx == position {
		return newQueue, nil
	}
	newQueue.SlideIDs = slices.Delete(newQueue.SlideIDs, idx, idx+1)
	newQueue.SlideIDs = slices.Insert(newQueue.SlideIDs, position, slideID)
	return newQueue, nil
}

// DetachSlide removes s from every queue it belongs to. It is the first half of
// deleting a slide: the returned slide has no memberships left and must be
// deleted together with the returned queues. queues must cover all of s.Queues.
func DetachSlide(s *store.Slide, queues []*store.Queue) ([]*store.Queue, *store.Slide, error) {
	newSlide := s.Clone()
	detached := make([]*store.Queue, 0, len(queues))
	for _, q := range queues {
		idx := slices.Index(q.SlideIDs, s.ID)
		if idx == -1 {
			return nil, nil, fmt.Errorf("%w: slide %s, queue %s", ErrNotAMember, s.ID, q.Name)
		}
		newQueue := q.Clone()
		newQueue.SlideIDs = slices.Delete(newQueue.SlideIDs, idx, idx+1)
		detached = append(detached, newQueue)
		newSlide.Queues.Remove(q.Name)
	}

	if newSlide.Queues.Cardinality() > 0 {
		return nil, nil, fmt.Errorf("%w: %v", ErrIncompleteDetach, newSlide.QueueNames())
	}
	return detached, newSlide, nil
}

// Consistent reports whether q and s agree on whether s is a member of q.
// A queue and slide loaded by separate reads can disagree when a write lands
// between them.
func Consistent(q *store.Queue, s *store.Slide) bool {
	return q.AgreesWith(s)
}
