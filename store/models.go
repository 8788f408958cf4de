package store

import (
	"slices"

	mapset "github.com/deckarep/golang-set/v2"
)

// Queue is a named, ordered list of slide IDs. SlideIDs order is display order.
type Queue struct {
	Name     string   `json:"name"`
	Owner    string   `json:"owner"`
	SlideIDs []string `json:"slide_ids"`
	Version  int64    `json:"version"`
}

// Slide is a unit of displayable content. Queues is the set of queue names that
// reference the slide. It is derived from membership rows when the slide is loaded.
type Slide struct {
	ID         string
	Name       string
	Owner      string
	Markup     string
	DurationMs int
	Queues     mapset.Set[string]
	Version    int64
}

func (q *Queue) Clone() *Queue {
	c := *q
	c.SlideIDs = slices.Clone(q.SlideIDs)
	if c.SlideIDs == nil {
		c.SlideIDs = []string{}
	}
	return &c
}

func (q *Queue) Contains(slideID string) bool {
	return slices.Contains(q.SlideIDs, slideID)
}

// AgreesWith reports whether q and s agree on whether s is a member of q.
func (q *Queue) AgreesWith(s *Slide) bool {
	inSlide := s.Queues != nil && s.Queues.Contains(q.Name)
	return q.Contains(s.ID) == inSlide
}

func (s *Slide) Clone() *Slide {
	c := *s
	if s.Queues == nil {
		c.Queues = mapset.NewSet[string]()
	} else {
		c.Queues = s.Queues.Clone()
	}
	return &c
}

// QueueNames returns the slide's queue names in sorted order.
func (s *Slide) QueueNames() []string {
	if s.Queues == nil {
		return []string{}
	}
	names := s.Queues.ToSlice()
	slices.Sort(names)
	return names
}
