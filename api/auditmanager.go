package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/aouyang1/signage/store"
)

const defaultAuditInterval = 10 * time.Minute

// AuditManager periodically checks the store for slides that no queue references.
type AuditManager struct {
	db       *store.Database
	interval time.Duration

	lastOrphans mapset.Set[string]
}

func NewAuditManager(db *store.Database, interval time.Duration) (*AuditManager, error) {
	if db == nil {
		return nil, errors.New("no database provided for audit")
	}
	if interval <= 0 {
		interval = defaultAuditInterval
	}

	return &AuditManager{
		db:          db,
		interval:    interval,
		lastOrphans: mapset.NewSet[string](),
	}, nil
}

// Audit runs one pass and returns the orphaned slides it found.
func (a *AuditManager) Audit(ctx context.Context) ([]store.Slide, error) {
	orphans, err := a.db.OrphanedSlides(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list orphaned slides: %w", err)
	}

	current := mapset.NewSet[string]()
	for _, s := range orphans {
		current.Add(s.ID)
		slog.Warn("orphaned slide", "id", s.ID, "name", s.Name, "owner", s.Owner)
	}

	// resolved since the previous pass
	for id := range a.lastOrphans.Difference(current).Iter() {
		slog.Info("orphaned slide resolved", "id", id)
	}
	a.lastOrphans = current

	return orphans, nil
}

func (a *AuditManager) Run(ctx context.Context) {
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	a.runOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.runOnce(ctx)
		}
	}
}

func (a *AuditManager) runOnce(ctx context.Context) {
	if _, err := a.Audit(ctx); err != nil && ctx.Err() == nil {
		slog.Error("unable to audit slides", "error", err)
	}
}
