// Package store database for queues, slides, and their memberships
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Database struct {
	db     *sql.DB
	driver string
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func NewDatabase(ctx context.Context, driver, dsn string) (*Database, error) {
	switch driver {
	case DriverSQLite:
		if dsn != ":memory:" && !strings.HasPrefix(dsn, "file:") {
			// Create directory if it doesn't exist
			dir := filepath.Dir(dsn)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
	case DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported database driver: %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if driver == DriverSQLite {
		if err := configureSQLite(ctx, db); err != nil {
			if closeErr := db.Close(); closeErr != nil {
				slog.Error("error closing db", "error", closeErr)
			}
			return nil, err
		}
	}

	if err := db.PingContext(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("error closing db", "error", closeErr)
		}
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	database := &Database{db: db, driver: driver}

	// Create tables if they don't exist
	if err := database.createTables(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("error closing db", "error", closeErr)
		}
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return database, nil
}

func configureSQLite(ctx context.Context, db *sql.DB) error {
	// SQLite benefits from a single writer connection. This also keeps a
	// ":memory:" database alive for the lifetime of the pool.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return fmt.Errorf("failed to run %q: %w", p, err)
		}
	}
	return nil
}

func (d *Database) createTables(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS queues (
			name    TEXT NOT NULL PRIMARY KEY,
			owner   TEXT NOT NULL,
			version BIGINT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS slides (
			id          TEXT NOT NULL PRIMARY KEY,
			name        TEXT NOT NULL,
			owner       TEXT NOT NULL,
			markup      TEXT NOT NULL,
			duration_ms INTEGER NOT NULL,
			version     BIGINT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS queue_slides (
			queue_name TEXT NOT NULL REFERENCES queues(name) ON DELETE CASCADE,
			slide_id   TEXT NOT NULL REFERENCES slides(id) ON DELETE CASCADE,
			position   INTEGER NOT NULL,
			PRIMARY KEY (queue_name, slide_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_queue_slides_slide ON queue_slides(slide_id)`,
	}
	for _, stmt := range stmts {
		if _, err := d.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// rebind rewrites ? placeholders to $N for postgres.
func (d *Database) rebind(query string) string {
	if d.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// withTx executes fn within a database transaction, rolling back on error.
func (d *Database) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			slog.Error("failed to rollback transaction", "error", err)
		}
	}()

	if err := fn(tx); err != nil {
		return asConflict(err)
	}

	if err := tx.Commit(); err != nil {
		return asConflict(fmt.Errorf("failed to commit transaction: %w", err))
	}
	return nil
}

// asConflict marks Postgres deadlock and serialization failures as ErrConflict
// so callers reload and retry them like any other lost race.
func asConflict(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	switch pqErr.Code.Name() {
	case "deadlock_detected", "serialization_failure":
		return fmt.Errorf("%w: %v", ErrConflict, err)
	}
	return err
}

func (d *Database) GetQueue(ctx context.Context, name string) (*Queue, error) {
	return d.getQueue(ctx, d.db, name)
}

func (d *Database) getQueue(ctx context.Context, q querier, name string) (*Queue, error) {
	queue := &Queue{Name: name, SlideIDs: []string{}}
	err := q.QueryRowContext(ctx, d.rebind(`SELECT owner, version FROM queues WHERE name = ?`), name).
		Scan(&queue.Owner, &queue.Version)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrQueueNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get queue: %w", err)
	}

	rows, err := q.QueryContext(ctx, d.rebind(`
		SELECT slide_id
		FROM queue_slides
		WHERE queue_name = ?
		ORDER BY position ASC
	`), name)
	if err != nil {
		return nil, fmt.Errorf("failed to query queue slides: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan queue slide: %w", err)
		}
		queue.SlideIDs = append(queue.SlideIDs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return queue, nil
}

// ListQueues returns every queue ordered by name, including its slide IDs.
func (d *Database) ListQueues(ctx context.Context) ([]Queue, error) {
	rows, err := d.db.QueryContext(ctx, `SELECT name, owner, version FROM queues ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query queues: %w", err)
	}
	defer rows.Close()

	queues := []Queue{}
	index := map[string]int{}
	for rows.Next() {
		q := Queue{SlideIDs: []string{}}
		if err := rows.Scan(&q.Name, &q.Owner, &q.Version); err != nil {
			return nil, fmt.Errorf("failed to scan queue: %w", err)
		}
		index[q.Name] = len(queues)
		queues = append(queues, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	memberRows, err := d.db.QueryContext(ctx, `
		SELECT queue_name, slide_id
		FROM queue_slides
		ORDER BY queue_name ASC, position ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query queue slides: %w", err)
	}
	defer memberRows.Close()

	for memberRows.Next() {
		var queueName, slideID string
		if err := memberRows.Scan(&queueName, &slideID); err != nil {
			return nil, fmt.Errorf("failed to scan queue slide: %w", err)
		}
		if i, ok := index[queueName]; ok {
			queues[i].SlideIDs = append(queues[i].SlideIDs, slideID)
		}
	}
	if err := memberRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return queues, nil
}

func (d *Database) GetSlide(ctx context.Context, id string) (*Slide, error) {
	return d.getSlide(ctx, d.db, id)
}

func (d *Database) getSlide(ctx context.Context, q querier, id string) (*Slide, error) {
	slide := &Slide{ID: id, Queues: mapset.NewSet[string]()}
	err := q.QueryRowContext(ctx, d.rebind(`
		SELECT name, owner, markup, duration_ms, version
		FROM slides
		WHERE id = ?
	`), id).Scan(&slide.Name, &slide.Owner, &slide.Markup, &slide.DurationMs, &slide.Version)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrSlideNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get slide: %w", err)
	}

	rows, err := q.QueryContext(ctx, d.rebind(`SELECT queue_name FROM queue_slides WHERE slide_id = ?`), id)
	if err != nil {
		return nil, fmt.Errorf("failed to query slide queues: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan slide queue: %w", err)
		}
		slide.Queues.Add(name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return slide, nil
}

// ListSlides returns every slide with its queue memberships, ordered by id.
func (d *Database) ListSlides(ctx context.Context) ([]Slide, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, name, owner, markup, duration_ms, version
		FROM slides
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query slides: %w", err)
	}
	defer rows.Close()

	var slides []Slide
	byID := make(map[string]int)
	for rows.Next() {
		s := Slide{Queues: mapset.NewSet[string]()}
		if err := rows.Scan(&s.ID, &s.Name, &s.Owner, &s.Markup, &s.DurationMs, &s.Version); err != nil {
			return nil, fmt.Errorf("failed to scan slide: %w", err)
		}
		byID[s.ID] = len(slides)
		slides = append(slides, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	memberRows, err := d.db.QueryContext(ctx, `SELECT slide_id, queue_name FROM queue_slides`)
	if err != nil {
		return nil, fmt.Errorf("failed to query memberships: %w", err)
	}
	defer memberRows.Close()

	for memberRows.Next() {
		var slideID, queueName string
		if err := memberRows.Scan(&slideID, &queueName); err != nil {
			return nil, fmt.Errorf("failed to scan membership: %w", err)
		}
		if i, ok := byID[slideID]; ok {
			slides[i].Queues.Add(queueName)
		}
	}
	if err := memberRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return slides, nil
}

// OrphanedSlides returns slides that are not referenced by any queue.
func (d *Database) OrphanedSlides(ctx context.Context) ([]Slide, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT s.id, s.name, s.owner, s.markup, s.duration_ms, s.version
		FROM slides s
		WHERE NOT EXISTS (SELECT 1 FROM queue_slides qs WHERE qs.slide_id = s.id)
		ORDER BY s.id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query orphaned slides: %w", err)
	}
	defer rows.Close()

	var slides []Slide
	for rows.Next() {
		s := Slide{Queues: mapset.NewSet[string]()}
		if err := rows.Scan(&s.ID, &s.Name, &s.Owner, &s.Markup, &s.DurationMs, &s.Version); err != nil {
			return nil, fmt.Errorf("failed to scan slide: %w", err)
		}
		slides = append(slides, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return slides, nil
}

func (d *Database) CreateQueue(ctx context.Context, q *Queue) error {
	err := d.withTx(ctx, func(tx *sql.Tx) error {
		// A single statement, so concurrent creates of one name cannot both pass.
		result, err := tx.ExecContext(ctx, d.rebind(`
			INSERT INTO queues (name, owner, version) VALUES (?, ?, 1)
			ON CONFLICT (name) DO NOTHING
		`), q.Name, q.Owner)
		if err != nil {
			return fmt.Errorf("failed to insert queue: %w", err)
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return fmt.Errorf("%w: %s", ErrQueueExists, q.Name)
		}
		return d.writeQueueSlides(ctx, tx, q)
	})
	if err != nil {
		return err
	}

	q.Version = 1
	if q.SlideIDs == nil {
		q.SlideIDs = []string{}
	}
	return nil
}

// CreateSlide inserts a new slide together with its membership in q. The slide
// must already be listed in q.
func (d *Database) CreateSlide(ctx context.Context, s *Slide, q *Queue) error {
	if !q.AgreesWith(s) || !q.Contains(s.ID) {
		return fmt.Errorf("%w: slide %s, queue %s", ErrInconsistent, s.ID, q.Name)
	}

	err := d.withTx(ctx, func(tx *sql.Tx) error {
		if err := d.bumpQueue(ctx, tx, q); err != nil {
			return err
		}

		_, err := tx.ExecContext(ctx, d.rebind(`
			INSERT INTO slides (id, name, owner, markup, duration_ms, version)
			VALUES (?, ?, ?, ?, ?, 1)
		`), s.ID, s.Name, s.Owner, s.Markup, s.DurationMs)
		if err != nil {
			return fmt.Errorf("failed to insert slide: %w", err)
		}

		return d.writeQueueSlides(ctx, tx, q)
	})
	if err != nil {
		return err
	}

	q.Version++
	s.Version = 1
	return nil
}

// UpdateSlide writes the slide's content fields. Membership is not touched.
func (d *Database) UpdateSlide(ctx context.Context, s *Slide) error {
	err := d.withTx(ctx, func(tx *sql.Tx) error {
		if err := d.bumpSlide(ctx, tx, s); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, d.rebind(`
			UPDATE slides SET name = ?, markup = ?, duration_ms = ? WHERE id = ?
		`), s.Name, s.Markup, s.DurationMs, s.ID)
		if err != nil {
			return fmt.Errorf("failed to update slide: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.Version++
	return nil
}

// WriteMembership persists a queue and slide whose membership changed. Both
// records are version checked and written in a single transaction.
func (d *Database) WriteMembership(ctx context.Context, q *Queue, s *Slide) error {
	if !q.AgreesWith(s) {
		return fmt.Errorf("%w: slide %s, queue %s", ErrInconsistent, s.ID, q.Name)
	}

	err := d.withTx(ctx, func(tx *sql.Tx) error {
		if err := d.bumpQueue(ctx, tx, q); err != nil {
			return err
		}
		if err := d.bumpSlide(ctx, tx, s); err != nil {
			return err
		}
		return d.writeQueueSlides(ctx, tx, q)
	})
	if err != nil {
		return err
	}

	q.Version++
	s.Version++
	slog.Debug("membership written", "queue", q.Name, "slide", s.ID, "queue_version", q.Version, "slide_version", s.Version)
	return nil
}

// WriteQueueOrder persists a reordered queue.
func (d *Database) WriteQueueOrder(ctx context.Context, q *Queue) error {
	err := d.withTx(ctx, func(tx *sql.Tx) error {
		if err := d.bumpQueue(ctx, tx, q); err != nil {
			return err
		}
		return d.writeQueueSlides(ctx, tx, q)
	})
	if err != nil {
		return err
	}

	q.Version++
	return nil
}

// DeleteSlide deletes a slide that has been detached from every queue. The
// detached queues are written in the same transaction.
func (d *Database) DeleteSlide(ctx context.Context, s *Slide, detached []*Queue) error {
	if s.Queues != nil && s.Queues.Cardinality() > 0 {
		return fmt.Errorf("%w: slide %s still in queues %v", ErrInconsistent, s.ID, s.QueueNames())
	}
	for _, q := range detached {
		if q.Contains(s.ID) {
			return fmt.Errorf("%w: slide %s, queue %s", ErrInconsistent, s.ID, q.Name)
		}
	}

	err := d.withTx(ctx, func(tx *sql.Tx) error {
		if err := d.bumpSlide(ctx, tx, s); err != nil {
			return err
		}
		for _, q := range detached {
			if err := d.bumpQueue(ctx, tx, q); err != nil {
				return err
			}
			if err := d.writeQueueSlides(ctx, tx, q); err != nil {
				return err
			}
		}

		var remaining int
		err := tx.QueryRowContext(ctx, d.rebind(`SELECT COUNT(*) FROM queue_slides WHERE slide_id = ?`), s.ID).Scan(&remaining)
		if err != nil {
			return fmt.Errorf("failed to count slide memberships: %w", err)
		}
		if remaining > 0 {
			return fmt.Errorf("%w: slide %s has %d memberships not detached", ErrConflict, s.ID, remaining)
		}

		if _, err := tx.ExecContext(ctx, d.rebind(`DELETE FROM slides WHERE id = ?`), s.ID); err != nil {
			return fmt.Errorf("failed to delete slide: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, q := range detached {
		q.Version++
	}
	slog.Info("slide deleted", "id", s.ID, "queues", len(detached))
	return nil
}

// DeleteQueue deletes a queue. Slides that belonged only to this queue are
// deleted with it and their IDs are returned.
func (d *Database) DeleteQueue(ctx context.Context, q *Queue) ([]string, error) {
	var deleted []string
	err := d.withTx(ctx, func(tx *sql.Tx) error {
		if err := d.bumpQueue(ctx, tx, q); err != nil {
			return err
		}

		// Every slide in the queue is locked and bumped before memberships are
		// counted. A concurrent removal from another queue either commits first
		// and is seen by the count, or fails its version check afterwards.
		if err := d.lockQueueSlides(ctx, tx, q.Name); err != nil {
			return err
		}

		var err error
		deleted, err = d.queueOnlySlides(ctx, tx, q.Name)
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, d.rebind(`DELETE FROM queue_slides WHERE queue_name = ?`), q.Name); err != nil {
			return fmt.Errorf("failed to delete queue slides: %w", err)
		}
		for _, id := range deleted {
			if _, err := tx.ExecContext(ctx, d.rebind(`DELETE FROM slides WHERE id = ?`), id); err != nil {
				return fmt.Errorf("failed to delete slide %s: %w", id, err)
			}
		}
		if _, err := tx.ExecContext(ctx, d.rebind(`DELETE FROM queues WHERE name = ?`), q.Name); err != nil {
			return fmt.Errorf("failed to delete queue: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("queue deleted", "name", q.Name, "deleted_slides", len(deleted))
	return deleted, nil
}

// lockQueueSlides bumps the version of every slide in a queue. Postgres rows
// are locked in id order first so two queue deletes sharing slides cannot
// deadlock.
func (d *Database) lockQueueSlides(ctx context.Context, tx *sql.Tx, queueName string) error {
	if d.driver == DriverPostgres {
		rows, err := tx.QueryContext(ctx, d.rebind(`
			SELECT id FROM slides
			WHERE id IN (SELECT slide_id FROM queue_slides WHERE queue_name = ?)
			ORDER BY id ASC
			FOR UPDATE
		`), queueName)
		if err != nil {
			return fmt.Errorf("failed to lock queue slides: %w", err)
		}
		defer rows.Close()
		for rows.Next() {
			var id string
			if err := rows.Scan(&id); err != nil {
				return fmt.Errorf("failed to scan locked slide: %w", err)
			}
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("failed to lock queue slides: %w", err)
		}
		rows.Close()
	}

	_, err := tx.ExecContext(ctx, d.rebind(`
		UPDATE slides SET version = version + 1
		WHERE id IN (SELECT slide_id FROM queue_slides WHERE queue_name = ?)
	`), queueName)
	if err != nil {
		return fmt.Errorf("failed to bump slide versions: %w", err)
	}
	return nil
}

// queueOnlySlides returns the slides whose only membership is in the queue, in
// queue order.
func (d *Database) queueOnlySlides(ctx context.Context, tx *sql.Tx, queueName string) ([]string, error) {
	rows, err := tx.QueryContext(ctx, d.rebind(`
		SELECT qs.slide_id
		FROM queue_slides qs
		WHERE qs.queue_name = ?
		  AND (SELECT COUNT(*) FROM queue_slides o WHERE o.slide_id = qs.slide_id) = 1
		ORDER BY qs.position ASC
	`), queueName)
	if err != nil {
		return nil, fmt.Errorf("failed to query queue-only slides: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan slide id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return ids, nil
}

func (d *Database) bumpQueue(ctx context.Context, tx *sql.Tx, q *Queue) error {
	return d.bumpVersion(ctx, tx, "queues", "name", q.Name, q.Version, ErrQueueNotFound)
}

func (d *Database) bumpSlide(ctx context.Context, tx *sql.Tx, s *Slide) error {
	return d.bumpVersion(ctx, tx, "slides", "id", s.ID, s.Version, ErrSlideNotFound)
}

// bumpVersion increments a record's version if it still matches the version
// the caller loaded.
func (d *Database) bumpVersion(ctx context.Context, tx *sql.Tx, table, keyCol, key string, version int64, notFound error) error {
	query := fmt.Sprintf(`UPDATE %s SET version = version + 1 WHERE %s = ? AND version = ?`, table, keyCol)
	result, err := tx.ExecContext(ctx, d.rebind(query), key, version)
	if err != nil {
		return fmt.Errorf("failed to update %s version: %w", table, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 1 {
		return nil
	}

	var count int
	query = fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = ?`, table, keyCol)
	if err := tx.QueryRowContext(ctx, d.rebind(query), key).Scan(&count); err != nil {
		return fmt.Errorf("failed to check %s existence: %w", table, err)
	}
	if count == 0 {
		return fmt.Errorf("%w: %s", notFound, key)
	}
	return fmt.Errorf("%w: %s %s at version %d", ErrConflict, table, key, version)
}

func (d *Database) writeQueueSlides(ctx context.Context, tx *sql.Tx, q *Queue) error {
	if _, err := tx.ExecContext(ctx, d.rebind(`DELETE FROM queue_slides WHERE queue_name = ?`), q.Name); err != nil {
		return fmt.Errorf("failed to clear queue slides: %w", err)
	}

	insert := d.rebind(`INSERT INTO queue_slides (queue_name, slide_id, position) VALUES (?, ?, ?)`)
	for i, id := range q.SlideIDs {
		if _, err := tx.ExecContext(ctx, insert, q.Name, id, i); err != nil {
			return fmt.Errorf("failed to insert queue slide %s: %w", id, err)
		}
	}
	return nil
}

func (d *Database) Close() error {
	return d.db.Close()
}
