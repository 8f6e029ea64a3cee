package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/udisondev/gridnav/internal/geo"
	"github.com/udisondev/gridnav/internal/goals"
)

// ErrInvalidMarker is returned for markers that can never become goals.
var ErrInvalidMarker = errors.New("invalid goal marker")

// Marker is a goal record stored under a goal key.
type Marker struct {
	Key string
	goals.Record
}

// GoalMarkerRepository handles goal marker CRUD operations.
type GoalMarkerRepository struct {
	pool *pgxpool.Pool
}

// NewGoalMarkerRepository creates a new goal marker repository.
func NewGoalMarkerRepository(pool *pgxpool.Pool) *GoalMarkerRepository {
	return &GoalMarkerRepository{pool: pool}
}

const upsertMarker = `
	INSERT INTO goal_markers (goal_key, x, y, z, strength)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (goal_key, x, y, z) DO UPDATE SET strength = EXCLUDED.strength
`

// Create stores m, replacing the strength of an existing marker at the same
// key and position.
func (r *GoalMarkerRepository) Create(ctx context.Context, m Marker) error {
	if err := validate(m); err != nil {
		return err
	}
	p := m.Position
	if _, err := r.pool.Exec(ctx, upsertMarker, m.Key, p.X, p.Y, p.Z, m.Strength); err != nil {
		return fmt.Errorf("creating marker %q at %s: %w", m.Key, p, err)
	}
	return nil
}

// ReplaceKey atomically replaces every marker stored under key.
func (r *GoalMarkerRepository) ReplaceKey(ctx context.Context, key string, records []goals.Record) error {
	for _, rec := range records {
		if err := validate(Marker{Key: key, Record: rec}); err != nil {
			return err
		}
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction for %q: %w", key, err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			slog.Error("rollback failed", "goal", key, "error", err)
		}
	}()

	if _, err := tx.Exec(ctx, `DELETE FROM goal_markers WHERE goal_key = $1`, key); err != nil {
		return fmt.Errorf("clearing markers %q: %w", key, err)
	}

	batch := &pgx.Batch{}
	for _, rec := range records {
		p := rec.Position
		batch.Queue(upsertMarker, key, p.X, p.Y, p.Z, rec.Strength)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("inserting markers %q: %w", key, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit markers %q: %w", key, err)
	}
	return nil
}

// LoadAll loads every stored marker.
func (r *GoalMarkerRepository) LoadAll(ctx context.Context) ([]Marker, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT goal_key, x, y, z, strength
		FROM goal_markers
		ORDER BY goal_key, z, y, x
	`)
	if err != nil {
		return nil, fmt.Errorf("loading all markers: %w", err)
	}
	return scanMarkers(rows)
}

// LoadLevel loads the markers on level z.
func (r *GoalMarkerRepository) LoadLevel(ctx context.Context, z int32) ([]Marker, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT goal_key, x, y, z, strength
		FROM goal_markers
		WHERE z = $1
		ORDER BY goal_key, y, x
	`, z)
	if err != nil {
		return nil, fmt.Errorf("loading markers on level %d: %w", z, err)
	}
	return scanMarkers(rows)
}

// Delete removes the marker at p under key. It reports whether a marker was
// removed.
func (r *GoalMarkerRepository) Delete(ctx context.Context, key string, p geo.Position) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM goal_markers WHERE goal_key = $1 AND x = $2 AND y = $3 AND z = $4`,
		key, p.X, p.Y, p.Z,
	)
	if err != nil {
		return false, fmt.Errorf("deleting marker %q at %s: %w", key, p, err)
	}
	return tag.RowsAffected() > 0, nil
}

// LoadInto adds the stored markers to idx and returns how many were added.
// Without levels every marker is loaded, otherwise the levels are loaded
// concurrently.
func (r *GoalMarkerRepository) LoadInto(ctx context.Context, idx *goals.MarkerIndex, levels ...int32) (int, error) {
	if len(levels) == 0 {
		markers, err := r.LoadAll(ctx)
		if err != nil {
			return 0, err
		}
		return fill(idx, markers), nil
	}

	levels = uniqueLevels(levels)
	loaded := make([][]Marker, len(levels))
	g, gctx := errgroup.WithContext(ctx)
	for i, z := range levels {
		g.Go(func() error {
			markers, err := r.LoadLevel(gctx, z)
			if err != nil {
				return err
			}
			loaded[i] = markers
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	n := 0
	for _, markers := range loaded {
		n += fill(idx, markers)
	}
	slog.Debug("goal markers loaded", "levels", levels, "markers", n)
	return n, nil
}

// uniqueLevels returns a sorted copy of levels without repeats.
func uniqueLevels(levels []int32) []int32 {
	out := slices.Clone(levels)
	slices.Sort(out)
	return slices.Compact(out)
}

func fill(idx *goals.MarkerIndex, markers []Marker) int {
	n := 0
	for _, m := range markers {
		if idx.Add(m.Key, m.Record) {
			n++
		}
	}
	return n
}

func scanMarkers(rows pgx.Rows) ([]Marker, error) {
	defer rows.Close()

	markers := make([]Marker, 0, 64)
	for rows.Next() {
		var m Marker
		if err := rows.Scan(&m.Key, &m.Position.X, &m.Position.Y, &m.Position.Z, &m.Strength); err != nil {
			return nil, fmt.Errorf("scanning marker row: %w", err)
		}
		markers = append(markers, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating marker rows: %w", err)
	}
	return markers, nil
}

func validate(m Marker) error {
	switch {
	case m.Key == "":
		return fmt.Errorf("marker at %s without key: %w", m.Position, ErrInvalidMarker)
	case !m.Position.Valid():
		return fmt.Errorf("marker %q at %s: %w", m.Key, m.Position, ErrInvalidMarker)
	case m.Strength <= 0:
		return fmt.Errorf("marker %q strength %v: %w", m.Key, m.Strength, ErrInvalidMarker)
	}
	return nil
}
