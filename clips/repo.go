// Package clips implements the Clip Delivery module of spec.md §4.7:
// relational clip metadata, RBAC-governed listing/fetch, signed asset
// URLs, and HTTP range-request byte serving. The repository layer is
// grounded on cryptorun's internal/persistence/postgres/trades_repo.go
// (sqlx.DB, parameterized queries, QueryxContext/QueryRowxContext,
// explicit row-scanning helpers) and its connection manager
// internal/infrastructure/db/connection.go (pool sizing, PingContext
// health check).
package clips

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jaredshillingburg/icehockey-analytics/apperr"
)

// Clip is a row in the `media.clips` table.
type Clip struct {
	ID        string    `db:"id"`
	PlayerID  string    `db:"player_id"`
	TeamCode  string    `db:"team_code"`
	GameID    string    `db:"game_id"`
	EventType string    `db:"event_type"`
	Status    string    `db:"status"`
	Title     string    `db:"title"`
	CreatedAt time.Time `db:"created_at"`
}

// Asset is a row in `media.clip_assets` — one deliverable file for a clip.
type Asset struct {
	ID       string `db:"id"`
	ClipID   string `db:"clip_id"`
	Kind     string `db:"kind"` // "hls_playlist", "mp4", "thumbnail"
	Path     string `db:"path"` // object-store key or local path
	FileSize int64  `db:"file_size"`
}

// Tag is a row in `media.clip_tags`.
type Tag struct {
	ClipID string `db:"clip_id"`
	Tag    string `db:"tag"`
}

// ClipDetail bundles a clip with its assets and tags for single-clip
// responses.
type ClipDetail struct {
	Clip
	Assets []Asset
	Tags   []string
}

// Filter narrows a clip listing per spec.md §4.7.
type Filter struct {
	PlayerID  string
	TeamCode  string
	GameID    string
	EventType string
	Status    string
	Limit     int
	Offset    int
}

const maxListLimit = 500

// Repo is the relational clip-metadata repository.
type Repo struct {
	db      *sqlx.DB
	timeout time.Duration
}

// NewRepo wires a Repo over an already-opened sqlx connection.
func NewRepo(db *sqlx.DB, timeout time.Duration) *Repo {
	return &Repo{db: db, timeout: timeout}
}

// CreateSchema idempotently creates the `media` tables spec.md §6 names.
func (r *Repo) CreateSchema(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		CREATE SCHEMA IF NOT EXISTS media;
		CREATE TABLE IF NOT EXISTS media.clips (
			id TEXT PRIMARY KEY,
			player_id TEXT NOT NULL,
			team_code TEXT NOT NULL,
			game_id TEXT NOT NULL,
			event_type TEXT NOT NULL,
			status TEXT NOT NULL,
			title TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE TABLE IF NOT EXISTS media.clip_assets (
			id TEXT PRIMARY KEY,
			clip_id TEXT NOT NULL REFERENCES media.clips(id),
			kind TEXT NOT NULL,
			path TEXT NOT NULL,
			file_size BIGINT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS media.clip_tags (
			clip_id TEXT NOT NULL REFERENCES media.clips(id),
			tag TEXT NOT NULL,
			PRIMARY KEY (clip_id, tag)
		);
		CREATE INDEX IF NOT EXISTS idx_clips_player ON media.clips(player_id);
		CREATE INDEX IF NOT EXISTS idx_clips_team ON media.clips(team_code);
		CREATE INDEX IF NOT EXISTS idx_clips_game ON media.clips(game_id);
	`
	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("clips: create schema: %w", err)
	}
	return nil
}

// List returns clips matching f, bounded by (limit<=500, offset>=0).
func (r *Repo) List(ctx context.Context, f Filter) ([]Clip, *apperr.Error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	limit := f.Limit
	if limit <= 0 || limit > maxListLimit {
		limit = maxListLimit
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT id, player_id, team_code, game_id, event_type, status, title, created_at
		FROM media.clips
		WHERE ($1 = '' OR player_id = $1)
		  AND ($2 = '' OR team_code = $2)
		  AND ($3 = '' OR game_id = $3)
		  AND ($4 = '' OR event_type = $4)
		  AND ($5 = '' OR status = $5)
		ORDER BY created_at DESC
		LIMIT $6 OFFSET $7`

	var clips []Clip
	if err := r.db.SelectContext(ctx, &clips, query,
		f.PlayerID, f.TeamCode, f.GameID, f.EventType, f.Status, limit, offset); err != nil {
		return nil, apperr.Wrap(err, apperr.Internal, "clips.List")
	}
	return clips, nil
}

// Get fetches a single clip's full detail (metadata + assets + tags).
// Returns apperr.NotFound if the clip id doesn't exist, independent of
// any RBAC decision — callers check RBAC after confirming existence, per
// spec.md §4.7's 404-before-403 ordering.
func (r *Repo) Get(ctx context.Context, clipID string) (*ClipDetail, *apperr.Error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var clip Clip
	err := r.db.GetContext(ctx, &clip, `
		SELECT id, player_id, team_code, game_id, event_type, status, title, created_at
		FROM media.clips WHERE id = $1`, clipID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperr.New(apperr.NotFound, "clips.Get", "clip not found").WithClip(clipID)
		}
		return nil, apperr.Wrap(err, apperr.Internal, "clips.Get")
	}

	var assets []Asset
	if err := r.db.SelectContext(ctx, &assets, `
		SELECT id, clip_id, kind, path, file_size FROM media.clip_assets WHERE clip_id = $1`, clipID); err != nil {
		return nil, apperr.Wrap(err, apperr.Internal, "clips.Get.assets")
	}

	var tagRows []Tag
	if err := r.db.SelectContext(ctx, &tagRows, `
		SELECT clip_id, tag FROM media.clip_tags WHERE clip_id = $1`, clipID); err != nil {
		return nil, apperr.Wrap(err, apperr.Internal, "clips.Get.tags")
	}
	tags := make([]string, len(tagRows))
	for i, t := range tagRows {
		tags[i] = t.Tag
	}

	return &ClipDetail{Clip: clip, Assets: assets, Tags: tags}, nil
}

// Stats summarizes clip counts, grounded on trades_repo.go's CountByVenue
// group-by pattern, grouped by event_type instead of venue.
func (r *Repo) Stats(ctx context.Context) (map[string]int64, *apperr.Error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	rows, err := r.db.QueryxContext(ctx, `
		SELECT event_type, COUNT(*) FROM media.clips GROUP BY event_type ORDER BY event_type`)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.Internal, "clips.Stats")
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var eventType string
		var count int64
		if err := rows.Scan(&eventType, &count); err != nil {
			return nil, apperr.Wrap(err, apperr.Internal, "clips.Stats.scan")
		}
		counts[eventType] = count
	}
	return counts, nil
}
