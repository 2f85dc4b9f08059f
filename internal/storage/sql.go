package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"hndaily/internal/model"

	"github.com/jmoiron/sqlx"
	"github.com/samber/lo"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

func init() {
	// modernc registers itself as "sqlite", which sqlx does not know about.
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

const schema = `
CREATE TABLE IF NOT EXISTS posts (
	id           TEXT PRIMARY KEY,
	seq          INTEGER NOT NULL,
	title        TEXT NOT NULL,
	url          TEXT NOT NULL,
	points       INTEGER NOT NULL,
	author       TEXT NOT NULL,
	created_at   BIGINT NOT NULL,
	num_comments INTEGER NOT NULL,
	hn_url       TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS dataset_meta (
	id           INTEGER PRIMARY KEY,
	last_updated TEXT
);`

// SQLStorage keeps the dataset in a posts table; seq preserves insertion
// order across saves.
type SQLStorage struct {
	db *sqlx.DB
}

type dbPost struct {
	ID          string `db:"id"`
	Seq         int    `db:"seq"`
	Title       string `db:"title"`
	URL         string `db:"url"`
	Points      int    `db:"points"`
	Author      string `db:"author"`
	CreatedAt   int64  `db:"created_at"`
	NumComments int    `db:"num_comments"`
	HNURL       string `db:"hn_url"`
}

// Open connects to dsn. postgres:// and postgresql:// use lib/pq,
// sqlite://<path> and file:<path> use the pure Go SQLite driver.
func Open(ctx context.Context, dsn string) (*sqlx.DB, error) {
	driver, source, err := driverFor(dsn)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.ConnectContext(ctx, driver, source)
	if err != nil {
		return nil, fmt.Errorf("connect %s database: %w", driver, err)
	}

	return db, nil
}

func driverFor(dsn string) (string, string, error) {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return "postgres", dsn, nil
	case strings.HasPrefix(dsn, "sqlite://"):
		return "sqlite", strings.TrimPrefix(dsn, "sqlite://"), nil
	case strings.HasPrefix(dsn, "file:"):
		return "sqlite", dsn, nil
	default:
		return "", "", fmt.Errorf("unsupported database dsn %q", dsn)
	}
}

func NewSQLStorage(ctx context.Context, db *sqlx.DB) (*SQLStorage, error) {
	s := &SQLStorage{
		db: db,
	}

	if err := s.migrate(ctx); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *SQLStorage) migrate(ctx context.Context) error {
	for _, stmt := range strings.Split(schema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}

		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	return nil
}

func (s *SQLStorage) Load(ctx context.Context) (model.Dataset, error) {
	var rows []dbPost

	if err := s.db.SelectContext(
		ctx,
		&rows,
		`SELECT id, seq, title, url, points, author, created_at, num_comments, hn_url
			FROM posts ORDER BY seq`,
	); err != nil {
		return model.Dataset{}, fmt.Errorf("select posts: %w", err)
	}

	ds := model.Dataset{
		Posts: lo.Map(rows, func(row dbPost, _ int) model.Post {
			return model.Post{
				ID:          row.ID,
				Title:       row.Title,
				URL:         row.URL,
				Points:      row.Points,
				Author:      row.Author,
				CreatedAt:   row.CreatedAt,
				NumComments: row.NumComments,
				HNURL:       row.HNURL,
			}
		}),
	}

	var lastUpdated sql.NullString
	err := s.db.GetContext(ctx, &lastUpdated, `SELECT last_updated FROM dataset_meta WHERE id = 1`)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return model.Dataset{}, fmt.Errorf("select dataset meta: %w", err)
	}

	if lastUpdated.Valid && lastUpdated.String != "" {
		ts, err := time.Parse(time.RFC3339Nano, lastUpdated.String)
		if err != nil {
			return model.Dataset{}, fmt.Errorf("%w: last_updated %q: %v", ErrMalformedDataset, lastUpdated.String, err)
		}
		ds.LastUpdated = &ts
	}

	return ds, nil
}

// Save replaces the stored dataset inside a single transaction.
func (s *SQLStorage) Save(ctx context.Context, ds model.Dataset) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM posts`); err != nil {
		return fmt.Errorf("clear posts: %w", err)
	}

	for i, post := range ds.Posts {
		row := dbPost{
			ID:          post.ID,
			Seq:         i,
			Title:       post.Title,
			URL:         post.URL,
			Points:      post.Points,
			Author:      post.Author,
			CreatedAt:   post.CreatedAt,
			NumComments: post.NumComments,
			HNURL:       post.HNURL,
		}

		if _, err := tx.NamedExecContext(
			ctx,
			`INSERT INTO posts (id, seq, title, url, points, author, created_at, num_comments, hn_url)
				VALUES (:id, :seq, :title, :url, :points, :author, :created_at, :num_comments, :hn_url)`,
			row,
		); err != nil {
			return fmt.Errorf("insert post %s: %w", post.ID, err)
		}
	}

	var lastUpdated sql.NullString
	if ds.LastUpdated != nil {
		lastUpdated = sql.NullString{String: ds.LastUpdated.UTC().Format(time.RFC3339Nano), Valid: true}
	}

	if _, err := tx.ExecContext(
		ctx,
		tx.Rebind(`INSERT INTO dataset_meta (id, last_updated) VALUES (1, ?)
			ON CONFLICT (id) DO UPDATE SET last_updated = excluded.last_updated`),
		lastUpdated,
	); err != nil {
		return fmt.Errorf("update dataset meta: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

func (s *SQLStorage) Close() error {
	return s.db.Close()
}
