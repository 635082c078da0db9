package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"infobot/internal/entities"
)

// PostgresSource serves the content tree from a content_items table,
// ordered by insertion position. FetchRows prepends a synthetic
// header row so the source behaves exactly like the spreadsheet.
type PostgresSource struct {
	pool *pgxpool.Pool
	log  *zap.Logger
}

func NewPostgresSource(ctx context.Context, connString string, log *zap.Logger) (*PostgresSource, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("postgres: parse connection string: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour
	config.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("postgres: create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}

	src := &PostgresSource{pool: pool, log: log}
	if err := src.migrate(ctx); err != nil {
		return nil, fmt.Errorf("postgres: migration failed: %w", err)
	}
	return src, nil
}

func (s *PostgresSource) migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS content_items (
			position SERIAL PRIMARY KEY,
			item_id VARCHAR(64) NOT NULL,
			parent_id VARCHAR(64) DEFAULT '',
			label TEXT NOT NULL,
			data TEXT DEFAULT '',
			item_type VARCHAR(20) DEFAULT 'text',
			extra TEXT DEFAULT ''
		);
	`)
	if err != nil {
		return fmt.Errorf("create content_items table: %w", err)
	}
	return nil
}

func (s *PostgresSource) FetchRows(ctx context.Context) ([][]string, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT item_id, parent_id, label, data, item_type, extra
		FROM content_items ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("postgres: query content_items: %w", err)
	}
	defer rows.Close()

	result := [][]string{entities.HeaderRow()}
	for rows.Next() {
		var id, parent, label, data, itemType, extra string
		if err := rows.Scan(&id, &parent, &label, &data, &itemType, &extra); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		result = append(result, []string{id, parent, label, data, itemType, extra})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterate rows: %w", err)
	}

	s.log.Info("fetched rows from postgres", zap.Int("rows", len(result)-1))
	return result, nil
}

// ReplaceRows swaps the table contents in one transaction. The
// incoming slice includes the header row, which is not stored.
func (s *PostgresSource) ReplaceRows(ctx context.Context, rows [][]string) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("postgres: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "TRUNCATE content_items RESTART IDENTITY"); err != nil {
		return fmt.Errorf("postgres: truncate: %w", err)
	}

	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		padded := make([]string, 6)
		copy(padded, row)
		_, err := tx.Exec(ctx, `
			INSERT INTO content_items (item_id, parent_id, label, data, item_type, extra)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, padded[0], padded[1], padded[2], padded[3], padded[4], padded[5])
		if err != nil {
			return fmt.Errorf("postgres: insert row %d: %w", i, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("postgres: commit: %w", err)
	}

	s.log.Info("replaced postgres contents", zap.Int("rows", len(rows)-1))
	return nil
}

func (s *PostgresSource) Close() {
	s.pool.Close()
}
