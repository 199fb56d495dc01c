// Package sqlitestore is a cgo-free local DocumentStore backend. It has no
// vector index; broad search returns templates in insertion order, which is
// equivalent for a matcher that retrieves everything anyway.
package sqlitestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	_ "modernc.org/sqlite"

	"github.com/tochi-dev/docmatch/internal/template"
)

const schemaDDL = `
CREATE TABLE IF NOT EXISTS templates (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	template_id TEXT NOT NULL,
	content     TEXT NOT NULL,
	fields      TEXT NOT NULL,
	created_at  TEXT NOT NULL DEFAULT (datetime('now'))
);`

type Store struct {
	db  *sql.DB
	log *slog.Logger
}

var _ template.DocumentStore = (*Store)(nil)

// Open opens (creating if needed) a sqlite template store at path.
func Open(ctx context.Context, path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite store: %w", err)
	}
	if _, err := db.ExecContext(ctx, schemaDDL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure templates schema: %w", err)
	}
	logger.Info("sqlite template store ready", "path", path)
	return &Store{db: db, log: logger}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Insert(ctx context.Context, t template.Template) error {
	fieldsJSON, err := json.Marshal(t.Fields)
	if err != nil {
		return fmt.Errorf("marshal fields: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO templates (template_id, content, fields) VALUES (?, ?, ?)`,
		t.TemplateID, t.Content, string(fieldsJSON),
	)
	if err != nil {
		return fmt.Errorf("insert template: %w", err)
	}
	s.log.Info("template inserted", "template_id", t.TemplateID)
	return nil
}

func (s *Store) SearchBroad(ctx context.Context, _ string, limit int) ([]template.Template, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT template_id, content, fields FROM templates ORDER BY id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("search templates: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			s.log.Warn("close rows", "error", cerr)
		}
	}()

	var out []template.Template
	for rows.Next() {
		var t template.Template
		var fieldsJSON string
		if err := rows.Scan(&t.TemplateID, &t.Content, &fieldsJSON); err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		if err := json.Unmarshal([]byte(fieldsJSON), &t.Fields); err != nil {
			return nil, fmt.Errorf("decode template fields: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
