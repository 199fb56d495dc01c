// Package pgstore is the Postgres + pgvector DocumentStore backend.
// Templates are embedded on insert; broad search orders by cosine distance
// to the embedded query, falling back to a plain scan for empty queries.
package pgstore

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
	pgxvec "github.com/pgvector/pgvector-go/pgx"

	"github.com/tochi-dev/docmatch/internal/common"
	"github.com/tochi-dev/docmatch/internal/llm"
	"github.com/tochi-dev/docmatch/internal/template"
)

const schemaDDL = `
CREATE EXTENSION IF NOT EXISTS vector;
CREATE TABLE IF NOT EXISTS templates (
	id          BIGSERIAL PRIMARY KEY,
	template_id TEXT NOT NULL,
	content     TEXT NOT NULL,
	fields      JSONB NOT NULL,
	embedding   vector(1536),
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);`

type Store struct {
	pool     *pgxpool.Pool
	embedder llm.Embedder
	log      *slog.Logger
}

var _ template.DocumentStore = (*Store)(nil)

// Open creates the pgx pool, registers the pgvector types, and ensures the
// templates table exists.
func Open(ctx context.Context, cfg common.StoreConfig, embedder llm.Embedder, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("connecting to template store", "dsn", cfg.DSN)

	pc, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse store dsn: %w", err)
	}
	pc.MaxConns = cfg.MaxConns
	pc.MinConns = cfg.MinConns
	pc.MaxConnLifetime = cfg.MaxConnLifetime
	pc.MaxConnIdleTime = cfg.MaxConnIdleTime
	pc.ConnConfig.RuntimeParams["application_name"] = "docmatch"
	if cfg.StatementTimeout > 0 {
		pc.ConnConfig.RuntimeParams["statement_timeout"] = cfg.StatementTimeout.String()
	}
	pc.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return pgxvec.RegisterTypes(ctx, conn)
	}

	dialCtx := ctx
	if cfg.DialTimeout > 0 {
		var cancel context.CancelFunc
		dialCtx, cancel = context.WithTimeout(ctx, cfg.DialTimeout)
		defer cancel()
	}
	pool, err := pgxpool.NewWithConfig(dialCtx, pc)
	if err != nil {
		return nil, fmt.Errorf("connect template store: %w", err)
	}

	if _, err := pool.Exec(ctx, schemaDDL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure templates schema: %w", err)
	}

	return &Store{pool: pool, embedder: embedder, log: logger}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) Insert(ctx context.Context, t template.Template) error {
	start := time.Now()

	fieldsJSON, err := json.Marshal(t.Fields)
	if err != nil {
		return fmt.Errorf("marshal fields: %w", err)
	}

	vec, err := s.embedder.Embed(ctx, t.Content)
	if err != nil {
		return fmt.Errorf("embed template content: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO templates (template_id, content, fields, embedding) VALUES ($1, $2, $3, $4)`,
		t.TemplateID, t.Content, fieldsJSON, pgvector.NewVector(vec),
	)
	if err != nil {
		return fmt.Errorf("insert template: %w", err)
	}

	s.log.Info("template inserted",
		"template_id", t.TemplateID,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

func (s *Store) SearchBroad(ctx context.Context, query string, limit int) ([]template.Template, error) {
	var rows pgx.Rows
	var err error

	if query == "" {
		rows, err = s.pool.Query(ctx,
			`SELECT template_id, content, fields FROM templates ORDER BY id LIMIT $1`, limit)
	} else {
		var vec []float32
		vec, err = s.embedder.Embed(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("embed query: %w", err)
		}
		rows, err = s.pool.Query(ctx,
			`SELECT template_id, content, fields FROM templates ORDER BY embedding <=> $1 LIMIT $2`,
			pgvector.NewVector(vec), limit)
	}
	if err != nil {
		return nil, fmt.Errorf("search templates: %w", err)
	}
	defer rows.Close()

	var out []template.Template
	for rows.Next() {
		var t template.Template
		var fieldsJSON []byte
		if err := rows.Scan(&t.TemplateID, &t.Content, &fieldsJSON); err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		if err := json.Unmarshal(fieldsJSON, &t.Fields); err != nil {
			return nil, fmt.Errorf("decode template fields: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
