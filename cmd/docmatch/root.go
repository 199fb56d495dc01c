package main

import (
	"context"
	"fmt"
	"log/slog"
	"mime"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tochi-dev/docmatch/internal/common"
	"github.com/tochi-dev/docmatch/internal/extract"
	"github.com/tochi-dev/docmatch/internal/fields"
	"github.com/tochi-dev/docmatch/internal/language"
	"github.com/tochi-dev/docmatch/internal/llm/groq"
	"github.com/tochi-dev/docmatch/internal/template"
	"github.com/tochi-dev/docmatch/internal/template/memstore"
	"github.com/tochi-dev/docmatch/internal/template/pgstore"
	"github.com/tochi-dev/docmatch/internal/template/sqlitestore"
)

// app bundles the wired collaborators behind the CLI commands.
type app struct {
	cfg       *common.Config
	logger    *slog.Logger
	extractor *extract.Extractor
	templates *template.Store
	fields    *fields.Extractor
	closeFn   func()
}

func newRootCmd(logger *slog.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:           "docmatch",
		Short:         "Document text extraction and template matching",
		Long:          "docmatch pulls usable text out of uploaded files (direct PDF text, vision OCR, blind extraction) and matches documents against stored templates to drive field extraction.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newExtractCmd(logger))
	root.AddCommand(newStoreTemplateCmd(logger))
	root.AddCommand(newMatchCmd(logger))
	root.AddCommand(newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the docmatch version",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Println("docmatch " + version)
		},
	}
}

// newApp loads config and wires the pipeline. The returned closeFn releases
// store connections and must run on every exit path.
func newApp(ctx context.Context, logger *slog.Logger) (*app, error) {
	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	chat := groq.NewClient(groq.Config{
		APIKey:         cfg.LLM.APIKey,
		BaseURL:        cfg.LLM.BaseURL,
		Model:          cfg.LLM.Model,
		EmbeddingModel: cfg.LLM.EmbeddingModel,
		Temperature:    cfg.LLM.Temperature,
		MaxTokens:      cfg.LLM.MaxTokens,
		Timeout:        cfg.LLM.Timeout,
	}, logger)

	reader := extract.NewDirectReader(logger)
	renderer := extract.NewPdftoppmRenderer(cfg.Render, logger)
	detector := language.NewTrigramDetector(logger)
	extractor := extract.NewExtractor(
		extract.Config{MaxPages: cfg.Render.MaxPages},
		reader, reader, renderer, chat, detector, logger,
	)

	docs, closeFn, err := openStore(ctx, cfg, chat, logger)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:       cfg,
		logger:    logger,
		extractor: extractor,
		templates: template.NewStore(template.Config{
			MinConfidence: cfg.Matching.MinConfidence,
			SearchLimit:   cfg.Matching.SearchLimit,
		}, docs, chat, logger),
		fields:  fields.NewExtractor(chat, logger),
		closeFn: closeFn,
	}, nil
}

// openStore selects the backend from the DSN: postgres URL -> pgvector,
// filesystem path -> sqlite, empty -> in-memory (templates do not survive
// the process; fine for one-shot extraction runs).
func openStore(ctx context.Context, cfg *common.Config, embedder *groq.Client, logger *slog.Logger) (template.DocumentStore, func(), error) {
	dsn := cfg.Store.DSN
	switch {
	case dsn == "":
		logger.Warn("no STORE_DSN configured, using in-memory template store")
		return memstore.New(), func() {}, nil
	case strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://"):
		st, err := pgstore.Open(ctx, cfg.Store, embedder, logger)
		if err != nil {
			return nil, nil, err
		}
		return st, st.Close, nil
	default:
		st, err := sqlitestore.Open(ctx, dsn, logger)
		if err != nil {
			return nil, nil, err
		}
		return st, func() {
			if cerr := st.Close(); cerr != nil {
				logger.Warn("close sqlite store", "error", cerr)
			}
		}, nil
	}
}

// mimeTypeFor resolves the declared MIME type for a file, preferring an
// explicit flag value.
func mimeTypeFor(path, explicit string) string {
	if explicit != "" {
		return explicit
	}
	return mime.TypeByExtension(filepath.Ext(path))
}

func parseFieldsFlag(raw string) ([]string, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("--fields is required (comma-separated field names)")
	}
	var out []string
	for _, f := range strings.Split(raw, ",") {
		f = strings.TrimSpace(f)
		if f != "" {
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("--fields contained no usable field names")
	}
	return out, nil
}
