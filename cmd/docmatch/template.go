package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tochi-dev/docmatch/internal/export"
)

func newStoreTemplateCmd(logger *slog.Logger) *cobra.Command {
	var (
		fieldsFlag string
		mimeType   string
	)

	cmd := &cobra.Command{
		Use:   "store-template <file>",
		Short: "Extract a document and store it as a matching template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			path := args[0]

			fieldNames, err := parseFieldsFlag(fieldsFlag)
			if err != nil {
				return err
			}

			a, err := newApp(ctx, logger)
			if err != nil {
				return err
			}
			defer a.closeFn()

			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}

			text, err := a.extractor.ExtractDoc(ctx, data, filepath.Base(path), mimeTypeFor(path, mimeType))
			if err != nil {
				return err
			}

			templateID, err := a.templates.StoreTemplate(ctx, text, fieldNames)
			if err != nil {
				return err
			}
			cmd.Println(templateID)
			return nil
		},
	}

	cmd.Flags().StringVar(&fieldsFlag, "fields", "", "comma-separated field names to extract for documents matching this template")
	cmd.Flags().StringVar(&mimeType, "mime", "", "declared MIME type (default: from extension)")
	return cmd
}

func newMatchCmd(logger *slog.Logger) *cobra.Command {
	var mimeType string

	cmd := &cobra.Command{
		Use:   "match <file>",
		Short: "Match a document against the stored templates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			path := args[0]

			a, err := newApp(ctx, logger)
			if err != nil {
				return err
			}
			defer a.closeFn()

			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}

			_, preprocessedText, err := a.extractor.ExtractWithPreprocessing(
				ctx, data, filepath.Base(path), mimeTypeFor(path, mimeType))
			if err != nil {
				return err
			}

			m, err := a.templates.MatchTemplate(ctx, preprocessedText)
			if err != nil {
				return err
			}
			if m == nil {
				cmd.Println("no match")
				return nil
			}
			return printJSON(cmd, map[string]any{
				"templateId": m.TemplateID,
				"fields":     m.Fields,
				"confidence": m.Confidence,
			})
		},
	}

	cmd.Flags().StringVar(&mimeType, "mime", "", "declared MIME type (default: from extension)")
	return cmd
}

func newExportService(logger *slog.Logger) *export.Service {
	return export.NewService(logger)
}
