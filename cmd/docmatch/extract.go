package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tochi-dev/docmatch/internal/fields"
	"github.com/tochi-dev/docmatch/internal/preprocess"
)

func newExtractCmd(logger *slog.Logger) *cobra.Command {
	var (
		userPrompt string
		mimeType   string
		xlsxOut    string
		noMatch    bool
	)

	cmd := &cobra.Command{
		Use:   "extract <file>",
		Short: "Extract text and structured fields from a document",
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
			fileName := filepath.Base(path)

			extRes, err := a.extractor.Extract(ctx, data, fileName, mimeTypeFor(path, mimeType))
			if err != nil {
				return err
			}
			preprocessedText := preprocess.ForMatching(extRes.CombinedText)

			var match *matchInfo
			req := fields.Request{Text: extRes.CombinedText, UserPrompt: userPrompt}
			if !noMatch {
				m, err := a.templates.MatchTemplate(ctx, preprocessedText)
				if err != nil {
					return err
				}
				if m != nil {
					match = &matchInfo{TemplateID: m.TemplateID, Confidence: m.Confidence}
					req.Match = m
				}
			}

			res, err := a.fields.Extract(ctx, req)
			if err != nil {
				return err
			}

			if xlsxOut != "" {
				confidence := 0
				if match != nil {
					confidence = match.Confidence
				}
				b, err := newExportService(logger).ExtractionXLSX(fileName, extRes.Language, res, confidence)
				if err != nil {
					return err
				}
				if err := os.WriteFile(xlsxOut, b, 0o644); err != nil {
					return fmt.Errorf("write xlsx: %w", err)
				}
				logger.Info("xlsx written", "path", xlsxOut)
			}

			out := extractOutput{
				Extracted:    res.Fields,
				UsedTemplate: res.UsedTemplate,
			}
			if match != nil {
				out.TemplateID = match.TemplateID
				out.Confidence = &match.Confidence
			}
			return printJSON(cmd, out)
		},
	}

	cmd.Flags().StringVar(&userPrompt, "prompt", "", "free-form description of the information to extract")
	cmd.Flags().StringVar(&mimeType, "mime", "", "declared MIME type (default: from extension)")
	cmd.Flags().StringVar(&xlsxOut, "xlsx", "", "also write the result as an XLSX workbook")
	cmd.Flags().BoolVar(&noMatch, "no-match", false, "skip template matching")
	return cmd
}

type matchInfo struct {
	TemplateID string
	Confidence int
}

type extractOutput struct {
	Extracted    map[string]any `json:"extracted"`
	TemplateID   string         `json:"templateId,omitempty"`
	Confidence   *int           `json:"confidence,omitempty"`
	UsedTemplate bool           `json:"usedTemplate"`
}

func printJSON(cmd *cobra.Command, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	cmd.Println(string(b))
	return nil
}
