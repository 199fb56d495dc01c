// Package fields is the downstream extraction stage: given a document's
// text and an optional template match, it asks the model for structured
// fields and validates the JSON it gets back.
package fields

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tochi-dev/docmatch/internal/llm"
	"github.com/tochi-dev/docmatch/internal/template"
)

const extractionSystemPrompt = "You are an advanced document parser and contextual extractor. You deeply understand document structures and can extract both explicit and implicit information. Respond ONLY with valid JSON."

// Request carries one field-extraction invocation. Text must be the
// original extracted text, never the preprocessed matching rendering.
type Request struct {
	Text       string
	Match      *template.Match // non-nil selects template-based extraction
	UserPrompt string          // free-form description, used when no match
}

// Result is the parsed extraction output.
type Result struct {
	Fields       map[string]any
	RawJSON      []byte
	TemplateID   string // "" when no template was used
	UsedTemplate bool
}

type Extractor struct {
	chat llm.ChatCompleter
	log  *slog.Logger
}

func NewExtractor(chat llm.ChatCompleter, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{chat: chat, log: logger}
}

// Extract selects the prompt (template fields, user-described, or generic
// key-value), runs the completion, and brace-slices + validates the JSON.
// Template-based output is validated against a schema synthesized from the
// template's field list.
func (e *Extractor) Extract(ctx context.Context, req Request) (Result, error) {
	prompt := buildExtractionPrompt(req)

	response, err := e.chat.Complete(ctx, llm.CompletionRequest{
		System: extractionSystemPrompt,
		User:   prompt,
	})
	if err != nil {
		return Result{}, fmt.Errorf("field extraction: %w", err)
	}

	raw, ok := llm.SliceJSONObject(response)
	if !ok {
		return Result{}, fmt.Errorf("no JSON object in extraction response")
	}

	if req.Match != nil {
		schema := llm.BuildFieldsJSONSchema(req.Match.Fields)
		if err := llm.ValidateJSONAgainstSchema(schema, raw); err != nil {
			e.log.Warn("extraction output failed template schema", "error", err)
			return Result{}, fmt.Errorf("extraction output invalid for template %s: %w", req.Match.TemplateID, err)
		}
	}

	var parsed map[string]any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return Result{}, fmt.Errorf("parse extraction output: %w", err)
	}

	res := Result{
		Fields:  parsed,
		RawJSON: raw,
	}
	if req.Match != nil {
		res.TemplateID = req.Match.TemplateID
		res.UsedTemplate = true
	}

	e.log.Info("fields extracted",
		"count", len(parsed),
		"used_template", res.UsedTemplate,
		"template_id", res.TemplateID,
	)
	return res, nil
}

func buildExtractionPrompt(req Request) string {
	switch {
	case req.Match != nil:
		return fmt.Sprintf("Extract the following fields from the document: %s. Respond ONLY with valid JSON. Do not include explanations, comments, or extra text. The response MUST start with '{' and end with '}'. If you cannot find a field, use null as its value. Document: %s",
			strings.Join(req.Match.Fields, ", "), req.Text)
	case strings.TrimSpace(req.UserPrompt) != "":
		return fmt.Sprintf("Extract the information described by the user from the document: %q Respond ONLY with valid JSON. Document: %s",
			req.UserPrompt, req.Text)
	default:
		return fmt.Sprintf("Extract all key-value pairs, dates, names, organizations, and any other structured information from the following document. Respond ONLY with valid JSON. Document: %s",
			req.Text)
	}
}
