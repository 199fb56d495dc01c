package template

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/tochi-dev/docmatch/internal/llm"
)

// broadQuery is the representative query standing in for "list all
// templates" on stores that only expose similarity search.
const broadQuery = "template"

// contentSnippetLen is how much of each stored template's content goes into
// the matching prompt.
const contentSnippetLen = 500

// Config tunes the matcher.
type Config struct {
	MinConfidence int // accept a match only at or above this score; default 70
	SearchLimit   int // broad-retrieval cap; default 1000
}

// Store persists templates and matches new documents against them with an
// LLM-scored comparison.
type Store struct {
	cfg  Config
	docs DocumentStore
	chat llm.ChatCompleter
	log  *slog.Logger
}

func NewStore(cfg Config, docs DocumentStore, chat llm.ChatCompleter, logger *slog.Logger) *Store {
	if cfg.MinConfidence <= 0 {
		cfg.MinConfidence = 70
	}
	if cfg.SearchLimit <= 0 {
		cfg.SearchLimit = 1000
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{cfg: cfg, docs: docs, chat: chat, log: logger}
}

// StoreTemplate inserts a new template and returns its generated id.
// Repeated calls create distinct templates; deduplication is out of scope.
func (s *Store) StoreTemplate(ctx context.Context, content string, fields []string) (string, error) {
	templateID := fmt.Sprintf("template-%d-%d", time.Now().UnixMilli(), rand.Intn(10000))
	t := Template{
		TemplateID: templateID,
		Content:    content,
		Fields:     fields,
	}
	if err := s.docs.Insert(ctx, t); err != nil {
		return "", fmt.Errorf("store template: %w", err)
	}
	s.log.Info("template stored", "template_id", templateID, "fields", len(fields), "content_len", len(content))
	return templateID, nil
}

// MatchTemplate asks the model which stored template, if any, the document
// resembles. A nil result means no template satisfied the acceptance
// threshold, not that zero templates exist (though that also returns nil,
// without a model call). Malformed model responses fail safe to nil.
func (s *Store) MatchTemplate(ctx context.Context, docText string) (*Match, error) {
	templates := s.retrieveAll(ctx)
	if len(templates) == 0 {
		s.log.Info("no templates stored, skipping match")
		return nil, nil
	}

	response, err := s.chat.Complete(ctx, llm.CompletionRequest{
		System: matcherSystemPrompt,
		User:   matcherUserPrompt(docText, templates),
	})
	if err != nil {
		return nil, fmt.Errorf("template match: %w", err)
	}

	idx, confidence, ok := parseMatchResponse(response, len(templates))
	if !ok {
		s.log.Info("no usable template match in response", "response_len", len(response))
		return nil, nil
	}
	if confidence < s.cfg.MinConfidence {
		s.log.Info("match below confidence threshold",
			"template_id", templates[idx].TemplateID,
			"confidence", confidence,
			"threshold", s.cfg.MinConfidence,
		)
		return nil, nil
	}

	matched := templates[idx]
	s.log.Info("template matched",
		"template_id", matched.TemplateID,
		"confidence", confidence,
	)
	return &Match{
		TemplateID: matched.TemplateID,
		Fields:     matched.Fields,
		Confidence: confidence,
	}, nil
}

// retrieveAll simulates "get all" with a broad similarity query, retrying
// with an empty query before giving up and treating the store as empty.
func (s *Store) retrieveAll(ctx context.Context) []Template {
	templates, err := s.docs.SearchBroad(ctx, broadQuery, s.cfg.SearchLimit)
	if err != nil {
		s.log.Warn("broad template query failed, retrying with empty query", "error", err)
		templates, err = s.docs.SearchBroad(ctx, "", s.cfg.SearchLimit)
		if err != nil {
			s.log.Error("template retrieval failed", "error", err)
			return nil
		}
	}
	return templates
}

const matcherSystemPrompt = "You are an intelligent document template matcher. Given a document and a list of templates, identify which template best matches the document in structure, content, and purpose. Respond ONLY with the template number and your confidence score 0-100 in the form '<number>:<confidence>' (e.g., 2:85), or 'none' if no template matches well."

func matcherUserPrompt(docText string, templates []Template) string {
	var b strings.Builder
	b.WriteString("Document to match:\n")
	b.WriteString(docText)
	b.WriteString("\n\nTemplates:\n")
	for i, t := range templates {
		fieldsJSON, _ := json.Marshal(t.Fields)
		fmt.Fprintf(&b, "Template %d: Fields: %s\nContent: %s...\n\n", i+1, fieldsJSON, snippet(t.Content, contentSnippetLen))
	}
	return b.String()
}

// snippet truncates s to at most n bytes without splitting a rune.
func snippet(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

var (
	reMatchResponse = regexp.MustCompile(`(\d+)\s*:\s*(\d+)`)
	reMatchNone     = regexp.MustCompile(`(?i)\bnone\b`)
)

// parseMatchResponse extracts a 0-based template index and a confidence
// score from a model response. Anything that fails to parse ("none", a
// bare index, an out-of-range index or confidence) is no-match.
func parseMatchResponse(response string, templateCount int) (idx, confidence int, ok bool) {
	if reMatchNone.MatchString(response) {
		return 0, 0, false
	}
	m := reMatchResponse.FindStringSubmatch(response)
	if m == nil {
		return 0, 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, 0, false
	}
	c, err := strconv.Atoi(m[2])
	if err != nil || c < 0 || c > 100 {
		return 0, 0, false
	}
	idx = n - 1
	if idx < 0 || idx >= templateCount {
		return 0, 0, false
	}
	return idx, c, true
}
