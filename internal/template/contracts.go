package template

import "context"

// Template is a previously stored document sample paired with the field
// names to extract from documents that match it. Templates are append-only:
// replacement is a new insertion, never an update.
type Template struct {
	TemplateID string
	Content    string
	Fields     []string
}

// Match is the transient outcome of matching one document against the
// stored templates. Confidence is the model-reported score in 0..100.
type Match struct {
	TemplateID string
	Fields     []string
	Confidence int
}

// DocumentStore is the persistence collaborator. It has no "list all"
// primitive; retrieval happens through a broad similarity query with a
// large cap. Implementations must be safe for concurrent use.
type DocumentStore interface {
	Insert(ctx context.Context, t Template) error
	SearchBroad(ctx context.Context, query string, limit int) ([]Template, error)
}
