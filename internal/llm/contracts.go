package llm

import "context"

// CompletionRequest is a single chat-completion invocation. ImageBase64 is
// optional; when present the request goes out as a vision message with the
// image attached as a data URL.
type CompletionRequest struct {
	System        string
	User          string
	ImageBase64   string
	ImageMIMEType string // defaults to image/jpeg when an image is attached
}

// ChatCompleter is the chat-completion collaborator the pipeline depends on.
// Implementations return the full assistant text; streaming is an internal
// concern of the provider.
type ChatCompleter interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// Embedder turns text into a vector for similarity search.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
