package groq

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Embed implements llm.Embedder against the embeddings endpoint.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	rid := uuid.New().String()
	start := time.Now()

	body := map[string]any{
		"model": c.cfg.EmbeddingModel,
		"input": text,
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/embeddings"
	raw, err := c.post(ctx, endpoint, body)
	if err != nil {
		c.log.Error("llm.embed.http_error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	var er struct {
		Data []struct {
			Embedding []float32 `json:"embedding"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &er); err != nil {
		return nil, fmt.Errorf("decode embeddings response: %w", err)
	}
	if len(er.Data) == 0 {
		return nil, fmt.Errorf("no data in embeddings response")
	}

	c.log.Debug("llm.embed.ok",
		"req_id", rid,
		"dims", len(er.Data[0].Embedding),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return er.Data[0].Embedding, nil
}
