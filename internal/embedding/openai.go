package embedding

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"

	openai "github.com/sashabaranov/go-openai"

	"docqa/internal/domain"
)

// OpenAI embeds text through the OpenAI embeddings API. Vectors are
// L2-normalized so stores can use the dot product as cosine similarity.
type OpenAI struct {
	client *openai.Client
	model  string
	dim    int
}

// OpenAIConfig configures the embeddings client. APIKeyEnv names the
// environment variable carrying the key.
type OpenAIConfig struct {
	APIKeyEnv string
	Model     string
}

// NewOpenAI fails fast when the API key is absent, before any
// retrieval work can start.
func NewOpenAI(cfg OpenAIConfig) (*OpenAI, error) {
	if cfg.APIKeyEnv == "" {
		cfg.APIKeyEnv = "OPENAI_API_KEY"
	}
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("%w: %s is empty", domain.ErrMissingCredentials, cfg.APIKeyEnv)
	}
	model := cfg.Model
	if model == "" {
		model = string(openai.SmallEmbedding3)
	}
	dim := 1536
	if model == string(openai.LargeEmbedding3) {
		dim = 3072
	}
	return &OpenAI{client: openai.NewClient(key), model: model, dim: dim}, nil
}

func (e *OpenAI) Embed(ctx context.Context, text string) ([]float64, error) {
	if text == "" {
		return nil, errors.New("cannot embed empty text")
	}
	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(e.model),
		Input: []string{text},
	})
	if err != nil {
		return nil, fmt.Errorf("embeddings request: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, errors.New("no embedding data returned")
	}
	raw := resp.Data[0].Embedding
	v := make([]float64, len(raw))
	for i := range raw {
		v[i] = float64(raw[i])
	}
	l2normalize(v)
	if e.dim != len(v) {
		e.dim = len(v)
	}
	return v, nil
}

func (e *OpenAI) Dimension() int { return e.dim }

func (e *OpenAI) Model() string { return e.model }

func l2normalize(v []float64) {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	if sum == 0 {
		return
	}
	inv := 1.0 / math.Sqrt(sum)
	for i := range v {
		v[i] *= inv
	}
}
