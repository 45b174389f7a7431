package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use, and the same
// instance/configuration must serve both index writes and reads: vectors
// embedded under different models do not live in a comparable space.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Generator produces model output for a fully assembled prompt.
// Implementations must be thread-safe for concurrent use.
type Generator interface {
	// Generate invokes the model with deterministic-leaning settings and a
	// bounded maximum output length, returning the generated text.
	Generate(ctx context.Context, prompt string) (string, error)
}

// Provider aggregates the model services for convenient wiring and
// lifecycle management.
type Provider interface {
	// Embedder returns the text embedding service. Never nil.
	Embedder() Embedder

	// Generator returns the answer generation service, or nil when no
	// generative model is configured. Callers must handle nil.
	Generator() Generator

	// Close releases resources held by the provider and its services.
	Close() error
}

// services is the plain aggregate Provider used for wiring independently
// constructed clients together.
type services struct {
	embedder  Embedder
	generator Generator
}

// NewProvider aggregates an embedder and an optional generator into a
// Provider. The embedder is required; generator may be nil.
func NewProvider(embedder Embedder, generator Generator) (Provider, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	return &services{embedder: embedder, generator: generator}, nil
}

func (s *services) Embedder() Embedder   { return s.embedder }
func (s *services) Generator() Generator { return s.generator }

// Close is a no-op; the underlying clients hold no closeable resources.
func (s *services) Close() error { return nil }
