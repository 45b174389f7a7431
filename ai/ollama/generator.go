package ollama

import (
	"context"
	"log/slog"

	"github.com/poiesic/finsight/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
)

// Generator implements ai.Generator against an Ollama server.
type Generator struct {
	llm         *ollama.LLM
	temperature float64
	maxTokens   int
	logger      *slog.Logger
}

var _ ai.Generator = (*Generator)(nil)

// NewGenerator creates a new generator using the provided configuration.
// Returns an error when no generator model is configured; callers that
// want optional generation should check config.GenerationEnabled first.
//
// Returns ai.Generator interface to enforce abstraction.
func NewGenerator(config *ai.Config) (ai.Generator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if !config.GenerationEnabled() {
		return nil, ErrNoGeneratorModel
	}

	llm, err := ollama.New(
		ollama.WithServerURL(config.GeneratorHost),
		ollama.WithModel(config.GeneratorModel),
	)
	if err != nil {
		return nil, err
	}

	return &Generator{
		llm:         llm,
		temperature: config.Temperature,
		maxTokens:   config.MaxTokens,
		logger: slog.Default().With(
			"component", "ollama-generator",
			"model", config.GeneratorModel,
		),
	}, nil
}

// Generate invokes the model with the configured low temperature and
// bounded output length.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	g.logger.Debug("generating answer", "promptLength", len(prompt))

	answer, err := llms.GenerateFromSinglePrompt(ctx, g.llm, prompt,
		llms.WithTemperature(g.temperature),
		llms.WithMaxTokens(g.maxTokens),
	)
	if err != nil {
		g.logger.Error("generation failed", "err", err)
		return "", err
	}

	return answer, nil
}
