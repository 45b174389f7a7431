// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package synthesize

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/finsight/ai"
	"github.com/poiesic/finsight/core"
)

// defaultRetrievalLimit is how many fragments are retrieved per question.
const defaultRetrievalLimit = 5

// Fixed user-facing answers for the non-generated outcomes.
const (
	ungroundedAnswer = "I couldn't find relevant information to answer your question."
	degradedAnswer   = "LLM model is not available. Please check the configuration."
)

// Retriever is the slice of the knowledge index the synthesizer needs.
type Retriever interface {
	Search(ctx context.Context, collectionID, query string, limit int) ([]core.ContentFragment, error)
}

// Synthesizer answers questions about a company from its indexed fragments.
type Synthesizer struct {
	retriever Retriever
	generator ai.Generator // nil when no model is configured
	limit     int
	logger    *slog.Logger
}

// Option configures a Synthesizer.
type Option func(*Synthesizer) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Synthesizer) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithRetrievalLimit sets how many fragments are retrieved per question.
// Default is 5.
func WithRetrievalLimit(limit int) Option {
	return func(s *Synthesizer) error {
		if limit <= 0 {
			return core.NewConfigurationError("retrieval limit must be positive")
		}
		s.limit = limit
		return nil
	}
}

// NewSynthesizer creates a synthesizer. The generator may be nil; answers
// then report the degraded outcome while still returning sources.
func NewSynthesizer(retriever Retriever, generator ai.Generator, opts ...Option) (*Synthesizer, error) {
	if retriever == nil {
		return nil, ErrRetrieverRequired
	}

	s := &Synthesizer{
		retriever: retriever,
		generator: generator,
		limit:     defaultRetrievalLimit,
		logger:    slog.Default().With("component", "synthesize"),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Answer runs retrieval and generation for one question against the named
// collection. All four outcomes are returned as results, never as errors;
// the error return is reserved for index connectivity failures and bad
// input.
func (s *Synthesizer) Answer(ctx context.Context, collectionID, question string) (*core.RetrievalResult, error) {
	if strings.TrimSpace(question) == "" {
		return nil, ErrEmptyQuestion
	}

	entity := core.EntityLabel(collectionID)

	fragments, err := s.retriever.Search(ctx, collectionID, question, s.limit)
	if err != nil {
		return nil, err
	}
	if len(fragments) == 0 {
		s.logger.Info("no fragments retrieved",
			"collection", collectionID)
		return &core.RetrievalResult{
			Answer:   ungroundedAnswer,
			Grounded: false,
			Outcome:  core.OutcomeUngrounded,
			Entity:   entity,
			Sources:  []core.SourceSummary{},
		}, nil
	}

	sources := make([]core.SourceSummary, len(fragments))
	texts := make([]string, len(fragments))
	for i, frag := range fragments {
		sources[i] = core.SummarizeSource(frag)
		texts[i] = frag.Text
	}

	if s.generator == nil {
		return &core.RetrievalResult{
			Answer:   degradedAnswer,
			Grounded: true,
			Outcome:  core.OutcomeDegraded,
			Entity:   entity,
			Sources:  sources,
		}, nil
	}

	prompt := buildPrompt(entity, strings.Join(texts, "\n\n"), question)
	answer, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		// Generation failures degrade the answer instead of failing the
		// call; retrieval already succeeded and the sources are useful.
		s.logger.Error("generation failed",
			"collection", collectionID,
			"error", err)
		return &core.RetrievalResult{
			Answer:   fmt.Sprintf("Error generating response: %v", err),
			Grounded: true,
			Outcome:  core.OutcomeGenerationFailed,
			Entity:   entity,
			Sources:  sources,
		}, nil
	}

	return &core.RetrievalResult{
		Answer:   strings.TrimSpace(answer),
		Grounded: true,
		Outcome:  core.OutcomeGroundedAnswered,
		Entity:   entity,
		Sources:  sources,
	}, nil
}
