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


package finsight

import (
	"context"
	"log/slog"

	"github.com/poiesic/finsight/ai"
	"github.com/poiesic/finsight/ai/ollama"
	"github.com/poiesic/finsight/ai/openai"
	"github.com/poiesic/finsight/core"
	"github.com/poiesic/finsight/history"
	"github.com/poiesic/finsight/history/badger"
	"github.com/poiesic/finsight/index"
	"github.com/poiesic/finsight/pipeline"
	"github.com/poiesic/finsight/synthesize"
)

// System wires the whole pipeline together: model clients, vector store,
// coordinator, and local history. All clients are constructed once and
// shared; a System is safe for concurrent use.
type System struct {
	backend     *badger.Backend
	historyRepo history.Store
	provider    ai.Provider
	coordinator *pipeline.Coordinator
	logger      *slog.Logger
}

// SystemOption configures a System.
type SystemOption func(*systemOptions)

type systemOptions struct {
	aiConfig   *ai.Config
	qdrantHost string
	qdrantPort int
}

// WithAIConfig replaces the default model configuration.
func WithAIConfig(config *ai.Config) SystemOption {
	return func(o *systemOptions) {
		if config != nil {
			o.aiConfig = config
		}
	}
}

// WithQdrant sets the vector store address.
// Default is localhost:6333.
func WithQdrant(host string, port int) SystemOption {
	return func(o *systemOptions) {
		o.qdrantHost = host
		o.qdrantPort = port
	}
}

// NewSystem creates a fully wired pipeline. historyPath is the directory
// for the local history store.
func NewSystem(historyPath string, opts ...SystemOption) (*System, error) {
	options := &systemOptions{
		aiConfig:   ai.DefaultConfig(),
		qdrantHost: "localhost",
		qdrantPort: 6333,
	}
	for _, opt := range opts {
		opt(options)
	}

	logger := slog.Default()

	config := options.aiConfig
	config.Normalize()
	if err := config.Validate(); err != nil {
		return nil, err
	}

	embedder, err := openai.NewEmbedder(config)
	if err != nil {
		return nil, err
	}

	// A missing generative model is a degraded mode, not a startup
	// failure: retrieval keeps working.
	var generator ai.Generator
	if config.GenerationEnabled() {
		generator, err = ollama.NewGenerator(config)
		if err != nil {
			logger.Warn("generative model unavailable, answers will be degraded",
				"model", config.GeneratorModel,
				"error", err)
			generator = nil
		}
	}

	provider, err := ai.NewProvider(embedder, generator)
	if err != nil {
		return nil, err
	}

	client := index.NewClient(
		index.WithHost(options.qdrantHost),
		index.WithPort(options.qdrantPort),
	)
	knowledgeIndex, err := index.NewKnowledgeIndex(provider.Embedder(), client)
	if err != nil {
		return nil, err
	}

	synthesizer, err := synthesize.NewSynthesizer(knowledgeIndex, provider.Generator())
	if err != nil {
		return nil, err
	}

	coordinator, err := pipeline.NewCoordinator(knowledgeIndex, synthesizer)
	if err != nil {
		return nil, err
	}

	backend, err := badger.OpenBackend(historyPath, false)
	if err != nil {
		return nil, err
	}
	historyRepo, err := badger.NewStore(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	return &System{
		backend:     backend,
		historyRepo: historyRepo,
		provider:    provider,
		coordinator: coordinator,
		logger:      logger,
	}, nil
}

// Close releases the model clients and the history store.
func (s *System) Close() error {
	if err := s.provider.Close(); err != nil {
		s.logger.Error("error closing model provider", "err", err)
	}
	if err := s.historyRepo.Close(); err != nil {
		s.logger.Error("error closing history store", "err", err)
		return err
	}
	if err := s.backend.Close(); err != nil {
		s.logger.Error("error closing history backend", "err", err)
		return err
	}
	return nil
}

// Ingest acquires and indexes one piece of content for a company, and
// records the result in history. History write failures are logged, not
// returned; the content is already indexed at that point.
func (s *System) Ingest(ctx context.Context, content, contentType, entityName string) (*pipeline.IngestResult, error) {
	result, err := s.coordinator.Ingest(ctx, content, contentType, entityName)
	if err != nil {
		return nil, err
	}

	record := &history.IngestRecord{
		EntityName:      entityName,
		CollectionID:    result.CollectionID,
		Content:         content,
		ContentType:     contentType,
		ChunksWritten:   result.ChunksWritten,
		TablesExtracted: result.TablesExtracted,
	}
	if err := s.historyRepo.AddIngest(ctx, record); err != nil {
		s.logger.Error("failed to record ingestion",
			"collection", result.CollectionID,
			"error", err)
	}
	return result, nil
}

// Ask answers a question about a company and records the exchange in
// history.
func (s *System) Ask(ctx context.Context, question, entityName string) (*core.RetrievalResult, error) {
	result, err := s.coordinator.Ask(ctx, question, entityName)
	if err != nil {
		return nil, err
	}

	record := &history.QueryRecord{
		EntityName:   entityName,
		CollectionID: core.CollectionID(entityName),
		Question:     question,
		Answer:       result.Answer,
		Outcome:      result.Outcome,
		Grounded:     result.Grounded,
	}
	if err := s.historyRepo.AddQuery(ctx, record); err != nil {
		s.logger.Error("failed to record query",
			"entity", entityName,
			"error", err)
	}
	return result, nil
}

// DescribeCollection reports a company's collection state, or nil when
// nothing has been ingested for it.
func (s *System) DescribeCollection(ctx context.Context, entityName string) (*core.CollectionInfo, error) {
	return s.coordinator.DescribeCollection(ctx, entityName)
}

// DropCollection removes everything indexed for a company.
func (s *System) DropCollection(ctx context.Context, entityName string) (bool, error) {
	return s.coordinator.DropCollection(ctx, entityName)
}

// History exposes the bookkeeping store.
func (s *System) History() history.Store {
	return s.historyRepo
}

// Coordinator exposes the pipeline coordinator for callers that manage
// their own bookkeeping.
func (s *System) Coordinator() *pipeline.Coordinator {
	return s.coordinator
}
