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


package index

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/poiesic/finsight/ai"
	"github.com/poiesic/finsight/core"
)

// defaultSearchLimit is the number of fragments returned when the caller
// does not ask for a specific limit.
const defaultSearchLimit = 5

// KnowledgeIndex writes and retrieves content fragments for per-company
// collections. Writes and reads share one embedder; see the package doc.
type KnowledgeIndex struct {
	embedder ai.Embedder
	client   *Client
	logger   *slog.Logger
}

// Option configures a KnowledgeIndex.
type Option func(*KnowledgeIndex) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(k *KnowledgeIndex) error {
		if logger == nil {
			logger = slog.Default()
		}
		k.logger = logger
		return nil
	}
}

// NewKnowledgeIndex creates a knowledge index over the given store client,
// embedding all text through the given embedder.
func NewKnowledgeIndex(embedder ai.Embedder, client *Client, opts ...Option) (*KnowledgeIndex, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if client == nil {
		return nil, ErrClientRequired
	}

	k := &KnowledgeIndex{
		embedder: embedder,
		client:   client,
		logger:   slog.Default().With("component", "index"),
	}
	for _, opt := range opts {
		if err := opt(k); err != nil {
			return nil, err
		}
	}
	return k, nil
}

// Upsert embeds the fragments and writes them into the named collection,
// creating the collection if absent. An empty batch is a no-op returning
// zero; it does not create the collection. Returns the number of points
// written.
//
// Point identity is derived from the collection and the fragment text, so
// re-ingesting identical content overwrites instead of duplicating.
func (k *KnowledgeIndex) Upsert(ctx context.Context, collectionID string, fragments []core.ContentFragment) (int, error) {
	if collectionID == "" {
		return 0, ErrEmptyCollectionID
	}
	if len(fragments) == 0 {
		return 0, nil
	}
	for i := range fragments {
		if err := core.ValidateFragment(&fragments[i]); err != nil {
			return 0, fmt.Errorf("fragment %d: %w", i, err)
		}
	}

	texts := make([]string, len(fragments))
	for i, frag := range fragments {
		texts[i] = frag.Text
	}
	vectors, err := k.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embedding %d fragments: %w", len(fragments), err)
	}
	if len(vectors) != len(fragments) {
		return 0, fmt.Errorf("embedder returned %d vectors for %d fragments", len(vectors), len(fragments))
	}

	if err := k.client.ensureCollection(ctx, collectionID, len(vectors[0])); err != nil {
		return 0, core.NewIndexUnavailableError("upsert", collectionID, err)
	}

	points := make([]point, len(fragments))
	for i, frag := range fragments {
		points[i] = point{
			ID:      uint64(core.IDFromContent(collectionID + "\x00" + frag.Text)),
			Vector:  vectors[i],
			Payload: payloadFromFragment(frag),
		}
	}
	if err := k.client.upsertPoints(ctx, collectionID, points); err != nil {
		return 0, core.NewIndexUnavailableError("upsert", collectionID, err)
	}

	k.logger.Debug("upserted fragments",
		"collection", collectionID,
		"count", len(points))
	return len(points), nil
}

// Search embeds the query and returns up to limit fragments from the
// named collection, most-similar first. A missing or empty collection
// yields an empty slice, not an error. limit <= 0 selects the default.
func (k *KnowledgeIndex) Search(ctx context.Context, collectionID, query string, limit int) ([]core.ContentFragment, error) {
	if collectionID == "" {
		return nil, ErrEmptyCollectionID
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	vector, err := k.embedder.EmbedText(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	hits, err := k.client.searchPoints(ctx, collectionID, vector, limit)
	if err != nil {
		if isNotFound(err) {
			return []core.ContentFragment{}, nil
		}
		return nil, core.NewIndexUnavailableError("search", collectionID, err)
	}

	fragments := make([]core.ContentFragment, 0, len(hits))
	for _, hit := range hits {
		fragments = append(fragments, fragmentFromPayload(hit.Payload))
	}
	return fragments, nil
}

// Describe reports the collection's point count and status, or nil when
// the collection does not exist.
func (k *KnowledgeIndex) Describe(ctx context.Context, collectionID string) (*core.CollectionInfo, error) {
	if collectionID == "" {
		return nil, ErrEmptyCollectionID
	}
	desc, exists, err := k.client.getCollection(ctx, collectionID)
	if err != nil {
		return nil, core.NewIndexUnavailableError("describe", collectionID, err)
	}
	if !exists {
		return nil, nil
	}
	return &core.CollectionInfo{
		CollectionID: collectionID,
		PointCount:   desc.PointCount,
		Status:       desc.Status,
	}, nil
}

// Drop deletes the collection. Dropping a collection that does not exist
// is not an error; the return reports whether anything existed to drop.
func (k *KnowledgeIndex) Drop(ctx context.Context, collectionID string) (bool, error) {
	if collectionID == "" {
		return false, ErrEmptyCollectionID
	}
	existed, err := k.client.dropCollection(ctx, collectionID)
	if err != nil {
		return false, core.NewIndexUnavailableError("drop", collectionID, err)
	}
	if existed {
		k.logger.Info("dropped collection", "collection", collectionID)
	}
	return existed, nil
}

// Payload keys. These are the wire contract with the store; changing one
// orphans previously written points.
const (
	payloadText        = "text"
	payloadKind        = "source_kind"
	payloadEntity      = "entity_name"
	payloadOrigin      = "origin"
	payloadPage        = "page"
	payloadTableIndex  = "table_index"
	payloadHeaders     = "headers"
	payloadTitle       = "title"
	payloadPublishedAt = "published_at"
)

func payloadFromFragment(frag core.ContentFragment) map[string]any {
	payload := map[string]any{
		payloadText:   frag.Text,
		payloadKind:   string(frag.Kind),
		payloadEntity: frag.EntityName,
		payloadOrigin: frag.Origin,
	}
	if frag.Page > 0 {
		payload[payloadPage] = frag.Page
	}
	if frag.Kind == core.SourceFinancialTable {
		payload[payloadTableIndex] = frag.TableIndex
		if len(frag.Headers) > 0 {
			payload[payloadHeaders] = frag.Headers
		}
	}
	if frag.Title != "" {
		payload[payloadTitle] = frag.Title
	}
	if frag.PublishedAt != nil {
		payload[payloadPublishedAt] = frag.PublishedAt.Format(time.RFC3339)
	}
	return payload
}

func fragmentFromPayload(payload map[string]any) core.ContentFragment {
	frag := core.ContentFragment{
		Text:       stringValue(payload, payloadText),
		Kind:       core.SourceKind(stringValue(payload, payloadKind)),
		EntityName: stringValue(payload, payloadEntity),
		Origin:     stringValue(payload, payloadOrigin),
		Page:       intValue(payload, payloadPage),
		TableIndex: intValue(payload, payloadTableIndex),
		Title:      stringValue(payload, payloadTitle),
	}
	if raw, ok := payload[payloadHeaders].([]any); ok {
		headers := make([]string, 0, len(raw))
		for _, h := range raw {
			if s, ok := h.(string); ok {
				headers = append(headers, s)
			}
		}
		frag.Headers = headers
	}
	if s := stringValue(payload, payloadPublishedAt); s != "" {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			frag.PublishedAt = &t
		}
	}
	return frag
}

func stringValue(payload map[string]any, key string) string {
	s, _ := payload[key].(string)
	return s
}

func intValue(payload map[string]any, key string) int {
	// JSON numbers decode as float64.
	switch v := payload[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return 0
}
