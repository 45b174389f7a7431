package chunk

import (
	"log/slog"
	"strings"

	"github.com/poiesic/finsight/core"
	"github.com/tmc/langchaingo/schema"
	"github.com/tmc/langchaingo/textsplitter"
)

// Default fragment sizing, in characters. Overlap keeps boundary-adjacent
// information retrievable from either side of a cut.
const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
)

// Splitter splits normalized documents into overlapping fragments sized for
// embedding. Splitting prefers natural boundaries (paragraph, sentence,
// word) before falling back to a hard character cut, and never emits an
// empty fragment. Metadata on a source document is copied onto every
// fragment derived from it.
type Splitter struct {
	inner     textsplitter.RecursiveCharacter
	chunkSize int
	overlap   int
	logger    *slog.Logger
}

// NewSplitter creates a splitter with the given target size and overlap,
// both in characters. Overlap must be smaller than the target size.
func NewSplitter(chunkSize, overlap int) (*Splitter, error) {
	if chunkSize <= 0 {
		return nil, core.NewConfigurationError("chunk size must be positive, got %d", chunkSize)
	}
	if overlap < 0 || overlap >= chunkSize {
		return nil, core.NewConfigurationError(
			"chunk overlap must be in [0, chunk size), got %d for size %d", overlap, chunkSize)
	}

	return &Splitter{
		inner: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(chunkSize),
			textsplitter.WithChunkOverlap(overlap),
		),
		chunkSize: chunkSize,
		overlap:   overlap,
		logger:    slog.Default().With("component", "splitter"),
	}, nil
}

// ChunkSize returns the configured target fragment size in characters.
func (s *Splitter) ChunkSize() int { return s.chunkSize }

// Overlap returns the configured overlap in characters.
func (s *Splitter) Overlap() int { return s.overlap }

// SplitDocuments splits each document into fragments, preserving document
// order and dropping any fragment that is empty after trimming.
func (s *Splitter) SplitDocuments(docs []schema.Document) ([]schema.Document, error) {
	split, err := textsplitter.SplitDocuments(s.inner, docs)
	if err != nil {
		return nil, err
	}

	fragments := make([]schema.Document, 0, len(split))
	for _, doc := range split {
		if strings.TrimSpace(doc.PageContent) == "" {
			continue
		}
		fragments = append(fragments, doc)
	}

	s.logger.Debug("split documents", "documents", len(docs), "fragments", len(fragments))
	return fragments, nil
}
