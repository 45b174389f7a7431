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


package pipeline

import (
	"context"
	"log/slog"
	"strings"

	"github.com/tmc/langchaingo/schema"

	"github.com/poiesic/finsight/acquire"
	"github.com/poiesic/finsight/chunk"
	"github.com/poiesic/finsight/core"
)

// Supported content types for Ingest.
const (
	ContentTypePDF  = "pdf"
	ContentTypeNews = "news"
)

// DocumentLoader loads a PDF into page-segmented text documents.
type DocumentLoader interface {
	LoadPages(ctx context.Context, path string) ([]schema.Document, error)
}

// TableScanner extracts tabular regions from a PDF.
type TableScanner interface {
	ExtractTables(ctx context.Context, path string) (*acquire.ExtractionResult, error)
}

// ArticleScraper acquires a news article from a URL.
type ArticleScraper interface {
	Scrape(ctx context.Context, rawURL string) (*acquire.Article, error)
}

// Chunker splits documents into overlapping fragments.
type Chunker interface {
	SplitDocuments(docs []schema.Document) ([]schema.Document, error)
}

// Index is the slice of the knowledge index the coordinator writes to
// and administers.
type Index interface {
	Upsert(ctx context.Context, collectionID string, fragments []core.ContentFragment) (int, error)
	Describe(ctx context.Context, collectionID string) (*core.CollectionInfo, error)
	Drop(ctx context.Context, collectionID string) (bool, error)
}

// Answerer answers a question against a collection.
type Answerer interface {
	Answer(ctx context.Context, collectionID, question string) (*core.RetrievalResult, error)
}

// IngestResult reports what one ingestion wrote, so callers can reconcile
// with their own bookkeeping. Tables carries the accepted tables in
// extraction order so callers can persist per-table records.
type IngestResult struct {
	CollectionID    string
	ChunksWritten   int
	TablesExtracted int
	Tables          []core.ExtractedTable
	SkippedTables   []core.SkippedTable
}

// Coordinator wires the pipeline stages together.
type Coordinator struct {
	loader   DocumentLoader
	tables   TableScanner
	scraper  ArticleScraper
	chunker  Chunker
	index    Index
	answerer Answerer
	logger   *slog.Logger
}

// Option configures a Coordinator.
type Option func(*Coordinator) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
		return nil
	}
}

// WithDocumentLoader replaces the default PDF document loader.
func WithDocumentLoader(loader DocumentLoader) Option {
	return func(c *Coordinator) error {
		if loader != nil {
			c.loader = loader
		}
		return nil
	}
}

// WithTableScanner replaces the default PDF table extractor.
func WithTableScanner(tables TableScanner) Option {
	return func(c *Coordinator) error {
		if tables != nil {
			c.tables = tables
		}
		return nil
	}
}

// WithArticleScraper replaces the default news scraper.
func WithArticleScraper(scraper ArticleScraper) Option {
	return func(c *Coordinator) error {
		if scraper != nil {
			c.scraper = scraper
		}
		return nil
	}
}

// WithChunker replaces the default text splitter.
func WithChunker(chunker Chunker) Option {
	return func(c *Coordinator) error {
		if chunker != nil {
			c.chunker = chunker
		}
		return nil
	}
}

// NewCoordinator creates a coordinator over the given index and answerer.
// Acquisition and chunking collaborators default to the real
// implementations and can be replaced through options.
func NewCoordinator(index Index, answerer Answerer, opts ...Option) (*Coordinator, error) {
	if index == nil {
		return nil, ErrIndexRequired
	}
	if answerer == nil {
		return nil, ErrAnswererRequired
	}

	splitter, err := chunk.NewSplitter(chunk.DefaultChunkSize, chunk.DefaultChunkOverlap)
	if err != nil {
		return nil, err
	}

	c := &Coordinator{
		loader:   acquire.NewPDFLoader(),
		tables:   acquire.NewTableExtractor(),
		scraper:  acquire.NewScraper(),
		chunker:  splitter,
		index:    index,
		answerer: answerer,
		logger:   slog.Default().With("component", "pipeline"),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Ingest acquires the content, fragments it, and writes it into the
// company's collection. content is a file path for ContentTypePDF and a
// URL for ContentTypeNews. An unsupported content type fails before any
// acquisition work starts.
func (c *Coordinator) Ingest(ctx context.Context, content, contentType, entityName string) (*IngestResult, error) {
	if strings.TrimSpace(entityName) == "" {
		return nil, core.ErrEmptyEntityName
	}
	collectionID := core.CollectionID(entityName)

	switch contentType {
	case ContentTypePDF:
		return c.ingestPDF(ctx, content, entityName, collectionID)
	case ContentTypeNews:
		return c.ingestNews(ctx, content, entityName, collectionID)
	default:
		return nil, core.NewConfigurationError("unsupported content type %q", contentType)
	}
}

func (c *Coordinator) ingestPDF(ctx context.Context, path, entityName, collectionID string) (*IngestResult, error) {
	pages, err := c.loader.LoadPages(ctx, path)
	if err != nil {
		return nil, err
	}
	extraction, err := c.tables.ExtractTables(ctx, path)
	if err != nil {
		return nil, err
	}

	// Body text is chunked; table renderings are atomic and go in whole.
	chunks, err := c.chunker.SplitDocuments(pages)
	if err != nil {
		return nil, err
	}

	fragments := make([]core.ContentFragment, 0, len(chunks)+len(extraction.Tables))
	for _, doc := range chunks {
		fragments = append(fragments, core.ContentFragment{
			Text:       doc.PageContent,
			Kind:       core.SourceFinancialReport,
			EntityName: entityName,
			Origin:     path,
			Page:       acquire.PageNumber(doc),
		})
	}
	for _, table := range extraction.Tables {
		fragments = append(fragments, core.ContentFragment{
			Text:       acquire.RenderTable(table),
			Kind:       core.SourceFinancialTable,
			EntityName: entityName,
			Origin:     path,
			Page:       table.Page,
			TableIndex: table.TableIndex,
			Headers:    table.Headers,
		})
	}

	written, err := c.index.Upsert(ctx, collectionID, fragments)
	if err != nil {
		return nil, err
	}

	c.logger.Info("ingested pdf",
		"collection", collectionID,
		"path", path,
		"chunks", written,
		"tables", len(extraction.Tables),
		"skipped_tables", len(extraction.Skipped))
	return &IngestResult{
		CollectionID:    collectionID,
		ChunksWritten:   written,
		TablesExtracted: len(extraction.Tables),
		Tables:          extraction.Tables,
		SkippedTables:   extraction.Skipped,
	}, nil
}

func (c *Coordinator) ingestNews(ctx context.Context, rawURL, entityName, collectionID string) (*IngestResult, error) {
	article, err := c.scraper.Scrape(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	doc := schema.Document{PageContent: article.Text}
	chunks, err := c.chunker.SplitDocuments([]schema.Document{doc})
	if err != nil {
		return nil, err
	}

	fragments := make([]core.ContentFragment, 0, len(chunks))
	for _, doc := range chunks {
		fragments = append(fragments, core.ContentFragment{
			Text:        doc.PageContent,
			Kind:        core.SourceNews,
			EntityName:  entityName,
			Origin:      article.URL,
			Title:       article.Title,
			PublishedAt: article.PublishedAt,
		})
	}

	written, err := c.index.Upsert(ctx, collectionID, fragments)
	if err != nil {
		return nil, err
	}

	c.logger.Info("ingested article",
		"collection", collectionID,
		"url", article.URL,
		"source", article.SourceDomain,
		"chunks", written)
	return &IngestResult{
		CollectionID:  collectionID,
		ChunksWritten: written,
	}, nil
}

// Ask answers a question about the named company.
func (c *Coordinator) Ask(ctx context.Context, question, entityName string) (*core.RetrievalResult, error) {
	if strings.TrimSpace(entityName) == "" {
		return nil, core.ErrEmptyEntityName
	}
	return c.answerer.Answer(ctx, core.CollectionID(entityName), question)
}

// DescribeCollection reports the company's collection state, or nil when
// nothing has been ingested for it.
func (c *Coordinator) DescribeCollection(ctx context.Context, entityName string) (*core.CollectionInfo, error) {
	if strings.TrimSpace(entityName) == "" {
		return nil, core.ErrEmptyEntityName
	}
	return c.index.Describe(ctx, core.CollectionID(entityName))
}

// DropCollection removes everything ingested for the company. Dropping a
// company that was never ingested reports false without error.
func (c *Coordinator) DropCollection(ctx context.Context, entityName string) (bool, error) {
	if strings.TrimSpace(entityName) == "" {
		return false, core.ErrEmptyEntityName
	}
	return c.index.Drop(ctx, core.CollectionID(entityName))
}
