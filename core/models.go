package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for indexed fragments.
// It is derived deterministically from fragment content so that
// re-ingesting identical content upserts instead of duplicating.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// Identical content always produces the identical ID.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// SourceKind identifies where a content fragment originated.
type SourceKind string

const (
	// SourceNews is a fragment chunked from a scraped news article.
	SourceNews SourceKind = "news"
	// SourceFinancialReport is a fragment chunked from PDF body text.
	SourceFinancialReport SourceKind = "financial_report"
	// SourceFinancialTable is a fragment rendered from an extracted table.
	// Table fragments are atomic and never re-chunked.
	SourceFinancialTable SourceKind = "financial_table"
)

// Valid reports whether the kind is one of the known source kinds.
func (k SourceKind) Valid() bool {
	switch k {
	case SourceNews, SourceFinancialReport, SourceFinancialTable:
		return true
	}
	return false
}

// ContentFragment is the atomic unit stored in the knowledge index.
//
// The SourceKind determines which optional fields are meaningful:
// Page, TableIndex and Headers are populated only for financial_table
// fragments; Title and PublishedAt only for news fragments. Absent
// fields stay at their zero value and are never filled with placeholders.
type ContentFragment struct {
	Text       string
	Kind       SourceKind
	EntityName string // owning company, denormalized for filtering
	Origin     string // URL for news, file path for PDFs

	Page       int      // 1-based page number, 0 when absent
	TableIndex int      // 0-based within page; meaningful only when Kind is financial_table
	Headers    []string // table header row, order preserved

	Title       string     // article title, news only
	PublishedAt *time.Time // nil when unknown; never fabricated
}

// ExtractedTable is the intermediate artifact produced by PDF table
// extraction before it becomes a financial_table fragment.
//
// Ragged rows (len(row) != len(Headers)) are tolerated and rendered as-is.
type ExtractedTable struct {
	Page       int // 1-based
	TableIndex int // 0-based within page
	Headers    []string
	Rows       [][]string
}

// SkippedTable records a table (or whole page) that extraction gave up on.
// Per-item failures are absorbed into these audit entries, never escalated.
type SkippedTable struct {
	Page       int
	TableIndex int
	Reason     string
}

// CollectionInfo describes a company's collection in the vector store.
type CollectionInfo struct {
	CollectionID string
	PointCount   int
	Status       string
}

// Outcome tags the terminal state of an answer synthesis.
// All four outcomes are valid, non-exceptional results.
type Outcome string

const (
	// OutcomeGroundedAnswered means fragments were retrieved and the model answered.
	OutcomeGroundedAnswered Outcome = "grounded_answered"
	// OutcomeDegraded means fragments were retrieved but no model is configured.
	OutcomeDegraded Outcome = "degraded"
	// OutcomeGenerationFailed means the model was invoked but errored at runtime.
	OutcomeGenerationFailed Outcome = "generation_failed"
	// OutcomeUngrounded means retrieval found nothing to answer from.
	OutcomeUngrounded Outcome = "ungrounded"
)

// RetrievalResult is the structured answer to a question. It is ephemeral;
// the core never persists it.
type RetrievalResult struct {
	Answer   string
	Grounded bool // true iff at least one fragment was retrieved
	Outcome  Outcome
	Entity   string // presentation label, see EntityLabel
	Sources  []SourceSummary
}

// previewLimit caps the content preview carried on a source summary.
const previewLimit = 300

// SourceSummary is a caller-facing view of one retrieved fragment.
type SourceSummary struct {
	Preview string // first 300 characters, ellipsis appended if truncated
	Kind    SourceKind
	Origin  string

	// News only.
	Title string
	URL   string
	Date  string

	// Tables only.
	Page       int
	TableIndex int
	Headers    []string
}

// SummarizeSource builds the caller-facing summary for a retrieved fragment.
func SummarizeSource(frag ContentFragment) SourceSummary {
	summary := SourceSummary{
		Preview: previewText(frag.Text),
		Kind:    frag.Kind,
		Origin:  frag.Origin,
	}

	switch frag.Kind {
	case SourceNews:
		summary.Title = frag.Title
		summary.URL = frag.Origin
		if frag.PublishedAt != nil {
			summary.Date = frag.PublishedAt.Format(time.RFC3339)
		}
	case SourceFinancialTable:
		summary.Page = frag.Page
		summary.TableIndex = frag.TableIndex
		summary.Headers = frag.Headers
	}

	return summary
}

func previewText(text string) string {
	runes := []rune(text)
	if len(runes) <= previewLimit {
		return text
	}
	return string(runes[:previewLimit]) + "..."
}
