package chunk

import (
	"strings"
	"testing"

	"github.com/poiesic/finsight/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/schema"
)

func TestNewSplitter(t *testing.T) {
	t.Run("valid configuration", func(t *testing.T) {
		s, err := NewSplitter(DefaultChunkSize, DefaultChunkOverlap)
		require.NoError(t, err)
		assert.Equal(t, DefaultChunkSize, s.ChunkSize())
		assert.Equal(t, DefaultChunkOverlap, s.Overlap())
	})

	t.Run("non-positive chunk size", func(t *testing.T) {
		_, err := NewSplitter(0, 0)
		require.Error(t, err)
		assert.True(t, core.IsConfigurationError(err))
	})

	t.Run("overlap not smaller than size", func(t *testing.T) {
		_, err := NewSplitter(100, 100)
		require.Error(t, err)
		assert.True(t, core.IsConfigurationError(err))
	})

	t.Run("negative overlap", func(t *testing.T) {
		_, err := NewSplitter(100, -1)
		assert.Error(t, err)
	})
}

func TestSplitDocuments(t *testing.T) {
	paragraph := "The quarterly report shows steady growth across all segments. " +
		"Revenue increased compared to the prior year period. " +
		"Operating margins remained stable despite cost pressures."

	t.Run("long document splits into multiple fragments", func(t *testing.T) {
		s, err := NewSplitter(120, 30)
		require.NoError(t, err)

		source := strings.Repeat(paragraph+"\n\n", 4)
		fragments, err := s.SplitDocuments([]schema.Document{{PageContent: source}})
		require.NoError(t, err)
		assert.Greater(t, len(fragments), 1)
	})

	t.Run("never emits an empty fragment", func(t *testing.T) {
		s, err := NewSplitter(50, 10)
		require.NoError(t, err)

		fragments, err := s.SplitDocuments([]schema.Document{
			{PageContent: paragraph},
			{PageContent: "   \n\n  "},
		})
		require.NoError(t, err)
		for _, frag := range fragments {
			assert.NotEmpty(t, strings.TrimSpace(frag.PageContent))
		}
	})

	t.Run("contiguous coverage within overlap tolerance", func(t *testing.T) {
		s, err := NewSplitter(100, 40)
		require.NoError(t, err)

		source := strings.TrimSpace(strings.Repeat(paragraph+" ", 3))
		fragments, err := s.SplitDocuments([]schema.Document{{PageContent: source}})
		require.NoError(t, err)
		require.Greater(t, len(fragments), 1)

		// Best-effort coverage: every fragment is a verbatim piece of the
		// source, the split starts at the start, ends at the end, and the
		// pieces plus overlap account for the whole source.
		total := 0
		for _, frag := range fragments {
			assert.Contains(t, source, frag.PageContent)
			total += len(frag.PageContent)
		}
		assert.True(t, strings.HasPrefix(source, fragments[0].PageContent))
		assert.True(t, strings.HasSuffix(source, fragments[len(fragments)-1].PageContent))
		assert.GreaterOrEqual(t, total+(len(fragments)-1)*s.Overlap(), len(source))
	})

	t.Run("metadata copied onto every fragment", func(t *testing.T) {
		s, err := NewSplitter(80, 20)
		require.NoError(t, err)

		fragments, err := s.SplitDocuments([]schema.Document{{
			PageContent: strings.Repeat(paragraph+" ", 2),
			Metadata:    map[string]any{"page": 4, "source": "/tmp/report.pdf"},
		}})
		require.NoError(t, err)
		require.NotEmpty(t, fragments)
		for _, frag := range fragments {
			assert.Equal(t, 4, frag.Metadata["page"])
			assert.Equal(t, "/tmp/report.pdf", frag.Metadata["source"])
		}
	})

	t.Run("empty input is a no-op", func(t *testing.T) {
		s, err := NewSplitter(100, 20)
		require.NoError(t, err)

		fragments, err := s.SplitDocuments(nil)
		require.NoError(t, err)
		assert.Empty(t, fragments)
	})
}
