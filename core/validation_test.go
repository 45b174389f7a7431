package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateFragment(t *testing.T) {
	valid := func() *ContentFragment {
		return &ContentFragment{
			Text:       "Revenue grew 12% year over year.",
			Kind:       SourceFinancialReport,
			EntityName: "Acme Corp",
			Origin:     "/tmp/report.pdf",
		}
	}

	t.Run("valid fragment", func(t *testing.T) {
		assert.NoError(t, ValidateFragment(valid()))
	})

	t.Run("nil fragment", func(t *testing.T) {
		assert.Error(t, ValidateFragment(nil))
	})

	t.Run("empty text", func(t *testing.T) {
		frag := valid()
		frag.Text = ""
		assert.ErrorIs(t, ValidateFragment(frag), ErrEmptyFragmentText)
	})

	t.Run("unknown source kind", func(t *testing.T) {
		frag := valid()
		frag.Kind = SourceKind("blog")
		assert.ErrorIs(t, ValidateFragment(frag), ErrInvalidSourceKind)
	})

	t.Run("missing entity name", func(t *testing.T) {
		frag := valid()
		frag.EntityName = ""
		assert.ErrorIs(t, ValidateFragment(frag), ErrEmptyEntityName)
	})
}

func TestUsableTable(t *testing.T) {
	t.Run("header plus one data row is usable", func(t *testing.T) {
		assert.True(t, UsableTable([][]string{
			{"Metric", "Q1"},
			{"Revenue", "10.2M"},
		}))
	})

	t.Run("header only is discarded", func(t *testing.T) {
		assert.False(t, UsableTable([][]string{{"Metric", "Q1"}}))
	})

	t.Run("empty grid is discarded", func(t *testing.T) {
		assert.False(t, UsableTable(nil))
		assert.False(t, UsableTable([][]string{}))
	})

	t.Run("all-empty header row is discarded", func(t *testing.T) {
		assert.False(t, UsableTable([][]string{
			{"", "", ""},
			{"Revenue", "10.2M", "11.4M"},
		}))
	})

	t.Run("ragged rows are tolerated", func(t *testing.T) {
		assert.True(t, UsableTable([][]string{
			{"Metric", "Q1", "Q2"},
			{"Revenue", "10.2M"},
		}))
	})
}
