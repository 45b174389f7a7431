package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/finsight/core"
)

func TestIngestRecordRoundTrip(t *testing.T) {
	record := &IngestRecord{
		ID:              core.ID(42),
		EntityName:      "Acme Corp",
		CollectionID:    "company_acme_corp",
		Content:         "/data/reports/acme-q3.pdf",
		ContentType:     "pdf",
		ChunksWritten:   17,
		TablesExtracted: 3,
		IngestedAt:      time.Date(2026, 8, 30, 14, 5, 9, 123456000, time.UTC),
	}

	got, err := UnmarshalIngestRecord(MarshalIngestRecord(record))
	require.NoError(t, err)
	assert.Equal(t, record, got)
}

func TestQueryRecordRoundTrip(t *testing.T) {
	record := &QueryRecord{
		ID:           core.ID(7),
		EntityName:   "Acme Corp",
		CollectionID: "company_acme_corp",
		Question:     "How did revenue develop?",
		Answer:       "Revenue grew 12% year over year.",
		Outcome:      core.OutcomeGroundedAnswered,
		Grounded:     true,
		AskedAt:      time.Date(2026, 8, 30, 14, 6, 0, 0, time.UTC),
	}

	got, err := UnmarshalQueryRecord(MarshalQueryRecord(record))
	require.NoError(t, err)
	assert.Equal(t, record, got)
}

func TestUnmarshalTruncatedData(t *testing.T) {
	record := &QueryRecord{
		EntityName: "Acme Corp",
		Question:   "What happened?",
		AskedAt:    time.Now().UTC(),
	}
	data := MarshalQueryRecord(record)

	_, err := UnmarshalQueryRecord(data[:len(data)/2])
	assert.Error(t, err)
}

func TestIDRoundTrip(t *testing.T) {
	id := core.IDFromContent("company_acme_corp\x00some fragment")
	got, err := UnmarshalID(MarshalID(id))
	require.NoError(t, err)
	assert.Equal(t, id, got)
}
