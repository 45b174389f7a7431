package badger

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/poiesic/finsight/core"
)

// Key prefixes for different data types
const (
	ingestRecordPrefix = "ingrec"
	ingestDatePrefix   = "ingrecd"
	ingestIDSeq        = "ingrecseq"
	queryRecordPrefix  = "qryrec"
	queryDatePrefix    = "qryrecd"
	queryIDSeq         = "qryrecseq"
)

// makeRecordKey generates a primary key for a record by ID.
func makeRecordKey(prefix string, id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", prefix, id))
}

// makeDateKey generates a composite key for a date index.
// Format: prefix:timestamp:id
func makeDateKey(prefix string, timestamp time.Time, id core.ID) []byte {
	prefixBytes := []byte(prefix + ":")
	buf := make([]byte, len(prefixBytes)+16)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(timestamp.UnixMicro()))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makePartialDateKey generates a partial key for date range scans.
// Format: prefix:timestamp
func makePartialDateKey(prefix string, timestamp time.Time) []byte {
	prefixBytes := []byte(prefix + ":")
	buf := make([]byte, len(prefixBytes)+8)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(timestamp.UnixMicro()))
	return buf
}
