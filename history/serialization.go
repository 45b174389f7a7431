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


package history

import (
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"

	"github.com/poiesic/finsight/core"
)

// Records are encoded in the MUS format, field by field in declaration
// order. Timestamps travel as Unix microseconds. Adding a field means
// appending it here and bumping nothing: old records simply stop at the
// shorter layout, so fields must only ever be appended.

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, varint.Uint64.Size(uint64(id)))
	varint.Uint64.Marshal(uint64(id), buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	v, _, err := varint.Uint64.Unmarshal(data)
	return core.ID(v), err
}

// MarshalIngestRecord serializes an IngestRecord to bytes.
func MarshalIngestRecord(record *IngestRecord) []byte {
	size := varint.Uint64.Size(uint64(record.ID)) +
		ord.String.Size(record.EntityName) +
		ord.String.Size(record.CollectionID) +
		ord.String.Size(record.Content) +
		ord.String.Size(record.ContentType) +
		varint.Int.Size(record.ChunksWritten) +
		varint.Int.Size(record.TablesExtracted) +
		varint.Int64.Size(record.IngestedAt.UnixMicro())

	buf := make([]byte, size)
	n := varint.Uint64.Marshal(uint64(record.ID), buf)
	n += ord.String.Marshal(record.EntityName, buf[n:])
	n += ord.String.Marshal(record.CollectionID, buf[n:])
	n += ord.String.Marshal(record.Content, buf[n:])
	n += ord.String.Marshal(record.ContentType, buf[n:])
	n += varint.Int.Marshal(record.ChunksWritten, buf[n:])
	n += varint.Int.Marshal(record.TablesExtracted, buf[n:])
	varint.Int64.Marshal(record.IngestedAt.UnixMicro(), buf[n:])
	return buf
}

// UnmarshalIngestRecord deserializes an IngestRecord from bytes.
func UnmarshalIngestRecord(data []byte) (*IngestRecord, error) {
	var record IngestRecord
	id, n, err := varint.Uint64.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	record.ID = core.ID(id)

	var m int
	if record.EntityName, m, err = ord.String.Unmarshal(data[n:]); err != nil {
		return nil, err
	}
	n += m
	if record.CollectionID, m, err = ord.String.Unmarshal(data[n:]); err != nil {
		return nil, err
	}
	n += m
	if record.Content, m, err = ord.String.Unmarshal(data[n:]); err != nil {
		return nil, err
	}
	n += m
	if record.ContentType, m, err = ord.String.Unmarshal(data[n:]); err != nil {
		return nil, err
	}
	n += m
	if record.ChunksWritten, m, err = varint.Int.Unmarshal(data[n:]); err != nil {
		return nil, err
	}
	n += m
	if record.TablesExtracted, m, err = varint.Int.Unmarshal(data[n:]); err != nil {
		return nil, err
	}
	n += m
	micros, _, err := varint.Int64.Unmarshal(data[n:])
	if err != nil {
		return nil, err
	}
	record.IngestedAt = time.UnixMicro(micros).UTC()
	return &record, nil
}

// MarshalQueryRecord serializes a QueryRecord to bytes.
func MarshalQueryRecord(record *QueryRecord) []byte {
	size := varint.Uint64.Size(uint64(record.ID)) +
		ord.String.Size(record.EntityName) +
		ord.String.Size(record.CollectionID) +
		ord.String.Size(record.Question) +
		ord.String.Size(record.Answer) +
		ord.String.Size(string(record.Outcome)) +
		ord.Bool.Size(record.Grounded) +
		varint.Int64.Size(record.AskedAt.UnixMicro())

	buf := make([]byte, size)
	n := varint.Uint64.Marshal(uint64(record.ID), buf)
	n += ord.String.Marshal(record.EntityName, buf[n:])
	n += ord.String.Marshal(record.CollectionID, buf[n:])
	n += ord.String.Marshal(record.Question, buf[n:])
	n += ord.String.Marshal(record.Answer, buf[n:])
	n += ord.String.Marshal(string(record.Outcome), buf[n:])
	n += ord.Bool.Marshal(record.Grounded, buf[n:])
	varint.Int64.Marshal(record.AskedAt.UnixMicro(), buf[n:])
	return buf
}

// UnmarshalQueryRecord deserializes a QueryRecord from bytes.
func UnmarshalQueryRecord(data []byte) (*QueryRecord, error) {
	var record QueryRecord
	id, n, err := varint.Uint64.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	record.ID = core.ID(id)

	var m int
	if record.EntityName, m, err = ord.String.Unmarshal(data[n:]); err != nil {
		return nil, err
	}
	n += m
	if record.CollectionID, m, err = ord.String.Unmarshal(data[n:]); err != nil {
		return nil, err
	}
	n += m
	if record.Question, m, err = ord.String.Unmarshal(data[n:]); err != nil {
		return nil, err
	}
	n += m
	if record.Answer, m, err = ord.String.Unmarshal(data[n:]); err != nil {
		return nil, err
	}
	n += m
	var outcome string
	if outcome, m, err = ord.String.Unmarshal(data[n:]); err != nil {
		return nil, err
	}
	record.Outcome = core.Outcome(outcome)
	n += m
	if record.Grounded, m, err = ord.Bool.Unmarshal(data[n:]); err != nil {
		return nil, err
	}
	n += m
	micros, _, err := varint.Int64.Unmarshal(data[n:])
	if err != nil {
		return nil, err
	}
	record.AskedAt = time.UnixMicro(micros).UTC()
	return &record, nil
}
