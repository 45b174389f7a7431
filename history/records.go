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

	"github.com/poiesic/finsight/core"
)

// IngestRecord is the bookkeeping entry for one completed ingestion.
type IngestRecord struct {
	ID           core.ID
	EntityName   string
	CollectionID string

	// Content is the file path or URL that was ingested.
	Content     string
	ContentType string

	ChunksWritten   int
	TablesExtracted int

	IngestedAt time.Time
}

// QueryRecord is the bookkeeping entry for one answered question.
type QueryRecord struct {
	ID           core.ID
	EntityName   string
	CollectionID string

	Question string
	Answer   string
	Outcome  core.Outcome
	Grounded bool

	AskedAt time.Time
}
