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

import "context"

// Store records pipeline activity. Implementations must be thread-safe
// and support concurrent access.
type Store interface {
	// AddIngest records one completed ingestion. Assigns the record's ID
	// and IngestedAt.
	AddIngest(ctx context.Context, record *IngestRecord) error

	// AddQuery records one answered question. Assigns the record's ID
	// and AskedAt.
	AddQuery(ctx context.Context, record *QueryRecord) error

	// RecentIngests returns up to limit ingestion records, most recent
	// first.
	RecentIngests(ctx context.Context, limit int) ([]*IngestRecord, error)

	// RecentQueries returns up to limit query records, most recent first.
	RecentQueries(ctx context.Context, limit int) ([]*QueryRecord, error)

	// Close closes the store and releases resources.
	Close() error
}
