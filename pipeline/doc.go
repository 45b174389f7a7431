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


// Package pipeline coordinates acquisition, chunking, indexing, and
// answer synthesis into the two top-level operations: Ingest and Ask.
//
// The coordinator is the single place where a company name becomes a
// collection identity; ingestion and query must derive it identically or
// content leaks between companies. All collaborators are long-lived and
// injected once; every method is safe for concurrent use across
// invocations.
package pipeline
