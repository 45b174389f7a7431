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


// Package history records what the pipeline has done: one record per
// ingestion and one per answered question, kept locally in an embedded
// store.
//
// History is bookkeeping, not a source of truth for the index. The
// vector store can be rebuilt from the original content; history only
// tells an operator what was fed in and asked, and when. Writes are
// best-effort from the caller's perspective: a failed history write
// should be logged, not used to fail the pipeline operation it records.
package history
