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


// Package index stores and retrieves content fragments in a Qdrant
// vector store, one collection per company.
//
// The KnowledgeIndex owns both the embedding step and the store access:
// fragments are embedded on write, questions are embedded on read, and
// both sides must run through the same embedder instance or similarity
// scores are meaningless. Collections are created implicitly on first
// upsert. A missing collection is an empty result for reads and an
// idempotent success for drops; only transport-level failures surface,
// as core.IndexUnavailableError.
package index
