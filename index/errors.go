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


package index

import "errors"

var (
	// ErrEmbedderRequired is returned when constructing a KnowledgeIndex
	// without an embedder.
	ErrEmbedderRequired = errors.New("embedder is required")

	// ErrClientRequired is returned when constructing a KnowledgeIndex
	// without a store client.
	ErrClientRequired = errors.New("store client is required")

	// ErrEmptyCollectionID is returned when an operation is invoked with
	// an empty collection identifier.
	ErrEmptyCollectionID = errors.New("collection id must not be empty")
)
