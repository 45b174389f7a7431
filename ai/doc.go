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


// Package ai provides abstractions for the model services used in Finsight.
//
// This package defines interfaces for the two external model dependencies
// of the pipeline: text embeddings and answer generation. The pipeline core
// depends only on these abstractions; concrete clients are injected at
// construction, which keeps every component substitutable with in-memory
// fakes for testing.
//
// # Interfaces
//
//   - Embedder: generates vector embeddings from text
//   - Generator: produces an answer from a grounded prompt
//   - Provider: aggregates both for convenient wiring and lifecycle
//
// The Generator half of a Provider is optional. A Provider with a nil
// Generator is valid: retrieval still works and the synthesizer reports a
// degraded outcome instead of an answer. This mirrors the deployment
// reality that an embedding service is mandatory for the index to function
// at all, while the generative model may be absent or misconfigured.
//
// # Implementation Packages
//
//   - ai/openai: embeddings via OpenAI-compatible APIs (Ollama, LocalAI, vLLM)
//   - ai/ollama: generation via an Ollama server
//   - ai/mock: test doubles for unit testing without external services
//
// Public constructors return interface types to enforce abstraction;
// mock constructors return concrete types so tests can inject behavior
// and assert call counts.
package ai
