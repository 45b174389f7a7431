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


// Package synthesize turns a question and a company's indexed fragments
// into a grounded answer.
//
// Each invocation is stateless: retrieve the most similar fragments,
// assemble them into a prompt, and invoke the generative model. The four
// terminal outcomes (grounded answer, degraded, generation failed,
// ungrounded) are all ordinary results; only index connectivity failures
// surface as errors.
package synthesize
