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


package synthesize

import "fmt"

// promptTemplate is the contract with the generative model. The
// system/user/assistant delimiters match what phi-style instruct models
// were tuned on; keep the structure intact if the model is swapped.
const promptTemplate = `<|system|>
Analyze this data for %s and strictly answer the question based on the context provided:

Context: %s

<|end|>
<|user|>
%s for %s.<|end|>
<|assistant|>
`

// buildPrompt assembles the model prompt from the entity label, retrieved
// context, and the verbatim question.
func buildPrompt(entity, context, question string) string {
	return fmt.Sprintf(promptTemplate, entity, context, question, entity)
}
