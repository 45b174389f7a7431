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


// Package acquire turns raw inputs (PDF file paths, article URLs) into
// normalized text and structured tabular extracts.
//
// The PDF path produces page-segmented body text plus per-page table cell
// grids. Table extraction is isolated per page and per table: one bad table
// becomes an audit entry in the result, never a failure of the whole
// document. Only a whole-document open failure is fatal.
//
// The web path scrapes an article with a readability-style extractor and
// falls back to raw HTML text extraction (script/style/nav/footer/header
// stripped) when the extractor fails. The fallback never fabricates a
// publish date. Every fetch is bounded by a timeout.
//
// Failures that make the requested acquisition itself meaningless surface
// as *core.AcquisitionError.
package acquire
