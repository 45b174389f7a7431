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


package core

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyFragmentText indicates a fragment with no text after normalization.
	ErrEmptyFragmentText = errors.New("fragment text cannot be empty")

	// ErrInvalidSourceKind indicates an unknown SourceKind value.
	ErrInvalidSourceKind = errors.New("invalid source kind")

	// ErrEmptyEntityName indicates a fragment without an owning company.
	ErrEmptyEntityName = errors.New("entity name cannot be empty")
)

// ValidateFragment validates a ContentFragment according to domain rules.
//
// Validation rules:
//   - Text must not be empty
//   - Kind must be a known SourceKind
//   - EntityName must not be empty
//
// NOT validated (kind-dependent, absent is legal):
//   - Page, TableIndex, Headers (tables only)
//   - Title, PublishedAt (news only)
func ValidateFragment(frag *ContentFragment) error {
	if frag == nil {
		return errors.New("fragment is nil")
	}
	if frag.Text == "" {
		return ErrEmptyFragmentText
	}
	if !frag.Kind.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidSourceKind, frag.Kind)
	}
	if frag.EntityName == "" {
		return ErrEmptyEntityName
	}
	return nil
}

// UsableTable reports whether an extracted cell grid is worth indexing.
// A table needs a non-empty header row plus at least one data row; anything
// smaller carries no retrievable signal and is discarded, never indexed.
// Ragged data rows are fine.
func UsableTable(grid [][]string) bool {
	if len(grid) < 2 {
		return false
	}
	for _, cell := range grid[0] {
		if cell != "" {
			return true
		}
	}
	return false
}
