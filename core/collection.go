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
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// CollectionNamespace prefixes every per-company collection in the vector
// store, keeping company data apart from anything else sharing the cluster.
const CollectionNamespace = "company_"

var titleCaser = cases.Title(language.English)

// CollectionID derives the vector store collection identity from a company's
// display name: lowercase, whitespace runs collapsed to single underscores,
// periods removed, prefixed with the namespace token.
//
// The transform is idempotent: applying it to an already-derived identity
// returns the identity unchanged. Names differing only by case, surrounding
// or repeated whitespace, or periods map to the same collection.
func CollectionID(entityName string) string {
	name := strings.ToLower(entityName)
	name = strings.ReplaceAll(name, ".", "")
	name = strings.Join(strings.Fields(name), "_")
	if strings.HasPrefix(name, CollectionNamespace) {
		return name
	}
	return CollectionNamespace + name
}

// EntityLabel reverses the collection-naming transform for presentation:
// namespace prefix stripped, underscores to spaces, title-cased.
//
// The label is lossy (casing and periods are gone) and must never be used
// to re-derive a collection identity for writes; use CollectionID on the
// original company name instead.
func EntityLabel(collectionID string) string {
	name := strings.TrimPrefix(collectionID, CollectionNamespace)
	name = strings.ReplaceAll(name, "_", " ")
	return titleCaser.String(name)
}
