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

// AcquisitionError means source content could not be obtained or parsed:
// an unreadable file, an unreachable URL, or an exhausted scraping fallback.
// It is fatal to the single ingestion call and is not retried internally.
type AcquisitionError struct {
	Source string // file path or URL that failed
	Err    error
}

func (e *AcquisitionError) Error() string {
	return fmt.Sprintf("acquisition failed for %s: %v", e.Source, e.Err)
}

func (e *AcquisitionError) Unwrap() error { return e.Err }

// NewAcquisitionError wraps err as an acquisition failure for the given source.
func NewAcquisitionError(source string, err error) error {
	return &AcquisitionError{Source: source, Err: err}
}

// IsAcquisitionError reports whether err is (or wraps) an AcquisitionError.
func IsAcquisitionError(err error) bool {
	var ae *AcquisitionError
	return errors.As(err, &ae)
}

// ConfigurationError means the input shape or configuration is invalid:
// an unsupported content type or missing required settings. Fatal, immediate.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Reason
}

// NewConfigurationError builds a ConfigurationError with a formatted reason.
func NewConfigurationError(format string, args ...any) error {
	return &ConfigurationError{Reason: fmt.Sprintf(format, args...)}
}

// IsConfigurationError reports whether err is (or wraps) a ConfigurationError.
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}

// IndexUnavailableError means the vector store is unreachable or rejected
// the operation. Fatal to the call; the caller decides retry policy.
type IndexUnavailableError struct {
	Op         string // upsert, search, describe, drop
	Collection string
	Err        error
}

func (e *IndexUnavailableError) Error() string {
	return fmt.Sprintf("index unavailable during %s on %s: %v", e.Op, e.Collection, e.Err)
}

func (e *IndexUnavailableError) Unwrap() error { return e.Err }

// NewIndexUnavailableError wraps a vector store transport failure.
func NewIndexUnavailableError(op, collection string, err error) error {
	return &IndexUnavailableError{Op: op, Collection: collection, Err: err}
}

// IsIndexUnavailable reports whether err is (or wraps) an IndexUnavailableError.
func IsIndexUnavailable(err error) bool {
	var ie *IndexUnavailableError
	return errors.As(err, &ie)
}
