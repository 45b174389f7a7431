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

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

// defaultTimeout bounds every request to the vector store.
const defaultTimeout = 15 * time.Second

// Client is a minimal REST client to Qdrant. It assumes cosine distance.
// Collections are addressed per call; one client serves every company.
type Client struct {
	baseURL string
	client  *http.Client
}

// ClientConfig holds connection settings for the vector store.
type ClientConfig struct {
	// Host is the Qdrant hostname or IP. Default: "localhost"
	Host string

	// Port is the Qdrant REST port. Default: 6333
	Port int

	// Timeout bounds every request. Default: 15s
	Timeout time.Duration
}

// ClientOption is a functional option for configuring a ClientConfig.
type ClientOption func(*ClientConfig)

// WithHost sets the Qdrant host.
func WithHost(host string) ClientOption {
	return func(c *ClientConfig) {
		c.Host = host
	}
}

// WithPort sets the Qdrant REST port.
func WithPort(port int) ClientOption {
	return func(c *ClientConfig) {
		c.Port = port
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *ClientConfig) {
		c.Timeout = timeout
	}
}

// NewClient creates a Qdrant REST client. The client is safe for
// concurrent use and should be constructed once and shared.
func NewClient(opts ...ClientOption) *Client {
	cfg := ClientConfig{
		Host:    "localhost",
		Port:    6333,
		Timeout: defaultTimeout,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Client{
		baseURL: "http://" + cfg.Host + ":" + strconv.Itoa(cfg.Port),
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

// point is one stored vector with its payload, as Qdrant represents it.
type point struct {
	ID      uint64         `json:"id"`
	Vector  []float32      `json:"vector"`
	Payload map[string]any `json:"payload"`
}

// scoredPoint is a search hit.
type scoredPoint struct {
	Score   float64        `json:"score"`
	Payload map[string]any `json:"payload"`
}

// collectionDescription is the subset of Qdrant's collection info we use.
type collectionDescription struct {
	PointCount int
	Status     string
}

// statusError reports a non-2xx response from the store.
type statusError struct {
	code   int
	method string
	path   string
	body   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("qdrant %s %s returned %d: %s", e.method, e.path, e.code, e.body)
}

// isNotFound reports whether err is a 404 from the store.
func isNotFound(err error) bool {
	se, ok := err.(*statusError)
	return ok && se.code == http.StatusNotFound
}

// ensureCollection creates the named collection with the given vector
// dimension if it does not already exist. Qdrant treats re-creation with
// the same schema as success.
func (c *Client) ensureCollection(ctx context.Context, collection string, dimension int) error {
	body := map[string]any{
		"vectors": map[string]any{
			"size":     dimension,
			"distance": "Cosine",
		},
	}
	err := c.do(ctx, http.MethodPut, "/collections/"+collection, body, nil)
	if err != nil {
		// Conflict means the collection already exists; that is the
		// state we wanted.
		if se, ok := err.(*statusError); ok && se.code == http.StatusConflict {
			return nil
		}
		return err
	}
	return nil
}

// upsertPoints writes points into the collection, waiting for the write
// to be applied before returning.
func (c *Client) upsertPoints(ctx context.Context, collection string, points []point) error {
	body := map[string]any{"points": points}
	return c.do(ctx, http.MethodPut, "/collections/"+collection+"/points?wait=true", body, nil)
}

// searchPoints returns up to limit hits ordered most-similar first.
func (c *Client) searchPoints(ctx context.Context, collection string, vector []float32, limit int) ([]scoredPoint, error) {
	body := map[string]any{
		"vector":       vector,
		"limit":        limit,
		"with_payload": true,
	}
	var resp struct {
		Result []scoredPoint `json:"result"`
	}
	if err := c.do(ctx, http.MethodPost, "/collections/"+collection+"/points/search", body, &resp); err != nil {
		return nil, err
	}
	return resp.Result, nil
}

// getCollection fetches the collection description. Absence is reported
// through the second return, not as an error.
func (c *Client) getCollection(ctx context.Context, collection string) (*collectionDescription, bool, error) {
	var resp struct {
		Result struct {
			Status      string `json:"status"`
			PointsCount int    `json:"points_count"`
		} `json:"result"`
	}
	err := c.do(ctx, http.MethodGet, "/collections/"+collection, nil, &resp)
	if err != nil {
		if isNotFound(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return &collectionDescription{
		PointCount: resp.Result.PointsCount,
		Status:     resp.Result.Status,
	}, true, nil
}

// dropCollection deletes the collection. Dropping a collection that does
// not exist reports existed=false without error. Qdrant signals absence
// either with a 404 or with a 200 carrying result=false, depending on
// version; both are handled.
func (c *Client) dropCollection(ctx context.Context, collection string) (bool, error) {
	var resp struct {
		Result bool `json:"result"`
	}
	err := c.do(ctx, http.MethodDelete, "/collections/"+collection, nil, &resp)
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return resp.Result, nil
}

// do issues one JSON request. A non-2xx status becomes a *statusError;
// anything else wrong with the round trip returns the transport error.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &statusError{
			code:   resp.StatusCode,
			method: method,
			path:   path,
			body:   string(bytes.TrimSpace(detail)),
		}
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}
