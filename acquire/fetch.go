package acquire

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// maxFetchBytes caps response bodies so a misbehaving server cannot make
// an ingestion balloon in memory.
const maxFetchBytes = 10 << 20 // 10 MiB

const userAgent = "finsight/1.0"

// fetchHTML retrieves the raw page bytes for u using the given client.
// The context (and the client's own timeout) bound the request; fetching
// never blocks indefinitely.
func fetchHTML(ctx context.Context, client *http.Client, u *url.URL) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("fetch %s: unexpected status %s", u, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBytes))
	if err != nil {
		return nil, fmt.Errorf("fetch %s: reading body: %w", u, err)
	}
	return body, nil
}
