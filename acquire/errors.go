package acquire

import "errors"

var (
	// ErrNoArticleText indicates a page fetched fine but yielded no visible
	// text worth indexing.
	ErrNoArticleText = errors.New("no article text extracted")

	// ErrUnsupportedURL indicates a URL with a scheme other than http/https.
	ErrUnsupportedURL = errors.New("unsupported URL scheme")
)
