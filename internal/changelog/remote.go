package changelog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultRemoteTimeout is the default timeout for remote changelog fetches.
const DefaultRemoteTimeout = 5 * time.Second

// maxRemoteSize bounds the size of a remote changelog source.
const maxRemoteSize = 4 << 20

// ErrSourceTooLarge is returned when a remote source exceeds maxRemoteSize.
// A truncated body could still parse, so it is never used.
var ErrSourceTooLarge = errors.New("remote changelog source too large")

// IsRemote reports whether source names an HTTP(S) URL rather than a file.
func IsRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// LoadRemote fetches and parses a changelog YAML source from a URL.
// If ctx has no deadline, DefaultRemoteTimeout applies.
func LoadRemote(ctx context.Context, url string) (*Document, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultRemoteTimeout)
		defer cancel()
	}

	doc, err := fetchFromURL(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetching remote changelog: %w", err)
	}
	return doc, nil
}

// LoadSource loads a Document from a file path or an HTTP(S) URL.
func LoadSource(ctx context.Context, source string) (*Document, error) {
	if IsRemote(source) {
		return LoadRemote(ctx, source)
	}
	return Load(source)
}

// fetchFromURL fetches and parses a changelog from a URL.
func fetchFromURL(ctx context.Context, url string) (*Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRemoteSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if len(body) > maxRemoteSize {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrSourceTooLarge, maxRemoteSize)
	}

	return LoadFromReader(bytes.NewReader(body))
}
