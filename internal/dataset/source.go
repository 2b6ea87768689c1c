package dataset

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

// Downloader fetches a remote dataset
type Downloader interface {
	Download(ctx context.Context, rawURL string) (io.ReadCloser, error)
}

// IsRemote reports whether location is an http(s) URL
func IsRemote(location string) bool {
	lower := strings.ToLower(location)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// Open returns a reader for a local path or an http(s) URL. dl may be nil
// when only local files are expected.
func Open(ctx context.Context, location string, dl Downloader) (io.ReadCloser, error) {
	if location == "" {
		return nil, fmt.Errorf("open dataset: empty location")
	}
	if IsRemote(location) {
		if dl == nil {
			return nil, fmt.Errorf("open dataset %s: remote locations are not enabled", location)
		}
		rc, err := dl.Download(ctx, location)
		if err != nil {
			return nil, fmt.Errorf("download %s: %w", location, err)
		}
		return rc, nil
	}

	f, err := os.Open(location)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	return f, nil
}
