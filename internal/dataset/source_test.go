package dataset

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type fakeDownloader struct {
	body string
	err  error
	got  string
}

func (d *fakeDownloader) Download(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	d.got = rawURL
	if d.err != nil {
		return nil, d.err
	}
	return io.NopCloser(strings.NewReader(d.body)), nil
}

func TestOpen_Local(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tweets.csv")
	if err := os.WriteFile(path, []byte("tweet.id,text\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	rc, err := Open(context.Background(), path, nil)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if string(data) != "tweet.id,text\n" {
		t.Errorf("unexpected content %q", data)
	}
}

func TestOpen_Remote(t *testing.T) {
	dl := &fakeDownloader{body: "remote"}
	rc, err := Open(context.Background(), "https://example.com/t.csv", dl)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer rc.Close()
	if dl.got != "https://example.com/t.csv" {
		t.Errorf("downloader called with %q", dl.got)
	}

	dl.err = errors.New("boom")
	if _, err := Open(context.Background(), "https://example.com/t.csv", dl); err == nil {
		t.Error("expected download error")
	}
	if _, err := Open(context.Background(), "http://example.com/t.csv", nil); err == nil {
		t.Error("expected error without downloader")
	}
}

func TestOpen_Errors(t *testing.T) {
	if _, err := Open(context.Background(), "", nil); err == nil {
		t.Error("expected error for empty location")
	}
	if _, err := Open(context.Background(), filepath.Join(t.TempDir(), "missing.csv"), nil); err == nil {
		t.Error("expected error for missing file")
	}
}
