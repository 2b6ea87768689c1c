package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/tweetprep/internal/model"
	"github.com/ppiankov/tweetprep/internal/util"
	"github.com/ppiankov/tweetprep/internal/worker"
)

var (
	// ErrDisallowed is returned when robots.txt forbids a download
	ErrDisallowed = errors.New("disallowed by robots.txt")

	// ErrTooLarge is returned when a download exceeds the size limit
	ErrTooLarge = errors.New("response exceeds size limit")
)

// Fetcher downloads remote datasets. Each download is attempted once.
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	robots     *util.RobotsChecker // nil skips robots.txt
	limiter    *worker.Limiter
	logger     *zap.Logger
}

// NewFetcher creates a Fetcher from HTTP settings. limiter may be nil.
func NewFetcher(cfg model.HTTPConfig, limiter *worker.Limiter, logger *zap.Logger) *Fetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}

	client := &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy: util.NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy, cfg.NoProxy),
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 3 {
				return fmt.Errorf("stopped after 3 redirects")
			}
			return nil
		},
	}

	f := &Fetcher{
		httpClient: client,
		userAgent:  cfg.UserAgent,
		maxBytes:   cfg.MaxBodyBytes,
		limiter:    limiter,
		logger:     logger,
	}
	if !cfg.IgnoreRobots {
		f.robots = util.NewRobotsChecker(client, cfg.UserAgent, logger)
	}
	return f
}

// Download fetches rawURL and returns its body. The caller must close it.
func (f *Fetcher) Download(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	var delay time.Duration
	if f.robots != nil {
		allowed, crawlDelay, err := f.robots.CanFetch(ctx, rawURL)
		if err != nil {
			return nil, fmt.Errorf("check robots.txt: %w", err)
		}
		if !allowed {
			return nil, fmt.Errorf("%w: %s", ErrDisallowed, rawURL)
		}
		delay = crawlDelay
	}

	if f.limiter != nil {
		if err := f.limiter.WaitWithDelay(ctx, rawURL, delay); err != nil {
			return nil, fmt.Errorf("wait for rate limiter: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/csv,text/plain;q=0.9,*/*;q=0.8")

	f.logger.Info("downloading dataset", zap.String("url", rawURL))
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}
	if f.maxBytes > 0 && resp.ContentLength > f.maxBytes {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("%w: %d > %d bytes", ErrTooLarge, resp.ContentLength, f.maxBytes)
	}

	if f.maxBytes <= 0 {
		return resp.Body, nil
	}
	return &limitedBody{rc: resp.Body, remaining: f.maxBytes}, nil
}

// limitedBody fails with ErrTooLarge once more than the limit has been read
type limitedBody struct {
	rc        io.ReadCloser
	remaining int64
}

func (l *limitedBody) Read(p []byte) (int, error) {
	if l.remaining < 0 {
		return 0, ErrTooLarge
	}
	// read one byte past the limit to tell "exactly at limit" from "over"
	if int64(len(p)) > l.remaining+1 {
		p = p[:l.remaining+1]
	}
	n, err := l.rc.Read(p)
	l.remaining -= int64(n)
	if l.remaining < 0 {
		n += int(l.remaining)
		return n, ErrTooLarge
	}
	return n, err
}

func (l *limitedBody) Close() error {
	return l.rc.Close()
}
