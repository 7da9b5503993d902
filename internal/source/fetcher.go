package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/texforge/resumed/internal/resume"
)

// DefaultTimeout bounds a single fetch when Fetcher.Timeout is zero.
const DefaultTimeout = 10 * time.Second

// maxPayload caps the response body read from the remote API.
const maxPayload = 4 << 20

// Fetcher retrieves resume data from a remote JSON API.
type Fetcher struct {
	URL     string
	Client  *http.Client
	Timeout time.Duration
}

// New creates a Fetcher for url with the given timeout.
func New(url string, timeout time.Duration) *Fetcher {
	return &Fetcher{URL: url, Timeout: timeout}
}

// Fetch downloads and decodes the remote payload.
//
// Parameters:
//   - ctx: Context for cancellation; the fetch timeout is applied on top
//
// Returns:
//   - *resume.Resume: Data mapped from the API shape
//   - error: Wraps ErrUnavailable on transport, status or decode failure
func (f *Fetcher) Fetch(ctx context.Context) (*resume.Resume, error) {
	timeout := f.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: building request: %w", ErrUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: f.URL, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPayload))
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %w", ErrUnavailable, err)
	}

	r, err := resume.FromAPI(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return r, nil
}
