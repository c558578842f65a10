package investorgain

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"golang.org/x/net/html/charset"
)

const (
	// SourceURL is the live IPO GMP report.
	SourceURL = "https://www.investorgain.com/report/live-ipo-gmp/331/"

	// UserAgent is sent on every request; the site rejects clients without one.
	UserAgent = "Mozilla/5.0"

	DefaultTimeout = 10 * time.Second

	// MaxBodyBytes caps the page size; larger pages are rejected, not truncated.
	MaxBodyBytes = 4 << 20
)

type Client struct {
	url    string
	client *http.Client
}

type Option func(*Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.client.Timeout = d
		}
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.client = hc
		}
	}
}

func New(opts ...Option) *Client {
	c := &Client{
		url: SourceURL,
		client: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// UseDefaultClient switches to http.DefaultClient so tests can swap its transport.
func (c *Client) UseDefaultClient() {
	c.client = http.DefaultClient
}

func (c *Client) URL() string { return c.url }

// RawResponse is the undecoded page as returned by the source.
type RawResponse struct {
	URL        string
	StatusCode int
	Header     http.Header
	Body       string
}

// Fetch makes exactly one GET request to the source. Any failure, including
// a non-2xx status, is reported as a *FetchError.
func (c *Client) Fetch(ctx context.Context) (*RawResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, &FetchError{Kind: KindTransport, URL: c.url, Err: err}
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &FetchError{Kind: classify(err, KindTransport), URL: c.url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, MaxBodyBytes))
		return nil, &FetchError{Kind: KindStatus, URL: c.url, StatusCode: resp.StatusCode, Err: ErrUnexpectedStatus}
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodyBytes+1))
	if err != nil {
		return nil, &FetchError{Kind: classify(err, KindRead), URL: c.url, StatusCode: resp.StatusCode, Err: err}
	}
	if len(raw) > MaxBodyBytes {
		return nil, &FetchError{Kind: KindRead, URL: c.url, StatusCode: resp.StatusCode, Err: ErrBodyTooLarge}
	}

	body, err := charset.NewReader(bytes.NewReader(raw), resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, &FetchError{Kind: KindRead, URL: c.url, StatusCode: resp.StatusCode, Err: err}
	}

	buf, err := io.ReadAll(body)
	if err != nil {
		return nil, &FetchError{Kind: KindRead, URL: c.url, StatusCode: resp.StatusCode, Err: err}
	}

	return &RawResponse{
		URL:        c.url,
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       string(buf),
	}, nil
}

func classify(err error, fallback FetchErrorKind) FetchErrorKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}
	return fallback
}
