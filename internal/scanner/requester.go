package scanner

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/maxvaer/headfuzz/internal/config"
)

// Response holds the parsed HTTP response data. Only the status code
// matters for reporting; bodies are never inspected.
type Response struct {
	StatusCode int
	URL        string
	Duration   time.Duration
}

// Requester sends fuzzed-header requests against a single target URL.
type Requester struct {
	client    *http.Client
	targetURL string
	method    string
	header    string
	headers   map[string]string
	userAgent string
	fuzzHost  bool // fuzzed header is Host, which net/http sets via Request.Host
}

// NewRequester creates a Requester from the provided options.
func NewRequester(opts *config.Options) (*Requester, error) {
	target, err := url.Parse(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL %q: %w", opts.URL, err)
	}
	if target.Scheme == "" {
		target.Scheme = "http"
	}

	transport := &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		DialContext: (&net.Dialer{
			Timeout: opts.Timeout,
		}).DialContext,
		MaxIdleConnsPerHost: opts.Threads,
		MaxIdleConns:        opts.Threads,
	}

	if opts.Proxy != "" {
		proxyURL, err := url.Parse(opts.Proxy)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy URL %q: %w", opts.Proxy, err)
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	client := &http.Client{
		Transport: transport,
		Timeout:   opts.Timeout,
	}

	if !opts.FollowRedirects {
		client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	ua := opts.UserAgent
	if ua == "" {
		ua = "headfuzz/1.0"
	}

	method := strings.ToUpper(opts.Method)
	if method == "" {
		method = http.MethodHead
	}

	return &Requester{
		client:    client,
		targetURL: target.String(),
		method:    method,
		header:    opts.Header,
		headers:   opts.Headers,
		userAgent: ua,
		fuzzHost:  strings.EqualFold(opts.Header, "Host"),
	}, nil
}

// URL returns the target URL the requester was built for.
func (r *Requester) URL() string { return r.targetURL }

// Do sends one request carrying the fuzzed header value and returns the
// parsed response. The body is discarded unread beyond draining the
// connection for reuse.
func (r *Requester) Do(ctx context.Context, headerValue string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, r.method, r.targetURL, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", r.userAgent)
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}
	if r.fuzzHost {
		req.Host = headerValue
	} else {
		req.Header.Set(r.header, headerValue)
	}

	start := time.Now()
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	// HEAD responses carry no body; for other methods drain it so the
	// connection can be reused.
	_, _ = io.Copy(io.Discard, resp.Body)

	return &Response{
		StatusCode: resp.StatusCode,
		URL:        r.targetURL,
		Duration:   time.Since(start),
	}, nil
}
