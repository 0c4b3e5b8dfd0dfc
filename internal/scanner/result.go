package scanner

import "time"

// Result holds the outcome of a single fuzzed request.
type Result struct {
	Word        string // wordlist entry substituted into the template
	HeaderName  string // name of the fuzzed header
	HeaderValue string // fully rendered header value
	URL         string // target URL
	StatusCode  int    // 0 when the request failed
	Duration    time.Duration
	Error       error
	Ignored     bool // status code was in the ignore set
}
