package config

import "time"

// FuzzMarker is the placeholder token replaced by each wordlist entry.
const FuzzMarker = "%FUZZ%"

// Defaults for optional flags.
const (
	DefaultHeader      = "Host"
	DefaultIgnoreCodes = "403"
	DefaultTemplate    = FuzzMarker
)

// Options holds all configuration for a headfuzz run. It is filled once by
// the CLI layer and treated as read-only afterwards.
type Options struct {
	// Target
	URL          string
	URLsFile     string // file with one target URL per line
	WordlistPath string
	CIDRTargets  string
	Ports        string

	// Fuzzing
	Header       string // name of the header to fuzz
	FuzzTemplate string // value template containing one %FUZZ% marker
	IgnoreCodes  []int  // status codes suppressed from output
	Method       string // HTTP method, HEAD by default

	// Performance
	Threads          int
	Timeout          time.Duration
	Delay            time.Duration
	Rate             float64 // max requests per second, 0 = unlimited
	AdaptiveThrottle bool

	// HTTP
	RequestFile     string // raw HTTP request file (e.g. Burp export)
	Headers         map[string]string
	UserAgent       string
	Proxy           string
	FollowRedirects bool

	// Output
	OutputFile   string
	OutputFormat string // "text", "json", "csv"
	SortBy       string // "", "status", "word"
	Quiet        bool
	NoColor      bool

	// Hooks
	OnResultCmd string

	// Resume
	ResumeFile string
}
