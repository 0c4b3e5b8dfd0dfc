package output

import (
	"time"

	"github.com/maxvaer/headfuzz/internal/scanner"
)

// Stats holds aggregate run statistics.
type Stats struct {
	TotalRequests   int
	SuppressedCount int
	ErrorCount      int
	Duration        time.Duration
	RequestsPerSec  float64
}

// Writer is implemented by each output format.
type Writer interface {
	WriteHeader() error
	WriteResult(result *scanner.Result) error
	WriteFooter(stats Stats) error
	Close() error
}
