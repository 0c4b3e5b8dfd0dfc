package filter

import "github.com/maxvaer/headfuzz/internal/scanner"

// IgnoreFilter suppresses results whose status code is in the ignore set.
// Membership is an exact integer comparison.
type IgnoreFilter struct {
	codes map[int]struct{}
}

// NewIgnoreFilter creates a filter from the list of ignored status codes.
func NewIgnoreFilter(codes []int) *IgnoreFilter {
	f := &IgnoreFilter{codes: make(map[int]struct{}, len(codes))}
	for _, code := range codes {
		f.codes[code] = struct{}{}
	}
	return f
}

func (f *IgnoreFilter) Name() string { return "ignore" }

func (f *IgnoreFilter) ShouldFilter(result *scanner.Result) bool {
	_, ok := f.codes[result.StatusCode]
	return ok
}
