package output

import (
	"fmt"
	"os"
	"sync"
	"time"
)

// placeholder shown before the first estimate is available.
const noEstimate = "--:--:--"

// SecondsTotal projects the total run duration in whole seconds from the
// elapsed time and the completed/total counts. Integer division truncates.
// Must not be called with completed == 0.
func SecondsTotal(elapsed, completed, total int) int {
	return total * elapsed / completed
}

// SecondsRemain returns the projected remaining duration in whole seconds.
func SecondsRemain(total, elapsed int) int {
	return total - elapsed
}

// FormatSeconds renders a whole-second duration as H:MM:SS. Minutes and
// seconds are zero-padded to two digits; hours are unpadded, with the
// zero-hours case printed as "00".
func FormatSeconds(seconds int) string {
	h := seconds / 3600
	m := seconds % 3600 / 60
	s := seconds % 60
	if h == 0 {
		return fmt.Sprintf("00:%02d:%02d", m, s)
	}
	return fmt.Sprintf("%d:%02d:%02d", h, m, s)
}

// Progress tracks completion and displays a CR-overwritten progress line on
// stderr. Elapsed/remaining estimates are recomputed only every 10th
// completed request; in between the previously formatted strings are reused.
type Progress struct {
	mu         sync.Mutex
	total      int
	completed  int
	suppressed int
	errors     int
	start      time.Time
	elapsedStr string
	remainStr  string
	quiet      bool
}

// NewProgress creates a progress tracker for total requests.
func NewProgress(total int, quiet bool) *Progress {
	return &Progress{
		total:      total,
		start:      time.Now(),
		elapsedStr: noEstimate,
		remainStr:  noEstimate,
		quiet:      quiet,
	}
}

// Increment records a completed request and redraws the progress line.
func (p *Progress) Increment() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.completed++
	if p.completed > 0 && p.completed%10 == 0 {
		elapsed := int(time.Since(p.start).Seconds())
		p.elapsedStr = FormatSeconds(elapsed)
		p.remainStr = FormatSeconds(SecondsRemain(SecondsTotal(elapsed, p.completed, p.total), elapsed))
	}
	p.print()
}

// IncrementSuppressed records a result hidden by the ignore set.
func (p *Progress) IncrementSuppressed() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.suppressed++
}

// IncrementErrors records a failed request.
func (p *Progress) IncrementErrors() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.errors++
}

// AddTotal grows the expected request count (additional targets).
func (p *Progress) AddTotal(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.total += n
}

// ClearLine erases the progress line so a result can be printed cleanly.
func (p *Progress) ClearLine() {
	if p.quiet {
		return
	}
	fmt.Fprint(os.Stderr, "\r\033[K")
}

// Redraw reprints the progress line after other output.
func (p *Progress) Redraw() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.print()
}

// Finish terminates the progress line with a newline.
func (p *Progress) Finish() {
	if p.quiet {
		return
	}
	fmt.Fprint(os.Stderr, "\n")
}

// print assumes p.mu is held.
func (p *Progress) print() {
	if p.quiet {
		return
	}
	fmt.Fprintf(os.Stderr, "\r\033[K%d/%d | elapsed %s | remaining %s | errors %d",
		p.completed, p.total, p.elapsedStr, p.remainStr, p.errors)
}
