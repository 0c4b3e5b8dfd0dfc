package scanner

// WorkItem represents a single unit of work for the worker pool.
type WorkItem struct {
	Word string // wordlist entry to substitute into the fuzz template
}
