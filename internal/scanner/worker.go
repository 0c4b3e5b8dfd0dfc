package scanner

import (
	"context"
	"sync"

	"github.com/maxvaer/headfuzz/internal/fuzz"
)

// WorkerConfig holds options for the worker pool.
type WorkerConfig struct {
	Threads   int
	Template  *fuzz.Template
	Header    string // fuzzed header name, carried into each Result
	Throttler *Throttler
	Pauser    *Pauser // nil = no pause support
}

// RunWorkerPool fans wordlist entries out across workers and returns a
// channel of results. With Threads == 1 requests are strictly sequential:
// exactly one outstanding request at a time. The channel is closed when
// all items have been processed.
func RunWorkerPool(
	ctx context.Context,
	req *Requester,
	items []WorkItem,
	cfg WorkerConfig,
) <-chan Result {
	threads := cfg.Threads
	if threads < 1 {
		threads = 1
	}
	itemsCh := make(chan WorkItem, threads)
	resultsCh := make(chan Result, threads)

	var wg sync.WaitGroup

	// Producer: feed items into channel.
	go func() {
		defer close(itemsCh)
		for _, item := range items {
			select {
			case itemsCh <- item:
			case <-ctx.Done():
				return
			}
		}
	}()

	// Workers: consume items, produce results.
	for i := 0; i < threads; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range itemsCh {
				if cfg.Pauser != nil {
					cfg.Pauser.Wait()
				}

				if err := cfg.Throttler.Wait(ctx); err != nil {
					return
				}

				value := cfg.Template.Render(item.Word)
				resp, err := req.Do(ctx, value)
				if err != nil {
					if ctx.Err() != nil {
						return
					}
					cfg.Throttler.RecordError()
					// A failed request yields no status code but still
					// counts as a processed word.
					resultsCh <- Result{
						Word:        item.Word,
						HeaderName:  cfg.Header,
						HeaderValue: value,
						URL:         req.URL(),
						Error:       err,
					}
					continue
				}

				cfg.Throttler.RecordStatus(resp.StatusCode)

				resultsCh <- Result{
					Word:        item.Word,
					HeaderName:  cfg.Header,
					HeaderValue: value,
					URL:         resp.URL,
					StatusCode:  resp.StatusCode,
					Duration:    resp.Duration,
				}
			}
		}()
	}

	// Closer: when all workers finish, close the results channel.
	go func() {
		wg.Wait()
		close(resultsCh)
	}()

	return resultsCh
}
