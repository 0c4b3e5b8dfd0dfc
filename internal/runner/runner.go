// Package runner orchestrates a headfuzz run: wordlist loading, template
// parsing, the request loop, filtering, progress and output.
package runner

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/maxvaer/headfuzz/internal/config"
	"github.com/maxvaer/headfuzz/internal/filter"
	"github.com/maxvaer/headfuzz/internal/fuzz"
	"github.com/maxvaer/headfuzz/internal/hook"
	"github.com/maxvaer/headfuzz/internal/netutil"
	"github.com/maxvaer/headfuzz/internal/output"
	"github.com/maxvaer/headfuzz/internal/resume"
	"github.com/maxvaer/headfuzz/internal/scanner"
	"github.com/maxvaer/headfuzz/internal/wordlist"
	"github.com/maxvaer/headfuzz/pkg/version"
)

// Run executes the full fuzzing pipeline. It supports multiple targets via
// -l (URL list file) and --cidr flags; targets run strictly in sequence.
func Run(ctx context.Context, opts *config.Options) error {
	targets, err := resolveTargets(opts)
	if err != nil {
		return err
	}

	pauser, cleanup := startStdinToggle(opts.Quiet)
	defer cleanup()

	// One interrupt handler for the whole run; runSingleTarget swaps in
	// the active target's state as the run moves between targets.
	var saver *resumeSaver
	if opts.ResumeFile != "" {
		saver = &resumeSaver{path: opts.ResumeFile}
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigCh)
		go func() {
			for range sigCh {
				saver.save()
			}
		}()
	}

	for idx, target := range targets {
		if len(targets) > 1 && !opts.Quiet {
			fmt.Fprintf(os.Stderr, "\n[*] Target %d/%d: %s\n", idx+1, len(targets), target)
		}
		opts.URL = target
		if err := runSingleTarget(ctx, opts, pauser, saver); err != nil {
			if ctx.Err() != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "[!] Error fuzzing %s: %v\n", target, err)
		}
	}
	return nil
}

// resolveTargets builds the list of URLs to fuzz from -u, -l, and --cidr.
func resolveTargets(opts *config.Options) ([]string, error) {
	var targets []string

	if opts.URL != "" {
		targets = append(targets, opts.URL)
	}

	if opts.URLsFile != "" {
		f, err := os.Open(opts.URLsFile)
		if err != nil {
			return nil, fmt.Errorf("opening URLs file: %w", err)
		}
		defer f.Close()
		sc := bufio.NewScanner(f)
		for sc.Scan() {
			line := strings.TrimSpace(sc.Text())
			if line != "" && !strings.HasPrefix(line, "#") {
				if !strings.HasPrefix(line, "http://") && !strings.HasPrefix(line, "https://") {
					line = "http://" + line
				}
				targets = append(targets, line)
			}
		}
		if err := sc.Err(); err != nil {
			return nil, fmt.Errorf("reading URLs file: %w", err)
		}
	}

	if opts.CIDRTargets != "" {
		scheme := "https"
		if opts.URL != "" && strings.HasPrefix(opts.URL, "http://") {
			scheme = "http"
		}
		cidrURLs, err := netutil.ExpandTargets(opts.CIDRTargets, opts.Ports, scheme)
		if err != nil {
			return nil, fmt.Errorf("expanding CIDR: %w", err)
		}
		targets = append(targets, cidrURLs...)
	}

	if len(targets) == 0 {
		return nil, fmt.Errorf("no targets specified (-u, -l, or --cidr)")
	}
	return targets, nil
}

// resumeSaver holds the resume state of the target currently being fuzzed
// so the interrupt handler always persists the right one.
type resumeSaver struct {
	mu    sync.Mutex
	state *resume.State
	path  string
}

func (s *resumeSaver) set(st *resume.State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

func (s *resumeSaver) save() {
	s.mu.Lock()
	st := s.state
	s.mu.Unlock()
	if st != nil {
		_ = st.Save()
		fmt.Fprintf(os.Stderr, "\n[*] Progress saved to %s — resume with --resume-file\n", s.path)
	}
}

func runSingleTarget(ctx context.Context, opts *config.Options, pauser *scanner.Pauser, saver *resumeSaver) error {
	// 1. Load wordlist.
	words, err := wordlist.Load(opts.WordlistPath)
	if err != nil {
		return fmt.Errorf("loading wordlist: %w", err)
	}

	// 2. Parse the fuzz template.
	tpl, err := fuzz.Parse(opts.FuzzTemplate)
	if err != nil {
		return fmt.Errorf("parsing fuzz template: %w", err)
	}

	// 3. Create HTTP requester.
	req, err := scanner.NewRequester(opts)
	if err != nil {
		return fmt.Errorf("creating requester: %w", err)
	}

	// 4. Build filter chain.
	chain := filter.NewChain()
	chain.Add(filter.NewIgnoreFilter(opts.IgnoreCodes))

	// 5. Resume support.
	var resumeState *resume.State
	if opts.ResumeFile != "" {
		existing, err := resume.Load(opts.ResumeFile)
		if err != nil {
			return fmt.Errorf("loading resume file: %w", err)
		}
		if existing != nil && existing.Matches(opts.URL, opts.Header) {
			resumeState = existing
			before := len(words)
			words = resumeState.FilterRemaining(words)
			if !opts.Quiet {
				fmt.Fprintf(os.Stderr, "[+] Resuming: skipping %d already completed words\n", before-len(words))
			}
		} else {
			resumeState = resume.New(opts.ResumeFile, opts.URL, opts.Header, len(words))
		}
		saver.set(resumeState)
	}

	if len(words) == 0 {
		if !opts.Quiet {
			if resumeState != nil {
				fmt.Fprintf(os.Stderr, "[+] All words already completed\n")
			} else {
				fmt.Fprintf(os.Stderr, "[!] Wordlist is empty\n")
			}
		}
		return nil
	}

	// 6. Create output writer.
	out, err := createWriter(opts)
	if err != nil {
		return fmt.Errorf("creating output writer: %w", err)
	}
	defer out.Close()

	if err := out.WriteHeader(); err != nil {
		return err
	}

	// 7. Print banner.
	if !opts.Quiet {
		printBanner(opts, tpl, len(words))
	}

	// 8. Create throttler and hook runner.
	throttler := scanner.NewThrottler(opts.Delay, opts.Rate, opts.AdaptiveThrottle, opts.Quiet)

	var hookRunner *hook.Runner
	if opts.OnResultCmd != "" {
		hookRunner = hook.NewRunner(opts.OnResultCmd, opts.Quiet)
	}

	workerCfg := scanner.WorkerConfig{
		Threads:   opts.Threads,
		Template:  tpl,
		Header:    opts.Header,
		Throttler: throttler,
		Pauser:    pauser,
	}

	// 9. Build work items and run the request loop.
	items := make([]scanner.WorkItem, len(words))
	for i, w := range words {
		items[i] = scanner.WorkItem{Word: w}
	}

	progress := output.NewProgress(len(items), opts.Quiet)
	startTime := time.Now()

	results := scanner.RunWorkerPool(ctx, req, items, workerCfg)

	var stats output.Stats
	stats.TotalRequests = len(items)

	for result := range results {
		progress.Increment()

		if resumeState != nil {
			resumeState.MarkCompleted(result.Word)
		}

		if result.Error != nil {
			// The request produced no status code; the run continues.
			stats.ErrorCount++
			progress.IncrementErrors()
			continue
		}

		suppressed, _ := chain.Apply(&result)
		if suppressed {
			result.Ignored = true
			stats.SuppressedCount++
			progress.IncrementSuppressed()
			continue
		}

		progress.ClearLine()
		if err := out.WriteResult(&result); err != nil {
			progress.Redraw()
			return err
		}
		progress.Redraw()

		if hookRunner != nil {
			hookRunner.Run(&result)
		}
	}

	progress.Finish()

	// 10. Write footer.
	stats.Duration = time.Since(startTime)
	if stats.Duration.Seconds() > 0 {
		stats.RequestsPerSec = float64(stats.TotalRequests) / stats.Duration.Seconds()
	}

	// Clean up resume file on successful completion.
	if resumeState != nil && ctx.Err() == nil {
		_ = resumeState.Remove()
		saver.set(nil)
	}

	return out.WriteFooter(stats)
}

func createWriter(opts *config.Options) (output.Writer, error) {
	var (
		w   output.Writer
		err error
	)
	switch opts.OutputFormat {
	case "json":
		w, err = output.NewJSONWriter(opts.OutputFile)
	case "csv":
		w, err = output.NewCSVWriter(opts.OutputFile)
	default:
		w, err = output.NewTextWriter(opts.OutputFile, opts.NoColor, opts.Quiet)
	}
	if err != nil {
		return nil, err
	}
	if opts.SortBy != "" {
		w = output.NewSortedWriter(w, opts.SortBy)
	}
	return w, nil
}

func printBanner(opts *config.Options, tpl *fuzz.Template, wordCount int) {
	const (
		cyan   = "\033[36m"
		white  = "\033[97m"
		dim    = "\033[2m"
		yellow = "\033[33m"
		reset  = "\033[0m"
	)

	c, w, d, y, rs := cyan, white, dim, yellow, reset
	if opts.NoColor {
		c, w, d, y, rs = "", "", "", "", ""
	}

	fmt.Fprintf(os.Stderr, `
%s    __                   __ ____              %s
%s   / /_  ___  ____ _____/ // __/_  __________ %s
%s  / __ \/ _ \/ __ '/ __  // /_/ / / /_  /_  / %s
%s / / / /  __/ /_/ / /_/ // __/ /_/ / / /_/ /_ %s
%s/_/ /_/\___/\__,_/\__,_//_/  \__,_/ /___/___/ %s %sv%s%s
%s                                              %s
%s    HTTP Header Fuzzer                        %s
`,
		c, rs,
		c, rs,
		c, rs,
		c, rs,
		c, rs, d, version.Version, rs,
		c, rs,
		w, rs,
	)

	codes := make([]string, len(opts.IgnoreCodes))
	for i, code := range opts.IgnoreCodes {
		codes[i] = strconv.Itoa(code)
	}

	fmt.Fprintf(os.Stderr, "%s  ──────────────────────────────────────%s\n", d, rs)
	fmt.Fprintf(os.Stderr, "  %sTarget:%s    %s%s%s\n", d, rs, w, opts.URL, rs)
	fmt.Fprintf(os.Stderr, "  %sHeader:%s    %s%s%s\n", d, rs, w, opts.Header, rs)
	fmt.Fprintf(os.Stderr, "  %sTemplate:%s  %s%s%s\n", d, rs, w, tpl.String(), rs)
	fmt.Fprintf(os.Stderr, "  %sIgnoring:%s  %s%s%s\n", d, rs, y, strings.Join(codes, ", "), rs)
	fmt.Fprintf(os.Stderr, "  %sWordlist:%s  %s%d words%s\n", d, rs, w, wordCount, rs)
	fmt.Fprintf(os.Stderr, "  %sThreads:%s   %s%d%s\n", d, rs, y, opts.Threads, rs)
	if opts.Proxy != "" {
		fmt.Fprintf(os.Stderr, "  %sProxy:%s     %s%s%s\n", d, rs, w, opts.Proxy, rs)
	}
	fmt.Fprintf(os.Stderr, "%s  ──────────────────────────────────────%s\n\n", d, rs)
}
