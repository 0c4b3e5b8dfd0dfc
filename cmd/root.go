// Package cmd wires the headfuzz command line.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/maxvaer/headfuzz/internal/config"
	"github.com/maxvaer/headfuzz/internal/fuzz"
	"github.com/maxvaer/headfuzz/internal/reqparse"
	"github.com/maxvaer/headfuzz/internal/runner"
	"github.com/maxvaer/headfuzz/internal/updater"
	"github.com/maxvaer/headfuzz/pkg/version"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	opts       config.Options
	updateFlag bool
)

type flagGroup struct {
	title string
	flags []string
}

var helpGroups = []flagGroup{
	{"TARGET", []string{"url", "urls-file", "request-file", "wordlist", "cidr", "ports"}},
	{"FUZZING", []string{"header", "fuzz", "ignore", "method"}},
	{"RATE-LIMIT", []string{"threads", "timeout", "delay", "rate", "adaptive-throttle"}},
	{"HTTP", []string{"static-header", "user-agent", "proxy", "follow-redirects"}},
	{"OUTPUT", []string{"output", "format", "sort", "quiet", "no-color", "on-result"}},
	{"CONFIGURATION", []string{"resume-file"}},
	{"UPDATE", []string{"update"}},
}

var rootCmd = &cobra.Command{
	Use:     "headfuzz -u <url> -w <wordlist> [flags]",
	Short:   "HTTP header fuzzer",
	Version: version.Version,
	Long: `headfuzz fuzzes a single HTTP header: each wordlist entry is substituted
into a %FUZZ% template to form the header value, one request is sent per
entry, and every response whose status code is not in the ignore set is
reported. TLS certificate validation is disabled.`,
	Example: `  headfuzz -u https://example.com -w hosts.txt
  headfuzz -u https://example.com -w hosts.txt -H Host -f "%FUZZ%.example.com"
  headfuzz -u https://example.com -w payloads.txt -H X-Forwarded-For -i 403,404
  headfuzz -u https://example.com -w hosts.txt -p http://127.0.0.1:8080
  headfuzz -l urls.txt -w hosts.txt -t 10 --format json -o results.json
  headfuzz --cidr 192.168.1.0/24 --ports 80,443 -w hosts.txt
  headfuzz -u https://example.com -w hosts.txt --on-result "notify-send {value}"`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Self-update mode: skip all validation.
		if updateFlag {
			return nil
		}
		// Static headers first so request-file headers merge under them.
		if err := parseStaticHeaders(cmd); err != nil {
			return err
		}
		// Parse raw HTTP request file (e.g. Burp export) if provided.
		if opts.RequestFile != "" {
			parsed, err := reqparse.ParseFile(opts.RequestFile)
			if err != nil {
				return fmt.Errorf("parsing request file: %w", err)
			}
			// Use parsed URL if -u was not explicitly set.
			if !cmd.Flags().Changed("url") {
				opts.URL = parsed.URL
			}
			// Merge parsed headers (explicit --static-header flags win).
			if opts.Headers == nil {
				opts.Headers = make(map[string]string)
			}
			for key, val := range parsed.Headers {
				k := strings.ToLower(key)
				// Hop-by-hop and encoding headers make no sense to replay,
				// and the fuzzed header is set per request.
				if k == "host" || k == "content-length" || k == "accept-encoding" ||
					strings.EqualFold(key, opts.Header) {
					continue
				}
				if _, exists := opts.Headers[key]; !exists {
					opts.Headers[key] = val
				}
			}
			if !cmd.Flags().Changed("user-agent") {
				if ua, ok := parsed.Headers["User-Agent"]; ok {
					opts.UserAgent = ua
				}
			}
			if !opts.Quiet {
				fmt.Fprintf(os.Stderr, "[+] Loaded request from %s -> %s\n", opts.RequestFile, opts.URL)
			}
		}
		if opts.URL == "" && opts.URLsFile == "" && opts.CIDRTargets == "" {
			_ = cmd.Help()
			fmt.Fprintln(os.Stderr)
			return fmt.Errorf("target required: use -u, -l, --cidr, or --request-file")
		}
		if opts.URL != "" && !strings.HasPrefix(opts.URL, "http://") && !strings.HasPrefix(opts.URL, "https://") {
			opts.URL = "http://" + opts.URL
		}
		if opts.WordlistPath == "" {
			return fmt.Errorf("wordlist required: use -w")
		}
		if err := config.ValidateWordlist(opts.WordlistPath); err != nil {
			return err
		}
		if _, err := fuzz.Parse(opts.FuzzTemplate); err != nil {
			return err
		}
		if opts.Proxy != "" {
			if err := config.ValidateProxy(opts.Proxy); err != nil {
				return err
			}
		}
		if opts.SortBy != "" && opts.SortBy != "status" && opts.SortBy != "word" {
			return fmt.Errorf("--sort must be one of: status, word")
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if updateFlag {
			return updater.Update()
		}
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()
		return runner.Run(ctx, &opts)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	f := rootCmd.Flags()

	// Target
	f.StringVarP(&opts.URL, "url", "u", "", "Target URL")
	f.StringVarP(&opts.URLsFile, "urls-file", "l", "", "File with one target URL per line")
	f.StringVarP(&opts.WordlistPath, "wordlist", "w", "", "Wordlist file path")
	f.StringVar(&opts.CIDRTargets, "cidr", "", "CIDR range to fuzz (e.g. 192.168.1.0/24)")
	f.StringVar(&opts.Ports, "ports", "", "Ports for CIDR targets (comma-separated, e.g. 80,443)")

	// Fuzzing
	f.StringVarP(&opts.Header, "header", "H", config.DefaultHeader, "Header to fuzz")
	f.StringVarP(&opts.FuzzTemplate, "fuzz", "f", config.DefaultTemplate, "Header value template containing one %FUZZ% marker")
	opts.IgnoreCodes, _ = config.ParseIgnoreCodes(config.DefaultIgnoreCodes)
	f.VarP(&codesValue{target: &opts.IgnoreCodes}, "ignore", "i", "Status codes to suppress (comma-separated, three digits each)")
	f.StringVar(&opts.Method, "method", "HEAD", "HTTP method")

	// Performance
	f.IntVarP(&opts.Threads, "threads", "t", 1, "Number of concurrent threads (1 = strictly sequential)")
	f.DurationVar(&opts.Timeout, "timeout", 10*time.Second, "HTTP request timeout")
	f.DurationVar(&opts.Delay, "delay", 0, "Delay between requests per thread")
	f.Float64Var(&opts.Rate, "rate", 0, "Max requests per second (0 = unlimited)")
	f.BoolVar(&opts.AdaptiveThrottle, "adaptive-throttle", false, "Auto back-off on 429/rate limits")

	// HTTP
	f.StringVarP(&opts.RequestFile, "request-file", "r", "", "Raw HTTP request file (e.g. Burp Suite export)")
	f.StringSliceVar(new([]string), "static-header", nil, "Additional static headers (Key: Value)")
	f.StringVar(&opts.UserAgent, "user-agent", "", "Custom User-Agent string")
	f.StringVarP(&opts.Proxy, "proxy", "p", "", "Proxy URL (http(s)://host[:port])")
	f.BoolVar(&opts.FollowRedirects, "follow-redirects", false, "Follow HTTP redirects")

	// Output
	f.StringVarP(&opts.OutputFile, "output", "o", "", "Output file path")
	f.StringVar(&opts.OutputFormat, "format", "text", "Output format: text, json, csv")
	f.StringVar(&opts.SortBy, "sort", "", "Sort results: status, word (buffers until run completes)")
	f.BoolVarP(&opts.Quiet, "quiet", "q", false, "Minimal output")
	f.BoolVar(&opts.NoColor, "no-color", false, "Disable colored output")

	// Hooks
	f.StringVar(&opts.OnResultCmd, "on-result", "", "Shell command to run for each result (receives JSON on stdin)")

	// Resume
	f.StringVar(&opts.ResumeFile, "resume-file", "", "File to save/load run progress for resume")

	// Update
	f.BoolVar(&updateFlag, "update", false, "Update headfuzz to the latest version")

	// Custom help: categorized flags like httpx.
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		w := os.Stderr
		fmt.Fprint(w, helpBanner(cmd.Version))
		fmt.Fprintf(w, "%s\n\nUsage:\n  %s\n", cmd.Long, cmd.UseLine())
		fmt.Fprintf(w, "\nExamples:\n%s\n", cmd.Example)
		fmt.Fprintf(w, "\nFlags:\n")
		for _, g := range helpGroups {
			fmt.Fprintf(w, "\n%s:\n", g.title)
			for _, name := range g.flags {
				if f := cmd.Flags().Lookup(name); f != nil {
					fmt.Fprintln(w, formatFlag(f))
				}
			}
		}
		fmt.Fprintln(w)
	})
}

// parseStaticHeaders fills opts.Headers from the --static-header flags.
func parseStaticHeaders(cmd *cobra.Command) error {
	headers, _ := cmd.Flags().GetStringSlice("static-header")
	if len(headers) == 0 {
		return nil
	}
	opts.Headers = make(map[string]string, len(headers))
	for _, h := range headers {
		parts := strings.SplitN(h, ":", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid header format %q, expected 'Key: Value'", h)
		}
		opts.Headers[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
	}
	return nil
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// codesValue implements pflag.Value for comma-separated status code lists.
// Setting it replaces the default rather than appending.
type codesValue struct {
	target *[]int
}

func (v *codesValue) String() string {
	if v.target == nil || len(*v.target) == 0 {
		return ""
	}
	parts := make([]string, len(*v.target))
	for i, val := range *v.target {
		parts[i] = strconv.Itoa(val)
	}
	return strings.Join(parts, ",")
}

func (v *codesValue) Set(s string) error {
	codes, err := config.ParseIgnoreCodes(s)
	if err != nil {
		return err
	}
	*v.target = codes
	return nil
}

func (v *codesValue) Type() string { return "codes" }

func formatFlag(f *pflag.Flag) string {
	var left string
	if f.Shorthand != "" {
		left = fmt.Sprintf("-%s, --%s", f.Shorthand, f.Name)
	} else {
		left = fmt.Sprintf("    --%s", f.Name)
	}

	typ := f.Value.Type()
	if typ != "bool" {
		left += " " + typ
	}

	// Pad to fixed column width for aligned descriptions.
	const col = 36
	for len(left) < col {
		left += " "
	}

	right := f.Usage
	// Show default for non-zero values.
	def := f.DefValue
	if def != "" && def != "false" && def != "0" && def != "0s" && def != "[]" {
		right += fmt.Sprintf(" (default %s)", def)
	}

	return "   " + left + right
}

func helpBanner(ver string) string {
	if ver != "dev" && ver != "" && !strings.HasPrefix(ver, "v") {
		ver = "v" + ver
	}
	return fmt.Sprintf(`
    __                   __ ____
   / /_  ___  ____ _____/ // __/_  __________
  / __ \/ _ \/ __ '/ __  // /_/ / / /_  /_  /
 / / / /  __/ /_/ / /_/ // __/ /_/ / / /_/ /_
/_/ /_/\___/\__,_/\__,_//_/  \__,_/ /___/___/   %s

`, ver)
}
