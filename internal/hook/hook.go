// Package hook runs a user-supplied shell command for each reported result.
package hook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/maxvaer/headfuzz/internal/scanner"
)

// resultJSON is the JSON payload sent to the hook command via stdin.
type resultJSON struct {
	URL    string `json:"url"`
	Header string `json:"header"`
	Value  string `json:"value"`
	Word   string `json:"word"`
	Status int    `json:"status"`
}

// Runner executes a shell command for each non-suppressed result.
type Runner struct {
	cmd   string
	quiet bool
}

// NewRunner creates a hook runner. cmd is the shell command to execute.
func NewRunner(cmd string, quiet bool) *Runner {
	return &Runner{cmd: cmd, quiet: quiet}
}

// Run executes the hook command with the result as JSON on stdin.
// The command runs with a 30-second timeout. Errors are logged but
// do not halt the run.
func (r *Runner) Run(result *scanner.Result) {
	payload := resultJSON{
		URL:    result.URL,
		Header: result.HeaderName,
		Value:  result.HeaderValue,
		Word:   result.Word,
		Status: result.StatusCode,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[hook] marshal error: %v\n", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	shell, args := shellCommand()
	// Replace {url}, {word}, {value}, {header}, {status} placeholders.
	expanded := r.cmd
	expanded = strings.ReplaceAll(expanded, "{url}", result.URL)
	expanded = strings.ReplaceAll(expanded, "{word}", result.Word)
	expanded = strings.ReplaceAll(expanded, "{value}", result.HeaderValue)
	expanded = strings.ReplaceAll(expanded, "{header}", result.HeaderName)
	expanded = strings.ReplaceAll(expanded, "{status}", fmt.Sprintf("%d", result.StatusCode))

	cmd := exec.CommandContext(ctx, shell, append(args, expanded)...)
	cmd.Stdin = bytes.NewReader(data)
	cmd.Stderr = os.Stderr

	output, err := cmd.Output()
	if err != nil {
		if !r.quiet {
			fmt.Fprintf(os.Stderr, "[hook] error: %v\n", err)
		}
		return
	}

	if len(output) > 0 && !r.quiet {
		fmt.Fprintf(os.Stderr, "[hook] %s", output)
	}
}

func shellCommand() (string, []string) {
	if runtime.GOOS == "windows" {
		return "cmd", []string{"/C"}
	}
	return "sh", []string{"-c"}
}
