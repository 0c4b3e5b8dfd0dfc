// Package wordlist loads newline-delimited substitution candidates.
package wordlist

import (
	"fmt"
	"os"
	"strings"
)

// Load reads a wordlist file and returns its lines. Lines are substitution
// values and are kept verbatim: no trimming, no comment handling, no
// deduplication. A trailing final newline does not produce an extra empty
// entry.
func Load(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading wordlist %s: %w", path, err)
	}

	raw := strings.TrimSuffix(string(data), "\r\n")
	raw = strings.TrimSuffix(raw, "\n")
	if raw == "" {
		return nil, nil
	}

	lines := strings.Split(raw, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines, nil
}
