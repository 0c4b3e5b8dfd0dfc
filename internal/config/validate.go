package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
)

var (
	codeRe  = regexp.MustCompile(`^[0-9]{3}$`)
	proxyRe = regexp.MustCompile(`^https?://[^\s/:]+(:[0-9]+)?/?$`)
)

// ParseIgnoreCodes validates a comma-separated status code list and returns
// the parsed codes. Every token, after stripping surrounding whitespace,
// must be exactly three digits.
func ParseIgnoreCodes(s string) ([]int, error) {
	var codes []int
	for _, tok := range strings.Split(s, ",") {
		tok = strings.TrimSpace(tok)
		if !codeRe.MatchString(tok) {
			return nil, fmt.Errorf("invalid status code %q: must be exactly three digits", tok)
		}
		n, err := strconv.Atoi(tok)
		if err != nil {
			return nil, fmt.Errorf("invalid status code %q: %w", tok, err)
		}
		codes = append(codes, n)
	}
	return codes, nil
}

// ValidateProxy checks that a proxy URL has the http(s)://host[:port] shape.
func ValidateProxy(proxy string) error {
	if !proxyRe.MatchString(proxy) {
		return fmt.Errorf("invalid proxy %q: expected http(s)://host[:port]", proxy)
	}
	return nil
}

// ValidateWordlist checks that the wordlist path names an existing regular file.
func ValidateWordlist(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("wordlist %q does not exist", path)
		}
		return fmt.Errorf("wordlist %q: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("wordlist %q is not a regular file", path)
	}
	return nil
}
