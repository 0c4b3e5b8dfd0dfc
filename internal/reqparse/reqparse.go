// Package reqparse extracts a target URL and base headers from a raw HTTP
// request file, such as a Burp Suite export.
package reqparse

import (
	"bufio"
	"fmt"
	"net/url"
	"os"
	"strings"
)

// ParsedRequest holds the extracted data from a raw HTTP request file.
type ParsedRequest struct {
	Method  string
	URL     string // full URL reconstructed from Host + request line
	Headers map[string]string
}

// ParseFile reads a raw HTTP request and extracts the target URL and all
// headers including cookies. The request path is kept: headfuzz sends every
// request to the same URL.
func ParseFile(path string) (*ParsedRequest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening request file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024) // 1MB lines for large cookies

	// Parse request line: GET /path HTTP/1.1
	if !scanner.Scan() {
		return nil, fmt.Errorf("request file is empty")
	}
	requestLine := strings.TrimSpace(scanner.Text())
	parts := strings.SplitN(requestLine, " ", 3)
	if len(parts) < 2 {
		return nil, fmt.Errorf("invalid request line: %q", requestLine)
	}
	method := parts[0]
	requestPath := parts[1]

	// Parse headers until blank line.
	headers := make(map[string]string)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			break // end of headers
		}
		colonIdx := strings.Index(line, ":")
		if colonIdx < 0 {
			continue
		}
		key := strings.TrimSpace(line[:colonIdx])
		value := strings.TrimSpace(line[colonIdx+1:])
		headers[key] = value
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading request file: %w", err)
	}

	// Some proxies put a full URL in the request line; use it directly.
	if strings.HasPrefix(requestPath, "http://") || strings.HasPrefix(requestPath, "https://") {
		if _, err := url.Parse(requestPath); err != nil {
			return nil, fmt.Errorf("invalid URL in request line: %w", err)
		}
		return &ParsedRequest{
			Method:  method,
			URL:     requestPath,
			Headers: headers,
		}, nil
	}

	host, ok := headers["Host"]
	if !ok {
		return nil, fmt.Errorf("request file missing Host header")
	}

	// Determine scheme. HTTP/2 in Burp exports usually means HTTPS; for
	// HTTP/1 default to https unless port 80 is explicit.
	scheme := "https"
	if len(parts) >= 3 && strings.HasPrefix(strings.ToUpper(parts[2]), "HTTP/1") {
		if strings.HasSuffix(host, ":80") {
			scheme = "http"
		}
	}

	return &ParsedRequest{
		Method:  method,
		URL:     scheme + "://" + host + requestPath,
		Headers: headers,
	}, nil
}
