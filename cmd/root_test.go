package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/maxvaer/headfuzz/internal/config"
)

func TestRequestFileHeadersMergeUnderStaticHeaders(t *testing.T) {
	dir := t.TempDir()

	reqFile := filepath.Join(dir, "request.txt")
	raw := "GET /api HTTP/1.1\r\n" +
		"Host: example.com\r\n" +
		"X-Api-Key: secret\r\n" +
		"Cookie: session=abc\r\n" +
		"X-Extra: fromfile\r\n" +
		"\r\n"
	if err := os.WriteFile(reqFile, []byte(raw), 0644); err != nil {
		t.Fatal(err)
	}

	wl := filepath.Join(dir, "wordlist.txt")
	if err := os.WriteFile(wl, []byte("one\n"), 0644); err != nil {
		t.Fatal(err)
	}

	opts = config.Options{
		RequestFile:  reqFile,
		WordlistPath: wl,
		Header:       config.DefaultHeader,
		FuzzTemplate: config.DefaultTemplate,
		Quiet:        true,
	}
	if err := rootCmd.Flags().Set("static-header", "X-Extra: 1"); err != nil {
		t.Fatal(err)
	}

	if err := rootCmd.PreRunE(rootCmd, nil); err != nil {
		t.Fatalf("PreRunE: %v", err)
	}

	want := map[string]string{
		"X-Api-Key": "secret",
		"Cookie":    "session=abc",
		"X-Extra":   "1", // flag wins over the request file
	}
	for key, val := range want {
		if got := opts.Headers[key]; got != val {
			t.Errorf("header %s = %q, want %q (headers: %v)", key, got, val, opts.Headers)
		}
	}
	if _, ok := opts.Headers["Host"]; ok {
		t.Error("Host must not be carried as a static header")
	}
}
