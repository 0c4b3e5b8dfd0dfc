package runner

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/maxvaer/headfuzz/internal/config"
	"github.com/maxvaer/headfuzz/internal/resume"
)

func writeWordlist(t *testing.T, words []string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wordlist.txt")
	if err := os.WriteFile(path, []byte(strings.Join(words, "\n")+"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func testOpts(t *testing.T, serverURL, wordlistPath string) *config.Options {
	t.Helper()
	return &config.Options{
		URL:          serverURL,
		WordlistPath: wordlistPath,
		Header:       "X-Fuzz",
		FuzzTemplate: "%FUZZ%",
		IgnoreCodes:  []int{403},
		Method:       "HEAD",
		Threads:      1,
		Timeout:      5 * time.Second,
		Quiet:        true,
		NoColor:      true,
		OutputFile:   filepath.Join(t.TempDir(), "output.txt"),
		OutputFormat: "text",
	}
}

func readOutput(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestBasicRun(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Header.Get("X-Fuzz") {
		case "admin", "staging":
			w.WriteHeader(200)
		default:
			w.WriteHeader(403)
		}
	}))
	defer srv.Close()

	wordlist := writeWordlist(t, []string{"admin", "staging", "nothing"})
	opts := testOpts(t, srv.URL, wordlist)

	if err := Run(context.Background(), opts); err != nil {
		t.Fatal(err)
	}

	out := readOutput(t, opts.OutputFile)
	if !strings.Contains(out, "X-Fuzz: admin") {
		t.Errorf("expected admin result in output, got:\n%s", out)
	}
	if !strings.Contains(out, "X-Fuzz: staging") {
		t.Errorf("expected staging result in output, got:\n%s", out)
	}
	if strings.Contains(out, "nothing") {
		t.Error("403 response should be suppressed")
	}
}

func TestAllIgnoredEmitsNothing(t *testing.T) {
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.WriteHeader(403)
	}))
	defer srv.Close()

	words := []string{"one", "two", "three", "four", "five"}
	opts := testOpts(t, srv.URL, writeWordlist(t, words))

	if err := Run(context.Background(), opts); err != nil {
		t.Fatal(err)
	}

	if got := int(requests.Load()); got != len(words) {
		t.Errorf("expected %d requests, got %d", len(words), got)
	}
	out := readOutput(t, opts.OutputFile)
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if strings.Contains(line, "403") {
			t.Errorf("unexpected result line: %q", line)
		}
	}
}

func TestSingleResultCarriesSubstitutedValue(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(500)
	}))
	defer srv.Close()

	opts := testOpts(t, srv.URL, writeWordlist(t, []string{"abc"}))
	opts.FuzzTemplate = "pre-%FUZZ%-suf"

	if err := Run(context.Background(), opts); err != nil {
		t.Fatal(err)
	}

	out := readOutput(t, opts.OutputFile)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	var resultLines []string
	for _, l := range lines {
		if strings.Contains(l, "500") {
			resultLines = append(resultLines, l)
		}
	}
	if len(resultLines) != 1 {
		t.Fatalf("expected exactly one result line, got %d:\n%s", len(resultLines), out)
	}
	if !strings.Contains(resultLines[0], "X-Fuzz: pre-abc-suf") {
		t.Errorf("result line missing substituted value: %q", resultLines[0])
	}
	if !strings.Contains(resultLines[0], srv.URL) {
		t.Errorf("result line missing target URL: %q", resultLines[0])
	}
}

func TestHostHeaderFuzzing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Host == "admin.example.com" {
			w.WriteHeader(200)
			return
		}
		w.WriteHeader(403)
	}))
	defer srv.Close()

	opts := testOpts(t, srv.URL, writeWordlist(t, []string{"admin", "dev"}))
	opts.Header = "Host"
	opts.FuzzTemplate = "%FUZZ%.example.com"

	if err := Run(context.Background(), opts); err != nil {
		t.Fatal(err)
	}

	out := readOutput(t, opts.OutputFile)
	if !strings.Contains(out, "Host: admin.example.com") {
		t.Errorf("expected vhost hit in output, got:\n%s", out)
	}
	if strings.Contains(out, "dev.example.com") {
		t.Error("suppressed vhost should not be reported")
	}
}

func TestRequestErrorsDoNotAbort(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // all requests fail

	opts := testOpts(t, srv.URL, writeWordlist(t, []string{"one", "two", "three"}))

	// The run completes despite every request failing.
	if err := Run(context.Background(), opts); err != nil {
		t.Fatal(err)
	}
}

func TestRunJSONFormat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(200)
	}))
	defer srv.Close()

	opts := testOpts(t, srv.URL, writeWordlist(t, []string{"payload"}))
	opts.OutputFormat = "json"

	if err := Run(context.Background(), opts); err != nil {
		t.Fatal(err)
	}

	out := readOutput(t, opts.OutputFile)
	if !strings.Contains(out, `"word": "payload"`) {
		t.Errorf("expected JSON entry for payload, got:\n%s", out)
	}
	if !strings.Contains(out, `"status": 200`) {
		t.Errorf("expected status field, got:\n%s", out)
	}
}

func TestRunMultipleTargets(t *testing.T) {
	var hitsA, hitsB atomic.Int32
	srvA := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hitsA.Add(1)
		w.WriteHeader(403)
	}))
	defer srvA.Close()
	srvB := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hitsB.Add(1)
		w.WriteHeader(403)
	}))
	defer srvB.Close()

	urlsFile := filepath.Join(t.TempDir(), "urls.txt")
	if err := os.WriteFile(urlsFile, []byte(srvA.URL+"\n"+srvB.URL+"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	opts := testOpts(t, "", writeWordlist(t, []string{"a", "b"}))
	opts.URLsFile = urlsFile

	if err := Run(context.Background(), opts); err != nil {
		t.Fatal(err)
	}

	if hitsA.Load() != 2 || hitsB.Load() != 2 {
		t.Errorf("expected 2 hits per target, got %d and %d", hitsA.Load(), hitsB.Load())
	}
}

func TestResumeSkipsCompletedWords(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(403)
	}))
	defer srv.Close()

	opts := testOpts(t, srv.URL, writeWordlist(t, []string{"one", "two", "three"}))
	opts.ResumeFile = filepath.Join(t.TempDir(), "resume.json")

	// First pass completes everything; the state file is removed afterwards.
	if err := Run(context.Background(), opts); err != nil {
		t.Fatal(err)
	}
	if got := hits.Load(); got != 3 {
		t.Fatalf("expected 3 requests, got %d", got)
	}
	if _, err := os.Stat(opts.ResumeFile); !os.IsNotExist(err) {
		t.Error("resume file should be removed after a completed run")
	}
}

func TestResumeSaverPersistsCurrentTarget(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume.json")
	saver := &resumeSaver{path: path}

	first := resume.New(path, "http://a.example", "Host", 2)
	first.MarkCompleted("one")
	saver.set(first)

	// Moving to the next target must supersede the earlier state.
	second := resume.New(path, "http://b.example", "Host", 2)
	second.MarkCompleted("two")
	saver.set(second)

	saver.save()

	st, err := resume.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if st == nil {
		t.Fatal("no state saved")
	}
	if st.URL != "http://b.example" {
		t.Errorf("saved state for %q, want the current target", st.URL)
	}

	// After the state is cleared an interrupt must not recreate the file.
	saver.set(nil)
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	saver.save()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("save after clear recreated the resume file")
	}
}
