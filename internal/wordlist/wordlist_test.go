package wordlist

import (
	"os"
	"path/filepath"
	"testing"
)

func write(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wordlist.txt")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	words, err := Load(write(t, "admin\nstaging\ndev\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := []string{"admin", "staging", "dev"}
	if len(words) != len(want) {
		t.Fatalf("expected %d words, got %d: %v", len(want), len(words), words)
	}
	for i := range want {
		if words[i] != want[i] {
			t.Errorf("words[%d] = %q, want %q", i, words[i], want[i])
		}
	}
}

func TestLoadKeepsLinesVerbatim(t *testing.T) {
	// Entries are substitution values: whitespace, comments and duplicates
	// all pass through untouched.
	words, err := Load(write(t, "  padded  \n#not-a-comment\ndup\ndup\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := []string{"  padded  ", "#not-a-comment", "dup", "dup"}
	if len(words) != len(want) {
		t.Fatalf("expected %d words, got %d: %v", len(want), len(words), words)
	}
	for i := range want {
		if words[i] != want[i] {
			t.Errorf("words[%d] = %q, want %q", i, words[i], want[i])
		}
	}
}

func TestLoadNoTrailingNewline(t *testing.T) {
	words, err := Load(write(t, "one\ntwo"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(words) != 2 {
		t.Fatalf("expected 2 words, got %d: %v", len(words), words)
	}
}

func TestLoadCRLF(t *testing.T) {
	words, err := Load(write(t, "one\r\ntwo\r\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(words) != 2 || words[0] != "one" || words[1] != "two" {
		t.Errorf("expected [one two], got %v", words)
	}
}

func TestLoadEmptyFile(t *testing.T) {
	words, err := Load(write(t, ""))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(words) != 0 {
		t.Errorf("expected no words, got %v", words)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}
