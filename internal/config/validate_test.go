package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseIgnoreCodes(t *testing.T) {
	tests := []struct {
		in      string
		want    []int
		wantErr bool
	}{
		{"403", []int{403}, false},
		{"403,404,500", []int{403, 404, 500}, false},
		{" 200 , 301 ", []int{200, 301}, false},
		{"40", nil, true},
		{"4000", nil, true},
		{"40x", nil, true},
		{"abc", nil, true},
		{"200,,404", nil, true},
		{"", nil, true},
	}

	for _, tt := range tests {
		got, err := ParseIgnoreCodes(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseIgnoreCodes(%q): expected error, got %v", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseIgnoreCodes(%q): %v", tt.in, err)
			continue
		}
		if len(got) != len(tt.want) {
			t.Errorf("ParseIgnoreCodes(%q) = %v, want %v", tt.in, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("ParseIgnoreCodes(%q) = %v, want %v", tt.in, got, tt.want)
				break
			}
		}
	}
}

func TestValidateProxy(t *testing.T) {
	valid := []string{
		"http://127.0.0.1:8080",
		"https://proxy.example.com",
		"http://proxy.example.com:3128",
	}
	for _, p := range valid {
		if err := ValidateProxy(p); err != nil {
			t.Errorf("ValidateProxy(%q): unexpected error: %v", p, err)
		}
	}

	invalid := []string{
		"proxy.example.com:8080",
		"socks5://127.0.0.1:1080",
		"http://",
		"http://host:port",
		"",
	}
	for _, p := range invalid {
		if err := ValidateProxy(p); err == nil {
			t.Errorf("ValidateProxy(%q): expected error", p)
		}
	}
}

func TestValidateWordlist(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "words.txt")
	if err := os.WriteFile(path, []byte("admin\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := ValidateWordlist(path); err != nil {
		t.Errorf("existing file: unexpected error: %v", err)
	}
	if err := ValidateWordlist(filepath.Join(dir, "missing.txt")); err == nil {
		t.Error("missing file: expected error")
	}
	if err := ValidateWordlist(dir); err == nil {
		t.Error("directory: expected error")
	}
}

func TestDefaultIgnoreCodesParses(t *testing.T) {
	codes, err := ParseIgnoreCodes(DefaultIgnoreCodes)
	if err != nil {
		t.Fatalf("default ignore codes: %v", err)
	}
	if len(codes) != 1 || codes[0] != 403 {
		t.Errorf("got %v, want [403]", codes)
	}
}
