// Package resume persists run progress so an interrupted fuzzing pass can
// be restarted without repeating completed words.
package resume

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// State tracks which wordlist entries have already been sent for a target.
type State struct {
	URL            string   `json:"url"`
	Header         string   `json:"header"`
	CompletedWords []string `json:"completed_words"`
	TotalWords     int      `json:"total_words"`

	mu   sync.Mutex
	path string
	done map[string]struct{}
}

// New creates a new empty resume state that will be saved to the given path.
func New(path, url, header string, totalWords int) *State {
	return &State{
		URL:        url,
		Header:     header,
		TotalWords: totalWords,
		path:       path,
		done:       make(map[string]struct{}),
	}
}

// Load reads an existing resume state from disk. Returns nil if the file
// does not exist.
func Load(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading resume file: %w", err)
	}

	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing resume file: %w", err)
	}

	s.path = path
	s.done = make(map[string]struct{}, len(s.CompletedWords))
	for _, w := range s.CompletedWords {
		s.done[w] = struct{}{}
	}

	return &s, nil
}

// Matches reports whether the saved state belongs to the same run shape.
func (s *State) Matches(url, header string) bool {
	return s.URL == url && s.Header == header
}

// MarkCompleted records a word as done.
func (s *State) MarkCompleted(word string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.done[word]; !ok {
		s.done[word] = struct{}{}
		s.CompletedWords = append(s.CompletedWords, word)
	}
}

// Save writes the current state to disk.
func (s *State) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("serializing resume state: %w", err)
	}
	return os.WriteFile(s.path, data, 0644)
}

// FilterRemaining returns only words that haven't been completed yet.
func (s *State) FilterRemaining(words []string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var remaining []string
	for _, w := range words {
		if _, ok := s.done[w]; !ok {
			remaining = append(remaining, w)
		}
	}
	return remaining
}

// Remove deletes the resume file (called on successful completion).
func (s *State) Remove() error {
	return os.Remove(s.path)
}
