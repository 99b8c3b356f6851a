package postag

import (
	"context"
	"strings"
	"sync"
)

// Memo caches classifications by lowercased word. The underlying tagger is
// a pure function of its input, so memoization changes cost, not results.
// Errors are not cached: an unavailable model may recover between calls.
type Memo struct {
	inner Tagger

	mu    sync.Mutex
	cache map[string]bool
}

// NewMemo wraps a Tagger with per-word memoization.
func NewMemo(inner Tagger) *Memo {
	return &Memo{
		inner: inner,
		cache: make(map[string]bool),
	}
}

// IsSimpleVerb returns the cached classification for word, consulting the
// wrapped tagger at most once per distinct word.
func (m *Memo) IsSimpleVerb(ctx context.Context, word string) (bool, error) {
	key := strings.ToLower(word)

	m.mu.Lock()
	if cached, ok := m.cache[key]; ok {
		m.mu.Unlock()
		return cached, nil
	}
	m.mu.Unlock()

	result, err := m.inner.IsSimpleVerb(ctx, word)
	if err != nil {
		return false, err
	}

	m.mu.Lock()
	m.cache[key] = result
	m.mu.Unlock()
	return result, nil
}
