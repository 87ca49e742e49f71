// Package matcher provides Aho-Corasick keyword sets for O(n+m) lexicon scans.
package matcher

import (
	"sort"
	"strings"

	ahocorasick "github.com/cloudflare/ahocorasick"
)

// KeywordSet is an immutable lexicon compiled into an Aho-Corasick automaton.
// Keywords and scanned text are lowercased, so matching is case-insensitive
// for Latin text. A KeywordSet is safe for concurrent use.
type KeywordSet struct {
	keywords []string
	matcher  *ahocorasick.Matcher
}

// New compiles keywords into a set. Blank and duplicate keywords are dropped;
// the first occurrence fixes a keyword's position.
func New(keywords ...string) *KeywordSet {
	s := &KeywordSet{keywords: make([]string, 0, len(keywords))}
	seen := make(map[string]struct{}, len(keywords))

	for _, kw := range keywords {
		normalized := normalizeKeyword(kw)
		if normalized == "" {
			continue
		}
		if _, dup := seen[normalized]; dup {
			continue
		}
		seen[normalized] = struct{}{}
		s.keywords = append(s.keywords, normalized)
	}

	if len(s.keywords) > 0 {
		s.matcher = ahocorasick.NewStringMatcher(s.keywords)
	}
	return s
}

func normalizeKeyword(kw string) string {
	return strings.ToLower(strings.TrimSpace(kw))
}

// Find returns the distinct keywords occurring in text, in lexicon order.
func (s *KeywordSet) Find(text string) []string {
	if s == nil || s.matcher == nil || text == "" {
		return nil
	}

	hits := s.matcher.MatchThreadSafe([]byte(strings.ToLower(text)))
	if len(hits) == 0 {
		return nil
	}
	sort.Ints(hits)

	found := make([]string, 0, len(hits))
	for _, idx := range hits {
		if idx < len(s.keywords) {
			found = append(found, s.keywords[idx])
		}
	}
	return found
}

// Count returns the number of distinct keywords occurring in text.
func (s *KeywordSet) Count(text string) int {
	return len(s.Find(text))
}

// Contains reports whether any keyword occurs in text.
func (s *KeywordSet) Contains(text string) bool {
	return s.Count(text) > 0
}

// Keywords returns a copy of the normalized lexicon.
func (s *KeywordSet) Keywords() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.keywords))
	copy(out, s.keywords)
	return out
}

// Len returns the number of keywords in the set.
func (s *KeywordSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.keywords)
}
