// Package normalizer canonicalizes obfuscated text before lexicon matching.
//
// Canonical applies the level-independent steps: URL stripping, Unicode
// composition, lowercasing, homoglyph and leetspeak substitution, width
// folding and whitespace removal. ForLevel then applies the transform of a
// single severity level on top of that.
package normalizer

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// Level names a profanity severity level.
type Level string

// Severity levels.
const (
	LevelGeneral  Level = "general"
	LevelMinor    Level = "minor"
	LevelSexual   Level = "sexual"
	LevelBelittle Level = "belittle"
	LevelRace     Level = "race"
	LevelParent   Level = "parent"
	LevelPolitics Level = "politics"
	LevelSpecial  Level = "special"
)

var urlPattern = regexp.MustCompile(`https?://\S+|www\.\S+`)

// Normalize returns the canonical form of text with level's transform applied.
func Normalize(text string, level Level) string {
	return ForLevel(Canonical(text), level)
}

// Canonical returns the level-independent normal form of text.
func Canonical(text string) string {
	if text == "" {
		return ""
	}
	s := urlPattern.ReplaceAllString(text, "")
	s = norm.NFC.String(s)
	s = strings.ToLower(s)
	s = strings.Map(mapRune, s)
	s = multiCharReplacer.Replace(s)
	s = strings.ToLower(width.Fold.String(s))
	return stripSpace(s)
}

// ForLevel applies the transform of level to already canonical text.
func ForLevel(canonical string, level Level) string {
	switch level {
	case LevelMinor:
		return minorReplacer.Replace(canonical)
	case LevelBelittle:
		// 련 is rewritten last so earlier steps feed into it.
		s := belittleReplacer.Replace(canonical)
		return strings.ReplaceAll(s, "련", "년")
	case LevelSexual:
		return strings.ReplaceAll(canonical, "보g", "보지")
	default:
		return canonical
	}
}

// Collapse lowercases text and collapses runs of whitespace to one space.
func Collapse(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

func mapRune(r rune) rune {
	if m, ok := singleCharMap[r]; ok {
		return m
	}
	return r
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

var (
	minorReplacer    = strings.NewReplacer("년", "놈", "련", "놈")
	belittleReplacer = strings.NewReplacer("뇬", "련", "놈", "련", "넘", "련")
)
