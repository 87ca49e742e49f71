package normalizer

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// singleCharMap maps homoglyphs and leetspeak glyphs onto Latin letters or
// Hangul compatibility jamo.
var singleCharMap = map[rune]rune{
	// s
	'𝗌': 's', '𝘴': 's', '𝙨': 's', '𝚜': 's', '𝐬': 's', '𝑠': 's', '𝒔': 's', '𝓈': 's',
	'𝓼': 's', '𝔰': 's', '𝖘': 's', '𝕤': 's', 'ｓ': 's', 'ş': 's', '$': 's',
	// e
	'𝖾': 'e', '𝘦': 'e', '𝙚': 'e', '𝚎': 'e', '𝐞': 'e', '𝑒': 'e', '𝒆': 'e', 'ℯ': 'e',
	'ｅ': 'e', '3': 'e', '€': 'e',
	// x
	'𝗑': 'x', '𝘹': 'x', '𝙭': 'x', '𝚡': 'x', '𝐱': 'x', '𝑥': 'x', '𝒙': 'x', '𝓍': 'x',
	'ｘ': 'x', '*': 'x', '✕': 'x', '✖': 'x', '❌': 'x',
	// jamo look-alikes
	'┻': 'ㅗ', '┴': 'ㅗ', '⊥': 'ㅗ', '†': 'ㅗ',
	'^': 'ㅅ', '人': 'ㅅ', '∧': 'ㅅ', 'Λ': 'ㅅ',
	'甘': 'ㅂ', '廿': 'ㅂ', '田': 'ㅂ', '口': 'ㅂ', '日': 'ㅂ', '目': 'ㅂ',
	'己': 'ㄹ', '乙': 'ㄹ', '已': 'ㄹ', '巳': 'ㄹ',
	'卜': 'ㅏ', 'r': 'ㅏ', 'F': 'ㅏ', '|': 'ㅏ', '/': 'ㅏ',
	'l': 'ㅣ', '1': 'ㅣ', 'I': 'ㅣ', '!': 'ㅣ',
	'H': 'ㅐ', 'ㅖ': 'ㅐ', 'ㅒ': 'ㅐ',
	'0': 'ㅇ', 'O': 'ㅇ', 'o': 'ㅇ', '◯': 'ㅇ', '⭕': 'ㅇ', '○': 'ㅇ',
	// emoji
	'🐦': '새', '🐔': '새', '🦅': '새',
	'🐕': '개', '🐶': '개', '🐺': '개',
}

// multiCharReplacements rewrite glyph sequences; longer keys win.
var multiCharReplacements = map[string]string{
	`_ㅣ_`:  "ㅗ",
	`_/_`:  "ㅗ",
	`_|\_`: "ㅗ",
	"／＼":   "ㅅ",
	"/＼":   "ㅅ",
	"77":   "ㄲ",
	"ㅇl=스": "섹스",
	"ㅇㅣ-ㅣ": "애",
	"lㅣ":   "니",
	"ㅁㅣ":   "미",
}

var multiCharReplacer = newLongestFirstReplacer(multiCharReplacements)

// newLongestFirstReplacer builds a replacer whose keys are tried longest
// first at each position. Ties are broken lexically for determinism.
func newLongestFirstReplacer(pairs map[string]string) *strings.Replacer {
	keys := make([]string, 0, len(pairs))
	for k := range pairs {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		li, lj := utf8.RuneCountInString(keys[i]), utf8.RuneCountInString(keys[j])
		if li != lj {
			return li > lj
		}
		return keys[i] < keys[j]
	})

	oldnew := make([]string, 0, len(keys)*2)
	for _, k := range keys {
		oldnew = append(oldnew, k, pairs[k])
	}
	return strings.NewReplacer(oldnew...)
}
