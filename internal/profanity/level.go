package profanity

import (
	"strings"

	"github.com/hyunhan-cho/LT-GDG/internal/domain"
	"github.com/hyunhan-cho/LT-GDG/internal/matcher"
	"github.com/hyunhan-cho/LT-GDG/internal/normalizer"
)

// Charset selects the characters kept before pattern matching.
type Charset int

// Charsets.
const (
	// CharsetAny keeps every character.
	CharsetAny Charset = iota
	// CharsetMixed keeps lowercase Latin, digits, Hangul and @ = - _.
	CharsetMixed
	// CharsetHangul keeps Hangul syllables and compatibility jamo only.
	CharsetHangul
)

func isHangul(r rune) bool {
	return (r >= 'ㄱ' && r <= 'ㅎ') || (r >= 'ㅏ' && r <= 'ㅣ') || (r >= '가' && r <= '힣')
}

func (c Charset) keep(r rune) bool {
	switch c {
	case CharsetMixed:
		return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || isHangul(r) ||
			r == '@' || r == '=' || r == '-' || r == '_'
	case CharsetHangul:
		return isHangul(r)
	default:
		return true
	}
}

// Filter drops the characters c does not keep.
func (c Charset) Filter(s string) string {
	if c == CharsetAny {
		return s
	}
	return strings.Map(func(r rune) rune {
		if c.keep(r) {
			return r
		}
		return -1
	}, s)
}

// Level weights.
const (
	weightGeneral  = 0.8
	weightMinor    = 0.6
	weightSexual   = 0.9
	weightBelittle = 0.5
	weightRace     = 0.7
	weightParent   = 0.6
	weightPolitics = 0.5
	weightSpecial  = 0.7
)

// LevelSpec is the configuration of one severity level.
type LevelSpec struct {
	Name           normalizer.Level
	Category       domain.ProfanityCategory
	Weight         float64
	Charset        Charset
	FalsePositives []string
	Patterns       []string
	Enabled        bool
}

// DefaultLevelSpecs returns the built-in levels in evaluation order.
func DefaultLevelSpecs() []LevelSpec {
	return []LevelSpec{
		{normalizer.LevelSexual, domain.CategorySexualHarassment, weightSexual, CharsetMixed, sexualFalsePositives, sexualPatterns, true},
		{normalizer.LevelGeneral, domain.CategoryProfanity, weightGeneral, CharsetMixed, generalFalsePositives, generalPatterns, true},
		{normalizer.LevelRace, domain.CategoryHateSpeech, weightRace, CharsetHangul, raceFalsePositives, racePatterns, true},
		{normalizer.LevelBelittle, domain.CategoryInsult, weightBelittle, CharsetHangul, belittleFalsePositives, belittlePatterns, true},
		{normalizer.LevelParent, domain.CategoryInsult, weightParent, CharsetMixed, parentFalsePositives, parentPatterns, true},
		{normalizer.LevelMinor, domain.CategoryProfanity, weightMinor, CharsetHangul, minorFalsePositives, minorPatterns, true},
		{normalizer.LevelPolitics, domain.CategoryHateSpeech, weightPolitics, CharsetMixed, politicsFalsePositives, politicsPatterns, true},
		{normalizer.LevelSpecial, domain.CategoryProfanity, weightSpecial, CharsetAny, nil, specialPatterns, true},
	}
}

// level is a compiled LevelSpec.
type level struct {
	name           normalizer.Level
	category       domain.ProfanityCategory
	weight         float64
	charset        Charset
	falsePositives *strings.Replacer
	patterns       *matcher.KeywordSet
}

func compileLevel(spec LevelSpec) *level {
	l := &level{
		name:     spec.Name,
		category: spec.Category,
		weight:   spec.Weight,
		charset:  spec.Charset,
		patterns: matcher.New(spec.Patterns...),
	}
	if len(spec.FalsePositives) > 0 {
		oldnew := make([]string, 0, len(spec.FalsePositives)*2)
		for _, fp := range spec.FalsePositives {
			oldnew = append(oldnew, fp, "")
		}
		l.falsePositives = strings.NewReplacer(oldnew...)
	}
	return l
}

// match runs the level against canonical text and returns the first pattern
// found, in lexicon order.
func (l *level) match(canonical string) (string, bool) {
	processed := normalizer.ForLevel(canonical, l.name)
	if l.falsePositives != nil {
		processed = l.falsePositives.Replace(processed)
	}
	found := l.patterns.Find(l.charset.Filter(processed))
	if len(found) == 0 {
		return "", false
	}
	return found[0], true
}
