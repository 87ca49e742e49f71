package compliance

import (
	"strings"
	"unicode"

	"github.com/hyunhan-cho/LT-GDG/internal/matcher"
	"github.com/hyunhan-cho/LT-GDG/internal/normalizer"
)

// phraseList matches one keyword list in two passes: a direct substring
// pass, then a loose pass with punctuation and spaces removed from both
// sides.
type phraseList struct {
	all    []string
	norm   []string
	loose  []string
	direct *matcher.KeywordSet
	lax    *matcher.KeywordSet
}

func newPhraseList(words []string) *phraseList {
	p := &phraseList{
		all:   words,
		norm:  make([]string, len(words)),
		loose: make([]string, len(words)),
	}
	for i, w := range words {
		p.norm[i] = strings.ToLower(strings.TrimSpace(w))
		p.loose[i] = stripLoose(p.norm[i])
	}
	p.direct = matcher.New(p.norm...)
	p.lax = matcher.New(p.loose...)
	return p
}

// match returns the keywords found and missing, in list order.
func (p *phraseList) match(text, looseText string) (found, missing []string) {
	if len(p.all) == 0 {
		return nil, nil
	}

	directHits := toSet(p.direct.Find(text))
	laxHits := toSet(p.lax.Find(looseText))

	for i, w := range p.all {
		_, direct := directHits[p.norm[i]]
		_, lax := laxHits[p.loose[i]]
		if direct || (p.loose[i] != "" && lax) {
			found = append(found, w)
		} else {
			missing = append(missing, w)
		}
	}
	return found, missing
}

func (p *phraseList) len() int {
	return len(p.all)
}

// prepare returns the collapsed text and its loose form.
func prepare(text string) (string, string) {
	collapsed := normalizer.Collapse(text)
	return collapsed, stripLoose(collapsed)
}

// stripLoose keeps letters, digits and underscores.
func stripLoose(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			return r
		}
		return -1
	}, s)
}

func toSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// manual is a compiled ManualKeywords entry.
type manual struct {
	keywords   ManualKeywords
	greeting   *phraseList
	closing    *phraseList
	required   *phraseList
	prohibited *phraseList
	response   *phraseList
	empathy    *phraseList
}

func compile(k ManualKeywords) *manual {
	return &manual{
		keywords:   k,
		greeting:   newPhraseList(k.Greeting),
		closing:    newPhraseList(k.Closing),
		required:   newPhraseList(k.Required),
		prohibited: newPhraseList(k.Prohibited),
		response:   newPhraseList(k.Response),
		empathy:    newPhraseList(k.Empathy),
	}
}
