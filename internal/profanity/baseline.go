package profanity

import "github.com/hyunhan-cho/LT-GDG/internal/matcher"

// Baseline category lexicons. Unlike the level lexicons these are matched
// against lowercased raw text, so spacing inside a keyword is significant.
var (
	baselineProfanity = []string{
		"X팔", "XXX년", "개XX", "XX놈", "XX년", "지랄", "병신", "미친",
		"씨발", "좆", "개새끼", "미친놈", "죽어", "꺼져",
	}
	baselineInsult = []string{
		"너 거기 앉아서 뭐 배웠느냐", "고등학교는 나왔느냐", "인격모독",
		"바보", "멍청이", "무식한", "능력없는", "제대로 배우지 못한",
	}
	baselineThreat = []string{
		"죽여버리겠다", "찾아가겠다", "법적 대응", "고소하겠다", "복수",
		"너희 다 죽어", "끝장내겠다", "망하게 하겠다",
	}
	baselineSexual = []string{
		"성적인", "음란", "만나자", "연락처", "사적인", "데이트",
		"섹스", "성교", "음란물",
	}
	baselineHate = []HateGroup{
		{Name: "성_혐오", Keywords: []string{"여자는", "남자는", "성차별", "성 고정관념"}},
		{Name: "연령_차별", Keywords: []string{"늙은", "젊은 놈", "아저씨", "아줌마"}},
		{Name: "인종_지역_혐오", Keywords: []string{"지역드립", "전라도", "경상도", "서울 촌놈"}},
		{Name: "장애인_혐오", Keywords: []string{"장애인", "병신", "정신병"}},
		{Name: "종교_혐오", Keywords: []string{"종교", "신앙", "믿음"}},
		{Name: "정치_혐오", Keywords: []string{"정당", "정치인", "좌파", "우파"}},
		{Name: "직업_혐오", Keywords: []string{"직업", "직종"}},
	}
)

// HateGroup is one hate-speech sub-category and its keywords.
type HateGroup struct {
	Name     string
	Keywords []string
}

// HateSet is a compiled HateGroup.
type HateSet struct {
	Name string
	Set  *matcher.KeywordSet
}

// Lexicons holds the compiled baseline category lexicons. It is immutable
// and shared by the detector and the customer feature extractor.
type Lexicons struct {
	Profanity *matcher.KeywordSet
	Insult    *matcher.KeywordSet
	Threat    *matcher.KeywordSet
	Sexual    *matcher.KeywordSet
	Hate      []HateSet
}

// NewLexicons compiles the built-in baseline lexicons.
func NewLexicons() *Lexicons {
	hate := make([]HateSet, 0, len(baselineHate))
	for _, g := range baselineHate {
		hate = append(hate, HateSet{Name: g.Name, Set: matcher.New(g.Keywords...)})
	}
	return &Lexicons{
		Profanity: matcher.New(baselineProfanity...),
		Insult:    matcher.New(baselineInsult...),
		Threat:    matcher.New(baselineThreat...),
		Sexual:    matcher.New(baselineSexual...),
		Hate:      hate,
	}
}

// FindHate returns "category:keyword" evidence for every hate keyword in text,
// in category order.
func (l *Lexicons) FindHate(text string) []string {
	var found []string
	for _, h := range l.Hate {
		for _, kw := range h.Set.Find(text) {
			found = append(found, h.Name+":"+kw)
		}
	}
	return found
}
