package compliance

import (
	"strings"

	"github.com/hyunhan-cho/LT-GDG/internal/domain"
)

// Sub-check weights.
const (
	weightRequired = 0.4
	weightGreeting = 0.2
	weightClosing  = 0.2
	weightResponse = 0.2
	weightEmpathy  = 0.2

	prohibitedPenalty = 0.5
	optionalDefault   = 0.5
)

// Input is one agent utterance to score.
type Input struct {
	AgentText     string       `json:"agent_text"`
	Emotion       string       `json:"emotion"`
	CustomerLabel domain.Label `json:"customer_label"`
	IsStart       bool         `json:"is_start"`
	IsEnd         bool         `json:"is_end"`
}

// SubScore is the outcome of one sub-check.
type SubScore struct {
	Checked bool     `json:"checked"`
	Score   float64  `json:"score"`
	Found   []string `json:"found,omitempty"`
	Missing []string `json:"missing,omitempty"`
	Total   int      `json:"total"`
}

// Result is the compliance verdict for one agent utterance.
type Result struct {
	Score            float64  `json:"score"`
	Greeting         SubScore `json:"greeting"`
	Closing          SubScore `json:"closing"`
	Required         SubScore `json:"required_keywords"`
	Prohibited       SubScore `json:"prohibited_keywords"`
	Response         SubScore `json:"response_phrases"`
	Empathy          SubScore `json:"empathy_phrases"`
	CompliedItems    []string `json:"complied_items"`
	NonCompliedItems []string `json:"non_complied_items"`
}

// Details flattens the result into the map carried by AgentAnalysisResult.
func (r Result) Details() map[string]any {
	return map[string]any{
		"greeting_score":           r.Greeting.Score,
		"greeting_checked":         r.Greeting.Checked,
		"closing_score":            r.Closing.Score,
		"closing_checked":          r.Closing.Checked,
		"required_keyword_score":   r.Required.Score,
		"prohibited_keyword_score": r.Prohibited.Score,
		"response_phrase_score":    r.Response.Score,
		"empathy_phrase_score":     r.Empathy.Score,
		"found_keywords":           nonNil(r.Required.Found),
		"missing_keywords":         nonNil(r.Required.Missing),
		"found_prohibited":         nonNil(r.Prohibited.Found),
		"complied_items":           nonNil(r.CompliedItems),
		"non_complied_items":       nonNil(r.NonCompliedItems),
	}
}

// Checker scores agent utterances against a manual keyword table.
type Checker struct {
	table *Table
}

// NewChecker creates a checker. A nil table uses the built-in one.
func NewChecker(table *Table) *Checker {
	if table == nil {
		table = DefaultTable()
	}
	return &Checker{table: table}
}

// Table returns the checker's keyword table.
func (c *Checker) Table() *Table {
	return c.table
}

// Check scores in.AgentText. An empty emotion is treated as NEUTRAL.
func (c *Checker) Check(in Input) Result {
	emotion := in.Emotion
	if emotion == "" {
		emotion = domain.EmotionNeutral
	}
	m := c.table.lookup(emotion, in.CustomerLabel)
	text, loose := prepare(in.AgentText)

	r := Result{
		Greeting:   boundaryCheck(m.greeting, text, loose, in.IsStart),
		Closing:    boundaryCheck(m.closing, text, loose, in.IsEnd),
		Required:   requiredCheck(m.required, text, loose),
		Prohibited: prohibitedCheck(m.prohibited, text, loose),
		Response:   optionalCheck(m.response, text, loose),
		Empathy:    optionalCheck(m.empathy, text, loose),
	}
	r.Score = r.overall()
	r.CompliedItems, r.NonCompliedItems = r.items()
	return r
}

func (r Result) overall() float64 {
	sum := r.Required.Score*weightRequired + r.Response.Score*weightResponse + r.Empathy.Score*weightEmpathy
	total := weightRequired + weightResponse + weightEmpathy
	if r.Greeting.Checked {
		sum += r.Greeting.Score * weightGreeting
		total += weightGreeting
	}
	if r.Closing.Checked {
		sum += r.Closing.Score * weightClosing
		total += weightClosing
	}

	score := sum / total
	if r.Prohibited.Score < 1 {
		score *= prohibitedPenalty
	}
	return min(max(score, 0), 1)
}

func (r Result) items() (complied, missed []string) {
	if len(r.Greeting.Found) > 0 {
		complied = append(complied, "greeting: "+strings.Join(r.Greeting.Found, ", "))
	}
	if len(r.Closing.Found) > 0 {
		complied = append(complied, "closing: "+strings.Join(r.Closing.Found, ", "))
	}
	if len(r.Required.Found) > 0 {
		complied = append(complied, "required keywords: "+strings.Join(r.Required.Found, ", "))
	}
	if len(r.Response.Found) > 0 {
		complied = append(complied, "response phrases: "+strings.Join(head(r.Response.Found, 2), ", "))
	}
	if len(r.Empathy.Found) > 0 {
		complied = append(complied, "empathy phrases: "+strings.Join(head(r.Empathy.Found, 2), ", "))
	}

	if r.Greeting.Checked && len(r.Greeting.Found) == 0 {
		missed = append(missed, "greeting missing")
	}
	if r.Closing.Checked && len(r.Closing.Found) == 0 {
		missed = append(missed, "closing missing")
	}
	if len(r.Required.Missing) > 0 {
		missed = append(missed, "required keywords missing: "+strings.Join(head(r.Required.Missing, 3), ", "))
	}
	if len(r.Prohibited.Found) > 0 {
		missed = append(missed, "prohibited keywords used: "+strings.Join(r.Prohibited.Found, ", "))
	}
	return complied, missed
}

// boundaryCheck scores greeting and closing. Unchecked boundaries score 1
// and are left out of the weighted average.
func boundaryCheck(p *phraseList, text, loose string, checked bool) SubScore {
	if !checked {
		return SubScore{Score: 1, Total: p.len()}
	}
	found, missing := p.match(text, loose)
	return SubScore{
		Checked: true,
		Score:   ratio(len(found), p.len()),
		Found:   found,
		Missing: missing,
		Total:   p.len(),
	}
}

// requiredCheck gives full credit only at full coverage; from half coverage
// up the score runs linearly from 0.5, below it from 0.
func requiredCheck(p *phraseList, text, loose string) SubScore {
	if p.len() == 0 {
		return SubScore{Score: 1}
	}
	found, missing := p.match(text, loose)
	return SubScore{
		Checked: true,
		Score:   RequiredCredit(len(found), p.len()),
		Found:   found,
		Missing: missing,
		Total:   p.len(),
	}
}

// RequiredCredit maps required-keyword coverage to a score.
func RequiredCredit(found, total int) float64 {
	if total == 0 {
		return 1
	}
	r := float64(found) / float64(total)
	switch {
	case r >= 1:
		return 1
	case r >= 0.5:
		return 0.5 + (r - 0.5)
	default:
		return r
	}
}

func prohibitedCheck(p *phraseList, text, loose string) SubScore {
	if p.len() == 0 {
		return SubScore{Score: 1}
	}
	found, _ := p.match(text, loose)
	s := SubScore{Checked: true, Score: 1, Found: found, Total: p.len()}
	if len(found) > 0 {
		s.Score = 0
	}
	return s
}

// optionalCheck scores response and empathy phrases. A non-empty list with
// no hit scores 0.5 rather than 0.
func optionalCheck(p *phraseList, text, loose string) SubScore {
	if p.len() == 0 {
		return SubScore{Score: 1}
	}
	found, missing := p.match(text, loose)
	s := SubScore{
		Checked: true,
		Score:   optionalDefault,
		Found:   found,
		Missing: missing,
		Total:   p.len(),
	}
	if len(found) > 0 {
		s.Score = ratio(len(found), p.len())
	}
	return s
}

func ratio(found, total int) float64 {
	if found == 0 {
		return 0
	}
	return min(1, float64(found)/float64(max(1, total)))
}

func head(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
