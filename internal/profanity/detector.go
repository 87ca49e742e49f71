// Package profanity detects abusive customer speech across severity levels.
package profanity

import (
	"math"
	"strings"

	"github.com/hyunhan-cho/LT-GDG/internal/domain"
	"github.com/hyunhan-cho/LT-GDG/internal/logger"
	"github.com/hyunhan-cho/LT-GDG/internal/normalizer"
)

// Confidence constants.
const (
	threatBaseConfidence = 0.7
	threatPerHit         = 0.15
	extraLevelBonus      = 0.1
	maxConfidence        = 1.0
)

// levelThreat is reported in ProfanityResult.Levels for lexicon threats.
const levelThreat = "threat"

// exactMatches are whole-text profanities checked at the general level only.
var exactMatches = map[string]struct{}{"tq": {}, "qt": {}}

// Detector classifies text into a profanity category. It holds only
// immutable tables and is safe for concurrent use.
type Detector struct {
	levels   []*level
	lexicons *Lexicons
	logger   logger.Logger
}

// Option configures a Detector.
type Option func(*detectorOptions)

type detectorOptions struct {
	specs    []LevelSpec
	disabled map[string]bool
}

// WithLevels replaces the built-in level table.
func WithLevels(specs []LevelSpec) Option {
	return func(o *detectorOptions) { o.specs = specs }
}

// WithDisabledLevels turns off levels by name, e.g. "politics".
func WithDisabledLevels(names ...string) Option {
	return func(o *detectorOptions) {
		for _, n := range names {
			o.disabled[strings.ToLower(strings.TrimSpace(n))] = true
		}
	}
}

// NewDetector compiles the level table. lex may be shared with other stages.
func NewDetector(lex *Lexicons, log logger.Logger, opts ...Option) *Detector {
	if lex == nil {
		lex = NewLexicons()
	}
	if log == nil {
		log = logger.NewNop()
	}

	o := &detectorOptions{specs: DefaultLevelSpecs(), disabled: make(map[string]bool)}
	for _, opt := range opts {
		opt(o)
	}

	known := make(map[string]bool, len(o.specs))
	d := &Detector{lexicons: lex, logger: log}
	for _, spec := range o.specs {
		known[string(spec.Name)] = true
		if !spec.Enabled || o.disabled[string(spec.Name)] {
			continue
		}
		d.levels = append(d.levels, compileLevel(spec))
	}

	for name := range o.disabled {
		if !known[name] {
			log.Warn("Unknown profanity level in disabled list", logger.String("level", name))
		}
	}

	names := make([]string, 0, len(d.levels))
	for _, l := range d.levels {
		names = append(names, string(l.name))
	}
	log.Debug("Profanity detector initialized", logger.Strings("levels", names))

	return d
}

// Detect classifies text. A threat lexicon hit wins outright; otherwise
// every enabled level is evaluated and the matching category with the
// highest priority is reported.
func (d *Detector) Detect(text string) domain.ProfanityResult {
	if strings.TrimSpace(text) == "" {
		return domain.ProfanityResult{}
	}

	if n := d.lexicons.Threat.Count(text); n > 0 {
		return domain.ProfanityResult{
			IsProfanity: true,
			Category:    domain.CategoryViolenceThreat,
			Confidence:  math.Min(threatBaseConfidence+threatPerHit*float64(n), maxConfidence),
			Method:      domain.MethodRule,
			Levels:      []string{levelThreat},
		}
	}

	hits := d.matchLevels(normalizer.Canonical(text))
	if len(hits) == 0 {
		return domain.ProfanityResult{}
	}

	selected := hits[0]
	for _, h := range hits[1:] {
		if h.category.Rank() < selected.category.Rank() {
			selected = h
		}
	}

	confidence := math.Min(selected.weight+extraLevelBonus*float64(len(hits)-1), maxConfidence)

	names := make([]string, 0, len(hits))
	for _, h := range hits {
		names = append(names, string(h.name))
	}

	return domain.ProfanityResult{
		IsProfanity: true,
		Category:    selected.category,
		Confidence:  confidence,
		Method:      domain.MethodRule,
		Levels:      names,
	}
}

// MatchLevel reports the first pattern of the named level found in text.
func (d *Detector) MatchLevel(text string, name normalizer.Level) (string, bool) {
	canonical := normalizer.Canonical(text)
	for _, l := range d.levels {
		if l.name != name {
			continue
		}
		if p, ok := l.match(canonical); ok {
			return p, true
		}
		if name == normalizer.LevelGeneral {
			if _, ok := exactMatches[canonical]; ok {
				return canonical, true
			}
		}
	}
	return "", false
}

// Levels returns the enabled level names in evaluation order.
func (d *Detector) Levels() []normalizer.Level {
	out := make([]normalizer.Level, 0, len(d.levels))
	for _, l := range d.levels {
		out = append(out, l.name)
	}
	return out
}

func (d *Detector) matchLevels(canonical string) []*level {
	var hits []*level
	for _, l := range d.levels {
		if _, ok := l.match(canonical); ok {
			hits = append(hits, l)
			continue
		}
		if l.name == normalizer.LevelGeneral {
			if _, ok := exactMatches[canonical]; ok {
				hits = append(hits, l)
			}
		}
	}
	return hits
}
