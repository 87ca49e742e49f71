package pipeline

import (
	"github.com/hyunhan-cho/LT-GDG/internal/compliance"
	"github.com/hyunhan-cho/LT-GDG/internal/logger"
	"github.com/hyunhan-cho/LT-GDG/internal/profanity"
	"github.com/hyunhan-cho/LT-GDG/internal/rules"
)

// Tables holds the keyword tables and compiled detectors shared by every
// pipeline instance. Nothing in it is mutated after NewTables returns.
type Tables struct {
	Lexicons *profanity.Lexicons
	Rules    *rules.Engine
	Detector *profanity.Detector
	Checker  *compliance.Checker
}

// NewTables compiles the shared tables. A nil compliance table selects the
// built-in manual keywords.
func NewTables(table *compliance.Table, log logger.Logger, opts ...profanity.Option) *Tables {
	lex := profanity.NewLexicons()
	return &Tables{
		Lexicons: lex,
		Rules:    rules.NewEngine(lex.Threat),
		Detector: profanity.NewDetector(lex, log, opts...),
		Checker:  compliance.NewChecker(table),
	}
}
