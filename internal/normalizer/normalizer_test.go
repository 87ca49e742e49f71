package normalizer_test

import (
	"testing"

	"golang.org/x/text/unicode/norm"

	"github.com/hyunhan-cho/LT-GDG/internal/normalizer"
)

func TestCanonical(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"punctuation leet", "시발 놈아!", "시발놈아ㅣ"},
		{"url stripped", "https://example.com/a 안녕 www.test.kr 하세요", "안녕하세요"},
		{"digit homoglyph", "ㅅ1발", "ㅅㅣ발"},
		{"emoji", "🐶새끼", "개새끼"},
		{"latin substitution", "$EX", "sex"},
		{"fullwidth mapped", "ｓｅｘ", "sex"},
		{"fullwidth folded", "ｆｕｃｋ", "fuck"},
		{"multi char", "_ㅣ_ 먹어", "ㅗ먹어"},
		{"double seven", "77ㅓ져", "ㄲㅓ져"},
		{"jamo pair", "ㅁㅣ친", "미친"},
		{"decomposed hangul", norm.NFD.String("시발"), "시발"},
		{"compatibility jamo kept", "ㅅㅂ", "ㅅㅂ"},
		{"whitespace variants", "시\t발\n　놈", "시발놈"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizer.Canonical(tt.input); got != tt.want {
				t.Errorf("Canonical(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestForLevel(t *testing.T) {
	tests := []struct {
		name  string
		input string
		level normalizer.Level
		want  string
	}{
		{"minor nyeon", "미친년", normalizer.LevelMinor, "미친놈"},
		{"minor ryeon", "미친련", normalizer.LevelMinor, "미친놈"},
		{"belittle nom", "같은놈", normalizer.LevelBelittle, "같은년"},
		{"belittle chain", "같은뇬", normalizer.LevelBelittle, "같은년"},
		{"belittle neom", "같은넘", normalizer.LevelBelittle, "같은년"},
		{"sexual g", "보g", normalizer.LevelSexual, "보지"},
		{"general untouched", "미친년", normalizer.LevelGeneral, "미친년"},
		{"other level untouched", "같은놈", normalizer.LevelRace, "같은놈"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizer.ForLevel(tt.input, tt.level); got != tt.want {
				t.Errorf("ForLevel(%q, %s) = %q, want %q", tt.input, tt.level, got, tt.want)
			}
		})
	}
}

func TestNormalize_LevelTransformIsLocal(t *testing.T) {
	minor := normalizer.Normalize("미친 년", normalizer.LevelMinor)
	general := normalizer.Normalize("미친 년", normalizer.LevelGeneral)

	if minor != "미친놈" {
		t.Errorf("minor = %q", minor)
	}
	if general != "미친년" {
		t.Errorf("general = %q", general)
	}
}

func TestCollapse(t *testing.T) {
	if got := normalizer.Collapse("  안내 드리겠습니다\n\tOK "); got != "안내 드리겠습니다 ok" {
		t.Errorf("Collapse() = %q", got)
	}
}
