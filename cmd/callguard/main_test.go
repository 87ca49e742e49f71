//nolint:testpackage // tests unexported command helpers
package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyunhan-cho/LT-GDG/internal/domain"
	"github.com/hyunhan-cho/LT-GDG/internal/processor"
)

func TestParseTranscript(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		sessionID string
		speakers  []string
	}{
		{
			name:      "transcript object",
			input:     `{"session_id":"s-1","utterances":[{"speaker":"customer","text":"안녕하세요"}]}`,
			sessionID: "s-1",
			speakers:  []string{"customer"},
		},
		{
			name:     "utterance array",
			input:    `[{"speaker":"customer","text":"환불해 주세요"},{"speaker":"agent","text":"네"}]`,
			speakers: []string{"customer", "agent"},
		},
		{
			name:     "tagged text",
			input:    "고객: 환불 절차가 어떻게 되나요? 상담사: 네 안내해 드리겠습니다.",
			speakers: []string{"customer", "agent"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := parseTranscript([]byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.sessionID, tr.SessionID)
			got := make([]string, 0, len(tr.Utterances))
			for _, u := range tr.Utterances {
				got = append(got, u.Speaker)
			}
			assert.Equal(t, tt.speakers, got)
		})
	}

	_, err := parseTranscript([]byte("  \n"))
	assert.ErrorIs(t, err, errEmptyTranscript)

	_, err = parseTranscript([]byte("{broken"))
	assert.Error(t, err)
}

func TestReadTranscript_SessionIDFromFileName(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "call-42.txt")
	require.NoError(t, os.WriteFile(path, []byte("고객: 안녕하세요"), 0o600))

	tr, err := readTranscript(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "call-42", tr.SessionID)

	tr, err = readTranscript("-", strings.NewReader("고객: 안녕하세요"))
	require.NoError(t, err)
	assert.Empty(t, tr.SessionID)
	assert.Len(t, tr.Utterances, 1)
}

func TestTranscriptFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.json", "a.txt", "notes.md"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o600))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.json"), 0o750))

	files, err := transcriptFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.txt"), filepath.Join(dir, "b.json")}, files)
}

func TestRenderBatchSummary(t *testing.T) {
	var buf bytes.Buffer
	failed := renderBatchSummary(&buf, []processor.ProcessResult{
		{SessionID: "ok", Result: &domain.PipelineResult{SessionID: "ok", TotalTurns: 2, MaxTurnRiskScore: 0.5}},
		{SessionID: "bad", Error: errors.New("boom"), ErrorText: "boom"},
	})

	assert.Equal(t, 1, failed)
	out := buf.String()
	assert.Contains(t, out, "ok")
	assert.Contains(t, out, "0.50")
	assert.Contains(t, out, "boom")
	assert.Contains(t, out, "1 failed")
}

func writeTestConfig(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yml")
	cfg := "logging:\n  level: error\nstorage:\n  database:\n    enabled: true\n    driver: sqlite3\n    dsn: " +
		filepath.Join(dir, "history.db") + "\n"
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o600))
	return path
}

func TestAnalyzeCommand(t *testing.T) {
	dir := t.TempDir()
	configPath := writeTestConfig(t, dir)
	input := filepath.Join(dir, "call-7.txt")
	require.NoError(t, os.WriteFile(input, []byte("고객: 시발놈아! 상담사: 고객님 진정하세요."), 0o600))

	var out bytes.Buffer
	root := newRootCommand()
	root.SetOut(&out)
	root.SetArgs([]string{"analyze", "--config", configPath, "--compact", input})
	require.NoError(t, root.Execute())

	var res domain.PipelineResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &res))
	assert.Equal(t, "call-7", res.SessionID)
	require.Len(t, res.TurnResults, 1)
	assert.True(t, res.TurnResults[0].CustomerResult.ProfanityResult.IsProfanity)

	out.Reset()
	root = newRootCommand()
	root.SetOut(&out)
	root.SetArgs([]string{"history", "--config", configPath})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "call-7")
}

func TestBatchCommand(t *testing.T) {
	dir := t.TempDir()
	configPath := writeTestConfig(t, dir)
	inputs := filepath.Join(dir, "in")
	require.NoError(t, os.Mkdir(inputs, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(inputs, "a.txt"), []byte("고객: 환불 절차가 어떻게 되나요?"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(inputs, "b.json"),
		[]byte(`{"session_id":"b","utterances":[{"speaker":"customer","text":"시발놈아!"}]}`), 0o600))
	outDir := filepath.Join(dir, "out")

	var out bytes.Buffer
	root := newRootCommand()
	root.SetOut(&out)
	root.SetArgs([]string{"batch", "--config", configPath, "--out", outDir, "--concurrency", "2", inputs})
	require.NoError(t, root.Execute())

	assert.Contains(t, out.String(), "0 failed")
	assert.FileExists(t, filepath.Join(outDir, "a.json"))
	assert.FileExists(t, filepath.Join(outDir, "b.json"))
}
