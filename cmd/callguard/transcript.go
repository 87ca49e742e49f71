package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hyunhan-cho/LT-GDG/internal/domain"
	"github.com/hyunhan-cho/LT-GDG/internal/turns"
)

var errEmptyTranscript = errors.New("transcript is empty")

// readTranscript reads a transcript from path, or stdin for "-". JSON input
// is either a transcript object or a bare utterance array; anything else is
// tagged plain text ("고객: ... 상담사: ..."). A file without a session id
// takes its name from the file.
func readTranscript(path string, stdin io.Reader) (domain.Transcript, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return domain.Transcript{}, fmt.Errorf("read transcript: %w", err)
	}

	tr, err := parseTranscript(data)
	if err != nil {
		return domain.Transcript{}, fmt.Errorf("%s: %w", path, err)
	}
	if tr.SessionID == "" && path != "-" {
		tr.SessionID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return tr, nil
}

func parseTranscript(data []byte) (domain.Transcript, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return domain.Transcript{}, errEmptyTranscript
	}

	switch trimmed[0] {
	case '{':
		var tr domain.Transcript
		if err := json.Unmarshal(trimmed, &tr); err != nil {
			return domain.Transcript{}, fmt.Errorf("parse transcript: %w", err)
		}
		return tr, nil
	case '[':
		var utterances []domain.Utterance
		if err := json.Unmarshal(trimmed, &utterances); err != nil {
			return domain.Transcript{}, fmt.Errorf("parse utterances: %w", err)
		}
		return domain.Transcript{Utterances: utterances}, nil
	default:
		return domain.Transcript{Utterances: turns.ParseTagged(string(trimmed))}, nil
	}
}

// transcriptFiles lists the transcript files of dir in name order.
func transcriptFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".json", ".txt":
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	return files, nil
}
