package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/hyunhan-cho/LT-GDG/internal/domain"
	"github.com/hyunhan-cho/LT-GDG/internal/logger"
	"github.com/hyunhan-cho/LT-GDG/internal/processor"
)

func newBatchCommand(opts *rootOptions) *cobra.Command {
	var (
		outDir      string
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "batch <directory>",
		Short: "Analyze every transcript in a directory through the worker pool",
		Long: `Analyze every .json and .txt transcript in a directory. Sessions run in
parallel, one pipeline per worker. A summary table is printed; with --out each
result is also written as <session_id>.json.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := transcriptFiles(args[0])
			if err != nil {
				return err
			}
			if len(files) == 0 {
				return fmt.Errorf("no transcripts found in %s", args[0])
			}

			sessions := make([]domain.Transcript, 0, len(files))
			for _, f := range files {
				tr, readErr := readTranscript(f, nil)
				if readErr != nil {
					return readErr
				}
				sessions = append(sessions, tr)
			}

			app, err := openApp(cmd.Context(), opts, false)
			if err != nil {
				return err
			}
			defer closeApp(app)

			batch := app.Batch
			if concurrency > 0 {
				batch = processor.NewBatchProcessor(app.NewPipeline, concurrency, app.Logger)
			}

			app.Logger.Info("Batch started",
				logger.Int("sessions", len(sessions)),
				logger.Int("concurrency", batch.Concurrency()),
			)
			results := batch.Process(cmd.Context(), sessions)

			if outDir != "" {
				if err = writeResults(outDir, results); err != nil {
					return err
				}
			}
			failed := renderBatchSummary(cmd.OutOrStdout(), results)
			if failed > 0 {
				return fmt.Errorf("%d of %d sessions failed", failed, len(results))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&outDir, "out", "", "directory to write one result JSON per session")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "override service.concurrency")
	return cmd
}

func writeResults(dir string, results []processor.ProcessResult) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	for _, r := range results {
		if r.Result == nil {
			continue
		}
		data, err := json.MarshalIndent(r.Result, "", "  ")
		if err != nil {
			return fmt.Errorf("encode %s: %w", r.SessionID, err)
		}
		path := filepath.Join(dir, r.Result.SessionID+".json")
		if err = os.WriteFile(path, data, 0o600); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	return nil
}

// renderBatchSummary prints one row per session and returns the failures.
func renderBatchSummary(w io.Writer, results []processor.ProcessResult) int {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Session", "Turns", "Failed Turns", "Max Risk", "Alerts", "Error"})

	failed := 0
	for _, r := range results {
		if r.Error != nil || r.Result == nil {
			failed++
			t.AppendRow(table.Row{r.SessionID, "-", "-", "-", "-", r.ErrorText})
			continue
		}
		res := r.Result
		t.AppendRow(table.Row{
			res.SessionID,
			res.TotalTurns,
			res.FailedTurns,
			fmt.Sprintf("%.2f", res.MaxTurnRiskScore),
			len(res.Alerts),
			"",
		})
	}
	t.AppendFooter(table.Row{"Total", len(results), "", "", "", fmt.Sprintf("%d failed", failed)})
	t.Render()
	return failed
}
