package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/hyunhan-cho/LT-GDG/internal/storage"
)

var errNoHistory = errors.New("storage.database is not enabled")

func newHistoryCommand(opts *rootOptions) *cobra.Command {
	var (
		limit     int
		highRisk  bool
		threshold float64
		sessionID string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List stored sessions, one session's turns, or high-risk turns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := openApp(cmd.Context(), opts, false)
			if err != nil {
				return err
			}
			defer closeApp(app)

			store := app.Storage.History
			if store == nil {
				return errNoHistory
			}

			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			switch {
			case sessionID != "":
				docs, loadErr := store.Turns(ctx, sessionID)
				if loadErr != nil {
					return loadErr
				}
				if len(docs) == 0 {
					return fmt.Errorf("session %q not found", sessionID)
				}
				renderTurns(out, docs)
			case highRisk:
				docs, loadErr := store.HighRisk(ctx, threshold, limit)
				if loadErr != nil {
					return loadErr
				}
				renderTurns(out, docs)
			default:
				records, loadErr := store.Recent(ctx, limit)
				if loadErr != nil {
					return loadErr
				}
				renderSessions(out, records)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum rows")
	cmd.Flags().BoolVar(&highRisk, "high-risk", false, "list turns at or above --threshold")
	cmd.Flags().Float64Var(&threshold, "threshold", 0.7, "turn risk threshold for --high-risk")
	cmd.Flags().StringVar(&sessionID, "session", "", "show the turns of one session")
	return cmd
}

func renderSessions(w io.Writer, records []storage.SessionRecord) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Session", "Turns", "Failed", "Max Risk", "Alerts", "Labels", "Analyzed At"})
	for _, r := range records {
		t.AppendRow(table.Row{
			r.SessionID,
			r.TotalTurns,
			r.FailedTurns,
			fmt.Sprintf("%.2f", r.MaxTurnRiskScore),
			r.AlertCount,
			r.SpecialLabelCounts,
			r.AnalyzedAt.Format("2006-01-02 15:04:05"),
		})
	}
	t.Render()
}

func renderTurns(w io.Writer, docs []storage.TurnDocument) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Session", "Turn", "Label", "Risk", "Compliance", "Customer Text"})
	for _, d := range docs {
		compliance := "-"
		if d.ManualComplianceScore != nil {
			compliance = fmt.Sprintf("%.2f", *d.ManualComplianceScore)
		}
		t.AppendRow(table.Row{
			d.SessionID,
			d.TurnIndex,
			d.CustomerLabel,
			fmt.Sprintf("%.2f", d.TurnRiskScore),
			compliance,
			truncate(d.CustomerText, 40),
		})
	}
	t.Render()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
