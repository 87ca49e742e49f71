package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hyunhan-cho/LT-GDG/internal/logger"
)

func newAnalyzeCommand(opts *rootOptions) *cobra.Command {
	var (
		sessionID string
		compact   bool
	)

	cmd := &cobra.Command{
		Use:   "analyze <transcript|->",
		Short: "Analyze one transcript and print the result as JSON",
		Long: `Analyze one session transcript. The input is a JSON transcript
({"session_id": ..., "utterances": [...]}), a JSON utterance array, or tagged
plain text such as "고객: ... 상담사: ...". Use "-" to read stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tr, err := readTranscript(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			if sessionID != "" {
				tr.SessionID = sessionID
			}

			app, err := openApp(cmd.Context(), opts, false)
			if err != nil {
				return err
			}
			defer closeApp(app)

			result := app.NewPipeline().Process(cmd.Context(), tr)
			app.Logger.Debug("Transcript analyzed",
				logger.String("session_id", result.SessionID),
				logger.Int("turns", result.TotalTurns),
			)

			enc := json.NewEncoder(cmd.OutOrStdout())
			if !compact {
				enc.SetIndent("", "  ")
			}
			if err = enc.Encode(result); err != nil {
				return fmt.Errorf("write result: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&sessionID, "session-id", "", "override the session id")
	cmd.Flags().BoolVar(&compact, "compact", false, "print compact JSON")
	return cmd
}
