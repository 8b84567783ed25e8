package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/qgen/internal/api"
)

var answerCmd = &cobra.Command{
	Use:   "answer",
	Short: "Generate an answer for a single question",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		q, _ := cmd.Flags().GetString("question")
		if strings.TrimSpace(q) == "" {
			return errors.New("--question is required")
		}

		contextText, err := readContext(cmd)
		if err != nil {
			return err
		}
		if strings.TrimSpace(contextText) == "" {
			return errors.New("no context available to generate answer: pass --context <file>")
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		log, closeLog, err := newLogger(cfg, false)
		if err != nil {
			return err
		}
		defer closeLog()

		client, err := newClient(cfg, log)
		if err != nil {
			return err
		}

		ctx := api.WithPurpose(cmd.Context(), api.PurposeAnswer)
		ans, err := client.GenerateAnswer(ctx, api.AnswerRequest{Question: q, Context: contextText})
		if err != nil {
			return fmt.Errorf("generate answer: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Answer: %s\n\nRationale: %s\n", ans.Answer, ans.Rationale)
		return nil
	},
}

func init() {
	answerCmd.Flags().StringP("question", "q", "", "Question text")
}
