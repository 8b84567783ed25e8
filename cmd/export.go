package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/qgen/internal/api"
	"github.com/abhisek/qgen/internal/export"
	"github.com/abhisek/qgen/internal/question"
)

var exportCmd = &cobra.Command{
	Use:   "export <questions.json>",
	Short: "Export a saved question list to PDF",
	Long:  "Export reads the output of 'qgen generate --json' (or a bare JSON array of questions) and writes a PDF.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		qs, err := readQuestions(args[0])
		if err != nil {
			return err
		}

		path, err := export.NewExporter(cfg.OutputDir).Export(qs)
		if err != nil {
			return fmt.Errorf("export: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Exported", path)
		return nil
	},
}

// readQuestions accepts {"questions": [...]} or a bare array.
func readQuestions(path string) ([]question.Question, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var wrapped api.GenerateResponse
	if err := json.Unmarshal(data, &wrapped); err == nil && wrapped.Questions != nil {
		return wrapped.Questions, nil
	}

	var bare []question.Question
	if err := json.Unmarshal(data, &bare); err != nil {
		return nil, fmt.Errorf("parse %s: expected {\"questions\": [...]} or a JSON array", path)
	}
	return bare, nil
}
