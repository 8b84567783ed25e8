package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/abhisek/qgen/internal/api"
	"github.com/abhisek/qgen/internal/document"
	"github.com/abhisek/qgen/internal/export"
	"github.com/abhisek/qgen/internal/question"
)

var generateCmd = &cobra.Command{
	Use:   "generate <file.pdf>",
	Short: "Generate questions without the interactive UI",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		log, closeLog, err := newLogger(cfg, false)
		if err != nil {
			return err
		}
		defer closeLog()

		params, err := generateParams(cmd, cfg.Params)
		if err != nil {
			return err
		}

		f, err := document.Open(args[0])
		if err != nil {
			return err
		}
		if err := document.Validate(f); err != nil {
			return fmt.Errorf("%s: %w", f.Name, err)
		}

		withAnswers, _ := cmd.Flags().GetBool("answers")
		contextText, err := readContext(cmd)
		if err != nil {
			return err
		}
		if withAnswers && strings.TrimSpace(contextText) == "" {
			return errors.New("--answers needs --context: no context available to generate answer")
		}

		client, err := newClient(cfg, log)
		if err != nil {
			return err
		}

		ctx := api.WithPurpose(cmd.Context(), api.PurposeGenerate)
		resp, err := client.Generate(ctx, api.GenerateRequest{File: f, Params: params})
		if err != nil {
			return fmt.Errorf("generate questions: %w", err)
		}
		qs := resp.Questions

		if withAnswers {
			qs = fillAnswers(cmd.Context(), client, qs, contextText, log)
		}

		out := cmd.OutOrStdout()
		asJSON, _ := cmd.Flags().GetBool("json")
		if asJSON {
			if err := writeJSON(out, qs); err != nil {
				return err
			}
		} else {
			printQuestions(out, qs)
		}

		// Status lines go to stderr so --json output stays parseable.
		status := cmd.ErrOrStderr()

		if doExport, _ := cmd.Flags().GetBool("export"); doExport {
			path, err := export.NewExporter(cfg.OutputDir).Export(qs)
			if err != nil {
				return fmt.Errorf("export: %w", err)
			}
			fmt.Fprintln(status, "Exported", path)
		}

		if doCopy, _ := cmd.Flags().GetBool("copy"); doCopy {
			if err := clipboard.WriteAll(joinQuestions(qs)); err != nil {
				return fmt.Errorf("copy to clipboard: %w", err)
			}
			fmt.Fprintln(status, "Copied to clipboard!")
		}
		return nil
	},
}

func init() {
	addGenerateFlags(generateCmd)
}

func addGenerateFlags(c *cobra.Command) {
	f := c.Flags()
	f.IntP("count", "n", 0, fmt.Sprintf("Number of questions (%d-%d)", question.MinCount, question.MaxCount))
	f.StringP("difficulty", "d", "", "Difficulty: easy, medium, hard, expert")
	f.StringP("type", "t", "", "Question type: comprehension, analysis, application, evaluation")
	f.Bool("answers", false, "Generate answers for questions without one (needs --context)")
	f.Bool("export", false, "Export the questions to a PDF in the output directory")
	f.Bool("json", false, "Print the questions as JSON")
	f.Bool("copy", false, "Copy the question texts to the clipboard")
}

// generateParams starts from the configured defaults and applies flags.
func generateParams(cmd *cobra.Command, defaults func() (question.Params, error)) (question.Params, error) {
	p, err := defaults()
	if err != nil {
		return question.Params{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("count") {
		p.Count, _ = flags.GetInt("count")
	}
	if flags.Changed("difficulty") {
		s, _ := flags.GetString("difficulty")
		if p.Difficulty, err = question.ParseDifficulty(s); err != nil {
			return question.Params{}, err
		}
	}
	if flags.Changed("type") {
		s, _ := flags.GetString("type")
		if p.Type, err = question.ParseType(s); err != nil {
			return question.Params{}, err
		}
	}
	if err := p.Validate(); err != nil {
		return question.Params{}, err
	}
	return p, nil
}

// fillAnswers requests answers for unanswered questions one at a time.
// Failures are logged and leave the question unanswered.
func fillAnswers(ctx context.Context, client api.Client, qs []question.Question, contextText string, log logrus.FieldLogger) []question.Question {
	ctx = api.WithPurpose(ctx, api.PurposeAnswer)
	for _, k := range question.Unanswered(qs) {
		ans, err := client.GenerateAnswer(ctx, api.AnswerRequest{Question: qs[k].Question, Context: contextText})
		if err != nil {
			log.WithField("index", k).WithError(err).Warn("failed to generate answer")
			continue
		}
		merged, err := question.MergeAnswer(qs, k, *ans)
		if err != nil {
			continue
		}
		qs = merged
	}
	return qs
}

func writeJSON(w io.Writer, qs []question.Question) error {
	if qs == nil {
		qs = []question.Question{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(api.GenerateResponse{Questions: qs})
}

func printQuestions(w io.Writer, qs []question.Question) {
	if len(qs) == 0 {
		fmt.Fprintln(w, "No questions generated yet.")
		return
	}
	for i, q := range qs {
		fmt.Fprintf(w, "%d. %s\n", i+1, q.Question)
		fmt.Fprintf(w, "   [%s] [%s]\n", q.DisplayDifficulty().DisplayName(), q.DisplayType().DisplayName())
		if q.HasAnswer() {
			fmt.Fprintf(w, "   Answer: %s\n", q.Answer)
			fmt.Fprintf(w, "   Rationale: %s\n", q.Rationale)
		}
		fmt.Fprintln(w)
	}
}

func joinQuestions(qs []question.Question) string {
	lines := make([]string, 0, len(qs))
	for i, q := range qs {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, q.Question))
	}
	return strings.Join(lines, "\n")
}
