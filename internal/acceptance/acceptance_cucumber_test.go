//go:build cucumber

package acceptance

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"github.com/cucumber/godog"

	"github.com/abhisek/qgen/internal/api"
	"github.com/abhisek/qgen/internal/export"
	"github.com/abhisek/qgen/internal/question"
	"github.com/abhisek/qgen/internal/router"
	"github.com/abhisek/qgen/internal/screen"
	"github.com/abhisek/qgen/internal/screens/questions"
	"github.com/abhisek/qgen/internal/screens/upload"
	"github.com/abhisek/qgen/internal/ui/components"
)

// TestScenarios runs every feature under features/.
func TestScenarios(t *testing.T) {
	suite := godog.TestSuite{
		Name:                "qgen",
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:    "pretty",
			Paths:     []string{"features"},
			Strict:    true,
			TestingT:  t,
			Randomize: 0,
		},
	}
	if suite.Run() != 0 {
		t.Fatalf("non-zero godog status")
	}
}

// InitializeScenario wires the step definitions.
func InitializeScenario(ctx *godog.ScenarioContext) {
	state := &scenarioState{}
	ctx.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		return ctx, state.reset()
	})
	ctx.After(func(ctx context.Context, _ *godog.Scenario, _ error) (context.Context, error) {
		if state.dir != "" {
			os.RemoveAll(state.dir)
		}
		return ctx, nil
	})

	ctx.Step(`^a file named "([^"]+)" of (\d+) bytes$`, state.givenFile)
	ctx.Step(`^the API returns (\d+) questions$`, state.givenGenerated)
	ctx.Step(`^the API fails with status (\d+) and detail "([^"]+)"$`, state.givenGenerateFailure)
	ctx.Step(`^I drop the file$`, state.whenDrop)
	ctx.Step(`^I press Enter$`, state.whenEnter)
	ctx.Step(`^the file is rejected with "([^"]+)"$`, state.thenRejected)
	ctx.Step(`^no file is selected$`, state.thenNothingSelected)
	ctx.Step(`^exactly (\d+) selection notifications? (?:was|were) sent$`, state.thenSelections)
	ctx.Step(`^the results screen opens with the same (\d+) questions$`, state.thenResultsOpened)
	ctx.Step(`^no screen is opened$`, state.thenNoScreen)
	ctx.Step(`^the notification "([^"]+)" is shown$`, state.thenNotified)

	ctx.Step(`^(\d+) questions where question (\d+) has no answer$`, state.givenQuestions)
	ctx.Step(`^context text is available$`, state.givenContext)
	ctx.Step(`^the API answers with "([^"]+)" because "([^"]+)"$`, state.givenAnswer)
	ctx.Step(`^I request an answer for question (\d+)$`, state.whenAnswer)
	ctx.Step(`^question (\d+) has answer "([^"]+)"$`, state.thenAnswered)
	ctx.Step(`^the other questions are unchanged$`, state.thenOthersUnchanged)
	ctx.Step(`^no answer request was sent$`, state.thenNoAnswerRequest)

	ctx.Step(`^no questions$`, state.givenNoQuestions)
	ctx.Step(`^(\d+) questions each with an answer of (\d+) words$`, state.givenLongAnswers)
	ctx.Step(`^I export on "([^"]+)"$`, state.whenExport)
	ctx.Step(`^the document has (\d+) pages?$`, state.thenPages)
	ctx.Step(`^the document has more than (\d+) pages?$`, state.thenMorePages)
	ctx.Step(`^the document contains only the title and the date "([^"]+)"$`, state.thenTitleAndDate)
	ctx.Step(`^every answer line fits the answer width$`, state.thenAnswersFit)
	ctx.Step(`^no line is placed below the page break$`, state.thenAboveBreak)
}

type scenarioState struct {
	dir    string
	path   string
	client *api.MockClient

	upload    *upload.UploadScreen
	questions *questions.QuestionsScreen
	context   string
	original  []question.Question
	answered  int

	msgs     []tea.Msg
	pushed   []router.PushScreenMsg
	notified []components.NotifyMsg
	selected int
	rejected []components.FileRejectedMsg

	doc *export.Document
}

// reset clears scenario state and creates a scratch directory.
func (s *scenarioState) reset() error {
	dir, err := os.MkdirTemp("", "qgen-acceptance-")
	if err != nil {
		return err
	}
	*s = scenarioState{dir: dir, client: api.NewMockClient(), answered: -1}
	return nil
}

func (s *scenarioState) uploadScreen() *upload.UploadScreen {
	if s.upload == nil {
		s.upload = upload.New(upload.Options{
			Client: s.client,
			Results: func(qs []question.Question) screen.Screen {
				return questions.New(qs, questions.Options{Client: s.client})
			},
		})
	}
	return s.upload
}

// send delivers msg to scr and keeps feeding the resulting messages back
// until the screen settles. Spinner ticks are recorded but not fed back so
// no timer ever runs.
func (s *scenarioState) send(scr screen.Screen, msg tea.Msg) {
	queue := []tea.Msg{msg}
	for len(queue) > 0 {
		m := queue[0]
		queue = queue[1:]

		_, cmd := scr.Update(m)
		for _, out := range drain(cmd) {
			s.record(out)
			switch out.(type) {
			case spinner.TickMsg, components.NotifyMsg, router.PushScreenMsg, router.PopScreenMsg:
				continue
			}
			queue = append(queue, out)
		}
	}
}

func (s *scenarioState) record(msg tea.Msg) {
	s.msgs = append(s.msgs, msg)
	switch m := msg.(type) {
	case router.PushScreenMsg:
		s.pushed = append(s.pushed, m)
	case components.NotifyMsg:
		s.notified = append(s.notified, m)
	case components.FileSelectedMsg:
		s.selected++
	case components.FileRejectedMsg:
		s.rejected = append(s.rejected, m)
	}
}

func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, drain(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

func sampleQuestions(n int) []question.Question {
	qs := make([]question.Question, n)
	for i := range qs {
		qs[i] = question.Question{
			Question:   fmt.Sprintf("Question %d about the document?", i+1),
			Answer:     fmt.Sprintf("Answer %d", i+1),
			Rationale:  fmt.Sprintf("Rationale %d", i+1),
			Difficulty: question.DifficultyMedium,
			Type:       question.TypeAnalysis,
		}
	}
	return qs
}

// Upload steps.

func (s *scenarioState) givenFile(name string, size int) error {
	s.path = filepath.Join(s.dir, name)
	fh, err := os.Create(s.path)
	if err != nil {
		return err
	}
	defer fh.Close()

	header := []byte("plain text\n")
	if strings.HasSuffix(strings.ToLower(name), ".pdf") {
		header = []byte("%PDF-1.4\n")
	}
	if len(header) > size {
		header = header[:size]
	}
	if _, err := fh.Write(header); err != nil {
		return err
	}
	return fh.Truncate(int64(size))
}

func (s *scenarioState) givenGenerated(n int) error {
	s.original = sampleQuestions(n)
	s.client.AddResponse(api.MockResponse{Questions: s.original})
	return nil
}

func (s *scenarioState) givenGenerateFailure(status int, detail string) error {
	s.client.AddResponse(api.MockResponse{Err: &api.StatusError{StatusCode: status, Detail: detail}})
	return nil
}

func (s *scenarioState) whenDrop() error {
	s.send(s.uploadScreen(), tea.PasteMsg{Content: s.path})
	return nil
}

func (s *scenarioState) whenEnter() error {
	// With no typed path pending, Enter on the drop zone submits the form.
	s.send(s.uploadScreen(), tea.KeyPressMsg{Code: tea.KeyEnter})
	return nil
}

func (s *scenarioState) thenRejected(text string) error {
	if len(s.rejected) == 0 {
		return errors.New("no rejection was reported")
	}
	if got := s.rejected[len(s.rejected)-1].Err.Error(); got != text {
		return fmt.Errorf("rejection = %q, want %q", got, text)
	}
	return nil
}

func (s *scenarioState) thenNothingSelected() error {
	if f := s.uploadScreen().Selected(); f != nil {
		return fmt.Errorf("unexpected selection %q", f.Name)
	}
	return nil
}

func (s *scenarioState) thenSelections(n int) error {
	if s.selected != n {
		return fmt.Errorf("selection notifications = %d, want %d", s.selected, n)
	}
	return nil
}

func (s *scenarioState) thenResultsOpened(n int) error {
	if len(s.pushed) != 1 {
		return fmt.Errorf("screens pushed = %d, want 1", len(s.pushed))
	}
	qs, ok := s.pushed[0].Screen.(*questions.QuestionsScreen)
	if !ok {
		return fmt.Errorf("pushed %T, want *questions.QuestionsScreen", s.pushed[0].Screen)
	}
	items := qs.Items()
	if len(items) != n {
		return fmt.Errorf("results have %d questions, want %d", len(items), n)
	}
	for i := range items {
		if items[i] != s.original[i] {
			return fmt.Errorf("question %d = %+v, want %+v", i+1, items[i], s.original[i])
		}
	}
	return nil
}

func (s *scenarioState) thenNoScreen() error {
	if len(s.pushed) != 0 {
		return fmt.Errorf("screens pushed = %d, want 0", len(s.pushed))
	}
	if s.upload != nil && s.upload.InFlight() {
		return errors.New("upload is still in flight")
	}
	return nil
}

func (s *scenarioState) thenNotified(text string) error {
	for _, n := range s.notified {
		if n.Text == text {
			return nil
		}
	}
	return fmt.Errorf("notification %q not shown; got %v", text, s.notified)
}

// Question steps.

func (s *scenarioState) givenQuestions(n, k int) error {
	s.original = sampleQuestions(n)
	s.original[k-1].Answer = ""
	s.original[k-1].Rationale = ""
	return nil
}

func (s *scenarioState) givenContext() error {
	s.context = "Concurrency in Go relies on goroutines and channels."
	return nil
}

func (s *scenarioState) givenAnswer(answer, rationale string) error {
	s.client.AddResponse(api.MockResponse{Answer: &question.Answer{Answer: answer, Rationale: rationale}})
	return nil
}

func (s *scenarioState) whenAnswer(k int) error {
	s.answered = k - 1
	s.questions = questions.New(s.original, questions.Options{
		Client:  s.client,
		Context: s.context,
		Copy:    func(string) error { return nil },
	})
	for i := 0; i < s.answered; i++ {
		s.send(s.questions, tea.KeyPressMsg{Code: tea.KeyDown})
	}
	s.send(s.questions, tea.KeyPressMsg{Code: 'a', Text: "a"})
	return nil
}

func (s *scenarioState) thenAnswered(k int, answer string) error {
	items := s.questions.Items()
	if got := items[k-1].Answer; got != answer {
		return fmt.Errorf("question %d answer = %q, want %q", k, got, answer)
	}
	if s.questions.InFlight(k - 1) {
		return fmt.Errorf("question %d is still in flight", k)
	}
	return nil
}

func (s *scenarioState) thenOthersUnchanged() error {
	items := s.questions.Items()
	for i := range items {
		if i == s.answered {
			continue
		}
		if items[i] != s.original[i] {
			return fmt.Errorf("question %d changed: %+v", i+1, items[i])
		}
	}
	return nil
}

func (s *scenarioState) thenNoAnswerRequest() error {
	if n := len(s.client.AnswerCalls); n != 0 {
		return fmt.Errorf("answer requests = %d, want 0", n)
	}
	return nil
}

// Export steps.

func (s *scenarioState) givenNoQuestions() error {
	s.original = []question.Question{}
	return nil
}

func (s *scenarioState) givenLongAnswers(n, words int) error {
	s.original = sampleQuestions(n)
	long := strings.TrimSpace(strings.Repeat("interview ", words))
	for i := range s.original {
		s.original[i].Answer = long
	}
	return nil
}

func (s *scenarioState) whenExport(at string) error {
	now, err := time.Parse(time.RFC3339, at)
	if err != nil {
		return err
	}
	s.doc, err = export.Render(s.original, now)
	return err
}

func (s *scenarioState) thenPages(n int) error {
	if s.doc.Layout.Pages != n {
		return fmt.Errorf("pages = %d, want %d", s.doc.Layout.Pages, n)
	}
	return nil
}

func (s *scenarioState) thenMorePages(n int) error {
	if s.doc.Layout.Pages <= n {
		return fmt.Errorf("pages = %d, want more than %d", s.doc.Layout.Pages, n)
	}
	return nil
}

func (s *scenarioState) thenTitleAndDate(date string) error {
	lines := s.doc.Layout.Lines
	if len(lines) != 2 {
		return fmt.Errorf("document has %d lines, want 2", len(lines))
	}
	if lines[0].Kind != export.KindTitle || lines[0].Text != export.Title {
		return fmt.Errorf("first line = %+v, want the title", lines[0])
	}
	if lines[1].Kind != export.KindDate || lines[1].Text != date {
		return fmt.Errorf("second line = %+v, want %q", lines[1], date)
	}
	return nil
}

func (s *scenarioState) thenAnswersFit() error {
	answers := s.doc.Layout.LinesOf(export.KindAnswer)
	if len(answers) <= len(s.original) {
		return fmt.Errorf("answers did not wrap: %d lines for %d answers", len(answers), len(s.original))
	}
	for _, l := range answers {
		if l.X != export.AnswerLeft {
			return fmt.Errorf("answer line at x=%v, want %v", l.X, export.AnswerLeft)
		}
	}
	return nil
}

func (s *scenarioState) thenAboveBreak() error {
	for _, l := range s.doc.Layout.Lines {
		if l.Y > export.PageBreakY {
			return fmt.Errorf("line %q placed at y=%v", l.Text, l.Y)
		}
	}
	return nil
}
