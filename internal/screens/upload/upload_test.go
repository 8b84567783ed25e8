package upload

import (
	"os"
	"path/filepath"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/qgen/internal/api"
	"github.com/abhisek/qgen/internal/question"
	"github.com/abhisek/qgen/internal/router"
	"github.com/abhisek/qgen/internal/screen"
	"github.com/abhisek/qgen/internal/ui/components"
)

// stubScreen stands in for the results screen.
type stubScreen struct {
	questions []question.Question
}

func (s *stubScreen) Init() tea.Cmd                          { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                   { return "results" }
func (s *stubScreen) Title() string                          { return "Questions" }

// drain runs cmd and any batched commands, returning the produced messages.
// Only call it with commands that do not sleep.
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
	return []tea.Msg{msg}
}

func find[T any](msgs []tea.Msg) (T, bool) {
	for _, m := range msgs {
		if v, ok := m.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

func writePDF(t *testing.T, name string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte("%PDF-1.4\nnot really a pdf"), 0o644))
	return p
}

func newTestScreen(mock *api.MockClient) (*UploadScreen, *stubScreen) {
	results := &stubScreen{}
	s := New(Options{
		Client: mock,
		Results: func(qs []question.Question) screen.Screen {
			results.questions = qs
			return results
		},
	})
	s.setFocus(fieldFile)
	return s, results
}

// selectFile drops path onto the screen and feeds back the selection.
func selectFile(t *testing.T, s *UploadScreen, path string) {
	t.Helper()
	_, cmd := s.Update(tea.PasteMsg{Content: path})
	msgs := drain(cmd)
	sel, ok := find[components.FileSelectedMsg](msgs)
	require.True(t, ok, "expected FileSelectedMsg, got %v", msgs)
	_, cmd = s.Update(sel)
	for _, m := range drain(cmd) {
		s.Update(m)
	}
}

func enter() tea.KeyPressMsg { return tea.KeyPressMsg{Code: tea.KeyEnter} }

func TestGenerate_NavigatesWithReturnedList(t *testing.T) {
	want := []question.Question{
		{Question: "What is a goroutine?", Difficulty: question.DifficultyMedium, Type: question.TypeComprehension},
		{Question: "When would you use a mutex?", Answer: "Shared state", Rationale: "Safety"},
	}
	mock := api.NewMockClient(api.MockResponse{Questions: want})
	s, results := newTestScreen(mock)
	selectFile(t, s, writePDF(t, "notes.pdf"))

	_, cmd := s.Update(enter())
	require.True(t, s.InFlight())

	msgs := drain(cmd)
	done, ok := find[generateDoneMsg](msgs)
	require.True(t, ok)

	_, cmd = s.Update(done)
	assert.False(t, s.InFlight())

	msgs = drain(cmd)
	push, ok := find[router.PushScreenMsg](msgs)
	require.True(t, ok)
	assert.Same(t, results, push.Screen)
	assert.Equal(t, want, results.questions)

	notice, ok := find[components.NotifyMsg](msgs)
	require.True(t, ok)
	assert.Equal(t, MsgGenerated, notice.Text)

	require.Len(t, mock.Calls, 1)
	assert.Equal(t, "notes.pdf", mock.Calls[0].File.Name)
	assert.Equal(t, question.DefaultParams(), mock.Calls[0].Params)
}

func TestGenerate_FailureStaysAndShowsDetail(t *testing.T) {
	mock := api.NewMockClient(api.MockResponse{Err: &api.StatusError{StatusCode: 500, Detail: "Model overloaded"}})
	s, results := newTestScreen(mock)
	selectFile(t, s, writePDF(t, "notes.pdf"))

	_, cmd := s.Update(enter())
	done, ok := find[generateDoneMsg](drain(cmd))
	require.True(t, ok)

	_, cmd = s.Update(done)
	msgs := drain(cmd)

	_, pushed := find[router.PushScreenMsg](msgs)
	assert.False(t, pushed)
	assert.Nil(t, results.questions)

	notice, ok := find[components.NotifyMsg](msgs)
	require.True(t, ok)
	assert.Equal(t, components.ToastError, notice.Kind)
	assert.Equal(t, "Model overloaded", notice.Text)
	assert.False(t, s.InFlight())
	require.NotNil(t, s.Selected())
}

func TestGenerate_FailureWithoutDetailUsesFallback(t *testing.T) {
	mock := api.NewMockClient(api.MockResponse{Err: &api.TransportError{}})
	s, _ := newTestScreen(mock)
	selectFile(t, s, writePDF(t, "notes.pdf"))

	_, cmd := s.Update(enter())
	done, _ := find[generateDoneMsg](drain(cmd))
	_, cmd = s.Update(done)

	notice, ok := find[components.NotifyMsg](drain(cmd))
	require.True(t, ok)
	assert.Equal(t, MsgGenerateFailed, notice.Text)
}

func TestGenerate_RequiresFile(t *testing.T) {
	mock := api.NewMockClient()
	s, _ := newTestScreen(mock)

	_, cmd := s.Update(enter())
	notice, ok := find[components.NotifyMsg](drain(cmd))
	require.True(t, ok)
	assert.Equal(t, MsgNoFile, notice.Text)
	assert.False(t, s.InFlight())
	assert.Equal(t, 0, mock.CallCount())
}

func TestGenerate_SubmitDisabledWhileInFlight(t *testing.T) {
	mock := api.NewMockClient(api.MockResponse{Questions: []question.Question{}})
	s, _ := newTestScreen(mock)
	selectFile(t, s, writePDF(t, "notes.pdf"))

	_, first := s.Update(enter())
	require.NotNil(t, first)

	_, second := s.Update(enter())
	assert.Nil(t, second)

	_, paste := s.Update(tea.PasteMsg{Content: writePDF(t, "other.pdf")})
	assert.Nil(t, paste, "drop zone is disabled while generating")
	assert.Equal(t, "notes.pdf", s.Selected().Name)
}

func TestGenerate_InvalidCountIsRejectedLocally(t *testing.T) {
	mock := api.NewMockClient()
	s, _ := newTestScreen(mock)
	selectFile(t, s, writePDF(t, "notes.pdf"))
	s.count.SetValue("0")

	_, cmd := s.Update(enter())
	notice, ok := find[components.NotifyMsg](drain(cmd))
	require.True(t, ok)
	assert.Contains(t, notice.Text, "between 1 and 20")
	assert.False(t, s.InFlight())
}

func TestSelectingSameFileTwiceIsNoop(t *testing.T) {
	s, _ := newTestScreen(api.NewMockClient())
	p := writePDF(t, "notes.pdf")
	selectFile(t, s, p)
	held := s.Selected()

	_, cmd := s.Update(tea.PasteMsg{Content: p})
	assert.Nil(t, cmd)
	assert.Same(t, held, s.Selected())
}

func TestFormEditsParams(t *testing.T) {
	s, _ := newTestScreen(api.NewMockClient())

	s.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	require.Equal(t, fieldCount, s.focus)
	s.Update(tea.KeyPressMsg{Code: tea.KeyBackspace})
	s.Update(tea.KeyPressMsg{Code: '8', Text: "8"})

	s.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	s.Update(tea.KeyPressMsg{Code: tea.KeyRight})

	s.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	s.Update(tea.KeyPressMsg{Code: tea.KeyLeft})

	assert.Equal(t, question.Params{
		Count:      8,
		Difficulty: question.DifficultyHard,
		Type:       question.TypeEvaluation,
	}, s.Params())
}

func TestView_ShowsForm(t *testing.T) {
	s, _ := newTestScreen(api.NewMockClient())
	v := s.View(100, 30)
	for _, want := range []string{"Interview Question Generator", "Drag & drop your PDF here", "Difficulty", "Generate Questions"} {
		assert.Contains(t, v, want)
	}
}
