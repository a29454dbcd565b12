package cmd

import (
	"bytes"
	"context"
	"io"
	"log"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/abhisek/trapz/internal/progression"
	"github.com/abhisek/trapz/internal/question"
	"github.com/abhisek/trapz/internal/quiz"
	"github.com/abhisek/trapz/internal/statsapi"
	"github.com/abhisek/trapz/internal/store"
	"github.com/abhisek/trapz/internal/trapgen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDeck() []question.Question {
	return []question.Question{
		{
			ID: "h1", Topic: "history", Text: "Who came first?",
			Options: []question.Option{
				{ID: "a", Text: "Caesar", IsCorrect: true},
				{ID: "b", Text: "Napoleon", IsTrap: true, Feedback: "Famous is not the same as early."},
			},
		},
		{
			ID: "h2", Topic: "history", Text: "Which is older?",
			Options: []question.Option{
				{ID: "a", Text: "Pyramids", IsCorrect: true},
				{ID: "b", Text: "Colosseum", IsTrap: true, Feedback: "Rome is old, Egypt is older."},
			},
		},
	}
}

func newPlaySession(deck []question.Question) (*quiz.Session, *progression.Service) {
	svc := progression.NewService(context.Background(), store.NewMemoryKV())
	return quiz.NewSession(svc, "history", deck), svc
}

// execute runs the root command with args against a fresh database.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	db := filepath.Join(t.TempDir(), "trapz.db")
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(append(args, "--db", db, "--offline"))
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestPlayLines(t *testing.T) {
	s, svc := newPlaySession(testDeck())
	var out bytes.Buffer

	err := playLines(context.Background(), s, strings.NewReader("1\n2\n"), &out, svc)
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "Who came first?")
	assert.Contains(t, text, "Excellent!")
	assert.Contains(t, text, "It's a TRAP!")
	assert.Contains(t, text, "Rome is old, Egypt is older.")
	assert.Contains(t, text, "1/2 correct, 1 traps")
	assert.Equal(t, 50, svc.State().XP)
	assert.Len(t, svc.State().Mistakes, 1)
}

func TestPlayLinesSkipAndQuit(t *testing.T) {
	s, svc := newPlaySession(testDeck())
	var out bytes.Buffer

	err := playLines(context.Background(), s, strings.NewReader("9\nq\n"), &out, svc)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "(skipped)")
	assert.Contains(t, out.String(), "0/2 correct")
	assert.Zero(t, svc.State().XP)
}

func TestPlayLinesInputClosed(t *testing.T) {
	s, svc := newPlaySession(testDeck())
	var out bytes.Buffer

	require.NoError(t, playLines(context.Background(), s, strings.NewReader(""), &out, svc))
	assert.Contains(t, out.String(), "(input closed)")
}

func TestPlayLinesEmptyDeck(t *testing.T) {
	s, svc := newPlaySession(nil)
	var out bytes.Buffer

	require.NoError(t, playLines(context.Background(), s, strings.NewReader(""), &out, svc))
	assert.Contains(t, out.String(), "No questions for this topic yet")
}

func TestGeneratorSources(t *testing.T) {
	for _, k := range []string{
		"TRAPZ_LLM_PROVIDER", "TRAPZ_ANTHROPIC_API_KEY", "TRAPZ_OPENAI_API_KEY",
		"TRAPZ_GEMINI_API_KEY", "TRAPZ_OPENROUTER_API_KEY",
		"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY",
	} {
		t.Setenv(k, "")
	}
	e := &env{
		apiConfig: statsapi.Config{Offline: true},
		logger:    log.New(io.Discard, "", 0),
	}
	ctx := context.Background()

	gen, err := e.generator(ctx, "bank")
	require.NoError(t, err)
	assert.Nil(t, gen)

	gen, err = e.generator(ctx, "local")
	require.NoError(t, err)
	assert.IsType(t, &trapgen.TemplateGenerator{}, gen)

	gen, err = e.generator(ctx, "remote")
	require.NoError(t, err)
	assert.IsType(t, &trapgen.TemplateGenerator{}, gen, "offline remote falls back to templates")

	_, err = e.generator(ctx, "llm")
	assert.ErrorContains(t, err, "no LLM provider")

	_, err = e.generator(ctx, "carrier-pigeon")
	assert.ErrorContains(t, err, "unknown question source")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "trapz (devel)\n", out)
}

func TestQuestionAddAndList(t *testing.T) {
	var out bytes.Buffer
	db := filepath.Join(t.TempDir(), "trapz.db")
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)

	rootCmd.SetArgs([]string{"question", "add", "--db", db, "--offline",
		"--topic", "math", "--text", "Is 1 a prime number?",
		"--correct", "No", "--trap", "Yes",
		"--feedback", "A prime has exactly two divisors.",
		"--wrong", "Only in base 2", "--explanation", ""})
	require.NoError(t, rootCmd.ExecuteContext(context.Background()))
	assert.Contains(t, out.String(), "to Mathematics")

	out.Reset()
	rootCmd.SetArgs([]string{"question", "list", "--db", db, "--offline", "--topic", "math"})
	require.NoError(t, rootCmd.ExecuteContext(context.Background()))
	assert.Contains(t, out.String(), "Is 1 a prime number?")
	assert.Contains(t, out.String(), "custom_")
}

func TestResetAbortsWithoutConfirmation(t *testing.T) {
	out, err := execute(t, "no\n", "reset")
	require.NoError(t, err)
	assert.Contains(t, out, "Aborted.")
}

func TestStatsFreshDatabase(t *testing.T) {
	out, err := execute(t, "", "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Level 1")
	assert.Contains(t, out, "🔒")
}

func TestLLMCommands(t *testing.T) {
	db := filepath.Join(t.TempDir(), "trapz.db")
	s, err := store.Open(db)
	require.NoError(t, err)
	repo := s.EventRepo()
	ctx := context.Background()

	good := `{"question_text": "Which is heavier, a kilogram of feathers or a kilogram of steel?",
		"concept": "Mass vs Density", "correct_answer": "They weigh the same",
		"trap_answer": "Steel", "trap_feedback": "A kilogram is a kilogram.", "wrong_answers": ["Feathers"]}`
	dup := `{"question_text": "2 + 2?", "concept": "Addition", "correct_answer": "4",
		"trap_answer": "4", "trap_feedback": "f", "wrong_answers": []}`
	for _, ev := range []store.LLMRequestEventData{
		{Provider: "mock", Model: "mock", Purpose: "trap-gen", Success: true, InputTokens: 120, OutputTokens: 60,
			RequestBody: "[user]\nTopic: Physics & Science\n", ResponseBody: good},
		{Provider: "mock", Model: "mock", Purpose: "trap-gen", Success: true,
			RequestBody: "[user]\nTopic: Mathematics\n", ResponseBody: dup},
		{Provider: "mock", Model: "mock", Purpose: "trap-gen", Success: false, ErrorMessage: "rate limited"},
		{Provider: "mock", Model: "mock", Purpose: "analyze", Success: true},
	} {
		require.NoError(t, repo.AppendLLMRequest(ctx, ev))
	}
	trapGen, err := repo.QueryLLMEvents(ctx, store.QueryOpts{Purpose: "trap-gen"})
	require.NoError(t, err)
	require.Len(t, trapGen, 3)
	goodID := trapGen[2].ID
	dupID := trapGen[1].ID
	require.NoError(t, s.Close())

	run := func(args ...string) string {
		t.Helper()
		var out bytes.Buffer
		rootCmd.SetOut(&out)
		rootCmd.SetErr(io.Discard)
		rootCmd.SetArgs(append(args, "--db", db, "--offline"))
		require.NoError(t, rootCmd.ExecuteContext(ctx))
		return out.String()
	}

	list := run("llm", "list")
	assert.Contains(t, list, "Physics & Science")
	assert.Contains(t, list, "question")
	assert.Contains(t, list, "rejected: options")
	assert.Contains(t, list, "error")
	assert.NotContains(t, list, "analyze")

	view := run("llm", "view", strconv.Itoa(goodID))
	assert.Contains(t, view, "Topic:    Physics & Science")
	assert.Contains(t, view, "✓ They weigh the same")
	assert.Contains(t, view, "⚠ Steel")
	assert.NotContains(t, view, "RESPONSE")

	view = run("llm", "view", strconv.Itoa(dupID), "--raw")
	assert.Contains(t, view, "Rejected:")
	assert.Contains(t, view, `duplicate answer "4"`)
	assert.Contains(t, view, "RESPONSE")

	stats := run("llm", "stats")
	assert.Contains(t, stats, "trap-gen")
	assert.Contains(t, stats, "66.7%")
	assert.Contains(t, stats, "TOTAL")

	assert.Contains(t, run("llm", "list", "--all"), "analyze")
}
