package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	s, err := Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.DB() == nil {
		t.Fatal("expected non-nil db")
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestOpenFileDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trapz.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	ctx := context.Background()
	if err := s.KV().Set(ctx, StateKey, []byte(`{"xp":10}`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	s.Close()

	// Reopening runs migrations again and keeps the data.
	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	got, err := s.KV().Get(ctx, StateKey)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != `{"xp":10}` {
		t.Errorf("value = %q", got)
	}
}

func TestSQLiteKV(t *testing.T) {
	s := openTestStore(t)
	testKV(t, s.KV())
}

func TestMemoryKV(t *testing.T) {
	testKV(t, NewMemoryKV())
}

func testKV(t *testing.T, kv KV) {
	t.Helper()
	ctx := context.Background()

	if _, err := kv.Get(ctx, StateKey); !errors.Is(err, ErrNotFound) {
		t.Fatalf("get missing: err = %v, want ErrNotFound", err)
	}

	if err := kv.Set(ctx, StateKey, []byte("v1")); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := kv.Set(ctx, StateKey, []byte("v2")); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, err := kv.Get(ctx, StateKey)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != "v2" {
		t.Errorf("value = %q, want v2", got)
	}

	if err := kv.Delete(ctx, StateKey); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := kv.Delete(ctx, StateKey); err != nil {
		t.Fatalf("delete missing: %v", err)
	}
	if _, err := kv.Get(ctx, StateKey); !errors.Is(err, ErrNotFound) {
		t.Errorf("get after delete: err = %v, want ErrNotFound", err)
	}
}

func TestSequenceIsGlobal(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	if err := repo.AppendAnswerEvent(ctx, AnswerEventData{QuestionID: "q1", Topic: "cs", Verdict: "correct"}); err != nil {
		t.Fatalf("append answer: %v", err)
	}
	if err := repo.AppendBadgeEvent(ctx, BadgeEventData{BadgeID: "streak_3", Name: "Sharp Eye", XP: 150, Level: 1}); err != nil {
		t.Fatalf("append badge: %v", err)
	}
	if err := repo.AppendLLMRequest(ctx, LLMRequestEventData{Provider: "mock", Model: "mock", Purpose: "trap-gen", Success: true}); err != nil {
		t.Fatalf("append llm: %v", err)
	}

	answers, _ := repo.QueryAnswerEvents(ctx, QueryOpts{})
	badges, _ := repo.QueryBadgeEvents(ctx, QueryOpts{})
	llms, _ := repo.QueryLLMEvents(ctx, QueryOpts{})
	if len(answers) != 1 || len(badges) != 1 || len(llms) != 1 {
		t.Fatalf("got %d answers, %d badges, %d llm events", len(answers), len(badges), len(llms))
	}
	if !(answers[0].Sequence < badges[0].Sequence && badges[0].Sequence < llms[0].Sequence) {
		t.Errorf("sequences not increasing: %d, %d, %d", answers[0].Sequence, badges[0].Sequence, llms[0].Sequence)
	}
}

func TestQueryAnswerEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	data := []AnswerEventData{
		{SessionID: "s1", QuestionID: "q1", Topic: "cs", Verdict: "correct", XPAwarded: 50},
		{SessionID: "s1", QuestionID: "q2", Topic: "science", Verdict: "trap"},
		{SessionID: "s1", QuestionID: "q1", Topic: "cs", Verdict: "wrong"},
		{SessionID: "s2", QuestionID: "q3", Topic: "math", Verdict: "correct", XPAwarded: 50},
	}
	for _, d := range data {
		if err := repo.AppendAnswerEvent(ctx, d); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	all, err := repo.QueryAnswerEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("got %d events, want 4", len(all))
	}
	if all[0].QuestionID != "q3" {
		t.Errorf("newest first: got %s", all[0].QuestionID)
	}

	limited, _ := repo.QueryAnswerEvents(ctx, QueryOpts{Limit: 2})
	if len(limited) != 2 {
		t.Errorf("limit: got %d, want 2", len(limited))
	}

	cs, _ := repo.QueryAnswerEvents(ctx, QueryOpts{Topic: "cs", Limit: 10})
	if len(cs) != 2 {
		t.Errorf("topic filter: got %d, want 2", len(cs))
	}

	after, _ := repo.QueryAnswerEvents(ctx, QueryOpts{After: all[1].Sequence})
	if len(after) != 1 || after[0].QuestionID != "q3" {
		t.Errorf("after filter: got %+v", after)
	}

	future, _ := repo.QueryAnswerEvents(ctx, QueryOpts{From: time.Now().Add(time.Hour)})
	if len(future) != 0 {
		t.Errorf("from filter: got %d, want 0", len(future))
	}
}

func TestTopicStats(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for _, v := range []string{"correct", "trap", "wrong", "correct"} {
		if err := repo.AppendAnswerEvent(ctx, AnswerEventData{Topic: "cs", Verdict: v}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	if err := repo.AppendAnswerEvent(ctx, AnswerEventData{Topic: "math", Verdict: "trap"}); err != nil {
		t.Fatalf("append: %v", err)
	}

	stats, err := repo.TopicStats(ctx)
	if err != nil {
		t.Fatalf("topic stats: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("got %d topics, want 2", len(stats))
	}
	cs := stats[0]
	if cs.Topic != "cs" || cs.Total != 4 || cs.Correct != 2 || cs.Traps != 1 {
		t.Errorf("cs stats = %+v", cs)
	}
	if cs.Accuracy() != 0.5 {
		t.Errorf("cs accuracy = %v, want 0.5", cs.Accuracy())
	}
	if stats[1].Accuracy() != 0 {
		t.Errorf("math accuracy = %v, want 0", stats[1].Accuracy())
	}
}

func TestLLMEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []LLMRequestEventData{
		{Provider: "mock", Model: "mock", Purpose: "trap-gen", InputTokens: 100, OutputTokens: 50, LatencyMs: 200, Success: true, RequestBody: "[user]\nhi"},
		{Provider: "mock", Model: "mock", Purpose: "trap-gen", InputTokens: 300, OutputTokens: 150, LatencyMs: 400, Success: false, ErrorMessage: "boom"},
	}
	for _, e := range events {
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	list, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 10})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("got %d events, want 2", len(list))
	}
	if list[0].Success || list[0].ErrorMessage != "boom" {
		t.Errorf("newest event = %+v", list[0])
	}

	got, err := repo.GetLLMEvent(ctx, list[1].ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || got.RequestBody != "[user]\nhi" || !got.Success {
		t.Errorf("get = %+v", got)
	}

	if err := repo.AppendLLMRequest(ctx, LLMRequestEventData{Provider: "mock", Model: "mock", Purpose: "analyze", Success: true}); err != nil {
		t.Fatalf("append: %v", err)
	}
	trapGen, err := repo.QueryLLMEvents(ctx, QueryOpts{Purpose: "trap-gen"})
	if err != nil {
		t.Fatalf("query by purpose: %v", err)
	}
	if len(trapGen) != 2 {
		t.Errorf("got %d trap-gen events, want 2", len(trapGen))
	}
	limited, err := repo.QueryLLMEvents(ctx, QueryOpts{Purpose: "analyze", Limit: 5})
	if err != nil || len(limited) != 1 || limited[0].Purpose != "analyze" {
		t.Errorf("analyze events = %+v, %v", limited, err)
	}

	missing, err := repo.GetLLMEvent(ctx, 9999)
	if err != nil || missing != nil {
		t.Errorf("get missing = %v, %v", missing, err)
	}

	usage, err := repo.LLMUsageByPurpose(ctx)
	if err != nil {
		t.Fatalf("usage: %v", err)
	}
	if len(usage) != 2 {
		t.Fatalf("got %d purposes, want 2", len(usage))
	}
	if usage[0].Purpose != "analyze" || usage[0].Failures != 0 {
		t.Errorf("analyze usage = %+v", usage[0])
	}
	u := usage[1]
	if u.Calls != 2 || u.Failures != 1 || u.InputTokens != 400 || u.OutputTokens != 200 || u.AvgLatencyMs != 300 {
		t.Errorf("usage = %+v", u)
	}
}

func TestDefaultDBPathFromEnv(t *testing.T) {
	want := filepath.Join(t.TempDir(), "nested", "custom.db")
	t.Setenv("TRAPZ_DB", want)

	got, err := DefaultDBPath()
	if err != nil {
		t.Fatalf("default path: %v", err)
	}
	if got != want {
		t.Errorf("path = %q, want %q", got, want)
	}
}

func TestDefaultDBPathXDG(t *testing.T) {
	dataHome := t.TempDir()
	t.Setenv("TRAPZ_DB", "")
	t.Setenv("XDG_DATA_HOME", dataHome)

	got, err := DefaultDBPath()
	if err != nil {
		t.Fatalf("default path: %v", err)
	}
	want := filepath.Join(dataHome, "trapz", "trapz.db")
	if got != want {
		t.Errorf("path = %q, want %q", got, want)
	}
}
