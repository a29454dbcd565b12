package progression

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log"
	"testing"
	"time"

	"github.com/abhisek/trapz/internal/question"
	"github.com/abhisek/trapz/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockEventRepo records badge events and ignores everything else.
type mockEventRepo struct {
	store.EventRepo
	badges []store.BadgeEventData
	err    error
}

func (m *mockEventRepo) AppendBadgeEvent(_ context.Context, data store.BadgeEventData) error {
	m.badges = append(m.badges, data)
	return m.err
}

// failingKV fails every write.
type failingKV struct {
	*store.MemoryKV
}

func (f failingKV) Set(context.Context, string, []byte) error {
	return errors.New("disk full")
}

func fixedClock() func() time.Time {
	return func() time.Time { return testNow }
}

func TestServiceStartsFromZeroState(t *testing.T) {
	svc := NewService(context.Background(), store.NewMemoryKV())
	assert.Equal(t, NewState(), svc.State())
}

func TestServiceLoadsPersistedState(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()
	blob := `{"xp":1200,"level":2,"streak":1,"mistakes":[],"completedQuestions":["q1"],"badges":[{"id":"streak_3","name":"Sharp Eye","icon":"🎯","description":"Achieved a 3-question streak","dateUnlocked":"2026-01-02T03:04:05Z"}],"customQuestions":[]}`
	require.NoError(t, kv.Set(ctx, store.StateKey, []byte(blob)))

	st := NewService(ctx, kv).State()
	assert.Equal(t, 1200, st.XP)
	assert.Equal(t, 2, st.Level)
	assert.Equal(t, []string{"q1"}, st.CompletedQuestions)
	require.Len(t, st.Badges, 1)
	assert.Equal(t, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), st.Badges[0].DateUnlocked)
}

func TestServiceCorruptStateFallsBack(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()
	require.NoError(t, kv.Set(ctx, store.StateKey, []byte("{not json")))

	var buf bytes.Buffer
	svc := NewService(ctx, kv, WithLogger(log.New(&buf, "", 0)))
	assert.Equal(t, NewState(), svc.State())
	assert.Contains(t, buf.String(), "decode state")
}

func TestServiceNormalizesPartialState(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()
	require.NoError(t, kv.Set(ctx, store.StateKey, []byte(`{"xp":-5,"level":0}`)))

	st := NewService(ctx, kv).State()
	assert.Equal(t, 0, st.XP)
	assert.Equal(t, 1, st.Level)
	assert.NotNil(t, st.Mistakes)
	assert.NotNil(t, st.Badges)
}

func TestServicePersistsEveryTransition(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()
	svc := NewService(ctx, kv, WithClock(fixedClock()))

	svc.RecordSuccess(ctx, "q1")
	svc.AwardXP(ctx, 50)
	svc.RecordMistake(ctx, mistake("q2"))
	svc.AddCustomQuestion(ctx, question.Question{ID: "custom_x", Topic: "math", Text: "?"})

	data, err := kv.Get(ctx, store.StateKey)
	require.NoError(t, err)
	var saved State
	require.NoError(t, json.Unmarshal(data, &saved))
	assert.Equal(t, svc.State(), saved)

	reloaded := NewService(ctx, kv).State()
	assert.Equal(t, 50, reloaded.XP)
	assert.Equal(t, 0, reloaded.Streak)
	assert.Len(t, reloaded.Mistakes, 1)
	assert.Len(t, reloaded.CustomQuestions, 1)
}

func TestServicePersistFailureKeepsState(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	svc := NewService(ctx, failingKV{store.NewMemoryKV()}, WithLogger(log.New(&buf, "", 0)))

	change := svc.AwardXP(ctx, 50)
	assert.Equal(t, 50, change.State.XP)
	assert.Equal(t, 50, svc.State().XP)
	assert.Contains(t, buf.String(), "disk full")
}

func TestServiceNotifiesListeners(t *testing.T) {
	ctx := context.Background()
	repo := &mockEventRepo{}
	svc := NewService(ctx, store.NewMemoryKV(), WithClock(fixedClock()), WithEventRepo(repo))

	var changes []Change
	svc.Subscribe(func(c Change) {
		changes = append(changes, c)
		// Listeners may read back from the service.
		assert.Equal(t, c.State, svc.State())
	})

	for _, id := range []string{"a", "b", "c"} {
		svc.RecordSuccess(ctx, id)
	}

	require.Len(t, changes, 3)
	assert.Equal(t, EventSuccess, changes[0].Event)
	assert.Empty(t, changes[1].NewBadges)
	require.Len(t, changes[2].NewBadges, 1)
	assert.Equal(t, BadgeStreak3, changes[2].NewBadges[0].ID)

	require.Len(t, repo.badges, 1)
	assert.Equal(t, "Sharp Eye", repo.badges[0].Name)
}

func TestServiceBadgeEventFailureIsLogged(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	repo := &mockEventRepo{err: errors.New("locked")}
	svc := NewService(ctx, store.NewMemoryKV(), WithEventRepo(repo), WithLogger(log.New(&buf, "", 0)))

	svc.AwardXP(ctx, 5000)
	svc.AwardXP(ctx, 5000)
	svc.AwardXP(ctx, 5000)
	change := svc.AwardXP(ctx, 5000)
	assert.Equal(t, 5, change.State.Level)
	assert.Contains(t, buf.String(), "record badge level_5")
}

func TestServiceReset(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()
	svc := NewService(ctx, kv)
	svc.AwardXP(ctx, 300)

	var got Change
	svc.Subscribe(func(c Change) { got = c })
	require.NoError(t, svc.Reset(ctx))

	assert.Equal(t, EventReset, got.Event)
	assert.Equal(t, NewState(), svc.State())
	_, err := kv.Get(ctx, store.StateKey)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestServiceAllQuestionsAndProgress(t *testing.T) {
	ctx := context.Background()
	svc := NewService(ctx, store.NewMemoryKV())
	svc.AwardXP(ctx, 250)
	assert.InDelta(t, 0.25, svc.ProgressFraction(), 1e-9)

	svc.AddCustomQuestion(ctx, question.Question{ID: "custom_1"})
	all := svc.AllQuestions(question.DefaultBank())
	assert.Len(t, all, 5)
	assert.Equal(t, "custom_1", all[4].ID)
}
