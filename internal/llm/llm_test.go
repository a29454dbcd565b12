package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log"
	"testing"
	"time"

	"github.com/abhisek/trapz/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSchema() *Schema {
	return &Schema{
		Name: "test-object",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"name":  map[string]any{"type": "string"},
				"age":   map[string]any{"type": "integer", "minimum": 0},
				"grade": map[string]any{"type": "string", "enum": []string{"A", "B", "C"}},
			},
			"required": []string{"name", "age"},
		},
	}
}

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"valid", `{"name":"Ada","age":10,"grade":"A"}`, false},
		{"optional omitted", `{"name":"Bob","age":8}`, false},
		{"missing required", `{"name":"Cy"}`, true},
		{"wrong type", `{"name":"Di","age":"ten"}`, true},
		{"bad enum", `{"name":"Ed","age":3,"grade":"Z"}`, true},
		{"not json", `name: Ed`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(testSchema(), json.RawMessage(tt.raw))
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var inv *ErrInvalidResponse
			require.True(t, errors.As(err, &inv), "got %v", err)
			assert.Equal(t, tt.raw, string(inv.Content))
		})
	}
}

func TestValidateResponseNilSchema(t *testing.T) {
	assert.NoError(t, validateResponse(nil, json.RawMessage("anything")))
}

func TestFinishRejectsTruncatedStructuredOutput(t *testing.T) {
	err := finish(Request{Schema: testSchema()}, json.RawMessage(`{"name":`), "max_tokens")
	var mt *ErrMaxTokensExceeded
	assert.True(t, errors.As(err, &mt))

	assert.NoError(t, finish(Request{}, json.RawMessage(`plain text`), "max_tokens"))
}

func TestMockProvider(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"a":1}`), Usage: Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}},
		MockResponse{Err: &ErrRateLimit{}},
	)
	ctx := context.Background()

	resp, err := mock.Generate(ctx, Request{System: "sys", Messages: UserPrompt("first")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(resp.Content))
	assert.Equal(t, 10, resp.Usage.InputTokens)
	assert.Equal(t, "end", resp.StopReason)

	_, err = mock.Generate(ctx, Request{})
	var rl *ErrRateLimit
	assert.True(t, errors.As(err, &rl))

	_, err = mock.Generate(ctx, Request{})
	var unavail *ErrProviderUnavailable
	assert.True(t, errors.As(err, &unavail))

	assert.Equal(t, 3, mock.CallCount())
	assert.Equal(t, "sys", mock.Calls[0].System)
	assert.Equal(t, "mock", mock.ModelID())
}

func TestMockProviderValidatesSchema(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{"name":"x"}`)})
	_, err := mock.Generate(context.Background(), Request{Schema: testSchema()})
	var inv *ErrInvalidResponse
	assert.True(t, errors.As(err, &inv))
}

func TestPurposeContext(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "unknown", PurposeFrom(ctx))
	assert.Equal(t, "trap-gen", PurposeFrom(WithPurpose(ctx, "trap-gen")))
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"anthropic without key", Config{Provider: ProviderAnthropic}, "TRAPZ_ANTHROPIC_API_KEY"},
		{"anthropic with key", Config{Provider: ProviderAnthropic, Anthropic: ProviderConfig{APIKey: "k"}}, ""},
		{"openrouter without key", Config{Provider: ProviderOpenRouter}, "TRAPZ_OPENROUTER_API_KEY"},
		{"gemini with key", Config{Provider: ProviderGemini, Gemini: ProviderConfig{APIKey: "k"}}, ""},
		{"mock", Config{Provider: ProviderMock}, ""},
		{"unknown", Config{Provider: "llama"}, "unknown LLM provider"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				assert.True(t, tt.cfg.Configured())
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.False(t, tt.cfg.Configured())
		})
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("TRAPZ_LLM_PROVIDER", "openai")
	t.Setenv("TRAPZ_OPENAI_API_KEY", "sk-test")
	t.Setenv("TRAPZ_OPENAI_MODEL", "gpt-4o")

	cfg := ConfigFromEnv()
	assert.Equal(t, ProviderOpenAI, cfg.Provider)
	assert.Equal(t, "sk-test", cfg.OpenAI.APIKey)
	assert.Equal(t, "gpt-4o", cfg.OpenAI.Model)
	assert.Equal(t, "claude-haiku", cfg.Anthropic.Model)
	assert.NoError(t, cfg.Validate())
}

func TestDiscoverConfig(t *testing.T) {
	for _, k := range []string{"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY"} {
		t.Setenv(k, "")
	}
	_, ok := DiscoverConfig()
	assert.False(t, ok)

	t.Setenv("ANTHROPIC_API_KEY", "a")
	t.Setenv("OPENAI_API_KEY", "o")
	cfg, ok := DiscoverConfig()
	require.True(t, ok)
	assert.Equal(t, ProviderOpenAI, cfg.Provider)
	assert.Equal(t, "o", cfg.OpenAI.APIKey)
}

func fastRetry() RetryConfig {
	return RetryConfig{MaxAttempts: 3, InitialWait: time.Millisecond, MaxWait: 5 * time.Millisecond, Multiplier: 2}
}

func TestRetry(t *testing.T) {
	tests := []struct {
		name      string
		responses []MockResponse
		wantErr   bool
		wantCalls int
	}{
		{
			name:      "first attempt succeeds",
			responses: []MockResponse{{Content: json.RawMessage(`{}`)}},
			wantCalls: 1,
		},
		{
			name: "transient then success",
			responses: []MockResponse{
				{Err: &ErrProviderUnavailable{Err: errors.New("down")}},
				{Err: &ErrRateLimit{}},
				{Content: json.RawMessage(`{}`)},
			},
			wantCalls: 3,
		},
		{
			name: "gives up after max attempts",
			responses: []MockResponse{
				{Err: &ErrProviderUnavailable{}},
				{Err: &ErrProviderUnavailable{}},
				{Err: &ErrProviderUnavailable{}},
				{Content: json.RawMessage(`{}`)},
			},
			wantErr:   true,
			wantCalls: 3,
		},
		{
			name: "invalid response retried once",
			responses: []MockResponse{
				{Err: &ErrInvalidResponse{Err: errors.New("bad")}},
				{Err: &ErrInvalidResponse{Err: errors.New("bad again")}},
				{Content: json.RawMessage(`{}`)},
			},
			wantErr:   true,
			wantCalls: 2,
		},
		{
			name:      "max tokens not retried",
			responses: []MockResponse{{Err: &ErrMaxTokensExceeded{}}, {Content: json.RawMessage(`{}`)}},
			wantErr:   true,
			wantCalls: 1,
		},
		{
			name:      "context errors not retried",
			responses: []MockResponse{{Err: context.DeadlineExceeded}, {Content: json.RawMessage(`{}`)}},
			wantErr:   true,
			wantCalls: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockProvider(tt.responses...)
			_, err := WithRetry(mock, fastRetry()).Generate(context.Background(), Request{})
			assert.Equal(t, tt.wantErr, err != nil, "err = %v", err)
			assert.Equal(t, tt.wantCalls, mock.CallCount())
		})
	}
}

func TestRetryStopsOnCancel(t *testing.T) {
	mock := NewMockProvider(MockResponse{Err: &ErrProviderUnavailable{}}, MockResponse{Content: json.RawMessage(`{}`)})
	cfg := RetryConfig{MaxAttempts: 3, InitialWait: time.Hour, MaxWait: time.Hour, Multiplier: 1}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := WithRetry(mock, cfg).Generate(ctx, Request{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, mock.CallCount())
}

func TestBackoffRespectsRetryAfter(t *testing.T) {
	r := &RetryProvider{config: fastRetry()}
	assert.Equal(t, 2*time.Second, r.backoff(0, &ErrRateLimit{RetryAfter: 2 * time.Second}))

	for attempt := range 5 {
		d := r.backoff(attempt, errors.New("x"))
		assert.LessOrEqual(t, d, time.Duration(float64(5*time.Millisecond)*1.2)+1)
		assert.GreaterOrEqual(t, d, time.Duration(0))
	}
}

// mockEventRepo captures LLM events.
type mockEventRepo struct {
	store.EventRepo
	events []store.LLMRequestEventData
	err    error
}

func (m *mockEventRepo) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	m.events = append(m.events, data)
	return m.err
}

func TestLoggingProvider(t *testing.T) {
	repo := &mockEventRepo{}
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"name":"Ada","age":3}`), Usage: Usage{InputTokens: 12, OutputTokens: 7}},
		MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}},
	)
	p := WithLogging(mock, "mock", repo, nil)
	ctx := WithPurpose(context.Background(), "trap-gen")

	req := Request{System: "be tricky", Messages: UserPrompt("make a trap"), Schema: testSchema()}
	_, err := p.Generate(ctx, req)
	require.NoError(t, err)
	_, err = p.Generate(ctx, req)
	require.Error(t, err)

	require.Len(t, repo.events, 2)
	ok := repo.events[0]
	assert.True(t, ok.Success)
	assert.Equal(t, "trap-gen", ok.Purpose)
	assert.Equal(t, 12, ok.InputTokens)
	assert.Contains(t, ok.RequestBody, "[system]\nbe tricky")
	assert.Contains(t, ok.RequestBody, "[user]\nmake a trap")
	assert.Contains(t, ok.RequestBody, "[schema: test-object]")
	assert.JSONEq(t, `{"name":"Ada","age":3}`, ok.ResponseBody)

	failed := repo.events[1]
	assert.False(t, failed.Success)
	assert.Contains(t, failed.ErrorMessage, "down")
}

func TestLoggingProviderRepoFailure(t *testing.T) {
	var buf bytes.Buffer
	repo := &mockEventRepo{err: errors.New("db locked")}
	p := WithLogging(NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)}), "mock", repo, log.New(&buf, "", 0))

	_, err := p.Generate(context.Background(), Request{})
	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "db locked")
}

func TestNewProvider(t *testing.T) {
	ctx := context.Background()

	p, err := NewProvider(ctx, Config{Provider: ProviderMock}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "mock", p.ModelID())

	_, err = NewProvider(ctx, Config{Provider: "nope"}, nil, nil)
	assert.Error(t, err)

	_, err = NewProvider(ctx, Config{Provider: ProviderAnthropic}, nil, nil)
	assert.Error(t, err)

	cfg := DefaultConfig()
	cfg.Provider = ProviderOpenRouter
	cfg.OpenRouter.APIKey = "k"
	p, err = NewProvider(ctx, cfg, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "google/gemini-2.0-flash-exp", p.ModelID())
}
