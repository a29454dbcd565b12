package statsapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/abhisek/trapz/internal/question"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 1 << 20

// API is the remote stats service.
type API interface {
	UserStats(ctx context.Context, userID string) (UserStats, error)
	Textbooks(ctx context.Context) ([]Textbook, error)
	Chapters(ctx context.Context, textbookID string) ([]Chapter, error)
	ChapterQuestions(ctx context.Context, chapterID string) ([]question.Question, error)
	GenerateQuestion(ctx context.Context, topic string) (question.Question, error)
	SubmitAnswer(ctx context.Context, a Answer) error
}

// Client talks to the remote service over HTTP. It does not retry.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a Client. A nil httpClient gets one with cfg.Timeout.
func NewClient(cfg Config, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    httpClient,
	}
}

// UserStats fetches GET /user-stats/{userID}. A missing name becomes
// DefaultUserName.
func (c *Client) UserStats(ctx context.Context, userID string) (UserStats, error) {
	var out UserStats
	err := c.getJSON(ctx, "/user-stats/"+url.PathEscape(userID), schemas["user-stats"], &out)
	if err != nil {
		return UserStats{}, err
	}
	if out.Name == "" {
		out.Name = DefaultUserName
	}
	return out, nil
}

// Textbooks lists the remote library.
func (c *Client) Textbooks(ctx context.Context) ([]Textbook, error) {
	var out []Textbook
	if err := c.getJSON(ctx, "/textbooks", schemas["textbooks"], &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Chapters lists the chapters of one textbook.
func (c *Client) Chapters(ctx context.Context, textbookID string) ([]Chapter, error) {
	var out []Chapter
	path := "/textbooks/" + url.PathEscape(textbookID) + "/chapters"
	if err := c.getJSON(ctx, path, schemas["chapters"], &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ChapterQuestions fetches the question set of a chapter.
func (c *Client) ChapterQuestions(ctx context.Context, chapterID string) ([]question.Question, error) {
	var wire []wireQuestion
	path := "/chapters/" + url.PathEscape(chapterID) + "/questions"
	if err := c.getJSON(ctx, path, schemas["questions"], &wire); err != nil {
		return nil, err
	}
	out := make([]question.Question, len(wire))
	for i, w := range wire {
		out[i] = w.question()
	}
	return out, nil
}

// GenerateQuestion asks the service for a fresh question on topic. The
// topic is filled in when the response omits it.
func (c *Client) GenerateQuestion(ctx context.Context, topic string) (question.Question, error) {
	var wire wireQuestion
	path := "/generate-question/" + url.PathEscape(topic)
	if err := c.getJSON(ctx, path, schemas["question"], &wire); err != nil {
		return question.Question{}, err
	}
	out := wire.question()
	if out.Topic == "" {
		out.Topic = topic
	}
	return out, nil
}

// SubmitAnswer posts an answer. The response body is ignored.
func (c *Client) SubmitAnswer(ctx context.Context, a Answer) error {
	body, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshal answer: %w", err)
	}
	resp, err := c.do(ctx, http.MethodPost, "/submit-answer", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &StatusError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(snippet)),
		}
	}
	return resp, nil
}

// getJSON fetches path, validates the body against schema and decodes it
// into out.
func (c *Client) getJSON(ctx context.Context, path string, schema *jsonschema.Schema, out any) error {
	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return &PayloadError{Path: path, Err: fmt.Errorf("invalid JSON: %w", err)}
	}
	if err := schema.Validate(doc); err != nil {
		return &PayloadError{Path: path, Err: err}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &PayloadError{Path: path, Err: err}
	}
	return nil
}
