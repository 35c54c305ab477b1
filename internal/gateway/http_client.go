package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"category-quiz-service/internal/domain"
)

// HTTPClient implements Gateway against the /api façade. It performs exactly
// one request per call and never retries.
type HTTPClient struct {
	baseURL string
	client  *http.Client
	now     func() time.Time
}

// StatusError is a non-2xx façade response.
type StatusError struct {
	StatusCode int
	Message    string
	kind       error
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("quiz api: %d %s", e.StatusCode, e.Message)
}

// Unwrap exposes the validation sentinel for 400 responses.
func (e *StatusError) Unwrap() error { return e.kind }

// NewHTTPClient targets baseURL, which already includes the /api prefix.
// A nil client falls back to http.DefaultClient.
func NewHTTPClient(baseURL string, client *http.Client) *HTTPClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPClient{baseURL: strings.TrimRight(baseURL, "/"), client: client, now: time.Now}
}

var _ Gateway = (*HTTPClient)(nil)

type questionBody struct {
	Question *string  `json:"question,omitempty"`
	Options  []string `json:"options,omitempty"`
	Correct  *int     `json:"correct,omitempty"`
}

type idResponse struct {
	ID      string `json:"id"`
	Success bool   `json:"success"`
}

func (c *HTTPClient) GetQuestions(ctx context.Context, category domain.Category) ([]domain.Question, error) {
	var resp struct {
		Questions []domain.Question `json:"questions"`
	}
	if err := c.do(ctx, http.MethodGet, "/quiz", category, nil, &resp, nil); err != nil {
		return nil, err
	}
	return resp.Questions, nil
}

func (c *HTTPClient) AddQuestion(ctx context.Context, category domain.Category, input domain.QuestionInput) (string, error) {
	if err := ValidateQuestion(input); err != nil {
		return "", err
	}
	correct, _ := strconv.Atoi(input.CorrectAnswer)
	body := questionBody{Question: &input.Question, Options: input.Options, Correct: &correct}
	var resp idResponse
	if err := c.do(ctx, http.MethodPost, "/questions", category, body, &resp, domain.ErrInvalidQuestion); err != nil {
		return "", err
	}
	return resp.ID, nil
}

func (c *HTTPClient) UpdateQuestion(ctx context.Context, category domain.Category, id string, patch domain.QuestionPatch) error {
	if err := ValidatePatch(patch); err != nil {
		return err
	}
	body := questionBody{Question: patch.Question, Options: patch.Options}
	if patch.CorrectAnswer != nil {
		correct, _ := strconv.Atoi(*patch.CorrectAnswer)
		body.Correct = &correct
	}
	return c.do(ctx, http.MethodPut, "/questions/"+url.PathEscape(id), category, body, nil, domain.ErrInvalidQuestion)
}

func (c *HTTPClient) DeleteQuestion(ctx context.Context, category domain.Category, id string) error {
	return c.do(ctx, http.MethodDelete, "/questions/"+url.PathEscape(id), category, nil, nil, nil)
}

func (c *HTTPClient) SaveQuizResult(ctx context.Context, category domain.Category, results []domain.QuizResult, score, total int) (string, error) {
	completedAt := c.now().UTC()
	body := struct {
		Answers        []domain.QuizResult `json:"answers"`
		Score          int                 `json:"score"`
		TotalQuestions int                 `json:"totalQuestions"`
		CompletedAt    time.Time           `json:"completedAt"`
	}{results, score, total, completedAt}
	if body.Answers == nil {
		body.Answers = []domain.QuizResult{}
	}
	var resp idResponse
	if err := c.do(ctx, http.MethodPost, "/submit", category, body, &resp, domain.ErrInvalidSubmission); err != nil {
		return "", err
	}
	return resp.ID, nil
}

func (c *HTTPClient) GetQuizResults(ctx context.Context) ([]domain.QuizSessionRecord, error) {
	var resp struct {
		Results []domain.QuizSessionRecord `json:"results"`
	}
	if err := c.do(ctx, http.MethodGet, "/results", "", nil, &resp, nil); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

func (c *HTTPClient) Stats(ctx context.Context, category domain.Category) (domain.Stats, error) {
	var stats domain.Stats
	if err := c.do(ctx, http.MethodGet, "/stats", category, nil, &stats, nil); err != nil {
		return domain.Stats{}, err
	}
	return stats, nil
}

// Health calls the liveness endpoint.
func (c *HTTPClient) Health(ctx context.Context) (string, error) {
	var resp struct {
		Status string `json:"status"`
	}
	if err := c.do(ctx, http.MethodGet, "/health", "", nil, &resp, nil); err != nil {
		return "", err
	}
	return resp.Status, nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, category domain.Category, in, out any, badRequest error) error {
	target := c.baseURL + path
	if category != "" {
		target += "?category=" + url.QueryEscape(string(category))
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&apiErr)
		statusErr := &StatusError{StatusCode: resp.StatusCode, Message: apiErr.Error}
		if resp.StatusCode == http.StatusBadRequest {
			statusErr.kind = badRequest
		}
		return statusErr
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}
