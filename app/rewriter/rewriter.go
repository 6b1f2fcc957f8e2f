package rewriter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sashabaranov/go-openai"
)

const (
	DefaultModel       = "gpt-4.1-nano"
	DefaultTemperature = 0.2
	DefaultTimeout     = 60 * time.Second

	maxTokens        = 4096
	frequencyPenalty = 0.5
	presencePenalty  = 0.3
	logPreviewLength = 500
)

var (
	openingFenceRe = regexp.MustCompile("(?i)^```json\\s*")
	closingFenceRe = regexp.MustCompile("\\s*```$")
)

type Config struct {
	APIKey         string
	BaseURL        string
	Model          string
	Temperature    float64
	BasicModels    []string
	PromptTemplate string
	Timeout        time.Duration
	HTTPClient     *http.Client
}

// Result is the decoded model answer.
type Result struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Slug     string `json:"slug"`
	Category string `json:"category"`
	Excerpt  string `json:"excerpt"`
	Tags     Tags   `json:"tags"`
}

// Tags decodes either a JSON array of strings or a comma separated string.
type Tags []string

func (t *Tags) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*t = cleanTags(list)
		return nil
	}

	var joined string
	if err := json.Unmarshal(data, &joined); err != nil {
		return fmt.Errorf("tags must be an array or a string: %w", err)
	}
	*t = cleanTags(strings.Split(joined, ","))
	return nil
}

func cleanTags(tags []string) []string {
	cleaned := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			cleaned = append(cleaned, tag)
		}
	}
	return cleaned
}

type Rewriter struct {
	client *openai.Client
	cfg    Config
}

func New(cfg Config) *Rewriter {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = strings.TrimRight(cfg.BaseURL, "/") + "/v1"
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	clientConfig.HTTPClient = &http.Client{
		Transport: httpClient.Transport,
		Timeout:   cfg.Timeout,
	}

	return &Rewriter{
		client: openai.NewClientWithConfig(clientConfig),
		cfg:    cfg,
	}
}

func (r *Rewriter) Model() string {
	return r.cfg.Model
}

func (r *Rewriter) isBasicModel() bool {
	return slices.Contains(r.cfg.BasicModels, r.cfg.Model)
}

func (r *Rewriter) buildRequest(prompt string) openai.ChatCompletionRequest {
	req := openai.ChatCompletionRequest{
		Model: r.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	}

	if r.isBasicModel() {
		req.MaxCompletionTokens = maxTokens
		return req
	}

	req.Temperature = float32(r.cfg.Temperature)
	req.FrequencyPenalty = frequencyPenalty
	req.PresencePenalty = presencePenalty
	req.MaxTokens = maxTokens

	return req
}

// Rewrite asks the model for a new article based on title and content. Errors
// are *APIError or *JSONDecodeError; nothing is retried.
func (r *Rewriter) Rewrite(ctx context.Context, title, content, language string, categoryNames []string) (*Result, error) {
	return r.RewritePrompt(ctx, BuildPrompt(r.cfg.PromptTemplate, language, title, content, categoryNames))
}

// RewritePrompt sends an already built prompt.
func (r *Rewriter) RewritePrompt(ctx context.Context, prompt string) (*Result, error) {
	req := r.buildRequest(prompt)

	slog.Debug("Sending rewrite request",
		"model", req.Model,
		"temperature", req.Temperature,
		"basic_model", r.isBasicModel(),
		"prompt", truncate(prompt, logPreviewLength))

	resp, err := r.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, classify(err)
	}

	if len(resp.Choices) == 0 {
		return nil, &APIError{Kind: KindUnexpected, Status: http.StatusOK, Body: "response has no choices"}
	}

	raw := resp.Choices[0].Message.Content

	slog.Debug("Rewrite response received",
		"model", resp.Model,
		"response", truncate(raw, logPreviewLength))

	return Decode(raw)
}

// Decode strips an optional ```json fence and decodes the model output.
func Decode(raw string) (*Result, error) {
	text := strings.TrimSpace(raw)
	text = openingFenceRe.ReplaceAllString(text, "")
	text = closingFenceRe.ReplaceAllString(text, "")

	var result Result
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		slog.Warn("Model output is not valid JSON", "raw", truncate(raw, logPreviewLength), "error", err)
		return nil, &JSONDecodeError{Raw: raw, Err: err}
	}

	if strings.TrimSpace(result.Title) == "" || strings.TrimSpace(result.Content) == "" {
		return nil, &JSONDecodeError{Raw: raw, Err: errors.New("title or content is missing")}
	}

	return &result, nil
}

func classify(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return statusError(apiErr.HTTPStatusCode, apiErr.Message, err)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return statusError(reqErr.HTTPStatusCode, reqErr.Error(), err)
	}

	return &APIError{Kind: KindTransport, Err: err}
}

func statusError(status int, body string, err error) *APIError {
	switch status {
	case http.StatusTooManyRequests:
		return &APIError{Kind: KindRateLimit, Status: status, Body: body, Err: err}
	case http.StatusUnauthorized:
		return &APIError{Kind: KindAuth, Status: status, Body: body, Err: err}
	default:
		return &APIError{Kind: KindGeneric, Status: status, Body: body, Err: err}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
