package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
)

const (
	defaultModel         = "MiniMax-M2"
	defaultTimeout       = 60 * time.Second
	defaultStreamTimeout = 2 * time.Minute
)

// Client performs chat completions against an OpenAI-compatible endpoint.
type Client interface {
	ChatCompletion(ctx context.Context, req ChatCompletionRequest) (*ChatCompletionResponse, error)
	ChatCompletionStream(ctx context.Context, req ChatCompletionRequest) (Stream, error)
}

// ChatCompletionRequest is the request body for POST /chat/completions.
type ChatCompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature *float64  `json:"temperature,omitempty"`
	MaxTokens   *int      `json:"max_tokens,omitempty"`
	TopP        *float64  `json:"top_p,omitempty"`
	Stream      bool      `json:"stream,omitempty"`
}

// Message represents a single message in the conversation. Some reasoning
// models return their output under reasoning_content instead of content.
type Message struct {
	Role             string `json:"role"`
	Content          string `json:"content"`
	ReasoningContent string `json:"reasoning_content,omitempty"`
}

// ChatCompletionResponse is the response from POST /chat/completions.
type ChatCompletionResponse struct {
	ID      string   `json:"id"`
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
}

// Choice is a single completion choice.
type Choice struct {
	Index        int     `json:"index"`
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

// Usage reports token consumption.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
}

// Text returns the usable text of the first choice, falling back to
// reasoning_content when content is empty (Kimi-style thinking models).
// Returns an error when the response carries no choices or no text.
func (r *ChatCompletionResponse) Text() (string, error) {
	if len(r.Choices) == 0 {
		return "", eris.New("llm: response has no choices")
	}
	msg := r.Choices[0].Message
	if msg.Content != "" {
		return msg.Content, nil
	}
	if msg.ReasoningContent != "" {
		return msg.ReasoningContent, nil
	}
	return "", eris.New("llm: response content is empty")
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithModel overrides the default model.
func WithModel(model string) Option {
	return func(c *httpClient) {
		c.model = model
	}
}

// WithHTTPClient overrides the default http.Client for both buffered and
// streamed calls.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
		c.streamHTTP = hc
	}
}

// WithTimeouts overrides the buffered and streamed call timeouts. Zero
// values keep the defaults.
func WithTimeouts(buffered, stream time.Duration) Option {
	return func(c *httpClient) {
		if buffered > 0 {
			c.http.Timeout = buffered
		}
		if stream > 0 {
			c.streamHTTP.Timeout = stream
		}
	}
}

type httpClient struct {
	apiKey     string
	baseURL    string
	model      string
	http       *http.Client
	streamHTTP *http.Client
}

// NewClient creates a chat-completion client. The base URL must point at
// an OpenAI-compatible API root.
func NewClient(apiKey string, opts ...Option) Client {
	transport := &http.Transport{
		MaxIdleConnsPerHost: 20,
		IdleConnTimeout:     90 * time.Second,
	}
	c := &httpClient{
		apiKey: apiKey,
		model:  defaultModel,
		http: &http.Client{
			Timeout:   defaultTimeout,
			Transport: transport,
		},
		// Streamed completions run longer than a buffered call; the
		// overall client timeout covers reading the whole body.
		streamHTTP: &http.Client{
			Timeout:   defaultStreamTimeout,
			Transport: transport,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) ChatCompletion(ctx context.Context, req ChatCompletionRequest) (*ChatCompletionResponse, error) {
	req.Stream = false
	resp, err := c.post(ctx, c.http, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "llm: read response")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	var result ChatCompletionResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, eris.Wrap(err, "llm: unmarshal response")
	}

	return &result, nil
}

func (c *httpClient) ChatCompletionStream(ctx context.Context, req ChatCompletionRequest) (Stream, error) {
	req.Stream = true
	resp, err := c.post(ctx, c.streamHTTP, req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		return nil, &APIError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	return newSSEStream(resp.Body), nil
}

func (c *httpClient) post(ctx context.Context, hc *http.Client, req ChatCompletionRequest) (*http.Response, error) {
	if req.Model == "" {
		req.Model = c.model
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, eris.Wrap(err, "llm: marshal request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "llm: create request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := hc.Do(httpReq)
	if err != nil {
		return nil, eris.Wrap(err, "llm: send request")
	}
	return resp, nil
}
