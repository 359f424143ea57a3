package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	groqBaseURL   = "https://api.groq.com/openai/v1"
	openAIBaseURL = "https://api.openai.com/v1"
)

// ChatClient talks to any OpenAI compatible chat completions endpoint.
type ChatClient struct {
	apiKey string
	model  string
	base   string
	http   *http.Client
}

func NewGroqClient(apiKey, model string, timeout time.Duration) *ChatClient {
	return NewChatClient(groqBaseURL, apiKey, model, timeout)
}

func NewOpenAIClient(apiKey, model string, timeout time.Duration) *ChatClient {
	return NewChatClient(openAIBaseURL, apiKey, model, timeout)
}

func NewChatClient(base, apiKey, model string, timeout time.Duration) *ChatClient {
	return &ChatClient{
		apiKey: apiKey,
		model:  model,
		base:   base,
		http:   &http.Client{Timeout: timeout},
	}
}

type ChatRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float32       `json:"temperature,omitempty"`
}

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatResponse struct {
	ID      string `json:"id"`
	Choices []struct {
		Message ChatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Generate sends the prompt as a single user message.
func (c *ChatClient) Generate(ctx context.Context, prompt string) (string, error) {
	return c.Chat(ctx, ChatRequest{
		Messages:    []ChatMessage{{Role: "user", Content: prompt}},
		Temperature: 0.7,
	})
}

func (c *ChatClient) Chat(ctx context.Context, req ChatRequest) (string, error) {
	if req.Model == "" {
		req.Model = c.model
	}

	b, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("encode chat request: %w", err)
	}
	r, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/chat/completions", bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	r.Header.Set("Authorization", "Bearer "+c.apiKey)
	r.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(r)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read chat response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("chat api error: status %d: %s", resp.StatusCode, truncate(string(bodyBytes), 512))
	}

	var ch ChatResponse
	if err := json.Unmarshal(bodyBytes, &ch); err != nil {
		return "", fmt.Errorf("decode error: %w", err)
	}
	if ch.Error != nil {
		return "", fmt.Errorf("api error: %s", ch.Error.Message)
	}
	if len(ch.Choices) == 0 || ch.Choices[0].Message.Content == "" {
		return "", ErrEmptyCompletion
	}
	return ch.Choices[0].Message.Content, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
