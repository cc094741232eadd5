// Package llm provides the chat-completion client for the AI advisors.
// The backend is an opaque OpenAI-compatible endpoint; responses stream back
// as server-sent events.
package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// Client handles chat-completion API calls
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// Config for the chat client
type Config struct {
	APIKey  string
	BaseURL string // OpenAI-compatible API base URL
	Model   string
	Timeout time.Duration
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		APIKey:  os.Getenv("ESTATEFLOW_CHAT_API_KEY"),
		BaseURL: "https://api.openai.com/v1",
		Model:   "gpt-4o-mini",
		Timeout: 120 * time.Second,
	}
}

// NewClient creates a new chat client
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 120 * time.Second
	}

	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		model:   cfg.Model,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Message represents a conversation message
type Message struct {
	Role    string `json:"role"` // "system", "user", "assistant"
	Content string `json:"content"`
}

// Request is the chat-completions request body
type Request struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Stream      bool      `json:"stream"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float64   `json:"temperature,omitempty"`
}

// streamChunk is one SSE data payload from the completion stream
type streamChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Stream sends a chat request and returns a channel of content deltas. The
// content channel is closed when the stream ends; a terminal failure arrives
// on the error channel. Cancelling ctx stops the stream.
func (c *Client) Stream(ctx context.Context, system string, messages []Message) (<-chan string, <-chan error) {
	contentChan := make(chan string, 16)
	errChan := make(chan error, 1)

	go func() {
		defer close(contentChan)
		defer close(errChan)

		allMessages := make([]Message, 0, len(messages)+1)
		if system != "" {
			allMessages = append(allMessages, Message{Role: "system", Content: system})
		}
		allMessages = append(allMessages, messages...)

		body, err := json.Marshal(Request{
			Model:    c.model,
			Messages: allMessages,
			Stream:   true,
		})
		if err != nil {
			errChan <- fmt.Errorf("marshal request: %w", err)
			return
		}

		httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/chat/completions", bytes.NewReader(body))
		if err != nil {
			errChan <- fmt.Errorf("create request: %w", err)
			return
		}

		httpReq.Header.Set("Content-Type", "application/json")
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
		httpReq.Header.Set("Accept", "text/event-stream")

		resp, err := c.httpClient.Do(httpReq)
		if err != nil {
			errChan <- fmt.Errorf("request failed: %w", err)
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			respBody, _ := io.ReadAll(resp.Body)
			errChan <- fmt.Errorf("chat API error %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
			return
		}

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

		for scanner.Scan() {
			line := scanner.Text()
			if !strings.HasPrefix(line, "data:") {
				continue
			}
			data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			if data == "" {
				continue
			}
			if data == "[DONE]" {
				return
			}

			var chunk streamChunk
			if err := json.Unmarshal([]byte(data), &chunk); err != nil {
				continue // Skip malformed keep-alive lines
			}
			if chunk.Error != nil {
				errChan <- fmt.Errorf("chat API error: %s", chunk.Error.Message)
				return
			}
			if len(chunk.Choices) > 0 {
				delta := chunk.Choices[0].Delta.Content
				if delta != "" {
					select {
					case contentChan <- delta:
					case <-ctx.Done():
						return
					}
				}
			}
		}

		if err := scanner.Err(); err != nil {
			errChan <- fmt.Errorf("stream read: %w", err)
		}
	}()

	return contentChan, errChan
}

// Chat collects a full streamed response into one string
func (c *Client) Chat(ctx context.Context, system string, messages []Message) (string, error) {
	contentChan, errChan := c.Stream(ctx, system, messages)

	var b strings.Builder
	for delta := range contentChan {
		b.WriteString(delta)
	}
	if err := <-errChan; err != nil {
		return "", err
	}

	return b.String(), nil
}

// IsConfigured checks if an API key is set
func (c *Client) IsConfigured() bool {
	return c.apiKey != ""
}

// Model returns the configured model
func (c *Client) Model() string {
	return c.model
}
