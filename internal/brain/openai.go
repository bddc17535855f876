package brain

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	defaultModel   = "gpt-4o-mini"
	// The backend's own default deadline is far longer; a chat turn cannot
	// afford to wait minutes.
	defaultTimeout = 20 * time.Second
)

// OpenAIAdapter calls an OpenAI-compatible chat completions endpoint with a
// structured-output response format.
type OpenAIAdapter struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

func NewOpenAIAdapter(cfg Config) *OpenAIAdapter {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &OpenAIAdapter{
		apiKey:  cfg.APIKey,
		baseURL: baseURL,
		model:   model,
		client:  &http.Client{Timeout: timeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type imagePart struct {
	Type     string         `json:"type"`
	ImageURL map[string]any `json:"image_url,omitempty"`
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	ResponseFormat map[string]any `json:"response_format"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (a *OpenAIAdapter) Complete(ctx context.Context, req Request) (Completion, error) {
	payload, err := json.Marshal(chatRequest{
		Model:    a.model,
		Messages: buildMessages(req.Turns),
		ResponseFormat: map[string]any{
			"type":        "json_schema",
			"json_schema": responseSchema(),
		},
	})
	if err != nil {
		return Completion{}, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return Completion{}, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+a.apiKey)

	res, err := a.client.Do(httpReq)
	if err != nil {
		if isTimeout(err) {
			return Completion{}, fmt.Errorf("%w: %v", ErrModelTimeout, err)
		}
		return Completion{}, fmt.Errorf("send request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
		return Completion{}, fmt.Errorf("model backend status %d: %s", res.StatusCode, string(body))
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return Completion{}, fmt.Errorf("read response: %w", err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Completion{}, fmt.Errorf("decode response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return Completion{}, errors.New("model backend returned no choices")
	}
	return Completion{Raw: []byte(parsed.Choices[0].Message.Content)}, nil
}

func buildMessages(turns []Turn) []chatMessage {
	messages := make([]chatMessage, 0, len(turns))
	for _, turn := range turns {
		if turn.ImageURL != "" {
			messages = append(messages, chatMessage{
				Role: string(turn.Role),
				Content: []imagePart{{
					Type:     "image_url",
					ImageURL: map[string]any{"url": turn.ImageURL},
				}},
			})
			continue
		}
		messages = append(messages, chatMessage{Role: string(turn.Role), Content: turn.Text})
	}
	return messages
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
