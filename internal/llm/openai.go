package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/openmevzuat/mevzuat/internal/models"
)

// OpenAIClient calls an OpenAI-compatible chat completions endpoint.
type OpenAIClient struct {
	baseURL     string
	apiKey      string
	model       string
	temperature float64
	client      *http.Client
}

// NewOpenAIClient creates a chat completions client.
func NewOpenAIClient(baseURL, apiKey, model string, temperature float64) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("LLM API key is empty")
	}
	return &OpenAIClient{
		baseURL:     baseURL,
		apiKey:      apiKey,
		model:       model,
		temperature: temperature,
		client:      &http.Client{Timeout: 90 * time.Second},
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage Usage `json:"usage"`
}

// Complete sends the conversation to the model and returns its reply.
func (c *OpenAIClient) Complete(ctx context.Context, messages []models.ConversationTurn) (Completion, error) {
	reqMessages := make([]chatMessage, len(messages))
	for i, m := range messages {
		reqMessages[i] = chatMessage{Role: string(m.Role), Content: m.Content}
	}
	payload, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    reqMessages,
		Temperature: c.temperature,
	})
	if err != nil {
		return Completion{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return Completion{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return Completion{}, fmt.Errorf("completion request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return Completion{}, fmt.Errorf("completion API returned %d: %s", resp.StatusCode, string(b))
	}

	var response chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return Completion{}, fmt.Errorf("decode completion response: %w", err)
	}
	if len(response.Choices) == 0 {
		return Completion{}, fmt.Errorf("completion API returned no choices")
	}
	return Completion{
		Text:  response.Choices[0].Message.Content,
		Usage: response.Usage,
	}, nil
}
