package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/julianstephens/studyplan/internal/constants"
	"github.com/julianstephens/studyplan/internal/models"
)

// ErrNoAPIKey is returned when the OpenAI planner has no credentials.
var ErrNoAPIKey = errors.New("OpenAI API key is not configured")

// OpenAI asks a chat-completions model for a schedule in JSON mode.
type OpenAI struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
}

func NewOpenAI(apiKey, model, baseURL string) *OpenAI {
	if model == "" {
		model = constants.DefaultOpenAIModel
	}
	if baseURL == "" {
		baseURL = constants.DefaultOpenAIURL
	}
	return &OpenAI{
		APIKey:     apiKey,
		Model:      model,
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 2 * constants.DefaultProviderTimeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string            `json:"model"`
	Messages       []chatMessage     `json:"messages"`
	Temperature    float64           `json:"temperature"`
	ResponseFormat map[string]string `json:"response_format"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (c *OpenAI) Generate(ctx context.Context, req models.ScheduleRequest) (models.Schedule, error) {
	if c.APIKey == "" {
		return models.Schedule{}, ErrNoAPIKey
	}

	input, err := json.Marshal(req)
	if err != nil {
		return models.Schedule{}, fmt.Errorf("failed to encode request: %w", err)
	}
	body, err := json.Marshal(chatRequest{
		Model: c.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: string(input)},
		},
		ResponseFormat: map[string]string{"type": "json_object"},
	})
	if err != nil {
		return models.Schedule{}, fmt.Errorf("failed to encode chat request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return models.Schedule{}, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		return models.Schedule{}, fmt.Errorf("chat completion request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, constants.MaxRequestBytes*4))
	if err != nil {
		return models.Schedule{}, fmt.Errorf("failed to read chat completion: %w", err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return models.Schedule{}, fmt.Errorf("chat completion returned %s: %w", resp.Status, err)
	}
	if resp.StatusCode != http.StatusOK {
		msg := resp.Status
		if parsed.Error != nil && parsed.Error.Message != "" {
			msg = parsed.Error.Message
		}
		return models.Schedule{}, fmt.Errorf("chat completion failed: %s", msg)
	}
	if len(parsed.Choices) == 0 {
		return models.Schedule{}, errors.New("chat completion returned no choices")
	}

	var schedule models.Schedule
	if err := json.Unmarshal([]byte(parsed.Choices[0].Message.Content), &schedule); err != nil {
		return models.Schedule{}, fmt.Errorf("model reply is not a schedule: %w", err)
	}
	for i := range schedule.Days {
		schedule.Days[i].StudyMinutes = 0
		for _, b := range schedule.Days[i].Blocks {
			if b.Category == models.CategoryStudy {
				schedule.Days[i].StudyMinutes += b.Minutes()
			}
		}
	}

	return schedule, nil
}
