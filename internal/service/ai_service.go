package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	config "github.com/maheshrc27/postgate/configs"
	"github.com/maheshrc27/postgate/internal/transfer"
	"github.com/maheshrc27/postgate/pkg/logging"
	"go.uber.org/zap"
)

// TextGenerator completes a single prompt against a chat completions API.
type TextGenerator interface {
	Complete(ctx context.Context, secret, prompt string) (string, error)
}

type aiService struct {
	baseURL string
	model   string
	client  *http.Client
}

func NewAIService(cfg config.Config) TextGenerator {
	return &aiService{
		baseURL: cfg.AI.BaseURL,
		model:   cfg.AI.Model,
		client:  &http.Client{Timeout: cfg.AI.Timeout},
	}
}

func (a *aiService) Complete(ctx context.Context, secret, prompt string) (string, error) {
	body, err := json.Marshal(transfer.ChatCompletionRequest{
		Model:    a.model,
		Messages: []transfer.ChatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build completion request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+secret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		logging.GetLogger().Info("completion request failed", zap.Error(err))
		return "", fmt.Errorf("request to text generation service failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read completion response: %w", err)
	}

	var result transfer.ChatCompletionResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("failed to decode completion response (status code: %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := http.StatusText(resp.StatusCode)
		if result.Error != nil && result.Error.Message != "" {
			msg = result.Error.Message
		}
		return "", fmt.Errorf("error response from text generation service: %s (status code: %d)", msg, resp.StatusCode)
	}

	if len(result.Choices) == 0 {
		return "", errors.New("text generation service returned no choices")
	}
	return strings.TrimSpace(result.Choices[0].Message.Content), nil
}
