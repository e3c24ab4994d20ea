package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"score_predictor_backend/internal/config"

	"github.com/sashabaranov/go-openai"
)

// TextCompleter sends one prompt to a text generation backend.
type TextCompleter interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

var ErrAINotConfigured = errors.New("AI api key is not configured")

// AIService talks to an OpenAI compatible chat completion endpoint.
type AIService struct {
	mu     sync.RWMutex
	config config.AIConfig
	client *openai.Client
}

func NewAIService(cfg config.AIConfig) *AIService {
	s := &AIService{}
	s.UpdateConfig(cfg)
	return s
}

// UpdateConfig swaps endpoint settings; in-flight calls keep the old client.
func (s *AIService) UpdateConfig(cfg config.AIConfig) {
	var client *openai.Client
	if cfg.APIKey != "" {
		clientCfg := openai.DefaultConfig(cfg.APIKey)
		if cfg.BaseURL != "" {
			clientCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
		}
		client = openai.NewClientWithConfig(clientCfg)
	}

	s.mu.Lock()
	s.config = cfg
	s.client = client
	s.mu.Unlock()
}

func (s *AIService) snapshot() (config.AIConfig, *openai.Client) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config, s.client
}

func (s *AIService) Complete(ctx context.Context, system, prompt string) (string, error) {
	cfg, client := s.snapshot()
	if client == nil {
		return "", ErrAINotConfigured
	}

	messages := []openai.ChatCompletionMessage{}
	if system != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: system,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt,
	})

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       cfg.Model,
		Temperature: 0.7,
		Messages:    messages,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("AI returned no choices")
	}

	content := resp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("AI returned an empty message")
	}
	return content, nil
}
