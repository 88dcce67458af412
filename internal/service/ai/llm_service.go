// Package ai generates free-form answers with the configured chat model.
package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"go.uber.org/zap"

	"github.com/wrenhealth/careline/internal/config"
	"github.com/wrenhealth/careline/internal/model/chat"
	"github.com/wrenhealth/careline/internal/observability"
)

// systemPrompt frames every generation; booking and symptom turns never
// reach the model.
const systemPrompt = "You are an expert trained on healthcare and biomedical domain!"

// Service runs the answer-generation chain.
type Service struct {
	chain        compose.Runnable[map[string]any, *schema.Message]
	historyLimit int
}

// NewService builds the chat model from configuration and compiles the
// prompt chain.
func NewService(ctx context.Context, cfg config.AIConfig) (*Service, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}
	return newService(ctx, chatModel, cfg.HistoryLimit)
}

func newService(ctx context.Context, chatModel model.ChatModel, historyLimit int) (*Service, error) {
	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.MessagesPlaceholder("history", true),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	if historyLimit < 1 {
		historyLimit = 10
	}

	return &Service{
		chain:        runnable,
		historyLimit: historyLimit,
	}, nil
}

// GenerateAnswer produces one completed answer for the session transcript
// plus the new user query. The reply is trimmed of surrounding whitespace.
func (s *Service) GenerateAnswer(ctx context.Context, history []chat.Message, query string) (string, error) {
	input := map[string]any{
		"system":  systemPrompt,
		"history": s.buildHistoryMessages(history),
		"query":   query,
	}

	response, err := s.chain.Invoke(ctx, input)
	if err != nil {
		return "", fmt.Errorf("failed to run answer chain: %w", err)
	}

	observability.GetLogger().Debug("generated answer",
		zap.Int("history", len(history)),
		zap.Int("length", len(response.Content)),
	)
	return strings.TrimSpace(response.Content), nil
}

// buildHistoryMessages converts the transcript tail into model messages.
func (s *Service) buildHistoryMessages(messages []chat.Message) []*schema.Message {
	if len(messages) == 0 {
		return nil
	}

	startIdx := 0
	if len(messages) > s.historyLimit {
		startIdx = len(messages) - s.historyLimit
	}

	history := make([]*schema.Message, 0, len(messages)-startIdx)
	for _, msg := range messages[startIdx:] {
		switch msg.Role {
		case chat.RoleUser:
			history = append(history, schema.UserMessage(msg.Content))
		case chat.RoleAssistant:
			history = append(history, schema.AssistantMessage(msg.Content, nil))
		}
	}

	return history
}
