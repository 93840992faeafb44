package ai

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"telegram-order-notifier/internal/domain/ports/adapter"
)

var _ adapter.EstimateAdapter = (*OpenAIEstimator)(nil)

const systemPrompt = "You are an expert master tailor. A client will describe a garment repair " +
	"or custom sewing task. Estimate the realistic time needed to complete this " +
	"task in minutes. Reply ONLY in raw JSON format without markdown blocks. " +
	`Format: {"task_summary": "string", "estimated_minutes": integer}.`

// OpenAIEstimator asks a chat-completion model to turn a task description
// into a duration estimate.
type OpenAIEstimator struct {
	client *openai.Client
	model  string
}

func NewOpenAIEstimator(apiKey, model string) (*OpenAIEstimator, error) {
	if apiKey == "" {
		return nil, errors.New("openai api key empty")
	}
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIEstimator{client: openai.NewClient(apiKey), model: model}, nil
}

func (o *OpenAIEstimator) EstimateTask(ctx context.Context, description string) (adapter.TaskEstimate, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: description},
		},
	})
	if err != nil {
		return adapter.TaskEstimate{}, err
	}
	if len(resp.Choices) == 0 {
		return adapter.TaskEstimate{}, errors.New("openai: empty choices")
	}

	raw := strings.TrimSpace(resp.Choices[0].Message.Content)
	// Some models still wrap the payload in a fenced block despite the prompt.
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")

	var est adapter.TaskEstimate
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &est); err != nil {
		return adapter.TaskEstimate{}, err
	}
	if est.Minutes <= 0 {
		return adapter.TaskEstimate{}, errors.New("openai: non-positive estimate")
	}
	if est.Summary == "" {
		est.Summary = description
	}
	return est, nil
}
