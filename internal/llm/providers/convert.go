package providers

import (
	"github.com/google/uuid"
	"github.com/tmc/langchaingo/llms"

	"github.com/parley-ai/parley/internal/llm"
)

// toSchemaMessages converts Parley messages to langchaingo MessageContent
func toSchemaMessages(messages []llm.Message) []llms.MessageContent {
	result := make([]llms.MessageContent, 0, len(messages))

	for _, msg := range messages {
		var role llms.ChatMessageType

		switch msg.Role {
		case llm.RoleSystem:
			role = llms.ChatMessageTypeSystem
		case llm.RoleUser:
			role = llms.ChatMessageTypeHuman
		case llm.RoleAssistant:
			role = llms.ChatMessageTypeAI
		default:
			role = llms.ChatMessageTypeHuman
		}

		result = append(result, llms.MessageContent{
			Role: role,
			Parts: []llms.ContentPart{
				llms.TextPart(msg.Content),
			},
		})
	}

	return result
}

// fromLangchainResponse converts a langchaingo response to a Parley response
func fromLangchainResponse(resp *llms.ContentResponse, model string) *llm.CompletionResponse {
	if resp == nil {
		return &llm.CompletionResponse{
			Model: model,
			ID:    uuid.New().String(),
		}
	}

	var content string
	finishReason := llm.FinishReasonStop

	if len(resp.Choices) > 0 {
		choice := resp.Choices[0]
		content = choice.Content

		switch choice.StopReason {
		case "", "stop":
			finishReason = llm.FinishReasonStop
		case "length", "max_tokens":
			finishReason = llm.FinishReasonLength
		case "content_filter":
			finishReason = llm.FinishReasonContentFilter
		default:
			finishReason = llm.FinishReasonStop
		}
	}

	return &llm.CompletionResponse{
		ID:    uuid.New().String(),
		Model: model,
		Message: llm.Message{
			Role:    llm.RoleAssistant,
			Content: content,
		},
		FinishReason: finishReason,
		Usage:        llm.CompletionTokenUsage{},
	}
}

// buildCallOptions converts a Parley request to langchaingo call options.
// Temperature always travels: the critic and strategist pin 0.0
// deliberately, so zero must reach the provider rather than fall back to
// its default sampling.
func buildCallOptions(req llm.CompletionRequest) []llms.CallOption {
	callOpts := make([]llms.CallOption, 0)

	callOpts = append(callOpts, llms.WithTemperature(req.Temperature))

	if req.MaxTokens > 0 {
		callOpts = append(callOpts, llms.WithMaxTokens(req.MaxTokens))
	}

	if req.TopP > 0 {
		callOpts = append(callOpts, llms.WithTopP(req.TopP))
	}

	if len(req.StopSequences) > 0 {
		callOpts = append(callOpts, llms.WithStopWords(req.StopSequences))
	}

	if req.Model != "" {
		callOpts = append(callOpts, llms.WithModel(req.Model))
	}

	return callOpts
}
