package providers

import (
	"context"
	"encoding/json"
	"fmt"

	openai "github.com/meguminnnnnnnnn/go-openai"

	"heron/internal/orchestrator"
)

// OpenAIBackend produces nodes via the OpenAI chat completions API. It also
// serves any OpenAI-compatible endpoint through a custom base URL.
type OpenAIBackend struct {
	client *openai.Client
	model  string
	system string
}

// NewOpenAIBackend creates a backend for the given model. baseURL and system
// may be empty.
func NewOpenAIBackend(apiKey, model, baseURL, system string) *OpenAIBackend {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIBackend{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		system: system,
	}
}

// NextNode implements orchestrator.Backend.
func (b *OpenAIBackend) NextNode(ctx context.Context, history []orchestrator.Message, tools []orchestrator.ToolSchema) (orchestrator.Node, error) {
	msgs, err := b.convertHistory(history)
	if err != nil {
		return orchestrator.Node{}, err
	}
	if b.system != "" {
		msgs = append([]openai.ChatCompletionMessage{{
			Role:    openai.ChatMessageRoleSystem,
			Content: b.system,
		}}, msgs...)
	}

	req := openai.ChatCompletionRequest{
		Model:    b.model,
		Messages: msgs,
	}
	oaTools, err := convertOpenAITools(tools)
	if err != nil {
		return orchestrator.Node{}, err
	}
	if len(oaTools) > 0 {
		req.Tools = oaTools
		req.ToolChoice = "auto"
	}

	resp, err := b.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return orchestrator.Node{}, fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return orchestrator.Node{}, fmt.Errorf("openai returned no choices")
	}

	choice := resp.Choices[0]
	node := orchestrator.Node{
		Text:      choice.Message.Content,
		Truncated: choice.FinishReason == openai.FinishReasonLength,
	}
	for _, tc := range choice.Message.ToolCalls {
		args := map[string]any{}
		if tc.Function.Arguments != "" {
			if err := json.Unmarshal([]byte(tc.Function.Arguments), &args); err != nil {
				args = map[string]any{}
			}
		}
		node.ToolCalls = append(node.ToolCalls, orchestrator.ToolCallRequest{
			ID:   tc.ID,
			Name: tc.Function.Name,
			Args: args,
		})
	}
	return node, nil
}

// convertHistory rebuilds OpenAI's message shape: tool-call entries fold into
// the assistant turn's tool_calls field, tool-result entries become tool-role
// messages keyed by call id.
func (b *OpenAIBackend) convertHistory(history []orchestrator.Message) ([]openai.ChatCompletionMessage, error) {
	var msgs []openai.ChatCompletionMessage

	for i := 0; i < len(history); i++ {
		m := history[i]
		switch m.Kind {
		case orchestrator.KindUser, orchestrator.KindSystemNote:
			msgs = append(msgs, openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleUser,
				Content: m.Content,
			})

		case orchestrator.KindAssistant, orchestrator.KindToolCall:
			content := ""
			var calls []orchestrator.Message
			if m.Kind == orchestrator.KindAssistant {
				content = m.Content
			} else {
				calls = append(calls, m)
			}
			for i+1 < len(history) && history[i+1].Kind == orchestrator.KindToolCall {
				i++
				calls = append(calls, history[i])
			}

			msg := openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleAssistant,
				Content: content,
			}
			if msg.Content == "" && len(calls) > 0 {
				// The SDK serializes empty content as null, which the API
				// rejects alongside tool_calls.
				msg.Content = " "
			}
			for _, tc := range calls {
				msg.ToolCalls = append(msg.ToolCalls, openai.ToolCall{
					ID:   tc.CallID,
					Type: openai.ToolTypeFunction,
					Function: openai.FunctionCall{
						Name:      tc.Name,
						Arguments: argsOrEmpty(tc.Content),
					},
				})
			}
			msgs = append(msgs, msg)

		case orchestrator.KindToolResult:
			content := m.Content
			if content == "" {
				content = "{}"
			}
			msgs = append(msgs, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				ToolCallID: m.CallID,
				Content:    content,
			})

		default:
			return nil, fmt.Errorf("cannot convert message kind %s", m.Kind)
		}
	}
	return msgs, nil
}

func convertOpenAITools(tools []orchestrator.ToolSchema) ([]openai.Tool, error) {
	var defs []openai.Tool
	for _, ts := range tools {
		schema := map[string]any{"type": "object"}
		if ts.JSONSchema != "" {
			if err := json.Unmarshal([]byte(ts.JSONSchema), &schema); err != nil {
				return nil, fmt.Errorf("invalid tool schema for %s: %w", ts.Name, err)
			}
		}
		defs = append(defs, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        ts.Name,
				Description: ts.Description,
				Parameters:  schema,
			},
		})
	}
	return defs, nil
}
