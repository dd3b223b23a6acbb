// Package providers adapts vendor SDKs to the orchestrator's Backend
// interface. Each backend rebuilds the vendor wire format from the flat
// message history: tool-call entries fold back into the assistant turn that
// issued them, tool-result entries become the vendor's result messages.
package providers

import (
	"context"
	"encoding/json"
	"fmt"

	anthropic "github.com/liushuangls/go-anthropic/v2"

	"heron/internal/orchestrator"
)

const defaultMaxTokens = 4096

// AnthropicBackend produces nodes via the Anthropic Messages API.
type AnthropicBackend struct {
	client    *anthropic.Client
	model     string
	system    string
	maxTokens int
}

// NewAnthropicBackend creates a backend for the given model. system may be
// empty.
func NewAnthropicBackend(apiKey, model, system string) *AnthropicBackend {
	return &AnthropicBackend{
		client:    anthropic.NewClient(apiKey),
		model:     model,
		system:    system,
		maxTokens: defaultMaxTokens,
	}
}

// NextNode implements orchestrator.Backend.
func (b *AnthropicBackend) NextNode(ctx context.Context, history []orchestrator.Message, tools []orchestrator.ToolSchema) (orchestrator.Node, error) {
	msgs, err := b.convertHistory(history)
	if err != nil {
		return orchestrator.Node{}, err
	}

	toolDefs, err := convertAnthropicTools(tools)
	if err != nil {
		return orchestrator.Node{}, err
	}

	req := anthropic.MessagesRequest{
		Model:     anthropic.Model(b.model),
		Messages:  msgs,
		MaxTokens: b.maxTokens,
	}
	if b.system != "" {
		req.MultiSystem = []anthropic.MessageSystemPart{{Type: "text", Text: b.system}}
	}
	if len(toolDefs) > 0 {
		req.Tools = toolDefs
	}

	resp, err := b.client.CreateMessages(ctx, req)
	if err != nil {
		return orchestrator.Node{}, fmt.Errorf("anthropic messages request: %w", err)
	}

	var node orchestrator.Node
	for _, block := range resp.Content {
		switch block.Type {
		case anthropic.MessagesContentTypeText:
			if block.Text != nil {
				node.Text += *block.Text
			}
		case "tool_use":
			if block.MessageContentToolUse == nil || block.Name == "" {
				continue
			}
			args := map[string]any{}
			if len(block.Input) > 0 {
				if err := json.Unmarshal(block.Input, &args); err != nil {
					args = map[string]any{}
				}
			}
			node.ToolCalls = append(node.ToolCalls, orchestrator.ToolCallRequest{
				ID:   block.ID,
				Name: block.Name,
				Args: args,
			})
		}
	}
	node.Truncated = resp.StopReason == "max_tokens"
	return node, nil
}

// convertHistory rebuilds Anthropic's alternating message shape. Consecutive
// tool-call entries fold into one assistant message, consecutive tool-result
// entries fold into one user message.
func (b *AnthropicBackend) convertHistory(history []orchestrator.Message) ([]anthropic.Message, error) {
	var msgs []anthropic.Message

	for i := 0; i < len(history); i++ {
		m := history[i]
		switch m.Kind {
		case orchestrator.KindUser, orchestrator.KindSystemNote:
			msgs = append(msgs, anthropic.Message{
				Role:    anthropic.RoleUser,
				Content: []anthropic.MessageContent{anthropic.NewTextMessageContent(m.Content)},
			})

		case orchestrator.KindAssistant:
			var content []anthropic.MessageContent
			if m.Content != "" {
				content = append(content, anthropic.NewTextMessageContent(m.Content))
			}
			// Fold the tool calls this turn issued into the same message.
			for i+1 < len(history) && history[i+1].Kind == orchestrator.KindToolCall {
				i++
				tc := history[i]
				content = append(content, anthropic.NewToolUseMessageContent(
					tc.CallID, tc.Name, json.RawMessage(argsOrEmpty(tc.Content)),
				))
			}
			if len(content) == 0 {
				continue
			}
			msgs = append(msgs, anthropic.Message{Role: anthropic.RoleAssistant, Content: content})

		case orchestrator.KindToolCall:
			// Calls without a preceding assistant text turn still need an
			// assistant message to hang off.
			var content []anthropic.MessageContent
			content = append(content, anthropic.NewToolUseMessageContent(
				m.CallID, m.Name, json.RawMessage(argsOrEmpty(m.Content)),
			))
			for i+1 < len(history) && history[i+1].Kind == orchestrator.KindToolCall {
				i++
				tc := history[i]
				content = append(content, anthropic.NewToolUseMessageContent(
					tc.CallID, tc.Name, json.RawMessage(argsOrEmpty(tc.Content)),
				))
			}
			msgs = append(msgs, anthropic.Message{Role: anthropic.RoleAssistant, Content: content})

		case orchestrator.KindToolResult:
			var content []anthropic.MessageContent
			content = append(content, toolResultContent(m))
			for i+1 < len(history) && history[i+1].Kind == orchestrator.KindToolResult {
				i++
				content = append(content, toolResultContent(history[i]))
			}
			msgs = append(msgs, anthropic.Message{Role: anthropic.RoleUser, Content: content})

		default:
			return nil, fmt.Errorf("cannot convert message kind %s", m.Kind)
		}
	}
	return msgs, nil
}

func toolResultContent(m orchestrator.Message) anthropic.MessageContent {
	content := m.Content
	if content == "" {
		content = "{}"
	}
	return anthropic.NewToolResultMessageContent(m.CallID, content, m.IsError)
}

func argsOrEmpty(raw string) string {
	if raw == "" {
		return "{}"
	}
	return raw
}

func convertAnthropicTools(tools []orchestrator.ToolSchema) ([]anthropic.ToolDefinition, error) {
	var defs []anthropic.ToolDefinition
	for _, ts := range tools {
		schema := map[string]any{"type": "object"}
		if ts.JSONSchema != "" {
			if err := json.Unmarshal([]byte(ts.JSONSchema), &schema); err != nil {
				return nil, fmt.Errorf("invalid tool schema for %s: %w", ts.Name, err)
			}
		}
		defs = append(defs, anthropic.ToolDefinition{
			Name:        ts.Name,
			Description: ts.Description,
			InputSchema: schema,
		})
	}
	return defs, nil
}
