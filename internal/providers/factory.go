package providers

import (
	"fmt"
	"os"

	"heron/internal/config"
	"heron/internal/orchestrator"
)

// openAICompatible describes a provider reachable through the OpenAI wire
// protocol at a fixed or overridable base URL.
type openAICompatible struct {
	keyEnv       string
	modelEnv     string
	defaultModel string
	baseURLEnv   string
	baseURL      string
	keyOptional  bool // local servers accept any key
}

var compatibleProviders = map[string]openAICompatible{
	"openai": {
		keyEnv: "OPENAI_API_KEY", modelEnv: "OPENAI_MODEL",
		defaultModel: "gpt-4o-mini", baseURLEnv: "OPENAI_BASE_URL",
	},
	"kimi": {
		keyEnv: "KIMI_API_KEY", modelEnv: "KIMI_MODEL",
		defaultModel: "kimi-k2-250711", baseURLEnv: "KIMI_BASE_URL",
		baseURL: "https://ark.ap-southeast.bytepluses.com/api/v3",
	},
	"deepseek": {
		keyEnv: "DEEPSEEK_API_KEY", modelEnv: "DEEPSEEK_MODEL",
		defaultModel: "deepseek-chat",
		baseURL:      "https://api.deepseek.com/v1",
	},
	"groq": {
		keyEnv: "GROQ_API_KEY", modelEnv: "GROQ_MODEL",
		defaultModel: "llama-3.1-70b-versatile",
		baseURL:      "https://api.groq.com/openai/v1",
	},
	"ollama": {
		keyEnv: "OLLAMA_API_KEY", modelEnv: "OLLAMA_MODEL",
		defaultModel: "llama3.1", baseURLEnv: "OLLAMA_BASE_URL",
		baseURL: "http://localhost:11434/v1", keyOptional: true,
	},
}

// NewBackend creates an orchestrator backend from config, falling back to
// environment variables for anything the config leaves blank. The second
// return value is the resolved model name.
func NewBackend(cfg *config.Config, system string) (orchestrator.Backend, string, error) {
	provider := cfg.LLMProvider
	if provider == "" {
		provider = os.Getenv("LLM_PROVIDER")
	}
	if provider == "" {
		provider = "openai"
	}

	if provider == "anthropic" {
		apiKey := firstNonEmpty(cfg.APIKey, os.Getenv("ANTHROPIC_API_KEY"))
		if apiKey == "" {
			return nil, "", fmt.Errorf("ANTHROPIC_API_KEY not set")
		}
		model := firstNonEmpty(cfg.Model, os.Getenv("ANTHROPIC_MODEL"), "claude-sonnet-4-20250514")
		return NewAnthropicBackend(apiKey, model, system), model, nil
	}

	compat, ok := compatibleProviders[provider]
	if !ok {
		return nil, "", fmt.Errorf("unknown provider %q (supported: openai, anthropic, kimi, deepseek, groq, ollama)", provider)
	}

	apiKey := firstNonEmpty(cfg.APIKey, os.Getenv(compat.keyEnv))
	if apiKey == "" {
		if !compat.keyOptional {
			return nil, "", fmt.Errorf("%s not set", compat.keyEnv)
		}
		apiKey = provider
	}
	model := firstNonEmpty(cfg.Model, os.Getenv(compat.modelEnv), compat.defaultModel)
	baseURL := firstNonEmpty(cfg.BaseURL, os.Getenv(compat.baseURLEnv), compat.baseURL)

	return NewOpenAIBackend(apiKey, model, baseURL, system), model, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
