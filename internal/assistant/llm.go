package assistant

import (
	"context"
	"os"

	openai "github.com/sashabaranov/go-openai"
)

// ChatClient is the slice of the OpenAI-compatible client the assistant
// uses. *openai.Client satisfies it; tests substitute fakes. The provider is
// configuration: any endpoint speaking the chat-completions dialect works via
// LLM_BASE_URL.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// LLMConfig selects provider endpoint and models from the environment.
type LLMConfig struct {
	APIKey          string
	BaseURL         string
	Model           string
	ClassifierModel string
}

// NewLLMConfig reads LLM settings from environment variables.
func NewLLMConfig() LLMConfig {
	cfg := LLMConfig{
		APIKey:          os.Getenv("LLM_API_KEY"),
		BaseURL:         os.Getenv("LLM_BASE_URL"),
		Model:           os.Getenv("LLM_MODEL"),
		ClassifierModel: os.Getenv("LLM_CLASSIFIER_MODEL"),
	}
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.Model == "" {
		cfg.Model = openai.GPT4oMini
	}
	if cfg.ClassifierModel == "" {
		cfg.ClassifierModel = cfg.Model
	}
	return cfg
}

// NewChatClient builds the OpenAI-compatible client for the configured
// endpoint.
func NewChatClient(cfg LLMConfig) *openai.Client {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return openai.NewClientWithConfig(clientCfg)
}
