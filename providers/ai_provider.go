package providers

import (
	"fmt"

	"clion/providers/contracts"
	"clion/providers/ollama"
	token_contracts "clion/token_management/contracts"
)

// AIProviderConfig is the provider section of the configuration file.
type AIProviderConfig struct {
	Provider    string   `mapstructure:"provider"`
	BaseURL     string   `mapstructure:"base_url"`
	Model       string   `mapstructure:"model"`
	Temperature *float32 `mapstructure:"temperature"`
	ApiKey      string   `mapstructure:"api_key"`
}

// ChatProviderFactory returns the chat provider selected by the config.
func ChatProviderFactory(config *AIProviderConfig, tokenManagement token_contracts.ITokenManagement) (contracts.IChatAIProvider, error) {
	switch config.Provider {
	case "", "ollama":
		return ollama.NewOllamaChatProvider(&ollama.OllamaConfig{
			BaseURL:         config.BaseURL,
			Model:           config.Model,
			Temperature:     config.Temperature,
			TokenManagement: tokenManagement,
		}), nil
	default:
		return nil, fmt.Errorf("unsupported provider '%s'", config.Provider)
	}
}
