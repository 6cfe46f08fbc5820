package token_management

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"clion/constants/lipgloss"
	"clion/embed_data"
	"clion/token_management/contracts"
)

// tokenManager accumulates session token usage and resolves model pricing.
type tokenManager struct {
	usedToken       int
	usedInputToken  int
	usedOutputToken int
}

type details struct {
	MaxTokens                  int     `json:"max_tokens"`
	InputCostPerMillionTokens  float64 `json:"input_cost_per_million_tokens,omitempty"`
	OutputCostPerMillionTokens float64 `json:"output_cost_per_million_tokens,omitempty"`
	Mode                       string  `json:"mode"`
}

type modelTable struct {
	ModelDetails map[string]details `json:"models"`
}

// NewTokenManager creates a new token manager.
func NewTokenManager() contracts.ITokenManagement {
	return &tokenManager{}
}

// EstimateTokens approximates the model-token count of text as one token per
// four characters, rounded up. A fixed approximation, not a real tokenizer.
func (tm *tokenManager) EstimateTokens(text string) int {
	return (len(text) + 3) / 4
}

// UsedTokens accumulates the token count for the session.
func (tm *tokenManager) UsedTokens(inputToken int, outputToken int) {
	tm.usedInputToken += inputToken
	tm.usedOutputToken += outputToken
	tm.usedToken += inputToken + outputToken
}

func (tm *tokenManager) DisplayTokens(chatProviderName string, chatModel string) {
	cost := tm.CalculateCost(chatProviderName, chatModel, tm.usedInputToken, tm.usedOutputToken)

	tokenInfo := fmt.Sprintf("Token Used: %d - Cost: %.6f $ - Chat Model: %s", tm.usedToken, cost, chatModel)
	fmt.Println(lipgloss.BoxStyle.Render(tokenInfo))
}

func (tm *tokenManager) GetCurrentTokenUsage() (total int, input int, output int) {
	return tm.usedToken, tm.usedInputToken, tm.usedOutputToken
}

func (tm *tokenManager) ClearToken() {
	tm.usedToken = 0
	tm.usedInputToken = 0
	tm.usedOutputToken = 0
}

// CalculateCost converts the per-million-token prices of the model into the
// dollar cost of the given usage. Unknown models cost zero.
func (tm *tokenManager) CalculateCost(providerName string, modelName string, inputToken int, outputToken int) float64 {
	modelDetails, err := getModelDetails(providerName, modelName)
	if err != nil {
		return 0
	}

	inputCost := float64(inputToken) * modelDetails.InputCostPerMillionTokens / 1000000.0
	outputCost := float64(outputToken) * modelDetails.OutputCostPerMillionTokens / 1000000.0

	return inputCost + outputCost
}

// getModelDetails looks the model up in the embedded pricing table. The table
// is immutable configuration loaded from embed_data at each call site's first
// use; there is no mutable global state.
func getModelDetails(providerName string, modelName string) (details, error) {
	providerName = strings.ToLower(providerName)
	modelName = strings.ToLower(modelName)

	if strings.HasPrefix(providerName, "azure") {
		modelName = "azure/" + modelName
	}

	table := modelTable{ModelDetails: make(map[string]details)}
	if err := json.Unmarshal(embed_data.ModelDetails, &table); err != nil {
		log.Printf("Error unmarshaling model pricing: %v", err)
		return details{}, err
	}

	model, exists := table.ModelDetails[modelName]
	if !exists {
		return details{}, fmt.Errorf("model details with name '%s' not found for provider '%s'", modelName, providerName)
	}

	return model, nil
}
