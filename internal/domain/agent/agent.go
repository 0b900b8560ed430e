// Package agent defines the Agent domain entity.
package agent

// Provider identifies the LLM vendor backing an agent.
type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderGoogle    Provider = "google"
	ProviderAnthropic Provider = "anthropic"
	ProviderMistral   Provider = "mistral"
)

// LLMConfig holds the model settings for an agent.
type LLMConfig struct {
	Provider   Provider `json:"provider"`
	Model      string   `json:"model"`
	MaxRetries int      `json:"maxRetries,omitempty"`
}

// Agent represents an AI agent profile: who it is, what it is trying to
// achieve, and which tools it may call.
type Agent struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Role             string     `json:"role"`
	Goal             string     `json:"goal"`
	Background       string     `json:"background,omitempty"`
	Skills           []string   `json:"skills"`
	Tools            []string   `json:"tools,omitempty"`
	LLMConfig        *LLMConfig `json:"llmConfig,omitempty"`
	MaxIterations    int        `json:"maxIterations,omitempty"`
	ForceFinalAnswer bool       `json:"forceFinalAnswer,omitempty"`
}

// New returns an Agent with the server-assigned ID and defaults applied.
func New(id string) Agent {
	return Agent{
		ID:     id,
		Skills: []string{},
	}
}
