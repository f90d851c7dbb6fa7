package domain

import "time"

// AIProvider identifies the AI/embedding provider
type AIProvider string

const (
	AIProviderOpenAI AIProvider = "openai"
	AIProviderGemini AIProvider = "gemini"
	AIProviderOllama AIProvider = "ollama"
)

// RequiresAPIKey reports whether the provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p != AIProviderOllama
}

// EmbeddingSettings configures the embedding service
type EmbeddingSettings struct {
	Provider AIProvider `json:"provider"`
	Model    string     `json:"model"`
	APIKey   string     `json:"-"` // Never serialize to JSON
	BaseURL  string     `json:"base_url,omitempty"`
}

// IsConfigured returns true if embedding settings are properly configured
func (e *EmbeddingSettings) IsConfigured() bool {
	if e.Provider == "" {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// ReasoningSettings configures the external reasoning service
type ReasoningSettings struct {
	Provider AIProvider `json:"provider"`
	Model    string     `json:"model"`
	APIKey   string     `json:"-"`
	BaseURL  string     `json:"base_url,omitempty"`
	// Timeout bounds one reasoning call; a timeout takes the same fallback
	// path as a hard provider error.
	Timeout time.Duration `json:"timeout"`
	// MaxOutputTokens bounds the generated narrative length.
	MaxOutputTokens int `json:"max_output_tokens"`
	// Temperature is the provider's determinism knob, fixed per deployment.
	Temperature float64 `json:"temperature"`
}

// IsConfigured returns true if reasoning settings are properly configured
func (r *ReasoningSettings) IsConfigured() bool {
	if r.Provider == "" {
		return false
	}
	if r.Provider.RequiresAPIKey() && r.APIKey == "" {
		return false
	}
	return true
}

// DefaultReasoningSettings returns defaults for the reasoning call bounds.
func DefaultReasoningSettings() ReasoningSettings {
	return ReasoningSettings{
		Provider:        AIProviderGemini,
		Model:           "gemini-flash-latest",
		Timeout:         30 * time.Second,
		MaxOutputTokens: 4096,
		Temperature:     0.1,
	}
}

// NERSettings configures the entity-recognition sidecar
type NERSettings struct {
	BaseURL string        `json:"base_url"`
	Timeout time.Duration `json:"timeout"`
}

// IsConfigured returns true if a NER endpoint is set
func (n *NERSettings) IsConfigured() bool {
	return n.BaseURL != ""
}
