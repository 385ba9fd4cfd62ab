// Package ai holds what the LLM providers share.
package ai

import "context"

const (
	// ProviderBackend lets the JobSight backend write precise roadmaps.
	ProviderBackend = "backend"
	// ProviderGemini writes them locally through the Gemini API.
	ProviderGemini = "gemini"
)

// Generator turns a prompt into text.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
	Model() string
}

// Providers lists the accepted values of the provider setting.
func Providers() []string {
	return []string{ProviderBackend, ProviderGemini}
}
