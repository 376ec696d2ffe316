// Package llm provides configuration for the external document assembler
// (spec §6, §9 — the core is polymorphic over {TemplateAssembler,
// ExternalLLMAssembler}).
package llm

import "os"

// DefaultModel is passed to the external assembler when LLM_API_KEY is set.
const DefaultModel = "gpt-4o-mini"

// Config selects which Assembler variant the worker runtime constructs.
type Config struct {
	APIKey string `yaml:"api_key" env:"LLM_API_KEY"`
	Model  string `yaml:"model" env:"LLM_MODEL"`
}

// Enabled reports whether an API key is configured; when false the worker
// uses the deterministic TemplateAssembler.
func (c *Config) Enabled() bool { return c.APIKey != "" }

// New builds a Config from the environment.
func New() *Config {
	model := os.Getenv("LLM_MODEL")
	if model == "" {
		model = DefaultModel
	}
	return &Config{
		APIKey: os.Getenv("LLM_API_KEY"),
		Model:  model,
	}
}
