package assembler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// defaultLLMEndpoint is the chat-completions-style endpoint the
// ExternalLLMAssembler posts to. Overridable for testing against a fake
// server.
const defaultLLMEndpoint = "https://api.openai.com/v1/chat/completions"

const llmRequestTimeout = 60 * time.Second

// ExternalLLMAssembler formats categorized pages into llms.txt via an
// external chat-completion API (spec §6: LLM_API_KEY/LLM_MODEL; spec.md
// treats the underlying model call itself as an opaque external
// collaborator, so only the request/response plumbing is implemented here,
// grounded on stdlib net/http — no vendored model SDK exists in the
// retrieval pack for this).
type ExternalLLMAssembler struct {
	client   *http.Client
	endpoint string
	apiKey   string
	model    string
}

// NewExternalLLMAssembler creates an ExternalLLMAssembler.
func NewExternalLLMAssembler(apiKey, model string) *ExternalLLMAssembler {
	return &ExternalLLMAssembler{
		client:   &http.Client{Timeout: llmRequestTimeout},
		endpoint: defaultLLMEndpoint,
		apiKey:   apiKey,
		model:    model,
	}
}

var _ Assembler = (*ExternalLLMAssembler)(nil)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Assemble implements Assembler by prompting the configured model with the
// categorized page list and returning its Markdown response verbatim.
func (a *ExternalLLMAssembler) Assemble(ctx context.Context, siteName, siteURL string, pages []PageSummary) (string, error) {
	prompt := buildPrompt(siteName, siteURL, pages)

	reqBody := chatRequest{
		Model: a.model,
		Messages: []chatMessage{
			{Role: "system", Content: "You write llms.txt files: a concise Markdown index of a website for LLM consumers."},
			{Role: "user", Content: prompt},
		},
	}

	encoded, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("assembler: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, bytes.NewReader(encoded))
	if err != nil {
		return "", fmt.Errorf("assembler: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.apiKey)

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("assembler: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("assembler: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("assembler: llm api status %d: %s", resp.StatusCode, string(body))
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("assembler: decode response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("assembler: llm api returned no choices")
	}

	return parsed.Choices[0].Message.Content, nil
}

func buildPrompt(siteName, siteURL string, pages []PageSummary) string {
	var b bytes.Buffer
	fmt.Fprintf(&b, "Site: %s (%s)\n\nPages:\n", siteName, siteURL)
	for _, p := range pages {
		fmt.Fprintf(&b, "- [%s] %s — %s — %s\n", p.Category, p.Title, p.URL, p.Description)
	}
	b.WriteString("\nProduce an llms.txt Markdown document grouping these pages by category.\n")
	return b.String()
}
