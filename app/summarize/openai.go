package summarize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/samshap/dog-digest/app/digest"
)

const (
	requestTimeout    = 60 * time.Second
	promptDescChars   = 300
	preferenceProfile = "You help a family shortlist adoptable dogs. They prefer calm, " +
		"medium-sized, family-friendly dogs and are first-time owners. Given the " +
		"candidate listings, pick up to three favorites and explain each choice in " +
		"one sentence. Answer with a short HTML fragment: a <p> intro followed by " +
		"a <ul> of picks, each linking to the listing URL. No markdown, no <html> wrapper."
)

// OpenAIClient talks to an OpenAI-compatible chat-completions endpoint.
type OpenAIClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
}

var _ Summarizer = (*OpenAIClient)(nil)

func NewOpenAIClient(baseURL, apiKey, model string) *OpenAIClient {
	return &OpenAIClient{
		httpClient: &http.Client{Timeout: requestTimeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
	}
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (c *OpenAIClient) Summarize(ctx context.Context, listings []digest.Listing) (string, error) {
	if len(listings) == 0 {
		return "", nil
	}

	payload := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: preferenceProfile},
			{Role: "user", Content: buildPrompt(listings)},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode summary request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create summary request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("summary request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("summary request failed: unexpected status %s", resp.Status)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode summary response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("summary response contained no choices")
	}

	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}

func buildPrompt(listings []digest.Listing) string {
	if len(listings) > maxInputListings {
		listings = listings[:maxInputListings]
	}

	var sb strings.Builder
	sb.WriteString("Candidate listings:\n")
	for _, l := range listings {
		sb.WriteString("- ")
		sb.WriteString(l.Name)
		if breeds := joinBreeds(l); breeds != "" {
			fmt.Fprintf(&sb, " (%s)", breeds)
		}
		if l.Age != "" {
			fmt.Fprintf(&sb, ", age: %s", l.Age)
		}
		if l.Size != "" {
			fmt.Fprintf(&sb, ", size: %s", l.Size)
		}
		if l.URL != "" {
			fmt.Fprintf(&sb, ", url: %s", l.URL)
		}
		if desc := capForPrompt(l.Description); desc != "" {
			fmt.Fprintf(&sb, ". %s", desc)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func joinBreeds(l digest.Listing) string {
	var parts []string
	for _, name := range []string{l.PrimaryBreed, l.SecondaryBreed} {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return strings.Join(parts, ", ")
}

func capForPrompt(description string) string {
	collapsed := strings.Join(strings.Fields(description), " ")
	runes := []rune(collapsed)
	if len(runes) > promptDescChars {
		return string(runes[:promptDescChars])
	}
	return collapsed
}
