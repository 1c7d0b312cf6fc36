package suggest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"pos/internal/domain"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

var ErrDisabled = errors.New("product suggestions are not configured")

const (
	defaultModel = "gemini-2.5-flash"
	maxRetries   = 3
	retryDelay   = 2 * time.Second
)

type Suggestion struct {
	Name        string `json:"suggested_name"`
	Description string `json:"suggested_description"`
}

type Suggester interface {
	Suggest(ctx context.Context, code string, products []domain.Product) (Suggestion, error)
}

// Disabled is used when no API key is configured.
type Disabled struct{}

func (Disabled) Suggest(context.Context, string, []domain.Product) (Suggestion, error) {
	return Suggestion{}, ErrDisabled
}

type Gemini struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewGemini(ctx context.Context, apiKey, modelName string) (*Gemini, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrDisabled
	}
	if strings.TrimSpace(modelName) == "" {
		modelName = defaultModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(0.4)
	model.ResponseMIMEType = "application/json"

	return &Gemini{client: client, model: model}, nil
}

func (g *Gemini) Close() error {
	return g.client.Close()
}

func (g *Gemini) Suggest(ctx context.Context, code string, products []domain.Product) (Suggestion, error) {
	prompt := BuildPrompt(code, products)

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
		if err == nil {
			var suggestion Suggestion
			suggestion, err = ParseSuggestion(extractText(resp))
			if err == nil {
				return suggestion, nil
			}
		}

		lastErr = err
		log.Printf("suggest: attempt %d/%d for %q failed: %v", attempt, maxRetries, code, err)
		if attempt == maxRetries {
			break
		}
		select {
		case <-ctx.Done():
			return Suggestion{}, ctx.Err()
		case <-time.After(retryDelay):
		}
	}
	return Suggestion{}, fmt.Errorf("gemini suggestion failed after %d attempts: %w", maxRetries, lastErr)
}

func BuildPrompt(code string, products []domain.Product) string {
	var b strings.Builder
	b.WriteString("Given the product code and existing product data, suggest an improved product name and description.\n\n")
	fmt.Fprintf(&b, "Product Code: %s\n\nExisting Product Data:\n", code)
	for _, p := range products {
		fmt.Fprintf(&b, "  - Code: %s, Name: %s, Price: %v\n", p.Code, p.Name, p.Price)
	}
	b.WriteString("\nSuggest a product name and description that is more descriptive and appealing.\n")
	b.WriteString(`Reply with a JSON object {"suggested_name": string, "suggested_description": string} and nothing else.`)
	return b.String()
}

// ParseSuggestion accepts the model reply with or without a markdown
// code fence around the JSON object.
func ParseSuggestion(text string) (Suggestion, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)
	if text == "" {
		return Suggestion{}, errors.New("empty response")
	}

	var suggestion Suggestion
	if err := json.Unmarshal([]byte(text), &suggestion); err != nil {
		return Suggestion{}, fmt.Errorf("decode suggestion: %w", err)
	}
	suggestion.Name = strings.TrimSpace(suggestion.Name)
	suggestion.Description = strings.TrimSpace(suggestion.Description)
	if suggestion.Name == "" {
		return Suggestion{}, errors.New("suggestion has no name")
	}
	return suggestion, nil
}

func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var result strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				result.WriteString(string(text))
			}
		}
	}
	return result.String()
}
