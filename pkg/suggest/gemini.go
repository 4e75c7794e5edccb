package suggest

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// Gemini implements Client against Google's Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates a Gemini-backed suggestion client.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &Gemini{client: client, model: model}, nil
}

// SimilarItems asks the model for related supermarket items.
func (g *Gemini) SimilarItems(ctx context.Context, items []string) ([]string, error) {
	var b strings.Builder
	b.WriteString("You are a helpful assistant that suggests similar items based on a list of items.\n\n")
	b.WriteString("Given the following list of items:\n")
	for _, it := range items {
		fmt.Fprintf(&b, "- %s\n", it)
	}
	fmt.Fprintf(&b, "\nSuggest other items that are similar or related to the items in the list. Only suggest items that would be sold in a supermarket or convenience store. Return a maximum of %d suggestions.\n", MaxSimilar)
	b.WriteString("Do not repeat items already in the list.\n")
	b.WriteString(`Respond with JSON of the form {"suggestions": ["name", ...]}.` + "\n")

	raw, err := g.generate(ctx, b.String())
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Suggestions []string `json:"suggestions"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("parsing model response: %w", err)
	}
	return parsed.Suggestions, nil
}

// SuggestOrder asks the model to predict the next order from history.
func (g *Gemini) SuggestOrder(ctx context.Context, pastOrders []PastOrder) ([]OrderItem, error) {
	var b strings.Builder
	b.WriteString("You are an expert inventory management assistant for a convenience store.\n")
	b.WriteString("Your task is to predict the next order based on the store's past order history.\n")
	b.WriteString("The list of past orders is sorted from most recent to oldest.\n\n")
	b.WriteString("Analyze the following past orders:\n")
	for _, po := range pastOrders {
		fmt.Fprintf(&b, "Order from %s:\n", po.Date)
		for _, it := range po.Items {
			fmt.Fprintf(&b, "  - %s: %d\n", it.Name, it.Quantity)
		}
	}
	b.WriteString("\nConsider which items are ordered frequently, which are ordered in large quantities, and recent trends.\n")
	b.WriteString("Do not suggest items that are not present in the past orders.\n")
	b.WriteString(`Respond with JSON of the form {"suggestedOrder": [{"name": "...", "quantity": 1}, ...]}.` + "\n")

	raw, err := g.generate(ctx, b.String())
	if err != nil {
		return nil, err
	}

	var parsed struct {
		SuggestedOrder []OrderItem `json:"suggestedOrder"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("parsing model response: %w", err)
	}
	return parsed.SuggestedOrder, nil
}

func (g *Gemini) generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{ResponseMIMEType: "application/json"},
	)
	if err != nil {
		return "", fmt.Errorf("GenAI generate failed: %w", err)
	}
	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("empty model response")
	}
	return text, nil
}
