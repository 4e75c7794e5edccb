// Package suggest provides AI-generated shopping suggestions: similar items
// for the current list, and a full order predicted from past-order history.
package suggest

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"prolist/pkg/logger"
)

const (
	// MaxSimilar caps the number of similar-item suggestions returned.
	MaxSimilar = 5
	// MinHistory is the smallest past-order history accepted for an order
	// suggestion.
	MinHistory = 15
)

// OrderItem is one suggested item/quantity pair, keyed by display name.
type OrderItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// PastOrder is one historical order, most recent first in the input slice.
type PastOrder struct {
	Date  string      `json:"date"`
	Items []OrderItem `json:"items"`
}

// Client is the model boundary. Implementations may return anything; the
// Service applies the output contracts.
type Client interface {
	SimilarItems(ctx context.Context, items []string) ([]string, error)
	SuggestOrder(ctx context.Context, pastOrders []PastOrder) ([]OrderItem, error)
}

// ErrNoItems rejects a similar-items request with nothing selected.
var ErrNoItems = errors.New("no items selected")

// ErrNotEnoughHistory rejects an order suggestion before the model call.
var ErrNotEnoughHistory = fmt.Errorf("at least %d past orders are required for an order suggestion", MinHistory)

// Service validates requests before the model call and enforces the output
// contracts afterwards.
type Service struct {
	client Client
	log    *logger.Logger
}

// NewService wraps a model client.
func NewService(client Client, log *logger.Logger) *Service {
	return &Service{client: client, log: log}
}

// SimilarItems suggests up to MaxSimilar item names related to the given
// ones, never repeating an input name.
func (s *Service) SimilarItems(ctx context.Context, items []string) ([]string, error) {
	var clean []string
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			clean = append(clean, it)
		}
	}
	if len(clean) == 0 {
		return nil, ErrNoItems
	}

	got, err := s.client.SimilarItems(ctx, clean)
	if err != nil {
		return nil, fmt.Errorf("similar items: %w", err)
	}

	present := make(map[string]bool, len(clean))
	for _, it := range clean {
		present[strings.ToLower(it)] = true
	}

	var out []string
	for _, name := range got {
		name = strings.TrimSpace(name)
		key := strings.ToLower(name)
		if name == "" || present[key] {
			continue
		}
		present[key] = true
		out = append(out, name)
		if len(out) == MaxSimilar {
			break
		}
	}
	s.log.Debug(ctx, "similar items suggested", "input", len(clean), "output", len(out))
	return out, nil
}

// SuggestOrder predicts the next order from history, which must hold at
// least MinHistory entries ordered most recent first. Suggestions naming
// items absent from the history are discarded.
func (s *Service) SuggestOrder(ctx context.Context, history []PastOrder) ([]OrderItem, error) {
	if len(history) < MinHistory {
		return nil, ErrNotEnoughHistory
	}

	got, err := s.client.SuggestOrder(ctx, history)
	if err != nil {
		return nil, fmt.Errorf("order suggestion: %w", err)
	}

	known := make(map[string]bool)
	for _, po := range history {
		for _, it := range po.Items {
			known[strings.ToLower(it.Name)] = true
		}
	}

	var out []OrderItem
	seen := make(map[string]bool)
	for _, it := range got {
		it.Name = strings.TrimSpace(it.Name)
		key := strings.ToLower(it.Name)
		if it.Name == "" || it.Quantity <= 0 || !known[key] || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, it)
	}
	s.log.Debug(ctx, "order suggested", "history", len(history), "output", len(out))
	return out, nil
}
