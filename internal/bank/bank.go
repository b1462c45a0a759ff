// Package bank embeds the BlockchainIQ question catalog.
package bank

import (
	_ "embed"
	"fmt"
	"sort"

	"blockchainiq/internal/domain"
	"gopkg.in/yaml.v3"
)

// DefaultID names the embedded catalog.
const DefaultID = "blockchain"

//go:embed blockchain.yaml
var blockchainYAML []byte

// Default decodes and validates the embedded catalog.
func Default() (domain.Bank, error) {
	return Parse(blockchainYAML)
}

// Parse decodes a YAML bank document and validates it.
func Parse(data []byte) (domain.Bank, error) {
	var b domain.Bank
	if err := yaml.Unmarshal(data, &b); err != nil {
		return domain.Bank{}, fmt.Errorf("decode bank: %w", err)
	}
	if err := domain.ValidateBank(b); err != nil {
		return domain.Bank{}, err
	}
	return b, nil
}

// Stats summarises a bank by category and difficulty.
type Stats struct {
	ID           string                    `json:"id"`
	Total        int                       `json:"total"`
	ByCategory   map[domain.Category]int   `json:"byCategory"`
	ByDifficulty map[domain.Difficulty]int `json:"byDifficulty"`
}

// Summarize counts questions per category and difficulty.
func Summarize(b domain.Bank) Stats {
	stats := Stats{
		ID:           b.ID,
		Total:        len(b.Questions),
		ByCategory:   make(map[domain.Category]int),
		ByDifficulty: make(map[domain.Difficulty]int),
	}
	for _, q := range b.Questions {
		stats.ByCategory[q.Category]++
		stats.ByDifficulty[q.Difficulty]++
	}
	return stats
}

// SortedCategories returns the categories present in s in name order.
func (s Stats) SortedCategories() []domain.Category {
	out := make([]domain.Category, 0, len(s.ByCategory))
	for c := range s.ByCategory {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
