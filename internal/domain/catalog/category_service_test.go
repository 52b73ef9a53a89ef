// internal/domain/catalog/category_service_test.go
package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateSlug(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple name", "Electronics", "electronics"},
		{"spaces become hyphens", "Home And Garden", "home-and-garden"},
		{"underscores become hyphens", "snake_case_name", "snake-case-name"},
		{"punctuation is stripped", "Books & Magazines!", "books--magazines"},
		{"surrounding whitespace trimmed", "  Toys  ", "toys"},
		{"leading and trailing hyphens trimmed", "--Sale--", "sale"},
		{"digits survive", "Top 10 Deals", "top-10-deals"},
		{"nothing usable left", "!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, generateSlug(tt.input))
		})
	}
}
