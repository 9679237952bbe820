package agent

import (
	"testing"

	model "omniauction/internal/models"

	"github.com/stretchr/testify/require"
)

func listedProducts() []model.ProductSummary {
	return []model.ProductSummary{
		{ProductID: "watch", Name: "Vintage Watch Collection"},
		{ProductID: "iphone", Name: "iPhone"},
		{ProductID: "painting", Name: "Original Oil Painting"},
	}
}

func TestResolveProduct(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		command    string
		expectedID string
		ok         bool
	}{
		{name: "ordinal_item", command: "tell me about item 2", expectedID: "iphone", ok: true},
		{name: "ordinal_number", command: "details about number 3", expectedID: "painting", ok: true},
		{name: "ordinal_out_of_range", command: "tell me about item 9", ok: false},
		{name: "exact_name_substring", command: "show me the vintage watch collection please", expectedID: "watch", ok: true},
		{name: "partial_name_word", command: "tell me about the vintage watch", expectedID: "watch", ok: true},
		{name: "partial_word_painting", command: "what is the painting", expectedID: "painting", ok: true},
		{name: "fuzzy_typo", command: "tell me about the ifone", expectedID: "iphone", ok: true},
		{name: "short_words_never_fuzzy_match", command: "bid 500", ok: false},
		{name: "no_match", command: "tell me about the yacht", ok: false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			p, ok := resolveProduct(tc.command, listedProducts())
			require.Equal(t, tc.ok, ok)
			if tc.ok {
				require.Equal(t, tc.expectedID, p.ProductID)
			}
		})
	}

	t.Run("empty_listing_never_matches", func(t *testing.T) {
		t.Parallel()

		_, ok := resolveProduct("tell me about the vintage watch", nil)
		require.False(t, ok)
	})
}

func TestLevenshtein(t *testing.T) {
	t.Parallel()

	tests := []struct {
		a, b     string
		distance int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"ifone", "iphone", 2},
		{"watch", "watch", 0},
	}

	for _, tc := range tests {
		require.Equal(t, tc.distance, levenshtein(tc.a, tc.b), "levenshtein(%q, %q)", tc.a, tc.b)
	}
}

func TestSimilarity(t *testing.T) {
	t.Parallel()

	require.Equal(t, 1.0, similarity("watch", "watch"))
	require.InDelta(t, 0.667, similarity("ifone", "iphone"), 0.001)
	require.Less(t, similarity("yacht", "iphone"), fuzzyCutoff)
}
