package generator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripcraft/tripcraft/internal/generator"
)

func TestRecommend_NoInterestsReturnsAll(t *testing.T) {
	got := generator.Recommend("Lisbon", nil)

	require.Len(t, got, generator.MaxRecommendations)
	assert.Equal(t, "Top-rated restaurant in Lisbon", got[0].Title)
	assert.Equal(t, "Lisbon", got[0].Location)
	assert.Equal(t, "Art", got[4].Category)
}

func TestRecommend_NoMatch(t *testing.T) {
	got := generator.Recommend("Lisbon", []string{"skydiving"})

	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestRecommend_CaseInsensitiveSubstring(t *testing.T) {
	got := generator.Recommend("Lisbon", []string{"ART", "shop"})

	require.Len(t, got, 2)
	assert.Equal(t, "Shopping", got[0].Category, "candidate order is preserved")
	assert.Equal(t, "Art", got[1].Category)
}

func TestRecommend_Idempotent(t *testing.T) {
	in := []string{"food", "nature"}

	assert.Equal(t, generator.Recommend("Kyoto", in), generator.Recommend("Kyoto", in))
}
