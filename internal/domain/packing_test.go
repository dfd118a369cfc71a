package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripcraft/tripcraft/internal/domain"
)

func TestSummarizePacking(t *testing.T) {
	items := []domain.PackingItem{
		{Category: "Clothing", Name: "Socks", Packed: true},
		{Category: "Documents", Name: "Passport"},
		{Category: "Clothing", Name: "Shorts"},
		{Category: "Documents", Name: "Tickets", Packed: true},
	}

	p := domain.SummarizePacking(items)

	assert.Equal(t, 4, p.Total)
	assert.Equal(t, 2, p.Packed)
	assert.Equal(t, 50.0, p.Percent)
	require.Len(t, p.Groups, 2)
	assert.Equal(t, "Clothing", p.Groups[0].Category)
	assert.Len(t, p.Groups[0].Items, 2)
	assert.Equal(t, 1, p.Groups[0].Packed)
	assert.Equal(t, "Documents", p.Groups[1].Category)
}

func TestSummarizePacking_Empty(t *testing.T) {
	p := domain.SummarizePacking(nil)

	assert.Zero(t, p.Total)
	assert.Zero(t, p.Percent)
	assert.Empty(t, p.Groups)
}

func TestPackingItem_Validate(t *testing.T) {
	assert.NoError(t, domain.PackingItem{Category: "Clothing", Name: "Hat", Quantity: 1}.Validate())
	assert.ErrorIs(t, domain.PackingItem{Category: "Clothing", Name: "Hat"}.Validate(), domain.ErrValidation)
	assert.ErrorIs(t, domain.PackingItem{Name: "Hat", Quantity: 1}.Validate(), domain.ErrValidation)
}
