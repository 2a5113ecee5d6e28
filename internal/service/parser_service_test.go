package service

import (
	"context"
	"testing"

	"github.com/Ssathosi/catatanqu/internal/models"
	"github.com/Ssathosi/catatanqu/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		text string
		want int64
	}{
		{"lunch 15000", 15000},
		{"lunch 15.000", 15000},
		{"lunch 15k", 15000},
		{"lunch 15rb", 15000},
		{"lunch 15 ribu", 15000},
		{"laptop 1.5jt", 1500000},
		{"laptop 2 juta", 2000000},
		{"coffee 7,5k", 7500},
		{"no amount here", 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, parseAmount(tc.text), "text %q", tc.text)
	}
}

func TestCategorizeByKeywords(t *testing.T) {
	cases := []struct {
		text string
		want models.Category
	}{
		{"lunch at warung", models.CategoryFood},
		{"grab to airport", models.CategoryTransport},
		{"new shoes at the mall", models.CategoryShopping},
		{"netflix subscription", models.CategoryEntertainment},
		{"electricity this month", models.CategoryBills},
		{"pharmacy run", models.CategoryHealth},
		{"udemy course", models.CategoryEducation},
		{"mysterious purchase", models.CategoryOther},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, categorizeByKeywords(tc.text), "text %q", tc.text)
	}
}

func TestParseTransactionJSON(t *testing.T) {
	parsed, err := parseTransactionJSON(`{"amount": 25000, "description": "nasi goreng", "category": "Food", "confidence": 0.9}`)
	require.NoError(t, err)
	assert.Equal(t, int64(25000), parsed.Amount)
	assert.Equal(t, "Food", parsed.Category)

	// Fenced and prose-wrapped answers still parse.
	parsed, err = parseTransactionJSON("Here you go:\n```json\n{\"amount\": 5000, \"description\": \"bus\", \"category\": \"Transport\", \"confidence\": 0.8}\n```")
	require.NoError(t, err)
	assert.Equal(t, int64(5000), parsed.Amount)

	_, err = parseTransactionJSON("I could not parse that")
	assert.Error(t, err)
}

func TestParseTextRuleBasedMode(t *testing.T) {
	svc, err := NewParserService(&config.GigaChatConfig{}, zap.NewNop())
	require.NoError(t, err)
	defer svc.Close()

	parsed, err := svc.ParseText(context.Background(), "nasi goreng lunch 25rb")
	require.NoError(t, err)
	assert.Equal(t, int64(25000), parsed.Amount)
	assert.Equal(t, string(models.CategoryFood), parsed.Category)
	assert.Greater(t, parsed.Confidence, 0.0)

	_, err = svc.ParseText(context.Background(), "   ")
	assert.Error(t, err)
}
