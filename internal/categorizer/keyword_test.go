package categorizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matheusbnas/dashboard-financeiro-AI/internal/models"
	"github.com/matheusbnas/dashboard-financeiro-AI/internal/store"
)

func TestRuleClassifier_Classify(t *testing.T) {
	classifier := NewRuleClassifier()

	tests := []struct {
		name        string
		description string
		expected    models.Category
	}{
		{"rent is housing", "ALUGUEL REF 03/2025", models.CategoryHousing},
		{"supermarket", "SUPERMERCADO ZAFFARI 032", models.CategoryMarket},
		{"restaurant", "Restaurante Parrilla Del Sur", models.CategoryFood},
		{"ride hailing", "UBER *TRIP", models.CategoryTransport},
		{"pharmacy", "FARMACIA PANVEL", models.CategoryHealth},
		{"received pix is income not transfer", "PIX RECEBIDO JOAO", models.CategoryIncome},
		{"sent pix is transfer", "PIX ENVIADO MARIA", models.CategoryTransfers},
		{"salary", "SALARIO ACME LTDA", models.CategoryIncome},
		{"streaming", "NETFLIX.COM", models.CategoryEntertainment},
		{"phone carrier", "TIM SA FATURA", models.CategoryPhone},
		{"nothing matches", "XYZQWERTY", models.CategoryOther},
		{"empty description", "", models.CategoryOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, classifier.Classify(tt.description))
		})
	}
}

func TestRuleClassifier_ClassifyIsDeterministic(t *testing.T) {
	classifier := NewRuleClassifier()
	for i := 0; i < 10; i++ {
		assert.Equal(t, models.CategoryMarket, classifier.Classify("mercado central"))
	}
}

func TestNewRuleClassifierFromFile(t *testing.T) {
	t.Run("nil file falls back to defaults", func(t *testing.T) {
		classifier, err := NewRuleClassifierFromFile(nil)
		require.NoError(t, err)
		assert.Equal(t, models.CategoryHousing, classifier.Classify("aluguel"))
	})

	t.Run("override replaces keywords for the named category", func(t *testing.T) {
		file := &store.RuleFile{
			Categories: []store.CategoryRule{
				{Name: "Housing", Keywords: []string{"moradia"}},
			},
		}
		classifier, err := NewRuleClassifierFromFile(file)
		require.NoError(t, err)

		assert.Equal(t, models.CategoryHousing, classifier.Classify("MORADIA MENSAL"))
		// The old built-in keyword no longer matches Housing.
		assert.Equal(t, models.CategoryOther, classifier.Classify("aluguel"))
		// Categories not named in the file keep their defaults.
		assert.Equal(t, models.CategoryMarket, classifier.Classify("supermercado"))
	})

	t.Run("unknown category name is an error", func(t *testing.T) {
		file := &store.RuleFile{
			Categories: []store.CategoryRule{
				{Name: "Nonsense", Keywords: []string{"x"}},
			},
		}
		_, err := NewRuleClassifierFromFile(file)
		assert.Error(t, err)
	})
}
