package categorizer

import (
	"fmt"
	"strings"

	"github.com/matheusbnas/dashboard-financeiro-AI/internal/models"
	"github.com/matheusbnas/dashboard-financeiro-AI/internal/store"
)

// keywordRule binds a category to the substrings that identify it. Rules are
// evaluated in slice order; the first category with a matching keyword wins.
type keywordRule struct {
	category models.Category
	keywords []string
}

// defaultRules holds the built-in keyword patterns, tuned for Brazilian bank
// statements. Income comes before Transfers so "transferencia recebida"
// is not swallowed by the plain "transferencia" pattern.
var defaultRules = []keywordRule{
	{models.CategoryIncome, []string{"salario", "pix - recebido", "pix recebido", "transferencia recebida", "receita", "estorno"}},
	{models.CategoryHousing, []string{"aluguel", "condominio", "iptu", "imoveis", "energia", "luz"}},
	{models.CategoryFood, []string{"restaurante", "lanchonete", "padaria", "acougue", "parrilla", "burguer", "pizza", "ifood"}},
	{models.CategoryMarket, []string{"supermercado", "mercado", "atacadao", "bistek", "zaffari"}},
	{models.CategoryTransport, []string{"posto", "combustivel", "uber", "taxi", "onibus", "metro", "estacionamento", "pedagio"}},
	{models.CategoryHealth, []string{"farmacia", "drogaria", "panvel", "unimed", "medico", "hospital", "plano de saude"}},
	{models.CategoryEducation, []string{"escola", "universidade", "curso", "mensalidade", "livraria"}},
	{models.CategoryPhone, []string{"claro", "tim sa", "vivo", "telefone", "celular"}},
	{models.CategoryShopping, []string{"loja", "magazine", "shopping", "renner", "mercadolivre", "amazon"}},
	{models.CategoryEntertainment, []string{"cinema", "teatro", "show", "netflix", "spotify"}},
	{models.CategoryInvestment, []string{"investimento", "tesouro direto", "cdb", "corretora", "aplicacao"}},
	{models.CategoryTransfers, []string{"pix - enviado", "pix enviado", "ted", "doc", "transferencia"}},
	{models.CategoryLeisure, []string{"hotel", "viagem", "airbnb", "passagem", "parque"}},
}

// RuleClassifier assigns a category to a transaction description by
// case-insensitive keyword matching. It is pure, deterministic and never
// fails: when nothing matches it answers Other, so the pipeline always
// terminates with a valid category even with zero network access.
type RuleClassifier struct {
	rules []keywordRule
}

// NewRuleClassifier builds a classifier with the built-in rules.
func NewRuleClassifier() *RuleClassifier {
	return &RuleClassifier{rules: defaultRules}
}

// NewRuleClassifierFromFile builds a classifier whose rules are overridden
// by a store.RuleFile. Categories named in the file replace their built-in
// keyword list; categories it omits keep the defaults. An unknown category
// name is a configuration error.
func NewRuleClassifierFromFile(file *store.RuleFile) (*RuleClassifier, error) {
	if file == nil || len(file.Categories) == 0 {
		return NewRuleClassifier(), nil
	}

	overrides := make(map[models.Category][]string, len(file.Categories))
	for _, rule := range file.Categories {
		category := models.Category(rule.Name)
		if !category.Valid() {
			return nil, fmt.Errorf("rule file references unknown category: %s", rule.Name)
		}
		keywords := make([]string, len(rule.Keywords))
		for i, k := range rule.Keywords {
			keywords[i] = strings.ToLower(k)
		}
		overrides[category] = keywords
	}

	rules := make([]keywordRule, len(defaultRules))
	copy(rules, defaultRules)
	for i, rule := range rules {
		if keywords, ok := overrides[rule.category]; ok {
			rules[i] = keywordRule{category: rule.category, keywords: keywords}
		}
	}

	return &RuleClassifier{rules: rules}, nil
}

// Classify returns the first category whose keywords match the description,
// or Other when none do.
func (rc *RuleClassifier) Classify(description string) models.Category {
	lowered := strings.ToLower(description)
	for _, rule := range rc.rules {
		for _, keyword := range rule.keywords {
			if strings.Contains(lowered, keyword) {
				return rule.category
			}
		}
	}
	return models.CategoryOther
}
