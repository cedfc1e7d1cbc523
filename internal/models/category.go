// Package models provides the data structures used throughout the application.
package models

// Category is one of the fixed spending categories a transaction can be
// assigned to.
type Category string

// The fixed taxonomy. The order here is the order categories are presented
// to the remote classifier and in reports.
const (
	CategoryFood          Category = "Food"
	CategoryIncome        Category = "Income"
	CategoryHealth        Category = "Health"
	CategoryMarket        Category = "Market"
	CategoryEducation     Category = "Education"
	CategoryShopping      Category = "Shopping"
	CategoryTransport     Category = "Transport"
	CategoryInvestment    Category = "Investment"
	CategoryTransfers     Category = "Transfers"
	CategoryPhone         Category = "Phone"
	CategoryHousing       Category = "Housing"
	CategoryEntertainment Category = "Entertainment"
	CategoryLeisure       Category = "Leisure"
	CategoryOther         Category = "Other"
)

var allCategories = []Category{
	CategoryFood,
	CategoryIncome,
	CategoryHealth,
	CategoryMarket,
	CategoryEducation,
	CategoryShopping,
	CategoryTransport,
	CategoryInvestment,
	CategoryTransfers,
	CategoryPhone,
	CategoryHousing,
	CategoryEntertainment,
	CategoryLeisure,
	CategoryOther,
}

var categorySet = func() map[Category]struct{} {
	set := make(map[Category]struct{}, len(allCategories))
	for _, c := range allCategories {
		set[c] = struct{}{}
	}
	return set
}()

// AllCategories returns the taxonomy in its fixed order. The returned slice
// is a copy and safe to modify.
func AllCategories() []Category {
	out := make([]Category, len(allCategories))
	copy(out, allCategories)
	return out
}

// Valid reports whether c is a member of the fixed taxonomy.
func (c Category) Valid() bool {
	_, ok := categorySet[c]
	return ok
}

// String implements fmt.Stringer.
func (c Category) String() string {
	return string(c)
}
