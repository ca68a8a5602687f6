package schema

// Rule associates a canonical field with the lowercase keyword substrings
// expected inside a normalized column name that represents it.
type Rule struct {
	Field    Field    `json:"field" yaml:"field"`
	Keywords []string `json:"keywords" yaml:"keywords"`
}

// catalog is ordered by field declaration; the order is the cross-field
// tie-break used by InferMapping.
var catalog = []Rule{
	{TransactionID, []string{"id", "trans", "txn", "transaction", "invoice", "receipt"}},
	{OrderDate, []string{"date", "time", "ordered_at", "created_at", "timestamp", "day"}},
	{CustomerID, []string{"cust", "customer", "member", "client"}},
	{Gender, []string{"gender", "sex"}},
	{Age, []string{"age", "birth", "dob", "year_of_birth"}},
	{ProductCategory, []string{"category", "cat", "product_type", "department", "segment"}},
	{Quantity, []string{"qty", "quantity", "count", "units", "items"}},
	{PricePerUnit, []string{"price", "unit_price", "cost", "rate", "amount_per_unit"}},
	{TotalAmount, []string{"total", "amount", "revenue", "sales", "grand_total"}},
}

// Catalog returns a copy of the rule table in catalog order.
func Catalog() []Rule {
	out := make([]Rule, len(catalog))
	for i, r := range catalog {
		kw := make([]string, len(r.Keywords))
		copy(kw, r.Keywords)
		out[i] = Rule{Field: r.Field, Keywords: kw}
	}
	return out
}

// RuleFor returns the rule for f.
func RuleFor(f Field) (Rule, bool) {
	for _, r := range catalog {
		if r.Field == f {
			kw := make([]string, len(r.Keywords))
			copy(kw, r.Keywords)
			return Rule{Field: r.Field, Keywords: kw}, true
		}
	}
	return Rule{}, false
}
