package schema

// Stable validation codes.
const (
	CodeDuplicateMapping = "duplicate_mapping"
	CodeMissingOrderDate = "missing_order_date"
	CodeMissingMeasure   = "missing_measure"
)

// ValidationError is one structural problem found in a mapping.
type ValidationError struct {
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string { return e.Message }

// measureFields are the fields of which at least one must be mapped.
var measureFields = []Field{Quantity, PricePerUnit, TotalAmount}

// ValidateMapping checks a (possibly hand-edited) mapping. Every rule is
// evaluated; an empty result means the mapping is accepted.
func ValidateMapping(m ColumnMapping) []ValidationError {
	var errs []ValidationError

	dup := false
	targets := m.Targets()
	for i := 1; i < len(targets); i++ {
		if targets[i] == targets[i-1] {
			dup = true
			break
		}
	}
	if dup {
		errs = append(errs, ValidationError{
			Code:    CodeDuplicateMapping,
			Message: "Duplicate mapping detected. Each standard field can only be used once.",
		})
	}

	if !m.Has(OrderDate) {
		errs = append(errs, ValidationError{
			Code:    CodeMissingOrderDate,
			Message: "You must map a column to 'order_date'.",
		})
	}

	hasMeasure := false
	for _, f := range measureFields {
		if m.Has(f) {
			hasMeasure = true
			break
		}
	}
	if !hasMeasure {
		errs = append(errs, ValidationError{
			Code:    CodeMissingMeasure,
			Message: "You must map at least one measure: quantity, price_per_unit, or total_amount.",
		})
	}
	return errs
}
