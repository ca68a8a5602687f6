package schema

import (
	"fmt"
	"strings"
)

// Field is a canonical business column. Every analytics consumer is written
// against these names.
type Field uint8

const (
	TransactionID Field = iota
	OrderDate
	CustomerID
	Gender
	Age
	ProductCategory
	Quantity
	PricePerUnit
	TotalAmount

	numFields
)

// fieldNames is the single variant -> canonical string table.
var fieldNames = [numFields]string{
	TransactionID:   "transaction_id",
	OrderDate:       "order_date",
	CustomerID:      "customer_id",
	Gender:          "gender",
	Age:             "age",
	ProductCategory: "product_category",
	Quantity:        "quantity",
	PricePerUnit:    "price_per_unit",
	TotalAmount:     "total_amount",
}

// Fields returns all canonical fields in declaration order.
func Fields() []Field {
	out := make([]Field, 0, numFields)
	for f := Field(0); f < numFields; f++ {
		out = append(out, f)
	}
	return out
}

// FieldNames returns the canonical strings in declaration order.
func FieldNames() []string {
	out := make([]string, 0, numFields)
	for _, f := range Fields() {
		out = append(out, f.String())
	}
	return out
}

func (f Field) String() string {
	if !f.Valid() {
		return fmt.Sprintf("Field(%d)", uint8(f))
	}
	return fieldNames[f]
}

// Valid reports whether f is one of the declared fields.
func (f Field) Valid() bool { return f < numFields }

// ParseField resolves a canonical string (case-insensitive, surrounding
// spaces ignored) to its Field.
func ParseField(s string) (Field, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for f := Field(0); f < numFields; f++ {
		if fieldNames[f] == key {
			return f, nil
		}
	}
	return 0, fmt.Errorf("unknown canonical field %q (valid: %s)", s, strings.Join(FieldNames(), ", "))
}

// MarshalText encodes the field as its canonical string.
func (f Field) MarshalText() ([]byte, error) {
	if !f.Valid() {
		return nil, fmt.Errorf("invalid canonical field %d", uint8(f))
	}
	return []byte(fieldNames[f]), nil
}

// UnmarshalText decodes a canonical string.
func (f *Field) UnmarshalText(b []byte) error {
	v, err := ParseField(string(b))
	if err != nil {
		return err
	}
	*f = v
	return nil
}
