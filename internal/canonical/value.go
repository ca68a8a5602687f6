package canonical

import (
	"strconv"
	"time"
)

// State distinguishes present values from the two kinds of missing.
type State uint8

const (
	Present State = iota
	// MissingSource means the raw cell was blank or an NA token.
	MissingSource
	// MissingCoercion means the raw cell had content that did not parse.
	MissingCoercion
)

func (s State) String() string {
	switch s {
	case Present:
		return "present"
	case MissingSource:
		return "missing"
	case MissingCoercion:
		return "invalid"
	default:
		return "unknown"
	}
}

// Kind is the type of a present value.
type Kind uint8

const (
	KindText Kind = iota
	KindNumber
	KindTime
)

// Value is one canonical cell.
type Value struct {
	State State
	Kind  Kind
	Text  string
	Num   float64
	Time  time.Time
	// Raw is the source cell, kept for diagnostics.
	Raw string
}

func TextValue(s string) Value { return Value{Kind: KindText, Text: s, Raw: s} }

func NumberValue(f float64, raw string) Value { return Value{Kind: KindNumber, Num: f, Raw: raw} }

func TimeValue(t time.Time, raw string) Value { return Value{Kind: KindTime, Time: t, Raw: raw} }

func missingFromSource(raw string) Value { return Value{State: MissingSource, Raw: raw} }

func coercionFailed(raw string) Value { return Value{State: MissingCoercion, Raw: raw} }

// Missing reports whether the cell has no usable value.
func (v Value) Missing() bool { return v.State != Present }

// String renders the value for CSV output; missing values render empty.
func (v Value) String() string {
	if v.Missing() {
		return ""
	}
	switch v.Kind {
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case KindTime:
		return formatTime(v.Time)
	default:
		return v.Text
	}
}

// Interface returns a JSON-friendly value; missing becomes nil.
func (v Value) Interface() any {
	if v.Missing() {
		return nil
	}
	switch v.Kind {
	case KindNumber:
		return v.Num
	case KindTime:
		return formatTime(v.Time)
	default:
		return v.Text
	}
}

func formatTime(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format("2006-01-02")
	}
	return t.Format("2006-01-02 15:04:05")
}
