package label

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Text is a string field that also accepts a JSON number. Callers send
// address numbers, ZIP codes and phones either way.
type Text string

func (t Text) String() string { return string(t) }

// UnmarshalJSON accepts strings, numbers and null.
func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*t = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("text field: %w", err)
		}
		*t = Text(n.String())
	}
	return nil
}

// Amount is the declared invoice value. It keeps whether the caller supplied a
// number or text because the two are normalized differently.
type Amount struct {
	Value   string
	Numeric bool
}

// Number builds a numeric amount.
func Number(v float64) Amount {
	return Amount{Value: strings.TrimSpace(fmt.Sprint(v)), Numeric: true}
}

// AmountText builds a textual amount.
func AmountText(s string) Amount {
	return Amount{Value: s}
}

func (a Amount) String() string { return a.Value }

// IsZero reports whether no value was supplied.
func (a Amount) IsZero() bool { return strings.TrimSpace(a.Value) == "" }

// UnmarshalJSON accepts a JSON number, a string or null.
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*a = Amount{}
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = AmountText(s)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("invoice value: %w", err)
		}
		*a = Amount{Value: n.String(), Numeric: true}
	}
	return nil
}

// MarshalJSON writes numeric amounts as numbers and textual ones as strings.
func (a Amount) MarshalJSON() ([]byte, error) {
	if a.Numeric && a.Value != "" {
		return []byte(a.Value), nil
	}
	return json.Marshal(a.Value)
}
