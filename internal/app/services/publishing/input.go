package publishing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ListInput is a multi-valued submission field. Clients send either one
// comma-separated string or a list of items.
type ListInput struct {
	delimited bool
	raw       string
	items     []string
}

// Delimited wraps a single comma-separated value.
func Delimited(raw string) ListInput {
	return ListInput{delimited: true, raw: raw}
}

// Items wraps an explicit list of values.
func Items(items ...string) ListInput {
	return ListInput{items: append([]string(nil), items...)}
}

// FormValues builds a ListInput from repeated form values: one value is
// treated as delimited, several as a list.
func FormValues(values []string) ListInput {
	switch len(values) {
	case 0:
		return ListInput{}
	case 1:
		return Delimited(values[0])
	default:
		return Items(values...)
	}
}

// Entries returns the raw entries before trimming and de-duplication.
func (l ListInput) Entries() []string {
	if l.delimited {
		return strings.Split(l.raw, ",")
	}
	return l.items
}

func (l ListInput) IsZero() bool {
	return !l.delimited && len(l.items) == 0
}

// UnmarshalJSON accepts a string, an array of strings or null.
func (l *ListInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*l = ListInput{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*l = Delimited(s)
		return nil
	}
	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("expected string or array of strings")
	}
	*l = Items(items...)
	return nil
}

func (l ListInput) MarshalJSON() ([]byte, error) {
	if l.delimited {
		return json.Marshal(l.raw)
	}
	if l.items == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l.items)
}

// PriceInput is the raw price as submitted.
type PriceInput struct {
	raw string
}

// PriceText wraps a textual price such as a form value.
func PriceText(raw string) PriceInput {
	return PriceInput{raw: raw}
}

// PriceNumber wraps a numeric price.
func PriceNumber(v float64) PriceInput {
	return PriceInput{raw: strconv.FormatFloat(v, 'f', -1, 64)}
}

// Value parses the price. Anything that is not a finite, non-negative
// number is 0, which means free.
func (p PriceInput) Value() float64 {
	raw := strings.TrimSpace(p.raw)
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// UnmarshalJSON accepts a number, a string or null.
func (p *PriceInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*p = PriceInput{}
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = PriceText(s)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("expected number or string")
		}
		*p = PriceText(n.String())
	}
	return nil
}

func (p PriceInput) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Value())
}
