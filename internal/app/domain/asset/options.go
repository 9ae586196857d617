package asset

import (
	"net/url"
	"sort"
	"strings"
	"unicode"

	svcerrors "github.com/R3E-Network/asset_catalog/internal/errors"
)

// PriceBucket partitions the catalogue into free and paid assets.
type PriceBucket string

const (
	PriceAny  PriceBucket = ""
	PriceFree PriceBucket = "free"
	PricePaid PriceBucket = "paid"
)

// Normalize maps anything but the exact values "free" and "paid" to PriceAny.
func (b PriceBucket) Normalize() PriceBucket {
	switch b {
	case PriceFree:
		return PriceFree
	case PricePaid:
		return PricePaid
	default:
		return PriceAny
	}
}

// SortKey selects the result ordering.
type SortKey string

const (
	SortDownloads SortKey = "downloads"
	SortNewest    SortKey = "newest"
	SortTop       SortKey = "top"
)

// Normalize maps empty and unrecognized keys to SortDownloads. Keys are
// compared exactly.
func (k SortKey) Normalize() SortKey {
	switch k {
	case SortNewest:
		return SortNewest
	case SortTop:
		return SortTop
	default:
		return SortDownloads
	}
}

// maxOptionLength bounds every option value, in bytes.
const maxOptionLength = 256

// SearchOptions are the catalogue filters. Every field is optional and the
// present ones are ANDed.
type SearchOptions struct {
	FreeText    string      `json:"freeText,omitempty"`
	Category    string      `json:"category,omitempty"`
	Engine      string      `json:"engine,omitempty"`
	SourceStore string      `json:"sourceStore,omitempty"`
	PriceBucket PriceBucket `json:"priceBucket,omitempty"`
	SortKey     SortKey     `json:"sortKey,omitempty"`
}

// optionKeys maps every accepted wire key to its field. The short names are
// the ones the web client sends.
var optionKeys = map[string]func(*SearchOptions, string){
	"freeText":    func(o *SearchOptions, v string) { o.FreeText = v },
	"search":      func(o *SearchOptions, v string) { o.FreeText = v },
	"category":    func(o *SearchOptions, v string) { o.Category = v },
	"engine":      func(o *SearchOptions, v string) { o.Engine = v },
	"sourceStore": func(o *SearchOptions, v string) { o.SourceStore = v },
	"source":      func(o *SearchOptions, v string) { o.SourceStore = v },
	"priceBucket": func(o *SearchOptions, v string) { o.PriceBucket = PriceBucket(v) },
	"price":       func(o *SearchOptions, v string) { o.PriceBucket = PriceBucket(v) },
	"sortKey":     func(o *SearchOptions, v string) { o.SortKey = SortKey(v) },
	"sort":        func(o *SearchOptions, v string) { o.SortKey = SortKey(v) },
}

// RecognizedKeys lists the accepted wire keys in sorted order.
func RecognizedKeys() []string {
	keys := make([]string, 0, len(optionKeys))
	for k := range optionKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ParseSearchOptions builds options from a flat key/value map. Unknown keys
// and keys given more than once are rejected.
func ParseSearchOptions(values url.Values) (SearchOptions, error) {
	var opts SearchOptions
	seen := make(map[string]string, len(values))
	// deterministic error messages
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		apply, ok := optionKeys[key]
		if !ok {
			return SearchOptions{}, svcerrors.Validation("unrecognized filter %q", key).
				WithDetails("recognized", RecognizedKeys())
		}
		vals := values[key]
		if len(vals) != 1 {
			return SearchOptions{}, svcerrors.Validation("filter %q must be given exactly once", key)
		}
		field := canonicalKey(key)
		if other, dup := seen[field]; dup {
			return SearchOptions{}, svcerrors.Validation("filters %q and %q set the same option", other, key)
		}
		seen[field] = key
		apply(&opts, vals[0])
	}

	if err := opts.Validate(); err != nil {
		return SearchOptions{}, err
	}
	return opts, nil
}

func canonicalKey(key string) string {
	switch key {
	case "search":
		return "freeText"
	case "source":
		return "sourceStore"
	case "price":
		return "priceBucket"
	case "sort":
		return "sortKey"
	default:
		return key
	}
}

// Validate rejects oversized values and values with control characters.
func (o SearchOptions) Validate() error {
	fields := []struct {
		name  string
		value string
	}{
		{"freeText", o.FreeText},
		{"category", o.Category},
		{"engine", o.Engine},
		{"sourceStore", o.SourceStore},
		{"priceBucket", string(o.PriceBucket)},
		{"sortKey", string(o.SortKey)},
	}
	for _, f := range fields {
		if len(f.value) > maxOptionLength {
			return svcerrors.Validation("filter %q exceeds %d bytes", f.name, maxOptionLength)
		}
		if strings.IndexFunc(f.value, unicode.IsControl) >= 0 {
			return svcerrors.Validation("filter %q contains control characters", f.name)
		}
	}
	return nil
}

// Normalized trims the free text and resolves the enumerated fields.
// Category, engine and source store are exact matches and pass through as
// given.
func (o SearchOptions) Normalized() SearchOptions {
	return SearchOptions{
		FreeText:    strings.TrimSpace(o.FreeText),
		Category:    o.Category,
		Engine:      o.Engine,
		SourceStore: o.SourceStore,
		PriceBucket: o.PriceBucket.Normalize(),
		SortKey:     o.SortKey.Normalize(),
	}
}
