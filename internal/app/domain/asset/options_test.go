package asset

import (
	"net/url"
	"strings"
	"testing"

	svcerrors "github.com/R3E-Network/asset_catalog/internal/errors"
)

func TestParseSearchOptions(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want SearchOptions
	}{
		{"empty", "", SearchOptions{}},
		{"canonical keys", "freeText=orc&category=Characters&engine=Unity&sourceStore=Kenney&priceBucket=free&sortKey=newest",
			SearchOptions{FreeText: "orc", Category: "Characters", Engine: "Unity", SourceStore: "Kenney", PriceBucket: PriceFree, SortKey: SortNewest}},
		{"client aliases", "search=orc&source=itch.io&price=paid&sort=top",
			SearchOptions{FreeText: "orc", SourceStore: "itch.io", PriceBucket: PricePaid, SortKey: SortTop}},
		{"empty value kept", "category=", SearchOptions{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.raw)
			if err != nil {
				t.Fatalf("parse query: %v", err)
			}
			got, err := ParseSearchOptions(values)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %#v want %#v", got, tt.want)
			}
		})
	}
}

func TestParseSearchOptionsRejects(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"unknown key", "colour=red"},
		{"repeated key", "engine=Unity&engine=Godot"},
		{"alias collision", "search=orc&freeText=elf"},
		{"control characters", "search=orc%00"},
		{"oversized", "category=" + strings.Repeat("x", 300)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.raw)
			if err != nil {
				t.Fatalf("parse query: %v", err)
			}
			if _, err := ParseSearchOptions(values); !svcerrors.IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestNormalizedFallsBack(t *testing.T) {
	opts := SearchOptions{FreeText: "  knight  ", PriceBucket: "cheap", SortKey: "alphabetical"}.Normalized()
	if opts.FreeText != "knight" {
		t.Fatalf("free text not trimmed: %q", opts.FreeText)
	}
	if opts.PriceBucket != PriceAny {
		t.Fatalf("unknown bucket should impose no constraint, got %q", opts.PriceBucket)
	}
	if opts.SortKey != SortDownloads {
		t.Fatalf("unknown sort should fall back to downloads, got %q", opts.SortKey)
	}
}

func TestNormalizedComparesExactly(t *testing.T) {
	opts := SearchOptions{Category: " Audio ", Engine: "unity", PriceBucket: "FREE", SortKey: "NEWEST"}.Normalized()
	if opts.PriceBucket != PriceAny {
		t.Fatalf("only the exact bucket values constrain, got %q", opts.PriceBucket)
	}
	if opts.SortKey != SortDownloads {
		t.Fatalf("only the exact sort keys are recognized, got %q", opts.SortKey)
	}
	if opts.Category != " Audio " || opts.Engine != "unity" {
		t.Fatalf("exact-match fields must pass through unchanged: %+v", opts)
	}
	if PriceBucket(" free").Normalize() != PriceAny {
		t.Fatalf("padded bucket should not constrain")
	}
}
