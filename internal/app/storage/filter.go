package storage

import (
	"sort"

	"github.com/R3E-Network/asset_catalog/internal/app/domain/asset"
)

// Matches evaluates the filter against a single record in process. text is
// consulted only when Text is non-empty; nil means asset.TokenMatcher.
func (f AssetFilter) Matches(a asset.Asset, text asset.TextMatcher) bool {
	if f.Category != "" && a.Category != f.Category {
		return false
	}
	if f.Engine != "" && !a.SupportsEngine(f.Engine) {
		return false
	}
	if f.SourceStore != "" && a.SourceStore != f.SourceStore {
		return false
	}
	if f.CreatedBy != "" && a.CreatedBy != f.CreatedBy {
		return false
	}
	switch f.Price {
	case PriceZero:
		if a.Price != 0 {
			return false
		}
	case PricePositive:
		if a.Price <= 0 {
			return false
		}
	}
	if f.Text != "" {
		if text == nil {
			text = asset.TokenMatcher{}
		}
		if !text.Matches(a, f.Text) {
			return false
		}
	}
	return true
}

// SortAssets orders assets descending by field. The sort is stable, so input
// order breaks ties.
func SortAssets(assets []asset.Asset, field SortField) {
	var less func(i, j int) bool
	switch field {
	case SortByCreatedAt:
		less = func(i, j int) bool { return assets[i].CreatedAt.After(assets[j].CreatedAt) }
	case SortByRating:
		less = func(i, j int) bool { return assets[i].Rating > assets[j].Rating }
	default:
		less = func(i, j int) bool { return assets[i].Downloads > assets[j].Downloads }
	}
	sort.SliceStable(assets, less)
}
