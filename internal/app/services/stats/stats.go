// Package stats derives performance rollups from asset records. Views and
// likes are estimates; nothing in the catalogue tracks them yet.
package stats

import (
	"github.com/R3E-Network/asset_catalog/internal/app/domain/asset"
)

// Estimator derives engagement figures that are not tracked directly.
type Estimator interface {
	Views(downloads int64) int64
	Likes(downloads int64) int64
}

// FixedRatioEstimator reports three views per download and one like per
// five downloads, rounded half up.
type FixedRatioEstimator struct{}

func (FixedRatioEstimator) Views(downloads int64) int64 {
	return nonNegative(downloads) * 3
}

// Likes computes round_half_up(d * 0.2) as (2d + 5) / 10 to avoid float
// drift on large totals.
func (FixedRatioEstimator) Likes(downloads int64) int64 {
	return (2*nonNegative(downloads) + 5) / 10
}

// MetricsSummary is the rollup over a set of assets.
type MetricsSummary struct {
	TotalAssets    int     `json:"totalAssets"`
	TotalDownloads int64   `json:"totalDownloads"`
	TotalViews     int64   `json:"totalViews"`
	TotalLikes     int64   `json:"totalLikes"`
	TotalRevenue   float64 `json:"totalRevenue"`
}

// AssetMetrics are the figures for a single asset.
type AssetMetrics struct {
	Downloads int64   `json:"downloads"`
	Views     int64   `json:"views"`
	Likes     int64   `json:"likes"`
	Revenue   float64 `json:"revenue"`
}

// AssetView pairs an asset with its metrics for dashboards.
type AssetView struct {
	asset.Asset
	Metrics AssetMetrics `json:"metrics"`
}

// Aggregator computes rollups with a pluggable estimator.
type Aggregator struct {
	estimator Estimator
}

// NewAggregator returns an aggregator; a nil estimator means FixedRatioEstimator.
func NewAggregator(e Estimator) Aggregator {
	if e == nil {
		e = FixedRatioEstimator{}
	}
	return Aggregator{estimator: e}
}

var defaultAggregator = NewAggregator(nil)

// Aggregate summarises assets with the default estimator.
func Aggregate(assets []asset.Asset) MetricsSummary {
	return defaultAggregator.Aggregate(assets)
}

// ForAsset computes a single asset's metrics with the default estimator.
func ForAsset(a asset.Asset) AssetMetrics {
	return defaultAggregator.ForAsset(a)
}

// Views decorates each asset with its metrics, preserving order.
func Views(assets []asset.Asset) []AssetView {
	return defaultAggregator.Views(assets)
}

// Aggregate summarises assets. Estimates are derived from the download
// total, not summed per asset, so rounding happens once.
func (g Aggregator) Aggregate(assets []asset.Asset) MetricsSummary {
	summary := MetricsSummary{TotalAssets: len(assets)}
	for _, a := range assets {
		d := nonNegative(a.Downloads)
		summary.TotalDownloads += d
		summary.TotalRevenue += revenue(a.Price, d)
	}
	summary.TotalViews = g.estimator.Views(summary.TotalDownloads)
	summary.TotalLikes = g.estimator.Likes(summary.TotalDownloads)
	return summary
}

func (g Aggregator) ForAsset(a asset.Asset) AssetMetrics {
	d := nonNegative(a.Downloads)
	return AssetMetrics{
		Downloads: d,
		Views:     g.estimator.Views(d),
		Likes:     g.estimator.Likes(d),
		Revenue:   revenue(a.Price, d),
	}
}

func (g Aggregator) Views(assets []asset.Asset) []AssetView {
	out := make([]AssetView, 0, len(assets))
	for _, a := range assets {
		out = append(out, AssetView{Asset: a, Metrics: g.ForAsset(a)})
	}
	return out
}

func revenue(price float64, downloads int64) float64 {
	if price <= 0 {
		return 0
	}
	return price * float64(downloads)
}

func nonNegative(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}
