package publishing

import (
	"strings"

	"github.com/R3E-Network/asset_catalog/internal/app/domain/asset"
	svcerrors "github.com/R3E-Network/asset_catalog/internal/errors"
)

// Submission is an asset as submitted by its creator. It carries no
// identity; the creator id comes from the authenticated caller.
type Submission struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	FileFormats string     `json:"fileFormats"`
	Engines     ListInput  `json:"engines"`
	Engine      string     `json:"engine"`
	Tags        ListInput  `json:"tags"`
	SourceStore string     `json:"sourceStore"`
	ExternalURL string     `json:"externalUrl"`
	Price       PriceInput `json:"price"`
	Thumbnail   string     `json:"thumbnail"`
}

// Normalize validates a submission and turns it into a record ready for the
// store. It has no side effects.
func Normalize(sub Submission, fileRef, creatorID string) (asset.Asset, error) {
	creatorID = strings.TrimSpace(creatorID)
	title := strings.TrimSpace(sub.Title)
	description := strings.TrimSpace(sub.Description)
	category := strings.TrimSpace(sub.Category)

	if creatorID == "" {
		return asset.Asset{}, svcerrors.Validation("creator is required")
	}
	if title == "" {
		return asset.Asset{}, svcerrors.Validation("title is required").WithDetails("field", "title")
	}
	if description == "" {
		return asset.Asset{}, svcerrors.Validation("description is required").WithDetails("field", "description")
	}
	if category == "" {
		return asset.Asset{}, svcerrors.Validation("category is required").WithDetails("field", "category")
	}
	if !asset.IsValidCategory(category) {
		return asset.Asset{}, svcerrors.Validation("unknown category %q", category).
			WithDetails("field", "category").
			WithDetails("allowed", asset.Categories)
	}

	return asset.Asset{
		Title:       title,
		Description: description,
		Category:    category,
		FileFormats: strings.TrimSpace(sub.FileFormats),
		Engines:     cleanEntries(sub.Engines.Entries()),
		Engine:      strings.TrimSpace(sub.Engine),
		Tags:        dedupe(cleanEntries(sub.Tags.Entries())),
		SourceStore: strings.TrimSpace(sub.SourceStore),
		ExternalURL: strings.TrimSpace(sub.ExternalURL),
		Price:       sub.Price.Value(),
		Thumbnail:   strings.TrimSpace(sub.Thumbnail),
		FileURL:     strings.TrimSpace(fileRef),
		CreatedBy:   creatorID,
	}, nil
}

func cleanEntries(entries []string) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if e = strings.TrimSpace(e); e != "" {
			out = append(out, e)
		}
	}
	return out
}

// dedupe keeps the first occurrence of each value. Comparison is
// case-sensitive.
func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := values[:0]
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
