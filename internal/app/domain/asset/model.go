package asset

import "time"

// Asset is a published asset pack in the catalogue. CreatedBy is a user id
// back-reference; the user record itself lives outside this service.
type Asset struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Category     string    `json:"category"`
	FileFormats  string    `json:"fileFormats"`
	Engines      []string  `json:"engines"`
	Engine       string    `json:"engine,omitempty"`
	Tags         []string  `json:"tags"`
	SourceStore  string    `json:"sourceStore,omitempty"`
	ExternalURL  string    `json:"externalUrl,omitempty"`
	Price        float64   `json:"price"`
	Thumbnail    string    `json:"thumbnail,omitempty"`
	FileURL      string    `json:"fileUrl,omitempty"`
	CreatedBy    string    `json:"createdBy"`
	Downloads    int64     `json:"downloads"`
	Rating       float64   `json:"rating"`
	RatingsCount int64     `json:"ratingsCount"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Uncategorized is how an empty category is rendered.
const Uncategorized = "Uncategorized"

// Categories is the fixed set accepted at publish time, in display order.
var Categories = []string{
	"Characters",
	"Environments",
	"UI/UX",
	"Audio",
	"VFX",
	"3D Models",
	"Textures",
	"Animations",
}

// IsValidCategory reports whether c is one of Categories. Matching is exact.
func IsValidCategory(c string) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// DisplayCategory returns the category label, or Uncategorized when empty.
func (a Asset) DisplayCategory() string {
	if a.Category == "" {
		return Uncategorized
	}
	return a.Category
}

// IsFree reports whether the asset costs nothing.
func (a Asset) IsFree() bool {
	return a.Price == 0
}

// SupportsEngine reports whether engine is the primary engine or one of the
// compatible engines.
func (a Asset) SupportsEngine(engine string) bool {
	if a.Engine == engine {
		return true
	}
	for _, e := range a.Engines {
		if e == engine {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so stored records never alias caller slices.
func (a Asset) Clone() Asset {
	out := a
	out.Engines = cloneStrings(a.Engines)
	out.Tags = cloneStrings(a.Tags)
	return out
}

func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
