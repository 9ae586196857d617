package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/R3E-Network/asset_catalog/internal/app/domain/asset"
	"github.com/R3E-Network/asset_catalog/internal/app/storage"
)

// Store implements the storage interfaces backed by PostgreSQL.
type Store struct {
	db *sqlx.DB
}

var _ storage.AssetStore = (*Store)(nil)

// New creates a Store using the provided database handle.
func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

const assetColumns = `id, title, description, category, file_formats, engines, engine, tags,
	source_store, external_url, price, thumbnail, file_url, created_by,
	downloads, rating, ratings_count, created_at, updated_at`

// assetRow mirrors a catalog_assets row.
type assetRow struct {
	ID           string         `db:"id"`
	Title        string         `db:"title"`
	Description  string         `db:"description"`
	Category     string         `db:"category"`
	FileFormats  string         `db:"file_formats"`
	Engines      pq.StringArray `db:"engines"`
	Engine       string         `db:"engine"`
	Tags         pq.StringArray `db:"tags"`
	SourceStore  string         `db:"source_store"`
	ExternalURL  string         `db:"external_url"`
	Price        float64        `db:"price"`
	Thumbnail    string         `db:"thumbnail"`
	FileURL      string         `db:"file_url"`
	CreatedBy    string         `db:"created_by"`
	Downloads    int64          `db:"downloads"`
	Rating       float64        `db:"rating"`
	RatingsCount int64          `db:"ratings_count"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

func (r assetRow) toAsset() asset.Asset {
	engines := []string(r.Engines)
	if engines == nil {
		engines = []string{}
	}
	tags := []string(r.Tags)
	if tags == nil {
		tags = []string{}
	}
	return asset.Asset{
		ID:           r.ID,
		Title:        r.Title,
		Description:  r.Description,
		Category:     r.Category,
		FileFormats:  r.FileFormats,
		Engines:      engines,
		Engine:       r.Engine,
		Tags:         tags,
		SourceStore:  r.SourceStore,
		ExternalURL:  r.ExternalURL,
		Price:        r.Price,
		Thumbnail:    r.Thumbnail,
		FileURL:      r.FileURL,
		CreatedBy:    r.CreatedBy,
		Downloads:    r.Downloads,
		Rating:       r.Rating,
		RatingsCount: r.RatingsCount,
		CreatedAt:    r.CreatedAt.UTC(),
		UpdatedAt:    r.UpdatedAt.UTC(),
	}
}

// --- AssetStore -------------------------------------------------------------

func (s *Store) CreateAsset(ctx context.Context, a asset.Asset) (asset.Asset, error) {
	if a.CreatedBy == "" {
		return asset.Asset{}, errors.New("created_by required")
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now
	a = a.Clone()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO catalog_assets (id, title, description, category, file_formats, engines, engine, tags,
			source_store, external_url, price, thumbnail, file_url, created_by,
			downloads, rating, ratings_count, search_document, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
	`, a.ID, a.Title, a.Description, a.Category, a.FileFormats, pq.StringArray(a.Engines), a.Engine, pq.StringArray(a.Tags),
		a.SourceStore, a.ExternalURL, a.Price, a.Thumbnail, a.FileURL, a.CreatedBy,
		a.Downloads, a.Rating, a.RatingsCount, searchDocument(a), a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return asset.Asset{}, err
	}
	return a, nil
}

func (s *Store) GetAsset(ctx context.Context, id string) (asset.Asset, error) {
	var row assetRow
	err := s.db.GetContext(ctx, &row, `SELECT `+assetColumns+` FROM catalog_assets WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return asset.Asset{}, fmt.Errorf("asset %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return asset.Asset{}, err
	}
	return row.toAsset(), nil
}

func (s *Store) FindAssets(ctx context.Context, q storage.AssetQuery) ([]asset.Asset, error) {
	query, args := buildFindQuery(q)

	var rows []assetRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}

	result := make([]asset.Asset, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.toAsset())
	}
	return result, nil
}

func (s *Store) DeleteAsset(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM catalog_assets WHERE id = $1
	`, id)
	if err != nil {
		return err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return fmt.Errorf("asset %s: %w", id, storage.ErrNotFound)
	}
	return nil
}

// buildFindQuery translates a query into SQL. seq preserves insertion order
// for equal sort values.
func buildFindQuery(q storage.AssetQuery) (string, []any) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	f := q.Filter
	if f.Category != "" {
		where = append(where, "category = "+arg(f.Category))
	}
	if f.Engine != "" {
		p := arg(f.Engine)
		where = append(where, "(engine = "+p+" OR "+p+" = ANY(engines))")
	}
	if f.SourceStore != "" {
		where = append(where, "source_store = "+arg(f.SourceStore))
	}
	if f.CreatedBy != "" {
		where = append(where, "created_by = "+arg(f.CreatedBy))
	}
	switch f.Price {
	case storage.PriceZero:
		where = append(where, "price = 0")
	case storage.PricePositive:
		where = append(where, "price > 0")
	}
	if strings.TrimSpace(f.Text) != "" {
		if tsq := tsQuery(f.Text); tsq != "" {
			where = append(where, "to_tsvector('simple', search_document) @@ to_tsquery('simple', "+arg(tsq)+")")
		} else {
			// text without tokens matches no document
			where = append(where, "FALSE")
		}
	}

	var b strings.Builder
	b.WriteString("SELECT " + assetColumns + " FROM catalog_assets")
	if len(where) > 0 {
		b.WriteString(" WHERE " + strings.Join(where, " AND "))
	}
	b.WriteString(" ORDER BY " + orderColumn(q.Sort) + " DESC, seq ASC")
	if q.Limit > 0 {
		b.WriteString(" LIMIT " + arg(q.Limit))
	}
	return b.String(), args
}

func orderColumn(field storage.SortField) string {
	switch field {
	case storage.SortByCreatedAt:
		return "created_at"
	case storage.SortByRating:
		return "rating"
	default:
		return "downloads"
	}
}

// tsQuery ORs the query tokens. Tokens are letter/digit runs, so they need
// no quoting in tsquery syntax.
func tsQuery(text string) string {
	return strings.Join(asset.Tokenize(text), " | ")
}

// searchDocument is the indexed text of an asset, pre-tokenized the same way
// queries are.
func searchDocument(a asset.Asset) string {
	return strings.Join(asset.IndexedTokens(a), " ")
}
