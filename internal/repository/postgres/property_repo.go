// internal/repository/postgres/property_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"quinto-service/internal/domain/property"
	xerrors "quinto-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PropertyRepository struct {
	db *pgxpool.Pool
}

func NewPropertyRepository(db *pgxpool.Pool) *PropertyRepository {
	return &PropertyRepository{db: db}
}

const propertyColumns = `
	id, owner_id, title, description, price, location, property_type,
	bedrooms, bathrooms, area, features, status, is_featured, views_count,
	created_at, updated_at, deleted_at
`

func scanProperty(row pgx.Row, p *property.Property) error {
	return row.Scan(
		&p.ID, &p.OwnerID, &p.Title, &p.Description, &p.Price, &p.Location,
		&p.PropertyType, &p.Bedrooms, &p.Bathrooms, &p.Area, &p.Features,
		&p.Status, &p.IsFeatured, &p.ViewsCount,
		&p.CreatedAt, &p.UpdatedAt, &p.DeletedAt,
	)
}

// Create inserts a new listing
func (r *PropertyRepository) Create(ctx context.Context, p *property.Property) error {
	query := `
		INSERT INTO properties (
			owner_id, title, description, price, location, property_type,
			bedrooms, bathrooms, area, features, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(
		ctx, query,
		p.OwnerID, p.Title, p.Description, p.Price, p.Location, p.PropertyType,
		p.Bedrooms, p.Bathrooms, p.Area, p.Features, p.Status,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create property: %w", err)
	}

	return nil
}

// FindByID retrieves a listing with its image records
func (r *PropertyRepository) FindByID(ctx context.Context, id int64) (*property.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE id = $1 AND deleted_at IS NULL`

	var p property.Property
	err := scanProperty(r.db.QueryRow(ctx, query, id), &p)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find property: %w", err)
	}

	images, err := r.ListImages(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Images = images

	return &p, nil
}

// Search lists available properties matching the public filters.
func (r *PropertyRepository) Search(ctx context.Context, f *property.SearchFilters) ([]property.Property, int64, error) {
	conds := []string{"deleted_at IS NULL", "status = 'available'"}
	args := []interface{}{}
	argn := 1

	add := func(cond string, val interface{}) {
		conds = append(conds, fmt.Sprintf(cond, argn))
		args = append(args, val)
		argn++
	}

	if f.Location != "" {
		add("location ILIKE $%d", "%"+f.Location+"%")
	}
	if f.PropertyType != "" {
		add("property_type = $%d", f.PropertyType)
	}
	if f.PriceMin > 0 {
		add("price >= $%d", f.PriceMin)
	}
	if f.PriceMax > 0 {
		add("price <= $%d", f.PriceMax)
	}
	if f.BedroomsMin > 0 {
		add("bedrooms >= $%d", f.BedroomsMin)
	}

	where := strings.Join(conds, " AND ")

	var total int64
	countQuery := `SELECT COUNT(*) FROM properties WHERE ` + where
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count properties: %w", err)
	}

	query := fmt.Sprintf(
		`SELECT %s FROM properties WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		propertyColumns, where, argn, argn+1,
	)
	args = append(args, f.PageSize, (f.Page-1)*f.PageSize)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search properties: %w", err)
	}
	defer rows.Close()

	var props []property.Property
	for rows.Next() {
		var p property.Property
		if err := scanProperty(rows, &p); err != nil {
			return nil, 0, fmt.Errorf("failed to scan property: %w", err)
		}
		props = append(props, p)
	}

	return props, total, rows.Err()
}

// ListByOwner returns all of a broker's listings, newest first.
func (r *PropertyRepository) ListByOwner(ctx context.Context, ownerID int64) ([]property.Property, error) {
	query := `SELECT ` + propertyColumns + `
		FROM properties
		WHERE owner_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}
	defer rows.Close()

	var props []property.Property
	for rows.Next() {
		var p property.Property
		if err := scanProperty(rows, &p); err != nil {
			return nil, fmt.Errorf("failed to scan property: %w", err)
		}
		props = append(props, p)
	}

	return props, rows.Err()
}

// ListFeatured returns featured available listings.
func (r *PropertyRepository) ListFeatured(ctx context.Context, limit int) ([]property.Property, error) {
	query := `SELECT ` + propertyColumns + `
		FROM properties
		WHERE is_featured AND status = 'available' AND deleted_at IS NULL
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list featured properties: %w", err)
	}
	defer rows.Close()

	var props []property.Property
	for rows.Next() {
		var p property.Property
		if err := scanProperty(rows, &p); err != nil {
			return nil, fmt.Errorf("failed to scan property: %w", err)
		}
		props = append(props, p)
	}

	return props, rows.Err()
}

// Update patches mutable listing fields, owner-scoped.
func (r *PropertyRepository) Update(ctx context.Context, id, ownerID int64, req *property.UpdatePropertyRequest) error {
	query := `
		UPDATE properties
		SET title = COALESCE($3, title),
		    description = COALESCE($4, description),
		    price = COALESCE($5, price),
		    location = COALESCE($6, location),
		    property_type = COALESCE($7, property_type),
		    bedrooms = COALESCE($8, bedrooms),
		    bathrooms = COALESCE($9, bathrooms),
		    area = COALESCE($10, area),
		    features = COALESCE($11, features),
		    updated_at = NOW()
		WHERE id = $1 AND owner_id = $2 AND deleted_at IS NULL
	`

	var features interface{}
	if req.Features != nil {
		features = req.Features
	}

	tag, err := r.db.Exec(ctx, query, id, ownerID,
		req.Title, req.Description, req.Price, req.Location, req.PropertyType,
		req.Bedrooms, req.Bathrooms, req.Area, features,
	)
	if err != nil {
		return fmt.Errorf("failed to update property: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// UpdateStatus flips the listing status (available/reserved/sold), owner-scoped.
func (r *PropertyRepository) UpdateStatus(ctx context.Context, id, ownerID int64, status string) error {
	query := `
		UPDATE properties SET status = $3, updated_at = NOW()
		WHERE id = $1 AND owner_id = $2 AND deleted_at IS NULL
	`

	tag, err := r.db.Exec(ctx, query, id, ownerID, status)
	if err != nil {
		return fmt.Errorf("failed to update property status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// SoftDelete marks a listing deleted, owner-scoped.
func (r *PropertyRepository) SoftDelete(ctx context.Context, id, ownerID int64) error {
	query := `
		UPDATE properties SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND owner_id = $2 AND deleted_at IS NULL
	`

	tag, err := r.db.Exec(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete property: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// Count returns the number of live listings, used by the admin overview.
func (r *PropertyRepository) Count(ctx context.Context) (int64, error) {
	query := `SELECT COUNT(*) FROM properties WHERE deleted_at IS NULL`

	var count int64
	if err := r.db.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count properties: %w", err)
	}
	return count, nil
}

// AddImages inserts image records for a listing.
func (r *PropertyRepository) AddImages(ctx context.Context, propertyID int64, urls []string) error {
	query := `
		INSERT INTO property_images (property_id, image_url, display_order, is_primary)
		VALUES ($1, $2, $3, $4)
	`

	for i, url := range urls {
		if _, err := r.db.Exec(ctx, query, propertyID, url, i, i == 0); err != nil {
			return fmt.Errorf("failed to add property image: %w", err)
		}
	}

	return nil
}

// ListImages returns image records ordered for display.
func (r *PropertyRepository) ListImages(ctx context.Context, propertyID int64) ([]property.Image, error) {
	query := `
		SELECT id, property_id, image_url, display_order, is_primary, created_at
		FROM property_images
		WHERE property_id = $1
		ORDER BY display_order
	`

	rows, err := r.db.Query(ctx, query, propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list property images: %w", err)
	}
	defer rows.Close()

	var images []property.Image
	for rows.Next() {
		var img property.Image
		if err := rows.Scan(&img.ID, &img.PropertyID, &img.ImageURL, &img.DisplayOrder, &img.IsPrimary, &img.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan property image: %w", err)
		}
		images = append(images, img)
	}

	return images, rows.Err()
}

// AddViews flushes a view-count delta accumulated in Redis.
func (r *PropertyRepository) AddViews(ctx context.Context, propertyID, delta int64) error {
	query := `UPDATE properties SET views_count = views_count + $2 WHERE id = $1`

	if _, err := r.db.Exec(ctx, query, propertyID, delta); err != nil {
		return fmt.Errorf("failed to add property views: %w", err)
	}
	return nil
}

// AnalyticsSummary aggregates engagement counters for one listing.
func (r *PropertyRepository) AnalyticsSummary(ctx context.Context, propertyID int64) (*property.AnalyticsSummary, error) {
	query := `
		SELECT
			p.views_count,
			(SELECT COUNT(*) FROM favorites f WHERE f.property_id = p.id),
			(SELECT COUNT(*) FROM property_interests i WHERE i.property_id = p.id),
			(SELECT COUNT(*) FROM property_visits v WHERE v.property_id = p.id AND v.status != 'cancelled'),
			(SELECT COUNT(*) FROM reviews rv WHERE rv.target = 'property' AND rv.target_id = p.id),
			(SELECT COALESCE(AVG(rv.rating), 0) FROM reviews rv WHERE rv.target = 'property' AND rv.target_id = p.id)
		FROM properties p
		WHERE p.id = $1 AND p.deleted_at IS NULL
	`

	s := property.AnalyticsSummary{PropertyID: propertyID}
	err := r.db.QueryRow(ctx, query, propertyID).Scan(
		&s.Views, &s.Favorites, &s.Interests, &s.VisitsBooked, &s.ReviewsCount, &s.AverageRating,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load analytics summary: %w", err)
	}

	return &s, nil
}
