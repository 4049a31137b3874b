// internal/repository/postgres/favorite_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"quinto-service/internal/domain/favorite"
	xerrors "quinto-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FavoriteRepository struct {
	db *pgxpool.Pool
}

func NewFavoriteRepository(db *pgxpool.Pool) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// Find returns the favorite for (user, property), or ErrNotFound.
func (r *FavoriteRepository) Find(ctx context.Context, userID, propertyID int64) (*favorite.Favorite, error) {
	query := `
		SELECT id, user_id, property_id, folder_id, created_at
		FROM favorites
		WHERE user_id = $1 AND property_id = $2
	`

	var f favorite.Favorite
	err := r.db.QueryRow(ctx, query, userID, propertyID).Scan(
		&f.ID, &f.UserID, &f.PropertyID, &f.FolderID, &f.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find favorite: %w", err)
	}

	return &f, nil
}

// Create inserts a favorite
func (r *FavoriteRepository) Create(ctx context.Context, f *favorite.Favorite) error {
	query := `
		INSERT INTO favorites (user_id, property_id, folder_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query, f.UserID, f.PropertyID, f.FolderID).Scan(&f.ID, &f.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create favorite: %w", err)
	}

	return nil
}

// Delete removes a favorite
func (r *FavoriteRepository) Delete(ctx context.Context, userID, propertyID int64) error {
	query := `DELETE FROM favorites WHERE user_id = $1 AND property_id = $2`

	tag, err := r.db.Exec(ctx, query, userID, propertyID)
	if err != nil {
		return fmt.Errorf("failed to delete favorite: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// ListByUser returns the user's favorites with property projections.
func (r *FavoriteRepository) ListByUser(ctx context.Context, userID int64) ([]favorite.Favorite, error) {
	query := `
		SELECT f.id, f.user_id, f.property_id, f.folder_id, f.created_at,
		       p.title, p.price,
		       (SELECT img.image_url FROM property_images img
		        WHERE img.property_id = p.id AND img.is_primary
		        ORDER BY img.display_order LIMIT 1)
		FROM favorites f
		JOIN properties p ON p.id = f.property_id
		WHERE f.user_id = $1 AND p.deleted_at IS NULL
		ORDER BY f.created_at DESC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	defer rows.Close()

	var favorites []favorite.Favorite
	for rows.Next() {
		var f favorite.Favorite
		var price *float64
		err := rows.Scan(
			&f.ID, &f.UserID, &f.PropertyID, &f.FolderID, &f.CreatedAt,
			&f.PropertyTitle, &price, &f.ImageURL,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan favorite: %w", err)
		}
		if price != nil {
			f.PropertyPrice.Float64 = *price
			f.PropertyPrice.Valid = true
		}
		favorites = append(favorites, f)
	}

	return favorites, rows.Err()
}

// AssignFolder moves a favorite into (or out of) a folder.
func (r *FavoriteRepository) AssignFolder(ctx context.Context, id, userID int64, folderID *int64) error {
	query := `UPDATE favorites SET folder_id = $3 WHERE id = $1 AND user_id = $2`

	tag, err := r.db.Exec(ctx, query, id, userID, folderID)
	if err != nil {
		return fmt.Errorf("failed to assign favorite folder: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// CreateFolder inserts a favorite folder
func (r *FavoriteRepository) CreateFolder(ctx context.Context, f *favorite.Folder) error {
	query := `
		INSERT INTO favorite_folders (user_id, name)
		VALUES ($1, $2)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query, f.UserID, f.Name).Scan(&f.ID, &f.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create folder: %w", err)
	}

	return nil
}

// ListFolders returns the user's folders
func (r *FavoriteRepository) ListFolders(ctx context.Context, userID int64) ([]favorite.Folder, error) {
	query := `
		SELECT id, user_id, name, created_at
		FROM favorite_folders
		WHERE user_id = $1
		ORDER BY name
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list folders: %w", err)
	}
	defer rows.Close()

	var folders []favorite.Folder
	for rows.Next() {
		var f favorite.Folder
		if err := rows.Scan(&f.ID, &f.UserID, &f.Name, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan folder: %w", err)
		}
		folders = append(folders, f)
	}

	return folders, rows.Err()
}
