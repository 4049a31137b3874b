// internal/repository/postgres/review_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"quinto-service/internal/domain/review"
	xerrors "quinto-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ReviewRepository struct {
	db *pgxpool.Pool
}

func NewReviewRepository(db *pgxpool.Pool) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create inserts a review. The (user_id, target, target_id) unique index
// rejects a second review of the same target by the same user.
func (r *ReviewRepository) Create(ctx context.Context, rv *review.Review) error {
	query := `
		INSERT INTO reviews (user_id, target, target_id, rating, comment)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(
		ctx, query,
		rv.UserID, rv.Target, rv.TargetID, rv.Rating, rv.Comment,
	).Scan(&rv.ID, &rv.CreatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return xerrors.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}

	return nil
}

// ListByTarget returns reviews for a property or broker, newest first.
func (r *ReviewRepository) ListByTarget(ctx context.Context, target string, targetID int64) ([]review.Review, error) {
	query := `
		SELECT rv.id, rv.user_id, rv.target, rv.target_id, rv.rating, rv.comment,
		       rv.created_at, idn.full_name
		FROM reviews rv
		JOIN identities idn ON idn.id = rv.user_id
		WHERE rv.target = $1 AND rv.target_id = $2
		ORDER BY rv.created_at DESC
	`

	rows, err := r.db.Query(ctx, query, target, targetID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	var reviews []review.Review
	for rows.Next() {
		var rv review.Review
		err := rows.Scan(
			&rv.ID, &rv.UserID, &rv.Target, &rv.TargetID, &rv.Rating, &rv.Comment,
			&rv.CreatedAt, &rv.ReviewerName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, rv)
	}

	return reviews, rows.Err()
}

// AverageRating returns the mean rating and total count for a target.
func (r *ReviewRepository) AverageRating(ctx context.Context, target string, targetID int64) (float64, int64, error) {
	query := `
		SELECT COALESCE(AVG(rating), 0), COUNT(*)
		FROM reviews
		WHERE target = $1 AND target_id = $2
	`

	var avg float64
	var total int64
	if err := r.db.QueryRow(ctx, query, target, targetID).Scan(&avg, &total); err != nil {
		return 0, 0, fmt.Errorf("failed to average reviews: %w", err)
	}

	return avg, total, nil
}
