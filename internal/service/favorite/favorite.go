// internal/service/favorite/favorite.go
package favorite

import (
	"context"

	"quinto-service/internal/domain/favorite"
	xerrors "quinto-service/internal/pkg/errors"
	"quinto-service/internal/repository/postgres"

	"go.uber.org/zap"
)

type FavoriteService struct {
	favoriteRepo *postgres.FavoriteRepository
	propertyRepo *postgres.PropertyRepository
	logger       *zap.Logger
}

func NewFavoriteService(favoriteRepo *postgres.FavoriteRepository, propertyRepo *postgres.PropertyRepository, logger *zap.Logger) *FavoriteService {
	return &FavoriteService{
		favoriteRepo: favoriteRepo,
		propertyRepo: propertyRepo,
		logger:       logger,
	}
}

// Toggle favorites the listing if it isn't favorited yet and unfavorites it
// otherwise, returning the resulting state.
func (s *FavoriteService) Toggle(ctx context.Context, userID, propertyID int64) (*favorite.ToggleResult, error) {
	if _, err := s.propertyRepo.FindByID(ctx, propertyID); err != nil {
		return nil, err
	}

	_, err := s.favoriteRepo.Find(ctx, userID, propertyID)
	switch {
	case err == nil:
		if err := s.favoriteRepo.Delete(ctx, userID, propertyID); err != nil {
			return nil, err
		}
		return &favorite.ToggleResult{Favorited: false}, nil

	case xerrors.Is(err, xerrors.ErrNotFound):
		f := &favorite.Favorite{UserID: userID, PropertyID: propertyID}
		if err := s.favoriteRepo.Create(ctx, f); err != nil {
			return nil, err
		}
		return &favorite.ToggleResult{Favorited: true}, nil

	default:
		return nil, err
	}
}

// ListMine returns the user's favorites with their property projections.
func (s *FavoriteService) ListMine(ctx context.Context, userID int64) ([]favorite.Favorite, error) {
	return s.favoriteRepo.ListByUser(ctx, userID)
}

// CreateFolder adds a folder to organize favorites.
func (s *FavoriteService) CreateFolder(ctx context.Context, userID int64, req *favorite.CreateFolderRequest) (*favorite.Folder, error) {
	f := &favorite.Folder{UserID: userID, Name: req.Name}
	if err := s.favoriteRepo.CreateFolder(ctx, f); err != nil {
		s.logger.Error("failed to create favorite folder", zap.Error(err))
		return nil, err
	}
	return f, nil
}

// ListFolders returns the user's folders.
func (s *FavoriteService) ListFolders(ctx context.Context, userID int64) ([]favorite.Folder, error) {
	return s.favoriteRepo.ListFolders(ctx, userID)
}

// AssignFolder moves a favorite into a folder, or out of all folders when
// folderID is nil.
func (s *FavoriteService) AssignFolder(ctx context.Context, favoriteID, userID int64, folderID *int64) error {
	if folderID != nil {
		folders, err := s.favoriteRepo.ListFolders(ctx, userID)
		if err != nil {
			return err
		}
		owned := false
		for _, f := range folders {
			if f.ID == *folderID {
				owned = true
				break
			}
		}
		if !owned {
			return xerrors.ErrNotFound
		}
	}

	return s.favoriteRepo.AssignFolder(ctx, favoriteID, userID, folderID)
}
