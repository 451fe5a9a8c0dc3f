package services

import (
	"context"
	"fmt"

	"wikimart/internal/apperrors"
	"wikimart/internal/domain"
	"wikimart/internal/repos"
)

type WatchlistService struct {
	Listings *repos.ListingRepo
	Repo     *repos.WatchlistRepo
}

func NewWatchlistService(l *repos.ListingRepo, r *repos.WatchlistRepo) *WatchlistService {
	return &WatchlistService{Listings: l, Repo: r}
}

// Add is a no-op when the listing is already watched.
func (s *WatchlistService) Add(ctx context.Context, actor *domain.User, listingID int64) error {
	l, err := s.Listings.Get(ctx, listingID)
	if err != nil {
		return err
	}
	if l.OwnerID == actor.ID {
		return fmt.Errorf("%w: you cannot watch your own listing", apperrors.ErrPermissionDenied)
	}
	return s.Repo.Add(ctx, actor.ID, listingID)
}

// Remove is a no-op when the listing is not watched.
func (s *WatchlistService) Remove(ctx context.Context, actor *domain.User, listingID int64) error {
	if _, err := s.Listings.Get(ctx, listingID); err != nil {
		return err
	}
	return s.Repo.Remove(ctx, actor.ID, listingID)
}

func (s *WatchlistService) List(ctx context.Context, actor *domain.User) ([]domain.Listing, error) {
	return s.Repo.List(ctx, actor.ID)
}

func (s *WatchlistService) Contains(ctx context.Context, actor *domain.User, listingID int64) (bool, error) {
	return s.Repo.Contains(ctx, actor.ID, listingID)
}
