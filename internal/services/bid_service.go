package services

import (
	"context"
	"errors"
	"fmt"

	"wikimart/internal/apperrors"
	"wikimart/internal/domain"
	"wikimart/internal/metrics"
	"wikimart/internal/repos"
	"wikimart/internal/validate"
)

type BidService struct {
	Listings *repos.ListingRepo
	Bids     *repos.BidRepo
}

func NewBidService(l *repos.ListingRepo, b *repos.BidRepo) *BidService {
	return &BidService{Listings: l, Bids: b}
}

// Place checks ownership, state and amount, then records the bid. The
// minimum check and the insert share one transaction in the repo.
func (s *BidService) Place(ctx context.Context, actor *domain.User, listingID int64, rawAmount string) (*domain.Bid, error) {
	l, err := s.Listings.Get(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if l.OwnerID == actor.ID {
		metrics.BidRejected("owner")
		return nil, fmt.Errorf("%w: owner cannot bid on own listing", apperrors.ErrPermissionDenied)
	}
	if !l.Active {
		metrics.BidRejected("closed")
		return nil, apperrors.ErrListingClosed
	}
	amount, ok := validate.Amount(rawAmount)
	if !ok {
		metrics.BidRejected("invalid")
		return nil, fmt.Errorf("%w: bid must be a positive whole number", apperrors.ErrValidation)
	}

	b := &domain.Bid{ListingID: listingID, BidderID: actor.ID, BidderName: actor.Username, Amount: amount}
	if _, err := s.Bids.PlaceAtomic(ctx, b); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrBidTooLow):
			metrics.BidRejected("too_low")
		case errors.Is(err, apperrors.ErrListingClosed):
			metrics.BidRejected("closed")
		}
		return nil, err
	}
	metrics.BidPlaced()
	return b, nil
}
