package services

import (
	"context"
	"fmt"
	"strings"

	"wikimart/internal/apperrors"
	"wikimart/internal/domain"
	"wikimart/internal/metrics"
	"wikimart/internal/repos"
	"wikimart/internal/validate"
)

type ListingService struct {
	Listings *repos.ListingRepo
	Bids     *repos.BidRepo
	Comments *repos.CommentRepo
	Watch    *WatchlistService
}

func NewListingService(l *repos.ListingRepo, b *repos.BidRepo, c *repos.CommentRepo, w *WatchlistService) *ListingService {
	return &ListingService{Listings: l, Bids: b, Comments: c, Watch: w}
}

// ListingForm carries the new-listing fields. StartingPrice stays a string
// until validated so a bad value is reported rather than silently zeroed.
type ListingForm struct {
	Title         string `validate:"required,max=64"`
	Description   string `validate:"required"`
	ImageURL      string `validate:"omitempty,max=200,http_url"`
	Category      string `validate:"category"`
	StartingPrice string `validate:"required"`
}

// EditForm holds the fields an owner may change on an active listing.
type EditForm struct {
	Title    string `validate:"required,max=64"`
	ImageURL string `validate:"omitempty,max=200,http_url"`
	Category string `validate:"category"`
}

func normaliseCategory(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return domain.DefaultCategory
	}
	return code
}

func (s *ListingService) Create(ctx context.Context, actor *domain.User, f ListingForm) (*domain.Listing, error) {
	f.Title = strings.TrimSpace(f.Title)
	f.Description = strings.TrimSpace(f.Description)
	f.ImageURL = strings.TrimSpace(f.ImageURL)
	f.Category = normaliseCategory(f.Category)
	if err := validate.Struct(f); err != nil {
		return nil, err
	}
	price, ok := validate.Price(f.StartingPrice)
	if !ok {
		return nil, fmt.Errorf("%w: starting price must be a whole number of 0 or more", apperrors.ErrValidation)
	}
	l := &domain.Listing{
		Title:         f.Title,
		Description:   f.Description,
		ImageURL:      f.ImageURL,
		Category:      f.Category,
		StartingPrice: price,
		OwnerID:       actor.ID,
	}
	if err := s.Listings.Create(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *ListingService) Get(ctx context.Context, id int64) (domain.Listing, error) {
	return s.Listings.Get(ctx, id)
}

// ownedActive loads a listing and applies the owner-only, active-only guards
// shared by edit and close.
func (s *ListingService) ownedActive(ctx context.Context, actor *domain.User, id int64, deny string) (domain.Listing, error) {
	l, err := s.Listings.Get(ctx, id)
	if err != nil {
		return l, err
	}
	if l.OwnerID != actor.ID {
		return l, fmt.Errorf("%w: %s", apperrors.ErrPermissionDenied, deny)
	}
	if !l.Active {
		return l, fmt.Errorf("%w: already closed", apperrors.ErrListingClosed)
	}
	return l, nil
}

// CheckEditable reports whether actor may open the edit form.
func (s *ListingService) CheckEditable(ctx context.Context, actor *domain.User, id int64) (domain.Listing, error) {
	return s.ownedActive(ctx, actor, id, "cannot edit a listing you don't own")
}

func (s *ListingService) Edit(ctx context.Context, actor *domain.User, id int64, f EditForm) error {
	if _, err := s.CheckEditable(ctx, actor, id); err != nil {
		return err
	}
	f.Title = strings.TrimSpace(f.Title)
	f.ImageURL = strings.TrimSpace(f.ImageURL)
	f.Category = normaliseCategory(f.Category)
	if err := validate.Struct(f); err != nil {
		return err
	}
	return s.Listings.Update(ctx, id, f.Title, f.ImageURL, f.Category)
}

// Close ends the auction. There is no way back.
func (s *ListingService) Close(ctx context.Context, actor *domain.User, id int64) error {
	if _, err := s.ownedActive(ctx, actor, id, "cannot close a listing you don't own"); err != nil {
		return err
	}
	if err := s.Listings.Close(ctx, id); err != nil {
		return err
	}
	metrics.AuctionClosed()
	return nil
}

func (s *ListingService) Active(ctx context.Context) ([]domain.Listing, error) {
	return s.Listings.ListActive(ctx)
}

// Category returns the active listings of a known category.
func (s *ListingService) Category(ctx context.Context, code string) (domain.Category, []domain.Listing, error) {
	cat, ok := domain.LookupCategory(code)
	if !ok {
		return cat, nil, fmt.Errorf("%w: no such category", apperrors.ErrNotFound)
	}
	ls, err := s.Listings.ListActiveByCategory(ctx, cat.Code)
	return cat, ls, err
}

// Activity is the union of listings the user owns and listings they bid on.
func (s *ListingService) Activity(ctx context.Context, actor *domain.User) ([]domain.Listing, error) {
	return s.Listings.ListForActivity(ctx, actor.ID)
}

// Detail is everything the listing page shows.
type Detail struct {
	Listing    domain.Listing
	Bids       []domain.Bid
	Winning    *domain.Bid
	MinimumBid int64
	Comments   []domain.Comment
	Watching   bool
	IsOwner    bool
	IsWinner   bool
}

// Detail assembles the listing page; viewer may be nil for anonymous visitors.
func (s *ListingService) Detail(ctx context.Context, viewer *domain.User, id int64) (Detail, error) {
	var d Detail
	l, err := s.Listings.Get(ctx, id)
	if err != nil {
		return d, err
	}
	d.Listing = l
	if d.Bids, err = s.Bids.ForListing(ctx, id); err != nil {
		return d, err
	}
	if len(d.Bids) > 0 {
		d.Winning = &d.Bids[0]
	}
	d.MinimumBid = domain.MinimumBid(l.StartingPrice, d.Winning)
	if d.Comments, err = s.Comments.ForListing(ctx, id); err != nil {
		return d, err
	}
	if viewer != nil {
		d.IsOwner = viewer.ID == l.OwnerID
		d.IsWinner = d.Winning != nil && d.Winning.BidderID == viewer.ID
		if d.Watching, err = s.Watch.Contains(ctx, viewer, id); err != nil {
			return d, err
		}
	}
	return d, nil
}
