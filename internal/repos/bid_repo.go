package repos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"wikimart/internal/apperrors"
	"wikimart/internal/domain"
)

type BidRepo struct{ db *sqlx.DB }

func NewBidRepo(db *sqlx.DB) *BidRepo { return &BidRepo{db: db} }

type queryer interface {
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
}

// Highest amount first; ties (never expected) go to the newest bid.
const bidOrder = ` ORDER BY b.amount DESC, b.created_at DESC, b.id DESC`

const bidSelect = `
  SELECT b.id, b.listing_id, b.bidder_id, u.username AS bidder_name, b.amount, b.created_at
  FROM bids b
  JOIN users u ON u.id = b.bidder_id
  WHERE b.listing_id = ?`

func (r *BidRepo) ForListing(ctx context.Context, listingID int64) ([]domain.Bid, error) {
	out := []domain.Bid{}
	err := r.db.SelectContext(ctx, &out, bidSelect+bidOrder, listingID)
	return out, err
}

// Winning returns the top-ordered bid, or nil when there are none.
func (r *BidRepo) Winning(ctx context.Context, listingID int64) (*domain.Bid, error) {
	return winning(ctx, r.db, listingID)
}

func winning(ctx context.Context, q queryer, listingID int64) (*domain.Bid, error) {
	var b domain.Bid
	err := q.GetContext(ctx, &b, bidSelect+bidOrder+` LIMIT 1`, listingID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Minimum computes the lowest acceptable next bid from current rows.
func (r *BidRepo) Minimum(ctx context.Context, listingID int64) (int64, error) {
	return minimum(ctx, r.db, listingID)
}

func minimum(ctx context.Context, q queryer, listingID int64) (int64, error) {
	var start int64
	err := q.GetContext(ctx, &start, `SELECT starting_price FROM listings WHERE id = ?`, listingID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%w: no such listing", apperrors.ErrNotFound)
	}
	if err != nil {
		return 0, err
	}
	w, err := winning(ctx, q, listingID)
	if err != nil {
		return 0, err
	}
	return domain.MinimumBid(start, w), nil
}

// PlaceAtomic reads the minimum and inserts the bid inside one transaction.
// The insert itself is guarded on the same condition, so a bid that fell
// below a concurrently raised minimum is refused rather than stored.
// The returned minimum is the one the bid was checked against.
func (r *BidRepo) PlaceAtomic(ctx context.Context, b *domain.Bid) (int64, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	var active bool
	err = tx.GetContext(ctx, &active, `SELECT active FROM listings WHERE id = ?`, b.ListingID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%w: no such listing", apperrors.ErrNotFound)
	}
	if err != nil {
		return 0, err
	}
	if !active {
		return 0, apperrors.ErrListingClosed
	}

	floor, err := minimum(ctx, tx, b.ListingID)
	if err != nil {
		return 0, err
	}
	if b.Amount < floor {
		return floor, fmt.Errorf("%w: minimum acceptable bid is %d", apperrors.ErrBidTooLow, floor)
	}

	b.CreatedAt = now()
	res, err := tx.ExecContext(ctx, `
		INSERT INTO bids(listing_id, bidder_id, amount, created_at)
		SELECT ?, ?, ?, ?
		WHERE EXISTS (SELECT 1 FROM listings WHERE id = ? AND active = 1)
		  AND ? >= COALESCE(
		        (SELECT MAX(amount) + 1 FROM bids WHERE listing_id = ?),
		        (SELECT starting_price FROM listings WHERE id = ?))`,
		b.ListingID, b.BidderID, b.Amount, b.CreatedAt,
		b.ListingID, b.Amount, b.ListingID, b.ListingID)
	if err != nil {
		return floor, fmt.Errorf("insert bid: %w", constraintErr(err))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return floor, fmt.Errorf("%w: minimum acceptable bid is %d", apperrors.ErrBidTooLow, floor)
	}
	if b.ID, err = res.LastInsertId(); err != nil {
		return floor, err
	}
	return floor, tx.Commit()
}
