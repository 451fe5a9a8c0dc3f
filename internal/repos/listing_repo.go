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

type ListingRepo struct{ db *sqlx.DB }

func NewListingRepo(db *sqlx.DB) *ListingRepo { return &ListingRepo{db: db} }

// listingSelect derives the current price and bid count from the bid set.
const listingSelect = `
  SELECT
    l.id, l.title, l.description, l.image_url, l.category, l.starting_price,
    l.owner_id, l.active, l.created_at,
    u.username AS owner_name,
    COALESCE((SELECT MAX(b.amount) FROM bids b WHERE b.listing_id = l.id), l.starting_price) AS current_price,
    (SELECT COUNT(*) FROM bids b WHERE b.listing_id = l.id) AS bid_count
  FROM listings l
  JOIN users u ON u.id = l.owner_id`

func (r *ListingRepo) Create(ctx context.Context, l *domain.Listing) error {
	l.CreatedAt = now()
	l.Active = true
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO listings(title,description,image_url,category,starting_price,owner_id,active,created_at)
		VALUES(?,?,?,?,?,?,1,?)`,
		l.Title, l.Description, l.ImageURL, l.Category, l.StartingPrice, l.OwnerID, l.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert listing: %w", constraintErr(err))
	}
	l.ID, err = res.LastInsertId()
	return err
}

func (r *ListingRepo) Get(ctx context.Context, id int64) (domain.Listing, error) {
	var l domain.Listing
	err := r.db.GetContext(ctx, &l, listingSelect+` WHERE l.id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return l, fmt.Errorf("%w: no such listing", apperrors.ErrNotFound)
	}
	return l, err
}

func (r *ListingRepo) ListActive(ctx context.Context) ([]domain.Listing, error) {
	out := []domain.Listing{}
	err := r.db.SelectContext(ctx, &out, listingSelect+`
  WHERE l.active = 1
  ORDER BY l.created_at DESC, l.id DESC`)
	return out, err
}

func (r *ListingRepo) ListActiveByCategory(ctx context.Context, code string) ([]domain.Listing, error) {
	out := []domain.Listing{}
	err := r.db.SelectContext(ctx, &out, listingSelect+`
  WHERE l.active = 1 AND l.category = ?
  ORDER BY l.created_at DESC, l.id DESC`, code)
	return out, err
}

// ListForActivity returns listings the user owns or has bid on, once each.
func (r *ListingRepo) ListForActivity(ctx context.Context, userID int64) ([]domain.Listing, error) {
	out := []domain.Listing{}
	err := r.db.SelectContext(ctx, &out, listingSelect+`
  WHERE l.owner_id = ?
     OR l.id IN (SELECT b.listing_id FROM bids b WHERE b.bidder_id = ?)
  ORDER BY l.created_at DESC, l.id DESC`, userID, userID)
	return out, err
}

// Update changes the editable fields of an active listing. It reports
// ErrListingClosed when the row is no longer active.
func (r *ListingRepo) Update(ctx context.Context, id int64, title, imageURL, category string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE listings SET title = ?, image_url = ?, category = ?
		WHERE id = ? AND active = 1`, title, imageURL, category, id)
	if err != nil {
		return fmt.Errorf("update listing: %w", constraintErr(err))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.ErrListingClosed
	}
	return nil
}

// Close flips active to false exactly once.
func (r *ListingRepo) Close(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `UPDATE listings SET active = 0 WHERE id = ? AND active = 1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: already closed", apperrors.ErrListingClosed)
	}
	return nil
}
