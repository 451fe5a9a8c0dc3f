package repos

import (
	"context"

	"github.com/jmoiron/sqlx"

	"wikimart/internal/domain"
)

type WatchlistRepo struct{ db *sqlx.DB }

func NewWatchlistRepo(db *sqlx.DB) *WatchlistRepo { return &WatchlistRepo{db: db} }

func (r *WatchlistRepo) Add(ctx context.Context, userID, listingID int64) error {
	_, err := r.db.ExecContext(ctx, `
	  INSERT INTO watchlist(user_id, listing_id, created_at)
	  VALUES(?, ?, ?)
	  ON CONFLICT(user_id, listing_id) DO NOTHING
	`, userID, listingID, now())
	return constraintErr(err)
}

func (r *WatchlistRepo) Remove(ctx context.Context, userID, listingID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM watchlist WHERE user_id=? AND listing_id=?`, userID, listingID)
	return err
}

func (r *WatchlistRepo) Contains(ctx context.Context, userID, listingID int64) (bool, error) {
	var n int
	err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM watchlist WHERE user_id=? AND listing_id=?`, userID, listingID)
	return n > 0, err
}

func (r *WatchlistRepo) List(ctx context.Context, userID int64) ([]domain.Listing, error) {
	out := []domain.Listing{}
	err := r.db.SelectContext(ctx, &out, listingSelect+`
	  JOIN watchlist w ON w.listing_id = l.id
	  WHERE w.user_id = ?
	  ORDER BY w.created_at DESC, l.id DESC
	`, userID)
	return out, err
}
