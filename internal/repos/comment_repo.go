package repos

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"wikimart/internal/domain"
)

type CommentRepo struct{ db *sqlx.DB }

func NewCommentRepo(db *sqlx.DB) *CommentRepo { return &CommentRepo{db: db} }

func (r *CommentRepo) Create(ctx context.Context, c *domain.Comment) error {
	c.CreatedAt = now()
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO comments(listing_id, owner_id, content, edited, created_at)
		VALUES(?, ?, ?, 0, ?)`, c.ListingID, c.OwnerID, c.Content, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert comment: %w", constraintErr(err))
	}
	c.ID, err = res.LastInsertId()
	return err
}

// ForListing returns comments oldest first, as a conversation reads.
func (r *CommentRepo) ForListing(ctx context.Context, listingID int64) ([]domain.Comment, error) {
	out := []domain.Comment{}
	err := r.db.SelectContext(ctx, &out, `
	  SELECT c.id, c.listing_id, c.owner_id, u.username AS owner_name, c.content, c.edited, c.created_at
	  FROM comments c
	  JOIN users u ON u.id = c.owner_id
	  WHERE c.listing_id = ?
	  ORDER BY c.created_at, c.id`, listingID)
	return out, err
}
