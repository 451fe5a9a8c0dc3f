package services

import (
	"context"
	"fmt"

	"wikimart/internal/apperrors"
	"wikimart/internal/domain"
	"wikimart/internal/repos"
	"wikimart/internal/validate"
)

type CommentService struct {
	Listings *repos.ListingRepo
	Comments *repos.CommentRepo
}

func NewCommentService(l *repos.ListingRepo, c *repos.CommentRepo) *CommentService {
	return &CommentService{Listings: l, Comments: c}
}

// Post adds a comment. Closed listings still take comments.
func (s *CommentService) Post(ctx context.Context, actor *domain.User, listingID int64, content string) (*domain.Comment, error) {
	if _, err := s.Listings.Get(ctx, listingID); err != nil {
		return nil, err
	}
	text, ok := validate.Comment(content)
	if !ok {
		return nil, fmt.Errorf("%w: comment must be 1-%d characters", apperrors.ErrValidation, validate.MaxComment)
	}
	c := &domain.Comment{ListingID: listingID, OwnerID: actor.ID, OwnerName: actor.Username, Content: text}
	if err := s.Comments.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}
