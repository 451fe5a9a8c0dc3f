package handlers

import (
	"github.com/jmoiron/sqlx"

	"wikimart/internal/config"
	"wikimart/internal/repos"
	"wikimart/internal/services"
)

type Deps struct {
	Auth             *services.AuthService
	AuthHandler      *AuthHandler
	ListingHandler   *ListingHandler
	BidHandler       *BidHandler
	CommentHandler   *CommentHandler
	CategoryHandler  *CategoryHandler
	WatchlistHandler *WatchlistHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config) *Deps {
	userRepo := repos.NewUserRepo(db)
	listingRepo := repos.NewListingRepo(db)
	bidRepo := repos.NewBidRepo(db)
	commentRepo := repos.NewCommentRepo(db)
	watchRepo := repos.NewWatchlistRepo(db)

	authSvc := services.NewAuthService(userRepo)
	watchSvc := services.NewWatchlistService(listingRepo, watchRepo)
	listingSvc := services.NewListingService(listingRepo, bidRepo, commentRepo, watchSvc)
	bidSvc := services.NewBidService(listingRepo, bidRepo)
	commentSvc := services.NewCommentService(listingRepo, commentRepo)

	listingH := &ListingHandler{Listings: listingSvc}
	return &Deps{
		Auth:             authSvc,
		AuthHandler:      &AuthHandler{Auth: authSvc, SecureCookie: cfg.CookieSecure},
		ListingHandler:   listingH,
		BidHandler:       &BidHandler{Bids: bidSvc, Listing: listingH},
		CommentHandler:   &CommentHandler{Comments: commentSvc, Listing: listingH},
		CategoryHandler:  &CategoryHandler{Listings: listingSvc},
		WatchlistHandler: &WatchlistHandler{Watch: watchSvc, Listing: listingH},
	}
}
