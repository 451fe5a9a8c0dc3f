package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"wikimart/internal/apperrors"
	"wikimart/internal/domain"
	"wikimart/internal/repos"
	"wikimart/internal/services"
)

type fixture struct {
	db       *sqlx.DB
	auth     *services.AuthService
	listings *services.ListingService
	bids     *services.BidService
	comments *services.CommentService
	watch    *services.WatchlistService
}

func setup(t *testing.T) *fixture {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	lr := repos.NewListingRepo(db)
	br := repos.NewBidRepo(db)
	cr := repos.NewCommentRepo(db)
	watch := services.NewWatchlistService(lr, repos.NewWatchlistRepo(db))
	return &fixture{
		db:       db,
		auth:     services.NewAuthService(repos.NewUserRepo(db)),
		listings: services.NewListingService(lr, br, cr, watch),
		bids:     services.NewBidService(lr, br),
		comments: services.NewCommentService(lr, cr),
		watch:    watch,
	}
}

func (f *fixture) user(t *testing.T, name string) *domain.User {
	t.Helper()
	u, err := f.auth.Register(context.Background(), services.Registration{
		Username: name, Password: "correct horse", Confirmation: "correct horse",
	})
	require.NoError(t, err)
	return u
}

func (f *fixture) listing(t *testing.T, owner *domain.User, price string) *domain.Listing {
	t.Helper()
	l, err := f.listings.Create(context.Background(), owner, services.ListingForm{
		Title: "Desk lamp", Description: "brass", StartingPrice: price,
	})
	require.NoError(t, err)
	return l
}

func TestRegisterAndLogin(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	u := f.user(t, "alice")
	require.NotEqual(t, "correct horse", u.Hash)

	_, err := f.auth.Register(ctx, services.Registration{Username: "alice", Password: "another pw", Confirmation: "another pw"})
	require.True(t, errors.Is(err, apperrors.ErrConflict), "got %v", err)
	require.Equal(t, "Username already taken.", apperrors.Message(err))

	_, err = f.auth.Register(ctx, services.Registration{Username: "bob", Password: "abcdefgh", Confirmation: "abcdefgX"})
	require.Equal(t, "Passwords must match.", apperrors.Message(err))

	_, err = f.auth.Login(ctx, "sid", "alice", "wrong password")
	require.True(t, errors.Is(err, apperrors.ErrBadCredentials))
	_, err = f.auth.Login(ctx, "sid", "nobody", "whatever1")
	require.True(t, errors.Is(err, apperrors.ErrBadCredentials))

	got, err := f.auth.Login(ctx, "sid", "alice", "correct horse")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)

	cur, err := f.auth.CurrentUser(ctx, "sid")
	require.NoError(t, err)
	require.Equal(t, "alice", cur.Username)

	require.NoError(t, f.auth.Logout(ctx, "sid"))
	_, err = f.auth.CurrentUser(ctx, "sid")
	require.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestCreateListingValidation(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	owner := f.user(t, "owner")

	l := f.listing(t, owner, "25")
	require.Equal(t, domain.DefaultCategory, l.Category)
	require.True(t, l.Active)

	cases := []struct {
		name string
		form services.ListingForm
	}{
		{"missing title", services.ListingForm{Description: "d", StartingPrice: "1"}},
		{"long title", services.ListingForm{Title: "this title is definitely longer than sixty-four characters in total", Description: "d", StartingPrice: "1"}},
		{"bad price", services.ListingForm{Title: "t", Description: "d", StartingPrice: "-3"}},
		{"bad url", services.ListingForm{Title: "t", Description: "d", StartingPrice: "1", ImageURL: "javascript:alert(1)"}},
		{"bad category", services.ListingForm{Title: "t", Description: "d", StartingPrice: "1", Category: "CARS"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.listings.Create(ctx, owner, tc.form)
			require.True(t, errors.Is(err, apperrors.ErrValidation), "got %v", err)
		})
	}
}

func TestPlaceBidRules(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	owner := f.user(t, "owner")
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	l := f.listing(t, owner, "100")

	_, err := f.bids.Place(ctx, owner, l.ID, "500")
	require.True(t, errors.Is(err, apperrors.ErrPermissionDenied))

	for _, raw := range []string{"", "abc", "0", "-1", "12.5"} {
		_, err = f.bids.Place(ctx, alice, l.ID, raw)
		require.True(t, errors.Is(err, apperrors.ErrValidation), raw)
	}

	_, err = f.bids.Place(ctx, alice, l.ID, "99")
	require.True(t, errors.Is(err, apperrors.ErrBidTooLow))

	// the starting price itself is acceptable as the first bid
	b, err := f.bids.Place(ctx, alice, l.ID, "100")
	require.NoError(t, err)
	require.NotZero(t, b.ID)

	_, err = f.bids.Place(ctx, bob, l.ID, "100")
	require.True(t, errors.Is(err, apperrors.ErrBidTooLow))
	require.Equal(t, "Minimum acceptable bid is 101", apperrors.Message(err))

	_, err = f.bids.Place(ctx, bob, l.ID, "101")
	require.NoError(t, err)

	d, err := f.listings.Detail(ctx, alice, l.ID)
	require.NoError(t, err)
	require.EqualValues(t, 102, d.MinimumBid)
	require.Len(t, d.Bids, 2)

	_, err = f.bids.Place(ctx, alice, 9999, "500")
	require.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestCloseIsOwnerOnlyAndFinal(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	owner := f.user(t, "owner")
	alice := f.user(t, "alice")
	l := f.listing(t, owner, "10")

	err := f.listings.Close(ctx, alice, l.ID)
	require.True(t, errors.Is(err, apperrors.ErrPermissionDenied))

	_, err = f.bids.Place(ctx, alice, l.ID, "10")
	require.NoError(t, err)

	require.NoError(t, f.listings.Close(ctx, owner, l.ID))
	err = f.listings.Close(ctx, owner, l.ID)
	require.True(t, errors.Is(err, apperrors.ErrListingClosed))

	_, err = f.bids.Place(ctx, alice, l.ID, "1000")
	require.True(t, errors.Is(err, apperrors.ErrListingClosed))

	err = f.listings.Edit(ctx, owner, l.ID, services.EditForm{Title: "New"})
	require.True(t, errors.Is(err, apperrors.ErrListingClosed))

	d, err := f.listings.Detail(ctx, alice, l.ID)
	require.NoError(t, err)
	require.False(t, d.Listing.Active)
	require.True(t, d.IsWinner)
	require.False(t, d.IsOwner)
	require.EqualValues(t, 10, d.Winning.Amount)

	active, err := f.listings.Active(ctx)
	require.NoError(t, err)
	require.Empty(t, active)
}

func TestEditListing(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	owner := f.user(t, "owner")
	alice := f.user(t, "alice")
	l := f.listing(t, owner, "10")

	err := f.listings.Edit(ctx, alice, l.ID, services.EditForm{Title: "Mine now"})
	require.True(t, errors.Is(err, apperrors.ErrPermissionDenied))

	require.NoError(t, f.listings.Edit(ctx, owner, l.ID, services.EditForm{Title: "Floor lamp", Category: "hm"}))
	got, err := f.listings.Get(ctx, l.ID)
	require.NoError(t, err)
	require.Equal(t, "Floor lamp", got.Title)
	require.Equal(t, "HM", got.Category)

	cat, ls, err := f.listings.Category(ctx, "hm")
	require.NoError(t, err)
	require.Equal(t, "HM", cat.Code)
	require.Len(t, ls, 1)

	_, _, err = f.listings.Category(ctx, "cars")
	require.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestCommentsAndWatchlist(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	owner := f.user(t, "owner")
	alice := f.user(t, "alice")
	l := f.listing(t, owner, "10")

	_, err := f.comments.Post(ctx, alice, l.ID, "   ")
	require.True(t, errors.Is(err, apperrors.ErrValidation))
	c, err := f.comments.Post(ctx, alice, l.ID, " Still available? ")
	require.NoError(t, err)
	require.Equal(t, "Still available?", c.Content)

	require.NoError(t, f.listings.Close(ctx, owner, l.ID))
	_, err = f.comments.Post(ctx, owner, l.ID, "Sold, thanks")
	require.NoError(t, err)

	err = f.watch.Add(ctx, owner, l.ID)
	require.True(t, errors.Is(err, apperrors.ErrPermissionDenied))

	require.NoError(t, f.watch.Add(ctx, alice, l.ID))
	require.NoError(t, f.watch.Add(ctx, alice, l.ID))
	ok, err := f.watch.Contains(ctx, alice, l.ID)
	require.NoError(t, err)
	require.True(t, ok)
	ls, err := f.watch.List(ctx, alice)
	require.NoError(t, err)
	require.Len(t, ls, 1)

	d, err := f.listings.Detail(ctx, alice, l.ID)
	require.NoError(t, err)
	require.True(t, d.Watching)
	require.Len(t, d.Comments, 2)

	require.NoError(t, f.watch.Remove(ctx, alice, l.ID))
	require.NoError(t, f.watch.Remove(ctx, alice, l.ID))
	ls, err = f.watch.List(ctx, alice)
	require.NoError(t, err)
	require.Empty(t, ls)

	err = f.watch.Add(ctx, alice, 9999)
	require.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestActivityListsOwnedAndBidListings(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	owner := f.user(t, "owner")
	alice := f.user(t, "alice")
	mine := f.listing(t, alice, "5")
	theirs := f.listing(t, owner, "5")
	f.listing(t, owner, "5")

	_, err := f.bids.Place(ctx, alice, theirs.ID, "5")
	require.NoError(t, err)
	_, err = f.bids.Place(ctx, alice, theirs.ID, "6")
	require.NoError(t, err)

	ls, err := f.listings.Activity(ctx, alice)
	require.NoError(t, err)
	ids := []int64{}
	for _, l := range ls {
		ids = append(ids, l.ID)
	}
	require.ElementsMatch(t, []int64{mine.ID, theirs.ID}, ids)
}
