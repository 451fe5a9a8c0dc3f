package domain

import (
	"strings"
	"time"
)

// Category is one of the closed set of listing categories.
type Category struct {
	Code string // FSHN, TYS, ...
	Name string
}

// Slug is the URL identifier, e.g. /categories/fshn.
func (c Category) Slug() string { return strings.ToLower(c.Code) }

const DefaultCategory = "OTHR"

var Categories = []Category{
	{Code: "FSHN", Name: "Fashion"},
	{Code: "TYS", Name: "Toys"},
	{Code: "ELCTRNCS", Name: "Electronics"},
	{Code: "HM", Name: "Home"},
	{Code: "SPRTS", Name: "Sports"},
	{Code: "OTHR", Name: "Other"},
}

// LookupCategory matches a code case-insensitively.
func LookupCategory(code string) (Category, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	for _, c := range Categories {
		if c.Code == code {
			return c, true
		}
	}
	return Category{}, false
}

type Listing struct {
	ID            int64  `db:"id"`
	Title         string `db:"title"`
	Description   string `db:"description"`
	ImageURL      string `db:"image_url"`
	Category      string `db:"category"`
	StartingPrice int64  `db:"starting_price"`
	OwnerID       int64  `db:"owner_id"`
	Active        bool   `db:"active"`
	CreatedAt     int64  `db:"created_at"`

	// Derived at query time from the bid set; never stored on the row.
	OwnerName    string `db:"owner_name"`
	CurrentPrice int64  `db:"current_price"`
	BidCount     int    `db:"bid_count"`
}

func (l Listing) Created() time.Time { return time.Unix(l.CreatedAt, 0) }

func (l Listing) CategoryName() string {
	if c, ok := LookupCategory(l.Category); ok {
		return c.Name
	}
	return l.Category
}

type Bid struct {
	ID         int64  `db:"id"`
	ListingID  int64  `db:"listing_id"`
	BidderID   int64  `db:"bidder_id"`
	BidderName string `db:"bidder_name"`
	Amount     int64  `db:"amount"`
	CreatedAt  int64  `db:"created_at"`
}

func (b Bid) Created() time.Time { return time.Unix(b.CreatedAt, 0) }

type Comment struct {
	ID        int64  `db:"id"`
	ListingID int64  `db:"listing_id"`
	OwnerID   int64  `db:"owner_id"`
	OwnerName string `db:"owner_name"`
	Content   string `db:"content"`
	Edited    bool   `db:"edited"`
	CreatedAt int64  `db:"created_at"`
}

func (c Comment) Created() time.Time { return time.Unix(c.CreatedAt, 0) }

// MinimumBid is the lowest amount the next bid may carry: the starting
// price while there are no bids, otherwise one above the winning bid.
func MinimumBid(startingPrice int64, winning *Bid) int64 {
	if winning == nil {
		return startingPrice
	}
	return winning.Amount + 1
}
