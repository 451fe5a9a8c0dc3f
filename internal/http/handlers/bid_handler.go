package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"wikimart/internal/log"
	"wikimart/internal/services"
)

type BidHandler struct {
	Bids    *services.BidService
	Listing *ListingHandler
}

func (h *BidHandler) Place(c *fiber.Ctx) error {
	id, err := listingID(c)
	if err != nil {
		return fail(c, err)
	}
	b, err := h.Bids.Place(c.UserContext(), currentUser(c), id, c.FormValue("amount"))
	if err != nil {
		return h.Listing.rejectOnDetail(c, id, err)
	}
	log.Audit(c, "bid.place", map[string]any{"listing": id, "amount": b.Amount})
	return c.Redirect(fmt.Sprintf("/listings/%d", id))
}
