package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	applog "wikimart/internal/log"
	"wikimart/internal/services"
)

type WatchlistHandler struct {
	Watch   *services.WatchlistService
	Listing *ListingHandler
}

func (h *WatchlistHandler) List(c *fiber.Ctx) error {
	ls, err := h.Watch.List(c.UserContext(), currentUser(c))
	if err != nil {
		return fail(c, err)
	}
	return render(c, "watchlist", fiber.Map{"Title": "Watchlist", "Listings": ls})
}

func (h *WatchlistHandler) Add(c *fiber.Ctx) error {
	id, err := listingID(c)
	if err != nil {
		return fail(c, err)
	}
	if err := h.Watch.Add(c.UserContext(), currentUser(c), id); err != nil {
		return h.Listing.rejectOnDetail(c, id, err)
	}
	applog.Audit(c, "watchlist.add", map[string]any{"listing": id})
	return c.Redirect(fmt.Sprintf("/listings/%d", id))
}

func (h *WatchlistHandler) Remove(c *fiber.Ctx) error {
	id, err := listingID(c)
	if err != nil {
		return fail(c, err)
	}
	if err := h.Watch.Remove(c.UserContext(), currentUser(c), id); err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "watchlist.remove", map[string]any{"listing": id})
	return c.Redirect(fmt.Sprintf("/listings/%d", id))
}
