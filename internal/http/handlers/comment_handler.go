package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"wikimart/internal/log"
	"wikimart/internal/services"
)

type CommentHandler struct {
	Comments *services.CommentService
	Listing  *ListingHandler
}

func (h *CommentHandler) Post(c *fiber.Ctx) error {
	id, err := listingID(c)
	if err != nil {
		return fail(c, err)
	}
	cm, err := h.Comments.Post(c.UserContext(), currentUser(c), id, c.FormValue("content"))
	if err != nil {
		return h.Listing.rejectOnDetail(c, id, err)
	}
	log.Audit(c, "comment.post", map[string]any{"listing": id, "comment": cm.ID})
	return c.Redirect(fmt.Sprintf("/listings/%d", id))
}
