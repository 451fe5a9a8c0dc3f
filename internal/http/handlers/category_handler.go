package handlers

import (
	"github.com/gofiber/fiber/v2"

	"wikimart/internal/domain"
	"wikimart/internal/services"
)

type CategoryHandler struct {
	Listings *services.ListingService
}

func (h *CategoryHandler) List(c *fiber.Ctx) error {
	return render(c, "categories", fiber.Map{"Title": "Categories", "Categories": domain.Categories})
}

func (h *CategoryHandler) Show(c *fiber.Ctx) error {
	cat, ls, err := h.Listings.Category(c.UserContext(), c.Params("name"))
	if err != nil {
		return fail(c, err)
	}
	return render(c, "category", fiber.Map{"Title": cat.Name, "Category": cat, "Listings": ls})
}
