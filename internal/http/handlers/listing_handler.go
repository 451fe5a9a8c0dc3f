package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"wikimart/internal/apperrors"
	"wikimart/internal/domain"
	"wikimart/internal/log"
	"wikimart/internal/services"
	"wikimart/internal/validate"
)

type ListingHandler struct {
	Listings *services.ListingService
}

// listingID parses the :id route param. Anything that is not a positive
// integer cannot name a listing.
func listingID(c *fiber.Ctx) (int64, error) {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "listing"})
		return 0, fmt.Errorf("%w: no such listing", apperrors.ErrNotFound)
	}
	return id, nil
}

func (h *ListingHandler) Index(c *fiber.Ctx) error {
	ls, err := h.Listings.Active(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return render(c, "index", fiber.Map{"Listings": ls})
}

func (h *ListingHandler) detailData(c *fiber.Ctx, id int64) (fiber.Map, error) {
	d, err := h.Listings.Detail(c.UserContext(), currentUser(c), id)
	if err != nil {
		return nil, err
	}
	return fiber.Map{"Title": d.Listing.Title, "D": d}, nil
}

func (h *ListingHandler) Detail(c *fiber.Ctx) error {
	id, err := listingID(c)
	if err != nil {
		return fail(c, err)
	}
	data, err := h.detailData(c, id)
	if err != nil {
		return fail(c, err)
	}
	return render(c, "listing", data)
}

// rejectOnDetail redisplays the listing page with err shown above it. Errors
// that leave no page to show fall through to the error page.
func (h *ListingHandler) rejectOnDetail(c *fiber.Ctx, id int64, err error) error {
	switch apperrors.Status(err) {
	case fiber.StatusNotFound, fiber.StatusInternalServerError:
		return fail(c, err)
	}
	data, derr := h.detailData(c, id)
	if derr != nil {
		return fail(c, derr)
	}
	return renderStatus(c, "listing", err, data)
}

func (h *ListingHandler) NewForm(c *fiber.Ctx) error {
	return render(c, "new_listing", fiber.Map{
		"Title":      "Create Listing",
		"Categories": domain.Categories,
		"Form":       services.ListingForm{Category: domain.DefaultCategory},
	})
}

func (h *ListingHandler) Create(c *fiber.Ctx) error {
	f := services.ListingForm{
		Title:         c.FormValue("title"),
		Description:   c.FormValue("description"),
		ImageURL:      c.FormValue("image_url"),
		Category:      c.FormValue("category"),
		StartingPrice: c.FormValue("starting_price"),
	}
	l, err := h.Listings.Create(c.UserContext(), currentUser(c), f)
	if err != nil {
		return renderStatus(c, "new_listing", err, fiber.Map{
			"Title":      "Create Listing",
			"Categories": domain.Categories,
			"Form":       f,
		})
	}
	log.Audit(c, "listing.create", map[string]any{"listing": l.ID})
	return c.Redirect(fmt.Sprintf("/listings/%d", l.ID))
}

func (h *ListingHandler) EditForm(c *fiber.Ctx) error {
	id, err := listingID(c)
	if err != nil {
		return fail(c, err)
	}
	l, err := h.Listings.CheckEditable(c.UserContext(), currentUser(c), id)
	if err != nil {
		return fail(c, err)
	}
	return render(c, "edit_listing", fiber.Map{
		"Title":      "Edit " + l.Title,
		"Listing":    l,
		"Categories": domain.Categories,
		"Form":       services.EditForm{Title: l.Title, ImageURL: l.ImageURL, Category: l.Category},
	})
}

func (h *ListingHandler) Edit(c *fiber.Ctx) error {
	id, err := listingID(c)
	if err != nil {
		return fail(c, err)
	}
	f := services.EditForm{
		Title:    c.FormValue("title"),
		ImageURL: c.FormValue("image_url"),
		Category: c.FormValue("category"),
	}
	if err := h.Listings.Edit(c.UserContext(), currentUser(c), id, f); err != nil {
		if apperrors.Status(err) != fiber.StatusBadRequest {
			return fail(c, err)
		}
		l, gerr := h.Listings.Get(c.UserContext(), id)
		if gerr != nil {
			return fail(c, gerr)
		}
		return renderStatus(c, "edit_listing", err, fiber.Map{
			"Title":      "Edit " + l.Title,
			"Listing":    l,
			"Categories": domain.Categories,
			"Form":       f,
		})
	}
	log.Audit(c, "listing.edit", map[string]any{"listing": id})
	return c.Redirect(fmt.Sprintf("/listings/%d", id))
}

func (h *ListingHandler) Close(c *fiber.Ctx) error {
	id, err := listingID(c)
	if err != nil {
		return fail(c, err)
	}
	if err := h.Listings.Close(c.UserContext(), currentUser(c), id); err != nil {
		return h.rejectOnDetail(c, id, err)
	}
	log.Audit(c, "listing.close", map[string]any{"listing": id})
	return c.Redirect(fmt.Sprintf("/listings/%d", id))
}

func (h *ListingHandler) Activity(c *fiber.Ctx) error {
	ls, err := h.Listings.Activity(c.UserContext(), currentUser(c))
	if err != nil {
		return fail(c, err)
	}
	return render(c, "activity", fiber.Map{"Title": "My Activity", "Listings": ls})
}
