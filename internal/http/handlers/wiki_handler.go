package handlers

import (
	"net/url"

	"github.com/gofiber/fiber/v2"

	"wikimart/internal/apperrors"
	"wikimart/internal/log"
	"wikimart/internal/metrics"
	"wikimart/internal/wiki"
)

type WikiHandler struct {
	Wiki *wiki.Service
}

func entryURL(title string) string { return "/wiki/" + url.PathEscape(title) }

// Index lists every entry, or searches when ?q= is given.
func (h *WikiHandler) Index(c *fiber.Ctx) error {
	q := c.Query("q")
	if q == "" {
		titles, err := h.Wiki.List()
		if err != nil {
			return fail(c, err)
		}
		return render(c, "index", fiber.Map{"Entries": titles})
	}
	res, err := h.Wiki.Search(q)
	if err != nil {
		return fail(c, err)
	}
	if res.Exact != "" {
		return c.Redirect(entryURL(res.Exact))
	}
	return render(c, "index", fiber.Map{
		"Title":     "Search: " + q,
		"Query":     q,
		"Searching": true,
		"Entries":   res.Matches,
	})
}

func (h *WikiHandler) View(c *fiber.Ctx) error {
	page, err := h.Wiki.View(c.Params("title"))
	if err != nil {
		return fail(c, err)
	}
	return render(c, "entry", fiber.Map{"Title": page.Title, "Page": page})
}

func (h *WikiHandler) AddForm(c *fiber.Ctx) error {
	return render(c, "add", fiber.Map{"Title": "Create New Page"})
}

func (h *WikiHandler) Add(c *fiber.Ctx) error {
	title, body := c.FormValue("title"), c.FormValue("content")
	saved, err := h.Wiki.Add(title, body)
	if err != nil {
		return renderStatus(c, "add", err, fiber.Map{"Title": "Create New Page", "EntryTitle": title, "Content": body})
	}
	metrics.EntrySaved("add")
	log.Audit(c, "wiki.add", map[string]any{"title": saved})
	return c.Redirect(entryURL(saved))
}

func (h *WikiHandler) EditForm(c *fiber.Ctx) error {
	title := c.Params("title")
	body, err := h.Wiki.Source(title)
	if err != nil {
		return fail(c, err)
	}
	return render(c, "edit", fiber.Map{"Title": "Edit " + title, "EntryTitle": title, "Content": body})
}

func (h *WikiHandler) Edit(c *fiber.Ctx) error {
	title, body := c.Params("title"), c.FormValue("content")
	if err := h.Wiki.Edit(title, body); err != nil {
		if apperrors.Status(err) == fiber.StatusNotFound {
			return fail(c, err)
		}
		return renderStatus(c, "edit", err, fiber.Map{"Title": "Edit " + title, "EntryTitle": title, "Content": body})
	}
	metrics.EntrySaved("edit")
	log.Audit(c, "wiki.edit", map[string]any{"title": title})
	return c.Redirect(entryURL(title))
}

func (h *WikiHandler) Random(c *fiber.Ctx) error {
	title, err := h.Wiki.Random()
	if err != nil {
		return fail(c, err)
	}
	return c.Redirect(entryURL(title))
}
