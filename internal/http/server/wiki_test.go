package server_test

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"wikimart/internal/http/server"
	"wikimart/internal/wiki"
)

func wikiApp(t *testing.T) (*fiber.App, *wiki.Store) {
	t.Helper()
	store, err := wiki.NewStore(t.TempDir())
	require.NoError(t, err)
	for title, body := range map[string]string{
		"CSS":        "# CSS\n\nStyles.",
		"JavaScript": "# JavaScript\n\nScripts.",
		"Python":     "# Python\n\n- easy\n- popular",
	} {
		require.NoError(t, store.Save(title, body))
	}
	app, err := server.NewWiki(testConfig(), store)
	require.NoError(t, err)
	return app, store
}

func TestWikiBrowse(t *testing.T) {
	app, _ := wikiApp(t)

	resp, body := do(t, app, get("/", ""))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, `href="/wiki/Python"`)

	resp, body = do(t, app, get("/wiki/Python", ""))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, "<h1>Python</h1>")
	require.Contains(t, body, "<li>easy</li>")

	resp, _ = do(t, app, get("/wiki/python", ""))
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = do(t, app, get("/random", ""))
	require.Equal(t, http.StatusFound, resp.StatusCode)
	require.True(t, strings.HasPrefix(resp.Header.Get("Location"), "/wiki/"))
}

func TestWikiSearch(t *testing.T) {
	app, _ := wikiApp(t)

	resp, _ := do(t, app, get("/?q=CSS", ""))
	require.Equal(t, http.StatusFound, resp.StatusCode)
	require.Equal(t, "/wiki/CSS", resp.Header.Get("Location"))

	resp, body := do(t, app, get("/?q=ss", ""))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, `href="/wiki/CSS"`)
	require.NotContains(t, body, `href="/wiki/Python"`)

	_, body = do(t, app, get("/?q=css", ""))
	require.Contains(t, body, `href="/wiki/CSS"`)
}

func TestWikiAddAndEdit(t *testing.T) {
	app, store := wikiApp(t)

	resp, _ := do(t, app, post("/add", url.Values{"title": {"CSS"}, "content": {"dup"}}, ""))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body, err := store.Get("CSS")
	require.NoError(t, err)
	require.Equal(t, "# CSS\n\nStyles.", body)

	resp, _ = do(t, app, post("/add", url.Values{"title": {"Go Lang"}, "content": {"# Go\r\n\r\nGophers."}}, ""))
	require.Equal(t, http.StatusFound, resp.StatusCode)
	require.Equal(t, "/wiki/Go%20Lang", resp.Header.Get("Location"))

	resp, _ = do(t, app, get("/wiki/Go%20Lang", ""))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = do(t, app, get("/edit/Nope", ""))
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp, _ = do(t, app, post("/edit/Nope", url.Values{"content": {"x"}}, ""))
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = do(t, app, post("/edit/CSS", url.Values{"content": {"# CSS\n\nCascading."}}, ""))
	require.Equal(t, http.StatusFound, resp.StatusCode)
	_, page := do(t, app, get("/wiki/CSS", ""))
	require.Contains(t, page, "Cascading.")
}

func TestWikiTitlesWithReservedCharacters(t *testing.T) {
	app, store := wikiApp(t)
	require.NoError(t, store.Save("C", "# C\n\nThe C language."))
	require.NoError(t, store.Save("C#", "# C#\n\nThe C# language."))
	require.NoError(t, store.Save("What? Now", "# What\n\nQuestions."))

	_, body := do(t, app, get("/", ""))
	require.Contains(t, body, `href="/wiki/C%23"`)
	require.Contains(t, body, `href="/wiki/What%3F%20Now"`)

	resp, page := do(t, app, get("/wiki/C%23", ""))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, page, "The C# language.")
	require.Contains(t, page, `href="/edit/C%23"`)

	resp, form := do(t, app, get("/edit/C%23", ""))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, form, `action="/edit/C%23"`)

	resp, _ = do(t, app, post("/edit/C%23", url.Values{"content": {"# C#\n\nEdited."}}, ""))
	require.Equal(t, http.StatusFound, resp.StatusCode)
	require.Equal(t, "/wiki/C%23", resp.Header.Get("Location"))

	sharp, err := store.Get("C#")
	require.NoError(t, err)
	require.Equal(t, "# C#\n\nEdited.", sharp)
	plain, err := store.Get("C")
	require.NoError(t, err)
	require.Equal(t, "# C\n\nThe C language.", plain)

	resp, _ = do(t, app, get("/?q="+url.QueryEscape("C#"), ""))
	require.Equal(t, http.StatusFound, resp.StatusCode)
	require.Equal(t, "/wiki/C%23", resp.Header.Get("Location"))

	_, body = do(t, app, get("/?q=now", ""))
	require.Contains(t, body, `href="/wiki/What%3F%20Now"`)

	resp, page = do(t, app, get("/wiki/What%3F%20Now", ""))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, page, "Questions.")
}
