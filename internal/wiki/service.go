package wiki

import (
	"fmt"
	"html/template"
	"math/rand/v2"
	"strings"

	"wikimart/internal/apperrors"
	"wikimart/internal/validate"
)

type Service struct {
	Store *Store
}

func NewService(store *Store) *Service { return &Service{Store: store} }

type Page struct {
	Title string
	Body  template.HTML
}

// SearchResult holds either an exact title hit or the substring matches.
type SearchResult struct {
	Query   string
	Exact   string
	Matches []string
}

func (s *Service) List() ([]string, error) { return s.Store.List() }

func (s *Service) View(title string) (Page, error) {
	body, err := s.Store.Get(title)
	if err != nil {
		return Page{}, err
	}
	html, err := RenderMarkdown(body)
	if err != nil {
		return Page{}, fmt.Errorf("render %q: %w", title, err)
	}
	return Page{Title: title, Body: html}, nil
}

// Source returns the raw Markdown for the edit form.
func (s *Service) Source(title string) (string, error) {
	return s.Store.Get(title)
}

func (s *Service) Search(query string) (SearchResult, error) {
	res := SearchResult{Query: query}
	titles, err := s.Store.List()
	if err != nil {
		return res, err
	}
	for _, t := range titles {
		if t == query {
			res.Exact = t
			return res, nil
		}
	}
	q := strings.ToLower(query)
	res.Matches = []string{}
	for _, t := range titles {
		if strings.Contains(strings.ToLower(t), q) {
			res.Matches = append(res.Matches, t)
		}
	}
	return res, nil
}

func (s *Service) Random() (string, error) {
	titles, err := s.Store.List()
	if err != nil {
		return "", err
	}
	if len(titles) == 0 {
		return "", fmt.Errorf("%w: the encyclopedia has no entries yet", apperrors.ErrNotFound)
	}
	return titles[rand.IntN(len(titles))], nil
}

// Add creates a new entry and never overwrites an existing one.
func (s *Service) Add(title, body string) (string, error) {
	title, err := checkEntry(title, body)
	if err != nil {
		return "", err
	}
	ok, err := s.Store.Exists(title)
	if err != nil {
		return "", err
	}
	if ok {
		return "", fmt.Errorf("%w: an entry titled %q already exists", apperrors.ErrConflict, title)
	}
	return title, s.Store.Save(title, body)
}

func (s *Service) Edit(title, body string) error {
	ok, err := s.Store.Exists(title)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: no entry named %q", apperrors.ErrNotFound, title)
	}
	if _, err := checkEntry(title, body); err != nil {
		return err
	}
	return s.Store.Save(title, body)
}

func checkEntry(title, body string) (string, error) {
	t, ok := validate.Title(title)
	if !ok {
		return "", fmt.Errorf("%w: title must be 1-%d characters and may not contain / or \\", apperrors.ErrValidation, validate.MaxTitle)
	}
	if strings.TrimSpace(body) == "" {
		return "", fmt.Errorf("%w: content is required", apperrors.ErrValidation)
	}
	return t, nil
}
