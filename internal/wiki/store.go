package wiki

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"wikimart/internal/apperrors"
)

const ext = ".md"

// Store keeps one Markdown file per entry under Dir.
type Store struct {
	Dir string
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create entries dir: %w", err)
	}
	return &Store{Dir: dir}, nil
}

// List returns every entry title in lexical order.
func (s *Store) List() ([]string, error) {
	des, err := os.ReadDir(s.Dir)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(des))
	for _, de := range des {
		if de.IsDir() || !strings.HasSuffix(de.Name(), ext) {
			continue
		}
		out = append(out, strings.TrimSuffix(de.Name(), ext))
	}
	sort.Strings(out)
	return out, nil
}

// Exists is an exact, case-sensitive match against List, independent of
// how the underlying filesystem folds case.
func (s *Store) Exists(title string) (bool, error) {
	titles, err := s.List()
	if err != nil {
		return false, err
	}
	i := sort.SearchStrings(titles, title)
	return i < len(titles) && titles[i] == title, nil
}

func (s *Store) Get(title string) (string, error) {
	ok, err := s.Exists(title)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("%w: no entry named %q", apperrors.ErrNotFound, title)
	}
	b, err := os.ReadFile(s.path(title))
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w: no entry named %q", apperrors.ErrNotFound, title)
	}
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Save creates or overwrites the entry. The body is written to a temp file
// and renamed so readers never see a partial entry.
func (s *Store) Save(title, body string) error {
	body = strings.ReplaceAll(body, "\r\n", "\n")
	tmp, err := os.CreateTemp(s.Dir, ".entry-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.WriteString(body); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path(title))
}

func (s *Store) path(title string) string {
	return filepath.Join(s.Dir, title+ext)
}
