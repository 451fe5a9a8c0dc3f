package validate

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"wikimart/internal/apperrors"
	"wikimart/internal/domain"
)

var (
	reEmail    = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	reUsername = regexp.MustCompile(`^[A-Za-z0-9@.+_-]{1,150}$`)
	reDigits   = regexp.MustCompile(`^[0-9]{1,18}$`)
)

const (
	MaxTitle   = 100
	MaxComment = 3000
)

func Email(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 0 || len(s) > 254 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

// Username follows the usual framework rule: letters, digits and @.+-_ only.
func Username(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, reUsername.MatchString(s)
}

// Password enforces a length window only.
func Password(s string) bool {
	l := utf8.RuneCountInString(s)
	return l >= 8 && l <= 64
}

// Title validates a wiki entry title. Titles double as file names, so path
// separators and parent references are refused.
func Title(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || utf8.RuneCountInString(s) > MaxTitle {
		return "", false
	}
	if strings.ContainsAny(s, "/\\\x00") || strings.Contains(s, "..") || strings.HasPrefix(s, ".") {
		return "", false
	}
	return s, true
}

// Amount parses a positive whole-number amount.
func Amount(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if !reDigits.MatchString(s) {
		return 0, false
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// Price parses a non-negative whole-number price.
func Price(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if !reDigits.MatchString(s) {
		return 0, false
	}
	n, err := strconv.ParseInt(s, 10, 64)
	return n, err == nil
}

// ID validates a positive numeric resource identifier (listing ids).
func ID(s string) (int64, bool) {
	n, ok := Amount(s)
	return n, ok
}

// Comment trims and bounds comment text.
func Comment(s string) (string, bool) {
	s = strings.TrimSpace(s)
	n := utf8.RuneCountInString(s)
	return s, n > 0 && n <= MaxComment
}

var (
	once sync.Once
	v    *validator.Validate
)

func engine() *validator.Validate {
	once.Do(func() {
		v = validator.New(validator.WithRequiredStructEnabled())
		_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
			_, ok := domain.LookupCategory(fl.Field().String())
			return ok
		})
	})
	return v
}

// Struct runs tag validation and reports the first failing field as a
// validation error with a readable message.
func Struct(s any) error {
	err := engine().Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	fe := verrs[0]
	field := label(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%w: %s is required", apperrors.ErrValidation, field)
	case "max":
		return fmt.Errorf("%w: %s must be at most %s characters", apperrors.ErrValidation, field, fe.Param())
	case "url", "http_url":
		return fmt.Errorf("%w: %s must be a valid URL", apperrors.ErrValidation, field)
	case "category":
		return fmt.Errorf("%w: unknown category", apperrors.ErrValidation)
	case "gte", "min":
		return fmt.Errorf("%w: %s must be at least %s", apperrors.ErrValidation, field, fe.Param())
	default:
		return fmt.Errorf("%w: %s is invalid", apperrors.ErrValidation, field)
	}
}

// label turns a Go field name into words: StartingPrice -> starting price,
// ImageURL -> image url.
func label(field string) string {
	var b strings.Builder
	rs := []rune(field)
	for i, r := range rs {
		if i > 0 && unicode.IsUpper(r) && (unicode.IsLower(rs[i-1]) || (i+1 < len(rs) && unicode.IsLower(rs[i+1]))) {
			b.WriteByte(' ')
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
