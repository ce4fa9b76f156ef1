package locale

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

var (
	ErrInvalidCode = errors.New("invalid locale code")
	ErrNotFound    = errors.New("locale not found")
	ErrAmbiguous   = errors.New("ambiguous locale name")
)

// Locale is a value object pairing a BCP-47 code with its English display
// name (e.g. "pt-BR" / "Brazilian Portuguese").
type Locale struct {
	code string
	name string
}

func New(code string) (Locale, error) {
	tag, err := language.Parse(strings.TrimSpace(code))
	if err != nil {
		return Locale{}, fmt.Errorf("%w: %q", ErrInvalidCode, code)
	}
	return Locale{
		code: tag.String(),
		name: display.English.Languages().Name(tag),
	}, nil
}

func MustNew(code string) Locale {
	l, err := New(code)
	if err != nil {
		panic(err)
	}
	return l
}

func (l Locale) Code() string { return l.code }
func (l Locale) Name() string { return l.name }
func (l Locale) IsZero() bool { return l.code == "" }

func (l Locale) String() string {
	return fmt.Sprintf("%s (%s)", l.name, l.code)
}

// Registry holds the locales enabled for one deployment. The first registered
// locale is the default.
type Registry struct {
	locales []Locale
}

func NewRegistry(codes ...string) (*Registry, error) {
	if len(codes) == 0 {
		return nil, fmt.Errorf("%w: registry needs at least one locale", ErrInvalidCode)
	}
	r := &Registry{locales: make([]Locale, 0, len(codes))}
	seen := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		l, err := New(code)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[l.code]; ok {
			continue
		}
		seen[l.code] = struct{}{}
		r.locales = append(r.locales, l)
	}
	return r, nil
}

func (r *Registry) Default() Locale {
	return r.locales[0]
}

func (r *Registry) All() []Locale {
	out := make([]Locale, len(r.locales))
	copy(out, r.locales)
	return out
}

// Resolve matches by exact code first, then case-insensitively by display
// name. Zero matches yields ErrNotFound, more than one ErrAmbiguous.
func (r *Registry) Resolve(codeOrName string) (Locale, error) {
	v := strings.TrimSpace(codeOrName)
	if v == "" {
		return Locale{}, fmt.Errorf("%w: empty locale", ErrNotFound)
	}

	for _, l := range r.locales {
		if strings.EqualFold(l.code, v) {
			return l, nil
		}
	}

	var matches []Locale
	for _, l := range r.locales {
		if strings.EqualFold(l.name, v) {
			matches = append(matches, l)
		}
	}
	switch len(matches) {
	case 0:
		return Locale{}, fmt.Errorf("%w: %q", ErrNotFound, codeOrName)
	case 1:
		return matches[0], nil
	default:
		codes := make([]string, len(matches))
		for i, m := range matches {
			codes[i] = m.code
		}
		return Locale{}, fmt.Errorf("%w: %q matches %s", ErrAmbiguous, codeOrName, strings.Join(codes, ", "))
	}
}
