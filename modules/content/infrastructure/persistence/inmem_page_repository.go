package persistence

import (
	"context"
	"sync"

	"github.com/praekeltfoundation/contentrepo-go/modules/content/domain/entities/page"
	"github.com/praekeltfoundation/contentrepo-go/modules/content/domain/value_objects/locale"
)

type pageNaturalKey struct {
	slug   string
	locale string
}

// InmemPageRepository keeps pages in insertion order so List can return
// parents before children without a database.
type InmemPageRepository struct {
	mu    sync.RWMutex
	pages map[pageNaturalKey]page.ContentPage
	order []pageNaturalKey
}

func NewInmemPageRepository() *InmemPageRepository {
	return &InmemPageRepository{
		pages: make(map[pageNaturalKey]page.ContentPage),
	}
}

func (r *InmemPageRepository) GetBySlug(_ context.Context, slug string, loc locale.Locale) (page.ContentPage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, found := r.pages[pageNaturalKey{slug: slug, locale: loc.Code()}]
	if !found {
		return nil, page.ErrPageNotFound
	}
	return p, nil
}

func (r *InmemPageRepository) Save(_ context.Context, p page.ContentPage) (page.ContentPage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := pageNaturalKey{slug: p.Slug(), locale: p.Locale().Code()}
	if existing, found := r.pages[key]; found {
		p = rebuildPage(p,
			page.WithID(existing.ID()),
			page.WithRevision(existing.Revision()),
			page.WithHome(existing.IsHome()),
		)
	} else {
		r.order = append(r.order, key)
	}
	r.pages[key] = p
	return p, nil
}

func (r *InmemPageRepository) Publish(_ context.Context, slug string, loc locale.Locale) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := pageNaturalKey{slug: slug, locale: loc.Code()}
	p, found := r.pages[key]
	if !found {
		return 0, page.ErrPageNotFound
	}
	revision := p.Revision() + 1
	r.pages[key] = rebuildPage(p, page.WithLive(true), page.WithRevision(revision))
	return revision, nil
}

func (r *InmemPageRepository) List(_ context.Context, params page.FindParams) ([]page.ContentPage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	emitted := make(map[pageNaturalKey]bool, len(r.order))
	out := make([]page.ContentPage, 0, len(r.order))

	var emit func(key pageNaturalKey)
	emit = func(key pageNaturalKey) {
		if emitted[key] {
			return
		}
		emitted[key] = true
		p := r.pages[key]
		parentKey := pageNaturalKey{slug: p.ParentSlug(), locale: key.locale}
		if parentKey.slug != "" && parentKey != key {
			if _, found := r.pages[parentKey]; found {
				emit(parentKey)
			}
		}
		if !params.Locale.IsZero() && params.Locale.Code() != p.Locale().Code() {
			return
		}
		if params.LiveOnly && !p.Live() {
			return
		}
		out = append(out, p)
	}
	for _, key := range r.order {
		emit(key)
	}
	return out, nil
}

func (r *InmemPageRepository) Delete(_ context.Context, slug string, loc locale.Locale) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := pageNaturalKey{slug: slug, locale: loc.Code()}
	if _, found := r.pages[key]; !found {
		return page.ErrPageNotFound
	}
	delete(r.pages, key)
	for i, k := range r.order {
		if k == key {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *InmemPageRepository) DeleteAll(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pages = make(map[pageNaturalKey]page.ContentPage)
	r.order = nil
	return nil
}

func (r *InmemPageRepository) GetHomePage(_ context.Context, loc locale.Locale) (page.ContentPage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.findHome(loc)
}

func (r *InmemPageRepository) findHome(loc locale.Locale) (page.ContentPage, error) {
	for _, key := range r.order {
		p := r.pages[key]
		if p.IsHome() && p.Locale().Code() == loc.Code() {
			return p, nil
		}
	}
	return nil, page.ErrHomePageNotFound
}

func (r *InmemPageRepository) EnsureHomePage(_ context.Context, loc locale.Locale) (page.ContentPage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if home, err := r.findHome(loc); err == nil {
		return home, nil
	}
	home := page.New("home", loc, "Home", page.WithHome(true), page.WithLive(true))
	key := pageNaturalKey{slug: home.Slug(), locale: loc.Code()}
	r.pages[key] = home
	r.order = append(r.order, key)
	return home, nil
}
