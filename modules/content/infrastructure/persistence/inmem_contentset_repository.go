package persistence

import (
	"context"
	"sync"

	"github.com/praekeltfoundation/contentrepo-go/modules/content/domain/entities/contentset"
)

type InmemContentSetRepository struct {
	mu      sync.RWMutex
	records map[string]contentset.OrderedContentSet
	order   []string
}

func NewInmemContentSetRepository() *InmemContentSetRepository {
	return &InmemContentSetRepository{
		records: make(map[string]contentset.OrderedContentSet),
	}
}

func (r *InmemContentSetRepository) GetBySlug(_ context.Context, slug string) (contentset.OrderedContentSet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, found := r.records[slug]
	if !found {
		return nil, contentset.ErrContentSetNotFound
	}
	return s, nil
}

func (r *InmemContentSetRepository) Save(_ context.Context, s contentset.OrderedContentSet) (contentset.OrderedContentSet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, found := r.records[s.Slug()]; found {
		s = rebuildContentSet(s,
			contentset.WithID(existing.ID()),
			contentset.WithRevision(existing.Revision()),
		)
	} else {
		r.order = append(r.order, s.Slug())
	}
	r.records[s.Slug()] = s
	return s, nil
}

func (r *InmemContentSetRepository) Publish(_ context.Context, slug string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, found := r.records[slug]
	if !found {
		return 0, contentset.ErrContentSetNotFound
	}
	revision := s.Revision() + 1
	r.records[slug] = rebuildContentSet(s, contentset.WithLive(true), contentset.WithRevision(revision))
	return revision, nil
}

func (r *InmemContentSetRepository) List(_ context.Context, params contentset.FindParams) ([]contentset.OrderedContentSet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]contentset.OrderedContentSet, 0, len(r.order))
	for _, slug := range r.order {
		s := r.records[slug]
		if !params.Locale.IsZero() && params.Locale.Code() != s.Locale().Code() {
			continue
		}
		if params.LiveOnly && !s.Live() {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (r *InmemContentSetRepository) Delete(_ context.Context, slug string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, found := r.records[slug]; !found {
		return contentset.ErrContentSetNotFound
	}
	delete(r.records, slug)
	for i, s := range r.order {
		if s == slug {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *InmemContentSetRepository) DeleteAll(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = make(map[string]contentset.OrderedContentSet)
	r.order = nil
	return nil
}
