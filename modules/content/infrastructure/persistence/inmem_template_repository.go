package persistence

import (
	"context"
	"sync"

	"github.com/praekeltfoundation/contentrepo-go/modules/content/domain/entities/watemplate"
)

type InmemTemplateRepository struct {
	mu      sync.RWMutex
	records map[string]watemplate.WhatsAppTemplate
	order   []string
}

func NewInmemTemplateRepository() *InmemTemplateRepository {
	return &InmemTemplateRepository{
		records: make(map[string]watemplate.WhatsAppTemplate),
	}
}

func (r *InmemTemplateRepository) GetByName(_ context.Context, name string) (watemplate.WhatsAppTemplate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, found := r.records[name]
	if !found {
		return nil, watemplate.ErrTemplateNotFound
	}
	return t, nil
}

func (r *InmemTemplateRepository) Save(_ context.Context, t watemplate.WhatsAppTemplate) (watemplate.WhatsAppTemplate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, found := r.records[t.Name()]; found {
		t = rebuildTemplate(t,
			watemplate.WithID(existing.ID()),
			watemplate.WithRevision(existing.Revision()),
		)
	} else {
		r.order = append(r.order, t.Name())
	}
	r.records[t.Name()] = t
	return t, nil
}

func (r *InmemTemplateRepository) Publish(_ context.Context, name string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, found := r.records[name]
	if !found {
		return 0, watemplate.ErrTemplateNotFound
	}
	revision := t.Revision() + 1
	r.records[name] = rebuildTemplate(t, watemplate.WithLive(true), watemplate.WithRevision(revision))
	return revision, nil
}

func (r *InmemTemplateRepository) List(_ context.Context, params watemplate.FindParams) ([]watemplate.WhatsAppTemplate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]watemplate.WhatsAppTemplate, 0, len(r.order))
	for _, name := range r.order {
		t := r.records[name]
		if !params.Locale.IsZero() && params.Locale.Code() != t.Locale().Code() {
			continue
		}
		if params.LiveOnly && !t.Live() {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (r *InmemTemplateRepository) Delete(_ context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, found := r.records[name]; !found {
		return watemplate.ErrTemplateNotFound
	}
	delete(r.records, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *InmemTemplateRepository) DeleteAll(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = make(map[string]watemplate.WhatsAppTemplate)
	r.order = nil
	return nil
}
