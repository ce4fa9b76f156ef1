package persistence

import (
	"context"
	"sync"

	"github.com/praekeltfoundation/contentrepo-go/modules/content/domain/entities/assessment"
	"github.com/praekeltfoundation/contentrepo-go/modules/content/domain/value_objects/locale"
)

type InmemAssessmentRepository struct {
	mu      sync.RWMutex
	records map[pageNaturalKey]assessment.Assessment
	order   []pageNaturalKey
}

func NewInmemAssessmentRepository() *InmemAssessmentRepository {
	return &InmemAssessmentRepository{
		records: make(map[pageNaturalKey]assessment.Assessment),
	}
}

func (r *InmemAssessmentRepository) GetBySlug(_ context.Context, slug string, loc locale.Locale) (assessment.Assessment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, found := r.records[pageNaturalKey{slug: slug, locale: loc.Code()}]
	if !found {
		return nil, assessment.ErrAssessmentNotFound
	}
	return a, nil
}

func (r *InmemAssessmentRepository) Save(_ context.Context, a assessment.Assessment) (assessment.Assessment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := pageNaturalKey{slug: a.Slug(), locale: a.Locale().Code()}
	if existing, found := r.records[key]; found {
		a = rebuildAssessment(a,
			assessment.WithID(existing.ID()),
			assessment.WithRevision(existing.Revision()),
		)
	} else {
		r.order = append(r.order, key)
	}
	r.records[key] = a
	return a, nil
}

func (r *InmemAssessmentRepository) Publish(_ context.Context, slug string, loc locale.Locale) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := pageNaturalKey{slug: slug, locale: loc.Code()}
	a, found := r.records[key]
	if !found {
		return 0, assessment.ErrAssessmentNotFound
	}
	revision := a.Revision() + 1
	r.records[key] = rebuildAssessment(a, assessment.WithLive(true), assessment.WithRevision(revision))
	return revision, nil
}

func (r *InmemAssessmentRepository) List(_ context.Context, params assessment.FindParams) ([]assessment.Assessment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]assessment.Assessment, 0, len(r.order))
	for _, key := range r.order {
		a := r.records[key]
		if !params.Locale.IsZero() && params.Locale.Code() != a.Locale().Code() {
			continue
		}
		if params.LiveOnly && !a.Live() {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (r *InmemAssessmentRepository) Delete(_ context.Context, slug string, loc locale.Locale) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := pageNaturalKey{slug: slug, locale: loc.Code()}
	if _, found := r.records[key]; !found {
		return assessment.ErrAssessmentNotFound
	}
	delete(r.records, key)
	for i, k := range r.order {
		if k == key {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *InmemAssessmentRepository) DeleteAll(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = make(map[pageNaturalKey]assessment.Assessment)
	r.order = nil
	return nil
}
