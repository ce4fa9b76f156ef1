package contentset

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/praekeltfoundation/contentrepo-go/modules/content/domain/value_objects/locale"
)

var ErrContentSetNotFound = errors.New("ordered content set not found")

// ProfileField is one audience constraint on a set, e.g. {"gender", "female"}.
type ProfileField struct {
	Name  string
	Value string
}

// Entry is one scheduled page of the set. Time/Unit/BeforeOrAfter/ContactField
// describe when the page should be sent relative to a contact date field.
type Entry struct {
	PageSlug      string
	Time          string
	Unit          string
	BeforeOrAfter string
	ContactField  string
}

type FindParams struct {
	Locale   locale.Locale
	LiveOnly bool
}

type Repository interface {
	GetBySlug(ctx context.Context, slug string) (OrderedContentSet, error)
	Save(ctx context.Context, s OrderedContentSet) (OrderedContentSet, error)
	Publish(ctx context.Context, slug string) (int64, error)
	List(ctx context.Context, params FindParams) ([]OrderedContentSet, error)
	Delete(ctx context.Context, slug string) error
	DeleteAll(ctx context.Context) error
}

type OrderedContentSet interface {
	ID() uuid.UUID
	Slug() string
	Name() string
	Locale() locale.Locale
	ProfileFields() []ProfileField
	Entries() []Entry
	Live() bool
	Revision() int64
}

type orderedContentSet struct {
	id            uuid.UUID
	slug          string
	name          string
	loc           locale.Locale
	profileFields []ProfileField
	entries       []Entry
	live          bool
	revision      int64
}

func New(slug, name string, loc locale.Locale, opts ...Option) OrderedContentSet {
	s := &orderedContentSet{
		id:   uuid.New(),
		slug: slug,
		name: name,
		loc:  loc,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type Option func(*orderedContentSet)

func WithID(id uuid.UUID) Option {
	return func(s *orderedContentSet) {
		if id != uuid.Nil {
			s.id = id
		}
	}
}

func WithProfileFields(fields []ProfileField) Option {
	return func(s *orderedContentSet) { s.profileFields = fields }
}

func WithEntries(entries []Entry) Option {
	return func(s *orderedContentSet) { s.entries = entries }
}

func WithLive(live bool) Option {
	return func(s *orderedContentSet) { s.live = live }
}

func WithRevision(revision int64) Option {
	return func(s *orderedContentSet) { s.revision = revision }
}

func (s *orderedContentSet) ID() uuid.UUID                 { return s.id }
func (s *orderedContentSet) Slug() string                  { return s.slug }
func (s *orderedContentSet) Name() string                  { return s.name }
func (s *orderedContentSet) Locale() locale.Locale         { return s.loc }
func (s *orderedContentSet) ProfileFields() []ProfileField { return s.profileFields }
func (s *orderedContentSet) Entries() []Entry              { return s.entries }
func (s *orderedContentSet) Live() bool                    { return s.live }
func (s *orderedContentSet) Revision() int64               { return s.revision }
