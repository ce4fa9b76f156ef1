package watemplate

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/praekeltfoundation/contentrepo-go/modules/content/domain/value_objects/locale"
)

var ErrTemplateNotFound = errors.New("whatsapp template not found")

type Category string

const (
	CategoryUtility   Category = "UTILITY"
	CategoryMarketing Category = "MARKETING"
)

type SubmissionStatus string

const (
	StatusNotSubmitted SubmissionStatus = "NOT_SUBMITTED_YET"
	StatusSubmitted    SubmissionStatus = "SUBMITTED"
	StatusFailed       SubmissionStatus = "FAILED"
)

type FindParams struct {
	Locale   locale.Locale
	LiveOnly bool
}

type Repository interface {
	GetByName(ctx context.Context, name string) (WhatsAppTemplate, error)
	Save(ctx context.Context, t WhatsAppTemplate) (WhatsAppTemplate, error)
	Publish(ctx context.Context, name string) (int64, error)
	List(ctx context.Context, params FindParams) ([]WhatsAppTemplate, error)
	Delete(ctx context.Context, name string) error
	DeleteAll(ctx context.Context) error
}

type WhatsAppTemplate interface {
	ID() uuid.UUID
	Name() string
	Category() Category
	Locale() locale.Locale
	Body() string
	ExampleValues() []string
	ImageLink() string
	SubmissionStatus() SubmissionStatus
	Live() bool
	Revision() int64
}

type whatsAppTemplate struct {
	id            uuid.UUID
	name          string
	category      Category
	loc           locale.Locale
	body          string
	exampleValues []string
	imageLink     string
	status        SubmissionStatus
	live          bool
	revision      int64
}

func New(name string, category Category, loc locale.Locale, body string, opts ...Option) WhatsAppTemplate {
	t := &whatsAppTemplate{
		id:       uuid.New(),
		name:     name,
		category: category,
		loc:      loc,
		body:     body,
		status:   StatusNotSubmitted,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

type Option func(*whatsAppTemplate)

func WithID(id uuid.UUID) Option {
	return func(t *whatsAppTemplate) {
		if id != uuid.Nil {
			t.id = id
		}
	}
}

func WithExampleValues(values []string) Option {
	return func(t *whatsAppTemplate) { t.exampleValues = values }
}

func WithImageLink(link string) Option {
	return func(t *whatsAppTemplate) { t.imageLink = link }
}

func WithSubmissionStatus(status SubmissionStatus) Option {
	return func(t *whatsAppTemplate) {
		if status != "" {
			t.status = status
		}
	}
}

func WithLive(live bool) Option {
	return func(t *whatsAppTemplate) { t.live = live }
}

func WithRevision(revision int64) Option {
	return func(t *whatsAppTemplate) { t.revision = revision }
}

func (t *whatsAppTemplate) ID() uuid.UUID                      { return t.id }
func (t *whatsAppTemplate) Name() string                       { return t.name }
func (t *whatsAppTemplate) Category() Category                 { return t.category }
func (t *whatsAppTemplate) Locale() locale.Locale              { return t.loc }
func (t *whatsAppTemplate) Body() string                       { return t.body }
func (t *whatsAppTemplate) ExampleValues() []string            { return t.exampleValues }
func (t *whatsAppTemplate) ImageLink() string                  { return t.imageLink }
func (t *whatsAppTemplate) SubmissionStatus() SubmissionStatus { return t.status }
func (t *whatsAppTemplate) Live() bool                         { return t.live }
func (t *whatsAppTemplate) Revision() int64                    { return t.revision }
