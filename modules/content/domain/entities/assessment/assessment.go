package assessment

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/praekeltfoundation/contentrepo-go/modules/content/domain/value_objects/locale"
)

var ErrAssessmentNotFound = errors.New("assessment not found")

type QuestionType string

const (
	QuestionCategorical QuestionType = "categorical_question"
	QuestionAge         QuestionType = "age_question"
	QuestionMultiselect QuestionType = "multiselect_question"
	QuestionFreeText    QuestionType = "freetext_question"
	QuestionInteger     QuestionType = "integer_question"
	QuestionYearOfBirth QuestionType = "year_of_birth_question"
)

type Answer struct {
	Answer     string
	Score      float64
	SemanticID string
	Response   string
}

type Question struct {
	QuestionType QuestionType
	Question     string
	Explainer    string
	Error        string
	SemanticID   string
	Min          *int
	Max          *int
	Answers      []Answer
}

type FindParams struct {
	Locale   locale.Locale
	LiveOnly bool
}

type Repository interface {
	GetBySlug(ctx context.Context, slug string, loc locale.Locale) (Assessment, error)
	Save(ctx context.Context, a Assessment) (Assessment, error)
	Publish(ctx context.Context, slug string, loc locale.Locale) (int64, error)
	List(ctx context.Context, params FindParams) ([]Assessment, error)
	Delete(ctx context.Context, slug string, loc locale.Locale) error
	DeleteAll(ctx context.Context) error
}

type Assessment interface {
	ID() uuid.UUID
	Slug() string
	Locale() locale.Locale
	Title() string
	Version() string
	Tags() []string
	HighResultPageSlug() string
	HighInflection() *float64
	MediumResultPageSlug() string
	MediumInflection() *float64
	LowResultPageSlug() string
	SkipThreshold() float64
	SkipHighResultPageSlug() string
	GenericError() string
	Questions() []Question
	Live() bool
	Revision() int64
}

type assessment struct {
	id                     uuid.UUID
	slug                   string
	loc                    locale.Locale
	title                  string
	version                string
	tags                   []string
	highResultPageSlug     string
	highInflection         *float64
	mediumResultPageSlug   string
	mediumInflection       *float64
	lowResultPageSlug      string
	skipThreshold          float64
	skipHighResultPageSlug string
	genericError           string
	questions              []Question
	live                   bool
	revision               int64
}

func New(slug string, loc locale.Locale, title string, opts ...Option) Assessment {
	a := &assessment{
		id:    uuid.New(),
		slug:  slug,
		loc:   loc,
		title: title,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

type Option func(*assessment)

func WithID(id uuid.UUID) Option {
	return func(a *assessment) {
		if id != uuid.Nil {
			a.id = id
		}
	}
}

func WithVersion(version string) Option {
	return func(a *assessment) { a.version = version }
}

func WithTags(tags []string) Option {
	return func(a *assessment) { a.tags = tags }
}

func WithResultPages(high, medium, low string) Option {
	return func(a *assessment) {
		a.highResultPageSlug = high
		a.mediumResultPageSlug = medium
		a.lowResultPageSlug = low
	}
}

func WithInflections(high, medium *float64) Option {
	return func(a *assessment) {
		a.highInflection = high
		a.mediumInflection = medium
	}
}

func WithSkip(threshold float64, highResultPageSlug string) Option {
	return func(a *assessment) {
		a.skipThreshold = threshold
		a.skipHighResultPageSlug = highResultPageSlug
	}
}

func WithGenericError(genericError string) Option {
	return func(a *assessment) { a.genericError = genericError }
}

func WithQuestions(questions []Question) Option {
	return func(a *assessment) { a.questions = questions }
}

func WithLive(live bool) Option {
	return func(a *assessment) { a.live = live }
}

func WithRevision(revision int64) Option {
	return func(a *assessment) { a.revision = revision }
}

func (a *assessment) ID() uuid.UUID                  { return a.id }
func (a *assessment) Slug() string                   { return a.slug }
func (a *assessment) Locale() locale.Locale          { return a.loc }
func (a *assessment) Title() string                  { return a.title }
func (a *assessment) Version() string                { return a.version }
func (a *assessment) Tags() []string                 { return a.tags }
func (a *assessment) HighResultPageSlug() string     { return a.highResultPageSlug }
func (a *assessment) HighInflection() *float64       { return a.highInflection }
func (a *assessment) MediumResultPageSlug() string   { return a.mediumResultPageSlug }
func (a *assessment) MediumInflection() *float64     { return a.mediumInflection }
func (a *assessment) LowResultPageSlug() string      { return a.lowResultPageSlug }
func (a *assessment) SkipThreshold() float64         { return a.skipThreshold }
func (a *assessment) SkipHighResultPageSlug() string { return a.skipHighResultPageSlug }
func (a *assessment) GenericError() string           { return a.genericError }
func (a *assessment) Questions() []Question          { return a.questions }
func (a *assessment) Live() bool                     { return a.live }
func (a *assessment) Revision() int64                { return a.revision }
