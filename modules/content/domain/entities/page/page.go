package page

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/praekeltfoundation/contentrepo-go/modules/content/domain/value_objects/locale"
)

var (
	ErrPageNotFound     = errors.New("content page not found")
	ErrHomePageNotFound = errors.New("home page not found for locale")
)

type ButtonType string

const (
	ButtonNextMessage ButtonType = "next_message"
	ButtonGoToPage    ButtonType = "go_to_page"
	ButtonGoToForm    ButtonType = "go_to_form"
)

// Button is one interactive element on a WhatsApp message. TargetSlug is only
// set for go_to_page/go_to_form buttons.
type Button struct {
	Type       ButtonType
	Title      string
	TargetSlug string
}

// Restriction is one profile-field constraint on a message variation, e.g.
// {Type: "gender", Value: "male"}. Order is preserved for round-tripping.
type Restriction struct {
	Type  string
	Value string
}

type Variation struct {
	Restrictions []Restriction
	Message      string
}

// WhatsappBlock is one WhatsApp message of a page, with its optional media,
// buttons and profile-restricted variations.
type WhatsappBlock struct {
	Message    string
	ImageLink  string
	DocLink    string
	MediaLink  string
	NextPrompt string
	Buttons    []Button
	Variations []Variation
}

// MessageBlock is one message on a plain-text channel (SMS, USSD, Messenger,
// Viber).
type MessageBlock struct {
	Message string
}

type FindParams struct {
	Locale   locale.Locale // zero value means all locales
	LiveOnly bool
}

type Repository interface {
	GetBySlug(ctx context.Context, slug string, loc locale.Locale) (ContentPage, error)
	// Save upserts by (slug, locale), preserving the stored ID and revision
	// counter of an existing page.
	Save(ctx context.Context, p ContentPage) (ContentPage, error)
	// Publish marks the page live and returns the new revision number.
	Publish(ctx context.Context, slug string, loc locale.Locale) (int64, error)
	// List returns pages ordered parents-before-children, stable within one
	// parent (creation order).
	List(ctx context.Context, params FindParams) ([]ContentPage, error)
	Delete(ctx context.Context, slug string, loc locale.Locale) error
	DeleteAll(ctx context.Context) error
	GetHomePage(ctx context.Context, loc locale.Locale) (ContentPage, error)
	EnsureHomePage(ctx context.Context, loc locale.Locale) (ContentPage, error)
}

type ContentPage interface {
	ID() uuid.UUID
	Slug() string
	Locale() locale.Locale
	Title() string
	Subtitle() string
	ParentSlug() string
	TranslationTag() string
	Tags() []string
	Triggers() []string
	QuickReplies() []string
	RelatedPageSlugs() []string

	WebBody() []string
	WhatsappTitle() string
	WhatsappTemplateName() string
	WhatsappTemplateCategory() string
	WhatsappBlocks() []WhatsappBlock
	SMSTitle() string
	SMSBlocks() []MessageBlock
	USSDTitle() string
	USSDBlocks() []MessageBlock
	MessengerTitle() string
	MessengerBlocks() []MessageBlock
	ViberTitle() string
	ViberBlocks() []MessageBlock

	// IsIndex reports whether the page carries no body on any channel and so
	// acts purely as a container in the tree.
	IsIndex() bool
	IsHome() bool
	Live() bool
	Revision() int64
}

type contentPage struct {
	id             uuid.UUID
	slug           string
	loc            locale.Locale
	title          string
	subtitle       string
	parentSlug     string
	translationTag string
	tags           []string
	triggers       []string
	quickReplies   []string
	relatedSlugs   []string

	webBody            []string
	whatsappTitle      string
	waTemplateName     string
	waTemplateCategory string
	whatsappBlocks     []WhatsappBlock
	smsTitle           string
	smsBlocks          []MessageBlock
	ussdTitle          string
	ussdBlocks         []MessageBlock
	messengerTitle     string
	messengerBlocks    []MessageBlock
	viberTitle         string
	viberBlocks        []MessageBlock

	home     bool
	live     bool
	revision int64
}

func New(slug string, loc locale.Locale, title string, opts ...Option) ContentPage {
	p := &contentPage{
		id:    uuid.New(),
		slug:  slug,
		loc:   loc,
		title: title,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type Option func(*contentPage)

func WithID(id uuid.UUID) Option {
	return func(p *contentPage) {
		if id != uuid.Nil {
			p.id = id
		}
	}
}

func WithSubtitle(subtitle string) Option {
	return func(p *contentPage) { p.subtitle = subtitle }
}

func WithParentSlug(parentSlug string) Option {
	return func(p *contentPage) { p.parentSlug = parentSlug }
}

func WithTranslationTag(tag string) Option {
	return func(p *contentPage) { p.translationTag = tag }
}

func WithTags(tags []string) Option {
	return func(p *contentPage) { p.tags = tags }
}

func WithTriggers(triggers []string) Option {
	return func(p *contentPage) { p.triggers = triggers }
}

func WithQuickReplies(quickReplies []string) Option {
	return func(p *contentPage) { p.quickReplies = quickReplies }
}

func WithRelatedPageSlugs(slugs []string) Option {
	return func(p *contentPage) { p.relatedSlugs = slugs }
}

func WithWebBody(paragraphs []string) Option {
	return func(p *contentPage) { p.webBody = paragraphs }
}

func WithWhatsapp(title string, blocks []WhatsappBlock) Option {
	return func(p *contentPage) {
		p.whatsappTitle = title
		p.whatsappBlocks = blocks
	}
}

func WithWhatsappTemplate(name, category string) Option {
	return func(p *contentPage) {
		p.waTemplateName = name
		p.waTemplateCategory = category
	}
}

func WithSMS(title string, blocks []MessageBlock) Option {
	return func(p *contentPage) {
		p.smsTitle = title
		p.smsBlocks = blocks
	}
}

func WithUSSD(title string, blocks []MessageBlock) Option {
	return func(p *contentPage) {
		p.ussdTitle = title
		p.ussdBlocks = blocks
	}
}

func WithMessenger(title string, blocks []MessageBlock) Option {
	return func(p *contentPage) {
		p.messengerTitle = title
		p.messengerBlocks = blocks
	}
}

func WithViber(title string, blocks []MessageBlock) Option {
	return func(p *contentPage) {
		p.viberTitle = title
		p.viberBlocks = blocks
	}
}

func WithHome(home bool) Option {
	return func(p *contentPage) { p.home = home }
}

func WithLive(live bool) Option {
	return func(p *contentPage) { p.live = live }
}

func WithRevision(revision int64) Option {
	return func(p *contentPage) { p.revision = revision }
}

func (p *contentPage) ID() uuid.UUID             { return p.id }
func (p *contentPage) Slug() string              { return p.slug }
func (p *contentPage) Locale() locale.Locale     { return p.loc }
func (p *contentPage) Title() string             { return p.title }
func (p *contentPage) Subtitle() string          { return p.subtitle }
func (p *contentPage) ParentSlug() string        { return p.parentSlug }
func (p *contentPage) TranslationTag() string    { return p.translationTag }
func (p *contentPage) Tags() []string            { return p.tags }
func (p *contentPage) Triggers() []string        { return p.triggers }
func (p *contentPage) QuickReplies() []string    { return p.quickReplies }
func (p *contentPage) RelatedPageSlugs() []string { return p.relatedSlugs }

func (p *contentPage) WebBody() []string                { return p.webBody }
func (p *contentPage) WhatsappTitle() string            { return p.whatsappTitle }
func (p *contentPage) WhatsappTemplateName() string     { return p.waTemplateName }
func (p *contentPage) WhatsappTemplateCategory() string { return p.waTemplateCategory }
func (p *contentPage) WhatsappBlocks() []WhatsappBlock  { return p.whatsappBlocks }
func (p *contentPage) SMSTitle() string                 { return p.smsTitle }
func (p *contentPage) SMSBlocks() []MessageBlock        { return p.smsBlocks }
func (p *contentPage) USSDTitle() string                { return p.ussdTitle }
func (p *contentPage) USSDBlocks() []MessageBlock       { return p.ussdBlocks }
func (p *contentPage) MessengerTitle() string           { return p.messengerTitle }
func (p *contentPage) MessengerBlocks() []MessageBlock  { return p.messengerBlocks }
func (p *contentPage) ViberTitle() string               { return p.viberTitle }
func (p *contentPage) ViberBlocks() []MessageBlock      { return p.viberBlocks }

func (p *contentPage) IsIndex() bool {
	return len(p.webBody) == 0 &&
		len(p.whatsappBlocks) == 0 &&
		len(p.smsBlocks) == 0 &&
		len(p.ussdBlocks) == 0 &&
		len(p.messengerBlocks) == 0 &&
		len(p.viberBlocks) == 0
}

func (p *contentPage) IsHome() bool    { return p.home }
func (p *contentPage) Live() bool      { return p.live }
func (p *contentPage) Revision() int64 { return p.revision }
