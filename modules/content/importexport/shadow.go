package importexport

import (
	"errors"
	"strings"

	"github.com/praekeltfoundation/contentrepo-go/modules/content/domain/entities/assessment"
	"github.com/praekeltfoundation/contentrepo-go/modules/content/domain/entities/contentset"
	"github.com/praekeltfoundation/contentrepo-go/modules/content/domain/entities/page"
	"github.com/praekeltfoundation/contentrepo-go/modules/content/domain/entities/watemplate"
	"github.com/praekeltfoundation/contentrepo-go/modules/content/domain/value_objects/locale"
)

// pageKey is the natural key of a content page within one import.
type pageKey struct {
	Slug   string
	Locale string
}

// shadowVariation and shadowBlock mirror the domain value objects but keep
// the raw column shapes so they stay cheap to build while rows stream in.
type shadowVariation struct {
	Restrictions [][2]string
	Message      string
}

type shadowBlock struct {
	Message    string
	ImageLink  string
	DocLink    string
	MediaLink  string
	NextPrompt string
	Buttons    []ButtonSpec
	Variations []shadowVariation
}

// shadowPage accumulates one content page across its first row and any
// continuation and variation rows.
type shadowPage struct {
	Row int

	Slug   string
	Locale locale.Locale
	Parent string

	WebTitle    string
	WebSubtitle string
	WebBody     string

	WhatsappTitle            string
	WhatsappTemplateName     string
	WhatsappTemplateCategory string
	WhatsappBlocks           []shadowBlock

	SMSTitle        string
	SMSMessages     []string
	USSDTitle       string
	USSDMessages    []string
	MessengerTitle  string
	MessengerBodies []string
	ViberTitle      string
	ViberBodies     []string

	TranslationTag string
	Tags           []string
	QuickReplies   []string
	Triggers       []string
	RelatedPages   []string

	IsIndex bool
}

// slugRef is a slug mentioned by a row that must resolve to a page once the
// whole file has been read. Field names the referring column for error text.
type slugRef struct {
	Row    int
	Field  string
	Slug   string
	Locale locale.Locale
}

type shadowAssessment struct {
	Row int

	Title  string
	Slug   string
	Locale locale.Locale

	Version string
	Tags    []string

	HighResultPage     string
	HighInflection     *float64
	MediumResultPage   string
	MediumInflection   *float64
	LowResultPage      string
	SkipThreshold      float64
	SkipHighResultPage string
	GenericError       string

	Questions []assessment.Question
}

type shadowContentSet struct {
	Row int

	Name   string
	Slug   string
	Locale locale.Locale

	ProfileFields [][2]string
	Entries       []contentset.Entry
}

type shadowTemplate struct {
	Row int

	Name          string
	Category      watemplate.Category
	Locale        locale.Locale
	Body          string
	ExampleValues []string
}

// shadowGraph is the staged result of parsing one file. Order slices preserve
// file order so persistence can walk records in the sequence they appeared.
type shadowGraph struct {
	pages     map[pageKey]*shadowPage
	pageOrder []pageKey

	assessments     map[pageKey]*shadowAssessment
	assessmentOrder []pageKey

	sets     map[string]*shadowContentSet
	setOrder []string

	templates     map[string]*shadowTemplate
	templateOrder []string

	refs     []slugRef
	formRefs []slugRef
}

func newShadowGraph() *shadowGraph {
	return &shadowGraph{
		pages:       make(map[pageKey]*shadowPage),
		assessments: make(map[pageKey]*shadowAssessment),
		sets:        make(map[string]*shadowContentSet),
		templates:   make(map[string]*shadowTemplate),
	}
}

func (g *shadowGraph) page(key pageKey) (*shadowPage, bool) {
	p, ok := g.pages[key]
	return p, ok
}

func (g *shadowGraph) addPage(key pageKey, p *shadowPage) {
	if _, exists := g.pages[key]; !exists {
		g.pageOrder = append(g.pageOrder, key)
	}
	g.pages[key] = p
}

func (g *shadowGraph) addAssessment(key pageKey, a *shadowAssessment) {
	if _, exists := g.assessments[key]; !exists {
		g.assessmentOrder = append(g.assessmentOrder, key)
	}
	g.assessments[key] = a
}

func (g *shadowGraph) addSet(slug string, s *shadowContentSet) {
	if _, exists := g.sets[slug]; !exists {
		g.setOrder = append(g.setOrder, slug)
	}
	g.sets[slug] = s
}

func (g *shadowGraph) addTemplate(name string, t *shadowTemplate) {
	if _, exists := g.templates[name]; !exists {
		g.templateOrder = append(g.templateOrder, name)
	}
	// A repeated name within one file replaces the earlier definition.
	g.templates[name] = t
}

func (g *shadowGraph) addRef(row int, field, slug string, loc locale.Locale) {
	if slug == "" {
		return
	}
	g.refs = append(g.refs, slugRef{Row: row, Field: field, Slug: slug, Locale: loc})
}

// addFormRef records a slug that must resolve to an assessment rather than a
// content page.
func (g *shadowGraph) addFormRef(row int, field, slug string, loc locale.Locale) {
	if slug == "" {
		return
	}
	g.formRefs = append(g.formRefs, slugRef{Row: row, Field: field, Slug: slug, Locale: loc})
}

// graphBuilder turns validated rows into a shadowGraph. Locale resolution is
// memoized for the lifetime of one build only, so registry changes between
// imports are always picked up.
type graphBuilder struct {
	registry   *locale.Registry
	onlyLocale locale.Locale

	graph      *shadowGraph
	localeMemo map[string]locale.Locale
}

func newGraphBuilder(registry *locale.Registry, only locale.Locale) *graphBuilder {
	return &graphBuilder{
		registry:   registry,
		onlyLocale: only,
		graph:      newShadowGraph(),
		localeMemo: make(map[string]locale.Locale),
	}
}

func (b *graphBuilder) resolveLocale(row int, raw string) (locale.Locale, error) {
	if raw == "" {
		return b.registry.Default(), nil
	}
	memoKey := strings.ToLower(raw)
	if loc, ok := b.localeMemo[memoKey]; ok {
		return loc, nil
	}
	loc, err := b.registry.Resolve(raw)
	if err != nil {
		if errors.Is(err, locale.ErrAmbiguous) {
			return locale.Locale{}, localeError(row, "locale name %q matches more than one configured locale", raw)
		}
		return locale.Locale{}, localeError(row, "locale %q is not configured on this site", raw)
	}
	b.localeMemo[memoKey] = loc
	return loc, nil
}

// skip reports whether a row in locale loc falls outside a single-locale
// import.
func (b *graphBuilder) skip(loc locale.Locale) bool {
	return !b.onlyLocale.IsZero() && b.onlyLocale.Code() != loc.Code()
}

func (b *graphBuilder) addContentRow(r ContentRow) error {
	loc, err := b.resolveLocale(r.Number, r.Locale)
	if err != nil {
		return err
	}
	if b.skip(loc) {
		return nil
	}
	key := pageKey{Slug: r.Slug, Locale: loc.Code()}

	switch r.Kind() {
	case RowKindVariation:
		p, ok := b.graph.page(key)
		if !ok {
			return formatError(r.Number, "variation row for unknown page %q", r.Slug)
		}
		if len(p.WhatsappBlocks) == 0 {
			return formatError(r.Number, "variation row for page %q which has no WhatsApp messages", r.Slug)
		}
		last := &p.WhatsappBlocks[len(p.WhatsappBlocks)-1]
		last.Variations = append(last.Variations, shadowVariation{
			Restrictions: r.VariationRestrictions,
			Message:      r.VariationBody,
		})
		return nil

	case RowKindContinuation:
		p, ok := b.graph.page(key)
		if !ok {
			return formatError(r.Number, "continuation row for unknown page %q", r.Slug)
		}
		b.appendMessages(p, r)
		b.recordButtonRefs(r, loc)
		return nil

	case RowKindPageIndex:
		p := b.newShadowPage(r, loc)
		p.IsIndex = true
		b.graph.addPage(key, p)
		b.recordPageRefs(r, loc)
		return nil

	default: // RowKindNewPage
		p := b.newShadowPage(r, loc)
		b.appendMessages(p, r)
		b.graph.addPage(key, p)
		b.recordPageRefs(r, loc)
		return nil
	}
}

func (b *graphBuilder) newShadowPage(r ContentRow, loc locale.Locale) *shadowPage {
	return &shadowPage{
		Row:    r.Number,
		Slug:   r.Slug,
		Locale: loc,
		Parent: r.Parent,

		WebTitle:    r.WebTitle,
		WebSubtitle: r.WebSubtitle,
		WebBody:     r.WebBody,

		WhatsappTitle:            r.WhatsappTitle,
		WhatsappTemplateName:     r.WhatsappTemplateName,
		WhatsappTemplateCategory: r.WhatsappTemplateCategory,

		SMSTitle:       r.SMSTitle,
		USSDTitle:      r.USSDTitle,
		MessengerTitle: r.MessengerTitle,
		ViberTitle:     r.ViberTitle,

		TranslationTag: r.TranslationTag,
		Tags:           r.Tags,
		QuickReplies:   r.QuickReplies,
		Triggers:       r.Triggers,
		RelatedPages:   r.RelatedPages,
	}
}

// appendMessages adds one message per populated channel body. WhatsApp carries
// the per-message extras, the plain channels carry text only.
func (b *graphBuilder) appendMessages(p *shadowPage, r ContentRow) {
	if r.WhatsappBody != "" {
		p.WhatsappBlocks = append(p.WhatsappBlocks, shadowBlock{
			Message:    r.WhatsappBody,
			ImageLink:  r.ImageLink,
			DocLink:    r.DocLink,
			MediaLink:  r.MediaLink,
			NextPrompt: r.NextPrompt,
			Buttons:    r.Buttons,
		})
	}
	if r.SMSBody != "" {
		p.SMSMessages = append(p.SMSMessages, r.SMSBody)
	}
	if r.USSDBody != "" {
		p.USSDMessages = append(p.USSDMessages, r.USSDBody)
	}
	if r.MessengerBody != "" {
		p.MessengerBodies = append(p.MessengerBodies, r.MessengerBody)
	}
	if r.ViberBody != "" {
		p.ViberBodies = append(p.ViberBodies, r.ViberBody)
	}
}

func (b *graphBuilder) recordPageRefs(r ContentRow, loc locale.Locale) {
	for _, slug := range r.RelatedPages {
		b.graph.addRef(r.Number, "related_pages", slug, loc)
	}
	b.recordButtonRefs(r, loc)
}

// recordButtonRefs stashes button targets from any row carrying a WhatsApp
// message, continuation rows included.
func (b *graphBuilder) recordButtonRefs(r ContentRow, loc locale.Locale) {
	for _, btn := range r.Buttons {
		switch btn.Type {
		case string(page.ButtonGoToPage):
			b.graph.addRef(r.Number, "buttons", btn.Slug, loc)
		case string(page.ButtonGoToForm):
			b.graph.addFormRef(r.Number, "buttons", btn.Slug, loc)
		}
	}
}

func (b *graphBuilder) addAssessmentRow(r AssessmentRow) error {
	loc, err := b.resolveLocale(r.Number, r.Locale)
	if err != nil {
		return err
	}
	if b.skip(loc) {
		return nil
	}
	key := pageKey{Slug: r.Slug, Locale: loc.Code()}

	a, ok := b.graph.assessments[key]
	if !ok {
		a = &shadowAssessment{
			Row:    r.Number,
			Title:  r.Title,
			Slug:   r.Slug,
			Locale: loc,

			Version: r.Version,
			Tags:    r.Tags,

			HighResultPage:     r.HighResultPage,
			HighInflection:     r.HighInflection,
			MediumResultPage:   r.MediumResultPage,
			MediumInflection:   r.MediumInflection,
			LowResultPage:      r.LowResultPage,
			SkipThreshold:      r.SkipThreshold,
			SkipHighResultPage: r.SkipHighResultPage,
			GenericError:       r.GenericError,
		}
		b.graph.addAssessment(key, a)
		b.graph.addRef(r.Number, "high_result_page", r.HighResultPage, loc)
		b.graph.addRef(r.Number, "medium_result_page", r.MediumResultPage, loc)
		b.graph.addRef(r.Number, "low_result_page", r.LowResultPage, loc)
		b.graph.addRef(r.Number, "skip_high_result_page", r.SkipHighResultPage, loc)
	}

	if r.Question == "" {
		return nil
	}
	q := assessment.Question{
		QuestionType: assessment.QuestionType(r.QuestionType),
		Question:     r.Question,
		Explainer:    r.Explainer,
		Error:        r.Error,
		SemanticID:   r.QuestionSemanticID,
		Min:          r.Min,
		Max:          r.Max,
	}
	if q.QuestionType == "" {
		q.QuestionType = assessment.QuestionCategorical
	}
	for i, answer := range r.Answers {
		a2 := assessment.Answer{Answer: answer}
		if i < len(r.Scores) {
			a2.Score = r.Scores[i]
		}
		if i < len(r.AnswerSemanticIDs) {
			a2.SemanticID = r.AnswerSemanticIDs[i]
		}
		if i < len(r.AnswerResponses) {
			a2.Response = r.AnswerResponses[i]
		}
		q.Answers = append(q.Answers, a2)
	}
	a.Questions = append(a.Questions, q)
	return nil
}

func (b *graphBuilder) addContentSetRow(r ContentSetRow) error {
	loc, err := b.resolveLocale(r.Number, r.Locale)
	if err != nil {
		return err
	}
	if b.skip(loc) {
		return nil
	}

	s, ok := b.graph.sets[r.Slug]
	if !ok {
		s = &shadowContentSet{
			Row:           r.Number,
			Name:          r.Name,
			Slug:          r.Slug,
			Locale:        loc,
			ProfileFields: r.ProfileFields,
		}
		b.graph.addSet(r.Slug, s)
	}

	if r.PageSlug == "" {
		return nil
	}
	s.Entries = append(s.Entries, contentset.Entry{
		PageSlug:      r.PageSlug,
		Time:          r.Time,
		Unit:          r.Unit,
		BeforeOrAfter: r.BeforeOrAfter,
		ContactField:  r.ContactField,
	})
	b.graph.addRef(r.Number, "page_slug", r.PageSlug, loc)
	return nil
}

func (b *graphBuilder) addTemplateRow(r TemplateRow) error {
	loc, err := b.resolveLocale(r.Number, r.Locale)
	if err != nil {
		return err
	}
	if b.skip(loc) {
		return nil
	}

	b.graph.addTemplate(r.Name, &shadowTemplate{
		Row:           r.Number,
		Name:          r.Name,
		Category:      watemplate.Category(r.Category),
		Locale:        loc,
		Body:          r.Body,
		ExampleValues: r.ExampleValues,
	})
	return nil
}
