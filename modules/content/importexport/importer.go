package importexport

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/praekeltfoundation/contentrepo-go/modules/content/domain/entities/assessment"
	"github.com/praekeltfoundation/contentrepo-go/modules/content/domain/entities/contentset"
	"github.com/praekeltfoundation/contentrepo-go/modules/content/domain/entities/page"
	"github.com/praekeltfoundation/contentrepo-go/modules/content/domain/entities/watemplate"
	"github.com/praekeltfoundation/contentrepo-go/modules/content/domain/value_objects/locale"
	"github.com/praekeltfoundation/contentrepo-go/pkg/progress"
)

// Kind selects which record type a file contains.
type Kind string

const (
	KindContentPages Kind = "contentpages"
	KindAssessments  Kind = "assessments"
	KindOrderedSets  Kind = "orderedsets"
	KindTemplates    Kind = "templates"
)

func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindContentPages:
		return KindContentPages, nil
	case KindAssessments:
		return KindAssessments, nil
	case KindOrderedSets:
		return KindOrderedSets, nil
	case KindTemplates:
		return KindTemplates, nil
	default:
		return "", fmt.Errorf("unknown import kind %q", s)
	}
}

// ImportOptions tune one import run. A zero Locale imports every locale in
// the file, Purge deletes all records of the kind before importing.
type ImportOptions struct {
	Purge  bool
	Locale locale.Locale
}

// Summary reports what one import run persisted.
type Summary struct {
	Pages       int `json:"pages"`
	Assessments int `json:"assessments"`
	Sets        int `json:"ordered_sets"`
	Templates   int `json:"templates"`
}

type Importer struct {
	pages       page.Repository
	assessments assessment.Repository
	sets        contentset.Repository
	templates   watemplate.Repository
	locales     *locale.Registry

	log      logrus.FieldLogger
	progress progress.Sink
}

type ImporterOption func(*Importer)

func WithLogger(log logrus.FieldLogger) ImporterOption {
	return func(i *Importer) { i.log = log }
}

func WithProgress(sink progress.Sink) ImporterOption {
	return func(i *Importer) { i.progress = sink }
}

func NewImporter(
	pages page.Repository,
	assessments assessment.Repository,
	sets contentset.Repository,
	templates watemplate.Repository,
	locales *locale.Registry,
	opts ...ImporterOption,
) *Importer {
	imp := &Importer{
		pages:       pages,
		assessments: assessments,
		sets:        sets,
		templates:   templates,
		locales:     locales,
		log:         logrus.StandardLogger(),
		progress:    progress.Nop{},
	}
	for _, opt := range opts {
		opt(imp)
	}
	return imp
}

// Import parses data, stages it into a shadow graph, persists the graph and
// then validates every deferred slug reference. Any error leaves repositories
// in whatever state the caller's transaction dictates; the importer itself
// never partially commits when run inside one.
func (i *Importer) Import(ctx context.Context, data []byte, format Format, kind Kind, opts ImportOptions) (Summary, error) {
	rows, err := ParseFile(data, format)
	if err != nil {
		return Summary{}, err
	}
	i.progress.PutNowait(5)

	builder := newGraphBuilder(i.locales, opts.Locale)
	for _, row := range rows {
		if err := i.addRow(builder, row, kind); err != nil {
			return Summary{}, err
		}
	}
	graph := builder.graph
	i.progress.PutNowait(10)

	if opts.Purge {
		if err := i.purge(ctx, kind); err != nil {
			return Summary{}, err
		}
	}

	summary, err := i.persist(ctx, graph, kind)
	if err != nil {
		return Summary{}, err
	}
	i.progress.PutNowait(80)

	if err := i.validateRefs(ctx, graph); err != nil {
		return Summary{}, err
	}
	i.progress.PutNowait(100)

	i.log.WithFields(logrus.Fields{
		"kind":        string(kind),
		"pages":       summary.Pages,
		"assessments": summary.Assessments,
		"sets":        summary.Sets,
		"templates":   summary.Templates,
	}).Info("import finished")
	return summary, nil
}

func (i *Importer) addRow(b *graphBuilder, row Row, kind Kind) error {
	switch kind {
	case KindContentPages:
		r, err := ParseContentRow(row)
		if err != nil {
			return err
		}
		return b.addContentRow(r)
	case KindAssessments:
		r, err := ParseAssessmentRow(row)
		if err != nil {
			return err
		}
		return b.addAssessmentRow(r)
	case KindOrderedSets:
		r, err := ParseContentSetRow(row)
		if err != nil {
			return err
		}
		return b.addContentSetRow(r)
	case KindTemplates:
		r, err := ParseTemplateRow(row)
		if err != nil {
			return err
		}
		return b.addTemplateRow(r)
	default:
		return fmt.Errorf("unknown import kind %q", kind)
	}
}

func (i *Importer) purge(ctx context.Context, kind Kind) error {
	switch kind {
	case KindContentPages:
		return i.pages.DeleteAll(ctx)
	case KindAssessments:
		return i.assessments.DeleteAll(ctx)
	case KindOrderedSets:
		return i.sets.DeleteAll(ctx)
	case KindTemplates:
		return i.templates.DeleteAll(ctx)
	}
	return nil
}

func (i *Importer) persist(ctx context.Context, g *shadowGraph, kind Kind) (Summary, error) {
	var summary Summary
	total := len(g.pageOrder) + len(g.assessmentOrder) + len(g.setOrder) + len(g.templateOrder)
	if total == 0 {
		return summary, nil
	}
	done := 0
	tick := func() {
		done++
		i.progress.PutNowait(10 + 70*done/total)
	}

	saved := make(map[pageKey]bool, len(g.pageOrder))
	for _, key := range g.pageOrder {
		if err := i.persistPage(ctx, g, key, saved, nil); err != nil {
			return summary, err
		}
		summary.Pages++
		tick()
	}

	for _, key := range g.assessmentOrder {
		if err := i.persistAssessment(ctx, g.assessments[key]); err != nil {
			return summary, err
		}
		summary.Assessments++
		tick()
	}

	for _, slug := range g.setOrder {
		if err := i.persistSet(ctx, g.sets[slug]); err != nil {
			return summary, err
		}
		summary.Sets++
		tick()
	}

	for _, name := range g.templateOrder {
		if err := i.persistTemplate(ctx, g.templates[name]); err != nil {
			return summary, err
		}
		summary.Templates++
		tick()
	}

	return summary, nil
}

// persistPage saves one page, recursing into its parent first when the parent
// is itself part of the import. visiting guards against parent cycles.
func (i *Importer) persistPage(ctx context.Context, g *shadowGraph, key pageKey, saved map[pageKey]bool, visiting map[pageKey]bool) error {
	if saved[key] {
		return nil
	}
	if visiting[key] {
		return formatError(g.pages[key].Row, "circular parent chain involving page %q", key.Slug)
	}

	p := g.pages[key]
	parentSlug, err := i.resolveParent(ctx, g, p, saved, visiting, key)
	if err != nil {
		return err
	}

	domainPage := buildDomainPage(p, parentSlug)
	if _, err := i.pages.Save(ctx, domainPage); err != nil {
		return fmt.Errorf("saving page %q (%s): %w", p.Slug, p.Locale.Code(), err)
	}
	if _, err := i.pages.Publish(ctx, p.Slug, p.Locale); err != nil {
		return fmt.Errorf("publishing page %q (%s): %w", p.Slug, p.Locale.Code(), err)
	}
	saved[key] = true
	return nil
}

func (i *Importer) resolveParent(ctx context.Context, g *shadowGraph, p *shadowPage, saved, visiting map[pageKey]bool, key pageKey) (string, error) {
	if p.Parent == "" {
		home, err := i.pages.EnsureHomePage(ctx, p.Locale)
		if err != nil {
			return "", fmt.Errorf("ensuring home page for %q: %w", p.Locale.Code(), err)
		}
		return home.Slug(), nil
	}

	parentKey := pageKey{Slug: p.Parent, Locale: key.Locale}
	if _, inFile := g.pages[parentKey]; inFile {
		if visiting == nil {
			visiting = make(map[pageKey]bool)
		}
		visiting[key] = true
		if err := i.persistPage(ctx, g, parentKey, saved, visiting); err != nil {
			return "", err
		}
		delete(visiting, key)
		return p.Parent, nil
	}

	if _, err := i.pages.GetBySlug(ctx, p.Parent, p.Locale); err != nil {
		if errors.Is(err, page.ErrPageNotFound) {
			return "", referenceError(p.Row, "parent page %q does not exist", p.Parent)
		}
		return "", err
	}
	return p.Parent, nil
}

func buildDomainPage(p *shadowPage, parentSlug string) page.ContentPage {
	opts := []page.Option{
		page.WithParentSlug(parentSlug),
		page.WithSubtitle(p.WebSubtitle),
		page.WithTranslationTag(p.TranslationTag),
		page.WithTags(p.Tags),
		page.WithTriggers(p.Triggers),
		page.WithQuickReplies(p.QuickReplies),
		page.WithRelatedPageSlugs(p.RelatedPages),
	}

	if p.WebBody != "" {
		opts = append(opts, page.WithWebBody(strings.Split(p.WebBody, "\n\n")))
	}
	if len(p.WhatsappBlocks) > 0 || p.WhatsappTitle != "" {
		blocks := make([]page.WhatsappBlock, 0, len(p.WhatsappBlocks))
		for _, b := range p.WhatsappBlocks {
			blocks = append(blocks, buildDomainBlock(b))
		}
		opts = append(opts, page.WithWhatsapp(p.WhatsappTitle, blocks))
	}
	if p.WhatsappTemplateName != "" {
		opts = append(opts, page.WithWhatsappTemplate(p.WhatsappTemplateName, p.WhatsappTemplateCategory))
	}
	if len(p.SMSMessages) > 0 || p.SMSTitle != "" {
		opts = append(opts, page.WithSMS(p.SMSTitle, messageBlocks(p.SMSMessages)))
	}
	if len(p.USSDMessages) > 0 || p.USSDTitle != "" {
		opts = append(opts, page.WithUSSD(p.USSDTitle, messageBlocks(p.USSDMessages)))
	}
	if len(p.MessengerBodies) > 0 || p.MessengerTitle != "" {
		opts = append(opts, page.WithMessenger(p.MessengerTitle, messageBlocks(p.MessengerBodies)))
	}
	if len(p.ViberBodies) > 0 || p.ViberTitle != "" {
		opts = append(opts, page.WithViber(p.ViberTitle, messageBlocks(p.ViberBodies)))
	}

	return page.New(p.Slug, p.Locale, p.WebTitle, opts...)
}

func buildDomainBlock(b shadowBlock) page.WhatsappBlock {
	block := page.WhatsappBlock{
		Message:    b.Message,
		ImageLink:  b.ImageLink,
		DocLink:    b.DocLink,
		MediaLink:  b.MediaLink,
		NextPrompt: b.NextPrompt,
	}
	for _, btn := range b.Buttons {
		block.Buttons = append(block.Buttons, page.Button{
			Type:       page.ButtonType(btn.Type),
			Title:      btn.Title,
			TargetSlug: btn.Slug,
		})
	}
	for _, v := range b.Variations {
		variation := page.Variation{Message: v.Message}
		for _, r := range v.Restrictions {
			variation.Restrictions = append(variation.Restrictions, page.Restriction{Type: r[0], Value: r[1]})
		}
		block.Variations = append(block.Variations, variation)
	}
	return block
}

func messageBlocks(messages []string) []page.MessageBlock {
	blocks := make([]page.MessageBlock, 0, len(messages))
	for _, m := range messages {
		blocks = append(blocks, page.MessageBlock{Message: m})
	}
	return blocks
}

func (i *Importer) persistAssessment(ctx context.Context, a *shadowAssessment) error {
	record := assessment.New(a.Slug, a.Locale, a.Title,
		assessment.WithVersion(a.Version),
		assessment.WithTags(a.Tags),
		assessment.WithResultPages(a.HighResultPage, a.MediumResultPage, a.LowResultPage),
		assessment.WithInflections(a.HighInflection, a.MediumInflection),
		assessment.WithSkip(a.SkipThreshold, a.SkipHighResultPage),
		assessment.WithGenericError(a.GenericError),
		assessment.WithQuestions(a.Questions),
	)
	if _, err := i.assessments.Save(ctx, record); err != nil {
		return fmt.Errorf("saving assessment %q (%s): %w", a.Slug, a.Locale.Code(), err)
	}
	if _, err := i.assessments.Publish(ctx, a.Slug, a.Locale); err != nil {
		return fmt.Errorf("publishing assessment %q (%s): %w", a.Slug, a.Locale.Code(), err)
	}
	return nil
}

func (i *Importer) persistSet(ctx context.Context, s *shadowContentSet) error {
	fields := make([]contentset.ProfileField, 0, len(s.ProfileFields))
	for _, f := range s.ProfileFields {
		fields = append(fields, contentset.ProfileField{Name: f[0], Value: f[1]})
	}
	record := contentset.New(s.Slug, s.Name, s.Locale,
		contentset.WithProfileFields(fields),
		contentset.WithEntries(s.Entries),
	)
	if _, err := i.sets.Save(ctx, record); err != nil {
		return fmt.Errorf("saving ordered content set %q: %w", s.Slug, err)
	}
	if _, err := i.sets.Publish(ctx, s.Slug); err != nil {
		return fmt.Errorf("publishing ordered content set %q: %w", s.Slug, err)
	}
	return nil
}

func (i *Importer) persistTemplate(ctx context.Context, t *shadowTemplate) error {
	record := watemplate.New(t.Name, t.Category, t.Locale, t.Body,
		watemplate.WithExampleValues(t.ExampleValues),
	)
	if _, err := i.templates.Save(ctx, record); err != nil {
		return fmt.Errorf("saving template %q: %w", t.Name, err)
	}
	if _, err := i.templates.Publish(ctx, t.Name); err != nil {
		return fmt.Errorf("publishing template %q: %w", t.Name, err)
	}
	return nil
}

// validateRefs resolves every slug reference recorded while staging. A target
// counts if it was part of this import or already exists in the repository.
// Page and form targets resolve against different stores.
func (i *Importer) validateRefs(ctx context.Context, g *shadowGraph) error {
	for _, ref := range g.refs {
		if _, inFile := g.pages[pageKey{Slug: ref.Slug, Locale: ref.Locale.Code()}]; inFile {
			continue
		}
		if _, err := i.pages.GetBySlug(ctx, ref.Slug, ref.Locale); err != nil {
			if errors.Is(err, page.ErrPageNotFound) {
				return referenceError(ref.Row, "%s: no content page with slug %q and locale %q exists",
					ref.Field, ref.Slug, ref.Locale.Code())
			}
			return err
		}
	}
	for _, ref := range g.formRefs {
		if _, inFile := g.assessments[pageKey{Slug: ref.Slug, Locale: ref.Locale.Code()}]; inFile {
			continue
		}
		if _, err := i.assessments.GetBySlug(ctx, ref.Slug, ref.Locale); err != nil {
			if errors.Is(err, assessment.ErrAssessmentNotFound) {
				return referenceError(ref.Row, "%s: no assessment with slug %q and locale %q exists",
					ref.Field, ref.Slug, ref.Locale.Code())
			}
			return err
		}
	}
	return nil
}
