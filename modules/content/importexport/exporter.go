package importexport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/praekeltfoundation/contentrepo-go/modules/content/domain/entities/assessment"
	"github.com/praekeltfoundation/contentrepo-go/modules/content/domain/entities/contentset"
	"github.com/praekeltfoundation/contentrepo-go/modules/content/domain/entities/page"
	"github.com/praekeltfoundation/contentrepo-go/modules/content/domain/entities/watemplate"
	"github.com/praekeltfoundation/contentrepo-go/modules/content/domain/value_objects/locale"
)

// ExportRow is one output row keyed by header name. Absent keys export as
// empty cells.
type ExportRow map[string]string

type Exporter struct {
	pages       page.Repository
	assessments assessment.Repository
	sets        contentset.Repository
	templates   watemplate.Repository
	locales     *locale.Registry

	log logrus.FieldLogger
}

type ExporterOption func(*Exporter)

func WithExportLogger(log logrus.FieldLogger) ExporterOption {
	return func(e *Exporter) { e.log = log }
}

func NewExporter(
	pages page.Repository,
	assessments assessment.Repository,
	sets contentset.Repository,
	templates watemplate.Repository,
	locales *locale.Registry,
	opts ...ExporterOption,
) *Exporter {
	e := &Exporter{
		pages:       pages,
		assessments: assessments,
		sets:        sets,
		templates:   templates,
		locales:     locales,
		log:         logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExportOptions narrow one export run. A zero Locale exports all configured
// locales, LiveOnly skips drafts.
type ExportOptions struct {
	Locale   locale.Locale
	LiveOnly bool
}

// Export renders every record of the kind to the requested format.
func (e *Exporter) Export(ctx context.Context, kind Kind, format Format, opts ExportOptions) ([]byte, error) {
	var (
		headers []string
		rows    []ExportRow
		err     error
	)
	switch kind {
	case KindContentPages:
		headers, rows, err = e.exportPages(ctx, opts)
	case KindAssessments:
		headers, rows, err = e.exportAssessments(ctx, opts)
	case KindOrderedSets:
		headers, rows, err = e.exportSets(ctx, opts)
	case KindTemplates:
		headers, rows, err = e.exportTemplates(ctx, opts)
	default:
		return nil, fmt.Errorf("unknown export kind %q", kind)
	}
	if err != nil {
		return nil, err
	}

	e.log.WithFields(logrus.Fields{"kind": string(kind), "rows": len(rows)}).Info("export finished")

	switch format {
	case FormatCSV:
		return WriteCSV(headers, rows)
	case FormatXLSX:
		return WriteXLSX(headers, rows)
	default:
		return nil, fmt.Errorf("unknown export format %q", format)
	}
}

func (e *Exporter) exportLocales(loc locale.Locale) []locale.Locale {
	if !loc.IsZero() {
		return []locale.Locale{loc}
	}
	return e.locales.All()
}

func (e *Exporter) exportPages(ctx context.Context, opts ExportOptions) ([]string, []ExportRow, error) {
	var rows []ExportRow
	for _, l := range e.exportLocales(opts.Locale) {
		localeRows, err := e.exportLocalePages(ctx, l, opts.LiveOnly)
		if err != nil {
			return nil, nil, err
		}
		rows = append(rows, localeRows...)
	}
	return contentPageHeaders, rows, nil
}

// exportLocalePages walks the page tree of one locale depth first, so parents
// always precede their children in the output.
func (e *Exporter) exportLocalePages(ctx context.Context, loc locale.Locale, liveOnly bool) ([]ExportRow, error) {
	home, err := e.pages.GetHomePage(ctx, loc)
	if err != nil {
		if errors.Is(err, page.ErrHomePageNotFound) {
			return nil, nil
		}
		return nil, err
	}

	pages, err := e.pages.List(ctx, page.FindParams{Locale: loc, LiveOnly: liveOnly})
	if err != nil {
		return nil, err
	}

	children := make(map[string][]page.ContentPage)
	for _, p := range pages {
		if p.IsHome() {
			continue
		}
		children[p.ParentSlug()] = append(children[p.ParentSlug()], p)
	}

	var rows []ExportRow
	var walk func(parentSlug string, path []int)
	walk = func(parentSlug string, path []int) {
		for idx, p := range children[parentSlug] {
			childPath := append(append([]int(nil), path...), idx+1)
			rows = append(rows, pageRows(p, structureLabel(childPath), home.Slug())...)
			walk(p.Slug(), childPath)
		}
	}
	walk(home.Slug(), nil)
	return rows, nil
}

// structureLabel renders a tree path as "Menu 1" for top level entries and
// "Sub 1.2.3" below that.
func structureLabel(path []int) string {
	parts := make([]string, len(path))
	for i, n := range path {
		parts[i] = strconv.Itoa(n)
	}
	if len(path) == 1 {
		return "Menu " + parts[0]
	}
	return "Sub " + strings.Join(parts, ".")
}

// pageRows renders one page: one row per message position across channels,
// with variation rows directly after the WhatsApp message they belong to.
// Identity columns repeat on every row, the remaining page level columns
// appear on the first row only.
func pageRows(p page.ContentPage, structure, homeSlug string) []ExportRow {
	wa := p.WhatsappBlocks()
	sms := p.SMSBlocks()
	ussd := p.USSDBlocks()
	messenger := p.MessengerBlocks()
	viber := p.ViberBlocks()

	n := len(wa)
	for _, c := range [][]page.MessageBlock{sms, ussd, messenger, viber} {
		if len(c) > n {
			n = len(c)
		}
	}

	// A page hanging directly under the home page exports an empty parent,
	// which is exactly what import maps back to the home page.
	parent := p.ParentSlug()
	if parent == homeSlug {
		parent = ""
	}

	identity := func() ExportRow {
		return ExportRow{
			"structure": structure,
			"slug":      p.Slug(),
			"parent":    parent,
			"locale":    p.Locale().Code(),
		}
	}

	first := identity()
	first["page_id"] = p.ID().String()
	first["web_title"] = p.Title()
	first["web_subtitle"] = p.Subtitle()
	first["web_body"] = strings.Join(p.WebBody(), "\n\n")
	first["whatsapp_title"] = p.WhatsappTitle()
	first["whatsapp_template_name"] = p.WhatsappTemplateName()
	first["whatsapp_template_category"] = p.WhatsappTemplateCategory()
	first["sms_title"] = p.SMSTitle()
	first["ussd_title"] = p.USSDTitle()
	first["messenger_title"] = p.MessengerTitle()
	first["viber_title"] = p.ViberTitle()
	first["translation_tag"] = p.TranslationTag()
	first["tags"] = serializeList(p.Tags())
	first["quick_replies"] = serializeList(p.QuickReplies())
	first["triggers"] = serializeList(p.Triggers())
	first["related_pages"] = serializeList(p.RelatedPageSlugs())

	if n == 0 {
		return []ExportRow{first}
	}

	var rows []ExportRow
	for m := 0; m < n; m++ {
		row := first
		if m > 0 {
			row = identity()
		}
		row["message"] = strconv.Itoa(m + 1)

		if m < len(wa) {
			block := wa[m]
			row["whatsapp_body"] = block.Message
			row["image_link"] = block.ImageLink
			row["doc_link"] = block.DocLink
			row["media_link"] = block.MediaLink
			row["next_prompt"] = block.NextPrompt
			if len(block.Buttons) > 0 {
				row["buttons"] = serializeButtons(block.Buttons)
			}
		}
		if m < len(sms) {
			row["sms_body"] = sms[m].Message
		}
		if m < len(ussd) {
			row["ussd_body"] = ussd[m].Message
		}
		if m < len(messenger) {
			row["messenger_body"] = messenger[m].Message
		}
		if m < len(viber) {
			row["viber_body"] = viber[m].Message
		}
		rows = append(rows, row)

		if m < len(wa) {
			for _, v := range wa[m].Variations {
				vr := identity()
				vr["message"] = strconv.Itoa(m + 1)
				vr["variation_title"] = serializeRestrictions(v.Restrictions)
				vr["variation_body"] = v.Message
				rows = append(rows, vr)
			}
		}
	}
	return rows
}

func serializeButtons(buttons []page.Button) string {
	specs := make([]ButtonSpec, 0, len(buttons))
	for _, b := range buttons {
		specs = append(specs, ButtonSpec{Type: string(b.Type), Title: b.Title, Slug: b.TargetSlug})
	}
	out, err := json.Marshal(specs)
	if err != nil {
		return ""
	}
	return string(out)
}

func serializeRestrictions(restrictions []page.Restriction) string {
	pairs := make([][2]string, 0, len(restrictions))
	for _, r := range restrictions {
		pairs = append(pairs, [2]string{r.Type, r.Value})
	}
	return serializePairs(pairs)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatOptionalFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return formatFloat(*f)
}

func formatOptionalInt(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}

func (e *Exporter) exportAssessments(ctx context.Context, opts ExportOptions) ([]string, []ExportRow, error) {
	records, err := e.assessments.List(ctx, assessment.FindParams{Locale: opts.Locale, LiveOnly: opts.LiveOnly})
	if err != nil {
		return nil, nil, err
	}

	var rows []ExportRow
	for _, a := range records {
		base := ExportRow{
			"title":                 a.Title(),
			"slug":                  a.Slug(),
			"version":               a.Version(),
			"locale":                a.Locale().Code(),
			"tags":                  serializeList(a.Tags()),
			"high_result_page":      a.HighResultPageSlug(),
			"high_inflection":       formatOptionalFloat(a.HighInflection()),
			"medium_result_page":    a.MediumResultPageSlug(),
			"medium_inflection":     formatOptionalFloat(a.MediumInflection()),
			"low_result_page":       a.LowResultPageSlug(),
			"skip_threshold":        formatFloat(a.SkipThreshold()),
			"skip_high_result_page": a.SkipHighResultPageSlug(),
			"generic_error":         a.GenericError(),
		}

		questions := a.Questions()
		if len(questions) == 0 {
			rows = append(rows, base)
			continue
		}
		for _, q := range questions {
			row := make(ExportRow, len(base)+10)
			for k, v := range base {
				row[k] = v
			}
			row["question_type"] = string(q.QuestionType)
			row["question"] = q.Question
			row["explainer"] = q.Explainer
			row["error"] = q.Error
			row["question_semantic_id"] = q.SemanticID
			row["min"] = formatOptionalInt(q.Min)
			row["max"] = formatOptionalInt(q.Max)

			answers := make([]string, 0, len(q.Answers))
			scores := make([]string, 0, len(q.Answers))
			semanticIDs := make([]string, 0, len(q.Answers))
			responses := make([]string, 0, len(q.Answers))
			anySemanticID, anyResponse := false, false
			for _, ans := range q.Answers {
				answers = append(answers, ans.Answer)
				scores = append(scores, formatFloat(ans.Score))
				semanticIDs = append(semanticIDs, ans.SemanticID)
				responses = append(responses, ans.Response)
				anySemanticID = anySemanticID || ans.SemanticID != ""
				anyResponse = anyResponse || ans.Response != ""
			}
			row["answers"] = serializeList(answers)
			if len(q.Answers) > 0 {
				row["scores"] = serializeList(scores)
			}
			// all-empty columns are omitted so single-answer questions
			// round-trip cleanly
			if anySemanticID {
				row["answer_semantic_ids"] = serializeList(semanticIDs)
			}
			if anyResponse {
				row["answer_responses"] = serializeList(responses)
			}
			rows = append(rows, row)
		}
	}
	return assessmentHeaders, rows, nil
}

func (e *Exporter) exportSets(ctx context.Context, opts ExportOptions) ([]string, []ExportRow, error) {
	records, err := e.sets.List(ctx, contentset.FindParams{Locale: opts.Locale, LiveOnly: opts.LiveOnly})
	if err != nil {
		return nil, nil, err
	}

	var rows []ExportRow
	for _, s := range records {
		pairs := make([][2]string, 0, len(s.ProfileFields()))
		for _, f := range s.ProfileFields() {
			pairs = append(pairs, [2]string{f.Name, f.Value})
		}
		base := ExportRow{
			"name":           s.Name(),
			"slug":           s.Slug(),
			"locale":         s.Locale().Code(),
			"profile_fields": serializePairs(pairs),
		}

		entries := s.Entries()
		if len(entries) == 0 {
			rows = append(rows, base)
			continue
		}
		for _, entry := range entries {
			row := make(ExportRow, len(base)+5)
			for k, v := range base {
				row[k] = v
			}
			row["page_slug"] = entry.PageSlug
			row["time"] = entry.Time
			row["unit"] = entry.Unit
			row["before_or_after"] = entry.BeforeOrAfter
			row["contact_field"] = entry.ContactField
			rows = append(rows, row)
		}
	}
	return contentSetHeaders, rows, nil
}

func (e *Exporter) exportTemplates(ctx context.Context, opts ExportOptions) ([]string, []ExportRow, error) {
	records, err := e.templates.List(ctx, watemplate.FindParams{Locale: opts.Locale, LiveOnly: opts.LiveOnly})
	if err != nil {
		return nil, nil, err
	}

	var rows []ExportRow
	for _, t := range records {
		rows = append(rows, ExportRow{
			"name":              t.Name(),
			"category":          string(t.Category()),
			"locale":            t.Locale().Code(),
			"body":              t.Body(),
			"example_values":    serializeList(t.ExampleValues()),
			"image_link":        t.ImageLink(),
			"submission_status": string(t.SubmissionStatus()),
		})
	}
	return templateHeaders, rows, nil
}
