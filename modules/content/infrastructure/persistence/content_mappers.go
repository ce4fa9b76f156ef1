package persistence

import (
	"encoding/json"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/praekeltfoundation/contentrepo-go/modules/content/domain/entities/assessment"
	"github.com/praekeltfoundation/contentrepo-go/modules/content/domain/entities/contentset"
	"github.com/praekeltfoundation/contentrepo-go/modules/content/domain/entities/page"
	"github.com/praekeltfoundation/contentrepo-go/modules/content/domain/entities/watemplate"
	"github.com/praekeltfoundation/contentrepo-go/modules/content/domain/value_objects/locale"
	"github.com/praekeltfoundation/contentrepo-go/modules/content/infrastructure/persistence/models"
)

func marshalJSON(field string, v any) ([]byte, error) {
	out, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, fmt.Sprintf("failed to marshal %s", field))
	}
	return out, nil
}

func unmarshalJSON[T any](field string, data []byte) (T, error) {
	var v T
	if len(data) == 0 {
		return v, nil
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return v, errors.Wrap(err, fmt.Sprintf("failed to unmarshal %s", field))
	}
	return v, nil
}

// ToDBContentPage maps a domain page to a database model.
func ToDBContentPage(p page.ContentPage) (models.ContentPage, error) {
	m := models.ContentPage{
		ID:             p.ID().String(),
		Slug:           p.Slug(),
		Locale:         p.Locale().Code(),
		Title:          p.Title(),
		Subtitle:       p.Subtitle(),
		ParentSlug:     p.ParentSlug(),
		TranslationTag: p.TranslationTag(),

		WhatsappTitle:            p.WhatsappTitle(),
		WhatsappTemplateName:     p.WhatsappTemplateName(),
		WhatsappTemplateCategory: p.WhatsappTemplateCategory(),
		SMSTitle:                 p.SMSTitle(),
		USSDTitle:                p.USSDTitle(),
		MessengerTitle:           p.MessengerTitle(),
		ViberTitle:               p.ViberTitle(),

		IsHome:   p.IsHome(),
		Live:     p.Live(),
		Revision: p.Revision(),
	}

	var err error
	if m.Tags, err = marshalJSON("tags", p.Tags()); err != nil {
		return m, err
	}
	if m.Triggers, err = marshalJSON("triggers", p.Triggers()); err != nil {
		return m, err
	}
	if m.QuickReplies, err = marshalJSON("quick_replies", p.QuickReplies()); err != nil {
		return m, err
	}
	if m.RelatedPages, err = marshalJSON("related_pages", p.RelatedPageSlugs()); err != nil {
		return m, err
	}
	if m.WebBody, err = marshalJSON("web_body", p.WebBody()); err != nil {
		return m, err
	}
	if m.WhatsappBlocks, err = marshalJSON("whatsapp_blocks", toDBWhatsappBlocks(p.WhatsappBlocks())); err != nil {
		return m, err
	}
	if m.SMSBlocks, err = marshalJSON("sms_blocks", toDBMessages(p.SMSBlocks())); err != nil {
		return m, err
	}
	if m.USSDBlocks, err = marshalJSON("ussd_blocks", toDBMessages(p.USSDBlocks())); err != nil {
		return m, err
	}
	if m.MessengerBlocks, err = marshalJSON("messenger_blocks", toDBMessages(p.MessengerBlocks())); err != nil {
		return m, err
	}
	if m.ViberBlocks, err = marshalJSON("viber_blocks", toDBMessages(p.ViberBlocks())); err != nil {
		return m, err
	}
	return m, nil
}

func toDBWhatsappBlocks(blocks []page.WhatsappBlock) []models.WhatsappBlock {
	out := make([]models.WhatsappBlock, 0, len(blocks))
	for _, b := range blocks {
		block := models.WhatsappBlock{
			Message:    b.Message,
			ImageLink:  b.ImageLink,
			DocLink:    b.DocLink,
			MediaLink:  b.MediaLink,
			NextPrompt: b.NextPrompt,
		}
		for _, btn := range b.Buttons {
			block.Buttons = append(block.Buttons, models.Button{
				Type:       string(btn.Type),
				Title:      btn.Title,
				TargetSlug: btn.TargetSlug,
			})
		}
		for _, v := range b.Variations {
			variation := models.Variation{Message: v.Message}
			for _, r := range v.Restrictions {
				variation.Restrictions = append(variation.Restrictions, models.Restriction{
					Type:  r.Type,
					Value: r.Value,
				})
			}
			block.Variations = append(block.Variations, variation)
		}
		out = append(out, block)
	}
	return out
}

func toDBMessages(blocks []page.MessageBlock) []string {
	out := make([]string, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, b.Message)
	}
	return out
}

// ToDomainContentPage maps a database model to a domain page.
func ToDomainContentPage(m models.ContentPage) (page.ContentPage, error) {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return nil, errors.Wrap(err, fmt.Sprintf("failed to parse page UUID from string: %s", m.ID))
	}
	loc, err := locale.New(m.Locale)
	if err != nil {
		return nil, errors.Wrap(err, fmt.Sprintf("failed to parse page locale: %s", m.Locale))
	}

	tags, err := unmarshalJSON[[]string]("tags", m.Tags)
	if err != nil {
		return nil, err
	}
	triggers, err := unmarshalJSON[[]string]("triggers", m.Triggers)
	if err != nil {
		return nil, err
	}
	quickReplies, err := unmarshalJSON[[]string]("quick_replies", m.QuickReplies)
	if err != nil {
		return nil, err
	}
	relatedPages, err := unmarshalJSON[[]string]("related_pages", m.RelatedPages)
	if err != nil {
		return nil, err
	}
	webBody, err := unmarshalJSON[[]string]("web_body", m.WebBody)
	if err != nil {
		return nil, err
	}
	waBlocks, err := unmarshalJSON[[]models.WhatsappBlock]("whatsapp_blocks", m.WhatsappBlocks)
	if err != nil {
		return nil, err
	}
	smsBlocks, err := unmarshalJSON[[]string]("sms_blocks", m.SMSBlocks)
	if err != nil {
		return nil, err
	}
	ussdBlocks, err := unmarshalJSON[[]string]("ussd_blocks", m.USSDBlocks)
	if err != nil {
		return nil, err
	}
	messengerBlocks, err := unmarshalJSON[[]string]("messenger_blocks", m.MessengerBlocks)
	if err != nil {
		return nil, err
	}
	viberBlocks, err := unmarshalJSON[[]string]("viber_blocks", m.ViberBlocks)
	if err != nil {
		return nil, err
	}

	return page.New(m.Slug, loc, m.Title,
		page.WithID(id),
		page.WithSubtitle(m.Subtitle),
		page.WithParentSlug(m.ParentSlug),
		page.WithTranslationTag(m.TranslationTag),
		page.WithTags(tags),
		page.WithTriggers(triggers),
		page.WithQuickReplies(quickReplies),
		page.WithRelatedPageSlugs(relatedPages),
		page.WithWebBody(webBody),
		page.WithWhatsapp(m.WhatsappTitle, toDomainWhatsappBlocks(waBlocks)),
		page.WithWhatsappTemplate(m.WhatsappTemplateName, m.WhatsappTemplateCategory),
		page.WithSMS(m.SMSTitle, toDomainMessages(smsBlocks)),
		page.WithUSSD(m.USSDTitle, toDomainMessages(ussdBlocks)),
		page.WithMessenger(m.MessengerTitle, toDomainMessages(messengerBlocks)),
		page.WithViber(m.ViberTitle, toDomainMessages(viberBlocks)),
		page.WithHome(m.IsHome),
		page.WithLive(m.Live),
		page.WithRevision(m.Revision),
	), nil
}

func toDomainWhatsappBlocks(blocks []models.WhatsappBlock) []page.WhatsappBlock {
	out := make([]page.WhatsappBlock, 0, len(blocks))
	for _, b := range blocks {
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
				TargetSlug: btn.TargetSlug,
			})
		}
		for _, v := range b.Variations {
			variation := page.Variation{Message: v.Message}
			for _, r := range v.Restrictions {
				variation.Restrictions = append(variation.Restrictions, page.Restriction{
					Type:  r.Type,
					Value: r.Value,
				})
			}
			block.Variations = append(block.Variations, variation)
		}
		out = append(out, block)
	}
	return out
}

func toDomainMessages(messages []string) []page.MessageBlock {
	out := make([]page.MessageBlock, 0, len(messages))
	for _, m := range messages {
		out = append(out, page.MessageBlock{Message: m})
	}
	return out
}

// ToDBAssessment maps a domain assessment to a database model.
func ToDBAssessment(a assessment.Assessment) (models.Assessment, error) {
	m := models.Assessment{
		ID:     a.ID().String(),
		Slug:   a.Slug(),
		Locale: a.Locale().Code(),
		Title:  a.Title(),

		Version: a.Version(),

		HighResultPage:     a.HighResultPageSlug(),
		HighInflection:     a.HighInflection(),
		MediumResultPage:   a.MediumResultPageSlug(),
		MediumInflection:   a.MediumInflection(),
		LowResultPage:      a.LowResultPageSlug(),
		SkipThreshold:      a.SkipThreshold(),
		SkipHighResultPage: a.SkipHighResultPageSlug(),
		GenericError:       a.GenericError(),

		Live:     a.Live(),
		Revision: a.Revision(),
	}

	var err error
	if m.Tags, err = marshalJSON("tags", a.Tags()); err != nil {
		return m, err
	}

	questions := make([]models.Question, 0, len(a.Questions()))
	for _, q := range a.Questions() {
		question := models.Question{
			QuestionType: string(q.QuestionType),
			Question:     q.Question,
			Explainer:    q.Explainer,
			Error:        q.Error,
			SemanticID:   q.SemanticID,
			Min:          q.Min,
			Max:          q.Max,
		}
		for _, ans := range q.Answers {
			question.Answers = append(question.Answers, models.Answer{
				Answer:     ans.Answer,
				Score:      ans.Score,
				SemanticID: ans.SemanticID,
				Response:   ans.Response,
			})
		}
		questions = append(questions, question)
	}
	if m.Questions, err = marshalJSON("questions", questions); err != nil {
		return m, err
	}
	return m, nil
}

// ToDomainAssessment maps a database model to a domain assessment.
func ToDomainAssessment(m models.Assessment) (assessment.Assessment, error) {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return nil, errors.Wrap(err, fmt.Sprintf("failed to parse assessment UUID from string: %s", m.ID))
	}
	loc, err := locale.New(m.Locale)
	if err != nil {
		return nil, errors.Wrap(err, fmt.Sprintf("failed to parse assessment locale: %s", m.Locale))
	}
	tags, err := unmarshalJSON[[]string]("tags", m.Tags)
	if err != nil {
		return nil, err
	}
	dbQuestions, err := unmarshalJSON[[]models.Question]("questions", m.Questions)
	if err != nil {
		return nil, err
	}

	questions := make([]assessment.Question, 0, len(dbQuestions))
	for _, q := range dbQuestions {
		question := assessment.Question{
			QuestionType: assessment.QuestionType(q.QuestionType),
			Question:     q.Question,
			Explainer:    q.Explainer,
			Error:        q.Error,
			SemanticID:   q.SemanticID,
			Min:          q.Min,
			Max:          q.Max,
		}
		for _, ans := range q.Answers {
			question.Answers = append(question.Answers, assessment.Answer{
				Answer:     ans.Answer,
				Score:      ans.Score,
				SemanticID: ans.SemanticID,
				Response:   ans.Response,
			})
		}
		questions = append(questions, question)
	}

	return assessment.New(m.Slug, loc, m.Title,
		assessment.WithID(id),
		assessment.WithVersion(m.Version),
		assessment.WithTags(tags),
		assessment.WithResultPages(m.HighResultPage, m.MediumResultPage, m.LowResultPage),
		assessment.WithInflections(m.HighInflection, m.MediumInflection),
		assessment.WithSkip(m.SkipThreshold, m.SkipHighResultPage),
		assessment.WithGenericError(m.GenericError),
		assessment.WithQuestions(questions),
		assessment.WithLive(m.Live),
		assessment.WithRevision(m.Revision),
	), nil
}

// ToDBContentSet maps a domain ordered content set to a database model.
func ToDBContentSet(s contentset.OrderedContentSet) (models.OrderedContentSet, error) {
	m := models.OrderedContentSet{
		ID:       s.ID().String(),
		Slug:     s.Slug(),
		Name:     s.Name(),
		Locale:   s.Locale().Code(),
		Live:     s.Live(),
		Revision: s.Revision(),
	}

	fields := make([]models.ProfileField, 0, len(s.ProfileFields()))
	for _, f := range s.ProfileFields() {
		fields = append(fields, models.ProfileField{Name: f.Name, Value: f.Value})
	}
	entries := make([]models.SetEntry, 0, len(s.Entries()))
	for _, e := range s.Entries() {
		entries = append(entries, models.SetEntry{
			PageSlug:      e.PageSlug,
			Time:          e.Time,
			Unit:          e.Unit,
			BeforeOrAfter: e.BeforeOrAfter,
			ContactField:  e.ContactField,
		})
	}

	var err error
	if m.ProfileFields, err = marshalJSON("profile_fields", fields); err != nil {
		return m, err
	}
	if m.Entries, err = marshalJSON("entries", entries); err != nil {
		return m, err
	}
	return m, nil
}

// ToDomainContentSet maps a database model to a domain ordered content set.
func ToDomainContentSet(m models.OrderedContentSet) (contentset.OrderedContentSet, error) {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return nil, errors.Wrap(err, fmt.Sprintf("failed to parse content set UUID from string: %s", m.ID))
	}
	loc, err := locale.New(m.Locale)
	if err != nil {
		return nil, errors.Wrap(err, fmt.Sprintf("failed to parse content set locale: %s", m.Locale))
	}
	dbFields, err := unmarshalJSON[[]models.ProfileField]("profile_fields", m.ProfileFields)
	if err != nil {
		return nil, err
	}
	dbEntries, err := unmarshalJSON[[]models.SetEntry]("entries", m.Entries)
	if err != nil {
		return nil, err
	}

	fields := make([]contentset.ProfileField, 0, len(dbFields))
	for _, f := range dbFields {
		fields = append(fields, contentset.ProfileField{Name: f.Name, Value: f.Value})
	}
	entries := make([]contentset.Entry, 0, len(dbEntries))
	for _, e := range dbEntries {
		entries = append(entries, contentset.Entry{
			PageSlug:      e.PageSlug,
			Time:          e.Time,
			Unit:          e.Unit,
			BeforeOrAfter: e.BeforeOrAfter,
			ContactField:  e.ContactField,
		})
	}

	return contentset.New(m.Slug, m.Name, loc,
		contentset.WithID(id),
		contentset.WithProfileFields(fields),
		contentset.WithEntries(entries),
		contentset.WithLive(m.Live),
		contentset.WithRevision(m.Revision),
	), nil
}

// ToDBTemplate maps a domain WhatsApp template to a database model.
func ToDBTemplate(t watemplate.WhatsAppTemplate) (models.WhatsAppTemplate, error) {
	m := models.WhatsAppTemplate{
		ID:               t.ID().String(),
		Name:             t.Name(),
		Category:         string(t.Category()),
		Locale:           t.Locale().Code(),
		Body:             t.Body(),
		ImageLink:        t.ImageLink(),
		SubmissionStatus: string(t.SubmissionStatus()),
		Live:             t.Live(),
		Revision:         t.Revision(),
	}
	var err error
	if m.ExampleValues, err = marshalJSON("example_values", t.ExampleValues()); err != nil {
		return m, err
	}
	return m, nil
}

// ToDomainTemplate maps a database model to a domain WhatsApp template.
func ToDomainTemplate(m models.WhatsAppTemplate) (watemplate.WhatsAppTemplate, error) {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return nil, errors.Wrap(err, fmt.Sprintf("failed to parse template UUID from string: %s", m.ID))
	}
	loc, err := locale.New(m.Locale)
	if err != nil {
		return nil, errors.Wrap(err, fmt.Sprintf("failed to parse template locale: %s", m.Locale))
	}
	values, err := unmarshalJSON[[]string]("example_values", m.ExampleValues)
	if err != nil {
		return nil, err
	}

	return watemplate.New(m.Name, watemplate.Category(m.Category), loc, m.Body,
		watemplate.WithID(id),
		watemplate.WithExampleValues(values),
		watemplate.WithImageLink(m.ImageLink),
		watemplate.WithSubmissionStatus(watemplate.SubmissionStatus(m.SubmissionStatus)),
		watemplate.WithLive(m.Live),
		watemplate.WithRevision(m.Revision),
	), nil
}
