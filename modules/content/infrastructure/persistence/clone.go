package persistence

import (
	"github.com/praekeltfoundation/contentrepo-go/modules/content/domain/entities/assessment"
	"github.com/praekeltfoundation/contentrepo-go/modules/content/domain/entities/contentset"
	"github.com/praekeltfoundation/contentrepo-go/modules/content/domain/entities/page"
	"github.com/praekeltfoundation/contentrepo-go/modules/content/domain/entities/watemplate"
)

// pageOptions flattens a page back into constructor options, so a repository
// can rebuild it with selected fields overridden.
func pageOptions(p page.ContentPage) []page.Option {
	return []page.Option{
		page.WithID(p.ID()),
		page.WithSubtitle(p.Subtitle()),
		page.WithParentSlug(p.ParentSlug()),
		page.WithTranslationTag(p.TranslationTag()),
		page.WithTags(p.Tags()),
		page.WithTriggers(p.Triggers()),
		page.WithQuickReplies(p.QuickReplies()),
		page.WithRelatedPageSlugs(p.RelatedPageSlugs()),
		page.WithWebBody(p.WebBody()),
		page.WithWhatsapp(p.WhatsappTitle(), p.WhatsappBlocks()),
		page.WithWhatsappTemplate(p.WhatsappTemplateName(), p.WhatsappTemplateCategory()),
		page.WithSMS(p.SMSTitle(), p.SMSBlocks()),
		page.WithUSSD(p.USSDTitle(), p.USSDBlocks()),
		page.WithMessenger(p.MessengerTitle(), p.MessengerBlocks()),
		page.WithViber(p.ViberTitle(), p.ViberBlocks()),
		page.WithHome(p.IsHome()),
		page.WithLive(p.Live()),
		page.WithRevision(p.Revision()),
	}
}

func rebuildPage(p page.ContentPage, extra ...page.Option) page.ContentPage {
	return page.New(p.Slug(), p.Locale(), p.Title(), append(pageOptions(p), extra...)...)
}

func assessmentOptions(a assessment.Assessment) []assessment.Option {
	return []assessment.Option{
		assessment.WithID(a.ID()),
		assessment.WithVersion(a.Version()),
		assessment.WithTags(a.Tags()),
		assessment.WithResultPages(a.HighResultPageSlug(), a.MediumResultPageSlug(), a.LowResultPageSlug()),
		assessment.WithInflections(a.HighInflection(), a.MediumInflection()),
		assessment.WithSkip(a.SkipThreshold(), a.SkipHighResultPageSlug()),
		assessment.WithGenericError(a.GenericError()),
		assessment.WithQuestions(a.Questions()),
		assessment.WithLive(a.Live()),
		assessment.WithRevision(a.Revision()),
	}
}

func rebuildAssessment(a assessment.Assessment, extra ...assessment.Option) assessment.Assessment {
	return assessment.New(a.Slug(), a.Locale(), a.Title(), append(assessmentOptions(a), extra...)...)
}

func contentSetOptions(s contentset.OrderedContentSet) []contentset.Option {
	return []contentset.Option{
		contentset.WithID(s.ID()),
		contentset.WithProfileFields(s.ProfileFields()),
		contentset.WithEntries(s.Entries()),
		contentset.WithLive(s.Live()),
		contentset.WithRevision(s.Revision()),
	}
}

func rebuildContentSet(s contentset.OrderedContentSet, extra ...contentset.Option) contentset.OrderedContentSet {
	return contentset.New(s.Slug(), s.Name(), s.Locale(), append(contentSetOptions(s), extra...)...)
}

func templateOptions(t watemplate.WhatsAppTemplate) []watemplate.Option {
	return []watemplate.Option{
		watemplate.WithID(t.ID()),
		watemplate.WithExampleValues(t.ExampleValues()),
		watemplate.WithImageLink(t.ImageLink()),
		watemplate.WithSubmissionStatus(t.SubmissionStatus()),
		watemplate.WithLive(t.Live()),
		watemplate.WithRevision(t.Revision()),
	}
}

func rebuildTemplate(t watemplate.WhatsAppTemplate, extra ...watemplate.Option) watemplate.WhatsAppTemplate {
	return watemplate.New(t.Name(), t.Category(), t.Locale(), t.Body(), append(templateOptions(t), extra...)...)
}
