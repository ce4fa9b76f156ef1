package importexport

import (
	"encoding/json"
	"strings"
)

// Content page header set. Export emits exactly these columns in this order
// and import understands the same shape, which is what makes the round-trip
// property testable.
var contentPageHeaders = []string{
	"structure",
	"message",
	"page_id",
	"slug",
	"parent",
	"web_title",
	"web_subtitle",
	"web_body",
	"whatsapp_title",
	"whatsapp_body",
	"whatsapp_template_name",
	"whatsapp_template_category",
	"variation_title",
	"variation_body",
	"sms_title",
	"sms_body",
	"ussd_title",
	"ussd_body",
	"messenger_title",
	"messenger_body",
	"viber_title",
	"viber_body",
	"translation_tag",
	"tags",
	"quick_replies",
	"triggers",
	"locale",
	"next_prompt",
	"buttons",
	"image_link",
	"doc_link",
	"media_link",
	"related_pages",
}

var contentPageMandatoryHeaders = []string{"slug", "web_title", "locale"}

type RowKind int

const (
	// RowKindPageIndex is a row with a title and no body on any channel: a
	// pure container page.
	RowKindPageIndex RowKind = iota
	// RowKindNewPage starts a new content page.
	RowKindNewPage
	// RowKindContinuation adds one more channel message to the page started
	// by an earlier row with the same slug.
	RowKindContinuation
	// RowKindVariation attaches a restricted variation to the most recently
	// added WhatsApp message of its page.
	RowKindVariation
)

// ButtonSpec is the JSON shape of one entry in the buttons column.
type ButtonSpec struct {
	Type  string `json:"type"`
	Title string `json:"title"`
	Slug  string `json:"slug,omitempty"`
}

// ContentRow is the frozen, validated projection of one source row.
type ContentRow struct {
	Number int

	PageID string
	Slug   string
	Parent string
	Locale string

	WebTitle    string
	WebSubtitle string
	WebBody     string

	WhatsappTitle            string
	WhatsappBody             string
	WhatsappTemplateName     string
	WhatsappTemplateCategory string
	NextPrompt               string
	Buttons                  []ButtonSpec
	ImageLink                string
	DocLink                  string
	MediaLink                string

	VariationRestrictions [][2]string
	VariationBody         string

	SMSTitle       string
	SMSBody        string
	USSDTitle      string
	USSDBody       string
	MessengerTitle string
	MessengerBody  string
	ViberTitle     string
	ViberBody      string

	TranslationTag string
	Tags           []string
	QuickReplies   []string
	Triggers       []string
	RelatedPages   []string
}

func requireHeaders(row Row, required []string) error {
	have := make(map[string]struct{}, len(row.Headers()))
	for _, h := range row.Headers() {
		have[h] = struct{}{}
	}
	var missing []string
	for _, req := range required {
		if _, ok := have[req]; !ok {
			missing = append(missing, req)
		}
	}
	if len(missing) > 0 {
		return formatError(1, "missing mandatory headers: %s", strings.Join(missing, ", "))
	}
	return nil
}

// ParseContentRow validates one raw row into a ContentRow. It either fully
// succeeds or returns an import error carrying the row number.
func ParseContentRow(row Row) (ContentRow, error) {
	if err := requireHeaders(row, contentPageMandatoryHeaders); err != nil {
		return ContentRow{}, err
	}

	r := ContentRow{
		Number: row.Number,

		PageID: row.Get("page_id"),
		Slug:   row.Get("slug"),
		Parent: row.Get("parent"),
		Locale: row.Get("locale"),

		WebTitle:    row.Get("web_title"),
		WebSubtitle: row.Get("web_subtitle"),
		WebBody:     row.Get("web_body"),

		WhatsappTitle:            row.Get("whatsapp_title"),
		WhatsappBody:             row.Get("whatsapp_body"),
		WhatsappTemplateName:     row.Get("whatsapp_template_name"),
		WhatsappTemplateCategory: row.Get("whatsapp_template_category"),
		NextPrompt:               row.Get("next_prompt"),
		ImageLink:                row.Get("image_link"),
		DocLink:                  row.Get("doc_link"),
		MediaLink:                row.Get("media_link"),

		VariationBody: row.Get("variation_body"),

		SMSTitle:       row.Get("sms_title"),
		SMSBody:        row.Get("sms_body"),
		USSDTitle:      row.Get("ussd_title"),
		USSDBody:       row.Get("ussd_body"),
		MessengerTitle: row.Get("messenger_title"),
		MessengerBody:  row.Get("messenger_body"),
		ViberTitle:     row.Get("viber_title"),
		ViberBody:      row.Get("viber_body"),

		TranslationTag: row.Get("translation_tag"),
	}

	if r.Slug == "" {
		return ContentRow{}, fieldError(row.Number, "slug is required")
	}

	var err error
	if r.Tags, err = deserializeList(row.Get("tags")); err != nil {
		return ContentRow{}, fieldError(row.Number, "tags: %v", err)
	}
	if r.QuickReplies, err = deserializeList(row.Get("quick_replies")); err != nil {
		return ContentRow{}, fieldError(row.Number, "quick_replies: %v", err)
	}
	if r.Triggers, err = deserializeList(row.Get("triggers")); err != nil {
		return ContentRow{}, fieldError(row.Number, "triggers: %v", err)
	}
	if r.RelatedPages, err = deserializeList(row.Get("related_pages")); err != nil {
		return ContentRow{}, fieldError(row.Number, "related_pages: %v", err)
	}
	if r.VariationRestrictions, err = deserializePairs(row.Get("variation_title")); err != nil {
		return ContentRow{}, fieldError(row.Number, "variation_title: %v", err)
	}

	if raw := row.Get("buttons"); raw != "" {
		dec := json.NewDecoder(strings.NewReader(raw))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&r.Buttons); err != nil {
			return ContentRow{}, fieldError(row.Number, "buttons: invalid JSON: %v", err)
		}
		for _, b := range r.Buttons {
			switch b.Type {
			case "next_message":
			case "go_to_page", "go_to_form":
				if b.Slug == "" {
					return ContentRow{}, fieldError(row.Number, "buttons: %s button %q needs a slug", b.Type, b.Title)
				}
			default:
				return ContentRow{}, fieldError(row.Number, "buttons: unknown button type %q", b.Type)
			}
		}
	}

	return r, nil
}

// Kind classifies the row's intent from which columns are populated. The tag
// is computed once here rather than re-derived at each call site.
func (r ContentRow) Kind() RowKind {
	if r.VariationBody != "" {
		return RowKindVariation
	}
	if r.WebTitle == "" {
		return RowKindContinuation
	}
	if !r.hasBody() {
		return RowKindPageIndex
	}
	return RowKindNewPage
}

func (r ContentRow) hasBody() bool {
	return r.WebBody != "" ||
		r.WhatsappBody != "" ||
		r.SMSBody != "" ||
		r.USSDBody != "" ||
		r.MessengerBody != "" ||
		r.ViberBody != ""
}
