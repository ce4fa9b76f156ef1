package models

import "time"

// ContentPage is the content_pages row. Collection-valued fields are stored
// as JSONB and unmarshalled by the mappers.
type ContentPage struct {
	ID             string
	Slug           string
	Locale         string
	Title          string
	Subtitle       string
	ParentSlug     string
	TranslationTag string
	Tags           []byte
	Triggers       []byte
	QuickReplies   []byte
	RelatedPages   []byte

	WebBody                  []byte
	WhatsappTitle            string
	WhatsappTemplateName     string
	WhatsappTemplateCategory string
	WhatsappBlocks           []byte
	SMSTitle                 string
	SMSBlocks                []byte
	USSDTitle                string
	USSDBlocks               []byte
	MessengerTitle           string
	MessengerBlocks          []byte
	ViberTitle               string
	ViberBlocks              []byte

	IsHome    bool
	Live      bool
	Revision  int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// WhatsappBlock is the JSONB shape of one WhatsApp message inside
// ContentPage.WhatsappBlocks.
type WhatsappBlock struct {
	Message    string      `json:"message"`
	ImageLink  string      `json:"image_link,omitempty"`
	DocLink    string      `json:"doc_link,omitempty"`
	MediaLink  string      `json:"media_link,omitempty"`
	NextPrompt string      `json:"next_prompt,omitempty"`
	Buttons    []Button    `json:"buttons,omitempty"`
	Variations []Variation `json:"variations,omitempty"`
}

type Button struct {
	Type       string `json:"type"`
	Title      string `json:"title"`
	TargetSlug string `json:"slug,omitempty"`
}

type Variation struct {
	Restrictions []Restriction `json:"restrictions,omitempty"`
	Message      string        `json:"message"`
}

type Restriction struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type Assessment struct {
	ID     string
	Slug   string
	Locale string
	Title  string

	Version string
	Tags    []byte

	HighResultPage     string
	HighInflection     *float64
	MediumResultPage   string
	MediumInflection   *float64
	LowResultPage      string
	SkipThreshold      float64
	SkipHighResultPage string
	GenericError       string
	Questions          []byte

	Live      bool
	Revision  int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Question is the JSONB shape of one assessment question.
type Question struct {
	QuestionType string   `json:"question_type"`
	Question     string   `json:"question"`
	Explainer    string   `json:"explainer,omitempty"`
	Error        string   `json:"error,omitempty"`
	SemanticID   string   `json:"semantic_id,omitempty"`
	Min          *int     `json:"min,omitempty"`
	Max          *int     `json:"max,omitempty"`
	Answers      []Answer `json:"answers,omitempty"`
}

type Answer struct {
	Answer     string  `json:"answer"`
	Score      float64 `json:"score"`
	SemanticID string  `json:"semantic_id,omitempty"`
	Response   string  `json:"response,omitempty"`
}

type OrderedContentSet struct {
	ID            string
	Slug          string
	Name          string
	Locale        string
	ProfileFields []byte
	Entries       []byte
	Live          bool
	Revision      int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ProfileField and SetEntry are the JSONB shapes inside OrderedContentSet.
type ProfileField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type SetEntry struct {
	PageSlug      string `json:"page_slug"`
	Time          string `json:"time,omitempty"`
	Unit          string `json:"unit,omitempty"`
	BeforeOrAfter string `json:"before_or_after,omitempty"`
	ContactField  string `json:"contact_field,omitempty"`
}

type WhatsAppTemplate struct {
	ID               string
	Name             string
	Category         string
	Locale           string
	Body             string
	ExampleValues    []byte
	ImageLink        string
	SubmissionStatus string
	Live             bool
	Revision         int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
