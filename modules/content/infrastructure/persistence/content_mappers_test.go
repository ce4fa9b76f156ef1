package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praekeltfoundation/contentrepo-go/modules/content/domain/entities/assessment"
	"github.com/praekeltfoundation/contentrepo-go/modules/content/domain/entities/page"
	"github.com/praekeltfoundation/contentrepo-go/modules/content/domain/value_objects/locale"
)

func TestContentPageMapper_RoundTrip(t *testing.T) {
	t.Parallel()

	original := page.New("health-menu", locale.MustNew("en"), "Health Menu",
		page.WithParentSlug("home"),
		page.WithSubtitle("All about health"),
		page.WithTags([]string{"health", "menu"}),
		page.WithQuickReplies([]string{"Yes", "No"}),
		page.WithWebBody([]string{"Paragraph one.", "Paragraph two."}),
		page.WithWhatsapp("Health Menu", []page.WhatsappBlock{
			{
				Message:    "Welcome",
				ImageLink:  "https://example.org/pic.png",
				NextPrompt: "Next",
				Buttons: []page.Button{
					{Type: page.ButtonNextMessage, Title: "Next"},
					{Type: page.ButtonGoToPage, Title: "More", TargetSlug: "detail"},
				},
				Variations: []page.Variation{
					{
						Restrictions: []page.Restriction{{Type: "gender", Value: "female"}},
						Message:      "Welcome, sister",
					},
				},
			},
		}),
		page.WithSMS("Health", []page.MessageBlock{{Message: "Welcome SMS"}}),
		page.WithLive(true),
		page.WithRevision(3),
	)

	model, err := ToDBContentPage(original)
	require.NoError(t, err)
	back, err := ToDomainContentPage(model)
	require.NoError(t, err)

	assert.Equal(t, original.ID(), back.ID())
	assert.Equal(t, original.Slug(), back.Slug())
	assert.Equal(t, original.Locale().Code(), back.Locale().Code())
	assert.Equal(t, original.Title(), back.Title())
	assert.Equal(t, original.Tags(), back.Tags())
	assert.Equal(t, original.WebBody(), back.WebBody())
	assert.Equal(t, original.WhatsappBlocks(), back.WhatsappBlocks())
	assert.Equal(t, original.SMSBlocks(), back.SMSBlocks())
	assert.Equal(t, original.Live(), back.Live())
	assert.Equal(t, original.Revision(), back.Revision())
}

func TestAssessmentMapper_RoundTrip(t *testing.T) {
	t.Parallel()

	high := 2.5
	minValue, maxValue := 0, 10
	original := assessment.New("risk-check", locale.MustNew("en"), "Risk Check",
		assessment.WithResultPages("high", "medium", "low"),
		assessment.WithInflections(&high, nil),
		assessment.WithSkip(3, "skip-high"),
		assessment.WithGenericError("Try again"),
		assessment.WithQuestions([]assessment.Question{
			{
				QuestionType: assessment.QuestionCategorical,
				Question:     "Do you smoke?",
				Answers: []assessment.Answer{
					{Answer: "Yes", Score: 2, SemanticID: "smoker"},
					{Answer: "No", Score: 0},
				},
			},
			{
				QuestionType: assessment.QuestionInteger,
				Question:     "How many per day?",
				Min:          &minValue,
				Max:          &maxValue,
			},
		}),
	)

	model, err := ToDBAssessment(original)
	require.NoError(t, err)
	back, err := ToDomainAssessment(model)
	require.NoError(t, err)

	assert.Equal(t, original.ID(), back.ID())
	assert.Equal(t, original.Questions(), back.Questions())
	require.NotNil(t, back.HighInflection())
	assert.InDelta(t, high, *back.HighInflection(), 1e-9)
	assert.Nil(t, back.MediumInflection())
	assert.Equal(t, original.SkipThreshold(), back.SkipThreshold())
}
