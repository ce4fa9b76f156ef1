package importexport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const assessmentCSVHeader = "title,question_type,slug,locale,generic_error,question,answers,scores,high_inflection,min,max\n"

func TestParseAssessmentRow_Valid(t *testing.T) {
	t.Parallel()

	rows := parseRows(t, assessmentCSVHeader+
		`Depression Screener,categorical_question,depression-screener,en,Please try again,How often do you feel down?,"Never,Sometimes,Often","0,1,2",1.5,,
`)
	r, err := ParseAssessmentRow(rows[0])
	require.NoError(t, err)
	assert.Equal(t, "depression-screener", r.Slug)
	assert.Equal(t, []string{"Never", "Sometimes", "Often"}, r.Answers)
	assert.Equal(t, []float64{0, 1, 2}, r.Scores)
	require.NotNil(t, r.HighInflection)
	assert.InDelta(t, 1.5, *r.HighInflection, 1e-9)
}

func TestParseAssessmentRow_CommaDecimalRejected(t *testing.T) {
	t.Parallel()

	rows := parseRows(t, assessmentCSVHeader+
		`Screener,categorical_question,screener,en,Error,Question?,"A,B","0,1","2,5",,
`)
	_, err := ParseAssessmentRow(rows[0])
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrField)
	assert.Contains(t, err.Error(), "decimal separator")
}

func TestParseAssessmentRow_MismatchedScores(t *testing.T) {
	t.Parallel()

	rows := parseRows(t, assessmentCSVHeader+
		`Screener,categorical_question,screener,en,Error,Question?,"A,B,C","1,2",,,
`)
	_, err := ParseAssessmentRow(rows[0])
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrField)
	assert.Contains(t, err.Error(), "3 answers")
	assert.Contains(t, err.Error(), "2 scores")
}

func TestParseAssessmentRow_UnknownQuestionType(t *testing.T) {
	t.Parallel()

	rows := parseRows(t, assessmentCSVHeader+
		`Screener,essay_question,screener,en,Error,Question?,,,,,
`)
	_, err := ParseAssessmentRow(rows[0])
	assert.ErrorIs(t, err, ErrField)
}

func TestParseAssessmentRow_MinMax(t *testing.T) {
	t.Parallel()

	rows := parseRows(t, assessmentCSVHeader+
		`Screener,integer_question,screener,en,Error,How many?,,,,0,10
`)
	r, err := ParseAssessmentRow(rows[0])
	require.NoError(t, err)
	require.NotNil(t, r.Min)
	require.NotNil(t, r.Max)
	assert.Equal(t, 0, *r.Min)
	assert.Equal(t, 10, *r.Max)
}

func TestParseAssessmentRow_BadInteger(t *testing.T) {
	t.Parallel()

	rows := parseRows(t, assessmentCSVHeader+
		`Screener,integer_question,screener,en,Error,How many?,,,,zero,10
`)
	_, err := ParseAssessmentRow(rows[0])
	assert.ErrorIs(t, err, ErrField)
}
