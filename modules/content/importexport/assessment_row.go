package importexport

import (
	"strconv"
	"strings"

	"github.com/praekeltfoundation/contentrepo-go/modules/content/domain/entities/assessment"
)

var assessmentHeaders = []string{
	"title",
	"question_type",
	"tags",
	"slug",
	"version",
	"locale",
	"high_result_page",
	"high_inflection",
	"medium_result_page",
	"medium_inflection",
	"low_result_page",
	"skip_threshold",
	"skip_high_result_page",
	"generic_error",
	"question",
	"explainer",
	"error",
	"min",
	"max",
	"answers",
	"scores",
	"answer_semantic_ids",
	"question_semantic_id",
	"answer_responses",
}

var assessmentMandatoryHeaders = []string{"title", "question", "slug", "generic_error", "locale"}

// AssessmentRow is one source row of an assessment file. The first row of an
// assessment carries the record-level fields, every row carries one question.
type AssessmentRow struct {
	Number int

	Title  string
	Slug   string
	Locale string

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

	QuestionType       string
	Question           string
	Explainer          string
	Error              string
	QuestionSemanticID string
	Min                *int
	Max                *int
	Answers            []string
	Scores             []float64
	AnswerSemanticIDs  []string
	AnswerResponses    []string
}

// parseFloatCell rejects the comma decimal separator outright so that a
// localized "2,5" fails loudly instead of importing as garbage.
func parseFloatCell(row int, field, raw string) (float64, error) {
	if strings.Contains(raw, ",") {
		return 0, fieldError(row, "%s: %q is not a valid number, use a dot as the decimal separator", field, raw)
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fieldError(row, "%s: %q is not a valid number", field, raw)
	}
	return f, nil
}

func parseOptionalFloatCell(row int, field, raw string) (*float64, error) {
	if raw == "" {
		return nil, nil
	}
	f, err := parseFloatCell(row, field, raw)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func parseOptionalIntCell(row int, field, raw string) (*int, error) {
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fieldError(row, "%s: %q is not a valid integer", field, raw)
	}
	return &n, nil
}

// ParseAssessmentRow validates one raw row into an AssessmentRow.
func ParseAssessmentRow(row Row) (AssessmentRow, error) {
	if err := requireHeaders(row, assessmentMandatoryHeaders); err != nil {
		return AssessmentRow{}, err
	}

	r := AssessmentRow{
		Number: row.Number,

		Title:  row.Get("title"),
		Slug:   row.Get("slug"),
		Locale: row.Get("locale"),

		Version: row.Get("version"),

		HighResultPage:     row.Get("high_result_page"),
		MediumResultPage:   row.Get("medium_result_page"),
		LowResultPage:      row.Get("low_result_page"),
		SkipHighResultPage: row.Get("skip_high_result_page"),
		GenericError:       row.Get("generic_error"),

		QuestionType:       row.Get("question_type"),
		Question:           row.Get("question"),
		Explainer:          row.Get("explainer"),
		Error:              row.Get("error"),
		QuestionSemanticID: row.Get("question_semantic_id"),
	}

	if r.Slug == "" {
		return AssessmentRow{}, fieldError(row.Number, "slug is required")
	}

	switch assessment.QuestionType(r.QuestionType) {
	case "", assessment.QuestionCategorical, assessment.QuestionAge,
		assessment.QuestionMultiselect, assessment.QuestionFreeText,
		assessment.QuestionInteger, assessment.QuestionYearOfBirth:
	default:
		return AssessmentRow{}, fieldError(row.Number, "question_type: unknown type %q", r.QuestionType)
	}

	var err error
	if r.Tags, err = deserializeList(row.Get("tags")); err != nil {
		return AssessmentRow{}, fieldError(row.Number, "tags: %v", err)
	}
	if r.Answers, err = deserializeList(row.Get("answers")); err != nil {
		return AssessmentRow{}, fieldError(row.Number, "answers: %v", err)
	}
	if r.AnswerSemanticIDs, err = deserializeList(row.Get("answer_semantic_ids")); err != nil {
		return AssessmentRow{}, fieldError(row.Number, "answer_semantic_ids: %v", err)
	}
	if r.AnswerResponses, err = deserializeList(row.Get("answer_responses")); err != nil {
		return AssessmentRow{}, fieldError(row.Number, "answer_responses: %v", err)
	}

	rawScores, err := deserializeList(row.Get("scores"))
	if err != nil {
		return AssessmentRow{}, fieldError(row.Number, "scores: %v", err)
	}
	for _, raw := range rawScores {
		f, err := parseFloatCell(row.Number, "scores", raw)
		if err != nil {
			return AssessmentRow{}, err
		}
		r.Scores = append(r.Scores, f)
	}

	if len(r.Scores) > 0 && len(r.Scores) != len(r.Answers) {
		return AssessmentRow{}, fieldError(row.Number,
			"mismatched answer columns: %d answers but %d scores", len(r.Answers), len(r.Scores))
	}
	if len(r.AnswerSemanticIDs) > 0 && len(r.AnswerSemanticIDs) != len(r.Answers) {
		return AssessmentRow{}, fieldError(row.Number,
			"mismatched answer columns: %d answers but %d answer_semantic_ids", len(r.Answers), len(r.AnswerSemanticIDs))
	}
	if len(r.AnswerResponses) > 0 && len(r.AnswerResponses) != len(r.Answers) {
		return AssessmentRow{}, fieldError(row.Number,
			"mismatched answer columns: %d answers but %d answer_responses", len(r.Answers), len(r.AnswerResponses))
	}

	if r.HighInflection, err = parseOptionalFloatCell(row.Number, "high_inflection", row.Get("high_inflection")); err != nil {
		return AssessmentRow{}, err
	}
	if r.MediumInflection, err = parseOptionalFloatCell(row.Number, "medium_inflection", row.Get("medium_inflection")); err != nil {
		return AssessmentRow{}, err
	}
	if raw := row.Get("skip_threshold"); raw != "" {
		if r.SkipThreshold, err = parseFloatCell(row.Number, "skip_threshold", raw); err != nil {
			return AssessmentRow{}, err
		}
	}
	if r.Min, err = parseOptionalIntCell(row.Number, "min", row.Get("min")); err != nil {
		return AssessmentRow{}, err
	}
	if r.Max, err = parseOptionalIntCell(row.Number, "max", row.Get("max")); err != nil {
		return AssessmentRow{}, err
	}

	return r, nil
}
