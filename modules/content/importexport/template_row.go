package importexport

import (
	"github.com/praekeltfoundation/contentrepo-go/modules/content/domain/entities/watemplate"
)

var templateHeaders = []string{
	"name",
	"category",
	"locale",
	"body",
	"example_values",
	"image_link",
	"submission_status",
}

var templateMandatoryHeaders = []string{"name", "category", "locale", "body"}

// TemplateRow is one source row of a WhatsApp template file. Each row is a
// complete template.
type TemplateRow struct {
	Number int

	Name          string
	Category      string
	Locale        string
	Body          string
	ExampleValues []string
}

// ParseTemplateRow validates one raw row into a TemplateRow.
func ParseTemplateRow(row Row) (TemplateRow, error) {
	if err := requireHeaders(row, templateMandatoryHeaders); err != nil {
		return TemplateRow{}, err
	}

	r := TemplateRow{
		Number: row.Number,

		Name:     row.Get("name"),
		Category: row.Get("category"),
		Locale:   row.Get("locale"),
		Body:     row.Get("body"),
	}

	if r.Name == "" {
		return TemplateRow{}, fieldError(row.Number, "name is required")
	}
	if r.Body == "" {
		return TemplateRow{}, fieldError(row.Number, "body is required")
	}

	switch watemplate.Category(r.Category) {
	case watemplate.CategoryUtility, watemplate.CategoryMarketing:
	default:
		return TemplateRow{}, fieldError(row.Number, "category: unknown category %q", r.Category)
	}

	var err error
	if r.ExampleValues, err = deserializeList(row.Get("example_values")); err != nil {
		return TemplateRow{}, fieldError(row.Number, "example_values: %v", err)
	}

	return r, nil
}
