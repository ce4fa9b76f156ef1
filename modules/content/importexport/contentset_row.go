package importexport

var contentSetHeaders = []string{
	"name",
	"slug",
	"locale",
	"profile_fields",
	"page_slug",
	"time",
	"unit",
	"before_or_after",
	"contact_field",
}

var contentSetMandatoryHeaders = []string{"name", "slug", "locale"}

// ContentSetRow is one source row of an ordered content set file. The first
// row of a set carries name, slug, locale and profile fields, every row may
// carry one page entry.
type ContentSetRow struct {
	Number int

	Name   string
	Slug   string
	Locale string

	ProfileFields [][2]string

	PageSlug      string
	Time          string
	Unit          string
	BeforeOrAfter string
	ContactField  string
}

// ParseContentSetRow validates one raw row into a ContentSetRow.
func ParseContentSetRow(row Row) (ContentSetRow, error) {
	if err := requireHeaders(row, contentSetMandatoryHeaders); err != nil {
		return ContentSetRow{}, err
	}

	r := ContentSetRow{
		Number: row.Number,

		Name:   row.Get("name"),
		Slug:   row.Get("slug"),
		Locale: row.Get("locale"),

		PageSlug:      row.Get("page_slug"),
		Time:          row.Get("time"),
		Unit:          row.Get("unit"),
		BeforeOrAfter: row.Get("before_or_after"),
		ContactField:  row.Get("contact_field"),
	}

	if r.Slug == "" {
		return ContentSetRow{}, fieldError(row.Number, "slug is required")
	}

	var err error
	if r.ProfileFields, err = deserializePairs(row.Get("profile_fields")); err != nil {
		return ContentSetRow{}, fieldError(row.Number, "profile_fields: %v", err)
	}

	return r, nil
}
