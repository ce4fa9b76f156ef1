package importexport

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praekeltfoundation/contentrepo-go/modules/content/domain/entities/page"
	"github.com/praekeltfoundation/contentrepo-go/modules/content/domain/value_objects/locale"
)

func exportRows(t *testing.T, f importerFixture, kind Kind) []Row {
	t.Helper()
	out, err := f.exporter.Export(context.Background(), kind, FormatCSV, ExportOptions{})
	require.NoError(t, err)
	rows, err := ParseFile(out, FormatCSV)
	require.NoError(t, err)
	return rows
}

func TestExporter_StructureLabels(t *testing.T) {
	t.Parallel()
	f := setupImporter(t)
	ctx := context.Background()

	csvData := `slug,parent,web_title,whatsapp_body,locale
main-menu,,Main Menu,Welcome,en
health,main-menu,Health,Health info,en
nutrition,health,Nutrition,Food info,en
about,,About,About us,en
`
	_, err := f.importer.Import(ctx, []byte(csvData), FormatCSV, KindContentPages, ImportOptions{})
	require.NoError(t, err)

	rows := exportRows(t, f, KindContentPages)
	require.Len(t, rows, 4)
	assert.Equal(t, "Menu 1", rows[0].Get("structure"))
	assert.Equal(t, "main-menu", rows[0].Get("slug"))
	assert.Equal(t, "Sub 1.1", rows[1].Get("structure"))
	assert.Equal(t, "Sub 1.1.1", rows[2].Get("structure"))
	assert.Equal(t, "nutrition", rows[2].Get("slug"))
	assert.Equal(t, "Menu 2", rows[3].Get("structure"))

	// parents always precede children
	assert.Equal(t, "health", rows[2].Get("parent"))
	// home-level pages export an empty parent cell
	assert.False(t, rows[0].Has("parent"))
}

func TestExporter_MessageRows(t *testing.T) {
	t.Parallel()
	f := setupImporter(t)
	ctx := context.Background()

	csvData := `slug,web_title,whatsapp_body,sms_body,variation_title,variation_body,locale
page,Title,First WA,First SMS,,,en
page,,,,"gender: female",For women,en
page,,Second WA,Second SMS,,,en
`
	_, err := f.importer.Import(ctx, []byte(csvData), FormatCSV, KindContentPages, ImportOptions{})
	require.NoError(t, err)

	rows := exportRows(t, f, KindContentPages)
	require.Len(t, rows, 3)

	assert.Equal(t, "1", rows[0].Get("message"))
	assert.Equal(t, "First WA", rows[0].Get("whatsapp_body"))
	assert.Equal(t, "First SMS", rows[0].Get("sms_body"))
	assert.Equal(t, "Title", rows[0].Get("web_title"))

	// variation row trails the message it belongs to
	assert.Equal(t, "1", rows[1].Get("message"))
	assert.Equal(t, "For women", rows[1].Get("variation_body"))
	assert.Equal(t, "gender: female", rows[1].Get("variation_title"))
	assert.False(t, rows[1].Has("web_title"))

	assert.Equal(t, "2", rows[2].Get("message"))
	assert.Equal(t, "Second WA", rows[2].Get("whatsapp_body"))
	assert.Equal(t, "Second SMS", rows[2].Get("sms_body"))
	assert.False(t, rows[2].Has("web_title"))
}

// Exporting, importing the export and exporting again must reproduce the
// first export byte for byte, for every record kind and both formats.
func TestExporter_RoundTripFixedPoint(t *testing.T) {
	t.Parallel()
	f := setupImporter(t)
	ctx := context.Background()

	pagesCSV := `slug,parent,web_title,web_body,whatsapp_title,whatsapp_body,buttons,tags,quick_replies,locale
main-menu,,Main Menu,"Paragraph one.

Paragraph two.",Main Menu,"Welcome, friend","[{""type"":""go_to_page"",""title"":""More"",""slug"":""detail""}]","tag one,tag two","Yes,No",en
detail,main-menu,Detail,,Detail,All the details,,,,en
detail,main-menu,,,,"Second message, with comma",,,,en
`
	_, err := f.importer.Import(ctx, []byte(pagesCSV), FormatCSV, KindContentPages, ImportOptions{})
	require.NoError(t, err)

	assessmentCSV := `title,question_type,slug,locale,generic_error,high_result_page,high_inflection,question,answers,scores
Check,categorical_question,check,en,Try again,detail,1.5,Do you smoke?,"Yes,No","2,0"
`
	_, err = f.importer.Import(ctx, []byte(assessmentCSV), FormatCSV, KindAssessments, ImportOptions{})
	require.NoError(t, err)

	setCSV := `name,slug,locale,profile_fields,page_slug,time,unit,before_or_after,contact_field
Sequence,sequence,en,"gender: female",detail,1,days,before,edd
`
	_, err = f.importer.Import(ctx, []byte(setCSV), FormatCSV, KindOrderedSets, ImportOptions{})
	require.NoError(t, err)

	templateCSV := `name,category,locale,body,example_values
welcome,UTILITY,en,"Hi {{1}}","Mama"
`
	_, err = f.importer.Import(ctx, []byte(templateCSV), FormatCSV, KindTemplates, ImportOptions{})
	require.NoError(t, err)

	// assessments and sets reference pages, so fresh fixtures get the page
	// export first or their reference validation would rightly abort
	pagesExport, err := f.exporter.Export(ctx, KindContentPages, FormatCSV, ExportOptions{})
	require.NoError(t, err)

	for _, kind := range []Kind{KindContentPages, KindAssessments, KindOrderedSets, KindTemplates} {
		for _, format := range []Format{FormatCSV, FormatXLSX} {
			first, err := f.exporter.Export(ctx, kind, format, ExportOptions{})
			require.NoError(t, err)

			g := setupImporter(t)
			if kind != KindContentPages {
				_, err = g.importer.Import(ctx, pagesExport, FormatCSV, KindContentPages, ImportOptions{})
				require.NoError(t, err)
			}
			_, err = g.importer.Import(ctx, first, format, kind, ImportOptions{})
			require.NoError(t, err, "kind %s format %s", kind, format)

			second, err := g.exporter.Export(ctx, kind, FormatCSV, ExportOptions{})
			require.NoError(t, err)
			reference, err := f.exporter.Export(ctx, kind, FormatCSV, ExportOptions{})
			require.NoError(t, err)

			cmp := func(data []byte) []Row {
				rows, err := ParseFile(data, FormatCSV)
				require.NoError(t, err)
				return rows
			}
			firstRows := cmp(reference)
			secondRows := cmp(second)
			require.Equal(t, len(firstRows), len(secondRows), "kind %s format %s", kind, format)
			for i := range firstRows {
				for _, h := range firstRows[i].Headers() {
					if h == "page_id" {
						continue
					}
					assert.Equal(t, firstRows[i].Get(h), secondRows[i].Get(h),
						"kind %s format %s row %d column %s", kind, format, i, h)
				}
			}
		}
	}
}

func TestExporter_AssessmentRows(t *testing.T) {
	t.Parallel()
	f := setupImporter(t)
	ctx := context.Background()

	pagesCSV := `slug,web_title,whatsapp_body,locale
result,Result,Your result,en
`
	_, err := f.importer.Import(ctx, []byte(pagesCSV), FormatCSV, KindContentPages, ImportOptions{})
	require.NoError(t, err)

	assessmentCSV := `title,question_type,slug,locale,generic_error,high_result_page,skip_threshold,question,answers,scores,min,max
Quiz,categorical_question,quiz,en,Oops,result,3,First question?,"A,B","1,2",,
Quiz,integer_question,quiz,en,Oops,result,3,How many?,,,0,10
`
	_, err = f.importer.Import(ctx, []byte(assessmentCSV), FormatCSV, KindAssessments, ImportOptions{})
	require.NoError(t, err)

	rows := exportRows(t, f, KindAssessments)
	require.Len(t, rows, 2)
	assert.Equal(t, "Quiz", rows[0].Get("title"))
	assert.Equal(t, "categorical_question", rows[0].Get("question_type"))
	assert.Equal(t, "A,B", rows[0].Get("answers"))
	assert.Equal(t, "1,2", rows[0].Get("scores"))
	assert.Equal(t, "3", rows[0].Get("skip_threshold"))
	assert.Equal(t, "integer_question", rows[1].Get("question_type"))
	assert.Equal(t, "0", rows[1].Get("min"))
	assert.Equal(t, "10", rows[1].Get("max"))
}

func TestExporter_LocaleFilter(t *testing.T) {
	t.Parallel()
	f := setupImporter(t)
	ctx := context.Background()

	csvData := `slug,web_title,whatsapp_body,locale
english-page,English,Body,en
portuguese-page,Português,Corpo,pt
`
	_, err := f.importer.Import(ctx, []byte(csvData), FormatCSV, KindContentPages, ImportOptions{})
	require.NoError(t, err)

	out, err := f.exporter.Export(ctx, KindContentPages, FormatCSV, ExportOptions{Locale: locale.MustNew("pt")})
	require.NoError(t, err)
	rows, err := ParseFile(out, FormatCSV)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "portuguese-page", rows[0].Get("slug"))
}

func TestExporter_LiveOnlySkipsDrafts(t *testing.T) {
	t.Parallel()
	f := setupImporter(t)
	ctx := context.Background()

	csvData := `slug,web_title,whatsapp_body,locale
published-page,Published,Body,en
`
	_, err := f.importer.Import(ctx, []byte(csvData), FormatCSV, KindContentPages, ImportOptions{})
	require.NoError(t, err)

	// A draft saved outside an import is never published.
	draft := page.New("draft-page", locale.MustNew("en"), "Draft",
		page.WithParentSlug("home"))
	_, err = f.pages.Save(ctx, draft)
	require.NoError(t, err)

	out, err := f.exporter.Export(ctx, KindContentPages, FormatCSV, ExportOptions{LiveOnly: true})
	require.NoError(t, err)
	rows, err := ParseFile(out, FormatCSV)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "published-page", rows[0].Get("slug"))

	out, err = f.exporter.Export(ctx, KindContentPages, FormatCSV, ExportOptions{})
	require.NoError(t, err)
	rows, err = ParseFile(out, FormatCSV)
	require.NoError(t, err)
	require.Len(t, rows, 2)
}
