package importexport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFile_CSV(t *testing.T) {
	t.Parallel()

	data := []byte("Slug,Web Title,locale\nfirst-page,First Page,en\n,,\nsecond-page,Second Page,en\n")
	rows, err := ParseFile(data, FormatCSV)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, 2, rows[0].Number)
	assert.Equal(t, "first-page", rows[0].Get("slug"))
	assert.Equal(t, "First Page", rows[0].Get("web_title"))
	assert.Equal(t, []string{"slug", "web_title", "locale"}, rows[0].Headers())

	// the all-empty row is dropped but numbering still follows the file
	assert.Equal(t, 4, rows[1].Number)
	assert.Equal(t, "second-page", rows[1].Get("slug"))
}

func TestParseFile_CSVWithBOM(t *testing.T) {
	t.Parallel()

	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("slug,locale\na,en\n")...)
	rows, err := ParseFile(data, FormatCSV)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "a", rows[0].Get("slug"))
}

func TestParseFile_Latin1Fallback(t *testing.T) {
	t.Parallel()

	// "café" encoded as ISO 8859-1, invalid as UTF-8
	data := []byte("slug,web_title\ncafe,caf\xe9\n")
	rows, err := ParseFile(data, FormatCSV)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "café", rows[0].Get("web_title"))
}

func TestParseFile_DuplicateHeader(t *testing.T) {
	t.Parallel()

	_, err := ParseFile([]byte("slug,slug\na,b\n"), FormatCSV)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFormat)
}

func TestParseFile_NoDataRows(t *testing.T) {
	t.Parallel()

	_, err := ParseFile([]byte("slug,locale\n"), FormatCSV)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFormat)
}

func TestParseFile_EmptyCellsAbsent(t *testing.T) {
	t.Parallel()

	rows, err := ParseFile([]byte("slug,parent,locale\na,,en\n"), FormatCSV)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.False(t, rows[0].Has("parent"))
	assert.True(t, rows[0].Has("slug"))
}

func TestParseFile_XLSXRoundTrip(t *testing.T) {
	t.Parallel()

	headers := []string{"slug", "web_title", "locale"}
	out, err := WriteXLSX(headers, []ExportRow{
		{"slug": "first-page", "web_title": "First Page", "locale": "en"},
		{"slug": "second-page", "web_title": "Second, \"quoted\" Page", "locale": "pt"},
	})
	require.NoError(t, err)

	rows, err := ParseFile(out, FormatXLSX)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "first-page", rows[0].Get("slug"))
	assert.Equal(t, `Second, "quoted" Page`, rows[1].Get("web_title"))
	assert.Equal(t, "pt", rows[1].Get("locale"))
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	f, err := ParseFormat("CSV")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	f, err = ParseFormat("xlsx")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)

	_, err = ParseFormat("pdf")
	assert.Error(t, err)
}

func TestRowNumberFromError(t *testing.T) {
	t.Parallel()

	err := fieldError(7, "bad value")
	n, ok := RowNumber(err)
	require.True(t, ok)
	assert.Equal(t, 7, n)
}
