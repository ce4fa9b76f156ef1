package importexport

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/praekeltfoundation/contentrepo-go/pkg/serrors"
)

// Import error taxonomy. Every error aborts the whole import; there is no
// row-skipping mode. Errors carry the 1-based source row number (header is
// row 1) in their template data where one applies.
var (
	// ErrFormat covers structurally malformed input: duplicate or missing
	// headers, unreadable bytes, empty files.
	ErrFormat = serrors.NewError("IMPORT_FORMAT", "malformed import file", "Import.Error.Format")
	// ErrField covers a single field failing type or format validation.
	ErrField = serrors.NewError("IMPORT_FIELD", "invalid field value", "Import.Error.Field")
	// ErrReference covers slug references that cannot be resolved once all
	// rows have been read.
	ErrReference = serrors.NewError("IMPORT_REFERENCE", "unresolved content reference", "Import.Error.Reference")
	// ErrLocale covers missing or ambiguous language codes/names.
	ErrLocale = serrors.NewError("IMPORT_LOCALE", "cannot resolve locale", "Import.Error.Locale")
)

func withRow(base *serrors.BaseError, row int, format string, args ...any) error {
	e := base.WithDetail(format, args...)
	if row > 0 {
		e = e.WithTemplateData(map[string]string{"row": strconv.Itoa(row)})
		return fmt.Errorf("row %d: %w", row, e)
	}
	return e
}

func formatError(row int, format string, args ...any) error {
	return withRow(ErrFormat, row, format, args...)
}

func fieldError(row int, format string, args ...any) error {
	return withRow(ErrField, row, format, args...)
}

func referenceError(row int, format string, args ...any) error {
	return withRow(ErrReference, row, format, args...)
}

func localeError(row int, format string, args ...any) error {
	return withRow(ErrLocale, row, format, args...)
}

// RowNumber extracts the originating row number from an import error.
func RowNumber(err error) (int, bool) {
	var be *serrors.BaseError
	if !errors.As(err, &be) {
		return 0, false
	}
	raw, ok := be.TemplateData["row"]
	if !ok {
		return 0, false
	}
	n, convErr := strconv.Atoi(raw)
	if convErr != nil {
		return 0, false
	}
	return n, true
}
