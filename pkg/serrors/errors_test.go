package serrors_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praekeltfoundation/contentrepo-go/pkg/serrors"
)

func TestBaseError_IsMatchesByCode(t *testing.T) {
	t.Parallel()

	proto := serrors.NewError("IMPORT_FORMAT", "malformed input", "")
	derived := proto.WithTemplateData(map[string]string{"row": "7"})
	wrapped := fmt.Errorf("pages.csv: %w", derived)

	require.ErrorIs(t, wrapped, proto)
	assert.Equal(t, "7", derived.TemplateData["row"])
	// prototype stays untouched
	assert.Nil(t, proto.TemplateData)
}

func TestBaseError_WithDetail(t *testing.T) {
	t.Parallel()

	proto := serrors.NewError("IMPORT_FIELD", "invalid field", "")
	err := proto.WithDetail("row %d: high_inflection", 3)

	assert.Equal(t, "invalid field: row 3: high_inflection", err.Error())
	assert.True(t, errors.Is(err, proto))
}
