package locale_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praekeltfoundation/contentrepo-go/modules/content/domain/value_objects/locale"
)

func TestRegistry_ResolveByCode(t *testing.T) {
	t.Parallel()

	reg, err := locale.NewRegistry("en", "pt-BR", "sw")
	require.NoError(t, err)

	l, err := reg.Resolve("pt-BR")
	require.NoError(t, err)
	assert.Equal(t, "pt-BR", l.Code())
	assert.Equal(t, "Brazilian Portuguese", l.Name())
}

func TestRegistry_ResolveByDisplayName(t *testing.T) {
	t.Parallel()

	reg, err := locale.NewRegistry("en", "sw")
	require.NoError(t, err)

	l, err := reg.Resolve("swahili")
	require.NoError(t, err)
	assert.Equal(t, "sw", l.Code())
}

func TestRegistry_ResolveNotFound(t *testing.T) {
	t.Parallel()

	reg, err := locale.NewRegistry("en")
	require.NoError(t, err)

	_, err = reg.Resolve("Klingon")
	assert.ErrorIs(t, err, locale.ErrNotFound)
}

func TestRegistry_DefaultIsFirst(t *testing.T) {
	t.Parallel()

	reg, err := locale.NewRegistry("en", "pt")
	require.NoError(t, err)
	assert.Equal(t, "en", reg.Default().Code())
}

func TestNew_InvalidCode(t *testing.T) {
	t.Parallel()

	_, err := locale.New("not a code!!")
	assert.ErrorIs(t, err, locale.ErrInvalidCode)
}
