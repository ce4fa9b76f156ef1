package importexport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListCodec_RoundTrip(t *testing.T) {
	t.Parallel()

	cases := [][]string{
		{"a", "b", "c"},
		{"has, comma", "plain"},
		{`has "quotes"`, "and, both, commas"},
		{"multi word item"},
		{"trailing"},
	}
	for _, items := range cases {
		cell := serializeList(items)
		back, err := deserializeList(cell)
		require.NoError(t, err)
		assert.Equal(t, items, back, "cell %q", cell)
	}
}

func TestDeserializeList_Empty(t *testing.T) {
	t.Parallel()

	items, err := deserializeList("")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestDeserializeList_TrimsItems(t *testing.T) {
	t.Parallel()

	items, err := deserializeList("a, b ,  c")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, items)
}

func TestPairsCodec_RoundTrip(t *testing.T) {
	t.Parallel()

	pairs := [][2]string{{"gender", "female"}, {"relationship", "single"}}
	cell := serializePairs(pairs)
	back, err := deserializePairs(cell)
	require.NoError(t, err)
	assert.Equal(t, pairs, back)
}

func TestSerializeList_Empty(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", serializeList(nil))
}
