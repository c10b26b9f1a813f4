package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestRankedCounts_MarshalJSONKeepsOrder(t *testing.T) {
	counts := RankedCounts{
		{Name: "Sofas", Count: 7},
		{Name: "Chairs \"Dining\"", Count: 3},
		{Name: "Beds", Count: 3},
	}

	out, err := counts.MarshalJSON()

	require.NoError(t, err)
	assert.Equal(t, `{"Sofas":7,"Chairs \"Dining\"":3,"Beds":3}`, string(out))
}

func TestRankedCounts_Empty(t *testing.T) {
	out, err := RankedCounts(nil).MarshalJSON()

	require.NoError(t, err)
	assert.Equal(t, `{}`, string(out))
	assert.Empty(t, RankedCounts(nil).Map())
}

func TestDimensions_Empty(t *testing.T) {
	assert.True(t, Dimensions{}.Empty())

	depth := 12.5
	assert.False(t, Dimensions{Depth: &depth}.Empty())
}

func TestRankedCounts_MarshalYAMLKeepsOrder(t *testing.T) {
	counts := RankedCounts{
		{Name: "Sofas", Count: 7},
		{Name: "Beds", Count: 3},
		{Name: "Chairs", Count: 3},
	}

	out, err := yaml.Marshal(map[string]RankedCounts{"top": counts})
	require.NoError(t, err)
	assert.Equal(t, "top:\n    Sofas: 7\n    Beds: 3\n    Chairs: 3\n", string(out))
}
