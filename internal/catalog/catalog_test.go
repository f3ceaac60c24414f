package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := Default()
	require.Len(t, c.Days(), 21)
	d, ok := c.Day(7)
	require.True(t, ok)
	assert.Equal(t, "Le bilan de votre énergie", d.Title)
	assert.NotEmpty(t, d.Exercises)
	_, ok = c.Day(22)
	assert.False(t, ok)
}

func TestVideos(t *testing.T) {
	c := Default()
	assert.Len(t, c.Videos("", ""), 8)
	assert.Len(t, c.Videos("all", ""), 8)
	assert.Len(t, c.Videos("Fréquences", ""), 7)
	got := c.Videos("", "528 HZ")
	require.Len(t, got, 1)
	assert.Equal(t, "xPVf8IdSlB0", got[0].ID)
	assert.Empty(t, c.Videos("relaxation", "528"))
	assert.Equal(t, []string{"relaxation", "Fréquences"}, c.Categories())
}

func TestParse_RejectsGaps(t *testing.T) {
	_, err := Parse([]byte(`{"cycle_days":[{"day":1},{"day":3}]}`))
	assert.Error(t, err)
	_, err = Parse([]byte(`not json`))
	assert.Error(t, err)
}
