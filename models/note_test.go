package models

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotePreview(t *testing.T) {
	t.Run("empty content", func(t *testing.T) {
		n := &Note{}
		assert.Equal(t, "", n.Preview())
	})

	t.Run("short content unchanged", func(t *testing.T) {
		n := &Note{Content: "Grocery list: milk, eggs"}
		assert.Equal(t, "Grocery list: milk, eggs", n.Preview())
	})

	t.Run("exactly at limit unchanged", func(t *testing.T) {
		content := strings.Repeat("a", 100)
		n := &Note{Content: content}
		assert.Equal(t, content, n.Preview())
	})

	t.Run("long content truncated with ellipsis", func(t *testing.T) {
		n := &Note{Content: strings.Repeat("b", 150)}
		preview := n.Preview()
		assert.Equal(t, strings.Repeat("b", 100)+"...", preview)
	})

	t.Run("multibyte runes not split", func(t *testing.T) {
		n := &Note{Content: strings.Repeat("é", 150)}
		assert.Equal(t, strings.Repeat("é", 100)+"...", n.Preview())
	})
}

func TestNoteWordCount(t *testing.T) {
	assert.Equal(t, 0, (&Note{}).WordCount())
	assert.Equal(t, 1, (&Note{Content: "hello"}).WordCount())
	assert.Equal(t, 4, (&Note{Content: "  spaced   out   word  count "}).WordCount())
	assert.Equal(t, 3, (&Note{Content: "line\nbreaks\tcount"}).WordCount())
}

func TestNoteMarshalJSON(t *testing.T) {
	n := Note{
		Title:   "Meeting notes",
		Content: "Discuss roadmap and hiring",
	}

	data, err := json.Marshal(n)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "Meeting notes", decoded["title"])
	assert.Equal(t, "Discuss roadmap and hiring", decoded["preview"])
	assert.Equal(t, float64(4), decoded["word_count"])
}
