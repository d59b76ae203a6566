package chunker

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rajiv714/FinBot/internal/core/domain"
)

func makeWords(n int) string {
	words := make([]string, n)
	for i := range words {
		words[i] = fmt.Sprintf("w%d", i)
	}
	return strings.Join(words, " ")
}

func TestNew_RejectsOverlapNotSmallerThanChunkSize(t *testing.T) {
	_, err := New(100, 100)
	require.ErrorIs(t, err, domain.ErrInvalidConfiguration)

	_, err = New(100, 150)
	require.ErrorIs(t, err, domain.ErrInvalidConfiguration)
}

func TestNew_DefaultChunkSize(t *testing.T) {
	c, err := New(0, 50)
	require.NoError(t, err)
	assert.Equal(t, DefaultChunkSize, c.ChunkSize())
	assert.Equal(t, 50, c.Overlap())
}

func TestNew_NegativeOverlapMeansNoOverlap(t *testing.T) {
	// A negative overlap must not inflate to a default larger than a
	// small valid chunk size.
	c, err := New(30, -1)
	require.NoError(t, err)
	assert.Equal(t, 30, c.ChunkSize())
	assert.Equal(t, 0, c.Overlap())
}

func TestChunk_EmptyText(t *testing.T) {
	c, err := New(10, 2)
	require.NoError(t, err)

	assert.Empty(t, c.Chunk("", nil))
	assert.Empty(t, c.Chunk("   \n\t  ", nil))
}

func TestChunk_ShortTextSingleChunk(t *testing.T) {
	c, err := New(10, 2)
	require.NoError(t, err)

	chunks := c.Chunk("alpha beta gamma", nil)
	require.Len(t, chunks, 1)
	assert.Equal(t, "alpha beta gamma", chunks[0].Text)
	assert.Equal(t, 0, chunks[0].Index)
	assert.Equal(t, 0, chunks[0].OverlapSize)
	assert.Equal(t, 3, chunks[0].WordCount())
	assert.Nil(t, chunks[0].SourcePage)
}

func TestChunk_WindowsCoverAllWordsWithOverlap(t *testing.T) {
	c, err := New(10, 3)
	require.NoError(t, err)

	text := makeWords(25)
	chunks := c.Chunk(text, nil)

	// step = 7: windows start at 0, 7, 14, 21.
	require.Len(t, chunks, 4)

	for i, ch := range chunks {
		assert.Equal(t, i, ch.Index)
		assert.LessOrEqual(t, ch.WordCount(), 10)
		if i == 0 {
			assert.Equal(t, 0, ch.OverlapSize)
		} else {
			assert.Equal(t, 3, ch.OverlapSize)
			prev := chunks[i-1]
			shared := strings.Fields(prev.Text)[prev.WordCount()-3:]
			head := strings.Fields(ch.Text)[:3]
			assert.Equal(t, shared, head)
		}
	}

	// Every word appears in some chunk.
	last := chunks[len(chunks)-1]
	assert.Equal(t, 25, last.EndWord)
	assert.Contains(t, last.Text, "w24")
}

func TestChunk_ExactMultipleStopsAtEnd(t *testing.T) {
	c, err := New(5, 0)
	require.NoError(t, err)

	chunks := c.Chunk(makeWords(10), nil)
	require.Len(t, chunks, 2)
	assert.Equal(t, 5, chunks[0].WordCount())
	assert.Equal(t, 5, chunks[1].WordCount())
}

func TestChunk_Deterministic(t *testing.T) {
	c, err := New(8, 2)
	require.NoError(t, err)

	text := makeWords(40)
	a := c.Chunk(text, nil)
	b := c.Chunk(text, nil)
	assert.Equal(t, a, b)
}

func TestChunk_PageAttribution(t *testing.T) {
	c, err := New(4, 1)
	require.NoError(t, err)

	pages := []domain.PageText{
		{Number: 1, Content: makeWords(5)},
		{Number: 2, Content: "x0 x1 x2 x3 x4"},
	}
	text := pages[0].Content + " " + pages[1].Content

	chunks := c.Chunk(text, pages)
	require.NotEmpty(t, chunks)

	// First chunk starts on page 1.
	require.NotNil(t, chunks[0].SourcePage)
	assert.Equal(t, 1, *chunks[0].SourcePage)

	// A chunk starting past word 4 is attributed to page 2.
	for _, ch := range chunks {
		if ch.StartWord >= 5 {
			require.NotNil(t, ch.SourcePage)
			assert.Equal(t, 2, *ch.SourcePage)
		}
	}
}
