package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsBadConfig(t *testing.T) {
	_, err := New(0, 0)
	assert.Error(t, err)

	_, err = New(100, -1)
	assert.Error(t, err)

	_, err = New(100, 100)
	assert.Error(t, err, "overlap equal to chunk size must fail fast")

	_, err = New(100, 150)
	assert.Error(t, err)
}

func TestSplitEmptyText(t *testing.T) {
	s, err := New(800, 120)
	require.NoError(t, err)

	chunks, err := s.Split("")
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestSplitShortTextSingleChunk(t *testing.T) {
	s, err := New(800, 120)
	require.NoError(t, err)

	text := "The turbine efficiency is 94%. Coolant pressure must exceed 12 bar."
	chunks, err := s.Split(text)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, text, chunks[0])
}

func TestSplitDeterministic(t *testing.T) {
	s, err := New(120, 30)
	require.NoError(t, err)

	text := strings.Repeat("Grid load peaked at noon. Reserve margins held. ", 40)
	first, err := s.Split(text)
	require.NoError(t, err)
	second, err := s.Split(text)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSplitRespectsChunkSize(t *testing.T) {
	s, err := New(100, 20)
	require.NoError(t, err)

	text := strings.Repeat("Substation telemetry shows nominal values across feeders. ", 30)
	chunks, err := s.Split(text)
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)
	for i, c := range chunks {
		assert.LessOrEqual(t, len([]rune(c)), 100, "chunk %d", i)
	}
}

func TestSplitOverlapInvariant(t *testing.T) {
	const overlap = 25
	s, err := New(90, overlap)
	require.NoError(t, err)

	text := strings.Repeat("Relay settings verified. Breaker duty within limits. ", 25)
	chunks, err := s.Split(text)
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)

	for i := 0; i < len(chunks)-1; i++ {
		cur := []rune(chunks[i])
		next := []rune(chunks[i+1])
		require.GreaterOrEqual(t, len(cur), overlap)
		require.GreaterOrEqual(t, len(next), overlap)
		tail := string(cur[len(cur)-overlap:])
		head := string(next[:overlap])
		assert.Equal(t, tail, head, "chunks %d and %d do not share overlap", i, i+1)
	}
}

func TestSplitPrefersParagraphBoundary(t *testing.T) {
	s, err := New(100, 10)
	require.NoError(t, err)

	para1 := strings.Repeat("a", 80)
	para2 := strings.Repeat("b", 80)
	chunks, err := s.Split(para1 + "\n\n" + para2)
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)
	assert.Equal(t, para1+"\n\n", chunks[0])
}

func TestSplitOversizedTokenKeptWhole(t *testing.T) {
	s, err := New(50, 10)
	require.NoError(t, err)

	token := strings.Repeat("x", 200)
	chunks, err := s.Split(token)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, token, chunks[0])
}

func TestSplitOversizedTokenMidText(t *testing.T) {
	s, err := New(50, 10)
	require.NoError(t, err)

	token := strings.Repeat("y", 120)
	text := "short intro. " + token + " short outro."
	chunks, err := s.Split(text)
	require.NoError(t, err)

	var found bool
	for _, c := range chunks {
		if strings.Contains(c, token) {
			found = true
		}
	}
	assert.True(t, found, "the indivisible token must survive splitting intact")
}

func TestSplitTokenStraddlingWindowEdge(t *testing.T) {
	s, err := New(50, 10)
	require.NoError(t, err)

	// A 48-rune token begins near the window start and crosses the window
	// edge. It fits in a chunk of its own, so no chunk may exceed the size.
	token := strings.Repeat("y", 48)
	text := "ab " + token + " trailing words here."
	chunks, err := s.Split(text)
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)

	for i, c := range chunks {
		assert.LessOrEqual(t, len([]rune(c)), 50, "chunk %d", i)
	}

	var found bool
	for _, c := range chunks {
		if strings.Contains(c, token) {
			found = true
		}
	}
	assert.True(t, found, "the token must land intact in one chunk")
}

func TestSplitCoversWholeSource(t *testing.T) {
	s, err := New(70, 15)
	require.NoError(t, err)

	text := strings.Repeat("Coolant loop pressure steady at twelve bar today. ", 20)
	chunks, err := s.Split(text)
	require.NoError(t, err)

	// Chunks are contiguous source windows: stitching them back together,
	// dropping each leading overlap, must reproduce the source exactly.
	var sb strings.Builder
	for i, c := range chunks {
		runes := []rune(c)
		if i == 0 {
			sb.WriteString(c)
			continue
		}
		sb.WriteString(string(runes[15:]))
	}
	assert.Equal(t, text, sb.String())
}
