package synthesizer

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Anurooppatidar/EnergiIntel-Project/internal/domain"
)

type captureGenerator struct {
	prompt string
	calls  int
	reply  string
	err    error
}

func (g *captureGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.calls++
	g.prompt = prompt
	return g.reply, g.err
}

func TestSynthesizeBuildsGroundedPrompt(t *testing.T) {
	gen := &captureGenerator{reply: "The turbine efficiency is 94% [Source: report.txt]."}
	a := New(gen)

	chunks := []domain.Chunk{
		{Text: "The turbine efficiency is 94%.", Source: "report.txt", Index: 0},
		{Text: "Coolant pressure must exceed 12 bar.", Source: "specs.pdf", Index: 2},
	}
	answer, err := a.Synthesize(context.Background(), "What is the turbine efficiency?", chunks)
	require.NoError(t, err)
	assert.Equal(t, gen.reply, answer)
	assert.Equal(t, 1, gen.calls, "exactly one generation call")

	assert.Contains(t, gen.prompt, "[Source: report.txt]\nThe turbine efficiency is 94%.")
	assert.Contains(t, gen.prompt, "[Source: specs.pdf]\nCoolant pressure must exceed 12 bar.")
	assert.Contains(t, gen.prompt, "What is the turbine efficiency?")
	assert.Contains(t, gen.prompt, "does not contain this information")

	// Chunks appear in retrieval-rank order.
	first := strings.Index(gen.prompt, "report.txt")
	second := strings.Index(gen.prompt, "specs.pdf")
	assert.Less(t, first, second)
}

func TestSynthesizePropagatesGenerationFailure(t *testing.T) {
	gen := &captureGenerator{err: domain.ErrGenerationUnavailable}
	a := New(gen)

	_, err := a.Synthesize(context.Background(), "q", []domain.Chunk{{Text: "t", Source: "s.txt"}})
	assert.ErrorIs(t, err, domain.ErrGenerationUnavailable)
	assert.Equal(t, 1, gen.calls, "no retry on failure")
}
