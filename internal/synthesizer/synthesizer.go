package synthesizer

import (
	"context"
	"fmt"
	"strings"

	"github.com/Anurooppatidar/EnergiIntel-Project/internal/domain"
)

const promptTemplate = `You are a senior Energy Sector Analyst. Answer the user question based ONLY on the provided technical context.

TECHNICAL CONTEXT:
%s

USER QUESTION:
%s

INSTRUCTIONS:
1. If the answer is not in the context, state: "The current technical documentation does not contain this information."
2. Use bullet points for technical specifications.
3. Maintain high professional standards.
4. Refer to the sources provided in brackets [Source: ...].`

// Analyst builds a grounding prompt from retrieved chunks and issues exactly
// one generation call. It implements domain.Synthesizer.
type Analyst struct {
	generator domain.Generator
}

func New(generator domain.Generator) *Analyst {
	return &Analyst{generator: generator}
}

// Synthesize answers the question from the supplied chunks, which must be in
// retrieval-rank order. Generation failures are surfaced, never retried.
func (a *Analyst) Synthesize(ctx context.Context, question string, chunks []domain.Chunk) (string, error) {
	return a.generator.Generate(ctx, buildPrompt(question, chunks))
}

// buildPrompt concatenates chunk texts in rank order, each prefixed by its
// source identifier, into the fixed instruction template.
func buildPrompt(question string, chunks []domain.Chunk) string {
	blocks := make([]string, 0, len(chunks))
	for _, c := range chunks {
		blocks = append(blocks, fmt.Sprintf("[Source: %s]\n%s", c.Source, c.Text))
	}
	grounding := strings.Join(blocks, "\n\n")
	return fmt.Sprintf(promptTemplate, grounding, question)
}
