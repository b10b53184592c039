package service

import (
	"context"
	"log/slog"

	"github.com/Anurooppatidar/EnergiIntel-Project/internal/domain"
)

// Engine orchestrates the ingestion and query pipelines around the single
// shared vector index. It is the only component that mutates the index.
//
// Ingestion runs extract -> split -> embed -> insert; any stage failure aborts
// the whole operation and leaves the index unchanged. Queries run
// embed -> search -> synthesize. Provider calls never hold the index lock.
type Engine struct {
	extractor domain.Extractor
	splitter  domain.Splitter
	embedder  domain.Embedder
	synth     domain.Synthesizer
	index     domain.Index
	topK      int
	log       *slog.Logger
}

// New wires the pipeline components together. topK values below 1 fall back
// to 3 retrieved chunks per question.
func New(extractor domain.Extractor, splitter domain.Splitter, embedder domain.Embedder, synth domain.Synthesizer, index domain.Index, topK int, log *slog.Logger) *Engine {
	if topK <= 0 {
		topK = 3
	}
	if log == nil {
		log = slog.Default()
	}
	return &Engine{
		extractor: extractor,
		splitter:  splitter,
		embedder:  embedder,
		synth:     synth,
		index:     index,
		topK:      topK,
		log:       log,
	}
}

// Ingest extracts, chunks, embeds and indexes one uploaded document.
// Embedding happens before the index is touched, so a failed upload never
// leaves partial entries behind.
func (e *Engine) Ingest(ctx context.Context, filename string, data []byte) (domain.IngestStats, error) {
	content, err := e.extractor.Extract(filename, data)
	if err != nil {
		return domain.IngestStats{}, err
	}
	texts, err := e.splitter.Split(content)
	if err != nil {
		return domain.IngestStats{}, err
	}
	if len(texts) == 0 {
		return domain.IngestStats{}, domain.ErrEmptyContent
	}
	vectors, err := e.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return domain.IngestStats{}, err
	}
	entries := make([]domain.Entry, len(texts))
	for i := range texts {
		entries[i] = domain.Entry{
			Vector: vectors[i],
			Chunk:  domain.Chunk{Text: texts[i], Source: filename, Index: i},
		}
	}
	if err := e.index.Insert(entries); err != nil {
		return domain.IngestStats{}, err
	}
	stats := domain.IngestStats{ChunksAdded: len(entries), TotalChunks: e.index.Len()}
	e.log.Info("document indexed",
		"filename", filename,
		"chunks_added", stats.ChunksAdded,
		"total_chunks", stats.TotalChunks,
	)
	return stats, nil
}

// Ask answers a question grounded in previously indexed chunks. The empty
// index check runs before the question is embedded, avoiding a wasted
// provider call.
func (e *Engine) Ask(ctx context.Context, question string) (domain.QueryResult, error) {
	if e.index.Len() == 0 {
		return domain.QueryResult{}, domain.ErrIndexEmpty
	}
	vector, err := e.embedder.Embed(ctx, question)
	if err != nil {
		return domain.QueryResult{}, err
	}
	matches, err := e.index.Search(vector, e.topK)
	if err != nil {
		return domain.QueryResult{}, err
	}
	chunks := make([]domain.Chunk, len(matches))
	for i, m := range matches {
		chunks[i] = m.Entry.Chunk
	}
	answer, err := e.synth.Synthesize(ctx, question, chunks)
	if err != nil {
		return domain.QueryResult{}, err
	}
	return domain.QueryResult{Answer: answer, Sources: dedupeSources(chunks)}, nil
}

// ChunksIndexed returns the running count of indexed chunks.
func (e *Engine) ChunksIndexed() int {
	return e.index.Len()
}

// dedupeSources keeps each source identifier once, ordered by first
// appearance in retrieval rank.
func dedupeSources(chunks []domain.Chunk) []string {
	seen := make(map[string]struct{}, len(chunks))
	sources := make([]string, 0, len(chunks))
	for _, c := range chunks {
		if _, ok := seen[c.Source]; ok {
			continue
		}
		seen[c.Source] = struct{}{}
		sources = append(sources, c.Source)
	}
	return sources
}
