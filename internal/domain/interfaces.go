package domain

import "context"

// Chunk is a bounded contiguous span of source text stored as one retrievable unit.
// Chunks are immutable once created; the vector index owns them after insertion.
type Chunk struct {
	Text   string
	Source string
	Index  int
}

// Entry pairs an embedding vector with the chunk it represents.
// It is the atomic unit of storage and retrieval.
type Entry struct {
	Vector []float32
	Chunk  Chunk
}

// Match is an index entry together with its similarity score against a query.
type Match struct {
	Entry Entry
	Score float32
}

// IngestStats reports the outcome of a successful document ingestion.
type IngestStats struct {
	ChunksAdded int
	TotalChunks int
}

// QueryResult is the answer to a question plus the deduplicated source
// identifiers of the chunks it was grounded in.
type QueryResult struct {
	Answer  string
	Sources []string
}

// Extractor converts uploaded bytes into plain text based on the filename suffix.
type Extractor interface {
	Extract(filename string, data []byte) (string, error)
}

// Splitter cuts text into overlapping bounded chunks suitable for embedding.
type Splitter interface {
	Split(text string) ([]string, error)
}

// Embedder converts text into fixed-length numeric vectors via an external model.
type Embedder interface {
	// EmbedBatch returns one vector per input text, in input order.
	// It either succeeds for the whole batch or fails without partial results.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	// Embed is the single-text convenience form used for queries.
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Generator produces text from a prompt via an external language model.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Index stores entries and supports nearest-neighbor similarity search.
// Entries are append-only for the lifetime of the index.
type Index interface {
	// Insert appends all entries atomically, or none of them.
	Insert(entries []Entry) error
	// Search returns up to k matches ordered by descending similarity,
	// ties broken by insertion order. An empty index yields an empty result.
	Search(vector []float32, k int) ([]Match, error)
	Len() int
	Dimension() int
}

// Synthesizer builds a grounded answer to a question from retrieved chunks.
type Synthesizer interface {
	Synthesize(ctx context.Context, question string, chunks []Chunk) (string, error)
}
