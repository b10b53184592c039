package memory

import (
	"math"
	"sort"
	"sync"

	"github.com/Anurooppatidar/EnergiIntel-Project/internal/domain"
)

// Compile-time check that the store satisfies the domain contract.
var _ domain.Index = (*Index)(nil)

// Index is an in-memory append-only vector index using brute-force cosine
// similarity. The first insert establishes the dimensionality for the
// lifetime of the index; entries are never removed or mutated.
//
// Inserts are mutually exclusive with each other and with searches; searches
// run concurrently with each other and always observe whole batches, never a
// partially-appended one.
type Index struct {
	mu        sync.RWMutex
	dimension int
	entries   []domain.Entry
}

func New() *Index { return &Index{} }

// Insert appends all entries atomically. Every vector is validated against
// the established dimensionality before anything is appended, so a mismatch
// anywhere in the batch leaves the index unchanged.
func (x *Index) Insert(entries []domain.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	x.mu.Lock()
	defer x.mu.Unlock()
	dim := x.dimension
	if dim == 0 {
		dim = len(entries[0].Vector)
	}
	for _, e := range entries {
		if len(e.Vector) != dim {
			return &domain.DimensionMismatchError{Expected: dim, Actual: len(e.Vector)}
		}
	}
	x.dimension = dim
	x.entries = append(x.entries, entries...)
	return nil
}

// Search returns the min(k, Len()) entries most similar to vector, ordered by
// descending cosine similarity. Exactly equal scores rank the earlier-inserted
// entry first, keeping results deterministic. An empty index yields an empty
// result, never an error.
func (x *Index) Search(vector []float32, k int) ([]domain.Match, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	// An empty index never errors, whatever the arguments.
	if len(x.entries) == 0 {
		return nil, nil
	}
	if k <= 0 {
		return nil, domain.ErrInvalidK
	}
	if len(vector) != x.dimension {
		return nil, &domain.DimensionMismatchError{Expected: x.dimension, Actual: len(vector)}
	}

	scores := make([]float32, len(x.entries))
	for i := range x.entries {
		scores[i] = cosine(x.entries[i].Vector, vector)
	}
	idxs := make([]int, len(x.entries))
	for i := range idxs {
		idxs[i] = i
	}
	sort.Slice(idxs, func(a, b int) bool {
		if scores[idxs[a]] != scores[idxs[b]] {
			return scores[idxs[a]] > scores[idxs[b]]
		}
		return idxs[a] < idxs[b]
	})

	if k > len(idxs) {
		k = len(idxs)
	}
	matches := make([]domain.Match, 0, k)
	for _, j := range idxs[:k] {
		matches = append(matches, domain.Match{Entry: x.entries[j], Score: scores[j]})
	}
	return matches, nil
}

// Len returns the number of indexed entries.
func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.entries)
}

// Dimension returns the established dimensionality, 0 before the first insert.
func (x *Index) Dimension() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.dimension
}

// cosine computes true cosine similarity rather than assuming unit vectors,
// so callers that skip normalization still rank correctly.
func cosine(a, b []float32) float32 {
	var dot, normA, normB float32
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (float32(math.Sqrt(float64(normA))) * float32(math.Sqrt(float64(normB))))
}
