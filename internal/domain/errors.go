package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedFormat is returned for uploads whose filename suffix is
	// neither PDF nor plain text.
	ErrUnsupportedFormat = errors.New("only PDF and TXT files are supported")

	// ErrEmptyContent is returned when extraction yields no usable text.
	ErrEmptyContent = errors.New("document appears to be empty or unreadable")

	// ErrEmbeddingUnavailable indicates the embedding provider could not be
	// used, including a missing credential.
	ErrEmbeddingUnavailable = errors.New("embedding provider unavailable")

	// ErrGenerationUnavailable indicates the language model call failed.
	ErrGenerationUnavailable = errors.New("generation provider unavailable")

	// ErrIndexEmpty is returned for queries before any successful ingestion.
	ErrIndexEmpty = errors.New("vector index is empty, upload documents first")

	// ErrInvalidK is returned when a search is requested with k < 1.
	ErrInvalidK = errors.New("k must be positive")

	// ErrTimeout indicates an external call exceeded its deadline.
	ErrTimeout = errors.New("external call timed out")
)

// DimensionMismatchError indicates a vector whose length disagrees with the
// index's established dimensionality.
type DimensionMismatchError struct {
	Expected int
	Actual   int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}
