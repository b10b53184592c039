package chunker

import (
	"errors"
	"fmt"
	"unicode"
)

// Boundary preference per tier: paragraph, line, sentence, word.
// Within a tier the cut closest to the size limit wins.
var separatorTiers = [][][]rune{
	{[]rune("\n\n")},
	{[]rune("\n")},
	{[]rune(". "), []rune("! "), []rune("? ")},
	{[]rune(" ")},
}

// Splitter cuts text into chunks of at most ChunkSize characters, consecutive
// chunks sharing Overlap characters of source text. Splitting is pure and
// deterministic: identical input always yields the identical chunk sequence.
type Splitter struct {
	chunkSize int
	overlap   int
}

// New validates the configuration and returns a Splitter. Overlap must be
// strictly smaller than the chunk size or splitting could not make progress.
func New(chunkSize, overlap int) (*Splitter, error) {
	if chunkSize <= 0 {
		return nil, errors.New("chunk size must be positive")
	}
	if overlap < 0 {
		return nil, errors.New("overlap must not be negative")
	}
	if overlap >= chunkSize {
		return nil, fmt.Errorf("overlap %d must be smaller than chunk size %d", overlap, chunkSize)
	}
	return &Splitter{chunkSize: chunkSize, overlap: overlap}, nil
}

// Split returns the chunk sequence for text. Every chunk is a contiguous span
// of the source; a chunk exceeds the size limit only when it terminates in a
// single indivisible token longer than the limit, which is kept whole rather
// than truncated.
func (s *Splitter) Split(text string) ([]string, error) {
	runes := []rune(text)
	n := len(runes)
	if n == 0 {
		return nil, nil
	}
	var chunks []string
	start := 0
	for {
		if n-start <= s.chunkSize {
			chunks = append(chunks, string(runes[start:]))
			break
		}
		end := s.cut(runes, start)
		chunks = append(chunks, string(runes[start:end]))
		if end >= n {
			break
		}
		// A cut forced before the overlap region (short chunk ahead of a
		// window-straddling token) yields no shared text for this pair.
		next := end - s.overlap
		if next <= start {
			next = end
		}
		start = next
	}
	return chunks, nil
}

// cut chooses where the chunk starting at start ends. The cut must advance
// past the overlap region so the next chunk starts strictly after this one.
func (s *Splitter) cut(runes []rune, start int) int {
	limit := start + s.chunkSize
	minEnd := start + s.overlap + 1
	window := runes[start:limit]
	for _, tier := range separatorTiers {
		best := -1
		for _, sep := range tier {
			if c := lastCut(window, sep, minEnd-start); c > best {
				best = c
			}
		}
		if best >= 0 {
			return start + best
		}
	}
	// No boundary in range: the window edge falls inside a token. When the
	// token itself fits within the limit, end the chunk at its start and
	// let it open the next chunk. Only a token longer than the limit is
	// kept whole as an oversized chunk.
	tokenStart := limit
	for tokenStart > start && !unicode.IsSpace(runes[tokenStart-1]) {
		tokenStart--
	}
	tokenEnd := limit
	for tokenEnd < len(runes) && !unicode.IsSpace(runes[tokenEnd]) {
		tokenEnd++
	}
	if tokenStart > start && tokenEnd-tokenStart <= s.chunkSize {
		return tokenStart
	}
	return tokenEnd
}

// lastCut returns the largest offset directly after an occurrence of sep in
// window that is at least minOff, or -1 if no such occurrence exists.
func lastCut(window, sep []rune, minOff int) int {
	for i := len(window) - len(sep); i >= 0; i-- {
		if i+len(sep) < minOff {
			return -1
		}
		if matchAt(window, sep, i) {
			return i + len(sep)
		}
	}
	return -1
}

func matchAt(window, sep []rune, at int) bool {
	for j := range sep {
		if window[at+j] != sep[j] {
			return false
		}
	}
	return true
}
