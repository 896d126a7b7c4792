// Package audio provides byte-range chunking of upload files and a WAV
// duration probe. Splitting is format-agnostic: a cut may land mid-frame,
// which is accepted in exchange for predictable chunk sizes.
package audio

import (
	"fmt"
	"time"
)

// DefaultChunkThreshold is the largest file, in bytes, accepted unsplit by
// the upstream transcription API.
const DefaultChunkThreshold int64 = 25_000_000

// File is an in-memory upload candidate for splitting.
type File struct {
	Name        string
	Data        []byte
	ContentType string
	ModTime     time.Time
}

// Chunk is one contiguous byte range of a source file, renamed so the
// original ordering can be recovered after out-of-order transcription.
type Chunk struct {
	Name        string
	Data        []byte
	Index       int
	Count       int
	ContentType string
	ModTime     time.Time
}

// Split cuts f into the minimum number of contiguous chunks such that no
// chunk exceeds threshold bytes. Chunks are equal-sized except the last,
// which may be shorter. Files at or under the threshold pass through as a
// single chunk carrying the original name.
//
// partCount = ceil(size/threshold), partSize = ceil(size/partCount).
func Split(f File, threshold int64) []Chunk {
	size := int64(len(f.Data))
	if threshold <= 0 {
		threshold = DefaultChunkThreshold
	}

	if size <= threshold {
		return []Chunk{{
			Name:        f.Name,
			Data:        f.Data,
			Index:       0,
			Count:       1,
			ContentType: f.ContentType,
			ModTime:     f.ModTime,
		}}
	}

	partCount := ceilDiv(size, threshold)
	partSize := ceilDiv(size, partCount)

	chunks := make([]Chunk, 0, partCount)
	for i := int64(0); i < partCount; i++ {
		start := i * partSize
		end := start + partSize
		if end > size {
			end = size
		}
		chunks = append(chunks, Chunk{
			Name:        fmt.Sprintf("%s-%dof%d", f.Name, i+1, partCount),
			Data:        f.Data[start:end],
			Index:       int(i),
			Count:       int(partCount),
			ContentType: f.ContentType,
			ModTime:     f.ModTime,
		})
	}
	return chunks
}

func ceilDiv(a, b int64) int64 {
	return (a + b - 1) / b
}
