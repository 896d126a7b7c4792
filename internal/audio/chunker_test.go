package audio

import (
	"bytes"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeFile(t *testing.T, size int64) File {
	t.Helper()
	data := make([]byte, size)
	for i := range data {
		data[i] = byte(i % 251)
	}
	return File{
		Name:        "meeting.wav",
		Data:        data,
		ContentType: "audio/wav",
		ModTime:     time.Unix(1700000000, 0),
	}
}

func TestSplitUndersizedPassesThrough(t *testing.T) {
	f := makeFile(t, 1024)

	chunks := Split(f, DefaultChunkThreshold)

	require.Len(t, chunks, 1)
	assert.Equal(t, "meeting.wav", chunks[0].Name)
	assert.Equal(t, f.Data, chunks[0].Data)
	assert.Equal(t, 1, chunks[0].Count)
}

func TestSplitAtThresholdPassesThrough(t *testing.T) {
	f := makeFile(t, DefaultChunkThreshold)

	chunks := Split(f, DefaultChunkThreshold)

	require.Len(t, chunks, 1)
	assert.Equal(t, f.Data, chunks[0].Data)
}

func TestSplitSixtyMegabytes(t *testing.T) {
	f := makeFile(t, 60_000_000)

	chunks := Split(f, 25_000_000)

	require.Len(t, chunks, 3)
	for i, c := range chunks {
		assert.Equal(t, 20_000_000, len(c.Data), "chunk %d size", i)
		assert.Equal(t, fmt.Sprintf("meeting.wav-%dof3", i+1), c.Name)
		assert.Equal(t, "audio/wav", c.ContentType)
		assert.Equal(t, f.ModTime, c.ModTime)
	}
}

func TestSplitProperties(t *testing.T) {
	threshold := int64(1000)
	sizes := []int64{1, 999, 1000, 1001, 1999, 2000, 2001, 5500, 9999}

	for _, size := range sizes {
		t.Run(fmt.Sprintf("size=%d", size), func(t *testing.T) {
			f := makeFile(t, size)
			chunks := Split(f, threshold)

			wantCount := int((size + threshold - 1) / threshold)
			require.Len(t, chunks, wantCount)

			var joined bytes.Buffer
			for i, c := range chunks {
				assert.LessOrEqual(t, int64(len(c.Data)), threshold)
				assert.Equal(t, i, c.Index)
				assert.Equal(t, wantCount, c.Count)
				joined.Write(c.Data)
			}
			// Concatenating chunks in order reproduces the input exactly.
			assert.Equal(t, f.Data, joined.Bytes())
		})
	}
}

// Splitting is a raw byte-range cut: a WAV file cut at 1000-byte boundaries
// loses its header alignment in every chunk after the first. This is the
// accepted trade-off, not a defect.
func TestSplitIsNotFrameAware(t *testing.T) {
	wav := encodeTestWAV(t, 4000, 8000)
	f := File{Name: "a.wav", Data: wav, ContentType: "audio/wav"}

	chunks := Split(f, 1000)
	require.Greater(t, len(chunks), 1)

	_, err := Duration(chunks[1].Data)
	assert.ErrorIs(t, err, ErrDecode)
}
