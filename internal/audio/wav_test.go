package audio

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// encodeTestWAV builds a minimal PCM WAV: 16-bit mono at the given sample
// rate with dataBytes bytes of silence.
func encodeTestWAV(t *testing.T, dataBytes int, sampleRate uint32) []byte {
	t.Helper()

	buf := make([]byte, wavHeaderSize+dataBytes)
	copy(buf[0:4], "RIFF")
	binary.LittleEndian.PutUint32(buf[4:8], uint32(36+dataBytes))
	copy(buf[8:12], "WAVE")
	copy(buf[12:16], "fmt ")
	binary.LittleEndian.PutUint32(buf[16:20], 16)
	binary.LittleEndian.PutUint16(buf[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(buf[22:24], 1) // mono
	binary.LittleEndian.PutUint32(buf[24:28], sampleRate)
	binary.LittleEndian.PutUint32(buf[28:32], sampleRate*2)
	binary.LittleEndian.PutUint16(buf[32:34], 2)
	binary.LittleEndian.PutUint16(buf[34:36], 16)
	copy(buf[36:40], "data")
	binary.LittleEndian.PutUint32(buf[40:44], uint32(dataBytes))
	return buf
}

func TestDuration(t *testing.T) {
	tests := []struct {
		name       string
		dataBytes  int
		sampleRate uint32
		want       float64
	}{
		{name: "one second", dataBytes: 16000, sampleRate: 8000, want: 1},
		{name: "half second", dataBytes: 8000, sampleRate: 8000, want: 0.5},
		{name: "cd rate", dataBytes: 44100 * 2 * 3, sampleRate: 44100, want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := encodeTestWAV(t, tt.dataBytes, tt.sampleRate)

			got, err := Duration(data)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestDurationRejectsGarbage(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{name: "empty", data: nil},
		{name: "too short", data: []byte("RIFF")},
		{name: "wrong magic", data: make([]byte, wavHeaderSize+10)},
		{name: "truncated header", data: encodeTestWAV(t, 100, 8000)[:30]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Duration(tt.data)
			assert.ErrorIs(t, err, ErrDecode)
		})
	}
}
