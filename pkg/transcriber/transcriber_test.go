package transcriber

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/katapod/transcribe/internal/audio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeWAV(t *testing.T, dataBytes int, sampleRate uint32) []byte {
	t.Helper()

	buf := make([]byte, 44+dataBytes)
	copy(buf[0:4], "RIFF")
	binary.LittleEndian.PutUint32(buf[4:8], uint32(36+dataBytes))
	copy(buf[8:12], "WAVE")
	copy(buf[12:16], "fmt ")
	binary.LittleEndian.PutUint32(buf[16:20], 16)
	binary.LittleEndian.PutUint16(buf[20:22], 1)
	binary.LittleEndian.PutUint16(buf[22:24], 1)
	binary.LittleEndian.PutUint32(buf[24:28], sampleRate)
	binary.LittleEndian.PutUint32(buf[28:32], sampleRate*2)
	binary.LittleEndian.PutUint16(buf[32:34], 2)
	binary.LittleEndian.PutUint16(buf[34:36], 16)
	copy(buf[36:40], "data")
	binary.LittleEndian.PutUint32(buf[40:44], uint32(dataBytes))
	return buf
}

func TestPrepareFile(t *testing.T) {
	tr := New("http://localhost:8080", "user-1")
	wav := encodeWAV(t, 16000, 8000) // one second

	prepared, err := tr.PrepareFile("a.wav", wav, "audio/wav")
	require.NoError(t, err)
	assert.Equal(t, "a.wav", prepared.Name)
	assert.EqualValues(t, len(wav), prepared.FileData.Size)
	assert.InDelta(t, 1.0, prepared.FileData.Duration, 1e-9)
	assert.Equal(t, "user-1", prepared.FileData.UserID)
	assert.Len(t, prepared.FileData.IdempotencyKey, 36)

	// Each preparation is a separate billing attempt.
	again, err := tr.PrepareFile("a.wav", wav, "audio/wav")
	require.NoError(t, err)
	assert.NotEqual(t, prepared.FileData.IdempotencyKey, again.FileData.IdempotencyKey)
}

func TestPrepareFileRejectsGarbage(t *testing.T) {
	tr := New("http://localhost:8080", "user-1")

	_, err := tr.PrepareFile("junk.bin", []byte("not audio"), "application/octet-stream")
	assert.ErrorIs(t, err, audio.ErrDecode)
}

func TestTranscribeAudio(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/transcribe", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1 << 20))

		var meta FileData
		require.NoError(t, json.Unmarshal([]byte(r.FormValue("fileData")), &meta))
		assert.Equal(t, "user-1", meta.UserID)
		assert.NotEmpty(t, meta.IdempotencyKey)
		assert.Equal(t, "gpt-4o-transcribe", r.FormValue("model"))

		file, _, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		data, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.NotEmpty(t, data)

		_, _ = w.Write([]byte(`{"text":"hello"}`))
	}))
	defer srv.Close()

	tr := New(srv.URL, "user-1")
	prepared, err := tr.PrepareFile("a.wav", encodeWAV(t, 8000, 8000), "audio/wav")
	require.NoError(t, err)

	text, err := tr.TranscribeAudio(context.Background(), prepared, Options{Model: "gpt-4o-transcribe"})
	require.NoError(t, err)
	assert.Equal(t, "hello", text)
}

func TestTranscribeAudioServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"type":"internal_error"}}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	tr := New(srv.URL, "user-1")
	prepared, err := tr.PrepareFile("a.wav", encodeWAV(t, 8000, 8000), "audio/wav")
	require.NoError(t, err)

	_, err = tr.TranscribeAudio(context.Background(), prepared, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestTranscribeAllReassemblesChunksInOrder(t *testing.T) {
	var mu sync.Mutex
	var keys []string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1 << 20))
		_, header, err := r.FormFile("file")
		require.NoError(t, err)

		var meta FileData
		require.NoError(t, json.Unmarshal([]byte(r.FormValue("fileData")), &meta))
		mu.Lock()
		keys = append(keys, meta.IdempotencyKey)
		mu.Unlock()

		// Echo the chunk name so ordering is observable.
		_, _ = w.Write([]byte(fmt.Sprintf(`{"text":"[%s]"}`, header.Filename)))
	}))
	defer srv.Close()

	tr := New(srv.URL, "user-1")
	tr.ChunkThreshold = 6000

	wav := encodeWAV(t, 16000, 8000)
	results, err := tr.TranscribeAll(context.Background(), []audio.File{
		{Name: "big.wav", Data: wav, ContentType: "audio/wav"},
	}, Options{})
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, "big.wav", results[0].Name)
	assert.Equal(t, "[big.wav-1of3] [big.wav-2of3] [big.wav-3of3]", results[0].Text)

	// Every chunk billed under its own key.
	seen := map[string]bool{}
	for _, k := range keys {
		assert.False(t, seen[k])
		seen[k] = true
	}
	assert.Len(t, keys, 3)
}

func TestTranscribeAllSmallFilePassesThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1 << 20))
		_, header, err := r.FormFile("file")
		require.NoError(t, err)
		assert.Equal(t, "small.wav", header.Filename)
		_, _ = w.Write([]byte(`{"text":"tiny"}`))
	}))
	defer srv.Close()

	tr := New(srv.URL, "user-1")

	results, err := tr.TranscribeAll(context.Background(), []audio.File{
		{Name: "small.wav", Data: encodeWAV(t, 4000, 8000), ContentType: "audio/wav"},
	}, Options{})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "tiny", results[0].Text)
}
