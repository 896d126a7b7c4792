// Package transcriber is the client library for the transcription API.
// It probes audio duration locally, splits oversized files and fans the
// chunks out to the server.
package transcriber

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/katapod/transcribe/internal/audio"
	"golang.org/x/sync/errgroup"
)

type Transcriber struct {
	BaseURL string
	UserID  string
	// Files above this many bytes are split before upload.
	ChunkThreshold int64
	HTTPClient     *http.Client
}

func New(baseURL, userID string) *Transcriber {
	return &Transcriber{
		BaseURL:        strings.TrimRight(baseURL, "/"),
		UserID:         userID,
		ChunkThreshold: audio.DefaultChunkThreshold,
		HTTPClient: &http.Client{
			Timeout: 5 * time.Minute,
		},
	}
}

// FileData travels alongside the upload and drives billing on the server.
type FileData struct {
	Size           int64   `json:"size"`
	FileType       string  `json:"fileType"`
	Duration       float64 `json:"duration"`
	UserID         string  `json:"supabaseId"`
	IdempotencyKey string  `json:"idempotencyKey"`
	Prompt         string  `json:"prompt,omitempty"`
}

type PreparedFile struct {
	Name     string
	Data     []byte
	FileData FileData
}

type Options struct {
	Model  string
	Prompt string
}

type Result struct {
	Name string
	Text string
}

// PrepareFile probes the audio and attaches the metadata the server
// needs. Every call mints a fresh idempotency key, so retrying a failed
// upload with a re-prepared file bills again; reuse the prepared file to
// retry safely.
func (t *Transcriber) PrepareFile(name string, data []byte, contentType string) (*PreparedFile, error) {
	duration, err := audio.Duration(data)
	if err != nil {
		return nil, err
	}

	return &PreparedFile{
		Name: name,
		Data: data,
		FileData: FileData{
			Size:           int64(len(data)),
			FileType:       contentType,
			Duration:       duration,
			UserID:         t.UserID,
			IdempotencyKey: uuid.NewString(),
		},
	}, nil
}

// TranscribeAudio submits one prepared file and returns its transcript.
// No retries; the caller decides what a failure costs.
func (t *Transcriber) TranscribeAudio(ctx context.Context, file *PreparedFile, opts Options) (string, error) {
	fileData := file.FileData
	fileData.Prompt = opts.Prompt

	meta, err := json.Marshal(fileData)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	fw, err := writer.CreateFormFile("file", file.Name)
	if err != nil {
		return "", err
	}
	if _, err := fw.Write(file.Data); err != nil {
		return "", err
	}
	if err := writer.WriteField("fileData", string(meta)); err != nil {
		return "", err
	}
	if opts.Model != "" {
		if err := writer.WriteField("model", opts.Model); err != nil {
			return "", err
		}
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.BaseURL+"/api/transcribe", &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := t.HTTPClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("transcribe %s: status %d: %s", file.Name, resp.StatusCode, body)
	}

	var parsed struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", err
	}
	return parsed.Text, nil
}

// TranscribeAll splits every oversized file, submits all chunks at once
// and stitches each file's transcript back together in chunk order.
func (t *Transcriber) TranscribeAll(ctx context.Context, files []audio.File, opts Options) ([]Result, error) {
	results := make([]Result, len(files))
	texts := make([][]string, len(files))
	g, ctx := errgroup.WithContext(ctx)

	for i, f := range files {
		// Chunks past the first are raw byte ranges without a header,
		// so probe the duration once and apportion it by size.
		duration, err := audio.Duration(f.Data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.Name, err)
		}

		chunks := audio.Split(f, t.ChunkThreshold)
		texts[i] = make([]string, len(chunks))
		results[i].Name = f.Name

		for _, chunk := range chunks {
			i, f, chunk := i, f, chunk
			g.Go(func() error {
				prepared := &PreparedFile{
					Name: chunk.Name,
					Data: chunk.Data,
					FileData: FileData{
						Size:           int64(len(chunk.Data)),
						FileType:       chunk.ContentType,
						Duration:       duration * float64(len(chunk.Data)) / float64(len(f.Data)),
						UserID:         t.UserID,
						IdempotencyKey: uuid.NewString(),
					},
				}
				text, err := t.TranscribeAudio(ctx, prepared, opts)
				if err != nil {
					return err
				}
				texts[i][chunk.Index] = text
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	for i := range results {
		results[i].Text = strings.Join(texts[i], " ")
	}
	return results, nil
}
