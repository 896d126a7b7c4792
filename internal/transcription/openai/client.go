// Package openai talks to an OpenAI-compatible audio transcription endpoint.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/katapod/transcribe/internal/config"
	"github.com/katapod/transcribe/internal/transcription/domain"
	"go.uber.org/zap"
)

type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
	log        *zap.Logger
}

func New(cfg *config.Config, logger *zap.Logger) domain.Upstream {
	return &Client{
		endpoint: cfg.TranscribeEndpoint,
		apiKey:   cfg.TranscribeAPIKey,
		httpClient: &http.Client{
			Timeout: cfg.TranscribeTimeout,
		},
		log: logger.Named("transcription.openai"),
	}
}

func (c *Client) Transcribe(ctx context.Context, fileName string, data []byte, model, prompt string) (string, error) {
	body, contentType, err := buildForm(fileName, data, model, prompt)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrNetwork, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrNetwork, err)
	}

	if resp.StatusCode != http.StatusOK {
		c.log.Warn("inference request rejected",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", truncate(respBody, 512)),
		)
		return "", fmt.Errorf("%w: status %d", domain.ErrResponse, resp.StatusCode)
	}

	var parsed struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrResponse, err)
	}
	if parsed.Text == "" {
		return "", fmt.Errorf("%w: empty transcript", domain.ErrResponse)
	}
	return parsed.Text, nil
}

func buildForm(fileName string, data []byte, model, prompt string) (io.Reader, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	fw, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return nil, "", err
	}
	if _, err := fw.Write(data); err != nil {
		return nil, "", err
	}

	if err := writer.WriteField("model", model); err != nil {
		return nil, "", err
	}
	if prompt != "" {
		if err := writer.WriteField("prompt", prompt); err != nil {
			return nil, "", err
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return &buf, writer.FormDataContentType(), nil
}

func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}
