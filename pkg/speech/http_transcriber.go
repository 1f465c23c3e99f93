package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// HTTPTranscriber posts raw audio to a recognizer service that answers with
// {"text": "..."}, the shape vosk-server returns.
type HTTPTranscriber struct {
	url    string
	client *http.Client
}

type recognizeResponse struct {
	Text  string `json:"text"`
	Error string `json:"error,omitempty"`
}

func NewHTTPTranscriber(url string, timeout time.Duration) *HTTPTranscriber {
	return &HTTPTranscriber{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

func (t *HTTPTranscriber) Transcribe(ctx context.Context, audio []byte, contentType string) (string, error) {
	if len(audio) == 0 {
		return "", ErrEmptyAudio
	}
	if contentType == "" {
		contentType = "audio/wav"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.url, bytes.NewReader(audio))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("recognizer request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read recognizer response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("recognizer error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out recognizeResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("failed to decode recognizer response: %w", err)
	}
	if out.Error != "" {
		return "", fmt.Errorf("recognizer returned error: %s", out.Error)
	}

	text := strings.TrimSpace(out.Text)
	if text == "" {
		return "", ErrNoRecognized
	}
	return text, nil
}
