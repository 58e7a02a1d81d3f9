package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"recap/internal/meeting"
)

type transcriptionResponse struct {
	Text     string `json:"text"`
	Language string `json:"language"`
	Segments []struct {
		Text  string  `json:"text"`
		Start float64 `json:"start"`
		End   float64 `json:"end"`
	} `json:"segments"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Transcribe uploads the audio file and returns the transcript with
// time-aligned segments. Each attempt runs under its own timeout and
// transient failures are retried with linear backoff.
func (c *Client) Transcribe(ctx context.Context, audioPath string) (meeting.Transcript, error) {
	var empty meeting.Transcript
	if !c.Configured() {
		return empty, fmt.Errorf("openai transcribe: api key required")
	}

	retries := c.transcribeRetries()
	var lastErr error
	for attempt := 1; attempt <= retries; attempt++ {
		transcript, err := c.transcribeOnce(ctx, audioPath)
		if err == nil {
			return transcript, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
		if attempt < retries {
			c.sleeper(time.Duration(attempt) * defaultRetryBaseDelay)
		}
	}
	return empty, fmt.Errorf("openai transcribe: %d attempts failed: %w", retries, lastErr)
}

func (c *Client) transcribeOnce(ctx context.Context, audioPath string) (meeting.Transcript, error) {
	var empty meeting.Transcript

	attemptCtx, cancel := context.WithTimeout(ctx, c.transcribeTimeout())
	defer cancel()

	file, err := os.Open(audioPath)
	if err != nil {
		return empty, fmt.Errorf("open audio: %w", err)
	}
	defer file.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return empty, fmt.Errorf("build form: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return empty, fmt.Errorf("read audio: %w", err)
	}
	if err := writer.WriteField("model", c.cfg.TranscribeModel); err != nil {
		return empty, fmt.Errorf("build form: %w", err)
	}
	if lang := strings.TrimSpace(c.cfg.Language); lang != "" {
		if err := writer.WriteField("language", lang); err != nil {
			return empty, fmt.Errorf("build form: %w", err)
		}
	}
	if err := writer.WriteField("response_format", "verbose_json"); err != nil {
		return empty, fmt.Errorf("build form: %w", err)
	}
	if err := writer.Close(); err != nil {
		return empty, fmt.Errorf("build form: %w", err)
	}

	endpoint, err := url.JoinPath(c.cfg.BaseURL, "/audio/transcriptions")
	if err != nil {
		return empty, fmt.Errorf("build url: %w", err)
	}
	req, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, endpoint, &body)
	if err != nil {
		return empty, fmt.Errorf("request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return empty, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return empty, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return empty, fmt.Errorf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(payload)))
	}

	var decoded transcriptionResponse
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return empty, fmt.Errorf("decode response: %w", err)
	}
	if decoded.Error != nil {
		return empty, fmt.Errorf("api error: %s", strings.TrimSpace(decoded.Error.Message))
	}
	if strings.TrimSpace(decoded.Text) == "" {
		return empty, fmt.Errorf("empty transcript")
	}

	transcript := meeting.Transcript{Text: strings.TrimSpace(decoded.Text)}
	for _, segment := range decoded.Segments {
		transcript.Segments = append(transcript.Segments, meeting.Segment{
			Text:  strings.TrimSpace(segment.Text),
			Start: segment.Start,
			End:   segment.End,
		})
	}
	return transcript, nil
}
