package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"recap/internal/meeting"
)

// apiClient talks to the daemon's HTTP API.
type apiClient struct {
	baseURL string
	http    *http.Client
}

func newAPIClient(address string) *apiClient {
	base := strings.TrimSpace(address)
	if !strings.Contains(base, "://") {
		base = "http://" + base
	}
	return &apiClient{
		baseURL: strings.TrimRight(base, "/"),
		http:    &http.Client{Timeout: 60 * time.Second},
	}
}

type meetingSummary struct {
	JobID     string    `json:"jobId"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	Error     string    `json:"error,omitempty"`
}

func (c *apiClient) health(ctx context.Context) error {
	var payload struct {
		Status string `json:"status"`
	}
	if err := c.getJSON(ctx, "/api/health", &payload); err != nil {
		return err
	}
	if payload.Status != "ok" {
		return fmt.Errorf("daemon reported status %q", payload.Status)
	}
	return nil
}

func (c *apiClient) submit(ctx context.Context, audioPath string) (*meetingSummary, error) {
	file, err := os.Open(audioPath)
	if err != nil {
		return nil, fmt.Errorf("open audio file: %w", err)
	}
	defer file.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("audio", filepath.Base(audioPath))
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("read audio file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/meetings", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, wrapConnectError(err, c.baseURL)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		return nil, decodeAPIError(resp)
	}
	var summary meetingSummary
	if err := json.NewDecoder(resp.Body).Decode(&summary); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &summary, nil
}

func (c *apiClient) meetings(ctx context.Context) ([]meetingSummary, error) {
	var payload struct {
		Meetings []meetingSummary `json:"meetings"`
	}
	if err := c.getJSON(ctx, "/api/meetings", &payload); err != nil {
		return nil, err
	}
	return payload.Meetings, nil
}

func (c *apiClient) meeting(ctx context.Context, id string) (*meeting.Job, error) {
	var job meeting.Job
	if err := c.getJSON(ctx, "/api/meetings/"+id, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

func (c *apiClient) report(ctx context.Context, id string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/meetings/"+id+"/report", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, wrapConnectError(err, c.baseURL)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, decodeAPIError(resp)
	}
	return io.ReadAll(resp.Body)
}

func (c *apiClient) getJSON(ctx context.Context, path string, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return wrapConnectError(err, c.baseURL)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return decodeAPIError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil && payload.Error != "" {
		return fmt.Errorf("%s (HTTP %d)", payload.Error, resp.StatusCode)
	}
	return fmt.Errorf("unexpected response: HTTP %d", resp.StatusCode)
}

func wrapConnectError(err error, baseURL string) error {
	return fmt.Errorf("connect to daemon at %s: %w; start it with `recap serve`", baseURL, err)
}
