package backend

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/Flilipp/Chatbot/core"
)

// Transcribe submits one audio payload for speech recognition and returns
// the recognized text, possibly empty.
func (c *Client) Transcribe(ctx context.Context, wav []byte) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", "recording.wav")
	if err != nil {
		return "", fmt.Errorf("backend: build multipart body: %w", err)
	}
	if _, err := part.Write(wav); err != nil {
		return "", fmt.Errorf("backend: write audio payload: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("backend: finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/transcribe", &body)
	if err != nil {
		return "", fmt.Errorf("backend: build request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	token, err := c.creds.Token(ctx)
	if err != nil {
		return "", fmt.Errorf("backend: resolve credential: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("backend: transcribe: %w: %w", core.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", c.remoteError(resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("backend: read transcription: %w", err)
	}
	var out struct {
		Transcription string `json:"transcription"`
	}
	if err := sonic.Unmarshal(data, &out); err != nil {
		return "", fmt.Errorf("backend: decode transcription: %w", err)
	}
	return strings.TrimSpace(out.Transcription), nil
}
