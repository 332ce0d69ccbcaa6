package backend

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/Flilipp/Chatbot/core"
)

// Synthesize submits text for speech synthesis and returns the raw audio
// payload.
func (c *Client) Synthesize(ctx context.Context, text string) ([]byte, error) {
	body := struct {
		Text string `json:"text"`
	}{Text: text}

	req, err := c.newRequest(ctx, http.MethodPost, "/synthesize", body)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("backend: synthesize: %w: %w", core.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.remoteError(resp)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("backend: read synthesized audio: %w", err)
	}
	return audio, nil
}
