package backend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/Flilipp/Chatbot/core"
	"github.com/Flilipp/Chatbot/protocol"
)

// StreamCompletion opens a chat request and returns the incremental event
// stream. The stream is finite and not restartable; issue a new call to
// retry. The response body is read with no timeout, only ctx cancellation
// applies.
func (c *Client) StreamCompletion(ctx context.Context, history []core.ChatMessage, systemPrompt string) (*CompletionStream, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/chat", protocol.ChatRequest{
		Messages:     history,
		SystemPrompt: systemPrompt,
	})
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/x-ndjson")

	resp, err := c.streamClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("backend: open chat stream: %w: %w", core.ErrNetwork, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, c.remoteError(resp)
	}

	return &CompletionStream{
		body:   resp.Body,
		logger: c.logger,
	}, nil
}

// CompletionStream yields StreamEvents parsed from a chunked NDJSON response
// body. One network read may close zero or more records; partial trailing
// bytes are carried across reads by the line framer.
type CompletionStream struct {
	body    io.ReadCloser
	framer  protocol.LineFramer
	pending []core.StreamEvent
	buf     [4096]byte
	done    bool
	logger  *core.Logger
}

// Recv returns the next stream event. It returns io.EOF when the stream is
// exhausted and a network error when the connection drops mid-stream.
// Records that fail to parse are logged and skipped, never fatal.
func (s *CompletionStream) Recv() (core.StreamEvent, error) {
	for {
		if len(s.pending) > 0 {
			ev := s.pending[0]
			s.pending = s.pending[1:]
			return ev, nil
		}
		if s.done {
			return nil, io.EOF
		}

		n, err := s.body.Read(s.buf[:])
		if n > 0 {
			for _, line := range s.framer.Push(s.buf[:n]) {
				s.queue(line)
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				// A final record without a trailing newline is still a record.
				if line := s.framer.Flush(); line != nil {
					s.queue(line)
				}
				s.done = true
				continue
			}
			return nil, fmt.Errorf("backend: read chat stream: %w: %w", core.ErrNetwork, err)
		}
	}
}

func (s *CompletionStream) queue(line []byte) {
	ev, err := protocol.ParseRecord(line)
	if err != nil {
		s.logger.Warn("skipping malformed stream record", "error", err)
		return
	}
	s.pending = append(s.pending, ev)
}

// Close releases the underlying response body.
func (s *CompletionStream) Close() error {
	return s.body.Close()
}
