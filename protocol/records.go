// Package protocol implements the newline-delimited JSON chat stream wire
// format: one JSON record per line, each either a token fragment or a status
// notice.
package protocol

import (
	"fmt"

	"github.com/bytedance/sonic"

	"github.com/Flilipp/Chatbot/core"
)

// chatRecord is the union of all known record shapes. Token records look like
// {"message":{"content":"..."}}; status records like
// {"status":"searching","query":"..."}. Unknown status kinds are forwarded
// as-is for forward compatibility.
type chatRecord struct {
	Message *struct {
		Content string `json:"content"`
	} `json:"message"`
	Status string `json:"status"`
	Query  string `json:"query"`
	Detail string `json:"detail"`
}

// ParseRecord decodes one complete stream line into a StreamEvent. A line
// that is not valid JSON, or that matches no known shape, yields an error;
// callers skip such records without aborting the stream.
func ParseRecord(line []byte) (core.StreamEvent, error) {
	var rec chatRecord
	if err := sonic.Unmarshal(line, &rec); err != nil {
		return nil, fmt.Errorf("protocol: unmarshal record: %w", err)
	}
	if rec.Status != "" {
		detail := rec.Query
		if detail == "" {
			detail = rec.Detail
		}
		return &core.StatusEvent{Label: rec.Status, Detail: detail}, nil
	}
	if rec.Message != nil {
		return &core.TokenEvent{Text: rec.Message.Content}, nil
	}
	return nil, fmt.Errorf("protocol: record matches no known shape")
}

// ChatRequest is the body of a POST /chat call.
type ChatRequest struct {
	Messages     []core.ChatMessage `json:"messages"`
	SystemPrompt string             `json:"system_prompt,omitempty"`
}
