package protocol

import (
	"testing"

	"github.com/Flilipp/Chatbot/core"
)

func TestParseRecord(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    core.StreamEvent
		wantErr bool
	}{
		{
			name: "token record",
			line: `{"message":{"content":"Hi"}}`,
			want: &core.TokenEvent{Text: "Hi"},
		},
		{
			name: "empty token",
			line: `{"message":{"content":""}}`,
			want: &core.TokenEvent{Text: ""},
		},
		{
			name: "searching status",
			line: `{"status":"searching","query":"weather"}`,
			want: &core.StatusEvent{Label: "searching", Detail: "weather"},
		},
		{
			name: "forward-compatible status kind",
			line: `{"status":"reading","detail":"docs"}`,
			want: &core.StatusEvent{Label: "reading", Detail: "docs"},
		},
		{
			name:    "not json",
			line:    `garbage{`,
			wantErr: true,
		},
		{
			name:    "unknown shape",
			line:    `{"something":"else"}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRecord([]byte(tt.line))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %#v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			switch want := tt.want.(type) {
			case *core.TokenEvent:
				tok, ok := got.(*core.TokenEvent)
				if !ok || tok.Text != want.Text {
					t.Errorf("got %#v, want %#v", got, want)
				}
			case *core.StatusEvent:
				st, ok := got.(*core.StatusEvent)
				if !ok || st.Label != want.Label || st.Detail != want.Detail {
					t.Errorf("got %#v, want %#v", got, want)
				}
			}
		})
	}
}

func TestStatusEventDisplay(t *testing.T) {
	searching := &core.StatusEvent{Label: "searching", Detail: "pogoda"}
	if got := searching.Display(); got != "🔎 Wyszukiwanie: pogoda" {
		t.Errorf("searching display = %q", got)
	}

	unknown := &core.StatusEvent{Label: "reading", Detail: "docs"}
	if got := unknown.Display(); got != "reading: docs" {
		t.Errorf("unknown display = %q", got)
	}
}
