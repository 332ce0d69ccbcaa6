package protocol

import (
	"reflect"
	"testing"
)

func TestLineFramerSplitsCompletedLines(t *testing.T) {
	var f LineFramer
	lines := f.Push([]byte("{\"a\":1}\n{\"b\":2}\n"))
	want := []string{`{"a":1}`, `{"b":2}`}
	if got := asStrings(lines); !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestLineFramerBuffersPartialTrailingBytes(t *testing.T) {
	var f LineFramer

	lines := f.Push([]byte("{\"message\":{\"con"))
	if len(lines) != 0 {
		t.Fatalf("partial chunk yielded lines: %v", asStrings(lines))
	}

	lines = f.Push([]byte("tent\":\"Hi\"}}\n{\"next"))
	if got := asStrings(lines); !reflect.DeepEqual(got, []string{`{"message":{"content":"Hi"}}`}) {
		t.Errorf("got %v", got)
	}

	lines = f.Push([]byte("\":true}\n"))
	if got := asStrings(lines); !reflect.DeepEqual(got, []string{`{"next":true}`}) {
		t.Errorf("got %v", got)
	}
}

func TestLineFramerDropsEmptySegments(t *testing.T) {
	var f LineFramer
	lines := f.Push([]byte("\n\n{\"a\":1}\n\n\n"))
	if got := asStrings(lines); !reflect.DeepEqual(got, []string{`{"a":1}`}) {
		t.Errorf("got %v", got)
	}
}

func TestLineFramerFlush(t *testing.T) {
	var f LineFramer
	f.Push([]byte("{\"tail\":true}"))

	line := f.Flush()
	if string(line) != `{"tail":true}` {
		t.Errorf("flush returned %q", line)
	}
	if f.Flush() != nil {
		t.Error("second flush should return nil")
	}
}

func TestLineFramerFlushEmpty(t *testing.T) {
	var f LineFramer
	if f.Flush() != nil {
		t.Error("flush of empty framer should return nil")
	}
	f.Push([]byte("complete\n"))
	if f.Flush() != nil {
		t.Error("flush after complete line should return nil")
	}
}

func asStrings(lines [][]byte) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		out = append(out, string(l))
	}
	return out
}
