package protocol

import "bytes"

// LineFramer reassembles newline-delimited records from arbitrary read
// boundaries. A network chunk may end in the middle of a record; the trailing
// partial bytes are buffered until the rest arrives. Never assume a read
// boundary aligns with a record boundary.
type LineFramer struct {
	rem []byte
}

// Push feeds one network chunk into the framer and returns every completed
// line it closes, in order. Empty segments are dropped.
func (f *LineFramer) Push(chunk []byte) [][]byte {
	if len(chunk) == 0 {
		return nil
	}
	data := chunk
	if len(f.rem) > 0 {
		data = append(f.rem, chunk...)
		f.rem = nil
	}

	var lines [][]byte
	for {
		idx := bytes.IndexByte(data, '\n')
		if idx < 0 {
			break
		}
		line := bytes.TrimSpace(data[:idx])
		if len(line) > 0 {
			out := make([]byte, len(line))
			copy(out, line)
			lines = append(lines, out)
		}
		data = data[idx+1:]
	}
	if len(data) > 0 {
		f.rem = append(f.rem[:0], data...)
	}
	return lines
}

// Flush returns the buffered trailing bytes, if any, as a final line. Called
// once at end-of-stream for payloads whose last record lacks a newline.
func (f *LineFramer) Flush() []byte {
	line := bytes.TrimSpace(f.rem)
	f.rem = nil
	if len(line) == 0 {
		return nil
	}
	return line
}
