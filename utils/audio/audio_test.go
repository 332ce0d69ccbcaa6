package audio

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/Flilipp/Chatbot/core"
)

func TestPCMBytesToWavBytesHeader(t *testing.T) {
	pcm := make([]byte, 3200) // 100ms of 16kHz mono 16-bit
	wav, err := PCMBytesToWavBytes(pcm, 1, 16000)
	if err != nil {
		t.Fatalf("PCMBytesToWavBytes: %v", err)
	}

	if len(wav) != 44+len(pcm) {
		t.Fatalf("wav length = %d, want %d", len(wav), 44+len(pcm))
	}
	if !bytes.Equal(wav[0:4], []byte("RIFF")) || !bytes.Equal(wav[8:12], []byte("WAVE")) {
		t.Error("missing RIFF/WAVE markers")
	}
	if got := binary.LittleEndian.Uint32(wav[4:8]); got != uint32(36+len(pcm)) {
		t.Errorf("riff size = %d", got)
	}
	if got := binary.LittleEndian.Uint16(wav[22:24]); got != 1 {
		t.Errorf("channels = %d", got)
	}
	if got := binary.LittleEndian.Uint32(wav[24:28]); got != 16000 {
		t.Errorf("sample rate = %d", got)
	}
	if got := binary.LittleEndian.Uint32(wav[28:32]); got != 32000 {
		t.Errorf("byte rate = %d", got)
	}
	if got := binary.LittleEndian.Uint16(wav[34:36]); got != 16 {
		t.Errorf("bits per sample = %d", got)
	}
	if got := binary.LittleEndian.Uint32(wav[40:44]); got != uint32(len(pcm)) {
		t.Errorf("data size = %d", got)
	}
}

func TestPCMBytesToWavBytesValidation(t *testing.T) {
	cases := []struct {
		name       string
		pcm        []byte
		channels   int
		sampleRate int
	}{
		{"empty pcm", nil, 1, 16000},
		{"zero channels", []byte{0, 0}, 0, 16000},
		{"too many channels", []byte{0, 0}, 3, 16000},
		{"zero sample rate", []byte{0, 0}, 1, 0},
		{"odd length mono", []byte{0, 0, 0}, 1, 16000},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := PCMBytesToWavBytes(tc.pcm, tc.channels, tc.sampleRate); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestChunkToPCMDecodesG711(t *testing.T) {
	ulaw := decodeChunk(t, core.AudioChunk{Data: []byte{0x00, 0x7f}, Format: core.ULAW})
	if len(ulaw) != 4 {
		t.Errorf("ulaw decoded length = %d, want 4", len(ulaw))
	}
	alaw := decodeChunk(t, core.AudioChunk{Data: []byte{0x55, 0xd5}, Format: core.ALAW})
	if len(alaw) != 4 {
		t.Errorf("alaw decoded length = %d, want 4", len(alaw))
	}

	pcm := []byte{1, 2, 3, 4}
	out := decodeChunk(t, core.AudioChunk{Data: pcm, Format: core.PCM})
	if !bytes.Equal(out, pcm) {
		t.Errorf("pcm passthrough = %v", out)
	}
}

func decodeChunk(t *testing.T, chunk core.AudioChunk) []byte {
	t.Helper()
	out, err := ChunkToPCM(chunk)
	if err != nil {
		t.Fatalf("ChunkToPCM: %v", err)
	}
	return out
}

func TestChunksToWavConcatenates(t *testing.T) {
	chunks := []core.AudioChunk{
		{Data: []byte{1, 0, 2, 0}, SampleRate: 8000, Channels: 1, Format: core.PCM},
		{Data: []byte{3, 0}, SampleRate: 8000, Channels: 1, Format: core.PCM},
	}
	wav, err := ChunksToWav(chunks)
	if err != nil {
		t.Fatalf("ChunksToWav: %v", err)
	}
	if got := binary.LittleEndian.Uint32(wav[40:44]); got != 6 {
		t.Errorf("data size = %d, want 6", got)
	}
	if !bytes.Equal(wav[44:], []byte{1, 0, 2, 0, 3, 0}) {
		t.Errorf("payload = %v", wav[44:])
	}
}

func TestChunksToWavRejectsFormatMismatch(t *testing.T) {
	chunks := []core.AudioChunk{
		{Data: []byte{1, 0}, SampleRate: 8000, Channels: 1, Format: core.PCM},
		{Data: []byte{2, 0}, SampleRate: 16000, Channels: 1, Format: core.PCM},
	}
	if _, err := ChunksToWav(chunks); err == nil {
		t.Error("expected mismatch error")
	}
}

func TestChunksToWavEmpty(t *testing.T) {
	if _, err := ChunksToWav(nil); err == nil {
		t.Error("expected error for empty recording")
	}
}
