// Package audio converts captured audio into the single WAV payload the
// transcription services expect. Capture devices deliver 16-bit PCM or G.711
// µ-law/A-law frames; everything is normalized to PCM before packaging.
package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/zaf/g711"

	"github.com/Flilipp/Chatbot/core"
)

// Pool for WAV header buffers (typically 44-46 bytes)
var wavHeaderPool = sync.Pool{
	New: func() interface{} {
		return bytes.NewBuffer(make([]byte, 0, 64))
	},
}

func getWavHeaderBuffer() *bytes.Buffer {
	return wavHeaderPool.Get().(*bytes.Buffer)
}

func putWavHeaderBuffer(buf *bytes.Buffer) {
	buf.Reset()
	wavHeaderPool.Put(buf)
}

// ULawBytesToPCM converts µ-law encoded bytes to 16-bit PCM.
func ULawBytesToPCM(uBytes []byte) []byte {
	return g711.DecodeUlaw(uBytes)
}

// ALawBytesToPCM converts A-law encoded bytes to 16-bit PCM.
func ALawBytesToPCM(aBytes []byte) []byte {
	return g711.DecodeAlaw(aBytes)
}

// ChunkToPCM normalizes one captured chunk to 16-bit PCM.
func ChunkToPCM(chunk core.AudioChunk) ([]byte, error) {
	switch chunk.Format {
	case core.PCM:
		return chunk.Data, nil
	case core.ULAW:
		return ULawBytesToPCM(chunk.Data), nil
	case core.ALAW:
		return ALawBytesToPCM(chunk.Data), nil
	default:
		return nil, fmt.Errorf("unsupported audio format: %d", chunk.Format)
	}
}

// PCMBytesToWavBytes wraps raw 16-bit PCM in a WAV container.
func PCMBytesToWavBytes(pcm []byte, numChannels, sampleRate int) ([]byte, error) {
	if len(pcm) == 0 {
		return nil, errors.New("PCM data is empty")
	}
	if numChannels <= 0 || numChannels > 2 {
		return nil, errors.New("only mono (1) or stereo (2) channels supported")
	}
	if sampleRate <= 0 {
		return nil, errors.New("sample rate must be positive")
	}
	if len(pcm)%(2*numChannels) != 0 {
		return nil, errors.New("PCM data length doesn't match channel count")
	}

	// Get buffer from pool
	buf := getWavHeaderBuffer()
	defer putWavHeaderBuffer(buf)

	// WAV format constants
	const (
		bitsPerSample  = 16
		audioFormatPCM = 1
		subchunk1Size  = 16
	)

	blockAlign := numChannels * bitsPerSample / 8
	byteRate := sampleRate * blockAlign
	dataSize := len(pcm)
	fileSize := 36 + dataSize // 36 = WAV header size

	// Write RIFF header
	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, uint32(fileSize))
	buf.WriteString("WAVE")

	// Write fmt sub-chunk
	buf.WriteString("fmt ")
	binary.Write(buf, binary.LittleEndian, uint32(subchunk1Size))
	binary.Write(buf, binary.LittleEndian, uint16(audioFormatPCM))
	binary.Write(buf, binary.LittleEndian, uint16(numChannels))
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(buf, binary.LittleEndian, uint32(byteRate))
	binary.Write(buf, binary.LittleEndian, uint16(blockAlign))
	binary.Write(buf, binary.LittleEndian, uint16(bitsPerSample))

	// Write data sub-chunk
	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, uint32(dataSize))

	// Combine header and PCM data
	result := make([]byte, buf.Len()+len(pcm))
	copy(result, buf.Bytes())
	copy(result[buf.Len():], pcm)

	return result, nil
}

// ChunksToWav normalizes a recording's chunks to PCM and packages them as a
// single WAV payload. Sample rate and channel count are taken from the first
// chunk; chunks that disagree are rejected.
func ChunksToWav(chunks []core.AudioChunk) ([]byte, error) {
	if len(chunks) == 0 {
		return nil, errors.New("no audio captured")
	}

	sampleRate := chunks[0].SampleRate
	channels := chunks[0].Channels
	var pcm []byte
	for i, chunk := range chunks {
		if chunk.SampleRate != sampleRate || chunk.Channels != channels {
			return nil, fmt.Errorf("chunk %d format mismatch: %dHz/%dch vs %dHz/%dch",
				i, chunk.SampleRate, chunk.Channels, sampleRate, channels)
		}
		decoded, err := ChunkToPCM(chunk)
		if err != nil {
			return nil, fmt.Errorf("chunk %d: %w", i, err)
		}
		pcm = append(pcm, decoded...)
	}

	return PCMBytesToWavBytes(pcm, channels, sampleRate)
}
