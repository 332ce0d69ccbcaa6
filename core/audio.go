package core

type AudioEncodingFormat int

const (
	PCM  AudioEncodingFormat = iota // Pulse-code modulation format.
	ULAW                            // µ-law encoding format.
	ALAW                            // A-law encoding format.
)

type AudioChunk struct {
	Data       []byte              // Raw audio data.
	SampleRate int                 // Sample rate of the audio data.
	Channels   int                 // Number of audio channels.
	Format     AudioEncodingFormat // Encoding format of the audio data.
}

func (ac *AudioChunk) GetDurationInSeconds() float64 {
	if ac.SampleRate == 0 || ac.Channels == 0 {
		return 0.0
	}
	bytesPerSample := 2 // Assuming 16-bit audio (2 bytes per sample)
	if ac.Format == ULAW || ac.Format == ALAW {
		bytesPerSample = 1
	}
	totalSamples := len(ac.Data) / (bytesPerSample * ac.Channels)
	return float64(totalSamples) / float64(ac.SampleRate)
}
