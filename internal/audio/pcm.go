// Package audio decodes raw speech synthesis output into playable buffers and
// provides playback through a platform player.
package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"time"
)

// DefaultSampleRate is the sample rate of raw TTS output.
const DefaultSampleRate = 24000

// Buffer holds decoded audio samples normalized to the [-1, 1] range.
type Buffer struct {
	Samples    []float64
	SampleRate int
	Channels   int
}

// DecodePCM16 decodes raw 16-bit signed little-endian mono PCM at the default
// sample rate. A trailing odd byte is dropped.
func DecodePCM16(data []byte) *Buffer {
	n := len(data) / 2
	samples := make([]float64, n)
	for i := 0; i < n; i++ {
		v := int16(binary.LittleEndian.Uint16(data[i*2:]))
		samples[i] = float64(v) / 32768.0
	}
	return &Buffer{
		Samples:    samples,
		SampleRate: DefaultSampleRate,
		Channels:   1,
	}
}

// Duration returns the playback duration of the buffer.
func (b *Buffer) Duration() time.Duration {
	if b.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(len(b.Samples)) / float64(b.SampleRate) * float64(time.Second))
}

// EncodeWAV re-encodes the buffer as a 16-bit PCM WAV file, used to hand the
// audio to external players.
func EncodeWAV(b *Buffer) ([]byte, error) {
	if b == nil || len(b.Samples) == 0 {
		return nil, fmt.Errorf("empty audio buffer")
	}

	channels := b.Channels
	if channels <= 0 {
		channels = 1
	}

	dataSize := len(b.Samples) * 2
	var buf bytes.Buffer

	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+dataSize))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(channels))
	binary.Write(&buf, binary.LittleEndian, uint32(b.SampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(b.SampleRate*channels*2))
	binary.Write(&buf, binary.LittleEndian, uint16(channels*2))
	binary.Write(&buf, binary.LittleEndian, uint16(16))

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(dataSize))
	for _, s := range b.Samples {
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		binary.Write(&buf, binary.LittleEndian, int16(s*32767))
	}

	return buf.Bytes(), nil
}
