package tone

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

const DefaultSampleRate = 22050

// Render synthesizes c as a mono 16-bit PCM WAV file.
func Render(c Cue, sampleRate int) ([]byte, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate %d", sampleRate)
	}
	if c.Duration <= 0 || c.StartGain <= 0 || c.EndGain <= 0 {
		return nil, fmt.Errorf("invalid cue %q", c.Kind)
	}

	n := int(math.Round(c.Duration.Seconds() * float64(sampleRate)))
	samples := make([]int16, n)
	ratio := c.EndGain / c.StartGain
	for i := range samples {
		t := float64(i) / float64(sampleRate)
		progress := float64(i) / float64(n)
		gain := c.StartGain * math.Pow(ratio, progress)
		samples[i] = int16(gain * oscillate(c.Waveform, c.Frequency, t) * math.MaxInt16)
	}

	dataSize := uint32(len(samples) * 2)
	var buf bytes.Buffer
	buf.Grow(44 + int(dataSize))

	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, 36+dataSize)
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // mono
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate*2))
	binary.Write(&buf, binary.LittleEndian, uint16(2))
	binary.Write(&buf, binary.LittleEndian, uint16(16))

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, dataSize)
	if err := binary.Write(&buf, binary.LittleEndian, samples); err != nil {
		return nil, fmt.Errorf("writing samples: %w", err)
	}
	return buf.Bytes(), nil
}

func oscillate(w Waveform, freq, t float64) float64 {
	v := math.Sin(2 * math.Pi * freq * t)
	if w == Square {
		if v >= 0 {
			return 1
		}
		return -1
	}
	return v
}
