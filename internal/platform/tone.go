package platform

import (
	"bytes"
	"encoding/binary"
	"math"
	"time"
)

const toneSampleRate = 22050

// Tone is a decaying sine beep.
type Tone struct {
	Frequency float64
	Duration  time.Duration
	// Gain is the starting amplitude; it decays exponentially to 0.01.
	Gain float64
}

// AlertTones are the two beeps of the notification chime.
var AlertTones = [2]Tone{
	{Frequency: 800, Duration: 500 * time.Millisecond, Gain: 0.3},
	{Frequency: 1000, Duration: 500 * time.Millisecond, Gain: 0.3},
}

// AlertToneGap is the delay between the start of the first and second tone.
const AlertToneGap = 200 * time.Millisecond

// RenderWAV encodes tone as 16-bit mono PCM WAV.
func RenderWAV(tone Tone) []byte {
	samples := int(float64(toneSampleRate) * tone.Duration.Seconds())
	if samples < 1 {
		samples = 1
	}
	gain := tone.Gain
	if gain <= 0 {
		gain = 0.3
	}
	const floor = 0.01
	decay := math.Log(floor/gain) / float64(samples)

	dataSize := samples * 2
	var buf bytes.Buffer
	buf.Grow(44 + dataSize)
	buf.WriteString("RIFF")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(36+dataSize))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(16))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	_ = binary.Write(&buf, binary.LittleEndian, uint16(1)) // mono
	_ = binary.Write(&buf, binary.LittleEndian, uint32(toneSampleRate))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(toneSampleRate*2))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(2))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(16))
	buf.WriteString("data")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(dataSize))

	for i := 0; i < samples; i++ {
		amplitude := gain * math.Exp(decay*float64(i))
		value := amplitude * math.Sin(2*math.Pi*tone.Frequency*float64(i)/toneSampleRate)
		_ = binary.Write(&buf, binary.LittleEndian, int16(value*math.MaxInt16))
	}
	return buf.Bytes()
}
