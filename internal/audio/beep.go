package audio

import (
	"bytes"
	"context"
	"encoding/binary"
	"math"
	"time"

	"github.com/hammamikhairi/meditime/internal/domain"
)

var _ domain.Cue = (*Beep)(nil)

// Beep is the reminder sound: a short sine tone.
type Beep struct {
	player *Player
	clip   []byte
}

// NewBeep renders the tone once and plays it through player on demand.
func NewBeep(player *Player, freq float64, d time.Duration) *Beep {
	return &Beep{player: player, clip: Tone(freq, d, 0.3)}
}

// Play plays the tone. Blocks until it ends.
func (b *Beep) Play(ctx context.Context) error {
	return b.player.Play(ctx, b.clip)
}

// Tone returns a mono 16-bit WAV clip of a sine at freq Hz. Gain is 0..1.
// The last few milliseconds fade out so the tone ends without a click.
func Tone(freq float64, d time.Duration, gain float64) []byte {
	n := int(float64(SampleRate) * d.Seconds())
	fade := SampleRate / 200 // 5ms
	if fade > n {
		fade = n
	}

	pcm := make([]byte, n*2)
	for i := 0; i < n; i++ {
		amp := gain
		if left := n - i; left < fade {
			amp *= float64(left) / float64(fade)
		}
		v := amp * math.Sin(2*math.Pi*freq*float64(i)/SampleRate)
		binary.LittleEndian.PutUint16(pcm[i*2:], uint16(int16(v*math.MaxInt16)))
	}
	return wav(pcm)
}

func wav(pcm []byte) []byte {
	var buf bytes.Buffer
	byteRate := SampleRate * ChannelCount * BitDepth / 8
	blockAlign := ChannelCount * BitDepth / 8

	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+len(pcm)))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(ChannelCount))
	binary.Write(&buf, binary.LittleEndian, uint32(SampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(byteRate))
	binary.Write(&buf, binary.LittleEndian, uint16(blockAlign))
	binary.Write(&buf, binary.LittleEndian, uint16(BitDepth))
	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(len(pcm)))
	buf.Write(pcm)
	return buf.Bytes()
}
