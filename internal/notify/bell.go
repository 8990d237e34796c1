package notify

import (
	"context"
	"io"
	"time"

	"github.com/hammamikhairi/meditime/internal/domain"
)

var _ domain.Cue = (*BellCue)(nil)

// VibratePattern is the on/off rhythm in milliseconds used for the
// haptic cue.
var VibratePattern = []int{200, 100, 200}

// BellCue rings the terminal bell once per "on" segment of
// VibratePattern. It is the terminal's stand-in for vibration.
type BellCue struct {
	out     io.Writer
	pattern []time.Duration
}

// NewBellCue rings on out.
func NewBellCue(out io.Writer) *BellCue {
	pattern := make([]time.Duration, len(VibratePattern))
	for i, ms := range VibratePattern {
		pattern[i] = time.Duration(ms) * time.Millisecond
	}
	return &BellCue{out: out, pattern: pattern}
}

// Play walks the pattern. Even segments ring, odd segments are silence.
func (b *BellCue) Play(ctx context.Context) error {
	for i, d := range b.pattern {
		if i%2 == 0 {
			if _, err := io.WriteString(b.out, "\a"); err != nil {
				return err
			}
		}
		if i == len(b.pattern)-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(d):
		}
	}
	return nil
}
