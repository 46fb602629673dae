package caption

import (
	"errors"
	"fmt"
)

// ErrInvalidTiming reports offsets that cannot describe a real span of audio.
var ErrInvalidTiming = errors.New("invalid timing")

// TimingError locates a token or segment with invalid offsets.
type TimingError struct {
	Utterance int // 0-based utterance (or segment) position
	Token     int // 0-based token position, -1 for segments
	Text      string
	Start     float64
	End       float64
}

func (e *TimingError) Error() string {
	if e.Token < 0 {
		return fmt.Sprintf("segment %d %q: start=%g end=%g: %v", e.Utterance, e.Text, e.Start, e.End, ErrInvalidTiming)
	}
	return fmt.Sprintf("utterance %d token %d %q: start=%g end=%g: %v", e.Utterance, e.Token, e.Text, e.Start, e.End, ErrInvalidTiming)
}

func (e *TimingError) Unwrap() error {
	return ErrInvalidTiming
}
