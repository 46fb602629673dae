package caption

import "strings"

// WordToken is one recognized word with offsets in seconds.
type WordToken struct {
	Text  string
	Start float64
	End   float64
}

// SentenceSegment is a sentence-level timing returned by recognizers
// that do not report word offsets.
type SentenceSegment struct {
	Text  string
	Start float64
	End   float64
}

// Utterance is one independent recognizer result. It is either Words or
// PlainTranscript.
type Utterance interface {
	utterance()
}

// Words is an utterance with word-level timing.
type Words []WordToken

// PlainTranscript is an utterance the recognizer returned without timing.
type PlainTranscript string

func (Words) utterance()           {}
func (PlainTranscript) utterance() {}

// Cue is one timed subtitle entry.
type Cue struct {
	Index int
	Start float64
	End   float64
	Text  string
}

// Track is an ordered list of cues.
type Track []Cue

// Text joins the text of every cue with single spaces.
func (t Track) Text() string {
	parts := make([]string, 0, len(t))
	for _, c := range t {
		parts = append(parts, c.Text)
	}
	return strings.Join(parts, " ")
}

// WithText returns a copy of the track with cue text replaced by texts[i].
// Timing and indices are kept.
func (t Track) WithText(texts []string) Track {
	out := make(Track, len(t))
	copy(out, t)
	for i := range out {
		if i < len(texts) {
			if s := strings.TrimSpace(texts[i]); s != "" {
				out[i].Text = s
			}
		}
	}
	return out
}
