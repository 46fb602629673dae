package recognizer

import (
	"errors"

	"github.com/nguyentantai21042004/lesson-captions/internal/caption"
)

// Format identifies the recognizer that produced a payload.
type Format string

const (
	FormatGoogle     Format = "google_stt"
	FormatOpenAI     Format = "openai_whisper"
	FormatWhisperCPP Format = "whisper_cpp"
)

var (
	ErrUnknownFormat = errors.New("unknown recognizer response format")
	ErrNoResults     = errors.New("no transcription results received")
)

// Transcript is a recognizer response resolved into caption input.
// Exactly one of Utterances or Segments is used to build cues.
type Transcript struct {
	Format            Format
	Model             string
	Language          string
	DetectedLanguages []string
	Text              string

	Utterances []caption.Utterance
	Segments   []caption.SentenceSegment
}

// Empty reports whether the recognizer returned nothing to caption.
func (t *Transcript) Empty() bool {
	return len(t.Utterances) == 0 && len(t.Segments) == 0
}

// Track builds the caption track. Sentence segments are mapped one to one,
// word-level utterances are grouped with p.
func (t *Transcript) Track(p caption.Policy) (caption.Track, error) {
	if len(t.Segments) > 0 {
		return caption.FromSegments(t.Segments, p)
	}
	return caption.Segment(t.Utterances, p)
}

func appendUnique(list []string, v string) []string {
	if v == "" {
		return list
	}
	for _, s := range list {
		if s == v {
			return list
		}
	}
	return append(list, v)
}
