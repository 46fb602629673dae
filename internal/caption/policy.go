package caption

import "fmt"

const (
	ModeGap         = "gap"
	ModePunctuation = "punctuation"
	ModeWords       = "words"
)

// Policy controls how word tokens are grouped into cues.
type Policy struct {
	// MaxGapSeconds closes a cue when the silence before a token exceeds it.
	// The token after the gap starts the next cue.
	MaxGapSeconds float64
	// MaxWordsPerCue closes a cue once it holds this many tokens. 0 disables.
	MaxWordsPerCue int
	// SplitOnSentencePunctuation closes a cue after a token ending in . ! or ?
	SplitOnSentencePunctuation bool
	// EndBufferSeconds is added to the last token's end offset.
	EndBufferSeconds float64
	// ClampTiming repairs negative or inverted offsets instead of failing.
	ClampTiming bool
}

// GapPolicy groups purely by pauses and keeps each cue on screen a little
// longer than its last word.
func GapPolicy() Policy {
	return Policy{
		MaxGapSeconds:    3.0,
		EndBufferSeconds: 0.5,
	}
}

// PunctuationPolicy groups by pauses, word count and sentence ends.
func PunctuationPolicy() Policy {
	return Policy{
		MaxGapSeconds:              1.0,
		MaxWordsPerCue:             10,
		SplitOnSentencePunctuation: true,
	}
}

// WordCountPolicy groups by pauses and word count only.
func WordCountPolicy() Policy {
	return Policy{
		MaxGapSeconds:  1.0,
		MaxWordsPerCue: 10,
	}
}

// PolicyByName returns the preset registered under name.
func PolicyByName(name string) (Policy, error) {
	switch name {
	case ModeGap:
		return GapPolicy(), nil
	case ModePunctuation, "":
		return PunctuationPolicy(), nil
	case ModeWords:
		return WordCountPolicy(), nil
	default:
		return Policy{}, fmt.Errorf("unknown segmentation mode %q", name)
	}
}
