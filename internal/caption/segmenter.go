package caption

import (
	"math"
	"strings"
)

const (
	// PlaceholderEnd is 99:59:59.999, the end of the cue used for
	// utterances without word timing.
	PlaceholderEnd = 359999.999

	// minCueSeconds is the shortest cue emitted; one WebVTT tick.
	minCueSeconds = 0.001
)

// accumulator holds the tokens of the cue being built. It is reset at
// every utterance boundary and after every closed cue.
type accumulator struct {
	tokens []WordToken
}

func (a accumulator) empty() bool {
	return len(a.tokens) == 0
}

func (a accumulator) add(w WordToken) accumulator {
	a.tokens = append(a.tokens, w)
	return a
}

func (a accumulator) cue(p Policy) Cue {
	first := a.tokens[0]
	last := a.tokens[len(a.tokens)-1]

	texts := make([]string, len(a.tokens))
	for i, w := range a.tokens {
		texts[i] = w.Text
	}

	return newCue(first.Start, last.End+p.EndBufferSeconds, strings.Join(texts, " "))
}

// Segment groups word-level utterances into cues. Cue boundaries never
// span two utterances; indices run across the whole track.
func Segment(utterances []Utterance, p Policy) (Track, error) {
	track := Track{}

	for ui, u := range utterances {
		switch v := u.(type) {
		case Words:
			cues, err := segmentWords(ui, v, p)
			if err != nil {
				return nil, err
			}
			track = appendCues(track, cues...)

		case PlainTranscript:
			text := strings.TrimSpace(string(v))
			if text == "" {
				continue
			}
			track = appendCues(track, Cue{Start: 0, End: PlaceholderEnd, Text: text})
		}
	}

	return track, nil
}

// FromSegments maps every sentence segment to exactly one cue, copying
// its timing. Only p.ClampTiming is consulted.
func FromSegments(segments []SentenceSegment, p Policy) (Track, error) {
	track := Track{}

	for i, s := range segments {
		start, end, ok := checkSpan(s.Start, s.End, p.ClampTiming)
		if !ok {
			return nil, &TimingError{Utterance: i, Token: -1, Text: s.Text, Start: s.Start, End: s.End}
		}

		text := strings.TrimSpace(s.Text)
		if text == "" {
			continue
		}
		track = appendCues(track, newCue(start, end, text))
	}

	return track, nil
}

func segmentWords(ui int, words Words, p Policy) ([]Cue, error) {
	var (
		cues    []Cue
		acc     accumulator
		prevEnd float64
		hasPrev bool
	)

	for ti, w := range words {
		start, end, ok := checkSpan(w.Start, w.End, p.ClampTiming)
		if !ok {
			return nil, &TimingError{Utterance: ui, Token: ti, Text: w.Text, Start: w.Start, End: w.End}
		}

		text := strings.TrimSpace(w.Text)
		if text == "" {
			continue
		}
		token := WordToken{Text: text, Start: start, End: end}

		// A pause closes the open cue before the token; the token opens the next one.
		if hasPrev && p.MaxGapSeconds > 0 && token.Start-prevEnd > p.MaxGapSeconds && !acc.empty() {
			cues = append(cues, acc.cue(p))
			acc = accumulator{}
		}

		acc = acc.add(token)

		full := p.MaxWordsPerCue > 0 && len(acc.tokens) >= p.MaxWordsPerCue
		sentenceEnd := p.SplitOnSentencePunctuation && endsSentence(text)
		if full || sentenceEnd {
			cues = append(cues, acc.cue(p))
			acc = accumulator{}
		}

		prevEnd = token.End
		hasPrev = true
	}

	if !acc.empty() {
		cues = append(cues, acc.cue(p))
	}

	return cues, nil
}

func appendCues(track Track, cues ...Cue) Track {
	for _, c := range cues {
		c.Index = len(track) + 1
		track = append(track, c)
	}
	return track
}

func newCue(start, end float64, text string) Cue {
	if end-start < minCueSeconds {
		end = start + minCueSeconds
	}
	return Cue{Start: start, End: end, Text: strings.TrimSpace(text)}
}

func endsSentence(text string) bool {
	switch text[len(text)-1] {
	case '.', '!', '?':
		return true
	}
	return false
}

// checkSpan validates a start/end pair. With clamp set, negative and NaN
// offsets become 0 and an end before its start is moved up to the start.
func checkSpan(start, end float64, clamp bool) (float64, float64, bool) {
	if math.IsInf(start, 0) || math.IsInf(end, 0) {
		return start, end, false
	}

	valid := !math.IsNaN(start) && !math.IsNaN(end) && start >= 0 && end >= 0 && end >= start
	if valid {
		return start, end, true
	}
	if !clamp {
		return start, end, false
	}

	if math.IsNaN(start) || start < 0 {
		start = 0
	}
	if math.IsNaN(end) || end < start {
		end = start
	}
	return start, end, true
}
