package caption

import (
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"
)

func TestSegmentGapSplitting(t *testing.T) {
	words := Words{
		{Text: "a", Start: 0, End: 1},
		{Text: "b", Start: 1, End: 2},
		{Text: "c", Start: 6, End: 7},
	}

	track, err := Segment([]Utterance{words}, GapPolicy())
	if err != nil {
		t.Fatalf("Segment() error = %v", err)
	}

	want := Track{
		{Index: 1, Start: 0, End: 2.5, Text: "a b"},
		{Index: 2, Start: 6, End: 7.5, Text: "c"},
	}
	if !reflect.DeepEqual(track, want) {
		t.Errorf("Segment() = %+v, want %+v", track, want)
	}
}

func TestSegmentWordCountSplitting(t *testing.T) {
	var words Words
	for i := 0; i < 11; i++ {
		start := float64(i) * 0.1
		words = append(words, WordToken{Text: string(rune('a' + i)), Start: start, End: start + 0.1})
	}

	track, err := Segment([]Utterance{words}, WordCountPolicy())
	if err != nil {
		t.Fatalf("Segment() error = %v", err)
	}

	if len(track) != 2 {
		t.Fatalf("len(track) = %d, want 2", len(track))
	}
	if track[0].Text != "a b c d e f g h i j" {
		t.Errorf("cue 1 text = %q", track[0].Text)
	}
	if track[1].Text != "k" {
		t.Errorf("cue 2 text = %q, want %q", track[1].Text, "k")
	}
	if track[1].Start != words[10].Start {
		t.Errorf("cue 2 start = %v, want %v", track[1].Start, words[10].Start)
	}
}

func TestSegmentPunctuationBoundary(t *testing.T) {
	words := Words{
		{Text: "Hello", Start: 0, End: 0.5},
		{Text: "world.", Start: 0.5, End: 1.0},
		{Text: "Next", Start: 1.0, End: 1.5},
	}

	track, err := Segment([]Utterance{words}, PunctuationPolicy())
	if err != nil {
		t.Fatalf("Segment() error = %v", err)
	}

	want := Track{
		{Index: 1, Start: 0, End: 1.0, Text: "Hello world."},
		{Index: 2, Start: 1.0, End: 1.5, Text: "Next"},
	}
	if !reflect.DeepEqual(track, want) {
		t.Errorf("Segment() = %+v, want %+v", track, want)
	}
}

func TestSegmentPunctuationIgnoredWhenDisabled(t *testing.T) {
	words := Words{
		{Text: "Stop.", Start: 0, End: 0.5},
		{Text: "Go!", Start: 0.5, End: 1.0},
	}

	track, err := Segment([]Utterance{words}, WordCountPolicy())
	if err != nil {
		t.Fatalf("Segment() error = %v", err)
	}
	if len(track) != 1 || track[0].Text != "Stop. Go!" {
		t.Errorf("Segment() = %+v, want one cue %q", track, "Stop. Go!")
	}
}

func TestSegmentGapAndPunctuationAsymmetry(t *testing.T) {
	// "late" follows a 2s pause and opens the next cue; "done?" closes its own.
	words := Words{
		{Text: "one", Start: 0, End: 0.4},
		{Text: "late", Start: 2.4, End: 2.8},
		{Text: "done?", Start: 2.8, End: 3.2},
		{Text: "after", Start: 3.2, End: 3.6},
	}

	track, err := Segment([]Utterance{words}, PunctuationPolicy())
	if err != nil {
		t.Fatalf("Segment() error = %v", err)
	}

	var texts []string
	for _, c := range track {
		texts = append(texts, c.Text)
	}
	want := []string{"one", "late done?", "after"}
	if !reflect.DeepEqual(texts, want) {
		t.Errorf("cue texts = %q, want %q", texts, want)
	}
}

func TestSegmentStateResetsPerUtterance(t *testing.T) {
	first := Words{
		{Text: "one", Start: 0, End: 0.5},
		{Text: "two", Start: 0.5, End: 1},
	}
	second := Words{
		{Text: "three", Start: 1, End: 1.5},
		{Text: "four", Start: 1.5, End: 2},
	}

	track, err := Segment([]Utterance{first, second}, WordCountPolicy())
	if err != nil {
		t.Fatalf("Segment() error = %v", err)
	}

	want := Track{
		{Index: 1, Start: 0, End: 1, Text: "one two"},
		{Index: 2, Start: 1, End: 2, Text: "three four"},
	}
	if !reflect.DeepEqual(track, want) {
		t.Errorf("Segment() = %+v, want %+v", track, want)
	}
}

func TestSegmentPlainTranscriptFallback(t *testing.T) {
	track, err := Segment([]Utterance{PlainTranscript("Hello there")}, GapPolicy())
	if err != nil {
		t.Fatalf("Segment() error = %v", err)
	}

	want := "WEBVTT\n\n1\n00:00:00.000 --> 99:59:59.999\nHello there\n\n"
	if got := RenderVTT(track); got != want {
		t.Errorf("RenderVTT() = %q, want %q", got, want)
	}
}

func TestSegmentMixedUtterancesKeepIndexing(t *testing.T) {
	utterances := []Utterance{
		Words{{Text: "hi", Start: 0, End: 1}},
		PlainTranscript("no timing here"),
		PlainTranscript("   "),
		Words{},
		Words{{Text: "bye", Start: 5, End: 6}},
	}

	track, err := Segment(utterances, PunctuationPolicy())
	if err != nil {
		t.Fatalf("Segment() error = %v", err)
	}

	if len(track) != 3 {
		t.Fatalf("len(track) = %d, want 3", len(track))
	}
	for i, c := range track {
		if c.Index != i+1 {
			t.Errorf("track[%d].Index = %d, want %d", i, c.Index, i+1)
		}
	}
	if track[1].End != PlaceholderEnd {
		t.Errorf("placeholder end = %v, want %v", track[1].End, PlaceholderEnd)
	}
}

func TestSegmentEmptyInput(t *testing.T) {
	for _, in := range [][]Utterance{nil, {}} {
		track, err := Segment(in, PunctuationPolicy())
		if err != nil {
			t.Fatalf("Segment() error = %v", err)
		}
		if len(track) != 0 {
			t.Errorf("len(track) = %d, want 0", len(track))
		}
		if got := RenderVTT(track); got != "WEBVTT\n\n" {
			t.Errorf("RenderVTT() = %q", got)
		}
	}
}

func TestSegmentInvalidTiming(t *testing.T) {
	tests := []struct {
		name  string
		token WordToken
	}{
		{"end before start", WordToken{Text: "x", Start: 2, End: 1}},
		{"negative start", WordToken{Text: "x", Start: -1, End: 1}},
		{"nan end", WordToken{Text: "x", Start: 0, End: math.NaN()}},
		{"infinite end", WordToken{Text: "x", Start: 0, End: math.Inf(1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			words := Words{{Text: "ok", Start: 0, End: 0.5}, tt.token}
			_, err := Segment([]Utterance{PlainTranscript("first"), words}, GapPolicy())
			if !errors.Is(err, ErrInvalidTiming) {
				t.Fatalf("Segment() error = %v, want ErrInvalidTiming", err)
			}

			var te *TimingError
			if !errors.As(err, &te) {
				t.Fatalf("Segment() error type = %T, want *TimingError", err)
			}
			if te.Utterance != 1 || te.Token != 1 {
				t.Errorf("TimingError at (%d, %d), want (1, 1)", te.Utterance, te.Token)
			}
		})
	}
}

func TestSegmentClampTiming(t *testing.T) {
	p := PunctuationPolicy()
	p.ClampTiming = true

	words := Words{
		{Text: "back", Start: 2, End: 1},
		{Text: "neg", Start: -1, End: 2.5},
	}

	track, err := Segment([]Utterance{words}, p)
	if err != nil {
		t.Fatalf("Segment() error = %v", err)
	}
	if len(track) != 1 {
		t.Fatalf("len(track) = %d, want 1", len(track))
	}
	if track[0].Start != 2 || track[0].End != 2.5 {
		t.Errorf("cue span = %v-%v, want 2-2.5", track[0].Start, track[0].End)
	}
}

func TestSegmentZeroDurationCueIsWidened(t *testing.T) {
	track, err := Segment([]Utterance{Words{{Text: "blip.", Start: 4, End: 4}}}, PunctuationPolicy())
	if err != nil {
		t.Fatalf("Segment() error = %v", err)
	}
	if len(track) != 1 || !(track[0].End > track[0].Start) {
		t.Errorf("Segment() = %+v, want end after start", track)
	}
	if got := FormatTimestamp(track[0].End); got != "00:00:04.001" {
		t.Errorf("end = %q, want %q", got, "00:00:04.001")
	}
}

func TestSegmentProperties(t *testing.T) {
	var words Words
	texts := strings.Fields("so today we will look at fractions. A fraction has two parts! " +
		"The top is the numerator and the bottom is the denominator. Any questions? Good")
	start := 0.0
	for i, w := range texts {
		if i%7 == 6 {
			start += 4 // a long pause every few words
		}
		words = append(words, WordToken{Text: w, Start: start, End: start + 0.3})
		start += 0.35
	}

	for _, p := range []Policy{GapPolicy(), PunctuationPolicy(), WordCountPolicy()} {
		first, err := Segment([]Utterance{words}, p)
		if err != nil {
			t.Fatalf("Segment() error = %v", err)
		}
		second, _ := Segment([]Utterance{words}, p)
		if !reflect.DeepEqual(first, second) {
			t.Errorf("Segment() is not deterministic for %+v", p)
		}

		for i, c := range first {
			if c.Index != i+1 {
				t.Errorf("cue %d index = %d", i, c.Index)
			}
			if c.Start < 0 || !(c.End > c.Start) {
				t.Errorf("cue %d has invalid span %v-%v", c.Index, c.Start, c.End)
			}
			if i > 0 && c.Start < first[i-1].Start {
				t.Errorf("cue %d starts before cue %d", c.Index, first[i-1].Index)
			}
		}

		if got, want := first.Text(), strings.Join(texts, " "); got != want {
			t.Errorf("Track.Text() = %q, want %q", got, want)
		}
	}
}

func TestFromSegments(t *testing.T) {
	segments := []SentenceSegment{
		{Text: " Hello class. ", Start: 0, End: 2.25},
		{Text: "", Start: 2.25, End: 3},
		{Text: "Let's begin.", Start: 3, End: 5.5},
	}

	track, err := FromSegments(segments, GapPolicy())
	if err != nil {
		t.Fatalf("FromSegments() error = %v", err)
	}

	want := Track{
		{Index: 1, Start: 0, End: 2.25, Text: "Hello class."},
		{Index: 2, Start: 3, End: 5.5, Text: "Let's begin."},
	}
	if !reflect.DeepEqual(track, want) {
		t.Errorf("FromSegments() = %+v, want %+v", track, want)
	}
}

func TestFromSegmentsInvalidTiming(t *testing.T) {
	_, err := FromSegments([]SentenceSegment{{Text: "x", Start: 3, End: 1}}, PunctuationPolicy())

	var te *TimingError
	if !errors.As(err, &te) {
		t.Fatalf("FromSegments() error = %v, want *TimingError", err)
	}
	if te.Token != -1 {
		t.Errorf("Token = %d, want -1", te.Token)
	}
}

func TestTrackWithText(t *testing.T) {
	track := Track{
		{Index: 1, Start: 0, End: 1, Text: "I have 3 apples"},
		{Index: 2, Start: 1, End: 2, Text: "and 2 pears"},
	}

	out := track.WithText([]string{"I have three apples", ""})

	if out[0].Text != "I have three apples" || out[1].Text != "and 2 pears" {
		t.Errorf("WithText() = %+v", out)
	}
	if track[0].Text != "I have 3 apples" {
		t.Error("WithText() modified the receiver")
	}
}

func TestPolicyByName(t *testing.T) {
	tests := []struct {
		name    string
		want    Policy
		wantErr bool
	}{
		{"gap", GapPolicy(), false},
		{"punctuation", PunctuationPolicy(), false},
		{"", PunctuationPolicy(), false},
		{"words", WordCountPolicy(), false},
		{"karaoke", Policy{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PolicyByName(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("PolicyByName() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("PolicyByName() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
