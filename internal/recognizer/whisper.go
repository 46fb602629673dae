package recognizer

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nguyentantai21042004/lesson-captions/internal/caption"
)

// OpenAIModel is the hosted Whisper model name.
const OpenAIModel = "whisper-1"

// openAIResponse mirrors the verbose_json transcription response.
type openAIResponse struct {
	Task     string  `json:"task"`
	Language string  `json:"language"`
	Duration float64 `json:"duration"`
	Text     string  `json:"text"`
	Words    []struct {
		Word  string  `json:"word"`
		Start float64 `json:"start"`
		End   float64 `json:"end"`
	} `json:"words"`
	Segments []struct {
		ID    int     `json:"id"`
		Start float64 `json:"start"`
		End   float64 `json:"end"`
		Text  string  `json:"text"`
	} `json:"segments"`
}

// DecodeOpenAI decodes a Whisper verbose_json response. Word timing is
// preferred over segment timing; a response with neither becomes a plain
// transcript.
func DecodeOpenAI(data []byte) (*Transcript, error) {
	var resp openAIResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decode whisper response: %w", err)
	}

	t := &Transcript{
		Format:            FormatOpenAI,
		Model:             OpenAIModel,
		Language:          resp.Language,
		DetectedLanguages: appendUnique(nil, resp.Language),
		Text:              strings.TrimSpace(resp.Text),
	}

	switch {
	case len(resp.Words) > 0:
		words := make(caption.Words, 0, len(resp.Words))
		for _, w := range resp.Words {
			end := w.End
			if end == 0 {
				end = w.Start
			}
			words = append(words, caption.WordToken{Text: w.Word, Start: w.Start, End: end})
		}
		t.Utterances = []caption.Utterance{words}

	case len(resp.Segments) > 0:
		for _, s := range resp.Segments {
			t.Segments = append(t.Segments, caption.SentenceSegment{Text: s.Text, Start: s.Start, End: s.End})
		}

	case t.Text != "":
		t.Utterances = []caption.Utterance{caption.PlainTranscript(t.Text)}
	}

	return t, nil
}

// whisperCPPResponse mirrors the JSON written by whisper.cpp with -oj.
type whisperCPPResponse struct {
	Params struct {
		Model    string `json:"model"`
		Language string `json:"language"`
	} `json:"params"`
	Result struct {
		Language string `json:"language"`
	} `json:"result"`
	Transcription []struct {
		Offsets struct {
			From int64 `json:"from"`
			To   int64 `json:"to"`
		} `json:"offsets"`
		Text string `json:"text"`
	} `json:"transcription"`
}

// DecodeWhisperCPP decodes whisper.cpp JSON output into sentence segments.
// Offsets are milliseconds.
func DecodeWhisperCPP(data []byte) (*Transcript, error) {
	var resp whisperCPPResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decode whisper.cpp output: %w", err)
	}

	lang := resp.Result.Language
	if lang == "" {
		lang = resp.Params.Language
	}

	t := &Transcript{
		Format:            FormatWhisperCPP,
		Model:             resp.Params.Model,
		Language:          lang,
		DetectedLanguages: appendUnique(nil, lang),
	}

	var texts []string
	for _, seg := range resp.Transcription {
		text := strings.TrimSpace(seg.Text)
		if text != "" {
			texts = append(texts, text)
		}
		t.Segments = append(t.Segments, caption.SentenceSegment{
			Text:  seg.Text,
			Start: float64(seg.Offsets.From) / 1000,
			End:   float64(seg.Offsets.To) / 1000,
		})
	}
	t.Text = strings.Join(texts, " ")

	return t, nil
}
