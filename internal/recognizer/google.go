package recognizer

import (
	"fmt"
	"strings"

	"cloud.google.com/go/speech/apiv1/speechpb"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/durationpb"

	"github.com/nguyentantai21042004/lesson-captions/internal/caption"
)

// GoogleModel is the Speech-to-Text model lessons are recognized with.
const GoogleModel = "latest_long"

// DecodeGoogle decodes a Speech-to-Text LongRunningRecognizeResponse in
// its canonical JSON form.
func DecodeGoogle(data []byte) (*Transcript, error) {
	var resp speechpb.LongRunningRecognizeResponse
	opts := protojson.UnmarshalOptions{DiscardUnknown: true}
	if err := opts.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decode speech-to-text response: %w", err)
	}
	return FromGoogle(&resp), nil
}

// FromGoogle converts a Speech-to-Text response. Each result becomes one
// utterance built from its first alternative; results without word offsets
// become plain transcripts.
func FromGoogle(resp *speechpb.LongRunningRecognizeResponse) *Transcript {
	t := &Transcript{
		Format: FormatGoogle,
		Model:  GoogleModel,
	}

	var texts []string
	for _, result := range resp.GetResults() {
		alts := result.GetAlternatives()
		if len(alts) == 0 {
			continue
		}
		alt := alts[0]

		t.DetectedLanguages = appendUnique(t.DetectedLanguages, result.GetLanguageCode())
		if s := strings.TrimSpace(alt.GetTranscript()); s != "" {
			texts = append(texts, s)
		}

		words := alt.GetWords()
		if len(words) == 0 {
			t.Utterances = append(t.Utterances, caption.PlainTranscript(alt.GetTranscript()))
			continue
		}

		tokens := make(caption.Words, 0, len(words))
		for _, w := range words {
			tokens = append(tokens, caption.WordToken{
				Text:  w.GetWord(),
				Start: seconds(w.GetStartTime()),
				End:   seconds(w.GetEndTime()),
			})
		}
		t.Utterances = append(t.Utterances, tokens)
	}

	t.Text = strings.Join(texts, " ")
	if len(t.DetectedLanguages) > 0 {
		t.Language = t.DetectedLanguages[0]
	}
	return t
}

func seconds(d *durationpb.Duration) float64 {
	if d == nil {
		return 0
	}
	return d.AsDuration().Seconds()
}
