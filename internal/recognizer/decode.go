package recognizer

import (
	"encoding/json"
	"fmt"
)

// Decode sniffs the recognizer that produced data and decodes it.
func Decode(data []byte) (*Transcript, error) {
	format, err := Detect(data)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatGoogle:
		return DecodeGoogle(data)
	case FormatWhisperCPP:
		return DecodeWhisperCPP(data)
	default:
		return DecodeOpenAI(data)
	}
}

// Detect reports which recognizer produced data by its top-level keys.
func Detect(data []byte) (Format, error) {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnknownFormat, err)
	}

	has := func(k string) bool {
		_, ok := keys[k]
		return ok
	}

	switch {
	case has("results") || has("totalBilledTime") || has("requestId"):
		return FormatGoogle, nil
	case has("transcription"):
		return FormatWhisperCPP, nil
	case has("words") || has("segments") || has("text"):
		return FormatOpenAI, nil
	default:
		return "", ErrUnknownFormat
	}
}
