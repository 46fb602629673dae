package caption

import (
	"fmt"
	"io"
	"strings"
)

const vttHeader = "WEBVTT"

// WriteVTT writes t as a WebVTT document: the header, then an
// index/timing/text block per cue, each followed by a blank line.
func WriteVTT(w io.Writer, t Track) error {
	if _, err := fmt.Fprintf(w, "%s\n\n", vttHeader); err != nil {
		return err
	}
	for _, c := range t {
		if _, err := fmt.Fprintf(w, "%d\n%s --> %s\n%s\n\n",
			c.Index, FormatTimestamp(c.Start), FormatTimestamp(c.End), c.Text); err != nil {
			return err
		}
	}
	return nil
}

// RenderVTT returns the WebVTT document for t.
func RenderVTT(t Track) string {
	var b strings.Builder
	_ = WriteVTT(&b, t) // strings.Builder never fails
	return b.String()
}

// RenderSRT returns the SubRip document for t. Blocks are separated by a
// blank line with no trailing blank line.
func RenderSRT(t Track) string {
	var b strings.Builder
	for i, c := range t {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%d\n%s --> %s\n%s\n",
			c.Index, FormatSRTTimestamp(c.Start), FormatSRTTimestamp(c.End), c.Text)
	}
	return b.String()
}

// Render returns t in the named format ("vtt" or "srt").
func Render(format string, t Track) (string, error) {
	switch strings.ToLower(format) {
	case "vtt":
		return RenderVTT(t), nil
	case "srt":
		return RenderSRT(t), nil
	default:
		return "", fmt.Errorf("unknown subtitle format %q", format)
	}
}

// ContentType returns the MIME type of the named subtitle format.
func ContentType(format string) string {
	switch strings.ToLower(format) {
	case "vtt":
		return "text/vtt"
	case "srt":
		return "application/x-subrip"
	default:
		return "text/plain"
	}
}
