package caption

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ParseVTT reads a WebVTT document back into a track. Cue identifiers are
// ignored and cues are renumbered from 1; NOTE and STYLE blocks are skipped.
func ParseVTT(r io.Reader) (Track, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)

	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("missing %s header", vttHeader)
	}
	if !strings.HasPrefix(strings.TrimPrefix(sc.Text(), "\ufeff"), vttHeader) {
		return nil, fmt.Errorf("missing %s header", vttHeader)
	}

	track := Track{}
	var block []string
	line := 1

	flush := func() error {
		defer func() { block = nil }()
		if len(block) == 0 {
			return nil
		}
		cue, ok, err := parseBlock(block)
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		if ok {
			track = appendCues(track, cue)
		}
		return nil
	}

	for sc.Scan() {
		line++
		text := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(text) == "" {
			if err := flush(); err != nil {
				return nil, err
			}
			continue
		}
		block = append(block, text)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if err := flush(); err != nil {
		return nil, err
	}

	return track, nil
}

func parseBlock(block []string) (Cue, bool, error) {
	first := block[0]
	if strings.HasPrefix(first, "NOTE") || strings.HasPrefix(first, "STYLE") || strings.HasPrefix(first, "REGION") {
		return Cue{}, false, nil
	}

	timing := 0
	if !strings.Contains(first, "-->") {
		timing = 1 // identifier line
	}
	if timing >= len(block) || !strings.Contains(block[timing], "-->") {
		return Cue{}, false, fmt.Errorf("cue without timing line")
	}

	from, rest, _ := strings.Cut(block[timing], "-->")
	fields := strings.Fields(rest) // drop cue settings after the end time
	if len(fields) == 0 {
		return Cue{}, false, fmt.Errorf("missing end time")
	}

	start, err := ParseTimestamp(strings.TrimSpace(from))
	if err != nil {
		return Cue{}, false, err
	}
	end, err := ParseTimestamp(fields[0])
	if err != nil {
		return Cue{}, false, err
	}

	text := strings.TrimSpace(strings.Join(block[timing+1:], "\n"))
	if text == "" {
		return Cue{}, false, nil
	}
	return Cue{Start: start, End: end, Text: text}, true, nil
}

// ParseTimestamp parses HH:MM:SS.mmm or MM:SS.mmm into seconds. A comma
// decimal separator (SubRip) is accepted.
func ParseTimestamp(s string) (float64, error) {
	s = strings.Replace(s, ",", ".", 1)
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("invalid timestamp %q", s)
	}

	secPart := parts[len(parts)-1]
	whole, frac, _ := strings.Cut(secPart, ".")

	var total int64
	for _, p := range append(parts[:len(parts)-1], whole) {
		n, err := strconv.ParseInt(p, 10, 64)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid timestamp %q", s)
		}
		total = total*60 + n
	}

	ms := int64(0)
	if frac != "" {
		if len(frac) > 3 {
			frac = frac[:3]
		}
		for len(frac) < 3 {
			frac += "0"
		}
		n, err := strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid timestamp %q", s)
		}
		ms = n
	}

	return float64(total*1000+ms) / 1000, nil
}
