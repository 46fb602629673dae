package normalizer

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nguyentantai21042004/lesson-captions/internal/caption"
	"github.com/nguyentantai21042004/lesson-captions/internal/logger"
)

var digits = strings.NewReplacer("3", "three", "2", "two", "10", "ten")

type fakeRewriter struct {
	mu       sync.Mutex
	calls    int
	failures int // fail this many calls before succeeding
	short    bool
	inFlight atomic.Int32
	maxSeen  atomic.Int32
}

func (f *fakeRewriter) Rewrite(ctx context.Context, lines []string, language string) ([]string, error) {
	cur := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		seen := f.maxSeen.Load()
		if cur <= seen || f.maxSeen.CompareAndSwap(seen, cur) {
			break
		}
	}
	time.Sleep(2 * time.Millisecond)

	f.mu.Lock()
	f.calls++
	fail := f.calls <= f.failures
	f.mu.Unlock()

	if fail {
		return nil, errors.New("503 unavailable")
	}
	if f.short {
		return lines[:len(lines)-1], nil
	}

	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = digits.Replace(l)
	}
	return out, nil
}

func newTestNormalizer(rw Rewriter, opts Options) *implNormalizer {
	opts.RequestsPerMinute = 600000
	n := New(rw, opts, logger.NewWithWriter("error", io.Discard)).(*implNormalizer)
	n.backoffBase = time.Millisecond
	return n
}

func testTrack(n int) caption.Track {
	track := make(caption.Track, n)
	for i := range track {
		track[i] = caption.Cue{Index: i + 1, Start: float64(i), End: float64(i) + 0.5, Text: "I have 3 apples"}
	}
	return track
}

func TestNormalize(t *testing.T) {
	rw := &fakeRewriter{}
	n := newTestNormalizer(rw, Options{BatchSize: 4, MaxConcurrent: 2})

	track := testTrack(10)
	out, err := n.Normalize(context.Background(), track, "en-US")
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}

	if len(out) != len(track) {
		t.Fatalf("len(out) = %d, want %d", len(out), len(track))
	}
	for i, c := range out {
		if c.Text != "I have three apples" {
			t.Errorf("cue %d text = %q", i, c.Text)
		}
		if c.Index != track[i].Index || c.Start != track[i].Start || c.End != track[i].End {
			t.Errorf("cue %d timing changed: %+v", i, c)
		}
	}
	if track[0].Text != "I have 3 apples" {
		t.Error("Normalize() modified its input track")
	}
	if rw.calls != 3 {
		t.Errorf("calls = %d, want 3", rw.calls)
	}
	if got := rw.maxSeen.Load(); got > 2 {
		t.Errorf("max concurrent calls = %d, want <= 2", got)
	}
}

func TestNormalizeRetries(t *testing.T) {
	rw := &fakeRewriter{failures: 2}
	n := newTestNormalizer(rw, Options{BatchSize: 10, MaxConcurrent: 1, MaxRetries: 3})

	out, err := n.Normalize(context.Background(), testTrack(2), "en-US")
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if out[0].Text != "I have three apples" {
		t.Errorf("text = %q", out[0].Text)
	}
	if rw.calls != 3 {
		t.Errorf("calls = %d, want 3", rw.calls)
	}
}

func TestNormalizeGivesUp(t *testing.T) {
	rw := &fakeRewriter{failures: 100}
	n := newTestNormalizer(rw, Options{BatchSize: 10, MaxConcurrent: 1, MaxRetries: 2})

	if _, err := n.Normalize(context.Background(), testTrack(2), "en-US"); err == nil {
		t.Fatal("Normalize() should fail when every attempt fails")
	}
	if rw.calls != 2 {
		t.Errorf("calls = %d, want 2", rw.calls)
	}
}

func TestNormalizeShortReplyKeepsOriginal(t *testing.T) {
	rw := &fakeRewriter{short: true}
	n := newTestNormalizer(rw, Options{BatchSize: 5})

	out, err := n.Normalize(context.Background(), testTrack(3), "en-US")
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	for _, c := range out {
		if c.Text != "I have 3 apples" {
			t.Errorf("text = %q, want original", c.Text)
		}
	}
}

func TestNormalizeEmptyTrack(t *testing.T) {
	rw := &fakeRewriter{}
	n := newTestNormalizer(rw, Options{})

	out, err := n.Normalize(context.Background(), caption.Track{}, "en-US")
	if err != nil || len(out) != 0 {
		t.Errorf("Normalize() = %v, %v", out, err)
	}
	if rw.calls != 0 {
		t.Errorf("calls = %d, want 0", rw.calls)
	}
}

func TestNormalizeCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	n := newTestNormalizer(&fakeRewriter{}, Options{})
	if _, err := n.Normalize(ctx, testTrack(2), "en-US"); err == nil {
		t.Error("Normalize() should fail with a canceled context")
	}
}

type stubGenerator struct {
	reply  string
	prompt string
}

func (s *stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	s.prompt = prompt
	return s.reply, nil
}

func TestGeminiRewriter(t *testing.T) {
	gen := &stubGenerator{reply: "2| and two pears \nnoise\n1|I have three apples\n7|out of range\n"}
	rw := NewGeminiRewriter(gen)

	out, err := rw.Rewrite(context.Background(), []string{"I have 3 apples", "and 2\npears"}, "en-US")
	if err != nil {
		t.Fatalf("Rewrite() error = %v", err)
	}

	if len(out) != 2 || out[0] != "I have three apples" || out[1] != "and two pears" {
		t.Errorf("Rewrite() = %q", out)
	}
	if !strings.Contains(gen.prompt, "1|I have 3 apples\n2|and 2 pears\n") {
		t.Errorf("prompt missing numbered lines:\n%s", gen.prompt)
	}
	if !strings.Contains(gen.prompt, "in en-US.") {
		t.Errorf("prompt missing language:\n%s", gen.prompt)
	}
}

func TestParseReplyMissingLines(t *testing.T) {
	out := parseReply("2|second", 3)
	if out[0] != "" || out[1] != "second" || out[2] != "" {
		t.Errorf("parseReply() = %q", out)
	}
}
