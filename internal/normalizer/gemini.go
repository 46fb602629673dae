package normalizer

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/nguyentantai21042004/lesson-captions/pkg/gemini"
)

const numbersPrompt = `You rewrite subtitle lines for a video lesson in %s.
Convert every numerical value to its spoken word form in that language: cardinals, ordinals,
currency amounts, percentages, dates and years. For example "123" becomes "one hundred
twenty-three", "1st" becomes "first" and "$50" becomes "fifty dollars".
Change nothing else: keep wording, punctuation and casing.

Each input line has the form <id>|<text>. Answer with exactly one line per input line in the
same form and order, and nothing else.

%s`

type geminiRewriter struct {
	gen gemini.Generator
}

// NewGeminiRewriter creates a Rewriter backed by a Gemini generator.
func NewGeminiRewriter(gen gemini.Generator) Rewriter {
	return &geminiRewriter{gen: gen}
}

func (r *geminiRewriter) Rewrite(ctx context.Context, lines []string, language string) ([]string, error) {
	reply, err := r.gen.Generate(ctx, buildPrompt(lines, language))
	if err != nil {
		return nil, err
	}
	return parseReply(reply, len(lines)), nil
}

func buildPrompt(lines []string, language string) string {
	if language == "" {
		language = "the language of the lines"
	}
	var b strings.Builder
	for i, l := range lines {
		fmt.Fprintf(&b, "%d|%s\n", i+1, strings.ReplaceAll(l, "\n", " "))
	}
	return fmt.Sprintf(numbersPrompt, language, b.String())
}

// parseReply maps "<id>|<text>" lines back to their positions. Unknown
// ids and malformed lines are dropped; missing ids stay empty.
func parseReply(reply string, n int) []string {
	out := make([]string, n)
	for _, line := range strings.Split(reply, "\n") {
		id, text, ok := strings.Cut(strings.TrimSpace(line), "|")
		if !ok {
			continue
		}
		i, err := strconv.Atoi(strings.TrimSpace(id))
		if err != nil || i < 1 || i > n {
			continue
		}
		out[i-1] = strings.TrimSpace(text)
	}
	return out
}
