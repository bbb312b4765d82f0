package extract

import (
	"strings"

	"github.com/sells-group/glance/internal/model"
)

// TagMatch is one "TAG - text - TAG" segment found in LLM output.
type TagMatch struct {
	Tag  model.Tag
	Text string
}

// ScanTags returns every tagged segment in text, left to right.
//
// A segment opens with the tag, one whitespace, a dash and one whitespace.
// The body is the shortest run without a newline that is followed by one
// whitespace, a dash, one whitespace and the same tag. Scanning resumes
// after the closing tag. An opening with no closing is passed over one
// byte at a time, so a later opening inside it can still match.
func ScanTags(text string) []TagMatch {
	var out []TagMatch
	pos := 0
	for pos < len(text) {
		m, end, ok := matchAt(text, pos)
		if !ok {
			pos++
			continue
		}
		out = append(out, m)
		pos = end
	}
	return out
}

// ParseTags folds ScanTags into sub-queries. The last segment for a tag
// wins and bodies are whitespace-trimmed.
func ParseTags(text string) model.SubQueries {
	var q model.SubQueries
	for _, m := range ScanTags(text) {
		q.Set(m.Tag, strings.TrimSpace(m.Text))
	}
	return q
}

// matchAt tries every tag at pos in declared order.
func matchAt(text string, pos int) (TagMatch, int, bool) {
	for _, tag := range model.Tags {
		bodyStart, ok := opening(text, pos, string(tag))
		if !ok {
			continue
		}
		if bodyEnd, end, ok := closing(text, bodyStart, string(tag)); ok {
			return TagMatch{Tag: tag, Text: text[bodyStart:bodyEnd]}, end, true
		}
	}
	return TagMatch{}, 0, false
}

// opening matches "TAG<ws>-<ws>" at pos and returns where the body starts.
func opening(text string, pos int, tag string) (int, bool) {
	if !strings.HasPrefix(text[pos:], tag) {
		return 0, false
	}
	return dash(text, pos+len(tag))
}

// closing finds the nearest "<ws>-<ws>TAG" after bodyStart with no newline
// in between. It returns the body end and the index just past the tag.
func closing(text string, bodyStart int, tag string) (int, int, bool) {
	for j := bodyStart; j < len(text); j++ {
		if after, ok := dash(text, j); ok && strings.HasPrefix(text[after:], tag) {
			return j, after + len(tag), true
		}
		if text[j] == '\n' {
			break
		}
	}
	return 0, 0, false
}

// dash matches "<ws>-<ws>" at i and returns the index after it.
func dash(text string, i int) (int, bool) {
	if i+3 > len(text) {
		return 0, false
	}
	if !isSpace(text[i]) || text[i+1] != '-' || !isSpace(text[i+2]) {
		return 0, false
	}
	return i + 3, true
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}
