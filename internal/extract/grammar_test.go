package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/glance/internal/model"
)

func TestParseTags_NoMarkers(t *testing.T) {
	q := ParseTags("Ticker: INFY.NS\nCompany Name: Infosys Limited")
	assert.Equal(t, model.SubQueries{}, q)
}

func TestParseTags_EachTag(t *testing.T) {
	for _, tag := range model.Tags {
		t.Run(string(tag), func(t *testing.T) {
			text := "intro\n" + string(tag) + " - software exports growth outlook - " + string(tag) + "\n"
			q := ParseTags(text)
			assert.Equal(t, "software exports growth outlook", q.Get(tag))
			for _, other := range model.Tags {
				if other != tag {
					assert.Empty(t, q.Get(other), "tag %s should be empty", other)
				}
			}
		})
	}
}

func TestParseTags_DuplicateLastWins(t *testing.T) {
	text := "IW1 - first query - IW1\nIW1 - second query - IW1"
	assert.Equal(t, "second query", ParseTags(text).Industry1)
}

func TestParseTags_SeveralOnOneLine(t *testing.T) {
	text := "2. RQ1 - margin of safety - RQ1, RQ2 - intrinsic value - RQ2"
	q := ParseTags(text)
	assert.Equal(t, "margin of safety", q.RAG1)
	assert.Equal(t, "intrinsic value", q.RAG2)
}

func TestParseTags_ShortestBody(t *testing.T) {
	text := "QW1 - a - QW1 - b - QW1"
	matches := ScanTags(text)
	if assert.Len(t, matches, 1) {
		assert.Equal(t, "a", matches[0].Text)
	}
}

func TestParseTags_MismatchedClosing(t *testing.T) {
	q := ParseTags("IW1 - query text - IW2")
	assert.Empty(t, q.Industry1)
	assert.Empty(t, q.Industry2)
}

func TestParseTags_BodyCannotSpanLines(t *testing.T) {
	q := ParseTags("LQ1 - latest\nnews - LQ1")
	assert.Empty(t, q.LatestNews)
}

func TestParseTags_ClosingWhitespaceMayBeNewline(t *testing.T) {
	q := ParseTags("LQ1 - latest results\n- LQ1")
	assert.Equal(t, "latest results", q.LatestNews)
}

func TestParseTags_UnclosedOpeningSkipped(t *testing.T) {
	q := ParseTags("EQ1 - dangling EQ2 - inflation outlook - EQ2")
	assert.Empty(t, q.Economic1)
	assert.Equal(t, "inflation outlook", q.Economic2)
}

func TestParseTags_EmptyBody(t *testing.T) {
	matches := ScanTags("CQ1 -  - CQ1")
	if assert.Len(t, matches, 1) {
		assert.Equal(t, model.TagCompany, matches[0].Tag)
		assert.Empty(t, matches[0].Text)
	}
}

func TestParseTags_RequiresSingleWhitespace(t *testing.T) {
	assert.Empty(t, ParseTags("QW2- tight - QW2").Question2)
	assert.Empty(t, ParseTags("QW2 -tight - QW2").Question2)
}

func TestParseTags_TrimsBody(t *testing.T) {
	q := ParseTags("QW3 -   padded query   - QW3")
	assert.Equal(t, "padded query", q.Question3)
}

func TestParseTags_UnknownTagIgnored(t *testing.T) {
	q := ParseTags("XQ1 - nothing - XQ1\nQW1 - something - QW1")
	assert.Equal(t, "something", q.Question1)
	assert.Len(t, ScanTags("XQ1 - nothing - XQ1"), 0)
}

func TestScanTags_Order(t *testing.T) {
	text := "IW2 - b - IW2\nIW1 - a - IW1"
	matches := ScanTags(text)
	assert.Equal(t, []TagMatch{
		{Tag: model.TagIndustry2, Text: "b"},
		{Tag: model.TagIndustry1, Text: "a"},
	}, matches)
}
