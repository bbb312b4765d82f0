package model

import "strings"

// Unknown is the sentinel for a name or ticker the extraction could not recover.
const Unknown = "Unknown"

// QueryEnvelope is a single user request. It is not mutated once received.
type QueryEnvelope struct {
	Message   string `json:"message"`
	Namespace string `json:"documentNamespace"`
}

// Tag identifies one sub-query slot in the extraction grammar.
type Tag string

const (
	TagCompany    Tag = "CQ1" // Parsed, not routed.
	TagRAG1       Tag = "RQ1"
	TagRAG2       Tag = "RQ2"
	TagIndustry1  Tag = "IW1"
	TagIndustry2  Tag = "IW2"
	TagEconomic1  Tag = "EQ1"
	TagEconomic2  Tag = "EQ2"
	TagLatestNews Tag = "LQ1"
	TagQuestion1  Tag = "QW1"
	TagQuestion2  Tag = "QW2"
	TagQuestion3  Tag = "QW3"
)

// Tags lists every tag the extraction grammar recognizes.
var Tags = []Tag{
	TagCompany,
	TagRAG1, TagRAG2,
	TagIndustry1, TagIndustry2,
	TagEconomic1, TagEconomic2,
	TagLatestNews,
	TagQuestion1, TagQuestion2, TagQuestion3,
}

// IsTag reports whether s names a recognized tag.
func IsTag(s string) bool {
	for _, t := range Tags {
		if string(t) == s {
			return true
		}
	}
	return false
}

// SubQueries holds the short retrieval phrases produced by extraction.
// An empty string means the tag was absent.
type SubQueries struct {
	Company    string `json:"CQ1"`
	RAG1       string `json:"RQ1"`
	RAG2       string `json:"RQ2"`
	Industry1  string `json:"IW1"`
	Industry2  string `json:"IW2"`
	Economic1  string `json:"EQ1"`
	Economic2  string `json:"EQ2"`
	LatestNews string `json:"LQ1"`
	Question1  string `json:"QW1"`
	Question2  string `json:"QW2"`
	Question3  string `json:"QW3"`
}

func (q *SubQueries) field(tag Tag) *string {
	switch tag {
	case TagCompany:
		return &q.Company
	case TagRAG1:
		return &q.RAG1
	case TagRAG2:
		return &q.RAG2
	case TagIndustry1:
		return &q.Industry1
	case TagIndustry2:
		return &q.Industry2
	case TagEconomic1:
		return &q.Economic1
	case TagEconomic2:
		return &q.Economic2
	case TagLatestNews:
		return &q.LatestNews
	case TagQuestion1:
		return &q.Question1
	case TagQuestion2:
		return &q.Question2
	case TagQuestion3:
		return &q.Question3
	}
	return nil
}

// Get returns the sub-query stored under tag, or "" for unknown tags.
func (q SubQueries) Get(tag Tag) string {
	if f := q.field(tag); f != nil {
		return *f
	}
	return ""
}

// Set stores value under tag. It reports false for unknown tags.
func (q *SubQueries) Set(tag Tag, value string) bool {
	f := q.field(tag)
	if f == nil {
		return false
	}
	*f = value
	return true
}

// Extraction is the structured result recovered from the LLM's free text.
// Names and tickers default to Unknown, sub-queries to "".
type Extraction struct {
	CompanyName      string     `json:"companyName"`
	Ticker           string     `json:"ticker"`
	CompetitorName   string     `json:"competitorName"`
	CompetitorTicker string     `json:"competitorTicker"`
	Queries          SubQueries `json:"queries"`
}

// NewExtraction returns the all-sentinel extraction.
func NewExtraction() Extraction {
	return Extraction{
		CompanyName:      Unknown,
		Ticker:           Unknown,
		CompetitorName:   Unknown,
		CompetitorTicker: Unknown,
	}
}

// Known reports whether v carries a real value rather than the sentinel.
func Known(v string) bool {
	v = strings.TrimSpace(v)
	return v != "" && v != Unknown
}

// HasTicker reports whether a primary ticker was extracted.
func (e Extraction) HasTicker() bool { return Known(e.Ticker) }

// HasCompetitor reports whether a competitor ticker was extracted.
func (e Extraction) HasCompetitor() bool { return Known(e.CompetitorTicker) }
