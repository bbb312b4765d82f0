package model

// Category groups retrieval slots by the report section they feed.
type Category string

const (
	CategoryFundamentals Category = "fundamentals"
	CategoryIndustry     Category = "industry"
	CategoryQuestion     Category = "question"
	CategoryDocument     Category = "document"
	CategoryNews         Category = "news"
	CategoryKnowledge    Category = "knowledge"
)

// SlotStatus records how a retrieval slot was filled.
type SlotStatus string

const (
	SlotOK      SlotStatus = "ok"
	SlotSkipped SlotStatus = "skipped" // empty sub-query, no call made
	SlotFailed  SlotStatus = "failed"  // collaborator error or empty result
)

// Slot is the typed result of one retrieval call. Text always holds
// something printable: the retrieved value, or the fallback string.
type Slot struct {
	Tag      Tag        `json:"tag,omitempty"`
	Category Category   `json:"category"`
	Query    string     `json:"query"`
	Status   SlotStatus `json:"status"`
	Text     string     `json:"text"`
	Reason   string     `json:"reason,omitempty"`
}

// OK reports whether the slot holds a retrieved value.
func (s Slot) OK() bool { return s.Status == SlotOK }

// RetrievalSet is the fixed-shape output of the fan-out stage.
type RetrievalSet struct {
	Fundamentals Slot              `json:"fundamentals"`
	Financials   FinancialSnapshot `json:"financials"`
	Queries      []Slot            `json:"queries"`
}

// ByCategory returns the query slots of one category in declared order.
func (r RetrievalSet) ByCategory(c Category) []Slot {
	var out []Slot
	for _, s := range r.Queries {
		if s.Category == c {
			out = append(out, s)
		}
	}
	return out
}

// Failed counts slots that fell back because a collaborator failed.
func (r RetrievalSet) Failed() int {
	n := 0
	if r.Fundamentals.Status == SlotFailed {
		n++
	}
	for _, s := range r.Queries {
		if s.Status == SlotFailed {
			n++
		}
	}
	return n
}
