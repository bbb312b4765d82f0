package model

// NoResponse is returned as the narrative when the composer LLM produced no text.
const NoResponse = "No response generated."

// AnalysisResponse is the body returned for a successful analysis request.
type AnalysisResponse struct {
	Ticker           string          `json:"ticker"`
	CompanyName      string          `json:"companyName"`
	CompetitorName   string          `json:"competitorName,omitempty"`
	CompetitorTicker string          `json:"competitorTicker,omitempty"`
	FinancialRatios  FinancialRatios `json:"financialRatios"`
	YearlySales      []YearlySales   `json:"yearlySales"`
	Narrative        string          `json:"narrative"`

	// Retrieval is kept for callers that render the source sections. It is
	// not part of the JSON body.
	Retrieval RetrievalSet `json:"-"`
}

// ProfileResponse is the body returned for a company profile lookup.
type ProfileResponse struct {
	CompanyName           string          `json:"companyName"`
	Ticker                string          `json:"ticker"`
	CompetitorName        string          `json:"competitorName"`
	CompetitorTicker      string          `json:"competitorTicker"`
	FinancialRatios       FinancialRatios `json:"financialRatios"`
	YearlySales           []YearlySales   `json:"yearlySales"`
	CompetitorYearlySales []YearlySales   `json:"competitorYearlySales"`
	News                  string          `json:"news"`
	Overview              string          `json:"overview"`
}

// FirmTicker is the body returned for a bare ticker lookup.
type FirmTicker struct {
	CompanyName string `json:"companyName"`
	Ticker      string `json:"ticker"`
}
