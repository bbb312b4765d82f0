package model

// FinancialRatios maps each named ratio to a nullable value. Nil means the
// ratio was not computable, not that the lookup failed.
type FinancialRatios struct {
	PERatio       *float64 `json:"peRatio"`
	QuickRatio    *float64 `json:"quickRatio"`
	CurrentRatio  *float64 `json:"currentRatio"`
	DebtToEquity  *float64 `json:"debtToEquity"`
	ROE           *float64 `json:"roe"`
	MarketCap     *float64 `json:"marketCap"`
	ForwardPE     *float64 `json:"forwardPE"`
	DividendYield *float64 `json:"dividendYield"`
	ThreeYearCAGR *float64 `json:"threeYearCAGR"`
}

// Empty reports whether no ratio was recovered.
func (r FinancialRatios) Empty() bool {
	for _, v := range r.values() {
		if v.value != nil {
			return false
		}
	}
	return true
}

// NamedRatio pairs a display label with its value.
type NamedRatio struct {
	Label string
	value *float64
}

// Value returns the ratio and whether it is present.
func (n NamedRatio) Value() (float64, bool) {
	if n.value == nil {
		return 0, false
	}
	return *n.value, true
}

// Named lists the ratios in display order.
func (r FinancialRatios) Named() []NamedRatio {
	return r.values()
}

func (r FinancialRatios) values() []NamedRatio {
	return []NamedRatio{
		{"PE Ratio", r.PERatio},
		{"Quick Ratio", r.QuickRatio},
		{"Current Ratio", r.CurrentRatio},
		{"Debt to Equity", r.DebtToEquity},
		{"ROE", r.ROE},
		{"Market Cap", r.MarketCap},
		{"Forward PE", r.ForwardPE},
		{"Dividend Yield", r.DividendYield},
		{"3-Year CAGR (%)", r.ThreeYearCAGR},
	}
}

// YearlySales is one fiscal year's total revenue.
type YearlySales struct {
	Date  string  `json:"date"`
	Sales float64 `json:"sales"`
}

// FinancialSnapshot bundles everything fetched for one ticker.
type FinancialSnapshot struct {
	Ticker      string          `json:"ticker"`
	Ratios      FinancialRatios `json:"financialRatios"`
	YearlySales []YearlySales   `json:"yearlySales"`
}

// Float returns a pointer to v, or nil when v is zero. Zero is how the
// quote collaborators report a missing field.
func Float(v float64) *float64 {
	if v == 0 {
		return nil
	}
	return &v
}
