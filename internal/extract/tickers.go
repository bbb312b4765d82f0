package extract

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Listing pairs a ticker with its firm name.
type Listing struct {
	Ticker string `yaml:"ticker"`
	Name   string `yaml:"name"`
}

// Table is the reference list shown to the LLM. It biases the answer
// toward known symbols; tickers outside it are still accepted.
type Table []Listing

// DefaultTable covers large NSE listings and a handful of US mega caps.
func DefaultTable() Table {
	return Table{
		{"OFSS.NS", "Oracle Financial Services Software"},
		{"RELIANCE.NS", "Reliance Industries Limited"},
		{"COALINDIA.NS", "Coal India Limited"},
		{"HDFCBANK.NS", "HDFC Bank Limited"},
		{"INFY.NS", "Infosys Limited"},
		{"ICICIBANK.NS", "ICICI Bank Limited"},
		{"TCS.NS", "Tata Consultancy Services Limited"},
		{"HINDUNILVR.NS", "Hindustan Unilever Limited"},
		{"SBIN.NS", "State Bank of India"},
		{"BAJFINANCE.NS", "Bajaj Finance Limited"},
		{"BHARTIARTL.NS", "Bharti Airtel Limited"},
		{"KOTAKBANK.NS", "Kotak Mahindra Bank Limited"},
		{"ITC.NS", "ITC Limited"},
		{"LT.NS", "Larsen & Toubro Limited"},
		{"HCLTECH.NS", "HCL Technologies Limited"},
		{"ASIANPAINT.NS", "Asian Paints Limited"},
		{"HINDALCO.NS", "Hindalco Industries Limited"},
		{"AXISBANK.NS", "Axis Bank Limited"},
		{"ULTRACEMCO.NS", "UltraTech Cement Limited"},
		{"SUNPHARMA.NS", "Sun Pharmaceutical Industries Limited"},
		{"NESTLEIND.NS", "Nestle India Limited"},
		{"M&M.NS", "Mahindra & Mahindra Limited"},
		{"MARUTI.NS", "Maruti Suzuki India Limited"},
		{"POWERGRID.NS", "Power Grid Corporation of India Limited"},
		{"TITAN.NS", "Titan Company Limited"},
		{"NTPC.NS", "NTPC Limited"},
		{"DRREDDY.NS", "Dr. Reddy's Laboratories Limited"},
		{"SBILIFE.NS", "SBI Life Insurance Company Limited"},
		{"GRASIM.NS", "Grasim Industries Limited"},
		{"TATAMOTORS.NS", "Tata Motors Limited"},
		{"DIVISLAB.NS", "Divi's Laboratories Limited"},
		{"HEROMOTOCO.NS", "Hero MotoCorp Limited"},
		{"EICHERMOT.NS", "Eicher Motors Limited"},
		{"HDFCLIFE.NS", "HDFC Life Insurance Company Limited"},
		{"WIPRO.NS", "Wipro Limited"},
		{"BRITANNIA.NS", "Britannia Industries Limited"},
		{"ADANIGREEN.NS", "Adani Green Energy Limited"},
		{"TATASTEEL.NS", "Tata Steel Limited"},
		{"ADANIPORTS.NS", "Adani Ports and Special Economic Zone Limited"},
		{"ONGC.NS", "Oil and Natural Gas Corporation Limited"},
		{"BAJAJFINSV.NS", "Bajaj Finserv Limited"},
		{"JSWSTEEL.NS", "JSW Steel Limited"},
		{"TECHM.NS", "Tech Mahindra Limited"},
		{"HINDZINC.NS", "Hindustan Zinc Limited"},
		{"BPCL.NS", "Bharat Petroleum Corporation Limited"},
		{"SHREECEM.NS", "Shree Cement Limited"},
		{"ADANIENT.NS", "Adani Enterprises Limited"},
		{"IOC.NS", "Indian Oil Corporation Limited"},
		{"UPL.NS", "UPL Limited"},
		{"COFORGE.NS", "Coforge Limited"},
		{"MUTHOOTFIN.NS", "Muthoot Finance Limited"},
		{"GODREJCP.NS", "Godrej Consumer Products Limited"},
		{"DLF.NS", "DLF Limited"},
		{"SIEMENS.NS", "Siemens Limited"},
		{"BIOCON.NS", "Biocon Limited"},
		{"ICICIPRULI.NS", "ICICI Prudential Life Insurance Company Limited"},
		{"PIDILITIND.NS", "Pidilite Industries Limited"},
		{"LUPIN.NS", "Lupin Limited"},
		{"AAPL", "Apple Inc."},
		{"MSFT", "Microsoft Corporation"},
		{"GOOGL", "Alphabet Inc. (Class A)"},
		{"GOOG", "Alphabet Inc. (Class C)"},
		{"AMZN", "Amazon.com, Inc."},
		{"TSLA", "Tesla, Inc."},
		{"NVDA", "NVIDIA Corporation"},
		{"META", "Meta Platforms, Inc."},
		{"PYPL", "PayPal Holdings, Inc."},
		{"ADBE", "Adobe Inc."},
		{"NFLX", "Netflix, Inc."},
		{"CSCO", "Cisco Systems, Inc."},
		{"PEP", "PepsiCo, Inc."},
		{"AVGO", "Broadcom Inc."},
		{"INTC", "Intel Corporation"},
	}
}

// LoadTable reads a reference table from a YAML file shaped as
//
//	tickers:
//	  - ticker: INFY.NS
//	    name: Infosys Limited
func LoadTable(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "extract: read ticker table %s", path)
	}

	var wrapper struct {
		Tickers Table `yaml:"tickers"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return nil, eris.Wrap(err, "extract: parse ticker table")
	}

	out := make(Table, 0, len(wrapper.Tickers))
	for _, l := range wrapper.Tickers {
		l.Ticker = strings.ToUpper(strings.TrimSpace(l.Ticker))
		l.Name = strings.TrimSpace(l.Name)
		if l.Ticker == "" || l.Name == "" {
			continue
		}
		out = append(out, l)
	}
	if len(out) == 0 {
		return nil, eris.Errorf("extract: ticker table %s has no entries", path)
	}
	return out, nil
}

// Contains reports whether ticker is listed, ignoring case.
func (t Table) Contains(ticker string) bool {
	for _, l := range t {
		if strings.EqualFold(l.Ticker, ticker) {
			return true
		}
	}
	return false
}

// String renders the table in the "Ticker - Firm Name" layout used in prompts.
func (t Table) String() string {
	var b strings.Builder
	b.WriteString("Ticker - Firm Name\n")
	for _, l := range t {
		b.WriteString(l.Ticker)
		b.WriteString(" - ")
		b.WriteString(l.Name)
		b.WriteByte('\n')
	}
	return b.String()
}
