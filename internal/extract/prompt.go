package extract

import (
	"fmt"
	"strings"
)

const extractSystemPrompt = "You are a research assistant that identifies listed companies and plans research queries for an equity analyst. Answer in exactly the format requested."

const analysisPrompt = `From the following user request, identify the company being asked about and return its Yahoo Finance ticker symbol. Use the ".NS" suffix for companies listed on the National Stock Exchange of India and the bare symbol otherwise.

User request:
%s
%s
Here is a list of potential companies and their ticker symbols:
%s
Match the closest name from the list or find the ticker symbol yourself if it is not listed. Return the result in the format:
Company Name: <name>
Ticker: <ticker>
Competitor Name: <name of a listed competitor in the same industry>
Competitor Ticker: <ticker>

Additionally, generate eight-word queries to assist in further analysis. Write each query on its own line, bounded by its tag:
1. Company Query about this firm: CQ1 - <query> - CQ1
2. Two knowledge-base queries using critical keywords that help answer the user's question from a fundamental analysis textbook. Do not mention the firm's name or country. Mention financial aspects: RQ1 - <query> - RQ1, RQ2 - <query> - RQ2
3. Two industry web queries that help understand the industry the firm works in: IW1 - <query> - IW1, IW2 - <query> - IW2
4. Two economic queries about the firm's operations and the country it works in: EQ1 - <query> - EQ1, EQ2 - <query> - EQ2
5. One latest news query about the firm: LQ1 - <query> - LQ1
6. Three web queries that financially address the user's question. Do not make these about the ticker symbol. Do not mention the firm's name or country: QW1 - <query> - QW1, QW2 - <query> - QW2, QW3 - <query> - QW3`

const structuredPrompt = `From the following user request, identify the company being asked about and return its Yahoo Finance ticker symbol. Use the ".NS" suffix for companies listed on the National Stock Exchange of India and the bare symbol otherwise.

User request:
%s
%s
Here is a list of potential companies and their ticker symbols:
%s
Return a valid JSON object with this shape and nothing else:
{"companyName": "<name>", "ticker": "<ticker>", "competitorName": "<name>", "competitorTicker": "<ticker>", "queries": {"CQ1": "...", "RQ1": "...", "RQ2": "...", "IW1": "...", "IW2": "...", "EQ1": "...", "EQ2": "...", "LQ1": "...", "QW1": "...", "QW2": "...", "QW3": "..."}}

Each query is about eight words. CQ1 is about the firm. RQ1 and RQ2 are fundamental analysis textbook keywords without the firm's name or country. IW1 and IW2 are about the firm's industry. EQ1 and EQ2 are about the firm's operations and country. LQ1 is about the firm's latest news. QW1 to QW3 financially address the user's question without the firm's name or country. Use "Unknown" for any name or ticker you cannot determine.`

const profilePrompt = `From the following text, extract and return the Yahoo Finance ticker symbol and a competitor firm's name and ticker symbol in the same industry:
%s

Here is a list of potential companies and their ticker symbols:
%s
Match the closest name from the list or find the ticker symbol yourself if it is not listed. Once you find the ticker and competitor, stop and return the result in the format:
Company Name: <name>
Ticker: <ticker>
Competitor Name: <name>
Competitor Ticker: <ticker>`

const tickerPrompt = `From the following text, extract and return the Yahoo Finance ticker symbol:
%s

Here is a list of potential companies and their ticker symbols:
%s
Once you find the ticker, stop and return the result in the format:
Company Name: <name>
Ticker: <ticker>`

// hintBlock renders document passages found for the company, or nothing.
func hintBlock(hint string) string {
	hint = strings.TrimSpace(hint)
	if hint == "" {
		return ""
	}
	return fmt.Sprintf("\nText from the user's document:\n%s\n", hint)
}

func buildAnalysisPrompt(message, hint string, table Table) string {
	return fmt.Sprintf(analysisPrompt, message, hintBlock(hint), table.String())
}

func buildStructuredPrompt(message, hint string, table Table) string {
	return fmt.Sprintf(structuredPrompt, message, hintBlock(hint), table.String())
}

func buildProfilePrompt(firmName string, table Table) string {
	return fmt.Sprintf(profilePrompt, firmName, table.String())
}

func buildTickerPrompt(firmName string, table Table) string {
	return fmt.Sprintf(tickerPrompt, firmName, table.String())
}
