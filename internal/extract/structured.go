package extract

import (
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"

	"github.com/sells-group/glance/internal/model"
)

const extractionSchema = `{
  "type": "object",
  "required": ["companyName", "ticker"],
  "properties": {
    "companyName": {"type": "string"},
    "ticker": {"type": "string"},
    "competitorName": {"type": ["string", "null"]},
    "competitorTicker": {"type": ["string", "null"]},
    "queries": {
      "type": "object",
      "additionalProperties": {"type": ["string", "null"]}
    }
  }
}`

var extractionSchemaLoader = gojsonschema.NewStringLoader(extractionSchema)

type structuredAnswer struct {
	CompanyName      string             `json:"companyName"`
	Ticker           string             `json:"ticker"`
	CompetitorName   *string            `json:"competitorName"`
	CompetitorTicker *string            `json:"competitorTicker"`
	Queries          map[string]*string `json:"queries"`
}

// ParseStructured reads a JSON extraction answer. It fails when the text is
// not JSON or does not match the extraction schema.
func ParseStructured(text string) (model.Extraction, error) {
	doc := stripFences(text)

	result, err := gojsonschema.Validate(extractionSchemaLoader, gojsonschema.NewStringLoader(doc))
	if err != nil {
		return model.Extraction{}, eris.Wrap(err, "extract: decode structured answer")
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return model.Extraction{}, eris.Errorf("extract: structured answer invalid: %s", strings.Join(errs, "; "))
	}

	var ans structuredAnswer
	if err := json.Unmarshal([]byte(doc), &ans); err != nil {
		return model.Extraction{}, eris.Wrap(err, "extract: unmarshal structured answer")
	}

	e := model.NewExtraction()
	e.CompanyName = name(ans.CompanyName)
	e.Ticker = ticker(ans.Ticker)
	if ans.CompetitorName != nil {
		e.CompetitorName = name(*ans.CompetitorName)
	}
	if ans.CompetitorTicker != nil {
		e.CompetitorTicker = ticker(*ans.CompetitorTicker)
	}
	for key, v := range ans.Queries {
		if !model.IsTag(key) {
			zap.L().Debug("extract: ignoring unknown query key", zap.String("key", key))
			continue
		}
		if v != nil {
			e.Queries.Set(model.Tag(key), strings.TrimSpace(*v))
		}
	}
	return e, nil
}

// stripFences removes a surrounding markdown code fence, if any.
func stripFences(text string) string {
	s := strings.TrimSpace(text)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
