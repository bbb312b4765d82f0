package server

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/xeipuuv/gojsonschema"
)

const messageSchema = `{
  "type": "object",
  "properties": {
    "message": {"type": "string", "minLength": 1},
    "documentNamespace": {"type": "string", "minLength": 1},
    "fileId": {"type": "string", "minLength": 1}
  },
  "required": ["message"],
  "anyOf": [
    {"required": ["documentNamespace"]},
    {"required": ["fileId"]}
  ]
}`

const firmSchema = `{
  "type": "object",
  "properties": {
    "firmName": {"type": "string", "minLength": 1}
  },
  "required": ["firmName"]
}`

var (
	messageLoader = gojsonschema.NewStringLoader(messageSchema)
	firmLoader    = gojsonschema.NewStringLoader(firmSchema)
)

// validate checks body against schema and joins the violations into one
// error.
func validate(schema gojsonschema.JSONLoader, body []byte) error {
	result, err := gojsonschema.Validate(schema, gojsonschema.NewBytesLoader(body))
	if err != nil {
		return eris.Wrap(err, "server: invalid JSON body")
	}
	if result.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return eris.New("server: " + strings.Join(msgs, "; "))
}
