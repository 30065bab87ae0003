package ai

import (
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

const analysisSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["strengths", "weaknesses", "suggestions", "score", "detailedFeedback"],
  "properties": {
    "strengths":        {"type": "array", "items": {"type": "string"}},
    "weaknesses":       {"type": "array", "items": {"type": "string"}},
    "suggestions":      {"type": "array", "items": {"type": "string"}},
    "recommendations":  {"type": "array", "items": {"type": "string"}},
    "score":            {"type": "number", "minimum": 0, "maximum": 100},
    "detailedFeedback": {"type": "string"}
  }
}`

var analysisSchema = mustSchema(analysisSchemaJSON)

func mustSchema(src string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic("ai: invalid analysis schema: " + err.Error())
	}
	return s
}

func validateAnalysis(text string) error {
	result, err := analysisSchema.Validate(gojsonschema.NewStringLoader(text))
	if err != nil {
		return &ResponseError{Reason: "response is not valid JSON", Err: err}
	}
	if result.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.Field()+": "+e.Description())
	}
	return &ResponseError{Reason: "schema mismatch: " + strings.Join(msgs, "; ")}
}
