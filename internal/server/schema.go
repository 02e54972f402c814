package server

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// analyzeRequestSchema rejects malformed tables at the boundary so the
// allocator only ever sees non-negative counts. Scenario keys are only
// type-checked here; overhang.ParseScenario normalizes and validates them.
var analyzeRequestSchema = mustCompileSchema(`{
  "type": "object",
  "required": ["units", "vouchers"],
  "properties": {
    "units": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["label", "units", "lihtcMaxRent", "utilityAllowance", "section8Rent"],
        "properties": {
          "label": {"type": "string", "minLength": 1},
          "units": {"type": "integer", "minimum": 0},
          "lihtcMaxRent": {"type": "number"},
          "utilityAllowance": {"type": "number"},
          "section8Rent": {"type": "number"}
        }
      }
    },
    "vouchers": {
      "type": "object",
      "required": ["projectBased", "tenantBased"],
      "properties": {
        "projectBased": {"type": "integer", "minimum": 0},
        "tenantBased": {"type": "integer", "minimum": 0}
      }
    },
    "scenario": {"type": "string"}
  }
}`)

func mustCompileSchema(schema string) *gojsonschema.Schema {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schema))
	if err != nil {
		panic(fmt.Sprintf("failed to compile request schema: %v", err))
	}
	return compiled
}

// validateAnalyzeRequest returns one message per schema violation.
func validateAnalyzeRequest(body []byte) ([]string, error) {
	result, err := analyzeRequestSchema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return nil, err
	}
	if result.Valid() {
		return nil, nil
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		problems = append(problems, desc.String())
	}
	return problems, nil
}

func joinProblems(problems []string) string {
	return "invalid request: " + strings.Join(problems, "; ")
}
