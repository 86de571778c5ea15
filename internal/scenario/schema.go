package scenario

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/cxd309/trafficsim/internal/simerr"
)

// jsonSchema encodes spec.md §6's document shape: required top-level keys
// and required fields on every array entry that has no documented default.
const jsonSchema = `{
  "type": "object",
  "required": ["simulation", "vehicles", "roads"],
  "properties": {
    "simulation": {
      "type": "object",
      "required": ["name", "cycles"],
      "properties": {
        "name": {"type": "string"},
        "cycles": {"type": "integer", "minimum": 1}
      }
    },
    "vehicles": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["length", "initialSpeed", "initialAcceleration", "maxSpeed", "maxAcceleration"]
      }
    },
    "roads": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["length", "vehicleDistance", "speedLimit"]
      }
    },
    "semaphores": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["position", "greenLight", "redLight", "startTime", "road"]
      }
    },
    "intersections": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["inRoads", "outRoads"]
      }
    }
  }
}`

// validateAgainstSchema checks raw scenario JSON against jsonSchema before
// attempting to decode it into typed fields, so a missing required key is
// reported as a ConfigError naming the offending path rather than a zero
// value silently passing through.
func validateAgainstSchema(data []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(jsonSchema)
	docLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return simerr.NewConfigError("", fmt.Errorf("validating scenario JSON: %w", err))
	}
	if !result.Valid() {
		var msgs []string
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return simerr.NewConfigError("", fmt.Errorf("schema violations: %s", strings.Join(msgs, "; ")))
	}
	return nil
}
