package sidecar

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// sidecarSchema is the JSON Schema a sidecar document must satisfy before
// it is trusted. It gates structure, not content: content-level corruption
// (zero page counts, bad TOC sequences) passes here and is handled by the
// repair pass instead.
const sidecarSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["version", "volumes"],
  "properties": {
    "version": { "type": "integer", "minimum": 1 },
    "lastWrite": { "type": "string" },
    "lastPageNo": { "type": "integer" },
    "pageNumberOffset": { "type": "integer" },
    "notes": { "type": "string" },
    "volumes": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["fileName"],
        "properties": {
          "fileName": { "type": "string", "minLength": 1 },
          "pageCount": { "type": "integer", "minimum": 0 },
          "rotation": { "type": "integer", "minimum": 0, "maximum": 3 }
        }
      }
    },
    "tableOfContents": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "pageNo": { "type": "integer" },
          "songName": { "type": "string" },
          "composer": { "type": "string" },
          "date": { "type": "string" },
          "notes": { "type": "string" },
          "link": { "type": "string" }
        }
      }
    },
    "favorites": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "pageNo": { "type": "integer" },
          "favoriteName": { "type": "string" }
        }
      }
    },
    "inkStrokes": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "pageNo": { "type": "integer" },
          "canvasWidth": { "type": "number" },
          "canvasHeight": { "type": "number" },
          "strokeData": { "type": "string" }
        }
      }
    }
  }
}`

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

// validate checks raw sidecar bytes against the format schema.
func validate(data []byte) error {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("sidecar.json", strings.NewReader(sidecarSchema)); err != nil {
			schemaErr = fmt.Errorf("failed to load sidecar schema: %w", err)
			return
		}
		compiledSchema, schemaErr = compiler.Compile("sidecar.json")
	})
	if schemaErr != nil {
		return schemaErr
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	return compiledSchema.Validate(doc)
}
