package envsync

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	bberrors "github.com/systmms/bbenv/internal/errors"
)

// variablesSchema constrains local variable files to the shape the import
// engine relies on. Only key and value are required; secured defaults to
// false, matching the remote representation of a plain variable. Unknown
// fields are rejected so a file exported from some other tool fails loudly
// instead of importing garbage.
const variablesSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "array",
  "items": {
    "type": "object",
    "properties": {
      "key": {"type": "string", "minLength": 1},
      "value": {"type": "string"},
      "secured": {"type": "boolean"}
    },
    "required": ["key", "value"],
    "additionalProperties": false
  }
}`

// ValidateVariablesDocument checks a raw import file against the variable
// file schema and reports every violation in one DecodeError.
func ValidateVariablesDocument(data []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(variablesSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return bberrors.DecodeError{What: "import file", Err: err}
	}
	if result.Valid() {
		return nil
	}

	var problems []string
	for _, desc := range result.Errors() {
		problems = append(problems, desc.String())
	}
	return bberrors.DecodeError{
		What: "import file",
		Err:  fmt.Errorf("%s", strings.Join(problems, "; ")),
	}
}
