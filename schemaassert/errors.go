package schemaassert

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ErrorRecord is one schema violation.
type ErrorRecord struct {
	// Location is a JSON pointer into the data (such as "/address/city"), or, for violations of the
	// value as a whole, the keyword path in the schema (such as "#/required"), or RootLocation.
	Location string
	Message  string
	Params   map[string]interface{}
}

func (r ErrorRecord) String() string {
	params, err := json.Marshal(r.Params)
	if err != nil || r.Params == nil {
		params = []byte("{}")
	}
	return fmt.Sprintf("%s — %s (%s)", r.Location, r.Message, params)
}

// SchemaValidationError is returned when a value does not match a schema. Its message has one line
// per violation, after a header line.
type SchemaValidationError struct {
	Records []ErrorRecord
}

func (e *SchemaValidationError) Error() string {
	lines := make([]string, 0, len(e.Records)+1)
	lines = append(lines, "schema validation failed:")
	for _, r := range e.Records {
		lines = append(lines, r.String())
	}
	return strings.Join(lines, "\n")
}

// Locations returns the location of every violation, in order.
func (e *SchemaValidationError) Locations() []string {
	ret := make([]string, 0, len(e.Records))
	for _, r := range e.Records {
		ret = append(ret, r.Location)
	}
	return ret
}
