package cli

import (
	"encoding/json"
	"io"
)

// FormatJSON is the flag value selecting JSON output; anything else is
// rendered as plain text by the command itself.
const FormatJSON = "json"

// WriteJSON writes v to w as indented JSON with a trailing newline, the
// shape lint and check emit for machine consumers.
func WriteJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
