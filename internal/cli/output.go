package cli

import (
	"encoding/json"
	"io"
)

// printJSON writes v to w as indented JSON. Command results go to stdout
// in this form so output is pipeable into jq and friends.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
