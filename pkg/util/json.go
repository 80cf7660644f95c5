package util

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// PrintPrettyJSON writes v to stdout as indented JSON.
func PrintPrettyJSON(v any) error {
	return WritePrettyJSON(os.Stdout, v)
}

// WritePrettyJSON writes v to w as indented JSON. A nil slice prints as [].
func WritePrettyJSON(w io.Writer, v any) error {
	if v == nil {
		_, err := fmt.Fprintln(w, "null")
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
