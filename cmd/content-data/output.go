package main

import (
	"encoding/json"
	"io"
	"os"
)

// writeJSONLine prints one machine readable result line on stdout. An encode
// failure is a programming error in the result type, so it maps to the
// generic exit code rather than an operational one.
func writeJSONLine(v any) error {
	return encodeJSONLine(os.Stdout, v)
}

func encodeJSONLine(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
