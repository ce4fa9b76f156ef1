package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestEncodeJSONLine(t *testing.T) {
	var buf bytes.Buffer
	err := encodeJSONLine(&buf, map[string]string{"status": "applied", "note": "a<b"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := buf.String()
	if !strings.HasSuffix(got, "\n") {
		t.Fatalf("missing trailing newline: %q", got)
	}
	// HTML escaping would mangle slugs and bodies in summaries
	if strings.Contains(got, `\u003c`) {
		t.Fatalf("output is HTML escaped: %q", got)
	}
	if !strings.Contains(got, `"a<b"`) {
		t.Fatalf("unexpected output: %q", got)
	}
}
