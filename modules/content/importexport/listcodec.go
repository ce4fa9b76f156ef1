package importexport

import (
	"encoding/csv"
	"io"
	"strings"
)

// deserializeList splits a comma-separated cell using CSV quoting rules, so
// items containing commas survive when quoted. The exact inverse of
// serializeList.
func deserializeList(value string) ([]string, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	r := csv.NewReader(strings.NewReader(value))
	r.TrimLeadingSpace = true
	rec, err := r.Read()
	if err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, err
	}
	items := make([]string, 0, len(rec))
	for _, item := range rec {
		items = append(items, strings.TrimSpace(item))
	}
	return items, nil
}

// serializeList joins items into one CSV-quoted cell value.
func serializeList(items []string) string {
	if len(items) == 0 {
		return ""
	}
	var sb strings.Builder
	w := csv.NewWriter(&sb)
	_ = w.Write(items)
	w.Flush()
	return strings.TrimRight(sb.String(), "\r\n")
}

// deserializePairs reads "key: value" pairs out of a comma-separated cell,
// e.g. profile fields ("gender: male, age: 15-18"). Order is preserved.
func deserializePairs(value string) ([][2]string, error) {
	items, err := deserializeList(value)
	if err != nil {
		return nil, err
	}
	pairs := make([][2]string, 0, len(items))
	for _, item := range items {
		if item == "" {
			continue
		}
		name, val, _ := strings.Cut(item, ":")
		pairs = append(pairs, [2]string{strings.TrimSpace(name), strings.TrimSpace(val)})
	}
	return pairs, nil
}

// serializePairs renders pairs as "key: value" items, comma-joined with CSV
// quoting. The inverse of deserializePairs.
func serializePairs(pairs [][2]string) string {
	items := make([]string, 0, len(pairs))
	for _, p := range pairs {
		items = append(items, p[0]+": "+p[1])
	}
	return serializeList(items)
}
