// Package taglist encodes ordered string lists into a single delimited
// scalar for storage. The delimiter is escaped inside entries so that
// Decode(Encode(list)) round-trips any input, including entries that
// contain the delimiter itself.
package taglist

import "strings"

const (
	delimiter = ','
	escape    = '\\'
)

// Encode joins entries into one comma-delimited string. Empty entries are
// dropped; commas and backslashes inside an entry are backslash-escaped.
func Encode(entries []string) string {
	var b strings.Builder
	first := true
	for _, entry := range entries {
		if entry == "" {
			continue
		}
		if !first {
			b.WriteByte(delimiter)
		}
		first = false
		for i := 0; i < len(entry); i++ {
			c := entry[i]
			if c == delimiter || c == escape {
				b.WriteByte(escape)
			}
			b.WriteByte(c)
		}
	}
	return b.String()
}

// Decode splits an encoded scalar back into the original ordered list.
// Empty segments are filtered out.
func Decode(encoded string) []string {
	if encoded == "" {
		return nil
	}
	var entries []string
	var cur strings.Builder
	escaped := false
	for i := 0; i < len(encoded); i++ {
		c := encoded[i]
		switch {
		case escaped:
			cur.WriteByte(c)
			escaped = false
		case c == escape:
			escaped = true
		case c == delimiter:
			if cur.Len() > 0 {
				entries = append(entries, cur.String())
				cur.Reset()
			}
		default:
			cur.WriteByte(c)
		}
	}
	if cur.Len() > 0 {
		entries = append(entries, cur.String())
	}
	return entries
}

// Dedupe returns entries with duplicates removed, preserving first-seen order.
func Dedupe(entries []string) []string {
	seen := make(map[string]bool, len(entries))
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if e == "" || seen[e] {
			continue
		}
		seen[e] = true
		out = append(out, e)
	}
	return out
}
