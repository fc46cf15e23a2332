// Package sentence splits question templates around their blank markers.
package sentence

import "strings"

// BlankMarker is the literal token that denotes one fill-in slot.
const BlankMarker = "_____________"

// Split returns the text segments around each blank marker. A template with k
// markers yields k+1 segments; a template without markers yields itself.
func Split(template string) []string {
	return strings.Split(template, BlankMarker)
}

// CountBlanks returns the number of blank markers in template.
func CountBlanks(template string) int {
	return strings.Count(template, BlankMarker)
}

// Join reassembles segments with a blank marker between each pair.
func Join(segments []string) string {
	return strings.Join(segments, BlankMarker)
}

// Fill renders segments with fills placed between them. Missing fills render
// as placeholder.
func Fill(segments, fills []string, placeholder string) string {
	var b strings.Builder
	for i, seg := range segments {
		b.WriteString(seg)
		if i == len(segments)-1 {
			break
		}
		if i < len(fills) && fills[i] != "" {
			b.WriteString(fills[i])
		} else {
			b.WriteString(placeholder)
		}
	}
	return b.String()
}
