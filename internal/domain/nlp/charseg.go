// Package nlp implements the pure, I/O-free text-processing core of the
// dialog machine: character segmentation (C2), CRF feature construction
// (C7), and BIO slot-candidate extraction (C9).
package nlp

// CharSegment splits s into its grapheme-level atoms (spec §4.2, §4.5).
// Segmentation is by Unicode code point, which is the correct atomic unit
// for CJK text (one code point per character) and degrades gracefully for
// Latin text (one code point per letter).
func CharSegment(s string) []string {
	runes := []rune(s)
	out := make([]string, len(runes))
	for i, r := range runes {
		out[i] = string(r)
	}
	return out
}
