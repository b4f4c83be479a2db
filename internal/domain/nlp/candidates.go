package nlp

import "strings"

// Candidate is an extracted (slot_name, surface) pair from a BIO tag
// sequence (spec §4.4).
type Candidate struct {
	SlotName string
	Surface  string
}

// ExtractCandidates scans terms/tags left to right and emits one candidate
// per contiguous B-<name> (I-<name>)* span. B-@... tags are POS
// annotations, not entities, and are skipped; so is everything tagged O.
//
// Returns an empty (nil) list, not an error, when terms is empty or the
// lengths of terms and tags disagree (spec §4.4 "fails silently").
func ExtractCandidates(terms, tags []string) []Candidate {
	n := len(terms)
	if n == 0 || n != len(tags) {
		return nil
	}

	var candidates []Candidate
	i := 0
	for i < n {
		tag := tags[i]
		switch {
		case strings.HasPrefix(tag, "B-@"):
			i++
		case strings.HasPrefix(tag, "B-"):
			name := strings.TrimPrefix(tag, "B-")
			var sb strings.Builder
			sb.WriteString(terms[i])
			j := i + 1
			for j < n && tags[j] == "I-"+name {
				sb.WriteString(terms[j])
				j++
			}
			candidates = append(candidates, Candidate{SlotName: name, Surface: sb.String()})
			i = j
		default:
			i++
		}
	}

	return candidates
}
