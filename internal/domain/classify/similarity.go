// Package classify implements intent classification by token-level recall
// plus character-level similarity rerank (spec.md §4.2, components C5+C6).
package classify

// CharBagScore scores two character bags with a symmetric multiset metric
// (Dice's coefficient over multisets): 2*|intersection| / (|a|+|b|),
// where intersection counts each shared character up to the minimum
// multiplicity in either bag. This is the "ranker's symmetric set/
// multiset metric" spec.md §4.2 step 5 calls for without naming one
// concretely.
func CharBagScore(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	countA := make(map[string]int, len(a))
	for _, ch := range a {
		countA[ch]++
	}
	countB := make(map[string]int, len(b))
	for _, ch := range b {
		countB[ch]++
	}

	shared := 0
	for ch, ca := range countA {
		if cb, ok := countB[ch]; ok {
			if ca < cb {
				shared += ca
			} else {
				shared += cb
			}
		}
	}

	return 2 * float64(shared) / float64(len(a)+len(b))
}
