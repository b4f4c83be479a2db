package nlp

import "strings"

// Item is the feature set attached to one token position, handed to the
// CRF tagger adapter (C8) as one element of its input sequence.
type Item struct {
	Features []string
}

// window holds the feature-extraction neighborhood around position curr,
// with out-of-range indices marked -1 (spec §4.3's mv_feature_window).
type window struct {
	curr, pre2, pre1, post1, post2 int
}

func moveFeatureWindow(length, curr int) window {
	w := window{curr: curr, pre2: curr - 2, pre1: curr - 1, post1: curr + 1, post2: curr + 2}
	if w.pre2 < 0 {
		w.pre2 = -1
	}
	if w.pre1 < 0 {
		w.pre1 = -1
	}
	if w.post1 > length {
		w.post1 = -1
	}
	if w.post2 > length {
		w.post2 = -1
	}
	return w
}

// BuildFeatures constructs the per-position feature items for the CRF
// tagger over terms/pos (spec §4.3). POS values are namespaced with a "@"
// prefix wherever they appear in a feature name, as specified.
//
// The original C++ source (bot.cpp, setupNerItemSequence) has an indexing
// bug where the w[t+1]/pos[t+1] features read literal index 1 instead of
// the intended post1 offset; spec.md §9 flags this and directs
// implementers to use the documented (pre1/post1) indices, which is what
// this function does.
func BuildFeatures(terms, pos []string) ([]Item, error) {
	if len(terms) != len(pos) {
		return nil, ErrInvalidLabelingData
	}

	n := len(terms)
	if n == 0 {
		return nil, nil
	}

	length := n - 1
	items := make([]Item, 0, n)

	for curr := 0; curr <= length; curr++ {
		w := moveFeatureWindow(length, curr)
		var feats []string

		if w.pre2 >= 0 {
			feats = append(feats,
				"w[t-2]="+terms[w.pre2],
				"pos[t-2]=@"+pos[w.pre2],
				"pos[t-2]|pos[t-1]=@"+pos[w.pre2]+"|@"+pos[w.pre1],
				"pos[t-2]|pos[t-1]|pos[t]=@"+pos[w.pre2]+"|@"+pos[w.pre1]+"|@"+pos[curr],
			)
		}

		if w.pre1 >= 0 {
			feats = append(feats,
				"w[t-1]="+terms[w.pre1],
				"pos[t-1]=@"+pos[w.pre1],
				"w[t-1]|w[t]="+terms[w.pre1]+"|"+terms[curr],
				"pos[t-1]|pos[t]=@"+pos[w.pre1]+"|@"+pos[curr],
			)
		}

		if w.pre1 >= 0 && w.post1 >= 0 {
			feats = append(feats,
				"pos[t-1]|pos[t]|pos[t+1]=@"+pos[w.pre1]+"|@"+pos[curr]+"|@"+pos[w.post1],
			)
		}

		feats = append(feats,
			"w[t]="+terms[curr],
			"pos[t]=@"+pos[curr],
		)

		if w.post1 >= 0 {
			feats = append(feats,
				"w[t+1]="+terms[w.post1],
				"pos[t+1]=@"+pos[w.post1],
				"w[t]|w[t+1]="+terms[curr]+"|"+terms[w.post1],
				"pos[t]|pos[t+1]=@"+pos[curr]+"|@"+pos[w.post1],
			)
		}

		if w.post2 >= 0 {
			feats = append(feats,
				"w[t+2]="+terms[w.post2],
				"pos[t+2]=@"+pos[w.post2],
			)
			if w.post1 >= 0 {
				feats = append(feats,
					"pos[t+1]|pos[t+2]=@"+pos[w.post1]+"|@"+pos[w.post2],
					"pos[t]|pos[t+1]|pos[t+2]=@"+pos[curr]+"|@"+pos[w.post1]+"|@"+pos[w.post2],
				)
			}
		}

		if curr == 0 {
			feats = append(feats, "__BOS__")
		}
		if curr == length {
			feats = append(feats, "__EOS__")
		}

		items = append(items, Item{Features: feats})
	}

	return items, nil
}

// FeatureString renders an item's features as a tab-joined line, useful for
// logging and for fixture-based round-trip tests against a trained model.
func (it Item) FeatureString() string {
	return strings.Join(it.Features, "\t")
}
