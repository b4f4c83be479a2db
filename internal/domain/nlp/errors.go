package nlp

import "errors"

// ErrInvalidLabelingData is returned by BuildFeatures when terms and pos
// have different lengths (spec §4.3, §7 "InvalidLabelingData").
var ErrInvalidLabelingData = errors.New("nlp: invalid labeling data: len(terms) != len(pos)")
