package bot

import (
	apperrors "github.com/chatopera/clause/pkg/errors"
)

// Error kinds. Low-level adapter misses (KV miss, trie miss, recall
// empty) are deliberately not represented here — they are negative
// results, not errors; only structural violations escalate.
var (
	// ErrLoadFailure: any fatal artifact missing or corrupt during init,
	// except the soft CRF-model-absent case.
	ErrLoadFailure = apperrors.NewInternalError("bot: load failure")

	// ErrMalformedSession: is_proactive without proactive_slotname.
	ErrMalformedSession = apperrors.NewInvalidInputError("bot: malformed session: is_proactive without proactive_slotname")

	// ErrNoMatchedIntent: session.intent_name is not in the profile at
	// chat time.
	ErrNoMatchedIntent = apperrors.NewNotFoundError("bot: no intent in profile matches session.intent_name")
)
