package listener

import (
	"github.com/somnia-buy-listener/pkg/explorer"
)

// IsNew reports whether candidate has not been seen yet. A later timestamp
// always wins; on equal timestamps only a different raw amount counts, since
// the explorer repeats its latest entry between polls.
func IsNew(candidate, lastKnown *explorer.Transfer) bool {
	if candidate == nil {
		return false
	}
	if lastKnown == nil {
		return true
	}
	if candidate.Timestamp.After(lastKnown.Timestamp) {
		return true
	}
	return candidate.Timestamp.Equal(lastKnown.Timestamp) &&
		candidate.Total.Value != lastKnown.Total.Value
}

// IsBuy treats any transfer with a strictly positive normalized amount as a
// buy. Sender and receiver are not inspected.
func IsBuy(t *explorer.Transfer) bool {
	return t != nil && t.Amount().IsPositive()
}
