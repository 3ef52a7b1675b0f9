package content

import "strings"

// SignificantChangeThreshold is the change ratio above which an edit is
// reported as a significant change.
const SignificantChangeThreshold = 0.3

func tokenSet(text string) map[string]struct{} {
	tokens := strings.Fields(strings.ToLower(text))
	set := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		set[tok] = struct{}{}
	}
	return set
}

// ChangeRatio is a coarse lexical estimate of how much of the updated text is
// new: the fraction of the updated text's word set that does not appear in
// the original. It is 0 when the updated text has no tokens.
func ChangeRatio(original, updated string) float64 {
	updatedTokens := tokenSet(updated)
	if len(updatedTokens) == 0 {
		return 0
	}

	originalTokens := tokenSet(original)

	added := 0
	for tok := range updatedTokens {
		if _, ok := originalTokens[tok]; !ok {
			added++
		}
	}

	return float64(added) / float64(len(updatedTokens))
}

// IsSignificantChange applies the fixed threshold to the change ratio.
func IsSignificantChange(original, updated string) bool {
	return ChangeRatio(original, updated) > SignificantChangeThreshold
}
