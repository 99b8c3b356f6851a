package check

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// suggestThreshold is the maximum edit distance for a did-you-mean hint.
const suggestThreshold = 3

// didYouMean returns the candidate closest to target within the threshold,
// or "" if none is close enough. Candidates are truncated to the target's
// length before measuring, so suffix variations ("Commit-type-x" for
// "Commit-type") still match. Comparison is case-insensitive.
func didYouMean(target string, candidates []string) string {
	lowered := strings.ToLower(target)
	targetLen := len([]rune(lowered))

	best := ""
	bestDistance := suggestThreshold + 1
	for _, candidate := range candidates {
		truncated := []rune(strings.ToLower(candidate))
		if len(truncated) > targetLen {
			truncated = truncated[:targetLen]
		}
		distance := levenshtein.ComputeDistance(lowered, string(truncated))
		if distance < bestDistance {
			best = candidate
			bestDistance = distance
		}
	}
	return best
}
