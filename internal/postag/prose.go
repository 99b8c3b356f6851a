package postag

import (
	"context"
	"fmt"
	"strings"

	"github.com/jdkato/prose/v2"
)

// taggingPrefix frames the word so the tagger sees it in the position a
// commit summary implies: "I will fix ..." tags "fix" as a base-form verb,
// while conjugated forms keep their own tag.
const taggingPrefix = "I will"

// baseFormVerbTag is the Penn Treebank tag for a base-form verb.
const baseFormVerbTag = "VB"

// ProseTagger classifies words with the prose part-of-speech tagger. The
// model is embedded in the library, so classification is local and
// deterministic, but document construction still carries model-load cost;
// wrap with NewMemo when tagging many commits.
type ProseTagger struct{}

// NewProse returns a prose-backed Tagger.
func NewProse() *ProseTagger {
	return &ProseTagger{}
}

// IsSimpleVerb reports whether word is tagged as a base-form verb.
func (t *ProseTagger) IsSimpleVerb(ctx context.Context, word string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	doc, err := prose.NewDocument(
		taggingPrefix+" "+strings.ToLower(word),
		prose.WithExtraction(false),
		prose.WithSegmentation(false),
	)
	if err != nil {
		return false, fmt.Errorf("tagging %q: %w", word, err)
	}

	tokens := doc.Tokens()
	if len(tokens) < 3 {
		// The word contributed no token (e.g. it was empty or pure
		// punctuation); whatever it is, it is not a verb.
		return false, nil
	}
	return tokens[2].Tag == baseFormVerbTag, nil
}
