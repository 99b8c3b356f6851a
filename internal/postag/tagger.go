// Package postag classifies single words grammatically for the summary
// checks. The checker depends only on the Tagger interface, so the backing
// model is swappable and tests can run against a fixed word list.
package postag

import "context"

// Tagger decides whether a word is a simple (base-form, imperative) verb,
// per the sentence template "this commit will <word> ...".
//
// Implementations may block on model loading and may fail; a failure is an
// infrastructure condition distinct from a negative classification and must
// never be collapsed into one.
type Tagger interface {
	IsSimpleVerb(ctx context.Context, word string) (bool, error)
}
