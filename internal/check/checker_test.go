package check

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/structgit/structgit/internal/policy"
)

// wordListTagger is the deterministic stub backing the test suite.
type wordListTagger struct {
	verbs map[string]bool
	err   error
}

func (w *wordListTagger) IsSimpleVerb(_ context.Context, word string) (bool, error) {
	if w.err != nil {
		return false, w.err
	}
	return w.verbs[strings.ToLower(word)], nil
}

func testTagger() *wordListTagger {
	return &wordListTagger{verbs: map[string]bool{
		"add": true, "fix": true, "remove": true, "update": true,
	}}
}

func commitSequence(messages ...string) []RawCommit {
	commits := make([]RawCommit, len(messages))
	for i, message := range messages {
		commits[i] = RawCommit{
			Hash:    strings.Repeat(string(rune('a'+i)), 40),
			Index:   i,
			Message: message,
		}
	}
	return commits
}

func mustCheck(t *testing.T, rules policy.RuleSet, commits []RawCommit) *Report {
	t.Helper()
	checker, err := New(rules, testTagger(), nil)
	require.NoError(t, err)
	report, err := checker.Check(context.Background(), commits)
	require.NoError(t, err)
	return report
}

func rulesOf(res *Result) []Rule {
	rules := make([]Rule, len(res.Violations))
	for i, v := range res.Violations {
		rules[i] = v.Rule
	}
	return rules
}

func TestCheckTrailerRules(t *testing.T) {
	rules := policy.RuleSet{
		Trailers: map[string]policy.TrailerRule{
			"Commit-type": {Mandatory: true, Singular: true, Values: []string{"feat", "fix"}},
		},
	}

	tests := []struct {
		name     string
		message  string
		expected []Rule
	}{
		{
			name:     "missing mandatory trailer",
			message:  "Add parser\n",
			expected: []Rule{RuleTrailerMandatory},
		},
		{
			name:     "duplicate singular trailer",
			message:  "Add parser\n\nCommit-type: feat\nCommit-type: fix\n",
			expected: []Rule{RuleTrailerSingular},
		},
		{
			name:     "non-configured value",
			message:  "Add parser\n\nCommit-type: docs\n",
			expected: []Rule{RuleTrailerValue},
		},
		{
			name:     "conforming trailer",
			message:  "Add parser\n\nCommit-type: feat\n",
			expected: []Rule{},
		},
		{
			name:     "unknown trailers are permitted",
			message:  "Add parser\n\nCommit-type: feat\nWhatever-key: anything\n",
			expected: []Rule{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := mustCheck(t, rules, commitSequence(tt.message))
			res := report.PerCommit[report.Order[0]]
			assert.Equal(t, tt.expected, rulesOf(res))
		})
	}
}

func TestCheckMandatoryTrailerSuggestion(t *testing.T) {
	rules := policy.RuleSet{
		Trailers: map[string]policy.TrailerRule{
			"Commit-type": {Mandatory: true},
		},
	}

	report := mustCheck(t, rules, commitSequence("Add parser\n\nCommit-typo: feat\n"))
	res := report.PerCommit[report.Order[0]]
	require.Len(t, res.Violations, 1)
	assert.Equal(t, RuleTrailerMandatory, res.Violations[0].Rule)
	assert.Contains(t, res.Violations[0].Detail, `found similar trailer: "Commit-typo"`)
}

func TestCheckSummaryCapitalization(t *testing.T) {
	tests := []struct {
		name     string
		want     policy.Capitalization
		message  string
		violates bool
	}{
		{"upper rejects lower", policy.CapUpper, "fix bug", true},
		{"upper accepts upper", policy.CapUpper, "Fix bug", false},
		{"upper rejects empty summary", policy.CapUpper, "", true},
		{"upper rejects non-letter", policy.CapUpper, "123 bottles", true},
		{"lower accepts lower", policy.CapLower, "fix bug", false},
		{"lower rejects upper", policy.CapLower, "Fix bug", true},
		{"disabled checks nothing", policy.CapNone, "fix bug", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules := policy.RuleSet{
				Summary: policy.SummaryRules{FirstWordCapitalization: tt.want},
			}
			report := mustCheck(t, rules, commitSequence(tt.message))
			res := report.PerCommit[report.Order[0]]
			if tt.violates {
				require.Len(t, res.Violations, 1)
				assert.Equal(t, RuleSummaryCase, res.Violations[0].Rule)
			} else {
				assert.Empty(t, res.Violations)
			}
		})
	}
}

func TestCheckSummaryVerb(t *testing.T) {
	rules := policy.RuleSet{
		Summary: policy.SummaryRules{FirstWordIsSimpleVerb: true},
	}

	report := mustCheck(t, rules, commitSequence(
		"Add parser\n",
		"Added parser\n",
		"\n",
	))

	assert.Empty(t, report.PerCommit[report.Order[0]].Violations)

	notVerb := report.PerCommit[report.Order[1]]
	require.Len(t, notVerb.Violations, 1)
	assert.Equal(t, RuleSummaryVerb, notVerb.Violations[0].Rule)
	assert.Contains(t, notVerb.Violations[0].Detail, `"Added"`)

	empty := report.PerCommit[report.Order[2]]
	require.Len(t, empty.Violations, 1)
	assert.Equal(t, RuleSummaryVerb, empty.Violations[0].Rule)
}

func TestCheckVerbRuleRequiresTagger(t *testing.T) {
	rules := policy.RuleSet{
		Summary: policy.SummaryRules{FirstWordIsSimpleVerb: true},
	}
	_, err := New(rules, nil, nil)
	assert.Error(t, err)

	// Without the rule a tagger is not needed.
	_, err = New(policy.RuleSet{}, nil, nil)
	assert.NoError(t, err)
}

func TestCheckTaggerFailureIsNotAViolation(t *testing.T) {
	rules := policy.RuleSet{
		Summary: policy.SummaryRules{FirstWordIsSimpleVerb: true},
	}
	tagger := &wordListTagger{err: errors.New("model unavailable")}
	checker, err := New(rules, tagger, nil)
	require.NoError(t, err)

	report, err := checker.Check(context.Background(), commitSequence("Add parser\n"))
	require.NoError(t, err)

	res := report.PerCommit[report.Order[0]]
	assert.Empty(t, res.Violations)
	require.Len(t, res.Unevaluated, 1)
	assert.Equal(t, RuleSummaryVerb, res.Unevaluated[0].Rule)
	assert.Contains(t, res.Unevaluated[0].Reason, "model unavailable")

	assert.True(t, report.Conforms)
	assert.True(t, report.Incomplete)
}

func TestCheckFirstCommitEmpty(t *testing.T) {
	rules := policy.RuleSet{FirstCommitIsEmpty: true}

	t.Run("empty first commit conforms", func(t *testing.T) {
		report := mustCheck(t, rules, commitSequence("", "Add parser\n"))
		assert.True(t, report.Conforms)
	})

	t.Run("non-empty first commit violates", func(t *testing.T) {
		report := mustCheck(t, rules, commitSequence("Initial commit\n", "Add parser\n"))
		res := report.PerCommit[report.Order[0]]
		require.Len(t, res.Violations, 1)
		assert.Equal(t, RuleFirstCommitEmpty, res.Violations[0].Rule)
		assert.False(t, report.Conforms)
	})
}

func TestCheckStartingFromCut(t *testing.T) {
	rules := policy.RuleSet{
		FirstCommitIsEmpty: true,
		Summary:            policy.SummaryRules{FirstWordCapitalization: policy.CapUpper},
	}

	commits := commitSequence(
		"initial\n", // index 0: violates first-commit-empty, case rule cut off
		"second\n",  // index 1: cut off
		"third\n",   // index 2: the starting-from commit, still cut off
		"fourth\n",  // index 3: checked, violates
		"Fifth\n",   // index 4: checked, conforms
	)
	rules.StartingFrom = commits[2].Hash

	report := mustCheck(t, rules, commits)

	// The first-commit anchor applies even before the cut.
	assert.Equal(t, []Rule{RuleFirstCommitEmpty}, rulesOf(report.PerCommit[commits[0].Hash]))
	// Commits at or before the cut are otherwise unchecked.
	assert.Empty(t, report.PerCommit[commits[1].Hash].Violations)
	assert.Empty(t, report.PerCommit[commits[2].Hash].Violations)
	// Checking resumes strictly after the cut.
	assert.Equal(t, []Rule{RuleSummaryCase}, rulesOf(report.PerCommit[commits[3].Hash]))
	assert.Empty(t, report.PerCommit[commits[4].Hash].Violations)
}

func TestCheckStartingFromPrefix(t *testing.T) {
	commits := commitSequence("first\n", "second\n", "Third\n")
	rules := policy.RuleSet{
		StartingFrom: commits[1].Hash[:12],
		Summary:      policy.SummaryRules{FirstWordCapitalization: policy.CapUpper},
	}

	report := mustCheck(t, rules, commits)
	assert.Empty(t, report.PerCommit[commits[1].Hash].Violations)
	assert.Empty(t, report.PerCommit[commits[2].Hash].Violations)
	assert.True(t, report.Conforms)
}

func TestCheckStartingFromNotInHistory(t *testing.T) {
	checker, err := New(policy.RuleSet{StartingFrom: "deadbeef"}, nil, nil)
	require.NoError(t, err)

	_, err = checker.Check(context.Background(), commitSequence("Add parser\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found in history")
}

func TestCheckReportIncludesCleanCommits(t *testing.T) {
	rules := policy.RuleSet{
		Trailers: map[string]policy.TrailerRule{
			"Commit-type": {Mandatory: true},
		},
	}

	commits := commitSequence(
		"Add parser\n\nCommit-type: feat\n",
		"Fix parser\n",
	)
	report := mustCheck(t, rules, commits)

	require.Len(t, report.Order, 2)
	assert.Equal(t, []string{commits[0].Hash, commits[1].Hash}, report.Order)

	clean := report.PerCommit[commits[0].Hash]
	require.NotNil(t, clean)
	assert.Equal(t, []Violation{}, clean.Violations)

	assert.False(t, report.Conforms)
	require.Len(t, report.Failing(), 1)
	assert.Equal(t, commits[1].Hash, report.Failing()[0].Hash)
}

func TestCheckViolationOrderIsDeterministic(t *testing.T) {
	rules := policy.RuleSet{
		Summary: policy.SummaryRules{
			FirstWordIsSimpleVerb:   true,
			FirstWordCapitalization: policy.CapUpper,
		},
		Trailers: map[string]policy.TrailerRule{
			"Commit-type": {Mandatory: true, Singular: true},
			"Approved-by": {Mandatory: true},
		},
	}

	message := "went ahead and broke everything\n\nApproved-by: a\nApproved-by: b\n"
	report := mustCheck(t, rules, commitSequence(message))
	res := report.PerCommit[report.Order[0]]

	// Check order, then sorted trailer key order within each trailer check.
	assert.Equal(t, []Rule{
		RuleSummaryVerb,
		RuleSummaryCase,
		RuleTrailerMandatory,
	}, rulesOf(res))
	assert.Contains(t, res.Violations[2].Detail, `"Commit-type"`)
}

func TestAggregateConforms(t *testing.T) {
	results := map[string]*Result{
		"a": {Hash: "a", Violations: []Violation{}},
		"b": {Hash: "b", Violations: []Violation{}},
	}
	report := aggregate([]string{"a", "b"}, results)
	assert.True(t, report.Conforms)
	assert.False(t, report.Incomplete)

	// Any single violation anywhere flips conformance.
	results["b"].Violations = append(results["b"].Violations, Violation{
		Hash: "b", Rule: RuleTrailerMandatory, Detail: "x",
	})
	report = aggregate([]string{"a", "b"}, results)
	assert.False(t, report.Conforms)
}

func TestDidYouMean(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		candidates []string
		expected   string
	}{
		{"close match", "Commit-type", []string{"Commit-typo", "Reviewed-by"}, "Commit-typo"},
		{"suffix variation matches via truncation", "Commit-type", []string{"Commit-type-extended"}, "Commit-type-extended"},
		{"case insensitive", "commit-type", []string{"Commit-Type"}, "Commit-Type"},
		{"no close match", "Commit-type", []string{"Reviewed-by"}, ""},
		{"no candidates", "Commit-type", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, didYouMean(tt.target, tt.candidates))
		})
	}
}
