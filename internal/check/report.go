package check

// Rule identifies one check in the fixed taxonomy.
type Rule string

const (
	RuleFirstCommitEmpty Rule = "first-commit-empty"
	RuleSummaryVerb      Rule = "summary-first-word-verb"
	RuleSummaryCase      Rule = "summary-first-word-capitalization"
	RuleTrailerMandatory Rule = "trailer-mandatory"
	RuleTrailerSingular  Rule = "trailer-singular"
	RuleTrailerValue     Rule = "trailer-value"
)

// RawCommit is one commit as yielded by the history reader.
type RawCommit struct {
	// Hash is the commit's opaque unique identifier.
	Hash string
	// Index is the commit's position in traversal order, 0 = oldest.
	Index int
	// Message is the raw commit message, possibly empty.
	Message string
}

// Violation records one policy breach on one commit.
type Violation struct {
	Hash   string `json:"commit"`
	Rule   Rule   `json:"rule"`
	Detail string `json:"detail"`
}

// Unevaluated records a check that could not be evaluated because of an
// infrastructure failure (for example an unavailable tagging model). It is
// deliberately not a Violation: callers must be able to tell policy failure
// from infrastructure failure.
type Unevaluated struct {
	Rule   Rule   `json:"rule"`
	Reason string `json:"reason"`
}

// Result holds the outcome for a single commit.
type Result struct {
	Hash        string        `json:"commit"`
	Summary     string        `json:"summary"`
	Violations  []Violation   `json:"violations"`
	Unevaluated []Unevaluated `json:"unevaluated,omitempty"`
}

// Report is the outcome of a whole check run.
//
// PerCommit contains an entry for every commit in the checked sequence,
// including conforming ones (with an empty violation list), so consumers can
// enumerate all commits seen from the report alone. Order preserves the
// sequence order of the hashes.
type Report struct {
	Order     []string           `json:"order"`
	PerCommit map[string]*Result `json:"per_commit"`
	// Conforms is true iff no commit has any violation. Unevaluated checks
	// do not affect it; see Incomplete.
	Conforms bool `json:"conforms"`
	// Incomplete is true if any check could not be evaluated, meaning
	// Conforms may be optimistic.
	Incomplete bool `json:"incomplete"`
}

// Failing returns the results with violations or unevaluated checks, in
// sequence order.
func (r *Report) Failing() []*Result {
	var failing []*Result
	for _, hash := range r.Order {
		res := r.PerCommit[hash]
		if len(res.Violations) > 0 || len(res.Unevaluated) > 0 {
			failing = append(failing, res)
		}
	}
	return failing
}

// aggregate assembles the final report from per-commit results. Pure
// assembly: conformance is the absence of any violation anywhere.
func aggregate(order []string, results map[string]*Result) *Report {
	report := &Report{
		Order:     order,
		PerCommit: results,
		Conforms:  true,
	}
	for _, res := range results {
		if len(res.Violations) > 0 {
			report.Conforms = false
		}
		if len(res.Unevaluated) > 0 {
			report.Incomplete = true
		}
	}
	return report
}
