package validate

// Engine runs a Profile's rules against each element Context handed to it
// by the parser, after that element has been decoded. It implements the
// callback-abort protocol: every raised Issue is reported to OnIssue (if
// set) before the engine decides whether to abort.
type Engine struct {
	Profile *Profile
	OnIssue func(Issue) bool
}

// NewEngine builds an Engine for profile, reporting issues to onIssue if
// non-nil. A nil profile makes Run a no-op, so callers that never enable
// validation pay no per-element cost beyond the nil check.
func NewEngine(profile *Profile, onIssue func(Issue) bool) *Engine {
	return &Engine{Profile: profile, OnIssue: onIssue}
}

// Run evaluates ctx against every rule in the engine's Profile.
//
// For each raised Issue: if OnIssue is set, it is called first; a false
// return aborts with *CallbackAbortError regardless of severity or
// Behavior. Otherwise, if the effective Behavior for ctx.Tag is Validate
// and the issue is SeverityError, Run aborts with *RuleError. Any other
// combination (Skip, Warn, or a lower-severity issue under Validate)
// collects the issue and continues to the next rule.
func (e *Engine) Run(ctx Context) error {
	if e == nil || e.Profile == nil {
		return nil
	}

	behavior := e.Profile.BehaviorFor(ctx.Tag)

	for _, rule := range e.Profile.Rules {
		issue := rule.Validate(ctx)
		if issue == nil {
			continue
		}
		issue.RuleID = rule.ID()

		if e.OnIssue != nil && !e.OnIssue(*issue) {
			return &CallbackAbortError{Issue: *issue}
		}

		if behavior == Validate && issue.Severity == SeverityError {
			return &RuleError{Issue: *issue}
		}
	}

	return nil
}
