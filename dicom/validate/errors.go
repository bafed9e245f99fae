package validate

import (
	"errors"
	"fmt"
)

var (
	// ErrRuleFailed indicates an error-severity Issue was raised while the
	// effective Behavior for that tag was Validate.
	ErrRuleFailed = errors.New("validation rule failed")

	// ErrCallbackAborted indicates an OnIssue callback returned false.
	ErrCallbackAborted = errors.New("validation callback aborted parse")
)

// RuleError wraps ErrRuleFailed with the Issue that triggered it.
type RuleError struct {
	Issue Issue
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("%s: %s (%s): %s", ErrRuleFailed.Error(), e.Issue.RuleID, e.Issue.Tag, e.Issue.Message)
}

func (e *RuleError) Unwrap() error {
	return ErrRuleFailed
}

// CallbackAbortError wraps ErrCallbackAborted with the Issue that was being
// reported when the callback declined to continue.
type CallbackAbortError struct {
	Issue Issue
}

func (e *CallbackAbortError) Error() string {
	return fmt.Sprintf("%s: %s (%s)", ErrCallbackAborted.Error(), e.Issue.RuleID, e.Issue.Tag)
}

func (e *CallbackAbortError) Unwrap() error {
	return ErrCallbackAborted
}
