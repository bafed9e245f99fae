// Package validate implements the dataset Validation Engine: a set of
// Rules evaluated against each decoded element, governed by a Profile that
// decides, per tag, whether a raised Issue is ignored, reported, or treated
// as fatal.
//
// The package depends only on dicom/tag, dicom/vr, dicom/value,
// dicom/element, dicom/datetime, dicom/uid and go-playground/validator/v10
// so that the root dicom package can import it without a
// cycle; validate never imports the root dicom package. A Dataset here is
// therefore a small structural interface — the root package's *DataSet
// satisfies it without either package naming the other.
//
// DICOM Standard Reference:
// https://dicom.nema.org/medical/dicom/current/output/html/part05.html
package validate

import (
	"github.com/codeninja55/go-radx/dicom/element"
	"github.com/codeninja55/go-radx/dicom/tag"
	"github.com/codeninja55/go-radx/dicom/value"
	"github.com/codeninja55/go-radx/dicom/vr"
)

// Dataset is the minimal surface a validation Context needs to resolve
// sibling elements (e.g. a private creator lookup, or a cross-tag rule
// consulting SpecificCharacterSet). The root dicom.DataSet satisfies this
// structurally.
type Dataset interface {
	Get(t tag.Tag) (*element.Element, error)
	Contains(t tag.Tag) bool
}

// Severity classifies how serious a raised Issue is. Apart from an OnIssue
// callback returning false (which aborts for any severity and Behavior),
// only SeverityError aborts a parse, and only when the effective Behavior
// for that tag is Validate.
type Severity uint8

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// Issue is a single finding raised by a Rule against a Context.
type Issue struct {
	RuleID       string
	Severity     Severity
	Tag          tag.Tag
	DeclaredVR   vr.VR
	ExpectedVR   vr.VR // zero value (vr.VR(0)) if the rule has no specific expectation
	Position     int64 // stream offset where the element began, -1 if unknown
	Message      string
	SuggestedFix string
	Raw          []byte // raw value bytes, set only when the rule inspected them directly
}

// Context is the read-only view a Rule inspects. It carries everything the
// spec's component design asks for: the tag, the declared and (if found)
// dictionary VR, the raw value bytes, the enclosing dataset, the current
// encoding, the stream position, and private-tag bookkeeping.
type Context struct {
	Tag tag.Tag

	DeclaredVR      vr.VR
	DictionaryVR    vr.VR
	HasDictionaryVR bool

	Value value.Value // nil for sequence/fragment-sequence/lazy elements
	Raw   []byte       // raw bytes backing Value, when the caller has them

	Dataset Dataset

	ExplicitVR bool
	BigEndian  bool

	Position int64

	IsPrivate      bool
	PrivateCreator string
}

// Rule evaluates a Context and optionally raises an Issue. Validate must
// return nil when the Context satisfies the rule.
type Rule interface {
	ID() string
	Description() string
	Validate(ctx Context) *Issue
}

// Behavior is the effective disposition a Profile assigns to issues raised
// for a given tag.
type Behavior uint8

const (
	// Skip means rules still run (for side effects such as logging via
	// OnIssue); an issue aborts the parse only if OnIssue returns false.
	Skip Behavior = iota
	// Warn means issues are reported to OnIssue and, regardless of
	// severity, abort the parse only if OnIssue returns false.
	Warn
	// Validate means an error-severity issue aborts the parse with
	// ErrRuleFailed, after being reported to OnIssue.
	Validate
)

// Profile bundles an ordered rule set with a default Behavior and per-tag
// overrides, e.g. "Validate everything except (0008,0018) SOPInstanceUID,
// which is only Warned about."
type Profile struct {
	Name      string
	Rules     []Rule
	Default   Behavior
	Overrides map[tag.Tag]Behavior
}

// BehaviorFor returns the effective Behavior for t: the per-tag override if
// present, else the profile default.
func (p *Profile) BehaviorFor(t tag.Tag) Behavior {
	if p == nil {
		return Skip
	}
	if b, ok := p.Overrides[t]; ok {
		return b
	}
	return p.Default
}
