package validate

import (
	"fmt"
)

// EvenLengthRule flags a value whose raw byte length is odd. DICOM requires
// every value field to have even length; an odd length does not by itself
// make the element unreadable (the parser has already consumed it), so this
// is informational rather than an error.
//
// DICOM Standard Reference:
// https://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_7.1.1
type EvenLengthRule struct{}

func (EvenLengthRule) ID() string          { return "even-length" }
func (EvenLengthRule) Description() string { return "value length must be even" }

func (EvenLengthRule) Validate(ctx Context) *Issue {
	if ctx.Raw == nil || len(ctx.Raw)%2 == 0 {
		return nil
	}
	return &Issue{
		Severity: SeverityInfo,
		Tag:      ctx.Tag,
		Position: ctx.Position,
		Message:  fmt.Sprintf("odd value length %d for %s", len(ctx.Raw), ctx.DeclaredVR),
	}
}

// PaddingByteRule checks the last byte of every non-empty, even-length
// string-type value and raises an info issue when it is neither the VR's
// padding byte (space for most string VRs, NUL for UI) nor 0x00 nor 0x20.
type PaddingByteRule struct{}

func (PaddingByteRule) ID() string          { return "padding-byte" }
func (PaddingByteRule) Description() string { return "string padding byte must match VR convention" }

func (PaddingByteRule) Validate(ctx Context) *Issue {
	if len(ctx.Raw) == 0 || len(ctx.Raw)%2 != 0 {
		return nil
	}
	if !ctx.DeclaredVR.IsStringType() {
		return nil
	}
	want := ctx.DeclaredVR.PaddingByte()
	got := ctx.Raw[len(ctx.Raw)-1]
	if got != want && got != 0x00 && got != 0x20 {
		return &Issue{
			Severity:     SeverityInfo,
			Tag:          ctx.Tag,
			Position:     ctx.Position,
			Message:      fmt.Sprintf("unexpected padding byte 0x%02X for %s (expected 0x%02X)", got, ctx.DeclaredVR, want),
			SuggestedFix: fmt.Sprintf("pad with 0x%02X", want),
		}
	}
	return nil
}

// DictionaryVRRule flags a declared VR that disagrees with the data
// dictionary's entry for the tag (when the tag is known and unambiguous).
// An encoder may legitimately choose any VR the dictionary lists for an
// ambiguous tag, so this rule only fires when the dictionary lists exactly
// one VR and the declared VR differs from it.
type DictionaryVRRule struct{}

func (DictionaryVRRule) ID() string          { return "declared-vs-dictionary-vr" }
func (DictionaryVRRule) Description() string { return "declared VR must match the data dictionary" }

func (DictionaryVRRule) Validate(ctx Context) *Issue {
	if !ctx.HasDictionaryVR || ctx.IsPrivate {
		return nil
	}
	if ctx.DictionaryVR == ctx.DeclaredVR {
		return nil
	}
	return &Issue{
		Severity:   SeverityWarning,
		Tag:        ctx.Tag,
		DeclaredVR: ctx.DeclaredVR,
		ExpectedVR: ctx.DictionaryVR,
		Position:   ctx.Position,
		Message:    fmt.Sprintf("declared VR %s does not match dictionary VR %s", ctx.DeclaredVR, ctx.DictionaryVR),
	}
}

// MaxLengthRule flags a string value whose content exceeds the VR's maximum
// defined length.
type MaxLengthRule struct{}

func (MaxLengthRule) ID() string          { return "max-length" }
func (MaxLengthRule) Description() string { return "value length must not exceed the VR's maximum" }

func (MaxLengthRule) Validate(ctx Context) *Issue {
	max := ctx.DeclaredVR.MaxLength()
	if max <= 0 || ctx.Raw == nil {
		return nil
	}
	if len(ctx.Raw) <= max {
		return nil
	}
	return &Issue{
		Severity: SeverityWarning,
		Tag:      ctx.Tag,
		Position: ctx.Position,
		Message:  fmt.Sprintf("value length %d exceeds maximum %d for %s", len(ctx.Raw), max, ctx.DeclaredVR),
	}
}

// StructuralRules returns the rules that only inspect shape (length,
// padding, dictionary agreement) rather than content format. These are the
// rules the Permissive preset runs.
func StructuralRules() []Rule {
	return []Rule{
		EvenLengthRule{},
		PaddingByteRule{},
		DictionaryVRRule{},
		MaxLengthRule{},
	}
}
