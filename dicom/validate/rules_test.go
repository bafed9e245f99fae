package validate

import (
	"testing"

	"github.com/codeninja55/go-radx/dicom/tag"
	"github.com/codeninja55/go-radx/dicom/value"
	dicomvr "github.com/codeninja55/go-radx/dicom/vr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stringValueOf(t *testing.T, v dicomvr.VR, s string) value.Value {
	t.Helper()
	sv, err := value.NewStringValue(v, []string{s})
	require.NoError(t, err)
	return sv
}

// TestFormatRule_ValidDate verifies a well-formed DA value raises no issue.
func TestFormatRule_ValidDate(t *testing.T) {
	ctx := Context{Tag: tag.New(0x0008, 0x0020), DeclaredVR: dicomvr.Date, Value: stringValueOf(t, dicomvr.Date, "20260731")}
	issue := FormatRule{}.Validate(ctx)
	assert.Nil(t, issue)
}

// TestFormatRule_InvalidDate verifies a malformed DA value raises a
// SeverityError issue naming the expected grammar.
func TestFormatRule_InvalidDate(t *testing.T) {
	ctx := Context{Tag: tag.New(0x0008, 0x0020), DeclaredVR: dicomvr.Date, Value: stringValueOf(t, dicomvr.Date, "not-a-date")}
	issue := FormatRule{}.Validate(ctx)
	require.NotNil(t, issue)
	assert.Equal(t, SeverityError, issue.Severity)
}

// TestFormatRule_InvalidUID verifies a malformed UI value is rejected.
func TestFormatRule_InvalidUID(t *testing.T) {
	ctx := Context{Tag: tag.New(0x0008, 0x0018), DeclaredVR: dicomvr.UniqueIdentifier, Value: stringValueOf(t, dicomvr.UniqueIdentifier, "not..a..uid")}
	issue := FormatRule{}.Validate(ctx)
	require.NotNil(t, issue)
	assert.Equal(t, SeverityError, issue.Severity)
}

// TestFormatRule_NonFormatVR verifies a VR with no registered grammar
// (e.g. LO) is passed through without evaluation.
func TestFormatRule_NonFormatVR(t *testing.T) {
	ctx := Context{Tag: tag.New(0x0010, 0x0020), DeclaredVR: dicomvr.LongString, Value: stringValueOf(t, dicomvr.LongString, "anything goes")}
	issue := FormatRule{}.Validate(ctx)
	assert.Nil(t, issue)
}

// TestFormatRule_EmptyValue verifies an empty string is skipped rather
// than flagged, since an absent value isn't a format violation.
func TestFormatRule_EmptyValue(t *testing.T) {
	ctx := Context{Tag: tag.New(0x0008, 0x0020), DeclaredVR: dicomvr.Date, Value: stringValueOf(t, dicomvr.Date, "")}
	issue := FormatRule{}.Validate(ctx)
	assert.Nil(t, issue)
}

// TestEvenLengthRule_OddLengthFlagged verifies an odd-length raw value
// raises an info-severity issue.
func TestEvenLengthRule_OddLengthFlagged(t *testing.T) {
	ctx := Context{Tag: tag.New(0x0010, 0x0010), DeclaredVR: dicomvr.PersonName, Raw: []byte("odd")}
	issue := EvenLengthRule{}.Validate(ctx)
	require.NotNil(t, issue)
	assert.Equal(t, SeverityInfo, issue.Severity)
}

// TestEvenLengthRule_EvenLengthPasses verifies an even-length raw value
// raises nothing.
func TestEvenLengthRule_EvenLengthPasses(t *testing.T) {
	ctx := Context{Tag: tag.New(0x0010, 0x0010), DeclaredVR: dicomvr.PersonName, Raw: []byte("even")}
	issue := EvenLengthRule{}.Validate(ctx)
	assert.Nil(t, issue)
}

// TestPaddingByteRule_WrongPadFlagged verifies a trailing byte that
// matches neither the VR's convention, NUL, nor space is flagged.
func TestPaddingByteRule_WrongPadFlagged(t *testing.T) {
	ctx := Context{Tag: tag.New(0x0010, 0x0010), DeclaredVR: dicomvr.PersonName, Raw: []byte("abc\xFF")}
	issue := PaddingByteRule{}.Validate(ctx)
	require.NotNil(t, issue)
	assert.Equal(t, SeverityInfo, issue.Severity)
}

// TestPaddingByteRule_SpacePadPasses verifies the conventional space pad
// for a PN value raises nothing.
func TestPaddingByteRule_SpacePadPasses(t *testing.T) {
	ctx := Context{Tag: tag.New(0x0010, 0x0010), DeclaredVR: dicomvr.PersonName, Raw: []byte("abc ")}
	issue := PaddingByteRule{}.Validate(ctx)
	assert.Nil(t, issue)
}

// TestPaddingByteRule_NonStringVRSkipped verifies a binary VR is never
// evaluated for padding convention.
func TestPaddingByteRule_NonStringVRSkipped(t *testing.T) {
	ctx := Context{Tag: tag.New(0x7FE0, 0x0010), DeclaredVR: dicomvr.OtherByte, Raw: []byte{0x01, 0xFF}}
	issue := PaddingByteRule{}.Validate(ctx)
	assert.Nil(t, issue)
}

// TestDictionaryVRRule_Mismatch verifies a declared VR that disagrees with
// an unambiguous dictionary entry is flagged as a warning.
func TestDictionaryVRRule_Mismatch(t *testing.T) {
	ctx := Context{
		Tag:             tag.New(0x0010, 0x0010),
		DeclaredVR:      dicomvr.LongString,
		DictionaryVR:    dicomvr.PersonName,
		HasDictionaryVR: true,
	}
	issue := DictionaryVRRule{}.Validate(ctx)
	require.NotNil(t, issue)
	assert.Equal(t, SeverityWarning, issue.Severity)
}

// TestDictionaryVRRule_Match verifies agreement between declared and
// dictionary VR raises nothing.
func TestDictionaryVRRule_Match(t *testing.T) {
	ctx := Context{
		Tag:             tag.New(0x0010, 0x0010),
		DeclaredVR:      dicomvr.PersonName,
		DictionaryVR:    dicomvr.PersonName,
		HasDictionaryVR: true,
	}
	issue := DictionaryVRRule{}.Validate(ctx)
	assert.Nil(t, issue)
}

// TestDictionaryVRRule_PrivateTagSkipped verifies private tags are never
// checked against the dictionary, since they have no dictionary entry of
// their own.
func TestDictionaryVRRule_PrivateTagSkipped(t *testing.T) {
	ctx := Context{
		Tag:             tag.New(0x0009, 0x0010),
		DeclaredVR:      dicomvr.LongString,
		DictionaryVR:    dicomvr.PersonName,
		HasDictionaryVR: true,
		IsPrivate:       true,
	}
	issue := DictionaryVRRule{}.Validate(ctx)
	assert.Nil(t, issue)
}

// TestMaxLengthRule_ExceedsMax verifies a value longer than its VR's
// maximum is flagged as a warning.
func TestMaxLengthRule_ExceedsMax(t *testing.T) {
	longUID := make([]byte, 128)
	for i := range longUID {
		longUID[i] = '1'
	}
	ctx := Context{Tag: tag.New(0x0008, 0x0018), DeclaredVR: dicomvr.UniqueIdentifier, Raw: longUID}
	issue := MaxLengthRule{}.Validate(ctx)
	require.NotNil(t, issue)
	assert.Equal(t, SeverityWarning, issue.Severity)
}

// TestMaxLengthRule_WithinMax verifies a value within the VR's maximum
// length raises nothing.
func TestMaxLengthRule_WithinMax(t *testing.T) {
	ctx := Context{Tag: tag.New(0x0008, 0x0018), DeclaredVR: dicomvr.UniqueIdentifier, Raw: []byte("1.2.840.10008.1.2.1")}
	issue := MaxLengthRule{}.Validate(ctx)
	assert.Nil(t, issue)
}

// TestAllRules_CombinesFormatAndStructural verifies AllRules returns both
// rule categories.
func TestAllRules_CombinesFormatAndStructural(t *testing.T) {
	rules := AllRules()
	assert.Len(t, rules, len(FormatRules())+len(StructuralRules()))
}

// TestStructuralRules_Count verifies StructuralRules returns the four
// documented structural rules.
func TestStructuralRules_Count(t *testing.T) {
	assert.Len(t, StructuralRules(), 4)
}
