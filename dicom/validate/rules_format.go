package validate

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/codeninja55/go-radx/dicom/datetime"
	"github.com/codeninja55/go-radx/dicom/uid"
	dicomvr "github.com/codeninja55/go-radx/dicom/vr"
)

// formatValidator wraps a *validator.Validate: a single instance carrying a
// set of custom tag functions, reused across Rule.Validate calls instead of
// being rebuilt per element.
type formatValidator struct {
	v *validator.Validate
}

func newFormatValidator() *formatValidator {
	v := validator.New()
	fv := &formatValidator{v: v}
	_ = v.RegisterValidation("dicom_da", fv.validateDate)
	_ = v.RegisterValidation("dicom_tm", fv.validateTime)
	_ = v.RegisterValidation("dicom_dt", fv.validateDateTime)
	_ = v.RegisterValidation("dicom_as", fv.validateAge)
	_ = v.RegisterValidation("dicom_ui", fv.validateUID)
	_ = v.RegisterValidation("dicom_cs", fv.validateCodeString)
	_ = v.RegisterValidation("dicom_pn", fv.validatePersonName)
	return fv
}

func (fv *formatValidator) validateDate(fl validator.FieldLevel) bool {
	_, err := datetime.ParseDate(fl.Field().String())
	return err == nil
}

func (fv *formatValidator) validateTime(fl validator.FieldLevel) bool {
	_, err := datetime.ParseTime(fl.Field().String())
	return err == nil
}

func (fv *formatValidator) validateDateTime(fl validator.FieldLevel) bool {
	_, err := datetime.ParseDateTime(fl.Field().String())
	return err == nil
}

func (fv *formatValidator) validateAge(fl validator.FieldLevel) bool {
	_, err := datetime.ParseAge(fl.Field().String())
	return err == nil
}

func (fv *formatValidator) validateUID(fl validator.FieldLevel) bool {
	return uid.IsValid(fl.Field().String())
}

// validateCodeString enforces the CS VR's restricted repertoire: uppercase
// letters, digits, space, and underscore (PS3.5 table 6.2-1).
func (fv *formatValidator) validateCodeString(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	for _, r := range s {
		if !(r >= 'A' && r <= 'Z') && !(r >= '0' && r <= '9') && r != ' ' && r != '_' {
			return false
		}
	}
	return true
}

// validatePersonName enforces PN's component-group structure: up to three
// "="-delimited component groups (alphabetic, ideographic, phonetic),
// each with at most five "^"-delimited components.
func (fv *formatValidator) validatePersonName(fl validator.FieldLevel) bool {
	groups := strings.Split(fl.Field().String(), "=")
	if len(groups) > 3 {
		return false
	}
	for _, g := range groups {
		if len(strings.Split(g, "^")) > 5 {
			return false
		}
	}
	return true
}

// sharedFormatValidator is package-level so Validate can call fv.v.Var without
// allocating a new validator.Validate per element.
var sharedFormatValidator = newFormatValidator()

// FormatRule checks that a string value's content matches the format its
// declared VR requires (date, time, datetime, age, UID, code string, person
// name), using go-playground/validator/v10 custom tag functions registered
// against the DICOM grammars in dicom/datetime and dicom/uid.
type FormatRule struct{}

func (FormatRule) ID() string          { return "format" }
func (FormatRule) Description() string { return "string value must match its VR's format grammar" }

func (FormatRule) Validate(ctx Context) *Issue {
	s, ok := firstString(ctx)
	if !ok || s == "" {
		return nil
	}

	tagName, ok := formatTagFor(ctx.DeclaredVR)
	if !ok {
		return nil
	}

	if err := sharedFormatValidator.v.Var(s, tagName); err != nil {
		return &Issue{
			Severity: SeverityError,
			Tag:      ctx.Tag,
			Position: ctx.Position,
			Message:  fmt.Sprintf("%q is not a valid %s value for VR %s: %v", s, tagName, ctx.DeclaredVR, err),
		}
	}
	return nil
}

func formatTagFor(v dicomvr.VR) (string, bool) {
	switch v {
	case dicomvr.Date:
		return "dicom_da", true
	case dicomvr.Time:
		return "dicom_tm", true
	case dicomvr.DateTime:
		return "dicom_dt", true
	case dicomvr.AgeString:
		return "dicom_as", true
	case dicomvr.UniqueIdentifier:
		return "dicom_ui", true
	case dicomvr.CodeString:
		return "dicom_cs", true
	case dicomvr.PersonName:
		return "dicom_pn", true
	default:
		return "", false
	}
}

// firstString returns the first string in ctx.Value when it is a string
// value, or ok=false for any other shape (numeric, binary, absent).
func firstString(ctx Context) (string, bool) {
	sv, ok := ctx.Value.(interface{ Strings() []string })
	if !ok {
		return "", false
	}
	strs := sv.Strings()
	if len(strs) == 0 {
		return "", false
	}
	return strs[0], true
}

// FormatRules returns the rules that validate content against a VR-specific
// grammar, as opposed to StructuralRules which only check shape.
func FormatRules() []Rule {
	return []Rule{FormatRule{}}
}
