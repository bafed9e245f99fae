// Package dicom provides DICOM file parsing and manipulation.
package dicom

import (
	"strings"

	"github.com/codeninja55/go-radx/dicom/element"
	"github.com/codeninja55/go-radx/dicom/tag"
	"github.com/codeninja55/go-radx/dicom/validate"
	"github.com/codeninja55/go-radx/dicom/value"
)

// buildValidationContext derives a validate.Context for elem from the
// dataset it was just added to and the transfer syntax it was decoded
// under. Raw is reconstructed from the decoded value rather than captured
// off the wire: for string values this reproduces the backslash-joined
// content (post padding-strip), which is sufficient for the format,
// max-length and declared-VR rules; it is not a byte-exact copy of the
// encoded field, so EvenLengthRule and PaddingByteRule report on the
// stripped content's parity rather than the original wire bytes.
func buildValidationContext(elem *element.Element, ds *DataSet, ts *TransferSyntax, position int64) validate.Context {
	t := elem.Tag()

	ctx := validate.Context{
		Tag:        t,
		DeclaredVR: elem.VR(),
		Dataset:    ds,
		ExplicitVR: ts.ExplicitVR,
		Position:   position,
		IsPrivate:  t.IsPrivate(),
	}

	if ctx.IsPrivate {
		if creator, ok := ds.PrivateCreator(t); ok {
			ctx.PrivateCreator = creator
		}
	}

	if info, err := tag.Find(t); err == nil && len(info.VRs) == 1 {
		ctx.DictionaryVR = info.VRs[0]
		ctx.HasDictionaryVR = true
	}

	if elem.Kind() != element.KindPrimitive {
		return ctx
	}
	ctx.Value = elem.Value()

	switch v := ctx.Value.(type) {
	case *value.StringValue:
		ctx.Raw = []byte(strings.Join(v.Strings(), "\\"))
	case *value.BytesValue:
		ctx.Raw = v.Bytes()
	}

	return ctx
}

// runValidation evaluates elem against engine, translating the engine's
// abort errors into this package's *ParseError so callers can branch on
// Category without importing dicom/validate.
func runValidation(engine *validate.Engine, elem *element.Element, ds *DataSet, ts *TransferSyntax, position int64) error {
	if engine == nil {
		return nil
	}
	ctx := buildValidationContext(elem, ds, ts, position)
	err := engine.Run(ctx)
	if err == nil {
		return nil
	}

	var abort *validate.CallbackAbortError
	if ok := asCallbackAbort(err, &abort); ok {
		return newParseError(CategoryCancelled, elem.Tag().String(), position, ErrCancelled)
	}
	return newParseError(CategoryValidation, elem.Tag().String(), position, ErrValidationFailed)
}

func asCallbackAbort(err error, target **validate.CallbackAbortError) bool {
	if abort, ok := err.(*validate.CallbackAbortError); ok {
		*target = abort
		return true
	}
	return false
}
