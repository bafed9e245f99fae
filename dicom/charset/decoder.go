package charset

import (
	"strings"
	"unicode/utf8"
)

// eucKrEscapeSequence is the ISO 2022 escape sequence ("ESC $ ) C") DICOM
// uses to switch into the KS X 1001 graphic set for ISO 2022 IR 149. x/text
// has no ISO-2022-KR decoder, so this engine decodes the payload as EUC-KR
// and strips the escape sequence itself, matching the approach used by
// other Go DICOM toolkits in the wild for the same gap.
const eucKrEscapeSequence = "\x1b\x24\x29\x43"

// Decoder decodes bytes encoded under one DICOM Specific Character Set
// defined term into a Go string.
type Decoder struct {
	term  string
	entry entry
}

// Term returns the defined term this decoder was built for.
func (d Decoder) Term() string {
	return d.term
}

// AllowsExtension reports whether this term may be used as a non-primary
// value (an ISO 2022 extension) in a multi-valued Specific Character Set.
func (d Decoder) AllowsExtension() bool {
	return d.entry.allowsExtension
}

// SingleValueOnly reports whether this term forbids extensions and must be
// the only value present in (0008,0005).
func (d Decoder) SingleValueOnly() bool {
	return d.entry.singleValueOnly
}

// CanPassthrough reports whether b, taken as-is, is already a valid UTF-8
// encoding of the intended string — true for ASCII and true UTF-8 input
// regardless of the declared term, letting callers skip decoding and keep
// a borrowed byte slice instead of allocating an owned string.
func CanPassthrough(b []byte) bool {
	return utf8.Valid(b)
}

// Decode converts b from this decoder's defined term into a UTF-8 string.
//
// Passthrough is checked first: if b is already valid UTF-8, it is returned
// as-is (the common case for ASCII and ISO_IR 192/UTF-8 data), avoiding an
// unnecessary decode and allocation.
func (d Decoder) Decode(b []byte) (string, error) {
	if CanPassthrough(b) {
		return string(b), nil
	}

	if d.entry.newDecoder == nil {
		// No code-page transform registered (plain ASCII term) but the
		// bytes were not valid UTF-8 — return them verbatim rather than
		// failing the whole element; conformant senders should not hit
		// this path since ISO_IR 6 is by definition 7-bit clean.
		return string(b), nil
	}

	dec := d.entry.newDecoder()
	s, err := dec.String(string(b))
	if err != nil {
		return "", err
	}

	if d.term == "ISO 2022 IR 149" {
		s = strings.ReplaceAll(s, eucKrEscapeSequence, "")
	}

	return s, nil
}
