// Package vr defines DICOM Value Representations (VRs) and their properties.
//
// Value Representations specify the data type and format of DICOM element values.
// Each VR has specific encoding rules, padding requirements, and length constraints.
//
// A VR is stored as its two ASCII bytes packed into a uint16, not as a closed
// enum: this lets non-standard or vendor VR codes survive a read/write cycle
// unchanged even though this package only ships metadata for the 34 VRs the
// standard defines. A code absent from the metadata table falls back to the
// Unknown (UN) profile: long-form length, delimited-length capable, opaque
// binary.
//
// See DICOM Part 5, Section 6.2:
// https://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_6.2
package vr

import (
	"fmt"
)

// VR represents a DICOM Value Representation as its two ASCII code bytes
// packed into the high and low byte of a uint16, e.g. "PN" packs to 0x504E.
type VR uint16

// pack combines two ASCII bytes into a VR code.
func pack(a, b byte) VR {
	return VR(a)<<8 | VR(b)
}

// Standard DICOM Value Representations as defined in Part 5, Section 6.2.
// https://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_6.2
var (
	ApplicationEntity           = pack('A', 'E') // AE
	AgeString                   = pack('A', 'S') // AS
	AttributeTag                = pack('A', 'T') // AT
	CodeString                  = pack('C', 'S') // CS
	Date                        = pack('D', 'A') // DA
	DecimalString               = pack('D', 'S') // DS
	DateTime                    = pack('D', 'T') // DT
	FloatingPointDouble         = pack('F', 'D') // FD
	FloatingPointSingle         = pack('F', 'L') // FL
	IntegerString               = pack('I', 'S') // IS
	LongString                  = pack('L', 'O') // LO
	LongText                    = pack('L', 'T') // LT
	OtherByte                   = pack('O', 'B') // OB
	OtherDouble                 = pack('O', 'D') // OD
	OtherFloat                  = pack('O', 'F') // OF
	OtherLong                   = pack('O', 'L') // OL
	OtherVeryLong               = pack('O', 'V') // OV
	OtherWord                   = pack('O', 'W') // OW
	PersonName                  = pack('P', 'N') // PN
	ShortString                 = pack('S', 'H') // SH
	SignedLong                  = pack('S', 'L') // SL
	SequenceOfItems             = pack('S', 'Q') // SQ
	SignedShort                 = pack('S', 'S') // SS
	ShortText                   = pack('S', 'T') // ST
	SignedVeryLong              = pack('S', 'V') // SV
	Time                        = pack('T', 'M') // TM
	UnlimitedCharacters         = pack('U', 'C') // UC
	UniqueIdentifier            = pack('U', 'I') // UI
	UnsignedLong                = pack('U', 'L') // UL
	Unknown                     = pack('U', 'N') // UN
	UniversalResourceIdentifier = pack('U', 'R') // UR
	UnsignedShort               = pack('U', 'S') // US
	UnlimitedText               = pack('U', 'T') // UT
	UnsignedVeryLong            = pack('U', 'V') // UV
)

// metadata describes the encoding properties of a single VR: padding byte,
// maximum value length, whether the explicit-VR length field is the 16-bit
// short form or the 32-bit long form (with a 2-byte reserved gap), whether
// the delimited-length sentinel (0xFFFFFFFF) is a legal length, and the
// VR's value category.
type metadata struct {
	padding   byte
	maxLength int // 0 = unlimited
	longForm  bool
	delimited bool
	isString  bool
	isBinary  bool
	isNumeric bool
	delimiter byte // 0 = single-valued
}

// table holds metadata for the 34 standard VRs, keyed by packed code.
// A code not present here falls back to unknownProfile.
var table = map[VR]metadata{
	ApplicationEntity:           {padding: ' ', maxLength: 16, isString: true, delimiter: '\\'},
	AgeString:                   {padding: ' ', maxLength: 4, isString: true, delimiter: '\\'},
	AttributeTag:                {padding: 0, maxLength: 4, isNumeric: true, delimiter: '\\'},
	CodeString:                  {padding: ' ', maxLength: 16, isString: true, delimiter: '\\'},
	Date:                        {padding: ' ', maxLength: 8, isString: true, delimiter: '\\'},
	DecimalString:               {padding: ' ', maxLength: 16, isString: true, delimiter: '\\'},
	DateTime:                    {padding: ' ', maxLength: 26, isString: true, delimiter: '\\'},
	FloatingPointDouble:         {padding: 0, maxLength: 8, isNumeric: true, delimiter: '\\'},
	FloatingPointSingle:         {padding: 0, maxLength: 4, isNumeric: true, delimiter: '\\'},
	IntegerString:               {padding: ' ', maxLength: 12, isString: true, delimiter: '\\'},
	LongString:                  {padding: ' ', maxLength: 64, isString: true, delimiter: '\\'},
	LongText:                    {padding: ' ', maxLength: 10240, isString: true},
	OtherByte:                   {padding: 0, longForm: true, delimited: true, isBinary: true},
	OtherDouble:                 {padding: 0, longForm: true, isBinary: true},
	OtherFloat:                  {padding: 0, longForm: true, isBinary: true},
	OtherLong:                   {padding: 0, longForm: true, isBinary: true},
	OtherVeryLong:               {padding: 0, longForm: true, isBinary: true},
	OtherWord:                   {padding: 0, longForm: true, isBinary: true},
	PersonName:                  {padding: ' ', maxLength: 324, isString: true, delimiter: '\\'},
	ShortString:                 {padding: ' ', maxLength: 16, isString: true, delimiter: '\\'},
	SignedLong:                  {padding: 0, maxLength: 4, isNumeric: true, delimiter: '\\'},
	SequenceOfItems:             {padding: 0, longForm: true, delimited: true},
	SignedShort:                 {padding: 0, maxLength: 2, isNumeric: true, delimiter: '\\'},
	ShortText:                   {padding: ' ', maxLength: 1024, isString: true},
	SignedVeryLong:              {padding: 0, maxLength: 8, isNumeric: true, delimiter: '\\'},
	Time:                        {padding: ' ', maxLength: 14, isString: true, delimiter: '\\'},
	UnlimitedCharacters:         {padding: ' ', longForm: true, isString: true, delimiter: '\\'},
	UniqueIdentifier:            {padding: 0, maxLength: 64, isString: true, delimiter: '\\'},
	UnsignedLong:                {padding: 0, maxLength: 4, isNumeric: true, delimiter: '\\'},
	Unknown:                     {padding: 0, longForm: true, delimited: true, isBinary: true},
	UniversalResourceIdentifier: {padding: ' ', longForm: true, isString: true},
	UnsignedShort:               {padding: 0, maxLength: 2, isNumeric: true, delimiter: '\\'},
	UnlimitedText:               {padding: ' ', longForm: true, delimited: true, isString: true},
	UnsignedVeryLong:            {padding: 0, maxLength: 8, isNumeric: true, delimiter: '\\'},
}

// unknownProfile is applied to any code not in table: long-form length,
// delimited-length capable, opaque binary.
var unknownProfile = metadata{longForm: true, delimited: true, isBinary: true}

func (v VR) entry() metadata {
	if m, ok := table[v]; ok {
		return m
	}
	return unknownProfile
}

// String returns the two-character code, reconstructed from the packed
// bytes verbatim — this is what lets non-standard codes round-trip.
func (v VR) String() string {
	return string([]byte{byte(v >> 8), byte(v)})
}

// IsValid returns true if the given string is a syntactically valid
// two-character VR code. It does not require the code to be one of the 34
// standard VRs: any two printable ASCII bytes form a legal, if
// non-standard, VR.
func IsValid(s string) bool {
	if len(s) != 2 {
		return false
	}
	return s[0] >= 0x20 && s[0] < 0x7F && s[1] >= 0x20 && s[1] < 0x7F
}

// Parse parses a two-character VR string into its packed code. Any two-byte
// code parses successfully; use IsStandard to distinguish the 34 VRs the
// standard defines from vendor/non-standard codes.
func Parse(s string) (VR, error) {
	if len(s) != 2 {
		return 0, fmt.Errorf("invalid VR %q: must be exactly 2 characters", s)
	}
	return pack(s[0], s[1]), nil
}

// IsStandard returns true if this VR is one of the 34 VRs defined by the
// DICOM standard, i.e. it has a metadata table entry.
func (v VR) IsStandard() bool {
	_, ok := table[v]
	return ok
}

// UsesExplicitLength32 returns true if this VR requires a 32-bit value
// length field (preceded by 2 reserved bytes) in explicit VR encoding, as
// opposed to the standard 16-bit length. Non-standard codes use the
// Unknown profile, which is long-form.
//
// See DICOM Part 5, Section 7.1.2:
// https://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_7.1.2
func (v VR) UsesExplicitLength32() bool {
	return v.entry().longForm
}

// AcceptsDelimitedLength returns true if the 0xFFFFFFFF undefined-length
// sentinel is a legal length for this VR (SQ, OB, UT, UN, and any
// non-standard code).
func (v VR) AcceptsDelimitedLength() bool {
	return v.entry().delimited
}

// PaddingByte returns the byte used for padding odd-length values for this
// VR. String VRs use space (0x20) padding, binary/identifier VRs use null
// (0x00) padding.
//
// See DICOM Part 5, Section 6.2:
// https://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_6.2
func (v VR) PaddingByte() byte {
	return v.entry().padding
}

// MaxLength returns the maximum allowed length in bytes for this VR.
// Returns 0 for VRs with unlimited length, including non-standard codes.
//
// See DICOM Part 5, Section 6.2:
// https://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_6.2
func (v VR) MaxLength() int {
	return v.entry().maxLength
}

// Delimiter returns the byte used to separate multiple values for this VR,
// and whether this VR supports multiple values at all.
func (v VR) Delimiter() (byte, bool) {
	m := v.entry()
	return m.delimiter, m.delimiter != 0
}

// AllowsBackslash returns true if this VR allows backslash characters
// within a single value. Person Name (PN) uses backslash as a component
// separator, so a literal backslash cannot appear within one PN value.
//
// See DICOM Part 5, Section 6.2.1:
// https://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_6.2.1
func (v VR) AllowsBackslash() bool {
	return v == PersonName
}

// IsStringType returns true if this VR represents character string data.
func (v VR) IsStringType() bool {
	return v.entry().isString
}

// IsBinaryType returns true if this VR represents binary data. Non-standard
// codes are binary under the Unknown profile.
func (v VR) IsBinaryType() bool {
	return v.entry().isBinary
}

// IsNumericType returns true if this VR represents fixed-width numeric data
// (integers, floats, or attribute tags).
func (v VR) IsNumericType() bool {
	return v.entry().isNumeric
}

// Uses64Bit reports whether this VR's numeric values occupy 8 bytes each
// (FD, SV, UV) as opposed to 2 or 4.
func (v VR) Uses64Bit() bool {
	return v == FloatingPointDouble || v == SignedVeryLong || v == UnsignedVeryLong
}

// IsSequence returns true if this VR is SQ.
func (v VR) IsSequence() bool {
	return v == SequenceOfItems
}
