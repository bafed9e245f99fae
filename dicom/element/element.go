// Package element provides DICOM data element structures and operations.
//
// A DICOM Data Element consists of a tag, VR (Value Representation), and a
// value whose shape depends on the element's Kind: a primitive value, a
// sequence of nested datasets, a fragment sequence (encapsulated pixel
// data), or a lazily-resolved pixel data reference. All four kinds share
// one header (Tag, VR, length) and are modeled as one tagged-variant type
// rather than an abstract base with concrete subclasses, so callers pattern
// match on Kind() instead of type-switching across unrelated types.
//
// DICOM Standard Reference:
// https://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_7.1
package element

import (
	"fmt"
	"strings"

	"github.com/codeninja55/go-radx/dicom/tag"
	"github.com/codeninja55/go-radx/dicom/value"
	"github.com/codeninja55/go-radx/dicom/vr"
)

// Kind distinguishes the four shapes an Element's value can take.
type Kind uint8

const (
	// KindPrimitive holds a single value.Value (string/bytes/int/float).
	KindPrimitive Kind = iota
	// KindSequence holds zero or more nested datasets (SQ elements).
	KindSequence
	// KindFragmentSequence holds an encapsulated pixel data fragment
	// sequence (Basic Offset Table + opaque fragments), used when pixel
	// data is stored under a compressed transfer syntax.
	KindFragmentSequence
	// KindLazyPixel holds a deferred reference to native pixel data that
	// has not yet been materialized into memory.
	KindLazyPixel
)

func (k Kind) String() string {
	switch k {
	case KindPrimitive:
		return "Primitive"
	case KindSequence:
		return "Sequence"
	case KindFragmentSequence:
		return "FragmentSequence"
	case KindLazyPixel:
		return "LazyPixel"
	default:
		return "Unknown"
	}
}

// Dataset is the minimal surface a nested sequence item dataset must
// provide. It exists so this package can hold sequence items without
// importing the root dicom package (which itself imports element) —
// the root package's Dataset type satisfies this interface structurally.
type Dataset interface {
	Elements() []*Element
	Len() int
}

// FragmentSequence is the minimal surface an encapsulated pixel data
// value must provide, implemented by dicom/pixel.FragmentSequence.
type FragmentSequence interface {
	FrameCount() int
	Frame(i int) ([]byte, error)
}

// LazyPixel is a deferred reference to pixel data that has not been read
// into memory, resolved on demand by Resolve per the Skip/Lazy pixel data
// policy (see Dataset Model, Pixel Data Policy).
type LazyPixel interface {
	Resolve() (value.Value, error)
}

// Element represents a DICOM data element.
//
// DICOM Standard Reference:
// https://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_7.1
type Element struct {
	tag    tag.Tag
	vr     vr.VR
	kind   Kind
	length uint32 // declared length as read from the stream; 0xFFFFFFFF if undefined

	primitive value.Value
	items     []Dataset
	fragments FragmentSequence
	lazy      LazyPixel
}

// NewElement creates a new primitive DICOM data element.
//
// DICOM Standard Reference:
// https://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_7.1
func NewElement(t tag.Tag, v vr.VR, val value.Value) (*Element, error) {
	if val == nil {
		return nil, fmt.Errorf("value cannot be nil")
	}

	if val.VR() != v {
		return nil, fmt.Errorf("value VR %s does not match element VR %s", val.VR().String(), v.String())
	}

	return &Element{
		tag:       t,
		vr:        v,
		kind:      KindPrimitive,
		primitive: val,
	}, nil
}

// NewSequenceElement creates a new SQ element from its (possibly empty)
// item datasets. length should be 0xFFFFFFFF for undefined-length
// sequences encoded with an explicit Sequence Delimitation Item, or the
// encoded byte length for a defined-length sequence.
func NewSequenceElement(t tag.Tag, items []Dataset, length uint32) *Element {
	return &Element{
		tag:    t,
		vr:     vr.SequenceOfItems,
		kind:   KindSequence,
		items:  items,
		length: length,
	}
}

// NewFragmentSequenceElement creates a new encapsulated pixel data element
// (OB or OW) backed by a fragment sequence.
func NewFragmentSequenceElement(t tag.Tag, v vr.VR, frags FragmentSequence) *Element {
	return &Element{
		tag:       t,
		vr:        v,
		kind:      KindFragmentSequence,
		fragments: frags,
		length:    0xFFFFFFFF,
	}
}

// NewLazyPixelElement creates a new element whose native pixel data value
// has not yet been read, per the Skip/Lazy pixel data policy.
func NewLazyPixelElement(t tag.Tag, v vr.VR, lazy LazyPixel, length uint32) *Element {
	return &Element{
		tag:    t,
		vr:     v,
		kind:   KindLazyPixel,
		lazy:   lazy,
		length: length,
	}
}

// Tag returns the DICOM tag of this element.
func (e *Element) Tag() tag.Tag {
	return e.tag
}

// VR returns the Value Representation of this element.
func (e *Element) VR() vr.VR {
	return e.vr
}

// Kind returns which of the four element shapes this element holds.
func (e *Element) Kind() Kind {
	return e.kind
}

// Length returns the declared value length as read from the stream, or
// 0xFFFFFFFF if the element used undefined (delimited) length.
func (e *Element) Length() uint32 {
	return e.length
}

// IsUndefinedLength reports whether this element's declared length was the
// 0xFFFFFFFF sentinel.
func (e *Element) IsUndefinedLength() bool {
	return e.length == 0xFFFFFFFF
}

// Value returns the primitive value of this element.
// Panics if Kind() is not KindPrimitive; callers should check Kind first,
// or use the Resolve helper for KindLazyPixel elements.
func (e *Element) Value() value.Value {
	if e.kind != KindPrimitive {
		panic(fmt.Sprintf("Value called on %s element, not Primitive", e.kind))
	}
	return e.primitive
}

// Items returns the nested item datasets of a sequence element.
// Panics if Kind() is not KindSequence.
func (e *Element) Items() []Dataset {
	if e.kind != KindSequence {
		panic(fmt.Sprintf("Items called on %s element, not Sequence", e.kind))
	}
	return e.items
}

// Fragments returns the fragment sequence backing an encapsulated pixel
// data element. Panics if Kind() is not KindFragmentSequence.
func (e *Element) Fragments() FragmentSequence {
	if e.kind != KindFragmentSequence {
		panic(fmt.Sprintf("Fragments called on %s element, not FragmentSequence", e.kind))
	}
	return e.fragments
}

// Resolve returns this element's value, reading it from the underlying
// source first if it is a KindLazyPixel element. For KindPrimitive
// elements it simply returns Value(). It is an error to call Resolve on a
// sequence or fragment-sequence element.
func (e *Element) Resolve() (value.Value, error) {
	switch e.kind {
	case KindPrimitive:
		return e.primitive, nil
	case KindLazyPixel:
		val, err := e.lazy.Resolve()
		if err != nil {
			return nil, fmt.Errorf("resolving lazy pixel data for %s: %w", e.tag, err)
		}
		e.primitive = val
		e.kind = KindPrimitive
		return val, nil
	default:
		return nil, fmt.Errorf("cannot resolve a %s value for %s", e.kind, e.tag)
	}
}

// Name returns the human-readable name of this element from the DICOM dictionary.
// Returns an empty string if the tag is not found (e.g., private tags).
func (e *Element) Name() string {
	info, err := tag.Find(e.tag)
	if err != nil {
		return ""
	}
	return info.Name
}

// Keyword returns the keyword identifier of this element from the DICOM dictionary.
// Returns an empty string if the tag is not found (e.g., private tags).
func (e *Element) Keyword() string {
	info, err := tag.Find(e.tag)
	if err != nil {
		return ""
	}
	return info.Keyword
}

// ValueMultiplicity returns the Value Multiplicity (number of values) as a string.
func (e *Element) ValueMultiplicity() string {
	switch e.kind {
	case KindSequence:
		return fmt.Sprintf("%d", len(e.items))
	case KindFragmentSequence:
		return fmt.Sprintf("%d", e.fragments.FrameCount())
	case KindLazyPixel:
		return "1"
	}

	switch v := e.primitive.(type) {
	case *value.StringValue:
		return fmt.Sprintf("%d", len(v.Strings()))
	case *value.IntValue:
		return fmt.Sprintf("%d", len(v.Ints()))
	case *value.FloatValue:
		return fmt.Sprintf("%d", len(v.Floats()))
	case *value.BytesValue:
		if len(v.Bytes()) == 0 {
			return "0"
		}
		return "1"
	default:
		return "1"
	}
}

// String returns a human-readable string representation of the element.
//
// Format: (GGGG,EEEE) VR [Name] = value
func (e *Element) String() string {
	var sb strings.Builder

	sb.WriteString(e.tag.String())
	sb.WriteString(" ")
	sb.WriteString(e.vr.String())
	sb.WriteString(" ")

	if name := e.Name(); name != "" {
		sb.WriteString("[")
		sb.WriteString(name)
		sb.WriteString("] ")
	}

	sb.WriteString("= ")

	switch e.kind {
	case KindSequence:
		sb.WriteString(fmt.Sprintf("<sequence, %d item(s)>", len(e.items)))
	case KindFragmentSequence:
		sb.WriteString(fmt.Sprintf("<encapsulated pixel data, %d frame(s)>", e.fragments.FrameCount()))
	case KindLazyPixel:
		sb.WriteString("<pixel data, not yet read>")
	default:
		const maxValueLen = 80
		valueStr := e.primitive.String()
		if len(valueStr) > maxValueLen {
			valueStr = valueStr[:maxValueLen] + "..."
		}
		sb.WriteString(valueStr)
	}

	return sb.String()
}

// SetValue updates the value of a primitive element.
// The new value must have the same VR as the element.
func (e *Element) SetValue(val value.Value) error {
	if e.kind != KindPrimitive {
		return fmt.Errorf("cannot SetValue on a %s element", e.kind)
	}
	if val == nil {
		return fmt.Errorf("value cannot be nil")
	}
	if val.VR() != e.vr {
		return fmt.Errorf("value VR %s does not match element VR %s", val.VR().String(), e.vr.String())
	}

	e.primitive = val
	return nil
}

// Equals returns true if this element equals another element.
//
// Elements are equal if they have the same tag, VR, kind, and value.
// Sequence and fragment-sequence elements compare by item/frame count only
// (a full structural comparison belongs to the caller, since datasets are
// an opaque interface at this layer).
func (e *Element) Equals(other *Element) bool {
	if other == nil {
		return false
	}
	if !e.tag.Equals(other.tag) || e.vr != other.vr || e.kind != other.kind {
		return false
	}

	switch e.kind {
	case KindPrimitive:
		return e.primitive.Equals(other.primitive)
	case KindSequence:
		return len(e.items) == len(other.items)
	case KindFragmentSequence:
		return e.fragments.FrameCount() == other.fragments.FrameCount()
	default:
		return true
	}
}
