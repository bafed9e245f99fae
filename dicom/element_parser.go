// Package dicom provides DICOM file parsing and manipulation.
package dicom

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/codeninja55/go-radx/dicom/element"
	"github.com/codeninja55/go-radx/dicom/tag"
	"github.com/codeninja55/go-radx/dicom/value"
	"github.com/codeninja55/go-radx/dicom/vr"
)

// PixelPolicy selects how ElementParser handles the PixelData element
// (7FE0,0010), trading memory for immediacy of access.
//
// DICOM Standard Reference:
// https://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_A.4
type PixelPolicy uint8

const (
	// PixelEager reads pixel data fully during parsing: native data
	// becomes a primitive byte value, encapsulated data becomes a
	// FragmentSequence element, both ready for immediate access.
	PixelEager PixelPolicy = iota
	// PixelSkip consumes the pixel data's bytes from the stream (so
	// parsing can continue past it) but never retains them. The element
	// is present in the dataset with a LazyPixel whose Resolve always
	// fails, so callers see the tag but must opt back into reading it via
	// a fresh parse.
	PixelSkip
	// PixelLazy defers materializing the value. When the parser's source
	// supports seeking (e.g. ParseFile's *os.File), the bytes are read
	// from disk on first Resolve call; otherwise, since a forward-only
	// stream cannot be rewound, the bytes are captured now and Resolve
	// simply returns them, deferring only the typed-value construction.
	PixelLazy
	// PixelCallback invokes the parser's PixelCallback with the tag,
	// encapsulation flag, and declared length, and acts on the returned
	// PixelAction (materialize eagerly, or skip as PixelSkip would).
	PixelCallback
)

// PixelAction is returned by a PixelCallback to decide the disposition of
// one PixelData element.
type PixelAction uint8

const (
	PixelActionMaterialize PixelAction = iota
	PixelActionSkip
)

// pixelDataCallback decides, per pixel-data element, whether to materialize
// or skip it under PixelPolicy PixelCallback.
type pixelDataCallback func(t tag.Tag, encapsulated bool, length uint32) PixelAction

// lazyPixelRef is the parser's element.LazyPixel implementation. It either
// holds already-captured bytes (non-seekable source) or a seeker plus the
// byte range to re-read on demand.
type lazyPixelRef struct {
	v    vr.VR
	data []byte // set when captured eagerly (non-seekable source)

	seeker io.ReadSeeker
	offset int64
	length int
}

func (l *lazyPixelRef) Resolve() (value.Value, error) {
	if l.data != nil {
		return value.NewBytesValue(l.v, l.data)
	}
	if l.seeker == nil {
		return nil, fmt.Errorf("lazy pixel data unavailable: source is not seekable and bytes were not captured")
	}
	if _, err := l.seeker.Seek(l.offset, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seeking to lazy pixel data at offset %d: %w", l.offset, err)
	}
	buf := make([]byte, l.length)
	if _, err := io.ReadFull(l.seeker, buf); err != nil {
		return nil, fmt.Errorf("reading lazy pixel data (%d bytes at offset %d): %w", l.length, l.offset, err)
	}
	return value.NewBytesValue(l.v, buf)
}

// skippedPixelRef is the LazyPixel placeholder left behind by PixelSkip:
// the tag stays visible in the dataset, but its value was never retained.
type skippedPixelRef struct{}

func (skippedPixelRef) Resolve() (value.Value, error) {
	return nil, fmt.Errorf("pixel data was skipped per the parser's PixelSkip policy")
}

// ElementParser reads individual DICOM data elements from a binary stream.
//
// It handles both Explicit VR and Implicit VR encoding based on the Transfer Syntax.
// Element structure varies by VR:
//   - Explicit VR (most VRs): Tag(4) + VR(2) + Length(2) + Value(n)
//   - Explicit VR (OB/OW/SQ/etc): Tag(4) + VR(2) + Reserved(2) + Length(4) + Value(n)
//   - Implicit VR: Tag(4) + Length(4) + Value(n), VR looked up in dictionary
//
// DICOM Standard Reference:
// https://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_7.1.2
type ElementParser struct {
	reader *Reader
	ts     *TransferSyntax

	pixelPolicy   PixelPolicy
	pixelCallback pixelDataCallback
	seeker        io.ReadSeeker // non-nil when the parser's source supports true lazy re-reads

	// dsStack is the chain of datasets currently being built, outermost
	// first, used by the VR Resolver to look up BitsAllocated and
	// PixelRepresentation from the enclosing context when a tag's VR is
	// ambiguous. The top-level dataset is pushed by Parser.readDataset;
	// each nested sequence item pushes its own dataset for the duration
	// of readSequenceItem.
	dsStack []*DataSet
}

// pushContext makes ds available to the VR Resolver's context lookups for
// as long as it remains on the stack.
func (p *ElementParser) pushContext(ds *DataSet) {
	p.dsStack = append(p.dsStack, ds)
}

// popContext removes the most recently pushed context dataset.
func (p *ElementParser) popContext() {
	p.dsStack = p.dsStack[:len(p.dsStack)-1]
}

// contextBitsAllocated walks the context stack innermost-first for a
// cached BitsAllocated value, per the VR Resolver's parent-chain lookup.
func (p *ElementParser) contextBitsAllocated() (uint16, bool) {
	for i := len(p.dsStack) - 1; i >= 0; i-- {
		if bits, ok := p.dsStack[i].BitsAllocated(); ok {
			return bits, true
		}
	}
	return 0, false
}

// contextPixelRepresentation walks the context stack innermost-first for a
// cached PixelRepresentation value, per the VR Resolver's parent-chain
// lookup.
func (p *ElementParser) contextPixelRepresentation() (uint16, bool) {
	for i := len(p.dsStack) - 1; i >= 0; i-- {
		if pr, ok := p.dsStack[i].PixelRepresentation(); ok {
			return pr, true
		}
	}
	return 0, false
}

// Structural tags that delimit items and sequences, packed as the same
// group<<16|element form tag.Tag.Uint32 produces, so a single switch can
// dispatch on a just-read tag without allocating a tag.Tag comparison.
const (
	itemTagValue                 = uint32(0xFFFEE000) // Item
	itemDelimitationTagValue     = uint32(0xFFFEE00D) // Item Delimitation Item
	sequenceDelimitationTagValue = uint32(0xFFFEE0DD) // Sequence Delimitation Item
)

// rawFragmentSequence is the parser's own element.FragmentSequence
// implementation. It is the single place fragment-to-frame grouping
// happens: dicom/pixel consumes it through the FrameCount/Frame interface
// rather than re-parsing the encapsulated byte stream itself.
//
// When the Basic Offset Table is non-empty, it carries one offset per
// frame (byte offset of the frame's first fragment, relative to the first
// fragment after the BOT); fragments are grouped into frames using those
// offsets, matching multi-fragment-per-frame encodings. When the table is
// empty, each fragment is assumed to be exactly one frame. A fragment
// count that disagrees with a dataset's NumberOfFrames is reported by the
// caller (Open Question: report, don't fail), not by this type.
//
// DICOM Standard Reference:
// https://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_A.4
type rawFragmentSequence struct {
	fragments   [][]byte // one entry per Item after the Basic Offset Table
	offsetTable []uint32 // BOT offsets, empty if the BOT itself was empty
}

func (f *rawFragmentSequence) FrameCount() int {
	if len(f.offsetTable) > 0 {
		return len(f.offsetTable)
	}
	return len(f.fragments)
}

// Frame returns the complete (still-compressed, for compressed transfer
// syntaxes) byte content of frame i, concatenating every fragment the
// Basic Offset Table assigns to it.
func (f *rawFragmentSequence) Frame(i int) ([]byte, error) {
	if len(f.offsetTable) == 0 {
		if i < 0 || i >= len(f.fragments) {
			return nil, fmt.Errorf("frame index %d out of range (have %d fragments)", i, len(f.fragments))
		}
		return f.fragments[i], nil
	}

	if i < 0 || i >= len(f.offsetTable) {
		return nil, fmt.Errorf("frame index %d out of range (have %d frames)", i, len(f.offsetTable))
	}

	fragmentOffsets := make([]uint32, len(f.fragments)+1)
	var running uint32
	for idx, frag := range f.fragments {
		fragmentOffsets[idx] = running
		running += uint32(len(frag))
	}
	fragmentOffsets[len(f.fragments)] = running

	start := f.offsetTable[i]
	end := running
	if i+1 < len(f.offsetTable) {
		end = f.offsetTable[i+1]
	}

	var result []byte
	for idx, frag := range f.fragments {
		if fragmentOffsets[idx] >= start && fragmentOffsets[idx] < end {
			result = append(result, frag...)
		}
	}
	if result == nil {
		return nil, fmt.Errorf("no fragments found for frame %d (offset %d to %d)", i, start, end)
	}
	return result, nil
}

// NewElementParser creates a new element parser with the specified reader
// and transfer syntax, reading pixel data eagerly (PixelEager).
func NewElementParser(reader *Reader, ts *TransferSyntax) *ElementParser {
	return &ElementParser{
		reader:      reader,
		ts:          ts,
		pixelPolicy: PixelEager,
	}
}

// NewElementParserWithPixelPolicy creates an element parser that applies
// policy to the PixelData element. seeker, if non-nil, lets PixelLazy defer
// the actual byte read to Resolve time instead of capturing bytes now.
// callback is consulted only when policy is PixelCallback.
func NewElementParserWithPixelPolicy(reader *Reader, ts *TransferSyntax, policy PixelPolicy, callback pixelDataCallback, seeker io.ReadSeeker) *ElementParser {
	return &ElementParser{
		reader:        reader,
		ts:            ts,
		pixelPolicy:   policy,
		pixelCallback: callback,
		seeker:        seeker,
	}
}

// ReadElement reads the next data element from the stream.
//
// Returns an error if the element cannot be parsed or if the stream ends unexpectedly.
//
// DICOM Standard Reference:
// https://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_7.1
func (p *ElementParser) ReadElement() (*element.Element, error) {
	// Read tag (4 bytes: group + element)
	t, err := p.readTag()
	if err != nil {
		return nil, fmt.Errorf("failed to read tag: %w", err)
	}
	return p.readElementBody(t)
}

// readElementBody reads VR, length, and value/structure for a tag whose
// 4-byte header has already been consumed. Factored out of ReadElement so
// the sequence-item and fragment-sequence readers, which consume tags
// themselves to recognize structural delimiters, can parse the element
// that follows without re-reading its tag.
func (p *ElementParser) readElementBody(t tag.Tag) (*element.Element, error) {
	// Read VR based on transfer syntax
	var v vr.VR
	var length uint32
	var err error

	if p.ts.ExplicitVR {
		// Explicit VR: VR is in the file
		v, err = p.readVRExplicit()
		if err != nil {
			return nil, fmt.Errorf("failed to read VR for tag %s: %w", t, err)
		}

		// Read length (2 or 4 bytes depending on VR)
		length, err = p.readLength(v)
		if err != nil {
			return nil, fmt.Errorf("failed to read length for tag %s: %w", t, err)
		}
	} else {
		// Implicit VR: length is always 4 bytes regardless of VR, so it
		// can be read before the VR is resolved. Doing so lets the VR
		// Resolver use the declared length for the {US, OW} ambiguity
		// (LUT Data becomes OW once it exceeds 256 entries).
		length, err = p.reader.ReadUint32()
		if err != nil {
			return nil, fmt.Errorf("failed to read length for tag %s: %w", t, err)
		}

		v, err = p.readVRImplicit(t, length)
		if err != nil {
			return nil, fmt.Errorf("failed to look up VR for tag %s: %w", t, err)
		}
	}

	// Sequences and encapsulated pixel data have their own nested
	// structure (Item-delimited) rather than a flat value payload.
	if v == vr.SequenceOfItems {
		return p.readSequenceElement(t, length)
	}
	if isPixelDataTag(t) && (v == vr.OtherByte || v == vr.OtherWord) {
		return p.readPixelDataElement(t, v, length)
	}

	// Read value based on VR type
	val, err := p.readValue(v, length)
	if err != nil {
		return nil, fmt.Errorf("failed to read value for tag %s: %w", t, err)
	}

	// Create and return element
	elem, err := element.NewElement(t, v, val)
	if err != nil {
		return nil, fmt.Errorf("failed to create element for tag %s: %w", t, err)
	}

	return elem, nil
}

func isPixelDataTag(t tag.Tag) bool {
	return t.Group == 0x7FE0 && t.Element == 0x0010
}

// readPixelDataElement dispatches the PixelData element (native or
// encapsulated) according to the parser's PixelPolicy.
//
// DICOM Standard Reference:
// https://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_A.4
func (p *ElementParser) readPixelDataElement(t tag.Tag, v vr.VR, length uint32) (*element.Element, error) {
	encapsulated := length == 0xFFFFFFFF

	policy := p.pixelPolicy
	if policy == PixelCallback {
		action := PixelActionMaterialize
		if p.pixelCallback != nil {
			action = p.pixelCallback(t, encapsulated, length)
		}
		if action == PixelActionSkip {
			policy = PixelSkip
		} else {
			policy = PixelEager
		}
	}

	switch policy {
	case PixelSkip:
		if err := p.skipPixelData(encapsulated, length); err != nil {
			return nil, fmt.Errorf("failed to skip pixel data for tag %s: %w", t, err)
		}
		return element.NewLazyPixelElement(t, v, skippedPixelRef{}, length), nil

	case PixelLazy:
		return p.readLazyPixelDataElement(t, v, length, encapsulated)

	default: // PixelEager
		if encapsulated {
			return p.readFragmentSequenceElement(t, v)
		}
		val, err := p.readValue(v, length)
		if err != nil {
			return nil, fmt.Errorf("failed to read value for tag %s: %w", t, err)
		}
		elem, err := element.NewElement(t, v, val)
		if err != nil {
			return nil, fmt.Errorf("failed to create element for tag %s: %w", t, err)
		}
		return elem, nil
	}
}

// skipPixelData consumes a PixelData element's bytes from the stream
// without retaining them, so parsing can continue past it under PixelSkip.
func (p *ElementParser) skipPixelData(encapsulated bool, length uint32) error {
	if !encapsulated {
		if length == 0 {
			return nil
		}
		if _, err := p.reader.ReadBytes(int(length)); err != nil {
			return fmt.Errorf("reading native pixel data: %w", err)
		}
		return nil
	}

	for {
		t, err := p.readTag()
		if err != nil {
			return fmt.Errorf("reading item tag: %w", err)
		}
		switch t.Uint32() {
		case sequenceDelimitationTagValue:
			if _, err := p.reader.ReadUint32(); err != nil {
				return fmt.Errorf("reading sequence delimitation length: %w", err)
			}
			return nil
		case itemTagValue:
			itemLength, err := p.reader.ReadUint32()
			if err != nil {
				return fmt.Errorf("reading item length: %w", err)
			}
			if itemLength > 0 {
				if _, err := p.reader.ReadBytes(int(itemLength)); err != nil {
					return fmt.Errorf("reading item payload: %w", err)
				}
			}
		default:
			return fmt.Errorf("unexpected tag %s (expected Item or Sequence Delimitation)", t)
		}
	}
}

// readLazyPixelDataElement defers materializing native pixel data. When the
// parser has a seekable source (set for any non-deflated source that
// implements io.ReadSeeker, such as ParseFileWithOptions's *os.File), the
// bytes are re-read from the source on first Resolve;
// otherwise they are captured now since a forward-only stream cannot be
// rewound, and Resolve only defers wrapping them as a value.Value.
// Encapsulated data is read eagerly regardless: its BOT-driven structure
// must be parsed sequentially, and holding compressed fragments is cheap —
// the real deferred cost, decompression, already happens only when a
// caller asks for a frame.
func (p *ElementParser) readLazyPixelDataElement(t tag.Tag, v vr.VR, length uint32, encapsulated bool) (*element.Element, error) {
	if encapsulated {
		return p.readFragmentSequenceElement(t, v)
	}
	if length == 0 {
		val, err := p.createEmptyValue(v)
		if err != nil {
			return nil, fmt.Errorf("failed to create empty pixel data value for tag %s: %w", t, err)
		}
		return element.NewElement(t, v, val)
	}

	if p.seeker != nil {
		offset := p.reader.Position()
		if _, err := p.reader.ReadBytes(int(length)); err != nil {
			return nil, fmt.Errorf("failed to advance past lazy pixel data for tag %s: %w", t, err)
		}
		ref := &lazyPixelRef{v: v, seeker: p.seeker, offset: offset, length: int(length)}
		return element.NewLazyPixelElement(t, v, ref, length), nil
	}

	data, err := p.reader.ReadBytes(int(length))
	if err != nil {
		return nil, fmt.Errorf("failed to read lazy pixel data for tag %s: %w", t, err)
	}
	ref := &lazyPixelRef{v: v, data: data}
	return element.NewLazyPixelElement(t, v, ref, length), nil
}

// readSequenceElement reads the Items of an SQ element (defined or
// undefined length) into nested datasets.
//
// DICOM Standard Reference:
// https://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_7.5
func (p *ElementParser) readSequenceElement(seqTag tag.Tag, length uint32) (*element.Element, error) {
	items := make([]element.Dataset, 0)

	if length == 0xFFFFFFFF {
		for {
			t, err := p.readTag()
			if err != nil {
				return nil, fmt.Errorf("reading item tag in sequence %s: %w", seqTag, err)
			}
			switch t.Uint32() {
			case sequenceDelimitationTagValue:
				if _, err := p.reader.ReadUint32(); err != nil {
					return nil, fmt.Errorf("reading sequence delimitation length for %s: %w", seqTag, err)
				}
				return element.NewSequenceElement(seqTag, items, length), nil
			case itemTagValue:
				itemLength, err := p.reader.ReadUint32()
				if err != nil {
					return nil, fmt.Errorf("reading item length in sequence %s: %w", seqTag, err)
				}
				itemDS, err := p.readSequenceItem(itemLength)
				if err != nil {
					return nil, fmt.Errorf("reading item in sequence %s: %w", seqTag, err)
				}
				items = append(items, itemDS)
			default:
				return nil, fmt.Errorf("unexpected tag %s in sequence %s (expected Item or Sequence Delimitation)", t, seqTag)
			}
		}
	}

	start := p.reader.Position()
	for p.reader.Position()-start < int64(length) {
		t, err := p.readTag()
		if err != nil {
			return nil, fmt.Errorf("reading item tag in sequence %s: %w", seqTag, err)
		}
		if t.Uint32() != itemTagValue {
			return nil, fmt.Errorf("unexpected tag %s in sequence %s (expected Item)", t, seqTag)
		}
		itemLength, err := p.reader.ReadUint32()
		if err != nil {
			return nil, fmt.Errorf("reading item length in sequence %s: %w", seqTag, err)
		}
		itemDS, err := p.readSequenceItem(itemLength)
		if err != nil {
			return nil, fmt.Errorf("reading item in sequence %s: %w", seqTag, err)
		}
		items = append(items, itemDS)
	}

	return element.NewSequenceElement(seqTag, items, length), nil
}

// readSequenceItem reads one Item's content (defined or undefined length)
// into a DataSet of its elements.
func (p *ElementParser) readSequenceItem(itemLength uint32) (*DataSet, error) {
	ds := NewDataSet()
	p.pushContext(ds)
	defer p.popContext()

	if itemLength == 0xFFFFFFFF {
		for {
			t, err := p.readTag()
			if err != nil {
				return nil, fmt.Errorf("reading element tag in item: %w", err)
			}
			if t.Uint32() == itemDelimitationTagValue {
				if _, err := p.reader.ReadUint32(); err != nil {
					return nil, fmt.Errorf("reading item delimitation length: %w", err)
				}
				return ds, nil
			}
			elem, err := p.readElementBody(t)
			if err != nil {
				return nil, fmt.Errorf("reading item element %s: %w", t, err)
			}
			if err := ds.Add(elem); err != nil {
				return nil, fmt.Errorf("adding item element %s: %w", elem.Tag(), err)
			}
		}
	}

	start := p.reader.Position()
	for p.reader.Position()-start < int64(itemLength) {
		t, err := p.readTag()
		if err != nil {
			return nil, fmt.Errorf("reading element tag in item: %w", err)
		}
		elem, err := p.readElementBody(t)
		if err != nil {
			return nil, fmt.Errorf("reading item element %s: %w", t, err)
		}
		if err := ds.Add(elem); err != nil {
			return nil, fmt.Errorf("adding item element %s: %w", elem.Tag(), err)
		}
	}

	return ds, nil
}

// readFragmentSequenceElement reads encapsulated pixel data (used by
// compressed transfer syntaxes) into a fragment sequence element. The
// Basic Offset Table is decoded and kept alongside the fragments;
// rawFragmentSequence uses it to group fragments into frames, or treats
// each fragment as one frame when the table is empty. Decompression
// belongs to the external pixel codec, not this parser.
//
// DICOM Standard Reference:
// https://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_A.4
func (p *ElementParser) readFragmentSequenceElement(pixelTag tag.Tag, v vr.VR) (*element.Element, error) {
	t, err := p.readTag()
	if err != nil {
		return nil, fmt.Errorf("reading basic offset table tag for %s: %w", pixelTag, err)
	}
	if t.Uint32() != itemTagValue {
		return nil, fmt.Errorf("expected Item tag for basic offset table in %s, got %s", pixelTag, t)
	}
	botLength, err := p.reader.ReadUint32()
	if err != nil {
		return nil, fmt.Errorf("reading basic offset table length for %s: %w", pixelTag, err)
	}
	var offsetTable []uint32
	if botLength > 0 {
		botBytes, err := p.reader.ReadBytes(int(botLength))
		if err != nil {
			return nil, fmt.Errorf("reading basic offset table for %s: %w", pixelTag, err)
		}
		offsetTable, err = decodeBasicOffsetTable(botBytes, p.ts.ByteOrder)
		if err != nil {
			return nil, fmt.Errorf("decoding basic offset table for %s: %w", pixelTag, err)
		}
	}

	var fragments [][]byte
	for {
		t, err := p.readTag()
		if err != nil {
			return nil, fmt.Errorf("reading fragment tag for %s: %w", pixelTag, err)
		}
		switch t.Uint32() {
		case sequenceDelimitationTagValue:
			if _, err := p.reader.ReadUint32(); err != nil {
				return nil, fmt.Errorf("reading sequence delimitation length for %s: %w", pixelTag, err)
			}
			return element.NewFragmentSequenceElement(pixelTag, v, &rawFragmentSequence{
				fragments:   fragments,
				offsetTable: offsetTable,
			}), nil
		case itemTagValue:
			fragLength, err := p.reader.ReadUint32()
			if err != nil {
				return nil, fmt.Errorf("reading fragment length for %s: %w", pixelTag, err)
			}
			data, err := p.reader.ReadBytes(int(fragLength))
			if err != nil {
				return nil, fmt.Errorf("reading fragment data for %s: %w", pixelTag, err)
			}
			fragments = append(fragments, data)
		default:
			return nil, fmt.Errorf("unexpected tag %s in encapsulated pixel data %s (expected Item or Sequence Delimitation)", t, pixelTag)
		}
	}
}

// decodeBasicOffsetTable decodes the Basic Offset Table's uint32 entries
// using the dataset's byte order.
//
// DICOM Standard Reference:
// https://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_A.4
func decodeBasicOffsetTable(data []byte, order interface{ Uint32([]byte) uint32 }) ([]uint32, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("basic offset table length must be a multiple of 4, got %d", len(data))
	}
	offsets := make([]uint32, len(data)/4)
	for i := range offsets {
		offsets[i] = order.Uint32(data[i*4 : (i+1)*4])
	}
	return offsets, nil
}

// readTag reads a DICOM tag (group and element).
func (p *ElementParser) readTag() (tag.Tag, error) {
	// Read group (2 bytes)
	group, err := p.reader.ReadUint16()
	if err != nil {
		return tag.Tag{}, fmt.Errorf("failed to read tag group: %w", err)
	}

	// Read element (2 bytes)
	elem, err := p.reader.ReadUint16()
	if err != nil {
		return tag.Tag{}, fmt.Errorf("failed to read tag element: %w", err)
	}

	return tag.New(group, elem), nil
}

// readVRExplicit reads a 2-byte VR in Explicit VR encoding.
func (p *ElementParser) readVRExplicit() (vr.VR, error) {
	// Read 2-byte VR string
	vrStr, err := p.reader.ReadString(2)
	if err != nil {
		return 0, fmt.Errorf("failed to read VR: %w", err)
	}

	// Parse VR string
	v, err := vr.Parse(vrStr)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidVR, vrStr)
	}

	return v, nil
}

// readVRImplicit looks up the VR for a tag from the DICOM data dictionary.
// This is used for Implicit VR transfer syntaxes where VR is not encoded in
// the file. Tags with more than one admissible VR (pixel data, {US,SS} and
// {US,OW} dictionary entries) are disambiguated by resolveVR using
// declaredLength and the enclosing dataset context; see vr_resolver.go.
//
// DICOM Standard Reference:
// https://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_7.1.2
func (p *ElementParser) readVRImplicit(t tag.Tag, declaredLength uint32) (vr.VR, error) {
	info, err := tag.Find(t)
	if err != nil {
		// Tag not in dictionary - use UN (Unknown) as fallback
		return vr.Unknown, nil
	}
	return p.resolveVR(t, info, declaredLength), nil
}

// readLength reads the value length field.
//
// Length encoding depends on VR:
//   - Most VRs: 2-byte uint16
//   - OB, OD, OF, OL, OV, OW, SQ, UC, UN, UR, UT: 2-byte reserved (0x0000) + 4-byte uint32
//
// DICOM Standard Reference:
// https://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_7.1.2
func (p *ElementParser) readLength(v vr.VR) (uint32, error) {
	// Check if this VR uses 32-bit length field
	if v.UsesExplicitLength32() {
		// Read 2-byte reserved field (must be 0x0000)
		reserved, err := p.reader.ReadUint16()
		if err != nil {
			return 0, fmt.Errorf("failed to read reserved field: %w", err)
		}
		if reserved != 0x0000 {
			// Not strictly an error per standard, but log for debugging
			// Standard says it "should" be 0x0000 but implementations may vary
		}

		// Read 4-byte length
		length, err := p.reader.ReadUint32()
		if err != nil {
			return 0, fmt.Errorf("failed to read 32-bit length: %w", err)
		}

		return length, nil
	}

	// Read 2-byte length for standard VRs
	length16, err := p.reader.ReadUint16()
	if err != nil {
		return 0, fmt.Errorf("failed to read 16-bit length: %w", err)
	}

	return uint32(length16), nil
}

// readValue reads and parses the value field based on VR type.
func (p *ElementParser) readValue(v vr.VR, length uint32) (value.Value, error) {
	// Handle empty values
	if length == 0 {
		return p.createEmptyValue(v)
	}

	// Handle undefined length (0xFFFFFFFF). readElementBody intercepts SQ
	// and encapsulated pixel data before they reach here, so an undefined
	// length surviving to this point is genuinely malformed.
	if length == 0xFFFFFFFF {
		return nil, fmt.Errorf("%w: undefined length for non-sequence VR %s", ErrUndefinedLength, v.String())
	}

	// Dispatch to VR-specific reader
	// Check float types before numeric types (floats are also numeric)
	switch {
	case v.IsStringType():
		return p.readStringValue(v, length)
	case v == vr.FloatingPointSingle || v == vr.FloatingPointDouble:
		return p.readFloatValue(v, length)
	case v.IsNumericType():
		return p.readIntValue(v, length)
	case v.IsBinaryType():
		return p.readBytesValue(v, length)
	default:
		// Unknown VR, read as bytes
		return p.readBytesValue(vr.Unknown, length)
	}
}

// createEmptyValue creates an empty value for the given VR.
func (p *ElementParser) createEmptyValue(v vr.VR) (value.Value, error) {
	switch {
	case v == vr.SequenceOfItems:
		return value.NewBytesValue(vr.SequenceOfItems, []byte{})
	case v.IsStringType():
		return value.NewStringValue(v, []string{})
	case v.IsNumericType():
		return value.NewIntValue(v, []int64{})
	case v == vr.FloatingPointSingle || v == vr.FloatingPointDouble:
		return value.NewFloatValue(v, []float64{})
	case v.IsBinaryType():
		return value.NewBytesValue(v, []byte{})
	default:
		return value.NewBytesValue(vr.Unknown, []byte{})
	}
}

// readStringValue reads a string-based VR value.
//
// DICOM strings may contain multiple values separated by backslash (\).
// String values are space-padded for even length and may have trailing nulls for UI.
//
// DICOM Standard Reference:
// https://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_6.2
func (p *ElementParser) readStringValue(v vr.VR, length uint32) (*value.StringValue, error) {
	// Read raw bytes
	data, err := p.reader.ReadBytes(int(length))
	if err != nil {
		return nil, fmt.Errorf("failed to read string data: %w", err)
	}

	// Convert to string
	str := string(data)

	// Trim trailing null and space padding
	str = strings.TrimRight(str, "\x00 ")

	// Split by backslash for multi-valued elements
	var values []string
	if str == "" {
		values = []string{}
	} else {
		values = strings.Split(str, "\\")
	}

	// Create string value
	val, err := value.NewStringValue(v, values)
	if err != nil {
		return nil, fmt.Errorf("failed to create string value: %w", err)
	}

	return val, nil
}

// readIntValue reads an integer VR value.
//
// Handles: SS (int16), US (uint16), SL (int32), UL (uint32), SV (int64), UV (uint64), AT (tag)
//
// DICOM Standard Reference:
// https://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_6.2
func (p *ElementParser) readIntValue(v vr.VR, length uint32) (*value.IntValue, error) {
	var values []int64

	// Determine bytes per value
	var bytesPerValue int
	switch v {
	case vr.SignedShort, vr.UnsignedShort:
		bytesPerValue = 2
	case vr.SignedLong, vr.UnsignedLong, vr.AttributeTag:
		bytesPerValue = 4
	case vr.SignedVeryLong, vr.UnsignedVeryLong:
		bytesPerValue = 8
	default:
		return nil, fmt.Errorf("unsupported integer VR: %s", v.String())
	}

	// Calculate number of values
	numValues := int(length) / bytesPerValue
	if int(length)%bytesPerValue != 0 {
		return nil, fmt.Errorf("invalid length %d for VR %s (not multiple of %d)", length, v.String(), bytesPerValue)
	}

	// Read each value
	for i := 0; i < numValues; i++ {
		var val int64

		switch v {
		case vr.SignedShort:
			u16, err := p.reader.ReadUint16()
			if err != nil {
				return nil, err
			}
			val = int64(int16(u16))

		case vr.UnsignedShort:
			u16, err := p.reader.ReadUint16()
			if err != nil {
				return nil, err
			}
			val = int64(u16)

		case vr.SignedLong:
			u32, err := p.reader.ReadUint32()
			if err != nil {
				return nil, err
			}
			val = int64(int32(u32))

		case vr.UnsignedLong:
			u32, err := p.reader.ReadUint32()
			if err != nil {
				return nil, err
			}
			val = int64(u32)

		case vr.AttributeTag:
			u32, err := p.reader.ReadUint32()
			if err != nil {
				return nil, err
			}
			val = int64(u32)

		case vr.SignedVeryLong:
			data, err := p.reader.ReadBytes(8)
			if err != nil {
				return nil, err
			}
			val = int64(p.ts.ByteOrder.Uint64(data))

		case vr.UnsignedVeryLong:
			data, err := p.reader.ReadBytes(8)
			if err != nil {
				return nil, err
			}
			val = int64(p.ts.ByteOrder.Uint64(data))
		}

		values = append(values, val)
	}

	// Create int value
	intVal, err := value.NewIntValue(v, values)
	if err != nil {
		return nil, fmt.Errorf("failed to create int value: %w", err)
	}

	return intVal, nil
}

// readFloatValue reads a floating-point VR value.
//
// Handles: FL (float32), FD (float64)
//
// DICOM Standard Reference:
// https://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_6.2
func (p *ElementParser) readFloatValue(v vr.VR, length uint32) (*value.FloatValue, error) {
	var values []float64

	// Determine bytes per value
	var bytesPerValue int
	switch v {
	case vr.FloatingPointSingle:
		bytesPerValue = 4
	case vr.FloatingPointDouble:
		bytesPerValue = 8
	default:
		return nil, fmt.Errorf("unsupported float VR: %s", v.String())
	}

	// Calculate number of values
	numValues := int(length) / bytesPerValue
	if int(length)%bytesPerValue != 0 {
		return nil, fmt.Errorf("invalid length %d for VR %s (not multiple of %d)", length, v.String(), bytesPerValue)
	}

	// Read each value
	for i := 0; i < numValues; i++ {
		if v == vr.FloatingPointSingle {
			// Read float32
			data, err := p.reader.ReadBytes(4)
			if err != nil {
				return nil, err
			}
			bits := p.ts.ByteOrder.Uint32(data)
			f32 := math.Float32frombits(bits)
			values = append(values, float64(f32))
		} else {
			// Read float64
			data, err := p.reader.ReadBytes(8)
			if err != nil {
				return nil, err
			}
			bits := p.ts.ByteOrder.Uint64(data)
			f64 := math.Float64frombits(bits)
			values = append(values, f64)
		}
	}

	// Create float value
	floatVal, err := value.NewFloatValue(v, values)
	if err != nil {
		return nil, fmt.Errorf("failed to create float value: %w", err)
	}

	return floatVal, nil
}

// readBytesValue reads a binary VR value.
//
// Handles: OB, OD, OF, OL, OV, OW, UN
//
// DICOM Standard Reference:
// https://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_6.2
func (p *ElementParser) readBytesValue(v vr.VR, length uint32) (*value.BytesValue, error) {
	// Read raw bytes
	data, err := p.reader.ReadBytes(int(length))
	if err != nil {
		return nil, fmt.Errorf("failed to read binary data: %w", err)
	}

	// Create bytes value
	bytesVal, err := value.NewBytesValue(v, data)
	if err != nil {
		return nil, fmt.Errorf("failed to create bytes value: %w", err)
	}

	return bytesVal, nil
}

