// Package dicom provides DICOM file parsing implementation.
package dicom

import (
	"bufio"
	"compress/flate"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/codeninja55/go-radx/dicom/element"
	"github.com/codeninja55/go-radx/dicom/tag"
	"github.com/codeninja55/go-radx/dicom/uid"
	"github.com/codeninja55/go-radx/dicom/validate"
	"github.com/codeninja55/go-radx/dicom/value"
)

// EnvelopePolicy governs how the parser treats the Part 10 preamble and File
// Meta Information when reading a stream whose conformance is uncertain
// (network payloads, fragments recovered from storage, files written by
// permissive third-party tools).
//
// DICOM Standard Reference:
// https://dicom.nema.org/medical/dicom/current/output/html/part10.html#sect_7.1
type EnvelopePolicy int

const (
	// EnvelopeRequire fails if the 128-byte preamble and "DICM" prefix are
	// not present. This is the conformant Part 10 reading.
	EnvelopeRequire EnvelopePolicy = iota
	// EnvelopeOptional peeks at the stream for the "DICM" magic at offset
	// 128; if absent, it skips straight to reading File Meta Information
	// from the current position (no preamble, but FMI still expected).
	EnvelopeOptional
	// EnvelopeIgnore skips the preamble/DICM/FMI check entirely and reads
	// the stream directly as a bare dataset under Implicit VR Little
	// Endian, the transfer syntax implied when no File Meta Information
	// is available to declare one.
	EnvelopeIgnore
)

// ParseOptions configures how Parser reads a stream beyond the conformant
// Part 10 default: the File Envelope policy (preamble/FMI), the Pixel Data
// Policy used when an encapsulated or native PixelData element is
// encountered, and an optional Validation Engine profile run after each
// element is decoded.
type ParseOptions struct {
	Envelope EnvelopePolicy
	Pixel    PixelPolicy

	// Validation, when non-nil, is run against every decoded element.
	// OnIssue, if set, is invoked for each collected issue; returning
	// false aborts the parse with ErrCancelled.
	Validation *validate.Profile
	OnIssue    func(validate.Issue) bool
}

// DefaultParseOptions returns the conformant Part 10 reading: preamble and
// File Meta Information required, pixel data read eagerly, no validation.
func DefaultParseOptions() ParseOptions {
	return ParseOptions{
		Envelope: EnvelopeRequire,
		Pixel:    PixelEager,
	}
}

// Parser handles parsing of DICOM files.
//
// The parser reads DICOM files according to DICOM Part 10 File Format:
// 1. 128-byte preamble
// 2. "DICM" prefix (4 bytes)
// 3. File Meta Information (Group 0x0002, always Explicit VR Little Endian)
// 4. Dataset (encoding per Transfer Syntax UID)
//
// DICOM Standard Reference:
// https://dicom.nema.org/medical/dicom/current/output/html/part10.html#sect_7
type Parser struct {
	reader       *Reader
	rawReader    io.Reader // Original io.Reader for decompression wrapping
	ts           *TransferSyntax
	bufferedElem *element.Element // Element read ahead during File Meta parsing
	opts         ParseOptions
	engine       *validate.Engine
}

// ParseFile reads and parses a DICOM file from the filesystem.
//
// This is the main entry point for parsing DICOM files. It handles:
//   - Reading the file preamble and validating the DICM prefix
//   - Parsing File Meta Information to determine transfer syntax
//   - Parsing the main dataset with the appropriate encoding
//
// Returns a DataSet containing all parsed DICOM elements, or an error if parsing fails.
//
// Example:
//
//	ds, err := dicom.ParseFile("image.dcm")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("Parsed %d elements\n", ds.Len())
//
// DICOM Standard Reference:
// https://dicom.nema.org/medical/dicom/current/output/html/part10.html#sect_7
func ParseFile(path string) (*DataSet, error) {
	return ParseFileWithOptions(path, DefaultParseOptions())
}

// ParseFileWithOptions is ParseFile with explicit control over the File
// Envelope policy, Pixel Data Policy, and Validation Engine profile. The
// opened *os.File is seekable, so PixelLazy can defer pixel data reads to
// first access instead of capturing them during parsing.
func ParseFileWithOptions(path string, opts ParseOptions) (*DataSet, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return parseWithOptions(file, file, opts)
}

// ParseReader reads and parses a DICOM file from an io.Reader.
//
// This allows parsing DICOM data from any source (files, network, memory, etc.).
// The reader must provide a complete DICOM file starting with the preamble.
//
// Returns a DataSet containing all parsed DICOM elements, or an error if parsing fails.
//
// Example:
//
//	file, _ := os.Open("image.dcm")
//	defer file.Close()
//	ds, err := dicom.ParseReader(file)
//
// DICOM Standard Reference:
// https://dicom.nema.org/medical/dicom/current/output/html/part10.html#sect_7
func ParseReader(r io.Reader) (*DataSet, error) {
	return ParseReaderWithOptions(r, DefaultParseOptions())
}

// ParseReaderWithOptions is ParseReader with explicit control over the File
// Envelope policy, Pixel Data Policy, and Validation Engine profile.
//
// DICOM Standard Reference:
// https://dicom.nema.org/medical/dicom/current/output/html/part10.html#sect_7
func ParseReaderWithOptions(r io.Reader, opts ParseOptions) (*DataSet, error) {
	var seeker io.ReadSeeker
	if s, ok := r.(io.ReadSeeker); ok {
		seeker = s
	}
	return parseWithOptions(r, seeker, opts)
}

// parseWithOptions drives the full Part 10 read: envelope, File Meta
// Information, transfer syntax detection, dataset decoding, and (if
// configured) validation. seeker is non-nil only when the source supports
// true lazy re-reads (e.g. ParseFileWithOptions's *os.File); it is ignored
// for deflated transfer syntaxes, whose byte offsets don't correspond to
// the compressed file's offsets.
func parseWithOptions(r io.Reader, seeker io.ReadSeeker, opts ParseOptions) (*DataSet, error) {
	reader := NewReader(r, binary.LittleEndian)

	parser := &Parser{
		reader:    reader,
		rawReader: r,
		opts:      opts,
	}
	if opts.Validation != nil {
		parser.engine = validate.NewEngine(opts.Validation, opts.OnIssue)
	}

	var metaInfo *DataSet
	if opts.Envelope == EnvelopeIgnore {
		// No preamble, no File Meta Information: assume the dataset
		// starts immediately under Implicit VR Little Endian, the
		// transfer syntax implied when none is declared.
		metaInfo = NewDataSet()
		parser.ts = &TransferSyntax{
			UID:        uid.ImplicitVRLittleEndianSyntax.UID.String(),
			ExplicitVR: false,
			ByteOrder:  binary.LittleEndian,
		}
	} else {
		var err error
		if _, err = parser.readEnvelope(); err != nil {
			return nil, fmt.Errorf("invalid DICOM file: %w", err)
		}

		metaInfo, err = parser.readFileMetaInformation()
		if err != nil {
			return nil, fmt.Errorf("failed to read File Meta Information: %w", err)
		}

		ts, err := parser.detectTransferSyntax(metaInfo)
		if err != nil {
			return nil, fmt.Errorf("failed to detect transfer syntax: %w", err)
		}
		parser.ts = ts
	}

	parser.reader.SetByteOrder(parser.ts.ByteOrder)

	// DICOM uses raw DEFLATE (RFC 1951) compression, not zlib format
	// (RFC 1950). The File Meta Information is never compressed, so
	// decompression wraps only the main dataset which follows; rawReader
	// is positioned right at the start of the compressed data. A true
	// lazy seeker is meaningless once bytes are decompressed in memory,
	// since disk offsets no longer correspond to decoded-stream offsets.
	if parser.ts.Deflated {
		flateReader := flate.NewReader(parser.rawReader)
		defer flateReader.Close()
		parser.reader = NewReader(flateReader, parser.ts.ByteOrder)
		seeker = nil
	}

	mainDS, err := parser.readDataset(seeker)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}

	for _, elem := range metaInfo.Elements() {
		mainDS.Add(elem)
	}

	return mainDS, nil
}

// readEnvelope reads the 128-byte preamble and "DICM" prefix according to
// p.opts.Envelope, reporting whether a preamble was actually consumed.
//
//   - EnvelopeRequire fails outright if the prefix is missing or wrong.
//   - EnvelopeOptional peeks 132 bytes; if they don't end in "DICM" it
//     assumes the stream has no preamble and leaves the reader positioned
//     at the start of File Meta Information instead of consuming anything.
//   - EnvelopeIgnore never reads a preamble; callers must not invoke this
//     method under that policy.
//
// DICOM Standard Reference:
// https://dicom.nema.org/medical/dicom/current/output/html/part10.html#sect_7.1
func (p *Parser) readEnvelope() (bool, error) {
	switch p.opts.Envelope {
	case EnvelopeRequire:
		return true, p.readPreamble()
	case EnvelopeOptional:
		return p.peekAndReadPreamble()
	default:
		return false, fmt.Errorf("%w: unknown envelope policy %d", ErrInvalidPreamble, p.opts.Envelope)
	}
}

// readPreamble reads and validates the 128-byte preamble and "DICM" prefix.
//
// A valid DICOM file must:
//   - Start with exactly 128 bytes (preamble content is not validated)
//   - Followed by the ASCII string "DICM" (4 bytes)
//
// The preamble content is not specified by the standard and may contain
// application-specific data or be all null bytes.
//
// Returns ErrInvalidPreamble if the prefix is not "DICM" or if the file is truncated.
//
// DICOM Standard Reference:
// https://dicom.nema.org/medical/dicom/current/output/html/part10.html#sect_7.1
func (p *Parser) readPreamble() error {
	// Read 128-byte preamble (content doesn't matter, just skip it)
	_, err := p.reader.ReadBytes(128)
	if err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return fmt.Errorf("%w: file truncated before DICM prefix", ErrInvalidPreamble)
		}
		return fmt.Errorf("%w: failed to read preamble: %v", ErrInvalidPreamble, err)
	}

	// Read 4-byte DICM prefix
	prefix, err := p.reader.ReadString(4)
	if err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return fmt.Errorf("%w: file truncated at DICM prefix", ErrInvalidPreamble)
		}
		return fmt.Errorf("%w: failed to read DICM prefix: %v", ErrInvalidPreamble, err)
	}

	// Validate prefix is exactly "DICM"
	if prefix != "DICM" {
		return fmt.Errorf("%w: expected 'DICM', got %q", ErrInvalidPreamble, prefix)
	}

	return nil
}

// peekAndReadPreamble implements EnvelopeOptional: it buffers the
// underlying reader, peeks 132 bytes, and only consumes them if byte
// 128..132 spells "DICM". Otherwise it leaves the stream untouched so File
// Meta Information parsing can begin at the current position.
func (p *Parser) peekAndReadPreamble() (bool, error) {
	br := bufio.NewReaderSize(p.rawReader, 256)
	peeked, err := br.Peek(132)
	hasPreamble := err == nil && string(peeked[128:132]) == "DICM"

	// Route subsequent reads through the buffered reader so the peeked
	// bytes aren't lost, then reuse the existing preamble reader if the
	// magic was found.
	p.rawReader = br
	p.reader.WrapReader(br)

	if !hasPreamble {
		return false, nil
	}
	return true, p.readPreamble()
}

// readFileMetaInformation reads the File Meta Information (Group 0x0002).
//
// File Meta Information is always encoded as Explicit VR Little Endian,
// regardless of the transfer syntax used for the main dataset.
//
// It contains critical metadata including:
//   - (0002,0000) File Meta Information Group Length
//   - (0002,0010) Transfer Syntax UID (required)
//   - Other metadata like Media Storage SOP Class UID, etc.
//
// Returns a DataSet containing all File Meta Information elements.
//
// DICOM Standard Reference:
// https://dicom.nema.org/medical/dicom/current/output/html/part10.html#sect_7.1
func (p *Parser) readFileMetaInformation() (*DataSet, error) {
	// File Meta is always Explicit VR Little Endian
	fileMetaTS := &TransferSyntax{
		ExplicitVR: true,
		ByteOrder:  binary.LittleEndian,
	}

	// Create element parser for File Meta
	elemParser := NewElementParser(p.reader, fileMetaTS)

	// Create dataset to store File Meta elements
	ds := NewDataSet()

	// Read first element which should be File Meta Information Group Length (0002,0000)
	firstElem, err := elemParser.ReadElement()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("unexpected EOF while reading File Meta Information")
		}
		return nil, fmt.Errorf("failed to read first File Meta element: %w", err)
	}

	ds.Add(firstElem)

	// Check if this is the Group Length element
	groupLengthTag := tag.New(0x0002, 0x0000)
	var fileMetaLength uint32
	hasGroupLength := false

	if firstElem.Tag().Equals(groupLengthTag) && firstElem.Kind() == element.KindPrimitive {
		// Extract group length value (should be UL - uint32)
		// Type assert to IntValue to access Ints() method
		if intVal, ok := firstElem.Value().(*value.IntValue); ok {
			intVals := intVal.Ints()
			if len(intVals) > 0 {
				fileMetaLength = uint32(intVals[0])
				hasGroupLength = true
			}
		}
	}

	// If we have a group length, use it to determine when to stop
	if hasGroupLength && fileMetaLength > 0 {
		// Track bytes read after the group length element
		// We need to read exactly fileMetaLength bytes
		bytesRead := uint32(0)
		startPos := p.reader.Position()

		for bytesRead < fileMetaLength {
			elem, err := elemParser.ReadElement()
			if err != nil {
				if err == io.EOF {
					// Unexpected EOF before reaching group length
					break
				}
				return nil, fmt.Errorf("failed to read File Meta element: %w", err)
			}

			ds.Add(elem)

			// Update bytes read
			currentPos := p.reader.Position()
			bytesRead = uint32(currentPos - startPos)
		}
	} else {
		// Fallback: read until we hit a tag outside Group 0x0002
		for {
			elem, err := elemParser.ReadElement()
			if err != nil {
				if err == io.EOF {
					// Unexpected EOF in File Meta Information
					return nil, fmt.Errorf("unexpected EOF while reading File Meta Information")
				}
				return nil, fmt.Errorf("failed to read File Meta element: %w", err)
			}

			// Check if we've moved past Group 0x0002
			if elem.Tag().Group != 0x0002 {
				// This element belongs to the main dataset, not File Meta
				// Buffer it for the main dataset parser to process
				p.bufferedElem = elem
				break
			}

			// Add element to dataset
			ds.Add(elem)
		}
	}

	return ds, nil
}

// detectTransferSyntax extracts the Transfer Syntax UID from File Meta Information
// and returns the corresponding TransferSyntax configuration.
//
// The Transfer Syntax UID (0002,0010) is required in File Meta Information and
// determines how the main dataset is encoded.
//
// DICOM Standard Reference:
// https://dicom.nema.org/medical/dicom/current/output/html/part05.html#chapter_10
func (p *Parser) detectTransferSyntax(metaInfo *DataSet) (*TransferSyntax, error) {
	// Get Transfer Syntax UID element (0002,0010)
	tsTag := tag.New(0x0002, 0x0010)
	elem, err := metaInfo.Get(tsTag)
	if err != nil {
		return nil, fmt.Errorf("%w: Transfer Syntax UID not found in File Meta Information", ErrMissingTransferSyntax)
	}
	if elem.Kind() != element.KindPrimitive {
		return nil, fmt.Errorf("%w: Transfer Syntax UID element is not a primitive value", ErrMissingTransferSyntax)
	}

	// Extract UID string
	tsUID := elem.Value().String()
	if tsUID == "" {
		return nil, fmt.Errorf("%w: Transfer Syntax UID is empty", ErrMissingTransferSyntax)
	}

	// Resolve against the transfer syntax dictionary (the same lookup
	// writer.go's resolveTransferSyntax uses), so the parser recognises
	// every transfer syntax the dictionary knows rather than a fixed
	// hand-maintained list. Pixel data for encapsulating syntaxes remains
	// as raw fragments until explicitly decompressed via pixel.Extract().
	resolved, ok := uid.LookupTransferSyntax(tsUID)
	if !ok {
		return nil, fmt.Errorf("%w: Transfer Syntax UID %q not supported", ErrInvalidTransferSyntax, tsUID)
	}

	byteOrder := binary.ByteOrder(binary.LittleEndian)
	if resolved.BigEndian {
		byteOrder = binary.BigEndian
	}

	return &TransferSyntax{
		UID:        tsUID,
		ExplicitVR: resolved.ExplicitVR,
		ByteOrder:  byteOrder,
		Compressed: resolved.EncapsulatedPixels,
		Deflated:   resolved.Deflated,
	}, nil
}

// readDataset reads the main dataset elements using the detected transfer syntax.
//
// The main dataset follows the File Meta Information and uses the encoding
// specified by the Transfer Syntax UID.
//
// DICOM Standard Reference:
// https://dicom.nema.org/medical/dicom/current/output/html/part10.html#sect_7.1
func (p *Parser) readDataset(seeker io.ReadSeeker) (*DataSet, error) {
	// Create element parser with detected transfer syntax and the
	// configured pixel data policy; seeker is nil unless the source
	// supports true lazy re-reads.
	elemParser := NewElementParserWithPixelPolicy(p.reader, p.ts, p.opts.Pixel, nil, seeker)

	// Create dataset to store elements
	ds := NewDataSet()
	elemParser.pushContext(ds)

	// If we have a buffered element from File Meta parsing, add it first
	if p.bufferedElem != nil {
		ds.Add(p.bufferedElem)
		p.bufferedElem = nil
	}

	// Read elements until EOF
	for {
		position := p.reader.Position()
		elem, err := elemParser.ReadElement()
		if err != nil {
			if err == io.EOF {
				// Normal end of file
				break
			}
			// Check if this is an EOF wrapped in other errors (e.g., from sequence parsing)
			// In that case, treat it as end of dataset rather than failure
			if errors.Is(err, io.EOF) {
				// EOF encountered during parsing (e.g., in sequence skipping)
				// This might indicate a truncated file, but we can return what we've parsed so far
				break
			}
			return nil, fmt.Errorf("failed to read dataset element: %w", err)
		}

		// Add element to dataset
		ds.Add(elem)

		if err := runValidation(p.engine, elem, ds, p.ts, position); err != nil {
			return nil, err
		}
	}

	return ds, nil
}

// TransferSyntax describes the encoding of a DICOM dataset.
// TODO: Move to transfer_syntax.go once implemented
type TransferSyntax struct {
	UID        string           // Transfer Syntax UID
	ExplicitVR bool             // true = Explicit VR, false = Implicit VR
	ByteOrder  binary.ByteOrder // Little or Big Endian
	Compressed bool             // true if pixel data is compressed
	Deflated   bool             // true for deflated transfer syntax
}
