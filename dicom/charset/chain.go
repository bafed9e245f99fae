package charset

import (
	"fmt"
	"strings"
)

// Mode controls how a Chain responds to an unrecognized defined term.
type Mode int

const (
	// Strict returns an error for an unknown defined term.
	Strict Mode = iota
	// Lenient falls back to UTF-8 passthrough for an unknown defined term.
	Lenient
)

// Chain is the decode chain built from one dataset's (possibly
// multi-valued) Specific Character Set (0008,0005) element. The first
// value is the primary character set in force for the dataset; any
// further values are ISO 2022 code extensions usable via escape sequences
// within the same element, and are never themselves single-value-only
// terms.
//
// A Chain is scoped to one dataset's Specific Character Set declaration;
// building a fresh decoder per PN component group keeps ISO 2022 escape
// state from leaking between dataset elements, since the standard only
// guarantees escape-sequence continuity within a single element's value.
//
// DICOM Standard Reference:
// https://dicom.nema.org/medical/dicom/current/output/html/part03.html#sect_C.12.1.1.2
type Chain struct {
	primary    Decoder
	extensions []Decoder
}

// NewChain builds a Chain from the raw component values of (0008,0005). An
// empty terms slice (the element absent, or present but empty) yields the
// default ISO-IR 6 (ASCII) chain.
func NewChain(terms []string, mode Mode) (*Chain, error) {
	if len(terms) == 0 {
		terms = []string{Default}
	}

	primary, err := resolveTerm(terms[0], mode)
	if err != nil {
		return nil, fmt.Errorf("specific character set primary value %q: %w", terms[0], err)
	}

	if primary.SingleValueOnly() && len(terms) > 1 {
		return nil, fmt.Errorf("specific character set %q forbids ISO 2022 extensions but %d values were given", terms[0], len(terms))
	}

	extensions := make([]Decoder, 0, len(terms)-1)
	for _, term := range terms[1:] {
		if term == "" {
			continue
		}
		ext, err := resolveTerm(term, mode)
		if err != nil {
			return nil, fmt.Errorf("specific character set extension value %q: %w", term, err)
		}
		if !ext.AllowsExtension() {
			return nil, fmt.Errorf("specific character set extension value %q cannot be used as a non-primary value", term)
		}
		extensions = append(extensions, ext)
	}

	return &Chain{primary: primary, extensions: extensions}, nil
}

func resolveTerm(term string, mode Mode) (Decoder, error) {
	dec, err := Lookup(term)
	if err == nil {
		return dec, nil
	}
	if mode == Lenient {
		return Lookup(Default)
	}
	return Decoder{}, err
}

// Primary returns the chain's primary (first-value) decoder.
func (c *Chain) Primary() Decoder {
	return c.primary
}

// Decode decodes a single (non-PN) text value using the chain's primary
// decoder — escape sequences within the byte run are only meaningful for
// decoders that themselves implement an ISO 2022 state machine
// (japanese.ISO2022JP in this registry); for all others, the chain
// decodes the whole run as the primary term.
func (c *Chain) Decode(b []byte) (string, error) {
	return c.primary.Decode(b)
}

// DecodePersonName decodes a Person Name (PN) component-group string,
// where "=" separates the alphabetic, ideographic, and phonetic
// representations (DICOM Part 5, Section 6.2.1.2). The first group
// decodes with the chain's primary term; subsequent groups decode with
// the first and second extensions respectively, falling back to the
// primary term if no corresponding extension was declared.
func (c *Chain) DecodePersonName(raw string) (string, error) {
	groups := strings.Split(raw, "=")

	decoders := make([]Decoder, len(groups))
	for i := range groups {
		switch {
		case i == 0:
			decoders[i] = c.primary
		case i-1 < len(c.extensions):
			decoders[i] = c.extensions[i-1]
		default:
			decoders[i] = c.primary
		}
	}

	decoded := make([]string, len(groups))
	for i, g := range groups {
		s, err := decoders[i].Decode([]byte(g))
		if err != nil {
			return "", fmt.Errorf("decoding person name component group %d: %w", i, err)
		}
		decoded[i] = s
	}

	return strings.Join(decoded, "="), nil
}
