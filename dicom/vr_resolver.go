// Package dicom provides DICOM file parsing and manipulation.
package dicom

import (
	"github.com/codeninja55/go-radx/dicom/tag"
	"github.com/codeninja55/go-radx/dicom/vr"
)

// resolveVR picks a single VR for a dictionary entry that admits more than
// one, using the tag itself, the transfer syntax, the declared length (only
// meaningful under Implicit VR, where it is read before the VR), and the
// chain of enclosing datasets already parsed (for BitsAllocated and
// PixelRepresentation).
//
// DICOM Standard Reference:
// https://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_6.2.2
func (p *ElementParser) resolveVR(t tag.Tag, info tag.Info, declaredLength uint32) vr.VR {
	if len(info.VRs) == 1 {
		return info.VRs[0]
	}
	if len(info.VRs) == 0 {
		return vr.Unknown
	}

	if isPixelDataTag(t) {
		if p.ts.Compressed {
			return vr.OtherByte
		}
		if bits, ok := p.contextBitsAllocated(); ok && bits > 8 {
			return vr.OtherWord
		}
		return vr.OtherByte
	}

	switch {
	case vrSetEquals(info.VRs, vr.UnsignedShort, vr.SignedShort):
		if pr, ok := p.contextPixelRepresentation(); ok && pr == 1 {
			return vr.SignedShort
		}
		return vr.UnsignedShort

	case vrSetEquals(info.VRs, vr.UnsignedShort, vr.OtherWord):
		// Both VRs are 2-byte words, so the entry count is the byte
		// length halved regardless of which VR turns out to be right.
		if declaredLength/2 > 256 {
			return vr.OtherWord
		}
		return vr.UnsignedShort
	}

	return info.VRs[0]
}

// vrSetEquals reports whether candidates contains exactly a and b (in
// either order), with no other entries.
func vrSetEquals(candidates []vr.VR, a, b vr.VR) bool {
	if len(candidates) != 2 {
		return false
	}
	return (candidates[0] == a && candidates[1] == b) ||
		(candidates[0] == b && candidates[1] == a)
}
