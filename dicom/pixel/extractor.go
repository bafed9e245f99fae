package pixel

import (
	"fmt"

	"github.com/codeninja55/go-radx/dicom"
	"github.com/codeninja55/go-radx/dicom/element"
	"github.com/codeninja55/go-radx/dicom/tag"
	"github.com/codeninja55/go-radx/dicom/value"
)

// Extract extracts and decompresses pixel data from a DICOM dataset.
//
// This function:
//   - Extracts required pixel metadata (Rows, Columns, BitsAllocated, etc.)
//   - Retrieves the raw pixel data from the PixelData element
//   - Detects the transfer syntax and selects the appropriate decoder
//   - Decompresses the pixel data if necessary
//   - Returns a PixelData struct with decompressed data and metadata
//
// For uncompressed transfer syntaxes (native data), no decompression is performed.
// For compressed transfer syntaxes (JPEG, RLE, etc.), the appropriate decoder is used.
//
// Required DICOM attributes:
//   - (0028,0010) Rows
//   - (0028,0011) Columns
//   - (0028,0100) BitsAllocated
//   - (0028,0101) BitsStored
//   - (0028,0102) HighBit
//   - (0028,0103) PixelRepresentation
//   - (0028,0002) SamplesPerPixel
//   - (0028,0004) PhotometricInterpretation
//   - (7FE0,0010) PixelData
//   - (0002,0010) TransferSyntaxUID (from File Meta Information)
//
// Optional DICOM attributes:
//   - (0028,0006) PlanarConfiguration (defaults to 0)
//   - (0028,0008) NumberOfFrames (defaults to 1)
func Extract(ds *dicom.DataSet) (*PixelData, error) {
	// Extract required metadata
	rows, err := getUint16(ds, tag.Rows, "Rows")
	if err != nil {
		return nil, err
	}

	columns, err := getUint16(ds, tag.Columns, "Columns")
	if err != nil {
		return nil, err
	}

	bitsAllocated, err := getUint16(ds, tag.BitsAllocated, "BitsAllocated")
	if err != nil {
		return nil, err
	}

	bitsStored, err := getUint16(ds, tag.BitsStored, "BitsStored")
	if err != nil {
		return nil, err
	}

	highBit, err := getUint16(ds, tag.HighBit, "HighBit")
	if err != nil {
		return nil, err
	}

	pixelRepresentation, err := getUint16(ds, tag.PixelRepresentation, "PixelRepresentation")
	if err != nil {
		return nil, err
	}

	samplesPerPixel, err := getUint16(ds, tag.SamplesPerPixel, "SamplesPerPixel")
	if err != nil {
		return nil, err
	}

	photometricInterpretation, err := getString(ds, tag.PhotometricInterpretation, "PhotometricInterpretation")
	if err != nil {
		return nil, err
	}

	// Extract optional metadata with defaults
	planarConfiguration := getUint16WithDefault(ds, tag.PlanarConfiguration, 0)
	numberOfFrames := getIntWithDefault(ds, tag.NumberOfFrames, 1)

	// Get transfer syntax UID
	transferSyntaxUID, err := getString(ds, tag.TransferSyntaxUID, "TransferSyntaxUID")
	if err != nil {
		return nil, err
	}

	// Get raw pixel data
	pixelDataElem, err := ds.Get(tag.PixelData)
	if err != nil {
		return nil, &MissingAttributeError{
			AttributeName: "PixelData",
			Tag:           tag.PixelData.String(),
		}
	}

	// Get decoder for transfer syntax
	decoder, err := GetDecoder(transferSyntaxUID)
	if err != nil {
		return nil, err
	}

	// Create PixelInfo for decoder
	info := &PixelInfo{
		Rows:                      rows,
		Columns:                   columns,
		BitsAllocated:             bitsAllocated,
		BitsStored:                bitsStored,
		HighBit:                   highBit,
		PixelRepresentation:       pixelRepresentation,
		SamplesPerPixel:           samplesPerPixel,
		PhotometricInterpretation: photometricInterpretation,
		PlanarConfiguration:       planarConfiguration,
		NumberOfFrames:            numberOfFrames,
		TransferSyntaxUID:         transferSyntaxUID,
	}

	var decompressedData []byte

	switch pixelDataElem.Kind() {
	case element.KindFragmentSequence:
		// The parser already grouped fragments into frames using the
		// Basic Offset Table (or the one-fragment-per-frame fallback);
		// this only decodes each frame's compressed bytes.
		frames := pixelDataElem.Fragments()
		frameCount := frames.FrameCount()
		if numberOfFrames > 1 && frameCount != numberOfFrames {
			return nil, &PixelDataError{
				Field:    "number of frames",
				Expected: fmt.Sprintf("%d frames", numberOfFrames),
				Actual:   fmt.Sprintf("%d frames reported by fragment sequence", frameCount),
			}
		}

		frameSize := CalculateExpectedSize(info) / numberOfFrames
		decompressedData = make([]byte, 0, CalculateExpectedSize(info))

		for frameIndex := 0; frameIndex < frameCount; frameIndex++ {
			compressedFrame, err := frames.Frame(frameIndex)
			if err != nil {
				return nil, &PixelDataError{
					Field:    fmt.Sprintf("frame %d fragments", frameIndex),
					Expected: "valid frame fragments",
					Actual:   fmt.Sprintf("error: %v", err),
				}
			}

			frameInfo := *info // Copy info
			frameInfo.NumberOfFrames = 1

			decompressedFrame, err := decoder.Decode(compressedFrame, &frameInfo)
			if err != nil {
				return nil, &PixelDataError{
					Field:    fmt.Sprintf("frame %d decompression", frameIndex),
					Expected: "successful decompression",
					Actual:   fmt.Sprintf("error: %v", err),
				}
			}

			if len(decompressedFrame) != frameSize {
				return nil, &PixelDataError{
					Field:    fmt.Sprintf("frame %d size", frameIndex),
					Expected: fmt.Sprintf("%d bytes", frameSize),
					Actual:   fmt.Sprintf("%d bytes", len(decompressedFrame)),
				}
			}

			decompressedData = append(decompressedData, decompressedFrame...)
		}

	case element.KindLazyPixel:
		// Force materialization before decoding; Resolve self-mutates
		// the element to KindPrimitive and caches the result.
		resolved, err := pixelDataElem.Resolve()
		if err != nil {
			return nil, &PixelDataError{
				Field:    "PixelData",
				Expected: "resolvable lazy pixel data",
				Actual:   err.Error(),
			}
		}
		bytesVal, ok := resolved.(*value.BytesValue)
		if !ok {
			return nil, &PixelDataError{
				Field:    "PixelData value type",
				Expected: "*value.BytesValue",
				Actual:   fmt.Sprintf("%T", resolved),
			}
		}
		decompressedData, err = decoder.Decode(bytesVal.Bytes(), info)
		if err != nil {
			return nil, err
		}

	default: // element.KindPrimitive
		pixelDataValue := pixelDataElem.Value()
		bytesVal, ok := pixelDataValue.(*value.BytesValue)
		if !ok {
			return nil, &PixelDataError{
				Field:    "PixelData value type",
				Expected: "*value.BytesValue",
				Actual:   fmt.Sprintf("%T", pixelDataValue),
			}
		}
		decompressedData, err = decoder.Decode(bytesVal.Bytes(), info)
		if err != nil {
			return nil, err
		}
	}

	// Validate decompressed data size
	if err := ValidatePixelData(decompressedData, info); err != nil {
		return nil, err
	}

	// Return PixelData struct
	return &PixelData{
		Rows:                      rows,
		Columns:                   columns,
		BitsAllocated:             bitsAllocated,
		BitsStored:                bitsStored,
		HighBit:                   highBit,
		PixelRepresentation:       pixelRepresentation,
		SamplesPerPixel:           samplesPerPixel,
		PhotometricInterpretation: photometricInterpretation,
		PlanarConfiguration:       planarConfiguration,
		NumberOfFrames:            numberOfFrames,
		data:                      decompressedData,
		TransferSyntaxUID:         transferSyntaxUID,
	}, nil
}

// getUint16 extracts a uint16 value from a DICOM element.
func getUint16(ds *dicom.DataSet, t tag.Tag, name string) (uint16, error) {
	elem, err := ds.Get(t)
	if err != nil {
		return 0, &MissingAttributeError{
			AttributeName: name,
			Tag:           t.String(),
		}
	}

	intVal, ok := elem.Value().(*value.IntValue)
	if !ok {
		return 0, &PixelDataError{
			Field:    fmt.Sprintf("%s value type", name),
			Expected: "*value.IntValue",
			Actual:   fmt.Sprintf("%T", elem.Value()),
		}
	}

	ints := intVal.Ints()
	if len(ints) == 0 {
		return 0, &PixelDataError{
			Field:    fmt.Sprintf("%s value", name),
			Expected: "non-empty integer array",
			Actual:   "empty array",
		}
	}

	val := ints[0]
	if val < 0 || val > 65535 {
		return 0, &PixelDataError{
			Field:    fmt.Sprintf("%s value", name),
			Expected: "uint16 range [0, 65535]",
			Actual:   fmt.Sprintf("%d", val),
		}
	}

	return uint16(val), nil
}

// getUint16WithDefault extracts a uint16 value with a default if the element is missing.
func getUint16WithDefault(ds *dicom.DataSet, t tag.Tag, defaultVal uint16) uint16 {
	elem, err := ds.Get(t)
	if err != nil {
		return defaultVal
	}

	intVal, ok := elem.Value().(*value.IntValue)
	if !ok {
		return defaultVal
	}

	ints := intVal.Ints()
	if len(ints) == 0 {
		return defaultVal
	}

	val := ints[0]
	if val < 0 || val > 65535 {
		return defaultVal
	}

	return uint16(val)
}

// getIntWithDefault extracts an int value with a default if the element is missing.
func getIntWithDefault(ds *dicom.DataSet, t tag.Tag, defaultVal int) int {
	elem, err := ds.Get(t)
	if err != nil {
		return defaultVal
	}

	// NumberOfFrames can be either IntValue or StringValue (IS - Integer String)
	switch v := elem.Value().(type) {
	case *value.IntValue:
		ints := v.Ints()
		if len(ints) == 0 {
			return defaultVal
		}
		return int(ints[0])

	case *value.StringValue:
		strs := v.Strings()
		if len(strs) == 0 {
			return defaultVal
		}
		// Parse integer string
		var val int
		if _, err := fmt.Sscanf(strs[0], "%d", &val); err != nil {
			return defaultVal
		}
		return val

	default:
		return defaultVal
	}
}

// getString extracts a string value from a DICOM element.
func getString(ds *dicom.DataSet, t tag.Tag, name string) (string, error) {
	elem, err := ds.Get(t)
	if err != nil {
		return "", &MissingAttributeError{
			AttributeName: name,
			Tag:           t.String(),
		}
	}

	strVal, ok := elem.Value().(*value.StringValue)
	if !ok {
		return "", &PixelDataError{
			Field:    fmt.Sprintf("%s value type", name),
			Expected: "*value.StringValue",
			Actual:   fmt.Sprintf("%T", elem.Value()),
		}
	}

	strs := strVal.Strings()
	if len(strs) == 0 {
		return "", &PixelDataError{
			Field:    fmt.Sprintf("%s value", name),
			Expected: "non-empty string array",
			Actual:   "empty array",
		}
	}

	return strs[0], nil
}

