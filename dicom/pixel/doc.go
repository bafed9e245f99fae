// Package pixel provides the pixel data lifecycle policy, frame access, and
// a codec registry contract for DICOM pixel data.
//
// This package does not implement compressed transfer syntaxes itself: JPEG,
// JPEG 2000, JPEG-LS and RLE decompression are out of scope. It decodes
// native (uncompressed) pixel data directly and exposes a registry that lets
// a caller plug in a concrete Decoder for any other transfer syntax UID.
//
// # Basic Usage
//
// Extract pixel data from a DICOM dataset whose transfer syntax has a
// registered decoder:
//
//	ds, err := dicom.ParseFile("ct_image.dcm")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	pixelData, err := pixel.Extract(ds)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Access pixel values as typed array
//	pixels := pixelData.Array() // Returns []uint8, []int8, []uint16, or []int16
//
// # Multi-Frame Support
//
// For multi-frame datasets, access individual frames:
//
//	frames := pixelData.Frames()
//	for i, frame := range frames {
//	    fmt.Printf("Frame %d: %dx%d\n", i, frame.Columns, frame.Rows)
//	    pixels := frame.Array()
//	    // Process frame pixels...
//	}
//
// # Decoder Registry
//
// The package uses a pluggable decoder registry. Native (uncompressed)
// transfer syntaxes are registered by default; everything else requires a
// caller-supplied decoder:
//
//	pixel.RegisterDecoder("1.2.840.10008.1.2.5", myRLEDecoder)
package pixel
