package pixel

import (
	"fmt"
	"sync"
)

// Decoder defines the interface for decompressing pixel data from a specific transfer syntax.
//
// Implementations must be safe for concurrent use.
type Decoder interface {
	// Decode decompresses encapsulated pixel data.
	//
	// Parameters:
	//   - encapsulated: Raw compressed pixel data bytes
	//   - info: Metadata about the pixel data structure
	//
	// Returns:
	//   - Decompressed pixel data bytes
	//   - Error if decompression fails
	Decode(encapsulated []byte, info *PixelInfo) ([]byte, error)

	// TransferSyntaxUID returns the transfer syntax UID this decoder handles.
	TransferSyntaxUID() string
}

// PixelInfo contains metadata needed for pixel data decompression.
type PixelInfo struct {
	Rows                      uint16
	Columns                   uint16
	BitsAllocated             uint16
	BitsStored                uint16
	HighBit                   uint16
	PixelRepresentation       uint16
	SamplesPerPixel           uint16
	PhotometricInterpretation string
	PlanarConfiguration       uint16
	NumberOfFrames            int
	TransferSyntaxUID         string
}

// decoderRegistry manages registered pixel data decoders.
var (
	decoderRegistry   = make(map[string]Decoder)
	decoderRegistryMu sync.RWMutex
)

// RegisterDecoder registers a decoder for a specific transfer syntax UID.
//
// If a decoder is already registered for the UID, it will be replaced.
// This function is safe for concurrent use.
//
// Example:
//
//	pixel.RegisterDecoder("1.2.840.10008.1.2.5", rleDecoder)
func RegisterDecoder(transferSyntaxUID string, decoder Decoder) {
	decoderRegistryMu.Lock()
	defer decoderRegistryMu.Unlock()
	decoderRegistry[transferSyntaxUID] = decoder
}

// GetDecoder retrieves the decoder for a specific transfer syntax UID.
//
// Returns an error if no decoder is registered for the UID.
// This function is safe for concurrent use.
func GetDecoder(transferSyntaxUID string) (Decoder, error) {
	decoderRegistryMu.RLock()
	defer decoderRegistryMu.RUnlock()

	decoder, ok := decoderRegistry[transferSyntaxUID]
	if !ok {
		return nil, &TransferSyntaxError{UID: transferSyntaxUID}
	}
	return decoder, nil
}

// UnregisterDecoder removes a decoder for a specific transfer syntax UID.
//
// This is primarily useful for testing. Most applications should not need to unregister decoders.
// This function is safe for concurrent use.
func UnregisterDecoder(transferSyntaxUID string) {
	decoderRegistryMu.Lock()
	defer decoderRegistryMu.Unlock()
	delete(decoderRegistry, transferSyntaxUID)
}

// ListDecoders returns a list of all registered transfer syntax UIDs.
//
// This function is safe for concurrent use.
func ListDecoders() []string {
	decoderRegistryMu.RLock()
	defer decoderRegistryMu.RUnlock()

	uids := make([]string, 0, len(decoderRegistry))
	for uid := range decoderRegistry {
		uids = append(uids, uid)
	}
	return uids
}

// Capabilities describes what a registered Decoder can do, so a caller can
// query the registry before attempting a decode rather than trying and
// handling a codec error. Concrete codecs (JPEG, JPEG 2000, RLE, ...) are
// not implemented by this package; a deployment that needs one registers
// its own Decoder and advertises its Capabilities alongside it.
type Capabilities struct {
	CanEncode                bool
	CanDecode                bool
	IsLossy                  bool
	SupportsMultiFrame       bool
	SupportedBitDepths       []uint16
	SupportedSamplesPerPixel []uint16
}

// capabilityRegistry holds the advertised Capabilities for a decoder
// registered via RegisterDecoder, keyed by transfer syntax UID.
var (
	capabilityRegistry   = make(map[string]Capabilities)
	capabilityRegistryMu sync.RWMutex
)

// RegisterCapabilities records what a registered decoder can do. Optional:
// a decoder with no recorded Capabilities is still usable via GetDecoder,
// it simply reports the zero value from GetCapabilities.
func RegisterCapabilities(transferSyntaxUID string, caps Capabilities) {
	capabilityRegistryMu.Lock()
	defer capabilityRegistryMu.Unlock()
	capabilityRegistry[transferSyntaxUID] = caps
}

// GetCapabilities returns the advertised Capabilities for a transfer syntax
// UID, and whether any were recorded.
func GetCapabilities(transferSyntaxUID string) (Capabilities, bool) {
	capabilityRegistryMu.RLock()
	defer capabilityRegistryMu.RUnlock()
	caps, ok := capabilityRegistry[transferSyntaxUID]
	return caps, ok
}

// NativeDecoder handles uncompressed (native) pixel data.
//
// This is a no-op decoder that returns the input data unchanged.
type NativeDecoder struct{}

// Decode returns the input data unchanged (no decompression needed).
func (d *NativeDecoder) Decode(encapsulated []byte, info *PixelInfo) ([]byte, error) {
	return encapsulated, nil
}

// TransferSyntaxUID returns an empty string since native data doesn't require a specific UID.
func (d *NativeDecoder) TransferSyntaxUID() string {
	return ""
}

// CalculateExpectedSize calculates the expected size in bytes for pixel data based on metadata.
//
// Formula: Rows × Columns × SamplesPerPixel × NumberOfFrames × ceil(BitsAllocated / 8)
func CalculateExpectedSize(info *PixelInfo) int {
	bytesPerSample := (int(info.BitsAllocated) + 7) / 8
	return int(info.Rows) * int(info.Columns) * int(info.SamplesPerPixel) * info.NumberOfFrames * bytesPerSample
}

// ValidatePixelData validates that pixel data size matches expected size based on metadata.
func ValidatePixelData(data []byte, info *PixelInfo) error {
	expected := CalculateExpectedSize(info)
	actual := len(data)

	if actual != expected {
		return &PixelDataError{
			Field:    "PixelData length",
			Expected: fmt.Sprintf("%d bytes", expected),
			Actual:   fmt.Sprintf("%d bytes", actual),
		}
	}
	return nil
}

func init() {
	// Register native decoder for uncompressed transfer syntaxes
	nativeDecoder := &NativeDecoder{}

	// Implicit VR Little Endian (default)
	RegisterDecoder("1.2.840.10008.1.2", nativeDecoder)

	// Explicit VR Little Endian
	RegisterDecoder("1.2.840.10008.1.2.1", nativeDecoder)

	// Explicit VR Big Endian (retired but still in use)
	RegisterDecoder("1.2.840.10008.1.2.2", nativeDecoder)

	// Deflated Explicit VR Little Endian
	RegisterDecoder("1.2.840.10008.1.2.1.99", nativeDecoder)

	nativeCaps := Capabilities{
		CanEncode:                true,
		CanDecode:                true,
		IsLossy:                  false,
		SupportsMultiFrame:       true,
		SupportedBitDepths:       []uint16{1, 8, 16, 32},
		SupportedSamplesPerPixel: []uint16{1, 3, 4},
	}
	RegisterCapabilities("1.2.840.10008.1.2", nativeCaps)
	RegisterCapabilities("1.2.840.10008.1.2.1", nativeCaps)
	RegisterCapabilities("1.2.840.10008.1.2.2", nativeCaps)
	RegisterCapabilities("1.2.840.10008.1.2.1.99", nativeCaps)
}
