package tag

import "github.com/codeninja55/go-radx/dicom/vr"

// TagDict is a curated subset of the DICOM Part 6 data dictionary covering
// file meta information, patient/study/series identification, common image
// pixel-macro attributes, and the SOP common module. The full standard
// dictionary has several thousand entries and is generated from the
// standard's machine-readable XML as a build step external to this module
// (see §1 Purpose & Scope); this subset covers the tags this engine's own
// code and tests reference by name.
var TagDict = map[Tag]Info{
	// File Meta Information (group 0002)
	New(0x0002, 0x0000): {Tag: New(0x0002, 0x0000), VRs: []vr.VR{vr.UnsignedLong}, Name: "File Meta Information Group Length", Keyword: "FileMetaInformationGroupLength", VM: "1"},
	New(0x0002, 0x0001): {Tag: New(0x0002, 0x0001), VRs: []vr.VR{vr.OtherByte}, Name: "File Meta Information Version", Keyword: "FileMetaInformationVersion", VM: "1"},
	New(0x0002, 0x0002): {Tag: New(0x0002, 0x0002), VRs: []vr.VR{vr.UniqueIdentifier}, Name: "Media Storage SOP Class UID", Keyword: "MediaStorageSOPClassUID", VM: "1"},
	New(0x0002, 0x0003): {Tag: New(0x0002, 0x0003), VRs: []vr.VR{vr.UniqueIdentifier}, Name: "Media Storage SOP Instance UID", Keyword: "MediaStorageSOPInstanceUID", VM: "1"},
	New(0x0002, 0x0010): {Tag: New(0x0002, 0x0010), VRs: []vr.VR{vr.UniqueIdentifier}, Name: "Transfer Syntax UID", Keyword: "TransferSyntaxUID", VM: "1"},
	New(0x0002, 0x0012): {Tag: New(0x0002, 0x0012), VRs: []vr.VR{vr.UniqueIdentifier}, Name: "Implementation Class UID", Keyword: "ImplementationClassUID", VM: "1"},
	New(0x0002, 0x0013): {Tag: New(0x0002, 0x0013), VRs: []vr.VR{vr.ShortString}, Name: "Implementation Version Name", Keyword: "ImplementationVersionName", VM: "1"},
	New(0x0002, 0x0016): {Tag: New(0x0002, 0x0016), VRs: []vr.VR{vr.ApplicationEntity}, Name: "Source Application Entity Title", Keyword: "SourceApplicationEntityTitle", VM: "1"},
	New(0x0002, 0x0100): {Tag: New(0x0002, 0x0100), VRs: []vr.VR{vr.UniqueIdentifier}, Name: "Private Information Creator UID", Keyword: "PrivateInformationCreatorUID", VM: "1"},
	New(0x0002, 0x0102): {Tag: New(0x0002, 0x0102), VRs: []vr.VR{vr.OtherByte}, Name: "Private Information", Keyword: "PrivateInformation", VM: "1"},

	// Identification (group 0008)
	New(0x0008, 0x0005): {Tag: New(0x0008, 0x0005), VRs: []vr.VR{vr.CodeString}, Name: "Specific Character Set", Keyword: "SpecificCharacterSet", VM: "1-n"},
	New(0x0008, 0x0008): {Tag: New(0x0008, 0x0008), VRs: []vr.VR{vr.CodeString}, Name: "Image Type", Keyword: "ImageType", VM: "2-n"},
	New(0x0008, 0x0016): {Tag: New(0x0008, 0x0016), VRs: []vr.VR{vr.UniqueIdentifier}, Name: "SOP Class UID", Keyword: "SOPClassUID", VM: "1"},
	New(0x0008, 0x0018): {Tag: New(0x0008, 0x0018), VRs: []vr.VR{vr.UniqueIdentifier}, Name: "SOP Instance UID", Keyword: "SOPInstanceUID", VM: "1"},
	New(0x0008, 0x0020): {Tag: New(0x0008, 0x0020), VRs: []vr.VR{vr.Date}, Name: "Study Date", Keyword: "StudyDate", VM: "1"},
	New(0x0008, 0x0021): {Tag: New(0x0008, 0x0021), VRs: []vr.VR{vr.Date}, Name: "Series Date", Keyword: "SeriesDate", VM: "1"},
	New(0x0008, 0x0030): {Tag: New(0x0008, 0x0030), VRs: []vr.VR{vr.Time}, Name: "Study Time", Keyword: "StudyTime", VM: "1"},
	New(0x0008, 0x0050): {Tag: New(0x0008, 0x0050), VRs: []vr.VR{vr.ShortString}, Name: "Accession Number", Keyword: "AccessionNumber", VM: "1"},
	New(0x0008, 0x0060): {Tag: New(0x0008, 0x0060), VRs: []vr.VR{vr.CodeString}, Name: "Modality", Keyword: "Modality", VM: "1"},
	New(0x0008, 0x0070): {Tag: New(0x0008, 0x0070), VRs: []vr.VR{vr.LongString}, Name: "Manufacturer", Keyword: "Manufacturer", VM: "1"},
	New(0x0008, 0x0090): {Tag: New(0x0008, 0x0090), VRs: []vr.VR{vr.PersonName}, Name: "Referring Physician's Name", Keyword: "ReferringPhysicianName", VM: "1"},
	New(0x0008, 0x103E): {Tag: New(0x0008, 0x103E), VRs: []vr.VR{vr.LongString}, Name: "Series Description", Keyword: "SeriesDescription", VM: "1"},
	New(0x0008, 0x1030): {Tag: New(0x0008, 0x1030), VRs: []vr.VR{vr.LongString}, Name: "Study Description", Keyword: "StudyDescription", VM: "1"},

	// Patient (group 0010)
	New(0x0010, 0x0010): {Tag: New(0x0010, 0x0010), VRs: []vr.VR{vr.PersonName}, Name: "Patient's Name", Keyword: "PatientName", VM: "1"},
	New(0x0010, 0x0020): {Tag: New(0x0010, 0x0020), VRs: []vr.VR{vr.LongString}, Name: "Patient ID", Keyword: "PatientID", VM: "1"},
	New(0x0010, 0x0030): {Tag: New(0x0010, 0x0030), VRs: []vr.VR{vr.Date}, Name: "Patient's Birth Date", Keyword: "PatientBirthDate", VM: "1"},
	New(0x0010, 0x0040): {Tag: New(0x0010, 0x0040), VRs: []vr.VR{vr.CodeString}, Name: "Patient's Sex", Keyword: "PatientSex", VM: "1"},
	New(0x0010, 0x1010): {Tag: New(0x0010, 0x1010), VRs: []vr.VR{vr.AgeString}, Name: "Patient's Age", Keyword: "PatientAge", VM: "1"},
	New(0x0010, 0x1030): {Tag: New(0x0010, 0x1030), VRs: []vr.VR{vr.DecimalString}, Name: "Patient's Weight", Keyword: "PatientWeight", VM: "1"},

	// Study/Series/Equipment (groups 0020, 0018)
	New(0x0018, 0x0050): {Tag: New(0x0018, 0x0050), VRs: []vr.VR{vr.DecimalString}, Name: "Slice Thickness", Keyword: "SliceThickness", VM: "1"},
	New(0x0018, 0x1020): {Tag: New(0x0018, 0x1020), VRs: []vr.VR{vr.LongString}, Name: "Software Versions", Keyword: "SoftwareVersions", VM: "1-n"},
	New(0x0020, 0x000D): {Tag: New(0x0020, 0x000D), VRs: []vr.VR{vr.UniqueIdentifier}, Name: "Study Instance UID", Keyword: "StudyInstanceUID", VM: "1"},
	New(0x0020, 0x000E): {Tag: New(0x0020, 0x000E), VRs: []vr.VR{vr.UniqueIdentifier}, Name: "Series Instance UID", Keyword: "SeriesInstanceUID", VM: "1"},
	New(0x0020, 0x0010): {Tag: New(0x0020, 0x0010), VRs: []vr.VR{vr.ShortString}, Name: "Study ID", Keyword: "StudyID", VM: "1"},
	New(0x0020, 0x0011): {Tag: New(0x0020, 0x0011), VRs: []vr.VR{vr.IntegerString}, Name: "Series Number", Keyword: "SeriesNumber", VM: "1"},
	New(0x0020, 0x0013): {Tag: New(0x0020, 0x0013), VRs: []vr.VR{vr.IntegerString}, Name: "Instance Number", Keyword: "InstanceNumber", VM: "1"},
	New(0x0020, 0x0032): {Tag: New(0x0020, 0x0032), VRs: []vr.VR{vr.DecimalString}, Name: "Image Position (Patient)", Keyword: "ImagePositionPatient", VM: "3"},
	New(0x0020, 0x0037): {Tag: New(0x0020, 0x0037), VRs: []vr.VR{vr.DecimalString}, Name: "Image Orientation (Patient)", Keyword: "ImageOrientationPatient", VM: "6"},
	New(0x0020, 0x0052): {Tag: New(0x0020, 0x0052), VRs: []vr.VR{vr.UniqueIdentifier}, Name: "Frame of Reference UID", Keyword: "FrameOfReferenceUID", VM: "1"},

	// Image Pixel Macro (group 0028) — drives VR/pixel-policy disambiguation.
	New(0x0028, 0x0002): {Tag: New(0x0028, 0x0002), VRs: []vr.VR{vr.UnsignedShort}, Name: "Samples per Pixel", Keyword: "SamplesPerPixel", VM: "1"},
	New(0x0028, 0x0004): {Tag: New(0x0028, 0x0004), VRs: []vr.VR{vr.CodeString}, Name: "Photometric Interpretation", Keyword: "PhotometricInterpretation", VM: "1"},
	New(0x0028, 0x0006): {Tag: New(0x0028, 0x0006), VRs: []vr.VR{vr.UnsignedShort}, Name: "Planar Configuration", Keyword: "PlanarConfiguration", VM: "1"},
	New(0x0028, 0x0008): {Tag: New(0x0028, 0x0008), VRs: []vr.VR{vr.IntegerString}, Name: "Number of Frames", Keyword: "NumberOfFrames", VM: "1"},
	New(0x0028, 0x0010): {Tag: New(0x0028, 0x0010), VRs: []vr.VR{vr.UnsignedShort}, Name: "Rows", Keyword: "Rows", VM: "1"},
	New(0x0028, 0x0011): {Tag: New(0x0028, 0x0011), VRs: []vr.VR{vr.UnsignedShort}, Name: "Columns", Keyword: "Columns", VM: "1"},
	New(0x0028, 0x0030): {Tag: New(0x0028, 0x0030), VRs: []vr.VR{vr.DecimalString}, Name: "Pixel Spacing", Keyword: "PixelSpacing", VM: "2"},
	New(0x0028, 0x0100): {Tag: New(0x0028, 0x0100), VRs: []vr.VR{vr.UnsignedShort}, Name: "Bits Allocated", Keyword: "BitsAllocated", VM: "1"},
	New(0x0028, 0x0101): {Tag: New(0x0028, 0x0101), VRs: []vr.VR{vr.UnsignedShort}, Name: "Bits Stored", Keyword: "BitsStored", VM: "1"},
	New(0x0028, 0x0102): {Tag: New(0x0028, 0x0102), VRs: []vr.VR{vr.UnsignedShort}, Name: "High Bit", Keyword: "HighBit", VM: "1"},
	New(0x0028, 0x0103): {Tag: New(0x0028, 0x0103), VRs: []vr.VR{vr.UnsignedShort}, Name: "Pixel Representation", Keyword: "PixelRepresentation", VM: "1"},
	New(0x0028, 0x1050): {Tag: New(0x0028, 0x1050), VRs: []vr.VR{vr.DecimalString}, Name: "Window Center", Keyword: "WindowCenter", VM: "1-n"},
	New(0x0028, 0x1051): {Tag: New(0x0028, 0x1051), VRs: []vr.VR{vr.DecimalString}, Name: "Window Width", Keyword: "WindowWidth", VM: "1-n"},
	New(0x0028, 0x1052): {Tag: New(0x0028, 0x1052), VRs: []vr.VR{vr.DecimalString}, Name: "Rescale Intercept", Keyword: "RescaleIntercept", VM: "1"},
	New(0x0028, 0x1053): {Tag: New(0x0028, 0x1053), VRs: []vr.VR{vr.DecimalString}, Name: "Rescale Slope", Keyword: "RescaleSlope", VM: "1"},
	New(0x0028, 0x1101): {Tag: New(0x0028, 0x1101), VRs: []vr.VR{vr.UnsignedShort, vr.SignedShort}, Name: "Red Palette Color Lookup Table Descriptor", Keyword: "RedPaletteColorLookupTableDescriptor", VM: "3"},
	New(0x0028, 0x1201): {Tag: New(0x0028, 0x1201), VRs: []vr.VR{vr.UnsignedShort, vr.OtherWord}, Name: "Red Palette Color Lookup Table Data", Keyword: "RedPaletteColorLookupTableData", VM: "1"},
	New(0x0028, 0x2110): {Tag: New(0x0028, 0x2110), VRs: []vr.VR{vr.CodeString}, Name: "Lossy Image Compression", Keyword: "LossyImageCompression", VM: "1"},

	// Pixel Data and related (group 7FE0)
	New(0x7FE0, 0x0008): {Tag: New(0x7FE0, 0x0008), VRs: []vr.VR{vr.OtherFloat}, Name: "Float Pixel Data", Keyword: "FloatPixelData", VM: "1"},
	New(0x7FE0, 0x0009): {Tag: New(0x7FE0, 0x0009), VRs: []vr.VR{vr.OtherDouble}, Name: "Double Float Pixel Data", Keyword: "DoubleFloatPixelData", VM: "1"},
	New(0x7FE0, 0x0010): {Tag: New(0x7FE0, 0x0010), VRs: []vr.VR{vr.OtherByte, vr.OtherWord}, Name: "Pixel Data", Keyword: "PixelData", VM: "1"},

	// SOP Common (group 0008 continued)
	New(0x0008, 0x0012): {Tag: New(0x0008, 0x0012), VRs: []vr.VR{vr.Date}, Name: "Instance Creation Date", Keyword: "InstanceCreationDate", VM: "1"},
	New(0x0008, 0x0013): {Tag: New(0x0008, 0x0013), VRs: []vr.VR{vr.Time}, Name: "Instance Creation Time", Keyword: "InstanceCreationTime", VM: "1"},
	New(0x0008, 0x0014): {Tag: New(0x0008, 0x0014), VRs: []vr.VR{vr.UniqueIdentifier}, Name: "Instance Creator UID", Keyword: "InstanceCreatorUID", VM: "1"},
	New(0x0020, 0x0200): {Tag: New(0x0020, 0x0200), VRs: []vr.VR{vr.UniqueIdentifier}, Name: "Synchronization Frame of Reference UID", Keyword: "SynchronizationFrameOfReferenceUID", VM: "1"},

	// Structured content / sequences exercised by the sequence engine
	New(0x0008, 0x1110): {Tag: New(0x0008, 0x1110), VRs: []vr.VR{vr.SequenceOfItems}, Name: "Referenced Study Sequence", Keyword: "ReferencedStudySequence", VM: "1"},
	New(0x0008, 0x1140): {Tag: New(0x0008, 0x1140), VRs: []vr.VR{vr.SequenceOfItems}, Name: "Referenced Image Sequence", Keyword: "ReferencedImageSequence", VM: "1"},
	New(0x0040, 0xA043): {Tag: New(0x0040, 0xA043), VRs: []vr.VR{vr.SequenceOfItems}, Name: "Concept Name Code Sequence", Keyword: "ConceptNameCodeSequence", VM: "1"},
	New(0x0054, 0x0016): {Tag: New(0x0054, 0x0016), VRs: []vr.VR{vr.SequenceOfItems}, Name: "Radiopharmaceutical Information Sequence", Keyword: "RadiopharmaceuticalInformationSequence", VM: "1"},
}

// Structural item tags (FFFE group) never carry a VR on the wire — they
// are recognized directly by the sequence engine (see itemTag and friends
// in the dicom package's writer.go), not looked up through TagDict.

// Commonly referenced tags as named constants, for callers that want a
// compile-time symbol instead of New(group, element) literals.
var (
	TransferSyntaxUID      = New(0x0002, 0x0010)
	MediaStorageSOPClassUID = New(0x0002, 0x0002)
	SpecificCharacterSet   = New(0x0008, 0x0005)
	SOPClassUID            = New(0x0008, 0x0016)
	SOPInstanceUID         = New(0x0008, 0x0018)
	Modality               = New(0x0008, 0x0060)
	PatientName            = New(0x0010, 0x0010)
	PatientID              = New(0x0010, 0x0020)
	StudyInstanceUID       = New(0x0020, 0x000D)
	SeriesInstanceUID      = New(0x0020, 0x000E)
	SamplesPerPixel        = New(0x0028, 0x0002)
	PhotometricInterpretation = New(0x0028, 0x0004)
	PlanarConfiguration    = New(0x0028, 0x0006)
	NumberOfFrames         = New(0x0028, 0x0008)
	Rows                   = New(0x0028, 0x0010)
	Columns                = New(0x0028, 0x0011)
	BitsAllocated          = New(0x0028, 0x0100)
	BitsStored             = New(0x0028, 0x0101)
	HighBit                = New(0x0028, 0x0102)
	PixelRepresentation    = New(0x0028, 0x0103)
	PixelData              = New(0x7FE0, 0x0010)
	StudyDate              = New(0x0008, 0x0020)

	FileMetaInformationGroupLength = New(0x0002, 0x0000)
	FileMetaInformationVersion     = New(0x0002, 0x0001)
	ImplementationClassUID         = New(0x0002, 0x0012)
	ImplementationVersionName      = New(0x0002, 0x0013)
)

// maskedDict is initialized with the repeating-group patterns a curated
// subset dictionary commonly needs: the overlay plane group (60xx) and the
// retired curve data group (50xx). The 0xFF01 mask admits only the even
// groups 6000-60FE and 5000-50FE.
func init() {
	maskedDict = []MaskedEntry{
		{GroupMask: 0xFF01, GroupValue: 0x6000, Element: 0x0010, Info: Info{VRs: []vr.VR{vr.UnsignedShort}, Name: "Overlay Rows", Keyword: "OverlayRows", VM: "1"}},
		{GroupMask: 0xFF01, GroupValue: 0x6000, Element: 0x0011, Info: Info{VRs: []vr.VR{vr.UnsignedShort}, Name: "Overlay Columns", Keyword: "OverlayColumns", VM: "1"}},
		{GroupMask: 0xFF01, GroupValue: 0x6000, Element: 0x0022, Info: Info{VRs: []vr.VR{vr.LongString}, Name: "Overlay Description", Keyword: "OverlayDescription", VM: "1"}},
		{GroupMask: 0xFF01, GroupValue: 0x6000, Element: 0x0050, Info: Info{VRs: []vr.VR{vr.SignedShort}, Name: "Overlay Origin", Keyword: "OverlayOrigin", VM: "2"}},
		{GroupMask: 0xFF01, GroupValue: 0x6000, Element: 0x0100, Info: Info{VRs: []vr.VR{vr.UnsignedShort}, Name: "Overlay Bits Allocated", Keyword: "OverlayBitsAllocated", VM: "1"}},
		{GroupMask: 0xFF01, GroupValue: 0x6000, Element: 0x3000, Info: Info{VRs: []vr.VR{vr.OtherByte, vr.OtherWord}, Name: "Overlay Data", Keyword: "OverlayData", VM: "1"}},
		{GroupMask: 0xFF01, GroupValue: 0x5000, Element: 0x0010, Info: Info{VRs: []vr.VR{vr.UnsignedShort}, Name: "Curve Dimensions", Keyword: "CurveDimensions", VM: "1"}},
		{GroupMask: 0xFF01, GroupValue: 0x5000, Element: 0x0030, Info: Info{VRs: []vr.VR{vr.CodeString}, Name: "Axis Units", Keyword: "AxisUnits", VM: "1-n"}},
		{GroupMask: 0xFF01, GroupValue: 0x5000, Element: 0x3000, Info: Info{VRs: []vr.VR{vr.OtherByte, vr.OtherWord}, Name: "Curve Data", Keyword: "CurveData", VM: "1"}},
	}
}
