// Package dicom provides Go implementations of DICOM data structures and operations.
//
// This is the root package containing the primary DataSet type and collection types
// for working with DICOM datasets.
//
// DICOM Standard Reference:
// https://dicom.nema.org/medical/dicom/current/output/html/part05.html
package dicom

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/codeninja55/go-radx/dicom/element"
	"github.com/codeninja55/go-radx/dicom/tag"
)

// privateCreatorKey identifies a reserved private data element block: a
// private creator element (gggg,00xx), xx in 0x10-0xFF, reserves the block
// of data elements (gggg,xx00-xxFF) for the named creator.
//
// DICOM Standard Reference:
// https://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_7.8.1
type privateCreatorKey struct {
	group uint16
	block uint8
}

// contextCache holds the small set of attributes the element codec, VR
// resolver, and character set decoder need to consult for nearly every
// other element in the dataset (pixel geometry and text encoding). Keeping
// them denormalized here avoids a dictionary-style lookup on the hot path.
type contextCache struct {
	bitsAllocated       *uint16
	pixelRepresentation *uint16
	specificCharacterSet []string
}

// DataSet represents a collection of DICOM data elements.
//
// Elements are stored in an arena: an append-only slice of element slots
// plus a tag-to-slot index, rather than a parent-pointer tree. Removing an
// element tombstones its slot (nil) instead of shifting the arena, so slot
// indices handed out by the index map stay valid until Compact or Copy.
// This mirrors how a sequence item's nested DataSet is itself just another
// arena, with no back-reference to its parent required for traversal.
//
// DICOM Standard Reference:
// https://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_7.1
type DataSet struct {
	arena []*element.Element
	index map[tag.Tag]int

	privateCreators map[privateCreatorKey]string
	ctx             contextCache
}

// NewDataSet creates a new empty DICOM dataset.
//
// Example:
//
//	ds := dicom.NewDataSet()
//	fmt.Println(ds.Len())  // Output: 0
func NewDataSet() *DataSet {
	return &DataSet{
		index:           make(map[tag.Tag]int),
		privateCreators: make(map[privateCreatorKey]string),
	}
}

// NewDataSetWithElements creates a new dataset pre-populated with elements.
//
// Returns an error if any element is nil or if duplicate tags are found.
//
// Example:
//
//	elements := []*element.Element{patientName, patientID, studyDate}
//	ds, err := dicom.NewDataSetWithElements(elements)
//	if err != nil {
//	    log.Fatal(err)
//	}
func NewDataSetWithElements(elements []*element.Element) (*DataSet, error) {
	ds := NewDataSet()

	for _, elem := range elements {
		if elem == nil {
			return nil, fmt.Errorf("cannot add nil element")
		}

		if ds.Contains(elem.Tag()) {
			return nil, fmt.Errorf("duplicate tag %s in elements", elem.Tag())
		}

		if err := ds.Add(elem); err != nil {
			return nil, err
		}
	}

	return ds, nil
}

// Add inserts or replaces an element in the dataset.
//
// If an element with the same tag already exists, its slot is reused in
// place. Returns an error if the element is nil.
//
// Example:
//
//	elem := element.NewElement(tag.New(0x0010, 0x0010), vr.PersonName, value)
//	if err := ds.Add(elem); err != nil {
//	    log.Fatal(err)
//	}
func (ds *DataSet) Add(elem *element.Element) error {
	if elem == nil {
		return fmt.Errorf("cannot add nil element")
	}

	t := elem.Tag()
	if slot, exists := ds.index[t]; exists {
		ds.arena[slot] = elem
	} else {
		ds.arena = append(ds.arena, elem)
		ds.index[t] = len(ds.arena) - 1
	}

	ds.updateContextCache(elem)
	ds.updatePrivateCreator(elem)

	return nil
}

// updateContextCache refreshes the small set of cross-cutting attributes
// tracked for fast access by the element codec and character set decoder.
func (ds *DataSet) updateContextCache(elem *element.Element) {
	if elem.Kind() != element.KindPrimitive {
		return
	}

	switch elem.Tag() {
	case tag.BitsAllocated:
		if v, ok := firstUint16(elem); ok {
			ds.ctx.bitsAllocated = &v
		}
	case tag.PixelRepresentation:
		if v, ok := firstUint16(elem); ok {
			ds.ctx.pixelRepresentation = &v
		}
	case tag.SpecificCharacterSet:
		ds.ctx.specificCharacterSet = splitBackslash(elem.Value().String())
	}
}

// updatePrivateCreator records a private creator element's reservation so
// PrivateCreator can later resolve the owner of a private data element.
func (ds *DataSet) updatePrivateCreator(elem *element.Element) {
	t := elem.Tag()
	if !isPrivateCreatorTag(t) || elem.Kind() != element.KindPrimitive {
		return
	}
	key := privateCreatorKey{group: t.Group, block: uint8(t.Element)}
	ds.privateCreators[key] = elem.Value().String()
}

// isPrivateCreatorTag reports whether t is a private creator data element,
// i.e. an odd-group tag with element in [0x0010, 0x00FF].
func isPrivateCreatorTag(t tag.Tag) bool {
	return t.IsPrivate() && t.Element >= 0x0010 && t.Element <= 0x00FF
}

// PrivateCreator returns the creator identifier that reserved the private
// block containing t, if any private creator element for that block has
// been added to the dataset.
//
// DICOM Standard Reference:
// https://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_7.8.1
func (ds *DataSet) PrivateCreator(t tag.Tag) (string, bool) {
	if !t.IsPrivate() || t.Element < 0x1000 {
		return "", false
	}
	key := privateCreatorKey{group: t.Group, block: uint8(t.Element >> 8)}
	creator, ok := ds.privateCreators[key]
	return creator, ok
}

// BitsAllocated returns the dataset's Bits Allocated (0028,0100) value from
// the context cache, if present.
func (ds *DataSet) BitsAllocated() (uint16, bool) {
	if ds.ctx.bitsAllocated == nil {
		return 0, false
	}
	return *ds.ctx.bitsAllocated, true
}

// PixelRepresentation returns the dataset's Pixel Representation
// (0028,0103) value from the context cache, if present.
func (ds *DataSet) PixelRepresentation() (uint16, bool) {
	if ds.ctx.pixelRepresentation == nil {
		return 0, false
	}
	return *ds.ctx.pixelRepresentation, true
}

// SpecificCharacterSet returns the dataset's Specific Character Set
// (0008,0005) value components from the context cache, if present.
func (ds *DataSet) SpecificCharacterSet() ([]string, bool) {
	if ds.ctx.specificCharacterSet == nil {
		return nil, false
	}
	return ds.ctx.specificCharacterSet, true
}

func firstUint16(elem *element.Element) (uint16, bool) {
	iv, ok := elem.Value().(interface{ Ints() []int64 })
	if !ok {
		return 0, false
	}
	ints := iv.Ints()
	if len(ints) == 0 {
		return 0, false
	}
	return uint16(ints[0]), true
}

func splitBackslash(s string) []string {
	if s == "" {
		return []string{""}
	}
	return strings.Split(s, "\\")
}

// Get retrieves an element by its DICOM tag.
//
// Returns an error if the tag is not found in the dataset.
//
// Example:
//
//	elem, err := ds.Get(tag.New(0x0010, 0x0010))
//	if err != nil {
//	    log.Printf("PatientName not found: %v", err)
//	}
func (ds *DataSet) Get(t tag.Tag) (*element.Element, error) {
	slot, exists := ds.index[t]
	if !exists {
		return nil, fmt.Errorf("element with tag %s not found", t)
	}
	return ds.arena[slot], nil
}

// GetByKeyword retrieves an element by its DICOM keyword.
//
// The keyword is looked up in the DICOM dictionary to find the corresponding tag.
// Returns an error if the keyword is unknown or the element is not in the dataset.
//
// Example:
//
//	elem, err := ds.GetByKeyword("PatientName")
//	if err != nil {
//	    log.Printf("Element not found: %v", err)
//	}
//
// DICOM Standard Reference:
// https://dicom.nema.org/medical/dicom/current/output/html/part06.html#chapter_6
func (ds *DataSet) GetByKeyword(keyword string) (*element.Element, error) {
	info, err := tag.FindByKeyword(keyword)
	if err != nil {
		return nil, fmt.Errorf("unknown keyword %q: %w", keyword, err)
	}

	return ds.Get(info.Tag)
}

// Contains checks if an element with the given tag exists in the dataset.
//
// Example:
//
//	if ds.Contains(tag.New(0x0010, 0x0010)) {
//	    fmt.Println("PatientName is present")
//	}
func (ds *DataSet) Contains(t tag.Tag) bool {
	_, exists := ds.index[t]
	return exists
}

// Remove removes an element from the dataset by its tag.
//
// The element's arena slot is tombstoned rather than shifted, so any
// indices retained elsewhere remain valid.
//
// Returns an error if the tag is not found.
//
// Example:
//
//	if err := ds.Remove(tag.New(0x0010, 0x0010)); err != nil {
//	    log.Printf("Could not remove PatientName: %v", err)
//	}
func (ds *DataSet) Remove(t tag.Tag) error {
	slot, exists := ds.index[t]
	if !exists {
		return fmt.Errorf("element with tag %s not found", t)
	}

	ds.arena[slot] = nil
	delete(ds.index, t)
	return nil
}

// Len returns the number of elements in the dataset.
//
// Example:
//
//	fmt.Printf("Dataset contains %d elements\n", ds.Len())
func (ds *DataSet) Len() int {
	return len(ds.index)
}

// Elements returns all elements in the dataset sorted by tag.
//
// The returned slice is a copy and can be safely modified without affecting
// the dataset.
//
// Example:
//
//	for _, elem := range ds.Elements() {
//	    fmt.Printf("%s = %s\n", elem.Tag(), elem.Value())
//	}
func (ds *DataSet) Elements() []*element.Element {
	if len(ds.index) == 0 {
		return []*element.Element{}
	}

	tags := ds.Tags()
	elements := make([]*element.Element, len(tags))

	for i, t := range tags {
		elements[i] = ds.arena[ds.index[t]]
	}

	return elements
}

// Tags returns all tags in the dataset sorted in ascending order.
//
// The returned slice is a copy and can be safely modified without affecting
// the dataset.
//
// Example:
//
//	for _, t := range ds.Tags() {
//	    elem, _ := ds.Get(t)
//	    fmt.Printf("%s: %s\n", t, elem.Name())
//	}
func (ds *DataSet) Tags() []tag.Tag {
	if len(ds.index) == 0 {
		return []tag.Tag{}
	}

	tags := make([]tag.Tag, 0, len(ds.index))
	for t := range ds.index {
		tags = append(tags, t)
	}

	sort.Slice(tags, func(i, j int) bool {
		return tags[i].Compare(tags[j]) < 0
	})

	return tags
}

// Compact rebuilds the arena without tombstoned slots, reclaiming the
// memory held by removed elements. Index slots are renumbered; callers
// should not retain raw slot numbers across a Compact call.
//
// Example:
//
//	ds.Remove(tag.New(0x0010, 0x0010))
//	ds.Compact()
func (ds *DataSet) Compact() {
	tags := ds.Tags()
	newArena := make([]*element.Element, 0, len(tags))
	newIndex := make(map[tag.Tag]int, len(tags))

	for _, t := range tags {
		newArena = append(newArena, ds.arena[ds.index[t]])
		newIndex[t] = len(newArena) - 1
	}

	ds.arena = newArena
	ds.index = newIndex
}

// String returns a human-readable string representation of the dataset.
//
// Format:
//
//	DataSet with N elements:
//	(GGGG,EEEE) VR [Name] = value
//	...
//
// Example:
//
//	fmt.Println(ds.String())
//	// Output:
//	// DataSet with 2 elements:
//	// (0010,0010) PN [Patient's Name] = Doe^John
//	// (0010,0020) LO [Patient ID] = 12345
func (ds *DataSet) String() string {
	var sb strings.Builder

	count := ds.Len()
	if count == 0 {
		sb.WriteString("DataSet with 0 elements")
		return sb.String()
	}

	if count == 1 {
		sb.WriteString("DataSet with 1 element:\n")
	} else {
		sb.WriteString(fmt.Sprintf("DataSet with %d elements:\n", count))
	}

	for _, elem := range ds.Elements() {
		sb.WriteString("  ")
		sb.WriteString(elem.String())
		sb.WriteString("\n")
	}

	return sb.String()
}

// Copy creates a copy of the dataset with its own, compacted element list
// and index.
//
// Adding or removing elements in the copy does not affect the original. The
// elements themselves are shared, not cloned: changing an element's value
// through either dataset is visible in both.
//
// Example:
//
//	original := dicom.NewDataSet()
//	// ... add elements ...
//	copy := original.Copy()
//	copy.Remove(tag.New(0x0010, 0x0010))  // Does not affect original
func (ds *DataSet) Copy() *DataSet {
	copied := NewDataSet()

	for _, elem := range ds.Elements() {
		copied.arena = append(copied.arena, elem)
		copied.index[elem.Tag()] = len(copied.arena) - 1
		copied.updateContextCache(elem)
		copied.updatePrivateCreator(elem)
	}

	return copied
}

// Merge merges elements from another dataset into this one.
//
// Elements with the same tag will be replaced by the other dataset's values.
//
// Example:
//
//	ds1 := dicom.NewDataSet()
//	ds2 := dicom.NewDataSet()
//	// ... populate both datasets ...
//	ds1.Merge(ds2)  // ds2's elements are merged into ds1
func (ds *DataSet) Merge(other *DataSet) error {
	if other == nil {
		return fmt.Errorf("cannot merge nil dataset")
	}

	for _, elem := range other.Elements() {
		if err := ds.Add(elem); err != nil {
			return err
		}
	}

	return nil
}

// CompactPrivateGroups renumbers the private blocks within the given
// private group so they occupy a contiguous range of block numbers
// starting at 0x10, preserving each block's relative order and creator
// association. This is useful after selectively removing private elements
// (e.g. during anonymization) to avoid leaving sparse, hard-to-read block
// assignments behind.
//
// group must be an odd (private) group number; CompactPrivateGroups is a
// no-op for even groups.
func (ds *DataSet) CompactPrivateGroups(group uint16) error {
	if group%2 == 0 {
		return nil
	}

	// Discover the blocks present in this group, in ascending order.
	blockSet := make(map[uint8]bool)
	for t := range ds.index {
		if t.Group != group {
			continue
		}
		if isPrivateCreatorTag(t) {
			blockSet[uint8(t.Element)] = true
		} else if t.Element >= 0x1000 {
			blockSet[uint8(t.Element>>8)] = true
		}
	}
	if len(blockSet) == 0 {
		return nil
	}

	blocks := make([]uint8, 0, len(blockSet))
	for b := range blockSet {
		blocks = append(blocks, b)
	}
	sort.Slice(blocks, func(i, j int) bool { return blocks[i] < blocks[j] })

	remap := make(map[uint8]uint8, len(blocks))
	next := uint8(0x10)
	for _, b := range blocks {
		remap[b] = next
		next++
	}

	for _, t := range ds.Tags() {
		if t.Group != group {
			continue
		}

		var newTag tag.Tag
		switch {
		case isPrivateCreatorTag(t):
			newTag = tag.New(group, 0x0000|uint16(remap[uint8(t.Element)]))
		case t.Element >= 0x1000:
			newBlock := remap[uint8(t.Element>>8)]
			newTag = tag.New(group, (uint16(newBlock)<<8)|(t.Element&0x00FF))
		default:
			continue
		}

		if newTag.Equals(t) {
			continue
		}

		elem, _ := ds.Get(t)
		if err := ds.Remove(t); err != nil {
			return err
		}
		renamed, err := cloneElementWithTag(elem, newTag)
		if err != nil {
			return fmt.Errorf("renumbering private tag %s to %s: %w", t, newTag, err)
		}
		if err := ds.Add(renamed); err != nil {
			return err
		}
	}

	return nil
}

// cloneElementWithTag returns a primitive element identical to elem except
// for its tag. Sequence, fragment-sequence, and lazy-pixel elements are not
// expected in private groups being compacted and are rejected.
func cloneElementWithTag(elem *element.Element, newTag tag.Tag) (*element.Element, error) {
	if elem.Kind() != element.KindPrimitive {
		return nil, fmt.Errorf("cannot renumber a %s element", elem.Kind())
	}
	return element.NewElement(newTag, elem.VR(), elem.Value())
}

// FileMetaInformation returns a new DataSet containing only File Meta Information elements.
//
// File Meta Information consists of all elements in Group 0x0002, which includes:
// - Transfer Syntax UID (0002,0010)
// - Media Storage SOP Class UID (0002,0002)
// - Media Storage SOP Instance UID (0002,0003)
// - Implementation Class UID (0002,0012)
// - Implementation Version Name (0002,0013)
//
// Returns nil if no File Meta Information elements are present.
//
// Example:
//
//	fileMeta := ds.FileMetaInformation()
//	if fileMeta != nil {
//	    tsElem, err := fileMeta.Get(tag.TransferSyntaxUID)
//	    if err == nil {
//	        fmt.Printf("Transfer Syntax: %s\n", tsElem.Value())
//	    }
//	}
//
// DICOM Standard Reference:
// https://dicom.nema.org/medical/dicom/current/output/html/part10.html#sect_7.1
func (ds *DataSet) FileMetaInformation() *DataSet {
	fileMeta := NewDataSet()
	hasElements := false

	for _, elem := range ds.Elements() {
		if elem.Tag().Group == tag.MetadataGroup {
			_ = fileMeta.Add(elem)
			hasElements = true
		}
	}

	if !hasElements {
		return nil
	}

	return fileMeta
}

// parseSeriesNumberLike parses a whitespace-trimmed integer-string VR value
// with strconv.Atoi and reports whether parsing succeeded.
func parseSeriesNumberLike(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return n, true
}
