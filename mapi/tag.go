package mapi

import "fmt"

// Tag identifies a property: a 16-bit property ID paired with a 16-bit
// Type. On disk a tag is 4 bytes, Type first then ID (MS-OXCDATA
// 2.11.1), which is also the layout this package's Raw and sibling-stream
// naming rely on.
type Tag struct {
	ID   uint16
	Type Type
}

// Raw returns the tag packed as (ID<<16)|Type, matching the single
// little-endian uint32 that MS-OXMSG 2.1.2 sibling "substg" stream names
// encode: because a tag's on-disk byte layout is [type_lo, type_hi, id_lo,
// id_hi], reinterpreting those same four bytes as one little-endian
// uint32 yields exactly id<<16 | type.
func (t Tag) Raw() uint32 {
	return uint32(t.ID)<<16 | uint32(t.Type)
}

// tagFromRaw is Raw's inverse, used when deriving a Tag back out of a
// sibling stream name.
func tagFromRaw(raw uint32) Tag {
	return Tag{ID: uint16(raw >> 16), Type: Type(raw & 0xFFFF)}
}

// SubstgName returns the sibling stream name MS-OXMSG uses for this tag's
// value when it is variable-length: "__substg1.0_IIIITTTT" in uppercase
// hex.
func (t Tag) SubstgName() string {
	return fmt.Sprintf("%s%08X", substgPrefix, t.Raw())
}

// elementSubstgName returns the per-element sibling stream name for
// index idx of a multi-valued variable-length property:
// "__substg1.0_IIIITTTT-KKKKKKKK".
func (t Tag) elementSubstgName(idx uint32) string {
	return fmt.Sprintf("%s%08X-%08X", substgPrefix, t.Raw(), idx)
}

func (t Tag) String() string {
	return fmt.Sprintf("0x%04X:%s", t.ID, t.Type)
}

const substgPrefix = "__substg1.0_"
