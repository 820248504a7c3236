package mapi

import (
	"encoding/binary"

	"github.com/corvidae/oxmsg/cfb"
	"github.com/corvidae/oxmsg/errs"
)

// entrySize is the on-disk size of one property entry in a
// __properties_version1.0 stream (MS-OXMSG 2.1.3): a 4-byte tag, 4 bytes
// of flags, and an 8-byte value-or-descriptor slot.
const entrySize = 16

// Entry is one decoded row of a property stream: a tag plus its value.
type Entry struct {
	Tag   Tag
	Value Value
}

// parseEntry decodes one 16-byte property entry. storage is the
// directory entry (a storage, i.e. a folder-like node) whose sibling
// "__substg1.0_*" streams hold this property's value when Tag.Type is
// variable-length or multi-valued.
func parseEntry(raw []byte, storage *cfb.DirectoryEntry) (Entry, error) {
	if len(raw) != entrySize {
		return Entry{}, errs.Newf(errs.PropertyTableAlignment, "property entry must be %d bytes", entrySize).WithSize(entrySize, len(raw))
	}
	typeCode := Type(binary.LittleEndian.Uint16(raw[0:2]))
	id := binary.LittleEndian.Uint16(raw[2:4])
	tag := Tag{ID: id, Type: typeCode}
	slot := raw[8:16]

	if typeCode.IsMulti() {
		v, err := parseMultiValue(tag, slot, storage)
		if err != nil {
			return Entry{}, err
		}
		return Entry{Tag: tag, Value: v}, nil
	}
	if typeCode.IsVariable() {
		v, err := parseVariableValue(tag, slot, storage)
		if err != nil {
			return Entry{}, err
		}
		return Entry{Tag: tag, Value: v}, nil
	}
	v, err := decodeFixed(typeCode, slot)
	if err != nil {
		return Entry{}, err
	}
	return Entry{Tag: tag, Value: v}, nil
}

func sibling(storage *cfb.DirectoryEntry, name string) (*cfb.DirectoryEntry, bool) {
	e, ok := storage.Children[name]
	return e, ok
}

func parseVariableValue(tag Tag, slot []byte, storage *cfb.DirectoryEntry) (Value, error) {
	declared := binary.LittleEndian.Uint32(slot[0:4])
	name := tag.SubstgName()
	e, ok := sibling(storage, name)
	if !ok {
		return Value{}, errs.New(errs.MissingValueStream, "no sibling stream for variable property").WithStream(name).WithTag(tag.Raw())
	}
	data := e.Data
	// The declared size counts a terminator the stream data itself
	// doesn't carry: 2 bytes for the UTF-16 NUL (PT_STRING), 1 byte for
	// the 8-bit NUL (PT_STRING8). Every other variable type is held to
	// an exact match.
	var want uint32
	switch tag.Type {
	case TypeString:
		if declared < 2 {
			return Value{}, errs.New(errs.ValueSizeMismatch, "declared size too small for string terminator").WithStream(name).WithTag(tag.Raw())
		}
		want = declared - 2
	case TypeString8:
		if declared < 1 {
			return Value{}, errs.New(errs.ValueSizeMismatch, "declared size too small for string terminator").WithStream(name).WithTag(tag.Raw())
		}
		want = declared - 1
	default:
		want = declared
	}
	if uint32(len(data)) != want {
		return Value{}, errs.New(errs.ValueSizeMismatch, "variable value size mismatch").
			WithStream(name).WithTag(tag.Raw()).WithSize(int(want), len(data))
	}
	return decodeVariable(tag.Type, data)
}

func parseMultiValue(tag Tag, slot []byte, storage *cfb.DirectoryEntry) (Value, error) {
	base := tag.Type.base()

	name := tag.SubstgName()
	idx, ok := sibling(storage, name)
	if !ok {
		return Value{}, errs.New(errs.MissingValueStream, "no sibling stream for multi-value property").WithStream(name).WithTag(tag.Raw())
	}
	if !base.IsVariable() {
		return decodeMultiFixed(base, idx.Data)
	}
	if base == TypeGUID {
		// Fixed-width GUIDs are stored back to back in this one stream.
		return decodeMultiVariable(base, idx.Data)
	}

	// For strings and binaries this stream is an index of per-element
	// lengths (4 bytes each, 8 for binary); the element bytes live in
	// numbered streams of their own.
	width := 4
	if base == TypeBinary {
		width = 8
	}
	count := uint32(len(idx.Data) / width)
	var concatenated []byte
	for k := uint32(0); k < count; k++ {
		name := tag.elementSubstgName(k)
		e, ok := sibling(storage, name)
		if !ok {
			return Value{}, errs.New(errs.MissingValueStream, "no sibling stream for multi-value element").WithStream(name).WithTag(tag.Raw())
		}
		concatenated = append(concatenated, e.Data...)
	}
	return decodeMultiVariable(base, concatenated)
}
