package mapi

import (
	"encoding/binary"

	"github.com/corvidae/oxmsg/cfb"
	"github.com/corvidae/oxmsg/errs"
)

// PropertyStreamName is the fixed name of the stream holding a storage's
// property table, per MS-OXMSG 2.1.
const PropertyStreamName = "__properties_version1.0"

// Header sizes for the three kinds of storage that carry a property
// stream (MS-OXMSG 2.1.3): recipients and attachments carry only the
// 8-byte reserved prefix, an embedded message carries the counters too,
// and the top-level message storage carries those plus 8 more reserved
// bytes after the counters.
const (
	RecipientOrAttachmentHeaderSize = 8
	EmbeddedMessageHeaderSize       = 24
	TopLevelHeaderSize              = 32
)

// StreamHeader is the fixed-size prefix of a property stream. The
// recipient/attachment counters are zero-valued when HeaderSize==8, since
// only top-level and embedded message headers carry them.
type StreamHeader struct {
	HeaderSize      int
	NextRecipientID uint32
	NextAttachmentID uint32
	RecipientCount  uint32
	AttachmentCount uint32
}

func parseStreamHeader(data []byte, headerSize int) (StreamHeader, error) {
	if len(data) < headerSize {
		return StreamHeader{}, errs.Newf(errs.TruncatedInput, "property stream shorter than its header").WithSize(headerSize, len(data))
	}
	h := StreamHeader{HeaderSize: headerSize}
	switch headerSize {
	case RecipientOrAttachmentHeaderSize:
		// reserved only
	case EmbeddedMessageHeaderSize:
		h.NextRecipientID = binary.LittleEndian.Uint32(data[8:12])
		h.NextAttachmentID = binary.LittleEndian.Uint32(data[12:16])
		h.RecipientCount = binary.LittleEndian.Uint32(data[16:20])
		h.AttachmentCount = binary.LittleEndian.Uint32(data[20:24])
	case TopLevelHeaderSize:
		h.NextRecipientID = binary.LittleEndian.Uint32(data[8:12])
		h.NextAttachmentID = binary.LittleEndian.Uint32(data[12:16])
		h.RecipientCount = binary.LittleEndian.Uint32(data[16:20])
		h.AttachmentCount = binary.LittleEndian.Uint32(data[20:24])
		// bytes 24:32 are additional reserved padding unique to the
		// top-level header, unused.
	default:
		return StreamHeader{}, errs.Newf(errs.TruncatedInput, "unrecognised property stream header size %d", headerSize)
	}
	return h, nil
}

// PropertyStream is a fully decoded __properties_version1.0 stream: its
// header plus every property entry, keyed by property ID. Last write
// wins on a duplicate ID, matching how every known producer resolves the
// (theoretically impossible, but not validated against) case of two
// entries naming the same property.
type PropertyStream struct {
	Header     StreamHeader
	Properties map[uint16]Entry
}

// ParsePropertyStream decodes the property table in data (the materialized
// bytes of a __properties_version1.0 stream), given the header size
// appropriate to the kind of storage it belongs to, resolving
// variable-length values against storage's sibling streams.
func ParsePropertyStream(data []byte, headerSize int, storage *cfb.DirectoryEntry) (*PropertyStream, error) {
	header, err := parseStreamHeader(data, headerSize)
	if err != nil {
		return nil, err
	}
	body := data[headerSize:]
	if len(body)%entrySize != 0 {
		return nil, errs.Newf(errs.PropertyTableAlignment, "property table body not a multiple of %d bytes", entrySize).WithSize(entrySize, len(body)%entrySize)
	}

	ps := &PropertyStream{Header: header, Properties: make(map[uint16]Entry, len(body)/entrySize)}
	for off := 0; off < len(body); off += entrySize {
		entry, err := parseEntry(body[off:off+entrySize], storage)
		if err != nil {
			return nil, err
		}
		ps.Properties[entry.Tag.ID] = entry
	}
	return ps, nil
}

// Get returns the entry for a property ID and whether it was present.
func (ps *PropertyStream) Get(id uint16) (Entry, bool) {
	e, ok := ps.Properties[id]
	return e, ok
}
