package mapi

import (
	"encoding/binary"
	"testing"

	"github.com/corvidae/oxmsg/cfb"
)

func putFixedEntry(b []byte, tag Tag, value uint64) {
	binary.LittleEndian.PutUint16(b[0:2], uint16(tag.Type))
	binary.LittleEndian.PutUint16(b[2:4], tag.ID)
	binary.LittleEndian.PutUint64(b[8:16], value)
}

func putVariableEntry(b []byte, tag Tag, declaredSize uint32) {
	binary.LittleEndian.PutUint16(b[0:2], uint16(tag.Type))
	binary.LittleEndian.PutUint16(b[2:4], tag.ID)
	binary.LittleEndian.PutUint32(b[8:12], declaredSize)
}

func TestParsePropertyStreamFixedAndVariable(t *testing.T) {
	subjectTag := Tag{ID: 0x0037, Type: TypeString8}
	subject := "hello world"

	body := make([]byte, entrySize*2)
	putFixedEntry(body[0:entrySize], Tag{ID: 0x0E08, Type: TypeInteger32}, uint64(uint32(42)))
	putVariableEntry(body[entrySize:2*entrySize], subjectTag, uint32(len(subject)+1))

	header := make([]byte, TopLevelHeaderSize)
	data := append(header, body...)

	storage := &cfb.DirectoryEntry{
		Name: "__properties_version1.0",
		Data: data,
		Children: map[string]*cfb.DirectoryEntry{
			subjectTag.SubstgName(): {Name: subjectTag.SubstgName(), Data: []byte(subject)},
		},
	}

	ps, err := ParsePropertyStream(storage.Data, TopLevelHeaderSize, storage)
	if err != nil {
		t.Fatalf("ParsePropertyStream: %v", err)
	}
	e, ok := ps.Get(0x0E08)
	if !ok || e.Value.Int32 != 42 {
		t.Errorf("Expecting: 42, Got: %+v (ok=%v)", e.Value, ok)
	}
	s, ok := ps.Get(0x0037)
	if !ok || s.Value.Str != subject {
		t.Errorf("Expecting: %q, Got: %q (ok=%v)", subject, s.Value.Str, ok)
	}
}

func TestAssembleMsgFileDenseEnumeration(t *testing.T) {
	makePropsStorage := func() *cfb.DirectoryEntry {
		return &cfb.DirectoryEntry{
			Name:     PropertyStreamName,
			Data:     make([]byte, RecipientOrAttachmentHeaderSize),
			Children: map[string]*cfb.DirectoryEntry{},
		}
	}

	root := &cfb.DirectoryEntry{
		Name: "Root Entry",
		Children: map[string]*cfb.DirectoryEntry{
			PropertyStreamName: {Name: PropertyStreamName, Data: make([]byte, TopLevelHeaderSize), Children: map[string]*cfb.DirectoryEntry{}},
		},
	}

	recip0 := &cfb.DirectoryEntry{Name: "__recip_version1.0_#00000000", Children: map[string]*cfb.DirectoryEntry{PropertyStreamName: makePropsStorage()}}
	recip1 := &cfb.DirectoryEntry{Name: "__recip_version1.0_#00000001", Children: map[string]*cfb.DirectoryEntry{PropertyStreamName: makePropsStorage()}}
	root.Children["__recip_version1.0_#00000000"] = recip0
	root.Children["__recip_version1.0_#00000001"] = recip1
	// Deliberately no index 2: enumeration must stop there even though
	// nothing in the header claims a count.

	cf := &cfb.CompoundFile{Entries: []*cfb.DirectoryEntry{root}}

	msg, err := Assemble(cf)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if len(msg.Recipients) != 2 {
		t.Errorf("Expecting: 2, Got: %d", len(msg.Recipients))
	}
	if len(msg.Attachments) != 0 {
		t.Errorf("Expecting: 0, Got: %d", len(msg.Attachments))
	}
}
