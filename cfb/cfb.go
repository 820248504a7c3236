// Copyright 2013 Richard Lehane. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cfb decodes Microsoft's Compound File Binary File Format
// (MS-CFB), also known as OLE2 or the COM structured storage format. It
// assembles a full in-memory directory tree plus materialized stream
// bytes from a single pass over an io.ReadSeeker; it does not write or
// repair compound files.
//
// Example:
//
//	f, _ := os.Open("message.msg")
//	defer f.Close()
//	doc, err := cfb.Parse(f)
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, e := range doc.Entries {
//		fmt.Println(e.Name, len(e.Data))
//	}
package cfb

import (
	"io"

	"github.com/corvidae/oxmsg/errs"
)

// Sentinel sector/stream ID values (MS-CFB 2.1, 2.2).
const (
	maxRegSect uint32 = 0xFFFFFFFA // highest valid regular sector number
	difatSect  uint32 = 0xFFFFFFFC // marks a DIFAT sector in the FAT
	fatSect    uint32 = 0xFFFFFFFD // marks a FAT sector in the FAT
	endOfChain uint32 = 0xFFFFFFFE // terminates a sector chain
	freeSect   uint32 = 0xFFFFFFFF // unallocated sector

	noStream uint32 = 0xFFFFFFFF // absent child/sibling directory ID
)

const (
	signature            uint64 = 0xE11AB1A1E011CFD0
	miniStreamSectorSize uint32 = 64
	miniStreamCutoffSize uint64 = 4096
	dirEntrySize         int    = 128
)

// directory entry object types (MS-CFB 2.6.1).
const (
	objUnknown     uint8 = 0x00
	objStorage     uint8 = 0x01
	objStream      uint8 = 0x02
	objRootStorage uint8 = 0x05
)

// CompoundFile is the fully assembled result of Parse: a decoded header,
// flattened FAT/MiniFAT chains, and a flat vector of directory entries with
// Children maps and Data already materialized.
type CompoundFile struct {
	Header  *Header
	Fat     []uint32 // sector number -> next sector number (or a sentinel)
	MiniFat []uint32 // mini-sector number -> next mini-sector number

	// Entries is the flat, id-indexed directory vector as stored on disk.
	// Entries[0] is always the root storage.
	Entries []*DirectoryEntry
}

// Root returns the root storage entry (directory entry 0).
func (c *CompoundFile) Root() *DirectoryEntry {
	return c.Entries[0]
}

// Parse reads rs from the beginning and assembles a CompoundFile: header,
// FAT (including any DIFAT chain), MiniFAT, directory entries, the child
// hierarchy, and every stream's materialized bytes. rs must support
// seeking to arbitrary offsets; Parse does not retain rs afterward.
func Parse(rs io.ReadSeeker) (*CompoundFile, error) {
	hdr, err := parseHeader(rs)
	if err != nil {
		return nil, err
	}
	if hdr.MajorVersion != 3 && hdr.MajorVersion != 4 {
		return nil, errs.Newf(errs.UnsupportedVersion, "major version %d", hdr.MajorVersion)
	}

	fat, err := buildFAT(rs, hdr)
	if err != nil {
		return nil, err
	}

	entries, err := parseDirectory(rs, hdr, fat)
	if err != nil {
		return nil, err
	}

	miniFat, err := buildMiniFAT(rs, hdr, fat, entries)
	if err != nil {
		return nil, err
	}

	c := &CompoundFile{Header: hdr, Fat: fat, MiniFat: miniFat, Entries: entries}

	miniStreamChain, err := sectorChain(fat, entries[0].StartingSectorLoc, maxRegSect)
	if err != nil {
		return nil, err
	}
	miniStream, err := readChainBytes(rs, hdr, miniStreamChain, entries[0].StreamSize)
	if err != nil {
		return nil, err
	}

	for _, e := range entries {
		if e.objectType != objStream {
			continue
		}
		if err := materializeStream(rs, hdr, fat, miniFat, miniStream, e); err != nil {
			return nil, err
		}
	}

	if err := linkChildren(entries); err != nil {
		return nil, err
	}

	return c, nil
}
