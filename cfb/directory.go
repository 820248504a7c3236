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

package cfb

import (
	"bytes"
	"encoding/binary"
	"io"
	"time"
	"unicode/utf8"

	"github.com/corvidae/oxmsg/errs"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DirectoryEntry is one node of the CFB directory tree: either a storage
// (a folder-like container of other entries) or a stream (a leaf carrying
// Data). Children is populated for every entry, empty for streams, by
// linkChildren once the whole directory vector has been parsed.
type DirectoryEntry struct {
	ID       int // index into CompoundFile.Entries
	Name     string
	IsStream bool

	CLSID        [16]byte
	CreationTime time.Time
	ModifiedTime time.Time

	Data     []byte // materialized stream bytes; nil for storages
	Children map[string]*DirectoryEntry

	objectType        uint8
	leftSibID         uint32
	rightSibID        uint32
	childID           uint32
	StartingSectorLoc uint32
	StreamSize        uint64
}

const (
	entryRawNameLen = 32 // UTF-16 code units, including any trailing NUL
)

func parseDirectory(rs io.ReadSeeker, hdr *Header, fat []uint32) ([]*DirectoryEntry, error) {
	chain, err := sectorChain(fat, hdr.DirectorySectorLoc, maxRegSect)
	if err != nil {
		return nil, err
	}
	perSector := int(hdr.SectorSize()) / dirEntrySize
	entries := make([]*DirectoryEntry, 0, len(chain)*perSector)
	for _, sn := range chain {
		buf, err := readSector(rs, hdr, sn)
		if err != nil {
			return nil, err
		}
		for i := 0; i < perSector; i++ {
			raw := buf[i*dirEntrySize : (i+1)*dirEntrySize]
			e, err := parseDirEntry(raw, len(entries))
			if err != nil {
				return nil, err
			}
			entries = append(entries, e)
		}
	}
	if len(entries) == 0 {
		return nil, errs.New(errs.TruncatedInput, "no directory entries")
	}
	return entries, nil
}

func parseDirEntry(b []byte, id int) (*DirectoryEntry, error) {
	e := &DirectoryEntry{ID: id}

	nameLen := binary.LittleEndian.Uint16(b[64:66])
	e.objectType = b[66]
	e.leftSibID = binary.LittleEndian.Uint32(b[68:72])
	e.rightSibID = binary.LittleEndian.Uint32(b[72:76])
	e.childID = binary.LittleEndian.Uint32(b[76:80])
	copy(e.CLSID[:], b[80:96])
	createRaw := binary.LittleEndian.Uint64(b[100:108])
	modifiedRaw := binary.LittleEndian.Uint64(b[108:116])
	e.StartingSectorLoc = binary.LittleEndian.Uint32(b[116:120])
	e.StreamSize = binary.LittleEndian.Uint64(b[120:128])

	e.IsStream = e.objectType == objStream
	if e.objectType == objUnknown {
		return e, nil
	}

	units := 0
	if nameLen >= 2 {
		units = int(nameLen/2) - 1
	}
	if units > entryRawNameLen-1 {
		return nil, errs.Newf(errs.TruncatedInput, "directory entry name length %d out of range", nameLen)
	}
	if units > 0 {
		name, err := decodeUTF16LE(b[0 : units*2])
		if err != nil {
			return nil, err
		}
		e.Name = name
	}

	if t, ok := decodeFiletime(createRaw); ok {
		e.CreationTime = t
	}
	if t, ok := decodeFiletime(modifiedRaw); ok {
		e.ModifiedTime = t
	}
	return e, nil
}

// decodeFiletime converts a Windows FILETIME (100ns ticks since
// 1601-01-01) to a time.Time. An all-zero FILETIME means "absent" per
// MS-DTYP 2.3.3, reported via ok=false.
func decodeFiletime(ticks uint64) (time.Time, bool) {
	if ticks == 0 {
		return time.Time{}, false
	}
	const filetimeEpochDelta = 116444736000000000 // 1601-01-01 -> 1970-01-01, in 100ns ticks
	unixTicks := int64(ticks) - filetimeEpochDelta
	sec := unixTicks / 10000000
	nsec := (unixTicks % 10000000) * 100
	return time.Unix(sec, nsec).UTC(), true
}

var utf16leDecoder = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()

// decodeUTF16LE strictly decodes a little-endian UTF-16 byte slice for
// directory entry names (mapi keeps its own copy for PT_UNICODE property
// values). It reports an error rather than silently substituting
// replacement runes for invalid sequences.
func decodeUTF16LE(b []byte) (string, error) {
	out, _, err := transform.Bytes(utf16leDecoder, b)
	if err != nil {
		return "", errs.New(errs.TruncatedInput, "invalid UTF-16LE: "+err.Error())
	}
	if bytes.ContainsRune(out, utf8.RuneError) {
		return "", errs.New(errs.TruncatedInput, "invalid UTF-16LE: unpaired surrogate or odd length")
	}
	return string(out), nil
}

// linkChildren flattens the red-black tree rooted at each storage's
// childID into a name-keyed Children map, using an explicit work queue
// (never goroutines or recursion) so the whole pass is synchronous and
// bounded. A visited set guards against cyclic sibling/child pointers;
// duplicate names under one storage are rejected per MS-CFB 2.6.4's
// uniqueness requirement.
func linkChildren(entries []*DirectoryEntry) error {
	type frame struct {
		parentID int
		entryID  uint32
	}

	for _, e := range entries {
		e.Children = make(map[string]*DirectoryEntry)
	}
	// Storages below the root are reached by descending from it, so one
	// traversal from the root links the whole tree.
	for _, parent := range entries[:1] {
		if parent.childID == noStream {
			continue
		}
		queue := []frame{{parentID: parent.ID, entryID: parent.childID}}
		visited := make(map[uint32]bool)
		for len(queue) > 0 {
			f := queue[0]
			queue = queue[1:]
			if f.entryID == noStream {
				continue
			}
			if int(f.entryID) < 0 || int(f.entryID) >= len(entries) {
				return errs.Newf(errs.InvalidChildID, "child id %d out of range", f.entryID)
			}
			if visited[f.entryID] {
				return errs.Newf(errs.InvalidChildID, "cyclic directory tree at id %d", f.entryID)
			}
			visited[f.entryID] = true

			node := entries[f.entryID]
			if _, dup := entries[f.parentID].Children[node.Name]; dup {
				return errs.Newf(errs.DuplicateName, "duplicate child name %q", node.Name).WithStream(node.Name)
			}
			entries[f.parentID].Children[node.Name] = node

			queue = append(queue, frame{parentID: f.parentID, entryID: node.leftSibID})
			queue = append(queue, frame{parentID: f.parentID, entryID: node.rightSibID})
			if node.objectType == objStorage || node.objectType == objRootStorage {
				queue = append(queue, frame{parentID: node.ID, entryID: node.childID})
			}
		}
	}
	return nil
}
