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
	"testing"
)

// buildV3Image assembles a minimal, valid single-FAT-sector v3 compound
// file with a root storage and one stream entry named "TestStream"
// carrying data. The stream is placed outside the mini-stream cutoff so
// the regular FAT path is exercised.
func buildV3Image(t *testing.T, data []byte) []byte {
	t.Helper()
	const sectorSize = 512
	streamSectors := (len(data) + sectorSize - 1) / sectorSize
	if streamSectors == 0 {
		streamSectors = 1
	}
	totalSectors := 2 + streamSectors // 0: FAT, 1: directory, 2..: stream

	buf := make([]byte, (1+totalSectors)*sectorSize) // +1 for the header "sector"

	// Header
	binary.LittleEndian.PutUint64(buf[0:8], signature)
	binary.LittleEndian.PutUint16(buf[24:26], 0x003E) // minor
	binary.LittleEndian.PutUint16(buf[26:28], 3)       // major
	binary.LittleEndian.PutUint16(buf[28:30], 0xFFFE)  // byte order
	binary.LittleEndian.PutUint16(buf[30:32], 9)       // sector shift -> 512
	binary.LittleEndian.PutUint16(buf[32:34], 6)       // mini sector shift -> 64
	binary.LittleEndian.PutUint32(buf[40:44], 0)        // num directory sectors (v3: 0)
	binary.LittleEndian.PutUint32(buf[44:48], 1)        // num FAT sectors
	binary.LittleEndian.PutUint32(buf[48:52], 1)        // directory sector loc
	binary.LittleEndian.PutUint32(buf[60:64], endOfChain) // minifat loc
	binary.LittleEndian.PutUint32(buf[64:68], 0)          // num minifat sectors
	binary.LittleEndian.PutUint32(buf[68:72], endOfChain) // difat loc
	binary.LittleEndian.PutUint32(buf[72:76], 0)          // num difat sectors
	for i, off := 0, 76; off < 512; i, off = i+1, off+4 {
		var v uint32 = freeSect
		if i == 0 {
			v = 0 // sector 0 holds the FAT
		}
		binary.LittleEndian.PutUint32(buf[off:off+4], v)
	}

	sectorOff := func(sn int) int { return (1 + sn) * sectorSize }

	// FAT sector (sector 0)
	fat := buf[sectorOff(0) : sectorOff(0)+sectorSize]
	for i := range fat {
		fat[i] = 0xFF // FREESECT by default (all-FF = 0xFFFFFFFF)
	}
	binary.LittleEndian.PutUint32(fat[0:4], fatSect)   // sector 0 -> itself is a FAT sector
	binary.LittleEndian.PutUint32(fat[4:8], endOfChain) // sector 1 (directory) -> EOC
	for i := 0; i < streamSectors; i++ {
		sn := 2 + i
		var nxt uint32 = endOfChain
		if i < streamSectors-1 {
			nxt = uint32(sn + 1)
		}
		binary.LittleEndian.PutUint32(fat[sn*4:sn*4+4], nxt)
	}

	// Directory sector (sector 1): entry 0 = root, entry 1 = stream, rest unknown/zero
	dir := buf[sectorOff(1) : sectorOff(1)+sectorSize]
	putDirEntry(dir[0:128], "Root Entry", objRootStorage, noStream, noStream, 1, endOfChain, 0)
	putDirEntry(dir[128:256], "TestStream", objStream, noStream, noStream, noStream, 2, uint64(len(data)))

	// Stream sectors
	remaining := data
	for i := 0; i < streamSectors; i++ {
		sn := 2 + i
		chunk := buf[sectorOff(sn) : sectorOff(sn)+sectorSize]
		n := copy(chunk, remaining)
		remaining = remaining[n:]
	}

	return buf
}

func putDirEntry(b []byte, name string, objType uint8, left, right, child uint32, startSector uint32, size uint64) {
	var units int
	u16 := make([]uint16, 0, len(name)+1)
	for _, r := range name {
		u16 = append(u16, uint16(r))
	}
	u16 = append(u16, 0)
	units = len(u16)
	for i, v := range u16 {
		if i*2+1 < 64 {
			binary.LittleEndian.PutUint16(b[i*2:i*2+2], v)
		}
	}
	binary.LittleEndian.PutUint16(b[64:66], uint16(units*2))
	b[66] = objType
	b[67] = 1 // color: black, arbitrary
	binary.LittleEndian.PutUint32(b[68:72], left)
	binary.LittleEndian.PutUint32(b[72:76], right)
	binary.LittleEndian.PutUint32(b[76:80], child)
	binary.LittleEndian.PutUint32(b[116:120], startSector)
	binary.LittleEndian.PutUint64(b[120:128], size)
}

func TestParseRegularStream(t *testing.T) {
	data := bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog. "), 120) // > 4096 bytes
	img := buildV3Image(t, data)

	cf, err := Parse(bytes.NewReader(img))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cf.Header.MajorVersion != 3 {
		t.Errorf("Expecting: 3, Got: %d", cf.Header.MajorVersion)
	}
	root := cf.Root()
	if root.Name != "Root Entry" {
		t.Errorf("Expecting: Root Entry, Got: %s", root.Name)
	}
	child, ok := root.Children["TestStream"]
	if !ok {
		t.Fatalf("Expecting TestStream child, not found")
	}
	if !bytes.Equal(child.Data, data) {
		t.Errorf("Expecting: %d bytes, Got: %d bytes", len(data), len(child.Data))
	}
}

func TestSectorOffsetV4Padding(t *testing.T) {
	h := &Header{MajorVersion: 4, SectorShift: 12}
	if got, want := h.SectorOffset(0), int64(4096); got != want {
		t.Errorf("Expecting: %d, Got: %d", want, got)
	}
	if got, want := h.SectorOffset(1), int64(8192); got != want {
		t.Errorf("Expecting: %d, Got: %d", want, got)
	}

	h3 := &Header{MajorVersion: 3, SectorShift: 9}
	if got, want := h3.SectorOffset(0), int64(512); got != want {
		t.Errorf("Expecting: %d, Got: %d", want, got)
	}
}

func TestDuplicateNameRejected(t *testing.T) {
	data := bytes.Repeat([]byte("x"), 5000)
	img := buildV3Image(t, data)
	// Give the stream entry an empty right sibling with the same name, so
	// the root storage has two children called "TestStream".
	dirOff := (1 + 1) * 512
	putDirEntry(img[dirOff+128:dirOff+256], "TestStream", objStream, noStream, 2, noStream, 2, uint64(len(data)))
	putDirEntry(img[dirOff+256:dirOff+384], "TestStream", objStream, noStream, noStream, noStream, endOfChain, 0)

	_, err := Parse(bytes.NewReader(img))
	if err == nil {
		t.Fatalf("Expecting duplicate name error, got nil")
	}
}
