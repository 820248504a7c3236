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
	"encoding/binary"
	"io"

	"github.com/corvidae/oxmsg/errs"
)

const lenHeader int = 8 + 16 + 10 + 6 + 12 + 8 + 16 + 109*4

// Header is the decoded 512-byte CFB header (MS-CFB 2.2). InitialDifats
// holds the first 109 DIFAT entries inline in the header; DifatSectorLoc
// chains to further DIFAT sectors when NumDifatSectors > 0.
type Header struct {
	MinorVersion uint16
	MajorVersion uint16 // must be 3 or 4
	SectorShift  uint16 // 9 (512-byte sectors) for v3, 12 (4096-byte) for v4

	NumDirectorySectors uint32 // v3: must be 0, directory is a chain instead
	NumFatSectors       uint32
	DirectorySectorLoc  uint32
	MiniFatSectorLoc    uint32
	NumMiniFatSectors   uint32
	DifatSectorLoc      uint32
	NumDifatSectors     uint32
	InitialDifats       [109]uint32
}

// SectorSize returns the sector size in bytes: 512 for v3, 4096 for v4.
func (h *Header) SectorSize() uint32 {
	return 1 << h.SectorShift
}

// MiniSectorSize is fixed at 64 bytes regardless of major version.
func (h *Header) MiniSectorSize() uint32 {
	return miniStreamSectorSize
}

// SectorOffset converts a sector number to a byte offset in the underlying
// file. The header itself occupies the conceptual sector -1, so sector 0
// begins at exactly one SectorSize() past the start of the file. This
// single formula is correct for both v3 (512-byte header, 512-byte
// sectors) and v4 (512-byte header zero-padded out to a full 4096-byte
// sector, 4096-byte sectors): in the v4 case the multiplication by the
// larger SectorSize naturally lands sector 0 at offset 4096, skipping the
// padding without any version-specific branch.
func (h *Header) SectorOffset(sector uint32) int64 {
	return int64(sector+1) * int64(h.SectorSize())
}

func parseHeader(rs io.ReadSeeker) (*Header, error) {
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, errs.New(errs.IO, err.Error())
	}
	buf := make([]byte, lenHeader)
	if _, err := io.ReadFull(rs, buf); err != nil {
		return nil, errs.New(errs.TruncatedInput, "header: "+err.Error())
	}

	sig := binary.LittleEndian.Uint64(buf[:8])
	if sig != signature {
		return nil, errs.New(errs.BadSignature, "CFB magic mismatch")
	}

	h := &Header{}
	h.MinorVersion = binary.LittleEndian.Uint16(buf[24:26])
	h.MajorVersion = binary.LittleEndian.Uint16(buf[26:28])
	h.SectorShift = binary.LittleEndian.Uint16(buf[30:32])
	h.NumDirectorySectors = binary.LittleEndian.Uint32(buf[40:44])
	h.NumFatSectors = binary.LittleEndian.Uint32(buf[44:48])
	h.DirectorySectorLoc = binary.LittleEndian.Uint32(buf[48:52])
	h.MiniFatSectorLoc = binary.LittleEndian.Uint32(buf[60:64])
	h.NumMiniFatSectors = binary.LittleEndian.Uint32(buf[64:68])
	h.DifatSectorLoc = binary.LittleEndian.Uint32(buf[68:72])
	h.NumDifatSectors = binary.LittleEndian.Uint32(buf[72:76])
	for i, off := 0, 76; off < 512; i, off = i+1, off+4 {
		h.InitialDifats[i] = binary.LittleEndian.Uint32(buf[off : off+4])
	}
	return h, nil
}

func readSector(rs io.ReadSeeker, hdr *Header, sector uint32) ([]byte, error) {
	ss := hdr.SectorSize()
	if _, err := rs.Seek(hdr.SectorOffset(sector), io.SeekStart); err != nil {
		return nil, errs.New(errs.IO, err.Error())
	}
	buf := make([]byte, ss)
	if _, err := io.ReadFull(rs, buf); err != nil {
		return nil, errs.New(errs.IO, "sector "+err.Error())
	}
	return buf, nil
}
