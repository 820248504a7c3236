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
)

// buildMiniFAT assembles the mini-sector -> next-mini-sector table. The
// MiniFAT itself lives in a regular FAT sector chain starting at
// hdr.MiniFatSectorLoc; when the root storage has no mini-stream (no
// small streams in the file) the chain and the result are both empty.
func buildMiniFAT(rs io.ReadSeeker, hdr *Header, fat []uint32, entries []*DirectoryEntry) ([]uint32, error) {
	if hdr.MiniFatSectorLoc == endOfChain || hdr.NumMiniFatSectors == 0 {
		return nil, nil
	}
	chain, err := sectorChain(fat, hdr.MiniFatSectorLoc, maxRegSect)
	if err != nil {
		return nil, err
	}
	entriesPerSector := int(hdr.SectorSize() / 4)
	miniFat := make([]uint32, 0, len(chain)*entriesPerSector)
	for _, sn := range chain {
		buf, err := readSector(rs, hdr, sn)
		if err != nil {
			return nil, err
		}
		for j := 0; j < entriesPerSector; j++ {
			miniFat = append(miniFat, binary.LittleEndian.Uint32(buf[j*4:j*4+4]))
		}
	}
	return miniFat, nil
}

// miniSectorOffset locates mini-sector msn within the already-materialized
// mini-stream bytes (the root storage's stream, chained through the
// regular FAT and addressed in miniStreamSectorSize=64-byte units).
func miniSectorOffset(msn uint32) int64 {
	return int64(msn) * int64(miniStreamSectorSize)
}
