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

// buildFAT assembles the full sector -> next-sector FAT. It first drains
// the 109 inline DIFAT entries from the header, then, if the header's
// DIFAT chain is non-empty, walks that chain: each DIFAT sector holds
// sectorSize/4 - 1 further FAT sector numbers plus a trailing pointer to
// the next DIFAT sector, terminating at endOfChain. Each FAT sector number
// collected this way is then read to produce the flat FAT slice.
func buildFAT(rs io.ReadSeeker, hdr *Header) ([]uint32, error) {
	fatSectors := make([]uint32, 0, 109+int(hdr.NumDifatSectors)*(int(hdr.SectorSize())/4-1))
	for _, s := range hdr.InitialDifats {
		if s == freeSect {
			break
		}
		fatSectors = append(fatSectors, s)
	}

	sn := hdr.DifatSectorLoc
	entriesPerSector := int(hdr.SectorSize() / 4)
	for i := uint32(0); i < hdr.NumDifatSectors && sn != endOfChain && sn != freeSect; i++ {
		buf, err := readSector(rs, hdr, sn)
		if err != nil {
			return nil, err
		}
		for j := 0; j < entriesPerSector-1; j++ {
			s := binary.LittleEndian.Uint32(buf[j*4 : j*4+4])
			if s == freeSect {
				break
			}
			fatSectors = append(fatSectors, s)
		}
		sn = binary.LittleEndian.Uint32(buf[len(buf)-4:])
	}

	entriesPerFatSector := int(hdr.SectorSize() / 4)
	fat := make([]uint32, 0, len(fatSectors)*entriesPerFatSector)
	for _, s := range fatSectors {
		buf, err := readSector(rs, hdr, s)
		if err != nil {
			return nil, err
		}
		for j := 0; j < entriesPerFatSector; j++ {
			fat = append(fat, binary.LittleEndian.Uint32(buf[j*4:j*4+4]))
		}
	}
	return fat, nil
}

// next returns the sector following sn in the FAT chain.
func next(fat []uint32, sn uint32) (uint32, error) {
	if int(sn) < 0 || int(sn) >= len(fat) {
		return 0, errs.Newf(errs.ChainLengthMismatch, "sector %d outside FAT (len %d)", sn, len(fat))
	}
	return fat[sn], nil
}

// sectorChain walks a FAT-style chain starting at start until endOfChain,
// guarding against cycles with a visited set bounded by len(fat)+1 steps.
func sectorChain(fat []uint32, start uint32, maxValid uint32) ([]uint32, error) {
	if start == endOfChain || start == freeSect {
		return nil, nil
	}
	chain := make([]uint32, 0, 16)
	visited := make(map[uint32]bool)
	sn := start
	for sn != endOfChain {
		if sn > maxValid {
			return nil, errs.Newf(errs.ChainLengthMismatch, "sector %d out of range", sn)
		}
		if visited[sn] {
			return nil, errs.New(errs.ChainLengthMismatch, "cyclic sector chain")
		}
		visited[sn] = true
		chain = append(chain, sn)
		nsn, err := next(fat, sn)
		if err != nil {
			return nil, err
		}
		sn = nsn
	}
	return chain, nil
}

// readChainBytes reads and concatenates the sectors in chain, truncating
// the final sector to exactly reach size bytes.
func readChainBytes(rs io.ReadSeeker, hdr *Header, chain []uint32, size uint64) ([]byte, error) {
	out := make([]byte, 0, size)
	remaining := int64(size)
	for _, sn := range chain {
		buf, err := readSector(rs, hdr, sn)
		if err != nil {
			return nil, err
		}
		if remaining <= 0 {
			break
		}
		n := int64(len(buf))
		if n > remaining {
			n = remaining
		}
		out = append(out, buf[:n]...)
		remaining -= n
	}
	if uint64(len(out)) != size {
		return nil, errs.Newf(errs.ChainLengthMismatch, "chain produced %d bytes, want %d", len(out), size).WithSize(int(size), len(out))
	}
	return out, nil
}
