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
	"io"

	"github.com/corvidae/oxmsg/errs"
)

// materializeStream fills e.Data with the stream's bytes, choosing the
// MiniFAT path for streams under miniStreamCutoffSize and the regular FAT
// path otherwise, per MS-CFB 2.4.
func materializeStream(rs io.ReadSeeker, hdr *Header, fat, miniFat []uint32, miniStream []byte, e *DirectoryEntry) error {
	if e.StreamSize == 0 {
		e.Data = []byte{}
		return nil
	}
	if e.StreamSize < miniStreamCutoffSize {
		return materializeMiniStream(miniFat, miniStream, e)
	}
	return materializeRegularStream(rs, hdr, fat, e)
}

func materializeRegularStream(rs io.ReadSeeker, hdr *Header, fat []uint32, e *DirectoryEntry) error {
	chain, err := sectorChain(fat, e.StartingSectorLoc, maxRegSect)
	if err != nil {
		return err
	}
	ss := uint64(hdr.SectorSize())
	// Sanity window per MS-CFB 2.6.1: a stream's declared size must be
	// reachable within one sector of what its chain actually holds.
	capacity := uint64(len(chain)) * ss
	if e.StreamSize > capacity || e.StreamSize <= capacity-ss {
		return errs.Newf(errs.ChainLengthMismatch, "stream %q size %d outside chain capacity window (%d, %d]",
			e.Name, e.StreamSize, capacity-ss, capacity).WithStream(e.Name)
	}
	data, err := readChainBytes(rs, hdr, chain, e.StreamSize)
	if err != nil {
		return err
	}
	e.Data = data
	return nil
}

func materializeMiniStream(miniFat []uint32, miniStream []byte, e *DirectoryEntry) error {
	chain, err := sectorChain(miniFat, e.StartingSectorLoc, uint32(len(miniFat)))
	if err != nil {
		return err
	}
	out := make([]byte, 0, e.StreamSize)
	remaining := int64(e.StreamSize)
	for _, msn := range chain {
		if remaining <= 0 {
			break
		}
		off := miniSectorOffset(msn)
		end := off + int64(miniStreamSectorSize)
		if end > int64(len(miniStream)) {
			return errs.Newf(errs.ChainLengthMismatch, "mini-sector %d outside mini-stream", msn)
		}
		chunk := miniStream[off:end]
		n := int64(len(chunk))
		if n > remaining {
			n = remaining
		}
		out = append(out, chunk[:n]...)
		remaining -= n
	}
	if uint64(len(out)) != e.StreamSize {
		return errs.Newf(errs.ChainLengthMismatch, "mini-stream chain produced %d bytes, want %d", len(out), e.StreamSize).
			WithStream(e.Name).WithSize(int(e.StreamSize), len(out))
	}
	e.Data = out
	return nil
}
