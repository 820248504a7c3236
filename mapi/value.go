package mapi

import (
	"bytes"
	"encoding/binary"
	"math"
	"time"
	"unicode/utf8"

	"github.com/corvidae/oxmsg/errs"
	"github.com/google/uuid"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ServerID is the 26-byte PtypServerId structure (MS-OXCDATA 2.11.1.5):
// a folder or message entry ID plus an instance number, used by search
// folders. This parser treats it as an opaque addressable blob; it does
// not interpret the entry ID's own internal structure.
type ServerID struct {
	FolderID  [8]byte
	MessageID [8]byte
	Instance  uint32
	Raw       []byte // full 26-byte structure, for callers that need it
}

// Value is a decoded property value. Type names which field is
// meaningful; every other field is left at its zero value. A flat struct
// with a discriminator reads more naturally in Go than a tagged union,
// and keeps decodeFixed and decodeVariable single flat switches.
type Value struct {
	Type Type

	Int16   int16
	Int32   int32
	Int64   int64
	Float32 float32
	Float64 float64
	Bool    bool
	Time    *time.Time // nil when the underlying FILETIME was all-zero
	Bytes   []byte
	Str     string
	GUID    uuid.UUID
	Server  ServerID

	MultiInt16   []int16
	MultiInt32   []int32
	MultiInt64   []int64
	MultiFloat32 []float32
	MultiFloat64 []float64
	MultiTime    []*time.Time
	MultiBytes   [][]byte
	MultiStr     []string
	MultiGUID    []uuid.UUID
}

const filetimeEpochDelta = 116444736000000000 // 1601-01-01 -> 1970-01-01, in 100ns ticks

// decodeFiletime converts a Windows FILETIME to a UTC time.Time. An
// all-zero FILETIME means "absent" (ok=false, no error): MS-OXCDATA
// leaves this implicit, but every known producer of PtypTime properties
// uses zero this way.
func decodeFiletime(ticks uint64) (time.Time, bool, error) {
	if ticks == 0 {
		return time.Time{}, false, nil
	}
	if ticks > math.MaxInt64 {
		return time.Time{}, false, errs.New(errs.TimeOverflow, "FILETIME exceeds representable range")
	}
	unixTicks := int64(ticks) - filetimeEpochDelta
	sec := unixTicks / 10000000
	nsec := (unixTicks % 10000000) * 100
	if nsec < 0 {
		sec--
		nsec += 1000000000
	}
	return time.Unix(sec, nsec).UTC(), true, nil
}

// decodeFloatingTime converts a PtypFloatingTime value (days since
// 1899-12-30, MS-OXCDATA 2.11.1.4) into a UTC time.Time with hour
// granularity: the fractional day is rounded to the nearest hour, which
// is lossy but matches how this value type is actually produced and
// consumed, and is preserved here as-is rather than reimplemented more
// precisely.
func decodeFloatingTime(days float64) time.Time {
	epoch := time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)
	whole := math.Floor(days)
	hours := math.Round((days - whole) * 24)
	return epoch.AddDate(0, 0, int(whole)).Add(time.Duration(hours) * time.Hour)
}

var utf16leDecoder = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()

// decodeUTF16LE strictly decodes a little-endian UTF-16 byte slice. Used
// for PtypString values; PtypString8 values are decoded as raw 8-bit
// bytes per MS-OXCDATA (this parser does not attempt code-page
// conversion, matching the reduced-scope "no full MAPI type system"
// mandate).
func decodeUTF16LE(b []byte) (string, error) {
	out, _, err := transform.Bytes(utf16leDecoder, b)
	if err != nil {
		return "", errs.New(errs.TruncatedInput, "invalid UTF-16LE string: "+err.Error())
	}
	if bytes.ContainsRune(out, utf8.RuneError) {
		return "", errs.New(errs.TruncatedInput, "invalid UTF-16LE string: unpaired surrogate or odd length")
	}
	return string(out), nil
}

// decodeFixed decodes a value whose type is not variable-length, from a
// buffer that is at least t.FixedSize() bytes (callers pass the 8-byte
// inline slot, which is wide enough for every fixed type this parser
// supports other than GUID and ServerID, which are only ever variable in
// practice and therefore routed through decodeVariable instead).
func decodeFixed(t Type, b []byte) (Value, error) {
	v := Value{Type: t}
	switch t {
	case TypeInteger16:
		v.Int16 = int16(binary.LittleEndian.Uint16(b))
	case TypeBoolean:
		v.Bool = binary.LittleEndian.Uint16(b) != 0
	case TypeInteger32:
		v.Int32 = int32(binary.LittleEndian.Uint32(b))
	case TypeFloating32:
		v.Float32 = math.Float32frombits(binary.LittleEndian.Uint32(b))
	case TypeErrorCode:
		v.Int32 = int32(binary.LittleEndian.Uint32(b))
	case TypeFloating64, TypeCurrency:
		v.Float64 = math.Float64frombits(binary.LittleEndian.Uint64(b))
	case TypeInteger64:
		v.Int64 = int64(binary.LittleEndian.Uint64(b))
	case TypeFloatingTime:
		days := math.Float64frombits(binary.LittleEndian.Uint64(b))
		tm := decodeFloatingTime(days)
		v.Time = &tm
	case TypeTime:
		ticks := binary.LittleEndian.Uint64(b)
		tm, ok, err := decodeFiletime(ticks)
		if err != nil {
			return Value{}, err
		}
		if ok {
			v.Time = &tm
		}
	default:
		return Value{}, errs.Newf(errs.ValueSizeMismatch, "type %s is not a fixed-size scalar", t)
	}
	return v, nil
}

// decodeVariable decodes a single value of a variable-length type from
// its fully materialized sibling-stream bytes.
func decodeVariable(t Type, b []byte) (Value, error) {
	v := Value{Type: t}
	switch t {
	case TypeString8:
		v.Str = string(b)
	case TypeString:
		s, err := decodeUTF16LE(b)
		if err != nil {
			return Value{}, err
		}
		v.Str = s
	case TypeBinary:
		v.Bytes = b
	case TypeGUID:
		if len(b) != 16 {
			return Value{}, errs.Newf(errs.ValueSizeMismatch, "GUID value").WithSize(16, len(b))
		}
		g, err := uuid.FromBytesLE(b)
		if err != nil {
			return Value{}, errs.New(errs.ValueSizeMismatch, "invalid GUID bytes: "+err.Error())
		}
		v.GUID = g
	case TypeServerID:
		if len(b) < 26 {
			return Value{}, errs.Newf(errs.ValueSizeMismatch, "ServerID value").WithSize(26, len(b))
		}
		var sid ServerID
		copy(sid.FolderID[:], b[0:8])
		copy(sid.MessageID[:], b[8:16])
		sid.Instance = binary.LittleEndian.Uint32(b[16:20])
		sid.Raw = append([]byte(nil), b...)
		v.Server = sid
	case TypeObject, TypeRestriction, TypeRuleAction:
		// Full decoding of embedded objects, restrictions, and rule
		// actions is out of scope; keep the raw bytes as an opaque
		// placeholder, matching the reduced MAPI type system mandate.
		v.Bytes = b
	default:
		return Value{}, errs.Newf(errs.ValueSizeMismatch, "type %s is not a recognised variable type", t)
	}
	return v, nil
}

// decodeMultiFixed decodes a concatenated run of fixed-size elements: the
// single sibling stream of a multi-valued fixed-size property, which
// holds every element back to back.
func decodeMultiFixed(base Type, b []byte) (Value, error) {
	size := base.FixedSize()
	if size == 0 || len(b)%size != 0 {
		return Value{}, errs.Newf(errs.ValueSizeMismatch, "multi-value %s element size mismatch", base).WithSize(size, len(b))
	}
	v := Value{Type: multiFlag | base}
	for off := 0; off < len(b); off += size {
		elem, err := decodeFixed(base, b[off:off+size])
		if err != nil {
			return Value{}, err
		}
		switch base {
		case TypeInteger16:
			v.MultiInt16 = append(v.MultiInt16, elem.Int16)
		case TypeInteger32:
			v.MultiInt32 = append(v.MultiInt32, elem.Int32)
		case TypeFloating32:
			v.MultiFloat32 = append(v.MultiFloat32, elem.Float32)
		case TypeFloating64, TypeCurrency:
			v.MultiFloat64 = append(v.MultiFloat64, elem.Float64)
		case TypeInteger64:
			v.MultiInt64 = append(v.MultiInt64, elem.Int64)
		case TypeFloatingTime, TypeTime:
			v.MultiTime = append(v.MultiTime, elem.Time)
		}
	}
	return v, nil
}

// decodeMultiVariable decodes the concatenation of every element stream
// for a multi-valued variable-length property. Binary elements carry
// their own 2-byte little-endian length prefix within the concatenation
// (MS-OXCDATA's PtypMultipleBinary COUNT/Binary encoding); string
// elements are instead NUL-delimited. GUIDs carry no per-element length,
// so a GUID run whose length is not a multiple of 16 is rejected.
func decodeMultiVariable(base Type, concatenated []byte) (Value, error) {
	v := Value{Type: multiFlag | base}
	switch base {
	case TypeString8:
		// Producers null-terminate each element even when concatenated.
		for _, part := range splitNUL(concatenated) {
			v.MultiStr = append(v.MultiStr, string(part))
		}
	case TypeString:
		for _, part := range splitUTF16NUL(concatenated) {
			s, err := decodeUTF16LE(part)
			if err != nil {
				return Value{}, err
			}
			v.MultiStr = append(v.MultiStr, s)
		}
	case TypeBinary:
		for off := 0; off+2 <= len(concatenated); {
			elemLen := int(binary.LittleEndian.Uint16(concatenated[off : off+2]))
			off += 2
			if off+elemLen > len(concatenated) {
				break
			}
			v.MultiBytes = append(v.MultiBytes, concatenated[off:off+elemLen])
			off += elemLen
		}
	case TypeGUID:
		if len(concatenated)%16 != 0 {
			return Value{}, errs.Newf(errs.ValueSizeMismatch, "multi-GUID concatenation").WithSize(16, len(concatenated)%16)
		}
		for off := 0; off < len(concatenated); off += 16 {
			g, err := uuid.FromBytesLE(concatenated[off : off+16])
			if err != nil {
				return Value{}, errs.New(errs.ValueSizeMismatch, "invalid GUID bytes: "+err.Error())
			}
			v.MultiGUID = append(v.MultiGUID, g)
		}
	default:
		return Value{}, errs.Newf(errs.ValueSizeMismatch, "unsupported multi-variable type %s", base)
	}
	return v, nil
}

func splitNUL(b []byte) [][]byte {
	var out [][]byte
	start := 0
	for i, c := range b {
		if c == 0 {
			out = append(out, b[start:i])
			start = i + 1
		}
	}
	if start < len(b) {
		out = append(out, b[start:])
	}
	return out
}

func splitUTF16NUL(b []byte) [][]byte {
	var out [][]byte
	start := 0
	for i := 0; i+1 < len(b); i += 2 {
		if b[i] == 0 && b[i+1] == 0 {
			out = append(out, b[start:i])
			start = i + 2
		}
	}
	if start < len(b) {
		out = append(out, b[start:])
	}
	return out
}
