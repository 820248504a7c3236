package mapi

import (
	"math"
	"testing"
	"time"
)

func TestDecodeFiletimeZeroIsAbsent(t *testing.T) {
	_, ok, err := decodeFiletime(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Errorf("Expecting: false, Got: true")
	}
}

func TestDecodeFiletimeOverflow(t *testing.T) {
	_, _, err := decodeFiletime(math.MaxUint64)
	if err == nil {
		t.Fatalf("Expecting overflow error, got nil")
	}
}

func TestDecodeFiletimeKnownValue(t *testing.T) {
	// 2020-01-01T00:00:00Z in FILETIME ticks.
	want := time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)
	ticks := uint64(want.Unix())*10000000 + filetimeEpochDelta
	got, ok, err := decodeFiletime(ticks)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatalf("Expecting ok=true")
	}
	if !got.Equal(want) {
		t.Errorf("Expecting: %v, Got: %v", want, got)
	}
}

func TestDecodeFloatingTimeRounding(t *testing.T) {
	// 1.5 days past epoch: noon on 1899-12-31.
	got := decodeFloatingTime(1.5)
	want := time.Date(1899, time.December, 31, 12, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("Expecting: %v, Got: %v", want, got)
	}
}

func TestSplitNUL(t *testing.T) {
	parts := splitNUL([]byte("abc\x00def\x00"))
	if len(parts) != 2 || string(parts[0]) != "abc" || string(parts[1]) != "def" {
		t.Errorf("Expecting: [abc def], Got: %q", parts)
	}
}
