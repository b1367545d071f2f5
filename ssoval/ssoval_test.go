package ssoval

import "testing"

func TestFromConstantShortVsLong(t *testing.T) {
	short := FromConstant("hello")
	if !short.IsShort() {
		t.Error("expected a 5-byte string to be stored inline")
	}
	if got := short.String(); got != "hello" {
		t.Errorf("got %q, want %q", got, "hello")
	}

	long := FromConstant("this string is definitely longer than fifteen bytes")
	if long.IsShort() {
		t.Error("expected a long string to not be stored inline")
	}
	if got := long.String(); got != "this string is definitely longer than fifteen bytes" {
		t.Errorf("got %q", got)
	}
}

func TestBoundaryAtMaxShortLen(t *testing.T) {
	exact := FromConstant("123456789012345") // 15 bytes
	if len(exact.String()) != MaxShortLen {
		t.Fatalf("test fixture should be exactly %d bytes", MaxShortLen)
	}
	if !exact.IsShort() {
		t.Error("expected a string of exactly MaxShortLen to be stored inline")
	}

	over := FromConstant("1234567890123456") // 16 bytes
	if over.IsShort() {
		t.Error("expected a string one byte over MaxShortLen to not be inline")
	}
}

func TestFromChar(t *testing.T) {
	v := FromChar('x')
	if !v.IsShort() || v.Len() != 1 || v.String() != "x" {
		t.Errorf("got IsShort=%v Len=%d String=%q", v.IsShort(), v.Len(), v.String())
	}
}

func TestAsDuplicateCopiesLongBacking(t *testing.T) {
	buf := []byte("this string is definitely longer than fifteen bytes")
	s := string(buf)
	v := AsDuplicate(s)
	buf[0] = 'X' // mutate the original backing array
	if v.String()[0] == 'X' {
		t.Error("expected AsDuplicate to hold an independent copy")
	}
}

func TestCloneIndependence(t *testing.T) {
	v := AsDuplicate("this string is definitely longer than fifteen bytes")
	c := v.Clone()
	if c.String() != v.String() {
		t.Errorf("clone contents differ: %q vs %q", c.String(), v.String())
	}
}

func TestCompareOrdering(t *testing.T) {
	a := FromConstant("apple")
	b := FromConstant("banana")
	if Compare(a, b) >= 0 {
		t.Error("expected apple < banana")
	}
	if Compare(b, a) <= 0 {
		t.Error("expected banana > apple")
	}
	if Compare(a, FromConstant("apple")) != 0 {
		t.Error("expected apple == apple")
	}
}

func TestLen(t *testing.T) {
	if FromConstant("abc").Len() != 3 {
		t.Error("expected short length 3")
	}
	long := "this string is definitely longer than fifteen bytes"
	if FromConstant(long).Len() != len(long) {
		t.Error("expected long length to match input")
	}
}
