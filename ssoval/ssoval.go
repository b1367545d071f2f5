// Package ssoval implements a small-string-optimised value type: strings
// at or below MaxShortLen are stored inline; longer strings are held by
// reference. It is a self-contained value usable as a key or value in any
// of the ordered containers; it is not wired into the tree algorithms
// themselves (spec §1 notes it only as a candidate key/value type).
//
// Grounded on original_source/src/ssostr.{hpp,cpp} (ds::SSOStr): the C++
// type unions an inline Short_Str buffer with an Allocated_Str
// (pointer+length); MaxShortLen there is sizeof(Allocated_Str)-1, i.e. one
// byte narrower than the pointer+length pair it's sized to replace. Value
// keeps the same two-representation split (inline array vs. a Go string
// reference) without needing an explicit allocator, since ordinary Go
// strings are already reference-counted by the garbage collector.
package ssoval

import "strings"

// MaxShortLen is the longest string stored inline.
const MaxShortLen = 15

// Value is a small-string-optimised string value.
type Value struct {
	short    [MaxShortLen]byte
	shortLen uint8
	isShort  bool
	long     string
}

// FromConstant builds a Value from s; analogous to SSOStr::from_constant,
// for strings whose backing storage is known to outlive the Value (e.g.
// literals). A string longer than MaxShortLen is aliased without copying;
// a shorter one is copied inline.
func FromConstant(s string) Value {
	if len(s) <= MaxShortLen {
		v := Value{isShort: true, shortLen: uint8(len(s))}
		copy(v.short[:], s)
		return v
	}
	return Value{long: s}
}

// FromChar builds a one-byte Value.
func FromChar(c byte) Value {
	v := Value{isShort: true, shortLen: 1}
	v.short[0] = c
	return v
}

// AsDuplicate builds a Value holding its own copy of s, rather than
// aliasing the caller's backing array; analogous to SSOStr::as_duplicate.
func AsDuplicate(s string) Value {
	if len(s) <= MaxShortLen {
		return FromConstant(s)
	}
	return Value{long: strings.Clone(s)}
}

// IsShort reports whether the value is stored inline.
func (v Value) IsShort() bool { return v.isShort }

// Len returns the string's length in bytes.
func (v Value) Len() int {
	if v.isShort {
		return int(v.shortLen)
	}
	return len(v.long)
}

// String returns the value's contents.
func (v Value) String() string {
	if v.isShort {
		return string(v.short[:v.shortLen])
	}
	return v.long
}

// Clone returns a Value holding an independent copy of v's contents.
func (v Value) Clone() Value {
	if v.isShort {
		return v
	}
	return AsDuplicate(v.long)
}

// Compare is a total order over Value, suitable as a compare.Func[Value]
// for the ordered containers: lexicographic on the string contents.
func Compare(a, b Value) int {
	return strings.Compare(a.String(), b.String())
}
