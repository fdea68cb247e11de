// SPDX-License-Identifier: Apache-2.0

package containers

// StringView is a non-owning window over a contiguous run of characters
// borrowed from a String. It never allocates; the viewed bytes stay valid
// only until the source's next capacity-changing operation or Free. Unlike
// the characters inside a String, a view has no terminator guarantee.
type StringView struct {
	chars []byte
}

// ViewOfString wraps a Go string's bytes as a StringView. The copy is
// unavoidable since Go strings are immutable; prefer String.ViewOf to view
// owned characters without copying.
func ViewOfString(s string) StringView {
	return StringView{chars: []byte(s)}
}

// Len returns the number of viewed characters.
func (v StringView) Len() int {
	return len(v.chars)
}

// IsEmpty reports whether the view covers no characters.
func (v StringView) IsEmpty() bool {
	return len(v.chars) == 0
}

// At returns the character at index within the view, or ErrOutOfBounds.
func (v StringView) At(index int) (byte, error) {
	if index < 0 || index >= len(v.chars) {
		return 0, outOfBounds("StringView.At", index, len(v.chars))
	}
	return v.chars[index], nil
}

// Get returns the character at index without an error-path bounds check.
func (v StringView) Get(index int) byte {
	debugAssertIndex("StringView.Get", index, len(v.chars))
	return v.chars[index]
}

// String returns a copy of the viewed characters as a Go string.
func (v StringView) String() string {
	return string(v.chars)
}

// Bytes returns the viewed characters without copying. The slice shares the
// view's validity rules.
func (v StringView) Bytes() []byte {
	return v.chars
}

// Equal reports whether two views hold the same character sequence.
func (v StringView) Equal(other StringView) bool {
	if len(v.chars) != len(other.chars) {
		return false
	}
	for i := range v.chars {
		if v.chars[i] != other.chars[i] {
			return false
		}
	}
	return true
}

// EqualString compares against a Go string.
func (v StringView) EqualString(s string) bool {
	if len(v.chars) != len(s) {
		return false
	}
	return matchesAt(v.chars, s, 0)
}

// Sub returns a narrower view of [index, index+length) within this view.
// Like String.ViewOf, a range past the end is truncated, never padded.
func (v StringView) Sub(index, length int) (StringView, error) {
	if length < 0 {
		return StringView{}, invalidArgument("StringView.Sub", "negative length")
	}
	if index < 0 || index > len(v.chars) {
		return StringView{}, outOfBounds("StringView.Sub", index, len(v.chars))
	}
	if index+length > len(v.chars) {
		length = len(v.chars) - index
	}
	return StringView{chars: v.chars[index : index+length]}, nil
}
