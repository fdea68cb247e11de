// SPDX-License-Identifier: Apache-2.0

package containers

const (
	// shortBufSize matches the in-memory footprint of the long
	// representation (a slice header: pointer plus two sizes on 64-bit), so
	// the short form adds nothing to sizeof(String).
	shortBufSize = 24

	// ShortCapacity is the number of characters a String holds inline, one
	// less than the short buffer to leave room for the terminator.
	ShortCapacity = shortBufSize - 1
)

// String is a growable byte string with small-string optimization and an
// always-maintained null terminator: the byte at index Len is 0 at all
// times, and a capacity of N reserves N usable characters plus the
// terminator slot. Strings up to ShortCapacity characters live inside the
// String value; longer ones move to allocator-backed heap storage.
//
// Like Vector, a String is exclusively owned and not safe for concurrent
// mutation. Capacity-changing operations invalidate all StringViews obtained
// from it.
type String struct {
	short  [shortBufSize]byte
	long   []byte // nil in short mode; len == capacity+1 otherwise
	length int

	alloc Allocator
	grow  GrowthFunc
}

// StringOption configures a String at construction.
type StringOption func(*String)

// StringWithAllocator sets the allocator used for heap storage.
func StringWithAllocator(a Allocator) StringOption {
	return func(s *String) {
		if a != nil {
			s.alloc = a
		}
	}
}

// StringWithGrowth sets the growth policy. The default is DefaultGrowth.
func StringWithGrowth(g GrowthFunc) StringOption {
	return func(s *String) {
		if g != nil {
			s.grow = g
		}
	}
}

// NewString creates an empty string using inline storage. No allocation.
func NewString(opts ...StringOption) *String {
	s := &String{
		alloc: DefaultAllocator(),
		grow:  DefaultGrowth,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewStringWithCapacity creates an empty string with room for at least
// capacity characters.
func NewStringWithCapacity(capacity int, opts ...StringOption) (*String, error) {
	s := NewString(opts...)
	if err := s.Reserve(capacity); err != nil {
		return nil, err
	}
	return s, nil
}

// StringFrom copies src into a new String with a tight fit: the capacity
// equals the source length (unless that fits inline).
func StringFrom(src string, opts ...StringOption) (*String, error) {
	s := NewString(opts...)
	if err := s.Reserve(len(src)); err != nil {
		return nil, err
	}
	copy(s.buf(), src)
	s.length = len(src)
	s.terminate()
	return s, nil
}

// StringFromBytes copies src into a new String. A nil src yields an empty
// string.
func StringFromBytes(src []byte, opts ...StringOption) (*String, error) {
	s := NewString(opts...)
	if err := s.Reserve(len(src)); err != nil {
		return nil, err
	}
	copy(s.buf(), src)
	s.length = len(src)
	s.terminate()
	return s, nil
}

// StringFromView copies the viewed characters into a new owned String.
func StringFromView(view StringView, opts ...StringOption) (*String, error) {
	return StringFromBytes(view.chars, opts...)
}

func (s *String) isShort() bool {
	return s.long == nil
}

// buf returns the raw storage including the terminator slot.
func (s *String) buf() []byte {
	if s.long == nil {
		return s.short[:]
	}
	return s.long
}

func (s *String) terminate() {
	s.buf()[s.length] = 0
}

// Len returns the number of characters, excluding the terminator.
func (s *String) Len() int {
	return s.length
}

// Cap returns the number of usable characters storage can hold without
// reallocation. The terminator slot is reserved transparently on top.
func (s *String) Cap() int {
	if s.long == nil {
		return ShortCapacity
	}
	return len(s.long) - 1
}

// IsEmpty reports whether the string has no characters.
func (s *String) IsEmpty() bool {
	return s.length == 0
}

// IsFull reports whether the next append would have to grow storage.
func (s *String) IsFull() bool {
	return s.length == s.Cap()
}

// IsShort reports whether the characters are stored inside the String value.
func (s *String) IsShort() bool {
	return s.isShort()
}

// String returns a copy of the characters as a Go string.
func (s *String) String() string {
	return string(s.buf()[:s.length])
}

// Bytes returns the live characters as a non-owning slice, terminator
// excluded. Valid only until the next capacity-changing operation.
func (s *String) Bytes() []byte {
	return s.buf()[:s.length]
}

// At returns the character at index, or ErrOutOfBounds.
func (s *String) At(index int) (byte, error) {
	if index < 0 || index >= s.length {
		return 0, outOfBounds("String.At", index, s.length)
	}
	return s.buf()[index], nil
}

// Get returns the character at index without an error-path bounds check.
func (s *String) Get(index int) byte {
	debugAssertIndex("String.Get", index, s.length)
	return s.buf()[:s.length][index]
}

// Set overwrites the character at index without an error-path bounds check.
func (s *String) Set(index int, c byte) {
	debugAssertIndex("String.Set", index, s.length)
	s.buf()[:s.length][index] = c
}

// Front returns the first character, if any.
func (s *String) Front() (byte, bool) {
	if s.length == 0 {
		return 0, false
	}
	return s.buf()[0], true
}

// Back returns the last character, if any.
func (s *String) Back() (byte, bool) {
	if s.length == 0 {
		return 0, false
	}
	return s.buf()[s.length-1], true
}

// ensureCapacity guarantees room for required characters plus the
// terminator. The first heap allocation and all growth go through the
// growth policy.
func (s *String) ensureCapacity(required int, op string) error {
	if required <= s.Cap() {
		return nil
	}
	return s.setCapacity(nextCapacity(s.grow, s.Cap(), required), op)
}

// setCapacity moves storage to a heap buffer holding exactly newCap
// characters plus the terminator. Callers guarantee newCap >= length.
func (s *String) setCapacity(newCap int, op string) error {
	if s.isShort() {
		next, err := allocSlice[byte](s.alloc, newCap+1, op)
		if err != nil {
			return err
		}
		copy(next, s.short[:s.length])
		s.short = [shortBufSize]byte{}
		s.long = next
		return nil
	}
	next, err := reallocSlice(s.alloc, s.long, newCap+1, op)
	if err != nil {
		return err
	}
	s.long = next
	return nil
}

// PushBack appends a character. Amortized O(1).
func (s *String) PushBack(c byte) error {
	if err := s.ensureCapacity(s.length+1, "String.PushBack"); err != nil {
		return err
	}
	s.buf()[s.length] = c
	s.length++
	s.terminate()
	return nil
}

// PopBack removes and returns the last character.
func (s *String) PopBack() (byte, bool) {
	if s.length == 0 {
		return 0, false
	}
	buf := s.buf()
	c := buf[s.length-1]
	s.length--
	s.terminate()
	return c, true
}

// PushFront prepends a character, shifting the rest right. O(n).
func (s *String) PushFront(c byte) error {
	if err := s.ensureCapacity(s.length+1, "String.PushFront"); err != nil {
		return err
	}
	buf := s.buf()
	copy(buf[1:s.length+1], buf[:s.length])
	buf[0] = c
	s.length++
	s.terminate()
	return nil
}

// PopFront removes and returns the first character, shifting the rest left.
// O(n).
func (s *String) PopFront() (byte, bool) {
	if s.length == 0 {
		return 0, false
	}
	buf := s.buf()
	c := buf[0]
	copy(buf[:s.length-1], buf[1:s.length])
	s.length--
	s.terminate()
	return c, true
}

// Append appends str. Amortized O(len(str)).
func (s *String) Append(str string) error {
	if len(str) == 0 {
		return nil
	}
	if err := s.ensureCapacity(s.length+len(str), "String.Append"); err != nil {
		return err
	}
	copy(s.buf()[s.length:], str)
	s.length += len(str)
	s.terminate()
	return nil
}

// AppendString appends another String's characters.
func (s *String) AppendString(other *String) error {
	return s.Append(other.String())
}

// Prepend inserts str at the front.
func (s *String) Prepend(str string) error {
	return s.Insert(str, 0)
}

// Insert places str at index, shifting subsequent characters right. index
// may equal Len, which appends.
func (s *String) Insert(str string, index int) error {
	if index < 0 || index > s.length {
		return outOfBounds("String.Insert", index, s.length)
	}
	if len(str) == 0 {
		return nil
	}
	if err := s.ensureCapacity(s.length+len(str), "String.Insert"); err != nil {
		return err
	}
	buf := s.buf()
	if index != s.length {
		copy(buf[index+len(str):s.length+len(str)], buf[index:s.length])
	}
	copy(buf[index:], str)
	s.length += len(str)
	s.terminate()
	return nil
}

// Erase removes the character at index, shifting the rest left.
func (s *String) Erase(index int) error {
	if index < 0 || index >= s.length {
		return outOfBounds("String.Erase", index, s.length)
	}
	buf := s.buf()
	copy(buf[index:s.length-1], buf[index+1:s.length])
	s.length--
	s.terminate()
	return nil
}

// EraseN removes count characters starting at index. Like Vector.EraseN, a
// range reaching past the end is clamped and removes through Len.
func (s *String) EraseN(index, count int) error {
	if count < 0 {
		return invalidArgument("String.EraseN", "negative count")
	}
	if index < 0 || index > s.length {
		return outOfBoundsRange("String.EraseN", index, count, s.length)
	}
	if index+count > s.length {
		count = s.length - index
	}
	if count == 0 {
		return nil
	}
	buf := s.buf()
	copy(buf[index:], buf[index+count:s.length])
	s.length -= count
	s.terminate()
	return nil
}

// Replace overwrites characters starting at index with str, extending the
// string when str runs past the current end.
func (s *String) Replace(str string, index int) error {
	if index < 0 || index > s.length {
		return outOfBounds("String.Replace", index, s.length)
	}
	end := index + len(str)
	if end > s.length {
		if err := s.ensureCapacity(end, "String.Replace"); err != nil {
			return err
		}
	}
	copy(s.buf()[index:], str)
	if end > s.length {
		s.length = end
	}
	s.terminate()
	return nil
}

// Resize sets the length to newLength. New characters are null bytes;
// shrinking truncates. Capacity never shrinks.
func (s *String) Resize(newLength int) error {
	if newLength < 0 {
		return invalidArgument("String.Resize", "negative length")
	}
	if newLength > s.length {
		if err := s.ensureCapacity(newLength, "String.Resize"); err != nil {
			return err
		}
		buf := s.buf()
		for i := s.length; i < newLength; i++ {
			buf[i] = 0
		}
	}
	s.length = newLength
	s.terminate()
	return nil
}

// Reserve grows capacity to hold at least newCapacity characters plus the
// terminator. An explicit reservation is honored exactly; requesting less
// than the current capacity is a no-op.
func (s *String) Reserve(newCapacity int) error {
	if newCapacity <= s.Cap() {
		return nil
	}
	return s.setCapacity(newCapacity, "String.Reserve")
}

// ShrinkToFit releases unused capacity, moving back to the short
// representation when the characters fit inline. Idempotent.
func (s *String) ShrinkToFit() error {
	if s.isShort() {
		return nil
	}
	if s.length <= ShortCapacity {
		heap := s.long
		s.long = nil
		copy(s.short[:], heap[:s.length])
		s.short[s.length] = 0
		freeSlice(s.alloc, heap)
		return nil
	}
	if s.length+1 == len(s.long) {
		return nil
	}
	next, err := reallocSlice(s.alloc, s.long, s.length+1, "String.ShrinkToFit")
	if err != nil {
		return err
	}
	s.long = next
	s.terminate()
	return nil
}

// Clear removes all characters. Capacity is unchanged.
func (s *String) Clear() {
	buf := s.buf()
	for i := 0; i < s.length; i++ {
		buf[i] = 0
	}
	s.length = 0
}

// Clone returns an independent copy with the capacity tightened to the
// length, sharing the allocator and growth policy but not the storage.
func (s *String) Clone() (*String, error) {
	out := &String{alloc: s.alloc, grow: s.grow}
	if err := out.Reserve(s.length); err != nil {
		return nil, err
	}
	copy(out.buf(), s.buf()[:s.length])
	out.length = s.length
	out.terminate()
	return out, nil
}

// Free returns heap storage to the allocator and resets the string to its
// empty short state. The string may be reused.
func (s *String) Free() {
	if !s.isShort() {
		freeSlice(s.alloc, s.long)
		s.long = nil
	}
	s.short = [shortBufSize]byte{}
	s.length = 0
}

// First returns a new String of exactly n characters: the first
// min(n, Len) characters of s followed by null bytes. The null padding (the
// result is never shorter than requested) mirrors Substring.
func (s *String) First(n int) (*String, error) {
	if n < 0 {
		return nil, invalidArgument("String.First", "negative length")
	}
	out, err := NewStringWithCapacity(n, StringWithAllocator(s.alloc), StringWithGrowth(s.grow))
	if err != nil {
		return nil, err
	}
	copied := n
	if copied > s.length {
		copied = s.length
	}
	copy(out.buf(), s.buf()[:copied])
	out.length = n
	out.terminate()
	return out, nil
}

// Last returns a new String of exactly n characters: the last min(n, Len)
// characters of s followed by null bytes.
func (s *String) Last(n int) (*String, error) {
	if n < 0 {
		return nil, invalidArgument("String.Last", "negative length")
	}
	out, err := NewStringWithCapacity(n, StringWithAllocator(s.alloc), StringWithGrowth(s.grow))
	if err != nil {
		return nil, err
	}
	copied := n
	start := 0
	if copied > s.length {
		copied = s.length
	} else {
		start = s.length - n
	}
	copy(out.buf(), s.buf()[start:start+copied])
	out.length = n
	out.terminate()
	return out, nil
}

// Substring returns a new owned String for [index, index+length). When the
// range reaches past the end the result is null-padded rather than
// truncated: it always holds exactly length characters. Contrast ViewOf,
// which truncates and never pads.
func (s *String) Substring(index, length int) (*String, error) {
	if length < 0 {
		return nil, invalidArgument("String.Substring", "negative length")
	}
	if index < 0 || index > s.length {
		return nil, outOfBounds("String.Substring", index, s.length)
	}
	out, err := NewStringWithCapacity(length, StringWithAllocator(s.alloc), StringWithGrowth(s.grow))
	if err != nil {
		return nil, err
	}
	copied := length
	if index+copied > s.length {
		copied = s.length - index
	}
	copy(out.buf(), s.buf()[index:index+copied])
	out.length = length
	out.terminate()
	return out, nil
}

// ViewOf returns a non-owning view of [index, index+length). A range
// reaching past the end is truncated to the available characters; the view
// is never null-padded. Valid only until the next capacity-changing
// operation on s.
func (s *String) ViewOf(index, length int) (StringView, error) {
	if length < 0 {
		return StringView{}, invalidArgument("String.ViewOf", "negative length")
	}
	if index < 0 || index > s.length {
		return StringView{}, outOfBounds("String.ViewOf", index, s.length)
	}
	if index+length > s.length {
		length = s.length - index
	}
	return StringView{chars: s.buf()[index : index+length]}, nil
}

// View returns a non-owning view of all characters.
func (s *String) View() StringView {
	return StringView{chars: s.buf()[:s.length]}
}

// FindFirst returns the index of the first occurrence of pattern, scanning
// left to right. Misses when the pattern is empty or longer than s.
func (s *String) FindFirst(pattern string) (int, bool) {
	if len(pattern) == 0 || len(pattern) > s.length {
		return 0, false
	}
	buf := s.buf()[:s.length]
	for i := 0; i+len(pattern) <= s.length; i++ {
		if matchesAt(buf, pattern, i) {
			return i, true
		}
	}
	return 0, false
}

// FindLast returns the index of the last occurrence of pattern, scanning
// right to left.
func (s *String) FindLast(pattern string) (int, bool) {
	if len(pattern) == 0 || len(pattern) > s.length {
		return 0, false
	}
	buf := s.buf()[:s.length]
	for i := s.length - len(pattern); i >= 0; i-- {
		if matchesAt(buf, pattern, i) {
			return i, true
		}
	}
	return 0, false
}

// Contains reports whether pattern occurs in s.
func (s *String) Contains(pattern string) bool {
	_, ok := s.FindFirst(pattern)
	return ok
}

// StartsWith reports whether s begins with the other string's characters.
func (s *String) StartsWith(prefix *String) bool {
	return s.StartsWithString(prefix.String())
}

// StartsWithString reports whether s begins with prefix. An empty prefix
// trivially matches, unlike the Find operations.
func (s *String) StartsWithString(prefix string) bool {
	if len(prefix) > s.length {
		return false
	}
	return matchesAt(s.buf(), prefix, 0)
}

// StartsWithView reports whether s begins with the viewed characters.
func (s *String) StartsWithView(prefix StringView) bool {
	return s.StartsWithString(prefix.String())
}

// EndsWith reports whether s ends with the other string's characters.
func (s *String) EndsWith(suffix *String) bool {
	return s.EndsWithString(suffix.String())
}

// EndsWithString reports whether s ends with suffix.
func (s *String) EndsWithString(suffix string) bool {
	if len(suffix) > s.length {
		return false
	}
	return matchesAt(s.buf(), suffix, s.length-len(suffix))
}

// EndsWithView reports whether s ends with the viewed characters.
func (s *String) EndsWithView(suffix StringView) bool {
	return s.EndsWithString(suffix.String())
}

func matchesAt(buf []byte, pattern string, index int) bool {
	for j := 0; j < len(pattern); j++ {
		if buf[index+j] != pattern[j] {
			return false
		}
	}
	return true
}

// Equal reports whether both strings hold the same character sequence.
func (s *String) Equal(other *String) bool {
	return s.EqualString(other.String())
}

// EqualString compares against a Go string.
func (s *String) EqualString(str string) bool {
	if s.length != len(str) {
		return false
	}
	return matchesAt(s.buf(), str, 0)
}

// EqualView compares against a StringView.
func (s *String) EqualView(view StringView) bool {
	return s.EqualString(view.String())
}

// Concat returns a new String holding left's characters followed by right's,
// sized exactly len(left)+len(right) and allocated through left's allocator.
func Concat(left, right *String) (*String, error) {
	return concatRaw(left, right.Bytes())
}

// ConcatString is Concat with a Go string on the right.
func ConcatString(left *String, right string) (*String, error) {
	return concatRaw(left, []byte(right))
}

// ConcatView is Concat with a StringView on the right.
func ConcatView(left *String, right StringView) (*String, error) {
	return concatRaw(left, right.chars)
}

func concatRaw(left *String, right []byte) (*String, error) {
	out := NewString(StringWithAllocator(left.alloc), StringWithGrowth(left.grow))
	total := left.length + len(right)
	if err := out.Reserve(total); err != nil {
		return nil, err
	}
	buf := out.buf()
	copy(buf, left.buf()[:left.length])
	copy(buf[left.length:], right)
	out.length = total
	out.terminate()
	return out, nil
}

// Fill sets every character up to the capacity to c, extending the length to
// the capacity.
func (s *String) Fill(c byte) {
	buf := s.buf()
	s.length = s.Cap()
	for i := 0; i < s.length; i++ {
		buf[i] = c
	}
	s.terminate()
}
