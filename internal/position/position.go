// Package position computes index updates over a dense 0..n-1 sequence.
//
// Every mutation is expressed as at most one contiguous Range of existing
// positions that shift by +1 or -1, which maps directly onto a single
// set-valued UPDATE ... WHERE position BETWEEN lo AND hi.
package position

import "errors"

var (
	ErrNegativePosition = errors.New("position must not be negative")
	ErrOutOfRange       = errors.New("position out of range")
)

// Range is the inclusive interval [Lo, Hi] of positions shifted by Delta.
// A Range with Lo > Hi touches nothing.
type Range struct {
	Lo    int
	Hi    int
	Delta int
}

// Empty reports whether the range touches no position.
func (r Range) Empty() bool {
	return r.Delta == 0 || r.Lo > r.Hi
}

// Contains reports whether p is shifted by the range.
func (r Range) Contains(p int) bool {
	return !r.Empty() && p >= r.Lo && p <= r.Hi
}

// Apply returns the position p ends up at after the shift.
func (r Range) Apply(p int) int {
	if r.Contains(p) {
		return p + r.Delta
	}
	return p
}

var none = Range{Lo: 0, Hi: -1}

// Clamp resolves a requested destination index against a sequence of
// length n: negative indices are rejected, indices past the end append.
func Clamp(n, q int) (int, error) {
	if q < 0 {
		return 0, ErrNegativePosition
	}
	if q > n {
		return n, nil
	}
	return q, nil
}

// Insert makes room for a new element at p in a sequence of length n.
func Insert(n, p int) (Range, error) {
	if p < 0 {
		return none, ErrNegativePosition
	}
	if p > n {
		return none, ErrOutOfRange
	}
	return Range{Lo: p, Hi: n - 1, Delta: 1}, nil
}

// Delete closes the gap left by removing the element at p.
func Delete(n, p int) (Range, error) {
	if p < 0 {
		return none, ErrNegativePosition
	}
	if p >= n {
		return none, ErrOutOfRange
	}
	return Range{Lo: p + 1, Hi: n - 1, Delta: -1}, nil
}

// Move relocates the element at p to q within the same sequence. q is
// clamped to the last index. The returned Range excludes the moved
// element itself; the caller assigns it the returned destination.
func Move(n, p, q int) (Range, int, error) {
	if p < 0 || q < 0 {
		return none, 0, ErrNegativePosition
	}
	if p >= n {
		return none, 0, ErrOutOfRange
	}
	if q > n-1 {
		q = n - 1
	}
	switch {
	case p < q:
		return Range{Lo: p + 1, Hi: q, Delta: -1}, q, nil
	case p > q:
		return Range{Lo: q, Hi: p - 1, Delta: 1}, q, nil
	default:
		return none, q, nil
	}
}

// Transfer moves the element at p in a source sequence of length srcN to
// q in a destination sequence of length dstN. q is clamped to dstN.
func Transfer(srcN, p, dstN, q int) (src Range, dst Range, dest int, err error) {
	src, err = Delete(srcN, p)
	if err != nil {
		return none, none, 0, err
	}
	dest, err = Clamp(dstN, q)
	if err != nil {
		return none, none, 0, err
	}
	dst, err = Insert(dstN, dest)
	if err != nil {
		return none, none, 0, err
	}
	return src, dst, dest, nil
}
