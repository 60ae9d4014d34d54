// Copyright © 2023-2024 Wei Shen <shenwei356@gmail.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

// Package largeint provides the fixed-width unsigned integer carrying
// 2-bit-encoded k-mers of up to MaxSpan-1 bases.
package largeint

// Words is the number of 64-bit limbs of an Int.
const Words = 4

// Bits is the total width of an Int.
const Bits = Words * 64

// MaxSpan is the number of 2-bit nucleotide slots of an Int.
// K-mer sizes up to MaxSpan-1 are supported.
const MaxSpan = Bits / 2

// Int is an unsigned integer of Words little-endian 64-bit limbs.
// It is a plain value type: comparable with ==, copied freely.
type Int [Words]uint64

// FromUint64 returns an Int holding v.
func FromUint64(v uint64) Int {
	var z Int
	z[0] = v
	return z
}

// Uint64 returns the low 64 bits, used e.g. for table indexing
// when the meaningful bits are known to fit one limb.
func (x Int) Uint64() uint64 {
	return x[0]
}

// Ones returns an Int with the low n bits set.
func Ones(n uint) Int {
	var z Int
	if n > Bits {
		n = Bits
	}
	w := n >> 6
	for i := uint(0); i < w; i++ {
		z[i] = ^uint64(0)
	}
	if b := n & 63; b > 0 {
		z[w] = 1<<b - 1
	}
	return z
}

// Shl returns x << n. Bits shifted beyond the top are dropped.
func (x Int) Shl(n uint) Int {
	var z Int
	if n >= Bits {
		return z
	}
	w := int(n >> 6)
	b := n & 63
	for i := Words - 1; i >= w; i-- {
		v := x[i-w] << b
		if b > 0 && i-w-1 >= 0 {
			v |= x[i-w-1] >> (64 - b)
		}
		z[i] = v
	}
	return z
}

// Shr returns x >> n.
func (x Int) Shr(n uint) Int {
	var z Int
	if n >= Bits {
		return z
	}
	w := int(n >> 6)
	b := n & 63
	for i := 0; i < Words-w; i++ {
		v := x[i+w] >> b
		if b > 0 && i+w+1 < Words {
			v |= x[i+w+1] << (64 - b)
		}
		z[i] = v
	}
	return z
}

// And returns x & y.
func (x Int) And(y Int) Int {
	var z Int
	for i := 0; i < Words; i++ {
		z[i] = x[i] & y[i]
	}
	return z
}

// Or returns x | y.
func (x Int) Or(y Int) Int {
	var z Int
	for i := 0; i < Words; i++ {
		z[i] = x[i] | y[i]
	}
	return z
}

// Or64 returns x | v, with v applied to the low limb.
func (x Int) Or64(v uint64) Int {
	x[0] |= v
	return x
}

// IsZero reports whether x is zero.
func (x Int) IsZero() bool {
	return x == Int{}
}

// Cmp compares x and y as unsigned magnitudes,
// returning -1, 0 or +1.
func (x Int) Cmp(y Int) int {
	for i := Words - 1; i >= 0; i-- {
		if x[i] < y[i] {
			return -1
		}
		if x[i] > y[i] {
			return 1
		}
	}
	return 0
}

// Less reports whether x < y.
func (x Int) Less(y Int) bool {
	return x.Cmp(y) < 0
}

// Min returns the smaller of x and y.
func Min(x, y Int) Int {
	if y.Less(x) {
		return y
	}
	return x
}
