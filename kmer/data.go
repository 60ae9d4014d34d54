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

package kmer

import "errors"

// ErrBadEncoding means an unknown sequence encoding tag reached an operation.
var ErrBadEncoding = errors.New("kmer: unknown sequence encoding")

// Encoding tags how nucleotides are laid out in a buffer.
type Encoding uint8

const (
	// ASCII is one byte per nucleotide: 'A', 'C', 'G', 'T' (case-insensitive),
	// anything with the 4th bit set (e.g. 'N') is invalid.
	ASCII Encoding = iota
	// Integer is one byte per nucleotide, already a 2-bit code in 0..3.
	Integer
	// Binary packs four nucleotides per byte, most significant pair first.
	Binary
)

// Data is a collaborator-owned nucleotide buffer.
// Len is the number of nucleotides, which for Binary is four per byte.
type Data interface {
	Bytes() []byte
	Len() int
	Encoding() Encoding
}

// Buffer is a plain Data implementation over a byte slice.
type Buffer struct {
	Seq  []byte
	Enc  Encoding
	Size int // nucleotides
}

// NewASCII wraps an ASCII sequence.
func NewASCII(seq []byte) *Buffer {
	return &Buffer{Seq: seq, Enc: ASCII, Size: len(seq)}
}

// NewInteger wraps a sequence of 2-bit codes, one per byte.
func NewInteger(seq []byte) *Buffer {
	return &Buffer{Seq: seq, Enc: Integer, Size: len(seq)}
}

// NewBinary wraps a 2-bit-packed sequence of n nucleotides.
func NewBinary(seq []byte, n int) *Buffer {
	return &Buffer{Seq: seq, Enc: Binary, Size: n}
}

func (b *Buffer) Bytes() []byte      { return b.Seq }
func (b *Buffer) Len() int           { return b.Size }
func (b *Buffer) Encoding() Encoding { return b.Enc }

// decodeFn reads the nucleotide at position idx of a buffer,
// returning its 2-bit code and an invalid flag.
type decodeFn func(buf []byte, idx int) (byte, bool)

// The 4th bit of an ASCII byte tells invalid nucleotides apart:
// it is set for 'N' but not for 'A', 'C', 'G' and 'T'.
func decodeASCII(buf []byte, idx int) (byte, bool) {
	b := buf[idx]
	return b >> 1 & 3, b>>3&1 == 1
}

func decodeInteger(buf []byte, idx int) (byte, bool) {
	return buf[idx] & 3, false
}

func decodeBinary(buf []byte, idx int) (byte, bool) {
	return buf[idx>>2] >> uint((3-(idx&3))*2) & 3, false
}

func decoderFor(enc Encoding) (decodeFn, error) {
	switch enc {
	case ASCII:
		return decodeASCII, nil
	case Integer:
		return decodeInteger, nil
	case Binary:
		return decodeBinary, nil
	}
	return nil, ErrBadEncoding
}

// bin2base maps 2-bit codes to bases: A=0, C=1, T=2, G=3.
// The complement of a code is code^2 (A<->T, C<->G), which is what
// makes reverse complements updatable in O(1) per slide.
var bin2base = [4]byte{'A', 'C', 'T', 'G'}
