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

// Package kmer interprets DNA sequences as streams of fixed-length words
// encoded into compact integers: direct, canonical and minimizer-augmented
// k-mer models, plus the super-k-mer codec grouping consecutive canonical
// k-mers that share a minimizer.
//
// Models are immutable after construction and safe for concurrent readers;
// every iteration carries its own k-mer state.
package kmer

import (
	"errors"

	"github.com/ujjwalsh/gatb-core/largeint"
)

// ErrBadKmerSize means a k-mer size below 1.
var ErrBadKmerSize = errors.New("kmer: k-mer size must be >= 1")

// ErrPrecisionTooLow means the requested k-mer size does not fit
// the largeint width.
var ErrPrecisionTooLow = errors.New("kmer: k-mer size exceeds the largeint precision")

// modelBase carries the state shared by all models: the k-mer size, its
// bit mask, and the per-nucleotide table that updates a reverse complement
// in one shift.
type modelBase struct {
	k            int
	kmask        largeint.Int // (1 << 2k) - 1
	revcompTable [4]largeint.Int
}

func newModelBase(k int) (modelBase, error) {
	if k < 1 {
		return modelBase{}, ErrBadKmerSize
	}
	if k >= largeint.MaxSpan {
		return modelBase{}, ErrPrecisionTooLow
	}

	m := modelBase{k: k, kmask: largeint.Ones(uint(2 * k))}

	shift := uint(2 * (k - 1))
	for nt := 0; nt < 4; nt++ {
		m.revcompTable[nt] = largeint.FromUint64(uint64(nt ^ 2)).Shl(shift)
	}
	return m, nil
}

// KmerSize returns k.
func (m *modelBase) KmerSize() int { return m.k }

// Span returns the maximal k-mer span of the underlying integer type.
func (m *modelBase) Span() int { return largeint.MaxSpan }

// KmerMax returns the maximal k-mer value, (1<<2k)-1.
func (m *modelBase) KmerMax() largeint.Int { return m.kmask }

// MemorySize returns the memory size of one k-mer value in bytes.
func (m *modelBase) MemorySize() int { return largeint.Words * 8 }

// Reverse returns the reverse complement of x.
func (m *modelBase) Reverse(x largeint.Int) largeint.Int { return x.RevComp(m.k) }

// ToString returns the ASCII representation of x.
func (m *modelBase) ToString(x largeint.Int) string {
	buf := make([]byte, m.k)
	for i := m.k - 1; i >= 0; i-- {
		buf[i] = bin2base[x.Uint64()&3]
		x = x.Shr(2)
	}
	return string(buf)
}

// polynom evaluates the first k-mer of seq as a base-4 polynomial,
// most significant digit first. It returns the accumulated value and the
// index of the last invalid nucleotide, -1 when all decoded cleanly.
func (m *modelBase) polynom(seq []byte, dec decodeFn) (largeint.Int, int) {
	var acc largeint.Int
	badIndex := -1
	for i := 0; i < m.k; i++ {
		c, invalid := dec(seq, i)
		acc = acc.Shl(2).Or64(uint64(c))
		if invalid {
			badIndex = i
		}
	}
	return acc, badIndex
}

// IterateNeighbors enumerates the canonical neighbors of a k-mer value:
// up to 4 outgoing then up to 4 incoming, in ascending nucleotide order.
// Each bit of mask enables one neighbor, outgoing in the low nibble,
// incoming in the high nibble; pass 0xFF for all 8.
func (m *modelBase) IterateNeighbors(source largeint.Int, fn func(largeint.Int), mask uint8) {
	m.IterateOutgoingNeighbors(source, fn, mask&15)
	m.IterateIncomingNeighbors(source, fn, mask>>4&15)
}

// IterateOutgoingNeighbors enumerates the canonical successors of a k-mer
// value, one per nucleotide selected by the low 4 bits of mask.
func (m *modelBase) IterateOutgoingNeighbors(source largeint.Int, fn func(largeint.Int), mask uint8) {
	for nt := uint64(0); nt < 4; nt++ {
		if mask&(1<<nt) == 0 {
			continue
		}
		next := source.Shl(2).Or64(nt).And(m.kmask)
		fn(largeint.Min(next, next.RevComp(m.k)))
	}
}

// IterateIncomingNeighbors enumerates the canonical predecessors of a k-mer
// value. A predecessor of source is a successor of its reverse complement
// read with the complemented nucleotide, hence nt^2.
func (m *modelBase) IterateIncomingNeighbors(source largeint.Int, fn func(largeint.Int), mask uint8) {
	rev := source.RevComp(m.k)
	for nt := uint64(0); nt < 4; nt++ {
		if mask&(1<<nt) == 0 {
			continue
		}
		next := rev.Shl(2).Or64(nt^2).And(m.kmask)
		fn(largeint.Min(next, next.RevComp(m.k)))
	}
}
