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

import (
	"errors"
	"sync"

	"github.com/ujjwalsh/gatb-core/largeint"
)

// ErrSuperKmerTooLong means a run longer than the codec can pack.
// Recoverable: the caller splits the run.
var ErrSuperKmerTooLong = errors.New("kmer: super-k-mer run too long")

// DefaultMinimizer marks a SuperKmer holding no run yet.
const DefaultMinimizer = uint64(1000000000)

// MaxSuperKmerLen is the longest run the codec can pack: the payload word
// spends 8 top bits on the count and 2 bits per nucleotide after the seed,
// so 2(L-1)+8 <= largeint.Bits. The count byte also caps L at 255.
const MaxSuperKmerLen = (largeint.Bits-8)/2 + 1

// Bag collects the big integers produced by the codec.
type Bag interface {
	Insert(largeint.Int) error
}

// IntSlice is an in-memory Bag.
type IntSlice []largeint.Int

func (s *IntSlice) Insert(v largeint.Int) error {
	*s = append(*s, v)
	return nil
}

// SuperKmer is a run of consecutive canonical k-mers sharing one minimizer,
// as a non-owning [first,last] range into a caller-supplied buffer.
type SuperKmer struct {
	Minimizer uint64

	kmers       []KmerCanonical
	first, last int
	k           int
}

// NewSuperKmer returns a SuperKmer of k-mer size k over buf.
func NewSuperKmer(k int, buf []KmerCanonical) *SuperKmer {
	return &SuperKmer{Minimizer: DefaultMinimizer, kmers: buf, k: k}
}

// Reset points the SuperKmer at the run kmers[first..last] with the given
// minimizer value.
func (sk *SuperKmer) Reset(minimizer uint64, first, last int) {
	sk.Minimizer = minimizer
	sk.first = first
	sk.last = last
}

// Size returns the number of k-mers of the run.
func (sk *SuperKmer) Size() int { return sk.last - sk.first + 1 }

// At returns the i-th k-mer of the run.
func (sk *SuperKmer) At(i int) *KmerCanonical { return &sk.kmers[sk.first+i] }

// IsValid reports whether the SuperKmer holds an actual run.
func (sk *SuperKmer) IsValid() bool { return sk.Minimizer != DefaultMinimizer }

// Save packs the run into two big integers inserted into bag: a payload
// word carrying the count in its top 8 bits and the trailing nucleotide of
// each k-mer after the first, most recent at bit 0, then the full forward
// value of the seed k-mer.
func (sk *SuperKmer) Save(bag Bag) error {
	n := sk.Size()
	if n > 255 || n > MaxSuperKmerLen {
		return ErrSuperKmerTooLong
	}

	var compacted largeint.Int
	for i := 1; i < n; i++ {
		compacted = compacted.Shl(2).Or64(sk.At(i).Forward().Uint64() & 3)
	}
	compacted = compacted.Or(largeint.FromUint64(uint64(n)).Shl(largeint.Bits - 8))

	if err := bag.Insert(compacted); err != nil {
		return err
	}
	return bag.Insert(sk.At(0).Forward())
}

// Load unpacks a (payload, seed) pair produced by Save, reconstructing the
// forward and reverse-complement strands in lockstep. The SuperKmer's
// buffer is grown as needed and the range covers the decoded run.
func (sk *SuperKmer) Load(compacted, seed largeint.Int) error {
	n := int(compacted.Shr(largeint.Bits-8).Uint64() & 255)
	if n < 1 || n > MaxSuperKmerLen {
		return ErrSuperKmerTooLong
	}
	if cap(sk.kmers) < n {
		sk.kmers = make([]KmerCanonical, n)
	}
	sk.kmers = sk.kmers[:n]

	kmask := largeint.Ones(uint(2 * sk.k))
	shift := uint(2 * (sk.k - 1))

	fwd := seed
	rev := seed.RevComp(sk.k)
	for i := 0; i < n; i++ {
		sk.kmers[i].set(fwd, rev)
		sk.kmers[i].valid = true
		if i == n-1 {
			break
		}
		nt := compacted.Shr(uint(2*(n-2-i))).Uint64() & 3
		fwd = fwd.Shl(2).Or64(nt).And(kmask)
		rev = rev.Shr(2).Or(largeint.FromUint64(nt ^ 2).Shl(shift)).And(kmask)
	}
	sk.first, sk.last = 0, n-1
	return nil
}

var poolRuns = &sync.Pool{New: func() interface{} {
	kmers := make([]KmerCanonical, 0, MaxSuperKmerLen)
	return &kmers
}}

// IterateSuperKmers splits data into maximal runs of consecutive valid
// canonical k-mers sharing one minimizer and calls fn for each run. Runs
// break at invalid k-mers, at windows with no allowed minimizer, and at
// the codec length bound. The SuperKmer handed to fn points into a pooled
// buffer: it is only valid for the duration of the call.
// It returns false when data holds fewer than k nucleotides.
func (m *ModelMinimizer) IterateSuperKmers(data Data, fn func(*SuperKmer)) (bool, error) {
	buf := poolRuns.Get().(*[]KmerCanonical)
	defer func() {
		*buf = (*buf)[:0]
		poolRuns.Put(buf)
	}()

	sk := NewSuperKmer(m.k, nil)
	cur := DefaultMinimizer

	flush := func() {
		if len(*buf) == 0 {
			return
		}
		sk.kmers = *buf
		sk.Reset(cur, 0, len(*buf)-1)
		fn(sk)
		*buf = (*buf)[:0]
	}

	ok, err := m.Iterate(data, func(v *KmerMinimizer, _ int) {
		if !v.IsValid() || v.position < 0 {
			flush()
			cur = DefaultMinimizer
			return
		}
		mv := v.minimizer.Value().Uint64()
		if mv != cur || len(*buf) == MaxSuperKmerLen {
			flush()
			cur = mv
		}
		*buf = append(*buf, v.KmerCanonical)
	})
	flush()
	return ok, err
}
