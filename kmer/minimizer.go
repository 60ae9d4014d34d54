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

	"github.com/twotwotwo/sorts/sortutil"
	"github.com/ujjwalsh/gatb-core/largeint"
)

// ErrBadMinimizerSize means a minimizer size outside 2 <= m < k, m <= 12.
// The upper bound keeps the lookup table, 4^m entries, affordable.
var ErrBadMinimizerSize = errors.New("kmer: bad minimizer size (2 <= m < k, m <= 12)")

// Comparator orders candidate minimizers. Init supplies the initial best
// value given the maximal m-mer value; a window with no candidate below it
// is reported with a negative position.
type Comparator interface {
	Init(mmerMax largeint.Int) largeint.Int
	Less(a, b largeint.Int) bool
}

// LexComparator is the default comparator: plain lexicographic order with
// the maximal m-mer as sentinel.
type LexComparator struct{}

func (LexComparator) Init(mmerMax largeint.Int) largeint.Int { return mmerMax }
func (LexComparator) Less(a, b largeint.Int) bool            { return a.Less(b) }

// AllowedMinimizer reports whether an m-mer may serve as a minimizer.
// The shipped rule: the m-mer contains no two consecutive A's except
// possibly in its top two positions. Over-frequent seeds like poly-A
// would otherwise crowd out informative minimizers.
func AllowedMinimizer(mmer uint64, m int) bool {
	masklow := uint64(1)<<uint(2*(m-2)) - 1
	t := ^(mmer | mmer>>2)
	t = t >> 1 & t & masklow & 0x5555555555555555
	return t == 0
}

// ModelMinimizer augments a canonical k-mer model with the minimizer of
// the m-mer window inside each k-mer. Candidate m-mers go through a
// lookup table folding each bit pattern to its canonical form, or to the
// sentinel (the maximal m-mer) when the pattern is banned, so a banned
// m-mer can never beat a legitimate candidate.
type ModelMinimizer struct {
	modelBase

	kmerModel *ModelCanonical
	mmerModel *ModelCanonical
	cmp       Comparator

	nbMinimizers int
	mmerMask     uint64
	mmerLut      []uint64

	minimizerDefault KmerCanonical
}

// NewModelMinimizer returns a minimizer model for k-mers of size k and
// minimizers of size m, with an optional comparator (LexComparator by
// default).
func NewModelMinimizer(k, m int, cmp ...Comparator) (*ModelMinimizer, error) {
	base, err := newModelBase(k)
	if err != nil {
		return nil, err
	}
	if m >= k || m < 2 || m > 12 {
		return nil, ErrBadMinimizerSize
	}

	kmerModel, _ := NewModelCanonical(k)
	mmerModel, _ := NewModelCanonical(m)

	c := Comparator(LexComparator{})
	if len(cmp) > 0 {
		c = cmp[0]
	}

	mod := &ModelMinimizer{
		modelBase:    base,
		kmerModel:    kmerModel,
		mmerModel:    mmerModel,
		cmp:          c,
		nbMinimizers: k - m + 1,
		mmerMask:     uint64(1)<<uint(2*m) - 1,
	}
	mod.minimizerDefault.setBoth(c.Init(mmerModel.KmerMax()))

	n := uint64(1) << uint(2*m)
	lut := make([]uint64, n)
	for i := uint64(0); i < n; i++ {
		canon := i
		if r := largeint.FromUint64(i).RevComp(m).Uint64(); r < canon {
			canon = r
		}
		if !AllowedMinimizer(canon, m) {
			canon = mod.mmerMask
		}
		lut[i] = canon
	}
	mod.mmerLut = lut

	return mod, nil
}

// MmersModel returns the model managing the m-mers.
func (m *ModelMinimizer) MmersModel() *ModelCanonical { return m.mmerModel }

// computeMinimizer elects the minimizer of the whole window from scratch.
// The position counts the slides the minimizer has left in the window:
// the leftmost m-mer sits at 0 and ages out on the next slide, the
// rightmost at nbMinimizers-1. M-mers are peeled off the right end of a
// shifting copy, so with a strict comparison a tie keeps the most
// recently entered occurrence.
func (m *ModelMinimizer) computeMinimizer(v *KmerMinimizer) {
	v.minimizer = m.minimizerDefault
	v.position = -1
	v.changed = true

	loop := v.table[0]
	for idx := m.nbMinimizers - 1; idx >= 0; idx-- {
		cand := largeint.FromUint64(m.mmerLut[loop.Uint64()&m.mmerMask])
		if m.cmp.Less(cand, v.minimizer.Value()) {
			v.minimizer.setBoth(cand)
			v.position = int16(idx)
		}
		loop = loop.Shr(2)
	}
}

func (m *ModelMinimizer) first(seq []byte, dec decodeFn, v *KmerMinimizer) int {
	bad := m.kmerModel.first(seq, dec, &v.KmerCanonical)
	m.computeMinimizer(v)
	return bad
}

// next advances the k-mer and updates the minimizer incrementally.
// The window loses its leftmost m-mer and gains one on the right: the new
// m-mer is adopted when strictly better, and a full re-election happens
// only when the incumbent has aged out of the window.
func (m *ModelMinimizer) next(c byte, valid bool, v *KmerMinimizer) {
	m.kmerModel.next(c, valid, &v.KmerCanonical)

	newMmer := largeint.FromUint64(m.mmerLut[v.table[0].Uint64()&m.mmerMask])
	v.position--
	v.changed = false

	if m.cmp.Less(newMmer, v.minimizer.Value()) {
		v.minimizer.setBoth(newMmer)
		v.position = int16(m.nbMinimizers - 1)
		v.changed = true
	} else if v.position < 0 {
		m.computeMinimizer(v)
	}
}

// CodeSeed computes the first minimizer-augmented k-mer of data.
func (m *ModelMinimizer) CodeSeed(data Data) (KmerMinimizer, error) {
	dec, err := decoderFor(data.Encoding())
	if err != nil {
		return KmerMinimizer{}, err
	}
	var v KmerMinimizer
	m.first(data.Bytes(), dec, &v)
	return v, nil
}

// CodeSeedRight slides prev one nucleotide to the right.
// The validity of the result reflects the new nucleotide only.
func (m *ModelMinimizer) CodeSeedRight(prev KmerMinimizer, nt byte, enc Encoding) (KmerMinimizer, error) {
	dec, err := decoderFor(enc)
	if err != nil {
		return KmerMinimizer{}, err
	}
	c, invalid := dec([]byte{nt}, 0)
	v := prev
	m.next(c, !invalid, &v)
	return v, nil
}

// Iterate calls fn for each successive minimizer-augmented k-mer of data.
// The pointed-to value is reused: it is only valid for the duration of the
// call. It returns false when data holds fewer than k nucleotides.
func (m *ModelMinimizer) Iterate(data Data, fn func(*KmerMinimizer, int)) (bool, error) {
	dec, err := decoderFor(data.Encoding())
	if err != nil {
		return false, err
	}
	length := data.Len()
	if length < m.k {
		return false, nil
	}

	seq := data.Bytes()
	var v KmerMinimizer
	indexBadChar := m.first(seq, dec, &v)
	idx := 0
	fn(&v, idx)

	for i := m.k; i < length; i++ {
		c, invalid := dec(seq, i)
		if invalid {
			indexBadChar = m.k - 1
		} else {
			indexBadChar--
		}
		m.next(c, indexBadChar < 0, &v)
		idx++
		fn(&v, idx)
	}
	return true, nil
}

// Build materializes Iterate into buf, reusing its capacity.
func (m *ModelMinimizer) Build(data Data, buf *[]KmerMinimizer) (bool, error) {
	*buf = (*buf)[:0]
	return m.Iterate(data, func(v *KmerMinimizer, _ int) {
		*buf = append(*buf, *v)
	})
}

// MinimizerValue elects the minimizer of a bare k-mer value and returns it
// as a plain integer.
func (m *ModelMinimizer) MinimizerValue(x largeint.Int) uint64 {
	var v KmerMinimizer
	v.setBoth(x)
	m.computeMinimizer(&v)
	return v.minimizer.Value().Uint64()
}

// MinimizerSpectrum returns the minimizer value of every k-mer window of
// data, sorted ascending. Repartitioning and statistics callers consume
// the sorted spectrum directly.
func (m *ModelMinimizer) MinimizerSpectrum(data Data) ([]uint64, error) {
	var out []uint64
	_, err := m.Iterate(data, func(v *KmerMinimizer, _ int) {
		out = append(out, v.minimizer.Value().Uint64())
	})
	if err != nil {
		return nil, err
	}
	sortutil.Uint64s(out)
	return out, nil
}
