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

// ModelCanonical reads k-mers as the minimum of the forward value and its
// reverse complement, a strand-invariant identity. Both strands are updated
// incrementally on each slide: the forward word shifts left, the reverse
// complement shifts right with the complemented nucleotide entering at the
// top through revcompTable.
type ModelCanonical struct {
	modelBase
}

// NewModelCanonical returns a canonical model for k-mers of size k.
func NewModelCanonical(k int) (*ModelCanonical, error) {
	base, err := newModelBase(k)
	if err != nil {
		return nil, err
	}
	return &ModelCanonical{modelBase: base}, nil
}

func (m *ModelCanonical) first(seq []byte, dec decodeFn, v *KmerCanonical) int {
	fwd, bad := m.polynom(seq, dec)
	v.valid = bad < 0
	v.table[0] = fwd
	v.table[1] = fwd.RevComp(m.k)
	v.updateChoice()
	return bad
}

func (m *ModelCanonical) next(c byte, valid bool, v *KmerCanonical) {
	v.table[0] = v.table[0].Shl(2).Or64(uint64(c)).And(m.kmask)
	v.table[1] = v.table[1].Shr(2).Or(m.revcompTable[c]).And(m.kmask)
	v.valid = valid
	v.updateChoice()
}

// CodeSeed computes the canonical k-mer of the first k nucleotides of data.
func (m *ModelCanonical) CodeSeed(data Data) (KmerCanonical, error) {
	dec, err := decoderFor(data.Encoding())
	if err != nil {
		return KmerCanonical{}, err
	}
	var v KmerCanonical
	m.first(data.Bytes(), dec, &v)
	return v, nil
}

// CodeSeedRight slides prev one nucleotide to the right.
// The validity of the result reflects the new nucleotide only.
func (m *ModelCanonical) CodeSeedRight(prev KmerCanonical, nt byte, enc Encoding) (KmerCanonical, error) {
	dec, err := decoderFor(enc)
	if err != nil {
		return KmerCanonical{}, err
	}
	c, invalid := dec([]byte{nt}, 0)
	v := prev
	m.next(c, !invalid, &v)
	return v, nil
}

// Iterate calls fn for each successive canonical k-mer of data, in
// left-to-right order, with the 0-based output index. The pointed-to value
// is reused: it is only valid for the duration of the call.
// It returns false when data holds fewer than k nucleotides.
func (m *ModelCanonical) Iterate(data Data, fn func(*KmerCanonical, int)) (bool, error) {
	dec, err := decoderFor(data.Encoding())
	if err != nil {
		return false, err
	}
	length := data.Len()
	if length < m.k {
		return false, nil
	}

	seq := data.Bytes()
	var v KmerCanonical
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
func (m *ModelCanonical) Build(data Data, buf *[]KmerCanonical) (bool, error) {
	*buf = (*buf)[:0]
	return m.Iterate(data, func(v *KmerCanonical, _ int) {
		*buf = append(*buf, *v)
	})
}
