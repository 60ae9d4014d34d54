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

// ModelDirect reads k-mers on a single strand: the value of a k-mer is
// its base-4 polynomial, most significant nucleotide first.
type ModelDirect struct {
	modelBase
}

// NewModelDirect returns a direct model for k-mers of size k.
func NewModelDirect(k int) (*ModelDirect, error) {
	base, err := newModelBase(k)
	if err != nil {
		return nil, err
	}
	return &ModelDirect{modelBase: base}, nil
}

func (m *ModelDirect) first(seq []byte, dec decodeFn, v *KmerDirect) int {
	var bad int
	v.value, bad = m.polynom(seq, dec)
	v.valid = bad < 0
	return bad
}

func (m *ModelDirect) next(c byte, valid bool, v *KmerDirect) {
	v.value = v.value.Shl(2).Or64(uint64(c)).And(m.kmask)
	v.valid = valid
}

// CodeSeed computes the k-mer of the first k nucleotides of data.
// The buffer must hold at least k nucleotides.
func (m *ModelDirect) CodeSeed(data Data) (KmerDirect, error) {
	dec, err := decoderFor(data.Encoding())
	if err != nil {
		return KmerDirect{}, err
	}
	var v KmerDirect
	m.first(data.Bytes(), dec, &v)
	return v, nil
}

// CodeSeedRight slides prev one nucleotide to the right.
// The validity of the result reflects the new nucleotide only.
func (m *ModelDirect) CodeSeedRight(prev KmerDirect, nt byte, enc Encoding) (KmerDirect, error) {
	dec, err := decoderFor(enc)
	if err != nil {
		return KmerDirect{}, err
	}
	c, invalid := dec([]byte{nt}, 0)
	v := prev
	m.next(c, !invalid, &v)
	return v, nil
}

// Iterate calls fn for each successive k-mer of data, in left-to-right
// order of the starting index, with the 0-based output index. The pointed-to
// value is reused: it is only valid for the duration of the call.
// It returns false when data holds fewer than k nucleotides.
func (m *ModelDirect) Iterate(data Data, fn func(*KmerDirect, int)) (bool, error) {
	dec, err := decoderFor(data.Encoding())
	if err != nil {
		return false, err
	}
	length := data.Len()
	if length < m.k {
		return false, nil
	}

	seq := data.Bytes()
	var v KmerDirect
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
func (m *ModelDirect) Build(data Data, buf *[]KmerDirect) (bool, error) {
	*buf = (*buf)[:0]
	return m.Iterate(data, func(v *KmerDirect, _ int) {
		*buf = append(*buf, *v)
	})
}
