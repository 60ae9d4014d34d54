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

package largeint

// revcomp4nt reverses and complements the four 2-bit nucleotide codes
// packed in one byte. Complement of a code is code^2 under the
// A=0, C=1, T=2, G=3 convention.
var revcomp4nt [256]byte

func init() {
	for i := range revcomp4nt {
		b := byte(i)
		var r byte
		for j := 0; j < 4; j++ {
			r = r<<2 | (b&3)^2
			b >>= 2
		}
		revcomp4nt[i] = r
	}
}

// RevComp returns the reverse complement of the k low 2-bit digits of x:
// the digits in reverse order, each complemented. Bits above 2k are zero
// in the result.
//
// The whole integer is reverse-complemented byte-wise through revcomp4nt,
// limbs are swapped end for end, and a final right shift re-aligns the k
// digits at bit 0.
func (x Int) RevComp(k int) Int {
	var z Int
	for i := 0; i < Words; i++ {
		v := x[i]
		var w uint64
		for j := 0; j < 8; j++ {
			w = w<<8 | uint64(revcomp4nt[byte(v)])
			v >>= 8
		}
		z[Words-1-i] = w
	}
	return z.Shr(uint(Bits - 2*k))
}
