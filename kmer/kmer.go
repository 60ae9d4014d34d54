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

import "github.com/ujjwalsh/gatb-core/largeint"

// KmerDirect is a k-mer read on a single strand.
type KmerDirect struct {
	value largeint.Int
	valid bool
}

// Value returns the polynomial value of the k-mer.
func (k KmerDirect) Value() largeint.Int { return k.value }

// IsValid reports whether all nucleotides of the window decoded cleanly.
// A k-mer built over an 'N' is delivered with IsValid() == false.
func (k KmerDirect) IsValid() bool { return k.valid }

// Less orders two direct k-mers by value.
func (k KmerDirect) Less(o KmerDirect) bool { return k.value.Less(o.value) }

// KmerCanonical carries both strand readings of a k-mer and remembers
// which one is the smaller, strand-invariant identity.
type KmerCanonical struct {
	table  [2]largeint.Int // forward, revcomp
	choice uint8
	valid  bool
}

// Value returns the canonical value, min(forward, revcomp).
func (k KmerCanonical) Value() largeint.Int { return k.table[k.choice] }

// Forward returns the forward-strand value.
func (k KmerCanonical) Forward() largeint.Int { return k.table[0] }

// Revcomp returns the reverse-complement value.
func (k KmerCanonical) Revcomp() largeint.Int { return k.table[1] }

// Which reports whether the canonical value is the forward reading.
func (k KmerCanonical) Which() bool { return k.choice == 0 }

// IsValid reports whether all nucleotides of the window decoded cleanly.
func (k KmerCanonical) IsValid() bool { return k.valid }

// Less orders two canonical k-mers by canonical value.
func (k KmerCanonical) Less(o KmerCanonical) bool { return k.Value().Less(o.Value()) }

func (k *KmerCanonical) set(forward, revcomp largeint.Int) {
	k.table[0] = forward
	k.table[1] = revcomp
	k.updateChoice()
}

// setBoth stores a value that is not a forward/revcomp couple,
// e.g. a minimizer already folded to its canonical form.
func (k *KmerCanonical) setBoth(v largeint.Int) {
	k.table[0] = v
	k.table[1] = v
	k.choice = 0
	k.valid = true
}

// choice stays 0 on ties, so palindromes read as forward.
func (k *KmerCanonical) updateChoice() {
	if k.table[1].Less(k.table[0]) {
		k.choice = 1
	} else {
		k.choice = 0
	}
}

// KmerMinimizer is a canonical k-mer augmented with the minimizer of its
// m-mer window.
type KmerMinimizer struct {
	KmerCanonical

	minimizer KmerCanonical
	position  int16
	changed   bool
}

// Minimizer returns the minimizer as an m-mer value.
func (k KmerMinimizer) Minimizer() KmerCanonical { return k.minimizer }

// Position returns the number of slides the minimizer has left in the
// window: the leftmost m-mer is at 0 and ages out on the next slide, the
// rightmost at nbMinimizers-1. A negative position means the window holds
// no allowed minimizer.
func (k KmerMinimizer) Position() int { return int(k.position) }

// HasChanged reports whether the last slide elected a different minimizer
// or re-elected one because the incumbent left the window.
func (k KmerMinimizer) HasChanged() bool { return k.changed }
