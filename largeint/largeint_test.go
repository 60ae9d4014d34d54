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

import (
	"math/rand"
	"testing"
)

func TestShift(t *testing.T) {
	x := FromUint64(0x123456789abcdef0)

	if v := x.Shl(4).Uint64(); v != 0x23456789abcdef00 {
		t.Errorf("Shl(4) low limb: %x", v)
	}
	if v := x.Shr(4).Uint64(); v != 0x0123456789abcdef {
		t.Errorf("Shr(4) low limb: %x", v)
	}

	// cross-limb round trip
	y := x.Shl(100)
	if y.Uint64() != 0 {
		t.Errorf("Shl(100) should clear the low limb")
	}
	if z := y.Shr(100); z != x {
		t.Errorf("Shl(100).Shr(100) != identity: %v vs %v", z, x)
	}

	// overflow is dropped
	if z := x.Shl(Bits); !z.IsZero() {
		t.Errorf("Shl(%d) should be zero", Bits)
	}
	if z := x.Shr(Bits); !z.IsZero() {
		t.Errorf("Shr(%d) should be zero", Bits)
	}
}

func TestOnes(t *testing.T) {
	if v := Ones(6).Uint64(); v != 63 {
		t.Errorf("Ones(6): %d", v)
	}
	if z := Ones(64); z[0] != ^uint64(0) || z[1] != 0 {
		t.Errorf("Ones(64): %v", z)
	}
	if z := Ones(70); z[0] != ^uint64(0) || z[1] != 63 {
		t.Errorf("Ones(70): %v", z)
	}
	if z := Ones(Bits); z != (Int{^uint64(0), ^uint64(0), ^uint64(0), ^uint64(0)}) {
		t.Errorf("Ones(Bits): %v", z)
	}
}

func TestCmp(t *testing.T) {
	a := FromUint64(1)
	b := FromUint64(2).Shl(64) // 2 in the second limb

	if !a.Less(b) {
		t.Errorf("expected %v < %v", a, b)
	}
	if b.Less(a) {
		t.Errorf("expected !(%v < %v)", b, a)
	}
	if a.Cmp(a) != 0 {
		t.Errorf("Cmp of equal values should be 0")
	}
	if Min(a, b) != a {
		t.Errorf("Min should pick the smaller value")
	}
}

// revCompNaive reverse-complements digit by digit.
func revCompNaive(x Int, k int) Int {
	var z Int
	for i := 0; i < k; i++ {
		z = z.Shl(2).Or64(x.Uint64() & 3 ^ 2)
		x = x.Shr(2)
	}
	return z
}

func TestRevComp(t *testing.T) {
	// ACG (A=0, C=1, T=2, G=3): revcomp is CGT = 0b01_11_10
	x := FromUint64(0b00_01_11)
	if v := x.RevComp(3).Uint64(); v != 0b01_11_10 {
		t.Errorf("RevComp(ACG): %b", v)
	}

	r := rand.New(rand.NewSource(1))
	for _, k := range []int{1, 3, 11, 31, 32, 33, 50, 64, 100, 127} {
		mask := Ones(uint(2 * k))
		for i := 0; i < 100; i++ {
			x := Int{r.Uint64(), r.Uint64(), r.Uint64(), r.Uint64()}.And(mask)

			rc := x.RevComp(k)
			if want := revCompNaive(x, k); rc != want {
				t.Errorf("k=%d: RevComp mismatch: %v vs %v", k, rc, want)
			}

			// involution: RC(RC(x, k), k) == x
			if back := rc.RevComp(k); back != x {
				t.Errorf("k=%d: RevComp not an involution: %v -> %v", k, x, back)
			}

			// no bits above 2k
			if rc.And(mask) != rc {
				t.Errorf("k=%d: RevComp left bits above 2k: %v", k, rc)
			}
		}
	}
}
