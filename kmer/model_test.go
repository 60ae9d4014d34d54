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
	"math/rand"
	"testing"

	"github.com/ujjwalsh/gatb-core/largeint"
)

var base2bit = map[byte]uint64{'A': 0, 'C': 1, 'T': 2, 'G': 3}

// encodeString evaluates a nucleotide string as a base-4 polynomial,
// independently of the models under test.
func encodeString(s string) largeint.Int {
	var acc largeint.Int
	for i := 0; i < len(s); i++ {
		acc = acc.Shl(2).Or64(base2bit[s[i]])
	}
	return acc
}

func randomSeq(n int, seed int64) []byte {
	r := rand.New(rand.NewSource(seed))
	seq := make([]byte, n)
	for i := range seq {
		seq[i] = bin2base[r.Intn(4)]
	}
	return seq
}

func TestModelInfo(t *testing.T) {
	model, err := NewModelDirect(27)
	if err != nil {
		t.Error(err)
		return
	}
	if model.KmerSize() != 27 {
		t.Errorf("kmer size: %d", model.KmerSize())
	}
	if model.Span() != largeint.MaxSpan {
		t.Errorf("span: %d", model.Span())
	}
	if model.MemorySize() != largeint.Words*8 {
		t.Errorf("memory size: %d", model.MemorySize())
	}
	if model.KmerMax() != largeint.Ones(2*27) {
		t.Errorf("kmer max: %v", model.KmerMax())
	}
}

func TestModelSizeBounds(t *testing.T) {
	if _, err := NewModelDirect(0); err != ErrBadKmerSize {
		t.Errorf("k=0 should fail with ErrBadKmerSize, got %v", err)
	}
	if _, err := NewModelDirect(largeint.MaxSpan); err != ErrPrecisionTooLow {
		t.Errorf("k=%d should fail with ErrPrecisionTooLow, got %v", largeint.MaxSpan, err)
	}
	if _, err := NewModelCanonical(largeint.MaxSpan - 1); err != nil {
		t.Errorf("k=%d should be accepted: %v", largeint.MaxSpan-1, err)
	}
}

func TestCodeSeed(t *testing.T) {
	seq := []byte("CATTGATAGTGG")
	direct := []uint64{18, 10, 43, 44}

	model, err := NewModelDirect(3)
	if err != nil {
		t.Error(err)
		return
	}

	kv, err := model.CodeSeed(NewASCII(seq))
	if err != nil {
		t.Error(err)
		return
	}
	if kv.Value().Uint64() != direct[0] {
		t.Errorf("code seed: %d, expected: %d", kv.Value().Uint64(), direct[0])
	}

	for i := 3; i < 6; i++ {
		kv, err = model.CodeSeedRight(kv, seq[i], ASCII)
		if err != nil {
			t.Error(err)
			return
		}
		if kv.Value().Uint64() != direct[i-2] {
			t.Errorf("code seed right [%d]: %d, expected: %d", i-2, kv.Value().Uint64(), direct[i-2])
		}
	}
}

func TestIterate(t *testing.T) {
	seq := []byte("CATTGATAGTGG")

	direct := []uint64{18, 10, 43, 44, 50, 8, 35, 14, 59, 47}
	reverse := []uint64{11, 2, 16, 36, 9, 34, 24, 6, 17, 20}
	both := []uint64{11, 2, 16, 36, 9, 8, 24, 6, 17, 20}

	model, err := NewModelCanonical(3)
	if err != nil {
		t.Error(err)
		return
	}

	n := 0
	ok, err := model.Iterate(NewASCII(seq), func(v *KmerCanonical, idx int) {
		if got := v.Forward().Uint64(); got != direct[idx] {
			t.Errorf("[%d] forward: %d, expected: %d", idx, got, direct[idx])
		}
		if got := v.Revcomp().Uint64(); got != reverse[idx] {
			t.Errorf("[%d] revcomp: %d, expected: %d", idx, got, reverse[idx])
		}
		if got := v.Value().Uint64(); got != both[idx] {
			t.Errorf("[%d] canonical: %d, expected: %d", idx, got, both[idx])
		}
		if v.Which() != (v.Forward() == v.Value()) {
			t.Errorf("[%d] choice flag disagrees with value", idx)
		}
		n++
	})
	if err != nil {
		t.Error(err)
		return
	}
	if !ok || n != len(direct) {
		t.Errorf("k-mers number error: %d", n)
	}

	// the direct model sees the forward values only
	md, _ := NewModelDirect(3)
	ok, err = md.Iterate(NewASCII(seq), func(v *KmerDirect, idx int) {
		if got := v.Value().Uint64(); got != direct[idx] {
			t.Errorf("[%d] direct: %d, expected: %d", idx, got, direct[idx])
		}
	})
	if err != nil || !ok {
		t.Errorf("direct iteration failed: %v", err)
	}
}

func TestIteratePolynomial(t *testing.T) {
	k := 7
	seq := randomSeq(40, 11)

	model, err := NewModelDirect(k)
	if err != nil {
		t.Error(err)
		return
	}

	_, err = model.Iterate(NewASCII(seq), func(v *KmerDirect, idx int) {
		want := encodeString(string(seq[idx : idx+k]))
		if v.Value() != want {
			t.Errorf("[%d] %s: %v, expected: %v", idx, seq[idx:idx+k], v.Value(), want)
		}
		if !v.IsValid() {
			t.Errorf("[%d] unexpected invalid k-mer", idx)
		}
	})
	if err != nil {
		t.Error(err)
	}
}

func TestValidityPropagation(t *testing.T) {
	// one N poisons every window covering it: 4 invalid k-mers, then ACGT
	seq := []byte("ACGNACGT")

	model, err := NewModelDirect(4)
	if err != nil {
		t.Error(err)
		return
	}

	var kmers []KmerDirect
	ok, err := model.Build(NewASCII(seq), &kmers)
	if err != nil || !ok {
		t.Errorf("build failed: %v", err)
		return
	}
	if len(kmers) != 5 {
		t.Errorf("k-mers number error: %d", len(kmers))
		return
	}
	for i := 0; i < 4; i++ {
		if kmers[i].IsValid() {
			t.Errorf("[%d] should be invalid", i)
		}
	}
	if !kmers[4].IsValid() {
		t.Errorf("[4] should be valid")
	}
	if v := kmers[4].Value().Uint64(); v != 30 {
		t.Errorf("[4] value: %d, expected: 30", v)
	}
}

func TestIterateShortSequence(t *testing.T) {
	model, _ := NewModelDirect(5)

	n := 0
	ok, err := model.Iterate(NewASCII([]byte("ACGT")), func(v *KmerDirect, idx int) { n++ })
	if err != nil {
		t.Error(err)
	}
	if ok || n != 0 {
		t.Errorf("short input should yield no k-mers: ok=%v n=%d", ok, n)
	}
}

func TestIterateBadEncoding(t *testing.T) {
	model, _ := NewModelDirect(3)

	data := &Buffer{Seq: []byte("ACGTACGT"), Enc: Encoding(9), Size: 8}
	if _, err := model.Iterate(data, func(v *KmerDirect, idx int) {}); err != ErrBadEncoding {
		t.Errorf("expected ErrBadEncoding, got %v", err)
	}
	if _, err := model.CodeSeed(data); err != ErrBadEncoding {
		t.Errorf("expected ErrBadEncoding, got %v", err)
	}
}

func TestToStringReverse(t *testing.T) {
	model, _ := NewModelCanonical(3)

	cat := largeint.FromUint64(18)
	if s := model.ToString(cat); s != "CAT" {
		t.Errorf("ToString(18): %s", s)
	}
	if v := model.Reverse(cat).Uint64(); v != 11 {
		t.Errorf("Reverse(CAT): %d, expected: 11 (ATG)", v)
	}
}

func TestEncodings(t *testing.T) {
	k := 5
	seq := []byte("CATTGATAGTGG")

	// the same sequence in the three encodings
	codes := make([]byte, len(seq))
	for i, b := range seq {
		codes[i] = b >> 1 & 3
	}
	packed := make([]byte, (len(seq)+3)/4)
	for i, c := range codes {
		packed[i>>2] |= c << uint((3-(i&3))*2)
	}

	model, _ := NewModelDirect(k)

	var fromASCII, fromInteger, fromBinary []KmerDirect
	if _, err := model.Build(NewASCII(seq), &fromASCII); err != nil {
		t.Error(err)
		return
	}
	if _, err := model.Build(NewInteger(codes), &fromInteger); err != nil {
		t.Error(err)
		return
	}
	if _, err := model.Build(NewBinary(packed, len(seq)), &fromBinary); err != nil {
		t.Error(err)
		return
	}

	if len(fromASCII) != len(fromInteger) || len(fromASCII) != len(fromBinary) {
		t.Errorf("k-mer counts differ: %d, %d, %d", len(fromASCII), len(fromInteger), len(fromBinary))
		return
	}
	for i := range fromASCII {
		if fromASCII[i].Value() != fromInteger[i].Value() {
			t.Errorf("[%d] ASCII vs Integer: %v vs %v", i, fromASCII[i].Value(), fromInteger[i].Value())
		}
		if fromASCII[i].Value() != fromBinary[i].Value() {
			t.Errorf("[%d] ASCII vs Binary: %v vs %v", i, fromASCII[i].Value(), fromBinary[i].Value())
		}
	}
}
