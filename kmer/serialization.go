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
	"encoding/binary"
	"errors"
	"io"

	"github.com/shenwei356/xopen"
	"github.com/ujjwalsh/gatb-core/largeint"
)

var be = binary.BigEndian

var Magic = [8]byte{'s', 'u', 'p', 'e', 'r', 'k', 'm', 'r'}

var MainVersion uint8 = 0
var MinorVersion uint8 = 1

// ErrInvalidFileFormat means invalid file format.
var ErrInvalidFileFormat = errors.New("kmer: invalid binary format")

// ErrBrokenFile means the file is not complete.
var ErrBrokenFile = errors.New("kmer: broken file")

// ErrVersionMismatch means version mismatch between files and program.
var ErrVersionMismatch = errors.New("kmer: version mismatch")

// SuperKmerWriter streams super-k-mer words to a file or writer.
//
// Header (16 bytes):
//
//	Magic number, 8 bytes, superkmr
//	Main and minor versions, 2 bytes
//	K, 1 byte
//	M, 1 byte
//	Blank, 4 bytes
//
// Data: each run as two largeint.Words*8-byte big-endian integers,
// the payload word then the seed k-mer.
type SuperKmerWriter struct {
	w     io.Writer
	close func() error
	buf   [largeint.Words * 8]byte

	N int // bytes written
}

// NewSuperKmerWriter writes the header for k-mers of size k and
// minimizers of size m, and returns the writer.
func NewSuperKmerWriter(w io.Writer, k, m int) (*SuperKmerWriter, error) {
	sw := &SuperKmerWriter{w: w}

	if err := binary.Write(w, be, Magic); err != nil {
		return nil, err
	}
	if err := binary.Write(w, be, [8]uint8{MainVersion, MinorVersion, uint8(k), uint8(m)}); err != nil {
		return nil, err
	}
	sw.N = 16

	return sw, nil
}

// NewSuperKmerFileWriter writes to a file, optionally compressed by
// extension (.gz, .xz, .zst, .bz2).
func NewSuperKmerFileWriter(file string, k, m int) (*SuperKmerWriter, error) {
	outfh, err := xopen.Wopen(file)
	if err != nil {
		return nil, err
	}
	sw, err := NewSuperKmerWriter(outfh, k, m)
	if err != nil {
		outfh.Close()
		return nil, err
	}
	sw.close = outfh.Close
	return sw, nil
}

// Insert implements Bag, so SuperKmer.Save streams straight into the file.
func (w *SuperKmerWriter) Insert(v largeint.Int) error {
	for i := largeint.Words - 1; i >= 0; i-- {
		be.PutUint64(w.buf[(largeint.Words-1-i)*8:], v[i])
	}
	n, err := w.w.Write(w.buf[:])
	w.N += n
	return err
}

// WriteSuperKmer writes one run.
func (w *SuperKmerWriter) WriteSuperKmer(sk *SuperKmer) error {
	return sk.Save(w)
}

// Close closes the underlying file, if any.
func (w *SuperKmerWriter) Close() error {
	if w.close != nil {
		return w.close()
	}
	return nil
}

// SuperKmerReader reads super-k-mer words written by SuperKmerWriter.
type SuperKmerReader struct {
	r     io.Reader
	close func() error
	buf   [2 * largeint.Words * 8]byte

	K int
	M int
}

// NewSuperKmerReader checks the header and returns the reader.
func NewSuperKmerReader(r io.Reader) (*SuperKmerReader, error) {
	sr := &SuperKmerReader{r: r}

	buf := make([]byte, 8)
	n, err := io.ReadFull(r, buf)
	if err != nil || n < 8 {
		return nil, ErrBrokenFile
	}
	for i := 0; i < 8; i++ {
		if Magic[i] != buf[i] {
			return nil, ErrInvalidFileFormat
		}
	}

	n, err = io.ReadFull(r, buf)
	if err != nil || n < 8 {
		return nil, ErrBrokenFile
	}
	if MainVersion != buf[0] {
		return nil, ErrVersionMismatch
	}
	sr.K = int(buf[2])
	sr.M = int(buf[3])

	return sr, nil
}

// NewSuperKmerFileReader reads from a file, optionally compressed.
func NewSuperKmerFileReader(file string) (*SuperKmerReader, error) {
	fh, err := xopen.Ropen(file)
	if err != nil {
		return nil, err
	}
	sr, err := NewSuperKmerReader(fh)
	if err != nil {
		fh.Close()
		return nil, err
	}
	sr.close = fh.Close
	return sr, nil
}

// Next decodes the next run into sk. It returns io.EOF after the last run.
func (r *SuperKmerReader) Next(sk *SuperKmer) error {
	n, err := io.ReadFull(r.r, r.buf[:])
	if err == io.EOF {
		return io.EOF
	}
	if err != nil || n < len(r.buf) {
		return ErrBrokenFile
	}

	var compacted, seed largeint.Int
	for i := largeint.Words - 1; i >= 0; i-- {
		compacted[i] = be.Uint64(r.buf[(largeint.Words-1-i)*8:])
		seed[i] = be.Uint64(r.buf[(2*largeint.Words-1-i)*8:])
	}
	return sk.Load(compacted, seed)
}

// Close closes the underlying file, if any.
func (r *SuperKmerReader) Close() error {
	if r.close != nil {
		return r.close()
	}
	return nil
}
