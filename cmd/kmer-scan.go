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

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/profile"
	"github.com/shenwei356/bio/seq"
	"github.com/shenwei356/bio/seqio/fastx"
	"github.com/shenwei356/xopen"
	"github.com/vbauerster/mpb/v5"
	"github.com/vbauerster/mpb/v5/decor"

	"github.com/ujjwalsh/gatb-core/kmer"
)

var version = "0.1.0"

func main() {
	usage := fmt.Sprintf(`
This command scans sequence files with a minimizer k-mer model and reports
k-mer, super-k-mer and minimizer statistics, optionally writing the packed
super-k-mer stream to a file.

Version: v%s
Usage: %s [options] <fasta/q> [<fasta/q> ...]

Options/Flags:
`, version, filepath.Base(os.Args[0]))

	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}

	help := flag.Bool("h", false, "print help message")
	k := flag.Int("k", 31, "k-mer size")
	m := flag.Int("m", 10, "minimizer size")
	outFile := flag.String("o", "", "write the super-k-mer stream to this file")
	pfCPU := flag.Bool("pprof-cpu", false, "pprofile CPU")
	pfMEM := flag.Bool("pprof-mem", false, "pprofile memory")

	flag.Parse()

	if *help {
		flag.Usage()
		return
	}

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	if *k < 2 || *k > 127 {
		checkError(fmt.Errorf("k should be in [2, 127]"))
	}
	if *m < 2 || *m > 12 || *m >= *k {
		checkError(fmt.Errorf("m should be in [2, 12] and < k"))
	}

	for _, file := range flag.Args() {
		if _, err := os.Stat(file); errors.Is(err, os.ErrNotExist) {
			checkError(fmt.Errorf("%s", err))
		}
	}

	// -----------------------------------------------

	// go tool pprof -http=:8080 cpu.pprof
	if *pfCPU {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	} else if *pfMEM {
		defer profile.Start(profile.MemProfile, profile.ProfilePath(".")).Stop()
	}

	model, err := kmer.NewModelMinimizer(*k, *m)
	checkError(err)

	var sw *kmer.SuperKmerWriter
	if *outFile != "" {
		sw, err = kmer.NewSuperKmerFileWriter(*outFile, *k, *m)
		checkError(err)
	}

	outfh, err := xopen.Wopen("-")
	checkError(err)
	defer outfh.Close()

	log.Printf("starting to scan %d files with k=%d m=%d", flag.NArg(), *k, *m)
	sTime := time.Now()

	p := mpb.New(mpb.WithWidth(40), mpb.WithOutput(os.Stderr))
	bar := p.AddBar(int64(flag.NArg()),
		mpb.PrependDecorators(decor.Name("files"), decor.CountersNoUnit(" %d/%d")),
		mpb.AppendDecorators(decor.Percentage()))

	seq.ValidateSeq = false
	minimizers := make(map[uint64]int)
	var nSeqs, nKmers, nSuperKmers int
	var record *fastx.Record
	var fastxReader *fastx.Reader

	for _, file := range flag.Args() {
		fastxReader, err = fastx.NewReader(nil, file, "")
		checkError(err)

		for {
			record, err = fastxReader.Read()
			if err != nil {
				if err == io.EOF {
					break
				}
				checkError(err)
				break
			}

			nSeqs++

			_, err = model.IterateSuperKmers(kmer.NewASCII(record.Seq.Seq), func(sk *kmer.SuperKmer) {
				nSuperKmers++
				nKmers += sk.Size()
				minimizers[sk.Minimizer] += sk.Size()

				if sw != nil {
					if err := sw.WriteSuperKmer(sk); err != nil {
						checkError(err)
					}
				}
			})
			checkError(err)
		}

		bar.Increment()
	}
	p.Wait()

	if sw != nil {
		checkError(sw.Close())
		log.Printf("super-k-mer stream saved to %s (%d bytes before compression)", *outFile, sw.N)
	}

	log.Printf("finished scanning %d sequences in %s", nSeqs, time.Since(sTime))

	fmt.Fprintf(outfh, "sequences\t%d\n", nSeqs)
	fmt.Fprintf(outfh, "kmers\t%d\n", nKmers)
	fmt.Fprintf(outfh, "superkmers\t%d\n", nSuperKmers)
	fmt.Fprintf(outfh, "distinct_minimizers\t%d\n", len(minimizers))
	if nSuperKmers > 0 {
		fmt.Fprintf(outfh, "mean_superkmer_len\t%.2f\n", float64(nKmers)/float64(nSuperKmers))
	}
}

func checkError(err error) {
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
