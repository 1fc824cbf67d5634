// Package persist implements the on-disk genepool format and the
// signal-driven peer-exchange protocol.
package persist

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/csirmaz/brainevo/gene"
)

// genepoolHeader is the first non-comment line of a genepool file,
// identifying its format version.
const genepoolHeader = "genepool_v1"

// WritePool writes the full genepool_v1 file: a header, a human-readable
// comment dump of every genome, and then the machine-readable brain_v1
// blocks read back by ReadPool.
func WritePool(path string, genomes []*gene.Genome) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("persist: creating %s: %w", path, err)
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	fmt.Fprintln(bw, genepoolHeader)
	fmt.Fprintf(bw, "# %d genomes\n", len(genomes))
	fmt.Fprintln(bw, strconv.Itoa(len(genomes)))

	for _, g := range genomes {
		fmt.Fprintln(bw, g.HumanReadable())
	}

	for _, g := range genomes {
		if err := gene.WriteGenome(bw, g); err != nil {
			return fmt.Errorf("persist: writing genome: %w", err)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("persist: flushing %s: %w", path, err)
	}
	return nil
}

// ReadPool reads a genepool_v1 file back into a genome slice. A malformed
// header is always an error; ReadPool itself only reports the genome
// count, leaving the pool-size comparison against config.PoolSize to the
// caller, which treats a mismatch as fatal.
func ReadPool(path string) ([]*gene.Genome, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("persist: opening %s: %w", path, err)
	}
	defer f.Close()

	r := bufio.NewReader(f)

	header, err := readNonCommentLine(r)
	if err != nil {
		return nil, fmt.Errorf("persist: reading header: %w", err)
	}
	if header != genepoolHeader {
		return nil, fmt.Errorf("persist: unexpected genepool header %q", header)
	}

	countLine, err := readNonCommentLine(r)
	if err != nil {
		return nil, fmt.Errorf("persist: reading pool size: %w", err)
	}
	count, err := strconv.Atoi(countLine)
	if err != nil {
		return nil, fmt.Errorf("persist: parsing pool size %q: %w", countLine, err)
	}

	// Skip the human-readable dump: discard lines until the first
	// "brain_v1" block header appears.
	if err := skipHumanReadableDump(r); err != nil {
		return nil, fmt.Errorf("persist: skipping human-readable dump: %w", err)
	}

	genomes := make([]*gene.Genome, 0, count)
	for i := 0; i < count; i++ {
		g, err := gene.ReadGenome(r)
		if err != nil {
			return nil, fmt.Errorf("persist: reading genome %d: %w", i, err)
		}
		genomes = append(genomes, g)
	}

	return genomes, nil
}

// readNonCommentLine reads the next line from r that is neither blank nor
// '#'-prefixed.
func readNonCommentLine(r *bufio.Reader) (string, error) {
	for {
		line, err := r.ReadString('\n')
		if err != nil && line == "" {
			return "", err
		}
		line = strings.TrimRight(line, "\r\n")
		if strings.TrimSpace(line) == "" {
			if err != nil {
				return "", err
			}
			continue
		}
		if strings.HasPrefix(line, "#") {
			if err != nil {
				return "", err
			}
			continue
		}
		return line, nil
	}
}

// skipHumanReadableDump peeks ahead, discarding lines until it finds the
// first "brain_v1" block header, which it leaves unread so
// gene.ReadGenome can consume that header itself.
func skipHumanReadableDump(r *bufio.Reader) error {
	for {
		peeked, err := r.Peek(len(genomeBlockHeader))
		if err == nil && string(peeked) == genomeBlockHeader {
			return nil
		}
		line, rerr := r.ReadString('\n')
		if rerr != nil && line == "" {
			if rerr == io.EOF {
				return nil
			}
			return rerr
		}
		if rerr == io.EOF {
			return nil
		}
	}
}

const genomeBlockHeader = "brain_v1"
