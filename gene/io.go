package gene

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// MaxLineLength is the hard cap on any line in a genepool/xpol file, so a
// corrupted or hand-edited file can't make the reader buffer unboundedly.
const MaxLineLength = 100

// lineScanner reads one line at a time from a bufio.Reader, skipping
// comment lines ('#'-prefixed) and blank lines, and enforcing
// MaxLineLength on every line it returns. A *bufio.Reader passed in is used
// directly, so consecutive ReadGenome calls on it pick up where the last
// block ended.
type lineScanner struct {
	r *bufio.Reader
}

func newLineScanner(r io.Reader) *lineScanner {
	if br, ok := r.(*bufio.Reader); ok {
		return &lineScanner{r: br}
	}
	return &lineScanner{r: bufio.NewReader(r)}
}

// next returns the next non-comment, non-blank line, or an error on EOF
// or a capacity violation.
func (ls *lineScanner) next() (string, error) {
	for {
		line, err := ls.r.ReadString('\n')
		if err != nil && line == "" {
			return "", err
		}
		line = strings.TrimRight(line, "\r\n")
		if len(line) > MaxLineLength {
			return "", fmt.Errorf("gene: line exceeds %d characters", MaxLineLength)
		}
		if strings.HasPrefix(line, "#") || strings.TrimSpace(line) == "" {
			continue
		}
		return line, nil
	}
}

// WriteGenome writes the "brain_v1" machine-readable block for g to w.
// Used both for per-genome blocks inside genepool.dat and for the
// standalone xpol.dat peer-exchange file.
func WriteGenome(w io.Writer, g *Genome) error {
	bw := bufio.NewWriter(w)
	lines := []string{
		"brain_v1",
		fmt.Sprintf("%f", g.LearningRate),
		fmt.Sprintf("%f", g.ThinkingTime),
		strconv.Itoa(len(g.Commands)),
	}
	for _, cmd := range g.Commands {
		lines = append(lines, strconv.Itoa(int(cmd.Op)), strconv.Itoa(cmd.Arg))
	}
	for _, line := range lines {
		if len(line) > MaxLineLength {
			return fmt.Errorf("gene: generated line exceeds %d characters", MaxLineLength)
		}
		if _, err := fmt.Fprintln(bw, line); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ReadGenome reads one "brain_v1" machine-readable block from r.
func ReadGenome(r io.Reader) (*Genome, error) {
	ls := newLineScanner(r)

	header, err := ls.next()
	if err != nil {
		return nil, fmt.Errorf("gene: reading brain_v1 header: %w", err)
	}
	if header != "brain_v1" {
		return nil, fmt.Errorf("gene: unexpected block header %q", header)
	}

	lrLine, err := ls.next()
	if err != nil {
		return nil, fmt.Errorf("gene: reading learning_rate: %w", err)
	}
	lr, err := strconv.ParseFloat(lrLine, 64)
	if err != nil {
		return nil, fmt.Errorf("gene: parsing learning_rate %q: %w", lrLine, err)
	}

	ttLine, err := ls.next()
	if err != nil {
		return nil, fmt.Errorf("gene: reading thinking_time: %w", err)
	}
	tt, err := strconv.ParseFloat(ttLine, 64)
	if err != nil {
		return nil, fmt.Errorf("gene: parsing thinking_time %q: %w", ttLine, err)
	}

	lenLine, err := ls.next()
	if err != nil {
		return nil, fmt.Errorf("gene: reading length: %w", err)
	}
	length, err := strconv.Atoi(lenLine)
	if err != nil {
		return nil, fmt.Errorf("gene: parsing length %q: %w", lenLine, err)
	}
	if length < 0 || length > MaxGenes {
		return nil, fmt.Errorf("gene: program length %d out of bounds", length)
	}

	g := &Genome{
		Commands:     make([]Command, length),
		LearningRate: lr,
		ThinkingTime: tt,
		resolved:     make([]bool, length),
	}
	for i := 0; i < length; i++ {
		opLine, err := ls.next()
		if err != nil {
			return nil, fmt.Errorf("gene: reading command %d opcode: %w", i, err)
		}
		opVal, err := strconv.Atoi(opLine)
		if err != nil {
			return nil, fmt.Errorf("gene: parsing opcode %q: %w", opLine, err)
		}
		argLine, err := ls.next()
		if err != nil {
			return nil, fmt.Errorf("gene: reading command %d arg: %w", i, err)
		}
		arg, err := strconv.Atoi(argLine)
		if err != nil {
			return nil, fmt.Errorf("gene: parsing arg %q: %w", argLine, err)
		}
		g.Commands[i] = Command{Op: Opcode(opVal), Arg: arg}
		g.resolved[i] = arg != RandWeight && arg != RandSumsi
	}

	return g, nil
}

// HumanReadable renders g as a single '#'-prefixed comment line, for the
// human-readable dump section of genepool.dat.
func (g *Genome) HumanReadable() string {
	var sb strings.Builder
	sb.WriteString("# ")
	fmt.Fprintf(&sb, "lr=%.3f tt=%.1f len=%d: ", g.LearningRate, g.ThinkingTime, len(g.Commands))
	for i, cmd := range g.Commands {
		if i > 0 {
			sb.WriteString(" ")
		}
		fmt.Fprintf(&sb, "%s(%d)", cmd.Op, cmd.Arg)
	}
	return sb.String()
}
