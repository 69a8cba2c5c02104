package keyword

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Card sentinels recognized by the solver. A card line starts with '*' in
// column one; data lines follow in fixed-width columns.
const (
	cardKeyword = "*KEYWORD"
	cardNode    = "*NODE"
	cardSolid   = "*ELEMENT_SOLID"
	cardSPH     = "*ELEMENT_SPH"
	cardEnd     = "*END"
)

// WriteTo serializes the deck in keyword format: header, node block,
// element blocks (solid before SPH when both are present), footer.
// Implements io.WriterTo.
func (d *Deck) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	bw := bufio.NewWriter(cw)

	write := func(format string, args ...any) error {
		_, err := fmt.Fprintf(bw, format, args...)
		return err
	}

	if err := write("%s\n", cardKeyword); err != nil {
		return cw.n, err
	}

	if err := write("%s\n", cardNode); err != nil {
		return cw.n, err
	}
	for _, n := range d.nodes {
		if err := write("%8d%16.6f%16.6f%16.6f\n", n.ID, n.X, n.Y, n.Z); err != nil {
			return cw.n, err
		}
	}

	if len(d.solids) > 0 {
		if err := write("%s\n", cardSolid); err != nil {
			return cw.n, err
		}
		for _, e := range d.solids {
			if err := write("%8d%8d%8d%8d%8d%8d%8d%8d%8d%8d\n",
				e.ID, e.PartID,
				e.Corners[0], e.Corners[1], e.Corners[2], e.Corners[3],
				e.Corners[4], e.Corners[5], e.Corners[6], e.Corners[7]); err != nil {
				return cw.n, err
			}
		}
	}

	if len(d.particles) > 0 {
		if err := write("%s\n", cardSPH); err != nil {
			return cw.n, err
		}
		for _, e := range d.particles {
			if err := write("%8d%8d%8d%16.6e\n", e.ID, e.PartID, e.NodeID, e.Mass); err != nil {
				return cw.n, err
			}
		}
	}

	if err := write("%s\n", cardEnd); err != nil {
		return cw.n, err
	}

	if err := bw.Flush(); err != nil {
		return cw.n, err
	}
	return cw.n, nil
}

// WriteFile validates the deck and writes it atomically: the content goes
// to a temp file in the destination directory, which is renamed over the
// target only after a successful flush. A partially written deck never
// replaces an existing file.
func (d *Deck) WriteFile(path string) error {
	if err := d.Validate(); err != nil {
		return err
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	tmpName := tmp.Name()

	if _, err := d.WriteTo(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
