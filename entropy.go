package cpix

// Chaos-conditioned entropy coding. Each color plane carries one
// Huffman coder per chaos level; the level observed at a pixel selects
// which coder handles that pixel's residual. The encoder runs a
// statistics pass first, then serializes one code-length table per
// (plane, level) pair followed by the payload.

// yAlphabet extends the residual byte range with recent-match indices.
const yAlphabet = 256 + recentSyms

func planeAlphabet(p int) int {
	if p == 0 {
		return yAlphabet
	}
	return 256
}

// chaosEncoder is the statistics-then-emit side.
type chaosEncoder struct {
	levels int
	hists  [colorPlanes][]*freqHistogram
	coders [colorPlanes][]huffmanEncoder
}

func newChaosEncoder(levels int) *chaosEncoder {
	e := &chaosEncoder{levels: levels}
	for p := 0; p < colorPlanes; p++ {
		e.hists[p] = make([]*freqHistogram, levels)
		e.coders[p] = make([]huffmanEncoder, levels)
		for l := 0; l < levels; l++ {
			e.hists[p][l] = newFreqHistogram(planeAlphabet(p))
		}
	}
	return e
}

// push accounts one symbol during the statistics pass.
func (e *chaosEncoder) push(plane int, level uint8, sym int) {
	e.hists[plane][int(level)].add(sym)
}

// finalize builds the per-(plane, level) code tables from the gathered
// statistics.
func (e *chaosEncoder) finalize() {
	for p := 0; p < colorPlanes; p++ {
		for l := 0; l < e.levels; l++ {
			e.coders[p][l].init(e.hists[p][l])
		}
	}
}

// writeTables serializes every code-length table, plane-major.
func (e *chaosEncoder) writeTables(w *bitWriter) {
	for p := 0; p < colorPlanes; p++ {
		for l := 0; l < e.levels; l++ {
			e.coders[p][l].writeTable(w)
		}
	}
}

// writeSymbol emits one symbol during the emit pass.
func (e *chaosEncoder) writeSymbol(w *bitWriter, plane int, level uint8, sym int) {
	e.coders[plane][int(level)].writeSymbol(w, sym)
}

// chaosDecoder mirrors chaosEncoder on the read side.
type chaosDecoder struct {
	levels int
	coders [colorPlanes][]huffmanDecoder
}

func newChaosDecoder(levels int) *chaosDecoder {
	d := &chaosDecoder{levels: levels}
	for p := 0; p < colorPlanes; p++ {
		d.coders[p] = make([]huffmanDecoder, levels)
	}
	return d
}

// readTables rebuilds every decode table from the stream.
func (d *chaosDecoder) readTables(r *bitReader) error {
	for p := 0; p < colorPlanes; p++ {
		for l := 0; l < d.levels; l++ {
			lengths, err := readCodeLengths(r, planeAlphabet(p))
			if err != nil {
				return err
			}
			if err := d.coders[p][l].init(lengths); err != nil {
				return err
			}
		}
	}
	return nil
}

// readSymbol decodes one symbol.
func (d *chaosDecoder) readSymbol(r *bitReader, plane int, level uint8) (int, error) {
	return d.coders[plane][int(level)].decode(r)
}
