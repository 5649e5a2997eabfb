package cpix

import "fmt"

// Compression levels. The fast level picks tile filters by residual
// magnitude alone; the default level re-ranks the leading candidates by
// estimated entropy, which is slower but consistently smaller.
const (
	CompressDefault = iota
	CompressFast
)

const (
	magicWord  = 0x43504958 // "CPIX"
	desyncWord = 0x7A5C3D1E

	maxDim = 1 << 16

	// candidates surviving the magnitude tier into entropy re-ranking
	filterSelectFuzz = 20

	// a magnitude score at or below this accepts immediately
	acceptScore = 4
)

// EncodeOptions controls encoding parameters. The zero value selects
// the default compression level, 4x4 tiles, and 8 chaos levels.
type EncodeOptions struct {
	// CompressLevel selects CompressDefault or CompressFast.
	CompressLevel int

	// TileBits sets the log2 of the filter tile side (1-8).
	// 0 means the default of 2 (4x4 tiles).
	TileBits int

	// ChaosLevels sets the number of entropy-coder bins per plane
	// (1-16). 0 means the default of 8.
	ChaosLevels int

	// DesyncChecks embeds position markers in the stream that the
	// decoder verifies. Costs space; intended for debugging.
	DesyncChecks bool

	// Mask marks pixels carried out of band. nil means no mask.
	Mask Mask

	// LZ marks pixels produced by a preceding match stage. nil means
	// none.
	LZ LZ
}

func (o *EncodeOptions) normalized() (EncodeOptions, error) {
	var n EncodeOptions
	if o != nil {
		n = *o
	}
	if n.TileBits == 0 {
		n.TileBits = defaultTileBits
	}
	if n.TileBits < minTileBits || n.TileBits > maxTileBits {
		return n, fmt.Errorf("cpix: tile bits out of range: %d", n.TileBits)
	}
	if n.ChaosLevels == 0 {
		n.ChaosLevels = defaultChaosLevels
	}
	if n.ChaosLevels < 1 || n.ChaosLevels > maxChaosLevels {
		return n, fmt.Errorf("cpix: chaos levels out of range: %d", n.ChaosLevels)
	}
	if n.Mask == nil {
		n.Mask = nullMask{}
	}
	if n.LZ == nil {
		n.LZ = nullLZ{}
	}
	return n, nil
}

// Encode compresses img and returns the encoded stream.
func Encode(img *Image, opts *EncodeOptions) ([]byte, error) {
	if err := img.validate(); err != nil {
		return nil, err
	}
	if img.Width > maxDim || img.Height > maxDim {
		return nil, ErrBadDimensions
	}
	o, err := opts.normalized()
	if err != nil {
		return nil, err
	}
	if size := 1 << o.TileBits; img.Width%size != 0 || img.Height%size != 0 {
		return nil, ErrBadDimensions
	}

	e := newEncoder(img, o)
	e.decideFilters()
	e.tmEnc.init(e.tiles)
	e.scan(nil)
	e.ent.finalize()

	w := newBitWriter()
	w.WriteWord(magicWord)
	w.WriteBits(uint32(img.Width-1), 16)
	w.WriteBits(uint32(img.Height-1), 16)
	if o.DesyncChecks {
		w.WriteBit(1)
	} else {
		w.WriteBit(0)
	}
	e.tmEnc.writeHeader(w, e.tiles)
	if o.DesyncChecks {
		w.WriteWord(desyncWord)
	}
	w.WriteBits(uint32(o.ChaosLevels-1), 4)
	e.ent.writeTables(w)
	if o.DesyncChecks {
		w.WriteWord(desyncWord)
	}
	e.scan(w)
	return w.Flush(), nil
}

type encoder struct {
	opts   EncodeOptions
	width  int
	height int
	pix    []byte // masked pixels hold the mask color

	tiles *tileMap
	tmEnc tileMapEncoder
	ent   *chaosEncoder
}

func newEncoder(img *Image, o EncodeOptions) *encoder {
	e := &encoder{
		opts:   o,
		width:  img.Width,
		height: img.Height,
		tiles:  newTileMap(img.Width, img.Height, o.TileBits),
		ent:    newChaosEncoder(o.ChaosLevels),
	}

	e.pix = make([]byte, img.Width*img.Height*4)
	copy(e.pix, img.Pix)
	mr, mg, mb, ma := o.Mask.Color()
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			if o.Mask.Masked(x, y) {
				off := (y*img.Width + x) * 4
				e.pix[off], e.pix[off+1], e.pix[off+2], e.pix[off+3] = mr, mg, mb, ma
			}
		}
	}
	return e
}

// covered reports whether (x, y) is skipped by the context model.
func (e *encoder) covered(x, y int) bool {
	return e.opts.Mask.Masked(x, y) || e.opts.LZ.Visited(x, y)
}

// residual computes the coded tuple for the pixel at (x, y) under
// filter pair f: spatial prediction, then color decorrelation of the
// RGB deltas, then left-predicted alpha.
func (e *encoder) residual(x, y int, f uint16) (t [colorPlanes]uint8) {
	off := (y*e.width + x) * 4
	pr, pg, pb := predictRGB(e.pix, x, y, e.width, int(f>>8))
	dy, du, dv := colorFilters[f&0xFF].forward(
		e.pix[off]-pr, e.pix[off+1]-pg, e.pix[off+2]-pb)

	prevA := uint8(255)
	if x > 0 {
		prevA = e.pix[off-1]
	}
	t[0], t[1], t[2], t[3] = dy, du, dv, prevA-e.pix[off+3]
	return t
}

// decideFilters assigns one filter pair per tile. Every pair is scored
// by folded residual magnitude; under the default level the leading
// candidates are re-ranked by per-plane entropy estimates whose
// statistics accumulate tile over tile.
func (e *encoder) decideFilters() {
	scorer := newFilterScorer(sfCount * cfCount)
	var est [3]entropyEstimator
	size := 1 << e.tiles.tileBits

	type pt struct{ x, y int }
	pixels := make([]pt, 0, size*size)

	for ty := 0; ty < e.tiles.tilesY; ty++ {
		for tx := 0; tx < e.tiles.tilesX; tx++ {
			x0, y0 := tx<<e.tiles.tileBits, ty<<e.tiles.tileBits
			x1, y1 := min(x0+size, e.width), min(y0+size, e.height)

			pixels = pixels[:0]
			for y := y0; y < y1; y++ {
				for x := x0; x < x1; x++ {
					if !e.covered(x, y) {
						pixels = append(pixels, pt{x, y})
					}
				}
			}
			if len(pixels) == 0 {
				continue
			}

			scorer.reset()
			for cf := 0; cf < cfCount; cf++ {
				for sf := 0; sf < sfCount; sf++ {
					f := uint16(sf)<<8 | uint16(cf)
					idx := sf + cf*sfCount
					for _, p := range pixels {
						t := e.residual(p.x, p.y, f)
						scorer.add(idx, int(chaosFold[t[0]])+int(chaosFold[t[1]])+int(chaosFold[t[2]]))
					}
				}
			}

			best, score := scorer.lowest()
			if e.opts.CompressLevel != CompressFast && score > acceptScore {
				bestBits := -1.0
				for _, cand := range scorer.top(filterSelectFuzz) {
					f := uint16(cand%sfCount)<<8 | uint16(cand/sfCount)
					for i := range est {
						est[i].setup()
					}
					for _, p := range pixels {
						t := e.residual(p.x, p.y, f)
						est[0].push(t[0])
						est[1].push(t[1])
						est[2].push(t[2])
					}
					bits := est[0].entropy() + est[1].entropy() + est[2].entropy()
					if bestBits < 0 || bits < bestBits {
						bestBits = bits
						best = cand
						for i := range est {
							est[i].save()
						}
					}
				}
				for i := range est {
					est[i].commit()
				}
			}

			e.tiles.set(tx, ty, uint16(best%sfCount)<<8|uint16(best/sfCount))
		}
	}
}

// scan runs the raster pass. With w nil it gathers entropy statistics;
// with w set it emits the payload. Both modes evolve the chaos context
// and recent window identically, which the decoder reproduces.
func (e *encoder) scan(w *bitWriter) {
	chaos := newChaosContext(e.opts.ChaosLevels, e.width)
	var recent recentWindow

	for y := 0; y < e.height; y++ {
		for x := 0; x < e.width; x++ {
			if w != nil && e.tiles.tileOrigin(x, y) {
				e.tmEnc.writeTile(w, e.tiles.at(x, y))
			}
			if e.covered(x, y) {
				chaos.zero(x)
				continue
			}
			if w != nil && e.opts.DesyncChecks {
				w.WriteBits(uint32(x), 16)
				w.WriteBits(uint32(y), 16)
			}

			t := e.residual(x, y, e.tiles.at(x, y))

			var levels [colorPlanes]uint8
			for p := 0; p < colorPlanes; p++ {
				levels[p] = chaos.level(x, p)
			}

			if j := recent.find(t); j >= 0 {
				sym := 256 + j
				if w != nil {
					e.ent.writeSymbol(w, 0, levels[0], sym)
				} else {
					e.ent.push(0, levels[0], sym)
				}
			} else {
				for p := 0; p < colorPlanes; p++ {
					if w != nil {
						e.ent.writeSymbol(w, p, levels[p], int(t[p]))
					} else {
						e.ent.push(p, levels[p], int(t[p]))
					}
				}
			}

			chaos.set(x, t)
			recent.push(t)
		}
	}
}
