package cpix

// DecodeOptions controls decoding. The Mask and LZ must match the ones
// the stream was encoded with; a mismatch desynchronizes the raster
// scan.
type DecodeOptions struct {
	// Mask marks pixels carried out of band; the mask color is written
	// in their place. nil means no mask.
	Mask Mask

	// LZ marks pixels already produced by a preceding match stage;
	// they are left untouched. nil means none.
	LZ LZ
}

func (o *DecodeOptions) normalized() DecodeOptions {
	var n DecodeOptions
	if o != nil {
		n = *o
	}
	if n.Mask == nil {
		n.Mask = nullMask{}
	}
	if n.LZ == nil {
		n.LZ = nullLZ{}
	}
	return n
}

// Decode decompresses an encoded stream into a freshly allocated Image.
func Decode(data []byte, opts *DecodeOptions) (*Image, error) {
	r := newBitReader(data)
	width, height, desync, err := readStreamHeader(r)
	if err != nil {
		return nil, err
	}
	img := NewImage(width, height)
	if err := decodeBody(r, img, desync, opts.normalized()); err != nil {
		return nil, err
	}
	return img, nil
}

// DecodeInto decompresses an encoded stream into img, whose dimensions
// must match the stream's.
func DecodeInto(img *Image, data []byte, opts *DecodeOptions) error {
	if err := img.validate(); err != nil {
		return err
	}
	r := newBitReader(data)
	width, height, desync, err := readStreamHeader(r)
	if err != nil {
		return err
	}
	if width != img.Width || height != img.Height {
		return ErrBadDimensions
	}
	return decodeBody(r, img, desync, opts.normalized())
}

func readStreamHeader(r *bitReader) (width, height int, desync bool, err error) {
	magic, err := r.ReadWord()
	if err != nil {
		return 0, 0, false, err
	}
	if magic != magicWord {
		return 0, 0, false, ErrBadMagic
	}
	wField, err := r.ReadBits(16)
	if err != nil {
		return 0, 0, false, err
	}
	hField, err := r.ReadBits(16)
	if err != nil {
		return 0, 0, false, err
	}
	flag, err := r.ReadBit()
	if err != nil {
		return 0, 0, false, err
	}
	return int(wField) + 1, int(hField) + 1, flag == 1, nil
}

func checkDesyncWord(r *bitReader) error {
	word, err := r.ReadWord()
	if err != nil {
		return err
	}
	if word != desyncWord {
		return ErrDesync
	}
	return nil
}

func decodeBody(r *bitReader, img *Image, desync bool, o DecodeOptions) error {
	var tmDec tileMapDecoder
	tiles, err := tmDec.readHeader(r, img.Width, img.Height)
	if err != nil {
		return err
	}
	if desync {
		if err := checkDesyncWord(r); err != nil {
			return err
		}
	}

	levelsField, err := r.ReadBits(4)
	if err != nil {
		return err
	}
	ent := newChaosDecoder(int(levelsField) + 1)
	if err := ent.readTables(r); err != nil {
		return err
	}
	if desync {
		if err := checkDesyncWord(r); err != nil {
			return err
		}
	}

	d := &decoder{
		img:   img,
		opts:  o,
		tiles: tiles,
		tmDec: &tmDec,
		ent:   ent,
	}
	return d.scan(r, desync)
}

type decoder struct {
	img   *Image
	opts  DecodeOptions
	tiles *tileMap
	tmDec *tileMapDecoder
	ent   *chaosDecoder
}

// scan reproduces the encoder's raster pass: tile symbols at tile
// origins, covered pixels skipped with a zeroed context cell, and one
// residual tuple per remaining pixel.
func (d *decoder) scan(r *bitReader, desync bool) error {
	width, height := d.img.Width, d.img.Height
	chaos := newChaosContext(d.ent.levels, width)
	var recent recentWindow

	mr, mg, mb, ma := d.opts.Mask.Color()

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if d.tiles.tileOrigin(x, y) {
				f, err := d.tmDec.readTile(r)
				if err != nil {
					return err
				}
				d.tiles.set(x>>d.tiles.tileBits, y>>d.tiles.tileBits, f)
			}
			if d.opts.Mask.Masked(x, y) {
				d.img.Set(x, y, mr, mg, mb, ma)
				chaos.zero(x)
				continue
			}
			if d.opts.LZ.Visited(x, y) {
				chaos.zero(x)
				continue
			}
			if desync {
				xField, err := r.ReadBits(16)
				if err != nil {
					return err
				}
				yField, err := r.ReadBits(16)
				if err != nil {
					return err
				}
				if int(xField) != x || int(yField) != y {
					return ErrDesync
				}
			}

			var levels [colorPlanes]uint8
			for p := 0; p < colorPlanes; p++ {
				levels[p] = chaos.level(x, p)
			}

			sym, err := d.ent.readSymbol(r, 0, levels[0])
			if err != nil {
				return err
			}

			var t [colorPlanes]uint8
			if sym >= 256 {
				t = recent.at(sym - 256)
			} else {
				t[0] = uint8(sym)
				for p := 1; p < colorPlanes; p++ {
					s, err := d.ent.readSymbol(r, p, levels[p])
					if err != nil {
						return err
					}
					t[p] = uint8(s)
				}
			}

			f := d.tiles.at(x, y)
			pr, pg, pb := predictRGB(d.img.Pix, x, y, width, int(f>>8))
			dr, dg, db := colorFilters[f&0xFF].inverse(t[0], t[1], t[2])

			prevA := uint8(255)
			if x > 0 {
				prevA = d.img.Pix[(y*width+x)*4-1]
			}

			d.img.Set(x, y, pr+dr, pg+dg, pb+db, prevA-t[3])
			chaos.set(x, t)
			recent.push(t)
		}
	}
	return nil
}
