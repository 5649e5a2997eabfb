package cpix

// Tile filter map. The image is divided into square tiles of side
// 1<<tileBits; each tile carries one spatial/color filter pair encoded
// as (sf<<8)|cf, or unusedFilter when mask/LZ covers the whole tile.
//
// On the wire the map travels as two Huffman streams, one for spatial
// ids and one for color ids, with symbols interleaved into the payload
// at tile-origin pixels. Unused tiles are replaced by a surrogate (the
// most common used spatial id paired with the most common used color
// id) before emission so the decoder reads a symbol at every tile
// origin without knowing coverage.

const (
	minTileBits = 1
	maxTileBits = 8

	defaultTileBits = 2
)

type tileMap struct {
	tileBits int
	tilesX   int
	tilesY   int
	filters  []uint16
}

func newTileMap(width, height, tileBits int) *tileMap {
	size := 1 << tileBits
	t := &tileMap{
		tileBits: tileBits,
		tilesX:   (width + size - 1) >> tileBits,
		tilesY:   (height + size - 1) >> tileBits,
	}
	t.filters = make([]uint16, t.tilesX*t.tilesY)
	for i := range t.filters {
		t.filters[i] = unusedFilter
	}
	return t
}

// at returns the filter pair covering pixel (x, y).
func (t *tileMap) at(x, y int) uint16 {
	return t.filters[(y>>t.tileBits)*t.tilesX+(x>>t.tileBits)]
}

// set assigns the filter pair of tile (tx, ty).
func (t *tileMap) set(tx, ty int, f uint16) {
	t.filters[ty*t.tilesX+tx] = f
}

// tileOrigin reports whether (x, y) is the top-left pixel of its tile.
func (t *tileMap) tileOrigin(x, y int) bool {
	mask := 1<<t.tileBits - 1
	return x&mask == 0 && y&mask == 0
}

// tileMapEncoder serializes a tile map. Spatial ids are remapped onto a
// dense subset of the ids actually used, listed in the header, so a map
// that touches few filters pays only for those.
type tileMapEncoder struct {
	sfIDs   []uint8
	sfSym   [sfCount]int
	sfCoder huffmanEncoder
	cfCoder huffmanEncoder
}

// init replaces unused tiles with the surrogate pair and builds both
// code tables.
func (e *tileMapEncoder) init(t *tileMap) {
	sfPeakHist := newFreqHistogram(sfCount)
	cfPeakHist := newFreqHistogram(cfCount)
	for _, f := range t.filters {
		if f == unusedFilter {
			continue
		}
		sfPeakHist.add(int(f >> 8))
		cfPeakHist.add(int(f & 0xFF))
	}
	surrogate := uint16(sfPeakHist.firstHighestPeak())<<8 | uint16(cfPeakHist.firstHighestPeak())
	for i, f := range t.filters {
		if f == unusedFilter {
			t.filters[i] = surrogate
		}
	}

	var sfUsed [sfCount]bool
	for _, f := range t.filters {
		sfUsed[f>>8] = true
	}
	e.sfIDs = e.sfIDs[:0]
	for id, used := range sfUsed {
		if used {
			e.sfSym[id] = len(e.sfIDs)
			e.sfIDs = append(e.sfIDs, uint8(id))
		}
	}

	sfHist := newFreqHistogram(len(e.sfIDs))
	cfHist := newFreqHistogram(cfCount)
	for _, f := range t.filters {
		sfHist.add(e.sfSym[f>>8])
		cfHist.add(int(f & 0xFF))
	}
	e.sfCoder.init(sfHist)
	e.cfCoder.init(cfHist)
}

// writeHeader emits the tile geometry, the spatial id subset, and both
// code-length tables.
func (e *tileMapEncoder) writeHeader(w *bitWriter, t *tileMap) {
	w.WriteBits(uint32(t.tileBits-1), 3)
	w.WriteBits(uint32(len(e.sfIDs)-1), 5)
	for _, id := range e.sfIDs {
		w.WriteBits(uint32(id), 7)
	}
	e.sfCoder.writeTable(w)
	e.cfCoder.writeTable(w)
}

// writeTile emits the filter pair of one tile.
func (e *tileMapEncoder) writeTile(w *bitWriter, f uint16) {
	e.sfCoder.writeSymbol(w, e.sfSym[f>>8])
	e.cfCoder.writeSymbol(w, int(f&0xFF))
}

// tileMapDecoder mirrors tileMapEncoder.
type tileMapDecoder struct {
	sfIDs   []uint8
	sfCoder huffmanDecoder
	cfCoder huffmanDecoder
}

// readHeader parses the tile geometry and code tables and returns an
// empty tile map for the given image dimensions.
func (d *tileMapDecoder) readHeader(r *bitReader, width, height int) (*tileMap, error) {
	bitsField, err := r.ReadBits(3)
	if err != nil {
		return nil, err
	}
	tileBits := int(bitsField) + 1

	countField, err := r.ReadBits(5)
	if err != nil {
		return nil, err
	}
	n := int(countField) + 1
	d.sfIDs = make([]uint8, n)
	for i := range d.sfIDs {
		id, err := r.ReadBits(7)
		if err != nil {
			return nil, err
		}
		if id >= sfCount {
			return nil, ErrBadFilterID
		}
		d.sfIDs[i] = uint8(id)
	}

	sfLengths, err := readCodeLengths(r, n)
	if err != nil {
		return nil, err
	}
	if err := d.sfCoder.init(sfLengths); err != nil {
		return nil, err
	}
	cfLengths, err := readCodeLengths(r, cfCount)
	if err != nil {
		return nil, err
	}
	if err := d.cfCoder.init(cfLengths); err != nil {
		return nil, err
	}

	return newTileMap(width, height, tileBits), nil
}

// readTile decodes one tile's filter pair.
func (d *tileMapDecoder) readTile(r *bitReader) (uint16, error) {
	sfSym, err := d.sfCoder.decode(r)
	if err != nil {
		return 0, err
	}
	if sfSym >= len(d.sfIDs) {
		return 0, ErrBadFilterID
	}
	cf, err := d.cfCoder.decode(r)
	if err != nil {
		return 0, err
	}
	if cf >= cfCount {
		return 0, ErrBadFilterID
	}
	return uint16(d.sfIDs[sfSym])<<8 | uint16(cf), nil
}
