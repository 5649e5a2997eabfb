package cpix

const (
	// planes coded per pixel: Y, U, V, A
	colorPlanes = 4

	// recent-symbol window size; Y symbols 256..256+recentSyms-1 are
	// match indices
	recentSyms = 8

	defaultChaosLevels = 8
	maxChaosLevels     = 16
)

// chaosFold maps a residual byte to a small magnitude: values near 0 or
// 256 fold to small numbers, values near 128 fold to large ones.
var chaosFold [256]uint8

func init() {
	for i := range chaosFold {
		if i < 128 {
			chaosFold[i] = uint8(i)
		} else {
			chaosFold[i] = uint8(256 - i)
		}
	}
}

// buildChaosTable maps the sum of two folded residuals (0..256) to a
// chaos level in {0..levels-1}. Buckets grow exponentially so that
// levels are roughly equiprobable over natural images.
func buildChaosTable(levels int) []uint8 {
	table := make([]uint8, 257)
	for sum := range table {
		bits := 0
		for v := sum; v > 0; v >>= 1 {
			bits++
		}
		if bits > levels-1 {
			bits = levels - 1
		}
		table[sum] = uint8(bits)
	}
	return table
}

// chaosContext tracks the residual tuples of the previous scanline and
// of the current scanline left of the cursor. A single row buffer is
// reused: position x holds the previous row's tuple until the current
// row's tuple overwrites it, so the "above" value must be read before
// set is called for that column.
type chaosContext struct {
	table []uint8
	row   []uint8 // width * colorPlanes
}

func newChaosContext(levels, width int) *chaosContext {
	return &chaosContext{
		table: buildChaosTable(levels),
		row:   make([]uint8, width*colorPlanes),
	}
}

// reset clears the context before a raster pass.
func (c *chaosContext) reset() {
	clear(c.row)
}

// level returns the chaos level for plane p at column x. The left
// neighbor is the current row's tuple at x-1, the above neighbor is the
// previous row's tuple at x; a missing side contributes 0.
func (c *chaosContext) level(x, p int) uint8 {
	var left uint8
	if x > 0 {
		left = c.row[(x-1)*colorPlanes+p]
	}
	above := c.row[x*colorPlanes+p]
	return c.table[int(chaosFold[left])+int(chaosFold[above])]
}

// set records the residual tuple just coded at column x.
func (c *chaosContext) set(x int, t [colorPlanes]uint8) {
	copy(c.row[x*colorPlanes:], t[:])
}

// zero clears the context cell at column x (mask/LZ covered pixel).
func (c *chaosContext) zero(x int) {
	off := x * colorPlanes
	for i := 0; i < colorPlanes; i++ {
		c.row[off+i] = 0
	}
}

// recentWindow is a ring of the last recentSyms residual tuples emitted
// in raster order. Index j addresses the j-th previous tuple. The ring
// starts zeroed on both the encode and decode sides, so pre-fill zero
// tuples are legitimate match targets.
type recentWindow struct {
	ring [recentSyms][colorPlanes]uint8
	pos  int
}

// find returns the index of the most recent tuple equal to t, or -1.
func (w *recentWindow) find(t [colorPlanes]uint8) int {
	for j := 0; j < recentSyms; j++ {
		idx := (w.pos - 1 - j + recentSyms) % recentSyms
		if w.ring[idx] == t {
			return j
		}
	}
	return -1
}

// at returns the j-th previous tuple.
func (w *recentWindow) at(j int) [colorPlanes]uint8 {
	return w.ring[(w.pos-1-j+recentSyms)%recentSyms]
}

// push records a just-emitted tuple.
func (w *recentWindow) push(t [colorPlanes]uint8) {
	w.ring[w.pos] = t
	w.pos = (w.pos + 1) % recentSyms
}
