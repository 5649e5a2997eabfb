package cpix

// Mask marks pixels whose RGBA value is fully determined elsewhere, so
// the context-model pass skips them. A masked pixel contributes nothing
// to filter scoring or entropy statistics; the decoder writes the mask
// color in its place. Both sides must consult the same mask.
type Mask interface {
	// Masked reports whether the pixel at (x, y) is covered.
	Masked(x, y int) bool
	// Color returns the RGBA value written for covered pixels.
	Color() (r, g, b, a uint8)
}

// LZ marks pixels already produced by a match stage that runs before
// the context model. Visited pixels are skipped exactly like masked
// ones but keep whatever value the match stage wrote.
type LZ interface {
	// Visited reports whether the pixel at (x, y) was emitted by the
	// match stage.
	Visited(x, y int) bool
}

type nullMask struct{}

func (nullMask) Masked(x, y int) bool      { return false }
func (nullMask) Color() (r, g, b, a uint8) { return 0, 0, 0, 0 }

type nullLZ struct{}

func (nullLZ) Visited(x, y int) bool { return false }

// colorMask covers every pixel equal to one RGBA value. It is the
// simplest useful Mask: fully transparent or single-color backgrounds
// drop out of the coded stream entirely.
type colorMask struct {
	img        *Image
	r, g, b, a uint8
}

// NewColorMask builds a Mask covering every pixel of img that equals
// the given RGBA value.
func NewColorMask(img *Image, r, g, b, a uint8) Mask {
	return &colorMask{img: img, r: r, g: g, b: b, a: a}
}

func (m *colorMask) Masked(x, y int) bool {
	off := (y*m.img.Width + x) * 4
	p := m.img.Pix
	return p[off] == m.r && p[off+1] == m.g && p[off+2] == m.b && p[off+3] == m.a
}

func (m *colorMask) Color() (r, g, b, a uint8) {
	return m.r, m.g, m.b, m.a
}
