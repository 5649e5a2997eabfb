package cpix

import "testing"

func TestNullMaskAndLZ(t *testing.T) {
	var m nullMask
	if m.Masked(0, 0) || m.Masked(100, 100) {
		t.Error("nullMask covers pixels")
	}
	if r, g, b, a := m.Color(); r != 0 || g != 0 || b != 0 || a != 0 {
		t.Errorf("nullMask color = (%d,%d,%d,%d), want zeros", r, g, b, a)
	}

	var z nullLZ
	if z.Visited(0, 0) || z.Visited(5, 5) {
		t.Error("nullLZ visits pixels")
	}
}

func TestColorMask(t *testing.T) {
	img := NewImage(4, 2)
	img.Set(0, 0, 1, 2, 3, 4)
	img.Set(2, 1, 1, 2, 3, 4)
	img.Set(3, 1, 1, 2, 3, 5)

	m := NewColorMask(img, 1, 2, 3, 4)

	if !m.Masked(0, 0) || !m.Masked(2, 1) {
		t.Error("matching pixels not covered")
	}
	if m.Masked(3, 1) {
		t.Error("pixel with different alpha covered")
	}
	if m.Masked(1, 0) {
		t.Error("zero pixel covered by non-zero mask color")
	}

	if r, g, b, a := m.Color(); r != 1 || g != 2 || b != 3 || a != 4 {
		t.Errorf("Color() = (%d,%d,%d,%d), want (1,2,3,4)", r, g, b, a)
	}
}

func TestImage_AtSet(t *testing.T) {
	img := NewImage(3, 2)
	img.Set(2, 1, 9, 8, 7, 6)
	if r, g, b, a := img.At(2, 1); r != 9 || g != 8 || b != 7 || a != 6 {
		t.Errorf("At(2,1) = (%d,%d,%d,%d), want (9,8,7,6)", r, g, b, a)
	}
	if r, g, b, a := img.At(0, 0); r != 0 || g != 0 || b != 0 || a != 0 {
		t.Errorf("At(0,0) = (%d,%d,%d,%d), want zeros", r, g, b, a)
	}
	if len(img.Pix) != 24 {
		t.Errorf("Pix length = %d, want 24", len(img.Pix))
	}
}
