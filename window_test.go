package voidos

import "testing"

func TestWindowDrawToOpaque(t *testing.T) {
	w, err := NewWindow(4, 4)
	if err != nil {
		t.Fatalf("NewWindow: %v", err)
	}
	c := PixelColor{R: 5, G: 6, B: 7}
	FillRectangle(w, Vec2{0, 0}, Vec2{4, 4}, c)

	dst := newTestFB(t, 10, 10)
	if err := w.DrawTo(dst, Vec2{2, 2}, Rectangle{Pos: Vec2{}, Size: Vec2{10, 10}}); err != nil {
		t.Fatalf("DrawTo: %v", err)
	}
	if got := dst.Pixel(Vec2{2, 2}); got != c {
		t.Fatalf("dst@(2,2) = %+v, want %+v", got, c)
	}
	if got := dst.Pixel(Vec2{5, 5}); got != c {
		t.Fatalf("dst@(5,5) = %+v, want %+v", got, c)
	}
}

func TestWindowDrawToTransparent(t *testing.T) {
	w, err := NewWindow(2, 1)
	if err != nil {
		t.Fatalf("NewWindow: %v", err)
	}
	transparent := PixelColor{R: 1, G: 2, B: 3}
	opaque := PixelColor{R: 9, G: 9, B: 9}
	w.Write(Vec2{0, 0}, transparent)
	w.Write(Vec2{1, 0}, opaque)
	w.SetTransparentColor(transparent, true)

	dst := newTestFB(t, 4, 4)
	FillRectangle(dst, Vec2{0, 0}, Vec2{4, 4}, PixelColor{R: 42, G: 42, B: 42})

	if err := w.DrawTo(dst, Vec2{0, 0}, Rectangle{Pos: Vec2{}, Size: Vec2{4, 4}}); err != nil {
		t.Fatalf("DrawTo: %v", err)
	}
	if got := dst.Pixel(Vec2{0, 0}); got != (PixelColor{R: 42, G: 42, B: 42}) {
		t.Fatalf("transparent pixel should be untouched, got %+v", got)
	}
	if got := dst.Pixel(Vec2{1, 0}); got != opaque {
		t.Fatalf("opaque pixel = %+v, want %+v", got, opaque)
	}
}

func TestWindowDrawToClips(t *testing.T) {
	w, err := NewWindow(10, 10)
	if err != nil {
		t.Fatalf("NewWindow: %v", err)
	}
	FillRectangle(w, Vec2{0, 0}, Vec2{10, 10}, PixelColor{R: 1})
	dst := newTestFB(t, 4, 4)

	if err := w.DrawTo(dst, Vec2{0, 0}, Rectangle{Pos: Vec2{}, Size: Vec2{4, 4}}); err != nil {
		t.Fatalf("DrawTo: %v", err)
	}
	if got := dst.Pixel(Vec2{3, 3}); got != (PixelColor{R: 1}) {
		t.Fatalf("corner pixel = %+v, want {R:1}", got)
	}
}

func TestToplevelWindowActivateRepaintsTitleBar(t *testing.T) {
	tw, err := NewToplevelWindow(100, 80, "console")
	if err != nil {
		t.Fatalf("NewToplevelWindow: %v", err)
	}
	inactive := tw.At(Vec2{50, 5})
	tw.Activate()
	active := tw.At(Vec2{50, 5})
	if inactive == active {
		t.Fatal("Activate should change the title bar color")
	}
	tw.Deactivate()
	if got := tw.At(Vec2{50, 5}); got != inactive {
		t.Fatalf("Deactivate should restore inactive color, got %+v want %+v", got, inactive)
	}
}

func TestToplevelWindowInnerArea(t *testing.T) {
	tw, err := NewToplevelWindow(100, 80, "console")
	if err != nil {
		t.Fatalf("NewToplevelWindow: %v", err)
	}
	inner := tw.InnerArea()
	if inner.Pos.Y != titleBarHeight || inner.Size.Y != 80 {
		t.Fatalf("InnerArea = %+v, want pos.Y=%d size.Y=80", inner, titleBarHeight)
	}
}
