package voidos

import "testing"

func newTestLayerManager(t *testing.T, w, h int) *LayerManager {
	t.Helper()
	screen := newTestFB(t, w, h)
	m, err := NewLayerManager(screen)
	if err != nil {
		t.Fatalf("NewLayerManager: %v", err)
	}
	return m
}

func solidLayer(t *testing.T, m *LayerManager, size Vec2, pos Vec2, c PixelColor) *Layer {
	t.Helper()
	win, err := NewWindow(size.X, size.Y)
	if err != nil {
		t.Fatalf("NewWindow: %v", err)
	}
	FillRectangle(win, Vec2{}, size, c)
	l := m.NewLayer()
	l.SetWindow(win).Move(pos)
	return l
}

func TestLayerManagerNewLayerIDsStartAtOne(t *testing.T) {
	m := newTestLayerManager(t, 10, 10)
	l1 := m.NewLayer()
	l2 := m.NewLayer()
	if l1.ID() != 1 || l2.ID() != 2 {
		t.Fatalf("ids = %d, %d; want 1, 2", l1.ID(), l2.ID())
	}
	if m.GetHeight(l1.ID()) != -1 {
		t.Fatal("newly allocated layer must not be in the stack")
	}
}

func TestLayerManagerUpDownInsertAndClamp(t *testing.T) {
	m := newTestLayerManager(t, 10, 10)
	a := solidLayer(t, m, Vec2{2, 2}, Vec2{0, 0}, PixelColor{R: 1})
	b := solidLayer(t, m, Vec2{2, 2}, Vec2{0, 0}, PixelColor{R: 2})
	c := solidLayer(t, m, Vec2{2, 2}, Vec2{0, 0}, PixelColor{R: 3})

	m.UpDown(a.ID(), 100) // clamp to 0 (empty stack)
	if m.GetHeight(a.ID()) != 0 {
		t.Fatalf("GetHeight(a) = %d, want 0", m.GetHeight(a.ID()))
	}
	m.UpDown(b.ID(), 0)
	if m.GetHeight(b.ID()) != 0 || m.GetHeight(a.ID()) != 1 {
		t.Fatalf("after inserting b below a: b=%d a=%d", m.GetHeight(b.ID()), m.GetHeight(a.ID()))
	}
	m.UpDown(c.ID(), 1)
	if m.GetHeight(c.ID()) != 1 {
		t.Fatalf("GetHeight(c) = %d, want 1", m.GetHeight(c.ID()))
	}
}

func TestLayerManagerHide(t *testing.T) {
	m := newTestLayerManager(t, 10, 10)
	a := solidLayer(t, m, Vec2{2, 2}, Vec2{0, 0}, PixelColor{R: 1})
	m.UpDown(a.ID(), 0)
	m.Hide(a.ID())
	if m.GetHeight(a.ID()) != -1 {
		t.Fatal("Hide should remove the layer from the stack")
	}
}

func TestLayerManagerDrawComposesBottomUp(t *testing.T) {
	m := newTestLayerManager(t, 10, 10)
	bottom := solidLayer(t, m, Vec2{10, 10}, Vec2{0, 0}, PixelColor{R: 1})
	top := solidLayer(t, m, Vec2{4, 4}, Vec2{2, 2}, PixelColor{R: 2})
	m.UpDown(bottom.ID(), 0)
	m.UpDown(top.ID(), 1)

	if err := m.Draw(Rectangle{Pos: Vec2{}, Size: Vec2{10, 10}}); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if got := m.screen.Pixel(Vec2{0, 0}); got != (PixelColor{R: 1}) {
		t.Fatalf("bottom-only pixel = %+v, want {R:1}", got)
	}
	if got := m.screen.Pixel(Vec2{3, 3}); got != (PixelColor{R: 2}) {
		t.Fatalf("overlapped pixel = %+v, want top color {R:2}", got)
	}
}

func TestLayerManagerMoveRedrawsBothRegions(t *testing.T) {
	m := newTestLayerManager(t, 10, 10)
	bottom := solidLayer(t, m, Vec2{10, 10}, Vec2{0, 0}, PixelColor{R: 9})
	moving := solidLayer(t, m, Vec2{2, 2}, Vec2{0, 0}, PixelColor{R: 1})
	m.UpDown(bottom.ID(), 0)
	m.UpDown(moving.ID(), 1)
	if err := m.Draw(Rectangle{Pos: Vec2{}, Size: Vec2{10, 10}}); err != nil {
		t.Fatalf("Draw: %v", err)
	}

	if err := m.Move(moving.ID(), Vec2{5, 5}); err != nil {
		t.Fatalf("Move: %v", err)
	}
	if got := m.screen.Pixel(Vec2{0, 0}); got != (PixelColor{R: 9}) {
		t.Fatalf("vacated region = %+v, want bottom color {R:9}", got)
	}
	if got := m.screen.Pixel(Vec2{5, 5}); got != (PixelColor{R: 1}) {
		t.Fatalf("new region = %+v, want moving color {R:1}", got)
	}
}

func TestLayerManagerFindLayerByPosition(t *testing.T) {
	m := newTestLayerManager(t, 10, 10)
	a := solidLayer(t, m, Vec2{4, 4}, Vec2{0, 0}, PixelColor{R: 1})
	b := solidLayer(t, m, Vec2{4, 4}, Vec2{2, 2}, PixelColor{R: 2})
	m.UpDown(a.ID(), 0)
	m.UpDown(b.ID(), 1)

	found := m.FindLayerByPosition(Vec2{3, 3}, 0)
	if found == nil || found.ID() != b.ID() {
		t.Fatalf("FindLayerByPosition should find top layer b, got %v", found)
	}
	excluded := m.FindLayerByPosition(Vec2{3, 3}, b.ID())
	if excluded == nil || excluded.ID() != a.ID() {
		t.Fatalf("FindLayerByPosition with b excluded should find a, got %v", excluded)
	}
	none := m.FindLayerByPosition(Vec2{9, 9}, 0)
	if none != nil {
		t.Fatalf("FindLayerByPosition outside all layers should be nil, got %v", none)
	}
}

func TestLayerManagerDrawLayerFastPath(t *testing.T) {
	m := newTestLayerManager(t, 10, 10)
	bottom := solidLayer(t, m, Vec2{10, 10}, Vec2{0, 0}, PixelColor{R: 9})
	top := solidLayer(t, m, Vec2{4, 4}, Vec2{2, 2}, PixelColor{R: 3})
	m.UpDown(bottom.ID(), 0)
	m.UpDown(top.ID(), 1)

	if err := m.DrawLayer(top.ID()); err != nil {
		t.Fatalf("DrawLayer: %v", err)
	}
	if got := m.screen.Pixel(Vec2{3, 3}); got != (PixelColor{R: 3}) {
		t.Fatalf("top layer region = %+v, want {R:3}", got)
	}
}
