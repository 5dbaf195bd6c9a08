package voidos

// Window is a logical pixel grid backed by a shadow FrameBuffer, with an
// optional transparent color for chroma-key compositing. The shadow is
// always RGBX8, so opaque composition onto an RGBX8 destination is a
// straight row copy; onto a destination of any other format FrameBuffer.Copy
// fails with ErrUnknownPixelFormat.
type Window struct {
	shadow         *FrameBuffer
	transparent    PixelColor
	hasTransparent bool
	width, height  int
}

// NewWindow creates a width x height window with a heap-backed RGBX8 shadow
// buffer, initially filled with opaque black.
func NewWindow(width, height int) (*Window, error) {
	shadow, err := NewFrameBuffer(FrameBufferConfig{
		Width:       width,
		Height:      height,
		PixelFormat: PixelFormatRGBX8,
	})
	if err != nil {
		return nil, err
	}
	return &Window{shadow: shadow, width: width, height: height}, nil
}

func (w *Window) Width() int  { return w.width }
func (w *Window) Height() int { return w.height }

// Write implements PixelSink by writing directly into the shadow buffer.
func (w *Window) Write(pos Vec2, c PixelColor) { w.shadow.Write(pos, c) }

// At reads back a shadow pixel.
func (w *Window) At(pos Vec2) PixelColor { return w.shadow.Pixel(pos) }

// SetTransparentColor sets (or, with hasColor=false, clears) the chroma-key
// color used by DrawTo.
func (w *Window) SetTransparentColor(c PixelColor, hasColor bool) {
	w.transparent = c
	w.hasTransparent = hasColor
}

// DrawTo composites the window's shadow buffer onto dst at pos, clipped to
// area. With no transparent color set this is a single FrameBuffer.Copy;
// with one set, every pixel is compared and written individually — the
// O(w·h) path only the mouse cursor layer uses.
func (w *Window) DrawTo(dst *FrameBuffer, pos Vec2, area Rectangle) error {
	windowOutline := Rectangle{Pos: Vec2{}, Size: Vec2{w.width, w.height}}
	clipped := area.Intersect(Rectangle{Pos: pos, Size: windowOutline.Size})
	if clipped.Empty() {
		return nil
	}
	srcArea := Rectangle{Pos: clipped.Pos.Sub(pos), Size: clipped.Size}

	if !w.hasTransparent {
		return dst.Copy(clipped.Pos, w.shadow, srcArea)
	}

	for dy := 0; dy < srcArea.Size.Y; dy++ {
		for dx := 0; dx < srcArea.Size.X; dx++ {
			srcPos := srcArea.Pos.Add(Vec2{dx, dy})
			c := w.shadow.Pixel(srcPos)
			if c == w.transparent {
				continue
			}
			dst.Write(clipped.Pos.Add(Vec2{dx, dy}), c)
		}
	}
	return nil
}

// Move forwards to the shadow buffer's Move.
func (w *Window) Move(dstPos Vec2, srcRect Rectangle) {
	w.shadow.Move(dstPos, srcRect)
}

// Activate and Deactivate are no-op hooks on the base Window; ToplevelWindow
// overrides them to redraw its title bar highlight.
func (w *Window) Activate()   {}
func (w *Window) Deactivate() {}

const titleBarHeight = 24

// ToplevelWindow supplements the base Window with a title bar and a
// content sub-area, repainting the bar's highlight on focus changes.
type ToplevelWindow struct {
	Window
	title  string
	active bool
}

// NewToplevelWindow creates a window sized width x height for its content
// area, plus titleBarHeight additional rows for the title bar.
func NewToplevelWindow(width, height int, title string) (*ToplevelWindow, error) {
	base, err := NewWindow(width, height+titleBarHeight)
	if err != nil {
		return nil, err
	}
	tw := &ToplevelWindow{Window: *base, title: title}
	tw.drawTitleBar()
	return tw, nil
}

// InnerArea returns the rectangle, in window-local coordinates, below the
// title bar where content should be drawn.
func (tw *ToplevelWindow) InnerArea() Rectangle {
	return Rectangle{Pos: Vec2{0, titleBarHeight}, Size: Vec2{tw.Width(), tw.Height() - titleBarHeight}}
}

func (tw *ToplevelWindow) titleBarColor() PixelColor {
	if tw.active {
		return PixelColor{R: 0x00, G: 0x4f, B: 0xc3}
	}
	return PixelColor{R: 0x84, G: 0x84, B: 0x84}
}

// drawTitleBar paints the title bar strip and window border. Glyph
// rendering of tw.title is left to a host-side font layer; this package only
// owns pixel composition.
func (tw *ToplevelWindow) drawTitleBar() {
	FillRectangle(&tw.Window, Vec2{0, 0}, Vec2{tw.Width(), titleBarHeight}, tw.titleBarColor())
	DrawRectangle(&tw.Window, Vec2{0, 0}, Vec2{tw.Width(), tw.Height()}, PixelColor{R: 0x30, G: 0x30, B: 0x30})
}

// Title returns the window's title bar text.
func (tw *ToplevelWindow) Title() string { return tw.title }

// Activate highlights the title bar to indicate focus.
func (tw *ToplevelWindow) Activate() {
	tw.active = true
	tw.drawTitleBar()
}

// Deactivate restores the title bar's unfocused color.
func (tw *ToplevelWindow) Deactivate() {
	tw.active = false
	tw.drawTitleBar()
}
