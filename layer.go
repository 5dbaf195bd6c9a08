package voidos

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// layerWindow is the subset of Window (and ToplevelWindow) a Layer needs.
type layerWindow interface {
	Width() int
	Height() int
	DrawTo(dst *FrameBuffer, pos Vec2, area Rectangle) error
}

// Layer binds a window to a screen position.
type Layer struct {
	id        uint32
	pos       Vec2
	window    layerWindow
	draggable bool
}

// ID returns the layer's identifier.
func (l *Layer) ID() uint32 { return l.id }

// SetWindow attaches window to the layer and returns the layer for chaining.
func (l *Layer) SetWindow(w layerWindow) *Layer {
	l.window = w
	return l
}

// Window returns the layer's attached window, or nil.
func (l *Layer) Window() layerWindow { return l.window }

// SetDraggable marks whether ActiveLayer should treat this layer as
// draggable on mouse-button-down.
func (l *Layer) SetDraggable(d bool) *Layer {
	l.draggable = d
	return l
}

// Draggable reports the layer's draggable flag.
func (l *Layer) Draggable() bool { return l.draggable }

// Position returns the layer's current screen position.
func (l *Layer) Position() Vec2 { return l.pos }

// Move sets the layer's screen position directly (used internally by
// LayerManager; callers wanting dirty-region tracking use
// LayerManager.Move).
func (l *Layer) Move(pos Vec2) *Layer {
	l.pos = pos
	return l
}

// MoveRelative shifts the layer's position by diff.
func (l *Layer) MoveRelative(diff Vec2) *Layer {
	l.pos = l.pos.Add(diff)
	return l
}

// bounds returns the layer's screen-space outline, or the empty rectangle
// if it has no window.
func (l *Layer) bounds() Rectangle {
	if l.window == nil {
		return Rectangle{}
	}
	return Rectangle{Pos: l.pos, Size: Vec2{l.window.Width(), l.window.Height()}}
}

func (l *Layer) drawTo(dst *FrameBuffer, area Rectangle) error {
	if l.window == nil {
		return nil
	}
	return l.window.DrawTo(dst, l.pos, area)
}

// compositeBands is the number of horizontal strips Draw splits an area into
// for parallel compositing. Each strip composes independently since layer
// draws never write outside their own rows.
const compositeBands = 4

// LayerManager is the compositor: it owns every allocated Layer plus an
// ordered stack (bottom-to-top) and composites into a back buffer before
// copying the result to screen.
type LayerManager struct {
	screen     *FrameBuffer
	backBuffer *FrameBuffer
	layers     []*Layer
	layerStack []*Layer
	latestID   uint32
}

// NewLayerManager creates a manager drawing into screen, allocating a
// back buffer of matching format and dimensions.
func NewLayerManager(screen *FrameBuffer) (*LayerManager, error) {
	back, err := NewFrameBuffer(FrameBufferConfig{
		Width:       screen.Width(),
		Height:      screen.Height(),
		PixelFormat: screen.Config().PixelFormat,
	})
	if err != nil {
		return nil, err
	}
	return &LayerManager{screen: screen, backBuffer: back}, nil
}

// NewLayer allocates a layer with a fresh, monotonically increasing id
// (first id = 1). The layer is not inserted into the stack; UpDown does
// that.
func (m *LayerManager) NewLayer() *Layer {
	m.latestID++
	l := &Layer{id: m.latestID}
	m.layers = append(m.layers, l)
	return l
}

// Layer looks up an allocated layer by id, or returns nil if none matches.
func (m *LayerManager) Layer(id uint32) *Layer {
	return m.findLayer(id)
}

func (m *LayerManager) findLayer(id uint32) *Layer {
	for _, l := range m.layers {
		if l.id == id {
			return l
		}
	}
	return nil
}

func (m *LayerManager) stackIndex(id uint32) int {
	for i, l := range m.layerStack {
		if l.id == id {
			return i
		}
	}
	return -1
}

// UpDown reorders id's position within the stack. newHeight < 0 hides the
// layer; values beyond the stack length are clamped. When the clamped
// reinsertion point lands exactly at the end of the stack it is decremented
// by one so newHeight still names the final index after the move.
func (m *LayerManager) UpDown(id uint32, newHeight int) {
	if newHeight < 0 {
		m.Hide(id)
		return
	}
	if newHeight > len(m.layerStack) {
		newHeight = len(m.layerStack)
	}

	layer := m.findLayer(id)
	if layer == nil {
		return
	}
	oldIdx := m.stackIndex(id)

	if oldIdx == -1 {
		m.layerStack = insertLayer(m.layerStack, newHeight, layer)
		return
	}

	withoutOld := removeLayerAt(m.layerStack, oldIdx)
	insertAt := newHeight
	if insertAt == len(m.layerStack) {
		insertAt--
	}
	m.layerStack = insertLayer(withoutOld, insertAt, layer)
}

func insertLayer(stack []*Layer, at int, l *Layer) []*Layer {
	stack = append(stack, nil)
	copy(stack[at+1:], stack[at:])
	stack[at] = l
	return stack
}

func removeLayerAt(stack []*Layer, at int) []*Layer {
	out := make([]*Layer, 0, len(stack)-1)
	out = append(out, stack[:at]...)
	return append(out, stack[at+1:]...)
}

// Hide removes id from the stack if present.
func (m *LayerManager) Hide(id uint32) {
	if idx := m.stackIndex(id); idx != -1 {
		m.layerStack = removeLayerAt(m.layerStack, idx)
	}
}

// Move repositions id and redraws the union of the rectangle it vacated and
// the rectangle it now occupies.
func (m *LayerManager) Move(id uint32, newPos Vec2) error {
	layer := m.findLayer(id)
	if layer == nil {
		return ErrIndexOutOfRange
	}
	oldArea := layer.bounds()
	layer.Move(newPos)
	if err := m.drawArea(oldArea); err != nil {
		return err
	}
	return m.DrawLayer(id)
}

// MoveRelative is Move by a delta instead of an absolute position.
func (m *LayerManager) MoveRelative(id uint32, diff Vec2) error {
	layer := m.findLayer(id)
	if layer == nil {
		return ErrIndexOutOfRange
	}
	return m.Move(id, layer.pos.Add(diff))
}

// Draw composites every layer in the stack, bottom-up, into back_buffer
// clipped to area, then copies area from back_buffer to screen.
func (m *LayerManager) Draw(area Rectangle) error {
	return m.drawArea(area)
}

// DrawLayer composites only layers at or above id's position in the stack,
// the fast path for moving the topmost opaque layer. The dirty region is
// the layer's own bounds.
func (m *LayerManager) DrawLayer(id uint32) error {
	idx := m.stackIndex(id)
	if idx == -1 {
		return nil
	}
	area := m.layerStack[idx].bounds()
	return m.compositeAndCopy(area, m.layerStack[idx:])
}

func (m *LayerManager) drawArea(area Rectangle) error {
	return m.compositeAndCopy(area, m.layerStack)
}

func (m *LayerManager) compositeAndCopy(area Rectangle, stack []*Layer) error {
	clipped := area.Intersect(Rectangle{Pos: Vec2{}, Size: Vec2{m.backBuffer.Width(), m.backBuffer.Height()}})
	if clipped.Empty() {
		return nil
	}

	bandHeight := (clipped.Size.Y + compositeBands - 1) / compositeBands
	if bandHeight == 0 {
		bandHeight = clipped.Size.Y
	}

	g, _ := errgroup.WithContext(context.Background())
	for y := clipped.Pos.Y; y < clipped.Pos.Y+clipped.Size.Y; y += bandHeight {
		band := Rectangle{
			Pos:  Vec2{clipped.Pos.X, y},
			Size: Vec2{clipped.Size.X, min(bandHeight, clipped.Pos.Y+clipped.Size.Y-y)},
		}
		g.Go(func() error {
			for _, l := range stack {
				if err := l.drawTo(m.backBuffer, band); err != nil {
					return err
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	return m.screen.Copy(clipped.Pos, m.backBuffer, clipped)
}

// FindLayerByPosition performs a top-down scan of the stack, returning the
// first layer whose bounds contain p and whose id differs from excludeID.
func (m *LayerManager) FindLayerByPosition(p Vec2, excludeID uint32) *Layer {
	for i := len(m.layerStack) - 1; i >= 0; i-- {
		l := m.layerStack[i]
		if l.id == excludeID {
			continue
		}
		if l.bounds().Contains(p) {
			return l
		}
	}
	return nil
}

// GetHeight returns id's index in the stack, or -1 if hidden.
func (m *LayerManager) GetHeight(id uint32) int {
	return m.stackIndex(id)
}
