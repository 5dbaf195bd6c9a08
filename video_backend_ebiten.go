//go:build !headless

package voidos

import (
	"fmt"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"golang.design/x/clipboard"

	"github.com/nullframe/voidos/kernlog"
)

func init() {
	registerVideoBackend(BackendEbiten, newEbitenOutput)
}

// ebitenOutput is the default screen backend: a compositor-written frame
// blitted into an *ebiten.Image each Draw, keyboard/mouse polled each
// Update and forwarded to an InputRouter.
type ebitenOutput struct {
	mu          sync.RWMutex
	running     bool
	width       int
	height      int
	scale       int
	format      PixelFormat
	rgba        []byte // ebiten wants RGBA byte order regardless of format
	image       *ebiten.Image
	frameCount  uint64
	vsyncChan   chan struct{}
	router      InputRouter
	lastMouse   Vec2
	mouseButton bool

	clipboardOnce sync.Once
	clipboardOK   bool
}

func newEbitenOutput(width, height int, format PixelFormat, scale int) (VideoOutput, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: ebiten backend needs positive dimensions", ErrInvalidFormat)
	}
	return &ebitenOutput{
		width:     width,
		height:    height,
		format:    format,
		scale:     ClampScale(scale),
		rgba:      make([]byte, bytesPerPixel*width*height),
		vsyncChan: make(chan struct{}, 1),
	}, nil
}

// ClampScale bounds the integer window-scale factor to a sane range.
func ClampScale(s int) int {
	if s < 1 {
		return 1
	}
	if s > 4 {
		return 4
	}
	return s
}

func (eo *ebitenOutput) Width() int  { return eo.width }
func (eo *ebitenOutput) Height() int { return eo.height }

func (eo *ebitenOutput) Start() error {
	eo.mu.Lock()
	if eo.running {
		eo.mu.Unlock()
		return nil
	}
	eo.running = true
	eo.mu.Unlock()

	ebiten.SetWindowSize(eo.width*eo.scale, eo.height*eo.scale)
	ebiten.SetWindowTitle("voidos")
	ebiten.SetWindowResizable(true)
	ebiten.SetRunnableOnUnfocused(true)
	ebiten.SetVsyncEnabled(true)

	go func() {
		if err := ebiten.RunGame(eo); err != nil {
			kernlog.Errorf("voidos: ebiten backend exited: %v\n", err)
		}
	}()

	<-eo.vsyncChan
	return nil
}

func (eo *ebitenOutput) Stop() error {
	eo.mu.Lock()
	eo.running = false
	eo.mu.Unlock()
	return nil
}

func (eo *ebitenOutput) IsStarted() bool {
	eo.mu.RLock()
	defer eo.mu.RUnlock()
	return eo.running
}

// UpdateFrame converts a composited RGBX8/BGRX8 frame into the RGBA byte
// order ebiten.Image.WritePixels expects.
func (eo *ebitenOutput) UpdateFrame(frame []byte) error {
	if len(frame) != len(eo.rgba) {
		return fmt.Errorf("%w: frame size %d, want %d", ErrInvalidFormat, len(frame), len(eo.rgba))
	}
	eo.mu.Lock()
	defer eo.mu.Unlock()
	for i := 0; i+4 <= len(frame); i += 4 {
		c := readPixel(frame, i, eo.format)
		eo.rgba[i] = c.R
		eo.rgba[i+1] = c.G
		eo.rgba[i+2] = c.B
		eo.rgba[i+3] = 0xFF
	}
	return nil
}

func (eo *ebitenOutput) SetInputRouter(r InputRouter) {
	eo.mu.Lock()
	eo.router = r
	eo.mu.Unlock()
}

// Draw implements ebiten.Game.
func (eo *ebitenOutput) Draw(screen *ebiten.Image) {
	eo.mu.Lock()
	if eo.image == nil {
		eo.image = ebiten.NewImage(eo.width, eo.height)
	}
	eo.image.WritePixels(eo.rgba)
	eo.mu.Unlock()

	screen.DrawImage(eo.image, nil)
	eo.frameCount++
	select {
	case eo.vsyncChan <- struct{}{}:
	default:
	}
}

// Layout implements ebiten.Game.
func (eo *ebitenOutput) Layout(_, _ int) (int, int) { return eo.width, eo.height }

// Update implements ebiten.Game: polls keyboard/mouse and forwards
// translated events to the registered InputRouter, the host-side stand-in
// for the USB HID -> message pipeline.
func (eo *ebitenOutput) Update() error {
	if ebiten.IsWindowBeingClosed() {
		return ebiten.Termination
	}
	eo.mu.RLock()
	running := eo.running
	router := eo.router
	eo.mu.RUnlock()
	if !running {
		return ebiten.Termination
	}
	if router == nil {
		return nil
	}
	eo.pollMouse(router)
	eo.pollKeyboard(router)
	return nil
}

func (eo *ebitenOutput) pollMouse(router InputRouter) {
	x, y := ebiten.CursorPosition()
	pos := Vec2{x, y}
	delta := pos.Sub(eo.lastMouse)
	eo.lastMouse = pos

	var buttons byte
	pressed := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	if pressed {
		buttons = 1
	}
	if delta.X != 0 || delta.Y != 0 {
		router.RouteMouseMove(pos, delta, buttons)
	}
	if pressed != eo.mouseButton {
		eo.mouseButton = pressed
		router.RouteMouseButton(pressed)
	}
}

func (eo *ebitenOutput) pollKeyboard(router InputRouter) {
	ctrl := ebiten.IsKeyPressed(ebiten.KeyControlLeft) || ebiten.IsKeyPressed(ebiten.KeyControlRight)
	shift := ebiten.IsKeyPressed(ebiten.KeyShiftLeft) || ebiten.IsKeyPressed(ebiten.KeyShiftRight)
	var modifier byte
	if ctrl {
		modifier |= 0x01
	}
	if shift {
		modifier |= 0x02
	}

	if ctrl && shift && inpututil.IsKeyJustPressed(ebiten.KeyV) {
		eo.handleClipboardPaste(router, modifier)
	}

	for _, r := range ebiten.AppendInputChars(nil) {
		if r > 0 && r <= 0xFF {
			router.RouteKeyPush(modifier, 0, byte(r))
		}
	}

	for key, ascii := range specialKeyASCII {
		if inpututil.IsKeyJustPressed(key) {
			router.RouteKeyPush(modifier, 0, ascii)
		}
	}
}

var specialKeyASCII = map[ebiten.Key]byte{
	ebiten.KeyEnter:     '\n',
	ebiten.KeyBackspace: '\b',
	ebiten.KeyTab:       '\t',
	ebiten.KeyEscape:    0x1B,
}

func (eo *ebitenOutput) handleClipboardPaste(router InputRouter, modifier byte) {
	eo.clipboardOnce.Do(func() {
		eo.clipboardOK = clipboard.Init() == nil
	})
	if !eo.clipboardOK {
		return
	}
	data := clipboard.Read(clipboard.FmtText)
	for _, b := range data {
		if b == '\r' {
			continue
		}
		router.RouteKeyPush(modifier, 0, b)
	}
}
