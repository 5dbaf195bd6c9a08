//go:build sdl2

package voidos

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/veandco/go-sdl2/sdl"
)

func init() {
	registerVideoBackend(BackendSDL, newSDLOutput)
}

// sdlOutput is an alternate screen backend: a streaming
// TEXTUREACCESS_STREAMING texture updated from the composited frame each
// UpdateFrame, polled from an event-pump goroutine. voidos already
// composites a flat RGBX8/BGRX8 frame, so there is no per-pixel palette
// expansion to do here, only a straight byte-order conversion to SDL's
// packed 3-byte RGB24 order.
type sdlOutput struct {
	mu      sync.Mutex
	width   int
	height  int
	scale   int
	format  PixelFormat
	running bool

	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
	pixels   []byte

	router    InputRouter
	lastMouse Vec2
	mouseDown bool
	stop      chan struct{}
}

func newSDLOutput(width, height int, format PixelFormat, scale int) (VideoOutput, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: sdl backend needs positive dimensions", ErrInvalidFormat)
	}
	return &sdlOutput{
		width:  width,
		height: height,
		scale:  ClampScale(scale),
		format: format,
		pixels: make([]byte, 3*width*height),
		stop:   make(chan struct{}),
	}, nil
}

func (s *sdlOutput) Width() int  { return s.width }
func (s *sdlOutput) Height() int { return s.height }

func (s *sdlOutput) Start() error {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return fmt.Errorf("sdl backend: init: %w", err)
	}
	window, err := sdl.CreateWindow("voidos", sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		int32(s.width*s.scale), int32(s.height*s.scale), sdl.WINDOW_SHOWN)
	if err != nil {
		return fmt.Errorf("sdl backend: create window: %w", err)
	}
	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		return fmt.Errorf("sdl backend: create renderer: %w", err)
	}
	texture, err := renderer.CreateTexture(sdl.PIXELFORMAT_RGB24, sdl.TEXTUREACCESS_STREAMING,
		int32(s.width), int32(s.height))
	if err != nil {
		return fmt.Errorf("sdl backend: create texture: %w", err)
	}

	s.window, s.renderer, s.texture = window, renderer, texture
	s.running = true

	go s.eventLoop()
	return nil
}

func (s *sdlOutput) eventLoop() {
	for {
		select {
		case <-s.stop:
			return
		default:
		}
		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			s.handleEvent(event)
		}
	}
}

func (s *sdlOutput) handleEvent(event sdl.Event) {
	s.mu.Lock()
	router := s.router
	s.mu.Unlock()
	if router == nil {
		return
	}
	switch e := event.(type) {
	case *sdl.MouseMotionEvent:
		pos := Vec2{int(e.X), int(e.Y)}
		delta := pos.Sub(s.lastMouse)
		s.lastMouse = pos
		var buttons byte
		if e.State&sdl.ButtonLMask() != 0 {
			buttons = 1
		}
		router.RouteMouseMove(pos, delta, buttons)
	case *sdl.MouseButtonEvent:
		if e.Button == sdl.BUTTON_LEFT {
			pressed := e.State == sdl.PRESSED
			s.mouseDown = pressed
			router.RouteMouseButton(pressed)
		}
	case *sdl.KeyboardEvent:
		if e.State == sdl.PRESSED && e.Repeat == 0 {
			if ascii, ok := sdlKeyASCII[e.Keysym.Sym]; ok {
				router.RouteKeyPush(0, 0, ascii)
			}
		}
	case *sdl.TextInputEvent:
		for _, b := range e.Text[:] {
			if b == 0 {
				break
			}
			router.RouteKeyPush(0, 0, b)
		}
	}
}

var sdlKeyASCII = map[sdl.Keycode]byte{
	sdl.K_RETURN:    '\n',
	sdl.K_BACKSPACE: '\b',
	sdl.K_TAB:       '\t',
	sdl.K_ESCAPE:    0x1B,
}

func (s *sdlOutput) Stop() error {
	s.mu.Lock()
	running := s.running
	s.running = false
	s.mu.Unlock()
	if !running {
		return nil
	}
	close(s.stop)
	if s.texture != nil {
		s.texture.Destroy()
	}
	if s.renderer != nil {
		s.renderer.Destroy()
	}
	if s.window != nil {
		s.window.Destroy()
	}
	sdl.Quit()
	return nil
}

func (s *sdlOutput) IsStarted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// UpdateFrame converts the composited frame to packed RGB24 and streams it
// into the texture, then presents it: convert once, Texture.Update,
// Renderer.Copy, Present.
func (s *sdlOutput) UpdateFrame(frame []byte) error {
	if len(frame) != bytesPerPixel*s.width*s.height {
		return fmt.Errorf("%w: frame size %d", ErrInvalidFormat, len(frame))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return nil
	}
	for i, j := 0, 0; i+4 <= len(frame); i, j = i+4, j+3 {
		c := readPixel(frame, i, s.format)
		s.pixels[j] = c.R
		s.pixels[j+1] = c.G
		s.pixels[j+2] = c.B
	}
	pitch := 3 * s.width
	if err := s.texture.Update(nil, unsafe.Pointer(&s.pixels[0]), pitch); err != nil {
		return fmt.Errorf("sdl backend: update texture: %w", err)
	}
	s.renderer.Clear()
	if err := s.renderer.Copy(s.texture, nil, nil); err != nil {
		return fmt.Errorf("sdl backend: copy texture: %w", err)
	}
	s.renderer.Present()
	return nil
}

func (s *sdlOutput) SetInputRouter(r InputRouter) {
	s.mu.Lock()
	s.router = r
	s.mu.Unlock()
}
