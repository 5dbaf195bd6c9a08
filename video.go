package voidos

import "fmt"

// VideoOutput is the host-side screen backend contract: present a
// composited frame and forward host keyboard/mouse events into the kernel
// message bus. There is no palette/texture/sprite capability, since the
// compositor only ever produces a flat RGBX/BGRX frame.
type VideoOutput interface {
	Start() error
	Stop() error
	IsStarted() bool

	// UpdateFrame pushes the composited screen buffer's raw bytes (already
	// in the backend's configured PixelFormat) to the display.
	UpdateFrame(frame []byte) error

	Width() int
	Height() int

	// SetInputRouter registers the sink that receives translated host
	// input events; nil disables routing.
	SetInputRouter(r InputRouter)
}

// InputRouter receives host input translated into the kernel's vocabulary.
// Kernel implements it and forwards to ActiveLayer, standing in for the
// USB HID interrupt path.
type InputRouter interface {
	RouteKeyPush(modifier, keycode, ascii byte)
	RouteMouseMove(pos, delta Vec2, buttons byte)
	RouteMouseButton(pressed bool)
}

// Backend names selectable via cmd/voidos-run's -backend flag.
const (
	BackendEbiten   = "ebiten"
	BackendSDL      = "sdl"
	BackendHeadless = "headless"
)

// videoOutputFactory constructs a VideoOutput of a given size/format/scale.
type videoOutputFactory func(width, height int, format PixelFormat, scale int) (VideoOutput, error)

// videoBackends holds every backend compiled into this binary, keyed by
// name. Each backend file registers itself from an init() func, the way a
// driver-registry package (database/sql, image format decoders) does —
// build tags alone decide which entries exist in a given binary: the
// ebiten backend is present unless built with -tags headless, the headless
// backend only when built with -tags headless, and the SDL backend only
// with -tags sdl2.
var videoBackends = map[string]videoOutputFactory{}

func registerVideoBackend(name string, factory videoOutputFactory) {
	videoBackends[name] = factory
}

// NewVideoOutput creates the named backend. An empty name defaults to
// BackendEbiten.
func NewVideoOutput(backend string, width, height int, format PixelFormat, scale int) (VideoOutput, error) {
	if backend == "" {
		backend = BackendEbiten
	}
	factory, ok := videoBackends[backend]
	if !ok {
		return nil, fmt.Errorf("%w: video backend %q not available in this build", ErrInvalidFormat, backend)
	}
	return factory(width, height, format, scale)
}
