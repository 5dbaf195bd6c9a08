//go:build headless

package voidos

import "sync/atomic"

func init() {
	registerVideoBackend(BackendHeadless, newHeadlessOutput)
}

// headlessOutput discards frames and never produces input: an always-on,
// dependency-free stand-in for tests and CI — no GPU or window system
// required.
type headlessOutput struct {
	width, height int
	running       bool
	frameCount    uint64
	router        InputRouter
}

func newHeadlessOutput(width, height int, format PixelFormat, scale int) (VideoOutput, error) {
	return &headlessOutput{width: width, height: height}, nil
}

func (h *headlessOutput) Width() int  { return h.width }
func (h *headlessOutput) Height() int { return h.height }

func (h *headlessOutput) Start() error {
	h.running = true
	return nil
}

func (h *headlessOutput) Stop() error {
	h.running = false
	return nil
}

func (h *headlessOutput) IsStarted() bool { return h.running }

func (h *headlessOutput) UpdateFrame(frame []byte) error {
	atomic.AddUint64(&h.frameCount, 1)
	return nil
}

func (h *headlessOutput) SetInputRouter(r InputRouter) { h.router = r }

// FrameCount reports how many frames have been presented, for tests.
func (h *headlessOutput) FrameCount() uint64 { return atomic.LoadUint64(&h.frameCount) }
