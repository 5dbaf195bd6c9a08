package voidos

import "fmt"

// FrameBufferConfig describes a linear pixel buffer. BasePtr is left as a
// byte slice the caller owns (e.g. a real mmap'd framebuffer on a host
// backend); when nil the FrameBuffer allocates its own heap-backed shadow
// and StridePixels is forced to Width.
type FrameBufferConfig struct {
	Width, Height int
	StridePixels  int
	PixelFormat   PixelFormat
	BasePtr       []byte
}

// FrameBuffer owns a FrameBufferConfig plus, when heap-backed, the backing
// bytes themselves. It implements PixelSink directly and supports
// inter-buffer Copy and intra-buffer Move.
type FrameBuffer struct {
	config FrameBufferConfig
	buf    []byte
}

// NewFrameBuffer initializes a FrameBuffer from config. When config.BasePtr
// is nil a heap-backed shadow buffer is allocated and StridePixels is set to
// Width.
func NewFrameBuffer(config FrameBufferConfig) (*FrameBuffer, error) {
	if config.PixelFormat != PixelFormatRGBX8 && config.PixelFormat != PixelFormatBGRX8 {
		return nil, ErrUnknownPixelFormat
	}
	fb := &FrameBuffer{config: config}
	if config.BasePtr == nil {
		fb.buf = make([]byte, bytesPerPixel*config.Width*config.Height)
		fb.config.BasePtr = fb.buf
		fb.config.StridePixels = config.Width
	} else {
		fb.buf = config.BasePtr
	}
	return fb, nil
}

// Config returns a copy of the buffer's configuration.
func (fb *FrameBuffer) Config() FrameBufferConfig { return fb.config }

func (fb *FrameBuffer) Width() int  { return fb.config.Width }
func (fb *FrameBuffer) Height() int { return fb.config.Height }

func (fb *FrameBuffer) offset(pos Vec2) int {
	return bytesPerPixel * (fb.config.StridePixels*pos.Y + pos.X)
}

// Write implements PixelSink.
func (fb *FrameBuffer) Write(pos Vec2, c PixelColor) {
	writePixel(fb.buf, fb.offset(pos), c, fb.config.PixelFormat)
}

// Pixel reads back the pixel at pos (used by tests and by Window's shadow
// invariant check).
func (fb *FrameBuffer) Pixel(pos Vec2) PixelColor {
	return readPixel(fb.buf, fb.offset(pos), fb.config.PixelFormat)
}

func (fb *FrameBuffer) bytesPerScanLine() int {
	return bytesPerPixel * fb.config.StridePixels
}

// Copy clips srcArea against both the source and destination extents, then
// blits the intersected area row by row. Both buffers must share a pixel
// format. Empty intersections are no-ops.
func (fb *FrameBuffer) Copy(dstPos Vec2, src *FrameBuffer, srcArea Rectangle) error {
	if fb.config.PixelFormat != src.config.PixelFormat {
		return fmt.Errorf("%w: dst=%v src=%v", ErrUnknownPixelFormat, fb.config.PixelFormat, src.config.PixelFormat)
	}

	srcAreaShifted := Rectangle{Pos: dstPos, Size: srcArea.Size}
	srcOutline := Rectangle{Pos: dstPos.Sub(srcArea.Pos), Size: Vec2{src.config.Width, src.config.Height}}
	dstOutline := Rectangle{Pos: Vec2{}, Size: Vec2{fb.config.Width, fb.config.Height}}

	copyArea := dstOutline.Intersect(srcOutline).Intersect(srcAreaShifted)
	if copyArea.Empty() {
		return nil
	}
	srcStart := copyArea.Pos.Sub(dstPos.Sub(srcArea.Pos))

	dstOff := fb.offset(copyArea.Pos)
	srcOff := src.offset(srcStart)
	rowBytes := bytesPerPixel * copyArea.Size.X
	dstStride := fb.bytesPerScanLine()
	srcStride := src.bytesPerScanLine()

	for y := 0; y < copyArea.Size.Y; y++ {
		copy(fb.buf[dstOff:dstOff+rowBytes], src.buf[srcOff:srcOff+rowBytes])
		dstOff += dstStride
		srcOff += srcStride
	}
	return nil
}

// Move scrolls srcRect within the same buffer to dstPos, choosing row order
// so overlapping source/destination rows never clobber each other before
// being read.
func (fb *FrameBuffer) Move(dstPos Vec2, srcRect Rectangle) {
	if srcRect.Empty() {
		return
	}
	rowBytes := bytesPerPixel * srcRect.Size.X
	stride := fb.bytesPerScanLine()

	if dstPos.Y < srcRect.Pos.Y {
		dstOff := fb.offset(dstPos)
		srcOff := fb.offset(srcRect.Pos)
		for y := 0; y < srcRect.Size.Y; y++ {
			copy(fb.buf[dstOff:dstOff+rowBytes], fb.buf[srcOff:srcOff+rowBytes])
			dstOff += stride
			srcOff += stride
		}
		return
	}

	dstOff := fb.offset(dstPos.Add(Vec2{0, srcRect.Size.Y - 1}))
	srcOff := fb.offset(srcRect.Pos.Add(Vec2{0, srcRect.Size.Y - 1}))
	for y := 0; y < srcRect.Size.Y; y++ {
		copy(fb.buf[dstOff:dstOff+rowBytes], fb.buf[srcOff:srcOff+rowBytes])
		dstOff -= stride
		srcOff -= stride
	}
}
