package voidos

// PixelColor is a componentwise-equal RGB color.
type PixelColor struct {
	R, G, B byte
}

// PixelFormat names the byte order a PixelSink writes. The two formats
// differ only in channel order within the 4-byte pixel.
type PixelFormat int

const (
	PixelFormatRGBX8 PixelFormat = iota
	PixelFormatBGRX8
)

const bytesPerPixel = 4

// PixelSink is the minimal capability a pixel destination exposes.
type PixelSink interface {
	Write(pos Vec2, c PixelColor)
	Width() int
	Height() int
}

// writePixel encodes c into the 4-byte pixel at buf[offset:offset+4]
// according to format.
func writePixel(buf []byte, offset int, c PixelColor, format PixelFormat) {
	switch format {
	case PixelFormatRGBX8:
		buf[offset] = c.R
		buf[offset+1] = c.G
		buf[offset+2] = c.B
	case PixelFormatBGRX8:
		buf[offset] = c.B
		buf[offset+1] = c.G
		buf[offset+2] = c.R
	}
}

// readPixel decodes the 4-byte pixel at buf[offset:offset+4].
func readPixel(buf []byte, offset int, format PixelFormat) PixelColor {
	switch format {
	case PixelFormatBGRX8:
		return PixelColor{R: buf[offset+2], G: buf[offset+1], B: buf[offset]}
	default:
		return PixelColor{R: buf[offset], G: buf[offset+1], B: buf[offset+2]}
	}
}

// FillRectangle writes c to every pixel in the rectangle [pos, pos+size).
func FillRectangle(sink PixelSink, pos, size Vec2, c PixelColor) {
	for dy := 0; dy < size.Y; dy++ {
		for dx := 0; dx < size.X; dx++ {
			sink.Write(Vec2{pos.X + dx, pos.Y + dy}, c)
		}
	}
}

// DrawRectangle draws a one-pixel-wide outline of the rectangle.
func DrawRectangle(sink PixelSink, pos, size Vec2, c PixelColor) {
	for dx := 0; dx < size.X; dx++ {
		sink.Write(Vec2{pos.X + dx, pos.Y}, c)
		sink.Write(Vec2{pos.X + dx, pos.Y + size.Y - 1}, c)
	}
	for dy := 1; dy < size.Y-1; dy++ {
		sink.Write(Vec2{pos.X, pos.Y + dy}, c)
		sink.Write(Vec2{pos.X + size.X - 1, pos.Y + dy}, c)
	}
}
