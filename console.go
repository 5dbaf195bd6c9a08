package voidos

// ConsoleColumns and ConsoleRows fix the console's character grid.
const (
	ConsoleColumns = 80
	ConsoleRows    = 25

	consoleCharWidth  = 8
	consoleCharHeight = 16
)

// Console is a fixed 80x25 scrolling text console, owning a Window it
// scrolls in place and a Layer it requests redraws of. It never calls the
// compositor directly: each PutString posts one Layer DrawArea message to
// the task that owns the window system.
type Console struct {
	window *Window
	fg, bg PixelColor

	rows [ConsoleRows]string
	row  int
	col  int

	layerID uint32
	taskID  uint64
	sender  messageSender
}

// NewConsole creates a console with the given foreground/background
// colors, backed by an 80*8 x 25*16 pixel window filled with bg.
func NewConsole(fg, bg PixelColor) (*Console, error) {
	win, err := NewWindow(ConsoleColumns*consoleCharWidth, ConsoleRows*consoleCharHeight)
	if err != nil {
		return nil, err
	}
	FillRectangle(win, Vec2{}, Vec2{win.Width(), win.Height()}, bg)
	return &Console{window: win, fg: fg, bg: bg}, nil
}

// Window returns the console's backing window, for attaching to a Layer.
func (c *Console) Window() *Window { return c.window }

// Bind records the layer id the console owns and the task (normally task 1,
// the main kernel task) to post DrawArea messages to.
func (c *Console) Bind(layerID uint32, taskID uint64, sender messageSender) {
	c.layerID = layerID
	c.taskID = taskID
	c.sender = sender
}

// PutString appends s to the console, advancing the cursor and scrolling
// on overflow, then posts exactly one Layer.DrawArea message for the
// window's full area, regardless of how many characters or newlines s
// contains.
func (c *Console) PutString(s string) {
	for _, ch := range s {
		if ch == '\n' {
			c.newline()
			continue
		}
		if c.col < ConsoleColumns-1 {
			c.putChar(byte(ch))
		}
	}
	c.postDrawArea()
}

func (c *Console) putChar(ch byte) {
	pos := Vec2{consoleCharWidth * c.col, consoleCharHeight * c.row}
	FillRectangle(c.window, pos, Vec2{consoleCharWidth, consoleCharHeight}, c.bg)
	drawGlyph(c.window, pos, ch, c.fg)

	line := []byte(c.rows[c.row])
	for len(line) <= c.col {
		line = append(line, ' ')
	}
	line[c.col] = ch
	c.rows[c.row] = string(line)
	c.col++
}

func (c *Console) newline() {
	c.col = 0
	if c.row < ConsoleRows-1 {
		c.row++
		return
	}

	c.window.Move(Vec2{0, 0}, Rectangle{
		Pos:  Vec2{0, consoleCharHeight},
		Size: Vec2{ConsoleColumns * consoleCharWidth, consoleCharHeight * (ConsoleRows - 1)},
	})
	bottom := Vec2{0, consoleCharHeight * (ConsoleRows - 1)}
	FillRectangle(c.window, bottom, Vec2{ConsoleColumns * consoleCharWidth, consoleCharHeight}, c.bg)

	for row := 0; row < ConsoleRows-1; row++ {
		c.rows[row] = c.rows[row+1]
	}
	c.rows[ConsoleRows-1] = ""
}

// Row returns the text content of row r, for tests and diagnostics.
func (c *Console) Row(r int) string { return c.rows[r] }

func (c *Console) postDrawArea() {
	if c.sender == nil {
		return
	}
	c.sender.SendMessage(c.taskID, Message{
		Kind:    MessageLayer,
		LayerOp: LayerOpDrawArea,
		LayerID: c.layerID,
		LayerArea: Rectangle{
			Pos:  Vec2{},
			Size: Vec2{c.window.Width(), c.window.Height()},
		},
	})
}

// drawGlyph is a placeholder glyph rasterizer: real character bitmaps are a
// host-side font concern outside this package's scope, so it paints a
// single representative pixel per cell rather than true glyph data. The
// cell background fill in putChar is what the compositor actually blits.
func drawGlyph(sink PixelSink, pos Vec2, ch byte, c PixelColor) {
	if ch == ' ' {
		return
	}
	sink.Write(Vec2{pos.X + consoleCharWidth/2, pos.Y + consoleCharHeight/2}, c)
}
