package voidos

import "testing"

func TestConsoleScrollingScenario(t *testing.T) {
	// Emit 26 newlines into an 80x25 console: row 0 must contain what was
	// row 1 before, the last row must be blank, and exactly one draw
	// message must be posted per PutString.
	console, err := NewConsole(PixelColor{R: 255, G: 255, B: 255}, PixelColor{})
	if err != nil {
		t.Fatalf("NewConsole: %v", err)
	}
	sender := &fakeSender{}
	console.Bind(1, 1, sender)

	for i := 0; i < ConsoleRows; i++ {
		console.PutString(string(rune('A'+i%26)) + "\n")
	}
	wasRow1 := console.Row(1)

	console.PutString("\n")

	if got := console.Row(0); got != wasRow1 {
		t.Fatalf("Row(0) = %q, want previous Row(1) %q", got, wasRow1)
	}
	if got := console.Row(ConsoleRows - 1); got != "" {
		t.Fatalf("Row(%d) = %q, want blank", ConsoleRows-1, got)
	}
	if got := len(sender.delivered); got != ConsoleRows+1 {
		t.Fatalf("delivered %d DrawArea messages, want %d (one per PutString)", got, ConsoleRows+1)
	}
	for _, msg := range sender.delivered {
		if msg.Kind != MessageLayer || msg.LayerOp != LayerOpDrawArea {
			t.Fatalf("message = %+v, want a Layer DrawArea op", msg)
		}
	}
}

func TestConsolePutStringSinglePostPerCall(t *testing.T) {
	console, err := NewConsole(PixelColor{}, PixelColor{})
	if err != nil {
		t.Fatalf("NewConsole: %v", err)
	}
	sender := &fakeSender{}
	console.Bind(2, 1, sender)

	console.PutString("hello\nworld\nmultiple\nlines\n")
	if got := len(sender.delivered); got != 1 {
		t.Fatalf("delivered %d messages for one PutString call, want 1", got)
	}
}

func TestConsoleWritesWithinRowBeforeOverflow(t *testing.T) {
	console, err := NewConsole(PixelColor{}, PixelColor{})
	if err != nil {
		t.Fatalf("NewConsole: %v", err)
	}
	console.Bind(1, 1, &fakeSender{})
	console.PutString("hi")
	if got := console.Row(0); got != "hi" {
		t.Fatalf("Row(0) = %q, want %q", got, "hi")
	}
}
