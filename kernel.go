package voidos

import (
	"fmt"
	"sync"
	"time"

	"github.com/nullframe/voidos/kernlog"
)

// KernelConfig configures a Kernel's boot-time subsystem sizing. MemoryMap,
// when non-empty, seeds the frame allocator the way a firmware memory map
// would; otherwise a single conventional region of PhysicalFrameCount frames
// is assumed.
type KernelConfig struct {
	ScreenWidth, ScreenHeight int
	PixelFormat               PixelFormat
	PhysicalFrameCount        FrameID
	MemoryMap                 BootMemoryMap
}

// defaultPhysicalFrames backs a 64 MiB simulated physical memory range when
// KernelConfig.PhysicalFrameCount is left zero.
const defaultPhysicalFrames FrameID = 16384

// Kernel wires every core subsystem together and drives the host runtime: a
// periodic tick loop standing in for the LAPIC timer ISR, a video backend
// for the composited screen, and a message-driven main kernel task (task 1)
// that owns the LayerManager. The framebuffer and back buffer are only ever
// touched from task 1.
type Kernel struct {
	frameAllocator *FrameAllocator
	timerManager   *TimerManager
	taskManager    *TaskManager
	layerManager   *LayerManager
	activeLayer    *ActiveLayer
	console        *Console
	screen         *FrameBuffer
	video          VideoOutput
	lapic          *LAPICRegisters

	mainTaskID     uint64
	mouseLayerID   uint32
	consoleLayerID uint32
	lastMousePos   Vec2

	// mu serializes every call into taskManager/timerManager/layerManager
	// that originates outside task 1's own goroutine (host input routing,
	// the tick loop), standing in for the cli/sti discipline a single-CPU
	// kernel uses in place of locks. Task 1's own body never takes mu
	// itself: it only ever executes while the tick loop's grant() is
	// blocked holding mu, which already serializes it against every other
	// caller.
	mu sync.Mutex

	tickerStop chan struct{}
	tickerDone chan struct{}
}

// NewKernel constructs every core subsystem and wires them together, but
// does not yet start the video backend or the tick loop; call Boot for
// that. Boot order is fixed: memory, then layers, then the scheduler and
// its main task, then windows, mouse, timer, and finally input routing.
// The stages a real kernel runs before those (segmentation, paging, PCI,
// USB enumeration) are reduced to comments since a hosted Go process
// already provides a flat address space.
func NewKernel(video VideoOutput, cfg KernelConfig) (*Kernel, error) {
	if video == nil {
		return nil, fmt.Errorf("%w: NewKernel requires a VideoOutput", ErrInvalidFormat)
	}

	k := &Kernel{video: video}

	// boot: segmentation/paging — a hosted process already has a flat
	// address space; nothing to do.

	// boot: memory.
	memoryMap := cfg.MemoryMap
	frameCount := cfg.PhysicalFrameCount
	if len(memoryMap.Entries) == 0 {
		if frameCount == 0 {
			frameCount = defaultPhysicalFrames
		}
		memoryMap = BootMemoryMap{Entries: []MemoryMapEntry{
			{PhysicalStart: 0, NumberOfPages: uint64(frameCount), Type: MemoryTypeConventional},
		}}
	} else if frameCount == 0 {
		for _, e := range memoryMap.Entries {
			if end := e.PhysicalStart + FrameID(e.NumberOfPages); end > frameCount {
				frameCount = end
			}
		}
	}
	k.frameAllocator = NewFrameAllocator(frameCount)
	k.frameAllocator.LoadMemoryMap(memoryMap)

	screenBytes := bytesPerPixel * cfg.ScreenWidth * cfg.ScreenHeight
	framebufferFrames := uint64((screenBytes + FrameSize - 1) / FrameSize)
	fbFrame, err := k.frameAllocator.Allocate(framebufferFrames)
	if err != nil {
		return nil, fmt.Errorf("voidos: reserving framebuffer frames: %w", err)
	}
	kernlog.Printf(kernlog.LevelInfo, "voidos: framebuffer backed by %d frames starting at frame %d\n", framebufferFrames, fbFrame)

	// boot: interrupts/PCI/USB — the host video backend stands in for the
	// xHCI/HID interrupt sources; routed via SetInputRouter below.

	screen, err := NewFrameBuffer(FrameBufferConfig{
		Width:       cfg.ScreenWidth,
		Height:      cfg.ScreenHeight,
		PixelFormat: cfg.PixelFormat,
	})
	if err != nil {
		return nil, fmt.Errorf("voidos: creating screen framebuffer: %w", err)
	}
	k.screen = screen

	// boot: layers.
	layerManager, err := NewLayerManager(screen)
	if err != nil {
		return nil, fmt.Errorf("voidos: creating layer manager: %w", err)
	}
	k.layerManager = layerManager

	// boot: scheduler + the main kernel task that owns every layer op.
	k.taskManager = NewTaskManager()
	mainTask := k.taskManager.NewTask()
	k.mainTaskID = mainTask.ID()
	k.taskManager.InitContext(mainTask, k.mainTaskLoop, 0)
	k.taskManager.Wakeup(mainTask, DefaultLevel)

	// boot: windows.
	if err := k.bootWindows(); err != nil {
		return nil, err
	}

	// boot: mouse.
	k.activeLayer = NewActiveLayer(k.layerManager, k.mouseLayerID)
	k.activeLayer.SetLayerTask(k.consoleLayerID, k.mainTaskID)

	// boot: timer. Frequency calibration against the host clock happens in
	// Boot, where blocking for the measurement window is acceptable.
	k.timerManager = NewTimerManager(k.taskManager)
	k.lapic = NewLAPICRegisters()

	// boot: keyboard/mouse routing.
	video.SetInputRouter(k)

	k.console.PutString("voidos core online\n")
	return k, nil
}

func (k *Kernel) bootWindows() error {
	desktopWindow, err := NewWindow(k.screen.Width(), k.screen.Height())
	if err != nil {
		return fmt.Errorf("voidos: creating desktop window: %w", err)
	}
	FillRectangle(desktopWindow, Vec2{}, Vec2{k.screen.Width(), k.screen.Height()}, desktopColor)
	desktop := k.layerManager.NewLayer().SetWindow(desktopWindow)
	k.layerManager.UpDown(desktop.ID(), 0)

	console, err := NewConsole(consoleForeground, consoleBackground)
	if err != nil {
		return fmt.Errorf("voidos: creating console: %w", err)
	}
	consoleLayer := k.layerManager.NewLayer().SetWindow(console.Window()).SetDraggable(true)
	k.layerManager.UpDown(consoleLayer.ID(), 1)
	console.Bind(consoleLayer.ID(), k.mainTaskID, k.taskManager)
	k.console = console
	k.consoleLayerID = consoleLayer.ID()

	mouseWindow, err := NewWindow(mouseCursorWidth, mouseCursorHeight)
	if err != nil {
		return fmt.Errorf("voidos: creating mouse cursor window: %w", err)
	}
	mouseWindow.SetTransparentColor(mouseTransparentColor, true)
	drawMouseCursor(mouseWindow)
	mouseLayer := k.layerManager.NewLayer().SetWindow(mouseWindow)
	k.layerManager.UpDown(mouseLayer.ID(), 2)
	k.mouseLayerID = mouseLayer.ID()

	return nil
}

var (
	desktopColor          = PixelColor{R: 0x1a, G: 0x3a, B: 0x6b}
	consoleForeground     = PixelColor{R: 0xe0, G: 0xe0, B: 0xe0}
	consoleBackground     = PixelColor{R: 0x10, G: 0x10, B: 0x10}
	mouseTransparentColor = PixelColor{R: 0xff, G: 0x00, B: 0xff}
)

const (
	mouseCursorWidth  = 12
	mouseCursorHeight = 18
)

// drawMouseCursor paints a simple filled-arrow cursor, leaving every
// untouched pixel at the chroma-key transparent color for Window.DrawTo's
// per-pixel transparency path to skip over.
func drawMouseCursor(w *Window) {
	FillRectangle(w, Vec2{}, Vec2{w.Width(), w.Height()}, mouseTransparentColor)
	black := PixelColor{R: 0, G: 0, B: 0}
	for y := 0; y < w.Height(); y++ {
		for x := 0; x <= y && x < w.Width(); x++ {
			w.Write(Vec2{x, y}, black)
		}
	}
}

// lapicCalibrationWindow is how long Boot measures the virtual LAPIC
// counter before programming periodic mode.
const lapicCalibrationWindow = 100 * time.Millisecond

// Boot calibrates the timer, starts the video backend, and starts the tick
// loop that drives timers and preemption; it blocks until the backend
// reports its first frame is ready.
func (k *Kernel) Boot() error {
	freq := k.lapic.Calibrate(lapicCalibrationWindow)
	k.timerManager.SetLAPICFrequency(freq)
	k.lapic.StartPeriodic(lapicTimerVector, uint32(freq/TimerFreq))
	kernlog.Printf(kernlog.LevelInfo, "voidos: lapic calibrated at %d Hz\n", freq)

	if err := k.video.Start(); err != nil {
		return fmt.Errorf("voidos: starting video backend: %w", err)
	}
	k.tickerStop = make(chan struct{})
	k.tickerDone = make(chan struct{})
	go k.runTicker()
	return nil
}

// Shutdown stops the tick loop and the video backend.
func (k *Kernel) Shutdown() {
	if k.tickerStop != nil {
		close(k.tickerStop)
		<-k.tickerDone
	}
	_ = k.video.Stop()
}

// runTicker fires at TimerFreq (100 Hz) standing in for the LAPIC periodic
// interrupt: every fire advances TimerManager's tick and, when the preempt
// sentinel expires, invokes TaskManager.SwitchTask — the ISR trailer's
// context-switch decision.
func (k *Kernel) runTicker() {
	defer close(k.tickerDone)
	ticker := time.NewTicker(time.Second / TimerFreq)
	defer ticker.Stop()
	for {
		select {
		case <-k.tickerStop:
			return
		case <-ticker.C:
			k.mu.Lock()
			preempt := k.timerManager.Tick()
			if preempt {
				k.taskManager.SwitchTask()
			}
			k.mu.Unlock()
		}
	}
}

// RouteKeyPush implements InputRouter: host keyboard events are delivered
// as a KeyPush message to the main kernel task.
func (k *Kernel) RouteKeyPush(modifier, keycode, ascii byte) {
	k.mu.Lock()
	defer k.mu.Unlock()
	_ = k.taskManager.SendMessage(k.mainTaskID, Message{
		Kind: MessageKeyPush, Modifier: modifier, Keycode: keycode, ASCII: ascii,
	})
}

// RouteMouseMove implements InputRouter.
func (k *Kernel) RouteMouseMove(pos, delta Vec2, buttons byte) {
	k.mu.Lock()
	defer k.mu.Unlock()
	_ = k.taskManager.SendMessage(k.mainTaskID, Message{
		Kind: MessageMouseMove, X: pos.X, Y: pos.Y, DX: delta.X, DY: delta.Y, Buttons: buttons,
	})
}

// RouteMouseButton implements InputRouter.
func (k *Kernel) RouteMouseButton(pressed bool) {
	k.mu.Lock()
	defer k.mu.Unlock()
	_ = k.taskManager.SendMessage(k.mainTaskID, Message{
		Kind: MessageMouseButton, Pressed: pressed,
	})
}

// mainTaskLoop is task 1's TaskFunc body: the "cli, check queue, sleep if
// empty" idiom, minus the cli/sti since this hosted simulation serializes
// task 1 against every other caller through mu (see the Kernel.mu doc
// comment).
func (k *Kernel) mainTaskLoop(taskID uint64, _ int64) {
	for {
		msg, ok := k.taskManager.ReceiveMessage(taskID)
		if !ok {
			if t, found := k.taskManager.Task(taskID); found {
				k.taskManager.Sleep(t)
			}
			k.taskManager.Yield(taskID)
			continue
		}
		k.handleMessage(msg)
	}
}

func (k *Kernel) handleMessage(msg Message) {
	switch msg.Kind {
	case MessageLayer:
		k.handleLayerMessage(msg)
	case MessageMouseMove:
		k.lastMousePos = Vec2{msg.X, msg.Y}
		if err := k.activeLayer.MouseMove(k.taskManager, k.lastMousePos, Vec2{msg.DX, msg.DY}, msg.Buttons); err != nil {
			kernlog.Printf(kernlog.LevelWarn, "voidos: mouse move: %v\n", err)
			return
		}
		k.present()
	case MessageMouseButton:
		if err := k.activeLayer.MouseButton(k.taskManager, k.lastMousePos, msg.Pressed); err != nil {
			kernlog.Printf(kernlog.LevelWarn, "voidos: mouse button: %v\n", err)
			return
		}
		k.present()
	case MessageKeyPush:
		if msg.ASCII != 0 {
			k.console.PutString(string(rune(msg.ASCII)))
		}
	case MessageTimerTimeout:
		kernlog.Printf(kernlog.LevelDebug, "voidos: timer fired value=%d deadline=%d\n", msg.Value, msg.Timeout)
	case MessageWindowActive:
		kernlog.Printf(kernlog.LevelDebug, "voidos: window active=%v\n", msg.Active)
	}
}

func (k *Kernel) handleLayerMessage(msg Message) {
	var err error
	switch msg.LayerOp {
	case LayerOpMove:
		err = k.layerManager.Move(msg.LayerID, Vec2{msg.X, msg.Y})
	case LayerOpMoveRelative:
		err = k.layerManager.MoveRelative(msg.LayerID, Vec2{msg.X, msg.Y})
	case LayerOpDraw:
		err = k.layerManager.DrawLayer(msg.LayerID)
	case LayerOpDrawArea:
		layer := k.layerManager.Layer(msg.LayerID)
		if layer == nil {
			return
		}
		area := Rectangle{Pos: layer.Position().Add(msg.LayerArea.Pos), Size: msg.LayerArea.Size}
		err = k.layerManager.Draw(area)
	}
	if err != nil {
		kernlog.Printf(kernlog.LevelWarn, "voidos: layer op %v: %v\n", msg.LayerOp, err)
		return
	}
	k.present()
}

func (k *Kernel) present() {
	if err := k.video.UpdateFrame(k.screen.Config().BasePtr); err != nil {
		kernlog.Printf(kernlog.LevelWarn, "voidos: presenting frame: %v\n", err)
	}
}

// FrameAllocator exposes the kernel's physical frame allocator, mainly for
// tests and diagnostics.
func (k *Kernel) FrameAllocator() *FrameAllocator { return k.frameAllocator }

// LayerManager exposes the compositor for tests and diagnostics.
func (k *Kernel) LayerManager() *LayerManager { return k.layerManager }

// TaskManager exposes the scheduler for tests and diagnostics.
func (k *Kernel) TaskManager() *TaskManager { return k.taskManager }

// TimerManager exposes the timer service for tests and diagnostics.
func (k *Kernel) TimerManager() *TimerManager { return k.timerManager }

// Console exposes the scrolling console for tests and diagnostics.
func (k *Kernel) Console() *Console { return k.console }

// MainTaskID returns the id of the main kernel task (task 1).
func (k *Kernel) MainTaskID() uint64 { return k.mainTaskID }
