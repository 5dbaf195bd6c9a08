package voidos

import (
	"math"
	"time"
)

// LAPIC MMIO register addresses. A real kernel reads/writes these through
// volatile pointers at fixed physical addresses; this hosted simulation
// models the same four registers as plain struct fields so TimerManager's
// initialization sequence can be exercised without real hardware.
const (
	lapicLVTTimerAddr     = 0xFEE00320
	lapicInitialCountAddr = 0xFEE00380
	lapicCurrentCountAddr = 0xFEE00390
	lapicDivideConfigAddr = 0xFEE003E0
)

// lapicDivideBy1 programs the divide-config register for divide-by-1.
const lapicDivideBy1 = 0b1011

// lapicPeriodicVector builds the LVT timer register value for periodic
// mode at the given interrupt vector.
func lapicPeriodicVector(vector uint32) uint32 {
	return 0b010<<16 | vector
}

// LAPICRegisters stands in for the four fixed MMIO addresses a real x86-64
// kernel would access directly; the lapic*Addr constants above name the
// physical addresses it substitutes for.
type LAPICRegisters struct {
	LVTTimer     uint32
	InitialCount uint32
	CurrentCount uint32
	DivideConfig uint32
}

// NewLAPICRegisters returns a zeroed register bank.
func NewLAPICRegisters() *LAPICRegisters {
	return &LAPICRegisters{}
}

// StartPeriodic programs the timer for periodic mode at vector, with
// initialCount counts per period (lapic_freq / TimerFreq for a TimerFreq-Hz
// interrupt rate).
func (r *LAPICRegisters) StartPeriodic(vector uint32, initialCount uint32) {
	r.DivideConfig = lapicDivideBy1
	r.LVTTimer = lapicPeriodicVector(vector)
	r.InitialCount = initialCount
	r.CurrentCount = initialCount
}

// Stop halts the timer by zeroing the initial count.
func (r *LAPICRegisters) Stop() {
	r.InitialCount = 0
}

// Elapsed returns how many counts have ticked down since StartPeriodic,
// the quantity frequency measurement reads back after its ACPI PM timer
// wait.
func (r *LAPICRegisters) Elapsed() uint32 {
	return r.InitialCount - r.CurrentCount
}

// lapicTimerVector is the interrupt vector the periodic timer is programmed
// to raise.
const lapicTimerVector = 0x41

// Calibrate runs the boot-time frequency measurement against the host
// clock, the stand-in for a real kernel's ACPI PM timer wait: start the
// counter at max, sleep for window, then read back how far it counted down.
// The virtual counter decrements once per nanosecond. Returns the derived
// count rate in Hz.
func (r *LAPICRegisters) Calibrate(window time.Duration) uint64 {
	r.StartPeriodic(lapicTimerVector, math.MaxUint32)
	start := time.Now()
	time.Sleep(window)
	elapsed := time.Since(start)
	r.CurrentCount = r.InitialCount - uint32(elapsed.Nanoseconds())
	return MeasureFrequencyHz(r.Elapsed(), elapsed.Seconds())
}

// MeasureFrequencyHz derives the LAPIC's tick frequency from a boot-time
// measurement window: start the counter, wait for elapsedDuringWindow
// counts to pass during a window lasting windowSeconds (measured against
// the ACPI PM timer in a real kernel), then extrapolate to a full second.
func MeasureFrequencyHz(elapsedDuringWindow uint32, windowSeconds float64) uint64 {
	if windowSeconds <= 0 {
		return 0
	}
	return uint64(float64(elapsedDuringWindow) / windowSeconds)
}
