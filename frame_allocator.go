package voidos

import "math/bits"

// FrameID is an opaque non-negative physical-frame index; the frame's
// physical address is FrameID*FrameSize.
type FrameID uint64

// NullFrame is the sentinel "no frame" value.
const NullFrame FrameID = ^FrameID(0)

// FrameSize is the fixed frame size the allocator manages (4 KiB).
const FrameSize = 4096

const bitsPerWord = 64

// FrameAllocator is a flat bitmap physical frame allocator over
// [rangeBegin, rangeEnd). Bits outside the range are always treated as
// allocated. It assumes single-threaded access; callers disable interrupts
// (or, in this hosted simulation, hold a mutex) around calls.
type FrameAllocator struct {
	bitmap     []uint64
	frameCount FrameID
	rangeBegin FrameID
	rangeEnd   FrameID
}

// NewFrameAllocator creates an allocator over frameCount frames, all
// initially allocated (the caller must call SetMemoryRange and/or
// LoadMemoryMap before allocating anything).
func NewFrameAllocator(frameCount FrameID) *FrameAllocator {
	words := (int(frameCount) + bitsPerWord - 1) / bitsPerWord
	a := &FrameAllocator{
		bitmap:     make([]uint64, words),
		frameCount: frameCount,
	}
	for i := range a.bitmap {
		a.bitmap[i] = ^uint64(0)
	}
	return a
}

// SetMemoryRange marks [begin, end) as the manager's addressable range and
// clears those bits to free; everything outside stays allocated.
func (a *FrameAllocator) SetMemoryRange(begin, end FrameID) {
	a.rangeBegin, a.rangeEnd = begin, end
	for f := begin; f < end; f++ {
		a.setBit(f, false)
	}
}

func (a *FrameAllocator) getBit(f FrameID) bool {
	word, bit := f/bitsPerWord, f%bitsPerWord
	return a.bitmap[word]&(1<<bit) != 0
}

func (a *FrameAllocator) setBit(f FrameID, allocated bool) {
	word, bit := f/bitsPerWord, f%bitsPerWord
	if allocated {
		a.bitmap[word] |= 1 << bit
	} else {
		a.bitmap[word] &^= 1 << bit
	}
}

// MarkAllocated unconditionally sets [start, start+n) allocated, used to
// reserve regions (e.g. the kernel image itself).
func (a *FrameAllocator) MarkAllocated(start FrameID, n uint64) {
	for i := uint64(0); i < n; i++ {
		a.setBit(start+FrameID(i), true)
	}
}

// Allocate performs a first-fit linear scan from rangeBegin, returning the
// lowest starting frame that can host n consecutive free frames. When a set
// bit is found at offset i inside the candidate window, the scan resumes at
// i+1 rather than restarting one past the window start (standard first-fit
// acceleration). Returns ErrNoEnoughMemory if the scan reaches rangeEnd
// without finding a window.
func (a *FrameAllocator) Allocate(n uint64) (FrameID, error) {
	if n == 0 {
		return NullFrame, ErrInvalidFormat
	}
	start := a.rangeBegin
	for {
		var i uint64
		for ; i < n; i++ {
			if start+FrameID(i) >= a.rangeEnd {
				return NullFrame, ErrNoEnoughMemory
			}
			if a.getBit(start + FrameID(i)) {
				break
			}
		}
		if i == n {
			a.MarkAllocated(start, n)
			return start, nil
		}
		start += FrameID(i) + 1
	}
}

// Free clears [start, start+n). Double-free and partial-free are undefined;
// the bitmap is flat so no coalescing is needed.
func (a *FrameAllocator) Free(start FrameID, n uint64) {
	for i := uint64(0); i < n; i++ {
		a.setBit(start+FrameID(i), false)
	}
}

// FreeFrameCount reports the number of free frames in [rangeBegin,
// rangeEnd), scanning word-at-a-time via bits.OnesCount64.
func (a *FrameAllocator) FreeFrameCount() uint64 {
	var free uint64
	for f := a.rangeBegin; f < a.rangeEnd; {
		word := f / bitsPerWord
		wordStart := word * bitsPerWord
		if wordStart == f && f+bitsPerWord <= a.rangeEnd {
			free += bitsPerWord - uint64(bits.OnesCount64(a.bitmap[word]))
			f += bitsPerWord
			continue
		}
		if !a.getBit(f) {
			free++
		}
		f++
	}
	return free
}
