package voidos

import "testing"

func TestFrameAllocatorFirstFit(t *testing.T) {
	a := NewFrameAllocator(128)
	a.SetMemoryRange(0, 128)

	f, err := a.Allocate(4)
	if err != nil || f != 0 {
		t.Fatalf("Allocate(4) = %v, %v; want 0, nil", f, err)
	}

	f, err = a.Allocate(2)
	if err != nil || f != 4 {
		t.Fatalf("Allocate(2) = %v, %v; want 4, nil", f, err)
	}

	a.Free(0, 4)

	f, err = a.Allocate(3)
	if err != nil || f != 0 {
		t.Fatalf("Allocate(3) after Free(0,4) = %v, %v; want 0, nil", f, err)
	}

	f, err = a.Allocate(5)
	if err != nil || f != 6 {
		t.Fatalf("Allocate(5) = %v, %v; want 6, nil", f, err)
	}
}

func TestFrameAllocatorExhaustion(t *testing.T) {
	a := NewFrameAllocator(4)
	a.SetMemoryRange(0, 4)

	if _, err := a.Allocate(4); err != nil {
		t.Fatalf("Allocate(4): unexpected error %v", err)
	}
	if _, err := a.Allocate(1); err == nil {
		t.Fatal("Allocate(1) on exhausted range: want error, got nil")
	}
}

func TestFrameAllocatorOutsideRangeStaysAllocated(t *testing.T) {
	a := NewFrameAllocator(16)
	a.SetMemoryRange(4, 8)

	for n := uint64(1); n <= 8; n++ {
		f, err := a.Allocate(n)
		if n <= 4 {
			if err != nil {
				t.Fatalf("Allocate(%d) within range: unexpected error %v", n, err)
			}
			a.Free(f, n)
		} else if err == nil {
			t.Fatalf("Allocate(%d) exceeds range but succeeded at %v", n, f)
		}
	}
}

func TestFrameAllocatorMarkAllocatedBlocksScan(t *testing.T) {
	a := NewFrameAllocator(16)
	a.SetMemoryRange(0, 16)
	a.MarkAllocated(2, 2) // reserve frames [2,4)

	f, err := a.Allocate(2)
	if err != nil {
		t.Fatalf("Allocate(2): unexpected error %v", err)
	}
	if f == 2 {
		t.Fatalf("Allocate(2) returned reserved frame %v", f)
	}
}

func TestFrameAllocatorFreeFrameCount(t *testing.T) {
	a := NewFrameAllocator(128)
	a.SetMemoryRange(0, 128)
	if got := a.FreeFrameCount(); got != 128 {
		t.Fatalf("FreeFrameCount() = %d, want 128", got)
	}
	if _, err := a.Allocate(10); err != nil {
		t.Fatalf("Allocate(10): unexpected error %v", err)
	}
	if got := a.FreeFrameCount(); got != 118 {
		t.Fatalf("FreeFrameCount() = %d, want 118", got)
	}
}

func TestFrameAllocatorLoadMemoryMap(t *testing.T) {
	a := NewFrameAllocator(32)
	a.LoadMemoryMap(BootMemoryMap{Entries: []MemoryMapEntry{
		{PhysicalStart: 0, NumberOfPages: 8, Type: MemoryTypeReserved},
		{PhysicalStart: 8, NumberOfPages: 16, Type: MemoryTypeConventional},
		{PhysicalStart: 24, NumberOfPages: 8, Type: MemoryTypeACPINVS},
	}})

	if got := a.FreeFrameCount(); got != 16 {
		t.Fatalf("FreeFrameCount() = %d, want 16", got)
	}

	f, err := a.Allocate(1)
	if err != nil {
		t.Fatalf("Allocate(1): unexpected error %v", err)
	}
	if f != 8 {
		t.Fatalf("Allocate(1) = %v, want 8 (first conventional frame)", f)
	}
}
