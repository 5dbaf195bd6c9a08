package voidos

// MemoryType classifies a BootMemoryMap region, standing in for the UEFI
// EFI_MEMORY_TYPE enum. Only the subset the allocator cares about is named;
// anything else is treated as reserved.
type MemoryType int

const (
	MemoryTypeReserved MemoryType = iota
	MemoryTypeConventional
	MemoryTypeBootServicesCode
	MemoryTypeBootServicesData
	MemoryTypeRuntimeServicesCode
	MemoryTypeRuntimeServicesData
	MemoryTypeACPIReclaim
	MemoryTypeACPINVS
	MemoryTypeLoaderCode
	MemoryTypeLoaderData
)

// isAvailable reports whether frames of this type are usable once boot
// services have exited.
func (t MemoryType) isAvailable() bool {
	switch t {
	case MemoryTypeConventional, MemoryTypeBootServicesCode, MemoryTypeBootServicesData:
		return true
	default:
		return false
	}
}

// MemoryMapEntry describes one contiguous physical region, standing in for a
// UEFI EFI_MEMORY_DESCRIPTOR.
type MemoryMapEntry struct {
	PhysicalStart FrameID
	NumberOfPages uint64
	Type          MemoryType
	Attribute     uint64
}

// BootMemoryMap is the ordered list of regions a firmware-style boot loader
// hands the kernel. Entries are assumed non-overlapping but are not required
// to be sorted.
type BootMemoryMap struct {
	Entries []MemoryMapEntry
}

// LoadMemoryMap seeds a FrameAllocator from a BootMemoryMap: it sets the
// allocator's range to span [lowest start, highest end) across all entries,
// then leaves free only the frames belonging to a region whose Type is
// available (Conventional/BootServicesCode/BootServicesData); frames of any
// other type, and frames in gaps no entry covers, stay allocated, so the
// allocator only ever hands out usable memory.
func (a *FrameAllocator) LoadMemoryMap(m BootMemoryMap) {
	if len(m.Entries) == 0 {
		return
	}
	begin := m.Entries[0].PhysicalStart
	end := begin
	for _, e := range m.Entries {
		if e.PhysicalStart < begin {
			begin = e.PhysicalStart
		}
		regionEnd := e.PhysicalStart + FrameID(e.NumberOfPages)
		if regionEnd > end {
			end = regionEnd
		}
	}
	a.SetMemoryRange(begin, end)
	a.MarkAllocated(begin, uint64(end-begin))
	for _, e := range m.Entries {
		if e.Type.isAvailable() {
			a.Free(e.PhysicalStart, e.NumberOfPages)
		}
	}
}
