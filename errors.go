package voidos

import "errors"

// Sentinel error kinds. Callers compare with errors.Is; most subsystems wrap
// these with fmt.Errorf("%w: ...") to add call-site detail.
var (
	ErrFull               = errors.New("voidos: queue full")
	ErrEmpty              = errors.New("voidos: queue empty")
	ErrNoEnoughMemory     = errors.New("voidos: no enough memory")
	ErrIndexOutOfRange    = errors.New("voidos: index out of range")
	ErrInvalidSlotID      = errors.New("voidos: invalid slot id")
	ErrAlreadyAllocated   = errors.New("voidos: already allocated")
	ErrNoSuchTask         = errors.New("voidos: no such task")
	ErrUnknownPixelFormat = errors.New("voidos: unknown pixel format")
	ErrInvalidFormat      = errors.New("voidos: invalid format")
)
