package voidos

import (
	"container/heap"
	"math"
)

// TimerFreq is the LAPIC timer's programmed interrupt frequency in Hz.
const TimerFreq = 100

// TaskTimerPeriod is the preemption quantum in ticks: TimerFreq * 0.02 = 2,
// a 20ms quantum at TimerFreq=100.
const TaskTimerPeriod = 2

// taskTimerValue is the sentinel Value that marks a Timer as the
// self-rescheduling preemption timer rather than a user timer delivered as
// a message.
const taskTimerValue = math.MinInt32

// Timer is a one-shot deadline entry in a TimerManager's heap.
type Timer struct {
	Deadline uint64
	Value    int32
	TaskID   uint64
}

// timerHeap implements container/heap.Interface as a min-heap by Deadline.
type timerHeap []Timer

func (h timerHeap) Len() int            { return len(h) }
func (h timerHeap) Less(i, j int) bool  { return h[i].Deadline < h[j].Deadline }
func (h timerHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *timerHeap) Push(x interface{}) { *h = append(*h, x.(Timer)) }
func (h *timerHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// messageSender is the subset of TaskManager the TimerManager needs to
// deliver TimerTimeout messages.
type messageSender interface {
	SendMessage(taskID uint64, msg Message) error
}

// TimerManager is the min-heap of pending Timers plus the monotonic tick
// counter advanced by Tick.
type TimerManager struct {
	tick        uint64
	heap        timerHeap
	sender      messageSender
	lapicFreqHz uint64
}

// NewTimerManager creates a manager that delivers TimerTimeout messages
// through sender, seeded with the guard sentinel at deadline=MaxUint64 (so
// the heap is never empty) and the preempt sentinel due at
// TaskTimerPeriod.
func NewTimerManager(sender messageSender) *TimerManager {
	m := &TimerManager{sender: sender}
	heap.Init(&m.heap)
	heap.Push(&m.heap, Timer{Deadline: math.MaxUint64})
	heap.Push(&m.heap, Timer{Deadline: TaskTimerPeriod, Value: taskTimerValue})
	return m
}

// CurrentTick returns the manager's tick counter. Non-interrupt callers on
// real hardware disable interrupts around reads; this hosted simulation is
// single-goroutine-driven so no extra synchronization is added here.
func (m *TimerManager) CurrentTick() uint64 { return m.tick }

// SetLAPICFrequency records the calibrated LAPIC count rate backing the
// tick, for diagnostics.
func (m *TimerManager) SetLAPICFrequency(hz uint64) { m.lapicFreqHz = hz }

// LAPICFrequency returns the calibrated LAPIC count rate, or 0 if
// calibration never ran.
func (m *TimerManager) LAPICFrequency() uint64 { return m.lapicFreqHz }

// AddTimer inserts t into the heap.
func (m *TimerManager) AddTimer(t Timer) {
	heap.Push(&m.heap, t)
}

// Tick advances the tick counter by one and delivers every timer whose
// deadline has passed. The preempt sentinel is popped and immediately
// re-pushed with a new deadline rather than delivered; its expiry instead
// sets the returned preemptNow flag, which the caller (an ISR trailer
// substitute) uses to decide whether to invoke TaskManager.SwitchTask.
func (m *TimerManager) Tick() (preemptNow bool) {
	m.tick++
	for len(m.heap) > 0 && m.heap[0].Deadline <= m.tick {
		top := m.heap[0]
		if top.Value == taskTimerValue {
			heap.Pop(&m.heap)
			heap.Push(&m.heap, Timer{Deadline: m.tick + TaskTimerPeriod, Value: taskTimerValue})
			preemptNow = true
			continue
		}
		heap.Pop(&m.heap)
		if m.sender != nil {
			m.sender.SendMessage(top.TaskID, Message{
				Kind:    MessageTimerTimeout,
				Timeout: top.Deadline,
				Value:   top.Value,
			})
		}
	}
	return preemptNow
}
