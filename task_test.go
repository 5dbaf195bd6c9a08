package voidos

import "testing"

func TestTaskManagerNewTaskDefaults(t *testing.T) {
	tm := NewTaskManager()
	task := tm.NewTask()
	if task.Running() {
		t.Fatal("new task must not be running")
	}
	if task.Level() != DefaultLevel {
		t.Fatalf("Level() = %d, want %d", task.Level(), DefaultLevel)
	}
}

func TestTaskManagerWakeupPushesOntoLevel(t *testing.T) {
	tm := NewTaskManager()
	task := tm.NewTask()
	tm.Wakeup(task, 2)
	if !task.Running() {
		t.Fatal("Wakeup should mark the task running")
	}
	if task.Level() != 2 {
		t.Fatalf("Level() = %d, want 2", task.Level())
	}
}

func TestTaskManagerWakeupIdempotence(t *testing.T) {
	// Wakeup(x); Wakeup(x) must leave the same state as Wakeup(x).
	tm := NewTaskManager()
	task := tm.NewTask()
	tm.Wakeup(task, 1)
	tm.Wakeup(task, NoLevelChange)
	tm.Wakeup(task, NoLevelChange)
	if got := len(tm.running[1]); got != 1 {
		t.Fatalf("running[1] has %d entries, want 1 (idempotent Wakeup)", got)
	}
}

func TestTaskManagerSleepIdempotence(t *testing.T) {
	tm := NewTaskManager()
	task := tm.NewTask()
	tm.Wakeup(task, 1)
	tm.Sleep(task)
	tm.Sleep(task)
	if task.Running() {
		t.Fatal("task should not be running after Sleep")
	}
	if got := len(tm.running[1]); got != 0 {
		t.Fatalf("running[1] has %d entries, want 0", got)
	}
}

func TestTaskManagerSleepNonFrontRemovesFromQueue(t *testing.T) {
	tm := NewTaskManager()
	a := tm.NewTask()
	b := tm.NewTask()
	tm.Wakeup(a, 1)
	tm.Wakeup(b, 1)
	tm.Sleep(b) // b is not the front of running[1]; a is.
	if b.Running() {
		t.Fatal("b should not be running")
	}
	if got := len(tm.running[1]); got != 1 || tm.running[1][0] != a {
		t.Fatalf("running[1] = %v, want [a]", tm.running[1])
	}
}

func TestTaskManagerPriorityNeverRunsLowerWhileHigherRunnable(t *testing.T) {
	// No task at level k runs while any task at level >k is runnable.
	tm := NewTaskManager()
	low := tm.NewTask()
	high := tm.NewTask()
	tm.Wakeup(low, 1)
	tm.Wakeup(high, 2)
	tm.RotateCurrentRunQueue(false) // currentLevel only updates on rotation

	if tm.currentLevel != 2 {
		t.Fatalf("currentLevel = %d, want 2 (level 2 is runnable)", tm.currentLevel)
	}
	if tm.currentFront() != high {
		t.Fatalf("currentFront() = %v, want high", tm.currentFront())
	}
}

func TestTaskManagerRotateCurrentRunQueueRoundRobin(t *testing.T) {
	tm := NewTaskManager()
	a := tm.NewTask()
	b := tm.NewTask()
	tm.Wakeup(a, 1)
	tm.Wakeup(b, 1)
	tm.RotateCurrentRunQueue(false) // force currentLevel to recompute to 1

	first := tm.currentFront()
	tm.RotateCurrentRunQueue(false)
	second := tm.currentFront()
	if first == second {
		t.Fatal("round robin should rotate to the other task")
	}
	tm.RotateCurrentRunQueue(false)
	third := tm.currentFront()
	if third != first {
		t.Fatal("round robin over 2 tasks should cycle back after 2 rotations")
	}
}

func TestTaskManagerChangeLevelRunningPromotesFront(t *testing.T) {
	tm := NewTaskManager()
	task := tm.NewTask()
	tm.Wakeup(task, 1)
	tm.RotateCurrentRunQueue(false) // currentLevel -> 1, task at front
	tm.ChangeLevelRunning(task, 2)
	if task.Level() != 2 {
		t.Fatalf("Level() = %d, want 2", task.Level())
	}
	if tm.currentLevel != 2 {
		t.Fatalf("currentLevel = %d, want 2", tm.currentLevel)
	}
	if got := len(tm.running[1]); got != 0 {
		t.Fatalf("running[1] has %d entries, want 0", got)
	}
}

func TestTaskManagerSendMessageWakesTask(t *testing.T) {
	tm := NewTaskManager()
	task := tm.NewTask()
	if err := tm.SendMessage(task.ID(), Message{Kind: MessageKeyPush, ASCII: 'x'}); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if !task.Running() {
		t.Fatal("SendMessage should Wakeup the task")
	}
	msg, ok := tm.ReceiveMessage(task.ID())
	if !ok {
		t.Fatal("ReceiveMessage: want a message")
	}
	if msg.ASCII != 'x' {
		t.Fatalf("ASCII = %c, want x", msg.ASCII)
	}
	if _, ok := tm.ReceiveMessage(task.ID()); ok {
		t.Fatal("ReceiveMessage should be empty after draining the single message")
	}
}

func TestTaskManagerSendMessageUnknownTask(t *testing.T) {
	tm := NewTaskManager()
	if err := tm.SendMessage(9999, Message{}); err != ErrNoSuchTask {
		t.Fatalf("SendMessage to unknown task = %v, want ErrNoSuchTask", err)
	}
}

func TestTaskManagerSwitchTaskGrantsQuantumToNewTask(t *testing.T) {
	tm := NewTaskManager()
	task := tm.NewTask()
	quanta := make(chan int, 4)
	count := 0
	tm.InitContext(task, func(id uint64, _ int64) {
		for i := 0; i < 2; i++ {
			count++
			quanta <- count
			tm.Yield(id)
		}
	}, 0)
	tm.Wakeup(task, 1) // level 1 > currentLevel 0 (idle) -> levelChanged set

	tm.SwitchTask() // rotates idle out, recomputes currentLevel to 1, grants task's first quantum
	if got := <-quanta; got != 1 {
		t.Fatalf("first granted quantum observed count = %d, want 1", got)
	}
	if tm.currentLevel != 1 {
		t.Fatalf("currentLevel = %d, want 1", tm.currentLevel)
	}
}

func TestTaskManagerSwitchTaskRegrantsSoleTask(t *testing.T) {
	// A level with a single runnable task rotates back to the same front;
	// SwitchTask must still grant it, or the only task would never run
	// again after its first quantum.
	tm := NewTaskManager()
	task := tm.NewTask()
	quanta := make(chan int, 4)
	count := 0
	tm.InitContext(task, func(id uint64, _ int64) {
		for {
			count++
			quanta <- count
			tm.Yield(id)
		}
	}, 0)
	tm.Wakeup(task, 1)

	tm.SwitchTask()
	tm.SwitchTask()
	if got := <-quanta; got != 1 {
		t.Fatalf("first quantum count = %d, want 1", got)
	}
	if got := <-quanta; got != 2 {
		t.Fatalf("second quantum count = %d, want 2", got)
	}
}

func TestTaskManagerSwitchTaskAfterTaskFuncReturns(t *testing.T) {
	tm := NewTaskManager()
	task := tm.NewTask()
	ran := make(chan struct{}, 1)
	tm.InitContext(task, func(id uint64, _ int64) {
		ran <- struct{}{}
	}, 0)
	tm.Wakeup(task, 1)

	tm.SwitchTask()
	<-ran
	// The returned TaskFunc must keep yielding, so a second grant returns
	// instead of deadlocking.
	tm.SwitchTask()
}
