package voidos

import (
	"fmt"

	"github.com/nullframe/voidos/kernlog"
)

// The two system calls user tasks reach the kernel through. Routing by
// syscall-number register is the loader's concern; here each call is a
// method invoked from the calling task's own context, so no lock is taken
// (the scheduler already serializes task execution).

// SyscallLogString writes msg through the kernel's level-gated logger and
// returns the number of bytes logged. Levels outside the syslog range used
// by the kernel are rejected.
func (k *Kernel) SyscallLogString(level int, msg string) (int, error) {
	if level < kernlog.LevelError || level > kernlog.LevelDebug {
		return 0, fmt.Errorf("%w: log level %d", ErrInvalidFormat, level)
	}
	kernlog.Printf(level, "%s\n", msg)
	return len(msg), nil
}

// SyscallExit removes the calling task from the run queues for good. The
// task's goroutine parks at its next yield point and is never granted
// another quantum. The exit code is reported at debug level; nothing else
// consumes it since there is no parent-wait in this kernel.
func (k *Kernel) SyscallExit(taskID uint64, code int) error {
	t, ok := k.taskManager.Task(taskID)
	if !ok {
		return ErrNoSuchTask
	}
	kernlog.Printf(kernlog.LevelDebug, "voidos: task %d exited with code %d\n", taskID, code)
	k.taskManager.Sleep(t)
	return nil
}
