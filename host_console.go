package voidos

import (
	"os"
	"sync"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/nullframe/voidos/kernlog"
)

// HostConsole bridges the real host terminal's stdin into the kernel's
// input-routing path when voidos is driven interactively from a TTY rather
// than a window — the host-side stand-in for a PS/2 or USB keyboard when no
// GUI backend is attached. Stdin is put into raw, non-blocking mode and
// polled; CR and DEL are translated before routing.
type HostConsole struct {
	router  InputRouter
	stopCh  chan struct{}
	done    chan struct{}
	stopped sync.Once
	fd      int

	nonblockSet  bool
	oldTermState *term.State
}

// NewHostConsole creates a bridge that feeds translated stdin bytes to
// router as KeyPush events.
func NewHostConsole(router InputRouter) *HostConsole {
	return &HostConsole{
		router: router,
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Start puts stdin into raw, non-blocking mode and begins reading in a
// goroutine. Call Stop to restore stdin.
func (h *HostConsole) Start() {
	h.fd = int(os.Stdin.Fd())

	oldState, err := term.MakeRaw(h.fd)
	if err != nil {
		kernlog.Errorf("voidos: host console: failed to set raw mode: %v\n", err)
		close(h.done)
		return
	}
	h.oldTermState = oldState

	if err := syscall.SetNonblock(h.fd, true); err != nil {
		kernlog.Errorf("voidos: host console: failed to set nonblocking stdin: %v\n", err)
		_ = term.Restore(h.fd, h.oldTermState)
		h.oldTermState = nil
		close(h.done)
		return
	}
	h.nonblockSet = true

	go func() {
		defer close(h.done)
		buf := make([]byte, 1)
		for {
			select {
			case <-h.stopCh:
				return
			default:
			}

			n, err := syscall.Read(h.fd, buf)
			if n > 0 {
				h.routeByte(translateHostByte(buf[0]))
			}
			if err == syscall.EAGAIN || err == syscall.EWOULDBLOCK {
				time.Sleep(5 * time.Millisecond)
				continue
			}
			if err != nil {
				return
			}
			if n == 0 {
				time.Sleep(5 * time.Millisecond)
			}
		}
	}()
}

// translateHostByte applies the usual raw-mode key translations: CR (Enter
// in raw mode) to LF, and DEL (what most modern terminals send for
// Backspace) to BS.
func translateHostByte(b byte) byte {
	switch b {
	case '\r':
		return '\n'
	case 0x7F:
		return 0x08
	default:
		return b
	}
}

func (h *HostConsole) routeByte(b byte) {
	if h.router != nil {
		h.router.RouteKeyPush(0, 0, b)
	}
}

// Stop terminates the reading goroutine and restores stdin to its prior
// mode.
func (h *HostConsole) Stop() {
	h.stopped.Do(func() {
		close(h.stopCh)
	})
	<-h.done
	if h.nonblockSet {
		_ = syscall.SetNonblock(h.fd, false)
		h.nonblockSet = false
	}
	if h.oldTermState != nil {
		_ = term.Restore(h.fd, h.oldTermState)
		h.oldTermState = nil
	}
}
