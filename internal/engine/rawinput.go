package engine

import (
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/chzyer/readline"
	"golang.org/x/term"
)

// Arrow-key poll codes, per spec.md §6.
const (
	KeyUp    = 1000
	KeyDown  = 1001
	KeyRight = 1002
	KeyLeft  = 1003
)

// RawInput is the optional raw-terminal input facility backing
// internal_input_init/poll/shutdown/readline. Init puts stdin into raw
// mode and starts two background goroutines: one does nothing but copy
// raw bytes into a buffered channel, which Poll drains synchronously from
// the engine's single thread of control; the other waits for
// SIGINT/SIGTERM, restores the terminal and exits the process. Neither
// touches engine state.
type RawInput struct {
	mu       sync.Mutex
	active   bool
	fd       int
	oldState *term.State
	ch       chan byte
	rl       *readline.Instance
}

// Init enters raw mode and starts the reader goroutine. A signal hook
// guarantees terminal mode is restored on Ctrl-C/SIGTERM even if the
// bytecode never calls internal_input_shutdown (grounded on the
// teacher's repl.REPL SIGINT handling).
func (r *RawInput) Init() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.active {
		return nil
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return err
	}
	r.fd = fd
	r.oldState = oldState
	r.ch = make(chan byte, 256)
	r.active = true

	go func(ch chan byte) {
		buf := make([]byte, 1)
		for {
			n, err := os.Stdin.Read(buf)
			if err != nil || n == 0 {
				return
			}
			select {
			case ch <- buf[0]:
			default:
			}
		}
	}(r.ch)

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigc
		_ = r.Shutdown()
		os.Exit(1)
	}()

	return nil
}

// tryRead returns the next buffered byte without blocking.
func (r *RawInput) tryRead() (byte, bool) {
	select {
	case b := <-r.ch:
		return b, true
	default:
		return 0, false
	}
}

// Poll is non-blocking: -1 means no input is currently available, 0..255
// a raw byte, and 1000..1003 an arrow key assembled from its three-byte
// ANSI escape sequence.
func (r *RawInput) Poll() int {
	if !r.active {
		return -1
	}
	b, ok := r.tryRead()
	if !ok {
		return -1
	}
	if b != 27 {
		return int(b)
	}
	b2, ok2 := r.tryRead()
	if !ok2 || b2 != '[' {
		return 27
	}
	b3, ok3 := r.tryRead()
	if !ok3 {
		return 27
	}
	switch b3 {
	case 'A':
		return KeyUp
	case 'B':
		return KeyDown
	case 'C':
		return KeyRight
	case 'D':
		return KeyLeft
	default:
		return 27
	}
}

// Shutdown restores the terminal to its pre-raw-mode state. Safe to call
// more than once.
func (r *RawInput) Shutdown() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.active {
		return nil
	}
	r.active = false
	if r.rl != nil {
		_ = r.rl.Close()
		r.rl = nil
	}
	return term.Restore(r.fd, r.oldState)
}

// Readline reads one full line via the teacher's readline library,
// independent of raw-mode polling.
func (r *RawInput) Readline() (string, error) {
	r.mu.Lock()
	if r.rl == nil {
		rl, err := readline.New("")
		if err != nil {
			r.mu.Unlock()
			return "", err
		}
		r.rl = rl
	}
	rl := r.rl
	r.mu.Unlock()
	return rl.Readline()
}
