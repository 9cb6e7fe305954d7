// Package ic implements the interrupt controller child process: a
// single-threaded paced loop that emits IRQ lines on its own stdout
// and notifies its parent (the kernel) via SIGUSR1.
package ic

import (
	"fmt"
	"math/rand"
	"os"
	"sync/atomic"
	"syscall"
	"time"
)

// Config carries the controller's pacing and interrupt-probability
// parameters.
type Config struct {
	Quantum  time.Duration
	IRQ1Prob int // 1/IRQ1Prob chance per tick
	IRQ2Prob int // 1/IRQ2Prob chance per tick
}

// Controller runs the paced IRQ loop. It is pausable from a signal
// handler installed by the caller via Pause/Resume.
type Controller struct {
	cfg    Config
	out    *os.File
	rng    *rand.Rand
	paused atomic.Bool
}

// New returns a controller that writes IRQ lines to out and notifies
// the kernel (its parent process) via SIGUSR1 after each one.
func New(cfg Config, out *os.File) *Controller {
	return &Controller{cfg: cfg, out: out, rng: rand.New(rand.NewSource(time.Now().UnixNano() ^ int64(os.Getpid())))}
}

// Pause suspends emission; Resume reactivates it. Both are safe to
// call from a signal handler.
func (c *Controller) Pause()  { c.paused.Store(true) }
func (c *Controller) Resume() { c.paused.Store(false) }

// Run loops forever, pacing one tick per cfg.Quantum. It returns only
// when writing a line to out (parent pipe closed) or signalling the
// parent fails.
func (c *Controller) Run() error {
	ppid := os.Getppid()
	for {
		if c.paused.Load() {
			time.Sleep(100 * time.Millisecond)
			continue
		}
		time.Sleep(c.cfg.Quantum)

		if err := c.emit(ppid, "IRQ0"); err != nil {
			return err
		}
		if c.cfg.IRQ1Prob > 0 && c.rng.Intn(c.cfg.IRQ1Prob) == 0 {
			if err := c.emit(ppid, "IRQ1"); err != nil {
				return err
			}
		}
		if c.cfg.IRQ2Prob > 0 && c.rng.Intn(c.cfg.IRQ2Prob) == 0 {
			if err := c.emit(ppid, "IRQ2"); err != nil {
				return err
			}
		}
	}
}

func (c *Controller) emit(ppid int, line string) error {
	if _, err := fmt.Fprintln(c.out, line); err != nil {
		return err
	}
	return syscall.Kill(ppid, syscall.SIGUSR1)
}
