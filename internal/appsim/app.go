// Package appsim implements the application child process: it stops
// itself to be scheduled, ticks up to MaxPC times, occasionally emits
// a syscall line and blocks for the kernel's reply, then reports DONE
// and exits.
package appsim

import (
	"fmt"
	"math/rand"
	"os"
	"syscall"
	"time"

	"github.com/diogo-benchimol/INF1316-Sistemas-Operacionais/internal/shm"
	"github.com/diogo-benchimol/INF1316-Sistemas-Operacionais/internal/sfp"
)

// Config carries the app's tick pacing, instruction-count bound and
// syscall probability.
type Config struct {
	Quantum     time.Duration
	MaxPC       int
	SyscallProb int // 1/SyscallProb chance per tick
}

// App runs one application's simulated workload.
type App struct {
	id  int
	cfg Config
	out *os.File
	rng *rand.Rand
	mbx *shm.Mailbox
}

// New returns an App for logical id, writing its line protocol to out
// and reading replies from its attached mailbox.
func New(id int, cfg Config, out *os.File, mbx *shm.Mailbox) *App {
	return &App{
		id:  id,
		cfg: cfg,
		out: out,
		rng: rand.New(rand.NewSource(time.Now().UnixNano() ^ int64(os.Getpid()))),
		mbx: mbx,
	}
}

// Run stops itself, then ticks until MaxPC, then reports DONE. It
// returns only after the loop completes or a fatal write error occurs.
func (a *App) Run() error {
	ppid := os.Getppid()

	// Start stopped — the kernel schedules us in with SIGCONT.
	if err := syscall.Kill(os.Getpid(), syscall.SIGSTOP); err != nil {
		return err
	}

	pc := 0
	for pc < a.cfg.MaxPC {
		time.Sleep(a.cfg.Quantum)
		pc++

		if err := a.emit(ppid, "TICK A%d %d %d", a.id, os.Getpid(), pc); err != nil {
			return err
		}

		if a.rng.Intn(a.cfg.SyscallProb) == 0 {
			if err := a.issueSyscall(ppid, pc); err != nil {
				return err
			}
		}

		time.Sleep(a.cfg.Quantum)
	}

	if err := a.emit(ppid, "DONE A%d %d %d", a.id, os.Getpid(), pc); err != nil {
		return err
	}
	return a.mbx.Detach()
}

func (a *App) issueSyscall(ppid, pc int) error {
	line := a.randomSyscallLine(pc)
	if err := a.emitLine(ppid, line); err != nil {
		return err
	}

	if err := syscall.Kill(os.Getpid(), syscall.SIGSTOP); err != nil {
		return err
	}

	reply, err := a.mbx.Read()
	if err != nil {
		fmt.Fprintf(os.Stderr, "[App A%d] failed to decode reply: %v\n", a.id, err)
		return nil
	}
	a.reportOutcome(reply)
	return nil
}

// pathPrefix alternates between the app's private area and the shared
// /A0 area.
func (a *App) pathPrefix() int {
	if a.rng.Intn(2) == 0 {
		return a.id
	}
	return 0
}

func (a *App) randomSyscallLine(pc int) string {
	switch a.rng.Intn(5) {
	case 0:
		path := fmt.Sprintf("/A%d/file.txt", a.pathPrefix())
		offset := (a.rng.Intn(4)) * sfp.PayloadSize
		return fmt.Sprintf("READ A%d %d %s %d", a.id, os.Getpid(), path, offset)
	case 1:
		path := fmt.Sprintf("/A%d/file.txt", a.pathPrefix())
		offset := (a.rng.Intn(4)) * sfp.PayloadSize
		return fmt.Sprintf("WRITE A%d %d %s %d HelloA%dPC%d", a.id, os.Getpid(), path, offset, a.id, pc)
	case 2:
		path := fmt.Sprintf("/A%d", a.pathPrefix())
		return fmt.Sprintf("ADD A%d %d %s newDir_A%d_%d", a.id, os.Getpid(), path, a.id, pc)
	case 3:
		path := fmt.Sprintf("/A%d", a.pathPrefix())
		prevPC := pc
		if prevPC > 0 {
			prevPC--
		}
		return fmt.Sprintf("REM A%d %d %s newDir_A%d_%d", a.id, os.Getpid(), path, a.id, prevPC)
	default:
		path := fmt.Sprintf("/A%d", a.pathPrefix())
		return fmt.Sprintf("LISTDIR A%d %d %s", a.id, os.Getpid(), path)
	}
}

// reportOutcome classifies the reply by msg_type and status field, and
// logs it to stderr for operator visibility.
func (a *App) reportOutcome(r *sfp.Message) {
	switch r.Type {
	case sfp.RdRep:
		if r.Offset >= 0 {
			fmt.Fprintf(os.Stderr, "[App A%d] READ OK @ offset=%d payload=%q\n", a.id, r.Offset, r.Payload[:])
		} else {
			fmt.Fprintf(os.Stderr, "[App A%d] READ ERROR code=%d\n", a.id, r.Offset)
		}
	case sfp.WrRep:
		if r.Offset >= 0 {
			fmt.Fprintf(os.Stderr, "[App A%d] WRITE OK @ offset=%d\n", a.id, r.Offset)
		} else {
			fmt.Fprintf(os.Stderr, "[App A%d] WRITE ERROR code=%d\n", a.id, r.Offset)
		}
	case sfp.DcRep:
		if r.PathLen >= 0 {
			fmt.Fprintf(os.Stderr, "[App A%d] DIR CREATE OK -> %s\n", a.id, r.Path)
		} else {
			fmt.Fprintf(os.Stderr, "[App A%d] DIR CREATE ERROR code=%d\n", a.id, r.PathLen)
		}
	case sfp.DrRep:
		if r.PathLen >= 0 {
			fmt.Fprintf(os.Stderr, "[App A%d] DIR REMOVE OK -> %s\n", a.id, r.Path)
		} else {
			fmt.Fprintf(os.Stderr, "[App A%d] DIR REMOVE ERROR code=%d\n", a.id, r.PathLen)
		}
	case sfp.DlRep:
		if r.NrNames >= 0 {
			fmt.Fprintf(os.Stderr, "[App A%d] LISTDIR OK -> %d entries\n", a.id, r.NrNames)
		} else {
			fmt.Fprintf(os.Stderr, "[App A%d] LISTDIR ERROR code=%d\n", a.id, r.NrNames)
		}
	default:
		fmt.Fprintf(os.Stderr, "[App A%d] unexpected reply type in mailbox: %s\n", a.id, r.Type)
	}
}

func (a *App) emit(ppid int, format string, args ...any) error {
	return a.emitLine(ppid, fmt.Sprintf(format, args...))
}

func (a *App) emitLine(ppid int, line string) error {
	if _, err := fmt.Fprintln(a.out, line); err != nil {
		return err
	}
	return syscall.Kill(ppid, syscall.SIGUSR2)
}
