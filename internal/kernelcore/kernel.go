package kernelcore

import (
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/diogo-benchimol/INF1316-Sistemas-Operacionais/internal/logging"
	"github.com/diogo-benchimol/INF1316-Sistemas-Operacionais/internal/procsup"
	"github.com/diogo-benchimol/INF1316-Sistemas-Operacionais/internal/sfp"
	"github.com/diogo-benchimol/INF1316-Sistemas-Operacionais/internal/shm"
)

// Mailbox is the subset of shm.Mailbox the kernel needs — narrowed to
// an interface so kernelcore stays testable without real shared
// memory segments.
type Mailbox interface {
	Write(msg *sfp.Message) error
	Release() error
}

// Config carries the kernel supervisor's startup parameters.
type Config struct {
	NApps    int
	SFSSHost string
	SFSSPort int
}

// Kernel owns the PCB table, both queues, the scheduler, every child's
// mailbox, and the UDP socket used to talk to SFSS. Run is the single
// readiness-multiplexer loop that drives all of it.
type Kernel struct {
	cfg   Config
	pcbs  []*PCB
	ready *ReadyQueue
	fileQ *ReplyQueue
	dirQ  *ReplyQueue
	sched *Scheduler

	mailboxes []Mailbox
	apps      []*procsup.Child
	inter     *procsup.Child

	conn     *net.UDPConn
	sfssAddr *net.UDPAddr
}

// New allocates the kernel's in-memory structures. Spawn still needs
// to be called to bring up children and the network socket.
func New(cfg Config) *Kernel {
	k := &Kernel{
		cfg:   cfg,
		pcbs:  make([]*PCB, cfg.NApps),
		ready: NewReadyQueue(cfg.NApps),
		fileQ: NewReplyQueue(cfg.NApps),
		dirQ:  NewReplyQueue(cfg.NApps),
	}
	for i := range k.pcbs {
		k.pcbs[i] = &PCB{ID: i + 1, State: Ready}
	}
	return k
}

// Spawn binds the SFSS UDP socket, creates each app's shared mailbox,
// forks the interrupt controller and every application, and starts
// the round-robin scheduler on the first READY process.
func (k *Kernel) Spawn() error {
	sfssAddr, err := net.ResolveUDPAddr("udp", fmt.Sprintf("%s:%d", k.cfg.SFSSHost, k.cfg.SFSSPort))
	if err != nil {
		return fmt.Errorf("kernelcore: resolve sfss addr: %w", err)
	}
	k.sfssAddr = sfssAddr

	conn, err := net.ListenUDP("udp", &net.UDPAddr{})
	if err != nil {
		return fmt.Errorf("kernelcore: bind udp: %w", err)
	}
	k.conn = conn

	inter, err := procsup.SpawnInter()
	if err != nil {
		return fmt.Errorf("kernelcore: spawn inter: %w", err)
	}
	k.inter = inter

	k.mailboxes = make([]Mailbox, k.cfg.NApps)
	k.apps = make([]*procsup.Child, k.cfg.NApps)
	for i := 0; i < k.cfg.NApps; i++ {
		id := i + 1
		mbx, err := shm.Create(id)
		if err != nil {
			return fmt.Errorf("kernelcore: create mailbox A%d: %w", id, err)
		}
		k.mailboxes[i] = mbx

		child, err := procsup.SpawnApp(id)
		if err != nil {
			return fmt.Errorf("kernelcore: spawn app A%d: %w", id, err)
		}
		k.apps[i] = child
		k.pcbs[i].Pid = child.Pid
		logging.ProcessCreated(id, child.Pid)

		k.ready.PushTail(i)
	}

	k.sched = NewScheduler(k.pcbs, k.ready, stopperFunc{})
	return k.sched.ScheduleNext()
}

// stopperFunc adapts procsup's free functions to the Stopper interface.
type stopperFunc struct{}

func (stopperFunc) Stop(pid int) error     { return procsup.Stop(pid) }
func (stopperFunc) Continue(pid int) error { return procsup.Continue(pid) }

// Run is the kernel's main loop: it waits on SFSS replies, IC lines,
// app lines and OS signals, and never returns until every PCB is
// TERMINATED. A single channel select multiplexes all four readiness
// sources, the idiomatic Go equivalent of a pselect-over-fds loop.
func (k *Kernel) Run() error {
	sigCh := make(chan os.Signal, 16)
	signal.Notify(sigCh, syscall.SIGUSR1, syscall.SIGUSR2, syscall.SIGINT, syscall.SIGCONT)
	defer signal.Stop(sigCh)

	udpCh := k.startUDPReader()
	appLines := k.mergeAppLines()

	paused := false

	for {
		select {
		case res, ok := <-udpCh:
			if ok {
				k.handleSFSReply(res)
			}

		case line, ok := <-k.inter.Lines:
			if ok && !paused {
				k.handleIRQLine(line)
			}

		case al, ok := <-appLines:
			if ok && !paused {
				k.handleAppLine(al)
			}

		case sig := <-sigCh:
			switch sig {
			case syscall.SIGINT:
				paused = true
				k.onSnapshotRequested()
			case syscall.SIGCONT:
				paused = false
				k.onResumeRequested()
			case syscall.SIGUSR1, syscall.SIGUSR2:
				// Delivery already unblocked the select above via the
				// corresponding Lines/udpCh channel; nothing further
				// to do here beyond not letting the signal queue grow.
			}
		}

		k.reapChildren()

		if k.allTerminated() {
			return k.shutdown()
		}
	}
}

func (k *Kernel) startUDPReader() <-chan *sfp.Message {
	out := make(chan *sfp.Message, 16)
	go func() {
		buf := make([]byte, sfp.Size)
		for {
			n, err := k.conn.Read(buf)
			if err != nil {
				close(out)
				return
			}
			msg, err := sfp.Decode(buf[:n])
			if err != nil {
				logging.Error("kernelcore: decode sfss reply: %v", err)
				continue
			}
			out <- msg
		}
	}()
	return out
}

type appLine struct {
	idx  int
	line string
}

func (k *Kernel) mergeAppLines() <-chan appLine {
	out := make(chan appLine, 256)
	for i, child := range k.apps {
		go func(idx int, c *procsup.Child) {
			for line := range c.Lines {
				out <- appLine{idx: idx, line: line}
			}
		}(i, child)
	}
	return out
}

// handleSFSReply enqueues a reply from SFSS onto the matching FIFO —
// file or directory.
func (k *Kernel) handleSFSReply(res *sfp.Message) {
	logging.Info("kernelcore: received %s from SFSS for owner %d", res.Type, res.Owner)
	switch {
	case res.Type.IsFileReply():
		if !k.fileQ.Push(*res) {
			logging.ReplyDropped("file queue full", res.Owner)
		}
	case res.Type.IsDirReply():
		if !k.dirQ.Push(*res) {
			logging.ReplyDropped("dir queue full", res.Owner)
		}
	default:
		logging.Warn("kernelcore: unknown reply type %v from SFSS", res.Type)
	}
}

// handleIRQLine processes one line from the interrupt controller:
// IRQ0 drives the round-robin quantum, IRQ1/IRQ2 dequeue one reply
// each and unblock its owner.
func (k *Kernel) handleIRQLine(line string) {
	kind, ok := ParseIRQLine(line)
	if !ok {
		logging.Warn("kernelcore: unknown IRQ line %q", line)
		return
	}

	switch kind {
	case "IRQ0":
		if err := k.sched.ScheduleNext(); err != nil {
			logging.Error("kernelcore: schedule: %v", err)
		}
	case "IRQ1":
		k.dispatchReply(k.fileQ)
	case "IRQ2":
		k.dispatchReply(k.dirQ)
	}
}

// dispatchReply pops one reply off q and, if its owner is still
// BLOCKED, writes it to the owner's mailbox and unblocks it. A reply
// for an owner that is no longer BLOCKED (already TERMINATED, or
// matched by coincidence) is dropped with a warning log line.
func (k *Kernel) dispatchReply(q *ReplyQueue) {
	res, ok := q.Pop()
	if !ok {
		return
	}

	idx := res.Owner - 1
	if idx < 0 || idx >= len(k.pcbs) || k.pcbs[idx].State != Blocked {
		logging.ReplyDropped("owner not blocked", res.Owner)
		return
	}

	if err := k.mailboxes[idx].Write(&res); err != nil {
		logging.Error("kernelcore: write mailbox A%d: %v", idx+1, err)
		return
	}
	k.sched.Unblock(idx)
	logging.ReplyDispatched(idx+1, res.Type.String())

	if k.sched.RunningIndex() == -1 {
		if err := k.sched.ScheduleNext(); err != nil {
			logging.Error("kernelcore: schedule: %v", err)
		}
	}
}

// handleAppLine processes one line from an application: TICK/DONE
// update PCB bookkeeping directly; everything else is a syscall that
// blocks the issuing PCB and forwards a request to SFSS.
func (k *Kernel) handleAppLine(al appLine) {
	ev, ok := ParseAppLine(al.line)
	if !ok {
		logging.Warn("kernelcore: unknown app line %q", al.line)
		return
	}

	idx := ev.AppID - 1
	if idx < 0 || idx >= len(k.pcbs) {
		logging.Warn("kernelcore: app line %q names unknown app", al.line)
		return
	}
	p := k.pcbs[idx]
	if p.State == Terminated {
		return
	}

	switch ev.Kind {
	case "TICK":
		p.PC = ev.PC

	case "DONE":
		p.PC = ev.PC
		wasRunning := idx == k.sched.RunningIndex()
		k.sched.Terminate(idx)
		logging.Terminated(idx + 1)
		if wasRunning {
			if err := k.sched.ScheduleNext(); err != nil {
				logging.Error("kernelcore: schedule: %v", err)
			}
		}

	case "SYSCALL":
		logging.SyscallReceived(idx+1, ev.Request.Type.String())
		wasRunning := idx == k.sched.RunningIndex()
		k.sched.Block(idx, ev.Request)
		logging.Blocked(idx+1, ev.Request.Type.String())

		if err := k.sendToSFSS(&ev.Request); err != nil {
			logging.Error("kernelcore: send to sfss: %v", err)
		}

		if wasRunning || k.sched.RunningIndex() == -1 {
			if err := k.sched.ScheduleNext(); err != nil {
				logging.Error("kernelcore: schedule: %v", err)
			}
		}
	}
}

func (k *Kernel) sendToSFSS(req *sfp.Message) error {
	encoded, err := sfp.Encode(req)
	if err != nil {
		return err
	}
	_, err = k.conn.WriteToUDP(encoded, k.sfssAddr)
	return err
}

// onSnapshotRequested stops the IC and the currently RUNNING child,
// then prints a read-only snapshot.
func (k *Kernel) onSnapshotRequested() {
	if k.inter != nil {
		_ = procsup.Notify(k.inter.Pid, syscall.SIGINT)
	}
	if idx := k.sched.RunningIndex(); idx >= 0 {
		_ = procsup.Stop(k.pcbs[idx].Pid)
	}
	k.Snapshot().WriteTo(os.Stderr)
}

// onResumeRequested resumes the IC and the previously-running child.
func (k *Kernel) onResumeRequested() {
	if k.inter != nil {
		_ = procsup.Continue(k.inter.Pid)
	}
	if idx := k.sched.RunningIndex(); idx >= 0 && k.pcbs[idx].State == Running {
		_ = procsup.Continue(k.pcbs[idx].Pid)
	}
	logging.Info("kernelcore: resumed")
}

// Snapshot renders the kernel's current state without mutating it.
func (k *Kernel) Snapshot() Snapshot {
	pcbs := make([]PCB, len(k.pcbs))
	for i, p := range k.pcbs {
		pcbs[i] = *p
	}
	return Snapshot{
		PCBs:       pcbs,
		ReadyQueue: k.ready.Snapshot(),
		RunningIdx: k.sched.RunningIndex(),
		FileQLen:   k.fileQ.Len(),
		DirQLen:    k.dirQ.Len(),
	}
}

// reapChildren performs a non-blocking reap of any dead app, flipping
// its PCB to TERMINATED if it wasn't already.
func (k *Kernel) reapChildren() {
	for {
		pid, ok := procsup.Reap()
		if !ok {
			return
		}
		for i, p := range k.pcbs {
			if p.Pid == pid && p.State != Terminated {
				wasRunning := i == k.sched.RunningIndex()
				k.sched.Terminate(i)
				logging.Terminated(i + 1)
				if wasRunning {
					if err := k.sched.ScheduleNext(); err != nil {
						logging.Error("kernelcore: schedule: %v", err)
					}
				}
			}
		}
	}
}

func (k *Kernel) allTerminated() bool {
	for _, p := range k.pcbs {
		if p.State != Terminated {
			return false
		}
	}
	return true
}

// shutdown terminates the IC, closes the UDP socket and releases every
// mailbox.
func (k *Kernel) shutdown() error {
	if k.inter != nil {
		_ = procsup.Terminate(k.inter.Pid)
	}
	if k.conn != nil {
		_ = k.conn.Close()
	}
	for _, mbx := range k.mailboxes {
		if mbx != nil {
			_ = mbx.Release()
		}
	}
	logging.Info("kernelcore: all apps terminated, exiting")
	return nil
}
