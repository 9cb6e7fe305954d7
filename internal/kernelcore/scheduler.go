package kernelcore

import (
	"github.com/diogo-benchimol/INF1316-Sistemas-Operacionais/internal/logging"
	"github.com/diogo-benchimol/INF1316-Sistemas-Operacionais/internal/sfp"
)

// Stopper sends SIGSTOP/SIGCONT to a PCB's OS process. The kernel's
// process supervisor implements this; the Scheduler stays signal-free
// so it can be unit tested without spawning real processes.
type Stopper interface {
	Stop(pid int) error
	Continue(pid int) error
}

// Scheduler runs a round-robin algorithm over a fixed PCB table and
// ready queue, preempting the current RUNNING process (if any) in
// favor of the next READY one it finds.
type Scheduler struct {
	pcbs       []*PCB
	ready      *ReadyQueue
	stopper    Stopper
	runningIdx int
}

// NewScheduler returns a scheduler over pcbs (indexed by logical id - 1)
// using ready as its round-robin queue.
func NewScheduler(pcbs []*PCB, ready *ReadyQueue, stopper Stopper) *Scheduler {
	return &Scheduler{pcbs: pcbs, ready: ready, stopper: stopper, runningIdx: -1}
}

// RunningIndex returns the index of the currently RUNNING PCB, or -1.
func (s *Scheduler) RunningIndex() int { return s.runningIdx }

// ScheduleNext selects the next READY PCB to run, SIGSTOPping whatever
// was RUNNING and re-enqueueing it at the tail, then SIGCONTing the
// chosen one. It includes a ready-queue reconciliation fallback: a
// READY PCB that somehow fell outside the queue is not supposed to
// happen, but the scheduler self-heals rather than wedging.
func (s *Scheduler) ScheduleNext() error {
	tries := s.ready.Len()
	for tries > 0 {
		tries--
		next, ok := s.ready.PopHead()
		if !ok {
			break
		}

		p := s.pcbs[next]
		if p.State == Ready {
			if err := s.preemptRunning(); err != nil {
				return err
			}
			if err := s.stopper.Continue(p.Pid); err != nil {
				return err
			}
			p.transition(Running)
			s.runningIdx = next
			return nil
		}
		if p.State != Terminated {
			s.ready.PushTail(next)
		}
	}

	preempted := s.runningIdx >= 0 && s.pcbs[s.runningIdx].State == Running
	if err := s.preemptRunning(); err != nil {
		return err
	}
	if preempted {
		// The preempted PCB is now READY at the tail; a second pass
		// picks it up again.
		return s.ScheduleNext()
	}

	if s.ready.Len() == 0 {
		foundReady := false
		for i, p := range s.pcbs {
			if p.State == Ready {
				s.ready.PushTail(i)
				foundReady = true
			}
		}
		if foundReady {
			return s.ScheduleNext()
		}

		s.runningIdx = -1
		for _, p := range s.pcbs {
			if p.State == Blocked {
				return nil
			}
		}
		logging.Idle()
		return nil
	}

	// Ready queue holds only non-READY entries (e.g. all BLOCKED): idle.
	s.runningIdx = -1
	return nil
}

// preemptRunning stops the current RUNNING pcb, if any, and re-enqueues
// it as READY at the tail of the ready queue.
func (s *Scheduler) preemptRunning() error {
	if s.runningIdx < 0 {
		return nil
	}
	p := s.pcbs[s.runningIdx]
	if p.State != Running {
		return nil
	}
	if err := s.stopper.Stop(p.Pid); err != nil {
		return err
	}
	p.transition(Ready)
	s.ready.PushTail(s.runningIdx)
	return nil
}

// Block transitions the PCB at idx to BLOCKED, recording req for later
// snapshot reporting and reply matching. If idx is the RUNNING PCB the
// running index is cleared, and the caller is responsible for calling
// ScheduleNext next.
func (s *Scheduler) Block(idx int, req sfp.Message) {
	p := s.pcbs[idx]
	p.transition(Blocked)
	p.Pending = req
	p.HasPending = true
	if idx == s.runningIdx {
		s.runningIdx = -1
	}
}

// Unblock transitions the PCB at idx from BLOCKED back to READY and
// enqueues it, after a matching reply has been dispatched.
func (s *Scheduler) Unblock(idx int) {
	p := s.pcbs[idx]
	p.transition(Ready)
	p.HasPending = false
	s.ready.PushTail(idx)
}

// Terminate transitions the PCB at idx to TERMINATED. A terminated PCB
// is never re-enqueued.
func (s *Scheduler) Terminate(idx int) {
	p := s.pcbs[idx]
	p.transition(Terminated)
	if idx == s.runningIdx {
		s.runningIdx = -1
	}
}
