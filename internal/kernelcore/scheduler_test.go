package kernelcore

import (
	"testing"

	"github.com/diogo-benchimol/INF1316-Sistemas-Operacionais/internal/sfp"
)

type fakeStopper struct {
	stopped   []int
	continued []int
}

func (f *fakeStopper) Stop(pid int) error {
	f.stopped = append(f.stopped, pid)
	return nil
}

func (f *fakeStopper) Continue(pid int) error {
	f.continued = append(f.continued, pid)
	return nil
}

func newTestPCBs(n int) []*PCB {
	pcbs := make([]*PCB, n)
	for i := range pcbs {
		pcbs[i] = &PCB{Pid: 1000 + i, ID: i + 1, State: Ready}
	}
	return pcbs
}

func TestScheduleNextPicksFirstReady(t *testing.T) {
	pcbs := newTestPCBs(3)
	rq := NewReadyQueue(3)
	rq.PushTail(0)
	rq.PushTail(1)
	rq.PushTail(2)
	stopper := &fakeStopper{}
	sched := NewScheduler(pcbs, rq, stopper)

	if err := sched.ScheduleNext(); err != nil {
		t.Fatalf("ScheduleNext: %v", err)
	}
	if sched.RunningIndex() != 0 {
		t.Fatalf("expected index 0 running, got %d", sched.RunningIndex())
	}
	if pcbs[0].State != Running {
		t.Fatalf("expected pcbs[0] RUNNING, got %s", pcbs[0].State)
	}
	if len(stopper.continued) != 1 || stopper.continued[0] != 1000 {
		t.Fatalf("expected SIGCONT to pid 1000, got %v", stopper.continued)
	}
}

func TestScheduleNextPreemptsRunning(t *testing.T) {
	pcbs := newTestPCBs(2)
	pcbs[0].State = Running
	rq := NewReadyQueue(2)
	rq.PushTail(1)
	stopper := &fakeStopper{}
	sched := NewScheduler(pcbs, rq, stopper)
	sched.runningIdx = 0

	if err := sched.ScheduleNext(); err != nil {
		t.Fatalf("ScheduleNext: %v", err)
	}
	if pcbs[0].State != Ready {
		t.Fatalf("expected pcbs[0] preempted to READY, got %s", pcbs[0].State)
	}
	if sched.RunningIndex() != 1 {
		t.Fatalf("expected index 1 running, got %d", sched.RunningIndex())
	}
	if len(stopper.stopped) != 1 || stopper.stopped[0] != 1000 {
		t.Fatalf("expected SIGSTOP to pid 1000, got %v", stopper.stopped)
	}
	// pcbs[0] should have been re-enqueued at the tail.
	if got := rq.Snapshot(); len(got) != 1 || got[0] != 0 {
		t.Fatalf("expected pcbs[0] re-enqueued, ready queue = %v", got)
	}
}

func TestScheduleNextSkipsBlockedAndDropsTerminated(t *testing.T) {
	pcbs := newTestPCBs(3)
	pcbs[0].State = Blocked
	pcbs[1].State = Terminated
	pcbs[2].State = Ready
	rq := NewReadyQueue(3)
	rq.PushTail(0)
	rq.PushTail(1)
	rq.PushTail(2)
	stopper := &fakeStopper{}
	sched := NewScheduler(pcbs, rq, stopper)

	if err := sched.ScheduleNext(); err != nil {
		t.Fatalf("ScheduleNext: %v", err)
	}
	if sched.RunningIndex() != 2 {
		t.Fatalf("expected index 2 running, got %d", sched.RunningIndex())
	}
	// blocked pcb 0 should have been re-enqueued, terminated pcb 1 dropped.
	if got := rq.Snapshot(); len(got) != 1 || got[0] != 0 {
		t.Fatalf("expected only pcbs[0] left in queue, got %v", got)
	}
}

func TestScheduleNextIdleWhenNoneReady(t *testing.T) {
	pcbs := newTestPCBs(2)
	pcbs[0].State = Terminated
	pcbs[1].State = Terminated
	rq := NewReadyQueue(2)
	stopper := &fakeStopper{}
	sched := NewScheduler(pcbs, rq, stopper)

	if err := sched.ScheduleNext(); err != nil {
		t.Fatalf("ScheduleNext: %v", err)
	}
	if sched.RunningIndex() != -1 {
		t.Fatalf("expected idle (-1), got %d", sched.RunningIndex())
	}
}

func TestScheduleNextReconcilesStrandedReady(t *testing.T) {
	pcbs := newTestPCBs(2)
	pcbs[0].State = Ready
	pcbs[1].State = Ready
	rq := NewReadyQueue(2) // empty, even though both PCBs are READY
	stopper := &fakeStopper{}
	sched := NewScheduler(pcbs, rq, stopper)

	if err := sched.ScheduleNext(); err != nil {
		t.Fatalf("ScheduleNext: %v", err)
	}
	if sched.RunningIndex() != 0 {
		t.Fatalf("expected reconciliation to pick index 0, got %d", sched.RunningIndex())
	}
}

func TestBlockAndUnblock(t *testing.T) {
	pcbs := newTestPCBs(1)
	pcbs[0].State = Running
	rq := NewReadyQueue(1)
	stopper := &fakeStopper{}
	sched := NewScheduler(pcbs, rq, stopper)
	sched.runningIdx = 0

	req := sfp.Message{Type: sfp.RdReq}
	sched.Block(0, req)
	if pcbs[0].State != Blocked || !pcbs[0].HasPending {
		t.Fatalf("expected pcbs[0] BLOCKED with pending syscall")
	}
	if sched.RunningIndex() != -1 {
		t.Fatalf("expected running index cleared after block")
	}

	sched.Unblock(0)
	if pcbs[0].State != Ready || pcbs[0].HasPending {
		t.Fatalf("expected pcbs[0] READY with no pending syscall")
	}
	if rq.Len() != 1 {
		t.Fatalf("expected unblocked pcb re-enqueued")
	}
}
