package kernelcore

import (
	"fmt"
	"io"
	"strings"
)

// Snapshot is a read-only rendering of kernel state for an out-of-band
// pause request. Taking one never mutates PCB/queue state — callers
// are responsible for actually stopping children before calling
// WriteTo.
type Snapshot struct {
	PCBs       []PCB
	ReadyQueue []int // PCB indices, head to tail
	RunningIdx int
	FileQLen   int
	DirQLen    int
}

// WriteTo renders the snapshot in the kernel's diagnostic format.
func (s Snapshot) WriteTo(w io.Writer) (int64, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "================ SNAPSHOT (paused) =================\n")
	for _, p := range s.PCBs {
		fmt.Fprintf(&b, "A%d (PID %d): PC=%d, state=%s", p.ID, p.Pid, p.PC, p.State)
		if p.State == Blocked && p.HasPending {
			fmt.Fprintf(&b, ", waiting SFP_MSG %s", p.Pending.Type)
		}
		if p.State == Terminated {
			fmt.Fprintf(&b, " (TERMINATED)")
		}
		fmt.Fprintf(&b, "\n")
	}
	fmt.Fprintf(&b, "READY Q: ")
	if len(s.ReadyQueue) == 0 {
		fmt.Fprintf(&b, "(empty)\n")
	} else {
		for _, idx := range s.ReadyQueue {
			fmt.Fprintf(&b, "A%d ", idx+1)
		}
		fmt.Fprintf(&b, "\n")
	}
	if s.RunningIdx >= 0 {
		fmt.Fprintf(&b, "RUNNING: A%d\n", s.RunningIdx+1)
	} else {
		fmt.Fprintf(&b, "RUNNING: (none)\n")
	}
	fmt.Fprintf(&b, "File-Q: %d waiting / Dir-Q: %d waiting\n", s.FileQLen, s.DirQLen)
	fmt.Fprintf(&b, "=============================================================\n")

	n, err := io.WriteString(w, b.String())
	return int64(n), err
}
