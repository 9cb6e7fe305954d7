// Package shm implements the per-application shared reply mailbox on
// top of real System V shared memory, via golang.org/x/sys/unix — the
// same shmget/shmat facility the original C simulator used, not an
// in-process substitute, because kernelsim's app/inter roles are
// genuine OS processes (see cmd/kernelsim).
package shm

import (
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/diogo-benchimol/INF1316-Sistemas-Operacionais/internal/sfp"
)

// baseKey mirrors SHM_KEY_BASE from the original simulator so a kernel
// and its children agree on segment keys without passing them on the
// command line.
const baseKey = 0x1316

func keyFor(appID int) int { return baseKey + appID }

// Mailbox is one application's single-message reply slot.
type Mailbox struct {
	id   int
	data []byte
}

// Create allocates the shared segment for appID. Only the kernel calls
// Create; it is the segment's owner and is responsible for Release.
func Create(appID int) (*Mailbox, error) {
	id, err := unix.SysvShmGet(keyFor(appID), sfp.Size, unix.IPC_CREAT|0o666)
	if err != nil {
		return nil, fmt.Errorf("shm: shmget A%d: %w", appID, err)
	}
	return attach(id)
}

// Attach opens the segment the kernel already created for appID; the
// app process uses this to find its mailbox.
func Attach(appID int) (*Mailbox, error) {
	id, err := unix.SysvShmGet(keyFor(appID), sfp.Size, 0o666)
	if err != nil {
		return nil, fmt.Errorf("shm: shmget A%d: %w", appID, err)
	}
	return attach(id)
}

func attach(id int) (*Mailbox, error) {
	data, err := unix.SysvShmAttach(id, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("shm: shmat id=%d: %w", id, err)
	}
	return &Mailbox{id: id, data: data}, nil
}

// Write encodes msg and copies it into the mailbox. Callers must only
// do this while the owning app is BLOCKED, since app and kernel access
// to a mailbox is never concurrent — the kernel is the sole writer.
func (m *Mailbox) Write(msg *sfp.Message) error {
	encoded, err := sfp.Encode(msg)
	if err != nil {
		return err
	}
	copy(m.data, encoded)
	return nil
}

// Read decodes the mailbox's current contents. Only the owning app
// reads, and only once per resume.
func (m *Mailbox) Read() (*sfp.Message, error) {
	return sfp.Decode(m.data)
}

// Detach unmaps the segment from this process without destroying it.
func (m *Mailbox) Detach() error {
	return unix.SysvShmDetach(m.data)
}

// Release detaches and marks the segment for destruction. Only the
// kernel, as creator, should call this — at system shutdown.
func (m *Mailbox) Release() error {
	if err := m.Detach(); err != nil {
		return err
	}
	_, err := unix.SysvShmCtl(m.id, unix.IPC_RMID, nil)
	return err
}
