package sfss

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/diogo-benchimol/INF1316-Sistemas-Operacionais/internal/sfp"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	root := t.TempDir()
	for _, d := range []string{"A0", "A1", "A2"} {
		if err := os.Mkdir(filepath.Join(root, d), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", d, err)
		}
	}
	return &Server{root: root}
}

func TestHandleWriteCreatesAndReads(t *testing.T) {
	s := newTestServer(t)
	req := &sfp.Message{Type: sfp.WrReq, Owner: 1, Path: "/A1/file.txt", PathLen: len("/A1/file.txt")}
	copy(req.Payload[:], "HelloWorld12345!")

	res := s.handleWrite(req)
	if !res.OK() {
		t.Fatalf("write failed: status=%d", res.Status())
	}

	rreq := &sfp.Message{Type: sfp.RdReq, Owner: 1, Path: "/A1/file.txt", PathLen: len("/A1/file.txt"), Offset: 0}
	rres := s.handleRead(rreq)
	if !rres.OK() {
		t.Fatalf("read failed: status=%d", rres.Status())
	}
	if string(rres.Payload[:]) != "HelloWorld12345!" {
		t.Fatalf("unexpected payload: %q", rres.Payload[:])
	}
}

func TestHandleWriteSparseFill(t *testing.T) {
	s := newTestServer(t)
	req := &sfp.Message{Type: sfp.WrReq, Owner: 1, Path: "/A1/sparse.txt", PathLen: len("/A1/sparse.txt"), Offset: 32}
	copy(req.Payload[:], "END_OF_HOLE_BLOCK")

	res := s.handleWrite(req)
	if !res.OK() {
		t.Fatalf("write failed: status=%d", res.Status())
	}

	full := s.fullPath("/A1/sparse.txt")
	data, err := os.ReadFile(full)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if len(data) != 32+sfp.PayloadSize {
		t.Fatalf("unexpected file size: %d", len(data))
	}
	for _, b := range data[:32] {
		if b != 0x20 {
			t.Fatalf("expected sparse-fill byte 0x20, got %x", b)
		}
	}
}

func TestHandleWriteDeletesOnEmptyPayloadAtOffsetZero(t *testing.T) {
	s := newTestServer(t)
	full := s.fullPath("/A1/dead.txt")
	if err := os.WriteFile(full, []byte("anything"), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	req := &sfp.Message{Type: sfp.WrReq, Owner: 1, Path: "/A1/dead.txt", PathLen: len("/A1/dead.txt"), Offset: 0}
	res := s.handleWrite(req)
	if !res.OK() {
		t.Fatalf("delete failed: status=%d", res.Status())
	}
	if _, err := os.Stat(full); !os.IsNotExist(err) {
		t.Fatalf("expected file to be deleted, stat err=%v", err)
	}
}

func TestHandleReadPermissionDenied(t *testing.T) {
	s := newTestServer(t)
	req := &sfp.Message{Type: sfp.RdReq, Owner: 1, Path: "/A2/file.txt", PathLen: len("/A2/file.txt")}
	res := s.handleRead(req)
	if res.Status() != sfp.StatusPermission {
		t.Fatalf("expected permission error, got %d", res.Status())
	}
}

func TestHandleReadNotFound(t *testing.T) {
	s := newTestServer(t)
	req := &sfp.Message{Type: sfp.RdReq, Owner: 1, Path: "/A1/missing.txt", PathLen: len("/A1/missing.txt")}
	res := s.handleRead(req)
	if res.Status() != sfp.StatusNotFound {
		t.Fatalf("expected not-found error, got %d", res.Status())
	}
}

func TestHandleReadOffsetOOB(t *testing.T) {
	s := newTestServer(t)
	full := s.fullPath("/A1/small.txt")
	if err := os.WriteFile(full, []byte("1234"), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}
	req := &sfp.Message{Type: sfp.RdReq, Owner: 1, Path: "/A1/small.txt", PathLen: len("/A1/small.txt"), Offset: 100}
	res := s.handleRead(req)
	if res.Status() != sfp.StatusOffsetOOB {
		t.Fatalf("expected offset-OOB error, got %d", res.Status())
	}
}
