package kernelcore

import (
	"testing"

	"github.com/diogo-benchimol/INF1316-Sistemas-Operacionais/internal/sfp"
)

func TestParseAppLineTick(t *testing.T) {
	ev, ok := ParseAppLine("TICK A3 4242 7")
	if !ok {
		t.Fatalf("expected ok")
	}
	if ev.Kind != "TICK" || ev.AppID != 3 || ev.Pid != 4242 || ev.PC != 7 {
		t.Fatalf("unexpected event: %+v", ev)
	}
}

func TestParseAppLineDone(t *testing.T) {
	ev, ok := ParseAppLine("DONE A1 100 20")
	if !ok {
		t.Fatalf("expected ok")
	}
	if ev.Kind != "DONE" || ev.AppID != 1 || ev.PC != 20 {
		t.Fatalf("unexpected event: %+v", ev)
	}
}

func TestParseAppLineRead(t *testing.T) {
	ev, ok := ParseAppLine("READ A2 555 /A2/file.txt 32")
	if !ok {
		t.Fatalf("expected ok")
	}
	if ev.Kind != "SYSCALL" || ev.Request.Type != sfp.RdReq {
		t.Fatalf("unexpected event: %+v", ev)
	}
	if ev.Request.Path != "/A2/file.txt" || ev.Request.Offset != 32 || ev.Request.Owner != 2 {
		t.Fatalf("unexpected request: %+v", ev.Request)
	}
}

func TestParseAppLineWrite(t *testing.T) {
	ev, ok := ParseAppLine("WRITE A2 555 /A0/file.txt 0 HelloA2PC3")
	if !ok {
		t.Fatalf("expected ok")
	}
	if ev.Request.Type != sfp.WrReq {
		t.Fatalf("expected WrReq, got %v", ev.Request.Type)
	}
	if string(ev.Request.Payload[:len("HelloA2PC3")]) != "HelloA2PC3" {
		t.Fatalf("unexpected payload: %q", ev.Request.Payload[:])
	}
}

func TestParseAppLineAddRem(t *testing.T) {
	add, ok := ParseAppLine("ADD A4 10 /A4 newDir_A4_3")
	if !ok || add.Request.Type != sfp.DcReq || add.Request.Name != "newDir_A4_3" {
		t.Fatalf("unexpected ADD parse: ok=%v ev=%+v", ok, add)
	}
	rem, ok := ParseAppLine("REM A4 10 /A4 newDir_A4_2")
	if !ok || rem.Request.Type != sfp.DrReq {
		t.Fatalf("unexpected REM parse: ok=%v ev=%+v", ok, rem)
	}
}

func TestParseAppLineListdir(t *testing.T) {
	ev, ok := ParseAppLine("LISTDIR A1 10 /A0")
	if !ok || ev.Request.Type != sfp.DlReq || ev.Request.Path != "/A0" {
		t.Fatalf("unexpected LISTDIR parse: ok=%v ev=%+v", ok, ev)
	}
}

func TestParseAppLineMalformed(t *testing.T) {
	cases := []string{"", "GARBAGE", "TICK A1 2", "READ A1 2 /A1"}
	for _, line := range cases {
		if _, ok := ParseAppLine(line); ok {
			t.Errorf("expected %q to be rejected", line)
		}
	}
}

func TestParseIRQLine(t *testing.T) {
	for _, want := range []string{"IRQ0", "IRQ1", "IRQ2"} {
		got, ok := ParseIRQLine(want)
		if !ok || got != want {
			t.Errorf("ParseIRQLine(%q) = %q, %v", want, got, ok)
		}
	}
	if _, ok := ParseIRQLine("IRQ3"); ok {
		t.Errorf("expected IRQ3 to be rejected")
	}
}
