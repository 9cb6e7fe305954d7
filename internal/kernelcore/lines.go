package kernelcore

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/diogo-benchimol/INF1316-Sistemas-Operacionais/internal/sfp"
)

// AppEvent is the parsed form of one newline-delimited line emitted by
// an application process.
type AppEvent struct {
	Kind    string // "TICK", "DONE", or "SYSCALL"
	AppID   int
	Pid     int
	PC      int         // valid for TICK/DONE
	Request sfp.Message // valid for SYSCALL
}

// ParseAppLine classifies one line from an app's stdout. Unknown or
// malformed lines return ok=false and are logged by the caller — they
// never block the issuing PCB.
func ParseAppLine(line string) (AppEvent, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return AppEvent{}, false
	}

	verb := fields[0]
	switch verb {
	case "TICK", "DONE":
		if len(fields) != 4 {
			return AppEvent{}, false
		}
		aid, pid, pc, err := parseAidPidAnd(fields[1], fields[2], fields[3])
		if err != nil {
			return AppEvent{}, false
		}
		return AppEvent{Kind: verb, AppID: aid, Pid: pid, PC: pc}, true

	case "READ":
		if len(fields) != 5 {
			return AppEvent{}, false
		}
		aid, pid, err := parseAidPid(fields[1], fields[2])
		if err != nil {
			return AppEvent{}, false
		}
		offset, err := strconv.Atoi(fields[4])
		if err != nil {
			return AppEvent{}, false
		}
		path := fields[3]
		req := sfp.Message{Type: sfp.RdReq, Owner: aid, Path: path, PathLen: len(path), Offset: offset}
		return AppEvent{Kind: "SYSCALL", AppID: aid, Pid: pid, Request: req}, true

	case "WRITE":
		if len(fields) != 6 {
			return AppEvent{}, false
		}
		aid, pid, err := parseAidPid(fields[1], fields[2])
		if err != nil {
			return AppEvent{}, false
		}
		offset, err := strconv.Atoi(fields[4])
		if err != nil {
			return AppEvent{}, false
		}
		path := fields[3]
		req := sfp.Message{Type: sfp.WrReq, Owner: aid, Path: path, PathLen: len(path), Offset: offset}
		copy(req.Payload[:], fields[5])
		return AppEvent{Kind: "SYSCALL", AppID: aid, Pid: pid, Request: req}, true

	case "ADD", "REM":
		if len(fields) != 5 {
			return AppEvent{}, false
		}
		aid, pid, err := parseAidPid(fields[1], fields[2])
		if err != nil {
			return AppEvent{}, false
		}
		path, name := fields[3], fields[4]
		msgType := sfp.DcReq
		if verb == "REM" {
			msgType = sfp.DrReq
		}
		req := sfp.Message{Type: msgType, Owner: aid, Path: path, PathLen: len(path), Name: name, NameLen: len(name)}
		return AppEvent{Kind: "SYSCALL", AppID: aid, Pid: pid, Request: req}, true

	case "LISTDIR":
		if len(fields) != 4 {
			return AppEvent{}, false
		}
		aid, pid, err := parseAidPid(fields[1], fields[2])
		if err != nil {
			return AppEvent{}, false
		}
		path := fields[3]
		req := sfp.Message{Type: sfp.DlReq, Owner: aid, Path: path, PathLen: len(path)}
		return AppEvent{Kind: "SYSCALL", AppID: aid, Pid: pid, Request: req}, true

	default:
		return AppEvent{}, false
	}
}

// ParseIRQLine classifies one line from the interrupt controller's
// stdout: IRQ0, IRQ1 or IRQ2.
func ParseIRQLine(line string) (string, bool) {
	line = strings.TrimSpace(line)
	switch line {
	case "IRQ0", "IRQ1", "IRQ2":
		return line, true
	default:
		return "", false
	}
}

func parseAidPid(aidField, pidField string) (aid, pid int, err error) {
	aid, err = parseAppID(aidField)
	if err != nil {
		return 0, 0, err
	}
	pid, err = strconv.Atoi(pidField)
	if err != nil {
		return 0, 0, err
	}
	return aid, pid, nil
}

func parseAidPidAnd(aidField, pidField, thirdField string) (aid, pid, third int, err error) {
	aid, pid, err = parseAidPid(aidField, pidField)
	if err != nil {
		return 0, 0, 0, err
	}
	third, err = strconv.Atoi(thirdField)
	if err != nil {
		return 0, 0, 0, err
	}
	return aid, pid, third, nil
}

// parseAppID parses the "A<id>" token used throughout the grammar.
func parseAppID(field string) (int, error) {
	if !strings.HasPrefix(field, "A") {
		return 0, fmt.Errorf("lines: %q missing A prefix", field)
	}
	return strconv.Atoi(field[1:])
}
