// Package logging configures log/slog the way utils/logueador does —
// one file-backed logger per process, plus a set of named helpers for
// the events this system cares about, so call sites never hand-build
// their own log lines.
package logging

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Configure opens (or creates) logs/<name>.log, picks an auto-suffix if
// it already exists, and installs it as the default slog logger at the
// requested level.
func Configure(name, level string) error {
	if err := os.MkdirAll("logs", 0o755); err != nil {
		return fmt.Errorf("logging: mkdir logs: %w", err)
	}

	full := filepath.Join("logs", name+".log")
	for i := 1; fileExists(full); i++ {
		full = filepath.Join("logs", fmt.Sprintf("%s_%d.log", name, i))
	}

	f, err := os.OpenFile(full, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("logging: open %s: %w", full, err)
	}

	handler := slog.NewTextHandler(f, &slog.HandlerOptions{Level: parseLevel(level)})
	slog.SetDefault(slog.New(handler))
	Info("logger %s configured at level %s", full, level)
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func parseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func Info(format string, args ...any)  { slog.Info(fmt.Sprintf(format, args...)) }
func Warn(format string, args ...any)  { slog.Warn(fmt.Sprintf(format, args...)) }
func Error(format string, args ...any) { slog.Error(fmt.Sprintf(format, args...)) }
func Debug(format string, args ...any) { slog.Debug(fmt.Sprintf(format, args...)) }

// ---------------------------- Kernel events ----------------------------

func ProcessCreated(logicalID, pid int) {
	Info("A%d created, pid=%d, state=READY", logicalID, pid)
}

func StateTransition(logicalID int, from, to string) {
	Info("A%d %s -> %s", logicalID, from, to)
}

func SyscallReceived(logicalID int, kind string) {
	Info("A%d requested syscall %s", logicalID, kind)
}

func Blocked(logicalID int, waitingOn string) {
	Info("A%d BLOCKED, waiting SFP_MSG %s", logicalID, waitingOn)
}

func ReplyDispatched(logicalID int, msgType string) {
	Info("A%d unblocked by reply %s", logicalID, msgType)
}

func Terminated(logicalID int) {
	Info("A%d TERMINATED", logicalID)
}

func Idle() {
	Info("scheduler IDLE, no READY processes")
}

func ReplyDropped(reason string, owner int) {
	Warn("dropped reply for owner %d: %s", owner, reason)
}

// ---------------------------- SFSS events ----------------------------

func RequestReceived(msgType string, owner int, path string) {
	Info("%s owner=%d path=%s", msgType, owner, path)
}

func PermissionDenied(owner int, path string) {
	Warn("permission denied: owner=%d path=%s", owner, path)
}

func IOFailed(op string, path string, err error) {
	Error("%s failed on %s: %v", op, path, err)
}
