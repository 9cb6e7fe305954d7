// Command kernelsim is the micro-kernel simulator's single binary,
// dispatching to one of three roles by argv.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/diogo-benchimol/INF1316-Sistemas-Operacionais/internal/appsim"
	"github.com/diogo-benchimol/INF1316-Sistemas-Operacionais/internal/config"
	"github.com/diogo-benchimol/INF1316-Sistemas-Operacionais/internal/ic"
	"github.com/diogo-benchimol/INF1316-Sistemas-Operacionais/internal/kernelcore"
	"github.com/diogo-benchimol/INF1316-Sistemas-Operacionais/internal/logging"
	"github.com/diogo-benchimol/INF1316-Sistemas-Operacionais/internal/shm"
)

const exitBadArgs = 1
const exitFatal = 2

func main() {
	switch {
	case len(os.Args) == 1:
		os.Exit(runKernel())
	case len(os.Args) >= 2 && os.Args[1] == "inter":
		os.Exit(runInter())
	case len(os.Args) == 3 && os.Args[1] == "app":
		os.Exit(runApp(os.Args[2]))
	default:
		usage()
		os.Exit(exitBadArgs)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  kernelsim             (kernel supervisor)")
	fmt.Fprintln(os.Stderr, "  kernelsim inter       (interrupt controller)")
	fmt.Fprintln(os.Stderr, "  kernelsim app <k>     (application process)")
}

func configPath() string {
	if p := os.Getenv("KERNELSIM_CONFIG"); p != "" {
		return p
	}
	return "config.json"
}

func runKernel() int {
	cfg, err := config.Load[config.Kernel](configPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "kernelsim: load config: %v\n", err)
		return exitFatal
	}
	if err := logging.Configure("kernel", cfg.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "kernelsim: configure logging: %v\n", err)
		return exitFatal
	}

	k := kernelcore.New(kernelcore.Config{
		NApps:    cfg.Apps,
		SFSSHost: cfg.SfssHost,
		SFSSPort: cfg.SfssPort,
	})
	if err := k.Spawn(); err != nil {
		logging.Error("kernelsim: spawn: %v", err)
		return exitFatal
	}
	if err := k.Run(); err != nil {
		logging.Error("kernelsim: run: %v", err)
		return exitFatal
	}
	return 0
}

func runInter() int {
	cfg, err := config.Load[config.Kernel](configPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "kernelsim inter: load config: %v\n", err)
		return exitFatal
	}

	controller := ic.New(ic.Config{
		Quantum:  time.Duration(cfg.QuantumMs) * time.Millisecond,
		IRQ1Prob: cfg.Irq1Prob,
		IRQ2Prob: cfg.Irq2Prob,
	}, os.Stdout)

	installPauseHandlers(controller)

	if err := controller.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "kernelsim inter: %v\n", err)
		return exitFatal
	}
	return 0
}

// installPauseHandlers wires SIGINT/SIGCONT, sent by the kernel's own
// snapshot/resume handling, to the controller's pause/resume.
func installPauseHandlers(controller *ic.Controller) {
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGCONT)
	go func() {
		for sig := range sigCh {
			switch sig {
			case syscall.SIGINT:
				controller.Pause()
			case syscall.SIGCONT:
				controller.Resume()
			}
		}
	}()
}

func runApp(idArg string) int {
	id, err := strconv.Atoi(idArg)
	if err != nil || id < 1 {
		fmt.Fprintf(os.Stderr, "kernelsim app: invalid app id %q\n", idArg)
		return exitBadArgs
	}

	cfg, err := config.Load[config.Kernel](configPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "kernelsim app %d: load config: %v\n", id, err)
		return exitFatal
	}

	mbx, err := shm.Attach(id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "kernelsim app %d: attach mailbox: %v\n", id, err)
		return exitFatal
	}

	app := appsim.New(id, appsim.Config{
		Quantum:     time.Duration(cfg.QuantumMs) * time.Millisecond,
		MaxPC:       cfg.MaxPC,
		SyscallProb: cfg.SyscallProb,
	}, os.Stdout, mbx)

	if err := app.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "kernelsim app %d: %v\n", id, err)
		return exitFatal
	}
	return 0
}
