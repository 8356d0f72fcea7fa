// Package bootstrap wires the console logging runtime together in its
// required startup order: log store, event loop, console redirects around
// the process output streams, interrupt handling, and startup sanity probes.
// Everything is handed over by explicit reference; no ambient process state
// is mutated, so host code that wants "the current output stream" takes it
// from the App.
package bootstrap

import (
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/sirupsen/logrus"

	"github.com/Benefit-Zebra/ballistica/pkg/console"
	"github.com/Benefit-Zebra/ballistica/pkg/ds"
	"github.com/Benefit-Zebra/ballistica/pkg/eventloop"
	"github.com/Benefit-Zebra/ballistica/pkg/logstore"
	"github.com/Benefit-Zebra/ballistica/pkg/utilfn"
)

// App owns the constructed runtime for one process run.
type App struct {
	AppRunId  string
	StartTime int64
	Args      []string

	Loop  *eventloop.EventLoop
	Store *logstore.Store

	// Stdout/Stderr are the intercepted output channels; nil when the
	// corresponding channel is not wrapped by config.
	Stdout *console.Redirect
	Stderr *console.Redirect

	cfg     ds.Config
	sigChan chan os.Signal
}

// MakeApp builds the store, loop, and redirects around the given consoles.
// Construction order matters: the store must exist before any redirect can
// ship to it, and the loop before any redirect can defer to it.
func MakeApp(cfg ds.Config, stdoutCon console.Console, stderrCon console.Console) (*App, error) {
	store, err := logstore.MakeStore(cfg)
	if err != nil {
		return nil, err
	}
	loop := eventloop.MakeEventLoop()

	app := &App{
		AppRunId:  uuid.New().String(),
		StartTime: time.Now().UnixMilli(),
		Args:      utilfn.CopyStrArr(os.Args),
		Loop:      loop,
		Store:     store,
		cfg:       cfg,
	}
	if cfg.ConsoleConfig.WrapStdout {
		app.Stdout = console.MakeRedirect(stdoutCon, stdoutCon.WriteString, ds.DestPrimary, store, loop)
	}
	if cfg.ConsoleConfig.WrapStderr {
		app.Stderr = console.MakeRedirect(stderrCon, stderrCon.WriteString, ds.DestSecondary, store, loop)
	}
	return app, nil
}

// Bootstrap is the full ordered startup against the real process streams.
func Bootstrap(cfg ds.Config) (*App, error) {
	app, err := MakeApp(cfg, console.MakeFileConsole(os.Stdout), console.MakeFileConsole(os.Stderr))
	if err != nil {
		return nil, err
	}
	app.watchInterrupts()

	if !localeIsUTF8() && !cfg.Quiet {
		logrus.Warn("bootstrap: locale does not select UTF-8; console text may render incorrectly")
	}
	if !cfg.Quiet {
		app.logEnvironment()
	}
	return app, nil
}

// Run drives the event loop on the calling goroutine until shutdown.
func (app *App) Run() {
	app.Loop.Run()
}

// Shutdown quits the loop and flushes and releases the store. Unterminated
// trailing console text is dropped, not shipped; best-effort logging accepts
// that.
func (app *App) Shutdown() {
	if app.sigChan != nil {
		signal.Stop(app.sigChan)
	}
	app.Loop.Quit()
	if err := app.Store.Dispose(); err != nil && !app.cfg.Quiet {
		logrus.Errorf("bootstrap: error disposing log store: %v", err)
	}
	if app.Stdout != nil {
		app.Stdout.Flush()
	}
	if app.Stderr != nil {
		app.Stderr.Flush()
	}
}

// watchInterrupts converts SIGINT/SIGTERM into a clean loop quit instead of
// the runtime's default hard exit.
func (app *App) watchInterrupts() {
	app.sigChan = make(chan os.Signal, 1)
	signal.Notify(app.sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		for range app.sigChan {
			app.Loop.Quit()
		}
	}()
}

// localeIsUTF8 reports whether the process locale selects UTF-8 output.
func localeIsUTF8() bool {
	for _, name := range []string{"LC_ALL", "LC_CTYPE", "LANG"} {
		val := os.Getenv(name)
		if val == "" {
			continue
		}
		upperVal := strings.ToUpper(val)
		return strings.Contains(upperVal, "UTF-8") || strings.Contains(upperVal, "UTF8")
	}
	return false
}

// logEnvironment emits a one-time startup report of the host environment.
func (app *App) logEnvironment() {
	fields := logrus.Fields{
		"apprunid": app.AppRunId,
		"pid":      os.Getpid(),
	}
	if cpuCount, err := cpu.Counts(true); err == nil {
		fields["cpus"] = cpuCount
	}
	if hostInfo, err := host.Info(); err == nil {
		fields["os"] = hostInfo.OS
		fields["platform"] = hostInfo.Platform
		fields["kernelarch"] = hostInfo.KernelArch
	}
	if memInfo, err := mem.VirtualMemory(); err == nil {
		fields["totalmem"] = memInfo.Total
	}
	logrus.WithFields(fields).Info("console logging initialized")
}
