package lifecycle

import (
	"fmt"
	"os"
	"os/exec"
	"syscall"
	"time"

	"vllmctl/internal/config"
)

// Handle is a process this tool spawned. It only exists for servers
// launched in-process; connecting to a pre-existing server yields no
// handle. Once the launching invocation exits, ownership of the OS
// process passes to the operator.
type Handle struct {
	PID       int
	LogPath   string
	StartedAt time.Time

	cmd    *exec.Cmd
	waitCh chan error
}

// Exited returns a channel that is closed with the process exit error
// once the subprocess terminates. Useful to detect an early crash while
// waiting for readiness.
func (h *Handle) Exited() <-chan error { return h.waitCh }

// Launch spawns the external server with the derived argument list,
// redirecting its output to the log sink at logPath, and returns
// immediately with a live handle. It does not block on readiness.
func (m *Manager) Launch(cfg config.ServerConfig, logPath string) (*Handle, error) {
	bin, err := exec.LookPath(m.bin)
	if err != nil {
		return nil, &LaunchError{Reason: fmt.Sprintf("executable %q not found", m.bin), Err: err}
	}
	if portBusy(cfg.Host, cfg.Port) {
		return nil, &LaunchError{Reason: fmt.Sprintf("port %d already has a listener", cfg.Port)}
	}

	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, &LaunchError{Reason: "open log sink " + logPath, Err: err}
	}

	cmd := exec.Command(bin, config.LaunchArgs(cfg)...)
	cmd.Stdout = logFile
	cmd.Stderr = logFile
	if err := cmd.Start(); err != nil {
		_ = logFile.Close()
		return nil, &LaunchError{Reason: "start " + m.bin, Err: err}
	}
	// The child holds its own copy of the descriptor now.
	_ = logFile.Close()

	h := &Handle{
		PID:       cmd.Process.Pid,
		LogPath:   logPath,
		StartedAt: m.now(),
		cmd:       cmd,
		waitCh:    make(chan error, 1),
	}
	go func() {
		h.waitCh <- cmd.Wait()
		close(h.waitCh)
	}()

	m.log.Info().
		Str("model", cfg.Model).
		Int("pid", h.PID).
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Str("log", logPath).
		Msg("server spawned")
	return h, nil
}

// Stop terminates a spawned server: SIGTERM first, then SIGKILL after the
// grace period. Best effort; a nil handle is a no-op.
func (m *Manager) Stop(h *Handle) error {
	if h == nil || h.cmd == nil || h.cmd.Process == nil {
		return nil
	}
	_ = h.cmd.Process.Signal(syscall.SIGTERM)
	select {
	case <-h.waitCh:
		// exited gracefully
	case <-time.After(m.stopGrace):
		_ = h.cmd.Process.Kill()
		<-h.waitCh
	}
	m.log.Info().Int("pid", h.PID).Msg("server stopped")
	return nil
}
