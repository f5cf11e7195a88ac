package backend

import (
	"os/exec"
	"strings"
	"time"
)

// EnsureServing starts `<binary> serve` in the background and returns at
// once. The channel receives the outcome: the exit error if serve stopped
// within wait (usually because a server is already listening), or nil if it
// is still running, in which case it is left running. Callers may drop the
// channel; nothing on the request path depends on it.
func EnsureServing(binary string, wait time.Duration) <-chan error {
	done := make(chan error, 1)
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ollama"
	}
	go func() {
		defer close(done)
		cmd := exec.Command(binary, "serve")
		prepareCmd(cmd)
		if err := cmd.Start(); err != nil {
			log.Debugf("ensure serving: start %s: %v", binary, err)
			done <- err
			return
		}
		exited := make(chan error, 1)
		go func() { exited <- cmd.Wait() }()
		select {
		case err := <-exited:
			log.Debugf("ensure serving: %s serve exited: %v", binary, err)
			done <- err
		case <-time.After(wait):
			log.Infof("ensure serving: %s serve started (pid %d)", binary, cmd.Process.Pid)
			done <- nil
		}
	}()
	return done
}
