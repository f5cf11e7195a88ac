//go:build unix

package backend

import (
	"os/exec"
	"syscall"
)

// prepareCmd moves the child into its own process group so a terminal
// SIGINT aimed at the chat loop does not kill an in-flight request.
func prepareCmd(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}
