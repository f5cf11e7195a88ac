package backend

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ProcessOptions configures the `<binary> run <model> <prompt>` backend.
type ProcessOptions struct {
	Binary string
	Model  string
	Env    []string
}

// Process runs one inference subprocess per call with plain pipes, so
// stdout holds only the model's answer.
type Process struct {
	binary string
	model  string
	env    []string
}

var _ Generator = (*Process)(nil)

func NewProcess(opts ProcessOptions) *Process {
	binary := strings.TrimSpace(opts.Binary)
	if binary == "" {
		binary = "ollama"
	}
	return &Process{binary: binary, model: opts.Model, env: opts.Env}
}

// Generate has no timeout; slow local inference is expected.
func (p *Process) Generate(ctx context.Context, prompt string) (Output, error) {
	cmd := exec.CommandContext(ctx, p.binary, "run", p.model, prompt)
	if len(p.env) > 0 {
		cmd.Env = p.env
	}
	prepareCmd(cmd)

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	text := strings.ToValidUTF8(stdout.String(), "")
	if err == nil {
		return Output{Text: text}, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		log.WithField("stderr", strings.TrimSpace(stderr.String())).
			Warnf("%s exited with status %d", p.binary, exitErr.ExitCode())
		return Output{Text: text, ExitCode: exitCode(err)}, nil
	}
	return Output{}, fmt.Errorf("start %s: %w", p.binary, err)
}

func exitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if code := exitErr.ExitCode(); code != 0 {
			return code
		}
	}
	return -1
}
