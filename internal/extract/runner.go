package extract

import (
	"context"
	"os/exec"
)

// CommandRunner abstracts external command execution so PDF extraction can be
// tested without a pdftotext binary.
type CommandRunner interface {
	// Run executes the named command and returns its combined stdout.
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// execRunner runs commands with os/exec.
type execRunner struct{}

// NewExecRunner returns a CommandRunner backed by os/exec.
func NewExecRunner() CommandRunner {
	return &execRunner{}
}

func (r *execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}
