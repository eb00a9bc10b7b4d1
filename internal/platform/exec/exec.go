// Package exec runs external tools synchronously with inherited stdio
package exec

import (
	"context"
	"errors"
	"io"
	"os"
	osexec "os/exec"
	"strings"

	perr "apmarchive/internal/platform/errors"
	"apmarchive/internal/platform/logger"
)

// Command describes one external tool invocation. Args are passed verbatim,
// no shell is involved so values need no quoting
type Command struct {
	Name string
	Args []string
	Dir  string
	Env  []string // appended to os.Environ()
}

// String renders the command line for logs
func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// Runner runs a command to completion
type Runner interface {
	Run(ctx context.Context, c Command) error
}

// OS is a Runner backed by os/exec
type OS struct {
	Stdout io.Writer // defaults to os.Stdout
	Stderr io.Writer // defaults to os.Stderr
}

// NewOS returns a Runner that streams the child's output to this process' stdio
func NewOS() *OS { return &OS{} }

// Run starts c and blocks until it exits. A non-zero exit maps to ErrorCodeSubprocess
func (r *OS) Run(ctx context.Context, c Command) error {
	cmd := osexec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}
	cmd.Stdout = r.Stdout
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	cmd.Stderr = r.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	log := logger.C(ctx)
	log.Debug().Str("dir", c.Dir).Str("cmd", c.String()).Msg("exec: starting")

	if err := cmd.Run(); err != nil {
		var exitErr *osexec.ExitError
		if errors.As(err, &exitErr) {
			return perr.WithOp(perr.Wrapf(err, perr.ErrorCodeSubprocess,
				"%s exited with status %d", c.Name, exitErr.ExitCode()), c.String())
		}
		return perr.WithOp(perr.Wrapf(err, perr.ErrorCodeSubprocess, "%s failed to start", c.Name), c.String())
	}
	log.Debug().Str("cmd", c.Name).Msg("exec: finished")
	return nil
}
