package biometric

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"slices"
	"time"
)

// CommandGate delegates the challenge to an external verifier program such
// as fprintd-verify. Exit status 0 is a pass; CancelledCodes and
// LockedOutCodes classify failures, anything else is reported as
// ErrUserCancelled wrapped with the exit status.
type CommandGate struct {
	Path           string
	Args           []string
	Kind           Kind
	CancelledCodes []int
	LockedOutCodes []int

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	lookPath func(file string) (string, error)
	now      func() time.Time
}

var _ Gate = (*CommandGate)(nil)

// NewCommandGate returns a gate running path with args, wired to the
// process's standard streams so the verifier can prompt the user.
func NewCommandGate(path string, kind Kind, args ...string) *CommandGate {
	return &CommandGate{
		Path:           path,
		Args:           args,
		Kind:           kind,
		CancelledCodes: []int{1},
		LockedOutCodes: []int{2},
		Stdin:          os.Stdin,
		Stdout:         os.Stdout,
		Stderr:         os.Stderr,
		lookPath:       exec.LookPath,
		now:            time.Now,
	}
}

func (g *CommandGate) Probe() Capability {
	if g.Kind == KindNone || g.Path == "" {
		return Capability{Kind: KindNone}
	}
	if _, err := g.lookPath(g.Path); err != nil {
		return Capability{Kind: KindNone}
	}
	return Capability{Available: true, Kind: g.Kind}
}

func (g *CommandGate) Authenticate(ctx context.Context) (Proof, error) {
	if !g.Probe().Available {
		return Proof{}, ErrNotAvailable
	}

	cmd := exec.CommandContext(ctx, g.Path, g.Args...)
	cmd.Stdin = g.Stdin
	cmd.Stdout = g.Stdout
	cmd.Stderr = g.Stderr

	err := cmd.Run()
	if err == nil {
		return Proof{Kind: g.Kind, VerifiedAt: g.now()}, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return Proof{}, fmt.Errorf("%w: %v", ErrUserCancelled, ctxErr)
	}

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return Proof{}, fmt.Errorf("%w: %v", ErrNotAvailable, err)
	}

	code := exitErr.ExitCode()
	switch {
	case slices.Contains(g.LockedOutCodes, code):
		return Proof{}, ErrLockedOut
	case slices.Contains(g.CancelledCodes, code):
		return Proof{}, ErrUserCancelled
	default:
		return Proof{}, fmt.Errorf("%w: verifier exited with status %d", ErrUserCancelled, code)
	}
}
