//go:build !windows

package embedded

import (
	"context"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/ariel-frischer/occtl/internal/logger"
	"github.com/creack/pty"
	"github.com/muesli/cancelreader"
	"golang.org/x/term"
)

const ptySupported = true

func runPTY(ctx context.Context, argv []string, dir string, started func(pid int)) error {
	// #nosec G204 -- argv is the user's configured assistant command
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = dir

	ptmx, err := pty.Start(cmd)
	if err != nil {
		return err
	}
	defer ptmx.Close()
	started(cmd.Process.Pid)

	resize := make(chan os.Signal, 1)
	signal.Notify(resize, syscall.SIGWINCH)
	defer func() {
		signal.Stop(resize)
		close(resize)
	}()
	go func() {
		for range resize {
			if err := pty.InheritSize(os.Stdin, ptmx); err != nil {
				logger.Debug().Err(err).Msg("resizing pty")
			}
		}
	}()
	resize <- syscall.SIGWINCH

	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		state, err := term.MakeRaw(fd)
		if err == nil {
			defer func() { _ = term.Restore(fd, state) }()
		}
	}

	stop := relayStdin(ptmx)
	// Reading the master fails with EIO once the child exits; that ends the relay.
	_, _ = io.Copy(os.Stdout, ptmx)

	err = cmd.Wait()
	stop()
	return err
}

// relayStdin copies the caller's stdin into w until the returned stop is
// called. Stop returns once the relay no longer reads stdin.
func relayStdin(w io.Writer) (stop func()) {
	return relay(os.Stdin, w)
}

func relay(r io.Reader, w io.Writer) (stop func()) {
	cr, err := cancelreader.NewReader(r)
	if err != nil {
		// Regular files cannot be polled; they reach EOF on their own.
		logger.Debug().Err(err).Msg("stdin relay is not cancelable")
		go func() { _, _ = io.Copy(w, r) }()
		return func() {}
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = io.Copy(w, cr)
	}()
	return func() {
		if cr.Cancel() {
			<-done
		}
		_ = cr.Close()
	}
}
