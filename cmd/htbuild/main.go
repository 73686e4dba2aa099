package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/musicscience37/htbuild/internal/cli"
	htberrors "github.com/musicscience37/htbuild/pkg/errors"
)

func main() {
	ctx, stop := notifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(exitCode(ctx, run(ctx)))
}

func run(ctx context.Context) error {
	c := cli.New(os.Stderr, cli.LogInfo)
	err := c.RootCommand().ExecuteContext(ctx)
	if ferr := c.FlushMetrics(); ferr != nil && err == nil {
		err = ferr
	}
	return err
}

// signalCause is the cancellation cause recorded when a signal arrives.
type signalCause struct{ sig os.Signal }

func (s signalCause) Error() string { return "received " + s.sig.String() }

// notifyContext is like signal.NotifyContext but keeps the signal as the
// context's cause.
func notifyContext(parent context.Context, sigs ...os.Signal) (context.Context, func()) {
	ctx, cancel := context.WithCancelCause(parent)
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, sigs...)
	go func() {
		select {
		case sig := <-ch:
			cancel(signalCause{sig})
		case <-ctx.Done():
		}
	}()
	return ctx, func() {
		signal.Stop(ch)
		cancel(nil)
	}
}

// exitCode maps the command result to a process status, printing the error
// when there is one to print.
func exitCode(ctx context.Context, err error) int {
	if err == nil {
		return 0
	}
	var exitErr *cli.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	if errors.Is(err, context.Canceled) {
		return canceledStatus(context.Cause(ctx))
	}
	fmt.Fprintln(os.Stderr, "Error:", htberrors.UserMessage(err))
	return 1
}

// canceledStatus follows the shell convention of 128+signal: 130 for SIGINT,
// 143 for SIGTERM. A cancellation with no signal behind it reports 130.
func canceledStatus(cause error) int {
	var sc signalCause
	if errors.As(cause, &sc) {
		if s, ok := sc.sig.(syscall.Signal); ok {
			return 128 + int(s)
		}
	}
	return 128 + int(syscall.SIGINT)
}
