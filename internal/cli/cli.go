// Package cli holds the process conventions shared by the commands.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/spf13/cobra"

	"github.com/seqsense/pcdpoi/pcd"
)

// UsageError is returned for a wrong number of arguments.
type UsageError struct {
	Usage string
}

func (e *UsageError) Error() string {
	return "usage: " + e.Usage
}

// ExactArgs accepts exactly n positional arguments and reports usage otherwise.
func ExactArgs(n int, usage string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return &UsageError{Usage: usage}
		}
		return nil
	}
}

// Message returns the line printed to the user for err.
func Message(err error) string {
	var ue *UsageError
	switch {
	case errors.As(err, &ue):
		return ue.Error()
	case errors.Is(err, pcd.ErrFileRead):
		return "Cloud reading failed."
	case errors.Is(err, pcd.ErrFileWrite):
		return "Cloud writing failed."
	}
	return err.Error()
}

// Execute runs cmd and returns the process exit code.
// Failures are reported on stdout, details on stderr.
func Execute(cmd *cobra.Command, args []string, stdout, stderr io.Writer) int {
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	if err := cmd.Execute(); err != nil {
		msg := Message(err)
		fmt.Fprintln(stdout, msg)
		if msg != err.Error() {
			fmt.Fprintln(stderr, err)
		}
		return 1
	}
	return 0
}

// NewLogger returns the progress logger of the commands.
func NewLogger(w io.Writer, quiet bool) *log.Logger {
	if quiet {
		return log.New(io.Discard, "", 0)
	}
	return log.New(w, "", log.LstdFlags)
}
