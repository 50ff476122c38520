package utils

import (
	"fmt"
	"os"

	"mrboard/internal/domain/mergerequest"
	"mrboard/internal/systemcodes"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var exit = os.Exit

// ExitCode maps an error to the process exit status.
func ExitCode(err error) int {
	if errors.Is(err, mergerequest.ErrCancelled) {
		return systemcodes.ErrorCodeCancelled
	}

	if errors.Is(err, mergerequest.ErrTimedOut) {
		return systemcodes.ErrorCodeTimeout
	}

	var ue *mergerequest.UpstreamError
	if errors.As(err, &ue) {
		return systemcodes.ErrorCodeUpstream
	}

	return systemcodes.ErrorCodeGeneric
}

type runCommandError func(*cobra.Command, []string) error
type runCommandNoError func(*cobra.Command, []string)

func RunCommandWrapper(fn runCommandError) runCommandNoError {
	return func(cmd *cobra.Command, args []string) {
		err := fn(cmd, args)
		if err == nil {
			return
		}

		code := ExitCode(err)
		// Interrupted by the user, nothing worth printing.
		if code != systemcodes.ErrorCodeCancelled {
			fmt.Fprintln(cmd.ErrOrStderr(), err)
		}
		exit(code)
	}
}
