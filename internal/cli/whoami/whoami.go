package whoami

import (
	"context"
	"fmt"
	"io"

	"mrboard/internal/cli/utils"
	"mrboard/internal/clientutils"
	"mrboard/internal/pkg/gitlab"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type connectionTester interface {
	TestConnection(ctx context.Context) *gitlab.ConnectionResult
}

func execute(ctx context.Context, ct connectionTester, url string, out io.Writer) error {
	res := ct.TestConnection(ctx)
	if !res.Success {
		return errors.Errorf("cannot connect to %s: %s", url, res.Error)
	}

	fmt.Fprintf(out, "Connected to %s as %s (@%s)\n", url, res.User.Name, res.User.Username)
	return nil
}

func runCmd(cmd *cobra.Command, args []string) error {
	cl, err := clientutils.ClientFactory{}.DefaultClient(utils.Config())
	if err != nil {
		return err
	}

	return execute(cmd.Context(), cl, cl.URL, cmd.OutOrStdout())
}

func New() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Check the connection and show the authenticated user",
		Args:  cobra.NoArgs,
		Run:   utils.RunCommandWrapper(runCmd),
	}
}
